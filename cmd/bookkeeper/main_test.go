package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupCLI points the commands at a fresh database under a temporary home.
func setupCLI(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("BOOKKEEPER_DATABASE_PATH", filepath.Join(home, "books.db"))
	return home
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRootCmd_Commands(t *testing.T) {
	root := newRootCmd()
	want := map[string][]string{
		"import":       {"csv", "ofx"},
		"categories":   {"list", "add", "init", "import"},
		"categorize":   nil,
		"pnl":          nil,
		"files":        {"list", "rename", "delete", "clean"},
		"transactions": {"search", "set-category"},
		"serve":        nil,
		"sheets":       {"auth"},
		"version":      nil,
	}

	for name, subs := range want {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		require.Equal(t, name, cmd.Name())
		for _, sub := range subs {
			found := false
			for _, c := range cmd.Commands() {
				if c.Name() == sub {
					found = true
				}
			}
			assert.True(t, found, "%s %s", name, sub)
		}
	}
}

func TestImportCmd_Flags(t *testing.T) {
	cmd := importCmd()
	var csvCmd *cobra.Command
	for _, c := range cmd.Commands() {
		if c.Name() == "csv" {
			csvCmd = c
		}
	}
	require.NotNil(t, csvCmd)
	for _, flag := range []string{"date-col", "description-col", "amount-col", "category-col", "name", "force", "categorize"} {
		assert.NotNil(t, csvCmd.Flag(flag), flag)
	}
}

func TestVersionCmd(t *testing.T) {
	setupCLI(t)
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "bookkeeper dev\n", out)
}

func TestInvalidLogLevel(t *testing.T) {
	setupCLI(t)
	_, err := execute(t, "", "--log-level", "loud", "version")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestWorkflow(t *testing.T) {
	home := setupCLI(t)

	out, err := execute(t, "", "categories", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Added 22 starter categories")

	out, err = execute(t, "", "categories", "add", "client's gifts", "--type", "expense")
	require.NoError(t, err)
	assert.Contains(t, out, `Added "Clients Gifts" (Expense)`)

	_, err = execute(t, "", "categories", "add", "Yacht", "--type", "luxury")
	assert.Error(t, err)

	csvPath := writeFile(t, home, "jan.csv", `Posted,Memo,Value,Category,Reference
2024-01-02,STRIPE PAYOUT 8812,"1,000.00",Sales Revenue,R1
2024-01-05,OAK STREET PROPERTY MGMT,(400.00),Rent,R2
2024-02-05,OAK STREET PROPERTY MGMT,(400.00),,R3
2024-02-09,FIGMA SUBSCRIPTION,-15,Design Tools,R4
`)

	out, err = execute(t, "", "import", "csv", csvPath,
		"--date-col", "Posted", "--description-col", "Memo", "--amount-col", "Value", "--category-col", "Category")
	require.NoError(t, err)
	assert.Contains(t, out, `Imported 4 transactions as "jan.csv" (file 1)`)
	assert.Contains(t, out, "Design Tools")

	_, err = execute(t, "", "import", csvPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already imported")

	out, err = execute(t, "", "files", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "jan.csv")

	out, err = execute(t, "", "categorize")
	require.NoError(t, err)
	assert.Contains(t, out, "File 1:")

	out, err = execute(t, "", "transactions", "search", "oak street")
	require.NoError(t, err)
	assert.Contains(t, out, "2 transactions")
	assert.Contains(t, out, "($400.00)")

	out, err = execute(t, "", "transactions", "set-category", "1", "4", "office supplies", "--remember")
	require.NoError(t, err)
	assert.Contains(t, out, `set to "Office Supplies" and remembered`)

	csvOut := filepath.Join(home, "pnl.csv")
	_, err = execute(t, "", "pnl", "--format", "csv", "--starting-cash", "100", "--output", csvOut)
	require.NoError(t, err)
	data, err := os.ReadFile(csvOut)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "Type,Category,2024-01,2024-02,Total", lines[0])
	assert.Contains(t, string(data), ",Net Income,600.00,-415.00,185.00")
	assert.Contains(t, string(data), ",Ending Cash,700.00,285.00,285.00")

	out, err = execute(t, "", "pnl", "--from", "2024-02-01")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-02")
	assert.NotContains(t, out, "2024-01")

	_, err = execute(t, "", "pnl", "--from", "02/01/2024")
	assert.Error(t, err)

	out, err = execute(t, "", "files", "rename", "1", "January")
	require.NoError(t, err)
	assert.Contains(t, out, `Renamed file 1 to "January"`)

	out, err = execute(t, "", "files", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted file 1")

	_, err = execute(t, "", "files", "delete", "1")
	assert.Error(t, err)
}

func TestCategorize_Review(t *testing.T) {
	home := setupCLI(t)

	_, err := execute(t, "", "categories", "init")
	require.NoError(t, err)

	csvPath := writeFile(t, home, "feb.csv", "Date,Description,Amount\n2024-02-01,Corner cafe lunch,-12.50\n")
	_, err = execute(t, "", "import", csvPath)
	require.NoError(t, err)

	out, err := execute(t, "c\nmeals & entertainment\n", "categorize", "--review")
	require.NoError(t, err)
	assert.Contains(t, out, "Reviewed: 0 accepted, 1 changed, 0 skipped")

	out, err = execute(t, "", "transactions", "search", "cafe")
	require.NoError(t, err)
	assert.Contains(t, out, "Meals & Entertainment")
}
