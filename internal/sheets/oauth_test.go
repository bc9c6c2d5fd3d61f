package sheets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestSaveAndLoadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}

	require.NoError(t, saveToken(path, token))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "refresh", loaded.RefreshToken)
	assert.Equal(t, "access", loaded.AccessToken)
}

func TestLoadToken_Errors(t *testing.T) {
	_, err := LoadToken(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0600))
	_, err = LoadToken(bad)
	require.Error(t, err)
}

func TestGetOrCreateToken_UsesSavedToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, saveToken(path, &oauth2.Token{RefreshToken: "saved"}))

	token, err := GetOrCreateToken(context.Background(), OAuth2Config{
		ClientID:     "id",
		ClientSecret: "secret",
		TokenFile:    path,
	})
	require.NoError(t, err)
	assert.Equal(t, "saved", token.RefreshToken)
}

func TestAuthenticateOAuth2Interactive_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var consentURL string
	_, err := AuthenticateOAuth2Interactive(ctx, OAuth2Config{
		ClientID:     "id",
		ClientSecret: "secret",
		CallbackAddr: "127.0.0.1:0",
		OpenURL: func(url string) {
			consentURL = url
			cancel()
		},
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, consentURL, "access_type=offline")
	assert.Contains(t, consentURL, "client_id=id")
}
