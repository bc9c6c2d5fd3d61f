package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultDatabasePath is used when database.path is not set.
var DefaultDatabasePath = filepath.Join(Dir, "bookkeeper.db")

// DatabasePath returns the expanded SQLite database path.
func DatabasePath() string {
	if path := viper.GetString("database.path"); path != "" {
		return ExpandPath(path)
	}
	return ExpandPath(DefaultDatabasePath)
}

// ServerAddr returns the listen address of the HTTP API, or "" for the default.
func ServerAddr() string {
	return viper.GetString("server.addr")
}

// HistoryLimit returns how many categorized rows feed similarity matching, or 0 for the
// default.
func HistoryLimit() int {
	return viper.GetInt("categorize.history_limit")
}

// CertDir holds the self-signed certificate used by serve --tls.
func CertDir() string {
	if dir := viper.GetString("server.cert_dir"); dir != "" {
		return ExpandPath(dir)
	}
	return ExpandPath(filepath.Join(Dir, "certs"))
}
