package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Driver identifies the backing datastore.
type Driver string

const (
	// DriverSQLite is the zero-infrastructure local mode.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres is the multi-process server mode.
	DriverPostgres Driver = "postgres"
)

// ParseDriver maps config input to a Driver.
func ParseDriver(text string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "sqlite", "sqlite3", "local":
		return DriverSQLite, nil
	case "postgres", "postgresql", "pgx":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("unknown database driver %q", text)
	}
}

// Config holds datastore connection settings.
type Config struct {
	Driver     Driver
	SQLitePath string
	URL        string
	MaxConns   int
}

// DefaultSQLitePath returns the default local database location,
// ~/.tempo/tempo.db.
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tempo.db"
	}
	return filepath.Join(home, ".tempo", "tempo.db")
}

// EnsureDirectory creates the parent directory of path if it is missing.
func EnsureDirectory(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
