package testutil

import (
	"path/filepath"
	"testing"
)

// TempSQLitePath returns a database path inside the test's temp dir.
func TempSQLitePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "history.db")
}
