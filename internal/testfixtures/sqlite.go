package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/meetingroom-booking/internal/persistence/sqlite"
)

// NewSQLiteStore opens a migrated SQLite store backed by a temporary file for
// integration-style tests. The store is closed automatically when the test
// finishes.
func NewSQLiteStore(tb testing.TB) *sqlite.Store {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "booking.db")

	store, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	tb.Cleanup(func() { _ = store.Close() })
	return store
}
