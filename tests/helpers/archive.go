// Package helpers provides shared constructors for tests.
package helpers

import (
	"testing"

	"github.com/traitflow/traitflow/internal/repository"
)

func NewTestArchive(t *testing.T) *repository.SQLiteArchive {
	t.Helper()

	a, err := repository.NewSQLiteArchive(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite archive: %v", err)
	}

	t.Cleanup(func() {
		_ = a.Close()
	})

	return a
}
