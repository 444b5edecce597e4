// Package testutil provides shared fixtures and database helpers for tests.
package testutil

import (
	"context"
	"testing"

	"github.com/PUSHPAK-96/cartwise/internal/model"
	"github.com/PUSHPAK-96/cartwise/internal/storage"
)

// TestDB is a migrated in-memory dataset store.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database seeded with fixtures.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t, testutil.FixtureGroceries)
func SetupTestDB(t *testing.T, fixtures ...Fixture) *TestDB {
	t.Helper()

	datasets := make(map[string][]model.Transaction, len(fixtures))
	for _, f := range fixtures {
		datasets[f.Name()] = f.Transactions()
	}
	return SetupTestDBWithOptions(t, TestDBOptions{Datasets: datasets})
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	Datasets       map[string][]model.Transaction
	SkipMigrations bool
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	db := &TestDB{Storage: store, t: t}
	for name, txns := range opts.Datasets {
		db.MustSaveDataset(name, txns)
	}
	return db
}

// MustSaveDataset stores txns under name or fails the test.
func (db *TestDB) MustSaveDataset(name string, txns []model.Transaction) *model.Dataset {
	db.t.Helper()

	d, err := db.Storage.SaveDataset(context.Background(), name, txns)
	if err != nil {
		db.t.Fatalf("failed to seed dataset %q: %v", name, err)
	}
	return d
}
