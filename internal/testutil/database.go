// Package testutil provides shared test helpers for spruce packages.
package testutil

import (
	"context"
	"testing"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/service"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/storage"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/testutil/locations"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage   service.Storage
	t         *testing.T
	Locations []model.Location
}

// SetupTestDB creates a new in-memory test database seeded with locs.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t, locations.RestaurantGroup)
func SetupTestDB(t *testing.T, locs []model.Location) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{Locations: locs})
}

// SetupTestDBWithBuilder creates a test database from a location builder.
func SetupTestDBWithBuilder(t *testing.T, configure func(*locations.Builder) *locations.Builder) *TestDB {
	t.Helper()

	builder := locations.NewBuilder(t)
	if configure != nil {
		builder = configure(builder)
	}
	return SetupTestDB(t, builder.Locations())
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup func(context.Context, service.Storage) error
	Locations   []model.Location
	Aliases     []model.Alias
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
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	locs := append([]model.Location(nil), opts.Locations...)
	if len(locs) > 0 {
		if err := store.SaveLocations(ctx, locs); err != nil {
			t.Fatalf("failed to seed locations: %v", err)
		}
	}

	for _, alias := range opts.Aliases {
		if err := store.SaveAlias(ctx, &alias); err != nil {
			t.Fatalf("failed to seed alias %q: %v", alias.Pattern, err)
		}
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return &TestDB{
		Storage:   store,
		Locations: locs,
		t:         t,
	}
}

// MustLocation returns the seeded location with id or fails the test.
func (db *TestDB) MustLocation(id string) model.Location {
	db.t.Helper()
	for _, loc := range db.Locations {
		if loc.ID == id {
			return loc
		}
	}
	db.t.Fatalf("location %q not seeded", id)
	return model.Location{}
}
