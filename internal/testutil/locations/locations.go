// Package locations provides a fluent builder for seeding location catalogs in tests.
//
// Example usage:
//
//	catalog := locations.NewBuilder(t).
//		WithRestaurantGroup().
//		WithLocation("custom-1", "Custom Venue").
//		Locations()
package locations

import (
	"context"
	"fmt"
	"testing"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/service"
)

// Well-known fixture ids.
const (
	DelilahWeHo    = "delilah-weho"
	DelilahMiami   = "delilah-miami"
	NiceGuy        = "nice-guy"
	BirdStreets    = "bird-streets"
	PoppyLA        = "poppy-la"
	TheRoxy        = "the-roxy"
	ClubhouseSouth = "clubhouse-south"
)

// RestaurantGroup is a small multi-branch catalog used across tests.
var RestaurantGroup = []model.Location{
	{ID: DelilahWeHo, Name: "Delilah (West Hollywood)"},
	{ID: DelilahMiami, Name: "Delilah (Miami)"},
	{ID: NiceGuy, Name: "The Nice Guy"},
	{ID: BirdStreets, Name: "Bird Streets Club"},
	{ID: PoppyLA, Name: "Poppy - Los Angeles"},
	{ID: TheRoxy, Name: "The Roxy Theatre"},
	{ID: ClubhouseSouth, Name: "Clubhouse (South Beach)"},
}

// Builder accumulates catalog entries. Later entries with a repeated id replace earlier ones.
type Builder struct {
	t     *testing.T
	byID  map[string]int
	items []model.Location
}

// NewBuilder creates an empty builder.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t, byID: make(map[string]int)}
}

// WithLocation adds a single location.
func (b *Builder) WithLocation(id, name string) *Builder {
	b.t.Helper()
	loc := model.Location{ID: id, Name: name}
	if err := loc.Validate(); err != nil {
		b.t.Fatalf("invalid fixture location: %v", err)
	}
	if i, ok := b.byID[id]; ok {
		b.items[i] = loc
		return b
	}
	b.byID[id] = len(b.items)
	b.items = append(b.items, loc)
	return b
}

// WithRestaurantGroup adds every RestaurantGroup location.
func (b *Builder) WithRestaurantGroup() *Builder {
	b.t.Helper()
	for _, loc := range RestaurantGroup {
		b.WithLocation(loc.ID, loc.Name)
	}
	return b
}

// Locations returns a copy of the accumulated catalog in insertion order.
func (b *Builder) Locations() []model.Location {
	out := make([]model.Location, len(b.items))
	copy(out, b.items)
	return out
}

// Build saves the catalog into storage and returns it.
func (b *Builder) Build(ctx context.Context, storage service.Storage) ([]model.Location, error) {
	locs := b.Locations()
	if len(locs) == 0 {
		return locs, nil
	}
	if err := storage.SaveLocations(ctx, locs); err != nil {
		return nil, fmt.Errorf("failed to seed locations: %w", err)
	}
	return locs, nil
}
