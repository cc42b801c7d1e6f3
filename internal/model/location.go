// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Location is a canonical service location (a restaurant, venue or site)
// from the system of record.
type Location struct {
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
}

// Validate checks that the location carries an id and a display name.
func (l Location) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("location id is required")
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("location name is required for %q", l.ID)
	}
	return nil
}

// LocationIndex maps location ids to locations for quick lookups.
type LocationIndex map[string]Location

// IndexLocations builds a LocationIndex from a catalog.
func IndexLocations(catalog []Location) LocationIndex {
	idx := make(LocationIndex, len(catalog))
	for _, loc := range catalog {
		idx[loc.ID] = loc
	}
	return idx
}

// Name returns the display name for id, or an empty string.
func (idx LocationIndex) Name(id string) string {
	return idx[id].Name
}
