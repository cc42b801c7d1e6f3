package model

import "time"

// AliasSource indicates how an alias rule was created.
type AliasSource string

const (
	// AliasSourceManual indicates the alias was added via the CLI.
	AliasSourceManual AliasSource = "MANUAL"
	// AliasSourceResolved indicates the alias was remembered while resolving an unmatched import row.
	AliasSourceResolved AliasSource = "RESOLVED"
)

// Alias maps an imported venue name straight to a canonical location.
// Pattern is stored normalized unless IsRegex is set.
type Alias struct {
	CreatedAt  time.Time
	Pattern    string
	LocationID string
	Source     AliasSource
	ID         int64
	Priority   int
	UseCount   int
	IsRegex    bool
}
