// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Location catalog operations
	SaveLocation(ctx context.Context, location *model.Location) error
	SaveLocations(ctx context.Context, locations []model.Location) error
	GetLocation(ctx context.Context, id string) (*model.Location, error)
	GetLocations(ctx context.Context) ([]model.Location, error)
	DeleteLocation(ctx context.Context, id string) error
	LocationCount(ctx context.Context) (int, error)

	// Alias operations
	SaveAlias(ctx context.Context, alias *model.Alias) error
	GetAliases(ctx context.Context) ([]model.Alias, error)
	DeleteAlias(ctx context.Context, id int64) error
	IncrementAliasUseCount(ctx context.Context, id int64, n int) error

	// Import run operations
	SaveImportRun(ctx context.Context, report *model.ImportReport) (int64, error)
	GetImportRuns(ctx context.Context, limit int) ([]model.ImportRun, error)
	GetImportRun(ctx context.Context, id int64) (*model.ImportRun, error)
	GetImportResults(ctx context.Context, runID int64) ([]model.RowResult, error)
	GetUnmatchedResults(ctx context.Context, runID int64) ([]model.RowResult, error)
	ResolveResult(ctx context.Context, runID int64, rowNumber int, locationID string, method model.MatchMethod) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// ReportWriter exports a reconciled import somewhere outside the local database.
type ReportWriter interface {
	Write(ctx context.Context, report *model.ImportReport) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
