// Package storage provides the data persistence layer for spruce.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrEmptySlice    = errors.New("slice cannot be empty")
	ErrInvalidStatus = errors.New("invalid row status")
	ErrInvalidAlias  = errors.New("invalid alias")
	ErrInvalidReport = errors.New("invalid import report")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateLocations validates a slice of locations.
func validateLocations(locations []model.Location) error {
	if locations == nil {
		return fmt.Errorf("%w: locations", ErrNilParameter)
	}
	if len(locations) == 0 {
		return fmt.Errorf("%w: locations", ErrEmptySlice)
	}
	for i := range locations {
		if err := locations[i].Validate(); err != nil {
			return fmt.Errorf("location at index %d: %w", i, err)
		}
	}
	return nil
}

// validateAlias validates an alias rule.
func validateAlias(alias *model.Alias) error {
	if alias == nil {
		return fmt.Errorf("%w: alias", ErrNilParameter)
	}
	if strings.TrimSpace(alias.Pattern) == "" {
		return fmt.Errorf("%w: missing pattern", ErrInvalidAlias)
	}
	if strings.TrimSpace(alias.LocationID) == "" {
		return fmt.Errorf("%w: missing location id", ErrInvalidAlias)
	}
	if alias.IsRegex {
		if _, err := regexp.Compile(alias.Pattern); err != nil {
			return fmt.Errorf("%w: bad regex %q: %v", ErrInvalidAlias, alias.Pattern, err)
		}
	}
	switch alias.Source {
	case "", model.AliasSourceManual, model.AliasSourceResolved:
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidAlias, alias.Source)
	}
	return nil
}

// validateReport validates an import report before it is persisted.
func validateReport(report *model.ImportReport) error {
	if report == nil {
		return fmt.Errorf("%w: report", ErrNilParameter)
	}
	if strings.TrimSpace(report.SourceFile) == "" {
		return fmt.Errorf("%w: missing source file", ErrInvalidReport)
	}
	seen := make(map[int]bool, len(report.Results))
	for i, res := range report.Results {
		if err := validateStatus(res.Status); err != nil {
			return fmt.Errorf("result at index %d: %w", i, err)
		}
		if seen[res.Row.Number] {
			return fmt.Errorf("%w: duplicate row number %d", ErrInvalidReport, res.Row.Number)
		}
		seen[res.Row.Number] = true
		if res.Score < 0 || res.Score > 1 {
			return fmt.Errorf("%w: score must be between 0 and 1", ErrInvalidReport)
		}
	}
	return nil
}

func validateStatus(status model.RowStatus) error {
	switch status {
	case model.RowMatched, model.RowUnmatched, model.RowResolved, model.RowSkipped:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
}
