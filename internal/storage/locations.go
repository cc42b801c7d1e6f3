package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/common"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
)

// SaveLocation inserts or updates a single catalog location.
func (s *SQLiteStorage) SaveLocation(ctx context.Context, location *model.Location) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if location == nil {
		return fmt.Errorf("%w: location", ErrNilParameter)
	}
	if err := location.Validate(); err != nil {
		return err
	}
	return s.saveLocationTx(ctx, s.db, location)
}

// SaveLocations upserts a batch of locations in one transaction.
func (s *SQLiteStorage) SaveLocations(ctx context.Context, locations []model.Location) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateLocations(locations); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for i := range locations {
		if err = s.saveLocationTx(ctx, tx, &locations[i]); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit locations: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) saveLocationTx(ctx context.Context, q queryable, location *model.Location) error {
	now := time.Now()
	if location.CreatedAt.IsZero() {
		location.CreatedAt = now
	}
	location.UpdatedAt = now

	_, err := q.ExecContext(ctx, `
		INSERT INTO locations (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at
	`, location.ID, location.Name, location.CreatedAt, location.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save location %s: %w", location.ID, err)
	}
	return nil
}

// GetLocation returns a single location by id.
func (s *SQLiteStorage) GetLocation(ctx context.Context, id string) (*model.Location, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var loc model.Location
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM locations
		WHERE id = ?
	`, id).Scan(&loc.ID, &loc.Name, &loc.CreatedAt, &loc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("location %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	return &loc, nil
}

// GetLocations returns the whole catalog in a stable order.
func (s *SQLiteStorage) GetLocations(ctx context.Context) ([]model.Location, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM locations
		ORDER BY name COLLATE NOCASE, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var locations []model.Location
	for rows.Next() {
		var loc model.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.CreatedAt, &loc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

// DeleteLocation removes a location. Its aliases go with it.
func (s *SQLiteStorage) DeleteLocation(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("location %s: %w", id, common.ErrNotFound)
	}

	s.invalidateAliasCache()
	return nil
}

// LocationCount returns the number of catalog entries.
func (s *SQLiteStorage) LocationCount(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM locations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count locations: %w", err)
	}
	return count, nil
}
