package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/common"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/locmatch"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
)

// SaveAlias creates or replaces the alias for alias.Pattern.
// Literal patterns are stored normalized so lookups are case and space insensitive.
func (s *SQLiteStorage) SaveAlias(ctx context.Context, alias *model.Alias) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAlias(alias); err != nil {
		return err
	}

	if !alias.IsRegex {
		alias.Pattern = locmatch.Normalize(alias.Pattern)
	}
	if alias.Source == "" {
		alias.Source = model.AliasSourceManual
	}
	if alias.CreatedAt.IsZero() {
		alias.CreatedAt = time.Now()
	}

	if _, err := s.GetLocation(ctx, alias.LocationID); err != nil {
		return fmt.Errorf("alias target: %w", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO location_aliases (pattern, location_id, is_regex, priority, source, use_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(pattern) DO UPDATE SET
			location_id = excluded.location_id,
			is_regex = excluded.is_regex,
			priority = excluded.priority,
			source = excluded.source
	`, alias.Pattern, alias.LocationID, alias.IsRegex, alias.Priority, string(alias.Source), alias.UseCount, alias.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save alias: %w", err)
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT id FROM location_aliases WHERE pattern = ?`, alias.Pattern,
	).Scan(&alias.ID); err != nil {
		return fmt.Errorf("failed to read alias id: %w", err)
	}

	s.invalidateAliasCache()
	return nil
}

// GetAliases returns every alias, highest priority first.
func (s *SQLiteStorage) GetAliases(ctx context.Context) ([]model.Alias, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	s.cacheMutex.RLock()
	if s.aliasCache != nil && time.Now().Before(s.cacheExpiry) {
		cached := make([]model.Alias, len(s.aliasCache))
		copy(cached, s.aliasCache)
		s.cacheMutex.RUnlock()
		return cached, nil
	}
	s.cacheMutex.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pattern, location_id, is_regex, priority, source, use_count, created_at
		FROM location_aliases
		ORDER BY priority DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query aliases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	aliases := []model.Alias{}
	for rows.Next() {
		var a model.Alias
		var source string
		if err := rows.Scan(&a.ID, &a.Pattern, &a.LocationID, &a.IsRegex, &a.Priority, &source, &a.UseCount, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alias: %w", err)
		}
		a.Source = model.AliasSource(source)
		aliases = append(aliases, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating aliases: %w", err)
	}

	s.cacheMutex.Lock()
	s.aliasCache = aliases
	s.cacheExpiry = time.Now().Add(aliasCacheTTL)
	s.cacheMutex.Unlock()

	result := make([]model.Alias, len(aliases))
	copy(result, aliases)
	return result, nil
}

// DeleteAlias removes an alias by id.
func (s *SQLiteStorage) DeleteAlias(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM location_aliases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete alias: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("alias %d: %w", id, common.ErrNotFound)
	}

	s.invalidateAliasCache()
	return nil
}

// IncrementAliasUseCount records that an alias matched n import rows.
func (s *SQLiteStorage) IncrementAliasUseCount(ctx context.Context, id int64, n int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if n <= 0 {
		return fmt.Errorf("%w: use count increment must be positive, got %d", ErrInvalidAlias, n)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE location_aliases SET use_count = use_count + ? WHERE id = ?`, n, id)
	if err != nil {
		return fmt.Errorf("failed to increment alias use count: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("alias %d: %w", id, common.ErrNotFound)
	}

	s.invalidateAliasCache()
	return nil
}

func (s *SQLiteStorage) invalidateAliasCache() {
	s.cacheMutex.Lock()
	s.aliasCache = nil
	s.cacheExpiry = time.Time{}
	s.cacheMutex.Unlock()
}
