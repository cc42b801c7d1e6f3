package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name      string
		str       string
		paramName string
		wantErr   bool
	}{
		{
			name:      "valid string",
			str:       "test",
			paramName: "param",
			wantErr:   false,
		},
		{
			name:      "empty string",
			str:       "",
			paramName: "param",
			wantErr:   true,
		},
		{
			name:      "whitespace only",
			str:       "   ",
			paramName: "param",
			wantErr:   true,
		},
		{
			name:      "string with spaces",
			str:       "  test  ",
			paramName: "param",
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, tt.paramName)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.paramName) {
				t.Errorf("validateString() error should contain param name %s, got %v", tt.paramName, err)
			}
		})
	}
}

func TestValidateLocations(t *testing.T) {
	tests := []struct {
		name      string
		locations []model.Location
		wantErr   error
	}{
		{name: "nil slice", locations: nil, wantErr: ErrNilParameter},
		{name: "empty slice", locations: []model.Location{}, wantErr: ErrEmptySlice},
		{name: "valid", locations: createTestLocations()},
		{name: "missing name", locations: []model.Location{{ID: "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateLocations(tt.locations)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("validateLocations() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if tt.name == "missing name" {
				if err == nil || !strings.Contains(err.Error(), "index 0") {
					t.Errorf("validateLocations() error = %v, want index error", err)
				}
				return
			}
			if err != nil {
				t.Errorf("validateLocations() unexpected error = %v", err)
			}
		})
	}
}

func TestValidateAlias(t *testing.T) {
	tests := []struct {
		alias   *model.Alias
		name    string
		wantErr bool
	}{
		{name: "nil alias", alias: nil, wantErr: true},
		{name: "valid literal", alias: &model.Alias{Pattern: "delilah weho", LocationID: "loc-1"}},
		{name: "valid regex", alias: &model.Alias{Pattern: `^delilah\b`, LocationID: "loc-1", IsRegex: true}},
		{name: "empty pattern", alias: &model.Alias{Pattern: " ", LocationID: "loc-1"}, wantErr: true},
		{name: "missing location", alias: &model.Alias{Pattern: "x"}, wantErr: true},
		{name: "bad regex", alias: &model.Alias{Pattern: "(", LocationID: "loc-1", IsRegex: true}, wantErr: true},
		{name: "unknown source", alias: &model.Alias{Pattern: "x", LocationID: "loc-1", Source: "AUTO"}, wantErr: true},
		{name: "resolved source", alias: &model.Alias{Pattern: "x", LocationID: "loc-1", Source: model.AliasSourceResolved}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAlias(tt.alias)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateAlias() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateReport(t *testing.T) {
	row := func(n int, status model.RowStatus) model.RowResult {
		return model.RowResult{Row: model.ImportRow{Number: n, LocationName: "x"}, Status: status, Method: model.MethodNone}
	}

	tests := []struct {
		report  *model.ImportReport
		name    string
		wantErr bool
	}{
		{name: "nil report", report: nil, wantErr: true},
		{name: "missing source", report: &model.ImportReport{}, wantErr: true},
		{name: "empty results", report: &model.ImportReport{SourceFile: "a.csv"}},
		{
			name:   "valid",
			report: &model.ImportReport{SourceFile: "a.csv", Results: []model.RowResult{row(2, model.RowMatched), row(3, model.RowUnmatched)}},
		},
		{
			name:    "duplicate rows",
			report:  &model.ImportReport{SourceFile: "a.csv", Results: []model.RowResult{row(2, model.RowMatched), row(2, model.RowUnmatched)}},
			wantErr: true,
		},
		{
			name:    "bad status",
			report:  &model.ImportReport{SourceFile: "a.csv", Results: []model.RowResult{row(2, "pending")}},
			wantErr: true,
		},
		{
			name: "score out of range",
			report: &model.ImportReport{SourceFile: "a.csv", Results: []model.RowResult{
				{Row: model.ImportRow{Number: 2}, Status: model.RowMatched, Score: 1.5},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateReport(tt.report)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateReport() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
