package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/common"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
)

func createTestReport() *model.ImportReport {
	results := []model.RowResult{
		{
			Row:          model.ImportRow{Number: 2, LocationName: "Delilah (WeHo)"},
			LocationID:   "loc-1",
			LocationName: "Delilah (West Hollywood)",
			Method:       model.MethodAuto,
			Rule:         "suffix-match",
			Status:       model.RowMatched,
			Score:        0.95,
		},
		{
			Row:    model.ImportRow{Number: 3, LocationName: "Mystery Spot"},
			Method: model.MethodNone,
			Status: model.RowUnmatched,
			Score:  0.2,
		},
	}
	return &model.ImportReport{
		StartedAt:  time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		SourceFile: "orders.xlsx",
		Sheet:      "March",
		RunID:      7,
		Results:    results,
		Summary:    model.Summarize(results),
	}
}

func TestSummaryValues(t *testing.T) {
	values := summaryValues(createTestReport())

	assert.Equal(t, []any{"Import Reconciliation", "orders.xlsx [March]"}, values[0])
	assert.Equal(t, []any{"Started", "2024-03-01 09:30:00"}, values[1])
	assert.Equal(t, []any{"Run", "#7"}, values[2])
	assert.Contains(t, values, []any{"Total", 2})
	assert.Contains(t, values, []any{"Matched", 1})
	assert.Contains(t, values, []any{"Unmatched", 1})

	dry := createTestReport()
	dry.RunID = 0
	dry.Sheet = ""
	values = summaryValues(dry)
	assert.Equal(t, "orders.xlsx", values[0][1])
	assert.Equal(t, "dry run", values[2][1])
}

func TestRowValues(t *testing.T) {
	report := createTestReport()

	rows := rowValues(report.Results)
	require.Len(t, rows, 3)
	assert.Equal(t, rowHeader, rows[0])
	assert.Equal(t, []any{2, "Delilah (WeHo)", "loc-1", "Delilah (West Hollywood)", "auto", "suffix-match", "0.950", "matched"}, rows[1])

	open := unmatchedValues(report)
	require.Len(t, open, 2)
	assert.Equal(t, "Mystery Spot", open[1][1])
}

func TestTabHelpers(t *testing.T) {
	ids := sheetIDs(&sheets.Spreadsheet{Sheets: []*sheets.Sheet{
		{Properties: &sheets.SheetProperties{Title: SummaryTab, SheetId: 0}},
		{Properties: &sheets.SheetProperties{Title: "Notes", SheetId: 4}},
	}})
	assert.Equal(t, []string{RowsTab, UnmatchedTab}, missingTabs(ids))

	// Three requests per known tab
	assert.Len(t, formattingRequests(ids), 3)
	assert.Empty(t, formattingRequests(map[string]int64{}))
}

func TestMockWriter(t *testing.T) {
	mock := NewMockWriter()
	report := createTestReport()

	require.NoError(t, mock.Write(context.Background(), report))
	assert.Same(t, report, mock.LastReport)

	boom := errors.New("quota")
	mock.SetWriteError(boom)
	assert.ErrorIs(t, mock.Write(context.Background(), report), boom)

	calls := mock.GetWriteCalls()
	require.Len(t, calls, 2)
	assert.NoError(t, calls[0].Error)
	assert.ErrorIs(t, calls[1].Error, boom)
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}

	require.NoError(t, SaveToken(path, token))
	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "refresh", loaded.RefreshToken)

	_, err = LoadToken(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestCallbackHandler(t *testing.T) {
	codes := make(chan string, 1)
	errs := make(chan error, 1)
	handler := callbackHandler("abc", codes, errs)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/callback?state=wrong&code=x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Error(t, <-errs)

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/callback?state=abc&code=the-code", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "the-code", <-codes)
}

func TestClassifyAPIError(t *testing.T) {
	assert.NoError(t, classifyAPIError(nil))

	plain := errors.New("connection reset")
	assert.Same(t, plain, classifyAPIError(plain))

	throttled := classifyAPIError(fmt.Errorf("write: %w", &googleapi.Error{Code: http.StatusTooManyRequests}))
	assert.ErrorIs(t, throttled, common.ErrRateLimit)

	var retryable *common.RetryableError
	require.ErrorAs(t, classifyAPIError(&googleapi.Error{Code: http.StatusServiceUnavailable}), &retryable)
	assert.True(t, retryable.Retryable)

	require.ErrorAs(t, classifyAPIError(&googleapi.Error{Code: http.StatusForbidden}), &retryable)
	assert.False(t, retryable.Retryable)
}
