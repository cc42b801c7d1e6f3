// Package workbook reads venue rows out of operator-authored CSV, XLSX and
// XLS files.
package workbook

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
)

// Workbook errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	ErrEmptySheet        = errors.New("worksheet is empty")
	ErrNoWorksheet       = errors.New("no worksheet found")
	ErrMultipleSheets    = errors.New("multiple worksheets found")
	ErrNoNameColumn      = errors.New("no location name column found")
)

// maxXLSRows bounds how many rows are read from legacy .xls files.
const maxXLSRows = 100000

// Options controls how a workbook is read.
type Options struct {
	// Sheet selects an XLSX worksheet by name. The first sheet is used when empty.
	Sheet string
	// Column names the header holding the venue name. Detected when empty.
	Column string
	// NameKeywords replaces NameHeaderKeywords for detection.
	NameKeywords []string
}

// Record is a data row with its 1-based spreadsheet row number.
type Record struct {
	Cells  []string
	Number int
}

// Cell returns the trimmed cell at col, or an empty string when the row is short.
func (r Record) Cell(col int) string {
	if col < 0 || col >= len(r.Cells) {
		return ""
	}
	return strings.TrimSpace(r.Cells[col])
}

// Sheet is a parsed worksheet with a detected header row.
type Sheet struct {
	Name    string
	Header  []string
	records []Record
	nameCol int
}

// Open reads the spreadsheet at path.
func Open(path string, opts Options) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return Read(f, filepath.Base(path), opts)
}

// Read parses a spreadsheet from r. The format is chosen from filename's extension.
func Read(r io.Reader, filename string, opts Options) (*Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var (
		rows      [][]string
		sheetName string
	)

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv", ".txt":
		rows, err = readCSV(data)
		sheetName = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	case ".xlsx", ".xlsm":
		rows, sheetName, err = readXLSX(data, opts.Sheet)
	case ".xls":
		rows, err = readXLS(data)
		sheetName = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	return FromRows(sheetName, rows, opts)
}

// FromRows builds a Sheet from raw rows. The first non-blank row is the header.
func FromRows(name string, rows [][]string, opts Options) (*Sheet, error) {
	headerIdx := -1
	for i, row := range rows {
		if !isBlank(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrEmptySheet
	}

	header := make([]string, len(rows[headerIdx]))
	for i, h := range rows[headerIdx] {
		header[i] = strings.TrimSpace(h)
	}

	keywords := NameHeaderKeywords
	if len(opts.NameKeywords) > 0 {
		keywords = opts.NameKeywords
	}
	nameCol, err := DetectColumn(header, opts.Column, keywords)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoNameColumn, err)
	}

	records := make([]Record, 0, len(rows)-headerIdx-1)
	for i := headerIdx + 1; i < len(rows); i++ {
		if isBlank(rows[i]) {
			continue
		}
		records = append(records, Record{Number: i + 1, Cells: rows[i]})
	}

	return &Sheet{
		Name:    name,
		Header:  header,
		records: records,
		nameCol: nameCol,
	}, nil
}

// NameColumn returns the header of the venue name column.
func (s *Sheet) NameColumn() string {
	return s.Header[s.nameCol]
}

// Records returns the data rows in sheet order.
func (s *Sheet) Records() []Record {
	return s.records
}

// Rows returns the data rows as import rows keyed by header.
func (s *Sheet) Rows() []model.ImportRow {
	rows := make([]model.ImportRow, 0, len(s.records))
	for _, rec := range s.records {
		fields := make(map[string]string, len(s.Header))
		for col, h := range s.Header {
			if h == "" {
				continue
			}
			if v := rec.Cell(col); v != "" {
				fields[h] = v
			}
		}
		rows = append(rows, model.ImportRow{
			Number:       rec.Number,
			LocationName: rec.Cell(s.nameCol),
			Fields:       fields,
		})
	}
	return rows
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

func readXLSX(data []byte, sheet string) ([][]string, string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	if sheet == "" {
		sheet = file.GetSheetName(0)
		if sheet == "" {
			return nil, "", ErrNoWorksheet
		}
	} else if idx, idxErr := file.GetSheetIndex(sheet); idxErr != nil || idx < 0 {
		return nil, "", fmt.Errorf("%w: %q", ErrNoWorksheet, sheet)
	}

	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read worksheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, "", ErrEmptySheet
	}
	return rows, sheet, nil
}

func readXLS(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if workbook.NumSheets() == 0 {
		return nil, ErrNoWorksheet
	}
	if workbook.NumSheets() > 1 {
		return nil, fmt.Errorf("%w; save the sheet to import on its own", ErrMultipleSheets)
	}

	rows := workbook.ReadAllCells(maxXLSRows)
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}
	return rows, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
