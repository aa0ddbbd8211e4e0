package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/gocarina/gocsv"

	"github.com/ppiankov/compliancespectre/internal/finding"
)

// Separator is the field delimiter of compliance exports.
const Separator = ';'

var (
	// ErrEncoding is returned for sources that are not valid UTF-8.
	ErrEncoding = errors.New("not valid UTF-8")
	// ErrNoRows is returned for header-only or empty sources.
	ErrNoRows = errors.New("no data rows")
	// ErrNoCheckColumn is returned when the CHECKID column is missing.
	ErrNoCheckColumn = errors.New("missing " + finding.ColCheckID + " column")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// rowsReader feeds pre-validated rows to gocsv.
type rowsReader struct {
	rows [][]string
	pos  int
}

func (r *rowsReader) Read() ([]string, error) {
	if r.pos >= len(r.rows) {
		return nil, io.EOF
	}
	row := r.rows[r.pos]
	r.pos++
	return row, nil
}

func (r *rowsReader) ReadAll() ([][]string, error) {
	rest := r.rows[r.pos:]
	r.pos = len(r.rows)
	return rest, nil
}

// ParseCSV decodes one ';'-separated compliance export. Rows whose field
// count differs from the header are skipped. name becomes the table's raw
// framework identifier.
func ParseCSV(name string, r io.Reader) (*finding.RawTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("decode %s: %w", name, ErrEncoding)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = Separator
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse %s: %w", name, ErrNoRows)
	}

	header := make([]string, len(records[0]))
	columns := make(map[string]bool, len(header))
	for i, h := range records[0] {
		header[i] = strings.ToUpper(strings.TrimSpace(h))
		columns[header[i]] = true
	}
	if !columns[finding.ColCheckID] {
		return nil, fmt.Errorf("parse %s: %w", name, ErrNoCheckColumn)
	}

	rows := [][]string{header}
	bad := 0
	for _, rec := range records[1:] {
		if len(rec) != len(header) {
			bad++
			continue
		}
		rows = append(rows, rec)
	}
	if bad > 0 {
		slog.Warn("Skipped malformed rows", "file", name, "count", bad)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("parse %s: %w", name, ErrNoRows)
	}

	var out []finding.RawRecord
	if err := gocsv.UnmarshalCSV(&rowsReader{rows: rows}, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return &finding.RawTable{Name: name, Columns: columns, Records: out}, nil
}
