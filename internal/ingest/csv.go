// Package ingest reads uploaded review CSV files into a cleaned Dataset.
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

	"golang.org/x/text/encoding/charmap"
)

// TextColumn is the required review text header, matched exactly.
const TextColumn = "Reviews"

const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// missingMarkers are cell values treated as absent, compared after trimming.
var missingMarkers = map[string]struct{}{
	"-nan": {}, "-NaN": {},
	"null": {}, "NULL": {}, "None": {},
	"NA": {}, "N/A": {}, "n/a": {}, "<NA>": {}, "#N/A": {},
}

// Dataset is the cleaned content of one upload. Only rows with a non-empty
// review text are kept.
type Dataset struct {
	Filename string
	Encoding string

	columns []string
	index   map[string]int
	rows    [][]string
	texts   []string
	dropped int
}

func (d *Dataset) Columns() []string { return append([]string(nil), d.columns...) }

// Len is the number of retained rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Dropped is the number of rows removed during cleaning.
func (d *Dataset) Dropped() int { return d.dropped }

// Texts returns the review text of every retained row, in file order.
func (d *Dataset) Texts() []string { return append([]string(nil), d.texts...) }

func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Value returns the trimmed cell of a retained row. The bool is false when the
// column does not exist or the cell is missing.
func (d *Dataset) Value(row int, column string) (string, bool) {
	idx, ok := d.index[column]
	if !ok || row < 0 || row >= len(d.rows) {
		return "", false
	}
	record := d.rows[row]
	if idx >= len(record) {
		return "", false
	}
	v := strings.TrimSpace(record[idx])
	if IsMissing(v) {
		return "", false
	}
	return v, true
}

// IsMissing reports whether a trimmed cell value counts as absent.
func IsMissing(v string) bool {
	if v == "" || strings.EqualFold(v, "nan") {
		return true
	}
	_, ok := missingMarkers[v]
	return ok
}

// Parse decodes, validates and cleans an uploaded CSV file.
func Parse(data []byte, filename string) (*Dataset, error) {
	header, records, encoding, err := decodeAndRead(bytes.TrimPrefix(data, utf8BOM))
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		Filename: filename,
		Encoding: encoding,
		columns:  header,
		index:    make(map[string]int, len(header)),
	}
	for i, name := range header {
		if _, dup := ds.index[name]; !dup {
			ds.index[name] = i
		}
	}

	textIdx, ok := ds.index[TextColumn]
	if !ok {
		return nil, &SchemaError{
			Missing:    []string{TextColumn},
			Available:  ds.Columns(),
			NearMisses: nearMisses(header),
		}
	}

	for _, record := range records {
		if textIdx >= len(record) {
			ds.dropped++
			continue
		}
		text := strings.TrimSpace(record[textIdx])
		if IsMissing(text) {
			ds.dropped++
			continue
		}
		ds.rows = append(ds.rows, record)
		ds.texts = append(ds.texts, text)
	}

	if len(ds.rows) == 0 {
		return nil, &EmptyDataError{Column: TextColumn}
	}

	slog.Info("[Ingest] Parsed upload",
		slog.String("file", filename),
		slog.String("encoding", encoding),
		slog.Int("rows", len(ds.rows)),
		slog.Int("dropped", ds.dropped))
	return ds, nil
}

// decodeAndRead tries UTF-8 first and retries with Latin-1 when the bytes are
// not valid UTF-8 or do not parse as CSV.
func decodeAndRead(data []byte) ([]string, [][]string, string, error) {
	var utf8Err error
	if utf8.Valid(data) {
		header, records, err := readCSV(data)
		if err == nil {
			return header, records, EncodingUTF8, nil
		}
		utf8Err = err
	} else {
		utf8Err = errors.New("invalid utf-8 byte sequence")
	}

	slog.Warn("[Ingest] UTF-8 read failed, retrying as latin-1",
		slog.String("error", utf8Err.Error()))

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err == nil {
		var header []string
		var records [][]string
		header, records, err = readCSV(decoded)
		if err == nil {
			return header, records, EncodingLatin1, nil
		}
	}

	return nil, nil, "", &DecodeError{
		Encodings: []string{EncodingUTF8, EncodingLatin1},
		Err:       fmt.Errorf("%s: %v; %s: %w", EncodingUTF8, utf8Err, EncodingLatin1, err),
	}
}

// readCSV tolerates stray quotes and short rows but rejects rows with more
// fields than the header.
func readCSV(data []byte) ([]string, [][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	var records [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if len(record) > len(header) {
			line, _ := r.FieldPos(0)
			return nil, nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(header), len(record))
		}
		records = append(records, record)
	}
	return header, records, nil
}

func nearMisses(header []string) []string {
	var out []string
	for _, name := range header {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "review") || strings.Contains(lower, "comment") || strings.Contains(lower, "feedback") {
			out = append(out, name)
		}
	}
	return out
}
