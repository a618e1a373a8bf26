package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Row holds one CSV record keyed by normalised header. Values are trimmed;
// blank cells are absent from the map.
type Row map[string]string

// Document is a parsed CSV file.
type Document struct {
	Headers []string
	Rows    []Row
}

var (
	headerSpaces  = regexp.MustCompile(`\s+`)
	headerStrip   = regexp.MustCompile(`[^\w\s%]`)
	ukDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// NormalizeHeader canonicalises a column heading: surrounding whitespace is
// trimmed, runs of internal whitespace collapse to a single space, and
// punctuation other than % is dropped. "English %" and "10% top up" survive
// intact.
func NormalizeHeader(header string) string {
	normalized := strings.TrimSpace(header)
	normalized = headerSpaces.ReplaceAllString(normalized, " ")
	normalized = headerStrip.ReplaceAllString(normalized, "")
	return strings.TrimSpace(normalized)
}

// Parse reads a CSV document. The delimiter is guessed from the header line
// (comma, semicolon, tab or pipe), headers are normalised, and rows whose
// cells are all blank are dropped.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("empty file")
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = guessDelimiter(string(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headerRecord, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	headers := make([]string, len(headerRecord))
	for i, h := range headerRecord {
		headers[i] = NormalizeHeader(h)
	}

	doc := &Document{Headers: headers}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed record: %w", err)
		}
		row := Row{}
		for i, value := range record {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			trimmed := strings.TrimSpace(value)
			if trimmed == "" {
				continue
			}
			row[headers[i]] = trimmed
		}
		if len(row) == 0 {
			continue
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc, nil
}

// guessDelimiter picks the candidate that appears most often in the first
// line, defaulting to comma.
func guessDelimiter(data string) rune {
	line := data
	if idx := strings.IndexAny(data, "\r\n"); idx >= 0 {
		line = data[:idx]
	}
	best := ','
	bestCount := strings.Count(line, ",")
	for _, candidate := range []rune{';', '\t', '|'} {
		if count := strings.Count(line, string(candidate)); count > bestCount {
			best = candidate
			bestCount = count
		}
	}
	return best
}

// String returns the trimmed cell for key, or nil when blank or absent.
func (r Row) String(key string) *string {
	value, ok := r[key]
	if !ok || value == "" {
		return nil
	}
	return &value
}

// Float parses a numeric cell. Thousands separators are stripped; anything
// unparseable becomes nil rather than zero.
func (r Row) Float(key string) *float64 {
	value, ok := r[key]
	if !ok {
		return nil
	}
	cleaned := strings.ReplaceAll(value, ",", "")
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

// Percent parses a percentage cell, tolerating a trailing % sign.
func (r Row) Percent(key string) *float64 {
	value, ok := r[key]
	if !ok {
		return nil
	}
	cleaned := strings.NewReplacer(",", "", "%", "").Replace(value)
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

// Int parses an integer cell, accepting float-formatted input.
func (r Row) Int(key string) *int64 {
	parsed := r.Float(key)
	if parsed == nil {
		return nil
	}
	n := int64(*parsed)
	return &n
}

// Date parses a date cell. DD/MM/YYYY is tried first (the exports this API
// ingests are UK-formatted), then ISO layouts. Unparseable dates become nil.
func (r Row) Date(key string) *time.Time {
	value, ok := r[key]
	if !ok {
		return nil
	}
	return parseDate(value)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02 Jan 2006",
	"Jan 2006",
	"January 2006",
}

func parseDate(value string) *time.Time {
	if m := ukDatePattern.FindStringSubmatch(value); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			return &t
		}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
