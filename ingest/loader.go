package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrUnknownEncoding   = errors.New("unknown encoding")
	ErrMalformedInput    = errors.New("malformed input")
	ErrEmptySpreadsheet  = errors.New("spreadsheet has no sheets")
)

// Format tags the physical layout of an uploaded file.
type Format string

const (
	FormatDelimited   Format = "csv"
	FormatSpreadsheet Format = "xlsx"
)

// FormatFromFilename maps a file name extension onto a Format.
func FormatFromFilename(name string) (Format, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".csv"),
		strings.HasSuffix(strings.ToLower(name), ".tsv"),
		strings.HasSuffix(strings.ToLower(name), ".txt"):
		return FormatDelimited, nil
	case strings.HasSuffix(strings.ToLower(name), ".xlsx"):
		return FormatSpreadsheet, nil
	}
	return "", fmt.Errorf("%q, %w", name, ErrUnsupportedFormat)
}

// Load parses raw file bytes into a RawTable. Delimited text is decoded with
// the resolved encoding and split on the resolved delimiter. Spreadsheets are
// self-describing so encoding and delimiter are ignored and the first sheet
// is loaded. Any parse error is fatal for the upload; there is no partial
// recovery.
func Load(data []byte, format Format, enc Encoding, delimiter rune) (*RawTable, error) {
	switch format {
	case FormatDelimited:
		return loadDelimited(data, enc, delimiter)
	case FormatSpreadsheet:
		return loadSpreadsheet(data)
	}
	return nil, fmt.Errorf("%q, %w", format, ErrUnsupportedFormat)
}

func loadDelimited(data []byte, enc Encoding, delimiter rune) (*RawTable, error) {
	decoded, err := decode(data, enc)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(decoded))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header, %w: %w", ErrMalformedInput, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\uFEFF"))
	}

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d, %w: %w", len(rows)+2, ErrMalformedInput, err)
		}
		rows = append(rows, record)
	}
	return NewRawTable(header, rows)
}

func loadSpreadsheet(data []byte) (*RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet, %w: %w", ErrMalformedInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySpreadsheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q, %w: %w", sheets[0], ErrMalformedInput, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}
	return NewRawTable(rows[0], rows[1:])
}

// decode converts data from the resolved source encoding to UTF-8.
func decode(data []byte, enc Encoding) ([]byte, error) {
	if enc == "" || enc == EncodingUTF8 || strings.EqualFold(string(enc), "utf-8") {
		return data, nil
	}

	e, err := ianaindex.IANA.Encoding(string(enc))
	if err != nil || e == nil {
		return nil, fmt.Errorf("%q, %w", enc, ErrUnknownEncoding)
	}
	if e == unicode.UTF8 {
		return data, nil
	}
	decoded, _, err := transform.Bytes(e.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("decoding %q, %w: %w", enc, ErrMalformedInput, err)
	}
	return decoded, nil
}
