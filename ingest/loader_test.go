package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoadDelimited(t *testing.T) {
	testData := map[string]struct {
		data      string
		enc       Encoding
		delimiter rune
		columns   []string
		rows      int
		err       error
	}{
		"comma": {
			data:      "date,sales\n2024-01-01,100\n2024-01-02,110\n",
			enc:       EncodingUTF8,
			delimiter: ',',
			columns:   []string{"date", "sales"},
			rows:      2,
		},
		"semicolon": {
			data:      "date;sales\n2024-01-01;100\n",
			enc:       EncodingUTF8,
			delimiter: ';',
			columns:   []string{"date", "sales"},
			rows:      1,
		},
		"tab": {
			data:      "date\tsales\n2024-01-01\t100\n",
			enc:       EncodingUTF8,
			delimiter: '\t',
			columns:   []string{"date", "sales"},
			rows:      1,
		},
		"bom stripped from header": {
			data:      "\uFEFFdate,sales\n2024-01-01,100\n",
			enc:       EncodingUTF8,
			delimiter: ',',
			columns:   []string{"date", "sales"},
			rows:      1,
		},
		"header only": {
			data:      "date,sales\n",
			enc:       EncodingUTF8,
			delimiter: ',',
			err:       ErrEmptyTable,
		},
		"empty input": {
			enc:       EncodingUTF8,
			delimiter: ',',
			err:       ErrMalformedInput,
		},
		"unknown encoding": {
			data:      "date,sales\n2024-01-01,100\n",
			enc:       Encoding("not-a-charset"),
			delimiter: ',',
			err:       ErrUnknownEncoding,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			tbl, err := Load([]byte(td.data), FormatDelimited, td.enc, td.delimiter)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.columns, tbl.Columns)
			assert.Equal(t, td.rows, tbl.NumRows())
		})
	}
}

func TestLoadDelimitedLatin1(t *testing.T) {
	// "unités" with an ISO-8859-1 e-acute
	data := append([]byte("date,unit"), 0xe9)
	data = append(data, []byte("s\n2024-01-01,100\n")...)

	tbl, err := Load(data, FormatDelimited, EncodingLatin1, ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "unités"}, tbl.Columns)
}

func TestLoadSpreadsheet(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "date"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "sales"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "2024-01-01"))
	require.NoError(t, f.SetCellValue(sheet, "B2", 100))
	require.NoError(t, f.SetCellValue(sheet, "A3", "2024-01-02"))
	require.NoError(t, f.SetCellValue(sheet, "B3", 110))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	// encoding and delimiter must be ignored for self-describing formats
	tbl, err := Load(buf.Bytes(), FormatSpreadsheet, Encoding("not-a-charset"), ';')
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "sales"}, tbl.Columns)
	assert.Equal(t, 2, tbl.NumRows())
}

func TestLoadSpreadsheetMalformed(t *testing.T) {
	_, err := Load([]byte("this is not a zip archive"), FormatSpreadsheet, EncodingUTF8, ',')
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestFormatFromFilename(t *testing.T) {
	testData := map[string]struct {
		filename string
		expected Format
		err      error
	}{
		"csv":         {filename: "sales.csv", expected: FormatDelimited},
		"upper case":  {filename: "SALES.CSV", expected: FormatDelimited},
		"tsv":         {filename: "sales.tsv", expected: FormatDelimited},
		"xlsx":        {filename: "sales.xlsx", expected: FormatSpreadsheet},
		"unsupported": {filename: "sales.parquet", err: ErrUnsupportedFormat},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			format, err := FormatFromFilename(td.filename)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, format)
		})
	}
}
