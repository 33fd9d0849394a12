package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDelimiter(t *testing.T) {
	testData := map[string]struct {
		sample   string
		expected rune
	}{
		"comma wins": {
			sample:   "date,sales\n2024-01-01,100\n",
			expected: ',',
		},
		"semicolon wins": {
			sample:   "date;sales\n2024-01-01;100\n",
			expected: ';',
		},
		"tab wins": {
			sample:   "date\tsales\n2024-01-01\t100\n",
			expected: '\t',
		},
		"tie defaults to comma": {
			sample:   "a,b;c\nd,e;f\n",
			expected: ',',
		},
		"no candidate defaults to comma": {
			sample:   "date sales\n2024-01-01 100\n",
			expected: ',',
		},
		"empty sample defaults to comma": {
			expected: ',',
		},
		"only first kilobyte counts": {
			sample:   "a,b\n" + strings.Repeat("x", DelimiterSampleSize) + strings.Repeat(";", 100),
			expected: ',',
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, DetectDelimiter([]byte(td.sample)))
		})
	}
}

func TestDetectEncodingUTF8(t *testing.T) {
	testData := map[string]string{
		"plain ascii": "date,sales\n2024-01-01,100\n2024-01-02,110\n",
		"multibyte":   "date,ventes réalisées\n2024-01-01,100\n",
	}

	for name, sample := range testData {
		t.Run(name, func(t *testing.T) {
			res := DetectEncoding([]byte(sample))
			assert.Equal(t, EncodingUTF8, res.Encoding)
			assert.Empty(t, res.Warning)
		})
	}
}

func TestDetectEncodingLatin1(t *testing.T) {
	// "ventes réalisées" repeated, encoded as ISO-8859-1
	row := append([]byte("date,ventes r"), 0xe9)
	row = append(row, []byte("alis")...)
	row = append(row, 0xe9, 0xe9)
	sample := []byte{}
	for i := 0; i < 50; i++ {
		sample = append(sample, row...)
		sample = append(sample, '\n')
	}

	res := DetectEncoding(sample)
	assert.NotEqual(t, Encoding(""), res.Encoding)
	// Must not claim UTF-8 for bytes that are not valid UTF-8, unless it
	// fell back with a warning.
	if res.Encoding == EncodingUTF8 {
		assert.NotEmpty(t, res.Warning)
	}
}

func TestDetectEncodingEmptySample(t *testing.T) {
	res := DetectEncoding(nil)
	assert.Equal(t, EncodingUTF8, res.Encoding)
	assert.NotEmpty(t, res.Warning)
}
