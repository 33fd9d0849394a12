// Package ingest turns an uploaded tabular file into a RawTable: it detects
// text encoding and field delimiter, parses delimited text or spreadsheet
// bytes, and infers which columns hold the timestamp and observation axes.
package ingest

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
)

var ErrEmptySample = errors.New("empty detection sample")

const (
	// EncodingSampleSize bounds the byte prefix inspected for encoding detection.
	EncodingSampleSize = 10 * 1024
	// DelimiterSampleSize bounds the byte prefix inspected for delimiter detection.
	DelimiterSampleSize = 1024
)

// Encoding identifies a resolved text encoding by its IANA name.
type Encoding string

const (
	EncodingUTF8    Encoding = "UTF-8"
	EncodingLatin1  Encoding = "ISO-8859-1"
	EncodingWin1252 Encoding = "windows-1252"
)

// EncodingResult carries the detected encoding along with a confidence score
// and an optional low-confidence warning for the caller to surface.
type EncodingResult struct {
	Encoding   Encoding
	Confidence int
	Warning    string
}

// lowConfidence is the chardet confidence below which the permissive UTF-8
// default kicks in with a warning instead of a hard failure.
const lowConfidence = 30

// DetectEncoding guesses the text encoding of sample, inspecting at most
// EncodingSampleSize bytes. Detection never fails hard: when no confident
// charset is found the result defaults to UTF-8 and carries a warning.
func DetectEncoding(sample []byte) EncodingResult {
	if len(sample) > EncodingSampleSize {
		sample = sample[:EncodingSampleSize]
	}
	if len(sample) == 0 {
		return EncodingResult{
			Encoding: EncodingUTF8,
			Warning:  "empty sample, defaulting to UTF-8",
		}
	}
	// Valid UTF-8 input, plain ASCII included, never goes through chardet,
	// which reports ASCII-compatible single-byte charsets for such samples.
	if utf8.Valid(sample) {
		return EncodingResult{Encoding: EncodingUTF8, Confidence: 100}
	}

	best, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil {
		return EncodingResult{
			Encoding: EncodingUTF8,
			Warning:  "encoding not detected, defaulting to UTF-8",
		}
	}

	res := EncodingResult{
		Encoding:   Encoding(best.Charset),
		Confidence: best.Confidence,
	}
	if best.Confidence < lowConfidence {
		res.Encoding = EncodingUTF8
		res.Warning = "low confidence in detected encoding " + best.Charset + ", defaulting to UTF-8"
	}
	return res
}

// delimiterCandidates is the fixed candidate set, in tie-break order.
var delimiterCandidates = []rune{',', ';', '\t'}

// DetectDelimiter returns the most frequent candidate delimiter in the first
// DelimiterSampleSize bytes of sample. Ties and candidate-free samples
// resolve to comma.
func DetectDelimiter(sample []byte) rune {
	if len(sample) > DelimiterSampleSize {
		sample = sample[:DelimiterSampleSize]
	}
	s := string(sample)

	best := ','
	bestCount := strings.Count(s, ",")
	for _, cand := range delimiterCandidates[1:] {
		if c := strings.Count(s, string(cand)); c > bestCount {
			best = cand
			bestCount = c
		}
	}
	return best
}
