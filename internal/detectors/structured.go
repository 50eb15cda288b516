package detectors

import (
	"regexp"
	"strings"

	"github.com/qualys/dspm/internal/core"
)

// ocrSubstitutions is the deterministic character-substitution table used
// to correct common OCR confusions before pattern matching runs. Never a
// learned model — a fixed table of single-character replacements.
var ocrSubstitutions = map[rune]rune{
	'O': '0', // capital O / zero, only applied inside digit runs by caller
	'l': '1',
	'I': '1',
	'S': '5',
	'B': '8',
}

// CharMap maps a byte offset in the corrected proxy text back to the
// corresponding byte offset in the original text.
type CharMap []int

// StructuredExtractor runs before the parallel detector fan-out. It (1)
// produces an OCR-corrected proxy text plus a coordinate map back to the
// original, and (2) extracts "LABEL: value" fields directly from the
// original text at STRUCTURED tier — the highest-confidence, highest
// dedup-priority tier.
type StructuredExtractor struct {
	labelPatterns map[string]*regexp.Regexp
}

// curatedLabels is the fixed set of labels the structured extractor
// recognizes; this is a closed, curated list, not a general pattern.
var curatedLabels = map[string]string{
	"SSN":      "SSN",
	"DOB":      "DOB",
	"MRN":      "MRN",
	"PASSPORT": "PASSPORT",
	"PHONE":    "PHONE_US",
	"EMAIL":    "EMAIL",
}

func NewStructuredExtractor() *StructuredExtractor {
	patterns := make(map[string]*regexp.Regexp, len(curatedLabels))
	for label := range curatedLabels {
		patterns[label] = regexp.MustCompile(`(?i)\b` + label + `\s*[:\-]\s*([^\n\r,;]{1,64})`)
	}
	return &StructuredExtractor{labelPatterns: patterns}
}

func (d *StructuredExtractor) Name() string    { return "structured" }
func (d *StructuredExtractor) Tier() core.Tier { return core.TierStructured }

// Detect implements the Detector contract by running only the
// label-field extraction half of the extractor; OCR correction is
// invoked separately by the orchestrator via Correct, since its output
// feeds every other detector rather than producing spans of its own.
func (d *StructuredExtractor) Detect(text string) []core.Span {
	var spans []core.Span
	for label, re := range d.labelPatterns {
		entityType := curatedLabels[label]
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[2], m[3]
			value := strings.TrimSpace(text[start:end])
			if value == "" {
				continue
			}
			// Trim trailing whitespace captured by the lazy-looking value group.
			trimmedEnd := start + len(value)
			spans = append(spans, newSpan(text, start, trimmedEnd, entityType, d.Name(), core.ConfidenceVeryHigh, d.Tier()))
		}
	}
	return spans
}

// Correct applies the OCR substitution table to digit-adjacent letter
// confusions only (so "SSN: l23-45-6789" becomes "SSN: 123-45-6789"
// without mangling prose), returning the corrected text and a CharMap
// from corrected-text offsets back to original-text offsets. Failure to
// correct is never fatal — callers fall back to the original text and
// flag the pipeline as degraded.
func (d *StructuredExtractor) Correct(original string) (corrected string, charMap CharMap) {
	var b strings.Builder
	b.Grow(len(original))
	charMap = make(CharMap, 0, len(original))

	runes := []rune(original)
	for i, r := range runes {
		out := r
		if sub, ok := ocrSubstitutions[r]; ok && digitAdjacent(runes, i) {
			out = sub
		}
		b.WriteRune(out)
		// byte offset of this rune in the original string
		charMap = append(charMap, runeByteOffset(original, i))
	}
	return b.String(), charMap
}

func digitAdjacent(runes []rune, i int) bool {
	if i > 0 && runes[i-1] >= '0' && runes[i-1] <= '9' {
		return true
	}
	if i+1 < len(runes) && runes[i+1] >= '0' && runes[i+1] <= '9' {
		return true
	}
	return false
}

func runeByteOffset(s string, runeIndex int) int {
	count := 0
	for i := range s {
		if count == runeIndex {
			return i
		}
		count++
	}
	return len(s)
}

// RemapSpan translates a span's coordinates in the corrected proxy text
// back through charMap to the original text, dropping it (ok=false) if
// the remapped text no longer matches — the mandatory invariant check
// per the span-boundary guarantee.
func RemapSpan(span core.Span, original string, charMap CharMap) (remapped core.Span, ok bool) {
	if span.Start < 0 || span.End > len(charMap) || span.Start >= span.End {
		return core.Span{}, false
	}
	origStart := charMap[span.Start]
	var origEnd int
	if span.End < len(charMap) {
		origEnd = charMap[span.End]
	} else {
		origEnd = len(original)
	}
	if origStart < 0 || origEnd > len(original) || origStart >= origEnd {
		return core.Span{}, false
	}
	if original[origStart:origEnd] != span.Text {
		return core.Span{}, false
	}
	remapped = span
	remapped.Start = origStart
	remapped.End = origEnd
	return remapped, true
}
