package detectors

import (
	"regexp"
	"strings"

	"github.com/qualys/dspm/internal/core"
)

// GovernmentDetector finds US government classification markings,
// contract identifiers, clearance levels, and export-control markings.
// Tier PATTERN.
//
// Ambiguous bare words ("SECRET" alone, "CUI" alone) require contextual
// co-occurrence within +/-50 characters of a marking keyword, or they
// are filtered as false positives — plain English uses of "secret" vastly
// outnumber genuine classification markings.
type GovernmentDetector struct {
	classificationFull *regexp.Regexp
	classificationBare  *regexp.Regexp
	sci                 *regexp.Regexp
	dissemination       *regexp.Regexp
	cage                *regexp.Regexp
	duns                *regexp.Regexp
	uei                 *regexp.Regexp
	dodContract         *regexp.Regexp
	gsaContract         *regexp.Regexp
	clearance           *regexp.Regexp
	itar                *regexp.Regexp
	ear                 *regexp.Regexp
}

func NewGovernmentDetector() *GovernmentDetector {
	return &GovernmentDetector{
		classificationFull: regexp.MustCompile(`\b(TOP SECRET|SECRET|CONFIDENTIAL|CUI|UNCLASSIFIED)\s*//\s*[A-Z0-9/ \-]+`),
		classificationBare: regexp.MustCompile(`\b(TOP SECRET|SECRET|CONFIDENTIAL|CUI)\b`),
		sci:                regexp.MustCompile(`//(SI|TK|HCS|KDK|G|RSN)(-[A-Z0-9\-]+)?\b`),
		dissemination:      regexp.MustCompile(`\b(NOFORN|REL TO [A-Z, ]+|FVEY|ORCON|PROPIN|NOCONTRACT|IMCON)\b`),
		cage:               regexp.MustCompile(`\b(?:CAGE\s*(?:code)?\s*[:\-]?\s*)?([0-9A-Z]{5})\b`),
		duns:               regexp.MustCompile(`(?i)\bDUNS\s*(?:number)?\s*[:\-]?\s*(\d{9})\b`),
		uei:                regexp.MustCompile(`(?i)\bUEI\s*[:\-]?\s*([A-Z0-9]{12})\b`),
		dodContract:        regexp.MustCompile(`\b([A-Z0-9]{6}-\d{2}-[A-Z]-\d{4})\b`),
		gsaContract:        regexp.MustCompile(`\b(GS-\d{2}[A-Z]-\d{4}[A-Z]?)\b`),
		clearance:          regexp.MustCompile(`(?i)\b(top secret|secret|confidential)\s+clearance\b`),
		itar:               regexp.MustCompile(`\bITAR\s*(?:controlled|restricted)?\b`),
		ear:                regexp.MustCompile(`\bEAR99\b|\bEAR\s*(?:controlled)?\b`),
	}
}

func (d *GovernmentDetector) Name() string    { return "government" }
func (d *GovernmentDetector) Tier() core.Tier { return core.TierPattern }

// ambiguityContextKeywords are the signals required within +/-50 chars
// of a bare classification word before it's trusted as a real marking.
var ambiguityContextKeywords = []string{
	"//", "classified", "clearance", "noforn", "portion", "marking",
	"classification", "cui", "sci", "declassif",
}

func (d *GovernmentDetector) Detect(text string) []core.Span {
	var spans []core.Span
	claimed := map[[2]int]bool{}

	for _, m := range d.classificationFull.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		claimed[[2]int{start, end}] = true
		spans = append(spans, newSpan(text, start, end, "CLASSIFICATION_LEVEL", d.Name(), core.ConfidenceVeryHigh, d.Tier()))
	}

	for _, m := range d.classificationBare.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		if overlapsClaimed(claimed, start, end) {
			continue
		}
		if d.isFalsePositive(text, start, end) {
			continue
		}
		spans = append(spans, newSpan(text, start, end, "CLASSIFICATION_LEVEL", d.Name(), core.ConfidenceHigh, d.Tier()))
	}

	for _, m := range d.sci.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		spans = append(spans, newSpan(text, start, end, "SCI_MARKING", d.Name(), core.ConfidenceVeryHigh, d.Tier()))
	}

	for _, m := range d.dissemination.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		spans = append(spans, newSpan(text, start, end, "DISSEMINATION_CONTROL", d.Name(), core.ConfidenceHigh, d.Tier()))
	}

	for _, m := range d.duns.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[2], m[3]
		spans = append(spans, newSpan(text, start, end, "DUNS_NUMBER", d.Name(), core.ConfidenceMediumHigh, d.Tier()))
	}

	for _, m := range d.uei.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[2], m[3]
		spans = append(spans, newSpan(text, start, end, "UEI", d.Name(), core.ConfidenceMediumHigh, d.Tier()))
	}

	for _, m := range d.dodContract.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		spans = append(spans, newSpan(text, start, end, "DOD_CONTRACT", d.Name(), core.ConfidenceMediumHigh, d.Tier()))
	}

	for _, m := range d.gsaContract.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		spans = append(spans, newSpan(text, start, end, "GSA_CONTRACT", d.Name(), core.ConfidenceMediumHigh, d.Tier()))
	}

	for _, m := range d.clearance.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		spans = append(spans, newSpan(text, start, end, "CLEARANCE_LEVEL", d.Name(), core.ConfidenceHigh, d.Tier()))
	}

	for _, m := range d.itar.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		spans = append(spans, newSpan(text, start, end, "ITAR_MARKING", d.Name(), core.ConfidenceHigh, d.Tier()))
	}

	for _, m := range d.ear.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		spans = append(spans, newSpan(text, start, end, "EAR_MARKING", d.Name(), core.ConfidenceMedium, d.Tier()))
	}

	return spans
}

// isFalsePositive applies the +/-50 char ambiguous-word filter: a bare
// "SECRET" or "CUI" match without a nearby marking keyword is assumed to
// be ordinary English, not a classification marking.
func (d *GovernmentDetector) isFalsePositive(text string, start, end int) bool {
	windowStart := start - 50
	if windowStart < 0 {
		windowStart = 0
	}
	windowEnd := end + 50
	if windowEnd > len(text) {
		windowEnd = len(text)
	}
	window := strings.ToLower(text[windowStart:windowEnd])
	for _, kw := range ambiguityContextKeywords {
		if strings.Contains(window, kw) {
			return false
		}
	}
	return true
}
