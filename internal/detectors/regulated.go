package detectors

import (
	"regexp"

	"github.com/qualys/dspm/internal/core"
)

// RegulatedSectorDetector finds identifiers specific to regulated
// sectors that don't fit the government/financial/healthcare families:
// FERPA student records, legal bar/case numbers, and immigration
// A-numbers/visa numbers. Tier PATTERN.
type RegulatedSectorDetector struct {
	studentID   *regexp.Regexp
	ferpaLabel  *regexp.Regexp
	barNumber   *regexp.Regexp
	caseNumber  *regexp.Regexp
	aNumber     *regexp.Regexp
	visaNumber  *regexp.Regexp
}

func NewRegulatedSectorDetector() *RegulatedSectorDetector {
	return &RegulatedSectorDetector{
		studentID:  regexp.MustCompile(`(?i)\bstudent\s*(?:id|number)\s*[:\-]?\s*([A-Z0-9]{6,12})`),
		ferpaLabel: regexp.MustCompile(`(?i)\bFERPA\b`),
		barNumber:  regexp.MustCompile(`(?i)\bbar\s*(?:no\.?|number)\s*[:\-]?\s*(\d{4,8})`),
		caseNumber: regexp.MustCompile(`(?i)\bcase\s*(?:no\.?|number)\s*[:\-]?\s*(\d{1,2}:\d{2}-[a-z]{2}-\d{4,6})`),
		aNumber:    regexp.MustCompile(`\bA-?\d{8,9}\b`),
		visaNumber: regexp.MustCompile(`(?i)\bvisa\s*(?:no\.?|number)\s*[:\-]?\s*([A-Z0-9]{8,12})`),
	}
}

func (d *RegulatedSectorDetector) Name() string    { return "regulated_sector" }
func (d *RegulatedSectorDetector) Tier() core.Tier { return core.TierPattern }

func (d *RegulatedSectorDetector) Detect(text string) []core.Span {
	var spans []core.Span

	for _, m := range d.studentID.FindAllStringSubmatchIndex(text, -1) {
		spans = append(spans, newSpan(text, m[2], m[3], "STUDENT_ID", d.Name(), core.ConfidenceMediumHigh, d.Tier()))
	}
	for _, m := range d.ferpaLabel.FindAllStringIndex(text, -1) {
		spans = append(spans, newSpan(text, m[0], m[1], "FERPA_RECORD", d.Name(), core.ConfidenceMedium, d.Tier()))
	}
	for _, m := range d.barNumber.FindAllStringSubmatchIndex(text, -1) {
		spans = append(spans, newSpan(text, m[2], m[3], "BAR_NUMBER", d.Name(), core.ConfidenceHigh, d.Tier()))
	}
	for _, m := range d.caseNumber.FindAllStringSubmatchIndex(text, -1) {
		spans = append(spans, newSpan(text, m[2], m[3], "CASE_NUMBER", d.Name(), core.ConfidenceHigh, d.Tier()))
	}
	for _, m := range d.aNumber.FindAllStringIndex(text, -1) {
		spans = append(spans, newSpan(text, m[0], m[1], "A_NUMBER", d.Name(), core.ConfidenceMediumHigh, d.Tier()))
	}
	for _, m := range d.visaNumber.FindAllStringSubmatchIndex(text, -1) {
		spans = append(spans, newSpan(text, m[2], m[3], "VISA_NUMBER", d.Name(), core.ConfidenceHigh, d.Tier()))
	}

	return spans
}
