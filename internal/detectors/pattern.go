package detectors

import (
	"regexp"
	"strings"

	"github.com/qualys/dspm/internal/core"
)

// patternRule is one labeled/unlabeled pattern pair for PatternDetector.
// A labeled match (the value preceded by e.g. "DOB:") gets +0.05
// confidence over an unlabeled bare match, per spec.
type patternRule struct {
	entityType string
	unlabeled  *regexp.Regexp
	labeled    *regexp.Regexp
	base       float64
}

// PatternDetector finds labeled and bare occurrences of common PII
// shapes: names, dates of birth, US addresses, US phone numbers,
// emails, and medical record numbers. Tier PATTERN.
type PatternDetector struct {
	rules []patternRule
}

func NewPatternDetector() *PatternDetector {
	return &PatternDetector{
		rules: []patternRule{
			{
				entityType: "DOB",
				unlabeled:  regexp.MustCompile(`\b(0?[1-9]|1[0-2])[/-](0?[1-9]|[12]\d|3[01])[/-](\d{4}|\d{2})\b`),
				labeled:    regexp.MustCompile(`(?i)\b(?:dob|date of birth|born)\s*[:\-]?\s*((?:0?[1-9]|1[0-2])[/-](?:0?[1-9]|[12]\d|3[01])[/-](?:\d{4}|\d{2}))`),
				base:       core.ConfidenceMedium,
			},
			{
				entityType: "PHONE_US",
				unlabeled:  regexp.MustCompile(`\b(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`),
				labeled:    regexp.MustCompile(`(?i)\b(?:phone|tel|mobile|cell)\s*[:\-]?\s*((?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4})`),
				base:       core.ConfidenceMedium,
			},
			{
				entityType: "ADDRESS_US",
				unlabeled:  regexp.MustCompile(`\b\d{1,6}\s+[A-Za-z0-9.\s]{3,40}\s+(?:Street|St|Avenue|Ave|Boulevard|Blvd|Road|Rd|Drive|Dr|Lane|Ln|Way|Court|Ct)\b\.?`),
				labeled:    regexp.MustCompile(`(?i)\b(?:address)\s*[:\-]?\s*(\d{1,6}\s+[A-Za-z0-9.\s]{3,40}\s+(?:Street|St|Avenue|Ave|Boulevard|Blvd|Road|Rd|Drive|Dr|Lane|Ln|Way|Court|Ct)\.?)`),
				base:       core.ConfidenceLow,
			},
			{
				entityType: "MRN",
				unlabeled:  regexp.MustCompile(`\bMRN[-\s]?\d{6,10}\b`),
				labeled:    regexp.MustCompile(`(?i)\b(?:mrn|medical record(?: number)?)\s*[:\-]?\s*([A-Z0-9]{6,12})`),
				base:       core.ConfidenceMediumHigh,
			},
			{
				entityType: "ICD_CODE",
				unlabeled:  regexp.MustCompile(`\b[A-TV-Z][0-9][0-9AB]\.?[0-9A-TV-Z]{0,4}\b`),
				labeled:    regexp.MustCompile(`(?i)\b(?:icd-?10?|diagnosis code)\s*[:\-]?\s*([A-TV-Z][0-9][0-9AB]\.?[0-9A-TV-Z]{0,4})`),
				base:       core.ConfidenceLow,
			},
			{
				entityType: "NDC",
				unlabeled:  regexp.MustCompile(`\b\d{4,5}-\d{3,4}-\d{1,2}\b`),
				labeled:    regexp.MustCompile(`(?i)\b(?:ndc)\s*[:\-]?\s*(\d{4,5}-\d{3,4}-\d{1,2})`),
				base:       core.ConfidenceMedium,
			},
			{
				entityType: "PASSPORT",
				unlabeled:  regexp.MustCompile(`\b[A-Z]{1,2}\d{6,9}\b`),
				labeled:    regexp.MustCompile(`(?i)\b(?:passport)\s*(?:no\.?|number)?\s*[:\-]?\s*([A-Z]{1,2}\d{6,9})`),
				base:       core.ConfidenceLow,
			},
			{
				entityType: "EMAIL",
				unlabeled:  regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`),
				labeled:    regexp.MustCompile(`(?i)\b(?:email|e-mail)\s*[:\-]?\s*([A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,})`),
				base:       core.ConfidenceMediumHigh,
			},
		},
	}
}

func (d *PatternDetector) Name() string    { return "pattern" }
func (d *PatternDetector) Tier() core.Tier { return core.TierPattern }

func (d *PatternDetector) Detect(text string) []core.Span {
	var spans []core.Span
	for _, rule := range d.rules {
		spans = append(spans, d.detectRule(text, rule)...)
	}
	return filterEmailExclusions(text, spans)
}

func (d *PatternDetector) detectRule(text string, rule patternRule) []core.Span {
	var spans []core.Span
	claimed := map[[2]int]bool{}

	if rule.labeled != nil {
		for _, m := range rule.labeled.FindAllStringSubmatchIndex(text, -1) {
			if len(m) < 4 {
				continue
			}
			start, end := m[2], m[3]
			claimed[[2]int{start, end}] = true
			conf := minFloat(rule.base+0.05, core.ConfidenceVeryHigh)
			spans = append(spans, newSpan(text, start, end, rule.entityType, d.Name(), conf, d.Tier()))
		}
	}

	if rule.unlabeled != nil {
		for _, m := range rule.unlabeled.FindAllStringIndex(text, -1) {
			start, end := m[0], m[1]
			if overlapsClaimed(claimed, start, end) {
				continue
			}
			conf := maxFloat(rule.base-0.05, 0)
			spans = append(spans, newSpan(text, start, end, rule.entityType, d.Name(), conf, d.Tier()))
		}
	}
	return spans
}

func overlapsClaimed(claimed map[[2]int]bool, start, end int) bool {
	for rng := range claimed {
		if start < rng[1] && rng[0] < end {
			return true
		}
	}
	return false
}

// filterEmailExclusions drops common documentation/test addresses and
// obvious database-URL embedded credentials rather than real PII.
func filterEmailExclusions(text string, spans []core.Span) []core.Span {
	excludedDomains := []string{"example.com", "example.org", "test.com"}
	excludedLocal := []string{"noreply", "no-reply", "donotreply"}

	var out []core.Span
	for _, s := range spans {
		if s.EntityType != "EMAIL" {
			out = append(out, s)
			continue
		}
		lower := strings.ToLower(s.Text)
		excluded := false
		for _, d := range excludedDomains {
			if strings.HasSuffix(lower, "@"+d) {
				excluded = true
				break
			}
		}
		for _, l := range excludedLocal {
			if strings.HasPrefix(lower, l+"@") {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, s)
		}
	}
	return out
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
