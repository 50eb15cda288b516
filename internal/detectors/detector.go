// Package detectors implements the closed, curated set of sensitive-data
// detectors: checksum-validated identifiers, labeled/unlabeled patterns,
// government classification markings, secrets, financial instruments,
// regulated-sector identifiers, dictionary term matches, structured
// field extraction, and known-entity propagation.
//
// Every detector shares the Detector contract: pure, stateless beyond its
// compiled patterns/dictionaries, and safe for concurrent use across
// requests.
package detectors

import "github.com/qualys/dspm/internal/core"

// Detector is the shared contract every detector in the set implements.
// Detect must be safe to call concurrently from multiple goroutines;
// detectors carry no per-request state, only compiled patterns and
// loaded dictionaries set up at construction.
type Detector interface {
	Name() string
	Tier() core.Tier
	Detect(text string) []core.Span
}

// floor clamps confidence to a detector-specific minimum, applied during
// orchestrator post-processing per entity family (checksum-validated
// types floor at ConfidenceHigh, known-entity floors at 0.95, dictionary
// floors at ConfidenceLow).
func floor(confidence, min float64) float64 {
	if confidence < min {
		return min
	}
	return confidence
}

// newSpan is a small constructor shared by every detector to keep span
// construction (and its invariant: Text == text[Start:End]) in one place.
func newSpan(text string, start, end int, entityType, detector string, confidence float64, tier core.Tier) core.Span {
	return core.Span{
		Start:      start,
		End:        end,
		Text:       text[start:end],
		EntityType: entityType,
		Confidence: confidence,
		Detector:   detector,
		Tier:       tier,
	}
}
