package detectors

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/qualys/dspm/internal/core"
)

// KnownEntity is one previously identified value carried forward from an
// earlier message/turn in a conversation or session.
type KnownEntity struct {
	Value      string
	EntityType string
}

// KnownEntityDetector finds subsequent occurrences of entities already
// identified in prior messages, including substring tokens when the
// value is multi-word, respecting word boundaries and capitalization.
// Tier STRUCTURED, optional — only active when a non-empty known-entity
// map is supplied to the orchestrator for a given request.
type KnownEntityDetector struct {
	entities map[string]KnownEntity // token (lowercased) -> KnownEntity
}

// NewKnownEntityDetector builds a detector over the given
// token -> (value, entity_type) map. Multi-word values are also indexed
// by their individual tokens so a bare first or last name from a prior
// "John Smith" still matches.
func NewKnownEntityDetector(known map[string]KnownEntity) *KnownEntityDetector {
	index := map[string]KnownEntity{}
	for token, ent := range known {
		index[strings.ToLower(token)] = ent
		for _, part := range strings.Fields(ent.Value) {
			if len(part) < 2 {
				continue
			}
			lower := strings.ToLower(part)
			if _, exists := index[lower]; !exists {
				index[lower] = ent
			}
		}
	}
	return &KnownEntityDetector{entities: index}
}

func (d *KnownEntityDetector) Name() string    { return "known_entity" }
func (d *KnownEntityDetector) Tier() core.Tier { return core.TierStructured }

func (d *KnownEntityDetector) Detect(text string) []core.Span {
	if len(d.entities) == 0 {
		return nil
	}

	// Sort tokens longest-first so multi-word values are tried before
	// their constituent single-word tokens at the same position.
	tokens := make([]string, 0, len(d.entities))
	for t := range d.entities {
		tokens = append(tokens, t)
	}
	sort.Slice(tokens, func(i, j int) bool { return len(tokens[i]) > len(tokens[j]) })

	var spans []core.Span
	for _, token := range tokens {
		ent := d.entities[token]
		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(token) + `\b`)
		for _, m := range pattern.FindAllStringIndex(text, -1) {
			start, end := m[0], m[1]
			if !respectsCapitalization(text[start:end], token) {
				continue
			}
			spans = append(spans, newSpan(text, start, end, ent.EntityType, d.Name(), 0.98, d.Tier()))
		}
	}
	return spans
}

// respectsCapitalization rejects an all-lowercase match against a known
// value that was originally capitalized (a proper noun like a name),
// since a lowercase common-word collision ("will" matching a person
// named Will) is not the same signal as a case-preserving repeat.
func respectsCapitalization(matched, originalToken string) bool {
	if !startsWithUpper(originalToken) {
		return true
	}
	return startsWithUpper(matched)
}

func startsWithUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
