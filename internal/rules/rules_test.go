package rules

import (
	"context"
	"testing"

	"github.com/qualys/dspm/internal/models"
)

type memStore struct {
	rules    map[string]*CustomRule
	patterns map[string][2][]string // [patterns, contextPatterns]
}

func newMemStore() *memStore {
	return &memStore{rules: map[string]*CustomRule{}, patterns: map[string][2][]string{}}
}

func (m *memStore) GetRule(ctx context.Context, id string) (*CustomRule, error) {
	return m.rules[id], nil
}
func (m *memStore) ListRules(ctx context.Context, enabledOnly bool) ([]*CustomRule, error) {
	var out []*CustomRule
	for _, r := range m.rules {
		if !enabledOnly || r.Enabled {
			out = append(out, r)
		}
	}
	return out, nil
}
func (m *memStore) CreateRule(ctx context.Context, rule *CustomRule) error {
	m.rules[rule.ID] = rule
	return nil
}
func (m *memStore) UpdateRule(ctx context.Context, rule *CustomRule) error {
	m.rules[rule.ID] = rule
	return nil
}
func (m *memStore) DeleteRule(ctx context.Context, id string) error {
	delete(m.rules, id)
	return nil
}
func (m *memStore) GetRulePatterns(ctx context.Context, ruleID string) ([]string, []string, error) {
	p := m.patterns[ruleID]
	return p[0], p[1], nil
}
func (m *memStore) SetRulePatterns(ctx context.Context, ruleID string, patterns, contextPatterns []string) error {
	m.patterns[ruleID] = [2][]string{patterns, contextPatterns}
	return nil
}

func TestEngine_ClassifyToSpans_ProducesPositionedSpans(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store)

	rule := &CustomRule{
		ID:         "r1",
		Name:       "Case Number",
		EntityType: "INTERNAL_CASE_NUMBER",
		Category:   models.CategoryPII,
		Enabled:    true,
	}
	if err := engine.CreateRule(context.Background(), rule); err != nil {
		t.Fatalf("CreateRule: %v", err)
	}
	if err := engine.store.SetRulePatterns(context.Background(), rule.ID, []string{`CASE-\d{4}`}, nil); err != nil {
		t.Fatalf("SetRulePatterns: %v", err)
	}
	if err := engine.LoadRules(context.Background()); err != nil {
		t.Fatalf("LoadRules: %v", err)
	}

	text := "please review CASE-1234 before Friday"
	spans := engine.ClassifyToSpans(text)
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d: %+v", len(spans), spans)
	}
	got := spans[0]
	if got.EntityType != "INTERNAL_CASE_NUMBER" {
		t.Errorf("expected entity type INTERNAL_CASE_NUMBER, got %s", got.EntityType)
	}
	if text[got.Start:got.End] != "CASE-1234" {
		t.Errorf("expected span to cover CASE-1234, got %q", text[got.Start:got.End])
	}
}

func TestEngine_Classify_ContextRequiredSkipsWithoutContext(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store)

	rule := &CustomRule{
		ID:              "r2",
		Name:            "Maybe SSN",
		EntityType:      "SSN",
		ContextRequired: true,
		Enabled:         true,
	}
	engine.CreateRule(context.Background(), rule)
	engine.store.SetRulePatterns(context.Background(), rule.ID, []string{`\d{3}-\d{2}-\d{4}`}, []string{`(?i)ssn`})
	engine.LoadRules(context.Background())

	noContext := engine.Classify("random digits 123-45-6789 here")
	if len(noContext) != 0 {
		t.Fatalf("expected no match without context, got %+v", noContext)
	}

	withContext := engine.Classify("my ssn is 123-45-6789")
	if len(withContext) != 1 {
		t.Fatalf("expected one match with context present, got %+v", withContext)
	}
}
