// Package merger combines multiple NormalizedInputs (from adapters
// and/or the built-in scanner) into a single NormalizedInput for scoring.
package merger

import (
	"sort"

	"github.com/qualys/dspm/internal/core"
	"github.com/qualys/dspm/internal/registry"
)

// Strategy selects how entity counts/confidence combine across inputs.
type Strategy string

const (
	ConservativeUnion Strategy = "CONSERVATIVE_UNION"
	SumCounts         Strategy = "SUM_COUNTS"
	FirstWins         Strategy = "FIRST_WINS"
)

// Merge combines inputs per strategy (ConservativeUnion is the default
// semantics used when an unrecognized/empty strategy is supplied). Every
// entity type is canonicalized through reg before it is used as an
// aggregation key, so two adapters reporting the same entity under
// different vendor-specific spellings still collapse into one bucket.
func Merge(inputs []core.NormalizedInput, strategy Strategy, reg *registry.Registry) core.NormalizedInput {
	if len(inputs) == 0 {
		return core.NormalizedInput{}
	}

	type agg struct {
		count      int
		confidence float64
		sources    map[string]bool
		positions  []core.Position
	}
	merged := map[string]*agg{}
	order := []string{}

	for _, input := range inputs {
		for _, e := range input.Entities {
			entityType := e.Type
			if reg != nil {
				entityType = reg.NormalizeType(entityType)
			}
			a, ok := merged[entityType]
			if !ok {
				a = &agg{sources: map[string]bool{}}
				merged[entityType] = a
				order = append(order, entityType)
			}

			switch strategy {
			case SumCounts:
				a.count += e.Count
				a.confidence = maxFloat(a.confidence, e.Confidence)
			case FirstWins:
				if !ok {
					a.count = e.Count
					a.confidence = e.Confidence
				}
			default: // ConservativeUnion
				a.count = maxInt(a.count, e.Count)
				a.confidence = maxFloat(a.confidence, e.Confidence)
			}

			if e.Source != "" {
				a.sources[e.Source] = true
			}
			a.positions = append(a.positions, e.Positions...)
		}
	}

	sort.Strings(order)
	entities := make([]core.Entity, 0, len(order))
	for _, t := range order {
		a := merged[t]
		sourceList := ""
		for s := range a.sources {
			if sourceList == "" {
				sourceList = s
			} else {
				sourceList += "," + s
			}
		}
		entities = append(entities, core.Entity{
			Type:       t,
			Count:      a.count,
			Confidence: a.confidence,
			Source:     sourceList,
			Positions:  mergePositions(a.positions),
		})
	}

	return core.NormalizedInput{
		Entities: entities,
		Context:  mergeContext(inputs),
	}
}

func mergeContext(inputs []core.NormalizedInput) core.NormalizedContext {
	merged := inputs[0].Context
	for _, input := range inputs[1:] {
		c := input.Context
		merged.Exposure = core.MaxExposure(merged.Exposure, c.Exposure)
		merged.CrossAccountAccess = merged.CrossAccountAccess || c.CrossAccountAccess
		merged.AnonymousAccess = merged.AnonymousAccess || c.AnonymousAccess
		merged.HasClassification = merged.HasClassification || c.HasClassification
		if c.StalenessDays > merged.StalenessDays {
			merged.StalenessDays = c.StalenessDays
		}
		if merged.Encryption == "" {
			merged.Encryption = c.Encryption
		}
	}
	return merged
}

// mergePositions sorts intervals by start and folds overlapping or
// adjacent [a,b] U [c,d] (c <= b) into [a, max(b,d)].
func mergePositions(positions []core.Position) []core.Position {
	if len(positions) == 0 {
		return nil
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].Start < positions[j].Start })

	merged := []core.Position{positions[0]}
	for _, p := range positions[1:] {
		last := &merged[len(merged)-1]
		if p.Start <= last.End {
			if p.End > last.End {
				last.End = p.End
			}
			continue
		}
		merged = append(merged, p)
	}
	return merged
}

func maxInt(a, b int) int {
	if a > b {
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
