package detectors

import (
	"bufio"
	"os"
	"strings"
	"unicode"

	"github.com/qualys/dspm/internal/core"
)

// DictionaryDetector matches case-insensitive, word-boundary-checked
// terms from loaded term lists (drugs, diagnoses, lab tests, facilities,
// payers, professions, geographic names) using a linear-time
// Aho-Corasick automaton. Tier DICTIONARY.
type DictionaryDetector struct {
	automaton *ahoAutomaton
	denyList  map[string]bool
	termCap   int
}

// dictTerm is one loaded dictionary entry.
type dictTerm struct {
	term       string
	entityType string
}

// NewDictionaryDetector builds the automaton from the given term groups.
// denyList suppresses common false-positive terms (e.g. "health",
// "support") even if they appear in a loaded list.
func NewDictionaryDetector(terms []dictTerm, denyList []string) *DictionaryDetector {
	deny := map[string]bool{}
	for _, d := range denyList {
		deny[strings.ToLower(d)] = true
	}
	return &DictionaryDetector{
		automaton: buildAho(terms),
		denyList:  deny,
		termCap:   100,
	}
}

// DefaultDictionaryDetector loads a small built-in seed dictionary; a
// production deployment overlays additional line-delimited term files
// from <data_dir>/dictionaries via LoadDictionaryFile.
func DefaultDictionaryDetector() *DictionaryDetector {
	terms := []dictTerm{
		{"methadone", "DRUG"}, {"oxycodone", "DRUG"}, {"fentanyl", "DRUG"},
		{"diabetes mellitus", "DIAGNOSIS"}, {"hiv", "DIAGNOSIS"}, {"schizophrenia", "DIAGNOSIS"},
		{"hemoglobin a1c", "LAB_TEST"}, {"cbc", "LAB_TEST"},
		{"planned parenthood", "FACILITY"}, {"va medical center", "FACILITY"},
		{"medicaid", "PAYER"}, {"medicare", "PAYER"}, {"aetna", "PAYER"},
	}
	denyList := []string{"health", "support", "care"}
	return NewDictionaryDetector(terms, denyList)
}

func (d *DictionaryDetector) Name() string    { return "dictionary" }
func (d *DictionaryDetector) Tier() core.Tier { return core.TierDictionary }

func (d *DictionaryDetector) Detect(text string) []core.Span {
	lower := strings.ToLower(text)
	matches := d.automaton.match(lower)

	counts := map[string]int{}
	var spans []core.Span
	for _, m := range matches {
		termLower := lower[m.start:m.end]
		if d.denyList[termLower] {
			continue
		}
		if !isWordBoundary(lower, m.start, m.end) {
			continue
		}
		if counts[m.entityType] >= d.termCap {
			continue
		}
		counts[m.entityType]++
		spans = append(spans, newSpan(text, m.start, m.end, m.entityType, d.Name(), core.ConfidenceLow, d.Tier()))
	}
	return spans
}

func isWordBoundary(text string, start, end int) bool {
	if start > 0 {
		prev := rune(text[start-1])
		if unicode.IsLetter(prev) || unicode.IsDigit(prev) {
			return false
		}
	}
	if end < len(text) {
		next := rune(text[end])
		if unicode.IsLetter(next) || unicode.IsDigit(next) {
			return false
		}
	}
	return true
}

// LoadDictionaryFile reads a line-delimited UTF-8 term list; lines
// starting with '#' are comments, terms are case-folded on load.
func LoadDictionaryFile(path, entityType string) ([]dictTerm, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var terms []dictTerm
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		terms = append(terms, dictTerm{term: strings.ToLower(line), entityType: entityType})
	}
	return terms, scanner.Err()
}

// --- Aho-Corasick automaton ---
//
// A minimal multi-pattern matcher: byte-keyed trie with failure links,
// built once at detector construction and reused (read-only) across
// every Detect call. Guarantees linear-time scanning regardless of term
// count, the structural requirement that rules out backtracking regex
// alternation for large dictionaries.

type acNode struct {
	next       map[byte]*acNode
	fail       *acNode
	outputs    []dictTerm
}

type ahoAutomaton struct {
	root *acNode
}

type ahoMatch struct {
	start, end int
	entityType string
}

func buildAho(terms []dictTerm) *ahoAutomaton {
	root := &acNode{next: make(map[byte]*acNode)}
	for _, term := range terms {
		node := root
		for i := 0; i < len(term.term); i++ {
			c := term.term[i]
			next, ok := node.next[c]
			if !ok {
				next = &acNode{next: make(map[byte]*acNode)}
				node.next[c] = next
			}
			node = next
		}
		node.outputs = append(node.outputs, term)
	}

	// Build failure links with a BFS over the trie.
	queue := make([]*acNode, 0)
	for _, child := range root.next {
		child.fail = root
		queue = append(queue, child)
	}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for c, child := range node.next {
			queue = append(queue, child)
			failNode := node.fail
			for failNode != nil {
				if next, ok := failNode.next[c]; ok {
					child.fail = next
					break
				}
				failNode = failNode.fail
			}
			if child.fail == nil {
				child.fail = root
			}
			child.outputs = append(child.outputs, child.fail.outputs...)
		}
	}

	return &ahoAutomaton{root: root}
}

func (a *ahoAutomaton) match(text string) []ahoMatch {
	var matches []ahoMatch
	node := a.root
	for i := 0; i < len(text); i++ {
		c := text[i]
		for node != a.root {
			if _, ok := node.next[c]; ok {
				break
			}
			node = node.fail
		}
		if next, ok := node.next[c]; ok {
			node = next
		} else {
			node = a.root
		}
		for _, term := range node.outputs {
			end := i + 1
			start := end - len(term.term)
			matches = append(matches, ahoMatch{start: start, end: end, entityType: term.entityType})
		}
	}
	return matches
}
