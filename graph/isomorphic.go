package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Isomorphic reports whether a and b are equal up to a renaming of blank
// nodes. Blank nodes are first grouped by a refined neighbourhood signature,
// then matched by backtracking within each group.
func Isomorphic(a, b TripleSet) bool {
	ta, tb := distinct(a.Triples()), distinct(b.Triples())
	if len(ta) != len(tb) {
		return false
	}

	inB := make(map[Triple]bool, len(tb))
	for _, t := range tb {
		inB[t] = true
	}

	blanksA, blanksB := blankNodes(ta), blankNodes(tb)
	if len(blanksA) != len(blanksB) {
		return false
	}
	if len(blanksA) == 0 {
		for _, t := range ta {
			if !inB[t] {
				return false
			}
		}
		return true
	}

	colorsA := refine(ta, blanksA)
	colorsB := refine(tb, blanksB)
	if !sameColorCounts(colorsA, colorsB) {
		return false
	}

	incident := make(map[Term][]Triple)
	for _, t := range ta {
		if t.Subject.IsBlank() {
			incident[t.Subject] = append(incident[t.Subject], t)
		}
		if t.Object.IsBlank() && t.Object != t.Subject {
			incident[t.Object] = append(incident[t.Object], t)
		}
	}

	m := &matcher{
		blanksA:  blanksA,
		blanksB:  blanksB,
		colorsA:  colorsA,
		colorsB:  colorsB,
		incident: incident,
		inB:      inB,
		mapping:  make(map[Term]Term),
		used:     make(map[Term]bool),
	}
	if !m.assign(0) {
		return false
	}
	for _, t := range ta {
		if !inB[m.apply(t)] {
			return false
		}
	}
	return true
}

type matcher struct {
	blanksA, blanksB []Term
	colorsA, colorsB map[Term]string
	incident         map[Term][]Triple
	inB              map[Triple]bool
	mapping          map[Term]Term
	used             map[Term]bool
}

func (m *matcher) assign(i int) bool {
	if i == len(m.blanksA) {
		return true
	}
	node := m.blanksA[i]
	for _, cand := range m.blanksB {
		if m.used[cand] || m.colorsB[cand] != m.colorsA[node] {
			continue
		}
		m.mapping[node] = cand
		m.used[cand] = true
		if m.consistent(node) && m.assign(i+1) {
			return true
		}
		delete(m.mapping, node)
		m.used[cand] = false
	}
	return false
}

// consistent checks the triples around node whose blank nodes are all mapped.
func (m *matcher) consistent(node Term) bool {
	for _, t := range m.incident[node] {
		if !m.mapped(t.Subject) || !m.mapped(t.Object) {
			continue
		}
		if !m.inB[m.apply(t)] {
			return false
		}
	}
	return true
}

func (m *matcher) mapped(t Term) bool {
	if !t.IsBlank() {
		return true
	}
	_, ok := m.mapping[t]
	return ok
}

func (m *matcher) apply(t Triple) Triple {
	return Triple{Subject: m.term(t.Subject), Predicate: t.Predicate, Object: m.term(t.Object)}
}

func (m *matcher) term(t Term) Term {
	if t.IsBlank() {
		return m.mapping[t]
	}
	return t
}

// refine computes a colour per blank node that depends only on the graph
// structure around it, not on its label.
func refine(triples []Triple, blanks []Term) map[Term]string {
	colors := make(map[Term]string, len(blanks))
	for _, b := range blanks {
		colors[b] = "_"
	}

	repr := func(t Term) string {
		if t.IsBlank() {
			return "_:" + colors[t]
		}
		return t.String()
	}

	for round := 0; round < len(blanks); round++ {
		next := make(map[Term]string, len(blanks))
		for _, b := range blanks {
			var parts []string
			for _, t := range triples {
				if t.Subject == b {
					parts = append(parts, "s "+t.Predicate.String()+" "+repr(t.Object))
				}
				if t.Object == b {
					parts = append(parts, "o "+repr(t.Subject)+" "+t.Predicate.String())
				}
			}
			sort.Strings(parts)
			sum := sha256.Sum256([]byte(colors[b] + "|" + strings.Join(parts, "\n")))
			next[b] = hex.EncodeToString(sum[:8])
		}
		stable := distinctColors(next) == distinctColors(colors)
		colors = next
		if stable {
			break
		}
	}
	return colors
}

func distinctColors(colors map[Term]string) int {
	seen := make(map[string]bool)
	for _, c := range colors {
		seen[c] = true
	}
	return len(seen)
}

func sameColorCounts(a, b map[Term]string) bool {
	count := make(map[string]int)
	for _, c := range a {
		count[c]++
	}
	for _, c := range b {
		count[c]--
	}
	for _, n := range count {
		if n != 0 {
			return false
		}
	}
	return true
}

func distinct(triples []Triple) []Triple {
	seen := make(map[Triple]bool, len(triples))
	out := triples[:0:0]
	for _, t := range triples {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func blankNodes(triples []Triple) []Term {
	seen := make(map[Term]bool)
	var out []Term
	for _, t := range triples {
		for _, n := range []Term{t.Subject, t.Object} {
			if n.IsBlank() && !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}
