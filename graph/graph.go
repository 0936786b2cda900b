package graph

// TripleSet is the read side of a triple store. Results are returned in
// insertion order.
type TripleSet interface {
	Triples() []Triple
	WithSubject(s Term) []Triple
	WithObject(o Term) []Triple
	WithPredicateObject(p, o Term) []Triple
}

// Graph is an insertion-ordered set of triples indexed by subject and
// object. Adding a triple already present is a no-op.
type Graph struct {
	triples   []Triple
	seen      map[Triple]struct{}
	bySubject map[Term][]int
	byObject  map[Term][]int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		seen:      make(map[Triple]struct{}),
		bySubject: make(map[Term][]int),
		byObject:  make(map[Term][]int),
	}
}

// Add inserts a triple and reports whether it was new.
func (g *Graph) Add(t Triple) bool {
	if _, ok := g.seen[t]; ok {
		return false
	}
	g.seen[t] = struct{}{}
	idx := len(g.triples)
	g.triples = append(g.triples, t)
	g.bySubject[t.Subject] = append(g.bySubject[t.Subject], idx)
	g.byObject[t.Object] = append(g.byObject[t.Object], idx)
	return true
}

// AddTriple is shorthand for Add(Triple{s, p, o}).
func (g *Graph) AddTriple(s, p, o Term) bool {
	return g.Add(Triple{Subject: s, Predicate: p, Object: o})
}

// Len returns the number of triples.
func (g *Graph) Len() int { return len(g.triples) }

// Has reports whether t is in the graph.
func (g *Graph) Has(t Triple) bool {
	_, ok := g.seen[t]
	return ok
}

// Triples returns a copy of all triples.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// WithSubject returns the triples whose subject is s.
func (g *Graph) WithSubject(s Term) []Triple {
	return g.collect(g.bySubject[s])
}

// WithObject returns the triples whose object is o.
func (g *Graph) WithObject(o Term) []Triple {
	return g.collect(g.byObject[o])
}

// WithPredicateObject returns the triples with predicate p and object o.
func (g *Graph) WithPredicateObject(p, o Term) []Triple {
	var out []Triple
	for _, i := range g.byObject[o] {
		if g.triples[i].Predicate == p {
			out = append(out, g.triples[i])
		}
	}
	return out
}

// Nodes returns every distinct subject and object in first-seen order.
func (g *Graph) Nodes() []Term {
	seen := make(map[Term]bool)
	var out []Term
	for _, t := range g.triples {
		for _, n := range []Term{t.Subject, t.Object} {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

func (g *Graph) collect(idx []int) []Triple {
	if len(idx) == 0 {
		return nil
	}
	out := make([]Triple, len(idx))
	for i, n := range idx {
		out[i] = g.triples[n]
	}
	return out
}
