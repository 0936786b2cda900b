package codec

import (
	"github.com/c360studio/semagent/graph"
	"github.com/c360studio/semagent/value"
	"github.com/c360studio/semagent/vocabulary/enrich"
)

var (
	rdfType        = graph.IRI(enrich.RDFType)
	variableMarker = graph.IRI(enrich.ClassVariable)
)

// isProtected reports whether t is the structural marker flagging its
// subject as a variable.
func isProtected(t graph.Triple) bool {
	return t.Predicate == rdfType && t.Object == variableMarker
}

// Extractor rebuilds constraints from a triple set. Starting at the seeded
// nodes it walks outgoing edges and incoming referrals breadth first,
// visiting each node at most once, so it terminates on cyclic graphs.
// The root node never becomes a constraint target.
//
// An Extractor is single use and not safe for concurrent use.
type Extractor struct {
	g    graph.TripleSet
	root graph.Term

	queue    []graph.Term
	pending  map[graph.Term]bool
	resolved map[graph.Term]bool
	order    []graph.Term

	targets  map[graph.Term]value.NamedValue
	bindings map[graph.Term][]value.Binding

	done   bool
	result []value.Constraint
}

// NewExtractor returns an extractor over g that excludes root.
func NewExtractor(g graph.TripleSet, root graph.Term) *Extractor {
	return &Extractor{
		g:        g,
		root:     root,
		pending:  make(map[graph.Term]bool),
		resolved: make(map[graph.Term]bool),
		targets:  make(map[graph.Term]value.NamedValue),
		bindings: make(map[graph.Term][]value.Binding),
	}
}

// Seed binds node to v and queues it for traversal.
func (e *Extractor) Seed(node graph.Term, v *value.Variable) {
	e.targets[node] = v
	e.enqueue(node)
}

// Variable returns the variable for a blank node, creating it on first
// sight. Repeated calls for one node return the same instance.
func (e *Extractor) Variable(node graph.Term) *value.Variable {
	if v, ok := e.targets[node].(*value.Variable); ok {
		return v
	}
	v := &value.Variable{Name: node.Value}
	e.targets[node] = v
	return v
}

// Extract runs the traversal and returns one constraint per resolved node
// with at least one binding, in resolution order. Nodes whose only triples
// are protected markers produce no constraint.
func (e *Extractor) Extract() []value.Constraint {
	if e.done {
		return e.result
	}
	e.done = true

	for len(e.queue) > 0 {
		n := e.queue[0]
		e.queue = e.queue[1:]
		delete(e.pending, n)
		e.resolved[n] = true
		e.order = append(e.order, n)

		e.createBindings(n)
		e.enqueueReferrals(n)
	}

	for _, n := range e.order {
		bs := e.bindings[n]
		if len(bs) == 0 {
			continue
		}
		e.result = append(e.result, value.Constraint{Target: e.target(n), Bindings: bs})
	}
	return e.result
}

func (e *Extractor) createBindings(n graph.Term) {
	for _, t := range e.g.WithSubject(n) {
		if isProtected(t) {
			continue
		}
		var v value.Value
		switch t.Object.Kind {
		case graph.TermLiteral:
			v = literalValue(t.Object)
		case graph.TermIRI:
			v = value.Resource{URI: t.Object.Value}
		case graph.TermBlank:
			v = e.Variable(t.Object)
			e.enqueue(t.Object)
		default:
			continue
		}
		e.bindings[n] = append(e.bindings[n], value.Binding{Property: t.Predicate.Value, Value: v})
	}
}

func (e *Extractor) enqueueReferrals(n graph.Term) {
	for _, t := range e.g.WithObject(n) {
		s := t.Subject
		if s == e.root || e.pending[s] || e.resolved[s] {
			continue
		}
		e.target(s)
		e.enqueue(s)
	}
}

func (e *Extractor) enqueue(n graph.Term) {
	if n == e.root || e.pending[n] || e.resolved[n] {
		return
	}
	e.pending[n] = true
	e.queue = append(e.queue, n)
}

// target returns the named value for n, creating a Variable for blank
// nodes and a Resource for IRIs.
func (e *Extractor) target(n graph.Term) value.NamedValue {
	if t, ok := e.targets[n]; ok {
		return t
	}
	if n.IsBlank() {
		return e.Variable(n)
	}
	r := value.Resource{URI: n.Value}
	e.targets[n] = r
	return r
}

func literalValue(t graph.Term) value.Literal {
	return value.Literal{Lexical: t.Value, Datatype: t.Datatype, Language: t.Language}
}
