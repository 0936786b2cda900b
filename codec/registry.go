package codec

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/c360studio/semagent/graph"
	"github.com/c360studio/semagent/protocol"
	"github.com/c360studio/semagent/vocabulary/enrich"
)

// Registry maps message kinds to codecs. Lookups are lock free; Register
// replaces the table copy-on-write, and the last registration for a kind
// wins.
type Registry struct {
	table atomic.Pointer[map[protocol.Kind]Codec]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	empty := map[protocol.Kind]Codec{}
	r.table.Store(&empty)
	return r
}

// DefaultRegistry returns a new registry holding the five message variants.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(enrichmentRequestCodec{})
	r.Register(disconnectCodec{})
	r.Register(enrichmentResponseCodec{})
	r.Register(acceptedCodec{})
	r.Register(failureCodec{})
	return r
}

// Register adds or replaces the codec for c.Kind().
func (r *Registry) Register(c Codec) {
	for {
		old := r.table.Load()
		next := make(map[protocol.Kind]Codec, len(*old)+1)
		for k, v := range *old {
			next[k] = v
		}
		next[c.Kind()] = c
		if r.table.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Lookup returns the codec for kind.
func (r *Registry) Lookup(kind protocol.Kind) (Codec, bool) {
	c, ok := (*r.table.Load())[kind]
	return c, ok
}

// Kinds returns the registered kinds in ascending order.
func (r *Registry) Kinds() []protocol.Kind {
	table := *r.table.Load()
	kinds := make([]protocol.Kind, 0, len(table))
	for k := range table {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Decode reads a message of the given kind from g.
func (r *Registry) Decode(g graph.TripleSet, kind protocol.Kind) (protocol.Message, error) {
	c, ok := r.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("decode %s: %w", kind, ErrUnsupportedKind)
	}
	roots := typedRoots(g, kind.Class())
	if len(roots) != 1 {
		return nil, fmt.Errorf("decode %s: %w", kind, &SchemaError{TypeIRI: kind.Class(), Count: len(roots)})
	}
	msg, err := c.Decode(g, roots[0])
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return msg, nil
}

// DecodeGraph reads a message from g, detecting its kind among the
// registered ones. Exactly one node in g may carry a registered message
// class.
func (r *Registry) DecodeGraph(g graph.TripleSet) (protocol.Message, error) {
	var (
		found protocol.Kind
		total int
	)
	for _, k := range r.Kinds() {
		n := len(typedRoots(g, k.Class()))
		if n > 0 && total == 0 {
			found = k
		}
		total += n
	}
	switch {
	case total == 0:
		return nil, fmt.Errorf("decode: %w", ErrUnknownMessage)
	case total > 1:
		return nil, fmt.Errorf("decode: %w", &SchemaError{TypeIRI: found.Class(), Count: total})
	}
	return r.Decode(g, found)
}

// DecodeText parses text in format f and decodes the message it holds.
func (r *Registry) DecodeText(text string, f graph.Format) (protocol.Message, error) {
	g, err := graph.Parse(text, f)
	if err != nil {
		return nil, &ParseError{Format: f, Err: err}
	}
	return r.DecodeGraph(g)
}

// Encode writes msg as a graph.
func (r *Registry) Encode(msg protocol.Message) (*graph.Graph, error) {
	if msg == nil {
		return nil, fmt.Errorf("encode: %w: nil message", ErrUnsupportedKind)
	}
	kind := msg.Kind()
	c, ok := r.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("encode %s: %w", kind, ErrUnsupportedKind)
	}

	w := NewBindingWriter(NewAllocator(reservedNames(msg)))
	if err := c.Encode(msg, w); err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}
	return w.Graph(), nil
}

// EncodeText writes msg as text in format f.
func (r *Registry) EncodeText(msg protocol.Message, f graph.Format) (string, error) {
	g, err := r.Encode(msg)
	if err != nil {
		return "", err
	}
	text, err := graph.Serialize(g, f, enrich.DefaultPrefixes())
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", msg.Kind(), err)
	}
	return text, nil
}

func reservedNames(msg protocol.Message) []string {
	switch m := msg.(type) {
	case *protocol.EnrichmentRequest:
		if m != nil {
			return ReservedNames(m.Constraints, m.Filters)
		}
	case *protocol.EnrichmentResponse:
		if m != nil {
			return ReservedNames(nil, nil, m.Additions, m.Removals)
		}
	}
	return nil
}

// typedRoots returns the distinct subjects typed with class.
func typedRoots(g graph.TripleSet, class string) []graph.Term {
	seen := make(map[graph.Term]bool)
	var roots []graph.Term
	for _, t := range g.WithPredicateObject(rdfType, graph.IRI(class)) {
		if !seen[t.Subject] {
			seen[t.Subject] = true
			roots = append(roots, t.Subject)
		}
	}
	return roots
}
