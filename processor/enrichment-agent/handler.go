package enrichmentagent

import (
	"context"

	"github.com/c360studio/semagent/protocol"
	"github.com/c360studio/semagent/value"
)

// Enrichment is one batch of changes to a request's target resource. Each
// Enrichment returned by a Handler is published as its own numbered
// EnrichmentResponse.
type Enrichment struct {
	Additions []value.Binding
	Removals  []value.Binding
}

// Handler answers enrichment requests.
type Handler interface {
	Enrich(ctx context.Context, req *protocol.EnrichmentRequest) ([]Enrichment, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req *protocol.EnrichmentRequest) ([]Enrichment, error)

// Enrich calls f.
func (f HandlerFunc) Enrich(ctx context.Context, req *protocol.EnrichmentRequest) ([]Enrichment, error) {
	return f(ctx, req)
}

// StaticHandler answers from a fixed rule table. Requests matching no rule
// get no enrichment response, only the acknowledgement.
type StaticHandler struct {
	rules map[string][]value.Binding
	any   []value.Binding
}

// NewStaticHandler builds a handler from rules.
func NewStaticHandler(rules []Rule) (*StaticHandler, error) {
	h := &StaticHandler{rules: make(map[string][]value.Binding)}
	for _, r := range rules {
		b, err := r.Binding()
		if err != nil {
			return nil, err
		}
		if r.Target == "*" {
			h.any = append(h.any, b)
			continue
		}
		h.rules[r.Target] = append(h.rules[r.Target], b)
	}
	return h, nil
}

// Enrich returns the bindings of every rule matching the target.
func (h *StaticHandler) Enrich(_ context.Context, req *protocol.EnrichmentRequest) ([]Enrichment, error) {
	var additions []value.Binding
	additions = append(additions, h.rules[req.TargetResource]...)
	additions = append(additions, h.any...)
	if len(additions) == 0 {
		return nil, nil
	}
	return []Enrichment{{Additions: additions}}, nil
}
