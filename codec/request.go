package codec

import (
	"fmt"

	"github.com/c360studio/semagent/graph"
	"github.com/c360studio/semagent/protocol"
	"github.com/c360studio/semagent/value"
)

type enrichmentRequestCodec struct{}

func (enrichmentRequestCodec) Kind() protocol.Kind { return protocol.KindEnrichmentRequest }

func (enrichmentRequestCodec) Decode(g graph.TripleSet, root graph.Term) (protocol.Message, error) {
	r := reader{g: g, node: root}
	env, err := decodeRequestEnvelope(r)
	if err != nil {
		return nil, err
	}
	target, err := r.iri(fieldTargetResource)
	if err != nil {
		return nil, err
	}

	msg := &protocol.EnrichmentRequest{RequestEnvelope: env, TargetResource: target}

	// Filters hang off the target resource; their variables seed the
	// constraint traversal, which is rooted at the target.
	targetNode := graph.IRI(target)
	ex := NewExtractor(g, targetNode)
	for _, t := range g.WithSubject(targetNode) {
		if !t.Object.IsBlank() {
			continue
		}
		v := ex.Variable(t.Object)
		msg.Filters = append(msg.Filters, value.Filter{Property: t.Predicate.Value, Variable: v})
		ex.Seed(t.Object, v)
	}
	msg.Constraints = ex.Extract()
	return msg, nil
}

func (enrichmentRequestCodec) Encode(msg protocol.Message, w *BindingWriter) error {
	m, ok := msg.(*protocol.EnrichmentRequest)
	if !ok || m == nil {
		return fmt.Errorf("%w: cannot encode %T as %s", ErrUnsupportedKind, msg, protocol.KindEnrichmentRequest)
	}
	root := w.Node(labelRequest)
	if m.TargetResource == "" {
		return missingOnWrite(fieldTargetResource, root)
	}
	if _, err := value.ParseURI(m.TargetResource); err != nil {
		return value.WithField(err, fieldTargetResource.Name)
	}
	if err := encodeRequestEnvelope(w, root, protocol.KindEnrichmentRequest.Class(), m.RequestEnvelope); err != nil {
		return err
	}

	target := graph.IRI(m.TargetResource)
	w.Add(root, fieldTargetResource.Property, target)
	for _, f := range m.Filters {
		if f.Variable == nil {
			return &value.ValidationError{Field: "variable", ExpectedType: value.TypeVariable, Value: value.NilMarker}
		}
		node, err := w.Term(f.Variable)
		if err != nil {
			return err
		}
		w.Add(target, f.Property, node)
	}
	for _, c := range m.Constraints {
		if err := w.WriteConstraint(c); err != nil {
			return err
		}
	}
	return nil
}

type disconnectCodec struct{}

func (disconnectCodec) Kind() protocol.Kind { return protocol.KindDisconnect }

func (disconnectCodec) Decode(g graph.TripleSet, root graph.Term) (protocol.Message, error) {
	env, err := decodeRequestEnvelope(reader{g: g, node: root})
	if err != nil {
		return nil, err
	}
	return &protocol.Disconnect{RequestEnvelope: env}, nil
}

func (disconnectCodec) Encode(msg protocol.Message, w *BindingWriter) error {
	m, ok := msg.(*protocol.Disconnect)
	if !ok || m == nil {
		return fmt.Errorf("%w: cannot encode %T as %s", ErrUnsupportedKind, msg, protocol.KindDisconnect)
	}
	return encodeRequestEnvelope(w, w.Node(labelRequest), protocol.KindDisconnect.Class(), m.RequestEnvelope)
}
