package codec

import (
	"fmt"

	"github.com/c360studio/semagent/graph"
	"github.com/c360studio/semagent/protocol"
	"github.com/c360studio/semagent/value"
)

type enrichmentResponseCodec struct{}

func (enrichmentResponseCodec) Kind() protocol.Kind { return protocol.KindEnrichmentResponse }

func (enrichmentResponseCodec) Decode(g graph.TripleSet, root graph.Term) (protocol.Message, error) {
	r := reader{g: g, node: root}
	env, err := decodeResponseEnvelope(r)
	if err != nil {
		return nil, err
	}
	target, err := r.iri(fieldTargetResource)
	if err != nil {
		return nil, err
	}
	msg := &protocol.EnrichmentResponse{ResponseEnvelope: env, TargetResource: target}

	vars := make(map[graph.Term]*value.Variable)
	if msg.Additions, err = directBindings(r, fieldAdditionTarget, vars); err != nil {
		return nil, err
	}
	if msg.Removals, err = directBindings(r, fieldRemovalTarget, vars); err != nil {
		return nil, err
	}
	return msg, nil
}

// directBindings reads the bindings of the node f points at, one level
// deep. Protected marker triples are skipped.
func directBindings(r reader, f field, vars map[graph.Term]*value.Variable) ([]value.Binding, error) {
	node, ok, err := r.object(f)
	if err != nil || !ok {
		return nil, err
	}
	var out []value.Binding
	for _, t := range r.g.WithSubject(node) {
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
			vr, seen := vars[t.Object]
			if !seen {
				vr = &value.Variable{Name: t.Object.Value}
				vars[t.Object] = vr
			}
			v = vr
		default:
			continue
		}
		out = append(out, value.Binding{Property: t.Predicate.Value, Value: v})
	}
	return out, nil
}

func (enrichmentResponseCodec) Encode(msg protocol.Message, w *BindingWriter) error {
	m, ok := msg.(*protocol.EnrichmentResponse)
	if !ok || m == nil {
		return fmt.Errorf("%w: cannot encode %T as %s", ErrUnsupportedKind, msg, protocol.KindEnrichmentResponse)
	}
	root := w.Node(labelResponse)
	if m.TargetResource == "" {
		return missingOnWrite(fieldTargetResource, root)
	}
	if _, err := value.ParseURI(m.TargetResource); err != nil {
		return value.WithField(err, fieldTargetResource.Name)
	}
	if err := encodeResponseEnvelope(w, root, protocol.KindEnrichmentResponse.Class(), m.ResponseEnvelope); err != nil {
		return err
	}
	w.Add(root, fieldTargetResource.Property, graph.IRI(m.TargetResource))

	sections := []struct {
		f        field
		label    string
		bindings []value.Binding
	}{
		{fieldAdditionTarget, labelAdditions, m.Additions},
		{fieldRemovalTarget, labelRemovals, m.Removals},
	}
	for _, s := range sections {
		if len(s.bindings) == 0 {
			continue
		}
		node := w.Node(s.label)
		w.Add(root, s.f.Property, node)
		if err := w.WriteBindings(node, s.bindings); err != nil {
			return err
		}
	}
	return nil
}

type acceptedCodec struct{}

func (acceptedCodec) Kind() protocol.Kind { return protocol.KindAccepted }

func (acceptedCodec) Decode(g graph.TripleSet, root graph.Term) (protocol.Message, error) {
	env, err := decodeResponseEnvelope(reader{g: g, node: root})
	if err != nil {
		return nil, err
	}
	return &protocol.Accepted{ResponseEnvelope: env}, nil
}

func (acceptedCodec) Encode(msg protocol.Message, w *BindingWriter) error {
	m, ok := msg.(*protocol.Accepted)
	if !ok || m == nil {
		return fmt.Errorf("%w: cannot encode %T as %s", ErrUnsupportedKind, msg, protocol.KindAccepted)
	}
	return encodeResponseEnvelope(w, w.Node(labelResponse), protocol.KindAccepted.Class(), m.ResponseEnvelope)
}

type failureCodec struct{}

func (failureCodec) Kind() protocol.Kind { return protocol.KindFailure }

func (failureCodec) Decode(g graph.TripleSet, root graph.Term) (protocol.Message, error) {
	r := reader{g: g, node: root}
	env, err := decodeResponseEnvelope(r)
	if err != nil {
		return nil, err
	}
	msg := &protocol.Failure{ResponseEnvelope: env}
	if msg.Code, err = r.iri(fieldCode); err != nil {
		return nil, err
	}
	if msg.Subcode, err = r.iri(fieldSubcode); err != nil {
		return nil, err
	}
	if msg.Reason, err = r.text(fieldReason); err != nil {
		return nil, err
	}
	if msg.Detail, err = r.text(fieldDetail); err != nil {
		return nil, err
	}
	return msg, nil
}

func (failureCodec) Encode(msg protocol.Message, w *BindingWriter) error {
	m, ok := msg.(*protocol.Failure)
	if !ok || m == nil {
		return fmt.Errorf("%w: cannot encode %T as %s", ErrUnsupportedKind, msg, protocol.KindFailure)
	}
	root := w.Node(labelResponse)
	if m.Code == "" {
		return missingOnWrite(fieldCode, root)
	}
	for _, u := range []struct {
		f field
		v string
	}{{fieldCode, m.Code}, {fieldSubcode, m.Subcode}} {
		if u.v == "" {
			continue
		}
		if _, err := value.ParseURI(u.v); err != nil {
			return value.WithField(err, u.f.Name)
		}
	}
	if err := encodeResponseEnvelope(w, root, protocol.KindFailure.Class(), m.ResponseEnvelope); err != nil {
		return err
	}

	w.Add(root, fieldCode.Property, graph.IRI(m.Code))
	if m.Subcode != "" {
		w.Add(root, fieldSubcode.Property, graph.IRI(m.Subcode))
	}
	w.Add(root, fieldReason.Property, plain(m.Reason))
	if m.Detail != "" {
		w.Add(root, fieldDetail.Property, plain(m.Detail))
	}
	return nil
}
