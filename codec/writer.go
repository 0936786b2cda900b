package codec

import (
	"fmt"

	"github.com/c360studio/semagent/graph"
	"github.com/c360studio/semagent/value"
)

// BindingWriter accumulates the triples of one outbound message.
// Variables are written as blank nodes labelled with their own name, each
// with one protected marker triple. Envelope nodes get their labels from
// the Allocator so they never collide with a variable.
type BindingWriter struct {
	g      *graph.Graph
	alloc  *Allocator
	marked map[string]bool
}

// NewBindingWriter returns a writer drawing envelope labels from alloc.
func NewBindingWriter(alloc *Allocator) *BindingWriter {
	return &BindingWriter{
		g:      graph.New(),
		alloc:  alloc,
		marked: make(map[string]bool),
	}
}

// Graph returns the triples written so far.
func (w *BindingWriter) Graph() *graph.Graph { return w.g }

// Node returns the blank node for an envelope slot.
func (w *BindingWriter) Node(preferred string) graph.Term {
	return graph.Blank(w.alloc.Label(preferred))
}

// Add writes one triple.
func (w *BindingWriter) Add(s graph.Term, property string, o graph.Term) {
	w.g.AddTriple(s, graph.IRI(property), o)
}

// WriteConstraint writes one triple per binding under the constraint's
// target.
func (w *BindingWriter) WriteConstraint(c value.Constraint) error {
	if c.Target == nil {
		return &value.ValidationError{Field: "target", ExpectedType: "namedValue", Value: value.NilMarker}
	}
	subject, err := w.Term(c.Target)
	if err != nil {
		return err
	}
	return w.WriteBindings(subject, c.Bindings)
}

// WriteBindings writes (subject, property, value) for each binding.
func (w *BindingWriter) WriteBindings(subject graph.Term, bindings []value.Binding) error {
	for _, b := range bindings {
		if b.Property == "" {
			return &value.ValidationError{Field: "property", ExpectedType: value.TypeURI, Value: value.NilMarker}
		}
		o, err := w.Term(b.Value)
		if err != nil {
			return fmt.Errorf("binding %s: %w", b.Property, err)
		}
		w.Add(subject, b.Property, o)
	}
	return nil
}

// Term encodes a value as a graph node.
func (w *BindingWriter) Term(v value.Value) (graph.Term, error) {
	switch v := v.(type) {
	case value.Resource:
		return graph.IRI(v.URI), nil
	case value.Literal:
		return graph.Literal(v.Lexical, v.Datatype, v.Language), nil
	case *value.Variable:
		if v == nil || v.Name == "" {
			return graph.Term{}, &value.ValidationError{Field: "variable", ExpectedType: value.TypeVariable, Value: value.NilMarker}
		}
		if !value.ValidVariableName(v.Name) {
			return graph.Term{}, &value.ValidationError{
				Field:        "variable",
				ExpectedType: value.TypeVariable,
				Value:        v.Name,
				Description:  "variable name must be a blank node label",
			}
		}
		node := graph.Blank(v.Name)
		if !w.marked[v.Name] {
			w.marked[v.Name] = true
			w.g.AddTriple(node, rdfType, variableMarker)
		}
		return node, nil
	default:
		return graph.Term{}, &value.ValidationError{Field: "value", ExpectedType: "value", Value: value.NilMarker}
	}
}
