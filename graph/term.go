// Package graph is the triple engine used by the message codec: an in-memory
// triple set with subject and object indexes, Turtle and N-Triples I/O, a
// blank-node aware isomorphism check, and the mirror that republishes a
// decoded message graph for knowledge-graph ingestion.
package graph

import "fmt"

// TermKind is the node kind of a Term.
type TermKind int

const (
	TermIRI TermKind = iota + 1
	TermBlank
	TermLiteral
)

func (k TermKind) String() string {
	switch k {
	case TermIRI:
		return "iri"
	case TermBlank:
		return "blank"
	case TermLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Term is an RDF node. Terms are comparable and used directly as map keys.
// Value holds the IRI, the blank label (without "_:"), or the lexical form.
// Datatype and Language apply to literals only; a plain string literal has
// neither.
type Term struct {
	Kind     TermKind
	Value    string
	Datatype string
	Language string
}

// IRI returns an IRI node.
func IRI(iri string) Term { return Term{Kind: TermIRI, Value: iri} }

// Blank returns a blank node with the given label.
func Blank(label string) Term { return Term{Kind: TermBlank, Value: label} }

// Literal returns a literal node.
func Literal(lexical, datatype, language string) Term {
	return Term{Kind: TermLiteral, Value: lexical, Datatype: datatype, Language: language}
}

// IsIRI reports whether t is an IRI node.
func (t Term) IsIRI() bool { return t.Kind == TermIRI }

// IsBlank reports whether t is a blank node.
func (t Term) IsBlank() bool { return t.Kind == TermBlank }

// IsLiteral reports whether t is a literal.
func (t Term) IsLiteral() bool { return t.Kind == TermLiteral }

// String renders t in N-Triples syntax.
func (t Term) String() string {
	switch t.Kind {
	case TermIRI:
		return "<" + t.Value + ">"
	case TermBlank:
		return "_:" + t.Value
	case TermLiteral:
		switch {
		case t.Language != "":
			return fmt.Sprintf("%q@%s", t.Value, t.Language)
		case t.Datatype != "":
			return fmt.Sprintf("%q^^<%s>", t.Value, t.Datatype)
		default:
			return fmt.Sprintf("%q", t.Value)
		}
	default:
		return "?"
	}
}

// Triple is a subject, predicate, object statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

func (t Triple) String() string {
	return t.Subject.String() + " " + t.Predicate.String() + " " + t.Object.String() + " ."
}
