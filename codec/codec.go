// Package codec converts enrichment messages to and from their RDF graph
// form.
//
// Decoding locates the unique node typed with the message class, reads the
// envelope and variant fields off it, and for enrichment requests rebuilds
// the constraint graph hanging off the target resource. Encoding is the
// mirror image: envelope nodes are labelled through an Allocator so they
// never collide with the message's own variables.
//
// All functions are pure and safe for concurrent use. The package-level
// functions use the built-in table of the five message variants; a
// Registry can be built to add or replace codecs.
package codec

import (
	"github.com/c360studio/semagent/graph"
	"github.com/c360studio/semagent/protocol"
)

// Codec decodes and encodes one message kind.
type Codec interface {
	Kind() protocol.Kind
	// Decode reads a message whose root node has already been located.
	Decode(g graph.TripleSet, root graph.Term) (protocol.Message, error)
	// Encode writes msg through w.
	Encode(msg protocol.Message, w *BindingWriter) error
}

var builtin = DefaultRegistry()

// Decode reads a message of the given kind from g.
func Decode(g graph.TripleSet, kind protocol.Kind) (protocol.Message, error) {
	return builtin.Decode(g, kind)
}

// DecodeGraph reads a message from g, detecting its kind from the root
// node's type.
func DecodeGraph(g graph.TripleSet) (protocol.Message, error) {
	return builtin.DecodeGraph(g)
}

// DecodeTurtle parses Turtle text and decodes the message it holds.
func DecodeTurtle(text string) (protocol.Message, error) {
	return builtin.DecodeText(text, graph.FormatTurtle)
}

// DecodeText parses text in format f and decodes the message it holds.
func DecodeText(text string, f graph.Format) (protocol.Message, error) {
	return builtin.DecodeText(text, f)
}

// Encode writes msg as a graph.
func Encode(msg protocol.Message) (*graph.Graph, error) {
	return builtin.Encode(msg)
}

// EncodeTurtle writes msg as Turtle text.
func EncodeTurtle(msg protocol.Message) (string, error) {
	return builtin.EncodeText(msg, graph.FormatTurtle)
}

// EncodeText writes msg as text in format f.
func EncodeText(msg protocol.Message, f graph.Format) (string, error) {
	return builtin.EncodeText(msg, f)
}
