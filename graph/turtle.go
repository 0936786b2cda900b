package graph

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/knakk/rdf"
)

// Format is a wire serialization of a graph.
type Format string

const (
	FormatTurtle   Format = "turtle"
	FormatNTriples Format = "ntriples"
)

const (
	xsdString     = "http://www.w3.org/2001/XMLSchema#string"
	rdfLangString = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)

const (
	// authoredMark is spliced after every "_:" in Turtle source before
	// decoding. The decoder names anonymous nodes b1, b2 and so on, which
	// would otherwise merge with an authored _:b1.
	authoredMark = "x_"

	// anonPrefix labels anonymous nodes once decoded.
	anonPrefix = "genid"
)

// ParseFormat maps a configuration name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "turtle", "ttl":
		return FormatTurtle, nil
	case "ntriples", "n-triples", "nt":
		return FormatNTriples, nil
	default:
		return "", fmt.Errorf("unsupported graph format %q", name)
	}
}

// ContentType returns the media type for f.
func (f Format) ContentType() string {
	if f == FormatNTriples {
		return "application/n-triples"
	}
	return "text/turtle"
}

func (f Format) rdf() (rdf.Format, error) {
	switch f {
	case FormatTurtle, "":
		return rdf.Turtle, nil
	case FormatNTriples:
		return rdf.NTriples, nil
	default:
		return 0, fmt.Errorf("unsupported graph format %q", string(f))
	}
}

// Parse reads a graph from text. Blank node labels are kept as written.
// Anonymous Turtle nodes are labelled genid1, genid2 and so on, skipping
// any label the document already uses.
func Parse(text string, f Format) (*Graph, error) {
	rf, err := f.rdf()
	if err != nil {
		return nil, err
	}

	marked := rf == rdf.Turtle
	if marked {
		text = markBlankLabels(text)
	}

	dec := rdf.NewTripleDecoder(strings.NewReader(text), rf)
	triples, err := dec.DecodeAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f, err)
	}

	labels := newBlankLabeler(triples, marked)
	g := New()
	for _, rt := range triples {
		t, err := fromRDFTriple(rt, labels)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		g.Add(t)
	}
	return g, nil
}

// Serialize writes ts in format f. Prefixes maps prefix to namespace IRI and
// is only used for Turtle.
func Serialize(ts TripleSet, f Format, prefixes map[string]string) (string, error) {
	rf, err := f.rdf()
	if err != nil {
		return "", err
	}

	triples := ts.Triples()
	out := make([]rdf.Triple, 0, len(triples))
	for _, t := range triples {
		rt, err := toRDFTriple(t)
		if err != nil {
			return "", fmt.Errorf("serialize %s: %w", f, err)
		}
		out = append(out, rt)
	}

	var buf bytes.Buffer
	enc := rdf.NewTripleEncoder(&buf, rf)
	if rf == rdf.Turtle && len(prefixes) > 0 {
		// encoder keys are namespace IRIs
		ns := make(map[string]string, len(prefixes))
		for prefix, iri := range prefixes {
			ns[iri] = prefix
		}
		enc.Namespaces = ns
	}
	if err := enc.EncodeAll(out); err != nil {
		return "", fmt.Errorf("serialize %s: %w", f, err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("serialize %s: %w", f, err)
	}
	return buf.String(), nil
}

func fromRDFTriple(rt rdf.Triple, labels *blankLabeler) (Triple, error) {
	s, err := fromRDF(rt.Subj, labels)
	if err != nil {
		return Triple{}, err
	}
	p, err := fromRDF(rt.Pred, labels)
	if err != nil {
		return Triple{}, err
	}
	o, err := fromRDF(rt.Obj, labels)
	if err != nil {
		return Triple{}, err
	}
	return Triple{Subject: s, Predicate: p, Object: o}, nil
}

func fromRDF(t rdf.Term, labels *blankLabeler) (Term, error) {
	switch t.Type() {
	case rdf.TermIRI:
		return IRI(t.String()), nil
	case rdf.TermBlank:
		return Blank(labels.label(t.String())), nil
	case rdf.TermLiteral:
		lit, ok := t.(rdf.Literal)
		if !ok {
			return Term{}, fmt.Errorf("unexpected literal term %T", t)
		}
		lang := lit.Lang()
		dt := lit.DataType.String()
		if lang != "" || dt == rdfLangString || dt == xsdString {
			dt = ""
		}
		return Literal(lit.String(), dt, lang), nil
	default:
		return Term{}, fmt.Errorf("unsupported term %s", t.Serialize(rdf.NTriples))
	}
}

func toRDFTriple(t Triple) (rdf.Triple, error) {
	s, err := toRDF(t.Subject)
	if err != nil {
		return rdf.Triple{}, err
	}
	subj, ok := s.(rdf.Subject)
	if !ok {
		return rdf.Triple{}, fmt.Errorf("%s term %s cannot be a subject", t.Subject.Kind, t.Subject)
	}
	p, err := toRDF(t.Predicate)
	if err != nil {
		return rdf.Triple{}, err
	}
	pred, ok := p.(rdf.Predicate)
	if !ok {
		return rdf.Triple{}, fmt.Errorf("%s term %s cannot be a predicate", t.Predicate.Kind, t.Predicate)
	}
	o, err := toRDF(t.Object)
	if err != nil {
		return rdf.Triple{}, err
	}
	obj, ok := o.(rdf.Object)
	if !ok {
		return rdf.Triple{}, fmt.Errorf("%s term %s cannot be an object", t.Object.Kind, t.Object)
	}
	return rdf.Triple{Subj: subj, Pred: pred, Obj: obj}, nil
}

func toRDF(t Term) (rdf.Term, error) {
	switch t.Kind {
	case TermIRI:
		return rdf.NewIRI(t.Value)
	case TermBlank:
		return rdf.NewBlank(t.Value)
	case TermLiteral:
		switch {
		case t.Language != "":
			return rdf.NewLangLiteral(t.Value, t.Language)
		case t.Datatype != "":
			dt, err := rdf.NewIRI(t.Datatype)
			if err != nil {
				return nil, err
			}
			return rdf.NewTypedLiteral(t.Value, dt), nil
		default:
			return rdf.NewLiteral(t.Value)
		}
	default:
		return nil, fmt.Errorf("unsupported term kind %s", t.Kind)
	}
}

// blankLabeler maps decoded blank node ids back to graph labels.
type blankLabeler struct {
	marked   bool
	authored map[string]bool
	anon     map[string]string
	next     int
}

func newBlankLabeler(triples []rdf.Triple, marked bool) *blankLabeler {
	l := &blankLabeler{
		marked:   marked,
		authored: make(map[string]bool),
		anon:     make(map[string]string),
	}
	for _, t := range triples {
		for _, term := range []rdf.Term{t.Subj, t.Obj} {
			if term.Type() != rdf.TermBlank {
				continue
			}
			if label, ok := l.authoredLabel(term.String()); ok {
				l.authored[label] = true
			}
		}
	}
	return l
}

// authoredLabel returns the label written in the source, or false when the
// decoder invented the id for an anonymous node.
func (l *blankLabeler) authoredLabel(id string) (string, bool) {
	id = strings.TrimPrefix(id, "_:")
	if !l.marked {
		return id, true
	}
	if rest, ok := strings.CutPrefix(id, authoredMark); ok {
		return rest, true
	}
	if isDecoderLabel(id) {
		return "", false
	}
	return id, true
}

func (l *blankLabeler) label(id string) string {
	if label, ok := l.authoredLabel(id); ok {
		return label
	}
	if label, ok := l.anon[id]; ok {
		return label
	}
	for {
		l.next++
		label := anonPrefix + strconv.Itoa(l.next)
		if !l.authored[label] {
			l.anon[id] = label
			return label
		}
	}
}

func isDecoderLabel(id string) bool {
	if len(id) < 2 || id[0] != 'b' {
		return false
	}
	for _, r := range id[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// markBlankLabels prefixes every blank node label in Turtle source with
// authoredMark. Strings, IRIs, comments and escapes are copied unchanged.
func markBlankLabels(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 32)

	var prev, beforePrev rune
	for i := 0; i < len(text); {
		r, w := utf8.DecodeRuneInString(text[i:])
		end := i + w
		switch {
		case r == '"' || r == '\'':
			end = stringEnd(text, i)
		case r == '<':
			end = delimitedEnd(text, i+1, '>')
		case r == '#':
			end = delimitedEnd(text, i+1, '\n')
		case r == '\\':
			if end < len(text) {
				_, nw := utf8.DecodeRuneInString(text[end:])
				end += nw
			}
		case r == '_' && strings.HasPrefix(text[end:], ":") && labelBoundary(prev, beforePrev):
			b.WriteString("_:" + authoredMark)
			i = end + 1
			beforePrev, prev = '_', ':'
			continue
		}
		b.WriteString(text[i:end])
		last, _ := utf8.DecodeLastRuneInString(text[i:end])
		beforePrev, prev = prev, last
		i = end
	}
	return b.String()
}

// labelBoundary reports whether a "_:" after prev starts a blank node label
// rather than sitting inside a prefixed name.
func labelBoundary(prev, beforePrev rune) bool {
	switch {
	case prev == 0 || unicode.IsSpace(prev) || strings.ContainsRune("[(;,", prev):
		return true
	case prev == '.':
		return beforePrev == 0 || unicode.IsSpace(beforePrev) || strings.ContainsRune(">\"')]", beforePrev)
	default:
		return false
	}
}

// stringEnd returns the index just past the literal starting at i, or the
// end of an unterminated line.
func stringEnd(text string, i int) int {
	q := text[i]
	long := strings.Repeat(string(q), 3)
	if strings.HasPrefix(text[i:], long) {
		for j := i + 3; j < len(text); j++ {
			switch {
			case text[j] == '\\':
				j++
			case strings.HasPrefix(text[j:], long):
				return j + 3
			}
		}
		return len(text)
	}
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case q:
			return j + 1
		case '\n':
			return j
		}
	}
	return len(text)
}

// delimitedEnd returns the index just past the first delim at or after i.
func delimitedEnd(text string, i int, delim byte) int {
	if k := strings.IndexByte(text[i:], delim); k >= 0 {
		return i + k + 1
	}
	return len(text)
}
