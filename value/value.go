// Package value holds the typed model carried inside enrichment messages:
// resources, literals and variables, and the bindings and constraints built
// from them.
//
// Value is a closed sum type. Only Resource, Literal and *Variable implement
// it, so a type switch over the three cases is exhaustive.
package value

import (
	"strings"
	"unicode"
)

// Kind tags the concrete case of a Value.
type Kind int

const (
	KindResource Kind = iota + 1
	KindLiteral
	KindVariable
)

func (k Kind) String() string {
	switch k {
	case KindResource:
		return TypeResource
	case KindLiteral:
		return TypeLiteral
	case KindVariable:
		return TypeVariable
	default:
		return "unknown"
	}
}

// Value is a Resource, a Literal or a *Variable.
type Value interface {
	Kind() Kind
	String() string
	sealed()
}

// NamedValue is a Value that can anchor a Constraint or a Filter:
// a Resource or a *Variable.
type NamedValue interface {
	Value
	// Label is the URI of a Resource or the name of a Variable.
	Label() string
	named()
}

// Resource is a globally identified node.
type Resource struct {
	URI string
}

// NewResource returns a Resource for an absolute URI.
func NewResource(uri string) (Resource, error) {
	if _, err := ParseURI(uri); err != nil {
		return Resource{}, WithField(err, "uri")
	}
	return Resource{URI: uri}, nil
}

func (r Resource) Kind() Kind { return KindResource }
func (r Resource) String() string { return "<" + r.URI + ">" }
func (r Resource) Label() string { return r.URI }
func (Resource) sealed() {}
func (Resource) named() {}

// Literal is a lexical form with an optional datatype or language tag.
// An empty Datatype and Language means a plain string.
type Literal struct {
	Lexical  string
	Datatype string
	Language string
}

// NewLiteral validates the datatype and language of a literal. At most one
// of datatype and language may be set.
func NewLiteral(lexical, datatype, language string) (Literal, error) {
	if datatype != "" && language != "" {
		return Literal{}, &ValidationError{
			Field:        "language",
			ExpectedType: TypeLiteral,
			Value:        language,
			Description:  "a literal cannot carry both a datatype and a language tag",
		}
	}
	if datatype != "" {
		if _, err := ParseURI(datatype); err != nil {
			return Literal{}, WithField(err, "datatype")
		}
	}
	if language != "" && !validLanguageTag(language) {
		return Literal{}, &ValidationError{
			Field:        "language",
			ExpectedType: TypeLanguage,
			Value:        language,
			Description:  "not a well-formed language tag",
		}
	}
	return Literal{Lexical: lexical, Datatype: datatype, Language: language}, nil
}

// NewTypedLiteral returns a literal with the given datatype IRI.
func NewTypedLiteral(lexical, datatype string) (Literal, error) {
	if datatype == "" {
		return Literal{}, &ValidationError{
			Field:        "datatype",
			ExpectedType: TypeURI,
			Value:        NilMarker,
			Description:  "typed literal requires a datatype",
		}
	}
	return NewLiteral(lexical, datatype, "")
}

// NewLangLiteral returns a language-tagged literal.
func NewLangLiteral(lexical, language string) (Literal, error) {
	if language == "" {
		return Literal{}, &ValidationError{
			Field:        "language",
			ExpectedType: TypeLanguage,
			Value:        NilMarker,
			Description:  "language literal requires a language tag",
		}
	}
	return NewLiteral(lexical, "", language)
}

func (l Literal) Kind() Kind { return KindLiteral }

func (l Literal) String() string {
	switch {
	case l.Language != "":
		return `"` + l.Lexical + `"@` + l.Language
	case l.Datatype != "":
		return `"` + l.Lexical + `"^^<` + l.Datatype + ">"
	default:
		return `"` + l.Lexical + `"`
	}
}

func (Literal) sealed() {}

// Variable is a placeholder scoped to one message. Variables are compared by
// identity: every reference to the same graph node within one decode shares
// one *Variable.
type Variable struct {
	Name string
}

// NewVariable returns a variable whose name is a valid blank node label.
func NewVariable(name string) (*Variable, error) {
	if name == "" {
		return nil, &ValidationError{
			Field:        "name",
			ExpectedType: TypeVariable,
			Value:        NilMarker,
			Description:  "variable name must not be empty",
		}
	}
	if !ValidVariableName(name) {
		return nil, &ValidationError{
			Field:        "name",
			ExpectedType: TypeVariable,
			Value:        name,
			Description:  "variable name must be a blank node label",
		}
	}
	return &Variable{Name: name}, nil
}

// ValidVariableName reports whether name can be written as a Turtle blank
// node label: a letter, digit or underscore, then letters, digits, '_', '-'
// or '.', not ending in '.'.
func ValidVariableName(name string) bool {
	if name == "" || strings.HasSuffix(name, ".") {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= '0' && r <= '9', labelLetter(r):
		case i > 0 && (r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

func labelLetter(r rune) bool {
	if r < 0x80 {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	}
	return r >= 0xC0 && unicode.IsLetter(r)
}

func (v *Variable) Kind() Kind { return KindVariable }
func (v *Variable) String() string { return "?" + v.Name }
func (v *Variable) Label() string { return v.Name }
func (*Variable) sealed() {}
func (*Variable) named() {}

// validLanguageTag accepts BCP 47 shaped tags: a alphabetic primary subtag
// followed by alphanumeric subtags, each one to eight characters.
func validLanguageTag(tag string) bool {
	for i, sub := range strings.Split(tag, "-") {
		if len(sub) == 0 || len(sub) > 8 {
			return false
		}
		for _, c := range sub {
			alpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
			digit := c >= '0' && c <= '9'
			if !alpha && !(digit && i > 0) {
				return false
			}
		}
	}
	return true
}
