package value

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResource(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		wantErr bool
	}{
		{"http uri", "https://example.org/thing", false},
		{"urn", "urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8", false},
		{"empty", "", true},
		{"relative", "relative/path", true},
		{"missing scheme", "://bad", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewResource(tt.uri)
			if tt.wantErr {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, "uri", ve.Field)
				assert.Equal(t, TypeURI, ve.ExpectedType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.uri, r.URI)
			assert.Equal(t, KindResource, r.Kind())
		})
	}
}

func TestNewResource_NilMarker(t *testing.T) {
	_, err := NewResource("")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, NilMarker, ve.Value)
}

func TestNewLiteral(t *testing.T) {
	tests := []struct {
		name     string
		lexical  string
		datatype string
		language string
		wantErr  bool
	}{
		{"plain", "hello", "", "", false},
		{"empty lexical form", "", "", "", false},
		{"typed", "42", "http://www.w3.org/2001/XMLSchema#integer", "", false},
		{"language", "bonjour", "", "fr", false},
		{"language with region", "colour", "", "en-GB", false},
		{"both datatype and language", "x", "http://www.w3.org/2001/XMLSchema#string", "en", true},
		{"relative datatype", "x", "integer", "", true},
		{"bad language", "x", "", "en_US", true},
		{"numeric primary subtag", "x", "", "12", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLiteral(tt.lexical, tt.datatype, tt.language)
			if tt.wantErr {
				var ve *ValidationError
				assert.ErrorAs(t, err, &ve)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Literal{Lexical: tt.lexical, Datatype: tt.datatype, Language: tt.language}, l)
		})
	}
}

func TestTypedAndLangLiteralRequireQualifier(t *testing.T) {
	_, err := NewTypedLiteral("1", "")
	assert.Error(t, err)

	_, err = NewLangLiteral("hi", "")
	assert.Error(t, err)

	l, err := NewLangLiteral("hi", "en")
	require.NoError(t, err)
	assert.Equal(t, `"hi"@en`, l.String())
}

func TestNewVariable(t *testing.T) {
	v, err := NewVariable("repo")
	require.NoError(t, err)
	assert.Equal(t, "repo", v.Label())
	assert.Equal(t, KindVariable, v.Kind())

	_, err = NewVariable("")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
	assert.Equal(t, NilMarker, ve.Value)
}

func TestNewVariable_RejectsUnwritableNames(t *testing.T) {
	for _, name := range []string{"my repo", "a.", "x/y", "-a", ".a", "a:b", "?x"} {
		t.Run(name, func(t *testing.T) {
			_, err := NewVariable(name)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "name", ve.Field)
			assert.Equal(t, name, ve.Value)
		})
	}
}

func TestValidVariableName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"repo", true},
		{"_x", true},
		{"1", true},
		{"a.b", true},
		{"a-b_c", true},
		{"città", true},
		{"", false},
		{"a.", false},
		{"my repo", false},
		{"x/y", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidVariableName(tt.name))
		})
	}
}

func TestKindDispatch(t *testing.T) {
	values := []Value{
		Resource{URI: "https://example.org/a"},
		Literal{Lexical: "a"},
		&Variable{Name: "a"},
	}
	var kinds []Kind
	for _, v := range values {
		switch v.(type) {
		case Resource:
			kinds = append(kinds, KindResource)
		case Literal:
			kinds = append(kinds, KindLiteral)
		case *Variable:
			kinds = append(kinds, KindVariable)
		}
	}
	assert.Equal(t, []Kind{KindResource, KindLiteral, KindVariable}, kinds)
	assert.Equal(t, "variable", KindVariable.String())
}

func TestNewBinding(t *testing.T) {
	b, err := NewBinding("https://example.org/p", Literal{Lexical: "x"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/p", b.Property)

	_, err = NewBinding("p", Literal{Lexical: "x"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "property", ve.Field)

	_, err = NewBinding("https://example.org/p", nil)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "value", ve.Field)
}

func TestNewConstraint(t *testing.T) {
	v := &Variable{Name: "b1"}
	b := Binding{Property: "https://example.org/p", Value: Literal{Lexical: "x"}}

	c, err := NewConstraint(v, []Binding{b})
	require.NoError(t, err)
	assert.Same(t, v, c.Target)

	_, err = NewConstraint(v, nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "bindings", ve.Field)

	_, err = NewConstraint(nil, []Binding{b})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "target", ve.Field)

	var nilVar *Variable
	_, err = NewConstraint(nilVar, []Binding{b})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "target", ve.Field)
}

func TestNewFilter(t *testing.T) {
	v := &Variable{Name: "repo"}
	f, err := NewFilter("https://example.org/ci#forRepository", v)
	require.NoError(t, err)
	assert.Same(t, v, f.Variable)

	_, err = NewFilter("https://example.org/ci#forRepository", nil)
	assert.Error(t, err)
}

func TestVariables(t *testing.T) {
	a := &Variable{Name: "a"}
	b := &Variable{Name: "b"}
	constraints := []Constraint{
		{Target: a, Bindings: []Binding{{Property: "https://example.org/p", Value: b}}},
		{Target: b, Bindings: []Binding{{Property: "https://example.org/q", Value: Literal{Lexical: "1"}}}},
		{Target: Resource{URI: "https://example.org/r"}, Bindings: []Binding{{Property: "https://example.org/q", Value: a}}},
	}
	assert.Equal(t, []*Variable{a, b}, Variables(constraints))
}

func TestParseUUID(t *testing.T) {
	want := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	got, err := ParseUUID(want.String())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = ParseUUID("not-a-uuid")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, TypeUUID, ve.ExpectedType)
	assert.Equal(t, "not-a-uuid", ve.Value)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2024-03-01T10:20:30Z", time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC), false},
		{"2024-03-01T10:20:30.5+02:00", time.Date(2024, 3, 1, 8, 20, 30, 500000000, time.UTC), false},
		{"2024-03-01T10:20:30", time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC), false},
		{"yesterday", time.Time{}, true},
		{"", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestFormatTimestampRoundTrip(t *testing.T) {
	ts := time.Date(2025, 6, 7, 8, 9, 10, 123000000, time.FixedZone("x", 3600))
	text := FormatTimestamp(ts)
	assert.Equal(t, "2025-06-07T08:09:10.123+01:00", text)
	got, err := ParseTimestamp(text)
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))
}

func TestParsePort(t *testing.T) {
	tests := []struct {
		in      string
		want    uint16
		wantErr bool
	}{
		{"4222", 4222, false},
		{"65535", 65535, false},
		{"0", 0, true},
		{"65536", 0, true},
		{"-1", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePort(tt.in)
			if tt.wantErr {
				var ve *ValidationError
				assert.ErrorAs(t, err, &ve)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUint64(t *testing.T) {
	n, err := ParseUint64("18446744073709551615")
	require.NoError(t, err)
	assert.Equal(t, uint64(18446744073709551615), n)

	_, err = ParseUint64("-3")
	assert.Error(t, err)
}

func TestWithField(t *testing.T) {
	_, err := ParseUUID("zzz")
	err = WithField(err, "messageId")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "messageId", ve.Field)
	assert.Contains(t, err.Error(), "messageId")

	plain := errors.New("other")
	assert.Same(t, plain, WithField(plain, "x"))
}
