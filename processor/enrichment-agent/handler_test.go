package enrichmentagent

import (
	"context"
	"testing"

	"github.com/c360studio/semagent/protocol"
	"github.com/c360studio/semagent/value"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticHandler(t *testing.T) {
	h, err := NewStaticHandler([]Rule{
		{Target: target, Property: ci + "status", Object: "passed"},
		{Target: target, Property: ci + "duration", Object: "PT3M", Datatype: "http://www.w3.org/2001/XMLSchema#duration"},
		{Target: "https://example.org/builds/43", Property: ci + "status", Object: "failed"},
		{Target: "*", Property: ci + "label", Object: "build", Language: "en"},
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		target string
		want   []Enrichment
	}{
		{
			name:   "exact and wildcard rules",
			target: target,
			want: []Enrichment{{Additions: []value.Binding{
				{Property: ci + "status", Value: value.Literal{Lexical: "passed"}},
				{Property: ci + "duration", Value: value.Literal{Lexical: "PT3M", Datatype: "http://www.w3.org/2001/XMLSchema#duration"}},
				{Property: ci + "label", Value: value.Literal{Lexical: "build", Language: "en"}},
			}}},
		},
		{
			name:   "wildcard only",
			target: "https://example.org/builds/99",
			want: []Enrichment{{Additions: []value.Binding{
				{Property: ci + "label", Value: value.Literal{Lexical: "build", Language: "en"}},
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.Enrich(context.Background(), &protocol.EnrichmentRequest{TargetResource: tt.target})
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Enrich() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStaticHandler_NoRules(t *testing.T) {
	h, err := NewStaticHandler(nil)
	require.NoError(t, err)

	got, err := h.Enrich(context.Background(), &protocol.EnrichmentRequest{TargetResource: target})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewStaticHandler_InvalidRule(t *testing.T) {
	_, err := NewStaticHandler([]Rule{{Target: "*", Property: ci + "p", Object: "x", Datatype: "xsd:string", Language: "en"}})
	assert.Error(t, err)
}

func TestRule_Binding(t *testing.T) {
	b, err := Rule{Property: ci + "owner", Object: "https://example.org/people/1", ObjectKind: "resource"}.Binding()
	require.NoError(t, err)
	assert.Equal(t, value.Resource{URI: "https://example.org/people/1"}, b.Value)

	_, err = Rule{Property: ci + "owner", Object: "people/1", ObjectKind: "resource"}.Binding()
	assert.Error(t, err)
}
