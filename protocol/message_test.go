package protocol

import (
	"testing"

	"github.com/c360studio/semagent/vocabulary/enrich"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindClassRoundTrip(t *testing.T) {
	for _, k := range Kinds {
		t.Run(k.String(), func(t *testing.T) {
			got, ok := KindForClass(k.Class())
			require.True(t, ok)
			assert.Equal(t, k, got)

			parsed, err := ParseKind(k.String())
			require.NoError(t, err)
			assert.Equal(t, k, parsed)
		})
	}

	_, ok := KindForClass(enrich.ClassAgent)
	assert.False(t, ok)

	_, err := ParseKind("bogus")
	assert.Error(t, err)
}

func TestKindIsRequest(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindEnrichmentRequest, true},
		{KindDisconnect, true},
		{KindEnrichmentResponse, false},
		{KindAccepted, false},
		{KindFailure, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.IsRequest(), tt.kind.String())
	}
}

func TestVariantLattice(t *testing.T) {
	var requests = []Message{&EnrichmentRequest{}, &Disconnect{}}
	var responses = []Message{&EnrichmentResponse{}, &Accepted{}, &Failure{}}

	for _, m := range requests {
		_, isReq := m.(Request)
		_, isResp := m.(Response)
		assert.True(t, isReq, m.Kind().String())
		assert.False(t, isResp, m.Kind().String())
		assert.True(t, m.Kind().IsRequest())
	}
	for _, m := range responses {
		_, isReq := m.(Request)
		_, isResp := m.(Response)
		assert.False(t, isReq, m.Kind().String())
		assert.True(t, isResp, m.Kind().String())
		assert.False(t, m.Kind().IsRequest())
	}
}

func TestResponseFor(t *testing.T) {
	agent := uuid.New()
	req := &EnrichmentRequest{RequestEnvelope: RequestEnvelope{Envelope: NewEnvelope(uuid.New())}}

	resp := ResponseFor(req, agent, 3)
	assert.Equal(t, req.MessageID, resp.ResponseTo)
	assert.Equal(t, uint64(3), resp.ResponseNumber)
	assert.Equal(t, agent, resp.SubmittedBy.AgentID)
	assert.NotEqual(t, req.MessageID, resp.MessageID)
	assert.False(t, resp.SubmittedOn.IsZero())
}
