package codec

import (
	"time"

	"github.com/c360studio/semagent/graph"
	"github.com/c360studio/semagent/protocol"
	"github.com/c360studio/semagent/value"
	"github.com/google/uuid"
)

const (
	ci  = "https://example.org/ci#"
	scm = "https://example.org/scm#"
	xsd = "http://www.w3.org/2001/XMLSchema#"
)

var (
	agentID   = uuid.MustParse("0b5b8f5e-4d2b-4f7e-9a61-0d8f1c2e3a4b")
	messageID = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	requestID = uuid.MustParse("a3bb189e-8bf9-3888-9912-ace4e6543002")
	submitted = time.Date(2025, 3, 14, 15, 9, 26, 535000000, time.UTC)
)

// sliceSet is a TripleSet that keeps duplicates, unlike graph.Graph.
type sliceSet []graph.Triple

func (s sliceSet) Triples() []graph.Triple { return append([]graph.Triple(nil), s...) }

func (s sliceSet) WithSubject(n graph.Term) []graph.Triple {
	var out []graph.Triple
	for _, t := range s {
		if t.Subject == n {
			out = append(out, t)
		}
	}
	return out
}

func (s sliceSet) WithObject(n graph.Term) []graph.Triple {
	var out []graph.Triple
	for _, t := range s {
		if t.Object == n {
			out = append(out, t)
		}
	}
	return out
}

func (s sliceSet) WithPredicateObject(p, o graph.Term) []graph.Triple {
	var out []graph.Triple
	for _, t := range s {
		if t.Predicate == p && t.Object == o {
			out = append(out, t)
		}
	}
	return out
}

func envelope() protocol.Envelope {
	return protocol.Envelope{
		MessageID:   messageID,
		SubmittedOn: submitted,
		SubmittedBy: protocol.Agent{AgentID: agentID},
	}
}

func responseEnvelope(n uint64) protocol.ResponseEnvelope {
	return protocol.ResponseEnvelope{Envelope: envelope(), ResponseTo: requestID, ResponseNumber: n}
}

// sampleRequest has one filter variable repo constrained by a type, a
// typed literal, and a nested variable owner.
func sampleRequest() *protocol.EnrichmentRequest {
	repo := &value.Variable{Name: "repo"}
	owner := &value.Variable{Name: "owner"}
	return &protocol.EnrichmentRequest{
		RequestEnvelope: protocol.RequestEnvelope{
			Envelope: envelope(),
			ReplyTo: &protocol.DeliveryChannel{
				Broker:     "nats://broker.example.org",
				Host:       "broker.example.org",
				Port:       4222,
				RoutingKey: "enrich.replies.agent-7",
				QueueName:  "agent-7",
			},
		},
		TargetResource: "https://example.org/builds/42",
		Filters:        []value.Filter{{Property: ci + "forRepository", Variable: repo}},
		Constraints: []value.Constraint{
			{Target: repo, Bindings: []value.Binding{
				{Property: "http://www.w3.org/1999/02/22-rdf-syntax-ns#type", Value: value.Resource{URI: scm + "Repository"}},
				{Property: scm + "location", Value: value.Literal{Lexical: "https://x", Datatype: xsd + "anyURI"}},
				{Property: scm + "owner", Value: owner},
			}},
			{Target: owner, Bindings: []value.Binding{
				{Property: scm + "name", Value: value.Literal{Lexical: "octo", Language: "en"}},
			}},
		},
	}
}

func sampleMessages() []protocol.Message {
	return []protocol.Message{
		sampleRequest(),
		&protocol.Disconnect{RequestEnvelope: protocol.RequestEnvelope{Envelope: envelope()}},
		&protocol.EnrichmentResponse{
			ResponseEnvelope: responseEnvelope(1),
			TargetResource:   "https://example.org/builds/42",
			Additions: []value.Binding{
				{Property: scm + "branch", Value: value.Literal{Lexical: "main"}},
				{Property: scm + "mirror", Value: &value.Variable{Name: "m"}},
			},
			Removals: []value.Binding{
				{Property: scm + "archived", Value: value.Literal{Lexical: "true", Datatype: xsd + "boolean"}},
			},
		},
		&protocol.Accepted{ResponseEnvelope: responseEnvelope(0)},
		&protocol.Failure{
			ResponseEnvelope: responseEnvelope(2),
			Code:             "https://semagent.dev/ontology/enrich#ProcessingError",
			Subcode:          "https://example.org/errors#Timeout",
			Reason:           "upstream timed out",
			Detail:           "after 30s",
		},
	}
}

// without returns a copy of g minus the triples matching drop.
func without(g graph.TripleSet, drop func(graph.Triple) bool) *graph.Graph {
	out := graph.New()
	for _, t := range g.Triples() {
		if !drop(t) {
			out.Add(t)
		}
	}
	return out
}
