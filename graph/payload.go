package graph

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"
)

func init() {
	err := component.RegisterPayload(&component.PayloadRegistration{
		Domain:      "enrich",
		Category:    "message",
		Version:     "v1",
		Description: "Enrichment message mirrored as graph entity triples",
		Factory:     func() any { return &MessagePayload{} },
	})
	if err != nil {
		panic("failed to register MessagePayload: " + err.Error())
	}
}

// MessageType is the payload type of mirrored enrichment messages.
var MessageType = message.Type{Domain: "enrich", Category: "message", Version: "v1"}

// MessagePayload carries one message graph as entity triples for graph
// ingestion.
type MessagePayload struct {
	EntityID_  string           `json:"id"`
	TripleData []message.Triple `json:"triples"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func (p *MessagePayload) EntityID() string          { return p.EntityID_ }
func (p *MessagePayload) Triples() []message.Triple { return p.TripleData }
func (p *MessagePayload) Schema() message.Type      { return MessageType }

func (p *MessagePayload) Validate() error {
	if p.EntityID_ == "" {
		return errors.New("entity ID is required")
	}
	if len(p.TripleData) == 0 {
		return errors.New("at least one triple is required")
	}
	return nil
}

func (p *MessagePayload) MarshalJSON() ([]byte, error) {
	type Alias MessagePayload
	return json.Marshal((*Alias)(p))
}

func (p *MessagePayload) UnmarshalJSON(data []byte) error {
	type Alias MessagePayload
	return json.Unmarshal(data, (*Alias)(p))
}
