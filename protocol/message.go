package protocol

import (
	"time"

	"github.com/c360studio/semagent/value"
	"github.com/google/uuid"
)

// Agent identifies the agent that submitted a message. IRI is set when the
// agent node is a resource rather than a blank node.
type Agent struct {
	AgentID uuid.UUID `json:"agent_id"`
	IRI     string    `json:"iri,omitempty"`
}

// Envelope holds the fields common to every message.
type Envelope struct {
	MessageID   uuid.UUID `json:"message_id"`
	SubmittedOn time.Time `json:"submitted_on"`
	SubmittedBy Agent     `json:"submitted_by"`

	// SubmittedOnLexical is the submittedOn literal as read off the wire.
	// Encoding reuses it while it still denotes SubmittedOn.
	SubmittedOnLexical string `json:"-"`
}

// NewEnvelope returns an envelope with a fresh message ID stamped now.
func NewEnvelope(agentID uuid.UUID) Envelope {
	return Envelope{
		MessageID:   uuid.New(),
		SubmittedOn: time.Now().UTC(),
		SubmittedBy: Agent{AgentID: agentID},
	}
}

// DeliveryChannel tells a responder where to send responses. Only Host is
// mandatory; a zero Port means unset.
type DeliveryChannel struct {
	Broker       string `json:"broker,omitempty"`
	Host         string `json:"host"`
	Port         uint16 `json:"port,omitempty"`
	VirtualHost  string `json:"virtual_host,omitempty"`
	ExchangeName string `json:"exchange_name,omitempty"`
	RoutingKey   string `json:"routing_key,omitempty"`
	QueueName    string `json:"queue_name,omitempty"`
}

// RequestEnvelope is the header of request messages.
type RequestEnvelope struct {
	Envelope
	ReplyTo *DeliveryChannel `json:"reply_to,omitempty"`
}

// ResponseEnvelope is the header of response messages.
type ResponseEnvelope struct {
	Envelope
	ResponseTo     uuid.UUID `json:"response_to"`
	ResponseNumber uint64    `json:"response_number"`
}

// Message is implemented by the five concrete variants.
type Message interface {
	Kind() Kind
	Header() Envelope
}

// Request is implemented by EnrichmentRequest and Disconnect.
type Request interface {
	Message
	RequestHeader() RequestEnvelope
}

// Response is implemented by EnrichmentResponse, Accepted and Failure.
type Response interface {
	Message
	ResponseHeader() ResponseEnvelope
}

func (e RequestEnvelope) Header() Envelope                 { return e.Envelope }
func (e RequestEnvelope) RequestHeader() RequestEnvelope   { return e }
func (e ResponseEnvelope) Header() Envelope                { return e.Envelope }
func (e ResponseEnvelope) ResponseHeader() ResponseEnvelope { return e }

// EnrichmentRequest asks for bindings about TargetResource. Filters name
// the variables that enter the constraint graph; Constraints carry the
// bindings already known about them.
type EnrichmentRequest struct {
	RequestEnvelope
	TargetResource string             `json:"target_resource"`
	Filters        []value.Filter     `json:"filters,omitempty"`
	Constraints    []value.Constraint `json:"constraints,omitempty"`
}

func (*EnrichmentRequest) Kind() Kind { return KindEnrichmentRequest }

// Disconnect tells the peer the sender is leaving.
type Disconnect struct {
	RequestEnvelope
}

func (*Disconnect) Kind() Kind { return KindDisconnect }

// EnrichmentResponse reports bindings to add to and remove from
// TargetResource.
type EnrichmentResponse struct {
	ResponseEnvelope
	TargetResource string          `json:"target_resource"`
	Additions      []value.Binding `json:"additions,omitempty"`
	Removals       []value.Binding `json:"removals,omitempty"`
}

func (*EnrichmentResponse) Kind() Kind { return KindEnrichmentResponse }

// Accepted acknowledges a request.
type Accepted struct {
	ResponseEnvelope
}

func (*Accepted) Kind() Kind { return KindAccepted }

// Failure reports that a request could not be processed. Code and Subcode
// are IRIs.
type Failure struct {
	ResponseEnvelope
	Code    string `json:"code"`
	Subcode string `json:"subcode,omitempty"`
	Reason  string `json:"reason"`
	Detail  string `json:"detail,omitempty"`
}

func (*Failure) Kind() Kind { return KindFailure }

// ResponseFor returns a response header answering req.
func ResponseFor(req Message, agentID uuid.UUID, number uint64) ResponseEnvelope {
	return ResponseEnvelope{
		Envelope:       NewEnvelope(agentID),
		ResponseTo:     req.Header().MessageID,
		ResponseNumber: number,
	}
}
