package enrich

import "github.com/c360studio/semstreams/vocabulary"

// Dotted predicates used when a message graph is mirrored into the
// semstreams knowledge graph. Each maps one-to-one to a wire IRI.
const (
	// MessageType is the message class of a mirrored message entity.
	MessageType = "enrich.message.type"

	// MessageID is the message UUID.
	MessageID = "enrich.message.id"

	// MessageSubmittedOn is the submission timestamp (RFC3339).
	MessageSubmittedOn = "enrich.message.submitted_on"

	// MessageSubmittedBy links a message to its submitting agent node.
	MessageSubmittedBy = "enrich.message.submitted_by"

	// MessageResponseTo is the UUID of the request a response answers.
	MessageResponseTo = "enrich.message.response_to"

	// MessageResponseNumber is the 1-based sequence number of a response.
	MessageResponseNumber = "enrich.message.response_number"

	// MessageReplyTo links a request to its delivery channel node.
	MessageReplyTo = "enrich.message.reply_to"
)

// Agent predicates.
const (
	// AgentID is the agent UUID.
	AgentID = "enrich.agent.id"
)

// Enrichment predicates.
const (
	// EnrichmentTarget is the resource a request or response is about.
	EnrichmentTarget = "enrich.enrichment.target"

	// EnrichmentAdditions links a response to the node holding added bindings.
	EnrichmentAdditions = "enrich.enrichment.additions"

	// EnrichmentRemovals links a response to the node holding removed bindings.
	EnrichmentRemovals = "enrich.enrichment.removals"
)

// Delivery channel predicates.
const (
	ChannelBroker       = "enrich.channel.broker"
	ChannelHost         = "enrich.channel.host"
	ChannelPort         = "enrich.channel.port"
	ChannelVirtualHost  = "enrich.channel.virtual_host"
	ChannelExchangeName = "enrich.channel.exchange_name"
	ChannelRoutingKey   = "enrich.channel.routing_key"
	ChannelQueueName    = "enrich.channel.queue_name"
)

// Failure predicates.
const (
	FailureCode    = "enrich.failure.code"
	FailureSubcode = "enrich.failure.subcode"
	FailureReason  = "enrich.failure.reason"
	FailureDetail  = "enrich.failure.detail"
)

// iriToPredicate is filled by init from the registrations below.
var iriToPredicate = map[string]string{}

func register(name, iri, dataType, description string) {
	vocabulary.Register(name,
		vocabulary.WithDescription(description),
		vocabulary.WithDataType(dataType),
		vocabulary.WithIRI(iri))
	iriToPredicate[iri] = name
}

// PredicateForIRI returns the dotted predicate registered for a wire IRI.
func PredicateForIRI(iri string) (string, bool) {
	name, ok := iriToPredicate[iri]
	return name, ok
}

func init() {
	register(MessageType, RDFType, "string", "Message class IRI")
	register(MessageID, PropMessageID, "string", "Message UUID")
	register(MessageSubmittedOn, PropSubmittedOn, "time.Time", "When the message was submitted")
	register(MessageSubmittedBy, PropSubmittedBy, "entity_id", "Agent that submitted the message")
	register(MessageResponseTo, PropResponseTo, "string", "UUID of the request this response answers")
	register(MessageResponseNumber, PropResponseNumber, "uint64", "Sequence number of this response")
	register(MessageReplyTo, PropReplyTo, "entity_id", "Delivery channel for responses")

	register(AgentID, PropAgentID, "string", "Agent UUID")

	register(EnrichmentTarget, PropTargetResource, "string", "Resource being enriched")
	register(EnrichmentAdditions, PropAdditionTarget, "entity_id", "Node holding added bindings")
	register(EnrichmentRemovals, PropRemovalTarget, "entity_id", "Node holding removed bindings")

	register(ChannelBroker, PropBroker, "string", "Broker IRI")
	register(ChannelHost, PropHost, "string", "Broker host name")
	register(ChannelPort, PropPort, "uint16", "Broker port")
	register(ChannelVirtualHost, PropVirtualHost, "string", "Broker virtual host")
	register(ChannelExchangeName, PropExchangeName, "string", "Exchange to publish responses to")
	register(ChannelRoutingKey, PropRoutingKey, "string", "Routing key (NATS subject) for responses")
	register(ChannelQueueName, PropQueueName, "string", "Queue the requester consumes from")

	register(FailureCode, PropCode, "string", "Failure code IRI")
	register(FailureSubcode, PropSubcode, "string", "Failure subcode IRI")
	register(FailureReason, PropReason, "string", "Human-readable failure reason")
	register(FailureDetail, PropDetail, "string", "Additional failure detail")
}
