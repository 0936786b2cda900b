package enrich

// Namespace is the base IRI prefix for enrichment protocol terms.
const Namespace = "https://semagent.dev/ontology/enrich#"

// EntityNamespace is the base IRI for message instances mirrored to the graph.
const EntityNamespace = "https://semagent.dev/entity/message/"

// Standard RDF and XML Schema IRIs used on the wire.
const (
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"

	// RDFType is rdf:type.
	RDFType = RDFNamespace + "type"

	// RDFLangString is the implicit datatype of language-tagged literals.
	RDFLangString = RDFNamespace + "langString"

	XSDString        = XSDNamespace + "string"
	XSDDateTime      = XSDNamespace + "dateTime"
	XSDAnyURI        = XSDNamespace + "anyURI"
	XSDUnsignedLong  = XSDNamespace + "unsignedLong"
	XSDUnsignedShort = XSDNamespace + "unsignedShort"
)

// Message class IRIs. The root of every message graph carries exactly one of these.
const (
	// ClassEnrichmentRequest asks an agent to enrich a target resource.
	ClassEnrichmentRequest = Namespace + "EnrichmentRequest"

	// ClassDisconnect announces that an agent is leaving.
	ClassDisconnect = Namespace + "Disconnect"

	// ClassEnrichmentResponse carries additions and removals for a target resource.
	ClassEnrichmentResponse = Namespace + "EnrichmentResponse"

	// ClassAccepted acknowledges a request.
	ClassAccepted = Namespace + "Accepted"

	// ClassFailure reports that a request could not be processed.
	ClassFailure = Namespace + "Failure"
)

// Supporting class IRIs.
const (
	// ClassAgent types the submittedBy node.
	ClassAgent = Namespace + "Agent"

	// ClassDeliveryChannel types the replyTo node.
	ClassDeliveryChannel = Namespace + "DeliveryChannel"

	// ClassVariable marks a blank node as a query variable.
	ClassVariable = Namespace + "Variable"
)

// Envelope predicates shared by every message.
const (
	PropMessageID   = Namespace + "messageId"
	PropSubmittedOn = Namespace + "submittedOn"
	PropSubmittedBy = Namespace + "submittedBy"
	PropAgentID     = Namespace + "agentId"
)

// Response envelope predicates.
const (
	PropResponseTo     = Namespace + "responseTo"
	PropResponseNumber = Namespace + "responseNumber"
)

// Request and enrichment predicates.
const (
	PropReplyTo        = Namespace + "replyTo"
	PropTargetResource = Namespace + "targetResource"
	PropAdditionTarget = Namespace + "additionTarget"
	PropRemovalTarget  = Namespace + "removalTarget"
)

// Delivery channel predicates.
const (
	PropBroker       = Namespace + "broker"
	PropHost         = Namespace + "host"
	PropPort         = Namespace + "port"
	PropVirtualHost  = Namespace + "virtualHost"
	PropExchangeName = Namespace + "exchangeName"
	PropRoutingKey   = Namespace + "routingKey"
	PropQueueName    = Namespace + "queueName"
)

// Failure predicates.
const (
	PropCode    = Namespace + "code"
	PropSubcode = Namespace + "subcode"
	PropReason  = Namespace + "reason"
	PropDetail  = Namespace + "detail"
)

// Failure code IRIs.
const (
	// FailureMalformedMessage means the payload could not be parsed or decoded.
	FailureMalformedMessage = Namespace + "MalformedMessage"

	// FailureUnsupportedMessage means the message kind is not handled by the agent.
	FailureUnsupportedMessage = Namespace + "UnsupportedMessage"

	// FailureProcessingError means the handler failed while processing a valid request.
	FailureProcessingError = Namespace + "ProcessingError"
)

// DefaultPrefixes returns the namespace prefixes written on serialized messages.
func DefaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":    RDFNamespace,
		"xsd":    XSDNamespace,
		"enrich": Namespace,
	}
}
