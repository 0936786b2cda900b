package codec

import (
	"time"

	"github.com/c360studio/semagent/graph"
	"github.com/c360studio/semagent/value"
	"github.com/c360studio/semagent/vocabulary/enrich"
	"github.com/google/uuid"
)

// field describes one property read from, or written to, a message node.
type field struct {
	Name      string
	Property  string
	Expected  string
	Mandatory bool
}

// Envelope fields.
var (
	fieldMessageID   = field{"messageId", enrich.PropMessageID, value.TypeUUID, true}
	fieldSubmittedOn = field{"submittedOn", enrich.PropSubmittedOn, value.TypeDateTime, true}
	fieldSubmittedBy = field{"submittedBy", enrich.PropSubmittedBy, value.TypeResource, true}
	fieldAgentID     = field{"agentId", enrich.PropAgentID, value.TypeUUID, true}
	fieldReplyTo     = field{"replyTo", enrich.PropReplyTo, value.TypeResource, false}

	fieldResponseTo     = field{"responseTo", enrich.PropResponseTo, value.TypeUUID, true}
	fieldResponseNumber = field{"responseNumber", enrich.PropResponseNumber, value.TypeUnsignedLong, true}
)

// Delivery channel fields.
var (
	fieldBroker       = field{"broker", enrich.PropBroker, value.TypeURI, false}
	fieldHost         = field{"host", enrich.PropHost, value.TypeString, true}
	fieldPort         = field{"port", enrich.PropPort, value.TypePort, false}
	fieldVirtualHost  = field{"virtualHost", enrich.PropVirtualHost, value.TypeString, false}
	fieldExchangeName = field{"exchangeName", enrich.PropExchangeName, value.TypeString, false}
	fieldRoutingKey   = field{"routingKey", enrich.PropRoutingKey, value.TypeString, false}
	fieldQueueName    = field{"queueName", enrich.PropQueueName, value.TypeString, false}
)

// Variant fields.
var (
	fieldTargetResource = field{"targetResource", enrich.PropTargetResource, value.TypeURI, true}
	fieldAdditionTarget = field{"additionTarget", enrich.PropAdditionTarget, value.TypeResource, false}
	fieldRemovalTarget  = field{"removalTarget", enrich.PropRemovalTarget, value.TypeResource, false}

	fieldCode    = field{"code", enrich.PropCode, value.TypeURI, true}
	fieldSubcode = field{"subcode", enrich.PropSubcode, value.TypeURI, false}
	fieldReason  = field{"reason", enrich.PropReason, value.TypeString, true}
	fieldDetail  = field{"detail", enrich.PropDetail, value.TypeString, false}
)

// reader reads declared fields off one node. When a property occurs more
// than once the first triple in set order wins.
type reader struct {
	g    graph.TripleSet
	node graph.Term
}

func (r reader) at(node graph.Term) reader {
	return reader{g: r.g, node: node}
}

func (r reader) missing(f field) error {
	return &MissingMandatoryFieldError{
		Field:        f.Name,
		Property:     f.Property,
		Resource:     r.node.String(),
		ExpectedType: f.Expected,
	}
}

func (r reader) mismatch(f field, got graph.Term) error {
	return &TypeMismatchError{
		Field:        f.Name,
		Property:     f.Property,
		Resource:     r.node.String(),
		ExpectedType: f.Expected,
		ActualValue:  got.String(),
		ActualKind:   got.Kind.String(),
	}
}

// lookup returns the first object of f on the node. Absent mandatory
// fields are an error; absent optional fields return ok=false.
func (r reader) lookup(f field) (graph.Term, bool, error) {
	for _, t := range r.g.WithSubject(r.node) {
		if t.Predicate.Value == f.Property {
			return t.Object, true, nil
		}
	}
	if f.Mandatory {
		return graph.Term{}, false, r.missing(f)
	}
	return graph.Term{}, false, nil
}

func (r reader) literal(f field) (string, bool, error) {
	o, ok, err := r.lookup(f)
	if err != nil || !ok {
		return "", ok, err
	}
	if !o.IsLiteral() {
		return "", false, r.mismatch(f, o)
	}
	return o.Value, true, nil
}

func (r reader) text(f field) (string, error) {
	s, _, err := r.literal(f)
	return s, err
}

func (r reader) id(f field) (uuid.UUID, error) {
	s, ok, err := r.literal(f)
	if err != nil || !ok {
		return uuid.Nil, err
	}
	id, err := value.ParseUUID(s)
	if err != nil {
		return uuid.Nil, value.WithField(err, f.Name)
	}
	return id, nil
}

// timestamp returns the parsed time and its lexical form.
func (r reader) timestamp(f field) (time.Time, string, error) {
	s, ok, err := r.literal(f)
	if err != nil || !ok {
		return time.Time{}, "", err
	}
	ts, err := value.ParseTimestamp(s)
	if err != nil {
		return time.Time{}, "", value.WithField(err, f.Name)
	}
	return ts, s, nil
}

func (r reader) unsigned(f field) (uint64, error) {
	s, ok, err := r.literal(f)
	if err != nil || !ok {
		return 0, err
	}
	n, err := value.ParseUint64(s)
	if err != nil {
		return 0, value.WithField(err, f.Name)
	}
	return n, nil
}

func (r reader) port(f field) (uint16, error) {
	s, ok, err := r.literal(f)
	if err != nil || !ok {
		return 0, err
	}
	p, err := value.ParsePort(s)
	if err != nil {
		return 0, value.WithField(err, f.Name)
	}
	return p, nil
}

// iri reads an IRI-valued field.
func (r reader) iri(f field) (string, error) {
	o, ok, err := r.lookup(f)
	if err != nil || !ok {
		return "", err
	}
	if !o.IsIRI() {
		return "", r.mismatch(f, o)
	}
	if _, err := value.ParseURI(o.Value); err != nil {
		return "", value.WithField(err, f.Name)
	}
	return o.Value, nil
}

// object reads a field whose object is another node, IRI or blank.
func (r reader) object(f field) (graph.Term, bool, error) {
	o, ok, err := r.lookup(f)
	if err != nil || !ok {
		return graph.Term{}, ok, err
	}
	if o.IsLiteral() {
		return graph.Term{}, false, r.mismatch(f, o)
	}
	return o, true, nil
}
