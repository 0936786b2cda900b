package codec

import (
	"strconv"

	"github.com/c360studio/semagent/graph"
	"github.com/c360studio/semagent/protocol"
	"github.com/c360studio/semagent/value"
	"github.com/c360studio/semagent/vocabulary/enrich"
	"github.com/google/uuid"
)

// Preferred labels of envelope nodes.
const (
	labelRequest   = "request"
	labelResponse  = "response"
	labelAgent     = "agent"
	labelReplyTo   = "replyTo"
	labelAdditions = "additions"
	labelRemovals  = "removals"
)

func decodeEnvelope(r reader) (protocol.Envelope, error) {
	var env protocol.Envelope
	var err error

	if env.MessageID, err = r.id(fieldMessageID); err != nil {
		return env, err
	}
	if env.SubmittedOn, env.SubmittedOnLexical, err = r.timestamp(fieldSubmittedOn); err != nil {
		return env, err
	}
	agent, _, err := r.object(fieldSubmittedBy)
	if err != nil {
		return env, err
	}
	if agent.IsIRI() {
		env.SubmittedBy.IRI = agent.Value
	}
	if env.SubmittedBy.AgentID, err = r.at(agent).id(fieldAgentID); err != nil {
		return env, err
	}
	return env, nil
}

func decodeRequestEnvelope(r reader) (protocol.RequestEnvelope, error) {
	env, err := decodeEnvelope(r)
	if err != nil {
		return protocol.RequestEnvelope{}, err
	}
	req := protocol.RequestEnvelope{Envelope: env}

	node, ok, err := r.object(fieldReplyTo)
	if err != nil {
		return req, err
	}
	if ok {
		ch, err := decodeDeliveryChannel(r.at(node))
		if err != nil {
			return req, err
		}
		req.ReplyTo = &ch
	}
	return req, nil
}

func decodeResponseEnvelope(r reader) (protocol.ResponseEnvelope, error) {
	env, err := decodeEnvelope(r)
	if err != nil {
		return protocol.ResponseEnvelope{}, err
	}
	resp := protocol.ResponseEnvelope{Envelope: env}
	if resp.ResponseTo, err = r.id(fieldResponseTo); err != nil {
		return resp, err
	}
	if resp.ResponseNumber, err = r.unsigned(fieldResponseNumber); err != nil {
		return resp, err
	}
	return resp, nil
}

func decodeDeliveryChannel(r reader) (protocol.DeliveryChannel, error) {
	var ch protocol.DeliveryChannel
	var err error

	if ch.Broker, err = r.iri(fieldBroker); err != nil {
		return ch, err
	}
	if ch.Host, err = r.text(fieldHost); err != nil {
		return ch, err
	}
	if ch.Port, err = r.port(fieldPort); err != nil {
		return ch, err
	}
	if ch.VirtualHost, err = r.text(fieldVirtualHost); err != nil {
		return ch, err
	}
	if ch.ExchangeName, err = r.text(fieldExchangeName); err != nil {
		return ch, err
	}
	if ch.RoutingKey, err = r.text(fieldRoutingKey); err != nil {
		return ch, err
	}
	if ch.QueueName, err = r.text(fieldQueueName); err != nil {
		return ch, err
	}
	return ch, nil
}

// missingOnWrite reports a mandatory field left unset on an outbound
// message.
func missingOnWrite(f field, node graph.Term) error {
	return &MissingMandatoryFieldError{
		Field:        f.Name,
		Property:     f.Property,
		Resource:     node.String(),
		ExpectedType: f.Expected,
	}
}

func plain(s string) graph.Term { return graph.Literal(s, "", "") }

func encodeEnvelope(w *BindingWriter, root graph.Term, class string, env protocol.Envelope) error {
	if env.MessageID == uuid.Nil {
		return missingOnWrite(fieldMessageID, root)
	}
	if env.SubmittedOn.IsZero() {
		return missingOnWrite(fieldSubmittedOn, root)
	}
	var agent graph.Term
	if env.SubmittedBy.IRI != "" {
		if _, err := value.ParseURI(env.SubmittedBy.IRI); err != nil {
			return value.WithField(err, fieldSubmittedBy.Name)
		}
		agent = graph.IRI(env.SubmittedBy.IRI)
	} else {
		agent = w.Node(labelAgent)
	}
	if env.SubmittedBy.AgentID == uuid.Nil {
		return missingOnWrite(fieldAgentID, agent)
	}

	w.Add(root, enrich.RDFType, graph.IRI(class))
	w.Add(root, fieldMessageID.Property, plain(env.MessageID.String()))
	w.Add(root, fieldSubmittedOn.Property, graph.Literal(submittedOnLexical(env), enrich.XSDDateTime, ""))
	w.Add(root, fieldSubmittedBy.Property, agent)
	w.Add(agent, enrich.RDFType, graph.IRI(enrich.ClassAgent))
	w.Add(agent, fieldAgentID.Property, plain(env.SubmittedBy.AgentID.String()))
	return nil
}

// submittedOnLexical keeps the decoded lexical form unless SubmittedOn has
// since been changed.
func submittedOnLexical(env protocol.Envelope) string {
	if env.SubmittedOnLexical != "" {
		if ts, err := value.ParseTimestamp(env.SubmittedOnLexical); err == nil && ts.Equal(env.SubmittedOn) {
			return env.SubmittedOnLexical
		}
	}
	return value.FormatTimestamp(env.SubmittedOn)
}

func encodeRequestEnvelope(w *BindingWriter, root graph.Term, class string, env protocol.RequestEnvelope) error {
	if err := encodeEnvelope(w, root, class, env.Envelope); err != nil {
		return err
	}
	if env.ReplyTo == nil {
		return nil
	}
	node := w.Node(labelReplyTo)
	if err := encodeDeliveryChannel(w, node, *env.ReplyTo); err != nil {
		return err
	}
	w.Add(root, fieldReplyTo.Property, node)
	return nil
}

func encodeResponseEnvelope(w *BindingWriter, root graph.Term, class string, env protocol.ResponseEnvelope) error {
	if env.ResponseTo == uuid.Nil {
		return missingOnWrite(fieldResponseTo, root)
	}
	if err := encodeEnvelope(w, root, class, env.Envelope); err != nil {
		return err
	}
	w.Add(root, fieldResponseTo.Property, plain(env.ResponseTo.String()))
	w.Add(root, fieldResponseNumber.Property,
		graph.Literal(strconv.FormatUint(env.ResponseNumber, 10), enrich.XSDUnsignedLong, ""))
	return nil
}

func encodeDeliveryChannel(w *BindingWriter, node graph.Term, ch protocol.DeliveryChannel) error {
	if ch.Host == "" {
		return missingOnWrite(fieldHost, node)
	}
	if ch.Broker != "" {
		if _, err := value.ParseURI(ch.Broker); err != nil {
			return value.WithField(err, fieldBroker.Name)
		}
	}

	w.Add(node, enrich.RDFType, graph.IRI(enrich.ClassDeliveryChannel))
	if ch.Broker != "" {
		w.Add(node, fieldBroker.Property, graph.IRI(ch.Broker))
	}
	w.Add(node, fieldHost.Property, plain(ch.Host))
	if ch.Port != 0 {
		w.Add(node, fieldPort.Property, graph.Literal(strconv.FormatUint(uint64(ch.Port), 10), enrich.XSDUnsignedShort, ""))
	}
	optional := []struct {
		f field
		v string
	}{
		{fieldVirtualHost, ch.VirtualHost},
		{fieldExchangeName, ch.ExchangeName},
		{fieldRoutingKey, ch.RoutingKey},
		{fieldQueueName, ch.QueueName},
	}
	for _, o := range optional {
		if o.v != "" {
			w.Add(node, o.f.Property, plain(o.v))
		}
	}
	return nil
}
