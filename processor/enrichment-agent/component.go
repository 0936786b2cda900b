// Package enrichmentagent provides a request/reply agent that answers
// enrichment messages carried as RDF text over NATS.
//
// Every inbound request is acknowledged synchronously on the NATS reply
// subject: an EnrichmentRequest or Disconnect gets an Accepted, anything that
// cannot be decoded or is not a request gets a Failure. EnrichmentRequests are
// then handed to the Handler off the subscription goroutine, and each
// Enrichment it returns is published as a numbered EnrichmentResponse to the
// request's reply channel.
package enrichmentagent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c360studio/semagent/codec"
	"github.com/c360studio/semagent/graph"
	"github.com/c360studio/semagent/protocol"
	"github.com/c360studio/semagent/value"
	"github.com/c360studio/semagent/vocabulary/enrich"
	"github.com/c360studio/semstreams/component"
	errs "github.com/c360studio/semstreams/errors"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/c360studio/semstreams/pkg/retry"
	"github.com/google/uuid"
)

const componentName = "enrichment-agent"

// publisher sends one message to a subject.
type publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// Component implements the enrichment-agent processor.
type Component struct {
	name       string
	config     Config
	natsClient *natsclient.Client
	pub        publisher
	logger     *slog.Logger

	registry *codec.Registry
	handler  Handler
	agentID  uuid.UUID
	format   graph.Format
	metrics  *agentMetrics

	requestSubject  string
	responseSubject string
	publishTimeout  time.Duration

	// Lifecycle
	running      bool
	startTime    time.Time
	mu           sync.RWMutex
	runCtx       context.Context
	cancel       context.CancelFunc
	subscription *natsclient.Subscription
	inflight     sync.WaitGroup

	// Counters
	requestsReceived atomic.Int64
	requestsAccepted atomic.Int64
	requestsRejected atomic.Int64
	responsesSent    atomic.Int64
	errorCount       atomic.Int64
	lastActivityMu   sync.RWMutex
	lastActivity     time.Time
}

// NewComponent creates a new enrichment-agent processor. The built-in
// handler answers from the configured rules; SetHandler replaces it.
func NewComponent(rawConfig json.RawMessage, deps component.Dependencies) (component.Discoverable, error) {
	var config Config
	if err := json.Unmarshal(rawConfig, &config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	defaults := DefaultConfig()
	if config.Ports == nil {
		config.Ports = defaults.Ports
	}
	if config.Format == "" {
		config.Format = defaults.Format
	}
	if config.PublishTimeoutSecs == 0 {
		config.PublishTimeoutSecs = defaults.PublishTimeoutSecs
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c, err := newComponent(config, deps)
	if err != nil {
		return nil, err
	}
	if deps.NATSClient != nil {
		c.pub = deps.NATSClient
	}
	return c, nil
}

func newComponent(config Config, deps component.Dependencies) (*Component, error) {
	format, err := graph.ParseFormat(config.Format)
	if err != nil {
		return nil, err
	}

	agentID := uuid.New()
	if config.AgentID != "" {
		agentID, err = value.ParseUUID(config.AgentID)
		if err != nil {
			return nil, fmt.Errorf("agent_id: %w", err)
		}
	}

	handler, err := NewStaticHandler(config.Rules)
	if err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}

	metrics, err := newAgentMetrics(deps.MetricsRegistry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	requestSubject := "enrich.request.>"
	responseSubject := ""
	if config.Ports != nil {
		if len(config.Ports.Inputs) > 0 {
			requestSubject = config.Ports.Inputs[0].Subject
		}
		for _, out := range config.Ports.Outputs {
			if out.Name == "enrichment_responses" {
				responseSubject = out.Subject
			}
		}
	}

	return &Component{
		name:            componentName,
		config:          config,
		natsClient:      deps.NATSClient,
		logger:          deps.GetLogger(),
		registry:        codec.DefaultRegistry(),
		handler:         handler,
		agentID:         agentID,
		format:          format,
		metrics:         metrics,
		requestSubject:  requestSubject,
		responseSubject: responseSubject,
		publishTimeout:  time.Duration(config.PublishTimeoutSecs) * time.Second,
	}, nil
}

// SetHandler replaces the enrichment handler. Call before Start.
func (c *Component) SetHandler(h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = h
}

// AgentID returns the UUID stamped on outbound messages.
func (c *Component) AgentID() uuid.UUID {
	return c.agentID
}

// Initialize prepares the component.
func (c *Component) Initialize() error {
	c.logger.Debug("Initialized enrichment-agent",
		"agent_id", c.agentID,
		"format", c.format,
		"request_subject", c.requestSubject,
		"response_subject", c.responseSubject)
	return nil
}

// Start begins handling enrichment requests.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("component already running")
	}
	if c.natsClient == nil {
		c.mu.Unlock()
		return fmt.Errorf("NATS client required")
	}

	c.running = true
	c.startTime = time.Now()

	subCtx, cancel := context.WithCancel(ctx)
	c.runCtx = subCtx
	c.cancel = cancel
	c.mu.Unlock()

	sub, err := c.natsClient.SubscribeForRequests(subCtx, c.requestSubject, c.handleRequest)
	if err != nil {
		c.mu.Lock()
		c.running = false
		c.runCtx = nil
		c.cancel = nil
		c.mu.Unlock()
		cancel()
		return fmt.Errorf("subscribe to %s: %w", c.requestSubject, err)
	}

	c.mu.Lock()
	c.subscription = sub
	c.mu.Unlock()

	c.logger.Info("enrichment-agent started",
		"subject", c.requestSubject,
		"agent_id", c.agentID)

	return nil
}

// handleRequest decodes one inbound message and returns the encoded
// acknowledgement or failure.
func (c *Component) handleRequest(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.requestsReceived.Add(1)
	c.metrics.received.Inc()
	c.updateLastActivity()

	g, err := graph.Parse(string(data), c.format)
	if err != nil {
		return c.reject(nil, data, &codec.ParseError{Format: c.format, Err: err})
	}

	msg, err := c.registry.DecodeGraph(g)
	if err != nil {
		return c.reject(g, data, err)
	}

	kind := msg.Kind()
	c.metrics.decoded.WithLabelValues(kind.String()).Inc()
	c.logger.Debug("Decoded message",
		"kind", kind,
		"message_id", msg.Header().MessageID,
		"triples", g.Len())

	if c.config.MirrorGraph {
		c.mirror(ctx, g, msg)
	}

	switch m := msg.(type) {
	case *protocol.EnrichmentRequest:
		ack, err := c.encode(&protocol.Accepted{ResponseEnvelope: protocol.ResponseFor(m, c.agentID, 0)})
		if err != nil {
			return nil, err
		}
		if !c.dispatch(m) {
			return c.fail(protocol.ResponseFor(m, c.agentID, 0), enrich.FailureProcessingError,
				"agent is stopping", "")
		}
		c.requestsAccepted.Add(1)
		return ack, nil

	case *protocol.Disconnect:
		c.logger.Info("Peer disconnected",
			"message_id", m.MessageID,
			"agent_id", m.SubmittedBy.AgentID)
		return c.encode(&protocol.Accepted{ResponseEnvelope: protocol.ResponseFor(m, c.agentID, 0)})

	default:
		return c.fail(protocol.ResponseFor(msg, c.agentID, 0), enrich.FailureUnsupportedMessage,
			fmt.Sprintf("%s is not a request", kind), "")
	}
}

// reject answers an undecodable message. The failure answers the message ID
// found in the graph when there is one, otherwise a name-based UUID of the
// payload so that the same bytes always map to the same ID.
func (c *Component) reject(g graph.TripleSet, data []byte, err error) ([]byte, error) {
	c.logger.Warn("Rejected message", "size", len(data), "error", err)

	responseTo, ok := recoverMessageID(g)
	if !ok {
		responseTo = uuid.NewSHA1(uuid.NameSpaceOID, data)
	}
	header := protocol.ResponseEnvelope{
		Envelope:   protocol.NewEnvelope(c.agentID),
		ResponseTo: responseTo,
	}
	return c.fail(header, failureCode(err), err.Error(), codec.Classify(err).String())
}

func (c *Component) fail(header protocol.ResponseEnvelope, code, reason, detail string) ([]byte, error) {
	c.requestsRejected.Add(1)
	c.metrics.rejected.WithLabelValues(failureLabel(code)).Inc()
	return c.encode(&protocol.Failure{
		ResponseEnvelope: header,
		Code:             code,
		Reason:           reason,
		Detail:           detail,
	})
}

func (c *Component) encode(msg protocol.Message) ([]byte, error) {
	text, err := c.registry.EncodeText(msg, c.format)
	if err != nil {
		c.errorCount.Add(1)
		c.metrics.errors.WithLabelValues("encode").Inc()
		return nil, errs.WrapInvalid(err, componentName, "encode", "encode "+msg.Kind().String())
	}
	return []byte(text), nil
}

// dispatch runs the handler for req off the subscription goroutine. It
// reports false once the component is not running. The in-flight count is
// raised under the lock Stop takes, so Stop never waits while it grows.
func (c *Component) dispatch(req *protocol.EnrichmentRequest) bool {
	c.mu.RLock()
	if !c.running {
		c.mu.RUnlock()
		return false
	}
	ctx := c.runCtx
	c.inflight.Add(1)
	c.mu.RUnlock()

	go func() {
		defer c.inflight.Done()
		c.process(ctx, req)
	}()
	return true
}

// process runs the handler and publishes its responses, numbered from 1.
func (c *Component) process(ctx context.Context, req *protocol.EnrichmentRequest) {
	c.mu.RLock()
	handler := c.handler
	c.mu.RUnlock()

	subject := c.replySubject(req)
	if subject == "" {
		c.logger.Warn("No reply subject for request", "message_id", req.MessageID)
		return
	}

	enrichments, err := handler.Enrich(ctx, req)
	if err != nil {
		c.errorCount.Add(1)
		c.metrics.errors.WithLabelValues("handler").Inc()
		c.logger.Warn("Handler failed",
			"message_id", req.MessageID,
			"target", req.TargetResource,
			"error", err)
		failure := &protocol.Failure{
			ResponseEnvelope: protocol.ResponseFor(req, c.agentID, 1),
			Code:             enrich.FailureProcessingError,
			Reason:           err.Error(),
		}
		c.publish(ctx, subject, failure)
		return
	}

	for i, e := range enrichments {
		resp := &protocol.EnrichmentResponse{
			ResponseEnvelope: protocol.ResponseFor(req, c.agentID, uint64(i+1)),
			TargetResource:   req.TargetResource,
			Additions:        e.Additions,
			Removals:         e.Removals,
		}
		if err := c.publish(ctx, subject, resp); err != nil {
			return
		}
	}
}

// publish encodes msg and sends it to subject, retrying transient failures.
func (c *Component) publish(ctx context.Context, subject string, msg protocol.Message) error {
	if c.pub == nil {
		return fmt.Errorf("no publisher configured")
	}

	data, err := c.encode(msg)
	if err != nil {
		c.logger.Error("Encode response failed", "kind", msg.Kind(), "error", err)
		return err
	}

	pubCtx, cancel := context.WithTimeout(ctx, c.publishTimeout)
	defer cancel()

	err = retry.Do(pubCtx, retry.DefaultConfig(), func() error {
		if err := c.pub.Publish(pubCtx, subject, data); err != nil {
			if errs.IsInvalid(err) || errs.IsFatal(err) {
				return retry.NonRetryable(err)
			}
			return errs.WrapTransient(err, componentName, "publish", "publish to "+subject)
		}
		return nil
	})
	if err != nil {
		c.errorCount.Add(1)
		c.metrics.errors.WithLabelValues("publish").Inc()
		c.logger.Error("Publish response failed",
			"subject", subject,
			"kind", msg.Kind(),
			"error", err)
		return err
	}

	c.responsesSent.Add(1)
	c.metrics.published.WithLabelValues(msg.Kind().String()).Inc()
	c.logger.Debug("Published response",
		"subject", subject,
		"kind", msg.Kind(),
		"message_id", msg.Header().MessageID)
	return nil
}

// mirror publishes the decoded graph for graph ingestion. Failures are
// logged and do not affect the reply.
func (c *Component) mirror(ctx context.Context, g graph.TripleSet, msg protocol.Message) {
	root, ok := messageRoot(g, msg.Kind())
	if !ok {
		return
	}
	entityID := graph.MessageEntityID(msg.Kind().String(), msg.Header().MessageID.String())
	triples := graph.Mirror(entityID, g, root, time.Now())
	if err := graph.PublishMirror(ctx, c.natsClient, entityID, triples); err != nil {
		c.metrics.errors.WithLabelValues("mirror").Inc()
		c.logger.Warn("Mirror message graph failed", "entity_id", entityID, "error", err)
	}
}

// replySubject is the request's routing key, or the default response
// subject when the request names none.
func (c *Component) replySubject(req *protocol.EnrichmentRequest) string {
	if req.ReplyTo != nil && req.ReplyTo.RoutingKey != "" {
		return req.ReplyTo.RoutingKey
	}
	return c.responseSubject
}

// Stop gracefully stops the component, waiting up to timeout for in-flight
// requests to finish publishing.
func (c *Component) Stop(timeout time.Duration) error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}
	cancel := c.cancel
	sub := c.subscription
	c.subscription = nil
	c.running = false
	c.mu.Unlock()

	if sub != nil {
		if err := sub.Unsubscribe(); err != nil {
			c.logger.Warn("Unsubscribe failed", "subject", c.requestSubject, "error", err)
		}
	}

	drained := c.wait(timeout)
	if cancel != nil {
		cancel()
	}
	if !drained {
		c.wait(timeout)
	}

	c.logger.Info("enrichment-agent stopped",
		"requests_received", c.requestsReceived.Load(),
		"requests_accepted", c.requestsAccepted.Load(),
		"requests_rejected", c.requestsRejected.Load(),
		"responses_sent", c.responsesSent.Load())

	if !drained {
		return fmt.Errorf("stop: in-flight requests did not finish within %s", timeout)
	}
	return nil
}

// wait blocks until in-flight processing ends or timeout elapses. A
// non-positive timeout waits without limit.
func (c *Component) wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		c.inflight.Wait()
		close(done)
	}()
	if timeout <= 0 {
		<-done
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}

// Meta returns component metadata.
func (c *Component) Meta() component.Metadata {
	return component.Metadata{
		Name:        componentName,
		Type:        "processor",
		Description: "Request/reply agent answering RDF enrichment messages",
		Version:     "1.0.0",
	}
}

// InputPorts returns configured input port definitions.
func (c *Component) InputPorts() []component.Port {
	if c.config.Ports == nil {
		return []component.Port{}
	}
	return ports(c.config.Ports.Inputs, component.DirectionInput)
}

// OutputPorts returns configured output port definitions.
func (c *Component) OutputPorts() []component.Port {
	if c.config.Ports == nil {
		return []component.Port{}
	}
	return ports(c.config.Ports.Outputs, component.DirectionOutput)
}

func ports(defs []component.PortDefinition, dir component.Direction) []component.Port {
	out := make([]component.Port, len(defs))
	for i, def := range defs {
		out[i] = component.Port{
			Name:        def.Name,
			Direction:   dir,
			Required:    def.Required,
			Description: def.Description,
			Config: component.NATSPort{
				Subject: def.Subject,
			},
		}
	}
	return out
}

// ConfigSchema returns the configuration schema.
func (c *Component) ConfigSchema() component.ConfigSchema {
	return enrichmentAgentSchema
}

// Health returns the current health status.
func (c *Component) Health() component.HealthStatus {
	c.mu.RLock()
	running := c.running
	startTime := c.startTime
	c.mu.RUnlock()

	status := "stopped"
	if running {
		status = "running"
	}

	return component.HealthStatus{
		Healthy:    running,
		LastCheck:  time.Now(),
		ErrorCount: int(c.errorCount.Load()),
		Uptime:     time.Since(startTime),
		Status:     status,
	}
}

// DataFlow returns current data flow metrics.
func (c *Component) DataFlow() component.FlowMetrics {
	var errorRate float64
	if received := c.requestsReceived.Load(); received > 0 {
		errorRate = float64(c.requestsRejected.Load()) / float64(received)
	}
	return component.FlowMetrics{
		MessagesPerSecond: 0,
		BytesPerSecond:    0,
		ErrorRate:         errorRate,
		LastActivity:      c.getLastActivity(),
	}
}

func (c *Component) updateLastActivity() {
	c.lastActivityMu.Lock()
	c.lastActivity = time.Now()
	c.lastActivityMu.Unlock()
}

func (c *Component) getLastActivity() time.Time {
	c.lastActivityMu.RLock()
	defer c.lastActivityMu.RUnlock()
	return c.lastActivity
}

// failureCode maps a decode error to a failure code IRI.
func failureCode(err error) string {
	if errors.Is(err, codec.ErrUnknownMessage) || errors.Is(err, codec.ErrUnsupportedKind) {
		return enrich.FailureUnsupportedMessage
	}
	return enrich.FailureMalformedMessage
}

// failureLabel is the metric label of a failure code.
func failureLabel(code string) string {
	switch code {
	case enrich.FailureMalformedMessage:
		return "malformed"
	case enrich.FailureUnsupportedMessage:
		return "unsupported"
	case enrich.FailureProcessingError:
		return "processing"
	default:
		return "other"
	}
}

// recoverMessageID returns the first messageId literal in g that parses as
// a UUID.
func recoverMessageID(g graph.TripleSet) (uuid.UUID, bool) {
	if g == nil {
		return uuid.Nil, false
	}
	for _, t := range g.Triples() {
		if t.Predicate.Value != enrich.PropMessageID || !t.Object.IsLiteral() {
			continue
		}
		if id, err := value.ParseUUID(t.Object.Value); err == nil {
			return id, true
		}
	}
	return uuid.Nil, false
}

func messageRoot(g graph.TripleSet, kind protocol.Kind) (graph.Term, bool) {
	typed := g.WithPredicateObject(graph.IRI(enrich.RDFType), graph.IRI(kind.Class()))
	if len(typed) == 0 {
		return graph.Term{}, false
	}
	return typed[0].Subject, true
}
