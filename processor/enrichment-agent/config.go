package enrichmentagent

import (
	"fmt"
	"reflect"

	"github.com/c360studio/semagent/graph"
	"github.com/c360studio/semagent/value"
	"github.com/c360studio/semstreams/component"
)

// enrichmentAgentSchema defines the configuration schema.
var enrichmentAgentSchema = component.GenerateConfigSchema(reflect.TypeOf(Config{}))

// Config holds configuration for the enrichment-agent processor.
type Config struct {
	Ports              *component.PortConfig `json:"ports" schema:"type:ports,description:Port configuration,category:basic"`
	AgentID            string                `json:"agent_id" schema:"type:string,description:Agent UUID stamped on outbound messages (generated when empty),category:basic"`
	Format             string                `json:"format" schema:"type:string,description:Wire format (turtle/ntriples),category:basic,default:turtle"`
	MirrorGraph        bool                  `json:"mirror_graph" schema:"type:bool,description:Publish decoded message graphs for graph ingestion,category:advanced,default:false"`
	PublishTimeoutSecs int                   `json:"publish_timeout_secs" schema:"type:integer,description:Timeout for publishing one response in seconds,category:advanced,default:10"`
	Rules              []Rule                `json:"rules" schema:"type:array,description:Static enrichment rules answered by the built-in handler,category:advanced"`
}

// Rule adds one binding to every request whose target matches Target.
// A Target of "*" matches any request.
type Rule struct {
	Target   string `json:"target"`
	Property string `json:"property"`
	Object   string `json:"object"`
	// ObjectKind is "resource" or "literal" (default).
	ObjectKind string `json:"object_kind,omitempty"`
	Datatype   string `json:"datatype,omitempty"`
	Language   string `json:"language,omitempty"`
}

// Binding converts the rule into a validated binding.
func (r Rule) Binding() (value.Binding, error) {
	var v value.Value
	switch r.ObjectKind {
	case "", value.TypeLiteral:
		lit, err := value.NewLiteral(r.Object, r.Datatype, r.Language)
		if err != nil {
			return value.Binding{}, err
		}
		v = lit
	case value.TypeResource:
		res, err := value.NewResource(r.Object)
		if err != nil {
			return value.Binding{}, err
		}
		v = res
	default:
		return value.Binding{}, fmt.Errorf("unsupported object_kind %q (valid: resource, literal)", r.ObjectKind)
	}
	return value.NewBinding(r.Property, v)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.AgentID != "" {
		if _, err := value.ParseUUID(c.AgentID); err != nil {
			return fmt.Errorf("agent_id: %w", err)
		}
	}
	if _, err := graph.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.PublishTimeoutSecs < 0 {
		return fmt.Errorf("publish_timeout_secs must be non-negative")
	}
	for i, r := range c.Rules {
		if r.Target == "" {
			return fmt.Errorf("rules[%d]: target is required", i)
		}
		if _, err := r.Binding(); err != nil {
			return fmt.Errorf("rules[%d]: %w", i, err)
		}
	}
	return nil
}

// DefaultConfig returns the default configuration for enrichment-agent.
func DefaultConfig() Config {
	return Config{
		Ports: &component.PortConfig{
			Inputs: []component.PortDefinition{
				{
					Name:        "enrichment_requests",
					Type:        "nats",
					Subject:     "enrich.request.>",
					Required:    true,
					Description: "Enrichment request/reply subject",
				},
			},
			Outputs: []component.PortDefinition{
				{
					Name:        "enrichment_responses",
					Type:        "nats",
					Subject:     "enrich.response",
					Required:    false,
					Description: "Default subject for enrichment responses when a request names no routing key",
				},
				{
					Name:        "graph_mirror",
					Type:        "jetstream",
					Subject:     graph.IngestSubject,
					Required:    false,
					Description: "Decoded message graphs for graph ingestion",
				},
			},
		},
		Format:             string(graph.FormatTurtle),
		PublishTimeoutSecs: 10,
	}
}
