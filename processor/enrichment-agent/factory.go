package enrichmentagent

import (
	"fmt"

	"github.com/c360studio/semstreams/component"
)

// RegistryInterface defines the minimal interface needed for registration.
type RegistryInterface interface {
	RegisterWithConfig(component.RegistrationConfig) error
}

// Register registers the enrichment-agent processor with the given registry.
func Register(registry RegistryInterface) error {
	if registry == nil {
		return fmt.Errorf("registry cannot be nil")
	}
	return registry.RegisterWithConfig(component.RegistrationConfig{
		Name:        "enrichment-agent",
		Factory:     NewComponent,
		Schema:      enrichmentAgentSchema,
		Type:        "processor",
		Protocol:    "enrich",
		Domain:      "enrichment",
		Description: "Request/reply agent answering RDF enrichment requests",
		Version:     "1.0.0",
	})
}
