// Package protocol defines the typed enrichment messages exchanged between
// agents: a shared envelope, request and response headers, and the five
// concrete message variants.
package protocol

import (
	"fmt"

	"github.com/c360studio/semagent/vocabulary/enrich"
)

// Kind identifies a concrete message variant.
type Kind int

const (
	KindEnrichmentRequest Kind = iota + 1
	KindDisconnect
	KindEnrichmentResponse
	KindAccepted
	KindFailure
)

// Kinds lists every concrete variant.
var Kinds = []Kind{
	KindEnrichmentRequest,
	KindDisconnect,
	KindEnrichmentResponse,
	KindAccepted,
	KindFailure,
}

func (k Kind) String() string {
	switch k {
	case KindEnrichmentRequest:
		return "enrichment-request"
	case KindDisconnect:
		return "disconnect"
	case KindEnrichmentResponse:
		return "enrichment-response"
	case KindAccepted:
		return "accepted"
	case KindFailure:
		return "failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Class returns the RDF class IRI that types the message root.
func (k Kind) Class() string {
	switch k {
	case KindEnrichmentRequest:
		return enrich.ClassEnrichmentRequest
	case KindDisconnect:
		return enrich.ClassDisconnect
	case KindEnrichmentResponse:
		return enrich.ClassEnrichmentResponse
	case KindAccepted:
		return enrich.ClassAccepted
	case KindFailure:
		return enrich.ClassFailure
	default:
		return ""
	}
}

// IsRequest reports whether k carries a request header.
func (k Kind) IsRequest() bool {
	return k == KindEnrichmentRequest || k == KindDisconnect
}

// KindForClass maps a class IRI back to its Kind.
func KindForClass(iri string) (Kind, bool) {
	for _, k := range Kinds {
		if k.Class() == iri {
			return k, true
		}
	}
	return 0, false
}

// ParseKind maps a Kind name as printed by String back to the Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown message kind %q", name)
}
