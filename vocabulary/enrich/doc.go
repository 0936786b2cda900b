// Package enrich provides the wire vocabulary for enrichment messages.
//
// Enrichment messages are exchanged between agents as a single Turtle graph.
// Every message has one root node typed with its class IRI (for example
// ClassEnrichmentRequest) and carries envelope fields under the predicate
// IRIs declared here.
//
// Blank nodes typed with ClassVariable mark query variables. The
// (node, rdf:type, ClassVariable) triple is structural and never surfaces
// as a binding.
//
// Import this package to auto-register the dotted predicates used when
// message graphs are mirrored into the semstreams knowledge graph:
//
//	import _ "github.com/c360studio/semagent/vocabulary/enrich"
package enrich
