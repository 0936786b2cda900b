package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/c360studio/semagent/vocabulary/enrich"
	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/natsclient"
)

// IngestSubject is the graph ingestion stream subject.
const IngestSubject = "graph.ingest.entity"

// MirrorSource is recorded as the source of mirrored triples.
const MirrorSource = "semagent.codec"

// MessageEntityID returns the entity ID of a mirrored message.
func MessageEntityID(kind, messageID string) string {
	return fmt.Sprintf("semagent.local.enrich.message.%s.%s", kind, messageID)
}

// Mirror flattens a message graph into entity triples. Predicates with a
// registered dotted name use it; others keep their IRI. Blank nodes become
// child IDs under entityID.
func Mirror(entityID string, g TripleSet, root Term, now time.Time) []message.Triple {
	node := func(t Term) string {
		switch {
		case t == root:
			return entityID
		case t.IsBlank():
			return entityID + "." + t.Value
		default:
			return t.Value
		}
	}

	triples := g.Triples()
	out := make([]message.Triple, 0, len(triples))
	for _, t := range triples {
		pred := t.Predicate.Value
		if dotted, ok := enrich.PredicateForIRI(pred); ok {
			pred = dotted
		}
		out = append(out, message.Triple{
			Subject:    node(t.Subject),
			Predicate:  pred,
			Object:     node(t.Object),
			Source:     MirrorSource,
			Timestamp:  now,
			Confidence: 1.0,
		})
	}
	return out
}

// PublishMirror sends a mirrored message to the graph ingestion stream.
// A nil client skips publishing.
func PublishMirror(ctx context.Context, nc *natsclient.Client, entityID string, triples []message.Triple) error {
	if nc == nil {
		return nil
	}

	payload := &MessagePayload{
		EntityID_:  entityID,
		TripleData: triples,
		UpdatedAt:  time.Now(),
	}
	if err := payload.Validate(); err != nil {
		return fmt.Errorf("mirror %s: %w", entityID, err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal mirror %s: %w", entityID, err)
	}
	if err := nc.PublishToStream(ctx, IngestSubject, data); err != nil {
		return fmt.Errorf("publish mirror %s: %w", entityID, err)
	}
	return nil
}
