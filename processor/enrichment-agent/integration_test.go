//go:build integration

package enrichmentagent

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/c360studio/semagent/codec"
	"github.com/c360studio/semagent/protocol"
	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAgent_RequestReply drives a full exchange through a real NATS server:
// the request is acknowledged on the reply subject and the enrichment
// arrives on the request's routing key.
func TestAgent_RequestReply(t *testing.T) {
	tc := natsclient.NewTestClient(t, natsclient.WithJetStream())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	raw, err := json.Marshal(map[string]any{
		"rules": []Rule{{Target: target, Property: ci + "status", Object: "passed"}},
	})
	require.NoError(t, err)

	d, err := NewComponent(raw, component.Dependencies{NATSClient: tc.Client, Logger: slog.Default()})
	require.NoError(t, err)
	c := d.(*Component)
	require.NoError(t, c.Initialize())
	require.NoError(t, c.Start(ctx))
	defer func() { assert.NoError(t, c.Stop(5*time.Second)) }()

	conn := tc.Client.GetConnection()
	responses := make(chan *nats.Msg, 4)
	sub, err := conn.ChanSubscribe(replyKey, responses)
	require.NoError(t, err)
	defer func() { _ = sub.Unsubscribe() }()

	req := request(&protocol.DeliveryChannel{Host: "localhost", RoutingKey: replyKey})
	msg, err := conn.RequestWithContext(ctx, "enrich.request.builds", encodeTurtle(t, req))
	require.NoError(t, err)

	ack, err := codec.DecodeTurtle(string(msg.Data))
	require.NoError(t, err)
	require.IsType(t, &protocol.Accepted{}, ack)
	assert.Equal(t, requestID, ack.(*protocol.Accepted).ResponseTo)

	select {
	case m := <-responses:
		resp, err := codec.DecodeTurtle(string(m.Data))
		require.NoError(t, err)
		er, ok := resp.(*protocol.EnrichmentResponse)
		require.True(t, ok, "expected EnrichmentResponse")
		assert.Equal(t, uint64(1), er.ResponseNumber)
		assert.Len(t, er.Additions, 1)
	case <-ctx.Done():
		t.Fatal("timed out waiting for enrichment response")
	}
}
