package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/c360studio/semagent/codec"
	"github.com/c360studio/semagent/graph"
	"github.com/c360studio/semagent/protocol"
	"github.com/c360studio/semagent/value"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

func sendCmd(flags *globalFlags) *cobra.Command {
	var (
		target  string
		subject string
		wait    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a sample enrichment request and print the responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			f, err := graph.ParseFormat(cfg.Codec.Format)
			if err != nil {
				return err
			}
			if subject == "" {
				subject = concreteSubject(cfg.Subjects.Request)
			}

			agentID := uuid.New()
			if cfg.Agent.ID != "" {
				if agentID, err = value.ParseUUID(cfg.Agent.ID); err != nil {
					return fmt.Errorf("agent.id: %w", err)
				}
			}

			conn, err := nats.Connect(cfg.NATS.URL,
				nats.Name(cfg.Agent.Name+"-send"),
				nats.Timeout(natsTimeout(cfg)))
			if err != nil {
				return wrapNATSError(err, cfg.NATS.URL)
			}
			defer conn.Close()

			inbox := nats.NewInbox()
			sub, err := conn.SubscribeSync(inbox)
			if err != nil {
				return fmt.Errorf("subscribe to %s: %w", inbox, err)
			}
			defer func() { _ = sub.Unsubscribe() }()

			req, err := sampleRequest(agentID, target, inbox)
			if err != nil {
				return err
			}
			text, err := codec.EncodeText(req, f)
			if err != nil {
				return err
			}

			logger.Debug("Sending enrichment request",
				"subject", subject,
				"message_id", req.MessageID,
				"reply_to", inbox)

			ctx, cancel := context.WithTimeout(cmd.Context(), natsTimeout(cfg))
			defer cancel()
			reply, err := conn.RequestWithContext(ctx, subject, []byte(text))
			if err != nil {
				return fmt.Errorf("request %s: %w", subject, err)
			}

			ack, err := printMessage(cmd.OutOrStdout(), reply.Data, f)
			if err != nil {
				return err
			}
			if failure, ok := ack.(*protocol.Failure); ok {
				return fmt.Errorf("request rejected: %s", failure.Reason)
			}
			return collectResponses(cmd.OutOrStdout(), sub, f, wait)
		},
	}

	cmd.Flags().StringVar(&target, "target", "https://example.org/builds/42", "Target resource IRI")
	cmd.Flags().StringVar(&subject, "subject", "", "Request subject (derived from subjects.request when empty)")
	cmd.Flags().DurationVar(&wait, "wait", 5*time.Second, "How long to wait for enrichment responses")
	return cmd
}

// collectResponses prints every response arriving on sub until wait
// elapses.
func collectResponses(w io.Writer, sub *nats.Subscription, f graph.Format, wait time.Duration) error {
	deadline := time.Now().Add(wait)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil
		}
		msg, err := sub.NextMsg(remaining)
		if errors.Is(err, nats.ErrTimeout) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("receive response: %w", err)
		}
		if _, err := printMessage(w, msg.Data, f); err != nil {
			return err
		}
	}
}

func printMessage(w io.Writer, data []byte, f graph.Format) (protocol.Message, error) {
	msg, err := codec.DecodeText(string(data), f)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if err := writeJSON(w, decodedMessage{Kind: msg.Kind().String(), Message: msg}); err != nil {
		return nil, err
	}
	return msg, nil
}

// concreteSubject turns a subscription pattern into a publishable subject
// by replacing wildcard tokens with "cli".
func concreteSubject(pattern string) string {
	tokens := strings.Split(pattern, ".")
	for i, tok := range tokens {
		if tok == "*" || tok == ">" {
			tokens[i] = "cli"
		}
	}
	return strings.Join(tokens, ".")
}
