package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/c360studio/semagent/codec"
	"github.com/c360studio/semagent/graph"
	"github.com/c360studio/semagent/protocol"
	"github.com/c360studio/semagent/value"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// decodedMessage is the JSON rendering printed by decode.
type decodedMessage struct {
	Kind    string           `json:"kind"`
	Message protocol.Message `json:"message"`
}

func decodeCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode an enrichment message and print it as JSON",
		Long:  "Decode reads a message from file (or stdin when omitted or \"-\") and prints the typed message as JSON.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := graph.ParseFormat(format)
			if err != nil {
				return err
			}

			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			text, err := readInput(path, cmd.InOrStdin())
			if err != nil {
				return err
			}

			msg, err := codec.DecodeText(string(text), f)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), decodedMessage{Kind: msg.Kind().String(), Message: msg})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(graph.FormatTurtle), "Wire format (turtle, ntriples)")
	return cmd
}

func encodeSampleCmd() *cobra.Command {
	var (
		format  string
		target  string
		replyTo string
	)

	cmd := &cobra.Command{
		Use:   "encode-sample",
		Short: "Print a sample enrichment request",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := graph.ParseFormat(format)
			if err != nil {
				return err
			}
			req, err := sampleRequest(uuid.New(), target, replyTo)
			if err != nil {
				return err
			}
			text, err := codec.EncodeText(req, f)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(graph.FormatTurtle), "Wire format (turtle, ntriples)")
	cmd.Flags().StringVar(&target, "target", "https://example.org/builds/42", "Target resource IRI")
	cmd.Flags().StringVar(&replyTo, "reply-to", "enrich.replies.sample", "Routing key responses are published to")
	return cmd
}

// sampleRequest builds a request asking about target with one filter
// variable constrained by a literal.
func sampleRequest(agentID uuid.UUID, target, replyTo string) (*protocol.EnrichmentRequest, error) {
	if _, err := value.NewResource(target); err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	repo, err := value.NewVariable("repo")
	if err != nil {
		return nil, err
	}
	filter, err := value.NewFilter("https://example.org/ci#forRepository", repo)
	if err != nil {
		return nil, err
	}
	name, err := value.NewBinding("https://example.org/scm#name", value.Literal{Lexical: "semagent"})
	if err != nil {
		return nil, err
	}
	constraint, err := value.NewConstraint(repo, []value.Binding{name})
	if err != nil {
		return nil, err
	}

	req := &protocol.EnrichmentRequest{
		RequestEnvelope: protocol.RequestEnvelope{Envelope: protocol.NewEnvelope(agentID)},
		TargetResource:  target,
		Filters:         []value.Filter{filter},
		Constraints:     []value.Constraint{constraint},
	}
	if replyTo != "" {
		req.ReplyTo = &protocol.DeliveryChannel{Host: "localhost", RoutingKey: replyTo}
	}
	return req, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
