package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/c360studio/semagent/config"
	"github.com/c360studio/semagent/graph"
	enrichmentagent "github.com/c360studio/semagent/processor/enrichment-agent"
	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/metric"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/c360studio/semstreams/types"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/spf13/cobra"
)

const (
	mirrorStream    = "GRAPH"
	shutdownTimeout = 30 * time.Second
)

func runCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the enrichment agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, logger)
		},
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	metricsRegistry := metric.NewMetricsRegistry()

	natsClient, err := connectToNATS(ctx, cfg, metricsRegistry, logger)
	if err != nil {
		return err
	}
	defer natsClient.Close(ctx)

	if cfg.Codec.MirrorGraph {
		if err := ensureMirrorStream(ctx, natsClient.GetConnection(), logger); err != nil {
			return err
		}
	}

	rawConfig, err := componentConfig(cfg)
	if err != nil {
		return err
	}

	componentRegistry := component.NewRegistry()
	if err := enrichmentagent.Register(componentRegistry); err != nil {
		return fmt.Errorf("register enrichment-agent: %w", err)
	}

	deps := component.Dependencies{
		NATSClient:      natsClient,
		MetricsRegistry: metricsRegistry,
		Logger:          logger,
	}
	created, err := componentRegistry.CreateComponent(cfg.Agent.Name, types.ComponentConfig{
		Name:    "enrichment-agent",
		Type:    types.ComponentTypeProcessor,
		Enabled: true,
		Config:  rawConfig,
	}, deps)
	if err != nil {
		return fmt.Errorf("create enrichment-agent: %w", err)
	}

	agent, ok := created.(component.LifecycleComponent)
	if !ok {
		return fmt.Errorf("enrichment-agent does not implement the component lifecycle")
	}
	if err := agent.Initialize(); err != nil {
		return fmt.Errorf("initialize enrichment-agent: %w", err)
	}

	signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	if err := agent.Start(signalCtx); err != nil {
		return fmt.Errorf("start enrichment-agent: %w", err)
	}

	logger.Info("Semagent ready",
		"version", Version,
		"name", cfg.Agent.Name,
		"subject", cfg.Subjects.Request,
		"format", cfg.Codec.Format)

	<-signalCtx.Done()
	logger.Info("Received shutdown signal")

	if err := agent.Stop(shutdownTimeout); err != nil {
		logger.Error("Error stopping enrichment-agent", "error", err)
	}

	logger.Info("Semagent shutdown complete")
	return nil
}

// componentConfig renders the agent's component config from the CLI config.
func componentConfig(cfg *config.Config) (json.RawMessage, error) {
	ac := enrichmentagent.DefaultConfig()
	ac.AgentID = cfg.Agent.ID
	ac.Format = cfg.Codec.Format
	ac.MirrorGraph = cfg.Codec.MirrorGraph
	if secs := int(cfg.NATS.Timeout / time.Second); secs > 0 {
		ac.PublishTimeoutSecs = secs
	}

	ac.Ports.Inputs[0].Subject = cfg.Subjects.Request
	for i := range ac.Ports.Outputs {
		if ac.Ports.Outputs[i].Name == "enrichment_responses" && cfg.Subjects.Response != "" {
			ac.Ports.Outputs[i].Subject = cfg.Subjects.Response
		}
	}

	for _, r := range cfg.Rules {
		ac.Rules = append(ac.Rules, enrichmentagent.Rule{
			Target:     r.Target,
			Property:   r.Property,
			Object:     r.Object,
			ObjectKind: r.ObjectKind,
			Datatype:   r.Datatype,
			Language:   r.Language,
		})
	}

	if err := ac.Validate(); err != nil {
		return nil, fmt.Errorf("invalid agent configuration: %w", err)
	}
	raw, err := json.Marshal(ac)
	if err != nil {
		return nil, fmt.Errorf("marshal agent configuration: %w", err)
	}
	return raw, nil
}

func connectToNATS(ctx context.Context, cfg *config.Config, registry *metric.MetricsRegistry, logger *slog.Logger) (*natsclient.Client, error) {
	url := cfg.NATS.URL
	timeout := natsTimeout(cfg)
	logger.Info("Connecting to NATS", "url", url)

	client, err := natsclient.NewClient(url,
		natsclient.WithName(cfg.Agent.Name),
		natsclient.WithMaxReconnects(-1),
		natsclient.WithReconnectWait(time.Second),
		natsclient.WithHealthInterval(30*time.Second),
		natsclient.WithTimeout(timeout),
		natsclient.WithMetrics(registry),
	)
	if err != nil {
		return nil, fmt.Errorf("create NATS client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, wrapNATSError(err, url)
	}

	connCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.WaitForConnection(connCtx); err != nil {
		return nil, wrapNATSError(err, url)
	}

	logger.Info("Connected to NATS", "url", url)
	return client, nil
}

func natsTimeout(cfg *config.Config) time.Duration {
	if cfg.NATS.Timeout > 0 {
		return cfg.NATS.Timeout
	}
	return 10 * time.Second
}

// wrapNATSError provides helpful guidance when NATS connection fails.
func wrapNATSError(err error, url string) error {
	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

To start NATS:
  docker run -d -p 4222:4222 nats -js

Or set SEMAGENT_NATS_URL (or NATS_URL) to point to your NATS server.`, err, url)
	}

	return fmt.Errorf("NATS connection failed: %w", err)
}

// ensureMirrorStream creates the stream that receives mirrored message
// graphs.
func ensureMirrorStream(ctx context.Context, conn *nats.Conn, logger *slog.Logger) error {
	js, err := jetstream.New(conn)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     mirrorStream,
		Subjects: []string{graph.IngestSubject},
		Storage:  jetstream.MemoryStorage,
		MaxAge:   24 * time.Hour,
	})
	if err != nil {
		return fmt.Errorf("ensure %s stream: %w", mirrorStream, err)
	}

	logger.Debug("JetStream stream ready", "stream", mirrorStream, "subject", graph.IngestSubject)
	return nil
}
