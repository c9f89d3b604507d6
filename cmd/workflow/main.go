package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nulzo/cache-gateway-api/internal/platform/logger"
	"github.com/nulzo/cache-gateway-api/internal/workflow"
	"github.com/nulzo/cache-gateway-api/pkg/client"
)

// Triggers one workflow run and babysits it: placeholder entry in the cache
// gateway while the run is in flight, poll until a terminal state, clean up.
func main() {
	_ = godotenv.Load()

	baseURL := flag.String("workflow-url", envOr("WORKFLOW_BASE_URL", "https://demo.north.cohere.com"), "Workflow platform base URL")
	gatewayURL := flag.String("gateway-url", envOr("GATEWAY_URL", "http://localhost:8000"), "Cache gateway base URL")
	agentID := flag.String("agent", os.Getenv("WORKFLOW_AGENT_ID"), "Agent ID to run")
	templateID := flag.String("template", os.Getenv("WORKFLOW_TEMPLATE_ID"), "Template ID to run")
	account := flag.String("account", "", "Account number input")
	clientID := flag.String("client", "", "Client ID input")
	pollInterval := flag.Duration("poll-interval", 5*time.Second, "Delay between status polls")
	maxWait := flag.Duration("max-wait", time.Hour, "Wall-clock budget for the run")
	flag.Parse()

	logger.Initialize(logger.DefaultConfig())
	defer logger.Sync()
	log := logger.Get()

	token := os.Getenv("BEARER_TOKEN")
	if token == "" {
		log.Fatal("BEARER_TOKEN is required")
	}
	if *agentID == "" || *templateID == "" {
		log.Fatal("agent and template IDs are required")
	}
	if *account == "" || *clientID == "" {
		log.Fatal("account and client inputs are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	coord := workflow.NewCoordinator(
		workflow.NewClient(*baseURL, token),
		client.New(*gatewayURL),
		log,
		workflow.WithPollInterval(*pollInterval),
		workflow.WithMaxWait(*maxWait),
	)

	req := workflow.TriggerRequest{
		AgentID:    *agentID,
		TemplateID: *templateID,
		Inputs: workflow.Inputs{
			AccountNumber: *account,
			ClientID:      *clientID,
		},
	}

	status, err := coord.Run(ctx, req)
	if err != nil {
		var failure *workflow.FailureError
		switch {
		case errors.As(err, &failure):
			log.Fatal("workflow failed",
				zap.String("run_id", failure.RunID),
				zap.String("status", failure.Status),
				zap.String("message", failure.Message),
			)
		case errors.Is(err, workflow.ErrTimeout):
			log.Fatal("workflow did not finish in time", zap.Error(err))
		default:
			log.Fatal("workflow run aborted", zap.Error(err))
		}
	}

	log.Info("workflow finished",
		zap.String("run_id", status.ID),
		zap.String("status", status.Status),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
