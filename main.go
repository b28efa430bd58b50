package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/furisto/companion/api"
	"github.com/furisto/companion/chat"
	"github.com/furisto/companion/config"
	"github.com/furisto/companion/event"
	"github.com/furisto/companion/memory"
	"github.com/furisto/companion/model"
)

const shutdownTimeout = 8 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("companion exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	settings, err := config.Load(afero.NewOsFs(), os.Getenv("CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	store, err := memory.Open(settings.DatabasePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	registry := prometheus.NewRegistry()
	bus := event.NewBus(registry)
	defer bus.Close()

	sub := event.Subscribe(bus, func(ctx context.Context, e event.ChatTurnEvent) {
		slog.InfoContext(ctx, "chat turn",
			"created", e.Created,
			"deleted", e.Deleted,
			"completed", e.Completed,
			"uncompleted", e.Uncompleted,
			"input_tokens", e.InputTokens,
			"output_tokens", e.OutputTokens,
			"duration", e.Duration,
			"failed", e.Failed,
		)
	})
	defer sub.Unsubscribe()

	assistant, err := buildAssistant(settings, bus, registry)
	if err != nil {
		return err
	}

	handler := api.NewHandler(api.HandlerOptions{
		Store:       store,
		Assistant:   assistant,
		Bus:         bus,
		Metrics:     registry,
		CORSOrigins: settings.CORSOrigins,
		ModelName:   settings.ModelName,
	})
	server := api.NewServer(handler, settings.ListenAddr)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		slog.Info("listening", "addr", settings.ListenAddr, "model", settings.ModelName)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

// buildAssistant wires the chat core. Missing credentials disable chat but
// leave the rest of the API running.
func buildAssistant(settings *config.Settings, bus *event.Bus, registry *prometheus.Registry) (api.ChatAssistant, error) {
	apiKey := settings.APIKey()
	if apiKey == "" {
		slog.Warn("no model API key configured, chat endpoint disabled",
			"provider", settings.ModelProvider,
		)
		return nil, nil
	}

	var provider model.ModelProvider
	var err error
	switch settings.ModelProvider {
	case "anthropic":
		provider, err = model.NewAnthropicProvider(apiKey)
	case "openai":
		provider, err = model.NewOpenAIProvider(apiKey)
	default:
		return nil, fmt.Errorf("unknown model provider %q", settings.ModelProvider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", settings.ModelProvider, err)
	}

	assistant, err := chat.NewAssistant(provider, bus, registry,
		chat.WithModel(settings.ModelName),
		chat.WithHistoryLimit(settings.HistoryLimit),
		chat.WithMaxTokens(settings.MaxTokens),
		chat.WithTemperature(settings.Temperature),
		chat.WithTurnTimeout(settings.TurnTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create assistant: %w", err)
	}
	return assistant, nil
}
