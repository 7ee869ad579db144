package main

import (
	"context"
	"os"

	"github.com/fluxlane/fluxlane/pkg/cmd"
	"github.com/fluxlane/fluxlane/pkg/generation"
	"github.com/fluxlane/fluxlane/pkg/log"
	"github.com/fluxlane/fluxlane/pkg/otelhelper"
	"github.com/fluxlane/fluxlane/pkg/protocol"
	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"
)

const defaultPort = 9091

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "fluxlane-api",
		Usage:                 "Create, manage and execute workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence (postgres:// or a file store path)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:     "plugins-path",
				Usage:    "Path to the directory containing executor plugins",
				Required: false,
				Sources:  cli.EnvVars("PLUGINS_PATH"),
			},
			&cli.StringFlag{
				Name:    "generation-api-url",
				Usage:   "Base URL of the OpenAI-compatible generation API used by task nodes",
				Sources: cli.EnvVars("GENERATION_API_URL"),
			},
			&cli.StringFlag{
				Name:    "generation-api-key",
				Usage:   "API key for the generation API",
				Sources: cli.EnvVars("GENERATION_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "generation-model",
				Usage:   "Model name sent to the generation API",
				Value:   "gpt-4o-mini",
				Sources: cli.EnvVars("GENERATION_MODEL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Fluxlane API")

			var generator protocol.TextGenerator
			if url := command.String("generation-api-url"); url != "" {
				generator = generation.NewClient(
					url,
					command.String("generation-api-key"),
					command.String("generation-model"),
					logger,
				)
			}

			registry := cmd.NewRegistry(logger, generator, command.String("plugins-path"))

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			var tracer trace.Tracer

			tracer, err = otelhelper.NewTracer(ctx, "fluxlane-api")
			if err != nil {
				logger.WarnContext(ctx, "Tracing disabled", "error", err)

				tracer = nil
			}

			api := NewAPI(
				logger,
				persistence,
				registry,
				eventBus,
				tracer,
			)

			defer api.Drain()

			err = api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
