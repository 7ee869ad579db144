package cmd

import (
	"log/slog"

	"github.com/fluxlane/fluxlane/pkg/protocol"
	"github.com/fluxlane/fluxlane/pkg/registry"
)

// NewRegistry builds the executor registry with the built-in kinds and any
// executor plugins found under pluginsPath.
func NewRegistry(logger *slog.Logger, generator protocol.TextGenerator, pluginsPath string) *registry.Registry {
	reg := registry.NewRegistry(logger)
	reg.RegisterDefaultExecutors(generator)

	if pluginsPath != "" {
		factories, err := reg.LoadExecutorPlugins(pluginsPath)
		if err != nil {
			panic(err)
		}

		for _, factory := range factories {
			reg.Register(factory)
		}
	}

	return reg
}
