// Package registry maps node kinds to their executor factories. Adding a
// node kind is a registration, not an engine change.
package registry

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"plugin"

	"github.com/fluxlane/fluxlane/pkg/protocol"
)

type Registry struct {
	logger    *slog.Logger
	factories map[string]protocol.ExecutorFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logger,
		factories: make(map[string]protocol.ExecutorFactory),
	}
}

// Register adds a factory, replacing any previous registration for its kind.
func (r *Registry) Register(factory protocol.ExecutorFactory) {
	r.factories[factory.Kind()] = factory
}

// IsRegistered reports whether an executor exists for the node kind.
func (r *Registry) IsRegistered(kind string) bool {
	_, ok := r.factories[kind]

	return ok
}

// CreateExecutor builds an executor for the given node kind.
func (r *Registry) CreateExecutor(ctx context.Context, kind string) (protocol.Executor, error) {
	factory, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("node kind %q not registered", kind)
	}

	return factory.Create(ctx)
}

// HealthCheck reports whether the registry is usable.
func (r *Registry) HealthCheck() (string, bool) {
	if len(r.factories) == 0 {
		return "No executor factories registered", false
	}

	return fmt.Sprintf("%d executor kinds registered", len(r.factories)), true
}

// Kinds returns the registered node kinds.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}

	return kinds
}

// Factories returns all registered factories, for schema introspection.
func (r *Registry) Factories() []protocol.ExecutorFactory {
	factories := make([]protocol.ExecutorFactory, 0, len(r.factories))
	for _, factory := range r.factories {
		factories = append(factories, factory)
	}

	return factories
}

// LoadExecutorPlugins loads ExecutorFactory implementations from shared
// objects under pluginsPath. Each plugin must export an "Executor" symbol.
func (r *Registry) LoadExecutorPlugins(pluginsPath string) ([]protocol.ExecutorFactory, error) {
	root := os.DirFS(pluginsPath)

	paths, err := fs.Glob(root, "**/*.so")
	if err != nil {
		return nil, err
	}

	logger := r.logger.With(slog.String("path", pluginsPath))
	logger.Info("Loading executor plugins")

	factories := make([]protocol.ExecutorFactory, 0, len(paths))

	for _, p := range paths {
		plg, err := plugin.Open(pluginsPath + "/" + p)
		if err != nil {
			return nil, fmt.Errorf("failed to open plugin %s: %w", p, err)
		}

		symbol, err := plg.Lookup("Executor")
		if err != nil {
			return nil, fmt.Errorf("plugin %s has no Executor symbol: %w", p, err)
		}

		factory, ok := symbol.(protocol.ExecutorFactory)
		if !ok {
			return nil, fmt.Errorf("plugin %s Executor symbol is not an ExecutorFactory", p)
		}

		factories = append(factories, factory)

		logger.Info("Loaded executor plugin", slog.String("plugin", p))
	}

	return factories, nil
}
