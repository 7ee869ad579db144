// Package registry provides default executor registration.
package registry

import (
	"github.com/fluxlane/fluxlane/pkg/executors/conditional"
	"github.com/fluxlane/fluxlane/pkg/executors/delay"
	logexec "github.com/fluxlane/fluxlane/pkg/executors/log"
	"github.com/fluxlane/fluxlane/pkg/executors/marker"
	"github.com/fluxlane/fluxlane/pkg/executors/task"
	"github.com/fluxlane/fluxlane/pkg/executors/transform"
	"github.com/fluxlane/fluxlane/pkg/executors/webhook"
	"github.com/fluxlane/fluxlane/pkg/protocol"
)

// RegisterDefaultExecutors registers the built-in node kinds. The generator
// may be nil; task nodes then always resolve to their completion stub.
func (r *Registry) RegisterDefaultExecutors(generator protocol.TextGenerator) {
	r.Register(marker.NewStartFactory())
	r.Register(marker.NewEndFactory())

	r.Register(task.NewFactory(generator, r.logger))
	r.Register(conditional.NewFactory(r.logger))
	r.Register(webhook.NewFactory(nil, r.logger))

	// Extension kinds.
	r.Register(delay.NewFactory())
	r.Register(logexec.NewFactory(r.logger))
	r.Register(transform.NewFactory())
}
