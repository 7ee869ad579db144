// Package marker provides the start and end node executors. Both are no-op
// passthroughs: they produce no result entry and never fail.
package marker

import (
	"context"

	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/fluxlane/fluxlane/pkg/protocol"
)

type Executor struct{}

func (e *Executor) Execute(_ context.Context, _ *models.Node, _ *models.ExecutionContext) (protocol.Outcome, error) {
	return protocol.Outcome{}, nil
}
