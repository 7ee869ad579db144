package protocol

import "context"

// TextGenerator is the external text-generation collaborator used by task
// executors. Implementations may fail (rate limits, transport errors); the
// task executor degrades to a completion stub instead of propagating.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
