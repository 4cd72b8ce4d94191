package mock

import (
	"context"

	"github.com/mstanek/apidex"
)

var _ apidex.Asker = (*Asker)(nil)

// Asker is a mock implementation of apidex.Asker.
type Asker struct {
	AskFn func(ctx context.Context, apiID string, question string) (string, error)
}

func (a *Asker) Ask(ctx context.Context, apiID string, question string) (string, error) {
	return a.AskFn(ctx, apiID, question)
}
