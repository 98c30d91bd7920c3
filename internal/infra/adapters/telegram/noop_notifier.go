package telegram

import (
	"context"

	"github.com/rs/zerolog"

	"toy-admin/internal/domain/model"
	"toy-admin/internal/domain/ports/adapter"
)

var _ adapter.BugNotifier = (*NoopBugNotifier)(nil)

// NoopBugNotifier logs instead of sending, for local runs without a bot token.
type NoopBugNotifier struct {
	log *zerolog.Logger
}

func NewNoopBugNotifier(logger *zerolog.Logger) *NoopBugNotifier {
	return &NoopBugNotifier{log: logger}
}

func (n *NoopBugNotifier) NotifyBugReported(ctx context.Context, b *model.BugReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.log.Info().
		Int64("bug_id", b.ID).
		Str("severity", string(b.Severity)).
		Str("title", b.Title).
		Msg("[noop-telegram] bug reported")
	return nil
}
