package adapter

import (
	"context"

	"toy-admin/internal/domain/model"
)

// BugNotifier pushes newly reported bugs to the on-call operators.
type BugNotifier interface {
	NotifyBugReported(ctx context.Context, b *model.BugReport) error
}
