package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"toy-admin/internal/domain/model"
	"toy-admin/internal/domain/ports/adapter"
	"toy-admin/internal/infra/metrics"
)

var _ adapter.BugNotifier = (*BugNotifier)(nil)

const maxDescriptionLen = 500

// sender is the slice of tgbotapi.BotAPI the notifier uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// BugNotifier posts new bug reports to the operators' Telegram chats.
type BugNotifier struct {
	bot     sender
	chatIDs []int64
	log     *zerolog.Logger
}

func NewBugNotifier(token string, chatIDs []int64, logger *zerolog.Logger) (*BugNotifier, error) {
	if token == "" {
		return nil, errors.New("telegram token is empty")
	}
	if len(chatIDs) == 0 {
		return nil, errors.New("no admin chat ids configured")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return newBugNotifier(bot, chatIDs, logger), nil
}

func newBugNotifier(bot sender, chatIDs []int64, logger *zerolog.Logger) *BugNotifier {
	l := logger.With().Str("component", "BugNotifier").Logger()
	return &BugNotifier{bot: bot, chatIDs: chatIDs, log: &l}
}

// NotifyBugReported sends to every chat and returns the first failure.
func (n *BugNotifier) NotifyBugReported(ctx context.Context, b *model.BugReport) error {
	text := formatBug(b)
	var firstErr error
	for _, id := range n.chatIDs {
		// Support early cancellation
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := n.bot.Send(tgbotapi.NewMessage(id, text)); err != nil {
			metrics.IncNotification("telegram", "error")
			n.log.Warn().Err(err).Int64("chat_id", id).Int64("bug_id", b.ID).Msg("bug notification failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		metrics.IncNotification("telegram", "sent")
	}
	return firstErr
}

func formatBug(b *model.BugReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "New %s bug #%d: %s\n", strings.ToUpper(string(b.Severity)), b.ID, b.Title)
	if b.Category != "" {
		fmt.Fprintf(&sb, "Category: %s\n", b.Category)
	}
	if b.Platform != "" || b.AppVersion != "" {
		fmt.Fprintf(&sb, "App: %s %s\n", b.Platform, b.AppVersion)
	}
	if b.DeviceModel != "" {
		fmt.Fprintf(&sb, "Device: %s\n", b.DeviceModel)
	}
	desc := b.Description
	if r := []rune(desc); len(r) > maxDescriptionLen {
		desc = string(r[:maxDescriptionLen]) + "..."
	}
	sb.WriteString("\n")
	sb.WriteString(desc)
	return sb.String()
}
