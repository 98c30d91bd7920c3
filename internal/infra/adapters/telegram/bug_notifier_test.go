//go:build !integration

package telegram

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"toy-admin/internal/domain/model"
)

type fakeSender struct {
	sent   []tgbotapi.MessageConfig
	failOn int64
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, errors.New("unexpected chattable")
	}
	if msg.ChatID == f.failOn {
		return tgbotapi.Message{}, errors.New("chat not found")
	}
	f.sent = append(f.sent, msg)
	return tgbotapi.Message{}, nil
}

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

func TestBugNotifier(t *testing.T) {
	bug := &model.BugReport{
		ID:          42,
		Title:       "Toy reboots",
		Description: strings.Repeat("x", 600),
		Severity:    model.SeverityCritical,
		Platform:    "ios",
		AppVersion:  "1.2.0",
	}

	t.Run("should send to every admin chat", func(t *testing.T) {
		fs := &fakeSender{}
		n := newBugNotifier(fs, []int64{1, 2}, newTestLogger())
		if err := n.NotifyBugReported(context.Background(), bug); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(fs.sent) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(fs.sent))
		}
		text := fs.sent[0].Text
		if !strings.Contains(text, "CRITICAL bug #42: Toy reboots") {
			t.Errorf("unexpected header in %q", text)
		}
		if !strings.Contains(text, "App: ios 1.2.0") {
			t.Errorf("expected app line in %q", text)
		}
		if !strings.HasSuffix(text, "...") {
			t.Error("expected long description to be truncated")
		}
	})

	t.Run("should keep sending after a failed chat", func(t *testing.T) {
		fs := &fakeSender{failOn: 1}
		n := newBugNotifier(fs, []int64{1, 2}, newTestLogger())
		if err := n.NotifyBugReported(context.Background(), bug); err == nil {
			t.Error("expected the first failure to be returned")
		}
		if len(fs.sent) != 1 || fs.sent[0].ChatID != 2 {
			t.Errorf("expected delivery to chat 2, got %+v", fs.sent)
		}
	})

	t.Run("should stop on a cancelled context", func(t *testing.T) {
		fs := &fakeSender{}
		n := newBugNotifier(fs, []int64{1}, newTestLogger())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := n.NotifyBugReported(ctx, bug); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestNewBugNotifierRequiresConfig(t *testing.T) {
	if _, err := NewBugNotifier("", []int64{1}, newTestLogger()); err == nil {
		t.Error("expected error for empty token")
	}
	if _, err := NewBugNotifier("token", nil, newTestLogger()); err == nil {
		t.Error("expected error for missing chat ids")
	}
}
