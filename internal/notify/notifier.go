// Package notify sends operator notifications to Telegram and Discord.
// Messages are built once and rendered per channel; an event filter decides
// which event types reach the senders.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"huckster/config"

	"go.uber.org/zap"
)

// Sender delivers a rendered message to one channel.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}

type Notifier struct {
	senders  []Sender
	events   map[string]bool
	testMode bool
	logger   *zap.Logger
}

// NewNotifier returns a Notifier delivering to senders. An empty events list
// lets every event through. In test mode messages are logged but not sent.
func NewNotifier(senders []Sender, events []string, testMode bool, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[string]bool, len(events))
	for _, e := range events {
		if e = strings.TrimSpace(e); e != "" {
			allowed[e] = true
		}
	}
	return &Notifier{
		senders:  senders,
		events:   allowed,
		testMode: testMode,
		logger:   logger,
	}
}

func (n *Notifier) Notify(ctx context.Context, event string, msg Message) error {
	if len(n.events) > 0 && !n.events[event] {
		n.logger.Debug("event filtered out", zap.String("event", event))
		return nil
	}

	n.logger.Info("sending notification",
		zap.String("event", event),
		zap.String("text", msg.Plain()),
		zap.Bool("test_mode", n.testMode),
	)
	if n.testMode {
		return nil
	}

	var errs []error
	for _, s := range n.senders {
		if err := s.Send(ctx, msg); err != nil {
			n.logger.Error("sender failed", zap.String("sender", s.Name()), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		n.logger.Debug("notification sent", zap.String("sender", s.Name()))
	}
	return errors.Join(errs...)
}

// FromConfig builds the Notifier described by the notify config section.
// It returns nil when notifications are disabled.
func FromConfig(cfg config.NotifyConfig, logger *zap.Logger) *Notifier {
	if !cfg.Enabled {
		return nil
	}

	var senders []Sender
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != "" {
		senders = append(senders, NewTelegramSender(cfg.Telegram.Host, cfg.Telegram.Token, cfg.Telegram.ChatID))
	}
	if cfg.Discord.WebhookURL != "" {
		senders = append(senders, NewDiscordSender(cfg.Discord.WebhookURL))
	}
	return NewNotifier(senders, cfg.Events, cfg.TestMode, logger)
}
