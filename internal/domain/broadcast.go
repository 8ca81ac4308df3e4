package domain

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// MessageSender is the transport surface the broadcaster needs (satisfied
// by *bot.Bot, mocked in tests).
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// DeliveryResult is the typed outcome of one delivery attempt. A nil Err
// means the message reached the recipient.
type DeliveryResult struct {
	UserID int64
	Err    error
}

// Delivered reports whether this attempt succeeded.
func (r DeliveryResult) Delivered() bool {
	return r.Err == nil
}

// BroadcastSummary aggregates per-recipient results.
type BroadcastSummary struct {
	Delivered int
	Failed    int
}

// Broadcaster sends one private message per recipient, best effort. A
// failure for one recipient never aborts the rest; each attempt runs under
// its own timeout so an unreachable recipient cannot stall the batch.
type Broadcaster struct {
	sender  MessageSender
	timeout time.Duration
	logger  Logger
}

// NewBroadcaster creates a Broadcaster with the given per-recipient timeout.
func NewBroadcaster(sender MessageSender, timeout time.Duration, logger Logger) *Broadcaster {
	return &Broadcaster{
		sender:  sender,
		timeout: timeout,
		logger:  logger,
	}
}

// Send attempts one delivery per recipient and returns every result plus
// the tally shown to the admin.
func (b *Broadcaster) Send(ctx context.Context, recipients []int64, text string) ([]DeliveryResult, BroadcastSummary) {
	results := make([]DeliveryResult, 0, len(recipients))
	var summary BroadcastSummary

	for _, userID := range recipients {
		err := b.sendOne(ctx, userID, text)
		results = append(results, DeliveryResult{UserID: userID, Err: err})
		if err != nil {
			summary.Failed++
			b.logger.Warn("broadcast delivery failed", "user_id", userID, "error", err)
			continue
		}
		summary.Delivered++
	}

	b.logger.Info("broadcast finished", "recipients", len(recipients), "delivered", summary.Delivered, "failed", summary.Failed)
	return results, summary
}

func (b *Broadcaster) sendOne(ctx context.Context, userID int64, text string) error {
	sendCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	_, err := b.sender.SendMessage(sendCtx, &bot.SendMessageParams{
		ChatID: userID,
		Text:   text,
	})
	return err
}
