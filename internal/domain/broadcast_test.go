package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/victoria-pups/event-bot/internal/logger"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// mockSender records sent messages and fails for configured recipients
type mockSender struct {
	sent    []int64
	failFor map[int64]error
}

func newMockSender() *mockSender {
	return &mockSender{failFor: make(map[int64]error)}
}

func (m *mockSender) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	chatID, _ := params.ChatID.(int64)
	if err, ok := m.failFor[chatID]; ok {
		return nil, err
	}
	m.sent = append(m.sent, chatID)
	return &models.Message{ID: len(m.sent)}, nil
}

func TestBroadcastDeliversToAll(t *testing.T) {
	sender := newMockSender()
	b := NewBroadcaster(sender, time.Second, logger.New(logger.ERROR))

	recipients := []int64{10, 20, 30}
	results, summary := b.Send(context.Background(), recipients, "hello")

	if summary.Delivered != 3 || summary.Failed != 0 {
		t.Errorf("expected 3 delivered / 0 failed, got %d/%d", summary.Delivered, summary.Failed)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.UserID != recipients[i] || !r.Delivered() {
			t.Errorf("result %d: expected delivered to %d, got %+v", i, recipients[i], r)
		}
	}
}

// TestBroadcastFailureIsolation verifies that one unreachable recipient
// never blocks the others.
func TestBroadcastFailureIsolation(t *testing.T) {
	sender := newMockSender()
	sender.failFor[20] = errors.New("Forbidden: bot was blocked by the user")

	b := NewBroadcaster(sender, time.Second, logger.New(logger.ERROR))
	results, summary := b.Send(context.Background(), []int64{10, 20, 30}, "hello")

	if summary.Delivered != 2 || summary.Failed != 1 {
		t.Errorf("expected 2 delivered / 1 failed, got %d/%d", summary.Delivered, summary.Failed)
	}

	if len(sender.sent) != 2 || sender.sent[0] != 10 || sender.sent[1] != 30 {
		t.Errorf("expected deliveries to [10 30], got %v", sender.sent)
	}

	if results[1].Delivered() {
		t.Error("failed recipient must be reported as undelivered")
	}
	if results[1].UserID != 20 {
		t.Errorf("expected failed result for user 20, got %d", results[1].UserID)
	}
}

func TestBroadcastEmptyRecipientList(t *testing.T) {
	sender := newMockSender()
	b := NewBroadcaster(sender, time.Second, logger.New(logger.ERROR))

	results, summary := b.Send(context.Background(), nil, "hello")
	if len(results) != 0 || summary.Delivered != 0 || summary.Failed != 0 {
		t.Errorf("empty recipient list must be a no-op, got %v %+v", results, summary)
	}
}

// slowSender blocks until its context is cancelled
type slowSender struct{}

func (slowSender) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestBroadcastPerRecipientTimeout(t *testing.T) {
	b := NewBroadcaster(slowSender{}, 10*time.Millisecond, logger.New(logger.ERROR))

	start := time.Now()
	_, summary := b.Send(context.Background(), []int64{1, 2, 3}, "hello")
	elapsed := time.Since(start)

	if summary.Failed != 3 {
		t.Errorf("expected all deliveries to time out, got %+v", summary)
	}
	if elapsed > time.Second {
		t.Errorf("timeouts must be bounded per recipient, took %v", elapsed)
	}
}
