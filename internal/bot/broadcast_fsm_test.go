package bot

import (
	"context"
	"testing"

	"github.com/victoria-pups/event-bot/internal/domain"
	"github.com/victoria-pups/event-bot/internal/logger"
)

func TestBroadcastFlowIgnoresOtherFlows(t *testing.T) {
	ctx := context.Background()
	sessions := createTestSessionStorage(t)

	draft := &domain.EventDraftContext{Name: "Picnic", ChatID: 500}
	if err := sessions.Set(ctx, 7, FlowEventCreation, StateAskName, draft.ToMap()); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	fsm := NewBroadcastFSM(sessions, nil, nil, nil, newTestLocalizer(t), logger.New(logger.ERROR))

	if err := fsm.HandleMessage(ctx, textUpdate(7, 500, "hello everyone")); err != nil {
		t.Fatalf("expected foreign-flow message to be ignored, got %v", err)
	}

	session, err := sessions.Get(ctx, 7)
	if err != nil {
		t.Fatalf("session should survive: %v", err)
	}
	if session.Flow != FlowEventCreation || session.State != StateAskName {
		t.Errorf("foreign session mutated: flow=%s state=%s", session.Flow, session.State)
	}
}

func TestBroadcastMessageIgnoredDuringSelection(t *testing.T) {
	ctx := context.Background()
	sessions := createTestSessionStorage(t)

	bc := &domain.BroadcastContext{EventID: 1, ChatID: 500}
	if err := sessions.Set(ctx, 7, FlowBroadcast, StateSelectCategories, bc.ToMap()); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	fsm := NewBroadcastFSM(sessions, nil, nil, nil, newTestLocalizer(t), logger.New(logger.ERROR))

	if err := fsm.HandleMessage(ctx, textUpdate(7, 500, "too early")); err != nil {
		t.Fatalf("expected message during selection to be ignored, got %v", err)
	}

	session, err := sessions.Get(ctx, 7)
	if err != nil {
		t.Fatalf("session should survive: %v", err)
	}
	if session.State != StateSelectCategories {
		t.Errorf("state changed to %s", session.State)
	}
}

func TestSelectionKeyboardMarksSelectedCategories(t *testing.T) {
	fsm := &BroadcastFSM{
		localizer: newTestLocalizer(t),
		logger:    logger.New(logger.ERROR),
	}

	bc := &domain.BroadcastContext{EventID: 1}
	bc.Toggle(domain.CategoryAttending)
	bc.Toggle(domain.CategoryDeclined)

	kb := fsm.selectionKeyboard(bc)

	// Three category rows plus the confirm/cancel row
	if len(kb.InlineKeyboard) != 4 {
		t.Fatalf("expected 4 keyboard rows, got %d", len(kb.InlineKeyboard))
	}

	want := map[string]string{
		"bcast:toggle:attending": "☑ Attending",
		"bcast:toggle:maybe":     "Maybe",
		"bcast:toggle:declined":  "☑ Declined",
	}
	for _, row := range kb.InlineKeyboard[:3] {
		btn := row[0]
		if label, ok := want[btn.CallbackData]; !ok || btn.Text != label {
			t.Errorf("button %q has label %q, want %q", btn.CallbackData, btn.Text, label)
		}
	}

	lastRow := kb.InlineKeyboard[3]
	if len(lastRow) != 2 {
		t.Fatalf("expected confirm and cancel buttons, got %d", len(lastRow))
	}
	if lastRow[0].CallbackData != "bcast:confirm" || lastRow[1].CallbackData != "bcast:cancel" {
		t.Errorf("unexpected action row: %q, %q", lastRow[0].CallbackData, lastRow[1].CallbackData)
	}
}
