package bot

import (
	"context"
	"fmt"
	"testing"

	"github.com/victoria-pups/event-bot/internal/domain"
	"github.com/victoria-pups/event-bot/internal/logger"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestAnnouncementFlowIgnoresOtherFlows(t *testing.T) {
	ctx := context.Background()
	sessions := createTestSessionStorage(t)

	draft := &domain.EventDraftContext{Name: "Picnic", ChatID: 500}
	if err := sessions.Set(ctx, 7, FlowEventCreation, StateAskName, draft.ToMap()); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	fsm := &AnnouncementFSM{
		sessions:  sessions,
		localizer: newTestLocalizer(t),
		logger:    logger.New(logger.ERROR),
	}

	if err := fsm.HandleMessage(ctx, textUpdate(7, 500, "Big party!")); err != nil {
		t.Fatalf("expected foreign-flow message to be ignored, got %v", err)
	}

	session, err := sessions.Get(ctx, 7)
	if err != nil {
		t.Fatalf("session should survive: %v", err)
	}
	if session.Flow != FlowEventCreation {
		t.Errorf("foreign session mutated: flow=%s", session.Flow)
	}
}

func TestAnnouncementMessagesIgnoredInButtonStates(t *testing.T) {
	buttonStates := []string{
		StateAskShowSpots,
		StateAskShowAttending,
		StatePreview,
		StatePostConfirm,
	}

	for _, state := range buttonStates {
		t.Run(state, func(t *testing.T) {
			ctx := context.Background()
			sessions := createTestSessionStorage(t)

			ac := &domain.AnnouncementContext{EventID: 1, Text: "Big party!", ChatID: 500}
			if err := sessions.Set(ctx, 7, FlowAnnouncement, state, ac.ToMap()); err != nil {
				t.Fatalf("failed to seed session: %v", err)
			}

			fsm := &AnnouncementFSM{
				sessions:  sessions,
				localizer: newTestLocalizer(t),
				logger:    logger.New(logger.ERROR),
			}

			if err := fsm.HandleMessage(ctx, textUpdate(7, 500, "stray text")); err != nil {
				t.Fatalf("expected message in button state to be ignored, got %v", err)
			}

			session, err := sessions.Get(ctx, 7)
			if err != nil {
				t.Fatalf("session should survive: %v", err)
			}
			if session.State != state {
				t.Errorf("state changed from %s to %s", state, session.State)
			}
		})
	}
}

func TestProperty_RSVPKeyboardPayloads(t *testing.T) {
	localizer := newTestLocalizer(t)

	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("keyboard carries one self-contained payload per category", prop.ForAll(
		func(eventID int64) bool {
			kb := RSVPKeyboard(localizer, eventID)

			if len(kb.InlineKeyboard) != 1 || len(kb.InlineKeyboard[0]) != 3 {
				t.Logf("expected a single row of 3 buttons")
				return false
			}

			want := []string{
				fmt.Sprintf("rsvp:%d:attending", eventID),
				fmt.Sprintf("rsvp:%d:maybe", eventID),
				fmt.Sprintf("rsvp:%d:declined", eventID),
			}
			for i, btn := range kb.InlineKeyboard[0] {
				if btn.CallbackData != want[i] {
					t.Logf("button %d payload %q, want %q", i, btn.CallbackData, want[i])
					return false
				}
				if btn.Text == "" {
					t.Logf("button %d has no label", i)
					return false
				}
			}
			return true
		},
		gen.Int64Range(1, 1<<40),
	))

	properties.TestingRun(t)
}
