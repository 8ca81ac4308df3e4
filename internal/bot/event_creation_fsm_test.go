package bot

import (
	"context"
	"database/sql"
	"testing"

	"github.com/victoria-pups/event-bot/internal/domain"
	"github.com/victoria-pups/event-bot/internal/locale"
	"github.com/victoria-pups/event-bot/internal/logger"
	"github.com/victoria-pups/event-bot/internal/storage"

	"github.com/go-telegram/bot/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	_ "modernc.org/sqlite"
)

// createTestSessionStorage builds session storage over an in-memory database
func createTestSessionStorage(t *testing.T) *storage.SessionStorage {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	queue := storage.NewDBQueue(db)
	t.Cleanup(func() { queue.Close() })

	if err := storage.InitSchema(context.Background(), queue); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return storage.NewSessionStorage(queue, logger.New(logger.ERROR))
}

func newTestLocalizer(t *testing.T) locale.Localizer {
	t.Helper()
	l, err := locale.NewLocalizer(locale.NewLocale("en"))
	if err != nil {
		t.Fatalf("failed to create localizer: %v", err)
	}
	return l
}

func textUpdate(userID, chatID int64, text string) *models.Update {
	return &models.Update{
		Message: &models.Message{
			From: &models.User{ID: userID},
			Chat: models.Chat{ID: chatID},
			Text: text,
		},
	}
}

// The creation FSM must leave sessions owned by other flows alone so that
// the handler can fan a message out to every FSM without cross-talk.
func TestCreationFlowIgnoresOtherFlows(t *testing.T) {
	ctx := context.Background()
	sessions := createTestSessionStorage(t)

	bc := &domain.BroadcastContext{EventID: 1, ChatID: 500}
	if err := sessions.Set(ctx, 7, FlowBroadcast, StateSelectCategories, bc.ToMap()); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	fsm := NewEventCreationFSM(sessions, nil, nil, newTestLocalizer(t), logger.New(logger.ERROR))

	if err := fsm.HandleMessage(ctx, textUpdate(7, 500, "Picnic")); err != nil {
		t.Fatalf("expected foreign-flow message to be ignored, got %v", err)
	}

	session, err := sessions.Get(ctx, 7)
	if err != nil {
		t.Fatalf("session should survive: %v", err)
	}
	if session.Flow != FlowBroadcast || session.State != StateSelectCategories {
		t.Errorf("foreign session mutated: flow=%s state=%s", session.Flow, session.State)
	}
}

func TestCreationMessagesIgnoredInButtonStates(t *testing.T) {
	buttonStates := []string{
		StateAskHasStart,
		StateAskHasEnd,
		StateAskHasCapacity,
		StateConfirmDraft,
		StateEditMenu,
		StateDiscardDraft,
	}

	for _, state := range buttonStates {
		t.Run(state, func(t *testing.T) {
			ctx := context.Background()
			sessions := createTestSessionStorage(t)

			draft := &domain.EventDraftContext{Name: "Picnic", ChatID: 500}
			if err := sessions.Set(ctx, 7, FlowEventCreation, state, draft.ToMap()); err != nil {
				t.Fatalf("failed to seed session: %v", err)
			}

			fsm := NewEventCreationFSM(sessions, nil, nil, newTestLocalizer(t), logger.New(logger.ERROR))

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

func TestCreationNoSessionIsNoOp(t *testing.T) {
	ctx := context.Background()
	sessions := createTestSessionStorage(t)
	fsm := NewEventCreationFSM(sessions, nil, nil, newTestLocalizer(t), logger.New(logger.ERROR))

	if err := fsm.HandleMessage(ctx, textUpdate(7, 500, "hello")); err != nil {
		t.Fatalf("expected no-op without session, got %v", err)
	}
}

func TestCorruptedContextClearsSession(t *testing.T) {
	ctx := context.Background()
	sessions := createTestSessionStorage(t)

	// A nil context serializes to JSON null and comes back as a nil map
	if err := sessions.Set(ctx, 7, FlowEventCreation, StateAskName, nil); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	fsm := NewEventCreationFSM(sessions, nil, nil, newTestLocalizer(t), logger.New(logger.ERROR))

	if err := fsm.HandleMessage(ctx, textUpdate(7, 500, "Picnic")); err == nil {
		t.Fatalf("expected error for corrupted context")
	}

	if _, err := sessions.Get(ctx, 7); err != storage.ErrSessionNotFound {
		t.Errorf("corrupted session should be deleted, got %v", err)
	}
}

func TestProperty_DraftSurvivesSessionRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("a mid-dialog draft is restored field for field from storage", prop.ForAll(
		func(userID int64, name string, capacity int, botMsgID int) bool {
			if userID == 0 {
				userID = 1
			}

			ctx := context.Background()
			sessions := createTestSessionStorage(t)

			original := &domain.EventDraftContext{
				Name:             name,
				Start:            "18:00 01/09/2026",
				End:              "21:00 01/09/2026",
				Capacity:         capacity,
				ChatID:           500,
				LastBotMessageID: botMsgID,
			}

			if err := sessions.Set(ctx, userID, FlowEventCreation, StateConfirmDraft, original.ToMap()); err != nil {
				t.Logf("failed to set session: %v", err)
				return false
			}

			session, err := sessions.Get(ctx, userID)
			if err != nil {
				t.Logf("failed to get session: %v", err)
				return false
			}
			if session.Flow != FlowEventCreation || session.State != StateConfirmDraft {
				t.Logf("flow/state mismatch: %s/%s", session.Flow, session.State)
				return false
			}

			restored := &domain.EventDraftContext{}
			if err := restored.FromMap(session.Data); err != nil {
				t.Logf("failed to restore draft: %v", err)
				return false
			}

			return *restored == *original
		},
		gen.Int64Range(1, 1<<40),
		gen.Identifier(),
		gen.IntRange(0, 1000),
		gen.IntRange(0, 100000),
	))

	properties.TestingRun(t)
}
