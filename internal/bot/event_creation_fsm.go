package bot

import (
	"context"
	"strconv"
	"strings"

	"github.com/victoria-pups/event-bot/internal/domain"
	"github.com/victoria-pups/event-bot/internal/locale"
	"github.com/victoria-pups/event-bot/internal/storage"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// FlowEventCreation identifies event creation sessions in storage
const FlowEventCreation = "event_creation"

// Event creation state constants
const (
	StateAskName        = "ask_name"
	StateAskHasStart    = "ask_has_start"
	StateAskStartDate   = "ask_start_date"
	StateAskHasEnd      = "ask_has_end"
	StateAskEndDate     = "ask_end_date"
	StateAskHasCapacity = "ask_has_capacity"
	StateAskCapacity    = "ask_capacity"
	StateConfirmDraft   = "confirm_draft"
	StateEditMenu       = "edit_menu"
	StateEditName       = "edit_name"
	StateDiscardDraft   = "discard_draft"
)

// EventCreationFSM manages the event creation dialog
type EventCreationFSM struct {
	sessions     *storage.SessionStorage
	bot          *bot.Bot
	eventManager *domain.EventManager
	localizer    locale.Localizer
	logger       domain.Logger
}

// NewEventCreationFSM creates a new FSM for event creation
func NewEventCreationFSM(
	sessions *storage.SessionStorage,
	b *bot.Bot,
	eventManager *domain.EventManager,
	localizer locale.Localizer,
	logger domain.Logger,
) *EventCreationFSM {
	return &EventCreationFSM{
		sessions:     sessions,
		bot:          b,
		eventManager: eventManager,
		localizer:    localizer,
		logger:       logger,
	}
}

// Start initializes a new event creation session for an admin
func (f *EventCreationFSM) Start(ctx context.Context, userID int64, chatID int64) error {
	draft := &domain.EventDraftContext{ChatID: chatID}

	if err := f.sessions.Set(ctx, userID, FlowEventCreation, StateAskName, draft.ToMap()); err != nil {
		f.logger.Error("failed to start event creation session", "user_id", userID, "error", err)
		return err
	}

	f.logger.Info("event creation started", "user_id", userID)
	return f.promptName(ctx, userID, chatID, draft)
}

// HandleMessage routes text input to the current state handler
func (f *EventCreationFSM) HandleMessage(ctx context.Context, update *models.Update) error {
	if update.Message == nil || update.Message.From == nil {
		return nil
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	session, err := f.sessions.Get(ctx, userID)
	if err != nil {
		if err == storage.ErrSessionNotFound {
			return nil
		}
		return err
	}
	if session.Flow != FlowEventCreation {
		return nil
	}

	draft := &domain.EventDraftContext{}
	if err := draft.FromMap(session.Data); err != nil {
		f.logger.Error("failed to load draft context", "user_id", userID, "error", err)
		_ = f.sessions.Delete(ctx, userID)
		return err
	}

	text := update.Message.Text

	switch session.State {
	case StateAskName, StateEditName:
		return f.handleNameInput(ctx, userID, chatID, text, session.State, draft)
	case StateAskStartDate, StateAskEndDate:
		return f.handleDateInput(ctx, userID, chatID, text, session.State, draft)
	case StateAskCapacity:
		return f.handleCapacityInput(ctx, userID, chatID, text, session.State, draft)
	default:
		f.logger.Debug("ignoring message in button state", "user_id", userID, "state", session.State)
		return nil
	}
}

// HandleCallback routes button presses to the current state handler
func (f *EventCreationFSM) HandleCallback(ctx context.Context, callback *models.CallbackQuery) error {
	userID := callback.From.ID
	data := callback.Data

	session, err := f.sessions.Get(ctx, userID)
	if err != nil {
		if err == storage.ErrSessionNotFound {
			f.answerCallback(ctx, callback.ID, f.localizer.MustLocalize(locale.SessionExpired))
			return nil
		}
		return err
	}
	if session.Flow != FlowEventCreation {
		return nil
	}

	draft := &domain.EventDraftContext{}
	if err := draft.FromMap(session.Data); err != nil {
		f.logger.Error("failed to load draft context", "user_id", userID, "error", err)
		_ = f.sessions.Delete(ctx, userID)
		return err
	}

	f.answerCallback(ctx, callback.ID, "")

	chatID := draft.ChatID
	if callback.Message.Message != nil {
		chatID = callback.Message.Message.Chat.ID
	}

	if data == "create:cancel" {
		return f.cancel(ctx, userID, chatID, draft)
	}

	switch session.State {
	case StateAskHasStart:
		if data == "create:has_start:yes" {
			return f.promptDate(ctx, userID, chatID, StateAskStartDate, draft)
		}
		if data == "create:has_start:no" {
			return f.promptHasEnd(ctx, userID, chatID, draft)
		}
	case StateAskHasEnd:
		if data == "create:has_end:yes" {
			return f.promptDate(ctx, userID, chatID, StateAskEndDate, draft)
		}
		if data == "create:has_end:no" {
			return f.promptHasCapacity(ctx, userID, chatID, draft)
		}
	case StateAskHasCapacity:
		if data == "create:has_capacity:yes" {
			return f.promptCapacity(ctx, userID, chatID, draft)
		}
		if data == "create:has_capacity:no" {
			return f.showSummary(ctx, userID, chatID, draft)
		}
	case StateConfirmDraft:
		switch data {
		case "create:save":
			return f.save(ctx, userID, chatID, draft)
		case "create:edit":
			return f.promptEditMenu(ctx, userID, chatID, draft)
		case "create:discard":
			return f.promptDiscard(ctx, userID, chatID, draft)
		}
	case StateEditMenu:
		switch data {
		case "create:edit_field:name":
			return f.transition(ctx, userID, chatID, StateEditName, locale.AskEventName, draft)
		case "create:edit_field:start":
			// Unset the field and re-run the question chain from there,
			// so "No" can clear a previously set value.
			draft.Start = ""
			return f.promptHasStart(ctx, userID, chatID, draft)
		case "create:edit_field:end":
			draft.End = ""
			return f.promptHasEnd(ctx, userID, chatID, draft)
		case "create:edit_field:capacity":
			draft.Capacity = 0
			return f.promptHasCapacity(ctx, userID, chatID, draft)
		case "create:edit_field:back":
			return f.showSummary(ctx, userID, chatID, draft)
		}
	case StateDiscardDraft:
		if data == "create:discard:yes" {
			return f.cancel(ctx, userID, chatID, draft)
		}
		if data == "create:discard:no" {
			return f.showSummary(ctx, userID, chatID, draft)
		}
	}

	f.logger.Warn("unexpected callback", "user_id", userID, "state", session.State, "data", data)
	return nil
}

func (f *EventCreationFSM) answerCallback(ctx context.Context, callbackID, text string) {
	_, _ = f.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
}

// sendPrompt sends a prompt, deletes the previous one and persists the new
// message ID in the draft context under the given state.
func (f *EventCreationFSM) sendPrompt(ctx context.Context, userID, chatID int64, state, text string, kb models.ReplyMarkup, draft *domain.EventDraftContext) error {
	deleteMessages(ctx, f.bot, f.logger, chatID, draft.LastBotMessageID)

	msg, err := f.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: kb,
	})
	if err != nil {
		f.logger.Error("failed to send prompt", "chat_id", chatID, "error", err)
		return err
	}

	draft.LastBotMessageID = msg.ID
	if err := f.sessions.Set(ctx, userID, FlowEventCreation, state, draft.ToMap()); err != nil {
		f.logger.Error("failed to store session", "user_id", userID, "state", state, "error", err)
		return err
	}

	f.logger.Debug("state transition", "user_id", userID, "state", state)
	return nil
}

func (f *EventCreationFSM) transition(ctx context.Context, userID, chatID int64, state, promptKey string, draft *domain.EventDraftContext) error {
	return f.sendPrompt(ctx, userID, chatID, state, f.localizer.MustLocalize(promptKey), nil, draft)
}

func (f *EventCreationFSM) promptName(ctx context.Context, userID, chatID int64, draft *domain.EventDraftContext) error {
	kb := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: f.localizer.MustLocalize(locale.CancelNewEvent), CallbackData: "create:cancel"}},
		},
	}
	return f.sendPrompt(ctx, userID, chatID, StateAskName, f.localizer.MustLocalize(locale.AskEventName), kb, draft)
}

func (f *EventCreationFSM) yesNoKeyboard(prefix string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: f.localizer.MustLocalize(locale.Yes), CallbackData: prefix + ":yes"},
				{Text: f.localizer.MustLocalize(locale.No), CallbackData: prefix + ":no"},
			},
		},
	}
}

func (f *EventCreationFSM) promptHasStart(ctx context.Context, userID, chatID int64, draft *domain.EventDraftContext) error {
	return f.sendPrompt(ctx, userID, chatID, StateAskHasStart,
		f.localizer.MustLocalize(locale.AskHasStart), f.yesNoKeyboard("create:has_start"), draft)
}

func (f *EventCreationFSM) promptHasEnd(ctx context.Context, userID, chatID int64, draft *domain.EventDraftContext) error {
	return f.sendPrompt(ctx, userID, chatID, StateAskHasEnd,
		f.localizer.MustLocalize(locale.AskHasEnd), f.yesNoKeyboard("create:has_end"), draft)
}

func (f *EventCreationFSM) promptHasCapacity(ctx context.Context, userID, chatID int64, draft *domain.EventDraftContext) error {
	return f.sendPrompt(ctx, userID, chatID, StateAskHasCapacity,
		f.localizer.MustLocalize(locale.AskHasCapacity), f.yesNoKeyboard("create:has_capacity"), draft)
}

func (f *EventCreationFSM) promptDate(ctx context.Context, userID, chatID int64, state string, draft *domain.EventDraftContext) error {
	key := locale.AskStartDate
	if state == StateAskEndDate {
		key = locale.AskEndDate
	}
	return f.transition(ctx, userID, chatID, state, key, draft)
}

func (f *EventCreationFSM) promptCapacity(ctx context.Context, userID, chatID int64, draft *domain.EventDraftContext) error {
	state := StateAskCapacity
	return f.transition(ctx, userID, chatID, state, locale.AskCapacity, draft)
}

// handleNameInput processes a proposed event name. Rejection keeps the
// dialog in the same state so the admin can just send another name.
func (f *EventCreationFSM) handleNameInput(ctx context.Context, userID, chatID int64, text, state string, draft *domain.EventDraftContext) error {
	name := strings.TrimSpace(text)
	if name == "" {
		return f.sendPrompt(ctx, userID, chatID, state, f.localizer.MustLocalize(locale.EmptyEventName), nil, draft)
	}

	taken, err := f.eventManager.NameTaken(ctx, name)
	if err != nil {
		f.logger.Error("failed to check event name", "user_id", userID, "error", err)
		return err
	}
	if taken {
		return f.sendPrompt(ctx, userID, chatID, state, f.localizer.MustLocalize(locale.DuplicateEventName), nil, draft)
	}

	draft.Name = name

	if state == StateEditName {
		return f.showSummary(ctx, userID, chatID, draft)
	}
	return f.promptHasStart(ctx, userID, chatID, draft)
}

func (f *EventCreationFSM) handleDateInput(ctx context.Context, userID, chatID int64, text, state string, draft *domain.EventDraftContext) error {
	value := strings.TrimSpace(text)
	if err := domain.ValidateEventDate(value); err != nil {
		return f.sendPrompt(ctx, userID, chatID, state, f.localizer.MustLocalize(locale.InvalidDateFormat), nil, draft)
	}

	if state == StateAskStartDate {
		draft.Start = value
		return f.promptHasEnd(ctx, userID, chatID, draft)
	}
	draft.End = value
	return f.promptHasCapacity(ctx, userID, chatID, draft)
}

func (f *EventCreationFSM) handleCapacityInput(ctx context.Context, userID, chatID int64, text, state string, draft *domain.EventDraftContext) error {
	capacity, err := domain.ParseCapacity(strings.TrimSpace(text))
	if err != nil {
		return f.sendPrompt(ctx, userID, chatID, state, f.localizer.MustLocalize(locale.InvalidCapacity), nil, draft)
	}

	draft.Capacity = capacity
	return f.showSummary(ctx, userID, chatID, draft)
}

func (f *EventCreationFSM) showSummary(ctx context.Context, userID, chatID int64, draft *domain.EventDraftContext) error {
	capacity := ""
	if draft.Capacity > 0 {
		capacity = strconv.Itoa(draft.Capacity)
	}

	text := f.localizer.MustLocalizeWithTemplate(locale.EventSummary,
		draft.Name,
		summaryField(f.localizer, draft.Start),
		summaryField(f.localizer, draft.End),
		summaryField(f.localizer, capacity),
	)

	kb := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: f.localizer.MustLocalize(locale.SummarySave), CallbackData: "create:save"}},
			{{Text: f.localizer.MustLocalize(locale.SummaryEdit), CallbackData: "create:edit"}},
			{{Text: f.localizer.MustLocalize(locale.SummaryDiscard), CallbackData: "create:discard"}},
		},
	}

	return f.sendPrompt(ctx, userID, chatID, StateConfirmDraft, text, kb, draft)
}

func (f *EventCreationFSM) promptEditMenu(ctx context.Context, userID, chatID int64, draft *domain.EventDraftContext) error {
	kb := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: f.localizer.MustLocalize(locale.EditName), CallbackData: "create:edit_field:name"},
				{Text: f.localizer.MustLocalize(locale.EditStart), CallbackData: "create:edit_field:start"},
			},
			{
				{Text: f.localizer.MustLocalize(locale.EditEnd), CallbackData: "create:edit_field:end"},
				{Text: f.localizer.MustLocalize(locale.EditCapacity), CallbackData: "create:edit_field:capacity"},
			},
			{{Text: f.localizer.MustLocalize(locale.EditBack), CallbackData: "create:edit_field:back"}},
		},
	}
	return f.sendPrompt(ctx, userID, chatID, StateEditMenu, f.localizer.MustLocalize(locale.EditMenuPrompt), kb, draft)
}

func (f *EventCreationFSM) promptDiscard(ctx context.Context, userID, chatID int64, draft *domain.EventDraftContext) error {
	kb := f.yesNoKeyboard("create:discard")
	return f.sendPrompt(ctx, userID, chatID, StateDiscardDraft, f.localizer.MustLocalize(locale.DiscardDraftConfirm), kb, draft)
}

// save commits the draft as a new event and ends the session
func (f *EventCreationFSM) save(ctx context.Context, userID, chatID int64, draft *domain.EventDraftContext) error {
	event := draft.ToEvent()
	if err := f.eventManager.CreateEvent(ctx, event); err != nil {
		f.logger.Error("failed to create event", "user_id", userID, "name", draft.Name, "error", err)
		if err == domain.ErrDuplicateName {
			// Name was claimed while the dialog was open
			return f.transition(ctx, userID, chatID, StateEditName, locale.DuplicateEventName, draft)
		}
		_, _ = f.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   f.localizer.MustLocalize(locale.ActionFailed),
		})
		return err
	}

	deleteMessages(ctx, f.bot, f.logger, chatID, draft.LastBotMessageID)
	if err := f.sessions.Delete(ctx, userID); err != nil {
		return err
	}

	f.logger.Info("event saved", "user_id", userID, "event_id", event.ID, "name", event.Name)
	_, err := f.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   f.localizer.MustLocalize(locale.EventSaved),
	})
	if err != nil {
		return err
	}

	// The admin lands in the menu for the event they just created
	return sendEventMenu(ctx, f.bot, f.localizer, chatID, event)
}

// cancel abandons the draft and ends the session
func (f *EventCreationFSM) cancel(ctx context.Context, userID, chatID int64, draft *domain.EventDraftContext) error {
	deleteMessages(ctx, f.bot, f.logger, chatID, draft.LastBotMessageID)
	if err := f.sessions.Delete(ctx, userID); err != nil {
		return err
	}

	f.logger.Info("event creation cancelled", "user_id", userID)
	_, err := f.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   f.localizer.MustLocalize(locale.EventCreationCanceled),
	})
	if err != nil {
		return err
	}

	sendMainMenu(ctx, f.bot, f.localizer, f.logger, chatID)
	return nil
}
