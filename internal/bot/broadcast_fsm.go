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

// FlowBroadcast identifies attendee broadcast sessions in storage
const FlowBroadcast = "broadcast"

// Broadcast state constants
const (
	StateSelectCategories = "select_categories"
	StateAskMessage       = "ask_message"
)

// BroadcastFSM manages the attendee broadcast dialog
type BroadcastFSM struct {
	sessions     *storage.SessionStorage
	bot          *bot.Bot
	eventManager *domain.EventManager
	broadcaster  *domain.Broadcaster
	localizer    locale.Localizer
	logger       domain.Logger
}

// NewBroadcastFSM creates a new FSM for attendee broadcasts
func NewBroadcastFSM(
	sessions *storage.SessionStorage,
	b *bot.Bot,
	eventManager *domain.EventManager,
	broadcaster *domain.Broadcaster,
	localizer locale.Localizer,
	logger domain.Logger,
) *BroadcastFSM {
	return &BroadcastFSM{
		sessions:     sessions,
		bot:          b,
		eventManager: eventManager,
		broadcaster:  broadcaster,
		localizer:    localizer,
		logger:       logger,
	}
}

// Start initializes a broadcast session for an event
func (f *BroadcastFSM) Start(ctx context.Context, userID, chatID, eventID int64) error {
	if _, err := f.eventManager.GetEvent(ctx, eventID); err != nil {
		return err
	}

	bc := &domain.BroadcastContext{
		EventID: eventID,
		ChatID:  chatID,
	}

	if err := f.sessions.Set(ctx, userID, FlowBroadcast, StateSelectCategories, bc.ToMap()); err != nil {
		f.logger.Error("failed to start broadcast session", "user_id", userID, "error", err)
		return err
	}

	f.logger.Info("broadcast started", "user_id", userID, "event_id", eventID)
	return f.sendSelectionPrompt(ctx, userID, chatID, bc)
}

// HandleMessage routes text input to the current state handler
func (f *BroadcastFSM) HandleMessage(ctx context.Context, update *models.Update) error {
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
	if session.Flow != FlowBroadcast {
		return nil
	}

	bc := &domain.BroadcastContext{}
	if err := bc.FromMap(session.Data); err != nil {
		f.logger.Error("failed to load broadcast context", "user_id", userID, "error", err)
		_ = f.sessions.Delete(ctx, userID)
		return err
	}

	if session.State != StateAskMessage {
		f.logger.Debug("ignoring message in button state", "user_id", userID, "state", session.State)
		return nil
	}

	text := strings.TrimSpace(update.Message.Text)
	if text == "" {
		return f.sendPrompt(ctx, userID, chatID, StateAskMessage,
			f.localizer.MustLocalizeWithTemplate(locale.AskBroadcastMessage, strconv.Itoa(len(bc.Recipients))), nil, bc)
	}

	return f.deliver(ctx, userID, chatID, text, bc)
}

// HandleCallback routes button presses to the current state handler
func (f *BroadcastFSM) HandleCallback(ctx context.Context, callback *models.CallbackQuery) error {
	userID := callback.From.ID
	data := callback.Data

	session, err := f.sessions.Get(ctx, userID)
	if err != nil {
		if err == storage.ErrSessionNotFound {
			_, _ = f.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
				CallbackQueryID: callback.ID,
				Text:            f.localizer.MustLocalize(locale.SessionExpired),
			})
			return nil
		}
		return err
	}
	if session.Flow != FlowBroadcast {
		return nil
	}

	bc := &domain.BroadcastContext{}
	if err := bc.FromMap(session.Data); err != nil {
		f.logger.Error("failed to load broadcast context", "user_id", userID, "error", err)
		_ = f.sessions.Delete(ctx, userID)
		return err
	}

	chatID := bc.ChatID
	if callback.Message.Message != nil {
		chatID = callback.Message.Message.Chat.ID
	}

	if session.State != StateSelectCategories {
		f.logger.Warn("unexpected callback", "user_id", userID, "state", session.State, "data", data)
		return nil
	}

	if strings.HasPrefix(data, "bcast:toggle:") {
		_, _ = f.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: callback.ID,
		})

		category, err := domain.ParseCategory(strings.TrimPrefix(data, "bcast:toggle:"))
		if err != nil {
			f.logger.Error("invalid category in toggle", "user_id", userID, "data", data)
			return err
		}
		bc.Toggle(category)

		if err := f.sessions.Set(ctx, userID, FlowBroadcast, StateSelectCategories, bc.ToMap()); err != nil {
			return err
		}

		// Refresh the checkmarks in place
		if callback.Message.Message != nil {
			_, err := f.bot.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
				ChatID:      chatID,
				MessageID:   callback.Message.Message.ID,
				ReplyMarkup: f.selectionKeyboard(bc),
			})
			if err != nil {
				f.logger.Warn("failed to refresh selection keyboard", "user_id", userID, "error", err)
			}
		}
		return nil
	}

	switch data {
	case "bcast:confirm":
		if len(bc.SelectedCategories()) == 0 {
			_, _ = f.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
				CallbackQueryID: callback.ID,
				Text:            f.localizer.MustLocalize(locale.BroadcastNeedCategory),
			})
			return nil
		}
		_, _ = f.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: callback.ID,
		})
		return f.confirmSelection(ctx, userID, chatID, bc)
	case "bcast:cancel":
		_, _ = f.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: callback.ID,
		})
		return f.finish(ctx, userID, chatID, bc, locale.BroadcastCanceled)
	}

	f.logger.Warn("unexpected callback", "user_id", userID, "state", session.State, "data", data)
	return nil
}

func (f *BroadcastFSM) categoryLabel(category domain.RSVPCategory) string {
	switch category {
	case domain.CategoryAttending:
		return f.localizer.MustLocalize(locale.CategoryLabelAttending)
	case domain.CategoryMaybe:
		return f.localizer.MustLocalize(locale.CategoryLabelMaybe)
	default:
		return f.localizer.MustLocalize(locale.CategoryLabelDeclined)
	}
}

func (f *BroadcastFSM) selectionKeyboard(bc *domain.BroadcastContext) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	for _, category := range domain.AllCategories() {
		label := f.categoryLabel(category)
		if bc.IsSelected(category) {
			label = "☑ " + label
		}
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: label, CallbackData: "bcast:toggle:" + string(category)},
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: f.localizer.MustLocalize(locale.ConfirmRecipients), CallbackData: "bcast:confirm"},
		{Text: f.localizer.MustLocalize(locale.Cancel), CallbackData: "bcast:cancel"},
	})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func (f *BroadcastFSM) sendSelectionPrompt(ctx context.Context, userID, chatID int64, bc *domain.BroadcastContext) error {
	return f.sendPrompt(ctx, userID, chatID, StateSelectCategories,
		f.localizer.MustLocalize(locale.ChooseRecipientsPrompt), f.selectionKeyboard(bc), bc)
}

func (f *BroadcastFSM) sendPrompt(ctx context.Context, userID, chatID int64, state, text string, kb models.ReplyMarkup, bc *domain.BroadcastContext) error {
	deleteMessages(ctx, f.bot, f.logger, chatID, bc.LastBotMessageID)

	msg, err := f.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: kb,
	})
	if err != nil {
		f.logger.Error("failed to send prompt", "chat_id", chatID, "error", err)
		return err
	}

	bc.LastBotMessageID = msg.ID
	if err := f.sessions.Set(ctx, userID, FlowBroadcast, state, bc.ToMap()); err != nil {
		f.logger.Error("failed to store session", "user_id", userID, "state", state, "error", err)
		return err
	}

	f.logger.Debug("state transition", "user_id", userID, "state", state)
	return nil
}

// confirmSelection freezes the recipient set. Users who respond after this
// point are not picked up by the broadcast in flight.
func (f *BroadcastFSM) confirmSelection(ctx context.Context, userID, chatID int64, bc *domain.BroadcastContext) error {
	recipients, err := f.eventManager.RecipientUnion(ctx, bc.EventID, bc.SelectedCategories())
	if err != nil {
		f.logger.Error("failed to resolve recipients", "event_id", bc.EventID, "error", err)
		return f.finish(ctx, userID, chatID, bc, locale.ActionFailed)
	}

	if len(recipients) == 0 {
		return f.finish(ctx, userID, chatID, bc, locale.BroadcastNoRecipients)
	}

	bc.Recipients = recipients
	return f.sendPrompt(ctx, userID, chatID, StateAskMessage,
		f.localizer.MustLocalizeWithTemplate(locale.AskBroadcastMessage, strconv.Itoa(len(recipients))), nil, bc)
}

// deliver fans the message out to the frozen snapshot and reports the
// outcome. The session is cleared regardless of delivery failures.
func (f *BroadcastFSM) deliver(ctx context.Context, userID, chatID int64, text string, bc *domain.BroadcastContext) error {
	_, summary := f.broadcaster.Send(ctx, bc.Recipients, text)

	deleteMessages(ctx, f.bot, f.logger, chatID, bc.LastBotMessageID)
	if err := f.sessions.Delete(ctx, userID); err != nil {
		return err
	}

	f.logger.Info("broadcast finished",
		"user_id", userID,
		"event_id", bc.EventID,
		"delivered", summary.Delivered,
		"failed", summary.Failed)

	_, err := f.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: f.localizer.MustLocalizeWithTemplate(locale.BroadcastSummary,
			strconv.Itoa(summary.Delivered), strconv.Itoa(summary.Failed)),
	})
	return err
}

func (f *BroadcastFSM) finish(ctx context.Context, userID, chatID int64, bc *domain.BroadcastContext, messageKey string) error {
	deleteMessages(ctx, f.bot, f.logger, chatID, bc.LastBotMessageID)
	if err := f.sessions.Delete(ctx, userID); err != nil {
		return err
	}

	_, err := f.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   f.localizer.MustLocalize(messageKey),
	})
	return err
}
