package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/victoria-pups/event-bot/internal/config"
	"github.com/victoria-pups/event-bot/internal/domain"
	"github.com/victoria-pups/event-bot/internal/locale"
	"github.com/victoria-pups/event-bot/internal/storage"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// FlowAnnouncement identifies announcement composer sessions in storage
const FlowAnnouncement = "announcement"

// Announcement composer state constants
const (
	StateAskText          = "ask_text"
	StateAskShowSpots     = "ask_show_spots"
	StateAskShowAttending = "ask_show_attending"
	StatePreview          = "preview"
	StatePostConfirm      = "post_confirm"
)

// AnnouncementFSM manages the announcement composer dialog
type AnnouncementFSM struct {
	sessions     *storage.SessionStorage
	bot          *bot.Bot
	eventManager *domain.EventManager
	renderer     *domain.AnnouncementRenderer
	deepLinks    *domain.DeepLinkService
	config       *config.Config
	localizer    locale.Localizer
	logger       domain.Logger
}

// NewAnnouncementFSM creates a new FSM for announcement composition
func NewAnnouncementFSM(
	sessions *storage.SessionStorage,
	b *bot.Bot,
	eventManager *domain.EventManager,
	renderer *domain.AnnouncementRenderer,
	deepLinks *domain.DeepLinkService,
	cfg *config.Config,
	localizer locale.Localizer,
	logger domain.Logger,
) *AnnouncementFSM {
	return &AnnouncementFSM{
		sessions:     sessions,
		bot:          b,
		eventManager: eventManager,
		renderer:     renderer,
		deepLinks:    deepLinks,
		config:       cfg,
		localizer:    localizer,
		logger:       logger,
	}
}

// Start initializes an announcement composer session for an event. A
// saved or posted announcement is re-editable and seeds the composer
// with its previous content.
func (f *AnnouncementFSM) Start(ctx context.Context, userID, chatID, eventID int64) error {
	event, err := f.eventManager.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}

	ac := &domain.AnnouncementContext{
		EventID: eventID,
		ChatID:  chatID,
	}
	if event.Announcement != nil {
		draft := domain.DraftFrom(event.Announcement)
		ac.Text = draft.Text
		ac.ShowSpots = draft.ShowSpots
		ac.ShowAttending = draft.ShowAttending
	}

	if err := f.sessions.Set(ctx, userID, FlowAnnouncement, StateAskText, ac.ToMap()); err != nil {
		f.logger.Error("failed to start announcement session", "user_id", userID, "error", err)
		return err
	}

	f.logger.Info("announcement composition started", "user_id", userID, "event_id", eventID)
	return f.sendPrompt(ctx, userID, chatID, StateAskText, f.localizer.MustLocalize(locale.AskAnnouncementText), nil, ac)
}

// HandleMessage routes text input to the current state handler
func (f *AnnouncementFSM) HandleMessage(ctx context.Context, update *models.Update) error {
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
	if session.Flow != FlowAnnouncement {
		return nil
	}

	ac := &domain.AnnouncementContext{}
	if err := ac.FromMap(session.Data); err != nil {
		f.logger.Error("failed to load announcement context", "user_id", userID, "error", err)
		_ = f.sessions.Delete(ctx, userID)
		return err
	}

	if session.State != StateAskText {
		f.logger.Debug("ignoring message in button state", "user_id", userID, "state", session.State)
		return nil
	}

	text := strings.TrimSpace(update.Message.Text)
	if text == "" {
		return f.sendPrompt(ctx, userID, chatID, StateAskText, f.localizer.MustLocalize(locale.AskAnnouncementText), nil, ac)
	}
	ac.Text = text

	event, err := f.eventManager.GetEvent(ctx, ac.EventID)
	if err != nil {
		return f.abort(ctx, userID, chatID, ac)
	}

	// Spots remaining is only meaningful for capacity-limited events
	if event.HasCapacity() {
		return f.sendPrompt(ctx, userID, chatID, StateAskShowSpots,
			f.localizer.MustLocalize(locale.AskShowSpots), f.yesNoKeyboard("ann:spots"), ac)
	}
	return f.sendPrompt(ctx, userID, chatID, StateAskShowAttending,
		f.localizer.MustLocalize(locale.AskShowAttending), f.yesNoKeyboard("ann:attending"), ac)
}

// HandleCallback routes button presses to the current state handler
func (f *AnnouncementFSM) HandleCallback(ctx context.Context, callback *models.CallbackQuery) error {
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
	if session.Flow != FlowAnnouncement {
		return nil
	}

	ac := &domain.AnnouncementContext{}
	if err := ac.FromMap(session.Data); err != nil {
		f.logger.Error("failed to load announcement context", "user_id", userID, "error", err)
		_ = f.sessions.Delete(ctx, userID)
		return err
	}

	_, _ = f.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callback.ID,
	})

	chatID := ac.ChatID
	if callback.Message.Message != nil {
		chatID = callback.Message.Message.Chat.ID
	}

	switch session.State {
	case StateAskShowSpots:
		// Spots remaining replaces the attendee count question for
		// capacity-limited events, it does not precede it.
		if data == "ann:spots:yes" || data == "ann:spots:no" {
			ac.ShowSpots = data == "ann:spots:yes"
			return f.showPreview(ctx, userID, chatID, ac)
		}
	case StateAskShowAttending:
		if data == "ann:attending:yes" || data == "ann:attending:no" {
			ac.ShowAttending = data == "ann:attending:yes"
			return f.showPreview(ctx, userID, chatID, ac)
		}
	case StatePreview:
		switch data {
		case "ann:post":
			return f.sendPrompt(ctx, userID, chatID, StatePostConfirm,
				f.localizer.MustLocalize(locale.PostConfirmPrompt), f.yesNoKeyboard("ann:post"), ac)
		case "ann:save":
			return f.saveDraft(ctx, userID, chatID, ac)
		case "ann:edit":
			return f.sendPrompt(ctx, userID, chatID, StateAskText,
				f.localizer.MustLocalize(locale.AskAnnouncementText), nil, ac)
		case "ann:discard":
			return f.discard(ctx, userID, chatID, ac)
		}
	case StatePostConfirm:
		if data == "ann:post:yes" {
			return f.post(ctx, userID, chatID, ac)
		}
		if data == "ann:post:no" {
			return f.showPreview(ctx, userID, chatID, ac)
		}
	}

	f.logger.Warn("unexpected callback", "user_id", userID, "state", session.State, "data", data)
	return nil
}

func (f *AnnouncementFSM) yesNoKeyboard(prefix string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: f.localizer.MustLocalize(locale.Yes), CallbackData: prefix + ":yes"},
				{Text: f.localizer.MustLocalize(locale.No), CallbackData: prefix + ":no"},
			},
		},
	}
}

func (f *AnnouncementFSM) sendPrompt(ctx context.Context, userID, chatID int64, state, text string, kb models.ReplyMarkup, ac *domain.AnnouncementContext) error {
	deleteMessages(ctx, f.bot, f.logger, chatID, ac.LastBotMessageID)

	msg, err := f.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: kb,
	})
	if err != nil {
		f.logger.Error("failed to send prompt", "chat_id", chatID, "error", err)
		return err
	}

	ac.LastBotMessageID = msg.ID
	if err := f.sessions.Set(ctx, userID, FlowAnnouncement, state, ac.ToMap()); err != nil {
		f.logger.Error("failed to store session", "user_id", userID, "state", state, "error", err)
		return err
	}

	f.logger.Debug("state transition", "user_id", userID, "state", state)
	return nil
}

// showPreview renders the announcement against the live rosters. Every
// visit recomputes the preview so the figures never go stale.
func (f *AnnouncementFSM) showPreview(ctx context.Context, userID, chatID int64, ac *domain.AnnouncementContext) error {
	event, err := f.eventManager.GetEvent(ctx, ac.EventID)
	if err != nil {
		return f.abort(ctx, userID, chatID, ac)
	}

	link, err := f.deepLinks.RSVPLink(event.ID)
	if err != nil {
		f.logger.Error("failed to build rsvp link", "event_id", event.ID, "error", err)
		return err
	}

	text := f.renderer.Render(event, ac.Draft(), link) + "\n" +
		f.localizer.MustLocalize(locale.PreviewButtonNote)

	kb := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: f.localizer.MustLocalize(locale.PostAnnouncement), CallbackData: "ann:post"}},
			{
				{Text: f.localizer.MustLocalize(locale.SaveAnnouncement), CallbackData: "ann:save"},
				{Text: f.localizer.MustLocalize(locale.EditAnnouncement), CallbackData: "ann:edit"},
				{Text: f.localizer.MustLocalize(locale.DiscardAnnouncement), CallbackData: "ann:discard"},
			},
		},
	}

	return f.sendPrompt(ctx, userID, chatID, StatePreview, text, kb, ac)
}

// saveDraft stores the announcement on the event without posting it
func (f *AnnouncementFSM) saveDraft(ctx context.Context, userID, chatID int64, ac *domain.AnnouncementContext) error {
	ann := &domain.Announcement{
		Text:          ac.Text,
		ShowSpots:     ac.ShowSpots,
		ShowAttending: ac.ShowAttending,
	}
	if err := f.eventManager.SetAnnouncement(ctx, ac.EventID, ann); err != nil {
		f.logger.Error("failed to save announcement", "event_id", ac.EventID, "error", err)
		return f.abort(ctx, userID, chatID, ac)
	}

	return f.finish(ctx, userID, chatID, ac, locale.AnnouncementSaved)
}

// post publishes the announcement to the announce chat with RSVP buttons
// and records the resulting message ID on the event. Re-posting after a
// re-edit sends a fresh message and the stored ID moves to it.
func (f *AnnouncementFSM) post(ctx context.Context, userID, chatID int64, ac *domain.AnnouncementContext) error {
	event, err := f.eventManager.GetEvent(ctx, ac.EventID)
	if err != nil {
		return f.abort(ctx, userID, chatID, ac)
	}

	link, err := f.deepLinks.RSVPLink(event.ID)
	if err != nil {
		f.logger.Error("failed to build rsvp link", "event_id", event.ID, "error", err)
		return err
	}

	msg, err := f.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      f.config.AnnounceChatID,
		Text:        f.renderer.Render(event, ac.Draft(), link),
		ReplyMarkup: RSVPKeyboard(f.localizer, event.ID),
	})
	if err != nil {
		f.logger.Error("failed to post announcement", "event_id", event.ID, "error", err)
		_, _ = f.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   f.localizer.MustLocalize(locale.ActionFailed),
		})
		return err
	}

	ann := &domain.Announcement{
		Text:          ac.Text,
		ShowSpots:     ac.ShowSpots,
		ShowAttending: ac.ShowAttending,
		MessageID:     msg.ID,
	}
	if err := f.eventManager.SetAnnouncement(ctx, ac.EventID, ann); err != nil {
		f.logger.Error("failed to record posted announcement", "event_id", ac.EventID, "error", err)
		return f.abort(ctx, userID, chatID, ac)
	}

	f.logger.Info("announcement posted", "event_id", event.ID, "message_id", msg.ID, "chat_id", f.config.AnnounceChatID)
	return f.finish(ctx, userID, chatID, ac, locale.AnnouncementPosted)
}

func (f *AnnouncementFSM) discard(ctx context.Context, userID, chatID int64, ac *domain.AnnouncementContext) error {
	return f.finish(ctx, userID, chatID, ac, locale.AnnouncementDiscarded)
}

func (f *AnnouncementFSM) finish(ctx context.Context, userID, chatID int64, ac *domain.AnnouncementContext, messageKey string) error {
	deleteMessages(ctx, f.bot, f.logger, chatID, ac.LastBotMessageID)
	if err := f.sessions.Delete(ctx, userID); err != nil {
		return err
	}

	_, err := f.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   f.localizer.MustLocalize(messageKey),
	})
	return err
}

func (f *AnnouncementFSM) abort(ctx context.Context, userID, chatID int64, ac *domain.AnnouncementContext) error {
	deleteMessages(ctx, f.bot, f.logger, chatID, ac.LastBotMessageID)
	_ = f.sessions.Delete(ctx, userID)

	_, err := f.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   f.localizer.MustLocalize(locale.ActionFailed),
	})
	return err
}

// RSVPKeyboard builds the three-button response keyboard attached to a
// posted announcement. Payloads are self-contained so responses keep
// working across bot restarts.
func RSVPKeyboard(localizer locale.Localizer, eventID int64) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: localizer.MustLocalize(locale.RSVPButtonAttending), CallbackData: fmt.Sprintf("rsvp:%d:%s", eventID, domain.CategoryAttending)},
				{Text: localizer.MustLocalize(locale.RSVPButtonMaybe), CallbackData: fmt.Sprintf("rsvp:%d:%s", eventID, domain.CategoryMaybe)},
				{Text: localizer.MustLocalize(locale.RSVPButtonDeclined), CallbackData: fmt.Sprintf("rsvp:%d:%s", eventID, domain.CategoryDeclined)},
			},
		},
	}
}
