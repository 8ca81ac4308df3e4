package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/victoria-pups/event-bot/internal/config"
	"github.com/victoria-pups/event-bot/internal/domain"
	"github.com/victoria-pups/event-bot/internal/locale"
	"github.com/victoria-pups/event-bot/internal/storage"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// BotHandler handles all Telegram bot interactions
type BotHandler struct {
	bot             *bot.Bot
	eventManager    *domain.EventManager
	renderer        *domain.AnnouncementRenderer
	deepLinks       *domain.DeepLinkService
	config          *config.Config
	logger          domain.Logger
	sessions        *storage.SessionStorage
	creationFSM     *EventCreationFSM
	announcementFSM *AnnouncementFSM
	broadcastFSM    *BroadcastFSM
	localizer       locale.Localizer
}

// NewBotHandler creates a new BotHandler with all dependencies
func NewBotHandler(
	b *bot.Bot,
	eventManager *domain.EventManager,
	renderer *domain.AnnouncementRenderer,
	deepLinks *domain.DeepLinkService,
	cfg *config.Config,
	logger domain.Logger,
	sessions *storage.SessionStorage,
	creationFSM *EventCreationFSM,
	announcementFSM *AnnouncementFSM,
	broadcastFSM *BroadcastFSM,
	localizer locale.Localizer,
) *BotHandler {
	return &BotHandler{
		bot:             b,
		eventManager:    eventManager,
		renderer:        renderer,
		deepLinks:       deepLinks,
		config:          cfg,
		logger:          logger,
		sessions:        sessions,
		creationFSM:     creationFSM,
		announcementFSM: announcementFSM,
		broadcastFSM:    broadcastFSM,
		localizer:       localizer,
	}
}

func (h *BotHandler) sendText(ctx context.Context, chatID int64, text string) {
	_, err := h.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

// requireEventAdmin checks the admin list and the private chat requirement
// for management commands. It replies with the reason when denying.
func (h *BotHandler) requireEventAdmin(ctx context.Context, update *models.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		return false
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if !h.config.IsEventAdmin(userID) {
		h.logger.Warn("unauthorized admin command attempt", "user_id", userID)
		h.sendText(ctx, chatID, h.localizer.MustLocalize(locale.NotEventAdmin))
		return false
	}

	if update.Message.Chat.Type != models.ChatTypePrivate {
		h.sendText(ctx, chatID, h.localizer.MustLocalize(locale.PrivateChatOnly))
		return false
	}

	return true
}

// registerIfPrivate marks the sender as known. Any private message
// counts, regardless of whether a dialog is active, and being known is
// what unlocks RSVP buttons for a user.
func (h *BotHandler) registerIfPrivate(ctx context.Context, msg *models.Message) {
	if msg == nil || msg.From == nil || msg.Chat.Type != models.ChatTypePrivate {
		return
	}
	if err := h.eventManager.RegisterKnownUser(ctx, msg.From.ID); err != nil {
		h.logger.Error("failed to register known user", "user_id", msg.From.ID, "error", err)
	}
}

// HandleStart handles the /start command. A deep-link parameter jumps
// straight to the RSVP prompt.
func (h *BotHandler) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	chatID := update.Message.Chat.ID
	h.registerIfPrivate(ctx, update.Message)

	parts := strings.Fields(update.Message.Text)
	if len(parts) > 1 {
		h.handleRSVPDeepLink(ctx, update, parts[1])
		return
	}

	h.sendText(ctx, chatID, h.localizer.MustLocalizeWithTemplate(locale.StartGreeting, update.Message.From.FirstName))
}

// handleRSVPDeepLink resolves a /start payload into an RSVP prompt
func (h *BotHandler) handleRSVPDeepLink(ctx context.Context, update *models.Update, startParam string) {
	chatID := update.Message.Chat.ID

	eventID, err := h.deepLinks.ParseRSVPStart(startParam)
	if err != nil {
		h.logger.Warn("invalid start parameter", "param", startParam, "error", err)
		h.sendText(ctx, chatID, h.localizer.MustLocalizeWithTemplate(locale.StartGreeting, update.Message.From.FirstName))
		return
	}

	event, err := h.eventManager.GetEvent(ctx, eventID)
	if err != nil {
		h.sendText(ctx, chatID, h.localizer.MustLocalize(locale.RSVPEventGone))
		return
	}

	_, err = h.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        h.localizer.MustLocalizeWithTemplate(locale.RSVPPrompt, event.Name),
		ReplyMarkup: RSVPKeyboard(h.localizer, event.ID),
	})
	if err != nil {
		h.logger.Error("failed to send rsvp prompt", "chat_id", chatID, "error", err)
	}
}

// HandleHelp handles the /help command
func (h *BotHandler) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.registerIfPrivate(ctx, update.Message)
	h.sendText(ctx, update.Message.Chat.ID, h.localizer.MustLocalize(locale.HelpText))
}

// HandleEventAdmin handles the /eventadmin command and opens the main menu
func (h *BotHandler) HandleEventAdmin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireEventAdmin(ctx, update) {
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	// One dialog per admin at a time
	if _, err := h.sessions.Get(ctx, userID); err == nil {
		h.sendText(ctx, chatID, h.localizer.MustLocalize(locale.SessionConflict))
		return
	} else if err != storage.ErrSessionNotFound {
		h.logger.Error("failed to check session", "user_id", userID, "error", err)
		return
	}

	sendMainMenu(ctx, h.bot, h.localizer, h.logger, chatID)
}

// HandleStop handles the /stop command. It tears down whatever dialog is
// in progress; without one it still replies.
func (h *BotHandler) HandleStop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	h.registerIfPrivate(ctx, update.Message)

	if err := h.sessions.Delete(ctx, userID); err != nil {
		h.logger.Error("failed to delete session on /stop", "user_id", userID, "error", err)
	}

	h.logger.Info("dialog stopped", "user_id", userID)
	h.sendText(ctx, chatID, h.localizer.MustLocalize(locale.Goodbye))
}

// sendMainMenu is shared with the creation FSM, which returns here after a
// discarded draft.
func sendMainMenu(ctx context.Context, b *bot.Bot, localizer locale.Localizer, logger domain.Logger, chatID int64) {
	kb := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: localizer.MustLocalize(locale.MainMenuNewEvent), CallbackData: "menu:new"}},
			{{Text: localizer.MustLocalize(locale.MainMenuMyEvents), CallbackData: "menu:events"}},
			{{Text: localizer.MustLocalize(locale.MainMenuClose), CallbackData: "menu:close"}},
		},
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        localizer.MustLocalize(locale.MainMenuPrompt),
		ReplyMarkup: kb,
	})
	if err != nil {
		logger.Error("failed to send main menu", "chat_id", chatID, "error", err)
	}
}

// HandleMessage is the catch-all for plain text. It feeds the active
// dialog, if any.
func (h *BotHandler) HandleMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	h.registerIfPrivate(ctx, update.Message)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	userID := update.Message.From.ID

	session, err := h.sessions.Get(ctx, userID)
	if err != nil {
		if err != storage.ErrSessionNotFound {
			h.logger.Error("failed to get session", "user_id", userID, "error", err)
		}
		return
	}

	switch session.Flow {
	case FlowEventCreation:
		err = h.creationFSM.HandleMessage(ctx, update)
	case FlowAnnouncement:
		err = h.announcementFSM.HandleMessage(ctx, update)
	case FlowBroadcast:
		err = h.broadcastFSM.HandleMessage(ctx, update)
	default:
		h.logger.Warn("session with unknown flow", "user_id", userID, "flow", session.Flow)
		return
	}

	if err != nil {
		h.logger.Error("dialog message handling failed", "user_id", userID, "flow", session.Flow, "error", err)
	}
}

// HandleCallback routes callback queries by payload prefix. RSVP buttons
// are open to everyone; everything else belongs to admin dialogs.
func (h *BotHandler) HandleCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery
	userID := callback.From.ID
	data := callback.Data

	if strings.HasPrefix(data, "rsvp:") {
		h.handleRSVPCallback(ctx, callback)
		return
	}

	if !h.config.IsEventAdmin(userID) {
		h.logger.Warn("unauthorized callback", "user_id", userID, "data", data)
		_, _ = h.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: callback.ID,
			Text:            h.localizer.MustLocalize(locale.NotEventAdmin),
		})
		return
	}

	var err error
	switch {
	case strings.HasPrefix(data, "menu:"):
		err = h.handleMenuCallback(ctx, callback)
	case strings.HasPrefix(data, "event:"):
		err = h.handleEventMenuCallback(ctx, callback)
	case strings.HasPrefix(data, "create:"):
		err = h.creationFSM.HandleCallback(ctx, callback)
	case strings.HasPrefix(data, "ann:"):
		err = h.announcementFSM.HandleCallback(ctx, callback)
	case strings.HasPrefix(data, "bcast:"):
		err = h.broadcastFSM.HandleCallback(ctx, callback)
	default:
		h.logger.Warn("unknown callback", "user_id", userID, "data", data)
		_, _ = h.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: callback.ID,
			Text:            h.localizer.MustLocalize(locale.UnknownAction),
		})
		return
	}

	if err != nil {
		h.logger.Error("callback handling failed", "user_id", userID, "data", data, "error", err)
	}
}

// handleRSVPCallback records a response from an announcement or RSVP
// prompt button. Unknown users are told to message the bot first.
func (h *BotHandler) handleRSVPCallback(ctx context.Context, callback *models.CallbackQuery) {
	userID := callback.From.ID

	parts := strings.Split(callback.Data, ":")
	if len(parts) != 3 {
		h.logger.Warn("malformed rsvp payload", "user_id", userID, "data", callback.Data)
		return
	}

	eventID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.logger.Warn("malformed rsvp event id", "user_id", userID, "data", callback.Data)
		return
	}

	category, err := domain.ParseCategory(parts[2])
	if err != nil {
		h.logger.Warn("malformed rsvp category", "user_id", userID, "data", callback.Data)
		return
	}

	status, err := h.eventManager.Respond(ctx, eventID, userID, category)
	if err != nil {
		var text string
		switch err {
		case domain.ErrUnknownParticipant:
			text = h.localizer.MustLocalize(locale.RSVPMustMessageFirst)
		case domain.ErrEventNotFound:
			text = h.localizer.MustLocalize(locale.RSVPEventGone)
		default:
			h.logger.Error("failed to record rsvp", "user_id", userID, "event_id", eventID, "error", err)
			text = h.localizer.MustLocalize(locale.ActionFailed)
		}
		_, _ = h.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: callback.ID,
			Text:            text,
			ShowAlert:       true,
		})
		return
	}

	ack := h.localizer.MustLocalizeWithTemplate(locale.RSVPRecorded, h.categoryLabel(status.Category))
	if status.Waitlisted {
		ack = h.localizer.MustLocalize(locale.RSVPWaitlisted)
	}

	h.logger.Info("rsvp recorded", "user_id", userID, "event_id", eventID, "category", status.Category, "waitlisted", status.Waitlisted)
	_, _ = h.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callback.ID,
		Text:            ack,
		ShowAlert:       true,
	})
}

func (h *BotHandler) handleMenuCallback(ctx context.Context, callback *models.CallbackQuery) error {
	userID := callback.From.ID
	data := callback.Data

	_, _ = h.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callback.ID,
	})

	if callback.Message.Message == nil {
		return nil
	}
	chatID := callback.Message.Message.Chat.ID
	messageID := callback.Message.Message.ID

	switch data {
	case "menu:new":
		deleteMessages(ctx, h.bot, h.logger, chatID, messageID)
		if _, err := h.sessions.Get(ctx, userID); err == nil {
			h.sendText(ctx, chatID, h.localizer.MustLocalize(locale.SessionConflict))
			return nil
		} else if err != storage.ErrSessionNotFound {
			return err
		}
		return h.creationFSM.Start(ctx, userID, chatID)

	case "menu:events":
		deleteMessages(ctx, h.bot, h.logger, chatID, messageID)
		return h.sendEventList(ctx, chatID)

	case "menu:close":
		deleteMessages(ctx, h.bot, h.logger, chatID, messageID)
		return nil
	}

	h.logger.Warn("unknown menu callback", "user_id", userID, "data", data)
	return nil
}

func (h *BotHandler) sendEventList(ctx context.Context, chatID int64) error {
	events, err := h.eventManager.ListEvents(ctx)
	if err != nil {
		h.sendText(ctx, chatID, h.localizer.MustLocalize(locale.ActionFailed))
		return err
	}

	if len(events) == 0 {
		h.sendText(ctx, chatID, h.localizer.MustLocalize(locale.MyEventsEmpty))
		return nil
	}

	var rows [][]models.InlineKeyboardButton
	for _, event := range events {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: event.Name, CallbackData: fmt.Sprintf("event:open:%d", event.ID)},
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: h.localizer.MustLocalize(locale.BackToMainMenu), CallbackData: "event:back_main"},
	})

	_, err = h.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        h.localizer.MustLocalize(locale.MyEventsTitle),
		ReplyMarkup: &models.InlineKeyboardMarkup{InlineKeyboard: rows},
	})
	return err
}

// handleEventMenuCallback covers the per-event menu and its actions
func (h *BotHandler) handleEventMenuCallback(ctx context.Context, callback *models.CallbackQuery) error {
	userID := callback.From.ID
	data := callback.Data

	_, _ = h.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callback.ID,
	})

	if callback.Message.Message == nil {
		return nil
	}
	chatID := callback.Message.Message.Chat.ID
	messageID := callback.Message.Message.ID

	if data == "event:back_main" {
		deleteMessages(ctx, h.bot, h.logger, chatID, messageID)
		sendMainMenu(ctx, h.bot, h.localizer, h.logger, chatID)
		return nil
	}

	parts := strings.Split(data, ":")
	if len(parts) < 3 {
		h.logger.Warn("malformed event callback", "user_id", userID, "data", data)
		return nil
	}
	action := parts[1]
	eventID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		h.logger.Warn("malformed event id", "user_id", userID, "data", data)
		return nil
	}

	deleteMessages(ctx, h.bot, h.logger, chatID, messageID)

	event, err := h.eventManager.GetEvent(ctx, eventID)
	if err != nil {
		// Discarded by another admin mid-flow; fall back to the list
		h.sendText(ctx, chatID, h.localizer.MustLocalize(locale.EventNotFound))
		return h.sendEventList(ctx, chatID)
	}

	switch action {
	case "open":
		return sendEventMenu(ctx, h.bot, h.localizer, chatID, event)
	case "announce":
		return h.startDialog(ctx, userID, chatID, func() error {
			return h.announcementFSM.Start(ctx, userID, chatID, eventID)
		})
	case "preview":
		return h.sendSavedPreview(ctx, chatID, event)
	case "post":
		if len(parts) == 3 {
			return h.sendPostConfirm(ctx, chatID, event)
		}
		if parts[3] == "yes" {
			return h.postSavedAnnouncement(ctx, chatID, event)
		}
		return sendEventMenu(ctx, h.bot, h.localizer, chatID, event)
	case "attendees":
		return h.sendAttendeeView(ctx, chatID, event)
	case "broadcast":
		return h.startDialog(ctx, userID, chatID, func() error {
			return h.broadcastFSM.Start(ctx, userID, chatID, eventID)
		})
	case "discard":
		if len(parts) == 3 {
			return h.sendDiscardConfirm(ctx, chatID, event)
		}
		if parts[3] == "yes" {
			if err := h.eventManager.DeleteEvent(ctx, eventID); err != nil {
				h.sendText(ctx, chatID, h.localizer.MustLocalize(locale.ActionFailed))
				return err
			}
			h.sendText(ctx, chatID, h.localizer.MustLocalize(locale.EventDiscarded))
			return h.sendEventList(ctx, chatID)
		}
		return sendEventMenu(ctx, h.bot, h.localizer, chatID, event)
	}

	h.logger.Warn("unknown event action", "user_id", userID, "data", data)
	return nil
}

// startDialog guards dialog entry points with the one-session rule
func (h *BotHandler) startDialog(ctx context.Context, userID, chatID int64, start func() error) error {
	if _, err := h.sessions.Get(ctx, userID); err == nil {
		h.sendText(ctx, chatID, h.localizer.MustLocalize(locale.SessionConflict))
		return nil
	} else if err != storage.ErrSessionNotFound {
		return err
	}
	return start()
}

// summaryField renders an optional event value, falling back to "None"
func summaryField(localizer locale.Localizer, value string) string {
	if value == "" {
		return localizer.MustLocalize(locale.NoneValue)
	}
	return value
}

// sendEventMenu shows the per-event menu. The actions offered depend
// entirely on whether an announcement exists and has been posted. Shared
// with the creation FSM, which lands here after saving a draft.
func sendEventMenu(ctx context.Context, b *bot.Bot, localizer locale.Localizer, chatID int64, event *domain.Event) error {
	capacity := ""
	if event.HasCapacity() {
		capacity = strconv.Itoa(event.Capacity)
	}

	text := localizer.MustLocalizeWithTemplate(locale.EventMenuSummary,
		event.Name,
		summaryField(localizer, event.Start),
		summaryField(localizer, event.End),
		summaryField(localizer, capacity),
	)

	var rows [][]models.InlineKeyboardButton
	switch {
	case event.Announcement.Posted():
		rows = append(rows,
			[]models.InlineKeyboardButton{{Text: localizer.MustLocalize(locale.EventMenuViewAttendees), CallbackData: fmt.Sprintf("event:attendees:%d", event.ID)}},
			[]models.InlineKeyboardButton{{Text: localizer.MustLocalize(locale.EventMenuMessageAttendees), CallbackData: fmt.Sprintf("event:broadcast:%d", event.ID)}},
			[]models.InlineKeyboardButton{{Text: localizer.MustLocalize(locale.EventMenuEditAnnouncement), CallbackData: fmt.Sprintf("event:announce:%d", event.ID)}},
		)
	case event.Announcement != nil:
		rows = append(rows,
			[]models.InlineKeyboardButton{{Text: localizer.MustLocalize(locale.EventMenuPreview), CallbackData: fmt.Sprintf("event:preview:%d", event.ID)}},
			[]models.InlineKeyboardButton{{Text: localizer.MustLocalize(locale.EventMenuPost), CallbackData: fmt.Sprintf("event:post:%d", event.ID)}},
		)
	default:
		rows = append(rows,
			[]models.InlineKeyboardButton{{Text: localizer.MustLocalize(locale.EventMenuAddAnnouncement), CallbackData: fmt.Sprintf("event:announce:%d", event.ID)}},
		)
	}

	rows = append(rows,
		[]models.InlineKeyboardButton{{Text: localizer.MustLocalize(locale.EventMenuDiscardEvent), CallbackData: fmt.Sprintf("event:discard:%d", event.ID)}},
		[]models.InlineKeyboardButton{{Text: localizer.MustLocalize(locale.BackToMyEvents), CallbackData: "menu:events"}},
	)

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: &models.InlineKeyboardMarkup{InlineKeyboard: rows},
	})
	return err
}

// sendSavedPreview renders the saved announcement against the live
// rosters, without posting it.
func (h *BotHandler) sendSavedPreview(ctx context.Context, chatID int64, event *domain.Event) error {
	if event.Announcement == nil {
		h.sendText(ctx, chatID, h.localizer.MustLocalize(locale.UnknownAction))
		return sendEventMenu(ctx, h.bot, h.localizer, chatID, event)
	}

	link, err := h.deepLinks.RSVPLink(event.ID)
	if err != nil {
		return err
	}

	text := h.renderer.Render(event, domain.DraftFrom(event.Announcement), link) + "\n" +
		h.localizer.MustLocalize(locale.PreviewButtonNote)

	h.sendText(ctx, chatID, text)
	return sendEventMenu(ctx, h.bot, h.localizer, chatID, event)
}

func (h *BotHandler) sendPostConfirm(ctx context.Context, chatID int64, event *domain.Event) error {
	kb := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: h.localizer.MustLocalize(locale.Yes), CallbackData: fmt.Sprintf("event:post:%d:yes", event.ID)},
				{Text: h.localizer.MustLocalize(locale.No), CallbackData: fmt.Sprintf("event:post:%d:no", event.ID)},
			},
		},
	}

	_, err := h.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        h.localizer.MustLocalize(locale.PostConfirmPrompt),
		ReplyMarkup: kb,
	})
	return err
}

// postSavedAnnouncement publishes a previously saved announcement. A
// posted one has to go through the composer again before it can be
// posted anew.
func (h *BotHandler) postSavedAnnouncement(ctx context.Context, chatID int64, event *domain.Event) error {
	if event.Announcement == nil {
		h.sendText(ctx, chatID, h.localizer.MustLocalize(locale.ActionFailed))
		return sendEventMenu(ctx, h.bot, h.localizer, chatID, event)
	}
	if event.Announcement.Posted() {
		h.sendText(ctx, chatID, h.localizer.MustLocalize(locale.ActionFailed))
		if err := sendEventMenu(ctx, h.bot, h.localizer, chatID, event); err != nil {
			return err
		}
		return domain.ErrAlreadyPosted
	}

	link, err := h.deepLinks.RSVPLink(event.ID)
	if err != nil {
		return err
	}

	msg, err := h.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      h.config.AnnounceChatID,
		Text:        h.renderer.Render(event, domain.DraftFrom(event.Announcement), link),
		ReplyMarkup: RSVPKeyboard(h.localizer, event.ID),
	})
	if err != nil {
		h.logger.Error("failed to post announcement", "event_id", event.ID, "error", err)
		h.sendText(ctx, chatID, h.localizer.MustLocalize(locale.ActionFailed))
		return err
	}

	ann := *event.Announcement
	ann.MessageID = msg.ID
	if err := h.eventManager.SetAnnouncement(ctx, event.ID, &ann); err != nil {
		h.logger.Error("failed to record posted announcement", "event_id", event.ID, "error", err)
		h.sendText(ctx, chatID, h.localizer.MustLocalize(locale.ActionFailed))
		return err
	}

	h.logger.Info("announcement posted", "event_id", event.ID, "message_id", msg.ID, "chat_id", h.config.AnnounceChatID)
	h.sendText(ctx, chatID, h.localizer.MustLocalize(locale.AnnouncementPosted))

	event.Announcement = &ann
	return sendEventMenu(ctx, h.bot, h.localizer, chatID, event)
}

func (h *BotHandler) categoryLabel(category domain.RSVPCategory) string {
	switch category {
	case domain.CategoryAttending:
		return h.localizer.MustLocalize(locale.CategoryLabelAttending)
	case domain.CategoryMaybe:
		return h.localizer.MustLocalize(locale.CategoryLabelMaybe)
	default:
		return h.localizer.MustLocalize(locale.CategoryLabelDeclined)
	}
}

// sendAttendeeView lists every roster with counts, user IDs and the
// waitlist note for capacity-limited events.
func (h *BotHandler) sendAttendeeView(ctx context.Context, chatID int64, event *domain.Event) error {
	var sb strings.Builder
	sb.WriteString(h.localizer.MustLocalizeWithTemplate(locale.AttendeesTitle, event.Name))
	sb.WriteString("\n\n")

	total := 0
	for _, category := range domain.AllCategories() {
		roster := event.Roster(category)
		total += len(roster)

		sb.WriteString(h.localizer.MustLocalizeWithTemplate(locale.AttendeesSection,
			h.categoryLabel(category), strconv.Itoa(len(roster))))
		sb.WriteString("\n")
		for _, id := range roster {
			sb.WriteString(fmt.Sprintf("  id%d\n", id))
		}

		if category == domain.CategoryAttending && event.HasCapacity() {
			if waitlisted := len(event.Waitlist()); waitlisted > 0 {
				sb.WriteString(h.localizer.MustLocalizeWithTemplate(locale.WaitlistNote, strconv.Itoa(waitlisted)))
				sb.WriteString("\n")
			}
		}
		sb.WriteString("\n")
	}

	if total == 0 {
		h.sendText(ctx, chatID, h.localizer.MustLocalize(locale.AttendeesNone))
		return sendEventMenu(ctx, h.bot, h.localizer, chatID, event)
	}

	h.sendText(ctx, chatID, strings.TrimRight(sb.String(), "\n"))
	return sendEventMenu(ctx, h.bot, h.localizer, chatID, event)
}

func (h *BotHandler) sendDiscardConfirm(ctx context.Context, chatID int64, event *domain.Event) error {
	kb := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: h.localizer.MustLocalize(locale.Yes), CallbackData: fmt.Sprintf("event:discard:%d:yes", event.ID)},
				{Text: h.localizer.MustLocalize(locale.No), CallbackData: fmt.Sprintf("event:discard:%d:no", event.ID)},
			},
		},
	}

	_, err := h.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        h.localizer.MustLocalize(locale.DiscardEventConfirm),
		ReplyMarkup: kb,
	})
	return err
}
