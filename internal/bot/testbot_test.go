package bot

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/victoria-pups/event-bot/internal/config"
	"github.com/victoria-pups/event-bot/internal/domain"
	"github.com/victoria-pups/event-bot/internal/logger"
	"github.com/victoria-pups/event-bot/internal/storage"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	_ "modernc.org/sqlite"
)

// fakeAPI is a stub Telegram server. It accepts every method call and
// records outgoing messages so transition tests can assert on what the
// bot sent and where.
type fakeAPI struct {
	mu        sync.Mutex
	nextMsgID int
	calls     []apiCall
}

// apiCall is one recorded Bot API request
type apiCall struct {
	Method      string
	ChatID      int64
	Text        string
	ReplyMarkup string
}

func (a *fakeAPI) handler(w http.ResponseWriter, r *http.Request) {
	method := path.Base(r.URL.Path)
	_ = r.ParseMultipartForm(1 << 20)

	chatID, _ := strconv.ParseInt(r.FormValue("chat_id"), 10, 64)

	a.mu.Lock()
	a.nextMsgID++
	msgID := a.nextMsgID
	a.calls = append(a.calls, apiCall{
		Method:      method,
		ChatID:      chatID,
		Text:        r.FormValue("text"),
		ReplyMarkup: r.FormValue("reply_markup"),
	})
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch method {
	case "sendMessage", "editMessageText":
		fmt.Fprintf(w, `{"ok":true,"result":{"message_id":%d,"date":1,"chat":{"id":%d,"type":"private"}}}`, msgID, chatID)
	default:
		fmt.Fprint(w, `{"ok":true,"result":true}`)
	}
}

// callsTo returns the recorded requests of one method, oldest first
func (a *fakeAPI) callsTo(method string) []apiCall {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []apiCall
	for _, c := range a.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// newTestBot wires a real bot client against the stub server
func newTestBot(t *testing.T) (*tgbot.Bot, *fakeAPI) {
	t.Helper()

	api := &fakeAPI{}
	srv := httptest.NewServer(http.HandlerFunc(api.handler))
	t.Cleanup(srv.Close)

	b, err := tgbot.New("12345:testtoken",
		tgbot.WithServerURL(srv.URL),
		tgbot.WithSkipGetMe(),
	)
	if err != nil {
		t.Fatalf("failed to create bot: %v", err)
	}
	return b, api
}

// testAnnounceChatID is where the stub environment posts announcements
const testAnnounceChatID = int64(-100500)

// testEnv is a fully wired handler over the stub API, an in-memory
// sessions database and a throwaway event file.
type testEnv struct {
	api          *fakeAPI
	handler      *BotHandler
	sessions     *storage.SessionStorage
	knownUsers   *storage.KnownUserRepository
	eventManager *domain.EventManager
	creation     *EventCreationFSM
	announcement *AnnouncementFSM
	broadcast    *BroadcastFSM
}

func newTestEnv(t *testing.T, adminIDs ...int64) *testEnv {
	t.Helper()

	b, api := newTestBot(t)
	log := logger.New(logger.ERROR)

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	queue := storage.NewDBQueue(db)
	t.Cleanup(queue.Close)
	if err := storage.InitSchema(context.Background(), queue); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	sessions := storage.NewSessionStorage(queue, log)
	knownUsers := storage.NewKnownUserRepository(queue, log)

	eventStore := storage.NewEventStore(filepath.Join(t.TempDir(), "events.json"), log)
	if err := eventStore.Load(); err != nil {
		t.Fatalf("failed to load event store: %v", err)
	}

	localizer := newTestLocalizer(t)
	eventManager := domain.NewEventManager(eventStore, knownUsers, log)
	renderer := domain.NewAnnouncementRenderer(localizer)

	deepLinks, err := domain.NewDeepLinkService("testbot")
	if err != nil {
		t.Fatalf("failed to create deep link service: %v", err)
	}

	cfg := &config.Config{
		EventAdminIDs:    adminIDs,
		AnnounceChatID:   testAnnounceChatID,
		BroadcastTimeout: time.Second,
	}

	broadcaster := domain.NewBroadcaster(b, cfg.BroadcastTimeout, log)
	creationFSM := NewEventCreationFSM(sessions, b, eventManager, localizer, log)
	announcementFSM := NewAnnouncementFSM(sessions, b, eventManager, renderer, deepLinks, cfg, localizer, log)
	broadcastFSM := NewBroadcastFSM(sessions, b, eventManager, broadcaster, localizer, log)

	h := NewBotHandler(b, eventManager, renderer, deepLinks, cfg, log, sessions,
		creationFSM, announcementFSM, broadcastFSM, localizer)

	return &testEnv{
		api:          api,
		handler:      h,
		sessions:     sessions,
		knownUsers:   knownUsers,
		eventManager: eventManager,
		creation:     creationFSM,
		announcement: announcementFSM,
		broadcast:    broadcastFSM,
	}
}

// mustCreateEvent seeds one event through the manager and returns it
func (e *testEnv) mustCreateEvent(t *testing.T, event *domain.Event) *domain.Event {
	t.Helper()
	if err := e.eventManager.CreateEvent(context.Background(), event); err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	return event
}

func callbackUpdate(userID, chatID int64, data string) *models.Update {
	return &models.Update{
		CallbackQuery: &models.CallbackQuery{
			ID:   "cb-test",
			From: models.User{ID: userID},
			Message: models.MaybeInaccessibleMessage{
				Message: &models.Message{
					ID:   9000,
					Chat: models.Chat{ID: chatID, Type: models.ChatTypePrivate},
				},
			},
			Data: data,
		},
	}
}
