package domain

import (
	"context"
	"strings"
)

// EventRepository is the durable home of Event records. Implementations
// must apply each mutation callback as one critical section per event so
// read-modify-write sequences on the RSVP rosters are atomic.
type EventRepository interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, eventID int64) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	UpdateEvent(ctx context.Context, eventID int64, mutate func(*Event) error) error
	DeleteEvent(ctx context.Context, eventID int64) error
}

// KnownUserRepository tracks identities that have messaged the bot
// privately at least once; only known users may RSVP.
type KnownUserRepository interface {
	Add(ctx context.Context, userID int64) error
	IsKnown(ctx context.Context, userID int64) (bool, error)
}

// RSVPStatus is the outcome of recording a response.
type RSVPStatus struct {
	Category   RSVPCategory
	Waitlisted bool
}

// EventManager coordinates event lifecycle and RSVP transitions on top of
// the repositories.
type EventManager struct {
	eventRepo EventRepository
	knownRepo KnownUserRepository
	logger    Logger
}

// NewEventManager creates a new EventManager.
func NewEventManager(eventRepo EventRepository, knownRepo KnownUserRepository, logger Logger) *EventManager {
	return &EventManager{
		eventRepo: eventRepo,
		knownRepo: knownRepo,
		logger:    logger,
	}
}

// CreateEvent validates and persists a new event. The repository assigns
// the id and enforces name uniqueness atomically with the insert.
func (em *EventManager) CreateEvent(ctx context.Context, event *Event) error {
	event.Name = strings.TrimSpace(event.Name)
	if err := event.Validate(); err != nil {
		em.logger.Error("event validation failed", "name", event.Name, "error", err)
		return err
	}
	if err := em.eventRepo.CreateEvent(ctx, event); err != nil {
		em.logger.Error("failed to create event", "name", event.Name, "error", err)
		return err
	}
	em.logger.Info("event created", "event_id", event.ID, "name", event.Name)
	return nil
}

// GetEvent fetches one event by id.
func (em *EventManager) GetEvent(ctx context.Context, eventID int64) (*Event, error) {
	return em.eventRepo.GetEvent(ctx, eventID)
}

// ListEvents returns all events ordered by id.
func (em *EventManager) ListEvents(ctx context.Context) ([]*Event, error) {
	return em.eventRepo.ListEvents(ctx)
}

// DeleteEvent removes an event and all its RSVP data. Irreversible.
func (em *EventManager) DeleteEvent(ctx context.Context, eventID int64) error {
	if err := em.eventRepo.DeleteEvent(ctx, eventID); err != nil {
		em.logger.Error("failed to delete event", "event_id", eventID, "error", err)
		return err
	}
	em.logger.Info("event deleted", "event_id", eventID)
	return nil
}

// NameTaken reports whether any event already uses the name,
// case-insensitively. The create path re-checks this atomically; this is
// the dialog-time check that keeps the name step honest.
func (em *EventManager) NameTaken(ctx context.Context, name string) (bool, error) {
	events, err := em.eventRepo.ListEvents(ctx)
	if err != nil {
		return false, err
	}
	name = strings.TrimSpace(name)
	for _, e := range events {
		if strings.EqualFold(e.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

// RegisterKnownUser records that an identity has messaged the bot
// privately, unlocking RSVP for it.
func (em *EventManager) RegisterKnownUser(ctx context.Context, userID int64) error {
	return em.knownRepo.Add(ctx, userID)
}

// Respond records a participant's RSVP. The whole transition runs inside
// the store's per-event critical section; last write wins and the
// participant ends up in exactly one category.
func (em *EventManager) Respond(ctx context.Context, eventID, userID int64, category RSVPCategory) (RSVPStatus, error) {
	known, err := em.knownRepo.IsKnown(ctx, userID)
	if err != nil {
		return RSVPStatus{}, err
	}
	if !known {
		return RSVPStatus{}, ErrUnknownParticipant
	}

	status := RSVPStatus{Category: category}
	err = em.eventRepo.UpdateEvent(ctx, eventID, func(e *Event) error {
		if err := e.SetResponse(userID, category); err != nil {
			return err
		}
		status.Waitlisted = category == CategoryAttending && e.IsWaitlisted(userID)
		return nil
	})
	if err != nil {
		em.logger.Error("failed to record rsvp", "event_id", eventID, "user_id", userID, "category", category, "error", err)
		return RSVPStatus{}, err
	}

	em.logger.Info("rsvp recorded", "event_id", eventID, "user_id", userID, "category", category, "waitlisted", status.Waitlisted)
	return status, nil
}

// SetAnnouncement stores announcement content (and, when posted, the
// message id) on the event.
func (em *EventManager) SetAnnouncement(ctx context.Context, eventID int64, ann *Announcement) error {
	err := em.eventRepo.UpdateEvent(ctx, eventID, func(e *Event) error {
		e.Announcement = ann
		return nil
	})
	if err != nil {
		em.logger.Error("failed to store announcement", "event_id", eventID, "error", err)
		return err
	}
	return nil
}

// RecipientUnion snapshots the union of the chosen categories' rosters at
// this instant. Order follows category order, then response order; a
// duplicate identity is kept once.
func (em *EventManager) RecipientUnion(ctx context.Context, eventID int64, categories []RSVPCategory) ([]int64, error) {
	event, err := em.eventRepo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{})
	var union []int64
	for _, cat := range categories {
		for _, id := range event.Roster(cat) {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			union = append(union, id)
		}
	}
	return union, nil
}
