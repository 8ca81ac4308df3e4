package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/victoria-pups/event-bot/internal/domain"
	"github.com/victoria-pups/event-bot/internal/logger"
)

// eventDocument is the on-disk shape of the event file
type eventDocument struct {
	Events []*domain.Event `json:"events"`
}

// EventStore keeps all events in a single JSON document on disk. The whole
// document is held in memory and rewritten atomically on every mutation,
// so the file is always a complete valid snapshot.
type EventStore struct {
	mu     sync.Mutex
	path   string
	events []*domain.Event
	logger *logger.Logger
}

// NewEventStore creates an event store persisting to the given file path
func NewEventStore(path string, log *logger.Logger) *EventStore {
	return &EventStore{
		path:   path,
		logger: log,
	}
}

// Load reads the event document from disk. A missing file is treated as an
// empty store.
func (s *EventStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("event file not found, starting empty", "path", s.path)
			s.events = nil
			return nil
		}
		return fmt.Errorf("failed to read event file: %w", err)
	}

	var doc eventDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse event file: %w", err)
	}

	// Rosters must never be nil so encoding stays stable
	for _, e := range doc.Events {
		if e.Attending == nil {
			e.Attending = []int64{}
		}
		if e.Maybe == nil {
			e.Maybe = []int64{}
		}
		if e.Declined == nil {
			e.Declined = []int64{}
		}
	}

	s.events = doc.Events
	s.logger.Info("event file loaded", "path", s.path, "events", len(s.events))
	return nil
}

// persistLocked writes the full document via a temp file and rename so a
// crash mid-write never leaves a truncated file. Caller must hold s.mu.
func (s *EventStore) persistLocked() error {
	doc := eventDocument{Events: s.events}
	if doc.Events == nil {
		doc.Events = []*domain.Event{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".events-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace event file: %w", err)
	}

	return nil
}

// CreateEvent assigns the next ID, checks name uniqueness and persists the
// new event in one critical section.
func (s *EventStore) CreateEvent(ctx context.Context, event *domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var maxID int64
	for _, e := range s.events {
		if strings.EqualFold(e.Name, event.Name) {
			return domain.ErrDuplicateName
		}
		if e.ID > maxID {
			maxID = e.ID
		}
	}
	event.ID = maxID + 1

	s.events = append(s.events, event.Clone())
	if err := s.persistLocked(); err != nil {
		s.events = s.events[:len(s.events)-1]
		s.logger.Error("failed to persist new event", "event_id", event.ID, "error", err)
		return err
	}

	s.logger.Info("event created", "event_id", event.ID, "name", event.Name)
	return nil
}

// GetEvent returns a copy of the event with the given ID
func (s *EventStore) GetEvent(ctx context.Context, eventID int64) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.events {
		if e.ID == eventID {
			return e.Clone(), nil
		}
	}
	return nil, domain.ErrEventNotFound
}

// ListEvents returns copies of all events in document order
func (s *EventStore) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Clone())
	}
	return out, nil
}

// UpdateEvent applies mutate to the stored event as one critical section
// and persists the result. If persisting fails the in-memory event is
// rolled back to its previous value.
func (s *EventStore) UpdateEvent(ctx context.Context, eventID int64, mutate func(*domain.Event) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.events {
		if e.ID != eventID {
			continue
		}

		updated := e.Clone()
		if err := mutate(updated); err != nil {
			return err
		}
		updated.ID = eventID

		s.events[i] = updated
		if err := s.persistLocked(); err != nil {
			s.events[i] = e
			s.logger.Error("failed to persist event update", "event_id", eventID, "error", err)
			return err
		}
		return nil
	}

	return domain.ErrEventNotFound
}

// DeleteEvent removes the event with the given ID and persists the change
func (s *EventStore) DeleteEvent(ctx context.Context, eventID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.events {
		if e.ID != eventID {
			continue
		}

		s.events = append(s.events[:i:i], s.events[i+1:]...)
		if err := s.persistLocked(); err != nil {
			rest := s.events[i:]
			s.events = append(append(s.events[:i:i], e), rest...)
			s.logger.Error("failed to persist event deletion", "event_id", eventID, "error", err)
			return err
		}

		s.logger.Info("event deleted", "event_id", eventID, "name", e.Name)
		return nil
	}

	return domain.ErrEventNotFound
}
