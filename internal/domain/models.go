package domain

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Validation errors
var (
	ErrEmptyName       = errors.New("event name cannot be empty")
	ErrDuplicateName   = errors.New("an event with that name already exists")
	ErrInvalidDate     = errors.New("date must match HH:MM DD/MM/YYYY")
	ErrInvalidCapacity = errors.New("capacity must be a positive integer")
	ErrInvalidCategory = errors.New("invalid RSVP category")
)

// Flow errors
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrUnknownParticipant = errors.New("participant has not messaged the bot privately")
	ErrAlreadyPosted      = errors.New("announcement already posted")
)

// Logger interface for logging
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
}

// RSVPCategory is one of the three mutually exclusive response categories.
type RSVPCategory string

const (
	CategoryAttending RSVPCategory = "attending"
	CategoryMaybe     RSVPCategory = "maybe"
	CategoryDeclined  RSVPCategory = "declined"
)

// AllCategories returns the categories in display order.
func AllCategories() []RSVPCategory {
	return []RSVPCategory{CategoryAttending, CategoryMaybe, CategoryDeclined}
}

// ParseCategory parses a category from its wire form (callback payloads, JSON).
func ParseCategory(s string) (RSVPCategory, error) {
	switch RSVPCategory(s) {
	case CategoryAttending, CategoryMaybe, CategoryDeclined:
		return RSVPCategory(s), nil
	default:
		return "", ErrInvalidCategory
	}
}

// Announcement holds the composed announcement of an event. A zero MessageID
// means the announcement was saved but never posted; a non-zero MessageID is
// the sole signal that the announcement is live.
type Announcement struct {
	Text          string `json:"text"`
	ShowSpots     bool   `json:"show_spots"`
	ShowAttending bool   `json:"show_attending"`
	MessageID     int    `json:"message_id,omitempty"`
}

// Posted reports whether the announcement has been published.
func (a *Announcement) Posted() bool {
	return a != nil && a.MessageID != 0
}

// Event is an organized occurrence with optional schedule and capacity.
// The three RSVP rosters are ordered by response time; a participant appears
// in at most one of them at any moment.
type Event struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Start        string        `json:"start,omitempty"`
	End          string        `json:"end,omitempty"`
	Capacity     int           `json:"capacity,omitempty"`
	Announcement *Announcement `json:"announcement,omitempty"`
	Attending    []int64       `json:"attendees"`
	Maybe        []int64       `json:"maybe"`
	Declined     []int64       `json:"declined"`
}

// HasCapacity reports whether the event is capacity-limited.
func (e *Event) HasCapacity() bool {
	return e.Capacity > 0
}

// Clone returns a deep copy of the event.
func (e *Event) Clone() *Event {
	clone := *e
	if e.Announcement != nil {
		ann := *e.Announcement
		clone.Announcement = &ann
	}
	clone.Attending = append([]int64{}, e.Attending...)
	clone.Maybe = append([]int64{}, e.Maybe...)
	clone.Declined = append([]int64{}, e.Declined...)
	return &clone
}

// Validate validates an Event record.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if e.Start != "" {
		if err := ValidateEventDate(e.Start); err != nil {
			return err
		}
	}
	if e.End != "" {
		if err := ValidateEventDate(e.End); err != nil {
			return err
		}
	}
	if e.Capacity < 0 {
		return ErrInvalidCapacity
	}
	return nil
}

// dateRe matches a 24-hour clock instant: HH:MM DD/MM/YYYY, zero-padded.
// The contract is a pure pattern match; calendar semantics are not checked,
// so 31/02 passes as long as the shape is right.
var dateRe = regexp.MustCompile(`^\d{2}:\d{2}\s\d{2}/\d{2}/\d{4}$`)

// ValidateEventDate checks a free-form event date against the required pattern.
func ValidateEventDate(s string) error {
	if !dateRe.MatchString(s) {
		return ErrInvalidDate
	}
	return nil
}

// ParseCapacity parses an event capacity from user input. Anything other
// than a plain string of digits with a positive value is rejected.
func ParseCapacity(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidCapacity
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrInvalidCapacity
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, ErrInvalidCapacity
	}
	return n, nil
}
