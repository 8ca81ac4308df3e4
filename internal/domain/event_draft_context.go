package domain

import (
	"errors"
)

// ErrInvalidContextData is returned when session context data is invalid
var ErrInvalidContextData = errors.New("invalid context data")

// EventDraftContext holds scratch data during the event creation dialog.
// Start, End and Capacity stay zero-valued until their steps run; the
// summary renders unset fields as "None".
type EventDraftContext struct {
	Name             string `json:"name"`
	Start            string `json:"start"`
	End              string `json:"end"`
	Capacity         int    `json:"capacity"`
	ChatID           int64  `json:"chat_id"`
	LastBotMessageID int    `json:"last_bot_message_id"`
}

// ToMap converts the context to a map for JSON serialization.
func (c *EventDraftContext) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"name":                c.Name,
		"start":               c.Start,
		"end":                 c.End,
		"capacity":            c.Capacity,
		"chat_id":             c.ChatID,
		"last_bot_message_id": c.LastBotMessageID,
	}
}

// FromMap populates the context from a map after JSON deserialization.
func (c *EventDraftContext) FromMap(data map[string]interface{}) error {
	if data == nil {
		return ErrInvalidContextData
	}

	if name, ok := data["name"].(string); ok {
		c.Name = name
	}
	if start, ok := data["start"].(string); ok {
		c.Start = start
	}
	if end, ok := data["end"].(string); ok {
		c.End = end
	}
	c.Capacity = intFromAny(data["capacity"])
	c.ChatID = int64FromAny(data["chat_id"])
	c.LastBotMessageID = intFromAny(data["last_bot_message_id"])

	return nil
}

// ToEvent builds the Event record committed on save. Rosters start empty
// but non-nil so the persisted document always carries them.
func (c *EventDraftContext) ToEvent() *Event {
	return &Event{
		Name:      c.Name,
		Start:     c.Start,
		End:       c.End,
		Capacity:  c.Capacity,
		Attending: []int64{},
		Maybe:     []int64{},
		Declined:  []int64{},
	}
}

// intFromAny reads an int that may arrive as float64 after a JSON round trip.
func intFromAny(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	default:
		return 0
	}
}

// int64FromAny reads an int64 that may arrive as float64 after a JSON round trip.
func int64FromAny(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}
