package domain

// AnnouncementContext holds scratch data during the announcement composer
// dialog. It never touches the Event until save or post commits it.
type AnnouncementContext struct {
	EventID          int64  `json:"event_id"`
	Text             string `json:"text"`
	ShowSpots        bool   `json:"show_spots"`
	ShowAttending    bool   `json:"show_attending"`
	ChatID           int64  `json:"chat_id"`
	LastBotMessageID int    `json:"last_bot_message_id"`
}

// Draft lifts the scratch content into a renderable draft.
func (c *AnnouncementContext) Draft() AnnouncementDraft {
	return AnnouncementDraft{
		Text:          c.Text,
		ShowSpots:     c.ShowSpots,
		ShowAttending: c.ShowAttending,
	}
}

// ToMap converts the context to a map for JSON serialization.
func (c *AnnouncementContext) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"event_id":            c.EventID,
		"text":                c.Text,
		"show_spots":          c.ShowSpots,
		"show_attending":      c.ShowAttending,
		"chat_id":             c.ChatID,
		"last_bot_message_id": c.LastBotMessageID,
	}
}

// FromMap populates the context from a map after JSON deserialization.
func (c *AnnouncementContext) FromMap(data map[string]interface{}) error {
	if data == nil {
		return ErrInvalidContextData
	}

	c.EventID = int64FromAny(data["event_id"])
	if text, ok := data["text"].(string); ok {
		c.Text = text
	}
	if showSpots, ok := data["show_spots"].(bool); ok {
		c.ShowSpots = showSpots
	}
	if showAttending, ok := data["show_attending"].(bool); ok {
		c.ShowAttending = showAttending
	}
	c.ChatID = int64FromAny(data["chat_id"])
	c.LastBotMessageID = intFromAny(data["last_bot_message_id"])

	return nil
}
