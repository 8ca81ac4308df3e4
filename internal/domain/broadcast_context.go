package domain

// BroadcastContext holds scratch data during the attendee broadcast dialog.
// Recipients stays nil until the category selection is confirmed; from that
// point it is the frozen snapshot the message goes to.
type BroadcastContext struct {
	EventID          int64    `json:"event_id"`
	Selected         []string `json:"selected"`
	Recipients       []int64  `json:"recipients"`
	ChatID           int64    `json:"chat_id"`
	LastBotMessageID int      `json:"last_bot_message_id"`
}

// Toggle flips a category in or out of the selection.
func (c *BroadcastContext) Toggle(category RSVPCategory) {
	for i, s := range c.Selected {
		if s == string(category) {
			c.Selected = append(c.Selected[:i:i], c.Selected[i+1:]...)
			return
		}
	}
	c.Selected = append(c.Selected, string(category))
}

// IsSelected reports whether a category is currently toggled on.
func (c *BroadcastContext) IsSelected(category RSVPCategory) bool {
	for _, s := range c.Selected {
		if s == string(category) {
			return true
		}
	}
	return false
}

// SelectedCategories returns the selection as typed categories, in the
// canonical category order.
func (c *BroadcastContext) SelectedCategories() []RSVPCategory {
	var out []RSVPCategory
	for _, cat := range AllCategories() {
		if c.IsSelected(cat) {
			out = append(out, cat)
		}
	}
	return out
}

// ToMap converts the context to a map for JSON serialization.
func (c *BroadcastContext) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"event_id":            c.EventID,
		"selected":            c.Selected,
		"recipients":          c.Recipients,
		"chat_id":             c.ChatID,
		"last_bot_message_id": c.LastBotMessageID,
	}
}

// FromMap populates the context from a map after JSON deserialization.
func (c *BroadcastContext) FromMap(data map[string]interface{}) error {
	if data == nil {
		return ErrInvalidContextData
	}

	c.EventID = int64FromAny(data["event_id"])
	if selected, ok := data["selected"].([]interface{}); ok {
		c.Selected = make([]string, 0, len(selected))
		for _, s := range selected {
			if str, ok := s.(string); ok {
				c.Selected = append(c.Selected, str)
			}
		}
	}
	if recipients, ok := data["recipients"].([]interface{}); ok {
		c.Recipients = make([]int64, 0, len(recipients))
		for _, r := range recipients {
			c.Recipients = append(c.Recipients, int64FromAny(r))
		}
	}
	c.ChatID = int64FromAny(data["chat_id"])
	c.LastBotMessageID = intFromAny(data["last_bot_message_id"])

	return nil
}
