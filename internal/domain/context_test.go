package domain

import (
	"encoding/json"
	"testing"
)

// roundTrip pushes a context map through JSON, the way session storage does
func roundTrip(t *testing.T, data map[string]interface{}) map[string]interface{} {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	return out
}

func TestEventDraftContextRoundTrip(t *testing.T) {
	original := &EventDraftContext{
		Name:             "Board Games",
		Start:            "18:00 12/09/2026",
		End:              "23:00 12/09/2026",
		Capacity:         12,
		ChatID:           -100123,
		LastBotMessageID: 55,
	}

	restored := &EventDraftContext{}
	if err := restored.FromMap(roundTrip(t, original.ToMap())); err != nil {
		t.Fatalf("FromMap failed: %v", err)
	}

	if *restored != *original {
		t.Errorf("round trip mismatch:\ngot:  %+v\nwant: %+v", restored, original)
	}
}

func TestEventDraftContextFromNilMap(t *testing.T) {
	c := &EventDraftContext{}
	if err := c.FromMap(nil); err != ErrInvalidContextData {
		t.Errorf("expected ErrInvalidContextData, got %v", err)
	}
}

func TestEventDraftToEventHasEmptyRosters(t *testing.T) {
	c := &EventDraftContext{Name: "Picnic", Capacity: 3}
	e := c.ToEvent()

	if e.Attending == nil || e.Maybe == nil || e.Declined == nil {
		t.Error("rosters must be non-nil on a fresh event")
	}
	if len(e.Attending)+len(e.Maybe)+len(e.Declined) != 0 {
		t.Error("fresh event must have empty rosters")
	}
	if e.Name != "Picnic" || e.Capacity != 3 {
		t.Errorf("unexpected event %+v", e)
	}
}

func TestAnnouncementContextRoundTrip(t *testing.T) {
	original := &AnnouncementContext{
		EventID:          7,
		Text:             "Party time",
		ShowSpots:        true,
		ShowAttending:    false,
		ChatID:           99,
		LastBotMessageID: 3,
	}

	restored := &AnnouncementContext{}
	if err := restored.FromMap(roundTrip(t, original.ToMap())); err != nil {
		t.Fatalf("FromMap failed: %v", err)
	}

	if *restored != *original {
		t.Errorf("round trip mismatch:\ngot:  %+v\nwant: %+v", restored, original)
	}
}

func TestBroadcastContextToggle(t *testing.T) {
	c := &BroadcastContext{}

	c.Toggle(CategoryMaybe)
	c.Toggle(CategoryAttending)
	if !c.IsSelected(CategoryMaybe) || !c.IsSelected(CategoryAttending) {
		t.Error("both toggled categories must be selected")
	}

	c.Toggle(CategoryMaybe)
	if c.IsSelected(CategoryMaybe) {
		t.Error("toggling twice must deselect")
	}

	// Canonical order regardless of toggle order
	c.Toggle(CategoryDeclined)
	got := c.SelectedCategories()
	if len(got) != 2 || got[0] != CategoryAttending || got[1] != CategoryDeclined {
		t.Errorf("expected [attending declined], got %v", got)
	}
}

func TestBroadcastContextRoundTrip(t *testing.T) {
	original := &BroadcastContext{
		EventID:          4,
		Selected:         []string{string(CategoryAttending), string(CategoryMaybe)},
		Recipients:       []int64{1, 2, 3},
		ChatID:           10,
		LastBotMessageID: 8,
	}

	restored := &BroadcastContext{}
	if err := restored.FromMap(roundTrip(t, original.ToMap())); err != nil {
		t.Fatalf("FromMap failed: %v", err)
	}

	if restored.EventID != original.EventID || restored.ChatID != original.ChatID ||
		restored.LastBotMessageID != original.LastBotMessageID {
		t.Errorf("scalar fields mismatch: %+v", restored)
	}
	if len(restored.Selected) != 2 || restored.Selected[0] != "attending" {
		t.Errorf("unexpected selected %v", restored.Selected)
	}
	if len(restored.Recipients) != 3 || restored.Recipients[2] != 3 {
		t.Errorf("unexpected recipients %v", restored.Recipients)
	}
}
