package domain

import (
	"strings"
	"testing"

	"github.com/victoria-pups/event-bot/internal/locale"
)

func newTestRenderer(t *testing.T) *AnnouncementRenderer {
	t.Helper()
	localizer, err := locale.NewLocalizer(locale.NewLocale("en"))
	if err != nil {
		t.Fatalf("failed to create localizer: %v", err)
	}
	return NewAnnouncementRenderer(localizer)
}

const testRSVPLink = "https://t.me/test_bot?start=rsvp_0001"

func TestRenderWithCapacityAndBothMetrics(t *testing.T) {
	r := newTestRenderer(t)

	e := newTestEvent(10)
	_ = e.SetResponse(1, CategoryAttending)
	_ = e.SetResponse(2, CategoryAttending)
	_ = e.SetResponse(3, CategoryAttending)

	draft := AnnouncementDraft{Text: "Picnic on Saturday!", ShowSpots: true, ShowAttending: true}
	got := r.Render(e, draft, testRSVPLink)

	want := "Picnic on Saturday!\n\n" +
		"Spots remaining: 7\n" +
		"Number attending: 3\n" +
		"\n" +
		"In order to RSVP you must first message the bot: " + testRSVPLink + "\n"
	if got != want {
		t.Errorf("unexpected render output:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestRenderWithoutCapacitySkipsSpots(t *testing.T) {
	r := newTestRenderer(t)

	e := newTestEvent(0)
	_ = e.SetResponse(1, CategoryAttending)

	// ShowSpots is meaningless without capacity and must not leak a line
	draft := AnnouncementDraft{Text: "Open mic night", ShowSpots: true, ShowAttending: true}
	got := r.Render(e, draft, testRSVPLink)

	if strings.Contains(got, "Spots remaining") {
		t.Errorf("uncapped event must not render a spots line:\n%q", got)
	}
	if !strings.Contains(got, "Number attending: 1") {
		t.Errorf("expected attending line in:\n%q", got)
	}
}

func TestRenderNoMetrics(t *testing.T) {
	r := newTestRenderer(t)

	e := newTestEvent(5)
	draft := AnnouncementDraft{Text: "Quiet announcement"}
	got := r.Render(e, draft, testRSVPLink)

	want := "Quiet announcement\n\n\n" +
		"In order to RSVP you must first message the bot: " + testRSVPLink + "\n"
	if got != want {
		t.Errorf("unexpected render output:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestRenderClampsNegativeSpots(t *testing.T) {
	r := newTestRenderer(t)

	e := newTestEvent(1)
	_ = e.SetResponse(1, CategoryAttending)
	_ = e.SetResponse(2, CategoryAttending)

	if e.SpotsRemaining() != -1 {
		t.Fatalf("expected oversubscribed event, got spots %d", e.SpotsRemaining())
	}

	draft := AnnouncementDraft{Text: "Tiny venue", ShowSpots: true}
	got := r.Render(e, draft, testRSVPLink)

	if !strings.Contains(got, "Spots remaining: 0") {
		t.Errorf("display must clamp negative spots at zero:\n%q", got)
	}
}

// TestRenderTracksLiveRoster verifies that re-rendering the same draft
// picks up roster changes, which is what keeps previews fresh.
func TestRenderTracksLiveRoster(t *testing.T) {
	r := newTestRenderer(t)

	e := newTestEvent(10)
	draft := AnnouncementDraft{Text: "Bring snacks", ShowSpots: true, ShowAttending: true}

	before := r.Render(e, draft, testRSVPLink)
	_ = e.SetResponse(42, CategoryAttending)
	after := r.Render(e, draft, testRSVPLink)

	if before == after {
		t.Error("render output must change when the roster changes")
	}
	if !strings.Contains(after, "Number attending: 1") {
		t.Errorf("expected updated attending count in:\n%q", after)
	}
}

func TestDraftFromNilAnnouncement(t *testing.T) {
	draft := DraftFrom(nil)
	if draft.Text != "" || draft.ShowSpots || draft.ShowAttending {
		t.Errorf("nil announcement must produce a zero draft, got %+v", draft)
	}
}
