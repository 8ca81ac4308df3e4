package domain

import (
	"strconv"
	"strings"

	"github.com/victoria-pups/event-bot/internal/locale"
)

// AnnouncementDraft is the scratch content of an announcement being
// composed or previewed. It mirrors the persisted Announcement minus the
// message id.
type AnnouncementDraft struct {
	Text          string `json:"text"`
	ShowSpots     bool   `json:"show_spots"`
	ShowAttending bool   `json:"show_attending"`
}

// DraftFrom lifts a stored announcement back into a draft for re-editing.
func DraftFrom(a *Announcement) AnnouncementDraft {
	if a == nil {
		return AnnouncementDraft{}
	}
	return AnnouncementDraft{
		Text:          a.Text,
		ShowSpots:     a.ShowSpots,
		ShowAttending: a.ShowAttending,
	}
}

// AnnouncementRenderer composes announcement text for previews and posts.
type AnnouncementRenderer struct {
	localizer locale.Localizer
}

// NewAnnouncementRenderer creates a renderer over the given localizer.
func NewAnnouncementRenderer(localizer locale.Localizer) *AnnouncementRenderer {
	return &AnnouncementRenderer{
		localizer: localizer,
	}
}

// Render produces the full announcement body: the admin's text, the metric
// lines selected by the draft flags, and the RSVP call to action carrying
// the deep link. It reads the live rosters on every call so the attendee
// figures are never stale; callers must not cache the result across RSVP
// changes. Spots remaining is clamped at zero for display, the domain value
// itself may be negative.
func (r *AnnouncementRenderer) Render(e *Event, draft AnnouncementDraft, rsvpLink string) string {
	var sb strings.Builder
	sb.WriteString(draft.Text)
	sb.WriteString("\n\n")

	attending := len(e.Attending)
	if e.HasCapacity() {
		if draft.ShowSpots {
			spots := e.SpotsRemaining()
			if spots < 0 {
				spots = 0
			}
			sb.WriteString(r.localizer.MustLocalizeWithTemplate(locale.SpotsRemainingLine, strconv.Itoa(spots)))
			sb.WriteString("\n")
		}
		if draft.ShowAttending {
			sb.WriteString(r.localizer.MustLocalizeWithTemplate(locale.NumberAttendingLine, strconv.Itoa(attending)))
			sb.WriteString("\n")
		}
	} else if draft.ShowAttending {
		sb.WriteString(r.localizer.MustLocalizeWithTemplate(locale.NumberAttendingLine, strconv.Itoa(attending)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(r.localizer.MustLocalizeWithTemplate(locale.RSVPCallToAction, rsvpLink))
	sb.WriteString("\n")

	return sb.String()
}
