package domain

// SetResponse records a participant's RSVP on the event. The participant is
// first removed from all three rosters, then appended to the chosen one, so
// the "at most one category per participant" invariant holds after every
// call. Callers must run this inside the store's per-event critical section.
func (e *Event) SetResponse(userID int64, category RSVPCategory) error {
	if _, err := ParseCategory(string(category)); err != nil {
		return err
	}
	e.removeResponse(userID)
	switch category {
	case CategoryAttending:
		e.Attending = append(e.Attending, userID)
	case CategoryMaybe:
		e.Maybe = append(e.Maybe, userID)
	case CategoryDeclined:
		e.Declined = append(e.Declined, userID)
	}
	return nil
}

// removeResponse drops the participant from every roster, preserving order.
func (e *Event) removeResponse(userID int64) {
	e.Attending = removeID(e.Attending, userID)
	e.Maybe = removeID(e.Maybe, userID)
	e.Declined = removeID(e.Declined, userID)
}

func removeID(ids []int64, userID int64) []int64 {
	for i, id := range ids {
		if id == userID {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}

// ResponseFor returns the participant's current category, if any.
func (e *Event) ResponseFor(userID int64) (RSVPCategory, bool) {
	for _, id := range e.Attending {
		if id == userID {
			return CategoryAttending, true
		}
	}
	for _, id := range e.Maybe {
		if id == userID {
			return CategoryMaybe, true
		}
	}
	for _, id := range e.Declined {
		if id == userID {
			return CategoryDeclined, true
		}
	}
	return "", false
}

// Roster returns a copy of the roster for the given category.
func (e *Event) Roster(category RSVPCategory) []int64 {
	var src []int64
	switch category {
	case CategoryAttending:
		src = e.Attending
	case CategoryMaybe:
		src = e.Maybe
	case CategoryDeclined:
		src = e.Declined
	}
	out := make([]int64, len(src))
	copy(out, src)
	return out
}

// SpotsRemaining is capacity minus the attending count. It goes negative
// when attendance exceeds capacity; clamping is a display concern. For
// events without a capacity it has no meaning and returns 0.
func (e *Event) SpotsRemaining() int {
	if !e.HasCapacity() {
		return 0
	}
	return e.Capacity - len(e.Attending)
}

// Waitlist is the capacity-aware view of the attending roster: everyone
// past the first Capacity responders, in response order. It is computed,
// never stored, so it can never drift from the roster itself.
func (e *Event) Waitlist() []int64 {
	if !e.HasCapacity() || len(e.Attending) <= e.Capacity {
		return nil
	}
	out := make([]int64, len(e.Attending)-e.Capacity)
	copy(out, e.Attending[e.Capacity:])
	return out
}

// IsWaitlisted reports whether the participant's attending response landed
// past capacity.
func (e *Event) IsWaitlisted(userID int64) bool {
	for _, id := range e.Waitlist() {
		if id == userID {
			return true
		}
	}
	return false
}
