package domain

import "testing"

func TestValidateEventDate(t *testing.T) {
	valid := []string{
		"18:00 12/09/2026",
		"00:00 01/01/2000",
		"99:99 31/02/2026", // pattern match only, no calendar check
	}
	for _, s := range valid {
		if err := ValidateEventDate(s); err != nil {
			t.Errorf("expected %q to validate, got %v", s, err)
		}
	}

	invalid := []string{
		"",
		"18:00",
		"12/09/2026 18:00",
		"18:00  12/09/2026",
		"8:00 12/09/2026",
		"18:00 12-09-2026",
		"18:00 12/09/26",
		" 18:00 12/09/2026",
		"18:00 12/09/2026 ",
	}
	for _, s := range invalid {
		if err := ValidateEventDate(s); err != ErrInvalidDate {
			t.Errorf("expected %q to fail with ErrInvalidDate, got %v", s, err)
		}
	}
}

func TestParseCapacity(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"10", 10, true},
		{" 3 ", 3, true},
		{"1", 1, true},
		{"0", 0, false},
		{"-5", 0, false},
		{"ten", 0, false},
		{"3.5", 0, false},
		{"", 0, false},
		{"10 people", 0, false},
	}

	for _, tc := range cases {
		got, err := ParseCapacity(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Errorf("ParseCapacity(%q) = %d, %v; want %d", tc.in, got, err, tc.want)
			}
		} else if err != ErrInvalidCapacity {
			t.Errorf("ParseCapacity(%q) expected ErrInvalidCapacity, got %d, %v", tc.in, got, err)
		}
	}
}

func TestParseCategory(t *testing.T) {
	for _, category := range AllCategories() {
		got, err := ParseCategory(string(category))
		if err != nil || got != category {
			t.Errorf("ParseCategory(%q) = %q, %v", category, got, err)
		}
	}

	if _, err := ParseCategory("interested"); err != ErrInvalidCategory {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestAnnouncementPosted(t *testing.T) {
	var none *Announcement
	if none.Posted() {
		t.Error("nil announcement must not be posted")
	}
	if (&Announcement{Text: "x"}).Posted() {
		t.Error("saved announcement without message id must not be posted")
	}
	if !(&Announcement{Text: "x", MessageID: 5}).Posted() {
		t.Error("announcement with message id must be posted")
	}
}

func TestEventCloneIsDeep(t *testing.T) {
	e := newTestEvent(2)
	_ = e.SetResponse(1, CategoryAttending)
	e.Announcement = &Announcement{Text: "hi"}

	clone := e.Clone()
	clone.Attending[0] = 999
	clone.Announcement.Text = "changed"

	if e.Attending[0] != 1 {
		t.Error("clone must not share roster backing arrays")
	}
	if e.Announcement.Text != "hi" {
		t.Error("clone must not share the announcement")
	}
}
