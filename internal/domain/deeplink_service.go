package domain

import (
	"fmt"
	"strings"

	"github.com/victoria-pups/event-bot/internal/encoding"
)

// deepLinkAlphabet is URL-safe and unambiguous in t.me start parameters.
const deepLinkAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const rsvpStartPrefix = "rsvp_"

// DeepLinkService generates and parses the Telegram deep links embedded in
// announcement call-to-action lines. Event ids are base-N encoded so the
// start parameter stays short and opaque.
type DeepLinkService struct {
	botUsername string
	codec       *encoding.BaseNEncoder
}

// NewDeepLinkService creates a DeepLinkService for the given bot username.
func NewDeepLinkService(botUsername string) (*DeepLinkService, error) {
	codec, err := encoding.NewBaseNEncoder(deepLinkAlphabet)
	if err != nil {
		return nil, err
	}
	return &DeepLinkService{
		botUsername: botUsername,
		codec:       codec,
	}, nil
}

// RSVPLink returns a link that opens a private chat with the bot and hands
// it an encoded reference to the event.
// Format: https://t.me/{bot_username}?start=rsvp_{code}
func (s *DeepLinkService) RSVPLink(eventID int64) (string, error) {
	code, err := s.codec.Encode(eventID)
	if err != nil {
		return "", fmt.Errorf("encode event id %d: %w", eventID, err)
	}
	return fmt.Sprintf("https://t.me/%s?start=%s%s", s.botUsername, rsvpStartPrefix, code), nil
}

// ParseRSVPStart extracts the event id from a /start deep-link parameter.
// Returns an error when the parameter is not an RSVP link.
func (s *DeepLinkService) ParseRSVPStart(startParam string) (int64, error) {
	if !strings.HasPrefix(startParam, rsvpStartPrefix) {
		return 0, fmt.Errorf("not an rsvp start parameter: %q", startParam)
	}
	code := strings.TrimPrefix(startParam, rsvpStartPrefix)
	if code == "" {
		return 0, fmt.Errorf("rsvp start parameter is missing the event code")
	}
	eventID, err := s.codec.Decode(code)
	if err != nil {
		return 0, fmt.Errorf("decode event code %q: %w", code, err)
	}
	return eventID, nil
}
