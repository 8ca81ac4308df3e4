package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	TelegramToken    string
	EventAdminIDs    []int64
	AnnounceChatID   int64
	EventsFile       string
	SessionsDBPath   string
	LogLevel         string
	BroadcastTimeout time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN environment variable is required")
	}

	adminIDsStr := os.Getenv("EVENT_ADMIN_IDS")
	if adminIDsStr == "" {
		return nil, fmt.Errorf("EVENT_ADMIN_IDS environment variable is required")
	}
	adminIDs, err := parseAdminIDs(adminIDsStr)
	if err != nil {
		return nil, fmt.Errorf("invalid EVENT_ADMIN_IDS: %w", err)
	}

	announceChatStr := os.Getenv("ANNOUNCE_CHAT_ID")
	if announceChatStr == "" {
		return nil, fmt.Errorf("ANNOUNCE_CHAT_ID environment variable is required")
	}
	announceChatID, err := strconv.ParseInt(announceChatStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ANNOUNCE_CHAT_ID: %w", err)
	}

	eventsFile := os.Getenv("EVENTS_FILE")
	if eventsFile == "" {
		eventsFile = "./data/events.json" // default value
	}

	sessionsDBPath := os.Getenv("SESSIONS_DB_PATH")
	if sessionsDBPath == "" {
		sessionsDBPath = "./data/sessions.db" // default value
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO" // default value
	}

	broadcastTimeout := 5 * time.Second // default value
	if timeoutStr := os.Getenv("BROADCAST_TIMEOUT"); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid BROADCAST_TIMEOUT '%s': %w", timeoutStr, err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("invalid BROADCAST_TIMEOUT '%s': must be positive", timeoutStr)
		}
		broadcastTimeout = timeout
	}

	return &Config{
		TelegramToken:    token,
		EventAdminIDs:    adminIDs,
		AnnounceChatID:   announceChatID,
		EventsFile:       eventsFile,
		SessionsDBPath:   sessionsDBPath,
		LogLevel:         logLevel,
		BroadcastTimeout: broadcastTimeout,
	}, nil
}

// IsEventAdmin reports whether the user may manage events
func (c *Config) IsEventAdmin(userID int64) bool {
	for _, id := range c.EventAdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// parseAdminIDs parses comma-separated admin user IDs
func parseAdminIDs(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin ID '%s': %w", part, err)
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one admin ID is required")
	}

	return ids, nil
}
