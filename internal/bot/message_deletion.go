package bot

import (
	"context"
	"strings"
	"time"

	"github.com/victoria-pups/event-bot/internal/domain"

	"github.com/go-telegram/bot"
)

// MessageDeleter is an interface for deleting messages (for testing)
type MessageDeleter interface {
	DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error)
}

// deleteMessages attempts to delete multiple messages from a chat.
// Deletion is best effort: "message not found" and "message too old"
// errors are logged and ignored, rate limit errors trigger one retry
// after a second, and nothing here ever interrupts a dialog flow.
func deleteMessages(ctx context.Context, b MessageDeleter, logger domain.Logger, chatID int64, messageIDs ...int) {
	for _, messageID := range messageIDs {
		if messageID == 0 {
			continue
		}
		err := deleteMessageWithRetry(ctx, b, logger, chatID, messageID)
		if err != nil {
			logger.Warn("message deletion failed",
				"chat_id", chatID,
				"message_id", messageID,
				"error", err.Error())
		} else {
			logger.Debug("message deleted",
				"chat_id", chatID,
				"message_id", messageID)
		}
	}
}

// deleteMessageWithRetry attempts to delete a single message with retry logic for rate limits
func deleteMessageWithRetry(ctx context.Context, b MessageDeleter, logger domain.Logger, chatID int64, messageID int) error {
	_, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})

	if err == nil {
		return nil
	}

	if isRateLimitError(err) {
		logger.Info("rate limit hit, retrying after 1 second",
			"chat_id", chatID,
			"message_id", messageID)

		time.Sleep(1 * time.Second)

		_, retryErr := b.DeleteMessage(ctx, &bot.DeleteMessageParams{
			ChatID:    chatID,
			MessageID: messageID,
		})
		return retryErr
	}

	if isMessageNotFoundError(err) {
		logger.Info("message not found (may have been manually deleted)",
			"chat_id", chatID,
			"message_id", messageID)
		return err
	}

	if isMessageTooOldError(err) {
		logger.Info("message too old to delete",
			"chat_id", chatID,
			"message_id", messageID)
		return err
	}

	return err
}

// isRateLimitError checks if the error is a rate limit error
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Too Many Requests") || strings.Contains(errStr, "retry after")
}

// isMessageNotFoundError checks if the error is a "message not found" error
func isMessageNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "message to delete not found") ||
		strings.Contains(errStr, "message not found") ||
		strings.Contains(errStr, "MESSAGE_ID_INVALID")
}

// isMessageTooOldError checks if the error is a "message too old" error
func isMessageTooOldError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "message can't be deleted") ||
		strings.Contains(errStr, "message is too old") ||
		strings.Contains(errStr, "MESSAGE_DELETE_FORBIDDEN")
}
