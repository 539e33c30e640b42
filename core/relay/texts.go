package relay

import (
	"fmt"
	"time"
)

// Fixed texts sent to chat participants.
const (
	ExpiredNotice    = "⏰ Reply session expired."
	NoSessionNotice  = "No active reply session."
	OperatorGreeting = "✅ Bot is running!\nYou're the admin."
	UserGreeting     = "Hello! Send your message and the admin will reply."
)

// ActivatedNotice confirms a new reply session (Markdown).
func ActivatedNotice(userID int64, ttl time.Duration) string {
	return fmt.Sprintf("✅ Reply mode activated for User ID `%d` (valid %s)", userID, humanTTL(ttl))
}

// SentNotice confirms delivery of an operator message.
func SentNotice(userID int64) string {
	return fmt.Sprintf("✅ Sent to user %d", userID)
}

// StatusNotice describes an active session (plain text).
func StatusNotice(userID int64, remaining time.Duration) string {
	return fmt.Sprintf("↩️ Replying to user %d, %s left.", userID, remaining.Round(time.Second))
}

func humanTTL(ttl time.Duration) string {
	if ttl >= time.Minute && ttl%time.Minute == 0 {
		return fmt.Sprintf("%d mins", int(ttl/time.Minute))
	}
	return ttl.String()
}
