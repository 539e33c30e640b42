package logger

import "strings"

// normalizeLevel maps level names onto DEBUG, INFO, WARN, ERROR or FATAL.
// Other values (such as slog's "INFO+2") are upper-cased.
func normalizeLevel(level string) string {
	switch l := strings.ToLower(strings.TrimSpace(level)); l {
	case "":
		return "INFO"
	case "warning":
		return "WARN"
	default:
		return strings.ToUpper(l)
	}
}

// normalizeStatus lower-cases status and reports whether it is one of
// ok, fail, skip or cancelled.
func normalizeStatus(status string) (string, bool) {
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case "ok", "fail", "skip", "cancelled":
		return status, true
	}
	return status, false
}

// normalizeOutcome lower-cases outcome; only ok, fail, ignored and
// cancelled are valid.
func normalizeOutcome(outcome string) (string, bool) {
	outcome = strings.ToLower(strings.TrimSpace(outcome))
	switch outcome {
	case "ok", "fail", "ignored", "cancelled":
		return outcome, true
	}
	return "", false
}

// defaultKeyOrder fixes the position of well-known keys in every line.
var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"rid_full",
	"ts_unix_nano",
	"instance_id",
	"update_id",
	"user_id",
	"chat_id",
	"chat_type",
	"handler",
	"action",
	"cb_key",
	"outcome",
	"operator_id",
	"target_id",
	"session",
	"ttl_ms",
	"expires_in_ms",
	"duration_ms",
	"payload",
	"lang",
	"username",
	"mode",
	"listen",
	"public_url",
	"endpoint",
	"http_code",
	"err",
	"err_code",
	"error_kind",
	"cause",
	"retryable",
	"commands",
}
