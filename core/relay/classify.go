package relay

import (
	"regexp"
	"strconv"
)

// ReplyPayloadPrefix starts every reply-select control payload.
const ReplyPayloadPrefix = "reply:"

var replyPayloadRe = regexp.MustCompile(`^reply:(\d+)$`)

// Action is what the relay does with an event.
type Action int

const (
	// ActionIgnore drops the event silently.
	ActionIgnore Action = iota
	// ActionUserMessage forwards a user's message to the operator.
	ActionUserMessage
	// ActionActivateReply opens a reply session for the selected user.
	ActionActivateReply
	// ActionOperatorMessage forwards the operator's message to the session target.
	ActionOperatorMessage
)

// String returns the action name used in logs.
func (a Action) String() string {
	switch a {
	case ActionUserMessage:
		return "user_message"
	case ActionActivateReply:
		return "activate_reply"
	case ActionOperatorMessage:
		return "operator_message"
	default:
		return "ignore"
	}
}

// Route is the outcome of classification.
type Route struct {
	Action Action
	// UserID is the selected user for ActionActivateReply.
	UserID int64
}

// Classify picks the action for ev, in priority order:
//  1. a control whose payload is reply:<digits> activates a reply, whoever pressed it;
//  2. a message from the operator is an operator message;
//  3. any other message is a user message.
//
// Everything else is ignored, including messages with no sender (such as
// channel posts), which can be attributed to neither side.
func Classify(ev Event, operatorID int64) Route {
	switch ev.Kind {
	case KindControl:
		if id, ok := ParseReplyPayload(ev.Payload); ok {
			return Route{Action: ActionActivateReply, UserID: id}
		}
	case KindMessage:
		if ev.Sender == nil {
			break
		}
		if ev.Sender.ID == operatorID {
			return Route{Action: ActionOperatorMessage}
		}
		return Route{Action: ActionUserMessage}
	}
	return Route{Action: ActionIgnore}
}

// ReplyPayload encodes the control payload that selects userID.
func ReplyPayload(userID int64) string {
	return ReplyPayloadPrefix + strconv.FormatInt(userID, 10)
}

// ParseReplyPayload decodes a reply:<digits> payload. Ids that overflow int64 are rejected.
func ParseReplyPayload(payload string) (int64, bool) {
	m := replyPayloadRe.FindStringSubmatch(payload)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
