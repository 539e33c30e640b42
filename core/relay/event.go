package relay

import "strings"

// Kind tells plain messages apart from button presses.
type Kind int

const (
	// KindUnknown is any update the relay does not handle.
	KindUnknown Kind = iota
	// KindMessage is a plain chat message of any content type.
	KindMessage
	// KindControl is an inline button press carrying a payload.
	KindControl
)

// Sender identifies who produced an event.
type Sender struct {
	ID        int64
	FirstName string
	LastName  string
}

// MessageRef points at a message in a chat.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Event is one inbound update, reduced to what the relay needs.
// For controls, Message is the notification the button is attached to.
type Event struct {
	Kind    Kind
	Sender  *Sender
	Message MessageRef
	Payload string
}

// SenderID returns the sender's id, or 0 when the sender is unknown.
func (e Event) SenderID() int64 {
	if e.Sender == nil {
		return 0
	}
	return e.Sender.ID
}

// DisplayName renders "First Last", "First", or "User" when no name is known.
func DisplayName(s *Sender) string {
	if s == nil || strings.TrimSpace(s.FirstName) == "" {
		return "User"
	}
	name := s.FirstName
	if s.LastName != "" {
		name += " " + s.LastName
	}
	return name
}
