package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		ev       Event
		operator int64
		want     Route
	}{
		{
			name:     "reply control from operator",
			ev:       Event{Kind: KindControl, Sender: &Sender{ID: 1}, Payload: "reply:42"},
			operator: 1,
			want:     Route{Action: ActionActivateReply, UserID: 42},
		},
		{
			name:     "reply control from anyone",
			ev:       Event{Kind: KindControl, Sender: &Sender{ID: 99}, Payload: "reply:42"},
			operator: 1,
			want:     Route{Action: ActionActivateReply, UserID: 42},
		},
		{
			name:     "malformed control",
			ev:       Event{Kind: KindControl, Sender: &Sender{ID: 1}, Payload: "reply:-42"},
			operator: 1,
			want:     Route{Action: ActionIgnore},
		},
		{
			name:     "control with trailing junk",
			ev:       Event{Kind: KindControl, Sender: &Sender{ID: 1}, Payload: "reply:42x"},
			operator: 1,
			want:     Route{Action: ActionIgnore},
		},
		{
			name:     "operator message",
			ev:       Event{Kind: KindMessage, Sender: &Sender{ID: 1}},
			operator: 1,
			want:     Route{Action: ActionOperatorMessage},
		},
		{
			name:     "operator id zero still routes to operator",
			ev:       Event{Kind: KindMessage, Sender: &Sender{ID: 0}},
			operator: 0,
			want:     Route{Action: ActionOperatorMessage},
		},
		{
			name:     "user message",
			ev:       Event{Kind: KindMessage, Sender: &Sender{ID: 42}},
			operator: 1,
			want:     Route{Action: ActionUserMessage},
		},
		{
			name:     "user message with unset operator",
			ev:       Event{Kind: KindMessage, Sender: &Sender{ID: 42}},
			operator: 0,
			want:     Route{Action: ActionUserMessage},
		},
		{
			name:     "message without sender under unset operator",
			ev:       Event{Kind: KindMessage},
			operator: 0,
			want:     Route{Action: ActionIgnore},
		},
		{
			name:     "message without sender",
			ev:       Event{Kind: KindMessage},
			operator: 1,
			want:     Route{Action: ActionIgnore},
		},
		{
			name:     "unknown kind",
			ev:       Event{Kind: KindUnknown, Sender: &Sender{ID: 42}},
			operator: 1,
			want:     Route{Action: ActionIgnore},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.ev, tt.operator))
		})
	}
}

func TestParseReplyPayload(t *testing.T) {
	tests := []struct {
		payload string
		id      int64
		ok      bool
	}{
		{"reply:42", 42, true},
		{"reply:0", 0, true},
		{"reply:007", 7, true},
		{"reply:", 0, false},
		{"reply:4 2", 0, false},
		{"Reply:42", 0, false},
		{"reply-select:42", 0, false},
		{"reply:99999999999999999999", 0, false},
		{"reply:٤٢", 0, false},
	}
	for _, tt := range tests {
		id, ok := ParseReplyPayload(tt.payload)
		assert.Equal(t, tt.ok, ok, tt.payload)
		assert.Equal(t, tt.id, id, tt.payload)
	}
}

func TestReplyPayloadRoundTrip(t *testing.T) {
	for _, id := range []int64{1, 42, 123456789012} {
		got, ok := ParseReplyPayload(ReplyPayload(id))
		assert.True(t, ok)
		assert.Equal(t, id, got)
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "User", DisplayName(nil))
	assert.Equal(t, "User", DisplayName(&Sender{ID: 1}))
	assert.Equal(t, "Ana", DisplayName(&Sender{FirstName: "Ana"}))
	assert.Equal(t, "Ana Lima", DisplayName(&Sender{FirstName: "Ana", LastName: "Lima"}))
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "ignore", ActionIgnore.String())
	assert.Equal(t, "user_message", ActionUserMessage.String())
	assert.Equal(t, "activate_reply", ActionActivateReply.String())
	assert.Equal(t, "operator_message", ActionOperatorMessage.String())
}
