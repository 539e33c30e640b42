package callbacks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	tests := []struct {
		name    string
		cb      *tele.Callback
		key     string
		payload string
	}{
		{name: "nil", cb: nil},
		{name: "raw relay data", cb: &tele.Callback{Data: "reply:42"}, key: "reply:42"},
		{name: "encoded unique with payload", cb: &tele.Callback{Data: "\fconfirm|yes"}, key: "confirm", payload: "yes"},
		{name: "encoded unique only", cb: &tele.Callback{Data: "\fconfirm"}, key: "confirm"},
		{name: "split by telebot", cb: &tele.Callback{Unique: "confirm", Data: "yes"}, key: "confirm", payload: "yes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, payload := ParseCallbackData(tt.cb)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.payload, payload)
		})
	}
}
