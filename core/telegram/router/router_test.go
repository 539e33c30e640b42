package router

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/relaybot/core/relay"
	"github.com/m3rciful/relaybot/core/session"
	tg "github.com/m3rciful/relaybot/core/telegram"
)

const operatorID int64 = 1000

type fakeContext struct {
	tele.Context
	update    tele.Update
	store     map[string]interface{}
	sent      []interface{}
	responded int
}

func (f *fakeContext) Update() tele.Update { return f.update }

func (f *fakeContext) Message() *tele.Message {
	if f.update.Callback != nil {
		return f.update.Callback.Message
	}
	return f.update.Message
}

func (f *fakeContext) Callback() *tele.Callback { return f.update.Callback }

func (f *fakeContext) Sender() *tele.User {
	if f.update.Callback != nil {
		return f.update.Callback.Sender
	}
	if f.update.Message != nil {
		return f.update.Message.Sender
	}
	return nil
}

func (f *fakeContext) Chat() *tele.Chat {
	if m := f.Message(); m != nil {
		return m.Chat
	}
	return nil
}

func (f *fakeContext) Text() string {
	if f.update.Message != nil {
		return f.update.Message.Text
	}
	return ""
}

func (f *fakeContext) Get(key string) interface{}      { return f.store[key] }
func (f *fakeContext) Set(key string, val interface{}) { f.store[key] = val }

func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	f.sent = append(f.sent, what)
	return nil
}

func (f *fakeContext) Respond(_ ...*tele.CallbackResponse) error {
	f.responded++
	return nil
}

func messageContext(updateID int, from *tele.User, msgID int, text string) *fakeContext {
	return &fakeContext{
		update: tele.Update{ID: updateID, Message: &tele.Message{
			ID:     msgID,
			Sender: from,
			Chat:   &tele.Chat{ID: from.ID, Type: tele.ChatPrivate},
			Text:   text,
		}},
		store: map[string]interface{}{},
	}
}

func callbackContext(updateID int, from *tele.User, data string, notificationID int) *fakeContext {
	return &fakeContext{
		update: tele.Update{ID: updateID, Callback: &tele.Callback{
			ID:     "cb1",
			Sender: from,
			Data:   data,
			Message: &tele.Message{
				ID:   notificationID,
				Chat: &tele.Chat{ID: operatorID, Type: tele.ChatPrivate},
			},
		}},
		store: map[string]interface{}{},
	}
}

type outCall struct {
	method  string
	to      int64
	msg     relay.MessageRef
	text    string
	control *relay.Control
}

type recordingOutbox struct{ calls []outCall }

func (o *recordingOutbox) Copy(_ context.Context, msg relay.MessageRef, to int64) error {
	o.calls = append(o.calls, outCall{method: "copy", to: to, msg: msg})
	return nil
}

func (o *recordingOutbox) Notify(_ context.Context, to int64, text string, control *relay.Control) error {
	o.calls = append(o.calls, outCall{method: "notify", to: to, text: text, control: control})
	return nil
}

func (o *recordingOutbox) Edit(_ context.Context, msg relay.MessageRef, text string) error {
	o.calls = append(o.calls, outCall{method: "edit", msg: msg, text: text})
	return nil
}

func (o *recordingOutbox) Reply(_ context.Context, msg relay.MessageRef, text string) error {
	o.calls = append(o.calls, outCall{method: "reply", msg: msg, text: text})
	return nil
}

type fixture struct {
	relay *relay.Relay
	store *session.Store
	out   *recordingOutbox
	opts  RelayOptions
	now   time.Time
}

func newFixture() *fixture {
	f := &fixture{out: &recordingOutbox{}, now: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
	f.store = session.NewStore(session.WithClock(func() time.Time { return f.now }))
	f.relay = relay.New(relay.Config{OperatorID: operatorID, ReplyTTL: 10 * time.Minute}, f.store)
	f.opts = RelayOptions{Outbox: func(tele.Context) relay.Outbox { return f.out }}
	return f
}

var (
	ana      = &tele.User{ID: 42, FirstName: "Ana"}
	operator = &tele.User{ID: operatorID, FirstName: "Op"}
)

func TestMessageRoutesCoverEveryEndpoint(t *testing.T) {
	f := newFixture()
	routes := MessageRoutes(f.relay, f.opts)
	require.Len(t, routes, len(MessageEndpoints))
	seen := map[interface{}]bool{}
	for _, r := range routes {
		assert.NotNil(t, r.Handler)
		seen[r.Endpoint] = true
	}
	assert.True(t, seen[tele.OnText])
	assert.True(t, seen[tele.OnPhoto])
	assert.True(t, seen[tele.OnSticker])
}

func TestRelayFlowEndToEnd(t *testing.T) {
	f := newFixture()
	handler := RelayHandler(f.relay, f.opts)
	cbRoute := CallbackRoute(f.relay, f.opts)

	// User message reaches the operator with a reply button.
	require.NoError(t, handler(messageContext(1, ana, 5, "hello")))
	require.Len(t, f.out.calls, 2)
	assert.Equal(t, outCall{method: "copy", to: operatorID, msg: relay.MessageRef{ChatID: 42, MessageID: 5}}, f.out.calls[0])
	require.NotNil(t, f.out.calls[1].control)
	assert.Equal(t, "reply:42", f.out.calls[1].control.Payload)

	// Pressing the button opens a session and edits the notification.
	f.out.calls = nil
	cb := callbackContext(2, operator, "reply:42", 77)
	require.NoError(t, cbRoute.Handler(cb))
	assert.Equal(t, 1, cb.responded)
	require.Len(t, f.out.calls, 1)
	assert.Equal(t, "edit", f.out.calls[0].method)
	assert.Equal(t, relay.MessageRef{ChatID: operatorID, MessageID: 77}, f.out.calls[0].msg)

	// The operator's next message goes to the user.
	f.out.calls = nil
	f.now = f.now.Add(time.Minute)
	require.NoError(t, handler(messageContext(3, operator, 9, "hi Ana")))
	require.Len(t, f.out.calls, 2)
	assert.Equal(t, outCall{method: "copy", to: 42, msg: relay.MessageRef{ChatID: operatorID, MessageID: 9}}, f.out.calls[0])
	assert.Equal(t, "✅ Sent to user 42", f.out.calls[1].text)

	// After the TTL the operator is told the session expired.
	f.out.calls = nil
	f.now = f.now.Add(10 * time.Minute)
	require.NoError(t, handler(messageContext(4, operator, 10, "still there?")))
	require.Len(t, f.out.calls, 1)
	assert.Equal(t, relay.ExpiredNotice, f.out.calls[0].text)
	assert.Zero(t, f.store.Len())
}

func TestCallbackWithUnknownPayloadIsAcknowledgedAndIgnored(t *testing.T) {
	f := newFixture()
	cb := callbackContext(1, operator, "something:else", 77)
	require.NoError(t, CallbackRoute(f.relay, f.opts).Handler(cb))
	assert.Equal(t, 1, cb.responded)
	assert.Empty(t, f.out.calls)
}

func TestEventFromContext(t *testing.T) {
	ev := eventFromContext(messageContext(1, &tele.User{ID: 7, FirstName: "Jo", LastName: "Ray"}, 3, "x"))
	assert.Equal(t, relay.KindMessage, ev.Kind)
	assert.Equal(t, relay.MessageRef{ChatID: 7, MessageID: 3}, ev.Message)
	require.NotNil(t, ev.Sender)
	assert.Equal(t, "Jo Ray", relay.DisplayName(ev.Sender))

	ev = eventFromContext(callbackContext(2, operator, "reply:7", 11))
	assert.Equal(t, relay.KindControl, ev.Kind)
	assert.Equal(t, "reply:7", ev.Payload)
	assert.Equal(t, relay.MessageRef{ChatID: operatorID, MessageID: 11}, ev.Message)

	ev = eventFromContext(&fakeContext{store: map[string]interface{}{}})
	assert.Equal(t, relay.KindUnknown, ev.Kind)
	assert.Nil(t, ev.Sender)
}

func commandHandler(t *testing.T, routes []tg.Route, name string) tele.HandlerFunc {
	t.Helper()
	for _, r := range routes {
		if r.Endpoint == name {
			return r.Handler
		}
	}
	t.Fatalf("no route for %s", name)
	return nil
}

func TestCommands(t *testing.T) {
	f := newFixture()
	reg := tg.NewRegistry()
	RegisterRelayCommands(reg, f.relay)
	routes := CommandRoutes(reg, CommandRouteOptions{
		AdminID:       operatorID,
		OnAdminReject: RelayHandler(f.relay, f.opts),
	})
	require.Len(t, routes, 2)
	assert.Equal(t, []tele.Command{{Text: "/start", Description: "Start the bot"}}, reg.ListCommands(true))

	start := commandHandler(t, routes, "/start")
	status := commandHandler(t, routes, "/status")

	c := messageContext(1, operator, 1, "/start")
	require.NoError(t, start(c))
	assert.Equal(t, []interface{}{relay.OperatorGreeting}, c.sent)

	c = messageContext(2, ana, 2, "/start")
	require.NoError(t, start(c))
	assert.Equal(t, []interface{}{relay.UserGreeting}, c.sent)
	assert.Empty(t, f.out.calls)

	c = messageContext(3, operator, 3, "/status")
	require.NoError(t, status(c))
	assert.Equal(t, []interface{}{relay.NoSessionNotice}, c.sent)

	// A user's /status is relayed like any other message.
	c = messageContext(4, ana, 4, "/status")
	require.NoError(t, status(c))
	assert.Empty(t, c.sent)
	require.Len(t, f.out.calls, 2)
	assert.Equal(t, "copy", f.out.calls[0].method)
}

func TestStatusDoesNotConsumeSession(t *testing.T) {
	f := newFixture()
	reg := tg.NewRegistry()
	RegisterRelayCommands(reg, f.relay)
	status := commandHandler(t, CommandRoutes(reg, CommandRouteOptions{AdminID: operatorID}), "/status")

	f.store.Activate(operatorID, 42, 10*time.Minute)
	c := messageContext(1, operator, 1, "/status")
	require.NoError(t, status(c))
	assert.Equal(t, []interface{}{"↩️ Replying to user 42, 10m0s left."}, c.sent)
	assert.Equal(t, 1, f.store.Len())
}

func TestDeriveErrorCode(t *testing.T) {
	assert.Equal(t, "ERROR", deriveErrorCode(&tele.Error{Code: 403}))
	assert.Empty(t, deriveErrorCode(nil))
}

func TestNormalizeHandlerName(t *testing.T) {
	assert.Equal(t, "status", normalizeHandlerName("/Status"))
	assert.Equal(t, "unknown", normalizeHandlerName(" "))
}
