// Package relay forwards anonymous users' messages to a single operator and
// routes the operator's replies back through a short-lived reply session.
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/m3rciful/relaybot/core/logger"
	"github.com/m3rciful/relaybot/core/session"
	"github.com/m3rciful/relaybot/core/telegram/format"
)

// DefaultReplyTTL is used when Config.ReplyTTL is not set.
const DefaultReplyTTL = 10 * time.Minute

// Control is a single inline button.
type Control struct {
	Label   string
	Payload string
}

// Outbox is the messaging platform as seen by the relay.
// Notify and Edit texts use Telegram Markdown; Reply text is plain.
type Outbox interface {
	// Copy duplicates msg into chat to, preserving its content.
	Copy(ctx context.Context, msg MessageRef, to int64) error
	// Notify sends text to chat to, with an optional button.
	Notify(ctx context.Context, to int64, text string, control *Control) error
	// Edit replaces the text of msg.
	Edit(ctx context.Context, msg MessageRef, text string) error
	// Reply answers msg in its own chat.
	Reply(ctx context.Context, msg MessageRef, text string) error
}

// Config holds the relay's fixed parameters.
type Config struct {
	OperatorID int64
	ReplyTTL   time.Duration
}

// Result reports what Handle did, for logging.
type Result struct {
	Action   Action
	Session  session.Status
	TargetID int64
}

// Relay dispatches inbound events to the three relay actions.
type Relay struct {
	cfg   Config
	store *session.Store
}

// New builds a Relay around store. A nil store gets a fresh in-memory one.
func New(cfg Config, store *session.Store) *Relay {
	if cfg.ReplyTTL <= 0 {
		cfg.ReplyTTL = DefaultReplyTTL
	}
	if store == nil {
		store = session.NewStore()
	}
	return &Relay{cfg: cfg, store: store}
}

// OperatorID returns the configured operator id.
func (r *Relay) OperatorID() int64 {
	return r.cfg.OperatorID
}

// IsOperator reports whether id belongs to the operator.
func (r *Relay) IsOperator(id int64) bool {
	return id == r.cfg.OperatorID
}

// Handle classifies ev and runs the matching action against out.
// Platform errors are returned wrapped and are never retried.
func (r *Relay) Handle(ctx context.Context, ev Event, out Outbox) (Result, error) {
	route := Classify(ev, r.cfg.OperatorID)
	switch route.Action {
	case ActionUserMessage:
		return r.forwardToOperator(ctx, ev, out)
	case ActionActivateReply:
		return r.activateReply(ctx, ev, route.UserID, out)
	case ActionOperatorMessage:
		return r.forwardToTarget(ctx, ev, out)
	}
	return Result{Action: ActionIgnore}, nil
}

func (r *Relay) forwardToOperator(ctx context.Context, ev Event, out Outbox) (Result, error) {
	userID := ev.SenderID()
	res := Result{Action: ActionUserMessage, TargetID: r.cfg.OperatorID}

	if err := out.Copy(ctx, ev.Message, r.cfg.OperatorID); err != nil {
		return res, fmt.Errorf("relay: copy to operator: %w", err)
	}

	name := DisplayName(ev.Sender)
	control := &Control{
		Label:   "Reply to " + name,
		Payload: ReplyPayload(userID),
	}
	if err := out.Notify(ctx, r.cfg.OperatorID, UserMessageNotice(name, userID), control); err != nil {
		return res, fmt.Errorf("relay: notify operator: %w", err)
	}
	return res, nil
}

func (r *Relay) activateReply(ctx context.Context, ev Event, userID int64, out Outbox) (Result, error) {
	sess := r.store.Activate(r.cfg.OperatorID, userID, r.cfg.ReplyTTL)
	res := Result{Action: ActionActivateReply, Session: session.Active, TargetID: userID}

	logger.LogEvent(ctx, logger.Session, slog.LevelInfo, "session.activated",
		slog.Int64("operator_id", r.cfg.OperatorID),
		slog.Int64("target_id", userID),
		slog.Duration("ttl", r.cfg.ReplyTTL),
		slog.Time("expires_at", sess.ExpiresAt),
	)

	text := ActivatedNotice(userID, r.cfg.ReplyTTL)
	if ev.Message.MessageID == 0 {
		if err := out.Notify(ctx, r.cfg.OperatorID, text, nil); err != nil {
			return res, fmt.Errorf("relay: confirm activation: %w", err)
		}
		return res, nil
	}
	if err := out.Edit(ctx, ev.Message, text); err != nil {
		return res, fmt.Errorf("relay: confirm activation: %w", err)
	}
	return res, nil
}

func (r *Relay) forwardToTarget(ctx context.Context, ev Event, out Outbox) (Result, error) {
	sess, status := r.store.Consume(r.cfg.OperatorID, r.store.Now())
	res := Result{Action: ActionOperatorMessage, Session: status, TargetID: sess.TargetID}

	switch status {
	case session.Absent:
		return res, nil
	case session.Expired:
		logger.LogEvent(ctx, logger.Session, slog.LevelInfo, "session.expired",
			slog.Int64("operator_id", r.cfg.OperatorID),
			slog.Int64("target_id", sess.TargetID),
			slog.Time("expires_at", sess.ExpiresAt),
		)
		if err := out.Reply(ctx, ev.Message, ExpiredNotice); err != nil {
			return res, fmt.Errorf("relay: report expiry: %w", err)
		}
		return res, nil
	}

	if err := out.Copy(ctx, ev.Message, sess.TargetID); err != nil {
		return res, fmt.Errorf("relay: copy to user %d: %w", sess.TargetID, err)
	}
	if err := out.Reply(ctx, ev.Message, SentNotice(sess.TargetID)); err != nil {
		return res, fmt.Errorf("relay: confirm delivery: %w", err)
	}
	return res, nil
}

// Describe renders the operator's current session for /status without consuming it.
func (r *Relay) Describe() string {
	now := r.store.Now()
	sess, status := r.store.Peek(r.cfg.OperatorID, now)
	if status != session.Active {
		return NoSessionNotice
	}
	return StatusNotice(sess.TargetID, sess.Remaining(now))
}

// Greeting returns the /start reply for senderID.
func (r *Relay) Greeting(senderID int64) string {
	if r.IsOperator(senderID) {
		return OperatorGreeting
	}
	return UserGreeting
}

// UserMessageNotice is the Markdown notification shown to the operator for a relayed message.
func UserMessageNotice(name string, userID int64) string {
	return fmt.Sprintf("📩 Message from %s (ID: `%d`)", format.Markdown(name), userID)
}
