package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/m3rciful/relaybot/core/logger"
	tghelpers "github.com/m3rciful/relaybot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

const (
	// DefaultDedupeSize bounds how many update ids are remembered.
	DefaultDedupeSize   = 4096
	// DefaultDedupeWindow is how long an update id is remembered.
	DefaultDedupeWindow = 5 * time.Minute
)

// updateLog remembers recently handled update ids.
type updateLog struct {
	// expirable.LRU has no ContainsOrAdd; mu makes the check and insert one step.
	mu   sync.Mutex
	seen *expirable.LRU[int, struct{}]
}

func newUpdateLog(size int, window time.Duration) *updateLog {
	return &updateLog{seen: expirable.NewLRU[int, struct{}](size, nil, window)}
}

// claim marks updateID as handled and reports whether it was new.
func (l *updateLog) claim(updateID int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	// Contains would report expired ids until the sweeper removes them.
	if _, ok := l.seen.Peek(updateID); ok {
		return false
	}
	l.seen.Add(updateID, struct{}{})
	return true
}

// DedupeMiddleware drops an update whose id was already handled within
// window, so a redelivered update is never relayed twice. Updates without
// an id (0) always pass.
func DedupeMiddleware(size int, window time.Duration) tele.MiddlewareFunc {
	if size <= 0 {
		size = DefaultDedupeSize
	}
	if window <= 0 {
		window = DefaultDedupeWindow
	}
	handled := newUpdateLog(size, window)

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			id := c.Update().ID
			if id == 0 || handled.claim(id) {
				return next(c)
			}
			logger.LogEvent(tghelpers.BuildContext(c), logger.TG, slog.LevelInfo, "update.duplicate",
				slog.String("status", "skip"),
			)
			return nil
		}
	}
}
