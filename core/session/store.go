// Package session keeps the operator's reply session: which user the operator
// is currently answering and until when.
//
// Expiry is lazy. There is no background timer; a stale entry stays in memory
// until the next Consume for that operator purges it.
package session

import (
	"sync"
	"time"
)

// Status describes what a lookup found.
type Status int

const (
	// Absent means no session is stored for the operator.
	Absent Status = iota
	// Active means a session exists and has not expired.
	Active
	// Expired means a session existed but its deadline has passed.
	Expired
)

// String returns the status name used in logs.
func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Expired:
		return "expired"
	default:
		return "absent"
	}
}

// Session is the operator's current reply target.
type Session struct {
	TargetID  int64
	ExpiresAt time.Time
}

// Remaining reports how long the session stays valid after now.
func (s Session) Remaining(now time.Time) time.Duration {
	if d := s.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now as the source of activation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store holds at most one Session per operator id. It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]Session
	now      func() time.Time
}

// NewStore constructs an empty in-memory Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[int64]Session),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// Activate replaces any session for operator with one targeting target until now+ttl.
func (s *Store) Activate(operator, target int64, ttl time.Duration) Session {
	sess := Session{TargetID: target, ExpiresAt: s.now().Add(ttl)}

	s.mu.Lock()
	s.sessions[operator] = sess
	s.mu.Unlock()
	return sess
}

// Consume returns the operator's session if it is still valid at now.
// A session whose deadline is at or before now is removed and reported as Expired
// together with its stale contents.
func (s *Store) Consume(operator int64, now time.Time) (Session, Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[operator]
	if !ok {
		return Session{}, Absent
	}
	if !now.Before(sess.ExpiresAt) {
		delete(s.sessions, operator)
		return sess, Expired
	}
	return sess, Active
}

// Peek reports the operator's session like Consume but never removes it.
func (s *Store) Peek(operator int64, now time.Time) (Session, Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[operator]
	switch {
	case !ok:
		return Session{}, Absent
	case !now.Before(sess.ExpiresAt):
		return sess, Expired
	}
	return sess, Active
}

// Len returns the number of stored sessions, stale ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
