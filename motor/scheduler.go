package motor

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Token is a handle on one scheduled display. It fires at most once and can be
// cancelled until it does.
type Token struct {
	id    string
	mu    sync.Mutex
	timer *time.Timer
	done  bool
}

// ID identifies the scheduled display, so a receiver can ignore stale ones.
func (t *Token) ID() string {
	return t.id
}

// Cancel stops the display if it has not fired yet. It reports whether it did.
func (t *Token) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	if t.timer != nil {
		t.timer.Stop()
	}
	return true
}

// Done reports whether the token has fired or been cancelled.
func (t *Token) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

func (t *Token) claim() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	return true
}

// Scheduler debounces detail displays: each Schedule call supersedes the
// pending one, so only the latest request can fire. Nothing is queued.
type Scheduler struct {
	mu      sync.Mutex
	pending *Token
}

// NewScheduler creates an idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule runs fn after delay unless it is cancelled or superseded first.
func (s *Scheduler) Schedule(delay time.Duration, fn func()) *Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		s.pending.Cancel()
	}

	token := &Token{id: uuid.NewString()}
	token.mu.Lock()
	token.timer = time.AfterFunc(delay, func() {
		if token.claim() {
			fn()
		}
	})
	token.mu.Unlock()

	s.pending = token
	return token
}

// Cancel cancels the pending display, if any.
func (s *Scheduler) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return false
	}
	cancelled := s.pending.Cancel()
	s.pending = nil
	return cancelled
}

// Pending returns the most recently scheduled token, or nil.
func (s *Scheduler) Pending() *Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}
