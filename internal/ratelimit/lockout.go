// Package ratelimit implements the staff login lockout: a fixed window of
// failed attempts per username, with a hard cooldown once the threshold is
// reached. It is not a general API rate limiter.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Defaults applied when the config leaves them zero.
const (
	DefaultThreshold = 5
	DefaultWindow    = 15 * time.Minute
	DefaultCooldown  = 15 * time.Minute
)

// Lockout tracks failed login attempts for one username.
type Lockout struct {
	Username       string
	FailureCount   int
	FirstFailureAt time.Time
	LastFailureAt  time.Time
	LockedUntil    *time.Time
}

// Locked reports whether the record is in cooldown at the given instant.
func (l *Lockout) Locked(now time.Time) bool {
	return l.LockedUntil != nil && now.Before(*l.LockedUntil)
}

// Service counts login failures and enforces the cooldown.
type Service struct {
	mu      sync.Mutex
	records map[string]*Lockout

	threshold int
	window    time.Duration
	cooldown  time.Duration
	now       func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithThreshold sets how many failures within the window trigger a lock.
func WithThreshold(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.threshold = n
		}
	}
}

// WithWindow sets the failure counting window.
func WithWindow(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithCooldown sets how long a locked username stays locked.
func WithCooldown(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.cooldown = d
		}
	}
}

// New creates a lockout service with in-memory state.
func New(opts ...Option) *Service {
	s := &Service{
		records:   make(map[string]*Lockout),
		threshold: DefaultThreshold,
		window:    DefaultWindow,
		cooldown:  DefaultCooldown,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check reports whether a login attempt for the username is allowed. When
// locked, retryAfter says how long until the cooldown expires.
func (s *Service) Check(_ context.Context, username string) (allowed bool, retryAfter time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[username]
	if !ok {
		return true, 0
	}

	now := s.now()
	if record.Locked(now) {
		return false, record.LockedUntil.Sub(now)
	}
	return true, 0
}

// RecordFailure counts one failed attempt. It returns true when this failure
// crossed the threshold and locked the username.
func (s *Service) RecordFailure(_ context.Context, username string) (locked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	record, ok := s.records[username]
	if !ok || now.Sub(record.FirstFailureAt) > s.window {
		// New record, or the window expired: start counting over.
		record = &Lockout{Username: username, FirstFailureAt: now}
		s.records[username] = record
	}

	record.FailureCount++
	record.LastFailureAt = now

	if record.FailureCount >= s.threshold {
		until := now.Add(s.cooldown)
		record.LockedUntil = &until
		return true
	}
	return false
}

// RecordSuccess clears the failure state after a successful login.
func (s *Service) RecordSuccess(_ context.Context, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, username)
}

// Purge drops expired records. Intended to run periodically.
func (s *Service) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	purged := 0
	for username, record := range s.records {
		if record.Locked(now) {
			continue
		}
		if now.Sub(record.FirstFailureAt) > s.window {
			delete(s.records, username)
			purged++
		}
	}
	return purged
}
