package auth

import (
	"sync"
	"time"
)

// LoginThrottle locks out repeated failed logins per client+username
// pair using a sliding window. State is in-memory only; a restart
// clears it, which is acceptable for a single-process deployment.
type LoginThrottle struct {
	mu      sync.Mutex
	records map[string]*failureRecord

	maxFailures int
	window      time.Duration
	lockout     time.Duration

	stopJanitor chan struct{}
}

type failureRecord struct {
	failures    int
	windowStart time.Time
	lockedUntil time.Time
}

// Throttle defaults, applied when the configured values are zero.
const (
	DefaultMaxLoginFailures = 5
	DefaultFailureWindow    = 15 * time.Minute
	DefaultLockoutDuration  = 30 * time.Minute
)

// NewLoginThrottle creates a throttle and starts its cleanup goroutine.
// Callers must Stop() it on shutdown.
func NewLoginThrottle(maxFailures int, window, lockout time.Duration) *LoginThrottle {
	if maxFailures <= 0 {
		maxFailures = DefaultMaxLoginFailures
	}
	if window <= 0 {
		window = DefaultFailureWindow
	}
	if lockout <= 0 {
		lockout = DefaultLockoutDuration
	}

	lt := &LoginThrottle{
		records:     make(map[string]*failureRecord),
		maxFailures: maxFailures,
		window:      window,
		lockout:     lockout,
		stopJanitor: make(chan struct{}),
	}

	go lt.janitor()

	return lt
}

// Stop terminates the cleanup goroutine.
func (lt *LoginThrottle) Stop() {
	close(lt.stopJanitor)
}

// Allow reports whether a login attempt for the pair may proceed.
// When denied, the second return value is the remaining lockout.
func (lt *LoginThrottle) Allow(clientIP, username string) (bool, time.Duration) {
	now := time.Now()

	lt.mu.Lock()
	defer lt.mu.Unlock()

	record, exists := lt.records[clientIP+":"+username]
	if !exists {
		return true, 0
	}

	if now.Before(record.lockedUntil) {
		return false, record.lockedUntil.Sub(now)
	}

	if now.Sub(record.windowStart) > lt.window {
		return true, 0
	}

	if record.failures < lt.maxFailures {
		return true, 0
	}

	return false, lt.lockout
}

// RecordFailure counts one failed attempt and starts the lockout once
// the threshold is reached.
func (lt *LoginThrottle) RecordFailure(clientIP, username string) {
	now := time.Now()
	key := clientIP + ":" + username

	lt.mu.Lock()
	defer lt.mu.Unlock()

	record, exists := lt.records[key]
	if !exists || now.Sub(record.windowStart) > lt.window {
		record = &failureRecord{windowStart: now}
		lt.records[key] = record
	}

	record.failures++
	if record.failures >= lt.maxFailures {
		record.lockedUntil = now.Add(lt.lockout)
	}
}

// RecordSuccess clears the pair's failure history.
func (lt *LoginThrottle) RecordSuccess(clientIP, username string) {
	lt.mu.Lock()
	delete(lt.records, clientIP+":"+username)
	lt.mu.Unlock()
}

func (lt *LoginThrottle) janitor() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lt.prune()
		case <-lt.stopJanitor:
			return
		}
	}
}

// prune drops records whose window and lockout have both passed.
func (lt *LoginThrottle) prune() {
	now := time.Now()

	lt.mu.Lock()
	defer lt.mu.Unlock()

	for key, record := range lt.records {
		if now.Sub(record.windowStart) > lt.window && now.After(record.lockedUntil) {
			delete(lt.records, key)
		}
	}
}
