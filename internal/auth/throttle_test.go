package auth

import (
	"testing"
	"time"
)

func newTestThrottle() *LoginThrottle {
	return NewLoginThrottle(3, 50*time.Millisecond, 80*time.Millisecond)
}

func TestLoginThrottle_AllowsFreshPair(t *testing.T) {
	lt := newTestThrottle()
	defer lt.Stop()

	allowed, retryAfter := lt.Allow("10.0.0.1", "alice")
	if !allowed {
		t.Fatal("Fresh pair should be allowed")
	}
	if retryAfter != 0 {
		t.Errorf("Fresh pair retryAfter = %v, want 0", retryAfter)
	}
}

func TestLoginThrottle_LocksOutAfterMaxFailures(t *testing.T) {
	lt := newTestThrottle()
	defer lt.Stop()

	for i := 0; i < 3; i++ {
		lt.RecordFailure("10.0.0.1", "alice")
	}

	allowed, retryAfter := lt.Allow("10.0.0.1", "alice")
	if allowed {
		t.Fatal("Pair should be locked out after max failures")
	}
	if retryAfter <= 0 {
		t.Errorf("Lockout retryAfter = %v, want > 0", retryAfter)
	}

	// Other pairs are unaffected
	if allowed, _ := lt.Allow("10.0.0.2", "alice"); !allowed {
		t.Error("A different client should not be locked out")
	}
	if allowed, _ := lt.Allow("10.0.0.1", "bob"); !allowed {
		t.Error("A different username should not be locked out")
	}
}

func TestLoginThrottle_LockoutExpires(t *testing.T) {
	lt := newTestThrottle()
	defer lt.Stop()

	for i := 0; i < 3; i++ {
		lt.RecordFailure("10.0.0.1", "alice")
	}
	if allowed, _ := lt.Allow("10.0.0.1", "alice"); allowed {
		t.Fatal("Pair should be locked out")
	}

	time.Sleep(120 * time.Millisecond)

	if allowed, _ := lt.Allow("10.0.0.1", "alice"); !allowed {
		t.Error("Lockout should expire once the window and lockout pass")
	}
}

func TestLoginThrottle_SuccessClearsFailures(t *testing.T) {
	lt := newTestThrottle()
	defer lt.Stop()

	lt.RecordFailure("10.0.0.1", "alice")
	lt.RecordFailure("10.0.0.1", "alice")
	lt.RecordSuccess("10.0.0.1", "alice")

	// The counter starts over: two more failures stay under the limit
	lt.RecordFailure("10.0.0.1", "alice")
	lt.RecordFailure("10.0.0.1", "alice")

	if allowed, _ := lt.Allow("10.0.0.1", "alice"); !allowed {
		t.Error("Failures before a success should not count toward lockout")
	}
}
