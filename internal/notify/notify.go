// Package notify keeps short-lived user notifications.
package notify

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 3 * time.Second

// Severity classifies a notification.
type Severity int

// Known severities.
const (
	Info Severity = iota
	Success
	Error
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// MarshalText encodes the severity by name for JSON and YAML output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "info":
		*s = Info
	case "success":
		*s = Success
	case "error":
		*s = Error
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Notification is a transient message shown to the user.
type Notification struct {
	Created  time.Time `json:"created"`
	Expires  time.Time `json:"expires"`
	Message  string    `json:"message"`
	ID       uint64    `json:"id"`
	Severity Severity  `json:"severity"`
}

// Center stores notifications until they expire.
// The zero value is not usable, use NewCenter.
type Center struct {
	now   func() time.Time
	items []Notification
	ttl   time.Duration
	next  uint64
	mu    sync.Mutex
}

// NewCenter creates a Center with the given lifetime.
// A non-positive ttl falls back to DefaultTTL.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl, now: time.Now}
}

// WithClock replaces the time source, for tests.
func (c *Center) WithClock(now func() time.Time) *Center {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
	return c
}

// Notify records a message. It never blocks on delivery.
func (c *Center) Notify(severity Severity, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.prune(now)
	c.next++
	c.items = append(c.items, Notification{
		ID:       c.next,
		Severity: severity,
		Message:  message,
		Created:  now,
		Expires:  now.Add(c.ttl),
	})

	log.Debug().
		Uint64("id", c.next).
		Str("severity", severity.String()).
		Str("message", message).
		Msg("Notification raised")
}

// Active returns the notifications that have not expired yet, oldest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prune(c.now())
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Center) prune(now time.Time) {
	keep := c.items[:0]
	for _, n := range c.items {
		if now.Before(n.Expires) {
			keep = append(keep, n)
		}
	}
	c.items = keep
}
