package notify

import (
	"encoding/json"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

func TestCenterExpiresAfterTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := NewCenter(0).WithClock(clock.Now)

	c.Notify(Info, "first")
	clock.t = clock.t.Add(2 * time.Second)
	c.Notify(Success, "second")

	if got := len(c.Active()); got != 2 {
		t.Fatalf("expected 2 active notifications, got %d", got)
	}

	clock.t = clock.t.Add(time.Second)
	active := c.Active()
	if len(active) != 1 || active[0].Message != "second" {
		t.Fatalf("expected only second notification, got %+v", active)
	}

	clock.t = clock.t.Add(2 * time.Second)
	if got := len(c.Active()); got != 0 {
		t.Fatalf("expected no active notifications, got %d", got)
	}
}

func TestNotificationIDsIncrease(t *testing.T) {
	c := NewCenter(time.Minute)
	c.Notify(Info, "a")
	c.Notify(Error, "b")

	active := c.Active()
	if len(active) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(active))
	}
	if active[0].ID >= active[1].ID {
		t.Errorf("ids not increasing: %d, %d", active[0].ID, active[1].ID)
	}
}

func TestSeverityJSON(t *testing.T) {
	data, err := json.Marshal(Notification{Severity: Error, Message: "x"})
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Severity string `json:"severity"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Severity != "error" {
		t.Errorf("severity = %q, want error", decoded.Severity)
	}

	var s Severity
	if err := s.UnmarshalText([]byte("SUCCESS")); err != nil || s != Success {
		t.Errorf("UnmarshalText(SUCCESS) = %v, %v", s, err)
	}
	if err := s.UnmarshalText([]byte("warning")); err == nil {
		t.Error("expected error for unknown severity")
	}
}
