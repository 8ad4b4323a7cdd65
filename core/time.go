package core

import (
	"time"
)

// NewTime creates a new time service
func NewTime(cfg TimeConfiguration) *Time {
	t := &Time{
		interval: cfg.RefreshInterval,
	}
	if cfg.RefreshInterval > 0 {
		t.refreshTicker = time.NewTicker(cfg.RefreshInterval)
	}
	return t
}

// Time contains the refresh ticker
type Time struct {
	interval      time.Duration
	refreshTicker *time.Ticker
}

// Interval gets the configured refresh interval
func (t *Time) Interval() time.Duration {
	return t.interval
}

// Refreshing reports whether the report is to be regenerated periodically
func (t *Time) Refreshing() bool {
	return t.refreshTicker != nil
}

// RefreshTicker gets the ticks channel. It is nil when not refreshing,
// so a select on it blocks forever.
func (t *Time) RefreshTicker() <-chan time.Time {
	if t.refreshTicker == nil {
		return nil
	}
	return t.refreshTicker.C
}

// Stop stops the ticker
func (t *Time) Stop() {
	if t.refreshTicker != nil {
		t.refreshTicker.Stop()
	}
}
