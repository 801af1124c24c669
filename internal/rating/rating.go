// Package rating records a single post-session satisfaction rating.
package rating

import (
	"errors"
	"math"
)

// Scale bounds and granularity.
const (
	Min  = 0.5
	Max  = 5.0
	Step = 0.5
)

var (
	// ErrLocked is returned once a rating has been recorded.
	ErrLocked = errors.New("rating already recorded")

	// ErrOutOfRange is returned for values outside the fixed scale.
	ErrOutOfRange = errors.New("rating must be between 0.5 and 5 in half-point steps")
)

// Collector accepts one rating per session on a half-point scale from 0.5
// to 5.0 and locks after the first value. The value is held in memory
// only; nothing is transmitted.
type Collector struct {
	value  float64
	locked bool
}

// Record stores the rating. The first accepted value locks the collector.
func (c *Collector) Record(v float64) error {
	if c.locked {
		return ErrLocked
	}
	steps := v / Step
	if steps != math.Trunc(steps) || v < Min || v > Max {
		return ErrOutOfRange
	}
	c.value = v
	c.locked = true
	return nil
}

// Value returns the recorded rating and whether one has been recorded.
func (c *Collector) Value() (float64, bool) {
	return c.value, c.locked
}

// Reset clears the collector for a new session.
func (c *Collector) Reset() {
	c.value = 0
	c.locked = false
}
