package slots

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	SlotLayout = "15:04"
)

// Slot is a date-independent time of day.
type Slot struct {
	Hour   int
	Minute int
}

// ParseSlot accepts only the zero-padded "HH:MM" form.
func ParseSlot(value string) (Slot, error) {
	if len(value) != len(SlotLayout) {
		return Slot{}, fmt.Errorf("invalid slot %q: expected HH:MM", value)
	}
	t, err := time.Parse(SlotLayout, value)
	if err != nil {
		return Slot{}, fmt.Errorf("invalid slot %q: %w", value, err)
	}
	return Slot{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func MustParseSlot(value string) Slot {
	s, err := ParseSlot(value)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Slot) String() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// Offset is the distance from midnight.
func (s Slot) Offset() time.Duration {
	return time.Duration(s.Hour)*time.Hour + time.Duration(s.Minute)*time.Minute
}

func (s Slot) Before(other Slot) bool {
	return s.Offset() < other.Offset()
}

// Clock is read on every decision and never cached.
type Clock interface {
	Now() time.Time
}

type SystemClock struct {
	Location *time.Location
}

func NewSystemClock(timezone string) (*SystemClock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &SystemClock{Location: loc}, nil
}

func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.Location)
}

// FixedClock always returns T. Tests move it by assigning T.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.T
}

// ParseDate reads "YYYY-MM-DD" as midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, value, loc)
}

// IsSlotBookable reports whether slot on date can still be reserved at now.
// Future days are always bookable, past days never are, and on today only
// slots starting strictly after now's time of day qualify. Both date and now
// are compared as calendar days in now's location.
func IsSlotBookable(date time.Time, slot Slot, now time.Time) bool {
	date = date.In(now.Location())
	dy, dm, dd := date.Date()
	ny, nm, nd := now.Date()

	day := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)

	switch {
	case day.After(today):
		return true
	case day.Before(today):
		return false
	}

	nowOffset := time.Duration(now.Hour())*time.Hour +
		time.Duration(now.Minute())*time.Minute +
		time.Duration(now.Second())*time.Second +
		time.Duration(now.Nanosecond())
	return slot.Offset() > nowOffset
}
