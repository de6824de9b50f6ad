// Package timeutil holds the wall-clock and calendar-date types shared by
// attendance, shifts and pay periods.
package timeutil

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const DateLayout = "2006-01-02"

// Clock is a local time of day with second precision.
type Clock int

func NewClock(hour, minute, second int) Clock {
	return Clock(hour*3600 + minute*60 + second)
}

// ClockOf returns the wall-clock part of t in t's location.
func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute(), t.Second())
}

// ParseClock accepts "15:04" or "15:04:05".
func ParseClock(s string) (Clock, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockOf(t), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

func (c Clock) Hour() int   { return int(c) / 3600 }
func (c Clock) Minute() int { return int(c) % 3600 / 60 }
func (c Clock) Second() int { return int(c) % 60 }

// Minutes is the minute-of-day, dropping seconds.
func (c Clock) Minutes() int {
	return c.Hour()*60 + c.Minute()
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour(), c.Minute(), c.Second())
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// PG converts to the pgx representation of a TIME column.
func (c Clock) PG() pgtype.Time {
	return pgtype.Time{Microseconds: int64(c) * int64(time.Second/time.Microsecond), Valid: true}
}

// ClockPtrPG converts an optional clock, mapping nil to SQL NULL.
func ClockPtrPG(c *Clock) pgtype.Time {
	if c == nil {
		return pgtype.Time{}
	}
	return c.PG()
}

// ClockFromPG converts a scanned TIME column; NULL becomes nil.
func ClockFromPG(t pgtype.Time) *Clock {
	if !t.Valid {
		return nil
	}
	c := Clock(t.Microseconds / int64(time.Second/time.Microsecond))
	return &c
}
