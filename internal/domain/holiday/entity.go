package holiday

import (
	"fmt"
	"time"
)

type Type string

const (
	TypeRegular Type = "regular"
	TypeSpecial Type = "special"
)

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeRegular, TypeSpecial:
		return Type(s), nil
	}
	return "", fmt.Errorf("invalid holiday type %q", s)
}

// Holiday is an entry of the master calendar. Hours worked on a regular
// holiday are paid at the regular holiday premium, on a special holiday at
// the special holiday premium.
type Holiday struct {
	ID          string
	Name        string
	Date        time.Time
	Type        Type
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Calendar indexes holidays by date. A regular holiday outranks a special
// one declared on the same day.
type Calendar map[string]Type

func NewCalendar(holidays []Holiday) Calendar {
	c := make(Calendar, len(holidays))
	for _, h := range holidays {
		key := h.Date.Format("2006-01-02")
		if existing, ok := c[key]; ok && existing == TypeRegular {
			continue
		}
		c[key] = h.Type
	}
	return c
}

// TypeOn returns the holiday type on date, if any.
func (c Calendar) TypeOn(date time.Time) (Type, bool) {
	t, ok := c[date.Format("2006-01-02")]
	return t, ok
}
