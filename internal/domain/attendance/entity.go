package attendance

import (
	"fmt"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/pkg/timeutil"
)

type Status string

const (
	StatusPresent   Status = "Present"
	StatusLate      Status = "Late"
	StatusUndertime Status = "Undertime"
	StatusOvertime  Status = "Overtime"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPresent, StatusLate, StatusUndertime, StatusOvertime:
		return Status(s), nil
	}
	return "", fmt.Errorf("invalid attendance status %q", s)
}

// Attendance is one user's presence on one calendar date. CheckIn is the
// first punch of the day and CheckOut the latest.
type Attendance struct {
	ID        string
	UserID    string
	Date      time.Time
	CheckIn   *timeutil.Clock
	CheckOut  *timeutil.Clock
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time

	// Join
	EmployeeName *string
}

// IsComplete reports whether the record spans a real interval. Incomplete
// records are never classified and never summarized.
func (a Attendance) IsComplete() bool {
	return a.CheckIn != nil && a.CheckOut != nil && *a.CheckIn != *a.CheckOut
}

// Thresholds, in minutes, used when classifying a day.
const (
	LateThresholdMinutes      = 15
	UndertimeThresholdMinutes = 30
	OvertimeThresholdMinutes  = 30
)

// Metrics are the raw deviations from the shift window, in minutes.
type Metrics struct {
	LateMinutes           int
	EarlyDepartureMinutes int
	OvertimeMinutes       int
}
