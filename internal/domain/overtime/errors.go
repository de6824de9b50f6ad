package overtime

import "errors"

var (
	ErrOvertimeHoursNotFound = errors.New("overtime hours not found")
	ErrTotalOvertimeNotFound = errors.New("total overtime not found")
	ErrMissingEarnings       = errors.New("no earnings recorded for user")
	ErrMissingOvertimeBase   = errors.New("no overtime base recorded for user")
)
