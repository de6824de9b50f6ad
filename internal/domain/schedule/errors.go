package schedule

import "errors"

var (
	ErrShiftNotFound       = errors.New("shift not found")
	ErrScheduleNotFound    = errors.New("schedule not found")
	ErrInvalidPeriodPolicy = errors.New("invalid period policy")
	ErrShiftInUse          = errors.New("shift is attached to a schedule")
	ErrShiftAlreadyAdded   = errors.New("shift already attached to schedule")
)
