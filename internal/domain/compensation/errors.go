package compensation

import "errors"

var (
	ErrEarningsNotFound     = errors.New("earnings not found")
	ErrDeductionsNotFound   = errors.New("deductions not found")
	ErrOvertimeBaseNotFound = errors.New("overtime base not found")
	ErrBenefitNotFound      = errors.New("benefit contribution not found")
)
