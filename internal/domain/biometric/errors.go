package biometric

import "errors"

var (
	ErrPunchNotFound   = errors.New("punch not found")
	ErrInvalidWorkbook = errors.New("invalid punch workbook")
	ErrMissingColumns  = errors.New("punch workbook is missing required columns")
	ErrUnknownEmployee = errors.New("no user registered for employee number")
)
