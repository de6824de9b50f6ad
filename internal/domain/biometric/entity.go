package biometric

import "time"

// Punch is a single raw scan from a biometric device. Punches are never
// modified after they are stored.
type Punch struct {
	ID             string
	EmployeeNumber int64
	Timestamp      time.Time
	Source         string
	CreatedAt      time.Time
}

const (
	SourceDevice = "device"
	SourceImport = "import"
)
