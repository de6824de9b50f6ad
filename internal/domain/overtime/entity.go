package overtime

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OvertimeHours carries the billable hour counts for one user's pay period.
// RegularOT, RegularHoliday, SpecialHoliday, LateMinutes and UndertimeHours
// are derived from attendance; RestDay, NightDiff and Backwage are entered
// by an administrator and survive recomputation.
type OvertimeHours struct {
	ID          string
	UserID      string
	SummaryID   string
	PeriodStart time.Time

	RegularOT      decimal.Decimal
	RegularHoliday decimal.Decimal
	SpecialHoliday decimal.Decimal
	LateMinutes    decimal.Decimal
	UndertimeHours decimal.Decimal

	RestDay   decimal.Decimal
	NightDiff decimal.Decimal
	Backwage  decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalOvertime is the money value of an OvertimeHours row.
type TotalOvertime struct {
	ID              string
	OvertimeHoursID string
	UserID          string
	PeriodStart     time.Time

	RegularOT      decimal.Decimal
	RegularHoliday decimal.Decimal
	SpecialHoliday decimal.Decimal
	RestDay        decimal.Decimal
	NightDiff      decimal.Decimal
	Backwage       decimal.Decimal
	Late           decimal.Decimal
	Undertime      decimal.Decimal
	Total          decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Rates are the per-user bases the calculator multiplies against.
type Rates struct {
	BasicRate    decimal.Decimal
	BackwageBase decimal.Decimal
	LateBase     decimal.Decimal
}

// TotalPolicy names which components are summed into TotalOvertime.Total.
type TotalPolicy string

const (
	// TotalPremiumsOnly sums the premium components and backwage. Late and
	// undertime are still computed and later deducted by payroll.
	TotalPremiumsOnly TotalPolicy = "premiums_only"
	// TotalPremiumsAndDeductions also adds late and undertime into the total.
	TotalPremiumsAndDeductions TotalPolicy = "premiums_and_deductions"
)

func ParseTotalPolicy(s string) (TotalPolicy, error) {
	switch TotalPolicy(s) {
	case TotalPremiumsOnly, TotalPremiumsAndDeductions:
		return TotalPolicy(s), nil
	}
	return "", fmt.Errorf("invalid overtime total policy %q", s)
}
