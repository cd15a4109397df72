package services

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payroll constants. A full shift is NominalShiftHours billable hours after the break.
const (
	NominalShiftHours    = 10
	BreakHours           = 1
	// MinimumBillableHours is measured after the break, so a span shorter than
	// BreakHours+MinimumBillableHours pays nothing.
	MinimumBillableHours = 1
	ShortShiftReason     = "worked less than 1 hour"
)

var (
	nominalHours = decimal.NewFromInt(NominalShiftHours)
	breakHours   = decimal.NewFromInt(BreakHours)
	minimumHours = decimal.NewFromInt(MinimumBillableHours)
	secondsPerHr = decimal.NewFromInt(3600)
)

// WorkedHours is the outcome of applying the break, cap and short-shift rules to a shift span.
type WorkedHours struct {
	Actual     decimal.Decimal
	ShortShift bool
	Capped     bool
}

// NeedsReason reports whether closing with these hours requires a deduction reason.
// Only a capped shift, one whose unrounded hours reached the nominal length, is exempt.
func (w WorkedHours) NeedsReason() bool {
	return !w.ShortShift && !w.Capped
}

// ComputeWorkedHours subtracts the break from the span, caps at the nominal shift
// and flags spans under one billable hour. Every decision uses the unrounded hours;
// Actual is truncated to two decimals so an uncapped shift never reports a full one.
func ComputeWorkedHours(login, logout time.Time) WorkedHours {
	span := decimal.NewFromInt(int64(logout.Sub(login) / time.Second)).Div(secondsPerHr)
	raw := span.Sub(breakHours)

	switch {
	case raw.LessThan(minimumHours):
		return WorkedHours{Actual: decimal.Zero, ShortShift: true}
	case raw.GreaterThanOrEqual(nominalHours):
		return WorkedHours{Actual: nominalHours, Capped: true}
	default:
		return WorkedHours{Actual: raw.Truncate(2)}
	}
}

// ShiftPay is the salary owed for one closed shift.
type ShiftPay struct {
	HourlyRate  decimal.Decimal
	TotalAmount decimal.Decimal
}

// ComputeShiftPay divides the snapshotted daily rate by the nominal shift length,
// independent of how many hours were worked, and multiplies by the worked hours.
func ComputeShiftPay(roleRate, actualHours decimal.Decimal) ShiftPay {
	return ShiftPay{
		HourlyRate:  roleRate.Div(nominalHours).Round(2),
		TotalAmount: roleRate.Mul(actualHours).Div(nominalHours).Round(2),
	}
}
