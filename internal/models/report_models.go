package models

import "github.com/shopspring/decimal"

// MonthlySalaryRow aggregates one staff member's salary records under one role for a month.
type MonthlySalaryRow struct {
	StaffID     int64           `json:"staff_id"`
	FullName    string          `json:"full_name"`
	Role        string          `json:"role"`
	TotalHours  decimal.Decimal `json:"total_hours"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ShiftCount  int             `json:"shift_count"`
}

// MonthlySalaryReport is the per-month salary roll-up.
type MonthlySalaryReport struct {
	Month       string             `json:"month"`
	Rows        []MonthlySalaryRow `json:"rows"`
	TotalHours  decimal.Decimal    `json:"total_hours"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	ShiftCount  int                `json:"shift_count"`
}

// ShiftStats holds shift counters for dashboards.
type ShiftStats struct {
	TotalShifts  int             `json:"total_shifts"`
	OpenShifts   int             `json:"open_shifts"`
	ClosedShifts int             `json:"closed_shifts"`
	ShiftsToday  int             `json:"shifts_today"`
	ShortShifts  int             `json:"short_shifts"`
	AverageHours decimal.Decimal `json:"average_hours"`
	TotalHours   decimal.Decimal `json:"total_hours"`
}

// DashboardSummary holds key metrics for the dashboard.
type DashboardSummary struct {
	StaffCount          int             `json:"staff_count"`
	RoleCount           int             `json:"role_count"`
	OpenShifts          int             `json:"open_shifts"`
	ShiftsToday         int             `json:"shifts_today"`
	PendingSalaryCount  int             `json:"pending_salary_count"`
	PendingSalaryAmount decimal.Decimal `json:"pending_salary_amount"`
	PaidThisMonthAmount decimal.Decimal `json:"paid_this_month_amount"`
}
