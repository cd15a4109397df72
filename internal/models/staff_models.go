package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Shift states.
const (
	ShiftStatusOpen   = "Open"
	ShiftStatusClosed = "Closed"
)

// Salary payment states.
const (
	PaymentStatusPending = "Pending"
	PaymentStatusPaid    = "Paid"
)

// Staff is a person who can work shifts.
type Staff struct {
	StaffID     int64     `json:"staff_id" db:"staff_id"`
	FullName    string    `json:"full_name" db:"full_name"`
	NationalID  string    `json:"national_id" db:"national_id"`
	PhoneNumber *string   `json:"phone_number,omitempty" db:"phone_number"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Role is a job role with the daily rate paid for a full shift.
type Role struct {
	RoleName      string          `json:"role_name" db:"role_name"`
	BaseDailyRate decimal.Decimal `json:"base_daily_rate" db:"base_daily_rate"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// Shift is one work session of a staff member under a role.
// RoleRate is the role's daily rate at the moment the shift was opened.
type Shift struct {
	ShiftID         int64               `json:"shift_id" db:"shift_id"`
	StaffID         int64               `json:"staff_id" db:"staff_id"`
	Date            string              `json:"date" db:"date"`
	LoginTime       time.Time           `json:"login_time" db:"login_time"`
	LogoutTime      *time.Time          `json:"logout_time" db:"logout_time"`
	ShiftStatus     string              `json:"shift_status" db:"shift_status"`
	Role            string              `json:"role" db:"role"`
	RoleRate        decimal.Decimal     `json:"role_rate" db:"role_rate"`
	ActualHours     decimal.NullDecimal `json:"actual_hours" db:"actual_hours"`
	DeductionReason *string             `json:"deduction_reason" db:"deduction_reason"`
	CreatedBy       *int64              `json:"created_by" db:"created_by"`
	ClosedBy        *int64              `json:"closed_by" db:"closed_by"`
	CreatedAt       time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" db:"updated_at"`
	StaffName       *string             `json:"staff_name,omitempty"`
}

// IsOpen reports whether the shift can still be closed.
func (s *Shift) IsOpen() bool {
	return s.ShiftStatus == ShiftStatusOpen
}

// SalaryRecord is the pay owed for one closed shift. Only PaymentStatus changes after insert.
type SalaryRecord struct {
	RecordID        int64           `json:"record_id" db:"record_id"`
	ShiftID         int64           `json:"shift_id" db:"shift_id"`
	StaffID         int64           `json:"staff_id" db:"staff_id"`
	TotalHours      decimal.Decimal `json:"total_hours" db:"total_hours"`
	HourlyRate      decimal.Decimal `json:"hourly_rate" db:"hourly_rate"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaymentStatus   string          `json:"payment_status" db:"payment_status"`
	DeductionReason *string         `json:"deduction_reason" db:"deduction_reason"`
	PaidAt          *time.Time      `json:"paid_at,omitempty" db:"paid_at"`
	PaidBy          *int64          `json:"paid_by,omitempty" db:"paid_by"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	StaffName       *string         `json:"staff_name,omitempty"`
	Role            *string         `json:"role,omitempty"`
	ShiftDate       *string         `json:"shift_date,omitempty"`
}

// ShiftFilters narrows a shift listing. Zero values mean "any".
type ShiftFilters struct {
	Date      string
	Status    string
	Role      string
	StaffName string
	StaffID   *int64
	Page      int
	PageSize  int
}

// SalaryFilters narrows a salary listing. Month is YYYY-MM.
type SalaryFilters struct {
	Status   string
	StaffID  *int64
	Month    string
	Page     int
	PageSize int
}
