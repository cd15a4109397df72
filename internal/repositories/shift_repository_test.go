package repositories

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"crudefi_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var shiftRowColumns = []string{
	"shift_id", "staff_id", "date", "login_time", "logout_time", "shift_status", "role", "role_rate",
	"actual_hours", "deduction_reason", "created_by", "closed_by", "created_at", "updated_at",
}

func newMock(t *testing.T) (*shiftRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &shiftRepository{db: db}, mock
}

func TestCreateShiftMapsOpenShiftUniqueViolation(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO shifts`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: ConstraintOneOpenShift})

	manager := int64(9)
	_, err := repo.CreateShift(context.Background(), repo.db, &models.Shift{
		StaffID: 1, Date: "2026-10-17", LoginTime: time.Now(), Role: "Supervisor",
		RoleRate: decimal.NewFromInt(300), CreatedBy: &manager,
	})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateShiftClassifiesForeignKeyByConstraint(t *testing.T) {
	cases := []struct {
		name       string
		constraint string
		want       error
		notWant    error
	}{
		{"missing staff", ConstraintShiftStaffFK, ErrNotFound, ErrForeignKey},
		{"missing creator", "shifts_created_by_fkey", ErrForeignKey, ErrNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newMock(t)
			mock.ExpectQuery(`INSERT INTO shifts`).
				WillReturnError(&pq.Error{Code: "23503", Constraint: tc.constraint})

			manager := int64(9)
			_, err := repo.CreateShift(context.Background(), repo.db, &models.Shift{
				StaffID: 1, Date: "2026-10-17", LoginTime: time.Now(), Role: "Supervisor",
				RoleRate: decimal.NewFromInt(300), CreatedBy: &manager,
			})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if errors.Is(err, tc.notWant) {
				t.Fatalf("error %v must not match %v", err, tc.notWant)
			}
		})
	}
}

func TestCreateShiftReturnsSnapshot(t *testing.T) {
	repo, mock := newMock(t)
	login := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	manager := int64(9)

	mock.ExpectQuery(`INSERT INTO shifts`).
		WithArgs(int64(1), "2026-10-17", login, models.ShiftStatusOpen, "Supervisor", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(shiftRowColumns).AddRow(
			int64(5), int64(1), "2026-10-17", login, nil, "Open", "Supervisor", "300.00",
			nil, nil, int64(9), nil, login, login,
		))

	shift, err := repo.CreateShift(context.Background(), repo.db, &models.Shift{
		StaffID: 1, Date: "2026-10-17", LoginTime: login, Role: "Supervisor",
		RoleRate: decimal.NewFromInt(300), CreatedBy: &manager,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shift.ShiftID != 5 || !shift.RoleRate.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("unexpected shift: %+v", shift)
	}
	if shift.ActualHours.Valid || shift.LogoutTime != nil {
		t.Fatal("open shift must not carry close fields")
	}
	if shift.CreatedBy == nil || *shift.CreatedBy != 9 {
		t.Fatalf("created_by not scanned: %+v", shift.CreatedBy)
	}
}

func TestCloseShiftNotOpen(t *testing.T) {
	repo, mock := newMock(t)
	logout := time.Now()

	mock.ExpectQuery(`UPDATE shifts AS s SET`).
		WillReturnRows(sqlmock.NewRows(shiftRowColumns))

	_, err := repo.CloseShift(context.Background(), repo.db, &models.Shift{ShiftID: 3, LogoutTime: &logout})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBuildShiftFilterIsParameterised(t *testing.T) {
	staffID := int64(4)
	where, args := buildShiftFilter(models.ShiftFilters{
		Date:      "2026-10-17",
		Status:    "Open",
		Role:      "Press Operator",
		StaffName: "o'brien",
		StaffID:   &staffID,
	})

	want := " WHERE s.date = $1::date AND s.shift_status = $2 AND s.role = $3 AND st.full_name ILIKE $4 AND s.staff_id = $5"
	if where != want {
		t.Fatalf("where = %q\nwant  %q", where, want)
	}
	if strings.Contains(where, "o'brien") {
		t.Fatal("user input leaked into SQL text")
	}
	if len(args) != 5 || args[3] != "%o'brien%" || args[4] != int64(4) {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestBuildShiftFilterEmpty(t *testing.T) {
	where, args := buildShiftFilter(models.ShiftFilters{})
	if where != "" || len(args) != 0 {
		t.Fatalf("expected no filter, got %q %v", where, args)
	}
}
