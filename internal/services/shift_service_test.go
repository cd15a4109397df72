package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"crudefi_backend/internal/models"
	"crudefi_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2026, 10, 17, 21, 0, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newTestShiftService(t *testing.T, store *memStore) (*shiftService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	svc := NewShiftService(store, store, store, store, db, time.UTC).(*shiftService)
	svc.now = func() time.Time { return fixedNow }
	return svc, mock
}

func seedSupervisor(store *memStore) int64 {
	store.roles["Supervisor"] = &models.Role{RoleName: "Supervisor", BaseDailyRate: decimal.NewFromInt(300)}
	store.roles["Pumper"] = &models.Role{RoleName: "Pumper", BaseDailyRate: decimal.NewFromInt(250)}
	id := store.id()
	store.staff[id] = &models.Staff{StaffID: id, FullName: "Amina Otieno", NationalID: "A1234567"}
	return id
}

func strPtr(s string) *string { return &s }

func openAt(t *testing.T, svc *shiftService, mock sqlmock.Sqlmock, staffID int64, role, login string) *models.Shift {
	t.Helper()
	mock.ExpectBegin()
	mock.ExpectCommit()
	shift, err := svc.OpenShift(context.Background(), 1, OpenShiftRequest{StaffID: staffID, Role: role, LoginTime: strPtr(login)})
	if err != nil {
		t.Fatalf("OpenShift() unexpected error: %v", err)
	}
	return shift
}

func TestCloseShift_SupervisorScenario(t *testing.T) {
	store := newMemStore()
	staffID := seedSupervisor(store)
	svc, mock := newTestShiftService(t, store)

	shift := openAt(t, svc, mock, staffID, "Supervisor", "2026-10-17T09:00:00Z")
	if !shift.RoleRate.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("role_rate snapshot = %s, want 300", shift.RoleRate)
	}
	if shift.Date != "2026-10-17" {
		t.Errorf("date = %q, want 2026-10-17", shift.Date)
	}

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.CloseShift(context.Background(), 1, shift.ShiftID, CloseShiftRequest{LogoutTime: strPtr("2026-10-17T19:00:00Z")})
	if !errors.Is(err, ErrDeductionReasonRequired) {
		t.Fatalf("CloseShift() without reason error = %v, want ErrDeductionReasonRequired", err)
	}
	if got, _ := store.GetShiftByID(context.Background(), nil, shift.ShiftID); !got.IsOpen() {
		t.Fatalf("shift status = %s after failed close, want Open", got.ShiftStatus)
	}
	if store.salaryCount() != 0 {
		t.Fatalf("salary records = %d after failed close, want 0", store.salaryCount())
	}

	mock.ExpectBegin()
	mock.ExpectCommit()
	result, err := svc.CloseShift(context.Background(), 1, shift.ShiftID, CloseShiftRequest{
		LogoutTime:      strPtr("2026-10-17T19:00:00Z"),
		DeductionReason: strPtr("left early"),
	})
	if err != nil {
		t.Fatalf("CloseShift() unexpected error: %v", err)
	}
	if !result.ActualHours.Equal(decimal.NewFromInt(9)) {
		t.Errorf("actual_hours = %s, want 9", result.ActualHours)
	}
	if result.SalaryRecord == nil {
		t.Fatal("expected a salary record")
	}
	rec := result.SalaryRecord
	if !rec.HourlyRate.Equal(decimal.NewFromInt(30)) || !rec.TotalAmount.Equal(decimal.NewFromInt(270)) {
		t.Errorf("hourly_rate/total_amount = %s/%s, want 30/270", rec.HourlyRate, rec.TotalAmount)
	}
	if rec.PaymentStatus != models.PaymentStatusPending {
		t.Errorf("payment_status = %s, want Pending", rec.PaymentStatus)
	}
	if result.Shift.ShiftStatus != models.ShiftStatusClosed {
		t.Errorf("shift status = %s, want Closed", result.Shift.ShiftStatus)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestCloseShift_ShortShiftCreatesNoSalary(t *testing.T) {
	store := newMemStore()
	staffID := seedSupervisor(store)
	svc, mock := newTestShiftService(t, store)
	shift := openAt(t, svc, mock, staffID, "Pumper", "2026-10-17T09:00:00Z")

	mock.ExpectBegin()
	mock.ExpectCommit()
	result, err := svc.CloseShift(context.Background(), 1, shift.ShiftID, CloseShiftRequest{LogoutTime: strPtr("2026-10-17T09:40:00Z")})
	if err != nil {
		t.Fatalf("CloseShift() unexpected error: %v", err)
	}
	if !result.ActualHours.IsZero() {
		t.Errorf("actual_hours = %s, want 0", result.ActualHours)
	}
	if result.SalaryRecord != nil {
		t.Errorf("expected no salary record, got %+v", result.SalaryRecord)
	}
	if result.Shift.DeductionReason == nil || *result.Shift.DeductionReason != ShortShiftReason {
		t.Errorf("deduction_reason = %v, want %q", result.Shift.DeductionReason, ShortShiftReason)
	}
	if store.salaryCount() != 0 {
		t.Errorf("salary records = %d, want 0", store.salaryCount())
	}
}

func TestCloseShift_FullShiftCapsHoursWithoutReason(t *testing.T) {
	store := newMemStore()
	staffID := seedSupervisor(store)
	svc, mock := newTestShiftService(t, store)
	shift := openAt(t, svc, mock, staffID, "Pumper", "2026-10-17T07:00:00Z")

	mock.ExpectBegin()
	mock.ExpectCommit()
	result, err := svc.CloseShift(context.Background(), 1, shift.ShiftID, CloseShiftRequest{LogoutTime: strPtr("2026-10-17T19:00:00Z")})
	if err != nil {
		t.Fatalf("CloseShift() unexpected error: %v", err)
	}
	if !result.ActualHours.Equal(decimal.NewFromInt(10)) {
		t.Errorf("actual_hours = %s, want 10", result.ActualHours)
	}
	if !result.TotalAmount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("total_amount = %s, want 250", result.TotalAmount)
	}
	if result.Shift.DeductionReason != nil {
		t.Errorf("deduction_reason = %q, want nil", *result.Shift.DeductionReason)
	}
}

func TestCloseShift_SecondsShortOfFullShiftNeedsReason(t *testing.T) {
	store := newMemStore()
	staffID := seedSupervisor(store)
	svc, mock := newTestShiftService(t, store)
	shift := openAt(t, svc, mock, staffID, "Pumper", "2026-10-17T09:00:00Z")

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.CloseShift(context.Background(), 1, shift.ShiftID, CloseShiftRequest{LogoutTime: strPtr("2026-10-17T19:59:45Z")})
	if !errors.Is(err, ErrDeductionReasonRequired) {
		t.Fatalf("CloseShift() error = %v, want ErrDeductionReasonRequired", err)
	}
	if store.salaryCount() != 0 {
		t.Errorf("salary records = %d, want 0", store.salaryCount())
	}

	mock.ExpectBegin()
	mock.ExpectCommit()
	result, err := svc.CloseShift(context.Background(), 1, shift.ShiftID, CloseShiftRequest{
		LogoutTime:      strPtr("2026-10-17T19:59:45Z"),
		DeductionReason: strPtr("left before handover"),
	})
	if err != nil {
		t.Fatalf("CloseShift() unexpected error: %v", err)
	}
	if result.ActualHours.String() != "9.99" {
		t.Errorf("actual_hours = %s, want 9.99", result.ActualHours)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestCloseShift_UsesRateSnapshot(t *testing.T) {
	store := newMemStore()
	staffID := seedSupervisor(store)
	svc, mock := newTestShiftService(t, store)
	shift := openAt(t, svc, mock, staffID, "Pumper", "2026-10-17T09:00:00Z")

	store.roles["Pumper"].BaseDailyRate = decimal.NewFromInt(500)

	mock.ExpectBegin()
	mock.ExpectCommit()
	result, err := svc.CloseShift(context.Background(), 1, shift.ShiftID, CloseShiftRequest{
		LogoutTime:      strPtr("2026-10-17T16:00:00Z"),
		DeductionReason: strPtr("stock count"),
	})
	if err != nil {
		t.Fatalf("CloseShift() unexpected error: %v", err)
	}
	if !result.HourlyRate.Equal(decimal.NewFromInt(25)) || !result.TotalAmount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("hourly_rate/total_amount = %s/%s, want 25/150", result.HourlyRate, result.TotalAmount)
	}
}

func TestOpenShift_Errors(t *testing.T) {
	store := newMemStore()
	staffID := seedSupervisor(store)
	svc, mock := newTestShiftService(t, store)
	openAt(t, svc, mock, staffID, "Pumper", "2026-10-17T09:00:00Z")

	tests := []struct {
		name    string
		req     OpenShiftRequest
		begins  bool
		wantErr error
	}{
		{"already open", OpenShiftRequest{StaffID: staffID, Role: "Pumper"}, true, ErrShiftAlreadyOpen},
		{"unknown staff", OpenShiftRequest{StaffID: 999, Role: "Pumper"}, true, ErrStaffNotFound},
		{"unknown role", OpenShiftRequest{StaffID: staffID, Role: "Cashier"}, true, ErrRoleNotFound},
		{"missing role", OpenShiftRequest{StaffID: staffID, Role: "  "}, false, ErrValidation},
		{"bad time", OpenShiftRequest{StaffID: staffID, Role: "Pumper", LoginTime: strPtr("yesterday")}, false, ErrShiftTimeFormat},
		{"future login", OpenShiftRequest{StaffID: staffID, Role: "Pumper", LoginTime: strPtr("2026-10-18T09:00:00Z")}, false, ErrShiftValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.begins {
				mock.ExpectBegin()
				mock.ExpectRollback()
			}
			_, err := svc.OpenShift(context.Background(), 1, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("OpenShift() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpenShift_SharesRoleLock(t *testing.T) {
	store := newMemStore()
	staffID := seedSupervisor(store)
	svc, mock := newTestShiftService(t, store)
	openAt(t, svc, mock, staffID, "Pumper", "2026-10-17T09:00:00Z")

	if len(store.roleLocks) != 1 || store.roleLocks[0] != "share:Pumper" {
		t.Errorf("role locks = %v, want [share:Pumper]", store.roleLocks)
	}
}

func TestOpenShift_DeletedActor(t *testing.T) {
	store := newMemStore()
	staffID := seedSupervisor(store)
	store.createShiftErr = fmt.Errorf("%w: creating shift (constraint shifts_created_by_fkey)", repositories.ErrForeignKey)
	svc, mock := newTestShiftService(t, store)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.OpenShift(context.Background(), 77, OpenShiftRequest{StaffID: staffID, Role: "Pumper"})
	if !errors.Is(err, ErrActorNotFound) {
		t.Fatalf("OpenShift() error = %v, want ErrActorNotFound", err)
	}
	if errors.Is(err, ErrStaffNotFound) {
		t.Errorf("deleted actor reported as missing staff: %v", err)
	}
}

func TestCloseShift_Errors(t *testing.T) {
	store := newMemStore()
	staffID := seedSupervisor(store)
	svc, mock := newTestShiftService(t, store)
	shift := openAt(t, svc, mock, staffID, "Pumper", "2026-10-17T09:00:00Z")

	mock.ExpectBegin()
	mock.ExpectRollback()
	if _, err := svc.CloseShift(context.Background(), 1, 4242, CloseShiftRequest{}); !errors.Is(err, ErrShiftNotFound) {
		t.Errorf("unknown shift error = %v, want ErrShiftNotFound", err)
	}

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.CloseShift(context.Background(), 1, shift.ShiftID, CloseShiftRequest{LogoutTime: strPtr("2026-10-17T08:00:00Z")})
	if !errors.Is(err, ErrShiftValidation) {
		t.Errorf("logout before login error = %v, want ErrShiftValidation", err)
	}

	mock.ExpectBegin()
	mock.ExpectCommit()
	if _, err := svc.CloseShift(context.Background(), 1, shift.ShiftID, CloseShiftRequest{LogoutTime: strPtr("2026-10-17T20:00:00Z")}); err != nil {
		t.Fatalf("CloseShift() unexpected error: %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectRollback()
	if _, err := svc.CloseShift(context.Background(), 1, shift.ShiftID, CloseShiftRequest{}); !errors.Is(err, ErrShiftNotOpen) {
		t.Errorf("second close error = %v, want ErrShiftNotOpen", err)
	}
	if store.salaryCount() != 1 {
		t.Errorf("salary records = %d, want 1", store.salaryCount())
	}
}

func TestCloseShift_ExistingSalaryRecordRollsBack(t *testing.T) {
	store := newMemStore()
	staffID := seedSupervisor(store)
	svc, mock := newTestShiftService(t, store)
	shift := openAt(t, svc, mock, staffID, "Pumper", "2026-10-17T07:00:00Z")
	store.records[store.id()] = &models.SalaryRecord{ShiftID: shift.ShiftID, StaffID: staffID}

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.CloseShift(context.Background(), 1, shift.ShiftID, CloseShiftRequest{LogoutTime: strPtr("2026-10-17T19:00:00Z")})
	if !errors.Is(err, ErrSalaryRecordExists) {
		t.Fatalf("CloseShift() error = %v, want ErrSalaryRecordExists", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestGetShifts_ValidatesFilters(t *testing.T) {
	svc, _ := newTestShiftService(t, newMemStore())
	if _, _, err := svc.GetShifts(context.Background(), models.ShiftFilters{Date: "17/10/2026"}); !errors.Is(err, ErrValidation) {
		t.Errorf("bad date error = %v, want ErrValidation", err)
	}
	if _, _, err := svc.GetShifts(context.Background(), models.ShiftFilters{Status: "Paused"}); !errors.Is(err, ErrValidation) {
		t.Errorf("bad status error = %v, want ErrValidation", err)
	}
}
