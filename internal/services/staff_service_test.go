package services

import (
	"context"
	"errors"
	"testing"

	"crudefi_backend/internal/models"
)

func TestStaffService_CreateAndUpdate(t *testing.T) {
	store := newMemStore()
	db, _ := newMockDB(t)
	svc := NewStaffService(store, db)
	ctx := context.Background()

	created, err := svc.CreateStaff(ctx, CreateStaffRequest{FullName: "  Juma Mwangi ", NationalID: "ID778899", PhoneNumber: strPtr("  ")})
	if err != nil {
		t.Fatalf("CreateStaff() unexpected error: %v", err)
	}
	if created.FullName != "Juma Mwangi" {
		t.Errorf("full_name = %q, want trimmed", created.FullName)
	}
	if created.PhoneNumber != nil {
		t.Errorf("phone_number = %q, want nil for blank input", *created.PhoneNumber)
	}

	if _, err := svc.CreateStaff(ctx, CreateStaffRequest{FullName: "Other", NationalID: "ID778899"}); !errors.Is(err, ErrNationalIDExists) {
		t.Errorf("duplicate national_id error = %v, want ErrNationalIDExists", err)
	}

	updated, err := svc.UpdateStaff(ctx, created.StaffID, UpdateStaffRequest{PhoneNumber: strPtr("+254700000001")})
	if err != nil {
		t.Fatalf("UpdateStaff() unexpected error: %v", err)
	}
	if updated.PhoneNumber == nil || *updated.PhoneNumber != "+254700000001" {
		t.Errorf("phone_number = %v, want +254700000001", updated.PhoneNumber)
	}
	if updated.NationalID != "ID778899" {
		t.Errorf("national_id changed to %q on partial update", updated.NationalID)
	}
}

func TestStaffService_Validation(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewStaffService(newMemStore(), db)

	tests := []struct {
		name string
		req  CreateStaffRequest
	}{
		{"blank name", CreateStaffRequest{FullName: " ", NationalID: "ID778899"}},
		{"short national id", CreateStaffRequest{FullName: "Juma", NationalID: "12"}},
		{"symbols in national id", CreateStaffRequest{FullName: "Juma", NationalID: "ID-7788"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateStaff(context.Background(), tt.req); !errors.Is(err, ErrStaffDataValidation) {
				t.Errorf("CreateStaff() error = %v, want ErrStaffDataValidation", err)
			}
		})
	}
}

func TestStaffService_DeleteReferencedStaff(t *testing.T) {
	store := newMemStore()
	staffID := seedSupervisor(store)
	store.shifts[store.id()] = &models.Shift{StaffID: staffID, ShiftStatus: models.ShiftStatusClosed}
	db, _ := newMockDB(t)
	svc := NewStaffService(store, db)

	if err := svc.DeleteStaff(context.Background(), staffID); !errors.Is(err, ErrStaffInUse) {
		t.Errorf("DeleteStaff() error = %v, want ErrStaffInUse", err)
	}
	if err := svc.DeleteStaff(context.Background(), 999); !errors.Is(err, ErrStaffNotFound) {
		t.Errorf("DeleteStaff() error = %v, want ErrStaffNotFound", err)
	}
}
