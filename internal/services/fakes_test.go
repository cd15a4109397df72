package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"crudefi_backend/internal/models"
	"crudefi_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// memStore is an in-memory stand-in for the four payroll repositories.
type memStore struct {
	mu      sync.Mutex
	staff   map[int64]*models.Staff
	roles   map[string]*models.Role
	shifts  map[int64]*models.Shift
	records map[int64]*models.SalaryRecord
	nextID  int64

	// roleLocks records ShareLockRole/LockRole calls in order.
	roleLocks []string
	// createShiftErr, when set, is returned by CreateShift.
	createShiftErr error
}

func newMemStore() *memStore {
	return &memStore{
		staff:   map[int64]*models.Staff{},
		roles:   map[string]*models.Role{},
		shifts:  map[int64]*models.Shift{},
		records: map[int64]*models.SalaryRecord{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

// --- staff ---

func (m *memStore) CreateStaff(_ context.Context, _ repositories.SQLExecutor, s *models.Staff) (*models.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.staff {
		if existing.NationalID == s.NationalID {
			return nil, repositories.ErrDuplicateKey
		}
	}
	cp := *s
	cp.StaffID = m.id()
	m.staff[cp.StaffID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) GetStaffByID(_ context.Context, _ repositories.SQLExecutor, id int64) (*models.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.staff[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *s
	return &out, nil
}

func (m *memStore) GetStaff(_ context.Context, _, _ int, _ *string) ([]models.Staff, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Staff
	for _, s := range m.staff {
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (m *memStore) UpdateStaff(_ context.Context, _ repositories.SQLExecutor, s *models.Staff) (*models.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.staff[s.StaffID]; !ok {
		return nil, repositories.ErrNotFound
	}
	for id, existing := range m.staff {
		if id != s.StaffID && existing.NationalID == s.NationalID {
			return nil, repositories.ErrDuplicateKey
		}
	}
	cp := *s
	m.staff[s.StaffID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) DeleteStaff(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.staff[id]; !ok {
		return repositories.ErrNotFound
	}
	for _, sh := range m.shifts {
		if sh.StaffID == id {
			return repositories.ErrForeignKey
		}
	}
	delete(m.staff, id)
	return nil
}

func (m *memStore) CountStaff(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.staff), nil
}

// --- roles ---

func (m *memStore) CreateRole(_ context.Context, _ repositories.SQLExecutor, r *models.Role) (*models.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[r.RoleName]; ok {
		return nil, repositories.ErrDuplicateKey
	}
	cp := *r
	m.roles[r.RoleName] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) GetRoleByName(_ context.Context, _ repositories.SQLExecutor, name string) (*models.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.roles[name]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *r
	return &out, nil
}

func (m *memStore) ShareLockRole(ctx context.Context, exec repositories.SQLExecutor, name string) (*models.Role, error) {
	m.mu.Lock()
	m.roleLocks = append(m.roleLocks, "share:"+name)
	m.mu.Unlock()
	return m.GetRoleByName(ctx, exec, name)
}

func (m *memStore) LockRole(ctx context.Context, exec repositories.SQLExecutor, name string) (*models.Role, error) {
	m.mu.Lock()
	m.roleLocks = append(m.roleLocks, "update:"+name)
	m.mu.Unlock()
	return m.GetRoleByName(ctx, exec, name)
}

func (m *memStore) GetRoles(_ context.Context) ([]models.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Role
	for _, r := range m.roles {
		out = append(out, *r)
	}
	return out, nil
}

func (m *memStore) UpdateRoleRate(_ context.Context, _ repositories.SQLExecutor, r *models.Role) (*models.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.roles[r.RoleName]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	existing.BaseDailyRate = r.BaseDailyRate
	out := *existing
	return &out, nil
}

func (m *memStore) DeleteRole(_ context.Context, _ repositories.SQLExecutor, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[name]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.roles, name)
	return nil
}

func (m *memStore) CountOpenShiftsForRole(_ context.Context, _ repositories.SQLExecutor, name string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, sh := range m.shifts {
		if sh.Role == name && sh.IsOpen() {
			n++
		}
	}
	return n, nil
}

// --- shifts ---

func (m *memStore) CreateShift(_ context.Context, _ repositories.SQLExecutor, sh *models.Shift) (*models.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createShiftErr != nil {
		return nil, m.createShiftErr
	}
	for _, existing := range m.shifts {
		if existing.StaffID == sh.StaffID && existing.IsOpen() {
			return nil, repositories.ErrDuplicateKey
		}
	}
	cp := *sh
	cp.ShiftID = m.id()
	cp.ShiftStatus = models.ShiftStatusOpen
	m.shifts[cp.ShiftID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) GetShiftByID(_ context.Context, _ repositories.SQLExecutor, id int64) (*models.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sh, ok := m.shifts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *sh
	return &out, nil
}

func (m *memStore) LockShift(ctx context.Context, exec repositories.SQLExecutor, id int64) (*models.Shift, error) {
	return m.GetShiftByID(ctx, exec, id)
}

func (m *memStore) GetOpenShiftByStaff(_ context.Context, _ repositories.SQLExecutor, staffID int64) (*models.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sh := range m.shifts {
		if sh.StaffID == staffID && sh.IsOpen() {
			out := *sh
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memStore) CloseShift(_ context.Context, _ repositories.SQLExecutor, sh *models.Shift) (*models.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.shifts[sh.ShiftID]
	if !ok || !existing.IsOpen() {
		return nil, repositories.ErrNotFound
	}
	existing.LogoutTime = sh.LogoutTime
	existing.ActualHours = sh.ActualHours
	existing.DeductionReason = sh.DeductionReason
	existing.ClosedBy = sh.ClosedBy
	existing.ShiftStatus = models.ShiftStatusClosed
	out := *existing
	return &out, nil
}

func (m *memStore) GetShifts(_ context.Context, f models.ShiftFilters) ([]models.Shift, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Shift
	for _, sh := range m.shifts {
		if f.Status != "" && sh.ShiftStatus != f.Status {
			continue
		}
		if f.Role != "" && !strings.EqualFold(sh.Role, f.Role) {
			continue
		}
		out = append(out, *sh)
	}
	return out, len(out), nil
}

func (m *memStore) GetShiftStats(_ context.Context, today string) (*models.ShiftStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &models.ShiftStats{AverageHours: decimal.Zero, TotalHours: decimal.Zero}
	for _, sh := range m.shifts {
		stats.TotalShifts++
		if sh.IsOpen() {
			stats.OpenShifts++
		} else {
			stats.ClosedShifts++
		}
		if sh.Date == today {
			stats.ShiftsToday++
		}
	}
	return stats, nil
}

// --- salary ---

func (m *memStore) CreateSalaryRecord(_ context.Context, _ repositories.SQLExecutor, rec *models.SalaryRecord) (*models.SalaryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.records {
		if existing.ShiftID == rec.ShiftID {
			return nil, repositories.ErrDuplicateKey
		}
	}
	cp := *rec
	cp.RecordID = m.id()
	cp.PaymentStatus = models.PaymentStatusPending
	m.records[cp.RecordID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) ExistsForShift(_ context.Context, _ repositories.SQLExecutor, shiftID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.ShiftID == shiftID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) GetSalaryRecordByID(_ context.Context, _ repositories.SQLExecutor, id int64) (*models.SalaryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (m *memStore) GetSalaryRecords(_ context.Context, f models.SalaryFilters, _, _ *time.Time) ([]models.SalaryRecord, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SalaryRecord
	for _, rec := range m.records {
		if f.Status != "" && rec.PaymentStatus != f.Status {
			continue
		}
		out = append(out, *rec)
	}
	return out, len(out), nil
}

func (m *memStore) MarkPaid(_ context.Context, _ repositories.SQLExecutor, id int64, paidBy *int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok || rec.PaymentStatus != models.PaymentStatusPending {
		return repositories.ErrNotFound
	}
	now := time.Now()
	rec.PaymentStatus = models.PaymentStatusPaid
	rec.PaidAt = &now
	rec.PaidBy = paidBy
	return nil
}

func (m *memStore) MonthlyReport(_ context.Context, _, _ time.Time) ([]models.MonthlySalaryRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byStaff := map[int64]*models.MonthlySalaryRow{}
	var order []int64
	for id := int64(1); id <= m.nextID; id++ {
		rec, ok := m.records[id]
		if !ok {
			continue
		}
		row, ok := byStaff[rec.StaffID]
		if !ok {
			row = &models.MonthlySalaryRow{StaffID: rec.StaffID, TotalHours: decimal.Zero, TotalAmount: decimal.Zero}
			if s, found := m.staff[rec.StaffID]; found {
				row.FullName = s.FullName
			}
			byStaff[rec.StaffID] = row
			order = append(order, rec.StaffID)
		}
		row.TotalHours = row.TotalHours.Add(rec.TotalHours)
		row.TotalAmount = row.TotalAmount.Add(rec.TotalAmount)
		row.ShiftCount++
	}
	out := make([]models.MonthlySalaryRow, 0, len(order))
	for _, id := range order {
		out = append(out, *byStaff[id])
	}
	return out, nil
}

func (m *memStore) PendingTotals(_ context.Context) (int, decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, sum := 0, decimal.Zero
	for _, rec := range m.records {
		if rec.PaymentStatus == models.PaymentStatusPending {
			n++
			sum = sum.Add(rec.TotalAmount)
		}
	}
	return n, sum, nil
}

func (m *memStore) PaidTotalBetween(_ context.Context, _, _ time.Time) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := decimal.Zero
	for _, rec := range m.records {
		if rec.PaymentStatus == models.PaymentStatusPaid {
			sum = sum.Add(rec.TotalAmount)
		}
	}
	return sum, nil
}

func (m *memStore) salaryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
