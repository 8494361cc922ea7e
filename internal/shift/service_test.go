package shift

import (
	"sync"
	"testing"
	"time"

	"pos-backend/internal/apperror"
	"pos-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeStorage, Storage arayüzünün bellek içi gerçeklemesi. Create, gerçek
// veritabanındaki kısmi unique index gibi "mağaza başına tek OPEN" kuralını
// kilit altında atomik olarak uygular.
type fakeStorage struct {
	mu           sync.Mutex
	nextID       uint
	shifts       map[uint]*models.Shift
	transactions []models.Transaction
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{shifts: map[uint]*models.Shift{}}
}

func (f *fakeStorage) HasOpenShift(storeID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.shifts {
		if s.StoreID == storeID && s.Status == models.ShiftStatusOpen {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStorage) Create(shift *models.Shift) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.shifts {
		if s.StoreID == shift.StoreID && s.Status == models.ShiftStatusOpen {
			return ErrDuplicate
		}
	}
	f.nextID++
	shift.ID = f.nextID
	cp := *shift
	f.shifts[shift.ID] = &cp
	return nil
}

func (f *fakeStorage) CloseOpen(storeID, shiftID uint, finalCash float64, closedByUserID uint) (*models.Shift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.shifts[shiftID]
	if !ok || s.StoreID != storeID || s.Status != models.ShiftStatusOpen {
		return nil, ErrNotFound
	}

	var total float64
	for _, t := range f.transactions {
		if t.ShiftID != nil && *t.ShiftID == shiftID && t.StoreID == storeID {
			total += t.TotalAmount
		}
	}

	now := time.Now()
	s.Status = models.ShiftStatusClosed
	s.EndTime = &now
	s.FinalCash = &finalCash
	s.TotalSalesCalculated = &total
	s.ClosedByUserID = &closedByUserID
	cp := *s
	return &cp, nil
}

func (f *fakeStorage) ListByStore(storeID uint) ([]models.Shift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Shift
	for _, s := range f.shifts {
		if s.StoreID == storeID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStorage) ListByStoreAndUser(storeID, userID uint) ([]models.Shift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Shift
	for _, s := range f.shifts {
		if s.StoreID != storeID {
			continue
		}
		if s.OpenedByUserID == userID || (s.ClosedByUserID != nil && *s.ClosedByUserID == userID) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStorage) FindOpenShift(storeID, shiftID uint) (*models.Shift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.shifts[shiftID]
	if !ok || s.StoreID != storeID || s.Status != models.ShiftStatusOpen {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStorage) openCount(storeID uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, s := range f.shifts {
		if s.StoreID == storeID && s.Status == models.ShiftStatusOpen {
			count++
		}
	}
	return count
}

func newTestLedger(t *testing.T) (*Ledger, *fakeStorage) {
	t.Helper()
	storage := newFakeStorage()
	return NewLedger(storage, zaptest.NewLogger(t)), storage
}

func TestStartShift(t *testing.T) {
	ledger, _ := newTestLedger(t)

	shift, err := ledger.Start(1, 10, 250)
	require.NoError(t, err)

	assert.Equal(t, models.ShiftStatusOpen, shift.Status)
	assert.Equal(t, uint(1), shift.StoreID)
	assert.Equal(t, uint(10), shift.OpenedByUserID)
	assert.Equal(t, 250.0, shift.InitialCash)
	assert.False(t, shift.StartTime.IsZero())
	assert.Nil(t, shift.TotalSalesCalculated)
	assert.Nil(t, shift.EndTime)
}

func TestStartShift_NegativeInitialCash(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, err := ledger.Start(1, 10, -5)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
}

func TestStartShift_SecondOpenConflicts(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, err := ledger.Start(1, 10, 0)
	require.NoError(t, err)

	_, err = ledger.Start(1, 11, 0)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindConflict, appErr.Kind)
}

func TestStartShift_OtherStoreUnaffected(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, err := ledger.Start(1, 10, 0)
	require.NoError(t, err)

	// Farklı mağaza için açık vardiya kuralı bağımsız işler.
	_, err = ledger.Start(2, 20, 0)
	require.NoError(t, err)
}

// Eşzamanlı start denemelerinde yalnızca biri kazanmalı; kuralın kaynağı
// storage'daki unique kısıt olduğu için ön kontrol yarışı kaybetse bile
// ikinci OPEN vardiya oluşmaz.
func TestStartShift_ConcurrentSingleWinner(t *testing.T) {
	ledger, storage := newTestLedger(t)

	const attempts = 20
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := ledger.Start(1, userID, 0)
			results <- err
		}(uint(i + 1))
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var appErr *apperror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.KindConflict, appErr.Kind)
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, storage.openCount(1))
}

func TestCloseShift_AggregatesTotals(t *testing.T) {
	ledger, storage := newTestLedger(t)

	shift, err := ledger.Start(1, 10, 100)
	require.NoError(t, err)

	otherStoreShift := shift.ID + 99
	storage.transactions = []models.Transaction{
		{StoreID: 1, ShiftID: &shift.ID, TotalAmount: 50000},
		{StoreID: 1, ShiftID: &shift.ID, TotalAmount: 30000},
		// Vardiyasız satış toplamın dışında kalır
		{StoreID: 1, ShiftID: nil, TotalAmount: 7000},
		// Başka mağazanın işlemi asla sayılmaz
		{StoreID: 2, ShiftID: &shift.ID, TotalAmount: 99999},
		{StoreID: 1, ShiftID: &otherStoreShift, TotalAmount: 1234},
	}

	closed, err := ledger.Close(1, shift.ID, 11, 180)
	require.NoError(t, err)

	assert.Equal(t, models.ShiftStatusClosed, closed.Status)
	require.NotNil(t, closed.TotalSalesCalculated)
	assert.Equal(t, 80000.0, *closed.TotalSalesCalculated)
	require.NotNil(t, closed.FinalCash)
	assert.Equal(t, 180.0, *closed.FinalCash)
	require.NotNil(t, closed.ClosedByUserID)
	assert.Equal(t, uint(11), *closed.ClosedByUserID)
	require.NotNil(t, closed.EndTime)
}

func TestCloseShift_NotFound(t *testing.T) {
	ledger, _ := newTestLedger(t)

	shift, err := ledger.Start(1, 10, 0)
	require.NoError(t, err)

	cases := []struct {
		name    string
		storeID uint
		shiftID uint
	}{
		{"yanlış id", 1, shift.ID + 1},
		{"başka mağaza", 2, shift.ID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.Close(tc.storeID, tc.shiftID, 10, 0)
			var appErr *apperror.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperror.KindNotFound, appErr.Kind)
		})
	}
}

func TestCloseShift_AlreadyClosed(t *testing.T) {
	ledger, _ := newTestLedger(t)

	shift, err := ledger.Start(1, 10, 0)
	require.NoError(t, err)

	_, err = ledger.Close(1, shift.ID, 10, 0)
	require.NoError(t, err)

	// OPEN→CLOSED tek yönlü; ikinci kapatma bulunamadı sayılır.
	_, err = ledger.Close(1, shift.ID, 10, 0)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindNotFound, appErr.Kind)
}

func TestListShifts_RoleFiltering(t *testing.T) {
	ledger, _ := newTestLedger(t)

	s1, err := ledger.Start(1, 10, 0)
	require.NoError(t, err)
	_, err = ledger.Close(1, s1.ID, 11, 0) // 11 kapattı
	require.NoError(t, err)

	s2, err := ledger.Start(1, 12, 0)
	require.NoError(t, err)

	_, err = ledger.Start(2, 10, 0) // başka mağaza
	require.NoError(t, err)

	// OWNER mağazadaki her şeyi görür
	all, err := ledger.List(1, 99, models.RoleOwner)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// STAFF sadece açtığı veya kapattığı vardiyaları görür
	mine, err := ledger.List(1, 11, models.RoleStaff)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, s1.ID, mine[0].ID)

	mine, err = ledger.List(1, 12, models.RoleStaff)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, s2.ID, mine[0].ID)
}
