// Package shift, mağaza kasasının vardiya defterini yönetir: açma, kapama
// ve kapanışta satış toplamlarının hesaplanması. Vardiya OPEN olarak doğar
// ve tek yönlü OPEN→CLOSED geçişiyle ölür; yeniden açılmaz.
package shift

import (
	"errors"
	"time"

	"pos-backend/internal/apperror"
	"pos-backend/internal/models"

	"go.uber.org/zap"
)

type Ledger struct {
	storage Storage
	logger  *zap.Logger
}

func NewLedger(storage Storage, logger *zap.Logger) *Ledger {
	return &Ledger{storage: storage, logger: logger}
}

// Start yeni bir OPEN vardiya oluşturur. Mağazada zaten açık vardiya varsa
// ConflictError döner; ön kontrol sadece dostça mesaj içindir, asıl güvence
// veritabanındaki kısmi unique index'tir.
func (l *Ledger) Start(storeID, userID uint, initialCash float64) (*models.Shift, error) {
	if initialCash < 0 {
		return nil, apperror.Validation("Açılış kasası negatif olamaz")
	}

	open, err := l.storage.HasOpenShift(storeID)
	if err != nil {
		return nil, apperror.Internal("Vardiya kontrolü yapılamadı", err)
	}
	if open {
		return nil, apperror.Conflict("Bu mağazada zaten açık bir vardiya var, önce onu kapatın")
	}

	shift := &models.Shift{
		StoreID:        storeID,
		Status:         models.ShiftStatusOpen,
		StartTime:      time.Now(),
		InitialCash:    initialCash,
		OpenedByUserID: userID,
	}

	if err := l.storage.Create(shift); err != nil {
		if errors.Is(err, ErrDuplicate) {
			// Ön kontrol ile create arasında başka bir istek kazandı.
			return nil, apperror.Conflict("Bu mağazada zaten açık bir vardiya var, önce onu kapatın")
		}
		return nil, apperror.Internal("Vardiya oluşturulamadı", err)
	}

	l.logger.Info("vardiya açıldı",
		zap.Uint("shift_id", shift.ID),
		zap.Uint("store_id", storeID),
		zap.Uint("opened_by", userID),
	)
	return shift, nil
}

// Close açık vardiyayı kapatır; satış toplamı ve durum değişikliği tek
// atomik birimde yazılır.
func (l *Ledger) Close(storeID, shiftID, userID uint, finalCash float64) (*models.Shift, error) {
	if finalCash < 0 {
		return nil, apperror.Validation("Kapanış kasası negatif olamaz")
	}

	shift, err := l.storage.CloseOpen(storeID, shiftID, finalCash, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.NotFound("Açık vardiya bulunamadı veya zaten kapatılmış")
		}
		return nil, apperror.Internal("Vardiya kapatılamadı", err)
	}

	l.logger.Info("vardiya kapatıldı",
		zap.Uint("shift_id", shift.ID),
		zap.Uint("store_id", storeID),
		zap.Float64p("total_sales", shift.TotalSalesCalculated),
	)
	return shift, nil
}

// List mağazanın vardiyalarını döndürür. OWNER hepsini görür; STAFF sadece
// kendi açtığı veya kapattığı vardiyaları.
func (l *Ledger) List(storeID, userID uint, role models.UserRole) ([]models.Shift, error) {
	var (
		shifts []models.Shift
		err    error
	)
	if role == models.RoleStaff {
		shifts, err = l.storage.ListByStoreAndUser(storeID, userID)
	} else {
		shifts, err = l.storage.ListByStore(storeID)
	}
	if err != nil {
		return nil, apperror.Internal("Vardiyalar listelenemedi", err)
	}
	return shifts, nil
}
