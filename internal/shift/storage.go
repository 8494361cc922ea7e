package shift

import (
	"errors"
	"time"

	"pos-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("vardiya bulunamadı")

// ErrDuplicate, shifts üzerindeki "mağaza başına tek OPEN" kısmi unique
// index'in ihlalinde döner. Uygulamadaki ön kontrol sadece nazik mesaj
// içindir; yarışı bu kısıt kazanır.
var ErrDuplicate = errors.New("açık vardiya kısıtı ihlali")

type Storage interface {
	HasOpenShift(storeID uint) (bool, error)
	Create(shift *models.Shift) error
	// CloseOpen aggregasyonu ve durumu tek atomik birimde günceller: OPEN
	// vardiya satırı kilitlenir, işlem toplamları hesaplanır ve kapanış
	// alanlarıyla birlikte yazılır. Okuyan hiçbir zaman CLOSED + eksik
	// toplam görmez.
	CloseOpen(storeID, shiftID uint, finalCash float64, closedByUserID uint) (*models.Shift, error)
	ListByStore(storeID uint) ([]models.Shift, error)
	ListByStoreAndUser(storeID, userID uint) ([]models.Shift, error)
	// FindOpenShift, TransactionProcessor'ın "bu vardiya açık ve benim mi"
	// kontrolüdür.
	FindOpenShift(storeID, shiftID uint) (*models.Shift, error)
}

type gormStorage struct {
	db *gorm.DB
}

func NewStorage(db *gorm.DB) Storage {
	return &gormStorage{db: db}
}

func (s *gormStorage) HasOpenShift(storeID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Shift{}).
		Where("store_id = ? AND status = ?", storeID, models.ShiftStatusOpen).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *gormStorage) Create(shift *models.Shift) error {
	err := s.db.Create(shift).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (s *gormStorage) CloseOpen(storeID, shiftID uint, finalCash float64, closedByUserID uint) (*models.Shift, error) {
	var shift models.Shift
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND store_id = ? AND status = ?", shiftID, storeID, models.ShiftStatusOpen).
			First(&shift).Error; err != nil {
			return err
		}

		// storeId filtresi, shift id'si başka mağazaya ait işlemlerle
		// kirlenmişse bile kiracı sızıntısını engeller.
		var total float64
		if err := tx.Model(&models.Transaction{}).
			Where("shift_id = ? AND store_id = ?", shiftID, storeID).
			Select("COALESCE(SUM(total_amount), 0)").
			Scan(&total).Error; err != nil {
			return err
		}

		now := time.Now()
		shift.Status = models.ShiftStatusClosed
		shift.EndTime = &now
		shift.FinalCash = &finalCash
		shift.TotalSalesCalculated = &total
		shift.ClosedByUserID = &closedByUserID

		return tx.Save(&shift).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &shift, nil
}

func (s *gormStorage) ListByStore(storeID uint) ([]models.Shift, error) {
	var shifts []models.Shift
	err := s.db.Where("store_id = ?", storeID).
		Order("start_time desc").
		Find(&shifts).Error
	return shifts, err
}

func (s *gormStorage) ListByStoreAndUser(storeID, userID uint) ([]models.Shift, error) {
	var shifts []models.Shift
	err := s.db.Where("store_id = ? AND (opened_by_user_id = ? OR closed_by_user_id = ?)",
		storeID, userID, userID).
		Order("start_time desc").
		Find(&shifts).Error
	return shifts, err
}

func (s *gormStorage) FindOpenShift(storeID, shiftID uint) (*models.Shift, error) {
	var shift models.Shift
	err := s.db.Where("id = ? AND store_id = ? AND status = ?",
		shiftID, storeID, models.ShiftStatusOpen).
		First(&shift).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &shift, nil
}
