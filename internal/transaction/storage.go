package transaction

import (
	"errors"

	"pos-backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("işlem bulunamadı")

type Storage interface {
	// Create işlemi ve kalemlerini tek atomik birimde yazar: ya hepsi ya hiçbiri.
	Create(txn *models.Transaction) error
	FindByID(storeID, id uint) (*models.Transaction, error)
	// List transaction_date'e göre azalan sıralı sayfa ve toplam kayıt sayısı döndürür.
	List(storeID uint, offset, limit int) ([]models.Transaction, int64, error)
	UpdateStatus(storeID, id uint, status models.TransactionStatus) (*models.Transaction, error)
}

type gormStorage struct {
	db *gorm.DB
}

func NewStorage(db *gorm.DB) Storage {
	return &gormStorage{db: db}
}

func (s *gormStorage) Create(txn *models.Transaction) error {
	// gorm, TransactionItems ilişkisini aynı insert zincirinde yazar; yine de
	// çökme/çakışma altında kısmi satır kalmaması için açık transaction.
	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(txn).Error
	})
}

func (s *gormStorage) FindByID(storeID, id uint) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.db.Where("id = ? AND store_id = ?", id, storeID).
		Preload("TransactionItems").
		Preload("TransactionItems.Menu").
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &txn, nil
}

func (s *gormStorage) List(storeID uint, offset, limit int) ([]models.Transaction, int64, error) {
	var total int64
	if err := s.db.Model(&models.Transaction{}).
		Where("store_id = ?", storeID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txns []models.Transaction
	err := s.db.Where("store_id = ?", storeID).
		Preload("TransactionItems").
		Order("transaction_date desc").
		Offset(offset).
		Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

func (s *gormStorage) UpdateStatus(storeID, id uint, status models.TransactionStatus) (*models.Transaction, error) {
	txn, err := s.FindByID(storeID, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(txn).Update("status", status).Error; err != nil {
		return nil, err
	}
	txn.Status = status
	return txn, nil
}
