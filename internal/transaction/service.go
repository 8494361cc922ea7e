// Package transaction, sepetteki kalemleri fiyatlandırılmış, mağazaya bağlı
// bir satış kaydına çeviren işlem çekirdeğidir. Fiyatlar istemciden alınmaz;
// doğrulama anındaki katalog fiyatı sunucu tarafında sabitlenir.
package transaction

import (
	"errors"
	"math"
	"strings"
	"time"

	"pos-backend/internal/apperror"
	"pos-backend/internal/catalog"
	"pos-backend/internal/models"
	"pos-backend/internal/shift"

	"go.uber.org/zap"
)

// Catalog, menülerin mağaza kapsamında ve aktif olarak çözülmesini sağlayan
// katalog sözleşmesidir (catalog.Storage bunu sağlar).
type Catalog interface {
	FindActiveMenu(storeID, menuID uint) (*models.Menu, error)
}

// ShiftChecker, verilen vardiyanın açık ve aynı mağazaya ait olduğunu
// doğrular (shift.Storage bunu sağlar).
type ShiftChecker interface {
	FindOpenShift(storeID, shiftID uint) (*models.Shift, error)
}

type Processor struct {
	storage Storage
	catalog Catalog
	shifts  ShiftChecker
	logger  *zap.Logger
}

func NewProcessor(storage Storage, cat Catalog, shifts ShiftChecker, logger *zap.Logger) *Processor {
	return &Processor{storage: storage, catalog: cat, shifts: shifts, logger: logger}
}

type CreateItemInput struct {
	MenuID       uint
	Quantity     int
	CustomerName *string
	CustomerNote *string
}

type CreateInput struct {
	Items         []CreateItemInput
	PaymentMethod *string
	ShiftID       *uint
	Status        *string
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// round2, tutarı standart half-up ile 2 ondalığa yuvarlar.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Create sepeti doğrular ve işlemi kalemleriyle birlikte atomik olarak yazar.
// Herhangi bir kalem çözülemezse (yabancı mağaza, silinmiş menü) operasyonun
// tamamı iptal edilir; kısmi satır yazılmaz.
func (p *Processor) Create(storeID, userID uint, in CreateInput) (*models.Transaction, error) {
	if len(in.Items) == 0 {
		return nil, apperror.Validation("İşlemde en az 1 kalem olmalı")
	}

	status := models.TransactionStatusCompleted
	if in.Status != nil && *in.Status != "" {
		status = models.TransactionStatus(strings.ToUpper(strings.TrimSpace(*in.Status)))
		if !models.ValidTransactionStatus(status) {
			return nil, apperror.Validationf("Geçersiz işlem durumu: %s", *in.Status)
		}
	}

	// Vardiya verildiyse açık ve bu mağazaya ait olmalı; sessizce düşürülmez.
	var shiftID *uint
	if in.ShiftID != nil {
		sh, err := p.shifts.FindOpenShift(storeID, *in.ShiftID)
		if err != nil {
			if errors.Is(err, shift.ErrNotFound) {
				return nil, apperror.Validationf("Vardiya %d bulunamadı, bu mağazaya ait değil veya kapatılmış", *in.ShiftID)
			}
			return nil, apperror.Internal("Vardiya kontrol edilemedi", err)
		}
		shiftID = &sh.ID
	}

	var (
		total float64
		items = make([]models.TransactionItem, 0, len(in.Items))
	)
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, apperror.Validationf("Menü %d için adet pozitif tam sayı olmalı", item.MenuID)
		}

		menu, err := p.catalog.FindActiveMenu(storeID, item.MenuID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, apperror.Validationf("Menü %d bulunamadı, silinmiş veya bu mağazaya ait değil", item.MenuID)
			}
			return nil, apperror.Internal("Menü sorgulanamadı", err)
		}

		// Fiyat anlık görüntüsü: menü fiyatı sonradan değişse de kalem
		// üzerindeki değer sabit kalır.
		total += menu.Price * float64(item.Quantity)
		items = append(items, models.TransactionItem{
			MenuID:             menu.ID,
			Quantity:           item.Quantity,
			PriceAtTransaction: menu.Price,
			CustomerName:       item.CustomerName,
			CustomerNote:       item.CustomerNote,
		})
	}

	txn := &models.Transaction{
		StoreID:          storeID,
		UserID:           userID,
		ShiftID:          shiftID,
		Status:           status,
		TotalAmount:      round2(total),
		PaymentMethod:    in.PaymentMethod,
		TransactionDate:  time.Now(),
		TransactionItems: items,
	}

	if err := p.storage.Create(txn); err != nil {
		return nil, apperror.Internal("İşlem kaydedilemedi", err)
	}

	p.logger.Info("işlem oluşturuldu",
		zap.Uint("transaction_id", txn.ID),
		zap.Uint("store_id", storeID),
		zap.Int("item_count", len(items)),
		zap.Float64("total_amount", txn.TotalAmount),
	)
	return txn, nil
}

// List mağazanın işlemlerini tarihe göre azalan sıralı sayfalar; sayfa
// hesabı için toplam kayıt sayısını da döndürür.
func (p *Processor) List(storeID uint, page, limit int) ([]models.Transaction, int64, int, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	txns, total, err := p.storage.List(storeID, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, 0, 0, apperror.Internal("İşlemler listelenemedi", err)
	}
	return txns, total, page, limit, nil
}

func (p *Processor) Get(storeID, id uint) (*models.Transaction, error) {
	txn, err := p.storage.FindByID(storeID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.NotFound("İşlem bulunamadı")
		}
		return nil, apperror.Internal("İşlem sorgulanamadı", err)
	}
	return txn, nil
}

// UpdateStatus işlem durumunu günceller. Tanımlı değerler arasında geçiş
// sırası zorunlu tutulmaz.
func (p *Processor) UpdateStatus(storeID, id uint, status string) (*models.Transaction, error) {
	st := models.TransactionStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !models.ValidTransactionStatus(st) {
		return nil, apperror.Validationf("Geçersiz işlem durumu: %s", status)
	}

	txn, err := p.storage.UpdateStatus(storeID, id, st)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.NotFound("İşlem bulunamadı")
		}
		return nil, apperror.Internal("İşlem durumu güncellenemedi", err)
	}
	return txn, nil
}
