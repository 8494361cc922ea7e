package models

import "time"

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
	TransactionStatusRefunded  TransactionStatus = "REFUNDED"
)

// ValidTransactionStatus, verilen değerin tanımlı durumlardan biri olup
// olmadığını söyler. Durumlar arasında geçiş sırası zorunlu değildir.
func ValidTransactionStatus(s TransactionStatus) bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted,
		TransactionStatusCancelled, TransactionStatusRefunded:
		return true
	}
	return false
}

// Transaction ve kalemleri birlikte, tek atomik birim olarak yazılır.
// Status dışında sonradan değiştirilmezler.
type Transaction struct {
	ID              uint              `gorm:"primaryKey"`
	StoreID         uint              `gorm:"index;not null"`
	UserID          uint              `gorm:"index;not null"`
	User            *User
	ShiftID         *uint `gorm:"index"` // vardiyasız satışa izin var
	Shift           *Shift
	Status          TransactionStatus `gorm:"size:10;not null;default:'COMPLETED'"`
	TotalAmount     float64           `gorm:"not null"`
	PaymentMethod   *string           `gorm:"size:30"`
	TransactionDate time.Time         `gorm:"index;not null"`

	TransactionItems []TransactionItem
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type TransactionItem struct {
	ID            uint `gorm:"primaryKey"`
	TransactionID uint `gorm:"index;not null"`
	MenuID        uint `gorm:"index;not null"`
	Menu          *Menu
	Quantity      int `gorm:"not null"`
	// Satış anındaki fiyat; menü fiyatı sonradan değişse de burası sabit kalır.
	PriceAtTransaction float64 `gorm:"not null"`
	CustomerName       *string `gorm:"size:100"`
	CustomerNote       *string `gorm:"size:255"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
