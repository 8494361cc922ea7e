package models

import "time"

type ShiftStatus string

const (
	ShiftStatusOpen   ShiftStatus = "OPEN"
	ShiftStatusClosed ShiftStatus = "CLOSED"
)

// Shift, bir mağazanın kasasının açık olduğu süreyi temsil eder.
// Bir mağazada aynı anda en fazla bir OPEN vardiya olabilir; bu kural
// uygulama kontrolüne değil, veritabanındaki kısmi unique index'e dayanır
// (bkz. database.Migrate).
type Shift struct {
	ID                   uint        `gorm:"primaryKey"`
	StoreID              uint        `gorm:"index;not null"`
	Status               ShiftStatus `gorm:"size:10;not null"`
	StartTime            time.Time   `gorm:"not null"`
	EndTime              *time.Time
	InitialCash          float64 `gorm:"not null;default:0"`
	FinalCash            *float64
	TotalSalesCalculated *float64 // kapanışta hesaplanır, OPEN iken null
	OpenedByUserID       uint     `gorm:"index;not null"`
	OpenedByUser         *User    `gorm:"foreignKey:OpenedByUserID"`
	ClosedByUserID       *uint    `gorm:"index"`
	ClosedByUser         *User    `gorm:"foreignKey:ClosedByUserID"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
