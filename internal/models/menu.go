package models

import "time"

type Menu struct {
	ID         uint    `gorm:"primaryKey"`
	StoreID    uint    `gorm:"index;not null"`
	Name       string  `gorm:"size:100;not null"`
	Price      float64 `gorm:"not null"`
	CategoryID *uint
	Category   *Category
	ImageURL   string `gorm:"size:255"`
	// Soft delete: dolu ise menü yeni işlemlerde kullanılamaz, geçmiş kayıtlar korunur.
	DeletedAt *time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
