package models

import "time"

type Category struct {
	ID        uint       `gorm:"primaryKey"`
	StoreID   uint       `gorm:"index;not null"`
	Name      string     `gorm:"size:100;not null"`
	DeletedAt *time.Time `gorm:"index"` // soft delete
	CreatedAt time.Time
	UpdatedAt time.Time
}
