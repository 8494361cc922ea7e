package models

import "time"

type Store struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	OwnerID   *uint  `gorm:"uniqueIndex"` // mağaza sahibi (User), kayıt sırasında doldurulur
	CreatedAt time.Time
	UpdatedAt time.Time

	Users []User
}
