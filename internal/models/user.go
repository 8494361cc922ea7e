package models

import "time"

type UserRole string

const (
	RoleOwner UserRole = "OWNER" // mağaza sahibi
	RoleStaff UserRole = "STAFF" // kasiyer / personel
)

type User struct {
	ID           uint `gorm:"primaryKey"`
	StoreID      *uint
	Store        *Store
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:10;not null"`
	// Sadece OWNER için anlamlı; her kullanımdan sonra yenilenir (tek kullanımlık).
	ReferralCode *string `gorm:"size:16;uniqueIndex"`
	// Kayıt sırasında kullanılan kod, sonradan değişmez.
	ReferredByCode    *string `gorm:"size:16"`
	Bio               string  `gorm:"size:500"`
	ProfilePictureURL string  `gorm:"size:255"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
