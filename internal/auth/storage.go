package auth

import (
	"errors"

	"pos-backend/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound, aranan kullanıcı kaydı yoksa döner.
var ErrNotFound = errors.New("kullanıcı bulunamadı")

// ErrDuplicate, bir unique kısıtı ihlal edildiğinde döner (email, mağaza adı
// veya referans kodu). Kısıt ihlali yarış durumlarında tek güvenilir sinyaldir.
var ErrDuplicate = errors.New("benzersizlik kısıtı ihlali")

type Storage interface {
	FindUserByID(id uint) (*models.User, error)
	FindUserByEmail(email string) (*models.User, error)
	FindOwnerByReferralCode(code string) (*models.User, error)
	// CreateOwnerWithStore mağazayı ve sahibini tek atomik birim olarak yazar.
	CreateOwnerWithStore(user *models.User, store *models.Store) error
	CreateUser(user *models.User) error
	UpdateUser(user *models.User) error
	UpdateReferralCode(userID uint, code string) error
}

type gormStorage struct {
	db *gorm.DB
}

func NewStorage(db *gorm.DB) Storage {
	return &gormStorage{db: db}
}

func (s *gormStorage) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *gormStorage) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *gormStorage) FindOwnerByReferralCode(code string) (*models.User, error) {
	var user models.User
	err := s.db.Where("referral_code = ? AND role = ?", code, models.RoleOwner).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *gormStorage) CreateOwnerWithStore(user *models.User, store *models.Store) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(store).Error; err != nil {
			return translate(err)
		}
		user.StoreID = &store.ID
		if err := tx.Create(user).Error; err != nil {
			return translate(err)
		}
		// Sahiplik ilişkisini geri yaz
		if err := tx.Model(store).Update("owner_id", user.ID).Error; err != nil {
			return translate(err)
		}
		return nil
	})
}

func (s *gormStorage) CreateUser(user *models.User) error {
	return translate(s.db.Create(user).Error)
}

func (s *gormStorage) UpdateUser(user *models.User) error {
	return translate(s.db.Save(user).Error)
}

func (s *gormStorage) UpdateReferralCode(userID uint, code string) error {
	return translate(s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("referral_code", code).Error)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
