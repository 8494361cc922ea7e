// Package catalog, mağaza kataloğunu (kategori + menü) yönetir. Soft delete
// filtresi ("aktif" kayıt tanımı) sorgulara dağıtılmaz; yalnızca bu dosyadaki
// storage metodlarında uygulanır.
package catalog

import (
	"errors"
	"time"

	"pos-backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("kayıt bulunamadı")

var ErrDuplicate = errors.New("benzersizlik kısıtı ihlali")

type Storage interface {
	CreateCategory(cat *models.Category) error
	ActiveCategories(storeID uint) ([]models.Category, error)
	FindActiveCategory(storeID, id uint) (*models.Category, error)
	UpdateCategory(cat *models.Category) error
	SoftDeleteCategory(storeID, id uint) error

	CreateMenu(menu *models.Menu) error
	ActiveMenus(storeID uint) ([]models.Menu, error)
	SearchActiveMenus(storeID uint, query string) ([]models.Menu, error)
	// FindActiveMenu, TransactionProcessor'ın da kullandığı CatalogLookup
	// sözleşmesidir: menü verilen mağazaya ait ve silinmemiş olmalı.
	FindActiveMenu(storeID, id uint) (*models.Menu, error)
	UpdateMenu(menu *models.Menu) error
	SoftDeleteMenu(storeID, id uint) error
}

type gormStorage struct {
	db *gorm.DB
}

func NewStorage(db *gorm.DB) Storage {
	return &gormStorage{db: db}
}

func (s *gormStorage) active(storeID uint) *gorm.DB {
	return s.db.Where("store_id = ? AND deleted_at IS NULL", storeID)
}

func (s *gormStorage) CreateCategory(cat *models.Category) error {
	return translate(s.db.Create(cat).Error)
}

func (s *gormStorage) ActiveCategories(storeID uint) ([]models.Category, error) {
	var cats []models.Category
	err := s.active(storeID).Order("name asc").Find(&cats).Error
	return cats, translate(err)
}

func (s *gormStorage) FindActiveCategory(storeID, id uint) (*models.Category, error) {
	var cat models.Category
	if err := s.active(storeID).First(&cat, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &cat, nil
}

func (s *gormStorage) UpdateCategory(cat *models.Category) error {
	return translate(s.db.Save(cat).Error)
}

func (s *gormStorage) SoftDeleteCategory(storeID, id uint) error {
	res := s.db.Model(&models.Category{}).
		Where("store_id = ? AND id = ? AND deleted_at IS NULL", storeID, id).
		Update("deleted_at", time.Now())
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStorage) CreateMenu(menu *models.Menu) error {
	return translate(s.db.Create(menu).Error)
}

func (s *gormStorage) ActiveMenus(storeID uint) ([]models.Menu, error) {
	var menus []models.Menu
	err := s.active(storeID).Preload("Category").Order("name asc").Find(&menus).Error
	return menus, translate(err)
}

func (s *gormStorage) SearchActiveMenus(storeID uint, query string) ([]models.Menu, error) {
	var menus []models.Menu
	err := s.active(storeID).
		Where("name ILIKE ?", "%"+query+"%").
		Preload("Category").
		Order("name asc").
		Find(&menus).Error
	return menus, translate(err)
}

func (s *gormStorage) FindActiveMenu(storeID, id uint) (*models.Menu, error) {
	var menu models.Menu
	if err := s.active(storeID).First(&menu, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &menu, nil
}

func (s *gormStorage) UpdateMenu(menu *models.Menu) error {
	return translate(s.db.Save(menu).Error)
}

func (s *gormStorage) SoftDeleteMenu(storeID, id uint) error {
	res := s.db.Model(&models.Menu{}).
		Where("store_id = ? AND id = ? AND deleted_at IS NULL", storeID, id).
		Update("deleted_at", time.Now())
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
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
