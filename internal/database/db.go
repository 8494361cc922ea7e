package database

import (
	"fmt"

	"pos-backend/internal/config"
	"pos-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect veritabanı bağlantısını açar ve döndürür; global state tutulmaz,
// bağlantı main'de açılır ve ihtiyacı olan her katmana elden verilir.
// TranslateError sayesinde unique ihlalleri gorm.ErrDuplicatedKey olarak gelir.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("veritabanına bağlanılamadı: %w", err)
	}
	return db, nil
}

// Migrate şemayı kurar. AutoMigrate'in üretemediği kısmi unique index'ler
// elle eklenir; eşzamanlılık kuralları (tek açık vardiya, aktif kayıtlar
// arasında benzersiz isim, benzersiz referans kodu) bu index'lere dayanır.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Store{},
		&models.User{},
		&models.Category{},
		&models.Menu{},
		&models.Shift{},
		&models.Transaction{},
		&models.TransactionItem{},
	)
	if err != nil {
		return fmt.Errorf("automigrate hatası: %w", err)
	}

	// Mağaza başına aynı anda en fazla bir OPEN vardiya.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_one_open_per_store
		ON shifts (store_id) WHERE status = 'OPEN'`).Error; err != nil {
		return fmt.Errorf("vardiya index'i oluşturulamadı: %w", err)
	}

	// Soft delete edilmemiş kayıtlar arasında mağaza bazında benzersiz isim.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_menus_store_name_active
		ON menus (store_id, name) WHERE deleted_at IS NULL`).Error; err != nil {
		return fmt.Errorf("menü index'i oluşturulamadı: %w", err)
	}
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_store_name_active
		ON categories (store_id, name) WHERE deleted_at IS NULL`).Error; err != nil {
		return fmt.Errorf("kategori index'i oluşturulamadı: %w", err)
	}

	return nil
}
