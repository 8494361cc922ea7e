package main

import (
	"errors"
	"log"
	"strings"

	"pos-backend/internal/apperror"
	"pos-backend/internal/auth"
	"pos-backend/internal/catalog"
	"pos-backend/internal/config"
	"pos-backend/internal/database"
	"pos-backend/internal/models"
	"pos-backend/internal/report"
	"pos-backend/internal/shift"
	"pos-backend/internal/transaction"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env varsa yükle, yoksa ortam değişkenleriyle devam et
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Logger oluşturulamadı: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("veritabanı bağlantısı başarısız", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("migration başarısız", zap.Error(err))
	}

	authStorage := auth.NewStorage(db)
	authService := auth.NewService(authStorage, logger)
	catalogStorage := catalog.NewStorage(db)
	shiftStorage := shift.NewStorage(db)
	shiftLedger := shift.NewLedger(shiftStorage, logger)
	txProcessor := transaction.NewProcessor(transaction.NewStorage(db), catalogStorage, shiftStorage, logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler(logger),
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	// Yüklenen profil fotoğrafları
	app.Static("/uploads", cfg.UploadPath)

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register/owner", auth.RegisterOwnerHandler(authService))
	api.Post("/auth/register/staff", auth.RegisterStaffHandler(authService))
	api.Post("/auth/login", auth.LoginHandler(authService, cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(authService))
	protected.Put("/auth/profile", auth.UpdateProfileHandler(authService))
	protected.Put("/auth/profile/picture", auth.UploadProfilePictureHandler(authService, cfg))

	// Kategori yönetimi (mutasyonlar sadece owner)
	protected.Post("/categories", auth.RequireRole(models.RoleOwner), catalog.CreateCategoryHandler(catalogStorage))
	protected.Get("/categories", catalog.ListCategoriesHandler(catalogStorage))
	protected.Get("/categories/:id", catalog.GetCategoryHandler(catalogStorage))
	protected.Put("/categories/:id", auth.RequireRole(models.RoleOwner), catalog.UpdateCategoryHandler(catalogStorage))
	protected.Delete("/categories/:id", auth.RequireRole(models.RoleOwner), catalog.DeleteCategoryHandler(catalogStorage))

	// Menü yönetimi (search, :id'den önce gelmeli)
	protected.Post("/menus", auth.RequireRole(models.RoleOwner), catalog.CreateMenuHandler(catalogStorage))
	protected.Get("/menus", catalog.ListMenusHandler(catalogStorage))
	protected.Get("/menus/search", catalog.SearchMenusHandler(catalogStorage))
	protected.Get("/menus/:id", catalog.GetMenuHandler(catalogStorage))
	protected.Put("/menus/:id", auth.RequireRole(models.RoleOwner), catalog.UpdateMenuHandler(catalogStorage))
	protected.Delete("/menus/:id", auth.RequireRole(models.RoleOwner), catalog.DeleteMenuHandler(catalogStorage))

	// Vardiyalar
	protected.Post("/shifts/start", shift.StartShiftHandler(shiftLedger))
	protected.Get("/shifts", shift.ListShiftsHandler(shiftLedger))
	protected.Post("/shifts/:shiftId/close", shift.CloseShiftHandler(shiftLedger))

	// İşlemler
	protected.Post("/transactions", transaction.CreateTransactionHandler(txProcessor))
	protected.Get("/transactions", transaction.ListTransactionsHandler(txProcessor))
	protected.Get("/transactions/:id", transaction.GetTransactionHandler(txProcessor))
	protected.Patch("/transactions/:id/status", transaction.UpdateTransactionStatusHandler(txProcessor))

	// Raporlar (sadece owner)
	protected.Get("/reports/sales", auth.RequireRole(models.RoleOwner), report.SalesReportHandler(db))
	protected.Get("/reports/sales/export", auth.RequireRole(models.RoleOwner), report.SalesExportHandler(db))

	logger.Info("server başlatılıyor", zap.String("port", cfg.HTTPPort))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logger.Fatal("server durdu", zap.Error(err))
	}
}

// errorHandler, servislerden gelen apperror türlerini ve fiber hatalarını
// tek noktada HTTP cevabına çevirir.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			if appErr.Kind == apperror.KindInternal {
				logger.Error("beklenmeyen hata", zap.Error(err), zap.String("path", c.Path()))
			}
			return c.Status(statusForKind(appErr.Kind)).JSON(fiber.Map{
				"kind":  appErr.Kind,
				"error": appErr.Message,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"error": fiberErr.Message,
			})
		}

		logger.Error("beklenmeyen hata", zap.Error(err), zap.String("path", c.Path()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"kind":  apperror.KindInternal,
			"error": "Beklenmeyen sunucu hatası",
		})
	}
}

func statusForKind(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindAuthorization:
		return fiber.StatusForbidden
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
