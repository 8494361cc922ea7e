package catalog

import (
	"errors"
	"strings"

	"pos-backend/internal/auth"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CategoryRequest struct {
	Name string `json:"name"`
}

type CategoryResponse struct {
	ID      uint   `json:"id"`
	StoreID uint   `json:"store_id"`
	Name    string `json:"name"`
}

func toCategoryResponse(cat *models.Category) CategoryResponse {
	return CategoryResponse{ID: cat.ID, StoreID: cat.StoreID, Name: cat.Name}
}

// -------------------------------------------------
// POST /api/categories
// -------------------------------------------------
func CreateCategoryHandler(storage Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, _, storeID, err := auth.StoreScope(c)
		if err != nil {
			return err
		}

		var body CategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Kategori adı boş olamaz")
		}

		cat := &models.Category{StoreID: storeID, Name: body.Name}
		if err := storage.CreateCategory(cat); err != nil {
			if errors.Is(err, ErrDuplicate) {
				return fiber.NewError(fiber.StatusConflict, "Bu isimde bir kategori zaten var")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toCategoryResponse(cat))
	}
}

// -------------------------------------------------
// GET /api/categories
// -------------------------------------------------
func ListCategoriesHandler(storage Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, _, storeID, err := auth.StoreScope(c)
		if err != nil {
			return err
		}

		cats, err := storage.ActiveCategories(storeID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kategoriler listelenemedi")
		}

		resp := make([]CategoryResponse, 0, len(cats))
		for i := range cats {
			resp = append(resp, toCategoryResponse(&cats[i]))
		}
		return c.JSON(resp)
	}
}

// -------------------------------------------------
// GET /api/categories/:id
// -------------------------------------------------
func GetCategoryHandler(storage Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, _, storeID, err := auth.StoreScope(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Kategori ID geçersiz")
		}

		cat, err := storage.FindActiveCategory(storeID, uint(id))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı veya silinmiş")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori sorgulanamadı")
		}

		return c.JSON(toCategoryResponse(cat))
	}
}

// -------------------------------------------------
// PUT /api/categories/:id
// -------------------------------------------------
func UpdateCategoryHandler(storage Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, _, storeID, err := auth.StoreScope(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Kategori ID geçersiz")
		}

		var body CategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Kategori adı boş olamaz")
		}

		cat, err := storage.FindActiveCategory(storeID, uint(id))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı veya silinmiş")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori sorgulanamadı")
		}

		cat.Name = body.Name
		if err := storage.UpdateCategory(cat); err != nil {
			if errors.Is(err, ErrDuplicate) {
				return fiber.NewError(fiber.StatusConflict, "Bu isimde başka bir kategori zaten var")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori güncellenemedi")
		}

		return c.JSON(toCategoryResponse(cat))
	}
}

// -------------------------------------------------
// DELETE /api/categories/:id  (soft delete)
// -------------------------------------------------
func DeleteCategoryHandler(storage Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, _, storeID, err := auth.StoreScope(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Kategori ID geçersiz")
		}

		if err := storage.SoftDeleteCategory(storeID, uint(id)); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Kategori bulunamadı veya silinmiş")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Kategori silinemedi")
		}

		// Kategoriye bağlı menülere dokunulmaz; menü kategorisiz kalabilir.
		return c.SendStatus(fiber.StatusNoContent)
	}
}
