package catalog

import (
	"errors"
	"strings"

	"pos-backend/internal/auth"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateMenuRequest struct {
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	CategoryID *uint   `json:"category_id"`
	ImageURL   string  `json:"image_url"`
}

type UpdateMenuRequest struct {
	Name       *string  `json:"name"`
	Price      *float64 `json:"price"`
	CategoryID *uint    `json:"category_id"`
	ImageURL   *string  `json:"image_url"`
}

type MenuResponse struct {
	ID         uint    `json:"id"`
	StoreID    uint    `json:"store_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	CategoryID *uint   `json:"category_id"`
	Category   *string `json:"category,omitempty"`
	ImageURL   string  `json:"image_url,omitempty"`
}

func toMenuResponse(m *models.Menu) MenuResponse {
	resp := MenuResponse{
		ID:         m.ID,
		StoreID:    m.StoreID,
		Name:       m.Name,
		Price:      m.Price,
		CategoryID: m.CategoryID,
		ImageURL:   m.ImageURL,
	}
	if m.Category != nil {
		resp.Category = &m.Category.Name
	}
	return resp
}

// -------------------------------------------------
// POST /api/menus
// -------------------------------------------------
func CreateMenuHandler(storage Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, _, storeID, err := auth.StoreScope(c)
		if err != nil {
			return err
		}

		var body CreateMenuRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Menü adı boş olamaz")
		}
		if body.Price <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Fiyat 0'dan büyük olmalı")
		}

		// Kategori verildiyse aynı mağazaya ait ve aktif olmalı
		if body.CategoryID != nil {
			if _, err := storage.FindActiveCategory(storeID, *body.CategoryID); err != nil {
				if errors.Is(err, ErrNotFound) {
					return fiber.NewError(fiber.StatusBadRequest, "Kategori bulunamadı veya silinmiş")
				}
				return fiber.NewError(fiber.StatusInternalServerError, "Kategori sorgulanamadı")
			}
		}

		menu := &models.Menu{
			StoreID:    storeID,
			Name:       body.Name,
			Price:      body.Price,
			CategoryID: body.CategoryID,
			ImageURL:   body.ImageURL,
		}
		if err := storage.CreateMenu(menu); err != nil {
			if errors.Is(err, ErrDuplicate) {
				return fiber.NewError(fiber.StatusConflict, "Bu isimde bir menü zaten var")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Menü oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toMenuResponse(menu))
	}
}

// -------------------------------------------------
// GET /api/menus
// -------------------------------------------------
func ListMenusHandler(storage Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, _, storeID, err := auth.StoreScope(c)
		if err != nil {
			return err
		}

		menus, err := storage.ActiveMenus(storeID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menüler listelenemedi")
		}

		resp := make([]MenuResponse, 0, len(menus))
		for i := range menus {
			resp = append(resp, toMenuResponse(&menus[i]))
		}
		return c.JSON(resp)
	}
}

// -------------------------------------------------
// GET /api/menus/search?q=...
// -------------------------------------------------
func SearchMenusHandler(storage Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, _, storeID, err := auth.StoreScope(c)
		if err != nil {
			return err
		}

		query := strings.TrimSpace(c.Query("q"))
		if query == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Arama sorgusu (q) boş olamaz")
		}

		menus, err := storage.SearchActiveMenus(storeID, query)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü araması yapılamadı")
		}

		resp := make([]MenuResponse, 0, len(menus))
		for i := range menus {
			resp = append(resp, toMenuResponse(&menus[i]))
		}
		return c.JSON(resp)
	}
}

// -------------------------------------------------
// GET /api/menus/:id
// -------------------------------------------------
func GetMenuHandler(storage Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, _, storeID, err := auth.StoreScope(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Menü ID geçersiz")
		}

		menu, err := storage.FindActiveMenu(storeID, uint(id))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Menü bulunamadı veya silinmiş")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Menü sorgulanamadı")
		}

		return c.JSON(toMenuResponse(menu))
	}
}

// -------------------------------------------------
// PUT /api/menus/:id
// -------------------------------------------------
func UpdateMenuHandler(storage Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, _, storeID, err := auth.StoreScope(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Menü ID geçersiz")
		}

		var body UpdateMenuRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		menu, err := storage.FindActiveMenu(storeID, uint(id))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Menü bulunamadı veya silinmiş")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Menü sorgulanamadı")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Menü adı boş olamaz")
			}
			menu.Name = name
		}
		if body.Price != nil {
			if *body.Price <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Fiyat 0'dan büyük olmalı")
			}
			menu.Price = *body.Price
		}
		if body.CategoryID != nil {
			if _, err := storage.FindActiveCategory(storeID, *body.CategoryID); err != nil {
				if errors.Is(err, ErrNotFound) {
					return fiber.NewError(fiber.StatusBadRequest, "Kategori bulunamadı veya silinmiş")
				}
				return fiber.NewError(fiber.StatusInternalServerError, "Kategori sorgulanamadı")
			}
			menu.CategoryID = body.CategoryID
		}
		if body.ImageURL != nil {
			menu.ImageURL = *body.ImageURL
		}

		// Fiyat güncellemesi geçmiş işlemlere dokunmaz; priceAtTransaction
		// satış anındaki değeri korur.
		if err := storage.UpdateMenu(menu); err != nil {
			if errors.Is(err, ErrDuplicate) {
				return fiber.NewError(fiber.StatusConflict, "Bu isimde başka bir menü zaten var")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Menü güncellenemedi")
		}

		return c.JSON(toMenuResponse(menu))
	}
}

// -------------------------------------------------
// DELETE /api/menus/:id  (soft delete)
// -------------------------------------------------
func DeleteMenuHandler(storage Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, _, storeID, err := auth.StoreScope(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Menü ID geçersiz")
		}

		if err := storage.SoftDeleteMenu(storeID, uint(id)); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Menü bulunamadı veya silinmiş")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Menü silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
