package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pos-backend/internal/config"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RegisterOwnerRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	StoreName string `json:"store_name"`
}

type RegisterStaffRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ReferralCode string `json:"referral_code"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name *string `json:"name"`
	Bio  *string `json:"bio"`
}

type UserResponse struct {
	ID                uint            `json:"id"`
	Name              string          `json:"name"`
	Email             string          `json:"email"`
	Role              models.UserRole `json:"role"`
	StoreID           *uint           `json:"store_id"`
	ReferralCode      *string         `json:"referral_code,omitempty"`
	ReferredByCode    *string         `json:"referred_by_code,omitempty"`
	Bio               string          `json:"bio,omitempty"`
	ProfilePictureURL string          `json:"profile_picture_url,omitempty"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Role:              u.Role,
		StoreID:           u.StoreID,
		ReferralCode:      u.ReferralCode,
		ReferredByCode:    u.ReferredByCode,
		Bio:               u.Bio,
		ProfilePictureURL: u.ProfilePictureURL,
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// -------------------------------------------------
// POST /api/auth/register/owner
// -------------------------------------------------
func RegisterOwnerHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterOwnerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = normalizeEmail(body.Email)
		body.Name = strings.TrimSpace(body.Name)
		body.StoreName = strings.TrimSpace(body.StoreName)

		if body.Name == "" || body.Email == "" || body.Password == "" || body.StoreName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim, email, şifre ve mağaza adı zorunlu")
		}
		if len(body.Password) < 6 {
			return fiber.NewError(fiber.StatusBadRequest, "Şifre en az 6 karakter olmalı")
		}

		user, err := svc.RegisterOwner(RegisterOwnerInput{
			Name:      body.Name,
			Email:     body.Email,
			Password:  body.Password,
			StoreName: body.StoreName,
		})
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(toUserResponse(user))
	}
}

// -------------------------------------------------
// POST /api/auth/register/staff
// -------------------------------------------------
func RegisterStaffHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterStaffRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = normalizeEmail(body.Email)
		body.Name = strings.TrimSpace(body.Name)
		body.ReferralCode = strings.ToUpper(strings.TrimSpace(body.ReferralCode))

		if body.Name == "" || body.Email == "" || body.Password == "" || body.ReferralCode == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim, email, şifre ve referans kodu zorunlu")
		}
		if len(body.Password) < 6 {
			return fiber.NewError(fiber.StatusBadRequest, "Şifre en az 6 karakter olmalı")
		}

		user, err := svc.RegisterStaff(RegisterStaffInput{
			Name:         body.Name,
			Email:        body.Email,
			Password:     body.Password,
			ReferralCode: body.ReferralCode,
		})
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(toUserResponse(user))
	}
}

// -------------------------------------------------
// POST /api/auth/login
// -------------------------------------------------
func LoginHandler(svc *Service, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = normalizeEmail(body.Email)

		user, err := svc.Login(body.Email, body.Password)
		if err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				return fiber.NewError(fiber.StatusUnauthorized, "Email veya şifre hatalı")
			}
			return err
		}

		token, err := GenerateToken(cfg.JWTSecret, user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token oluşturulamadı")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user":  toUserResponse(user),
		})
	}
}

// -------------------------------------------------
// GET /api/auth/me
// -------------------------------------------------
func MeHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı bilgisi alınamadı")
		}

		user, err := svc.Profile(userID)
		if err != nil {
			return err
		}

		return c.JSON(toUserResponse(user))
	}
}

// -------------------------------------------------
// PUT /api/auth/profile
// -------------------------------------------------
func UpdateProfileHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı bilgisi alınamadı")
		}

		var body UpdateProfileRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		user, err := svc.UpdateProfile(userID, body.Name, body.Bio)
		if err != nil {
			return err
		}

		return c.JSON(toUserResponse(user))
	}
}

// -------------------------------------------------
// PUT /api/auth/profile/picture  (multipart, alan adı "profile_picture")
// -------------------------------------------------
func UploadProfilePictureHandler(svc *Service, cfg *config.Config) fiber.Handler {
	allowedExt := map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı bilgisi alınamadı")
		}

		file, err := c.FormFile("profile_picture")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Profil fotoğrafı dosyası gerekli")
		}

		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !allowedExt[ext] {
			return fiber.NewError(fiber.StatusBadRequest, "Sadece jpg, jpeg, png veya webp yüklenebilir")
		}

		dir := filepath.Join(cfg.UploadPath, "profile_pictures")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yükleme klasörü oluşturulamadı")
		}

		filename := fmt.Sprintf("%d-%s%s", userID, uuid.NewString(), ext)
		if err := c.SaveFile(file, filepath.Join(dir, filename)); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya kaydedilemedi")
		}

		user, err := svc.UpdateProfilePicture(userID, "/uploads/profile_pictures/"+filename)
		if err != nil {
			return err
		}

		return c.JSON(toUserResponse(user))
	}
}
