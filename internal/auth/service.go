package auth

import (
	"errors"

	"pos-backend/internal/apperror"
	"pos-backend/internal/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials, login'de email/şifre tutmadığında döner.
// Handler bunu 401'e çevirir; hangi alanın yanlış olduğu söylenmez.
var ErrInvalidCredentials = errors.New("email veya şifre hatalı")

// referralRotateAttempts, referans kodu üretiminde unique çakışması
// durumunda yapılacak en fazla deneme sayısı.
const referralRotateAttempts = 5

type Service struct {
	storage Storage
	logger  *zap.Logger
}

func NewService(storage Storage, logger *zap.Logger) *Service {
	return &Service{storage: storage, logger: logger}
}

type RegisterOwnerInput struct {
	Name      string
	Email     string
	Password  string
	StoreName string
}

type RegisterStaffInput struct {
	Name         string
	Email        string
	Password     string
	ReferralCode string
}

// RegisterOwner yeni bir mağaza ve sahibini birlikte oluşturur. Sahibe taze
// bir referans kodu atanır; kod çakışırsa sınırlı sayıda yeniden üretilir.
func (s *Service) RegisterOwner(in RegisterOwnerInput) (*models.User, error) {
	if _, err := s.storage.FindUserByEmail(in.Email); err == nil {
		return nil, apperror.Conflict("Bu email zaten kayıtlı")
	} else if !errors.Is(err, ErrNotFound) {
		return nil, apperror.Internal("Kayıt kontrolü yapılamadı", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal("Şifre hashlenemedi", err)
	}

	var lastErr error
	for attempt := 0; attempt < referralRotateAttempts; attempt++ {
		code := generateReferralCode(referralCodeLength)
		user := &models.User{
			Name:         in.Name,
			Email:        in.Email,
			PasswordHash: string(hash),
			Role:         models.RoleOwner,
			ReferralCode: &code,
		}
		store := &models.Store{Name: in.StoreName}

		lastErr = s.storage.CreateOwnerWithStore(user, store)
		if lastErr == nil {
			return user, nil
		}
		if !errors.Is(lastErr, ErrDuplicate) {
			return nil, apperror.Internal("Kullanıcı oluşturulamadı", lastErr)
		}
		// Çakışma email, mağaza adı veya referans kodundan gelmiş olabilir;
		// email yukarıda kontrol edildi, mağaza adını netleştirip kalanı
		// kod çakışması sayarak yeniden deniyoruz.
		if _, err := s.storage.FindUserByEmail(in.Email); err == nil {
			return nil, apperror.Conflict("Bu email zaten kayıtlı")
		}
	}
	return nil, apperror.Conflict("Mağaza adı kullanımda veya benzersiz referans kodu üretilemedi, lütfen tekrar deneyin")
}

// RegisterStaff, bir sahibin referans koduyla personel kaydeder. Personel
// sahibin mağazasına bağlanır ve kullandığı kod referredByCode olarak kalıcı
// kaydedilir. Kayıt başarıyla yazıldıktan sonra sahibin kodu döndürülür
// (rotate); kod tek kullanımlıktır.
func (s *Service) RegisterStaff(in RegisterStaffInput) (*models.User, error) {
	owner, err := s.storage.FindOwnerByReferralCode(in.ReferralCode)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.Validation("Referans kodu geçersiz veya bir mağaza sahibine ait değil")
		}
		return nil, apperror.Internal("Referans kodu kontrol edilemedi", err)
	}
	if owner.StoreID == nil {
		return nil, apperror.Validation("Referans kodu geçersiz veya bir mağaza sahibine ait değil")
	}

	if _, err := s.storage.FindUserByEmail(in.Email); err == nil {
		return nil, apperror.Conflict("Bu email zaten kayıtlı")
	} else if !errors.Is(err, ErrNotFound) {
		return nil, apperror.Internal("Kayıt kontrolü yapılamadı", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal("Şifre hashlenemedi", err)
	}

	referredBy := in.ReferralCode
	staff := &models.User{
		Name:           in.Name,
		Email:          in.Email,
		PasswordHash:   string(hash),
		Role:           models.RoleStaff,
		StoreID:        owner.StoreID,
		ReferredByCode: &referredBy, // personel kendi kod almaz
	}

	if err := s.storage.CreateUser(staff); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, apperror.Conflict("Bu email zaten kayıtlı")
		}
		return nil, apperror.Internal("Personel oluşturulamadı", err)
	}

	// Personel kaydı commit edildi; rotasyon başarısız olsa bile kayıt geri
	// alınmaz, sadece loglanır.
	s.rotateReferralCode(owner)

	return staff, nil
}

func (s *Service) rotateReferralCode(owner *models.User) {
	var lastErr error
	for attempt := 1; attempt <= referralRotateAttempts; attempt++ {
		code := generateReferralCode(referralCodeLength)
		lastErr = s.storage.UpdateReferralCode(owner.ID, code)
		if lastErr == nil {
			return
		}
		if !errors.Is(lastErr, ErrDuplicate) {
			break
		}
	}
	s.logger.Warn("referans kodu yenilenemedi",
		zap.Uint("owner_id", owner.ID),
		zap.Error(lastErr),
	)
}

// Login email/şifre doğrulaması yapar, kullanıcıyı döndürür.
func (s *Service) Login(email, password string) (*models.User, error) {
	user, err := s.storage.FindUserByEmail(email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperror.Internal("Kullanıcı sorgulanamadı", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *Service) Profile(userID uint) (*models.User, error) {
	user, err := s.storage.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.NotFound("Kullanıcı profili bulunamadı")
		}
		return nil, apperror.Internal("Profil sorgulanamadı", err)
	}
	return user, nil
}

// UpdateProfile sadece verilen metin alanlarını günceller.
func (s *Service) UpdateProfile(userID uint, name, bio *string) (*models.User, error) {
	if name == nil && bio == nil {
		return nil, apperror.Validation("Güncellenecek alan (name/bio) verilmedi")
	}

	user, err := s.Profile(userID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		user.Name = *name
	}
	if bio != nil {
		user.Bio = *bio
	}

	if err := s.storage.UpdateUser(user); err != nil {
		return nil, apperror.Internal("Profil güncellenemedi", err)
	}
	return user, nil
}

func (s *Service) UpdateProfilePicture(userID uint, url string) (*models.User, error) {
	user, err := s.Profile(userID)
	if err != nil {
		return nil, err
	}

	user.ProfilePictureURL = url
	if err := s.storage.UpdateUser(user); err != nil {
		return nil, apperror.Internal("Profil fotoğrafı güncellenemedi", err)
	}
	return user, nil
}
