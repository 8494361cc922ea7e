package auth

import (
	"regexp"
	"sync"
	"testing"

	"pos-backend/internal/apperror"
	"pos-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

// fakeStorage, users.referral_code ve users.email üzerindeki unique
// index'leri bellek içinde uygular.
type fakeStorage struct {
	mu          sync.Mutex
	nextUserID  uint
	nextStoreID uint
	users       map[uint]*models.User
	stores      map[uint]*models.Store

	// rotasyon hata yolunu test etmek için
	failReferralUpdates bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		users:  map[uint]*models.User{},
		stores: map[uint]*models.Store{},
	}
}

func (f *fakeStorage) FindUserByID(id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStorage) FindUserByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStorage) FindOwnerByReferralCode(code string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Role == models.RoleOwner && u.ReferralCode != nil && *u.ReferralCode == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStorage) checkUniqueLocked(user *models.User) error {
	for _, u := range f.users {
		if u.ID == user.ID {
			continue
		}
		if u.Email == user.Email {
			return ErrDuplicate
		}
		if u.ReferralCode != nil && user.ReferralCode != nil && *u.ReferralCode == *user.ReferralCode {
			return ErrDuplicate
		}
	}
	return nil
}

func (f *fakeStorage) CreateOwnerWithStore(user *models.User, store *models.Store) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.stores {
		if s.Name == store.Name {
			return ErrDuplicate
		}
	}
	if err := f.checkUniqueLocked(user); err != nil {
		return err
	}

	f.nextStoreID++
	store.ID = f.nextStoreID
	f.nextUserID++
	user.ID = f.nextUserID
	user.StoreID = &store.ID
	store.OwnerID = &user.ID

	storeCp := *store
	userCp := *user
	f.stores[store.ID] = &storeCp
	f.users[user.ID] = &userCp
	return nil
}

func (f *fakeStorage) CreateUser(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkUniqueLocked(user); err != nil {
		return err
	}
	f.nextUserID++
	user.ID = f.nextUserID
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeStorage) UpdateUser(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return ErrNotFound
	}
	if err := f.checkUniqueLocked(user); err != nil {
		return err
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeStorage) UpdateReferralCode(userID uint, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReferralUpdates {
		return ErrDuplicate
	}
	u, ok := f.users[userID]
	if !ok {
		return ErrNotFound
	}
	for _, other := range f.users {
		if other.ID != userID && other.ReferralCode != nil && *other.ReferralCode == code {
			return ErrDuplicate
		}
	}
	u.ReferralCode = &code
	return nil
}

var referralCodePattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

func newTestService(t *testing.T) (*Service, *fakeStorage) {
	t.Helper()
	storage := newFakeStorage()
	return NewService(storage, zaptest.NewLogger(t)), storage
}

func registerTestOwner(t *testing.T, svc *Service) *models.User {
	t.Helper()
	owner, err := svc.RegisterOwner(RegisterOwnerInput{
		Name:      "Ayşe",
		Email:     "ayse@example.com",
		Password:  "gizli123",
		StoreName: "Kafe Boğaz",
	})
	require.NoError(t, err)
	return owner
}

func TestRegisterOwner(t *testing.T) {
	svc, storage := newTestService(t)

	owner := registerTestOwner(t, svc)

	assert.Equal(t, models.RoleOwner, owner.Role)
	require.NotNil(t, owner.StoreID)
	require.NotNil(t, owner.ReferralCode)
	assert.Regexp(t, referralCodePattern, *owner.ReferralCode)

	// Şifre asla düz metin saklanmaz
	assert.NotEqual(t, "gizli123", owner.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte("gizli123")))

	// Mağaza-sahip ilişkisi iki yönlü yazılır
	store := storage.stores[*owner.StoreID]
	require.NotNil(t, store)
	require.NotNil(t, store.OwnerID)
	assert.Equal(t, owner.ID, *store.OwnerID)
}

func TestRegisterOwner_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	registerTestOwner(t, svc)

	_, err := svc.RegisterOwner(RegisterOwnerInput{
		Name:      "Başkası",
		Email:     "ayse@example.com",
		Password:  "farkli",
		StoreName: "Başka Mağaza",
	})

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindConflict, appErr.Kind)
}

func TestRegisterOwner_DuplicateStoreName(t *testing.T) {
	svc, _ := newTestService(t)
	registerTestOwner(t, svc)

	_, err := svc.RegisterOwner(RegisterOwnerInput{
		Name:      "Mehmet",
		Email:     "mehmet@example.com",
		Password:  "gizli123",
		StoreName: "Kafe Boğaz",
	})

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindConflict, appErr.Kind)
}

func TestRegisterStaff_RotatesOwnerCode(t *testing.T) {
	svc, _ := newTestService(t)
	owner := registerTestOwner(t, svc)
	oldCode := *owner.ReferralCode

	staff, err := svc.RegisterStaff(RegisterStaffInput{
		Name:         "Murat",
		Email:        "murat@example.com",
		Password:     "gizli123",
		ReferralCode: oldCode,
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleStaff, staff.Role)
	require.NotNil(t, staff.StoreID)
	assert.Equal(t, *owner.StoreID, *staff.StoreID)
	assert.Nil(t, staff.ReferralCode) // personel davet kodu taşımaz
	require.NotNil(t, staff.ReferredByCode)
	assert.Equal(t, oldCode, *staff.ReferredByCode)

	// Kod tek kullanımlık: sahibin kodu döndü, eski kod artık kimseyi bulmaz
	fresh, err := svc.Profile(owner.ID)
	require.NoError(t, err)
	require.NotNil(t, fresh.ReferralCode)
	assert.NotEqual(t, oldCode, *fresh.ReferralCode)
	assert.Regexp(t, referralCodePattern, *fresh.ReferralCode)

	_, err = svc.RegisterStaff(RegisterStaffInput{
		Name:         "Geç Kalan",
		Email:        "gec@example.com",
		Password:     "gizli123",
		ReferralCode: oldCode,
	})
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
}

func TestRegisterStaff_InvalidCode(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RegisterStaff(RegisterStaffInput{
		Name:         "Murat",
		Email:        "murat@example.com",
		Password:     "gizli123",
		ReferralCode: "YOKBOYLE",
	})

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
}

func TestRegisterStaff_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	owner := registerTestOwner(t, svc)

	_, err := svc.RegisterStaff(RegisterStaffInput{
		Name:         "Kopya",
		Email:        "ayse@example.com",
		Password:     "gizli123",
		ReferralCode: *owner.ReferralCode,
	})

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindConflict, appErr.Kind)
}

// Rotasyon başarısız olsa bile personel kaydı geri alınmaz; sadece loglanır.
func TestRegisterStaff_RotationFailureDoesNotFailRegistration(t *testing.T) {
	svc, storage := newTestService(t)
	owner := registerTestOwner(t, svc)
	oldCode := *owner.ReferralCode

	storage.failReferralUpdates = true

	staff, err := svc.RegisterStaff(RegisterStaffInput{
		Name:         "Murat",
		Email:        "murat@example.com",
		Password:     "gizli123",
		ReferralCode: oldCode,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, staff.Role)

	// Kod dönmedi ama kayıt durur
	fresh, err := svc.Profile(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, oldCode, *fresh.ReferralCode)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	owner := registerTestOwner(t, svc)

	user, err := svc.Login("ayse@example.com", "gizli123")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, user.ID)

	_, err = svc.Login("ayse@example.com", "yanlis")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Bilinmeyen kullanıcı da aynı hatayı alır; hangi alanın yanlış olduğu sızmaz
	_, err = svc.Login("yok@example.com", "gizli123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService(t)
	owner := registerTestOwner(t, svc)

	bio := "Kahve tutkunu"
	updated, err := svc.UpdateProfile(owner.ID, nil, &bio)
	require.NoError(t, err)
	assert.Equal(t, "Ayşe", updated.Name)
	assert.Equal(t, "Kahve tutkunu", updated.Bio)

	name := "Ayşe Yılmaz"
	updated, err = svc.UpdateProfile(owner.ID, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ayşe Yılmaz", updated.Name)
	assert.Equal(t, "Kahve tutkunu", updated.Bio)

	_, err = svc.UpdateProfile(owner.ID, nil, nil)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
}

func TestGenerateReferralCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := generateReferralCode(referralCodeLength)
		assert.Regexp(t, referralCodePattern, code)
		seen[code] = true
	}
	// 36^8 uzayında 100 üretimde çakışma pratikte imkânsız
	assert.Greater(t, len(seen), 95)
}
