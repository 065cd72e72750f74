package services

import (
	"testing"
	"time"

	"srs-backend/config"
	"srs-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users  map[uint]models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]models.User{}}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByMobile(mobile string) (*models.User, error) {
	for _, u := range r.users {
		if u.Mobile == mobile {
			found := u
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) TouchLastLogin(id uint) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	u.LastLogin = &now
	r.users[id] = u
	return nil
}

func newTestAuthService() (AuthService, *fakeUserRepo) {
	config.JWTSecret = []byte("test-secret")
	config.JWTExpiration = time.Hour
	repo := newFakeUserRepo()
	return NewAuthService(repo), repo
}

func registerRequest() models.RegisterRequest {
	return models.RegisterRequest{
		Name:         "Jamie Doe",
		Email:        "jamie@example.com",
		Password:     "s3cret-pass",
		Role:         models.RoleManager,
		Organization: "ACME",
		Mobile:       "+15550100",
	}
}

func TestRegisterHashesPasswordAndReturnsToken(t *testing.T) {
	svc, repo := newTestAuthService()

	resp, err := svc.Register(registerRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.UserStatusActive, resp.User.Status)
	assert.NotEqual(t, "s3cret-pass", repo.users[resp.User.ID].Password)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Register(registerRequest())
	require.NoError(t, err)

	dup := registerRequest()
	dup.Mobile = "+15550199"
	_, err = svc.Register(dup)

	assert.IsType(t, models.ErrorConflict{}, err)
}

func TestRegisterRejectsDuplicateMobile(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Register(registerRequest())
	require.NoError(t, err)

	dup := registerRequest()
	dup.Email = "other@example.com"
	_, err = svc.Register(dup)

	assert.IsType(t, models.ErrorConflict{}, err)
}

func TestLoginStampsLastLogin(t *testing.T) {
	svc, repo := newTestAuthService()

	registered, err := svc.Register(registerRequest())
	require.NoError(t, err)

	resp, err := svc.Login(models.LoginRequest{Email: "jamie@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.NotNil(t, repo.users[registered.User.ID].LastLogin)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Register(registerRequest())
	require.NoError(t, err)

	_, err = svc.Login(models.LoginRequest{Email: "jamie@example.com", Password: "wrong"})
	assert.IsType(t, models.ErrorUnauthorized{}, err)

	_, err = svc.Login(models.LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.IsType(t, models.ErrorUnauthorized{}, err)
}
