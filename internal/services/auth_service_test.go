package services_test

import (
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepository is an in-memory UserRepository. The password reset flow
// is stateful (a token works exactly once), so a stateful fake fits better
// than expectation-based mocks here.
type fakeUserRepository struct {
	users map[string]models.User
	mu    sync.Mutex
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]models.User)}
}

func (r *fakeUserRepository) GetAll() ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userList := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		userList = append(userList, u)
	}
	return userList, nil
}

func (r *fakeUserRepository) GetByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, repositories.ErrNotFound)
	}
	return &user, nil
}

func (r *fakeUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, repositories.ErrNotFound)
}

func (r *fakeUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return fmt.Errorf("email %s: %w", user.Email, repositories.ErrDuplicate)
		}
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepository) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user %s: %w", user.ID, repositories.ErrNotFound)
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id, repositories.ErrNotFound)
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepository) UpdatePassword(id string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, repositories.ErrNotFound)
	}
	user.Password = passwordHash
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = nil
	r.users[id] = user
	return nil
}

func (r *fakeUserRepository) SetResetToken(email string, tokenHash string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if u.Email == email {
			u.ResetPasswordToken = tokenHash
			u.ResetPasswordExpires = &expires
			r.users[id] = u
			return nil
		}
	}
	return fmt.Errorf("user with email %s: %w", email, repositories.ErrNotFound)
}

func (r *fakeUserRepository) GetByResetToken(tokenHash string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ResetPasswordToken == tokenHash && u.ResetPasswordExpires != nil &&
			u.ResetPasswordExpires.After(time.Now()) {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("reset token: %w", repositories.ErrNotFound)
}

func (r *fakeUserRepository) CountByRole(role models.Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, u := range r.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

func (r *fakeUserRepository) UpdateLastLogin(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, repositories.ErrNotFound)
	}
	now := time.Now()
	user.LastLogin = &now
	r.users[id] = user
	return nil
}

// captureMailer records the reset URL instead of sending mail.
type captureMailer struct {
	resetURL string
}

func (m *captureMailer) SendOrderConfirmation(string, *models.Order) error { return nil }
func (m *captureMailer) SendOrderStatusUpdate(string, *models.Order) error { return nil }
func (m *captureMailer) SendPasswordReset(_ string, resetURL string) error {
	m.resetURL = resetURL
	return nil
}

func newAuthServiceForTest() (*services.AuthService, *fakeUserRepository, *captureMailer) {
	repo := newFakeUserRepository()
	mail := &captureMailer{}
	service := services.NewAuthService(repo, "test_jwt_secret", mail, "http://localhost:5173")
	return service, repo, mail
}

func TestAuthService_RegisterUser(t *testing.T) {
	service, repo, _ := newAuthServiceForTest()

	user := &models.User{Name: "Jane Doe", Email: "jane@example.com", Password: "password123"}
	token, err := service.RegisterUser(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	stored, err := repo.GetByEmail("jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, stored.Role, "self-registration never grants admin")
	assert.NotEqual(t, "password123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password123")))

	// The returned token authenticates the new user.
	validated, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, validated.ID)

	// Duplicate registration is rejected.
	_, err = service.RegisterUser(&models.User{Name: "Other", Email: "jane@example.com", Password: "secret123"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestAuthService_LoginUser(t *testing.T) {
	service, repo, _ := newAuthServiceForTest()
	_, err := service.RegisterUser(&models.User{Name: "Jane Doe", Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	token, user, err := service.LoginUser("jane@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "jane@example.com", user.Email)

	stored, err := repo.GetByEmail("jane@example.com")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)

	// Wrong password and unknown email fail identically.
	_, _, err = service.LoginUser("jane@example.com", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, _, err = service.LoginUser("nobody@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAuthService_ValidateToken_RoleFromDatabase(t *testing.T) {
	service, repo, _ := newAuthServiceForTest()
	token, err := service.RegisterUser(&models.User{Name: "Jane Doe", Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	// Promote the user after the token was issued. The token stays valid and
	// the new role applies immediately because the role lives in the row.
	stored, err := repo.GetByEmail("jane@example.com")
	require.NoError(t, err)
	stored.Role = models.RoleAdmin
	require.NoError(t, repo.Update(stored))

	validated, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, validated.Role)

	_, err = service.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestAuthService_PasswordReset(t *testing.T) {
	service, repo, mail := newAuthServiceForTest()
	_, err := service.RegisterUser(&models.User{Name: "Jane Doe", Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, service.ForgotPassword("jane@example.com"))
	require.NotEmpty(t, mail.resetURL)

	parsed, err := url.Parse(mail.resetURL)
	require.NoError(t, err)
	token := parsed.Query().Get("token")
	require.NotEmpty(t, token)

	// The raw token is never stored.
	stored, err := repo.GetByEmail("jane@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, token, stored.ResetPasswordToken)
	assert.NotEmpty(t, stored.ResetPasswordToken)

	require.NoError(t, service.ResetPassword(token, "newpassword"))

	_, _, err = service.LoginUser("jane@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, _, err = service.LoginUser("jane@example.com", "newpassword")
	assert.NoError(t, err)

	// The token was consumed by the first reset.
	err = service.ResetPassword(token, "anotherpassword")
	assert.Error(t, err)
}

func TestAuthService_PasswordReset_Expired(t *testing.T) {
	service, repo, mail := newAuthServiceForTest()
	_, err := service.RegisterUser(&models.User{Name: "Jane Doe", Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, service.ForgotPassword("jane@example.com"))
	parsed, err := url.Parse(mail.resetURL)
	require.NoError(t, err)
	token := parsed.Query().Get("token")

	// Backdate the expiry past the ten minute window.
	stored, err := repo.GetByEmail("jane@example.com")
	require.NoError(t, err)
	expired := time.Now().Add(-time.Minute)
	stored.ResetPasswordExpires = &expired
	require.NoError(t, repo.Update(stored))

	err = service.ResetPassword(token, "newpassword")
	assert.Error(t, err)

	_, _, err = service.LoginUser("jane@example.com", "password123")
	assert.NoError(t, err, "the old password must still work")
}

func TestAuthService_PasswordReset_ShortPassword(t *testing.T) {
	service, _, _ := newAuthServiceForTest()
	err := service.ResetPassword("whatever", "abc")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least 6 characters")
}

func TestAuthService_ForgotPassword_UnknownEmail(t *testing.T) {
	service, _, mail := newAuthServiceForTest()
	err := service.ForgotPassword("nobody@example.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Empty(t, mail.resetURL)
}
