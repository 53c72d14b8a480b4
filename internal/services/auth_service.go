package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"storefront/internal/mailer"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the fixed work factor for password hashing.
const bcryptCost = 12

// resetTokenTTL is how long a password-reset token stays valid.
const resetTokenTTL = 10 * time.Minute

// ErrInvalidCredentials is returned for any login failure so callers cannot
// probe which emails are registered.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles registration, login, token validation and password reset.
type AuthService struct {
	userRepo    repositories.UserRepository
	jwtSecret   []byte
	tokenDurat  time.Duration
	mailer      mailer.Mailer
	frontendURL string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, m mailer.Mailer, frontendURL string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenDurat:  24 * time.Hour, // Token valid for 24 hours
		mailer:      m,
		frontendURL: frontendURL,
	}
}

// RegisterUser registers a new user with the User role, hashing the password,
// and returns a signed token so the caller is logged in immediately.
func (s *AuthService) RegisterUser(user *models.User) (string, error) {
	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return "", fmt.Errorf("email '%s' already registered", user.Email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	user.Role = models.RoleUser

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return "", fmt.Errorf("email '%s' already registered", user.Email)
		}
		return "", fmt.Errorf("failed to register user: %w", err)
	}
	return s.generateToken(user)
}

// LoginUser authenticates a user by email and returns a signed token plus the
// user on success. The last login timestamp is updated best-effort.
func (s *AuthService) LoginUser(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		log.Printf("Failed to update last login for user %s: %v", user.ID, err)
	}

	tokenString, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return tokenString, user, nil
}

// generateToken signs a token carrying only the user id and expiry. The role
// is deliberately not embedded: it is re-read from the user row on validation.
func (s *AuthService) generateToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a token, then loads the user it names
// from the database so role changes take effect on the next request.
func (s *AuthService) ValidateToken(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("invalid token: missing user id")
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return user, nil
}

// ForgotPassword issues a single-use reset token valid for ten minutes and
// emails it to the user. Only the SHA-256 of the token is stored.
func (s *AuthService) ForgotPassword(email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	resetToken := hex.EncodeToString(raw)
	hashed := sha256.Sum256([]byte(resetToken))

	expires := time.Now().Add(resetTokenTTL)
	if err := s.userRepo.SetResetToken(user.Email, hex.EncodeToString(hashed[:]), expires); err != nil {
		return err
	}

	if s.mailer != nil {
		resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, resetToken)
		if err := s.mailer.SendPasswordReset(user.Email, resetURL); err != nil {
			return fmt.Errorf("failed to send password reset email: %w", err)
		}
	}
	return nil
}

// ResetPassword consumes a reset token. The repository clears the stored
// token hash together with the password write, so a token works exactly once.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	hashed := sha256.Sum256([]byte(token))
	user, err := s.userRepo.GetByResetToken(hex.EncodeToString(hashed[:]))
	if err != nil {
		return fmt.Errorf("invalid or expired reset token: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(user.ID, string(passwordHash))
}
