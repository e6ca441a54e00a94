package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"deployment-tracker/internal/database/models"
	apperrors "deployment-tracker/internal/errors"
	"deployment-tracker/internal/logger"
	"deployment-tracker/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthClaims represents JWT token claims
type AuthClaims struct {
	UserID       string `json:"user_id" example:"7f1c1f0e-3a44-4c5e-9d6c-2b5c2d0f6a10"`
	Username     string `json:"username" example:"jdoe"`
	Role         Role   `json:"role" example:"technician"`
	TechnicianID string `json:"technician_id,omitempty"`

	jwt.RegisteredClaims `swaggerignore:"true"`
}

// LoginRequest represents the credentials posted to the login endpoint
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	User      Session   `json:"user"`
}

// AuthService issues and validates session tokens
type AuthService struct {
	config *AuthConfig
	users  repository.UserRepositoryInterface
	log    *logger.Logger

	// revoked holds the ids of logged-out tokens until they expire
	revoked    map[string]time.Time
	tokenMutex sync.RWMutex
	now        func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(config *AuthConfig, users repository.UserRepositoryInterface) (*AuthService, error) {
	if err := config.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("auth config validation failed: %w", err)
	}
	return &AuthService{
		config:  config,
		users:   users,
		log:     logger.Component("auth"),
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}, nil
}

// Login checks credentials and returns a signed token with its session
func (s *AuthService) Login(username, password string) (*LoginResponse, error) {
	user, err := s.users.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.log.WithField("username", user.Username).Info("User logged in")

	return &LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		User:      Login(Session{}, user, token, expiresAt),
	}, nil
}

// GenerateJWT creates a signed token for user
func (s *AuthService) GenerateJWT(user *models.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.config.TokenTTL)
	claims := &AuthClaims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.Issuer,
			Subject:   user.ID.String(),
		},
	}
	if user.TechnicianID != nil {
		claims.TechnicianID = user.TechnicianID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateJWT validates and parses a JWT token
func (s *AuthService) ValidateJWT(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	s.tokenMutex.RLock()
	_, revoked := s.revoked[claims.ID]
	s.tokenMutex.RUnlock()
	if revoked {
		return nil, fmt.Errorf("token has been revoked")
	}
	return claims, nil
}

// SessionFromClaims rebuilds the session a token was issued for
func SessionFromClaims(tokenString string, claims *AuthClaims) (Session, error) {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Session{}, fmt.Errorf("invalid user id in token: %w", err)
	}
	if !claims.Role.IsValid() {
		return Session{}, fmt.Errorf("invalid role in token")
	}

	session := Session{
		UserID:   userID,
		Username: claims.Username,
		Role:     claims.Role,
		Token:    tokenString,
	}
	if claims.TechnicianID != "" {
		techID, err := uuid.Parse(claims.TechnicianID)
		if err != nil {
			return Session{}, fmt.Errorf("invalid technician id in token: %w", err)
		}
		session.TechnicianID = &techID
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// Logout revokes a token until it expires
func (s *AuthService) Logout(tokenString string) error {
	claims, err := s.ValidateJWT(tokenString)
	if err != nil {
		return err
	}

	now := s.now()
	s.tokenMutex.Lock()
	defer s.tokenMutex.Unlock()
	for id, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, id)
		}
	}
	expiresAt := now.Add(s.config.TokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	s.revoked[claims.ID] = expiresAt
	return nil
}

// CurrentUser loads the account behind a session
func (s *AuthService) CurrentUser(session Session) (*models.User, error) {
	user, err := s.users.GetByID(session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// HashPassword returns the bcrypt hash of password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
