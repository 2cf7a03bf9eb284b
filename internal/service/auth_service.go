package service

import (
	"time"

	"github.com/indicamais/internal/models"
	"github.com/indicamais/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AdminClaims is the dashboard token payload.
type AdminClaims struct {
	AdminID  uint   `json:"admin_id"`
	Username string `json:"username"`
	IsSuper  bool   `json:"is_super"`
	jwt.RegisteredClaims
}

// LoginResult carries the signed token and the authenticated admin.
type LoginResult struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Admin     *models.Admin `json:"admin"`
}

// AuthService authenticates dashboard admins and signs their tokens.
type AuthService struct {
	adminRepo   repository.AdminRepository
	secret      []byte
	expireHours int
}

// NewAuthService creates an auth service.
func NewAuthService(adminRepo repository.AdminRepository, secret string, expireHours int) *AuthService {
	if expireHours <= 0 {
		expireHours = 24
	}
	return &AuthService{
		adminRepo:   adminRepo,
		secret:      []byte(secret),
		expireHours: expireHours,
	}
}

// Login checks the password and issues a signed token. Wrong username and
// wrong password return the same error.
func (s *AuthService) Login(username, password string) (*LoginResult, error) {
	admin, err := s.adminRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	expiresAt := now.Add(time.Duration(s.expireHours) * time.Hour)
	claims := AdminClaims{
		AdminID:  admin.ID,
		Username: admin.Username,
		IsSuper:  admin.IsSuper,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	if err := s.adminRepo.UpdateLastLogin(admin.ID, now); err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, Admin: admin}, nil
}

// ParseToken validates a signed token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCredentials
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}
