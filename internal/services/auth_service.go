package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"food-order-api/internal/apperrors"
	"food-order-api/internal/middleware"
	"food-order-api/internal/models"
	"food-order-api/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// dummyPasswordHash is compared against when the email is unknown, so login
// latency does not reveal whether an account exists.
var dummyPasswordHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

// TokenStore holds refresh tokens server-side, keyed by token value.
type TokenStore interface {
	SetRefreshToken(token string, userID uint, ttl time.Duration) error
	GetRefreshToken(token string) (uint, error)
	DeleteRefreshToken(token string) error
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Address  string
	Role     string
}

type AuthTokens struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

type AuthService interface {
	Register(input RegisterInput) (*models.User, error)
	Login(email, password string) (*AuthTokens, error)
	// Refresh rotates the refresh token: the old one is deleted and a fresh
	// pair is issued.
	Refresh(refreshToken string) (*AuthTokens, error)
	Logout(refreshToken string) error
}

type authService struct {
	userRepo        repository.UserRepository
	tokens          TokenStore
	jwtSecret       []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokens TokenStore,
	jwtSecret string,
	accessTokenTTL, refreshTokenTTL time.Duration,
) AuthService {
	return &authService{
		userRepo:        userRepo,
		tokens:          tokens,
		jwtSecret:       []byte(jwtSecret),
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
	}
}

func (s *authService) Register(input RegisterInput) (*models.User, error) {
	role := input.Role
	if role == "" {
		role = string(models.RoleCustomer)
	}
	if !models.IsValidRole(role) {
		return nil, apperrors.BadRequest("invalid role")
	}

	if _, err := s.userRepo.GetByEmail(input.Email); err == nil {
		return nil, apperrors.Conflict("email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal("failed to check email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	user := &models.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		Name:         input.Name,
		Address:      input.Address,
		Role:         role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, apperrors.Internal("failed to create user", err)
	}
	return user, nil
}

func (s *authService) Login(email, password string) (*AuthTokens, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal("failed to load user", err)
	}

	targetHash := dummyPasswordHash
	if user != nil {
		targetHash = []byte(user.PasswordHash)
	}
	compareErr := bcrypt.CompareHashAndPassword(targetHash, []byte(password))
	if user == nil || compareErr != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	return s.issueTokens(user)
}

func (s *authService) Refresh(refreshToken string) (*AuthTokens, error) {
	userID, err := s.tokens.GetRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired refresh token")
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, apperrors.Unauthorized("user not found")
	}

	// Rotation: retire the used token before issuing the replacement, so a
	// failure mid-rotation can never leave two valid tokens.
	if err := s.tokens.DeleteRefreshToken(refreshToken); err != nil {
		return nil, apperrors.Internal("failed to rotate refresh token", err)
	}

	return s.issueTokens(user)
}

func (s *authService) Logout(refreshToken string) error {
	if err := s.tokens.DeleteRefreshToken(refreshToken); err != nil {
		return apperrors.Internal("failed to delete refresh token", err)
	}
	return nil
}

func (s *authService) issueTokens(user *models.User) (*AuthTokens, error) {
	accessToken, err := middleware.GenerateAccessToken(user, s.jwtSecret, s.accessTokenTTL)
	if err != nil {
		return nil, apperrors.Internal("failed to sign access token", err)
	}

	refreshToken, err := newRefreshToken()
	if err != nil {
		return nil, apperrors.Internal("failed to generate refresh token", err)
	}
	if err := s.tokens.SetRefreshToken(refreshToken, user.ID, s.refreshTokenTTL); err != nil {
		return nil, apperrors.Internal("failed to store refresh token", err)
	}

	return &AuthTokens{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func newRefreshToken() (string, error) {
	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
