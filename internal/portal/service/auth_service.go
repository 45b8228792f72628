package service

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/xela07ax/citizen-queue-portal/internal/domain"
	"github.com/xela07ax/citizen-queue-portal/internal/repository/postgres"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 32
	minPasswordLen = 6
)

// UserStore — хранилище пользователей (Postgres)
type UserStore interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	SetCity(ctx context.Context, id string, city string) error
}

type AuthSettings struct {
	Issuer     string
	TokenTTL   time.Duration
	BcryptCost int
}

type AuthService struct {
	users      UserStore
	privateKey *rsa.PrivateKey
	settings   AuthSettings
	now        func() time.Time
	logger     *zap.Logger
}

func NewAuthService(users UserStore, privateKey *rsa.PrivateKey, settings AuthSettings, logger *zap.Logger) *AuthService {
	if settings.BcryptCost == 0 {
		settings.BcryptCost = bcrypt.DefaultCost
	}
	if settings.TokenTTL <= 0 {
		settings.TokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		privateKey: privateKey,
		settings:   settings,
		now:        time.Now,
		logger:     logger.Named("auth"),
	}
}

func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	// 1. Валидация
	username := strings.TrimSpace(req.Username)
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return nil, ErrInvalidUsername
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLen {
		return nil, ErrInvalidPassword
	}

	// Номер личной карты необязателен; если он есть, община берется из него
	var idCard, city string
	if strings.TrimSpace(req.IDCard) != "" {
		var err error
		if city, err = domain.MunicipalityFromIDCard(req.IDCard); err != nil {
			return nil, err
		}
		idCard, _ = domain.NormalizeIDCard(req.IDCard)
	}

	// 2. Хэш пароля (bcrypt)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.settings.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// 3. Сохранение; уникальность username гарантирует база
	now := s.now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hash),
		City:         city,
		IDCard:       idCard,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, postgres.ErrDuplicateUsername) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("username", username),
		zap.String("city", city))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.TokenResponse, error) {
	// 1. Аутентификация (источник правды: Postgres)
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// 2. Проверка пароля
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. Формирование Claims
	now := s.now()
	expiresAt := now.Add(s.settings.TokenTTL)
	claims := &domain.CustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.settings.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	// 4. Подпись токена ЗАКРЫТЫМ КЛЮЧОМ (RS256)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &domain.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.settings.TokenTTL.Seconds()),
	}, nil
}
