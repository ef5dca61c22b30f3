package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/counseling_portal/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type CredentialStore interface {
	GetByLogin(ctx context.Context, identifier string) (*model.User, error)
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
}

// LoginRequest вход по username или email
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=255"`
	Password   string `json:"password" validate:"required"`
}

// PasswordReset установка пароля администратором. bcrypt учитывает только первые 72 байта.
type PasswordReset struct {
	Identifier string `validate:"required,max=255"`
	Password   string `validate:"required,min=8,max=72"`
}

// Claims содержимое токена сессии
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users  CredentialStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

func NewAuthService(users CredentialStore, secret string, ttl time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// Login проверяет пароль и выдаёт токен
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (string, *model.User, error) {
	req.Identifier = strings.TrimSpace(req.Identifier)
	if err := validateStruct(req); err != nil {
		return "", nil, err
	}

	user, err := s.users.GetByLogin(ctx, req.Identifier)
	if err != nil {
		return "", nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("Login rejected", zap.String("user_id", user.ID))
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)

	return token, user, nil
}

// IssueToken подписывает HS256 токен с sub = user_id
func (s *AuthService) IssueToken(user *model.User) (string, error) {
	now := s.now()
	claims := Claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ParseToken проверяет подпись и срок, возвращает user_id и роль
func (s *AuthService) ParseToken(raw string) (string, model.Role, error) {
	var claims Claims
	keyFunc := func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}

	_, err := jwt.ParseWithClaims(raw, &claims, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return "", "", ErrInvalidToken
	}

	role, err := model.ParseRole(claims.Role)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return claims.Subject, role, nil
}

// SetPassword заменяет пароль пользователя. Выданные токены остаются действительными до exp.
func (s *AuthService) SetPassword(ctx context.Context, req PasswordReset) error {
	req.Identifier = strings.TrimSpace(req.Identifier)
	if err := validateStruct(req); err != nil {
		return err
	}

	user, err := s.users.GetByLogin(ctx, req.Identifier)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user %q not found", req.Identifier)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.logger.Info("Password updated", zap.String("user_id", user.ID))
	return nil
}

// hashPassword bcrypt с cost по умолчанию
func hashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
