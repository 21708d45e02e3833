package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	autherrors "go-payroll/internal/auth/errors"
	"go-payroll/internal/config"
	"go-payroll/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, username, password string) (accessToken, refreshToken string, resp AuthResponse, err error)

	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)

	GetMe(ctx context.Context, userID string) (*AuthResponse, error)

	// CreateAdmin creates the user, or resets password and role when the
	// username already exists.
	CreateAdmin(ctx context.Context, username, password, role string) (AuthResponse, error)
}

type service struct {
	repo   Repository
	cfg    config.AuthConfig
	logger *zap.Logger
}

func NewService(repo Repository, cfg config.AuthConfig, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, cfg: cfg, logger: l}
}

func (s *service) Login(ctx context.Context, username, password string) (string, string, AuthResponse, error) {
	username = strings.TrimSpace(username)

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("login lookup failed", zap.Error(err))
		}
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	// inactive, unknown and wrong password look the same to the caller
	if !user.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	s.logger.Info("login success", zap.String("user_id", user.ID.String()), zap.String("role", user.Role))
	return access, refresh, toResponse(user), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	if refreshToken == "" {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}
	if tokenType, _ := claims["token_type"].(string); tokenType != TokenTypeRefresh {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	userID, _ := claims["user_id"].(string)
	if _, err := uuid.Parse(userID); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil || !user.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return "", "", AuthResponse{}, err
	}
	return access, refresh, toResponse(user), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, autherrors.ErrInvalidToken
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}
	if !user.IsActive {
		return nil, autherrors.ErrUserInactive
	}

	resp := toResponse(user)
	return &resp, nil
}

func (s *service) CreateAdmin(ctx context.Context, username, password, role string) (AuthResponse, error) {
	username = strings.TrimSpace(username)
	role = strings.ToUpper(strings.TrimSpace(role))
	if role != domain.RoleAdmin && role != domain.RoleViewer {
		return AuthResponse{}, autherrors.ErrInvalidRole
	}
	if username == "" || len(password) < 8 {
		return AuthResponse{}, autherrors.ErrWeakCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	existing, err := s.repo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		existing.PasswordHash = string(hashed)
		existing.Role = role
		existing.IsActive = true
		if err := s.repo.Update(ctx, existing); err != nil {
			return AuthResponse{}, err
		}
		s.logger.Info("admin user reset", zap.String("username", username), zap.String("role", role))
		return toResponse(existing), nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return AuthResponse{}, err
	}

	user := &AdminUser{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hashed),
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return AuthResponse{}, autherrors.ErrUsernameTaken
	}

	s.logger.Info("admin user created", zap.String("username", username), zap.String("role", role))
	return toResponse(user), nil
}

func (s *service) issueTokens(user *AdminUser) (string, string, error) {
	access, err := s.generateToken(user, TokenTypeAccess, s.cfg.AccessTokenTTL)
	if err != nil {
		return "", "", autherrors.ErrTokenGenerationFailed
	}
	refresh, err := s.generateToken(user, TokenTypeRefresh, s.cfg.RefreshTokenTTL)
	if err != nil {
		return "", "", autherrors.ErrTokenGenerationFailed
	}
	return access, refresh, nil
}

func (s *service) generateToken(user *AdminUser, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":    user.ID.String(),
		"role":       user.Role,
		"token_type": tokenType,
		"iat":        now.Unix(),
		"exp":        now.Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func toResponse(user *AdminUser) AuthResponse {
	return AuthResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Role:     user.Role,
	}
}
