// internal/service/auth_service.go
package service

import (
	"context"
	"time"

	"go_4_sight_reader/internal/config"
	"go_4_sight_reader/internal/middleware"
	"go_4_sight_reader/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService は管理者ログインを扱います。アカウントは設定ファイルの1件だけです。
type AuthService interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
}

type authService struct {
	cfg *config.AuthConfig
	now func() time.Time
}

// NewAuthService は AuthService の新しいインスタンスを生成します
func NewAuthService(cfg *config.AuthConfig) AuthService {
	return &authService{cfg: cfg, now: time.Now}
}

// Login はパスワードを bcrypt ハッシュと照合し、sub=admin のJWTを返します
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	logger := middleware.GetLogger(ctx)

	if s.cfg.AdminPasswordHash == "" || s.cfg.SecretKey == "" {
		logger.Warn("Login rejected: admin credentials are not configured")
		return nil, model.NewAppError("LOGIN_DISABLED", "Admin login is not configured.", "", model.ErrForbidden)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("Login failed: password mismatch")
		return nil, model.NewAppError("AUTHENTICATION_FAILED", "Password is incorrect.", "password", model.ErrInvalidInput)
	}

	now := s.now()
	claims := &model.AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    config.AppName,
			Subject:   model.AdminSubject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err)
		return nil, model.NewInternalError("Failed to issue token.", err)
	}

	logger.Info("Admin login successful")
	return &model.LoginResponse{
		AccessToken: signedToken,
		ExpiresIn:   int64(s.cfg.TokenTTL / time.Second),
	}, nil
}
