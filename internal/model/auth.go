// internal/model/auth.go
package model

import (
	"github.com/golang-jwt/jwt/v5"
)

type ContextKey string

const (
	AdminSubjectKey ContextKey = "adminSubject"
)

// AdminSubject はトークンの sub に入る管理者の識別子です。
const AdminSubject = "admin"

// LoginRequest は管理者ログインAPIのリクエストボディ
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse はログイン成功時のレスポンス
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// AdminClaims はJWTに含めるクレーム
type AdminClaims struct {
	jwt.RegisteredClaims
}
