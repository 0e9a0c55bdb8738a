// internal/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go_4_sight_reader/internal/config"
	"go_4_sight_reader/internal/model"
	"go_4_sight_reader/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
)

// AdminAuthMiddleware はコンテンツ管理系のルートを Bearer トークン (HS256) で保護します。
// auth.enabled が false のときは何もしません。secret_key が空なら管理系ルートはすべて拒否します。
func AdminAuthMiddleware(cfg *config.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}
			logger := GetLogger(r.Context())

			// 空の鍵で署名されたトークンを受け付けない
			if cfg.SecretKey == "" {
				logger.Error("Admin auth rejected: auth.secret_key is not configured")
				appErr := model.NewAppError("LOGIN_DISABLED", "Admin access is not configured.", "", model.ErrForbidden)
				webutil.HandleError(w, logger, appErr)
				return
			}

			// 1. Authorization ヘッダーからトークンを取得
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Admin auth failed: Authorization header missing")
				appErr := model.NewAppError("UNAUTHORIZED", "Authorization header is required.", "", model.ErrForbidden)
				webutil.HandleError(w, logger, appErr)
				return
			}
			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				logger.Warn("Admin auth failed: Invalid Authorization header format")
				appErr := model.NewAppError("UNAUTHORIZED", "Authorization header must be 'Bearer <token>'.", "", model.ErrForbidden)
				webutil.HandleError(w, logger, appErr)
				return
			}

			// 2. 署名・有効期限を検証
			claims := &model.AdminClaims{}
			token, err := jwt.ParseWithClaims(headerParts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.SecretKey), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("Admin auth failed: Invalid token", "error", err)
				appErr := model.NewAppError("INVALID_TOKEN", "Token is invalid or expired.", "", model.ErrForbidden)
				webutil.HandleError(w, logger, appErr)
				return
			}

			// 3. sub が管理者であること
			if claims.Subject != model.AdminSubject {
				logger.Warn("Admin auth failed: unexpected subject", "subject", claims.Subject)
				appErr := model.NewAppError("INVALID_TOKEN", "Token does not grant admin access.", "", model.ErrForbidden)
				webutil.HandleError(w, logger, appErr)
				return
			}

			ctx := context.WithValue(r.Context(), model.AdminSubjectKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminSubjectFromContext は AdminAuthMiddleware が検証したトークンの sub を返します。
// 認証が無効なときは空文字列です。
func AdminSubjectFromContext(ctx context.Context) string {
	sub, _ := ctx.Value(model.AdminSubjectKey).(string)
	return sub
}
