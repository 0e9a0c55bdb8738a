// internal/handlers/request.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_4_sight_reader/internal/model"
	"go_4_sight_reader/internal/webutil"
)

// decodeAndValidate は JSON ボディをデコードして検証します。失敗時はレスポンスを書いて false を返します。
func decodeAndValidate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst interface{}) bool {
	if err := webutil.DecodeJSONBody(r, dst); err != nil {
		logger.Warn("Failed to decode request body", "error", err)
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "Request body is malformed.", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return false
	}
	if err := webutil.ValidateStruct(dst); err != nil {
		logger.Warn("Validation failed", "error", err)
		webutil.HandleError(w, logger, err)
		return false
	}
	return true
}
