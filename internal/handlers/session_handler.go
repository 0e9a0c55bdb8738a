// internal/handlers/session_handler.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"go_4_sight_reader/internal/middleware"
	"go_4_sight_reader/internal/model"
	"go_4_sight_reader/internal/service"
	"go_4_sight_reader/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type SessionHandler struct {
	service service.SessionService
}

func NewSessionHandler(s service.SessionService) *SessionHandler {
	return &SessionHandler{service: s}
}

// StartSession はフラッシュカードのセッションを開始するハンドラ
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "StartSession"))

	var req model.StartSessionRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	resp, err := h.service.StartSession(r.Context(), &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	w.Header().Set("Location", "/api/v1/sessions/"+resp.SessionID.String())
	webutil.RespondWithJSON(w, http.StatusCreated, resp, logger)
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.handleEvent(w, r, "GetSession", h.service.GetSession)
}

func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.handleEvent(w, r, "Next", h.service.Next)
}

func (h *SessionHandler) MarkForRevisit(w http.ResponseWriter, r *http.Request) {
	h.handleEvent(w, r, "MarkForRevisit", h.service.MarkForRevisit)
}

func (h *SessionHandler) Previous(w http.ResponseWriter, r *http.Request) {
	h.handleEvent(w, r, "Previous", h.service.Previous)
}

// handleEvent は URL の session_id を取り出して fn を呼び、スナップショットを返します。
func (h *SessionHandler) handleEvent(w http.ResponseWriter, r *http.Request, name string, fn func(context.Context, uuid.UUID) (*model.SessionResponse, error)) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", name))

	id, ok := sessionIDParam(w, r, logger)
	if !ok {
		return
	}

	resp, err := fn(r.Context(), id)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// EndSession はセッションを破棄するハンドラ
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "EndSession"))

	id, ok := sessionIDParam(w, r, logger)
	if !ok {
		return
	}
	if err := h.service.EndSession(r.Context(), id); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHistory は完了したセッションの履歴を新しい順に返すハンドラ (?limit=)
func (h *SessionHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "GetHistory"))

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			logger.Warn("Invalid limit query", slog.String("limit", s))
			appErr := model.NewAppError("INVALID_QUERY_PARAM", "limit must be a positive integer.", "limit", model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
			return
		}
		limit = n
	}

	records, err := h.service.ListHistory(r.Context(), limit)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if records == nil {
		records = []*model.SessionRecord{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, records, logger)
}

func sessionIDParam(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "session_id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		logger.Warn("Invalid session ID format in URL", slog.String("session_id_str", idStr), slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_URL_PARAM", "session_id is not a valid UUID.", "session_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return uuid.Nil, false
	}
	return id, true
}
