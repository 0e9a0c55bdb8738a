// internal/handlers/word_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_4_sight_reader/internal/middleware"
	"go_4_sight_reader/internal/model"
	"go_4_sight_reader/internal/service"
	"go_4_sight_reader/internal/webutil"
)

type WordHandler struct {
	service service.WordService
}

func NewWordHandler(s service.WordService) *WordHandler {
	return &WordHandler{service: s}
}

// GetWords は ?category= (small, big, all) の単語リストを返すハンドラ
func (h *WordHandler) GetWords(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "GetWords"))

	category, err := model.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		logger.Warn("Invalid category query", slog.String("category", r.URL.Query().Get("category")))
		appErr := model.NewAppError("INVALID_CATEGORY", "category must be one of [all small big].", "category", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	words, err := h.service.ListWords(r.Context(), category)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if words == nil {
		words = []string{}
	}

	logger.Info("Words listed successfully", slog.String("category", string(category)), slog.Int("count", len(words)))
	webutil.RespondWithJSON(w, http.StatusOK, &model.WordListResponse{
		Category: category,
		Count:    len(words),
		Words:    words,
	}, logger)
}

// PostWord は単語リストに単語を追加するハンドラ (管理者のみ)
func (h *WordHandler) PostWord(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "PostWord"), slog.String("admin", middleware.AdminSubjectFromContext(r.Context())))

	var req model.AddWordRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	resp, err := h.service.AddWord(r.Context(), &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Word added successfully", slog.String("word", resp.Word), slog.String("category", string(resp.Category)))
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// ReloadWords は単語リストのキャッシュを捨てて読み直すハンドラ (管理者のみ)
func (h *WordHandler) ReloadWords(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "ReloadWords"), slog.String("admin", middleware.AdminSubjectFromContext(r.Context())))

	if err := h.service.ReloadWords(r.Context()); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Word lists reloaded."}, logger)
}
