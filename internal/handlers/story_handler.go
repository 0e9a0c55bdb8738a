// internal/handlers/story_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"go_4_sight_reader/internal/middleware"
	"go_4_sight_reader/internal/model"
	"go_4_sight_reader/internal/service"
	"go_4_sight_reader/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type StoryHandler struct {
	service  service.StoryService
	maxBytes int64
}

// NewStoryHandler の maxBytes はアップロードのリクエストボディ上限です。
func NewStoryHandler(s service.StoryService, maxBytes int64) *StoryHandler {
	return &StoryHandler{service: s, maxBytes: maxBytes}
}

// GetStories は ?dir= のストーリー一覧を返すハンドラ
func (h *StoryHandler) GetStories(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "GetStories"))

	stories, err := h.service.ListStories(r.Context(), r.URL.Query().Get("dir"))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if stories == nil {
		stories = []*model.StorySummary{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, stories, logger)
}

// GetStory はストーリー本文を HTML にして返すハンドラ。?highlight=false で語彙の強調を止めます。
func (h *StoryHandler) GetStory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	dir := r.URL.Query().Get("dir")
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "GetStory"), slog.String("slug", slug))

	withHighlight := true
	if s := r.URL.Query().Get("highlight"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			appErr := model.NewAppError("INVALID_QUERY_PARAM", "highlight must be true or false.", "highlight", model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
			return
		}
		withHighlight = b
	}

	story, err := h.service.GetStory(r.Context(), dir, slug, withHighlight)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, story, logger)
}

// UploadStory は multipart/form-data (title, content, image) を受け取って保存するハンドラ (管理者のみ)
func (h *StoryHandler) UploadStory(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "UploadStory"), slog.String("admin", middleware.AdminSubjectFromContext(r.Context())))

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("Upload rejected: body too large", slog.Int64("limit", tooLarge.Limit))
			webutil.RespondWithJSON(w, http.StatusRequestEntityTooLarge, model.APIErrorResponse{
				Error: model.ErrorDetail{Code: "PAYLOAD_TOO_LARGE", Message: "Upload exceeds the size limit."},
			}, logger)
			return
		}
		logger.Warn("Failed to parse multipart form", "error", err)
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "Request must be multipart/form-data.", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := model.UploadStoryRequest{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
	}
	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		req.ImageName = header.Filename
	} else if !errors.Is(err, http.ErrMissingFile) {
		logger.Warn("Failed to read uploaded image", "error", err)
	}

	if err := webutil.ValidateStruct(&req); err != nil {
		logger.Warn("Validation failed", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.UploadStory(r.Context(), &req, file)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Story uploaded successfully", slog.String("story_id", resp.StoryID))
	webutil.RespondWithJSON(w, http.StatusCreated, resp, logger)
}
