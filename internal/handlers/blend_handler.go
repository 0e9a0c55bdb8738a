// internal/handlers/blend_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"go_4_sight_reader/internal/middleware"
	"go_4_sight_reader/internal/model"
	"go_4_sight_reader/internal/service"
	"go_4_sight_reader/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type BlendHandler struct {
	service service.BlendService
}

func NewBlendHandler(s service.BlendService) *BlendHandler {
	return &BlendHandler{service: s}
}

func (h *BlendHandler) GetBlends(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "GetBlends"))

	blends, err := h.service.ListBlends(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if blends == nil {
		blends = []*model.Blend{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, blends, logger)
}

func (h *BlendHandler) GetBlend(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "GetBlend"), slog.String("slug", slug))

	blend, err := h.service.GetBlend(r.Context(), slug)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, blend, logger)
}
