// internal/handlers/router.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go_4_sight_reader/internal/config"
	"go_4_sight_reader/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// Handlers はルーターに登録するハンドラの集合です。
type Handlers struct {
	Auth    *AuthHandler
	Word    *WordHandler
	Blend   *BlendHandler
	Session *SessionHandler
	Story   *StoryHandler
}

// HealthCheck は /health で呼ばれる依存先の疎通確認です。
type HealthCheck func(ctx context.Context) error

const requestTimeout = 60 * time.Second

func NewRouter(cfg *config.Config, logger *slog.Logger, h Handlers, health HealthCheck) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
		Debug:            false,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))

	adminOnly := middleware.AdminAuthMiddleware(&cfg.Auth)
	loginLimiter := middleware.NewRateLimiter(cfg.Auth.LoginRPS, cfg.Auth.LoginBurst)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(loginLimiter.Middleware).Post("/auth/login", h.Auth.Login)

		r.Route("/words", func(r chi.Router) {
			r.Get("/", h.Word.GetWords)
			r.With(adminOnly).Post("/", h.Word.PostWord)
			r.With(adminOnly).Post("/reload", h.Word.ReloadWords)
		})

		r.Route("/blends", func(r chi.Router) {
			r.Get("/", h.Blend.GetBlends)
			r.Get("/{slug}", h.Blend.GetBlend)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.Session.StartSession)
			r.Get("/history", h.Session.GetHistory)
			r.Route("/{session_id}", func(r chi.Router) {
				r.Get("/", h.Session.GetSession)
				r.Delete("/", h.Session.EndSession)
				r.Post("/next", h.Session.Next)
				r.Post("/revisit", h.Session.MarkForRevisit)
				r.Post("/previous", h.Session.Previous)
			})
		})

		r.Route("/stories", func(r chi.Router) {
			r.Get("/", h.Story.GetStories)
			r.Get("/{slug}", h.Story.GetStory)
			r.With(adminOnly).Post("/", h.Story.UploadStory)
		})
	})

	// 挿絵の配信
	images := http.StripPrefix("/story-images/", http.FileServer(http.Dir(cfg.Content.ImagesDir)))
	r.Get("/story-images/*", func(w http.ResponseWriter, r *http.Request) {
		images.ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if health != nil {
			if err := health(ctx); err != nil {
				middleware.GetLogger(ctx).Error("Health check failed", slog.Any("error", err))
				http.Error(w, "Health check failed", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
