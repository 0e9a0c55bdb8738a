// cmd/main.go
package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"go_4_sight_reader/internal/config"
	"go_4_sight_reader/internal/handlers"
	"go_4_sight_reader/internal/repository"
	"go_4_sight_reader/internal/service"
)

func main() {
	// 設定ファイル読み込み用の一時的なロガー
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)
	log.Println("Log Config Loading...")

	// .env があれば環境変数に読み込む (既存の環境変数は上書きしない)
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Error loading .env file", slog.Any("error", err))
	}

	if err := config.LoadConfig("configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := newLogger(tempLogger)
	log.Println("Log Config Loaded...")
	slog.SetDefault(logger)

	slog.Info("Application starting...", slog.String("app", config.AppName), slog.String("version", config.AppVersion))

	// セッション履歴用DB
	db, err := repository.NewDB(config.Cfg.Database, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	// Dependency Injection
	wordRepo := repository.NewFileWordListRepository(config.Cfg.Content.Dir)
	blendRepo := repository.NewFileBlendRepository(config.Cfg.Content.Dir)
	storyRepo := repository.NewFileStoryRepository(config.Cfg.Content.Dir, config.Cfg.Content.ImagesDir)
	historyRepo := repository.NewGormHistoryRepository(db)

	wordCache := service.NewWordCache(wordRepo)
	if err := wordCache.Reload(context.Background()); err != nil {
		// 単語リストがなくても起動はする
		slog.Warn("Failed to preload word lists", slog.Any("error", err))
	}
	wordService := service.NewWordService(wordRepo, wordCache)
	blendService := service.NewBlendService(blendRepo)
	storyService := service.NewStoryService(storyRepo, wordService, service.NewStoryRenderer())
	sessionService := service.NewSessionService(wordService, blendService, historyRepo, service.NewSeededRandFactory(), config.Cfg.Session.IdleTTL)
	authService := service.NewAuthService(&config.Cfg.Auth)

	router := handlers.NewRouter(&config.Cfg, logger, handlers.Handlers{
		Auth:    handlers.NewAuthHandler(authService),
		Word:    handlers.NewWordHandler(wordService),
		Blend:   handlers.NewBlendHandler(blendService),
		Session: handlers.NewSessionHandler(sessionService),
		Story:   handlers.NewStoryHandler(storyService, config.Cfg.Upload.MaxBytes),
	}, func(ctx context.Context) error {
		return sqlDB.PingContext(ctx)
	})

	// 放置されたセッションの掃除
	scheduler := gocron.NewScheduler(time.Local)
	if _, err := scheduler.Every(config.Cfg.Session.SweepInterval).SingletonMode().Do(func() {
		if n := sessionService.Sweep(context.Background(), time.Now()); n > 0 {
			slog.Info("Idle sessions swept", slog.Int("count", n))
		}
	}); err != nil {
		slog.Error("Error scheduling session sweep", slog.Any("error", err))
		os.Exit(1)
	}
	scheduler.StartAsync()

	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second, // 画像アップロードがあるので長め
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}

// newLogger は log.level と APP_ENV からアプリケーションのロガーを作ります。
// APP_ENV=dev なら tint、それ以外は JSON です。
func newLogger(tempLogger *slog.Logger) *slog.Logger {
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(config.Cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		tempLogger.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", config.Cfg.Log.Level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	return slog.New(handler)
}
