package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go_4_sight_reader/internal/config"
	"go_4_sight_reader/internal/handlers"
	"go_4_sight_reader/internal/model"
	"go_4_sight_reader/internal/repository"
	"go_4_sight_reader/internal/revisit"
	"go_4_sight_reader/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp は実際のリポジトリとサービスを組み合わせたルーターです。
type testApp struct {
	router  http.Handler
	content string
	images  string
}

// identityRand は常に最後の要素を選ぶので Shuffle が並びを変えません。
type identityRand struct{}

func (identityRand) Intn(n int) int { return n - 1 }

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	root := t.TempDir()
	app := &testApp{
		content: filepath.Join(root, "content"),
		images:  filepath.Join(root, "story-images"),
	}
	writeFile(t, filepath.Join(app.content, "small-words.txt"), "the\ncat\nsat\n")
	writeFile(t, filepath.Join(app.content, "big-words.txt"), "")
	writeFile(t, filepath.Join(app.content, "words.txt"), "the\ncat\nsat\nbig\ndog\nran\nup\n")
	writeFile(t, filepath.Join(app.content, "consonant-blends", "bl.mdx"), "---\ntitle: BL Blend\nblend: bl\n---\nblack, blue, blow\n")
	writeFile(t, filepath.Join(app.content, "stories", "001.mdx"), "---\nid: \"001\"\ntitle: The Cat\nimg: 001.jpg\nwordType: small\n---\n\nThe cat sat.\n")
	writeFile(t, filepath.Join(app.images, "001.jpg"), "JPEGDATA")

	cfg := newTestConfig()
	cfg.Content.Dir = app.content
	cfg.Content.ImagesDir = app.images

	db, err := repository.NewDB(config.DatabaseConfig{Driver: "sqlite", URL: "file::memory:"}, discardLogger)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	wordRepo := repository.NewFileWordListRepository(app.content)
	wordService := service.NewWordService(wordRepo, service.NewWordCache(wordRepo))
	blendService := service.NewBlendService(repository.NewFileBlendRepository(app.content))
	storyService := service.NewStoryService(
		repository.NewFileStoryRepository(app.content, app.images),
		wordService,
		service.NewStoryRenderer(),
	)
	sessionService := service.NewSessionService(
		wordService,
		blendService,
		repository.NewGormHistoryRepository(db),
		func() revisit.Rand { return identityRand{} },
		time.Hour,
	)

	h := handlers.Handlers{
		Auth:    handlers.NewAuthHandler(service.NewAuthService(&cfg.Auth)),
		Word:    handlers.NewWordHandler(wordService),
		Blend:   handlers.NewBlendHandler(blendService),
		Session: handlers.NewSessionHandler(sessionService),
		Story:   handlers.NewStoryHandler(storyService, cfg.Upload.MaxBytes),
	}
	app.router = handlers.NewRouter(cfg, discardLogger, h, func(ctx context.Context) error {
		return sqlDB.PingContext(ctx)
	})
	return app
}

func TestApp_SessionLifecycle(t *testing.T) {
	app := setupTestApp(t)

	rr := sendRequest(t, app.router, http.MethodPost, "/api/v1/sessions", model.StartSessionRequest{Source: model.SourceAll}, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var snap model.SessionResponse
	decodeBody(t, rr, &snap)
	require.Equal(t, 7, snap.Total)
	require.NotNil(t, snap.Current)
	first := snap.Current.Word
	base := "/api/v1/sessions/" + snap.SessionID.String()

	// 最初のカードを再出題に回す (4 枚後に戻ってくる)
	rr = sendRequest(t, app.router, http.MethodPost, base+"/revisit", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decodeBody(t, rr, &snap)
	assert.Equal(t, 1, snap.PendingRevisits)

	// 最後まで進める
	seen := []string{first}
	for i := 0; i < 20 && !snap.Completed; i++ {
		rr = sendRequest(t, app.router, http.MethodPost, base+"/next", nil, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		snap = model.SessionResponse{}
		decodeBody(t, rr, &snap)
		if snap.Current != nil {
			seen = append(seen, snap.Current.Word)
		}
	}
	require.True(t, snap.Completed)
	assert.Contains(t, seen[1:], first, "再出題のカードがもう一度出る")

	// 完了後の操作は 409
	rr = sendRequest(t, app.router, http.MethodPost, base+"/next", nil, nil)
	assertErrorResponse(t, rr, http.StatusConflict, "SESSION_NOT_ACTIVE")

	// 履歴に1件残る
	rr = sendRequest(t, app.router, http.MethodGet, "/api/v1/sessions/history", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var history []model.SessionRecord
	decodeBody(t, rr, &history)
	require.Len(t, history, 1)
	assert.Equal(t, snap.SessionID, history[0].SessionID)
	assert.Equal(t, 7, history[0].WordsPlanned)
	assert.Equal(t, 1, history[0].RevisitsShown)

	rr = sendRequest(t, app.router, http.MethodDelete, base, nil, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = sendRequest(t, app.router, http.MethodGet, base, nil, nil)
	assertErrorResponse(t, rr, http.StatusNotFound, "NOT_FOUND")
}

func TestApp_BlendSession(t *testing.T) {
	app := setupTestApp(t)

	rr := sendRequest(t, app.router, http.MethodPost, "/api/v1/sessions", model.StartSessionRequest{Source: model.SourceBlend, Slug: "bl"}, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var snap model.SessionResponse
	decodeBody(t, rr, &snap)
	assert.Equal(t, 3, snap.Total)
	assert.Equal(t, "bl", snap.Slug)

	rr = sendRequest(t, app.router, http.MethodPost, "/api/v1/sessions", model.StartSessionRequest{Source: model.SourceBig}, nil)
	assertErrorResponse(t, rr, http.StatusBadRequest, "NO_WORDS")
}

func TestApp_AddWordThenList(t *testing.T) {
	app := setupTestApp(t)

	rr := sendRequest(t, app.router, http.MethodPost, "/api/v1/words", model.AddWordRequest{Word: "  Dog ", Category: "small"}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = sendRequest(t, app.router, http.MethodGet, "/api/v1/words?category=small", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list model.WordListResponse
	decodeBody(t, rr, &list)
	assert.Equal(t, []string{"cat", "dog", "sat", "the"}, list.Words)

	rr = sendRequest(t, app.router, http.MethodPost, "/api/v1/words", model.AddWordRequest{Word: "dog", Category: "small"}, nil)
	assertErrorResponse(t, rr, http.StatusConflict, "DUPLICATE_WORD")
}

func TestApp_StoryHighlightAndImage(t *testing.T) {
	app := setupTestApp(t)

	rr := sendRequest(t, app.router, http.MethodGet, "/api/v1/stories/001", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var story model.StoryResponse
	decodeBody(t, rr, &story)
	assert.Equal(t, "/story-images/001.jpg", story.ImageURL)
	assert.Contains(t, story.HTML, "<u>The</u> <u>cat</u> <u>sat</u>.")

	rr = sendRequest(t, app.router, http.MethodGet, "/api/v1/stories/001?highlight=false", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	story = model.StoryResponse{}
	decodeBody(t, rr, &story)
	assert.NotContains(t, story.HTML, "<u>")

	req := httptest.NewRequest(http.MethodGet, story.ImageURL, nil)
	img := httptest.NewRecorder()
	app.router.ServeHTTP(img, req)
	assert.Equal(t, http.StatusOK, img.Code)
	body, err := io.ReadAll(img.Body)
	require.NoError(t, err)
	assert.Equal(t, "JPEGDATA", string(body))
}

func TestApp_UploadStory(t *testing.T) {
	app := setupTestApp(t)

	rr := httptest.NewRecorder()
	app.router.ServeHTTP(rr, newUploadRequest(t, "The Dog", "A dog ran.", "dog.PNG", []byte("PNGDATA")))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var resp model.UploadStoryResponse
	decodeBody(t, rr, &resp)
	assert.Equal(t, "002", resp.StoryID)

	data, err := os.ReadFile(filepath.Join(app.images, "002.png"))
	require.NoError(t, err)
	assert.Equal(t, "PNGDATA", string(data))

	rr = sendRequest(t, app.router, http.MethodGet, "/api/v1/stories", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []model.StorySummary
	decodeBody(t, rr, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "The Dog", list[1].Title)
}

func TestApp_Health(t *testing.T) {
	app := setupTestApp(t)

	rr := sendRequest(t, app.router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}
