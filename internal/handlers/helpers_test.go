// helpers_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go_4_sight_reader/internal/config"
	"go_4_sight_reader/internal/handlers"
	"go_4_sight_reader/internal/model"
	"go_4_sight_reader/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// mockServices はハンドラが使うサービスのモック一式です。
type mockServices struct {
	auth    *mocks.AuthService
	words   *mocks.WordService
	blends  *mocks.BlendService
	session *mocks.SessionService
	stories *mocks.StoryService
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.CORS.AllowedOrigins = []string{"*"}
	cfg.Upload.MaxBytes = 1 << 20
	cfg.Auth.SecretKey = "test-secret"
	return cfg
}

// newMockRouter はモックのサービスを注入したルーターを作ります。
func newMockRouter(t *testing.T, cfg *config.Config) (http.Handler, *mockServices) {
	t.Helper()
	m := &mockServices{
		auth:    mocks.NewAuthService(t),
		words:   mocks.NewWordService(t),
		blends:  mocks.NewBlendService(t),
		session: mocks.NewSessionService(t),
		stories: mocks.NewStoryService(t),
	}
	h := handlers.Handlers{
		Auth:    handlers.NewAuthHandler(m.auth),
		Word:    handlers.NewWordHandler(m.words),
		Blend:   handlers.NewBlendHandler(m.blends),
		Session: handlers.NewSessionHandler(m.session),
		Story:   handlers.NewStoryHandler(m.stories, cfg.Upload.MaxBytes),
	}
	return handlers.NewRouter(cfg, discardLogger, h, nil), m
}

// sendRequest は body が string ならそのまま、それ以外は JSON にして送ります。
func sendRequest(t *testing.T, h http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			reqBody = strings.NewReader(s)
		} else {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			reqBody = bytes.NewReader(b)
		}
	}
	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// decodeBody はレスポンスボディを dst にデコードします。
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dst), "body: %s", rr.Body.String())
}

// assertErrorResponse はエラーレスポンスのステータスとコードを検証します。
func assertErrorResponse(t *testing.T, rr *httptest.ResponseRecorder, wantStatus int, wantCode string) model.ErrorDetail {
	t.Helper()
	assert.Equal(t, wantStatus, rr.Code, "body: %s", rr.Body.String())
	var resp model.APIErrorResponse
	decodeBody(t, rr, &resp)
	assert.Equal(t, wantCode, resp.Error.Code)
	return resp.Error
}
