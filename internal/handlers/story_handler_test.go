package handlers_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go_4_sight_reader/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStoryHandler_GetStories(t *testing.T) {
	router, m := newMockRouter(t, newTestConfig())
	m.stories.On("ListStories", mock.Anything, "small").Return([]*model.StorySummary{
		{Slug: "a1", ID: "1", Title: "The Cat", ImageURL: "/story-images/001.jpg", WordType: "small"},
	}, nil).Once()

	rr := sendRequest(t, router, http.MethodGet, "/api/v1/stories?dir=small", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	var got []model.StorySummary
	decodeBody(t, rr, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "The Cat", got[0].Title)
}

func TestStoryHandler_GetStory(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		setupMock  func(m *mockServices)
		wantStatus int
		wantCode   string
	}{
		{
			name:  "正常系: highlight は既定で有効",
			query: "",
			setupMock: func(m *mockServices) {
				m.stories.On("GetStory", mock.Anything, "", "001", true).
					Return(&model.StoryResponse{StorySummary: model.StorySummary{Slug: "001"}, HTML: "<p><u>the</u> cat</p>"}, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:  "正常系: highlight=false と dir",
			query: "?highlight=false&dir=small",
			setupMock: func(m *mockServices) {
				m.stories.On("GetStory", mock.Anything, "small", "001", false).
					Return(&model.StoryResponse{StorySummary: model.StorySummary{Slug: "001"}, HTML: "<p>the cat</p>"}, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "異常系: highlight が真偽値でない",
			query:      "?highlight=maybe",
			setupMock:  func(m *mockServices) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_QUERY_PARAM",
		},
		{
			name:  "異常系: 存在しない",
			query: "",
			setupMock: func(m *mockServices) {
				m.stories.On("GetStory", mock.Anything, "", "001", true).
					Return(nil, model.NewAppError("NOT_FOUND", "Story not found.", "slug", model.ErrNotFound)).Once()
			},
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newMockRouter(t, newTestConfig())
			tt.setupMock(m)

			rr := sendRequest(t, router, http.MethodGet, "/api/v1/stories/001"+tt.query, nil, nil)

			if tt.wantCode != "" {
				assertErrorResponse(t, rr, tt.wantStatus, tt.wantCode)
				return
			}
			assert.Equal(t, tt.wantStatus, rr.Code)
			var got model.StoryResponse
			decodeBody(t, rr, &got)
			assert.Equal(t, "001", got.Slug)
		})
	}
}

// newUploadRequest は title, content と (image が空でなければ) 画像ファイルを持つマルチパートリクエストを作ります。
func newUploadRequest(t *testing.T, title, content, imageName string, image []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", title))
	require.NoError(t, mw.WriteField("content", content))
	if imageName != "" {
		fw, err := mw.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/stories", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestStoryHandler_UploadStory(t *testing.T) {
	t.Run("正常系: 201 と採番された ID", func(t *testing.T) {
		router, m := newMockRouter(t, newTestConfig())
		m.stories.On("UploadStory", mock.Anything, &model.UploadStoryRequest{Title: "The Dog", Content: "A dog ran.", ImageName: "dog.png"}, mock.Anything).
			Run(func(args mock.Arguments) {
				data, err := io.ReadAll(args.Get(2).(io.Reader))
				require.NoError(t, err)
				assert.Equal(t, []byte("PNGDATA"), data)
			}).
			Return(&model.UploadStoryResponse{Success: true, StoryID: "004", Message: "Story uploaded successfully"}, nil).Once()

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, newUploadRequest(t, "The Dog", "A dog ran.", "dog.png", []byte("PNGDATA")))

		assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		var got model.UploadStoryResponse
		decodeBody(t, rr, &got)
		assert.Equal(t, model.UploadStoryResponse{Success: true, StoryID: "004", Message: "Story uploaded successfully"}, got)
	})

	t.Run("異常系: 画像なし", func(t *testing.T) {
		router, _ := newMockRouter(t, newTestConfig())

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, newUploadRequest(t, "The Dog", "A dog ran.", "", nil))

		detail := assertErrorResponse(t, rr, http.StatusBadRequest, "VALIDATION_ERROR")
		assert.Equal(t, "image", detail.Field)
	})

	t.Run("異常系: title なし", func(t *testing.T) {
		router, _ := newMockRouter(t, newTestConfig())

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, newUploadRequest(t, "", "A dog ran.", "dog.png", []byte("PNGDATA")))

		detail := assertErrorResponse(t, rr, http.StatusBadRequest, "VALIDATION_ERROR")
		assert.Equal(t, "title", detail.Field)
	})

	t.Run("異常系: マルチパートでない", func(t *testing.T) {
		router, _ := newMockRouter(t, newTestConfig())

		rr := sendRequest(t, router, http.MethodPost, "/api/v1/stories", `{"title":"x"}`, nil)
		assertErrorResponse(t, rr, http.StatusBadRequest, "INVALID_REQUEST_BODY")
	})

	t.Run("異常系: サイズ超過は 413", func(t *testing.T) {
		cfg := newTestConfig()
		cfg.Upload.MaxBytes = 1 << 10
		router, _ := newMockRouter(t, cfg)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, newUploadRequest(t, "Big", strings.Repeat("word ", 2000), "big.png", bytes.Repeat([]byte{0xff}, 8<<10)))

		assertErrorResponse(t, rr, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE")
	})
}
