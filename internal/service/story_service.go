// internal/service/story_service.go
package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"go_4_sight_reader/internal/highlight"
	"go_4_sight_reader/internal/middleware"
	"go_4_sight_reader/internal/model"
	"go_4_sight_reader/internal/repository"
)

type StoryService interface {
	ListStories(ctx context.Context, dir string) ([]*model.StorySummary, error)
	GetStory(ctx context.Context, dir, slug string, withHighlight bool) (*model.StoryResponse, error)
	UploadStory(ctx context.Context, req *model.UploadStoryRequest, image io.Reader) (*model.UploadStoryResponse, error)
}

type storyService struct {
	repo     repository.StoryRepository
	words    WordService
	renderer *StoryRenderer
	uploadMu sync.Mutex // NextID と Create の間に別の投稿を挟まない
}

func NewStoryService(repo repository.StoryRepository, words WordService, renderer *StoryRenderer) StoryService {
	return &storyService{
		repo:     repo,
		words:    words,
		renderer: renderer,
	}
}

func (s *storyService) ListStories(ctx context.Context, dir string) ([]*model.StorySummary, error) {
	stories, err := s.repo.List(ctx, dir)
	if err != nil {
		if errors.Is(err, model.ErrInvalidInput) {
			return nil, model.NewAppError("INVALID_DIRECTORY", "Invalid story directory.", "dir", err)
		}
		middleware.GetLogger(ctx).Error("Failed to list stories", "dir", dir, "error", err)
		return nil, model.NewInternalError("Failed to load stories.", err)
	}

	summaries := make([]*model.StorySummary, 0, len(stories))
	for _, st := range stories {
		summaries = append(summaries, toSummary(st))
	}
	return summaries, nil
}

func (s *storyService) GetStory(ctx context.Context, dir, slug string, withHighlight bool) (*model.StoryResponse, error) {
	logger := middleware.GetLogger(ctx).With("slug", slug, "dir", dir)

	story, err := s.repo.Get(ctx, dir, slug)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidInput):
			return nil, model.NewAppError("INVALID_SLUG", "Invalid story path.", "slug", err)
		case errors.Is(err, model.ErrNotFound):
			return nil, model.NewAppError("NOT_FOUND", "Story not found.", "slug", err)
		}
		logger.Error("Failed to load story", "error", err)
		return nil, model.NewInternalError("Failed to load story.", err)
	}

	var transform TextTransform
	if withHighlight {
		vocab, err := s.words.Vocabulary(ctx, storyWordType(story))
		if err != nil {
			logger.Error("Failed to load vocabulary", "error", err)
			return nil, err
		}
		if m := highlight.Compile(vocab); !m.Empty() {
			transform = m
		}
	}

	html, err := s.renderer.Render(story.Content, transform)
	if err != nil {
		logger.Error("Failed to render story", "error", err)
		return nil, model.NewInternalError("Failed to render story.", err)
	}

	return &model.StoryResponse{
		StorySummary: *toSummary(story),
		Dir:          story.Dir,
		Markdown:     story.Content,
		HTML:         html,
		Extra:        story.Extra,
	}, nil
}

// UploadStory は次の連番IDでストーリーと挿絵を保存します。
func (s *storyService) UploadStory(ctx context.Context, req *model.UploadStoryRequest, image io.Reader) (*model.UploadStoryResponse, error) {
	logger := middleware.GetLogger(ctx)
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" || req.ImageName == "" || image == nil {
		return nil, model.NewAppError("MISSING_FIELDS", "Missing required fields.", "", model.ErrInvalidInput)
	}

	s.uploadMu.Lock()
	defer s.uploadMu.Unlock()

	id, err := s.repo.NextID(ctx)
	if err != nil {
		logger.Error("Failed to allocate story id", "error", err)
		return nil, model.NewInternalError("Failed to upload story.", err)
	}

	story := &model.Story{
		StoryFrontMatter: model.StoryFrontMatter{ID: id, Title: title},
		Slug:             id,
		Content:          content,
	}
	if err := s.repo.Create(ctx, story, req.ImageName, image); err != nil {
		if errors.Is(err, model.ErrConflict) {
			return nil, model.NewAppError("DUPLICATE_STORY", "Story id already in use.", "", err)
		}
		logger.Error("Failed to save story", "story_id", id, "error", err)
		return nil, model.NewInternalError("Failed to upload story.", err)
	}

	logger.Info("Story uploaded", "story_id", id)
	return &model.UploadStoryResponse{
		Success: true,
		StoryID: id,
		Message: "Story uploaded successfully",
	}, nil
}

// storyWordType は wordType がなければカテゴリディレクトリ名を使います。
func storyWordType(st *model.Story) string {
	if st.WordType != "" {
		return st.WordType
	}
	return st.Dir
}

func toSummary(st *model.Story) *model.StorySummary {
	return &model.StorySummary{
		Slug:     st.Slug,
		ID:       st.ID,
		Title:    st.Title,
		ImageURL: ImageURL(st.Img),
		WordType: storyWordType(st),
	}
}
