// internal/repository/story_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go_4_sight_reader/internal/middleware"
	"go_4_sight_reader/internal/model"
)

const (
	storiesSubdir   = "stories"
	storyExt        = ".mdx"
	defaultImageExt = "jpg"
	storyIDWidth    = 3
)

// StoryRepository はストーリー (.mdx) と挿絵の永続化を扱います。
// dir は stories/ 直下のカテゴリ用サブディレクトリで、空文字列は stories/ 自体です。
type StoryRepository interface {
	ListSlugs(ctx context.Context, dir string) ([]string, error)
	Get(ctx context.Context, dir, slug string) (*model.Story, error)
	List(ctx context.Context, dir string) ([]*model.Story, error)
	NextID(ctx context.Context) (string, error)
	Create(ctx context.Context, story *model.Story, imageName string, image io.Reader) error
}

type fileStoryRepository struct {
	storiesDir string
	imagesDir  string
}

func NewFileStoryRepository(contentDir, imagesDir string) StoryRepository {
	return &fileStoryRepository{
		storiesDir: filepath.Join(contentDir, storiesSubdir),
		imagesDir:  imagesDir,
	}
}

func (r *fileStoryRepository) dirPath(dir string) (string, error) {
	if dir == "" {
		return r.storiesDir, nil
	}
	if !safeName(dir) {
		return "", fmt.Errorf("story directory %q: %w", dir, model.ErrInvalidInput)
	}
	return filepath.Join(r.storiesDir, dir), nil
}

func (r *fileStoryRepository) ListSlugs(ctx context.Context, dir string) ([]string, error) {
	logger := middleware.GetLogger(ctx)
	p, err := r.dirPath(dir)
	if err != nil {
		logger.Warn("Rejected story directory", "dir", dir)
		return nil, err
	}
	entries, err := os.ReadDir(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		logger.Error("Error reading story slugs", "dir", p, "error", err)
		return nil, fmt.Errorf("fileStoryRepository.ListSlugs: %w", err)
	}
	slugs := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != storyExt {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(name, storyExt))
	}
	sort.Strings(slugs)
	return slugs, nil
}

func (r *fileStoryRepository) Get(ctx context.Context, dir, slug string) (*model.Story, error) {
	logger := middleware.GetLogger(ctx)
	p, err := r.dirPath(dir)
	if err != nil {
		logger.Warn("Rejected story directory", "dir", dir)
		return nil, err
	}
	if !safeName(slug) {
		logger.Warn("Rejected story slug", "slug", slug)
		return nil, fmt.Errorf("story slug %q: %w", slug, model.ErrInvalidInput)
	}

	story, err := r.read(p, dir, slug)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("story %q: %w", slug, model.ErrNotFound)
		}
		logger.Error("Error reading story data", "slug", slug, "dir", dir, "error", err)
		return nil, fmt.Errorf("story %q: %w", slug, model.ErrNotFound)
	}
	if story.ID == "" || story.Title == "" || story.Img == "" {
		logger.Warn("Story is missing required front-matter fields", "slug", slug, "dir", dir)
	}
	return story, nil
}

func (r *fileStoryRepository) List(ctx context.Context, dir string) ([]*model.Story, error) {
	logger := middleware.GetLogger(ctx)
	slugs, err := r.ListSlugs(ctx, dir)
	if err != nil {
		return nil, err
	}
	p, _ := r.dirPath(dir)

	stories := make([]*model.Story, 0, len(slugs))
	for _, slug := range slugs {
		story, err := r.read(p, dir, slug)
		if err != nil {
			logger.Warn("Skipping unreadable story", "slug", slug, "dir", dir, "error", err)
			continue
		}
		stories = append(stories, story)
	}
	return stories, nil
}

func (r *fileStoryRepository) read(dirPath, dir, slug string) (*model.Story, error) {
	data, err := os.ReadFile(filepath.Join(dirPath, slug+storyExt))
	if err != nil {
		return nil, err
	}
	story := &model.Story{Slug: slug, Dir: dir}
	body, err := parseFrontMatter(data, &story.StoryFrontMatter)
	if err != nil {
		return nil, err
	}
	story.Content = body
	return story, nil
}

// NextID は stories/ 直下の数値ファイル名の最大値+1を3桁ゼロ埋めで返します。
func (r *fileStoryRepository) NextID(ctx context.Context) (string, error) {
	slugs, err := r.ListSlugs(ctx, "")
	if err != nil {
		return "", err
	}
	maxID := 0
	for _, s := range slugs {
		n, err := strconv.Atoi(s)
		if err != nil {
			continue
		}
		if n > maxID {
			maxID = n
		}
	}
	return fmt.Sprintf("%0*d", storyIDWidth, maxID+1), nil
}

// Create は挿絵を <id>.<ext> として保存し、stories/<id>.mdx を書き込みます。
// story.Img には保存した画像ファイル名が入ります。
func (r *fileStoryRepository) Create(ctx context.Context, story *model.Story, imageName string, image io.Reader) error {
	logger := middleware.GetLogger(ctx)
	if !safeName(story.ID) {
		return fmt.Errorf("story id %q: %w", story.ID, model.ErrInvalidInput)
	}

	if err := os.MkdirAll(r.imagesDir, 0o755); err != nil {
		return fmt.Errorf("fileStoryRepository.Create: %w", err)
	}
	if err := os.MkdirAll(r.storiesDir, 0o755); err != nil {
		return fmt.Errorf("fileStoryRepository.Create: %w", err)
	}

	storyPath := filepath.Join(r.storiesDir, story.ID+storyExt)
	if _, err := os.Stat(storyPath); err == nil {
		return fmt.Errorf("story %q already exists: %w", story.ID, model.ErrConflict)
	}

	story.Img = story.ID + "." + imageExt(imageName)
	imagePath := filepath.Join(r.imagesDir, story.Img)
	if err := writeImage(imagePath, image); err != nil {
		logger.Error("Failed to save story image", "path", imagePath, "error", err)
		return fmt.Errorf("fileStoryRepository.Create: %w", err)
	}

	body := "# " + story.Title + "\n\n" + story.Content
	data, err := renderFrontMatter(&model.StoryFrontMatter{
		ID:    story.ID,
		Title: story.Title,
		Img:   story.Img,
	}, body)
	if err != nil {
		os.Remove(imagePath)
		return fmt.Errorf("fileStoryRepository.Create: %w", err)
	}
	if err := writeFileAtomic(storyPath, data); err != nil {
		logger.Error("Failed to save story file", "path", storyPath, "error", err)
		os.Remove(imagePath)
		return fmt.Errorf("fileStoryRepository.Create: %w", err)
	}
	story.Content = body

	logger.Info("Story saved", "story_id", story.ID, "image", story.Img)
	return nil
}

// imageExt はアップロード名の拡張子を返します。英数字以外を含む場合や空の場合は jpg。
func imageExt(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return defaultImageExt
	}
	for _, c := range ext {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return defaultImageExt
		}
	}
	return ext
}

func writeImage(path string, src io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
