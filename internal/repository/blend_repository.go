// internal/repository/blend_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go_4_sight_reader/internal/middleware"
	"go_4_sight_reader/internal/model"
)

const blendsSubdir = "consonant-blends"

// BlendRepository は子音ブレンドの単語リストを扱います。
type BlendRepository interface {
	List(ctx context.Context) ([]*model.Blend, error)
	Get(ctx context.Context, slug string) (*model.Blend, error)
}

type fileBlendRepository struct {
	dir string
}

func NewFileBlendRepository(contentDir string) BlendRepository {
	return &fileBlendRepository{dir: filepath.Join(contentDir, blendsSubdir)}
}

func (r *fileBlendRepository) List(ctx context.Context) ([]*model.Blend, error) {
	logger := middleware.GetLogger(ctx)
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*model.Blend{}, nil
		}
		logger.Error("Failed to read blends directory", "dir", r.dir, "error", err)
		return nil, fmt.Errorf("fileBlendRepository.List: %w", err)
	}

	blends := make([]*model.Blend, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".mdx" {
			continue
		}
		slug := strings.TrimSuffix(e.Name(), ".mdx")
		b, err := r.read(slug)
		if err != nil {
			logger.Warn("Skipping unreadable blend file", "slug", slug, "error", err)
			continue
		}
		blends = append(blends, b)
	}
	sort.Slice(blends, func(i, j int) bool { return blends[i].Slug < blends[j].Slug })
	return blends, nil
}

func (r *fileBlendRepository) Get(ctx context.Context, slug string) (*model.Blend, error) {
	logger := middleware.GetLogger(ctx)
	if !safeName(slug) {
		logger.Warn("Rejected blend slug", "slug", slug)
		return nil, fmt.Errorf("blend slug %q: %w", slug, model.ErrInvalidInput)
	}
	b, err := r.read(slug)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("blend %q: %w", slug, model.ErrNotFound)
		}
		logger.Error("Failed to read blend file", "slug", slug, "error", err)
		return nil, fmt.Errorf("fileBlendRepository.Get: %w", err)
	}
	return b, nil
}

func (r *fileBlendRepository) read(slug string) (*model.Blend, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, slug+".mdx"))
	if err != nil {
		return nil, err
	}
	var fm model.BlendFrontMatter
	body, err := parseFrontMatter(data, &fm)
	if err != nil {
		return nil, err
	}
	b := &model.Blend{
		Slug:        slug,
		Title:       fm.Title,
		Blend:       fm.Blend,
		Description: fm.Description,
		Img:         fm.Img,
		Words:       splitWordList(body),
	}
	if b.Title == "" {
		b.Title = slug
	}
	return b, nil
}

// splitWordList はカンマ区切りの単語リストを分解します。
func splitWordList(body string) []string {
	words := []string{}
	for _, w := range strings.Split(body, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}
