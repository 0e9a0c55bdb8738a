// internal/service/word_service.go
package service

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"

	"go_4_sight_reader/internal/middleware"
	"go_4_sight_reader/internal/model"
	"go_4_sight_reader/internal/repository"

	"golang.org/x/sync/singleflight"
)

type WordService interface {
	ListWords(ctx context.Context, category model.WordCategory) ([]string, error)
	AddWord(ctx context.Context, req *model.AddWordRequest) (*model.AddWordResponse, error)
	Vocabulary(ctx context.Context, wordType string) ([]string, error)
	ReloadWords(ctx context.Context) error
}

// WordCache はカテゴリごとの単語リストをメモリに保持します。
// 読み込みに失敗したカテゴリはキャッシュしません。同じカテゴリの同時読み込みは1回にまとめます。
type WordCache struct {
	repo  repository.WordListRepository
	group singleflight.Group
	mu    sync.RWMutex
	lists map[model.WordCategory][]string
	gen   uint64 // Invalidate/Reload ごとに進め、古い読み込み結果を捨てる
}

func NewWordCache(repo repository.WordListRepository) *WordCache {
	return &WordCache{
		repo:  repo,
		lists: make(map[model.WordCategory][]string),
	}
}

// Get はキャッシュ済みのリストのコピーを返します。未読み込みならリポジトリから読みます。
func (c *WordCache) Get(ctx context.Context, category model.WordCategory) ([]string, error) {
	c.mu.RLock()
	words, ok := c.lists[category]
	c.mu.RUnlock()
	if ok {
		return slices.Clone(words), nil
	}

	v, err, _ := c.group.Do(string(category), func() (interface{}, error) {
		c.mu.RLock()
		gen := c.gen
		c.mu.RUnlock()

		loaded, err := c.repo.Load(ctx, category)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.lists[category] = loaded
		}
		c.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]string)), nil
}

func (c *WordCache) Invalidate(category model.WordCategory) {
	c.mu.Lock()
	delete(c.lists, category)
	c.gen++
	c.mu.Unlock()
	c.group.Forget(string(category))
}

// Reload はすべてのエントリを捨て、存在するリストを読み直します。
func (c *WordCache) Reload(ctx context.Context) error {
	categories := []model.WordCategory{model.CategoryAll, model.CategorySmall, model.CategoryBig}
	c.mu.Lock()
	c.lists = make(map[model.WordCategory][]string)
	c.gen++
	c.mu.Unlock()
	for _, category := range categories {
		c.group.Forget(string(category))
	}

	for _, category := range categories {
		if _, err := c.Get(ctx, category); err != nil && !errors.Is(err, model.ErrNotFound) {
			return err
		}
	}
	return nil
}

type wordService struct {
	repo  repository.WordListRepository
	cache *WordCache
	mu    sync.Mutex // AddWord の読み込み〜書き込みを直列化
}

func NewWordService(repo repository.WordListRepository, cache *WordCache) WordService {
	return &wordService{
		repo:  repo,
		cache: cache,
	}
}

func (s *wordService) ListWords(ctx context.Context, category model.WordCategory) ([]string, error) {
	logger := middleware.GetLogger(ctx).With("category", string(category))

	words, err := s.cache.Get(ctx, category)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			return nil, model.NewAppError("NOT_FOUND", "Word list not found.", "category", err)
		case errors.Is(err, model.ErrInvalidInput):
			return nil, model.NewAppError("INVALID_CATEGORY", "Unknown word category.", "category", err)
		}
		logger.Error("Failed to load word list", "error", err)
		return nil, model.NewInternalError("Failed to load words.", err)
	}
	return words, nil
}

// AddWord は単語を小文字にして対象リストへ追加し、大文字小文字を無視した順で保存します。
func (s *wordService) AddWord(ctx context.Context, req *model.AddWordRequest) (*model.AddWordResponse, error) {
	word := strings.ToLower(strings.TrimSpace(req.Word))
	if word == "" {
		return nil, model.NewAppError("INVALID_WORD", "Word cannot be empty.", "word", model.ErrInvalidInput)
	}
	category, err := model.ParseCategory(req.Category)
	if err != nil {
		return nil, model.NewAppError("INVALID_CATEGORY", "Unknown word category.", "category", err)
	}
	logger := middleware.GetLogger(ctx).With("category", string(category), "word", word)

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.repo.Load(ctx, category)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to load word list for update", "error", err)
			return nil, model.NewInternalError("Failed to add word.", err)
		}
		current = []string{}
	}

	if slices.Contains(current, word) {
		logger.Warn("Word already exists")
		return nil, model.NewAppError("DUPLICATE_WORD", "Word already exists in "+categoryLabel(category)+".", "word", model.ErrConflict)
	}

	updated := append(current, word)
	sort.SliceStable(updated, func(i, j int) bool {
		return strings.ToLower(updated[i]) < strings.ToLower(updated[j])
	})

	if err := s.repo.Save(ctx, category, updated); err != nil {
		logger.Error("Failed to save word list", "error", err)
		return nil, model.NewInternalError("Failed to add word.", err)
	}
	s.cache.Invalidate(category)

	logger.Info("Word added", "count", len(updated))
	return &model.AddWordResponse{Success: true, Word: word, Category: category}, nil
}

// Vocabulary はストーリーの wordType に対応するハイライト対象語を返します。
// small/big 以外 (空を含む) はハイライトなしで、リストがない場合も空を返します。
func (s *wordService) Vocabulary(ctx context.Context, wordType string) ([]string, error) {
	var category model.WordCategory
	switch strings.ToLower(strings.TrimSpace(wordType)) {
	case string(model.CategorySmall):
		category = model.CategorySmall
	case string(model.CategoryBig):
		category = model.CategoryBig
	default:
		return nil, nil
	}

	words, err := s.cache.Get(ctx, category)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			middleware.GetLogger(ctx).Warn("Vocabulary list missing, rendering without highlights", "category", string(category))
			return nil, nil
		}
		return nil, model.NewInternalError("Failed to load vocabulary.", err)
	}
	return words, nil
}

func (s *wordService) ReloadWords(ctx context.Context) error {
	if err := s.cache.Reload(ctx); err != nil {
		middleware.GetLogger(ctx).Error("Failed to reload word lists", "error", err)
		return model.NewInternalError("Failed to reload words.", err)
	}
	middleware.GetLogger(ctx).Info("Word lists reloaded")
	return nil
}

func categoryLabel(c model.WordCategory) string {
	switch c {
	case model.CategorySmall:
		return "small words"
	case model.CategoryBig:
		return "big words"
	default:
		return "the word list"
	}
}
