// internal/repository/wordlist_repository.go
package repository

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go_4_sight_reader/internal/middleware"
	"go_4_sight_reader/internal/model"
)

// WordListRepository は単語リストの永続化を扱います。
type WordListRepository interface {
	Load(ctx context.Context, category model.WordCategory) ([]string, error)
	Save(ctx context.Context, category model.WordCategory, words []string) error
}

// wordListFiles はカテゴリごとのファイル名です。
var wordListFiles = map[model.WordCategory]string{
	model.CategorySmall: "small-words.txt",
	model.CategoryBig:   "big-words.txt",
	model.CategoryAll:   "words.txt",
}

type fileWordListRepository struct {
	dir string
}

// NewFileWordListRepository は dir 直下の1行1単語のテキストファイルを読み書きします。
func NewFileWordListRepository(dir string) WordListRepository {
	return &fileWordListRepository{dir: dir}
}

func (r *fileWordListRepository) path(category model.WordCategory) (string, error) {
	name, ok := wordListFiles[category]
	if !ok {
		return "", fmt.Errorf("unknown word category %q: %w", category, model.ErrInvalidInput)
	}
	return filepath.Join(r.dir, name), nil
}

func (r *fileWordListRepository) Load(ctx context.Context, category model.WordCategory) ([]string, error) {
	logger := middleware.GetLogger(ctx)
	p, err := r.path(category)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Word list file not found", "path", p)
			return nil, fmt.Errorf("word list %q: %w", category, model.ErrNotFound)
		}
		logger.Error("Failed to read word list", "path", p, "error", err)
		return nil, fmt.Errorf("fileWordListRepository.Load: %w", err)
	}

	words := []string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if w := strings.TrimSpace(scanner.Text()); w != "" {
			words = append(words, w)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("fileWordListRepository.Load: %w", err)
	}
	return words, nil
}

func (r *fileWordListRepository) Save(ctx context.Context, category model.WordCategory, words []string) error {
	logger := middleware.GetLogger(ctx)
	p, err := r.path(category)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(p, []byte(strings.Join(words, "\n"))); err != nil {
		logger.Error("Failed to write word list", "path", p, "error", err)
		return fmt.Errorf("fileWordListRepository.Save: %w", err)
	}
	logger.Info("Word list saved", "category", string(category), "count", len(words))
	return nil
}
