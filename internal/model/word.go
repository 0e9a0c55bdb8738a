// internal/model/word.go
package model

import "strings"

// WordCategory は単語リストの種類です。
type WordCategory string

const (
	CategoryAll   WordCategory = "all"
	CategorySmall WordCategory = "small"
	CategoryBig   WordCategory = "big"
)

// ParseCategory は文字列をカテゴリに変換します。空文字列は all として扱います。
func ParseCategory(s string) (WordCategory, error) {
	switch WordCategory(strings.ToLower(strings.TrimSpace(s))) {
	case "", CategoryAll:
		return CategoryAll, nil
	case CategorySmall:
		return CategorySmall, nil
	case CategoryBig:
		return CategoryBig, nil
	default:
		return "", ErrInvalidInput
	}
}

// 単語追加リクエストDTO
type AddWordRequest struct {
	Word     string `json:"word" validate:"required,max=64"`
	Category string `json:"category,omitempty" validate:"omitempty,oneof=all small big"`
}

type AddWordResponse struct {
	Success  bool         `json:"success"`
	Word     string       `json:"word"`
	Category WordCategory `json:"category"`
}

type WordListResponse struct {
	Category WordCategory `json:"category"`
	Count    int          `json:"count"`
	Words    []string     `json:"words"`
}
