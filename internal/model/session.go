// internal/model/session.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionSource はフラッシュカードの出題元です。
type SessionSource string

const (
	SourceSmall SessionSource = "small"
	SourceBig   SessionSource = "big"
	SourceAll   SessionSource = "all"
	SourceBlend SessionSource = "blend"
)

// セッション開始リクエストDTO。Count は 10/25/50/100 のいずれか、0 なら全単語。
type StartSessionRequest struct {
	Source SessionSource `json:"source" validate:"required,oneof=small big all blend"`
	Slug   string        `json:"slug,omitempty" validate:"required_if=Source blend"`
	Count  int           `json:"count,omitempty" validate:"omitempty,oneof=10 25 50 100"`
}

type CardResponse struct {
	Word      string `json:"word"`
	IsRevisit bool   `json:"is_revisit"`
}

// SessionResponse はセッションの現在状態です。Position は1始まり。
type SessionResponse struct {
	SessionID       uuid.UUID     `json:"session_id"`
	Source          SessionSource `json:"source"`
	Slug            string        `json:"slug,omitempty"`
	State           string        `json:"state"`
	Position        int           `json:"position"`
	Total           int           `json:"total"`
	Current         *CardResponse `json:"current,omitempty"`
	PendingRevisits int           `json:"pending_revisits"`
	Completed       bool          `json:"completed"`
}

// SessionRecord は完了したセッションの履歴です。
type SessionRecord struct {
	RecordID      uuid.UUID     `gorm:"type:uuid;primaryKey" json:"record_id"`
	SessionID     uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex" json:"session_id"`
	Source        SessionSource `gorm:"not null" json:"source"`
	Slug          string        `json:"slug,omitempty"`
	WordsPlanned  int           `gorm:"not null" json:"words_planned"`
	CardsShown    int           `gorm:"not null" json:"cards_shown"`
	RevisitsShown int           `gorm:"not null" json:"revisits_shown"`
	StartedAt     time.Time     `gorm:"not null" json:"started_at"`
	CompletedAt   time.Time     `gorm:"not null;index" json:"completed_at"`
	CreatedAt     time.Time     `json:"-"`
}

func (SessionRecord) TableName() string {
	return "session_records"
}
