// internal/repository/history_repository.go
package repository

import (
	"context"
	"fmt"

	"go_4_sight_reader/internal/middleware"
	"go_4_sight_reader/internal/model"

	"gorm.io/gorm"
)

// HistoryRepository は完了したセッションの記録を扱います。
type HistoryRepository interface {
	Create(ctx context.Context, record *model.SessionRecord) error
	ListRecent(ctx context.Context, limit int) ([]*model.SessionRecord, error)
}

type gormHistoryRepository struct {
	db *gorm.DB
}

func NewGormHistoryRepository(db *gorm.DB) HistoryRepository {
	return &gormHistoryRepository{db: db}
}

func (r *gormHistoryRepository) Create(ctx context.Context, record *model.SessionRecord) error {
	logger := middleware.GetLogger(ctx)
	result := r.db.WithContext(ctx).Create(record)
	if result.Error != nil {
		logger.Error("Error creating session record in DB",
			"error", result.Error,
			"session_id", record.SessionID.String(),
		)
		return fmt.Errorf("gormHistoryRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormHistoryRepository) ListRecent(ctx context.Context, limit int) ([]*model.SessionRecord, error) {
	logger := middleware.GetLogger(ctx)
	var records []*model.SessionRecord
	result := r.db.WithContext(ctx).
		Order("completed_at DESC").
		Limit(limit).
		Find(&records)
	if result.Error != nil {
		logger.Error("Error listing session records in DB", "error", result.Error)
		return nil, fmt.Errorf("gormHistoryRepository.ListRecent: %w", result.Error)
	}
	return records, nil
}
