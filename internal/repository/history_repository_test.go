// internal/repository/history_repository_test.go
package repository

import (
	"context"
	"testing"
	"time"

	"go_4_sight_reader/internal/config"
	"go_4_sight_reader/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, Migrate(db))
	return db
}

func TestGormHistoryRepository(t *testing.T) {
	repo := NewGormHistoryRepository(newTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		rec := &model.SessionRecord{
			RecordID:     uuid.New(),
			SessionID:    uuid.New(),
			Source:       model.SourceSmall,
			WordsPlanned: 10,
			CardsShown:   10 + i,
			StartedAt:    base.Add(time.Duration(i) * time.Hour),
			CompletedAt:  base.Add(time.Duration(i)*time.Hour + 5*time.Minute),
		}
		require.NoError(t, repo.Create(ctx, rec))
	}

	got, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 12, got[0].CardsShown, "新しい順")
	assert.Equal(t, 11, got[1].CardsShown)

	t.Run("同じセッションIDは保存できない", func(t *testing.T) {
		rec := &model.SessionRecord{RecordID: uuid.New(), SessionID: got[0].SessionID, Source: model.SourceAll}
		assert.Error(t, repo.Create(ctx, rec))
	})
}

func TestOpenDialector_UnsupportedDriver(t *testing.T) {
	_, err := openDialector(config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}
