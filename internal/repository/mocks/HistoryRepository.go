package mocks

import (
	"context"

	"go_4_sight_reader/internal/model"

	"github.com/stretchr/testify/mock"
)

// HistoryRepository is a mock type for the HistoryRepository type
type HistoryRepository struct {
	mock.Mock
}

func (_m *HistoryRepository) Create(ctx context.Context, record *model.SessionRecord) error {
	ret := _m.Called(ctx, record)
	return ret.Error(0)
}

func (_m *HistoryRepository) ListRecent(ctx context.Context, limit int) ([]*model.SessionRecord, error) {
	ret := _m.Called(ctx, limit)

	var r0 []*model.SessionRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*model.SessionRecord)
	}
	return r0, ret.Error(1)
}

func NewHistoryRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *HistoryRepository {
	m := &HistoryRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
