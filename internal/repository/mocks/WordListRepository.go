package mocks

import (
	"context"

	"go_4_sight_reader/internal/model"

	"github.com/stretchr/testify/mock"
)

// WordListRepository is a mock type for the WordListRepository type
type WordListRepository struct {
	mock.Mock
}

func (_m *WordListRepository) Load(ctx context.Context, category model.WordCategory) ([]string, error) {
	ret := _m.Called(ctx, category)

	var r0 []string
	if rf, ok := ret.Get(0).(func(context.Context, model.WordCategory) []string); ok {
		r0 = rf(ctx, category)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}
	return r0, ret.Error(1)
}

func (_m *WordListRepository) Save(ctx context.Context, category model.WordCategory, words []string) error {
	ret := _m.Called(ctx, category, words)
	return ret.Error(0)
}

// NewWordListRepository creates a new instance of WordListRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewWordListRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *WordListRepository {
	m := &WordListRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
