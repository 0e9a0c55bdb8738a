package mocks

import (
	"context"

	"go_4_sight_reader/internal/model"

	"github.com/stretchr/testify/mock"
)

// WordService is a mock type for the WordService type
type WordService struct {
	mock.Mock
}

func (_m *WordService) ListWords(ctx context.Context, category model.WordCategory) ([]string, error) {
	ret := _m.Called(ctx, category)

	var r0 []string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}
	return r0, ret.Error(1)
}

func (_m *WordService) AddWord(ctx context.Context, req *model.AddWordRequest) (*model.AddWordResponse, error) {
	ret := _m.Called(ctx, req)

	var r0 *model.AddWordResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.AddWordResponse)
	}
	return r0, ret.Error(1)
}

func (_m *WordService) Vocabulary(ctx context.Context, wordType string) ([]string, error) {
	ret := _m.Called(ctx, wordType)

	var r0 []string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}
	return r0, ret.Error(1)
}

func (_m *WordService) ReloadWords(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

func NewWordService(t interface {
	mock.TestingT
	Cleanup(func())
}) *WordService {
	m := &WordService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
