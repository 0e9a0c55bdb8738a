package mocks

import (
	"context"
	"io"

	"go_4_sight_reader/internal/model"

	"github.com/stretchr/testify/mock"
)

// StoryRepository is a mock type for the StoryRepository type
type StoryRepository struct {
	mock.Mock
}

func (_m *StoryRepository) ListSlugs(ctx context.Context, dir string) ([]string, error) {
	ret := _m.Called(ctx, dir)

	var r0 []string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}
	return r0, ret.Error(1)
}

func (_m *StoryRepository) Get(ctx context.Context, dir string, slug string) (*model.Story, error) {
	ret := _m.Called(ctx, dir, slug)

	var r0 *model.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Story)
	}
	return r0, ret.Error(1)
}

func (_m *StoryRepository) List(ctx context.Context, dir string) ([]*model.Story, error) {
	ret := _m.Called(ctx, dir)

	var r0 []*model.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*model.Story)
	}
	return r0, ret.Error(1)
}

func (_m *StoryRepository) NextID(ctx context.Context) (string, error) {
	ret := _m.Called(ctx)
	return ret.String(0), ret.Error(1)
}

func (_m *StoryRepository) Create(ctx context.Context, story *model.Story, imageName string, image io.Reader) error {
	ret := _m.Called(ctx, story, imageName, image)

	if rf, ok := ret.Get(0).(func(context.Context, *model.Story, string, io.Reader) error); ok {
		return rf(ctx, story, imageName, image)
	}
	return ret.Error(0)
}

func NewStoryRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *StoryRepository {
	m := &StoryRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
