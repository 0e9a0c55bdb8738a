package mocks

import (
	"context"
	"io"

	"go_4_sight_reader/internal/model"

	"github.com/stretchr/testify/mock"
)

// StoryService is a mock type for the StoryService type
type StoryService struct {
	mock.Mock
}

func (_m *StoryService) ListStories(ctx context.Context, dir string) ([]*model.StorySummary, error) {
	ret := _m.Called(ctx, dir)

	var r0 []*model.StorySummary
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*model.StorySummary)
	}
	return r0, ret.Error(1)
}

func (_m *StoryService) GetStory(ctx context.Context, dir string, slug string, withHighlight bool) (*model.StoryResponse, error) {
	ret := _m.Called(ctx, dir, slug, withHighlight)

	var r0 *model.StoryResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.StoryResponse)
	}
	return r0, ret.Error(1)
}

func (_m *StoryService) UploadStory(ctx context.Context, req *model.UploadStoryRequest, image io.Reader) (*model.UploadStoryResponse, error) {
	ret := _m.Called(ctx, req, image)

	var r0 *model.UploadStoryResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.UploadStoryResponse)
	}
	return r0, ret.Error(1)
}

func NewStoryService(t interface {
	mock.TestingT
	Cleanup(func())
}) *StoryService {
	m := &StoryService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
