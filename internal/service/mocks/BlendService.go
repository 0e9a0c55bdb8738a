package mocks

import (
	"context"

	"go_4_sight_reader/internal/model"

	"github.com/stretchr/testify/mock"
)

// BlendService is a mock type for the BlendService type
type BlendService struct {
	mock.Mock
}

func (_m *BlendService) ListBlends(ctx context.Context) ([]*model.Blend, error) {
	ret := _m.Called(ctx)

	var r0 []*model.Blend
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*model.Blend)
	}
	return r0, ret.Error(1)
}

func (_m *BlendService) GetBlend(ctx context.Context, slug string) (*model.Blend, error) {
	ret := _m.Called(ctx, slug)

	var r0 *model.Blend
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Blend)
	}
	return r0, ret.Error(1)
}

func NewBlendService(t interface {
	mock.TestingT
	Cleanup(func())
}) *BlendService {
	m := &BlendService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
