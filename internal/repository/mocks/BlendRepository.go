package mocks

import (
	"context"

	"go_4_sight_reader/internal/model"

	"github.com/stretchr/testify/mock"
)

// BlendRepository is a mock type for the BlendRepository type
type BlendRepository struct {
	mock.Mock
}

func (_m *BlendRepository) List(ctx context.Context) ([]*model.Blend, error) {
	ret := _m.Called(ctx)

	var r0 []*model.Blend
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*model.Blend)
	}
	return r0, ret.Error(1)
}

func (_m *BlendRepository) Get(ctx context.Context, slug string) (*model.Blend, error) {
	ret := _m.Called(ctx, slug)

	var r0 *model.Blend
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Blend)
	}
	return r0, ret.Error(1)
}

func NewBlendRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *BlendRepository {
	m := &BlendRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
