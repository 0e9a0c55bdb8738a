package mocks

import (
	"context"
	"time"

	"go_4_sight_reader/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// SessionService is a mock type for the SessionService type
type SessionService struct {
	mock.Mock
}

func (_m *SessionService) snapshot(ret mock.Arguments) (*model.SessionResponse, error) {
	var r0 *model.SessionResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.SessionResponse)
	}
	return r0, ret.Error(1)
}

func (_m *SessionService) StartSession(ctx context.Context, req *model.StartSessionRequest) (*model.SessionResponse, error) {
	return _m.snapshot(_m.Called(ctx, req))
}

func (_m *SessionService) GetSession(ctx context.Context, id uuid.UUID) (*model.SessionResponse, error) {
	return _m.snapshot(_m.Called(ctx, id))
}

func (_m *SessionService) Next(ctx context.Context, id uuid.UUID) (*model.SessionResponse, error) {
	return _m.snapshot(_m.Called(ctx, id))
}

func (_m *SessionService) MarkForRevisit(ctx context.Context, id uuid.UUID) (*model.SessionResponse, error) {
	return _m.snapshot(_m.Called(ctx, id))
}

func (_m *SessionService) Previous(ctx context.Context, id uuid.UUID) (*model.SessionResponse, error) {
	return _m.snapshot(_m.Called(ctx, id))
}

func (_m *SessionService) EndSession(ctx context.Context, id uuid.UUID) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func (_m *SessionService) ListHistory(ctx context.Context, limit int) ([]*model.SessionRecord, error) {
	ret := _m.Called(ctx, limit)

	var r0 []*model.SessionRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*model.SessionRecord)
	}
	return r0, ret.Error(1)
}

func (_m *SessionService) Sweep(ctx context.Context, now time.Time) int {
	ret := _m.Called(ctx, now)
	return ret.Int(0)
}

func NewSessionService(t interface {
	mock.TestingT
	Cleanup(func())
}) *SessionService {
	m := &SessionService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
