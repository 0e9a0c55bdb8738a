// internal/service/blend_service.go
package service

import (
	"context"
	"errors"

	"go_4_sight_reader/internal/middleware"
	"go_4_sight_reader/internal/model"
	"go_4_sight_reader/internal/repository"
)

type BlendService interface {
	ListBlends(ctx context.Context) ([]*model.Blend, error)
	GetBlend(ctx context.Context, slug string) (*model.Blend, error)
}

type blendService struct {
	repo repository.BlendRepository
}

func NewBlendService(repo repository.BlendRepository) BlendService {
	return &blendService{repo: repo}
}

func (s *blendService) ListBlends(ctx context.Context) ([]*model.Blend, error) {
	blends, err := s.repo.List(ctx)
	if err != nil {
		middleware.GetLogger(ctx).Error("Failed to list blends", "error", err)
		return nil, model.NewInternalError("Failed to load consonant blends.", err)
	}
	return blends, nil
}

func (s *blendService) GetBlend(ctx context.Context, slug string) (*model.Blend, error) {
	blend, err := s.repo.Get(ctx, slug)
	if err != nil {
		return nil, blendError(ctx, slug, err)
	}
	return blend, nil
}

func blendError(ctx context.Context, slug string, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return model.NewAppError("INVALID_SLUG", "Invalid blend slug.", "slug", err)
	case errors.Is(err, model.ErrNotFound):
		return model.NewAppError("NOT_FOUND", "Could not find words for this blend.", "slug", err)
	}
	middleware.GetLogger(ctx).Error("Failed to load blend", "slug", slug, "error", err)
	return model.NewInternalError("Failed to load blend.", err)
}
