package blog

import (
	"context"

	"github.com/google/uuid"

	"github.com/skinsewa/api/internal/model"
	"github.com/skinsewa/api/internal/repository"
)

// Service exposes the read-only educational articles.
type Service struct {
	repo repository.BlogRepository
}

func NewService(repo repository.BlogRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]*model.BlogPost, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.BlogPost, error) {
	return s.repo.Get(ctx, id)
}
