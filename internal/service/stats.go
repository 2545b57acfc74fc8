package service

import (
	"context"

	"github.com/coinledger/backend/internal/model"
	"github.com/coinledger/backend/internal/repository"
)

type StatsService struct {
	repo *repository.Repository
}

func NewStatsService(repo *repository.Repository) *StatsService {
	return &StatsService{repo: repo}
}

func (s *StatsService) GetStats(ctx context.Context) (*model.Stats, error) {
	return s.repo.GetStats(ctx)
}
