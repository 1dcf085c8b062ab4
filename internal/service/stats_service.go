package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/AltEgora/avito/internal/domain"
)

type AssignmentStatsRepo interface {
	CountAssignmentsByReviewer(ctx context.Context) (map[string]int64, error)
	CountAssignmentsByPR(ctx context.Context) (map[string]int64, error)
}

type StatsService struct {
	prRepo AssignmentStatsRepo
}

func NewStatsService(prRepo AssignmentStatsRepo) *StatsService {
	return &StatsService{prRepo: prRepo}
}

func (s *StatsService) GetAssignmentStats(ctx context.Context) (map[string]int64, map[string]int64, error) {
	byUser, err := s.prRepo.CountAssignmentsByReviewer(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("count assignments by reviewer: %w", err)
	}

	byPR, err := s.prRepo.CountAssignmentsByPR(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("count assignments by pr: %w", err)
	}

	return byUser, byPR, nil
}

// GetUserAssignmentStats lists reviewers by assignment count, busiest first.
func (s *StatsService) GetUserAssignmentStats(ctx context.Context) ([]domain.ReviewerStat, error) {
	byUser, err := s.prRepo.CountAssignmentsByReviewer(ctx)
	if err != nil {
		return nil, fmt.Errorf("count assignments by reviewer: %w", err)
	}

	stats := make([]domain.ReviewerStat, 0, len(byUser))
	for id, cnt := range byUser {
		stats = append(stats, domain.ReviewerStat{UserID: id, Assignments: cnt})
	}
	slices.SortFunc(stats, func(a, b domain.ReviewerStat) int {
		if c := cmp.Compare(b.Assignments, a.Assignments); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})
	return stats, nil
}
