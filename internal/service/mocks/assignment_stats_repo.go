package mocks

import (
	"context"
)

type MockAssignmentStatsRepo struct {
	CountByReviewerResult map[string]int64
	CountByReviewerErr    error
	CountByPRResult       map[string]int64
	CountByPRErr          error

	CountByReviewerCalls int
	CountByPRCalls       int
}

func (m *MockAssignmentStatsRepo) CountAssignmentsByReviewer(ctx context.Context) (map[string]int64, error) {
	m.CountByReviewerCalls++
	return m.CountByReviewerResult, m.CountByReviewerErr
}

func (m *MockAssignmentStatsRepo) CountAssignmentsByPR(ctx context.Context) (map[string]int64, error) {
	m.CountByPRCalls++
	return m.CountByPRResult, m.CountByPRErr
}
