package memory

import (
	"context"

	"github.com/AltEgora/avito/internal/domain"
	"github.com/AltEgora/avito/internal/repo"
)

func (s *Store) GetTeam(_ context.Context, name string) (*domain.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.state.teams[name]; !ok {
		return nil, repo.ErrNotFound
	}
	return &domain.Team{
		Name:    name,
		Members: s.state.members(name),
	}, nil
}

func (s *Store) GetUser(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.state.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetPullRequest(_ context.Context, id string) (*domain.PullRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pr, ok := s.state.prs[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	pr = copyPR(pr)
	return &pr, nil
}

func (s *Store) ListOpenPullRequestsByReviewer(_ context.Context, userID string) ([]domain.PullRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.PullRequest, 0)
	for _, pr := range s.state.sortedPRs() {
		if pr.Status == domain.PRStatusOpen && pr.HasReviewer(userID) {
			out = append(out, copyPR(pr))
		}
	}
	return out, nil
}

func (s *Store) CountAssignmentsByReviewer(_ context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]int64)
	for _, pr := range s.state.prs {
		for _, id := range pr.AssignedReviewers {
			result[id]++
		}
	}
	return result, nil
}

func (s *Store) CountAssignmentsByPR(_ context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]int64)
	for id, pr := range s.state.prs {
		if len(pr.AssignedReviewers) > 0 {
			result[id] = int64(len(pr.AssignedReviewers))
		}
	}
	return result, nil
}
