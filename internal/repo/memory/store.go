package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/AltEgora/avito/internal/domain"
	"github.com/AltEgora/avito/internal/repo"
)

type state struct {
	teams map[string]struct{}
	users map[string]domain.User
	prs   map[string]domain.PullRequest
}

func newState() *state {
	return &state{
		teams: make(map[string]struct{}),
		users: make(map[string]domain.User),
		prs:   make(map[string]domain.PullRequest),
	}
}

func (s *state) clone() *state {
	c := &state{
		teams: make(map[string]struct{}, len(s.teams)),
		users: make(map[string]domain.User, len(s.users)),
		prs:   make(map[string]domain.PullRequest, len(s.prs)),
	}
	for name := range s.teams {
		c.teams[name] = struct{}{}
	}
	for id, u := range s.users {
		c.users[id] = u
	}
	for id, pr := range s.prs {
		c.prs[id] = copyPR(pr)
	}
	return c
}

var (
	_ repo.Store  = (*Store)(nil)
	_ repo.Reader = (*Store)(nil)
	_ repo.Tx     = (*memTx)(nil)
)

type Store struct {
	mu    sync.RWMutex
	state *state
}

func NewStore() *Store {
	return &Store{
		state: newState(),
	}
}

func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx repo.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{state: s.state.clone()}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	s.state = tx.state
	return nil
}

type memTx struct {
	state *state
}

func (t *memTx) FindTeam(_ context.Context, name string, _ repo.LockMode) (*domain.Team, error) {
	if _, ok := t.state.teams[name]; !ok {
		return nil, repo.ErrNotFound
	}
	return &domain.Team{
		Name:    name,
		Members: t.state.members(name),
	}, nil
}

func (t *memTx) FindUser(_ context.Context, id string) (*domain.User, error) {
	u, ok := t.state.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (t *memTx) FindPullRequest(_ context.Context, id string) (*domain.PullRequest, error) {
	pr, ok := t.state.prs[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	pr = copyPR(pr)
	return &pr, nil
}

func (t *memTx) ListActiveUsersInTeam(_ context.Context, teamName string, excluding []string) ([]domain.User, error) {
	out := make([]domain.User, 0)
	for _, u := range t.state.members(teamName) {
		if !u.IsActive || slices.Contains(excluding, u.ID) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (t *memTx) ListOpenPullRequestsWithAnyReviewerIn(_ context.Context, ids []string) ([]domain.PullRequest, error) {
	out := make([]domain.PullRequest, 0)
	for _, pr := range t.state.sortedPRs() {
		if pr.Status != domain.PRStatusOpen {
			continue
		}
		if !slices.ContainsFunc(pr.AssignedReviewers, func(id string) bool { return slices.Contains(ids, id) }) {
			continue
		}
		out = append(out, copyPR(pr))
	}
	return out, nil
}

func (t *memTx) Apply(_ context.Context, m *repo.Mutations) error {
	for _, op := range m.Ops() {
		if err := t.state.apply(op); err != nil {
			return fmt.Errorf("apply %s: %w", op.Kind, err)
		}
	}
	return nil
}

func (s *state) apply(op repo.Op) error {
	switch op.Kind {
	case repo.OpCreateTeam:
		if _, ok := s.teams[op.TeamName]; ok {
			return domain.NewDomainError(domain.ErrorCodeTeamExists, "team_name already exists")
		}
		s.teams[op.TeamName] = struct{}{}

	case repo.OpDeleteTeam:
		if _, ok := s.teams[op.TeamName]; !ok {
			return repo.ErrNotFound
		}
		delete(s.teams, op.TeamName)
		for id, u := range s.users {
			if u.TeamName == op.TeamName {
				u.TeamName = ""
				s.users[id] = u
			}
		}

	case repo.OpUpsertUser:
		if op.User.TeamName != "" {
			if _, ok := s.teams[op.User.TeamName]; !ok {
				return fmt.Errorf("%w: team %s does not exist", repo.ErrPersistence, op.User.TeamName)
			}
		}
		s.users[op.User.ID] = op.User

	case repo.OpSetUserActive:
		u, ok := s.users[op.UserID]
		if !ok {
			return repo.ErrNotFound
		}
		u.IsActive = op.Active
		s.users[op.UserID] = u

	case repo.OpCreatePullRequest:
		pr := copyPR(op.PullRequest)
		if _, ok := s.prs[pr.ID]; ok {
			return domain.NewDomainError(domain.ErrorCodePRExists, "PR id already exists")
		}
		if _, ok := s.users[pr.AuthorID]; !ok {
			return fmt.Errorf("%w: author %s does not exist", repo.ErrPersistence, pr.AuthorID)
		}
		seen := make(map[string]struct{}, len(pr.AssignedReviewers))
		for _, id := range pr.AssignedReviewers {
			if err := s.checkReviewer(pr, id); err != nil {
				return err
			}
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: duplicate reviewer %s", repo.ErrPersistence, id)
			}
			seen[id] = struct{}{}
		}
		s.prs[pr.ID] = pr

	case repo.OpMergePullRequest:
		pr, ok := s.prs[op.PullRequestID]
		if !ok {
			return repo.ErrNotFound
		}
		pr.Status = domain.PRStatusMerged
		if pr.MergedAt == nil {
			at := op.At
			pr.MergedAt = &at
		}
		s.prs[pr.ID] = pr

	case repo.OpAddReviewer:
		pr, ok := s.prs[op.PullRequestID]
		if !ok {
			return repo.ErrNotFound
		}
		if err := s.checkReviewer(pr, op.UserID); err != nil {
			return err
		}
		if pr.HasReviewer(op.UserID) {
			return fmt.Errorf("%w: reviewer %s already assigned to %s", repo.ErrPersistence, op.UserID, pr.ID)
		}
		pr.AssignedReviewers = append(pr.AssignedReviewers, op.UserID)
		s.prs[pr.ID] = pr

	case repo.OpRemoveReviewer:
		pr, ok := s.prs[op.PullRequestID]
		if !ok {
			return repo.ErrNotFound
		}
		pr.AssignedReviewers = slices.DeleteFunc(pr.AssignedReviewers, func(id string) bool { return id == op.UserID })
		s.prs[pr.ID] = pr

	default:
		return fmt.Errorf("%w: unknown op %d", repo.ErrPersistence, op.Kind)
	}
	return nil
}

func (s *state) checkReviewer(pr domain.PullRequest, userID string) error {
	if _, ok := s.users[userID]; !ok {
		return fmt.Errorf("%w: reviewer %s does not exist", repo.ErrPersistence, userID)
	}
	if userID == pr.AuthorID {
		return fmt.Errorf("%w: author %s cannot review %s", repo.ErrPersistence, userID, pr.ID)
	}
	return nil
}

func (s *state) members(teamName string) []domain.User {
	out := make([]domain.User, 0)
	for _, u := range s.users {
		if u.TeamName == teamName {
			out = append(out, u)
		}
	}
	slices.SortFunc(out, func(a, b domain.User) int { return strings.Compare(a.ID, b.ID) })
	return out
}

func (s *state) sortedPRs() []domain.PullRequest {
	out := make([]domain.PullRequest, 0, len(s.prs))
	for _, pr := range s.prs {
		out = append(out, pr)
	}
	slices.SortFunc(out, func(a, b domain.PullRequest) int { return strings.Compare(a.ID, b.ID) })
	return out
}

func copyPR(pr domain.PullRequest) domain.PullRequest {
	pr.AssignedReviewers = append([]string{}, pr.AssignedReviewers...)
	if pr.MergedAt != nil {
		at := *pr.MergedAt
		pr.MergedAt = &at
	}
	return pr
}
