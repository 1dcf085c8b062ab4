package repo

import (
	"context"
	"errors"

	"github.com/AltEgora/avito/internal/domain"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence failure")
)

type LockMode int

const (
	LockNone LockMode = iota
	// LockShare blocks concurrent membership repair of the team until commit.
	LockShare
	LockUpdate
)

type Store interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	FindTeam(ctx context.Context, name string, lock LockMode) (*domain.Team, error)
	FindUser(ctx context.Context, id string) (*domain.User, error)
	// FindPullRequest locks the pull request until the transaction ends.
	FindPullRequest(ctx context.Context, id string) (*domain.PullRequest, error)
	ListActiveUsersInTeam(ctx context.Context, teamName string, excluding []string) ([]domain.User, error)
	// ListOpenPullRequestsWithAnyReviewerIn locks the returned rows.
	ListOpenPullRequestsWithAnyReviewerIn(ctx context.Context, ids []string) ([]domain.PullRequest, error)
	Apply(ctx context.Context, m *Mutations) error
}

type Reader interface {
	GetTeam(ctx context.Context, name string) (*domain.Team, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetPullRequest(ctx context.Context, id string) (*domain.PullRequest, error)
	ListOpenPullRequestsByReviewer(ctx context.Context, userID string) ([]domain.PullRequest, error)
	CountAssignmentsByReviewer(ctx context.Context) (map[string]int64, error)
	CountAssignmentsByPR(ctx context.Context) (map[string]int64, error)
}
