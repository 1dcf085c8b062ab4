package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AltEgora/avito/internal/domain"
	"github.com/AltEgora/avito/internal/policy"
	"github.com/AltEgora/avito/internal/repo"
)

type PRReader interface {
	GetPullRequest(ctx context.Context, id string) (*domain.PullRequest, error)
}

type PRService struct {
	store   repo.Store
	prs     PRReader
	engine  *policy.Engine
	logger  *slog.Logger
	nowFunc func() time.Time
}

func NewPRService(
	store repo.Store,
	prs PRReader,
	engine *policy.Engine,
	logger *slog.Logger,
	nowFunc func() time.Time,
) *PRService {
	if nowFunc == nil {
		nowFunc = time.Now
	}
	return &PRService{
		store:   store,
		prs:     prs,
		engine:  engine,
		logger:  logger,
		nowFunc: nowFunc,
	}
}

func (s *PRService) CreatePullRequest(
	ctx context.Context,
	id string,
	name string,
	authorID string,
) (*domain.PullRequest, error) {
	pr := &domain.PullRequest{
		ID:     id,
		Name:   name,
		Status: domain.PRStatusOpen,
	}

	err := s.store.InTx(ctx, func(ctx context.Context, tx repo.Tx) error {
		_, err := tx.FindPullRequest(ctx, id)
		switch {
		case err == nil:
			return domain.NewDomainError(domain.ErrorCodePRExists, "PR id already exists")
		case !errors.Is(err, repo.ErrNotFound):
			return fmt.Errorf("check PR exists: %w", err)
		}

		author, err := tx.FindUser(ctx, authorID)
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("get author: %w", err)
		}

		if err := s.engine.AssignInitial(ctx, tx, pr, author); err != nil {
			return err
		}

		pr.CreatedAt = s.nowFunc().UTC()
		return tx.Apply(ctx, repo.NewMutations().CreatePullRequest(*pr))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("pull request created",
		slog.String("pr_id", pr.ID),
		slog.String("author_id", pr.AuthorID),
		slog.Any("reviewers", pr.AssignedReviewers),
	)
	return pr, nil
}

func (s *PRService) GetPullRequest(ctx context.Context, id string) (*domain.PullRequest, error) {
	pr, err := s.prs.GetPullRequest(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, domain.NewDomainError(domain.ErrorCodeNotFound, "pull request not found")
		}
		return nil, fmt.Errorf("get PR: %w", err)
	}
	return pr, nil
}

// MergePullRequest marks the pull request MERGED. Merging an already merged
// pull request returns it unchanged.
func (s *PRService) MergePullRequest(ctx context.Context, id string) (*domain.PullRequest, error) {
	var pr *domain.PullRequest
	err := s.store.InTx(ctx, func(ctx context.Context, tx repo.Tx) error {
		var err error
		pr, err = s.findPullRequest(ctx, tx, id)
		if err != nil {
			return err
		}
		if pr.IsMerged() {
			return nil
		}

		mergedAt := s.nowFunc().UTC()
		if err := tx.Apply(ctx, repo.NewMutations().MergePullRequest(id, mergedAt)); err != nil {
			return err
		}
		pr.Status = domain.PRStatusMerged
		pr.MergedAt = &mergedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("pull request merged", slog.String("pr_id", id))
	return pr, nil
}

// ReassignReviewer replaces oldReviewerID on the pull request and returns the
// updated pull request together with the id of the new reviewer.
func (s *PRService) ReassignReviewer(
	ctx context.Context,
	prID string,
	oldReviewerID string,
) (*domain.PullRequest, string, error) {
	var (
		pr            *domain.PullRequest
		newReviewerID string
	)
	err := s.store.InTx(ctx, func(ctx context.Context, tx repo.Tx) error {
		var err error
		pr, err = s.findPullRequest(ctx, tx, prID)
		if err != nil {
			return err
		}

		m := repo.NewMutations()
		newReviewerID, err = s.engine.SwapReviewer(ctx, tx, pr, oldReviewerID, m)
		if err != nil {
			return err
		}
		return tx.Apply(ctx, m)
	})
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("reviewer reassigned",
		slog.String("pr_id", prID),
		slog.String("old_reviewer_id", oldReviewerID),
		slog.String("new_reviewer_id", newReviewerID),
	)
	return pr, newReviewerID, nil
}

func (s *PRService) findPullRequest(ctx context.Context, tx repo.Tx, id string) (*domain.PullRequest, error) {
	pr, err := tx.FindPullRequest(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, domain.NewDomainError(domain.ErrorCodeNotFound, "pull request not found")
		}
		return nil, fmt.Errorf("get PR: %w", err)
	}
	return pr, nil
}
