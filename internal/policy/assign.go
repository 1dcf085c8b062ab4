// Package policy picks reviewers. It only stages writes into repo.Mutations
// and never applies them.
package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/AltEgora/avito/internal/domain"
	"github.com/AltEgora/avito/internal/repo"
)

type Engine struct {
	intn IntN
}

type Option func(*Engine)

func WithRandom(intn IntN) Option {
	return func(e *Engine) {
		if intn != nil {
			e.intn = intn
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{intn: defaultIntN}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AssignInitial fails with AUTHOR_NOT_ELIGIBLE for a nil or teamless author.
func (e *Engine) AssignInitial(ctx context.Context, tx repo.Tx, pr *domain.PullRequest, author *domain.User) error {
	if author == nil || !author.HasTeam() {
		return domain.NewDomainError(domain.ErrorCodeAuthorNotEligible, "author not found or not assigned to a team")
	}

	if _, err := tx.FindTeam(ctx, author.TeamName, repo.LockShare); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.NewDomainError(domain.ErrorCodeAuthorNotEligible, "author not found or not assigned to a team")
		}
		return fmt.Errorf("lock author team: %w", err)
	}

	pool, err := e.Eligible(ctx, tx, author.TeamName, []string{author.ID})
	if err != nil {
		return err
	}

	pr.AuthorID = author.ID
	pr.AssignedReviewers = userIDs(Sample(pool, domain.MaxInitialReviewers, e.intn))
	return nil
}

// SwapReviewer leaves pr and m untouched on failure.
func (e *Engine) SwapReviewer(
	ctx context.Context,
	tx repo.Tx,
	pr *domain.PullRequest,
	oldReviewerID string,
	m *repo.Mutations,
) (string, error) {
	if pr.IsMerged() {
		return "", domain.NewDomainError(domain.ErrorCodePRMerged, "cannot reassign on merged PR")
	}

	slot := -1
	for i, id := range pr.AssignedReviewers {
		if id == oldReviewerID {
			slot = i
			break
		}
	}
	if slot == -1 {
		return "", domain.NewDomainError(domain.ErrorCodeNotAssigned, "reviewer is not assigned to this PR")
	}

	oldReviewer, err := tx.FindUser(ctx, oldReviewerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", domain.NewDomainError(domain.ErrorCodeNoCandidate, "old reviewer is not in a team")
		}
		return "", fmt.Errorf("get old reviewer: %w", err)
	}
	if !oldReviewer.HasTeam() {
		return "", domain.NewDomainError(domain.ErrorCodeNoCandidate, "old reviewer is not in a team")
	}

	if _, err := tx.FindTeam(ctx, oldReviewer.TeamName, repo.LockShare); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", domain.NewDomainError(domain.ErrorCodeNoCandidate, "old reviewer is not in a team")
		}
		return "", fmt.Errorf("lock reviewer team: %w", err)
	}

	exclude := make([]string, 0, len(pr.AssignedReviewers)+1)
	exclude = append(exclude, pr.AssignedReviewers...)
	exclude = append(exclude, pr.AuthorID)

	pool, err := e.Eligible(ctx, tx, oldReviewer.TeamName, exclude)
	if err != nil {
		return "", err
	}

	replacement, ok := PickOne(pool, e.intn)
	if !ok {
		return "", domain.NewDomainError(domain.ErrorCodeNoCandidate, "no active replacement candidate in team")
	}

	pr.AssignedReviewers[slot] = replacement.ID
	m.RemoveReviewer(pr.ID, oldReviewerID).AddReviewer(pr.ID, replacement.ID)

	return replacement.ID, nil
}
