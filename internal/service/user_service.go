package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AltEgora/avito/internal/domain"
	"github.com/AltEgora/avito/internal/repo"
)

type UserReader interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListOpenPullRequestsByReviewer(ctx context.Context, userID string) ([]domain.PullRequest, error)
}

type UserService struct {
	store  repo.Store
	users  UserReader
	logger *slog.Logger
}

func NewUserService(store repo.Store, users UserReader, logger *slog.Logger) *UserService {
	return &UserService{
		store:  store,
		users:  users,
		logger: logger,
	}
}

func (s *UserService) SetActive(ctx context.Context, userID string, active bool) (*domain.User, error) {
	var user *domain.User
	err := s.store.InTx(ctx, func(ctx context.Context, tx repo.Tx) error {
		u, err := tx.FindUser(ctx, userID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return domain.NewDomainError(domain.ErrorCodeNotFound, "user not found")
			}
			return fmt.Errorf("get user: %w", err)
		}

		if u.IsActive != active {
			if err := tx.Apply(ctx, repo.NewMutations().SetUserActive(userID, active)); err != nil {
				return err
			}
			u.IsActive = active
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user activity set",
		slog.String("user_id", userID),
		slog.Bool("is_active", active),
	)
	return user, nil
}

// ListAssignedPullRequests returns the OPEN pull requests userID reviews.
func (s *UserService) ListAssignedPullRequests(ctx context.Context, userID string) ([]domain.PullRequest, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, domain.NewDomainError(domain.ErrorCodeNotFound, "user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	prs, err := s.users.ListOpenPullRequestsByReviewer(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list pull_requests by reviewer: %w", err)
	}
	return prs, nil
}
