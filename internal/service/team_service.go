package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/AltEgora/avito/internal/domain"
	"github.com/AltEgora/avito/internal/policy"
	"github.com/AltEgora/avito/internal/repo"
)

type TeamReader interface {
	GetTeam(ctx context.Context, name string) (*domain.Team, error)
}

type TeamService struct {
	store  repo.Store
	teams  TeamReader
	engine *policy.Engine
	logger *slog.Logger
}

func NewTeamService(store repo.Store, teams TeamReader, engine *policy.Engine, logger *slog.Logger) *TeamService {
	return &TeamService{
		store:  store,
		teams:  teams,
		engine: engine,
		logger: logger,
	}
}

// CreateTeam creates teamName and upserts its members. A member that already
// exists is moved into the new team with the given name and activity flag.
func (s *TeamService) CreateTeam(ctx context.Context, teamName string, members []domain.User) (*domain.Team, error) {
	err := s.store.InTx(ctx, func(ctx context.Context, tx repo.Tx) error {
		_, err := tx.FindTeam(ctx, teamName, repo.LockNone)
		switch {
		case err == nil:
			return domain.NewDomainError(domain.ErrorCodeTeamExists, "team_name already exists")
		case !errors.Is(err, repo.ErrNotFound):
			return fmt.Errorf("check team exists: %w", err)
		}

		if err := s.lockPreviousTeams(ctx, tx, teamName, members); err != nil {
			return err
		}

		m := repo.NewMutations().CreateTeam(teamName)
		for i := range members {
			members[i].TeamName = teamName
			m.UpsertUser(members[i])
		}
		return tx.Apply(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("team created",
		slog.String("team_name", teamName),
		slog.Int("members", len(members)),
	)

	return &domain.Team{
		Name:    teamName,
		Members: members,
	}, nil
}

// lockPreviousTeams share-locks the current teams of members that move into
// teamName, so the move waits for a running deactivation of those teams.
func (s *TeamService) lockPreviousTeams(ctx context.Context, tx repo.Tx, teamName string, members []domain.User) error {
	previous := make([]string, 0, len(members))
	for _, member := range members {
		u, err := tx.FindUser(ctx, member.ID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				continue
			}
			return fmt.Errorf("get user %s: %w", member.ID, err)
		}
		if u.HasTeam() && u.TeamName != teamName && !slices.Contains(previous, u.TeamName) {
			previous = append(previous, u.TeamName)
		}
	}
	slices.Sort(previous)

	for _, name := range previous {
		if _, err := tx.FindTeam(ctx, name, repo.LockShare); err != nil && !errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("lock team %s: %w", name, err)
		}
	}
	return nil
}

func (s *TeamService) GetTeam(ctx context.Context, teamName string) (*domain.Team, error) {
	team, err := s.teams.GetTeam(ctx, teamName)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, domain.NewDomainError(domain.ErrorCodeNotFound, "team not found")
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	return team, nil
}

// DeleteTeam removes teamName. Its members stay as teamless users and keep
// their existing review assignments.
func (s *TeamService) DeleteTeam(ctx context.Context, teamName string) error {
	err := s.store.InTx(ctx, func(ctx context.Context, tx repo.Tx) error {
		if _, err := tx.FindTeam(ctx, teamName, repo.LockUpdate); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return domain.NewDomainError(domain.ErrorCodeNotFound, "team not found")
			}
			return fmt.Errorf("get team: %w", err)
		}
		return tx.Apply(ctx, repo.NewMutations().DeleteTeam(teamName))
	})
	if err != nil {
		return err
	}

	s.logger.Info("team deleted", slog.String("team_name", teamName))
	return nil
}

func (s *TeamService) DeactivateTeam(ctx context.Context, teamName string) (domain.TeamDeactivationResult, error) {
	return s.DeactivateMembers(ctx, teamName, nil)
}

// DeactivateMembers deactivates userIDs of teamName, or every active member
// when userIDs is empty, and repairs the open pull requests they review.
func (s *TeamService) DeactivateMembers(ctx context.Context, teamName string, userIDs []string) (domain.TeamDeactivationResult, error) {
	var result domain.TeamDeactivationResult
	err := s.store.InTx(ctx, func(ctx context.Context, tx repo.Tx) error {
		m := repo.NewMutations()

		var err error
		result, err = s.engine.DeactivateMembers(ctx, tx, teamName, userIDs, m)
		if err != nil {
			return err
		}
		return tx.Apply(ctx, m)
	})
	if err != nil {
		return domain.TeamDeactivationResult{}, err
	}

	s.logger.Info("team members deactivated",
		slog.String("team_name", teamName),
		slog.Int("deactivated", result.DeactivatedUsers),
		slog.Int("reassigned_prs", len(result.ReassignedPRs)),
	)

	return result, nil
}
