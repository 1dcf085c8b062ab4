package policy

import (
	"context"
	"fmt"

	"github.com/AltEgora/avito/internal/domain"
	"github.com/AltEgora/avito/internal/repo"
)

// Eligible returns the active members of teamName whose id is not in exclude.
func (e *Engine) Eligible(ctx context.Context, tx repo.Tx, teamName string, exclude []string) ([]domain.User, error) {
	users, err := tx.ListActiveUsersInTeam(ctx, teamName, exclude)
	if err != nil {
		return nil, fmt.Errorf("list active users of team %s: %w", teamName, err)
	}
	return FilterEligible(users, teamName, exclude), nil
}

func FilterEligible(users []domain.User, teamName string, exclude []string) []domain.User {
	skip := idSet(exclude)
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if !u.IsActive || u.TeamName != teamName {
			continue
		}
		if _, ok := skip[u.ID]; ok {
			continue
		}
		out = append(out, u)
	}
	return out
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func userIDs(users []domain.User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}
