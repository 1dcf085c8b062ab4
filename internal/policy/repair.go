package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/AltEgora/avito/internal/domain"
	"github.com/AltEgora/avito/internal/repo"
)

func (e *Engine) DeactivateTeam(ctx context.Context, tx repo.Tx, teamName string, m *repo.Mutations) (domain.TeamDeactivationResult, error) {
	return e.DeactivateMembers(ctx, tx, teamName, nil, m)
}

// DeactivateMembers deactivates only, or every active member when only is empty.
// The replacement pool is computed once before any repair.
func (e *Engine) DeactivateMembers(
	ctx context.Context,
	tx repo.Tx,
	teamName string,
	only []string,
	m *repo.Mutations,
) (domain.TeamDeactivationResult, error) {
	result := domain.TeamDeactivationResult{
		TeamName:      teamName,
		ReassignedPRs: []string{},
		Replacements:  []domain.ReviewerReplacement{},
	}

	team, err := tx.FindTeam(ctx, teamName, repo.LockUpdate)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return result, domain.NewDomainError(domain.ErrorCodeNotFound, "team not found")
		}
		return result, fmt.Errorf("get team %s: %w", teamName, err)
	}

	toDeactivate := selectForDeactivation(team.Members, only)
	if len(toDeactivate) == 0 {
		return result, nil
	}
	deactivatingIDs := userIDs(toDeactivate)

	pool, err := e.Eligible(ctx, tx, teamName, deactivatingIDs)
	if err != nil {
		return result, err
	}

	prs, err := tx.ListOpenPullRequestsWithAnyReviewerIn(ctx, deactivatingIDs)
	if err != nil {
		return result, fmt.Errorf("list affected pull requests: %w", err)
	}

	deactivating := idSet(deactivatingIDs)
	for i := range prs {
		pr := &prs[i]
		if pr.IsMerged() {
			continue
		}

		repairs := repairPullRequest(pr, deactivating, pool, e.intn)
		if len(repairs) == 0 {
			continue
		}
		for _, r := range repairs {
			m.RemoveReviewer(r.PullRequestID, r.OldReviewerID)
			if r.NewReviewerID != "" {
				m.AddReviewer(r.PullRequestID, r.NewReviewerID)
			}
		}
		result.Replacements = append(result.Replacements, repairs...)
		result.ReassignedPRs = append(result.ReassignedPRs, pr.ID)
	}

	for _, id := range deactivatingIDs {
		m.SetUserActive(id, false)
	}
	result.DeactivatedUsers = len(deactivatingIDs)

	return result, nil
}

func selectForDeactivation(members []domain.User, only []string) []domain.User {
	var wanted map[string]struct{}
	if len(only) > 0 {
		wanted = idSet(only)
	}

	out := make([]domain.User, 0, len(members))
	for _, u := range members {
		if !u.IsActive {
			continue
		}
		if wanted != nil {
			if _, ok := wanted[u.ID]; !ok {
				continue
			}
		}
		out = append(out, u)
	}
	return out
}

// repairPullRequest never refills a freed slot with its previous holder.
func repairPullRequest(
	pr *domain.PullRequest,
	deactivating map[string]struct{},
	pool []domain.User,
	intn IntN,
) []domain.ReviewerReplacement {
	affected := make([]string, 0, len(pr.AssignedReviewers))
	for _, id := range pr.AssignedReviewers {
		if _, ok := deactivating[id]; ok {
			affected = append(affected, id)
		}
	}
	if len(affected) == 0 {
		return nil
	}

	taken := idSet(pr.AssignedReviewers)
	taken[pr.AuthorID] = struct{}{}

	repairs := make([]domain.ReviewerReplacement, 0, len(affected))
	for _, oldID := range affected {
		candidates := make([]domain.User, 0, len(pool))
		for _, u := range pool {
			if _, ok := taken[u.ID]; ok {
				continue
			}
			candidates = append(candidates, u)
		}

		repair := domain.ReviewerReplacement{
			PullRequestID: pr.ID,
			OldReviewerID: oldID,
		}

		if replacement, ok := PickOne(candidates, intn); ok {
			taken[replacement.ID] = struct{}{}
			repair.NewReviewerID = replacement.ID
			pr.AssignedReviewers = replaceID(pr.AssignedReviewers, oldID, replacement.ID)
		} else {
			pr.AssignedReviewers = removeID(pr.AssignedReviewers, oldID)
		}
		repairs = append(repairs, repair)
	}

	return repairs
}

func replaceID(ids []string, oldID, newID string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == oldID {
			out = append(out, newID)
			continue
		}
		out = append(out, id)
	}
	return out
}

func removeID(ids []string, oldID string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != oldID {
			out = append(out, id)
		}
	}
	return out
}
