package converter

import (
	"time"

	"github.com/AltEgora/avito/api/openapi"
	"github.com/AltEgora/avito/internal/domain"
)

func TeamFromOpenAPI(t *openapi.Team) domain.Team {
	if t == nil {
		return domain.Team{}
	}

	members := make([]domain.User, 0, len(t.Members))
	for _, m := range t.Members {
		members = append(members, UserFromTeamMember(&m, t.TeamName))
	}

	return domain.Team{
		Name:    t.TeamName,
		Members: members,
	}
}

func TeamToOpenAPI(t *domain.Team) openapi.Team {
	if t == nil {
		return openapi.Team{}
	}

	members := make([]openapi.TeamMember, 0, len(t.Members))
	for _, u := range t.Members {
		members = append(members, TeamMemberFromDomain(&u))
	}

	return openapi.Team{
		TeamName: t.Name,
		Members:  members,
	}
}

func TeamMemberFromDomain(u *domain.User) openapi.TeamMember {
	if u == nil {
		return openapi.TeamMember{}
	}

	return openapi.TeamMember{
		UserId:   u.ID,
		Username: u.Username,
		IsActive: u.IsActive,
	}
}

func UserFromTeamMember(m *openapi.TeamMember, teamName string) domain.User {
	if m == nil {
		return domain.User{}
	}

	return domain.User{
		ID:       m.UserId,
		Username: m.Username,
		TeamName: teamName,
		IsActive: m.IsActive,
	}
}

// UserToOpenAPI renders a teamless user with a null team_name.
func UserToOpenAPI(u *domain.User) openapi.User {
	if u == nil {
		return openapi.User{}
	}

	return openapi.User{
		UserId:   u.ID,
		Username: u.Username,
		TeamName: optionalString(u.TeamName),
		IsActive: u.IsActive,
	}
}

func PullRequestToOpenAPI(p *domain.PullRequest) openapi.PullRequest {
	if p == nil {
		return openapi.PullRequest{}
	}

	assigned := make([]string, 0, len(p.AssignedReviewers))
	assigned = append(assigned, p.AssignedReviewers...)

	return openapi.PullRequest{
		PullRequestId:     p.ID,
		PullRequestName:   p.Name,
		AuthorId:          p.AuthorID,
		Status:            openapi.PullRequestStatus(p.Status),
		AssignedReviewers: assigned,
		CreatedAt:         timePtr(p.CreatedAt),
		MergedAt:          utcPtr(p.MergedAt),
	}
}

func PullRequestShortFromDomain(p *domain.PullRequest) openapi.PullRequestShort {
	if p == nil {
		return openapi.PullRequestShort{}
	}

	return openapi.PullRequestShort{
		PullRequestId:   p.ID,
		PullRequestName: p.Name,
		AuthorId:        p.AuthorID,
		Status:          openapi.PullRequestShortStatus(p.Status),
	}
}

func PullRequestShortList(prs []domain.PullRequest) []openapi.PullRequestShort {
	out := make([]openapi.PullRequestShort, 0, len(prs))
	for i := range prs {
		out = append(out, PullRequestShortFromDomain(&prs[i]))
	}
	return out
}

func TeamDeactivationToOpenAPI(r *domain.TeamDeactivationResult) openapi.TeamDeactivation {
	if r == nil {
		return openapi.TeamDeactivation{ReassignedPrs: []string{}, Replacements: []openapi.ReviewerReplacement{}}
	}

	reassigned := make([]string, 0, len(r.ReassignedPRs))
	reassigned = append(reassigned, r.ReassignedPRs...)

	replacements := make([]openapi.ReviewerReplacement, 0, len(r.Replacements))
	for _, rep := range r.Replacements {
		replacements = append(replacements, openapi.ReviewerReplacement{
			PullRequestId: rep.PullRequestID,
			OldReviewerId: rep.OldReviewerID,
			NewReviewerId: optionalString(rep.NewReviewerID),
		})
	}

	return openapi.TeamDeactivation{
		TeamName:         r.TeamName,
		DeactivatedCount: r.DeactivatedUsers,
		ReassignedPrs:    reassigned,
		Replacements:     replacements,
	}
}

func ReviewerStatsToOpenAPI(stats []domain.ReviewerStat) []openapi.UserAssignmentStat {
	out := make([]openapi.UserAssignmentStat, 0, len(stats))
	for _, s := range stats {
		out = append(out, openapi.UserAssignmentStat{
			UserId:           s.UserID,
			AssignmentsCount: s.Assignments,
		})
	}
	return out
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	t = t.UTC()
	return &t
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	return timePtr(*t)
}
