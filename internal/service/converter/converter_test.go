package converter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AltEgora/avito/api/openapi"
	"github.com/AltEgora/avito/internal/domain"
)

func TestTeamFromOpenAPI(t *testing.T) {
	in := &openapi.Team{
		TeamName: "backend",
		Members: []openapi.TeamMember{
			{UserId: "u1", Username: "Alice", IsActive: true},
			{UserId: "u2", Username: "Bob", IsActive: false},
		},
	}

	got := TeamFromOpenAPI(in)

	assert.Equal(t, "backend", got.Name)
	require.Len(t, got.Members, 2)
	assert.Equal(t, domain.User{ID: "u1", Username: "Alice", TeamName: "backend", IsActive: true}, got.Members[0])
	assert.Equal(t, "backend", got.Members[1].TeamName)
	assert.False(t, got.Members[1].IsActive)
}

func TestUserToOpenAPI(t *testing.T) {
	tests := []struct {
		name     string
		in       domain.User
		wantTeam *string
	}{
		{
			name:     "пользователь в команде",
			in:       domain.User{ID: "u1", Username: "Alice", TeamName: "backend", IsActive: true},
			wantTeam: ptr("backend"),
		},
		{
			name:     "пользователь без команды",
			in:       domain.User{ID: "u2", Username: "Bob"},
			wantTeam: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UserToOpenAPI(&tt.in)
			assert.Equal(t, tt.in.ID, got.UserId)
			assert.Equal(t, tt.wantTeam, got.TeamName)
		})
	}
}

func TestPullRequestToOpenAPI(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("MSK", 3*60*60))
	merged := created.Add(time.Hour)

	tests := []struct {
		name       string
		in         domain.PullRequest
		wantMerged bool
	}{
		{
			name: "открытый PR",
			in: domain.PullRequest{
				ID: "pr-1", Name: "feature", AuthorID: "u1", Status: domain.PRStatusOpen,
				AssignedReviewers: []string{"u2", "u3"}, CreatedAt: created,
			},
		},
		{
			name: "смерженный PR",
			in: domain.PullRequest{
				ID: "pr-2", Name: "fix", AuthorID: "u1", Status: domain.PRStatusMerged,
				CreatedAt: created, MergedAt: &merged,
			},
			wantMerged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PullRequestToOpenAPI(&tt.in)

			assert.Equal(t, tt.in.ID, got.PullRequestId)
			assert.Equal(t, openapi.PullRequestStatus(tt.in.Status), got.Status)
			assert.NotNil(t, got.AssignedReviewers)
			assert.Equal(t, len(tt.in.AssignedReviewers), len(got.AssignedReviewers))

			require.NotNil(t, got.CreatedAt)
			assert.Equal(t, time.UTC, got.CreatedAt.Location())
			assert.True(t, got.CreatedAt.Equal(created))

			if tt.wantMerged {
				require.NotNil(t, got.MergedAt)
				assert.True(t, got.MergedAt.Equal(merged))
			} else {
				assert.Nil(t, got.MergedAt)
			}
		})
	}
}

func TestPullRequestToOpenAPI_DoesNotShareReviewers(t *testing.T) {
	in := domain.PullRequest{ID: "pr-1", AssignedReviewers: []string{"u2"}}

	got := PullRequestToOpenAPI(&in)
	got.AssignedReviewers[0] = "changed"

	assert.Equal(t, "u2", in.AssignedReviewers[0])
}

func TestTeamDeactivationToOpenAPI(t *testing.T) {
	in := &domain.TeamDeactivationResult{
		TeamName:         "backend",
		DeactivatedUsers: 2,
		ReassignedPRs:    []string{"pr-1"},
		Replacements: []domain.ReviewerReplacement{
			{PullRequestID: "pr-1", OldReviewerID: "u2", NewReviewerID: "u3"},
			{PullRequestID: "pr-1", OldReviewerID: "u4"},
		},
	}

	got := TeamDeactivationToOpenAPI(in)

	assert.Equal(t, "backend", got.TeamName)
	assert.Equal(t, 2, got.DeactivatedCount)
	assert.Equal(t, []string{"pr-1"}, got.ReassignedPrs)
	require.Len(t, got.Replacements, 2)
	assert.Equal(t, ptr("u3"), got.Replacements[0].NewReviewerId)
	assert.Nil(t, got.Replacements[1].NewReviewerId)
}

func TestReviewerStatsToOpenAPI(t *testing.T) {
	got := ReviewerStatsToOpenAPI([]domain.ReviewerStat{
		{UserID: "u2", Assignments: 3},
		{UserID: "u1", Assignments: 1},
	})

	assert.Equal(t, []openapi.UserAssignmentStat{
		{UserId: "u2", AssignmentsCount: 3},
		{UserId: "u1", AssignmentsCount: 1},
	}, got)

	assert.NotNil(t, ReviewerStatsToOpenAPI(nil))
}

func ptr(s string) *string {
	return &s
}
