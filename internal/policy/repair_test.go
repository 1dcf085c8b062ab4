package policy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AltEgora/avito/internal/domain"
	"github.com/AltEgora/avito/internal/repo"
)

func TestRepairPullRequest(t *testing.T) {
	tests := []struct {
		name          string
		pr            domain.PullRequest
		deactivating  []string
		pool          []domain.User
		wantReviewers []string
		wantRepairs   []domain.ReviewerReplacement
	}{
		{
			name:          "не затронут",
			pr:            domain.PullRequest{ID: "pr-1", AuthorID: "a", AssignedReviewers: []string{"r1", "r2"}},
			deactivating:  []string{"r9"},
			pool:          []domain.User{active("c1", "t")},
			wantReviewers: []string{"r1", "r2"},
		},
		{
			name:          "замена на кандидата из пула",
			pr:            domain.PullRequest{ID: "pr-1", AuthorID: "a", AssignedReviewers: []string{"r1", "r2"}},
			deactivating:  []string{"r1"},
			pool:          []domain.User{active("c1", "t")},
			wantReviewers: []string{"c1", "r2"},
			wantRepairs: []domain.ReviewerReplacement{
				{PullRequestID: "pr-1", OldReviewerID: "r1", NewReviewerID: "c1"},
			},
		},
		{
			name:          "пул пуст, слот удаляется",
			pr:            domain.PullRequest{ID: "pr-1", AuthorID: "a", AssignedReviewers: []string{"r1", "r2"}},
			deactivating:  []string{"r1", "r2"},
			wantReviewers: []string{},
			wantRepairs: []domain.ReviewerReplacement{
				{PullRequestID: "pr-1", OldReviewerID: "r1"},
				{PullRequestID: "pr-1", OldReviewerID: "r2"},
			},
		},
		{
			name:          "один кандидат на два слота",
			pr:            domain.PullRequest{ID: "pr-1", AuthorID: "a", AssignedReviewers: []string{"r1", "r2"}},
			deactivating:  []string{"r1", "r2"},
			pool:          []domain.User{active("c1", "t")},
			wantReviewers: []string{"c1"},
			wantRepairs: []domain.ReviewerReplacement{
				{PullRequestID: "pr-1", OldReviewerID: "r1", NewReviewerID: "c1"},
				{PullRequestID: "pr-1", OldReviewerID: "r2"},
			},
		},
		{
			name:          "автор и текущие ревьюверы не выбираются",
			pr:            domain.PullRequest{ID: "pr-1", AuthorID: "a", AssignedReviewers: []string{"r1", "r2"}},
			deactivating:  []string{"r1"},
			pool:          []domain.User{active("a", "t"), active("r2", "t")},
			wantReviewers: []string{"r2"},
			wantRepairs: []domain.ReviewerReplacement{
				{PullRequestID: "pr-1", OldReviewerID: "r1"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := tt.pr
			pr.AssignedReviewers = append([]string(nil), tt.pr.AssignedReviewers...)

			repairs := repairPullRequest(&pr, idSet(tt.deactivating), tt.pool, firstIndex)

			assert.Equal(t, tt.wantReviewers, pr.AssignedReviewers)
			if tt.wantRepairs == nil {
				assert.Empty(t, repairs)
				return
			}
			assert.Equal(t, tt.wantRepairs, repairs)
		})
	}
}

func TestEngine_DeactivateTeam(t *testing.T) {
	users := []domain.User{
		active("u1", "backend"),
		active("u2", "backend"),
		inactive("u3", "backend"),
		active("x1", "frontend"),
	}
	merged := time.Unix(2000, 0)
	prs := []domain.PullRequest{
		{ID: "pr-1", Name: "a", AuthorID: "x1", AssignedReviewers: []string{"u1", "u2"}},
		{ID: "pr-2", Name: "b", AuthorID: "u1", AssignedReviewers: []string{"u2"}},
		{ID: "pr-3", Name: "c", AuthorID: "x1", Status: domain.PRStatusMerged, AssignedReviewers: []string{"u1"}, MergedAt: &merged},
	}
	store := newTestStore(t, users, prs...)
	engine := NewEngine()

	var result domain.TeamDeactivationResult
	err := store.InTx(context.Background(), func(ctx context.Context, tx repo.Tx) error {
		m := repo.NewMutations()
		var err error
		result, err = engine.DeactivateTeam(ctx, tx, "backend", m)
		if err != nil {
			return err
		}
		return tx.Apply(ctx, m)
	})
	require.NoError(t, err)

	assert.Equal(t, "backend", result.TeamName)
	assert.Equal(t, 2, result.DeactivatedUsers)
	assert.Equal(t, []string{"pr-1", "pr-2"}, result.ReassignedPRs)
	for _, r := range result.Replacements {
		assert.Empty(t, r.NewReviewerID)
	}

	ctx := context.Background()
	pr1, err := store.GetPullRequest(ctx, "pr-1")
	require.NoError(t, err)
	assert.Empty(t, pr1.AssignedReviewers)

	pr3, err := store.GetPullRequest(ctx, "pr-3")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, pr3.AssignedReviewers)

	for _, id := range []string{"u1", "u2", "u3"} {
		u, err := store.GetUser(ctx, id)
		require.NoError(t, err)
		assert.False(t, u.IsActive, id)
	}
	x1, err := store.GetUser(ctx, "x1")
	require.NoError(t, err)
	assert.True(t, x1.IsActive)
}

func TestEngine_DeactivateMembers_ReplacesFromRemainingTeam(t *testing.T) {
	users := []domain.User{
		active("u1", "backend"),
		active("u2", "backend"),
		active("u3", "backend"),
		active("u4", "backend"),
	}
	prs := []domain.PullRequest{
		{ID: "pr-1", Name: "a", AuthorID: "u1", AssignedReviewers: []string{"u2", "u3"}},
	}
	store := newTestStore(t, users, prs...)
	engine := NewEngine(WithRandom(firstIndex))

	var result domain.TeamDeactivationResult
	err := store.InTx(context.Background(), func(ctx context.Context, tx repo.Tx) error {
		m := repo.NewMutations()
		var err error
		result, err = engine.DeactivateMembers(ctx, tx, "backend", []string{"u2"}, m)
		if err != nil {
			return err
		}
		return tx.Apply(ctx, m)
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.DeactivatedUsers)
	assert.Equal(t, []string{"pr-1"}, result.ReassignedPRs)
	assert.Equal(t, []domain.ReviewerReplacement{
		{PullRequestID: "pr-1", OldReviewerID: "u2", NewReviewerID: "u4"},
	}, result.Replacements)

	pr, err := store.GetPullRequest(context.Background(), "pr-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u3", "u4"}, pr.AssignedReviewers)

	u2, err := store.GetUser(context.Background(), "u2")
	require.NoError(t, err)
	assert.False(t, u2.IsActive)
}

func TestEngine_DeactivateTeam_EdgeCases(t *testing.T) {
	t.Run("команда не найдена", func(t *testing.T) {
		store := newTestStore(t, nil)
		err := store.InTx(context.Background(), func(ctx context.Context, tx repo.Tx) error {
			_, err := NewEngine().DeactivateTeam(ctx, tx, "ghost", repo.NewMutations())
			return err
		})
		assert.Equal(t, domain.ErrorCodeNotFound, domain.CodeOf(err))
	})

	t.Run("все уже неактивны", func(t *testing.T) {
		store := newTestStore(t, []domain.User{inactive("u1", "backend")})
		m := repo.NewMutations()
		var result domain.TeamDeactivationResult
		err := store.InTx(context.Background(), func(ctx context.Context, tx repo.Tx) error {
			var err error
			result, err = NewEngine().DeactivateTeam(ctx, tx, "backend", m)
			return err
		})
		require.NoError(t, err)
		assert.Zero(t, result.DeactivatedUsers)
		assert.Empty(t, result.ReassignedPRs)
		assert.Zero(t, m.Len())
	})
}
