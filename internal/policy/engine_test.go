package policy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AltEgora/avito/internal/domain"
	"github.com/AltEgora/avito/internal/repo"
	"github.com/AltEgora/avito/internal/repo/memory"
)

func newTestStore(t *testing.T, users []domain.User, prs ...domain.PullRequest) *memory.Store {
	t.Helper()

	store := memory.NewStore()
	m := repo.NewMutations()
	teams := make(map[string]bool)
	for _, u := range users {
		if u.TeamName != "" && !teams[u.TeamName] {
			teams[u.TeamName] = true
			m.CreateTeam(u.TeamName)
		}
	}
	for _, u := range users {
		m.UpsertUser(u)
	}
	for _, pr := range prs {
		if pr.Status == "" {
			pr.Status = domain.PRStatusOpen
		}
		m.CreatePullRequest(pr)
	}

	err := store.InTx(context.Background(), func(ctx context.Context, tx repo.Tx) error {
		return tx.Apply(ctx, m)
	})
	require.NoError(t, err)
	return store
}

func active(id, team string) domain.User {
	return domain.User{ID: id, Username: id, TeamName: team, IsActive: true}
}

func inactive(id, team string) domain.User {
	return domain.User{ID: id, Username: id, TeamName: team, IsActive: false}
}

func TestEngine_AssignInitial(t *testing.T) {
	tests := []struct {
		name        string
		users       []domain.User
		authorID    string
		wantCount   int
		wantErrCode domain.ErrorCode
		notAllowed  []string
	}{
		{
			name:       "два ревьювера из команды автора",
			users:      []domain.User{active("u1", "backend"), active("u2", "backend"), active("u3", "backend"), active("u4", "backend")},
			authorID:   "u1",
			wantCount:  2,
			notAllowed: []string{"u1"},
		},
		{
			name:       "один кандидат",
			users:      []domain.User{active("u1", "backend"), active("u2", "backend"), inactive("u3", "backend")},
			authorID:   "u1",
			wantCount:  1,
			notAllowed: []string{"u1", "u3"},
		},
		{
			name:      "автор один в команде",
			users:     []domain.User{active("u1", "backend"), active("x1", "frontend")},
			authorID:  "u1",
			wantCount: 0,
		},
		{
			name:       "неактивный автор может создавать PR",
			users:      []domain.User{inactive("u1", "backend"), active("u2", "backend")},
			authorID:   "u1",
			wantCount:  1,
			notAllowed: []string{"u1"},
		},
		{
			name:        "автор без команды",
			users:       []domain.User{active("u1", "")},
			authorID:    "u1",
			wantErrCode: domain.ErrorCodeAuthorNotEligible,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t, tt.users)
			engine := NewEngine()

			pr := &domain.PullRequest{ID: "pr-1", Name: "feature"}
			err := store.InTx(context.Background(), func(ctx context.Context, tx repo.Tx) error {
				author, err := tx.FindUser(ctx, tt.authorID)
				require.NoError(t, err)
				return engine.AssignInitial(ctx, tx, pr, author)
			})

			if tt.wantErrCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErrCode, domain.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.authorID, pr.AuthorID)
			assert.Len(t, pr.AssignedReviewers, tt.wantCount)
			for _, id := range tt.notAllowed {
				assert.NotContains(t, pr.AssignedReviewers, id)
			}
		})
	}
}

func TestEngine_AssignInitial_NilAuthor(t *testing.T) {
	store := newTestStore(t, nil)
	engine := NewEngine()

	err := store.InTx(context.Background(), func(ctx context.Context, tx repo.Tx) error {
		return engine.AssignInitial(ctx, tx, &domain.PullRequest{ID: "pr-1"}, nil)
	})
	assert.Equal(t, domain.ErrorCodeAuthorNotEligible, domain.CodeOf(err))
}

func TestEngine_SwapReviewer(t *testing.T) {
	users := []domain.User{
		active("u1", "backend"),
		active("u2", "backend"),
		active("u3", "backend"),
		active("u4", "backend"),
		inactive("u5", "backend"),
		active("x1", "frontend"),
		active("x2", "frontend"),
		active("lonely", ""),
	}
	merged := time.Unix(2000, 0)

	tests := []struct {
		name        string
		pr          domain.PullRequest
		oldID       string
		wantNew     string
		wantErrCode domain.ErrorCode
	}{
		{
			name:    "замена на единственного кандидата",
			pr:      domain.PullRequest{ID: "pr-1", Name: "a", AuthorID: "u1", AssignedReviewers: []string{"u2", "u3"}},
			oldID:   "u2",
			wantNew: "u4",
		},
		{
			name:    "кандидат из команды старого ревьювера",
			pr:      domain.PullRequest{ID: "pr-1", Name: "a", AuthorID: "u1", AssignedReviewers: []string{"x1"}},
			oldID:   "x1",
			wantNew: "x2",
		},
		{
			name:        "PR уже смержен",
			pr:          domain.PullRequest{ID: "pr-1", Name: "a", AuthorID: "u1", Status: domain.PRStatusMerged, AssignedReviewers: []string{"u2"}, MergedAt: &merged},
			oldID:       "u2",
			wantErrCode: domain.ErrorCodePRMerged,
		},
		{
			name:        "ревьювер не назначен",
			pr:          domain.PullRequest{ID: "pr-1", Name: "a", AuthorID: "u1", AssignedReviewers: []string{"u2"}},
			oldID:       "u3",
			wantErrCode: domain.ErrorCodeNotAssigned,
		},
		{
			name:        "нет кандидатов",
			pr:          domain.PullRequest{ID: "pr-1", Name: "a", AuthorID: "u2", AssignedReviewers: []string{"u1", "u3", "u4"}},
			oldID:       "u3",
			wantErrCode: domain.ErrorCodeNoCandidate,
		},
		{
			name:        "старый ревьювер без команды",
			pr:          domain.PullRequest{ID: "pr-1", Name: "a", AuthorID: "u1", AssignedReviewers: []string{"lonely"}},
			oldID:       "lonely",
			wantErrCode: domain.ErrorCodeNoCandidate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t, users, tt.pr)
			engine := NewEngine(WithRandom(firstIndex))
			m := repo.NewMutations()

			var (
				got    string
				loaded *domain.PullRequest
			)
			err := store.InTx(context.Background(), func(ctx context.Context, tx repo.Tx) error {
				var err error
				loaded, err = tx.FindPullRequest(ctx, tt.pr.ID)
				require.NoError(t, err)
				got, err = engine.SwapReviewer(ctx, tx, loaded, tt.oldID, m)
				return err
			})

			if tt.wantErrCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErrCode, domain.CodeOf(err))
				assert.Zero(t, m.Len())
				assert.Equal(t, tt.pr.AssignedReviewers, loaded.AssignedReviewers)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNew, got)
			assert.NotContains(t, loaded.AssignedReviewers, tt.oldID)
			assert.Contains(t, loaded.AssignedReviewers, tt.wantNew)
			assert.Len(t, loaded.AssignedReviewers, len(tt.pr.AssignedReviewers))

			ops := m.Ops()
			require.Len(t, ops, 2)
			assert.Equal(t, repo.OpRemoveReviewer, ops[0].Kind)
			assert.Equal(t, repo.OpAddReviewer, ops[1].Kind)
		})
	}
}

func TestEngine_SwapReviewer_KeepsSlotPosition(t *testing.T) {
	users := []domain.User{active("u1", "t"), active("u2", "t"), active("u3", "t"), active("u4", "t")}
	pr := domain.PullRequest{ID: "pr-1", Name: "a", AuthorID: "u1", AssignedReviewers: []string{"u2", "u3"}}
	store := newTestStore(t, users, pr)
	engine := NewEngine(WithRandom(firstIndex))

	err := store.InTx(context.Background(), func(ctx context.Context, tx repo.Tx) error {
		loaded, err := tx.FindPullRequest(ctx, "pr-1")
		require.NoError(t, err)
		m := repo.NewMutations()
		if _, err := engine.SwapReviewer(ctx, tx, loaded, "u2", m); err != nil {
			return err
		}
		assert.Equal(t, []string{"u4", "u3"}, loaded.AssignedReviewers)
		return tx.Apply(ctx, m)
	})
	require.NoError(t, err)

	stored, err := store.GetPullRequest(context.Background(), "pr-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u3", "u4"}, stored.AssignedReviewers)
}
