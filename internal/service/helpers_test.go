package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AltEgora/avito/internal/domain"
	"github.com/AltEgora/avito/internal/policy"
	"github.com/AltEgora/avito/internal/repo"
	"github.com/AltEgora/avito/internal/repo/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func fixedNow() time.Time {
	return time.Unix(1_700_000_000, 0).UTC()
}

func firstIndex(int) int { return 0 }

type seedData struct {
	teams map[string][]domain.User
	prs   []domain.PullRequest
}

func newSeededStore(t *testing.T, data seedData) *memory.Store {
	t.Helper()

	store := memory.NewStore()
	m := repo.NewMutations()
	for name, members := range data.teams {
		m.CreateTeam(name)
		for _, u := range members {
			u.TeamName = name
			m.UpsertUser(u)
		}
	}
	for _, pr := range data.prs {
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

func newTestEngine() *policy.Engine {
	return policy.NewEngine(policy.WithRandom(firstIndex))
}

func backendTeam() map[string][]domain.User {
	return map[string][]domain.User{
		"backend": {
			{ID: "u1", Username: "Alice", IsActive: true},
			{ID: "u2", Username: "Bob", IsActive: true},
			{ID: "u3", Username: "Carol", IsActive: true},
			{ID: "u4", Username: "Dave", IsActive: false},
		},
		"frontend": {
			{ID: "f1", Username: "Eve", IsActive: true},
		},
	}
}
