package postgres

import (
	"context"

	"github.com/AltEgora/avito/internal/domain"
	"github.com/AltEgora/avito/internal/repo"
)

const userColumns = `id, username, COALESCE(team_name, ''), is_active`

func (t *pgTx) FindTeam(ctx context.Context, name string, lock repo.LockMode) (*domain.Team, error) {
	var teamName string
	err := t.db.QueryRow(ctx,
		`SELECT name FROM teams WHERE name = $1`+lockClause(lock),
		name,
	).Scan(&teamName)
	if err != nil {
		if isNoRows(err) {
			return nil, repo.ErrNotFound
		}
		return nil, dbError("get team", err)
	}

	members, err := t.queryUsers(ctx,
		`SELECT `+userColumns+`
         FROM users
         WHERE team_name = $1
         ORDER BY id`,
		name,
	)
	if err != nil {
		return nil, err
	}

	return &domain.Team{
		Name:    teamName,
		Members: members,
	}, nil
}

func (t *pgTx) ListActiveUsersInTeam(ctx context.Context, teamName string, excluding []string) ([]domain.User, error) {
	if excluding == nil {
		excluding = []string{}
	}
	return t.queryUsers(ctx,
		`SELECT `+userColumns+`
         FROM users
         WHERE team_name = $1
           AND is_active
           AND NOT (id = ANY($2))
         ORDER BY id`,
		teamName, excluding,
	)
}

func (t *pgTx) queryUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := t.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError("list users", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.TeamName, &u.IsActive); err != nil {
			return nil, dbError("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("iterate users", err)
	}

	return users, nil
}
