package postgres

import (
	"context"

	"github.com/AltEgora/avito/internal/domain"
	"github.com/AltEgora/avito/internal/repo"
)

func (t *pgTx) FindUser(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := t.db.QueryRow(ctx,
		`SELECT `+userColumns+`
         FROM users
         WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Username, &u.TeamName, &u.IsActive)
	if err != nil {
		if isNoRows(err) {
			return nil, repo.ErrNotFound
		}
		return nil, dbError("get user by id", err)
	}
	return &u, nil
}
