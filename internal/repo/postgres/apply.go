package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/AltEgora/avito/internal/domain"
	"github.com/AltEgora/avito/internal/repo"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// queued ties one statement of the batch back to the op that produced it.
// A statement with a non-nil onEmpty must affect at least one row.
type queued struct {
	op      repo.Op
	onEmpty error
}

func (t *pgTx) Apply(ctx context.Context, m *repo.Mutations) error {
	ops := m.Ops()
	if len(ops) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	owners := make([]queued, 0, len(ops))
	for _, op := range ops {
		stmts, err := queueOp(batch, op)
		if err != nil {
			return err
		}
		owners = append(owners, stmts...)
	}

	br := t.db.SendBatch(ctx, batch)
	for _, q := range owners {
		tag, err := br.Exec()
		if err != nil {
			// #nosec G104 -- the statement error is the one worth reporting
			_ = br.Close()
			return classify(q.op, err)
		}
		if q.onEmpty != nil && tag.RowsAffected() == 0 {
			_ = br.Close()
			return fmt.Errorf("apply %s: %w", q.op.Kind, q.onEmpty)
		}
	}

	if err := br.Close(); err != nil {
		return dbError("close batch", err)
	}
	return nil
}

func queueOp(batch *pgx.Batch, op repo.Op) ([]queued, error) {
	switch op.Kind {
	case repo.OpCreateTeam:
		batch.Queue(`INSERT INTO teams (name) VALUES ($1)`, op.TeamName)
		return []queued{{op: op}}, nil

	case repo.OpDeleteTeam:
		batch.Queue(`DELETE FROM teams WHERE name = $1`, op.TeamName)
		return []queued{{op: op, onEmpty: repo.ErrNotFound}}, nil

	case repo.OpUpsertUser:
		batch.Queue(`
INSERT INTO users (id, username, team_name, is_active)
VALUES ($1, $2, NULLIF($3, ''), $4)
ON CONFLICT (id) DO UPDATE
SET username = EXCLUDED.username,
    team_name = EXCLUDED.team_name,
    is_active = EXCLUDED.is_active,
    updated_at = now()
`, op.User.ID, op.User.Username, op.User.TeamName, op.User.IsActive)
		return []queued{{op: op}}, nil

	case repo.OpSetUserActive:
		batch.Queue(`UPDATE users
         SET is_active = $2,
             updated_at = now()
         WHERE id = $1`,
			op.UserID, op.Active,
		)
		return []queued{{op: op, onEmpty: repo.ErrNotFound}}, nil

	case repo.OpCreatePullRequest:
		pr := op.PullRequest
		batch.Queue(`INSERT INTO pull_requests (id, name, author_id, status, created_at, merged_at)
         VALUES ($1, $2, $3, $4, $5, $6)`,
			pr.ID, pr.Name, pr.AuthorID, string(pr.Status), pr.CreatedAt, pr.MergedAt,
		)
		out := []queued{{op: op}}
		for _, reviewerID := range pr.AssignedReviewers {
			queueAddReviewer(batch, pr.ID, reviewerID)
			out = append(out, queued{op: op, onEmpty: authorAsReviewer(pr.ID, reviewerID)})
		}
		return out, nil

	case repo.OpMergePullRequest:
		batch.Queue(`UPDATE pull_requests
         SET status = 'MERGED',
             merged_at = COALESCE(merged_at, $2)
         WHERE id = $1`,
			op.PullRequestID, op.At,
		)
		return []queued{{op: op, onEmpty: repo.ErrNotFound}}, nil

	case repo.OpAddReviewer:
		queueAddReviewer(batch, op.PullRequestID, op.UserID)
		return []queued{{op: op, onEmpty: authorAsReviewer(op.PullRequestID, op.UserID)}}, nil

	case repo.OpRemoveReviewer:
		batch.Queue(`DELETE FROM pull_request_reviewers WHERE pr_id = $1 AND reviewer_id = $2`,
			op.PullRequestID, op.UserID,
		)
		return []queued{{op: op}}, nil
	}

	return nil, fmt.Errorf("%w: unknown op %d", repo.ErrPersistence, op.Kind)
}

// queueAddReviewer inserts nothing when the reviewer is the author, so the
// statement affects zero rows.
func queueAddReviewer(batch *pgx.Batch, prID, reviewerID string) {
	batch.Queue(`INSERT INTO pull_request_reviewers (pr_id, reviewer_id)
         SELECT id, $2
         FROM pull_requests
         WHERE id = $1 AND author_id <> $2`,
		prID, reviewerID,
	)
}

func authorAsReviewer(prID, reviewerID string) error {
	return fmt.Errorf("%w: %s cannot review %s", repo.ErrPersistence, reviewerID, prID)
}

func classify(op repo.Op, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation && op.Kind == repo.OpCreateTeam:
			return fmt.Errorf("apply %s: %w", op.Kind,
				domain.NewDomainError(domain.ErrorCodeTeamExists, "team_name already exists"))
		case pgErr.Code == pgUniqueViolation && op.Kind == repo.OpCreatePullRequest && pgErr.TableName == "pull_requests":
			return fmt.Errorf("apply %s: %w", op.Kind,
				domain.NewDomainError(domain.ErrorCodePRExists, "PR id already exists"))
		case pgErr.Code == pgForeignKeyViolation:
			return dbError(fmt.Sprintf("apply %s: missing reference %s", op.Kind, pgErr.ConstraintName), err)
		}
	}
	return dbError(fmt.Sprintf("apply %s", op.Kind), err)
}
