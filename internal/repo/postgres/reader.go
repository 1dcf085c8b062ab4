package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/AltEgora/avito/internal/domain"
	"github.com/AltEgora/avito/internal/repo"
)

type userRow struct {
	ID       string `db:"id"`
	Username string `db:"username"`
	TeamName string `db:"team_name"`
	IsActive bool   `db:"is_active"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:       r.ID,
		Username: r.Username,
		TeamName: r.TeamName,
		IsActive: r.IsActive,
	}
}

type pullRequestRow struct {
	ID        string       `db:"id"`
	Name      string       `db:"name"`
	AuthorID  string       `db:"author_id"`
	Status    string       `db:"status"`
	CreatedAt time.Time    `db:"created_at"`
	MergedAt  sql.NullTime `db:"merged_at"`
}

func (r pullRequestRow) toDomain() domain.PullRequest {
	pr := domain.PullRequest{
		ID:                r.ID,
		Name:              r.Name,
		AuthorID:          r.AuthorID,
		Status:            domain.PRStatus(r.Status),
		AssignedReviewers: make([]string, 0, domain.MaxInitialReviewers),
		CreatedAt:         r.CreatedAt,
	}
	if r.MergedAt.Valid {
		at := r.MergedAt.Time
		pr.MergedAt = &at
	}
	return pr
}

type reviewerRow struct {
	PRID       string `db:"pr_id"`
	ReviewerID string `db:"reviewer_id"`
}

type countRow struct {
	ID  string `db:"id"`
	Cnt int64  `db:"cnt"`
}

const readerUserColumns = `id, username, COALESCE(team_name, '') AS team_name, is_active`

// Reader answers the read-only endpoints without taking row locks.
type Reader struct {
	db *sqlx.DB
}

func NewReader(db *sqlx.DB) *Reader {
	return &Reader{db: db}
}

func (r *Reader) GetTeam(ctx context.Context, name string) (*domain.Team, error) {
	var teamName string
	if err := r.db.GetContext(ctx, &teamName, `SELECT name FROM teams WHERE name = $1`, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, dbError("get team", err)
	}

	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT `+readerUserColumns+`
         FROM users
         WHERE team_name = $1
         ORDER BY id`,
		name,
	); err != nil {
		return nil, dbError("list team members", err)
	}

	members := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.toDomain())
	}
	return &domain.Team{Name: teamName, Members: members}, nil
}

func (r *Reader) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row,
		`SELECT `+readerUserColumns+` FROM users WHERE id = $1`,
		id,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, dbError("get user by id", err)
	}
	u := row.toDomain()
	return &u, nil
}

func (r *Reader) GetPullRequest(ctx context.Context, id string) (*domain.PullRequest, error) {
	var row pullRequestRow
	if err := r.db.GetContext(ctx, &row,
		`SELECT id, name, author_id, status, created_at, merged_at
         FROM pull_requests
         WHERE id = $1`,
		id,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, dbError("get pull_request", err)
	}

	prs := []domain.PullRequest{row.toDomain()}
	if err := r.hydrateReviewers(ctx, prs); err != nil {
		return nil, err
	}
	return &prs[0], nil
}

func (r *Reader) ListOpenPullRequestsByReviewer(ctx context.Context, userID string) ([]domain.PullRequest, error) {
	var rows []pullRequestRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT p.id, p.name, p.author_id, p.status, p.created_at, p.merged_at
         FROM pull_requests p
         INNER JOIN pull_request_reviewers r
             ON p.id = r.pr_id
         WHERE r.reviewer_id = $1 AND p.status = 'OPEN'
         ORDER BY p.created_at DESC, p.id`,
		userID,
	); err != nil {
		return nil, dbError("list pull_requests by reviewer", err)
	}

	prs := make([]domain.PullRequest, 0, len(rows))
	for _, row := range rows {
		prs = append(prs, row.toDomain())
	}
	if err := r.hydrateReviewers(ctx, prs); err != nil {
		return nil, err
	}
	return prs, nil
}

func (r *Reader) hydrateReviewers(ctx context.Context, prs []domain.PullRequest) error {
	if len(prs) == 0 {
		return nil
	}

	index := make(map[string]int, len(prs))
	ids := make([]string, 0, len(prs))
	for i, pr := range prs {
		index[pr.ID] = i
		ids = append(ids, pr.ID)
	}

	var rows []reviewerRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT pr_id, reviewer_id
         FROM pull_request_reviewers
         WHERE pr_id = ANY($1)
         ORDER BY pr_id, reviewer_id`,
		pq.Array(ids),
	); err != nil {
		return dbError("list reviewers", err)
	}

	for _, row := range rows {
		if i, ok := index[row.PRID]; ok {
			prs[i].AssignedReviewers = append(prs[i].AssignedReviewers, row.ReviewerID)
		}
	}
	return nil
}

func (r *Reader) CountAssignmentsByReviewer(ctx context.Context) (map[string]int64, error) {
	return r.countBy(ctx, "count assignments by reviewer",
		`SELECT reviewer_id AS id, COUNT(*) AS cnt
         FROM pull_request_reviewers
         GROUP BY reviewer_id
         ORDER BY reviewer_id`,
	)
}

func (r *Reader) CountAssignmentsByPR(ctx context.Context) (map[string]int64, error) {
	return r.countBy(ctx, "count assignments by pr",
		`SELECT pr_id AS id, COUNT(*) AS cnt
         FROM pull_request_reviewers
         GROUP BY pr_id
         ORDER BY pr_id`,
	)
}

func (r *Reader) countBy(ctx context.Context, action, query string) (map[string]int64, error) {
	var rows []countRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, dbError(action, err)
	}

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.ID] = row.Cnt
	}
	return result, nil
}
