package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/AltEgora/avito/internal/domain"
	"github.com/AltEgora/avito/internal/repo"
)

const prColumns = `p.id, p.name, p.author_id, p.status, p.created_at, p.merged_at`

func scanPullRequest(row pgx.Row) (domain.PullRequest, error) {
	var (
		pr       domain.PullRequest
		status   string
		mergedAt *time.Time
	)
	if err := row.Scan(&pr.ID, &pr.Name, &pr.AuthorID, &status, &pr.CreatedAt, &mergedAt); err != nil {
		return domain.PullRequest{}, err
	}
	pr.Status = domain.PRStatus(status)
	pr.MergedAt = mergedAt
	pr.AssignedReviewers = make([]string, 0, domain.MaxInitialReviewers)
	return pr, nil
}

func (t *pgTx) FindPullRequest(ctx context.Context, id string) (*domain.PullRequest, error) {
	pr, err := scanPullRequest(t.db.QueryRow(ctx,
		`SELECT `+prColumns+`
         FROM pull_requests p
         WHERE p.id = $1
         FOR UPDATE`,
		id,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, repo.ErrNotFound
		}
		return nil, dbError("get pull_request", err)
	}

	prs := []domain.PullRequest{pr}
	if err := t.loadReviewers(ctx, prs); err != nil {
		return nil, err
	}
	return &prs[0], nil
}

func (t *pgTx) ListOpenPullRequestsWithAnyReviewerIn(ctx context.Context, ids []string) ([]domain.PullRequest, error) {
	result := make([]domain.PullRequest, 0)
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := t.db.Query(ctx,
		`SELECT `+prColumns+`
         FROM pull_requests p
         WHERE p.status = 'OPEN'
           AND EXISTS (
               SELECT 1
               FROM pull_request_reviewers r
               WHERE r.pr_id = p.id AND r.reviewer_id = ANY($1)
           )
         ORDER BY p.id
         FOR UPDATE OF p`,
		ids,
	)
	if err != nil {
		return nil, dbError("select affected pull requests", err)
	}
	defer rows.Close()

	for rows.Next() {
		pr, err := scanPullRequest(rows)
		if err != nil {
			return nil, dbError("scan affected pull request", err)
		}
		result = append(result, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("iterate affected pull requests", err)
	}

	if err := t.loadReviewers(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// loadReviewers fills AssignedReviewers of every pull request in prs.
func (t *pgTx) loadReviewers(ctx context.Context, prs []domain.PullRequest) error {
	if len(prs) == 0 {
		return nil
	}

	index := make(map[string]int, len(prs))
	prIDs := make([]string, 0, len(prs))
	for i, pr := range prs {
		index[pr.ID] = i
		prIDs = append(prIDs, pr.ID)
	}

	rows, err := t.db.Query(ctx,
		`SELECT pr_id, reviewer_id
         FROM pull_request_reviewers
         WHERE pr_id = ANY($1)
         ORDER BY pr_id, reviewer_id`,
		prIDs,
	)
	if err != nil {
		return dbError("list reviewers", err)
	}
	defer rows.Close()

	for rows.Next() {
		var prID, reviewerID string
		if err := rows.Scan(&prID, &reviewerID); err != nil {
			return dbError("scan reviewer_id", err)
		}
		if i, ok := index[prID]; ok {
			prs[i].AssignedReviewers = append(prs[i].AssignedReviewers, reviewerID)
		}
	}
	if err := rows.Err(); err != nil {
		return dbError("iterate reviewers", err)
	}
	return nil
}
