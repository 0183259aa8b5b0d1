package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-copilot/internal/domain"
)

// SimilarityRepository mirrors similarity rankings into the cross-reference
// table. Writes are best effort: rankings are always recomputed on read, so
// a failed write costs nothing but the audit trail.
type SimilarityRepository interface {
	ReplaceForIssue(ctx context.Context, issueID string, matches []domain.SimilarIssue) error
}

type similarityRepository struct {
	pool *pgxpool.Pool
}

// NewSimilarityRepository instantiates repository.
func NewSimilarityRepository(pool *pgxpool.Pool) SimilarityRepository {
	return &similarityRepository{pool: pool}
}

func (r *similarityRepository) ReplaceForIssue(ctx context.Context, issueID string, matches []domain.SimilarIssue) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM similar_issues WHERE issue_id=$1`, issueID); err != nil {
		return err
	}
	const insert = `
        INSERT INTO similar_issues (issue_id, similar_issue_id, similarity_score)
        VALUES ($1,$2,$3)`
	for _, match := range matches {
		if _, err := tx.Exec(ctx, insert, issueID, match.IssueID, match.SimilarityScore); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
