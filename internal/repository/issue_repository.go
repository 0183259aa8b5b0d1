package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-copilot/internal/domain"
)

const issueColumns = `id, customer_id, title, description, category, product_area,
        severity, status, priority, tags, created_at, updated_at,
        resolved_at, resolution_hours, satisfaction_rating`

// IssueFilter captures listing parameters.
type IssueFilter struct {
	CustomerID  *string
	Statuses    []domain.IssueStatus
	Severities  []domain.Severity
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// IssueRepository encapsulates issue persistence.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	UpdateTriage(ctx context.Context, id string, severity domain.Severity, priority int, tags domain.Tags) error
	UpdateStatus(ctx context.Context, issue *domain.Issue) error
	ListWithFilter(ctx context.Context, filter IssueFilter) ([]domain.Issue, error)
	ListResolvedCorpus(ctx context.Context, limit int) ([]domain.Issue, error)
	ListForDetection(ctx context.Context, customerID string, since time.Time) ([]domain.Issue, error)
	CustomersWithActiveIssues(ctx context.Context) ([]string, error)
	RecentByCustomer(ctx context.Context, customerID string, limit int) ([]domain.IssueRef, error)
	StatsForCustomer(ctx context.Context, customerID string) (domain.IssueStats, error)
	StatsByCustomer(ctx context.Context) ([]domain.CustomerRiskRow, error)
	CountsBySeverity(ctx context.Context, since time.Time) (map[domain.Severity]int, error)
	CountsByStatus(ctx context.Context) (map[domain.IssueStatus]int, error)
}

type issueRepository struct {
	pool *pgxpool.Pool
}

// NewIssueRepository instantiates repository.
func NewIssueRepository(pool *pgxpool.Pool) IssueRepository {
	return &issueRepository{pool: pool}
}

func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	const query = `
        INSERT INTO issues (customer_id, title, description, category, product_area, severity, status, priority, tags)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		issue.CustomerID,
		issue.Title,
		issue.Description,
		issue.Category,
		issue.ProductArea,
		issue.Severity,
		issue.Status,
		issue.Priority,
		issue.Tags,
	).Scan(&issue.ID, &issue.CreatedAt, &issue.UpdatedAt)
}

func (r *issueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	query := fmt.Sprintf(`SELECT %s FROM issues WHERE id=$1`, issueColumns)
	var issue domain.Issue
	if err := r.pool.QueryRow(ctx, query, id).Scan(issueFields(&issue)...); err != nil {
		return nil, err
	}
	return &issue, nil
}

// UpdateTriage writes the analysis outcome. Severity, priority and tags
// change together so a reader never observes a half-applied analysis.
func (r *issueRepository) UpdateTriage(ctx context.Context, id string, severity domain.Severity, priority int, tags domain.Tags) error {
	const query = `
        UPDATE issues SET severity=$1, priority=$2, tags=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, severity, priority, tags, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *issueRepository) UpdateStatus(ctx context.Context, issue *domain.Issue) error {
	const query = `
        UPDATE issues SET status=$1, resolved_at=$2, resolution_hours=$3, satisfaction_rating=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		issue.Status,
		issue.ResolvedAt,
		issue.ResolutionHours,
		issue.SatisfactionRating,
		issue.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *issueRepository) ListWithFilter(ctx context.Context, filter IssueFilter) ([]domain.Issue, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Severities) > 0 {
		placeholders := make([]string, len(filter.Severities))
		for i, sev := range filter.Severities {
			args = append(args, sev)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("severity IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM issues WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		issueColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

// ListResolvedCorpus returns the most recently resolved issues used as the
// similarity-ranking corpus. The limit bounds memory for the vectorizer.
func (r *issueRepository) ListResolvedCorpus(ctx context.Context, limit int) ([]domain.Issue, error) {
	if limit <= 0 {
		limit = 1000
	}
	query := fmt.Sprintf(`
        SELECT %s FROM issues
        WHERE status='Resolved' AND resolution_hours IS NOT NULL
        ORDER BY resolved_at DESC LIMIT %d`, issueColumns, limit)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

// ListForDetection returns a customer's issues relevant to critical
// condition checks: anything still active plus anything created since the
// given cutoff.
func (r *issueRepository) ListForDetection(ctx context.Context, customerID string, since time.Time) ([]domain.Issue, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM issues
        WHERE customer_id=$1 AND (status IN ('Open','In Progress') OR created_at >= $2)
        ORDER BY created_at DESC`, issueColumns)
	rows, err := r.pool.Query(ctx, query, customerID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

// CustomersWithActiveIssues lists customers holding at least one issue
// still in an active state. Used by the periodic detection sweep.
func (r *issueRepository) CustomersWithActiveIssues(ctx context.Context) ([]string, error) {
	const query = `
        SELECT DISTINCT customer_id FROM issues
        WHERE status IN ('Open','In Progress')`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *issueRepository) RecentByCustomer(ctx context.Context, customerID string, limit int) ([]domain.IssueRef, error) {
	if limit <= 0 {
		limit = 5
	}
	query := fmt.Sprintf(`
        SELECT id, title, severity, status, created_at
        FROM issues WHERE customer_id=$1
        ORDER BY created_at DESC LIMIT %d`, limit)
	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []domain.IssueRef
	for rows.Next() {
		var ref domain.IssueRef
		if err := rows.Scan(&ref.ID, &ref.Title, &ref.Severity, &ref.Status, &ref.CreatedAt); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

const statsSelect = `
        COUNT(*),
        COUNT(*) FILTER (WHERE status IN ('Resolved','Closed')),
        COUNT(*) FILTER (WHERE status IN ('Open','In Progress')),
        COUNT(*) FILTER (WHERE severity='Critical'),
        COUNT(*) FILTER (WHERE severity='High'),
        COUNT(*) FILTER (WHERE created_at >= NOW() - INTERVAL '30 days'),
        COALESCE(AVG(resolution_hours), 0),
        AVG(satisfaction_rating),
        MAX(created_at)`

func (r *issueRepository) StatsForCustomer(ctx context.Context, customerID string) (domain.IssueStats, error) {
	query := fmt.Sprintf(`SELECT %s FROM issues WHERE customer_id=$1`, statsSelect)
	var stats domain.IssueStats
	err := r.pool.QueryRow(ctx, query, customerID).Scan(
		&stats.TotalIssues,
		&stats.ResolvedIssues,
		&stats.OpenIssues,
		&stats.CriticalIssues,
		&stats.HighIssues,
		&stats.RecentIssues,
		&stats.AvgResolutionHrs,
		&stats.AvgSatisfaction,
		&stats.LastIssueAt,
	)
	return stats, err
}

// StatsByCustomer aggregates every customer's issue counts for the risk
// report. Customers with no issues are included with zero stats.
func (r *issueRepository) StatsByCustomer(ctx context.Context) ([]domain.CustomerRiskRow, error) {
	const query = `
        SELECT c.id, c.name, c.company, c.tier,
               COUNT(i.id),
               COUNT(i.id) FILTER (WHERE i.status IN ('Resolved','Closed')),
               COUNT(i.id) FILTER (WHERE i.status IN ('Open','In Progress')),
               COUNT(i.id) FILTER (WHERE i.severity='Critical'),
               COUNT(i.id) FILTER (WHERE i.severity='High'),
               COUNT(i.id) FILTER (WHERE i.created_at >= NOW() - INTERVAL '30 days'),
               COALESCE(AVG(i.resolution_hours), 0),
               AVG(i.satisfaction_rating),
               MAX(i.created_at)
        FROM customers c
        LEFT JOIN issues i ON i.customer_id = c.id
        GROUP BY c.id, c.name, c.company, c.tier
        ORDER BY c.name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CustomerRiskRow
	for rows.Next() {
		var row domain.CustomerRiskRow
		if err := rows.Scan(
			&row.CustomerID,
			&row.CustomerName,
			&row.Company,
			&row.Tier,
			&row.Stats.TotalIssues,
			&row.Stats.ResolvedIssues,
			&row.Stats.OpenIssues,
			&row.Stats.CriticalIssues,
			&row.Stats.HighIssues,
			&row.Stats.RecentIssues,
			&row.Stats.AvgResolutionHrs,
			&row.Stats.AvgSatisfaction,
			&row.Stats.LastIssueAt,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *issueRepository) CountsBySeverity(ctx context.Context, since time.Time) (map[domain.Severity]int, error) {
	const query = `
        SELECT severity, COUNT(*) FROM issues
        WHERE created_at >= $1 GROUP BY severity`
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.Severity]int)
	for rows.Next() {
		var sev domain.Severity
		var count int
		if err := rows.Scan(&sev, &count); err != nil {
			return nil, err
		}
		counts[sev] = count
	}
	return counts, rows.Err()
}

func (r *issueRepository) CountsByStatus(ctx context.Context) (map[domain.IssueStatus]int, error) {
	const query = `SELECT status, COUNT(*) FROM issues GROUP BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.IssueStatus]int)
	for rows.Next() {
		var status domain.IssueStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func issueFields(issue *domain.Issue) []any {
	return []any{
		&issue.ID,
		&issue.CustomerID,
		&issue.Title,
		&issue.Description,
		&issue.Category,
		&issue.ProductArea,
		&issue.Severity,
		&issue.Status,
		&issue.Priority,
		&issue.Tags,
		&issue.CreatedAt,
		&issue.UpdatedAt,
		&issue.ResolvedAt,
		&issue.ResolutionHours,
		&issue.SatisfactionRating,
	}
}

func scanIssues(rows pgx.Rows) ([]domain.Issue, error) {
	var result []domain.Issue
	for rows.Next() {
		var issue domain.Issue
		if err := rows.Scan(issueFields(&issue)...); err != nil {
			return nil, err
		}
		result = append(result, issue)
	}
	return result, rows.Err()
}
