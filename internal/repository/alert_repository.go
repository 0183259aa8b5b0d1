package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-copilot/internal/domain"
)

// AlertRepository encapsulates critical alert persistence.
type AlertRepository interface {
	Create(ctx context.Context, alert *domain.CriticalAlert) error
	GetByID(ctx context.Context, id string) (*domain.CriticalAlert, error)
	ListActive(ctx context.Context, limit, offset int) ([]domain.ActiveAlertView, error)
	ListActiveByCustomer(ctx context.Context, customerID string) ([]domain.CriticalAlert, error)
	Acknowledge(ctx context.Context, id, acknowledgedBy string, at time.Time) error
}

type alertRepository struct {
	pool *pgxpool.Pool
}

// NewAlertRepository instantiates repository.
func NewAlertRepository(pool *pgxpool.Pool) AlertRepository {
	return &alertRepository{pool: pool}
}

func (r *alertRepository) Create(ctx context.Context, alert *domain.CriticalAlert) error {
	const query = `
        INSERT INTO critical_alerts (issue_id, customer_id, alert_type, severity, message, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		alert.IssueID,
		alert.CustomerID,
		alert.Type,
		alert.Severity,
		alert.Message,
		alert.Status,
	).Scan(&alert.ID, &alert.CreatedAt)
}

func (r *alertRepository) GetByID(ctx context.Context, id string) (*domain.CriticalAlert, error) {
	const query = `
        SELECT id, issue_id, customer_id, alert_type, severity, message, status,
               created_at, acknowledged_at, acknowledged_by, resolved_at
        FROM critical_alerts WHERE id=$1`
	var alert domain.CriticalAlert
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&alert.ID,
		&alert.IssueID,
		&alert.CustomerID,
		&alert.Type,
		&alert.Severity,
		&alert.Message,
		&alert.Status,
		&alert.CreatedAt,
		&alert.AcknowledgedAt,
		&alert.AcknowledgedBy,
		&alert.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &alert, nil
}

// ListActive returns active alerts joined with issue and customer context,
// newest first. Customer-scoped alerts carry no issue, so the join is left.
func (r *alertRepository) ListActive(ctx context.Context, limit, offset int) ([]domain.ActiveAlertView, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT a.id, a.issue_id, a.customer_id, a.alert_type, a.severity, a.message, a.status,
               a.created_at, a.acknowledged_at, a.acknowledged_by, a.resolved_at,
               COALESCE(i.title, ''), COALESCE(i.severity, ''),
               c.name, c.company
        FROM critical_alerts a
        LEFT JOIN issues i ON i.id = a.issue_id
        JOIN customers c ON c.id = a.customer_id
        WHERE a.status='Active'
        ORDER BY a.created_at DESC
        LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ActiveAlertView
	for rows.Next() {
		var view domain.ActiveAlertView
		if err := rows.Scan(
			&view.Alert.ID,
			&view.Alert.IssueID,
			&view.Alert.CustomerID,
			&view.Alert.Type,
			&view.Alert.Severity,
			&view.Alert.Message,
			&view.Alert.Status,
			&view.Alert.CreatedAt,
			&view.Alert.AcknowledgedAt,
			&view.Alert.AcknowledgedBy,
			&view.Alert.ResolvedAt,
			&view.IssueTitle,
			&view.IssueSeverity,
			&view.CustomerName,
			&view.Company,
		); err != nil {
			return nil, err
		}
		result = append(result, view)
	}
	return result, rows.Err()
}

func (r *alertRepository) ListActiveByCustomer(ctx context.Context, customerID string) ([]domain.CriticalAlert, error) {
	const query = `
        SELECT id, issue_id, customer_id, alert_type, severity, message, status,
               created_at, acknowledged_at, acknowledged_by, resolved_at
        FROM critical_alerts
        WHERE customer_id=$1 AND status='Active'
        ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CriticalAlert
	for rows.Next() {
		var alert domain.CriticalAlert
		if err := rows.Scan(
			&alert.ID,
			&alert.IssueID,
			&alert.CustomerID,
			&alert.Type,
			&alert.Severity,
			&alert.Message,
			&alert.Status,
			&alert.CreatedAt,
			&alert.AcknowledgedAt,
			&alert.AcknowledgedBy,
			&alert.ResolvedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, alert)
	}
	return result, rows.Err()
}

// Acknowledge moves an Active alert to Acknowledged. Alerts in any other
// state are left untouched and pgx.ErrNoRows is returned.
func (r *alertRepository) Acknowledge(ctx context.Context, id, acknowledgedBy string, at time.Time) error {
	const query = `
        UPDATE critical_alerts SET status='Acknowledged', acknowledged_by=$1, acknowledged_at=$2
        WHERE id=$3 AND status='Active'`
	cmd, err := r.pool.Exec(ctx, query, acknowledgedBy, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
