package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-copilot/internal/domain"
)

// ExecutiveRepository encapsulates support executive persistence.
type ExecutiveRepository interface {
	Create(ctx context.Context, exec *domain.SupportExecutive) error
	GetByID(ctx context.Context, id string) (*domain.SupportExecutive, error)
	GetByEmail(ctx context.Context, email string) (*domain.SupportExecutive, error)
}

type executiveRepository struct {
	pool *pgxpool.Pool
}

// NewExecutiveRepository instantiates repository.
func NewExecutiveRepository(pool *pgxpool.Pool) ExecutiveRepository {
	return &executiveRepository{pool: pool}
}

func (r *executiveRepository) Create(ctx context.Context, exec *domain.SupportExecutive) error {
	const query = `
        INSERT INTO support_executives (name, email, password_hash, role)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		exec.Name,
		exec.Email,
		exec.PasswordHash,
		exec.Role,
	).Scan(&exec.ID, &exec.CreatedAt)
}

func (r *executiveRepository) GetByID(ctx context.Context, id string) (*domain.SupportExecutive, error) {
	const query = `
        SELECT id, name, email, password_hash, role, created_at
        FROM support_executives WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *executiveRepository) GetByEmail(ctx context.Context, email string) (*domain.SupportExecutive, error) {
	const query = `
        SELECT id, name, email, password_hash, role, created_at
        FROM support_executives WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *executiveRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.SupportExecutive, error) {
	var exec domain.SupportExecutive
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&exec.ID,
		&exec.Name,
		&exec.Email,
		&exec.PasswordHash,
		&exec.Role,
		&exec.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &exec, nil
}
