package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/donation-service/internal/domain"
)

// FundingRepository persists the append-only funding ledger.
type FundingRepository interface {
	Create(ctx context.Context, funding *domain.Funding) error
	List(ctx context.Context, limit, offset int) ([]domain.Funding, error)
	Total(ctx context.Context) (float64, error)
}

type fundingRepository struct {
	pool *pgxpool.Pool
}

// NewFundingRepository instantiates repository.
func NewFundingRepository(pool *pgxpool.Pool) FundingRepository {
	return &fundingRepository{pool: pool}
}

func (r *fundingRepository) Create(ctx context.Context, funding *domain.Funding) error {
	const query = `
        INSERT INTO fundings (id, donor_email, donor_name, amount, currency, transaction_id, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err := r.pool.Exec(ctx, query,
		funding.ID,
		funding.DonorEmail,
		funding.DonorName,
		funding.Amount,
		funding.Currency,
		funding.TransactionID,
		funding.Timestamp,
	)
	return err
}

func (r *fundingRepository) List(ctx context.Context, limit, offset int) ([]domain.Funding, error) {
	query := `
        SELECT id, donor_email, donor_name, amount::float8, currency, transaction_id, created_at
        FROM fundings ORDER BY id DESC`
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Funding{}
	for rows.Next() {
		var f domain.Funding
		if err := rows.Scan(
			&f.ID,
			&f.DonorEmail,
			&f.DonorName,
			&f.Amount,
			&f.Currency,
			&f.TransactionID,
			&f.Timestamp,
		); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

func (r *fundingRepository) Total(ctx context.Context) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0)::float8 FROM fundings`).Scan(&total)
	return total, err
}
