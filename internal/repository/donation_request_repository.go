package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/donation-service/internal/domain"
)

// DonationRequestFilter narrows request listings. Results are in storage order.
type DonationRequestFilter struct {
	RequesterEmail *string
	Status         *domain.DonationStatus
	Limit          int
	Offset         int
}

// DonationRequestRepository encapsulates donation request persistence.
type DonationRequestRepository interface {
	Create(ctx context.Context, req *domain.DonationRequest) error
	Update(ctx context.Context, req *domain.DonationRequest) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.DonationRequest, error)
	List(ctx context.Context, filter DonationRequestFilter) ([]domain.DonationRequest, error)
	Count(ctx context.Context) (int64, error)
}

type donationRequestRepository struct {
	pool *pgxpool.Pool
}

// NewDonationRequestRepository instantiates repository.
func NewDonationRequestRepository(pool *pgxpool.Pool) DonationRequestRepository {
	return &donationRequestRepository{pool: pool}
}

const donationRequestColumns = `id, requester_email, requester_name, recipient_name, blood_group, district, upazila,
        hospital, address, donation_date, donation_time, message, donation_status, donor_name, donor_email,
        extra, created_at, updated_at`

func scanDonationRequest(row pgx.Row, req *domain.DonationRequest) error {
	var donorName, donorEmail *string
	if err := row.Scan(
		&req.ID,
		&req.RequesterEmail,
		&req.RequesterName,
		&req.RecipientName,
		&req.BloodGroup,
		&req.District,
		&req.Upazila,
		&req.Hospital,
		&req.Address,
		&req.DonationDate,
		&req.DonationTime,
		&req.Message,
		&req.Status,
		&donorName,
		&donorEmail,
		&req.Extra,
		&req.CreatedAt,
		&req.UpdatedAt,
	); err != nil {
		return err
	}
	if donorEmail != nil {
		req.DonorInfo = &domain.DonorInfo{Email: *donorEmail}
		if donorName != nil {
			req.DonorInfo.Name = *donorName
		}
	}
	return nil
}

func donorColumns(info *domain.DonorInfo) (name, email *string) {
	if info == nil {
		return nil, nil
	}
	return &info.Name, &info.Email
}

func extraOrEmpty(extra map[string]any) map[string]any {
	if extra == nil {
		return map[string]any{}
	}
	return extra
}

func (r *donationRequestRepository) Create(ctx context.Context, req *domain.DonationRequest) error {
	const query = `
        INSERT INTO donation_requests (id, requester_email, requester_name, recipient_name, blood_group, district, upazila,
            hospital, address, donation_date, donation_time, message, donation_status, donor_name, donor_email, extra)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
        RETURNING created_at, updated_at`

	donorName, donorEmail := donorColumns(req.DonorInfo)
	return r.pool.QueryRow(ctx, query,
		req.ID,
		req.RequesterEmail,
		req.RequesterName,
		req.RecipientName,
		req.BloodGroup,
		req.District,
		req.Upazila,
		req.Hospital,
		req.Address,
		req.DonationDate,
		req.DonationTime,
		req.Message,
		req.Status,
		donorName,
		donorEmail,
		extraOrEmpty(req.Extra),
	).Scan(&req.CreatedAt, &req.UpdatedAt)
}

func (r *donationRequestRepository) Update(ctx context.Context, req *domain.DonationRequest) error {
	const query = `
        UPDATE donation_requests
        SET requester_name=$1, recipient_name=$2, blood_group=$3, district=$4, upazila=$5, hospital=$6, address=$7,
            donation_date=$8, donation_time=$9, message=$10, donation_status=$11, donor_name=$12, donor_email=$13,
            extra=$14, updated_at=NOW()
        WHERE id=$15
        RETURNING updated_at`

	donorName, donorEmail := donorColumns(req.DonorInfo)
	return r.pool.QueryRow(ctx, query,
		req.RequesterName,
		req.RecipientName,
		req.BloodGroup,
		req.District,
		req.Upazila,
		req.Hospital,
		req.Address,
		req.DonationDate,
		req.DonationTime,
		req.Message,
		req.Status,
		donorName,
		donorEmail,
		extraOrEmpty(req.Extra),
		req.ID,
	).Scan(&req.UpdatedAt)
}

func (r *donationRequestRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM donation_requests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *donationRequestRepository) GetByID(ctx context.Context, id string) (*domain.DonationRequest, error) {
	query := `SELECT ` + donationRequestColumns + ` FROM donation_requests WHERE id=$1`

	var req domain.DonationRequest
	if err := scanDonationRequest(r.pool.QueryRow(ctx, query, id), &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *donationRequestRepository) List(ctx context.Context, filter DonationRequestFilter) ([]domain.DonationRequest, error) {
	query := `SELECT ` + donationRequestColumns + ` FROM donation_requests`
	args := []any{}
	clauses := []string{}

	if filter.RequesterEmail != nil {
		args = append(args, *filter.RequesterEmail)
		clauses = append(clauses, fmt.Sprintf("requester_email=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("donation_status=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	// ids are ULIDs, so this is insertion order
	query += " ORDER BY id"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.DonationRequest{}
	for rows.Next() {
		var req domain.DonationRequest
		if err := scanDonationRequest(rows, &req); err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

func (r *donationRequestRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM donation_requests`).Scan(&n)
	return n, err
}
