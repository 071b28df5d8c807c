// internal/repository/postgres/quotation_request_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"freightline-service/internal/domain/order"
	"freightline-service/internal/domain/truck"
	xerrors "freightline-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type QuotationRequestRepository struct {
	db *pgxpool.Pool
}

func NewQuotationRequestRepository(db *pgxpool.Pool) *QuotationRequestRepository {
	return &QuotationRequestRepository{db: db}
}

const requestColumns = `
	id, reference, customer_id, vendor_id, vendor_name, items, total_amount,
	search_params, origin_pincode, dest_pincode, status, decided_by, decided_at,
	created_at, updated_at
`

func scanRequest(row pgx.Row) (*order.QuotationRequest, error) {
	var req order.QuotationRequest
	var itemsJSON, searchJSON []byte
	var status string

	err := row.Scan(
		&req.ID, &req.Reference, &req.CustomerID, &req.VendorID, &req.VendorName,
		&itemsJSON, &req.TotalAmount, &searchJSON, &req.OriginPincode, &req.DestPincode,
		&status, &req.DecidedBy, &req.DecidedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan quotation request: %w", err)
	}

	req.Status = order.Status(status)
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &req.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal request items: %w", err)
		}
	}
	if len(searchJSON) > 0 {
		var search truck.SearchParams
		if err := json.Unmarshal(searchJSON, &search); err == nil {
			req.Search = &search
		}
	}
	return &req, nil
}

// Create persists a submitted quotation as a new pending request. Every
// submission is a new row; there is no idempotence at this layer.
func (r *QuotationRequestRepository) Create(ctx context.Context, req *order.QuotationRequest) error {
	query := `
		INSERT INTO quotation_requests (
			reference, customer_id, vendor_id, vendor_name, items, total_amount,
			search_params, origin_pincode, dest_pincode, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	itemsJSON, err := json.Marshal(req.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal request items: %w", err)
	}

	var searchJSON []byte
	if req.Search != nil {
		if searchJSON, err = json.Marshal(req.Search); err != nil {
			return fmt.Errorf("failed to marshal search params: %w", err)
		}
	}

	err = r.db.QueryRow(
		ctx, query,
		req.Reference, req.CustomerID, req.VendorID, req.VendorName, itemsJSON,
		req.TotalAmount, searchJSON, req.OriginPincode, req.DestPincode, string(req.Status),
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create quotation request: %w", err)
	}
	return nil
}

// FindByID retrieves a request.
func (r *QuotationRequestRepository) FindByID(ctx context.Context, id int64) (*order.QuotationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM quotation_requests WHERE id = $1`
	return scanRequest(r.db.QueryRow(ctx, query, id))
}

// FindByReference retrieves a request by its public reference.
func (r *QuotationRequestRepository) FindByReference(ctx context.Context, reference string) (*order.QuotationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM quotation_requests WHERE reference = $1`
	return scanRequest(r.db.QueryRow(ctx, query, reference))
}

// ListByCustomer returns a customer's requests, newest first.
func (r *QuotationRequestRepository) ListByCustomer(ctx context.Context, customerID int64) ([]order.QuotationRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM quotation_requests
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, customerID)
}

// ListByVendor returns the requests addressed to a vendor, newest first.
func (r *QuotationRequestRepository) ListByVendor(ctx context.Context, vendorID int64) ([]order.QuotationRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM quotation_requests
		WHERE vendor_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, vendorID)
}

// ListAll returns every request, newest first (admin/manager view).
func (r *QuotationRequestRepository) ListAll(ctx context.Context) ([]order.QuotationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM quotation_requests ORDER BY created_at DESC`
	return r.list(ctx, query)
}

// Decide moves a pending request to its final status. The status guard is in
// the statement itself, so a request that was decided concurrently comes
// back as ErrAlreadyDecided rather than being overwritten.
func (r *QuotationRequestRepository) Decide(ctx context.Context, id int64, status order.Status, decidedBy int64, at time.Time) error {
	query := `
		UPDATE quotation_requests
		SET status = $2, decided_by = $3, decided_at = $4, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := r.db.Exec(ctx, query, id, string(status), decidedBy, at)
	if err != nil {
		return fmt.Errorf("failed to decide quotation request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// either missing or already decided; disambiguate for the caller
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return xerrors.ErrAlreadyDecided
	}
	return nil
}

func (r *QuotationRequestRepository) list(ctx context.Context, query string, args ...any) ([]order.QuotationRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotation requests: %w", err)
	}
	defer rows.Close()

	var requests []order.QuotationRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}
