// internal/repository/postgres/truck_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"freightline-service/internal/domain/truck"
	xerrors "freightline-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type TruckRepository struct {
	db *pgxpool.Pool
}

func NewTruckRepository(db *pgxpool.Pool) *TruckRepository {
	return &TruckRepository{db: db}
}

var _ truck.Repository = (*TruckRepository)(nil)

const truckColumns = `
	t.id, t.vendor_id, i.full_name, t.model, t.type_id, tt.name,
	t.max_weight_kg, t.gps_number, t.features, t.is_active,
	t.specs, t.pricing, t.created_at, t.updated_at
`

func scanTruck(row pgx.Row) (*truck.Truck, error) {
	var t truck.Truck
	var features []string
	var specsJSON, pricingJSON []byte

	err := row.Scan(
		&t.ID, &t.VendorID, &t.VendorName, &t.Model, &t.TypeID, &t.TypeName,
		&t.MaxWeightKg, &t.GPSNumber, &features, &t.IsActive,
		&specsJSON, &pricingJSON, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan truck: %w", err)
	}

	t.Features = pq.StringArray(features)
	if len(specsJSON) > 0 {
		var specs truck.Specs
		if err := json.Unmarshal(specsJSON, &specs); err == nil {
			t.Specs = &specs
		}
	}
	if len(pricingJSON) > 0 {
		var pricing truck.Pricing
		if err := json.Unmarshal(pricingJSON, &pricing); err == nil {
			t.Pricing = &pricing
		}
	}
	return &t, nil
}

// Create inserts a vendor listing.
func (r *TruckRepository) Create(ctx context.Context, t *truck.Truck) error {
	query := `
		INSERT INTO trucks (vendor_id, model, type_id, max_weight_kg, gps_number, features, is_active, specs, pricing)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	var specsJSON, pricingJSON []byte
	var err error
	if t.Specs != nil {
		if specsJSON, err = json.Marshal(t.Specs); err != nil {
			return fmt.Errorf("failed to marshal specs: %w", err)
		}
	}
	if t.Pricing != nil {
		if pricingJSON, err = json.Marshal(t.Pricing); err != nil {
			return fmt.Errorf("failed to marshal pricing: %w", err)
		}
	}

	err = r.db.QueryRow(
		ctx, query,
		t.VendorID, t.Model, t.TypeID, t.MaxWeightKg, t.GPSNumber,
		[]string(t.Features), t.IsActive, specsJSON, pricingJSON,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create truck: %w", err)
	}
	return nil
}

// FindByID retrieves a listing with vendor and type names joined in.
func (r *TruckRepository) FindByID(ctx context.Context, id int64) (*truck.Truck, error) {
	query := `
		SELECT ` + truckColumns + `
		FROM trucks t
		JOIN identities i ON i.id = t.vendor_id
		JOIN truck_types tt ON tt.id = t.type_id
		WHERE t.id = $1
	`
	return scanTruck(r.db.QueryRow(ctx, query, id))
}

// ListByVendor returns every listing owned by one vendor.
func (r *TruckRepository) ListByVendor(ctx context.Context, vendorID int64) ([]truck.Truck, error) {
	query := `
		SELECT ` + truckColumns + `
		FROM trucks t
		JOIN identities i ON i.id = t.vendor_id
		JOIN truck_types tt ON tt.id = t.type_id
		WHERE t.vendor_id = $1
		ORDER BY t.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trucks: %w", err)
	}
	defer rows.Close()

	return collectTrucks(rows)
}

// Search returns active listings matching the filters, ordered by capacity
// so the tightest fitting trucks come first.
func (r *TruckRepository) Search(ctx context.Context, filters *truck.SearchFilters) ([]truck.Truck, error) {
	query := `
		SELECT ` + truckColumns + `
		FROM trucks t
		JOIN identities i ON i.id = t.vendor_id
		JOIN truck_types tt ON tt.id = t.type_id
		WHERE t.is_active = TRUE
		  AND t.max_weight_kg >= $1
		  AND ($2 = '' OR LOWER(tt.name) = LOWER($2))
		ORDER BY t.max_weight_kg ASC, t.id ASC
	`

	rows, err := r.db.Query(ctx, query, filters.MinWeightKg, filters.TypeName)
	if err != nil {
		return nil, fmt.Errorf("failed to search trucks: %w", err)
	}
	defer rows.Close()

	return collectTrucks(rows)
}

// SetActive toggles a listing; the vendor scope guards against editing
// someone else's truck.
func (r *TruckRepository) SetActive(ctx context.Context, id, vendorID int64, active bool) error {
	query := `UPDATE trucks SET is_active = $3, updated_at = NOW() WHERE id = $1 AND vendor_id = $2`

	tag, err := r.db.Exec(ctx, query, id, vendorID, active)
	if err != nil {
		return fmt.Errorf("failed to update truck status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// ListTypes returns the public truck-type catalogue.
func (r *TruckRepository) ListTypes(ctx context.Context) ([]truck.Type, error) {
	query := `
		SELECT id, name, description, max_weight_kg, image_url, display_order, is_active, created_at
		FROM truck_types
		WHERE is_active = TRUE
		ORDER BY display_order ASC, name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list truck types: %w", err)
	}
	defer rows.Close()

	var types []truck.Type
	for rows.Next() {
		var tt truck.Type
		if err := rows.Scan(
			&tt.ID, &tt.Name, &tt.Description, &tt.MaxWeightKg,
			&tt.ImageURL, &tt.DisplayOrder, &tt.IsActive, &tt.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan truck type: %w", err)
		}
		types = append(types, tt)
	}
	return types, rows.Err()
}

// FindTypeByID retrieves one catalogue entry.
func (r *TruckRepository) FindTypeByID(ctx context.Context, id int64) (*truck.Type, error) {
	query := `
		SELECT id, name, description, max_weight_kg, image_url, display_order, is_active, created_at
		FROM truck_types
		WHERE id = $1
	`

	var tt truck.Type
	err := r.db.QueryRow(ctx, query, id).Scan(
		&tt.ID, &tt.Name, &tt.Description, &tt.MaxWeightKg,
		&tt.ImageURL, &tt.DisplayOrder, &tt.IsActive, &tt.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find truck type: %w", err)
	}
	return &tt, nil
}

func collectTrucks(rows pgx.Rows) ([]truck.Truck, error) {
	var trucks []truck.Truck
	for rows.Next() {
		t, err := scanTruck(rows)
		if err != nil {
			return nil, err
		}
		trucks = append(trucks, *t)
	}
	return trucks, rows.Err()
}
