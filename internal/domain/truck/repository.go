// internal/domain/truck/repository.go
package truck

import "context"

type Repository interface {
	// Listings
	Create(ctx context.Context, t *Truck) error
	FindByID(ctx context.Context, id int64) (*Truck, error)
	ListByVendor(ctx context.Context, vendorID int64) ([]Truck, error)
	Search(ctx context.Context, filters *SearchFilters) ([]Truck, error)
	SetActive(ctx context.Context, id, vendorID int64, active bool) error

	// Catalogue
	ListTypes(ctx context.Context) ([]Type, error)
	FindTypeByID(ctx context.Context, id int64) (*Type, error)
}
