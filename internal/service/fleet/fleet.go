// internal/service/fleet/fleet.go
package fleet

import (
	"context"
	"fmt"

	"freightline-service/internal/domain/auth"
	"freightline-service/internal/domain/truck"
	xerrors "freightline-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// Service manages vendor truck listings and the public type catalogue.
type Service struct {
	repo   truck.Repository
	logger *zap.Logger
}

func NewService(repo truck.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// AddTruck creates a listing under the caller's fleet.
func (s *Service) AddTruck(ctx context.Context, vendorID int64, role auth.Role, req *truck.CreateTruckRequest) (*truck.Truck, error) {
	if !auth.CanManageFleet(role) {
		return nil, xerrors.ErrForbidden
	}

	if _, err := s.repo.FindTypeByID(ctx, req.TypeID); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return nil, fmt.Errorf("unknown truck type: %w", xerrors.ErrInvalidInput)
		}
		return nil, err
	}

	t := &truck.Truck{
		VendorID:    vendorID,
		Model:       req.Model,
		TypeID:      req.TypeID,
		MaxWeightKg: req.MaxWeightKg,
		GPSNumber:   req.GPSNumber,
		Features:    req.Features,
		IsActive:    true,
		Specs:       req.Specs,
		Pricing:     req.Pricing,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("truck listed",
		zap.Int64("truck_id", t.ID),
		zap.Int64("vendor_id", vendorID),
		zap.String("model", t.Model))
	return s.repo.FindByID(ctx, t.ID)
}

// ListFleet returns the caller's listings.
func (s *Service) ListFleet(ctx context.Context, vendorID int64, role auth.Role) ([]truck.Truck, error) {
	if !auth.CanManageFleet(role) {
		return nil, xerrors.ErrForbidden
	}
	return s.repo.ListByVendor(ctx, vendorID)
}

// SetActive toggles one of the caller's listings. The repository enforces
// the vendor scope.
func (s *Service) SetActive(ctx context.Context, vendorID int64, role auth.Role, truckID int64, active bool) error {
	if !auth.CanManageFleet(role) {
		return xerrors.ErrForbidden
	}
	return s.repo.SetActive(ctx, truckID, vendorID, active)
}

// Types returns the public truck-type catalogue; no authentication needed.
func (s *Service) Types(ctx context.Context) ([]truck.Type, error) {
	return s.repo.ListTypes(ctx)
}
