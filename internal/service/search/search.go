// internal/service/search/search.go
package search

import (
	"context"
	"fmt"
	"time"

	"freightline-service/internal/domain/truck"
	"freightline-service/internal/pkg/currency"
	xerrors "freightline-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// Result is one completed search: the params it ran with, the priced rows,
// and the sequence number that decides which search owns the result view.
type Result struct {
	Seq        int64              `json:"seq"`
	Params     truck.SearchParams `json:"params"`
	Trucks     []truck.Details    `json:"trucks"`
	SearchedAt time.Time          `json:"searched_at"`
}

type Service struct {
	repo   truck.Repository
	store  Store
	logger *zap.Logger
}

func NewService(repo truck.Repository, store Store, logger *zap.Logger) *Service {
	return &Service{repo: repo, store: store, logger: logger}
}

// Search runs a truck search for one identity. Each call takes a fresh
// sequence number up front; only the holder of the highest number may publish
// its results, so when searches overlap the latest-issued one wins regardless
// of which storage call returns first.
func (s *Service) Search(ctx context.Context, identityID int64, params *truck.SearchParams) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	seq, err := s.store.NextSeq(ctx, identityID)
	if err != nil {
		return nil, err
	}

	trucks, err := s.repo.Search(ctx, &truck.SearchFilters{
		TypeName:    params.TruckType,
		MinWeightKg: params.WeightKg(),
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		Seq:        seq,
		Params:     *params,
		Trucks:     make([]truck.Details, 0, len(trucks)),
		SearchedAt: time.Now(),
	}
	for i := range trucks {
		result.Trucks = append(result.Trucks, buildDetails(&trucks[i], params))
	}

	published, err := s.store.PublishResult(ctx, identityID, result)
	if err != nil {
		return nil, err
	}
	if !published {
		return nil, xerrors.ErrSearchSuperseded
	}

	s.logger.Info("search completed",
		zap.Int64("identity_id", identityID),
		zap.Int64("seq", seq),
		zap.Int("results", len(result.Trucks)))
	return result, nil
}

// LatestResults returns the current result view. A nil result with a nil
// error means no search has been run yet; an empty Trucks slice means the
// last search genuinely matched nothing.
func (s *Service) LatestResults(ctx context.Context, identityID int64) (*Result, error) {
	return s.store.LoadResult(ctx, identityID)
}

// FindResult looks a truck up in the latest result view. The cart only ever
// admits trucks that were actually offered to the user.
func (s *Service) FindResult(ctx context.Context, identityID, truckID int64) (*truck.Details, error) {
	result, err := s.LatestResults(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("no search results available: %w", xerrors.ErrNotFound)
	}
	for i := range result.Trucks {
		if result.Trucks[i].TruckID == truckID {
			return &result.Trucks[i], nil
		}
	}
	return nil, fmt.Errorf("truck not in current search results: %w", xerrors.ErrNotFound)
}

// urgencyMultiplier scales the fare; urgent freight pays for priority
// placement, and standard is the baseline.
func urgencyMultiplier(urgency string) float64 {
	switch urgency {
	case truck.UrgencyExpress:
		return 1.25
	case truck.UrgencyUrgent:
		return 1.5
	default:
		return 1.0
	}
}

// transitDays is the rough door-to-door estimate per urgency level.
func transitDays(urgency string) int {
	switch urgency {
	case truck.UrgencyExpress:
		return 3
	case truck.UrgencyUrgent:
		return 1
	default:
		return 5
	}
}

// buildDetails prices one listing for one search. The price is frozen into a
// formatted string here; everything downstream treats it as display text.
func buildDetails(t *truck.Truck, params *truck.SearchParams) truck.Details {
	var amount float64
	if t.Pricing != nil {
		amount = (t.Pricing.BaseFare + t.Pricing.PerKgRate*params.WeightKg()) * urgencyMultiplier(params.Urgency)
	}

	pickup := params.PickupDate
	if pickup.IsZero() {
		pickup = time.Now()
	}

	return truck.Details{
		TruckID:           t.ID,
		VendorID:          t.VendorID,
		VendorName:        t.VendorName,
		Model:             t.Model,
		TypeName:          t.TypeName,
		MaxWeightKg:       t.MaxWeightKg,
		GPSNumber:         t.GPSNumber,
		TotalPrice:        currency.FormatAmount(amount),
		EstimatedDelivery: pickup.AddDate(0, 0, transitDays(params.Urgency)),
		Specs:             t.Specs,
		Pricing:           t.Pricing,
	}
}
