// internal/service/cart/cart.go
package cart

import (
	"context"
	"fmt"
	"sync"

	"freightline-service/internal/domain/quotation"
	"freightline-service/internal/domain/truck"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service mediates all cart access. Concurrent reads of the same cart are
// collapsed through a singleflight group; mutations take a per-identity lock
// so racing load-mutate-save cycles cannot clobber each other's writes.
type Service struct {
	store  Store
	reads  singleflight.Group
	locks  sync.Map // identityID -> *sync.Mutex
	logger *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Get returns the identity's current quotation, empty if none exists.
func (s *Service) Get(ctx context.Context, identityID int64) (*quotation.Quotation, error) {
	v, err, _ := s.reads.Do(fmt.Sprintf("cart:%d", identityID), func() (interface{}, error) {
		return s.store.Load(ctx, identityID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*quotation.Quotation), nil
}

// AddVehicle adds a truck to the quotation. When the truck belongs to a
// different vendor than the current selection, the add fails with
// quotation.ErrVendorConflict unless confirmSwitch is set, in which case the
// quotation is cleared and restarted with the new vendor.
func (s *Service) AddVehicle(ctx context.Context, identityID int64, t truck.Details, qty int, confirmSwitch bool) (*quotation.Quotation, error) {
	return s.mutate(ctx, identityID, func(q *quotation.Quotation) error {
		err := q.AddVehicle(t, qty)
		if err == quotation.ErrVendorConflict && confirmSwitch {
			s.logger.Info("vendor switch confirmed",
				zap.Int64("identity_id", identityID),
				zap.Int64("from_vendor", q.VendorID),
				zap.Int64("to_vendor", t.VendorID))
			q.ConfirmVendorSwitch(t, qty)
			return nil
		}
		return err
	})
}

// RemoveVehicle drops a line item.
func (s *Service) RemoveVehicle(ctx context.Context, identityID, truckID int64) (*quotation.Quotation, error) {
	return s.mutate(ctx, identityID, func(q *quotation.Quotation) error {
		q.RemoveVehicle(truckID)
		return nil
	})
}

// UpdateQuantity replaces a line item's quantity; invalid values are a
// no-op, matching the aggregate's rules.
func (s *Service) UpdateQuantity(ctx context.Context, identityID, truckID int64, qty int) (*quotation.Quotation, error) {
	return s.mutate(ctx, identityID, func(q *quotation.Quotation) error {
		q.UpdateQuantity(truckID, qty)
		return nil
	})
}

// AttachSearch records which search the current selection came from.
func (s *Service) AttachSearch(ctx context.Context, identityID int64, params *truck.SearchParams) (*quotation.Quotation, error) {
	return s.mutate(ctx, identityID, func(q *quotation.Quotation) error {
		q.Search = params
		return nil
	})
}

// Clear empties the quotation.
func (s *Service) Clear(ctx context.Context, identityID int64) error {
	_, err := s.mutate(ctx, identityID, func(q *quotation.Quotation) error {
		q.Clear()
		return nil
	})
	return err
}

// SaveToHistory snapshots the current quotation into the side history list
// without clearing it. An empty quotation is silently skipped.
func (s *Service) SaveToHistory(ctx context.Context, identityID int64) error {
	q, err := s.store.Load(ctx, identityID)
	if err != nil {
		return err
	}
	if q.Empty() {
		return nil
	}
	return s.store.AppendHistory(ctx, identityID, q.Snapshot())
}

// History returns the saved snapshots, newest first.
func (s *Service) History(ctx context.Context, identityID int64) ([]quotation.Snapshot, error) {
	return s.store.History(ctx, identityID)
}

// mutate runs one load-mutate-save cycle under the identity's lock. The
// aggregate's own rules decide whether the mutation applies; a mutation error
// leaves the stored cart untouched.
func (s *Service) mutate(ctx context.Context, identityID int64, fn func(q *quotation.Quotation) error) (*quotation.Quotation, error) {
	mu := s.lock(identityID)
	mu.Lock()
	defer mu.Unlock()

	q, err := s.store.Load(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if err := fn(q); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, identityID, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Service) lock(identityID int64) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(identityID, &sync.Mutex{})
	return v.(*sync.Mutex)
}
