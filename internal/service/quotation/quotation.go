// internal/service/quotation/quotation.go
package quotation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"freightline-service/internal/domain/auth"
	"freightline-service/internal/domain/order"
	xerrors "freightline-service/internal/pkg/errors"
	"freightline-service/internal/service/cart"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const detailCacheTTL = 5 * time.Minute

// Repository is the quotation-request storage the service depends on.
type Repository interface {
	Create(ctx context.Context, req *order.QuotationRequest) error
	FindByID(ctx context.Context, id int64) (*order.QuotationRequest, error)
	FindByReference(ctx context.Context, reference string) (*order.QuotationRequest, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]order.QuotationRequest, error)
	ListByVendor(ctx context.Context, vendorID int64) ([]order.QuotationRequest, error)
	ListAll(ctx context.Context) ([]order.QuotationRequest, error)
	Decide(ctx context.Context, id int64, status order.Status, decidedBy int64, at time.Time) error
}

// Notifier pushes status events to connected clients. The websocket hub
// implements it; a nil notifier disables pushes.
type Notifier interface {
	Notify(identityID int64, eventType string, payload interface{})
}

type Service struct {
	repo     Repository
	carts    *cart.Service
	cache    *redis.Client
	notifier Notifier
	logger   *zap.Logger
}

func NewService(repo Repository, carts *cart.Service, cache *redis.Client, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		carts:    carts,
		cache:    cache,
		notifier: notifier,
		logger:   logger,
	}
}

// Actor identifies who is performing an operation.
type Actor struct {
	IdentityID int64
	Role       auth.Role
	FullName   string
}

// Submit turns the caller's current cart into a persisted pending request.
// The failure for an empty cart is synchronous; nothing is written. The cart
// is left intact so the user can revise and resubmit.
func (s *Service) Submit(ctx context.Context, actor Actor) (*order.QuotationRequest, error) {
	q, err := s.carts.Get(ctx, actor.IdentityID)
	if err != nil {
		return nil, err
	}
	if q.Empty() {
		return nil, xerrors.ErrEmptyQuotation
	}

	var origin, dest string
	if q.Search != nil {
		origin = strings.TrimSpace(q.Search.OriginPincode)
		dest = strings.TrimSpace(q.Search.DestPincode)
	}
	if origin == "" || dest == "" {
		return nil, fmt.Errorf("quotation has no route attached: %w", xerrors.ErrInvalidInput)
	}

	req := &order.QuotationRequest{
		Reference:     "QR-" + ulid.Make().String(),
		CustomerID:    actor.IdentityID,
		VendorID:      q.VendorID,
		VendorName:    q.VendorName,
		TotalAmount:   q.TotalAmount(),
		Search:        q.Search,
		OriginPincode: origin,
		DestPincode:   dest,
		Status:        order.StatusPending,
	}
	for _, item := range q.Items {
		req.Items = append(req.Items, order.RequestItem{
			TruckID:    item.Truck.TruckID,
			Model:      item.Truck.Model,
			TypeName:   item.Truck.TypeName,
			VendorName: item.Truck.VendorName,
			UnitPrice:  item.Truck.TotalPrice,
			Quantity:   item.Quantity,
		})
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	if err := s.carts.SaveToHistory(ctx, actor.IdentityID); err != nil {
		s.logger.Warn("failed to save quotation history", zap.Error(err))
	}

	s.logger.Info("quotation submitted",
		zap.String("reference", req.Reference),
		zap.Int64("customer_id", req.CustomerID),
		zap.Int64("vendor_id", req.VendorID),
		zap.Float64("total", req.TotalAmount))

	s.push(req.VendorID, "quotation_submitted", req)
	return req, nil
}

// Get returns one request, read through a short-lived cache. Access is
// limited to the involved parties and staff.
func (s *Service) Get(ctx context.Context, actor Actor, id int64) (*order.QuotationRequest, error) {
	req, err := s.cached(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canView(actor, req) {
		return nil, xerrors.ErrForbidden
	}
	return req, nil
}

// List returns the requests visible to the caller: staff see everything,
// vendors see requests addressed to them, everyone else their own.
func (s *Service) List(ctx context.Context, actor Actor) ([]order.QuotationRequest, error) {
	switch {
	case auth.CanViewAllQuotations(actor.Role):
		return s.repo.ListAll(ctx)
	case actor.Role == auth.RoleVendor:
		return s.repo.ListByVendor(ctx, actor.IdentityID)
	default:
		return s.repo.ListByCustomer(ctx, actor.IdentityID)
	}
}

// Decide accepts or rejects a pending request. The role check runs before
// any storage mutation, so a denied caller observes no side effects. A
// request that is already decided fails with ErrAlreadyDecided; the stored
// decision stands.
func (s *Service) Decide(ctx context.Context, actor Actor, id int64, accept bool) (*order.QuotationRequest, error) {
	if !auth.CanDecideQuotation(actor.Role) {
		return nil, xerrors.ErrForbidden
	}

	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == auth.RoleCustomer && req.CustomerID != actor.IdentityID {
		return nil, xerrors.ErrForbidden
	}

	status := order.StatusRejected
	if accept {
		status = order.StatusAccepted
	}

	if err := s.repo.Decide(ctx, id, status, actor.IdentityID, time.Now()); err != nil {
		return nil, err
	}

	s.invalidateDetail(ctx, id)

	// re-read so the caller gets the authoritative decided record
	decided, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("quotation decided",
		zap.String("reference", decided.Reference),
		zap.String("status", string(decided.Status)),
		zap.Int64("decided_by", actor.IdentityID))

	s.push(decided.CustomerID, "quotation_status", decided)
	s.push(decided.VendorID, "quotation_status", decided)
	return decided, nil
}

// Invoice renders the billing view of a request.
func (s *Service) Invoice(ctx context.Context, actor Actor, id int64) (*order.Invoice, error) {
	req, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return order.BuildInvoice(req, actor.FullName), nil
}

func (s *Service) canView(actor Actor, req *order.QuotationRequest) bool {
	if auth.CanViewAllQuotations(actor.Role) {
		return true
	}
	return req.CustomerID == actor.IdentityID || req.VendorID == actor.IdentityID
}

// cached reads a request through the detail cache. Cache failures fall back
// to storage; the cache is an optimisation, never the source of truth. A nil
// cache client disables caching entirely.
func (s *Service) cached(ctx context.Context, id int64) (*order.QuotationRequest, error) {
	key := s.detailKey(id)

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var req order.QuotationRequest
			if err := json.Unmarshal(data, &req); err == nil {
				return &req, nil
			}
		}
	}

	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(req); err == nil {
			if err := s.cache.Set(ctx, key, data, detailCacheTTL).Err(); err != nil {
				s.logger.Warn("failed to cache quotation detail", zap.Error(err))
			}
		}
	}
	return req, nil
}

func (s *Service) invalidateDetail(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.detailKey(id)).Err(); err != nil && err != redis.Nil {
		s.logger.Warn("failed to invalidate quotation detail cache", zap.Error(err))
	}
}

func (s *Service) detailKey(id int64) string {
	return fmt.Sprintf("quotation:detail:%d", id)
}

func (s *Service) push(identityID int64, eventType string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(identityID, eventType, payload)
}
