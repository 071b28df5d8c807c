package quotation

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"freightline-service/internal/domain/auth"
	"freightline-service/internal/domain/order"
	domquotation "freightline-service/internal/domain/quotation"
	"freightline-service/internal/domain/truck"
	xerrors "freightline-service/internal/pkg/errors"
	"freightline-service/internal/service/cart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

// memRepo is an in-memory Repository that enforces the same pending-only
// decision guard as the SQL implementation.
type memRepo struct {
	nextID   int64
	requests map[int64]*order.QuotationRequest
	decides  int // mutation attempts that reached storage
}

func newMemRepo() *memRepo {
	return &memRepo{nextID: 1, requests: make(map[int64]*order.QuotationRequest)}
}

func (m *memRepo) Create(_ context.Context, req *order.QuotationRequest) error {
	req.ID = m.nextID
	m.nextID++
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	cp := *req
	m.requests[req.ID] = &cp
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id int64) (*order.QuotationRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (m *memRepo) FindByReference(_ context.Context, reference string) (*order.QuotationRequest, error) {
	for _, req := range m.requests {
		if req.Reference == reference {
			cp := *req
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (m *memRepo) ListByCustomer(_ context.Context, customerID int64) ([]order.QuotationRequest, error) {
	var out []order.QuotationRequest
	for _, req := range m.requests {
		if req.CustomerID == customerID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (m *memRepo) ListByVendor(_ context.Context, vendorID int64) ([]order.QuotationRequest, error) {
	var out []order.QuotationRequest
	for _, req := range m.requests {
		if req.VendorID == vendorID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (m *memRepo) ListAll(_ context.Context) ([]order.QuotationRequest, error) {
	var out []order.QuotationRequest
	for _, req := range m.requests {
		out = append(out, *req)
	}
	return out, nil
}

func (m *memRepo) Decide(_ context.Context, id int64, status order.Status, decidedBy int64, at time.Time) error {
	m.decides++
	req, ok := m.requests[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	if req.Status != order.StatusPending {
		return xerrors.ErrAlreadyDecided
	}
	req.Status = status
	req.DecidedBy = &decidedBy
	req.DecidedAt = &at
	return nil
}

// memCartStore backs the cart service in tests.
type memCartStore struct {
	carts   map[int64][]byte
	history map[int64][]domquotation.Snapshot
}

func newMemCartStore() *memCartStore {
	return &memCartStore{
		carts:   make(map[int64][]byte),
		history: make(map[int64][]domquotation.Snapshot),
	}
}

func (m *memCartStore) Load(_ context.Context, identityID int64) (*domquotation.Quotation, error) {
	data, ok := m.carts[identityID]
	if !ok {
		return domquotation.New(), nil
	}
	var q domquotation.Quotation
	if err := json.Unmarshal(data, &q); err != nil {
		return domquotation.New(), nil
	}
	return &q, nil
}

func (m *memCartStore) Save(_ context.Context, identityID int64, q *domquotation.Quotation) error {
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}
	m.carts[identityID] = data
	return nil
}

func (m *memCartStore) Delete(_ context.Context, identityID int64) error {
	delete(m.carts, identityID)
	return nil
}

func (m *memCartStore) AppendHistory(_ context.Context, identityID int64, snap domquotation.Snapshot) error {
	m.history[identityID] = append([]domquotation.Snapshot{snap}, m.history[identityID]...)
	return nil
}

func (m *memCartStore) History(_ context.Context, identityID int64) ([]domquotation.Snapshot, error) {
	return m.history[identityID], nil
}

// recordingNotifier captures pushed events.
type recordingNotifier struct {
	events []pushedEvent
}

type pushedEvent struct {
	identityID int64
	eventType  string
}

func (n *recordingNotifier) Notify(identityID int64, eventType string, _ interface{}) {
	n.events = append(n.events, pushedEvent{identityID: identityID, eventType: eventType})
}

type fixture struct {
	svc      *Service
	repo     *memRepo
	carts    *cart.Service
	notifier *recordingNotifier
}

func newFixture() *fixture {
	repo := newMemRepo()
	carts := cart.NewService(newMemCartStore(), zap.NewNop())
	notifier := &recordingNotifier{}
	svc := NewService(repo, carts, nil, notifier, zap.NewNop())
	return &fixture{svc: svc, repo: repo, carts: carts, notifier: notifier}
}

func customerActor(id int64) Actor {
	return Actor{IdentityID: id, Role: auth.RoleCustomer, FullName: "Asha Mehta"}
}

func searchedTruck() truck.Details {
	return truck.Details{
		TruckID:    101,
		VendorID:   7,
		VendorName: "Swift",
		Model:      "Tata 407",
		TypeName:   "mini truck",
		TotalPrice: "₹22,500",
	}
}

func fillCart(t *testing.T, f *fixture, identityID int64) {
	t.Helper()
	ctx := context.Background()
	_, err := f.carts.AddVehicle(ctx, identityID, searchedTruck(), 2, false)
	require.NoError(t, err)
	_, err = f.carts.AttachSearch(ctx, identityID, &truck.SearchParams{
		OriginPincode: "400001",
		DestPincode:   "560001",
		Weight:        2,
		WeightUnit:    "tonnes",
	})
	require.NoError(t, err)
}

func TestSubmitEmptyCartFailsSynchronously(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Submit(context.Background(), customerActor(1))
	assert.ErrorIs(t, err, xerrors.ErrEmptyQuotation)
	assert.Empty(t, f.repo.requests)
}

func TestSubmitWithoutRouteFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.carts.AddVehicle(ctx, 1, searchedTruck(), 1, false)
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, customerActor(1))
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	assert.Empty(t, f.repo.requests)
}

func TestSubmitCreatesPendingRequestAndKeepsCart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	fillCart(t, f, 1)

	req, err := f.svc.Submit(ctx, customerActor(1))
	require.NoError(t, err)

	assert.Equal(t, order.StatusPending, req.Status)
	assert.Equal(t, int64(7), req.VendorID)
	assert.Equal(t, "400001", req.OriginPincode)
	assert.Equal(t, "560001", req.DestPincode)
	require.Len(t, req.Items, 1)
	assert.Equal(t, "₹22,500", req.Items[0].UnitPrice)
	assert.Equal(t, 2, req.Items[0].Quantity)
	assert.InDelta(t, 45000.0, req.TotalAmount, 0.001)
	assert.Contains(t, req.Reference, "QR-")

	// the cart survives submission
	q, err := f.carts.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, q.Empty())

	// vendor is told about the new request
	require.NotEmpty(t, f.notifier.events)
	assert.Equal(t, int64(7), f.notifier.events[0].identityID)
	assert.Equal(t, "quotation_submitted", f.notifier.events[0].eventType)
}

func TestDecideDeniedRoleCausesNoMutation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	fillCart(t, f, 1)

	req, err := f.svc.Submit(ctx, customerActor(1))
	require.NoError(t, err)

	driver := Actor{IdentityID: 50, Role: auth.RoleDriver}
	_, err = f.svc.Decide(ctx, driver, req.ID, true)
	assert.ErrorIs(t, err, xerrors.ErrForbidden)
	assert.Zero(t, f.repo.decides)

	stored, err := f.repo.FindByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, stored.Status)
}

func TestCustomerCannotDecideSomeoneElsesRequest(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	fillCart(t, f, 1)

	req, err := f.svc.Submit(ctx, customerActor(1))
	require.NoError(t, err)

	_, err = f.svc.Decide(ctx, customerActor(2), req.ID, true)
	assert.ErrorIs(t, err, xerrors.ErrForbidden)
	assert.Zero(t, f.repo.decides)
}

func TestAcceptPendingRequest(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	fillCart(t, f, 1)

	req, err := f.svc.Submit(ctx, customerActor(1))
	require.NoError(t, err)
	f.notifier.events = nil

	decided, err := f.svc.Decide(ctx, customerActor(1), req.ID, true)
	require.NoError(t, err)
	assert.Equal(t, order.StatusAccepted, decided.Status)
	require.NotNil(t, decided.DecidedBy)
	assert.Equal(t, int64(1), *decided.DecidedBy)
	assert.NotNil(t, decided.DecidedAt)

	// both parties get the status push
	require.Len(t, f.notifier.events, 2)
	assert.Equal(t, "quotation_status", f.notifier.events[0].eventType)
}

func TestSecondDecisionFailsAndFirstStands(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	fillCart(t, f, 1)

	req, err := f.svc.Submit(ctx, customerActor(1))
	require.NoError(t, err)

	_, err = f.svc.Decide(ctx, customerActor(1), req.ID, false)
	require.NoError(t, err)

	manager := Actor{IdentityID: 99, Role: auth.RoleManager}
	_, err = f.svc.Decide(ctx, manager, req.ID, true)
	assert.ErrorIs(t, err, xerrors.ErrAlreadyDecided)

	stored, err := f.repo.FindByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusRejected, stored.Status)
	assert.Equal(t, int64(1), *stored.DecidedBy)
}

func TestListVisibilityByRole(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	fillCart(t, f, 1)

	_, err := f.svc.Submit(ctx, customerActor(1))
	require.NoError(t, err)

	cases := []struct {
		name  string
		actor Actor
		want  int
	}{
		{"owning customer", customerActor(1), 1},
		{"other customer", customerActor(2), 0},
		{"addressed vendor", Actor{IdentityID: 7, Role: auth.RoleVendor}, 1},
		{"other vendor", Actor{IdentityID: 8, Role: auth.RoleVendor}, 0},
		{"manager sees all", Actor{IdentityID: 99, Role: auth.RoleManager}, 1},
		{"admin sees all", Actor{IdentityID: 100, Role: auth.RoleAdmin}, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.svc.List(ctx, tc.actor)
			require.NoError(t, err)
			assert.Len(t, got, tc.want)
		})
	}
}

func TestGetVisibility(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	fillCart(t, f, 1)

	req, err := f.svc.Submit(ctx, customerActor(1))
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, customerActor(1), req.ID)
	assert.NoError(t, err)

	_, err = f.svc.Get(ctx, customerActor(2), req.ID)
	assert.ErrorIs(t, err, xerrors.ErrForbidden)

	_, err = f.svc.Get(ctx, Actor{IdentityID: 7, Role: auth.RoleVendor}, req.ID)
	assert.NoError(t, err)
}

func TestInvoiceTotalsIncludeGST(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	fillCart(t, f, 1)

	req, err := f.svc.Submit(ctx, customerActor(1))
	require.NoError(t, err)

	inv, err := f.svc.Invoice(ctx, customerActor(1), req.ID)
	require.NoError(t, err)

	assert.Equal(t, req.Reference, inv.Reference)
	assert.Equal(t, "Asha Mehta", inv.IssuedTo)
	require.Len(t, inv.Lines, 1)
	assert.Equal(t, "₹45,000", inv.Subtotal)
	assert.Equal(t, "₹8,100", inv.GST)
	assert.Equal(t, "₹53,100", inv.Total)
}
