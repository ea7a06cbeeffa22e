package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/orderkit/internal/storage"
	"github.com/dshills/orderkit/pkg/types"
)

// countingRepo is an in-memory OrderRepository that counts reads
type countingRepo struct {
	mu        sync.Mutex
	orders    map[string]*types.Order
	finds     int
	updateErr error

	// afterLoad runs once a Find has read its row, outside the lock
	afterLoad func()
}

func newCountingRepo() *countingRepo {
	return &countingRepo{orders: make(map[string]*types.Order)}
}

func (r *countingRepo) Create(_ context.Context, order *types.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID()] = order.Clone()
	return nil
}

func (r *countingRepo) Update(_ context.Context, order *types.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	r.orders[order.ID()] = order.Clone()
	return nil
}

func (r *countingRepo) Find(_ context.Context, id string) (*types.Order, error) {
	r.mu.Lock()
	r.finds++
	order, ok := r.orders[id]
	if ok {
		order = order.Clone()
	}
	afterLoad := r.afterLoad
	r.mu.Unlock()

	if !ok {
		return nil, ErrOrderNotFound
	}
	if afterLoad != nil {
		afterLoad()
	}
	return order, nil
}

func (r *countingRepo) FindAll(_ context.Context) ([]*types.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	orders := make([]*types.Order, 0, len(r.orders))
	for _, o := range r.orders {
		orders = append(orders, o.Clone())
	}
	return orders, nil
}

func (r *countingRepo) findCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finds
}

func testOrder(t *testing.T, id, customerID string, quantity int) *types.Order {
	t.Helper()
	item, err := types.NewOrderItem("1", "p1", "Product 1", decimal.NewFromInt(10), quantity)
	require.NoError(t, err)
	order, err := types.NewOrder(id, customerID, []types.OrderItem{item})
	require.NoError(t, err)
	return order
}

func TestNewCached_InvalidSize(t *testing.T) {
	_, err := NewCached(newCountingRepo(), 0)
	assert.Error(t, err)
}

func TestCached_CreateThenFindHitsCache(t *testing.T) {
	ctx := context.Background()
	next := newCountingRepo()
	cached, err := NewCached(next, 10)
	require.NoError(t, err)

	order := testOrder(t, "123", "1234", 2)
	require.NoError(t, cached.Create(ctx, order))

	found, err := cached.Find(ctx, "123")
	require.NoError(t, err)
	assert.True(t, order.Equal(found))
	assert.Equal(t, 0, next.findCount())
	assert.Equal(t, 1, cached.Len())
}

func TestCached_MissPopulates(t *testing.T) {
	ctx := context.Background()
	next := newCountingRepo()
	require.NoError(t, next.Create(ctx, testOrder(t, "123", "1234", 2)))

	cached, err := NewCached(next, 10)
	require.NoError(t, err)

	_, err = cached.Find(ctx, "123")
	require.NoError(t, err)
	_, err = cached.Find(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, 1, next.findCount())
}

func TestCached_NotFoundIsNotCached(t *testing.T) {
	ctx := context.Background()
	next := newCountingRepo()
	cached, err := NewCached(next, 10)
	require.NoError(t, err)

	_, err = cached.Find(ctx, "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	_, err = cached.Find(ctx, "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Equal(t, 2, next.findCount())
	assert.Zero(t, cached.Len())
}

func TestCached_EntriesAreIsolated(t *testing.T) {
	ctx := context.Background()
	cached, err := NewCached(newCountingRepo(), 10)
	require.NoError(t, err)

	order := testOrder(t, "123", "1234", 2)
	require.NoError(t, cached.Create(ctx, order))

	// mutating the caller's aggregate must not leak into the cache
	require.NoError(t, order.ChangeCustomer("5678"))
	found, err := cached.Find(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, "1234", found.CustomerID())

	// nor may mutating a returned aggregate
	require.NoError(t, found.ChangeCustomer("9999"))
	again, err := cached.Find(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, "1234", again.CustomerID())
}

func TestCached_UpdateRefreshes(t *testing.T) {
	ctx := context.Background()
	cached, err := NewCached(newCountingRepo(), 10)
	require.NoError(t, err)

	order := testOrder(t, "123", "1234", 2)
	require.NoError(t, cached.Create(ctx, order))
	require.NoError(t, order.ChangeCustomer("5678"))
	require.NoError(t, cached.Update(ctx, order))

	found, err := cached.Find(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, "5678", found.CustomerID())
}

func TestCached_FailedUpdateEvicts(t *testing.T) {
	ctx := context.Background()
	next := newCountingRepo()
	cached, err := NewCached(next, 10)
	require.NoError(t, err)

	order := testOrder(t, "123", "1234", 2)
	require.NoError(t, cached.Create(ctx, order))

	next.updateErr = errors.New("disk full")
	require.NoError(t, order.ChangeCustomer("5678"))
	assert.Error(t, cached.Update(ctx, order))
	assert.Zero(t, cached.Len())

	// the next read goes to the wrapped repository, which kept the old state
	found, err := cached.Find(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, "1234", found.CustomerID())
	assert.Equal(t, 1, next.findCount())
}

func TestCached_FindRacingUpdateKeepsNewerEntry(t *testing.T) {
	ctx := context.Background()
	next := newCountingRepo()
	require.NoError(t, next.Create(ctx, testOrder(t, "123", "1234", 2)))

	cached, err := NewCached(next, 10)
	require.NoError(t, err)

	loaded := make(chan struct{})
	release := make(chan struct{})
	next.afterLoad = func() {
		close(loaded)
		<-release
	}

	// the miss reads customer 1234 and stalls before caching it
	var g errgroup.Group
	g.Go(func() error {
		order, err := cached.Find(ctx, "123")
		if err != nil {
			return err
		}
		if order.CustomerID() != "1234" {
			return errors.New("expected the pre-update row")
		}
		return nil
	})
	<-loaded

	next.mu.Lock()
	next.afterLoad = nil
	next.mu.Unlock()

	updated := testOrder(t, "123", "5678", 2)
	require.NoError(t, cached.Update(ctx, updated))

	close(release)
	require.NoError(t, g.Wait())

	found, err := cached.Find(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, "5678", found.CustomerID())

	stored, err := next.Find(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, stored.CustomerID(), found.CustomerID())
}

func TestCached_Eviction(t *testing.T) {
	ctx := context.Background()
	cached, err := NewCached(newCountingRepo(), 2)
	require.NoError(t, err)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, cached.Create(ctx, testOrder(t, id, "1234", 1)))
	}
	assert.Equal(t, 2, cached.Len())

	cached.Purge()
	assert.Zero(t, cached.Len())
}

func TestCached_ConcurrentReadsOverSQLite(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.UpsertCustomer(ctx, &storage.Customer{ID: "1234", Name: "Customer 1"}))
	require.NoError(t, store.UpsertProduct(ctx, &storage.Product{ID: "p1", Name: "Product 1", Price: decimal.NewFromInt(10)}))

	cached, err := NewCached(New(store), 4)
	require.NoError(t, err)

	ids := []string{"o1", "o2", "o3", "o4", "o5", "o6"}
	for i, id := range ids {
		require.NoError(t, cached.Create(ctx, testOrder(t, id, "1234", i+1)))
	}

	var g errgroup.Group
	for r := 0; r < 8; r++ {
		for i, id := range ids {
			want := decimal.NewFromInt(int64(10 * (i + 1)))
			g.Go(func() error {
				order, err := cached.Find(ctx, id)
				if err != nil {
					return err
				}
				if !order.Total().Equal(want) {
					return errors.New("unexpected total for " + id)
				}
				return nil
			})
		}
	}
	require.NoError(t, g.Wait())
	assert.LessOrEqual(t, cached.Len(), 4)
}
