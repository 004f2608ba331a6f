package cart_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/kv"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Scenario(t *testing.T) {
	ctx := t.Context()
	store := cart.New(ctx, kv.NewMemory())

	widget := domain.LineItem{ID: "p1", Type: "product", Name: "Widget", Price: decimal.NewFromInt(100)}
	key := widget.Key()

	require.NoError(t, store.AddItem(ctx, widget))
	require.NoError(t, store.AddItem(ctx, widget))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assertDecimal(t, "200", store.Total())

	require.NoError(t, store.UpdateQuantity(ctx, key, 5))
	assertDecimal(t, "500", store.Total())

	require.NoError(t, store.RemoveItem(ctx, key))
	assert.Equal(t, 0, store.ItemCount())
	assertDecimal(t, "0", store.Total())
}

func TestStore_AddItem(t *testing.T) {
	tests := []struct {
		name      string
		item      domain.LineItem
		wantError error
	}{
		{
			name: "add product: ok",
			item: randomLineItem(),
		},
		{
			name: "add free item: ok",
			item: domain.LineItem{ID: gofakeit.UUID(), Type: "service", Name: "Consultation", Price: decimal.Zero},
		},
		{
			name:      "add item with empty id: error",
			item:      domain.LineItem{Type: "product", Price: decimal.NewFromInt(1)},
			wantError: cart.ErrInvalidItem,
		},
		{
			name:      "add item with empty type: error",
			item:      domain.LineItem{ID: "p1", Price: decimal.NewFromInt(1)},
			wantError: cart.ErrInvalidItem,
		},
		{
			name:      "add item with negative price: error",
			item:      domain.LineItem{ID: "p1", Type: "product", Price: decimal.NewFromInt(-1)},
			wantError: cart.ErrInvalidItem,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			store := cart.New(ctx, kv.NewMemory())

			err := store.AddItem(ctx, tt.item)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				assert.Empty(t, store.Items())
				return
			}
			require.NoError(t, err)

			want := tt.item
			want.Quantity = 1
			assertItems(t, []domain.LineItem{want}, store.Items())
		})
	}
}

func TestStore_AddItem_SameKeyCountsCalls(t *testing.T) {
	ctx := t.Context()
	store := cart.New(ctx, kv.NewMemory())

	item := randomLineItem()
	calls := gofakeit.Number(1, 20)

	for range calls {
		require.NoError(t, store.AddItem(ctx, item))
	}

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, calls, items[0].Quantity)
	assert.Equal(t, calls, store.ItemCount())
}

func TestStore_AddItem_IgnoresSuppliedQuantityAndKeepsPrice(t *testing.T) {
	ctx := t.Context()
	store := cart.New(ctx, kv.NewMemory())

	item := randomLineItem()
	item.Quantity = 42
	require.NoError(t, store.AddItem(ctx, item))

	repriced := item
	repriced.Price = item.Price.Add(decimal.NewFromInt(10))
	require.NoError(t, store.AddItem(ctx, repriced))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, item.Price.Equal(items[0].Price), "price is captured at first add")
}

func TestStore_SameIDDifferentType(t *testing.T) {
	ctx := t.Context()
	store := cart.New(ctx, kv.NewMemory())

	product := domain.LineItem{ID: "1", Type: "product", Name: "Website", Price: decimal.NewFromInt(10)}
	course := domain.LineItem{ID: "1", Type: "course", Name: "Data science", Price: decimal.NewFromInt(20)}

	require.NoError(t, store.AddItem(ctx, product))
	require.NoError(t, store.AddItem(ctx, course))

	require.Len(t, store.Items(), 2)
	assertDecimal(t, "30", store.Total())

	require.NoError(t, store.RemoveItem(ctx, product.Key()))
	assertItems(t, []domain.LineItem{withQuantity(course, 1)}, store.Items())
}

func TestStore_RemoveItem(t *testing.T) {
	tests := []struct {
		name   string
		setup  []domain.LineItem
		remove domain.ItemKey
		want   []domain.LineItem
	}{
		{
			name:   "remove existing item: ok",
			setup:  []domain.LineItem{item("a", 1), item("b", 2)},
			remove: domain.ItemKey{ID: "a", Type: "product"},
			want:   []domain.LineItem{withQuantity(item("b", 2), 1)},
		},
		{
			name:   "remove absent item: no-op",
			setup:  []domain.LineItem{item("a", 1)},
			remove: domain.ItemKey{ID: "z", Type: "product"},
			want:   []domain.LineItem{withQuantity(item("a", 1), 1)},
		},
		{
			name:   "remove from empty cart: no-op",
			remove: domain.ItemKey{ID: "a", Type: "product"},
			want:   []domain.LineItem{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			store := cart.New(ctx, kv.NewMemory())
			for _, it := range tt.setup {
				require.NoError(t, store.AddItem(ctx, it))
			}

			require.NoError(t, store.RemoveItem(ctx, tt.remove))
			require.NoError(t, store.RemoveItem(ctx, tt.remove))

			assertItems(t, tt.want, store.Items())
		})
	}
}

func TestStore_UpdateQuantity(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		key       domain.ItemKey
		wantItems int
		wantCount int
	}{
		{name: "set quantity: ok", quantity: 7, key: domain.ItemKey{ID: "a", Type: "product"}, wantItems: 1, wantCount: 7},
		{name: "zero removes", quantity: 0, key: domain.ItemKey{ID: "a", Type: "product"}, wantItems: 0, wantCount: 0},
		{name: "negative removes", quantity: -3, key: domain.ItemKey{ID: "a", Type: "product"}, wantItems: 0, wantCount: 0},
		{name: "absent key: no-op", quantity: 9, key: domain.ItemKey{ID: "a", Type: "service"}, wantItems: 1, wantCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			store := cart.New(ctx, kv.NewMemory())
			require.NoError(t, store.AddItem(ctx, item("a", 3)))

			require.NoError(t, store.UpdateQuantity(ctx, tt.key, tt.quantity))

			assert.Len(t, store.Items(), tt.wantItems)
			assert.Equal(t, tt.wantCount, store.ItemCount())
		})
	}
}

func TestStore_Clear(t *testing.T) {
	ctx := t.Context()
	mirror := kv.NewMemory()
	store := cart.New(ctx, mirror)

	for range 3 {
		require.NoError(t, store.AddItem(ctx, randomLineItem()))
	}
	require.NoError(t, store.Clear(ctx))

	assertDecimal(t, "0", store.Total())
	assert.Equal(t, 0, store.ItemCount())

	data, err := mirror.Get(ctx, cart.StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestStore_TotalMatchesSum(t *testing.T) {
	ctx := t.Context()
	store := cart.New(ctx, kv.NewMemory())

	want := decimal.Zero
	for range 10 {
		it := randomLineItem()
		require.NoError(t, store.AddItem(ctx, it))
		q := gofakeit.Number(1, 5)
		require.NoError(t, store.UpdateQuantity(ctx, it.Key(), q))
		want = want.Add(it.Price.Mul(decimal.NewFromInt(int64(q))))
	}

	assertDecimal(t, want.String(), store.Total())
}

func TestStore_TotalIsExact(t *testing.T) {
	ctx := t.Context()
	store := cart.New(ctx, kv.NewMemory())

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.AddItem(ctx, domain.LineItem{ID: id, Type: "product", Price: decimal.RequireFromString("0.1")}))
	}

	assertDecimal(t, "0.3", store.Total())
}

func TestStore_HydrateRoundTrip(t *testing.T) {
	ctx := t.Context()
	mirror := kv.NewMemory()
	store := cart.New(ctx, mirror)

	for range 5 {
		require.NoError(t, store.AddItem(ctx, randomLineItem()))
	}
	first := store.Items()[0]
	require.NoError(t, store.UpdateQuantity(ctx, first.Key(), 4))

	reloaded := cart.New(ctx, mirror)

	assertItems(t, store.Items(), reloaded.Items())
}

func TestStore_Hydrate(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []domain.LineItem
	}{
		{
			name: "absent: empty",
			want: []domain.LineItem{},
		},
		{
			name: "garbage: empty",
			data: `{not json`,
			want: []domain.LineItem{},
		},
		{
			name: "object instead of array: empty",
			data: `{"id":"a"}`,
			want: []domain.LineItem{},
		},
		{
			name: "numeric and string prices: ok",
			data: `[{"id":"a","type":"product","name":"A","price":12.5,"quantity":2},{"id":"b","type":"course","name":"B","price":"3","quantity":1}]`,
			want: []domain.LineItem{
				{ID: "a", Type: "product", Name: "A", Price: decimal.RequireFromString("12.5"), Quantity: 2},
				{ID: "b", Type: "course", Name: "B", Price: decimal.NewFromInt(3), Quantity: 1},
			},
		},
		{
			name: "invalid entries dropped",
			data: `[{"id":"a","type":"product","price":1,"quantity":0},{"id":"","type":"product","price":1,"quantity":1},{"id":"c","type":"product","price":-1,"quantity":1},{"id":"d","type":"product","price":1,"quantity":1},{"id":"d","type":"product","price":9,"quantity":3}]`,
			want: []domain.LineItem{
				{ID: "d", Type: "product", Price: decimal.NewFromInt(1), Quantity: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			mirror := kv.NewMemory()
			if tt.data != "" {
				require.NoError(t, mirror.Set(ctx, cart.StorageKey, []byte(tt.data)))
			}

			store := cart.New(ctx, mirror)

			assertItems(t, tt.want, store.Items())
		})
	}
}

func TestStore_HydrateReadError(t *testing.T) {
	store := cart.New(t.Context(), &failingKV{getErr: errors.New("disk gone")})

	assert.Empty(t, store.Items())
}

func TestStore_PersistFailureKeepsMutation(t *testing.T) {
	ctx := t.Context()
	store := cart.New(ctx, &failingKV{setErr: errors.New("quota exceeded")})

	var notified []cart.Snapshot
	store.Subscribe(func(s cart.Snapshot) { notified = append(notified, s) })

	err := store.AddItem(ctx, item("a", 5))
	require.ErrorIs(t, err, cart.ErrPersist)
	assert.ErrorContains(t, err, "quota exceeded")

	assert.Equal(t, 1, store.ItemCount())
	assertDecimal(t, "5", store.Total())
	require.Len(t, notified, 1)
	assert.Equal(t, 1, notified[0].Count)
}

func TestStore_Subscribe(t *testing.T) {
	ctx := t.Context()
	store := cart.New(ctx, kv.NewMemory())

	var got []cart.Snapshot
	unsubscribe := store.Subscribe(func(s cart.Snapshot) { got = append(got, s) })

	require.NoError(t, store.AddItem(ctx, item("a", 2)))
	require.NoError(t, store.AddItem(ctx, item("a", 2)))
	// no-ops do not notify
	require.NoError(t, store.RemoveItem(ctx, domain.ItemKey{ID: "zz", Type: "product"}))
	require.NoError(t, store.UpdateQuantity(ctx, domain.ItemKey{ID: "zz", Type: "product"}, 3))

	require.Len(t, got, 2)
	assert.Equal(t, 2, got[1].Count)
	assertDecimal(t, "4", got[1].Total)

	unsubscribe()
	require.NoError(t, store.Clear(ctx))
	assert.Len(t, got, 2)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	ctx := t.Context()
	store := cart.New(ctx, kv.NewMemory())
	require.NoError(t, store.AddItem(ctx, item("a", 1)))

	items := store.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, store.ItemCount())
}

func TestStore_ConcurrentMutationsPersistInOrder(t *testing.T) {
	ctx := t.Context()
	mirror := &slowKV{Memory: kv.NewMemory(), entered: make(chan struct{}), release: make(chan struct{})}
	store := cart.New(ctx, mirror)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		assert.NoError(t, store.AddItem(ctx, item("a", 1)))
	}()

	<-mirror.entered

	go func() {
		defer wg.Done()
		assert.NoError(t, store.AddItem(ctx, item("b", 2)))
	}()

	// give the second mutation time to race the blocked write
	time.Sleep(50 * time.Millisecond)
	close(mirror.release)
	wg.Wait()

	reloaded := cart.New(ctx, mirror.Memory)
	assertItems(t, store.Items(), reloaded.Items())
	assert.Len(t, reloaded.Items(), 2)
}

func TestStore_Subtract(t *testing.T) {
	tests := []struct {
		name     string
		subtract []domain.LineItem
		want     []domain.LineItem
	}{
		{
			name:     "subtract everything: empty",
			subtract: []domain.LineItem{withQuantity(item("a", 10), 2), withQuantity(item("b", 5), 1)},
			want:     nil,
		},
		{
			name:     "subtract part of a quantity: remainder kept",
			subtract: []domain.LineItem{withQuantity(item("a", 10), 1)},
			want:     []domain.LineItem{withQuantity(item("a", 10), 1), withQuantity(item("b", 5), 1)},
		},
		{
			name:     "subtract unknown key: no-op",
			subtract: []domain.LineItem{withQuantity(item("zzz", 1), 1)},
			want:     []domain.LineItem{withQuantity(item("a", 10), 2), withQuantity(item("b", 5), 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			store := cart.New(ctx, kv.NewMemory())
			require.NoError(t, store.AddItem(ctx, item("a", 10)))
			require.NoError(t, store.AddItem(ctx, item("a", 10)))
			require.NoError(t, store.AddItem(ctx, item("b", 5)))

			require.NoError(t, store.Subtract(ctx, tt.subtract))

			assertItems(t, tt.want, store.Items())
		})
	}
}

// slowKV blocks its first Set until release is closed.
type slowKV struct {
	*kv.Memory

	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (s *slowKV) Set(ctx context.Context, key string, value []byte) error {
	first := false
	s.once.Do(func() { first = true })
	if first {
		close(s.entered)
		<-s.release
	}
	return s.Memory.Set(ctx, key, value)
}

type failingKV struct {
	getErr error
	setErr error
}

func (f *failingKV) Get(context.Context, string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return nil, port.ErrNotFound
}

func (f *failingKV) Set(context.Context, string, []byte) error {
	return f.setErr
}

func item(id string, price int64) domain.LineItem {
	return domain.LineItem{ID: id, Type: "product", Name: "item " + id, Price: decimal.NewFromInt(price)}
}

func withQuantity(it domain.LineItem, q int) domain.LineItem {
	it.Quantity = q
	return it
}

func randomLineItem() domain.LineItem {
	return domain.LineItem{
		ID:    gofakeit.UUID(),
		Type:  gofakeit.RandomString([]string{"product", "service", "course"}),
		Name:  gofakeit.ProductName(),
		Price: decimal.NewFromFloat(gofakeit.Price(1, 1000)).Round(2),
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()

	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func assertItems(t *testing.T, expected, actual []domain.LineItem) {
	t.Helper()

	decimalComparer := cmp.Comparer(func(x, y decimal.Decimal) bool {
		return x.Equal(y)
	})

	if len(expected) == 0 {
		assert.Empty(t, actual)
		return
	}

	diff := cmp.Diff(expected, actual, decimalComparer)
	assert.Empty(t, diff)
}
