package transaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/pos-kasir/core/cart"
	"github.com/irsalhamdi/pos-kasir/core/product"
	"github.com/irsalhamdi/pos-kasir/store"
)

func seed(t *testing.T, products ...product.Product) *store.Store {
	t.Helper()

	st := store.New(store.NewMemory())
	err := st.Transaction(context.Background(), func(tx *store.Tx) error {
		return product.Save(tx, products)
	})
	if err != nil {
		t.Fatalf("seeding products: %v", err)
	}
	return st
}

func TestCheckoutScenario(t *testing.T) {
	ctx := context.Background()
	st := seed(t, product.Product{ID: 1, Name: "Kaos", Price: 75000, Stock: map[string]int{"M": 10}})
	now := time.Date(2026, 10, 16, 10, 30, 0, 0, time.UTC)

	p, err := product.Fetch(ctx, st, 1)
	if err != nil {
		t.Fatal(err)
	}

	var c cart.Cart
	if err := c.Add(p, "M", 3); err != nil {
		t.Fatalf("adding to cart: %v", err)
	}
	if got := c.Total(); got != 225000 {
		t.Fatalf("expected cart total 225000, got %d", got)
	}

	trx, err := Checkout(ctx, st, &c, now)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	want := Transaction{
		ID:    now.UnixMilli(),
		Date:  now,
		Items: []cart.Item{{ProductID: 1, Name: "Kaos", Price: 75000, Size: "M", Qty: 3}},
		Total: 225000,
	}
	if diff := cmp.Diff(want, trx); diff != "" {
		t.Fatalf("transaction mismatch (-want +got):\n%s", diff)
	}

	if !c.Empty() {
		t.Fatalf("cart not cleared after checkout: %+v", c.Items)
	}

	p, err = product.Fetch(ctx, st, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Stock["M"]; got != 7 {
		t.Fatalf("expected 7 left, got %d", got)
	}

	err = c.Add(p, "M", 8)
	var se *product.StockError
	if !errors.As(err, &se) || se.Remaining != 7 {
		t.Fatalf("expected insufficient stock with 7 remaining, got %v", err)
	}

	if _, err := Checkout(ctx, st, &c, now); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected %v on retry, got %v", ErrEmptyCart, err)
	}

	trxs, err := List(ctx, st)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Transaction{want}, trxs); diff != "" {
		t.Fatalf("log mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckoutKeepsSnapshotPrices(t *testing.T) {
	ctx := context.Background()
	st := seed(t, product.Product{ID: 1, Name: "Kaos", Price: 75000, Stock: map[string]int{"M": 10}})

	p, _ := product.Fetch(ctx, st, 1)
	var c cart.Cart
	_ = c.Add(p, "M", 2)

	trx, err := Checkout(ctx, st, &c, time.Now())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	price := 99000
	if _, err := product.Update(ctx, st, 1, product.ProductUp{Price: &price}); err != nil {
		t.Fatal(err)
	}

	got, err := Fetch(ctx, st, trx.ID)
	if err != nil {
		t.Fatal(err)
	}

	var sum int
	for _, it := range got.Items {
		sum += it.Qty * it.Price
	}
	if got.Total != sum || got.Total != 150000 {
		t.Fatalf("expected total 150000 from snapshot prices, got total %d sum %d", got.Total, sum)
	}
}

func TestCheckoutConservesStock(t *testing.T) {
	ctx := context.Background()
	st := seed(t,
		product.Product{ID: 1, Name: "Kaos", Price: 75000, Stock: map[string]int{"S": 4, "M": 10}},
		product.Product{ID: 2, Name: "Kemeja", Price: 150000, Stock: map[string]int{"L": 3}},
	)

	before, _ := product.List(ctx, st)

	var c cart.Cart
	_ = c.Add(before[0], "S", 2)
	_ = c.Add(before[0], "M", 5)
	_ = c.Add(before[1], "L", 3)
	taken := map[int64]map[string]int{}
	for _, it := range c.Items {
		if taken[it.ProductID] == nil {
			taken[it.ProductID] = map[string]int{}
		}
		taken[it.ProductID][it.Size] += it.Qty
	}

	if _, err := Checkout(ctx, st, &c, time.Now()); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	after, _ := product.List(ctx, st)
	for i, p := range before {
		for size, n := range p.Stock {
			if got, want := after[i].Stock[size], n-taken[p.ID][size]; got != want {
				t.Fatalf("product %d size %s: expected %d, got %d", p.ID, size, want, got)
			}
		}
	}
}

func TestCheckoutIsAtomic(t *testing.T) {
	ctx := context.Background()
	st := seed(t,
		product.Product{ID: 1, Name: "Kaos", Price: 75000, Stock: map[string]int{"M": 10}},
		product.Product{ID: 2, Name: "Kemeja", Price: 150000, Stock: map[string]int{"L": 3}},
	)

	products, _ := product.List(ctx, st)
	var c cart.Cart
	_ = c.Add(products[0], "M", 2)
	_ = c.Add(products[1], "L", 3)

	// Another terminal sells the last shirts first.
	if _, err := product.Update(ctx, st, 2, product.ProductUp{Stock: map[string]int{"L": 1}}); err != nil {
		t.Fatal(err)
	}

	_, err := Checkout(ctx, st, &c, time.Now())
	if !errors.Is(err, product.ErrInsufficientStock) {
		t.Fatalf("expected %v, got %v", product.ErrInsufficientStock, err)
	}

	if c.Empty() {
		t.Fatal("failed checkout cleared the cart")
	}

	after, _ := product.List(ctx, st)
	if got := after[0].Stock["M"]; got != 10 {
		t.Fatalf("failed checkout decremented stock to %d", got)
	}

	trxs, _ := List(ctx, st)
	if len(trxs) != 0 {
		t.Fatalf("failed checkout appended %d transactions", len(trxs))
	}
}

func TestCheckoutMissingReferences(t *testing.T) {
	ctx := context.Background()
	st := seed(t, product.Product{ID: 1, Name: "Kaos", Price: 75000, Stock: map[string]int{"M": 10}})

	tests := map[string]struct {
		item    cart.Item
		wantErr error
	}{
		"deleted product": {item: cart.Item{ProductID: 9, Name: "Topi", Price: 1, Size: "M", Qty: 1}, wantErr: product.ErrNotFound},
		"removed size":    {item: cart.Item{ProductID: 1, Name: "Kaos", Price: 1, Size: "XL", Qty: 1}, wantErr: product.ErrSizeNotFound},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			c := cart.Cart{Items: []cart.Item{tt.item}}
			if _, err := Checkout(ctx, st, &c, time.Now()); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestIDsGrowWithCreationOrder(t *testing.T) {
	ctx := context.Background()
	st := seed(t, product.Product{ID: 1, Name: "Kaos", Price: 75000, Stock: map[string]int{"M": 10}})
	now := time.Date(2026, 10, 16, 10, 30, 0, 0, time.UTC)

	p, _ := product.Fetch(ctx, st, 1)
	var ids []int64
	for i := 0; i < 3; i++ {
		var c cart.Cart
		_ = c.Add(p, "M", 1)

		trx, err := Checkout(ctx, st, &c, now)
		if err != nil {
			t.Fatalf("checkout %d: %v", i, err)
		}
		ids = append(ids, trx.ID)
	}

	want := []int64{now.UnixMilli(), now.UnixMilli() + 1, now.UnixMilli() + 2}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	if _, err := Fetch(ctx, st, 12345); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected %v, got %v", ErrNotFound, err)
	}
}
