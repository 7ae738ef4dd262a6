package product

import (
	"context"
	"fmt"
	"time"

	"github.com/irsalhamdi/pos-kasir/store"
)

// Load reads the whole catalog inside a store transaction.
func Load(tx *store.Tx) ([]Product, error) {
	products := []Product{}
	if _, err := tx.Get(store.KeyProducts, &products); err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].Stock == nil {
			products[i].Stock = map[string]int{}
		}
	}
	return products, nil
}

// Save overwrites the whole catalog.
func Save(tx *store.Tx, products []Product) error {
	return tx.Put(store.KeyProducts, products)
}

func List(ctx context.Context, st *store.Store) ([]Product, error) {
	var products []Product
	err := st.Transaction(ctx, func(tx *store.Tx) error {
		var err error
		products, err = Load(tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

func Fetch(ctx context.Context, st *store.Store, id int64) (Product, error) {
	var p Product
	err := st.Transaction(ctx, func(tx *store.Tx) error {
		products, err := Load(tx)
		if err != nil {
			return err
		}

		i := index(products, id)
		if i < 0 {
			return ErrNotFound
		}
		p = products[i]
		return nil
	})
	if err != nil {
		return Product{}, fmt.Errorf("fetching product[%d]: %w", id, err)
	}
	return p, nil
}

// Create appends a product whose id derives from now in milliseconds.
func Create(ctx context.Context, st *store.Store, np ProductNew, now time.Time) (Product, error) {
	p := Product{
		ID:    now.UnixMilli(),
		Name:  np.Name,
		Price: np.Price,
	}.clone()
	for k, v := range np.Stock {
		p.Stock[k] = v
	}

	err := st.Transaction(ctx, func(tx *store.Tx) error {
		products, err := Load(tx)
		if err != nil {
			return err
		}

		for index(products, p.ID) >= 0 {
			p.ID++
		}

		return Save(tx, append(products, p))
	})
	if err != nil {
		return Product{}, fmt.Errorf("creating product: %w", err)
	}
	return p, nil
}

// Update applies the non-nil fields of up. A non-nil Stock replaces the
// whole stock mapping.
func Update(ctx context.Context, st *store.Store, id int64, up ProductUp) (Product, error) {
	var p Product
	err := st.Transaction(ctx, func(tx *store.Tx) error {
		products, err := Load(tx)
		if err != nil {
			return err
		}

		i := index(products, id)
		if i < 0 {
			return ErrNotFound
		}

		if up.Name != nil {
			products[i].Name = *up.Name
		}
		if up.Price != nil {
			products[i].Price = *up.Price
		}
		if up.Stock != nil {
			stock := make(map[string]int, len(up.Stock))
			for k, v := range up.Stock {
				stock[k] = v
			}
			products[i].Stock = stock
		}

		p = products[i]
		return Save(tx, products)
	})
	if err != nil {
		return Product{}, fmt.Errorf("updating product[%d]: %w", id, err)
	}
	return p, nil
}

func Delete(ctx context.Context, st *store.Store, id int64) error {
	err := st.Transaction(ctx, func(tx *store.Tx) error {
		products, err := Load(tx)
		if err != nil {
			return err
		}

		i := index(products, id)
		if i < 0 {
			return ErrNotFound
		}

		return Save(tx, append(products[:i], products[i+1:]...))
	})
	if err != nil {
		return fmt.Errorf("deleting product[%d]: %w", id, err)
	}
	return nil
}
