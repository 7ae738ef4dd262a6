package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/irsalhamdi/pos-kasir/core/cart"
	"github.com/irsalhamdi/pos-kasir/core/product"
	"github.com/irsalhamdi/pos-kasir/store"
)

var (
	ErrEmptyCart = errors.New("no items to checkout")
	ErrNotFound  = errors.New("transaction not found")
)

// Transaction is an immutable record of a completed sale. Items carry the
// prices the cart held at checkout.
type Transaction struct {
	ID    int64       `json:"id"`
	Date  time.Time   `json:"date"`
	Items []cart.Item `json:"items"`
	Total int         `json:"total"`
}

// Load reads the whole log in creation order.
func Load(tx *store.Tx) ([]Transaction, error) {
	trxs := []Transaction{}
	if _, err := tx.Get(store.KeyTransactions, &trxs); err != nil {
		return nil, err
	}
	return trxs, nil
}

func Save(tx *store.Tx, trxs []Transaction) error {
	return tx.Put(store.KeyTransactions, trxs)
}

func List(ctx context.Context, st *store.Store) ([]Transaction, error) {
	var trxs []Transaction
	err := st.Transaction(ctx, func(tx *store.Tx) error {
		var err error
		trxs, err = Load(tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return trxs, nil
}

func Fetch(ctx context.Context, st *store.Store, id int64) (Transaction, error) {
	trxs, err := List(ctx, st)
	if err != nil {
		return Transaction{}, err
	}

	for _, trx := range trxs {
		if trx.ID == id {
			return trx, nil
		}
	}
	return Transaction{}, fmt.Errorf("fetching transaction[%d]: %w", id, ErrNotFound)
}

// nextID derives an id from now in milliseconds, kept above the last id of
// the log so ids grow with creation order.
func nextID(trxs []Transaction, now time.Time) int64 {
	id := now.UnixMilli()
	if n := len(trxs); n > 0 && trxs[n-1].ID >= id {
		id = trxs[n-1].ID + 1
	}
	return id
}

// Checkout commits the cart: stock is decremented and the transaction is
// appended in one store write. The cart is cleared only once the write
// succeeded.
func Checkout(ctx context.Context, st *store.Store, c *cart.Cart, now time.Time) (Transaction, error) {
	if c.Empty() {
		return Transaction{}, ErrEmptyCart
	}

	var trx Transaction
	err := st.Transaction(ctx, func(tx *store.Tx) error {
		products, err := product.Load(tx)
		if err != nil {
			return err
		}

		for _, it := range c.Items {
			if err := product.Decrement(products, it.ProductID, it.Size, it.Qty); err != nil {
				return err
			}
		}

		trxs, err := Load(tx)
		if err != nil {
			return err
		}

		trx = Transaction{
			ID:    nextID(trxs, now),
			Date:  now.UTC().Truncate(time.Millisecond),
			Items: c.Snapshot(),
			Total: c.Total(),
		}

		if err := product.Save(tx, products); err != nil {
			return err
		}
		return Save(tx, append(trxs, trx))
	})
	if err != nil {
		return Transaction{}, fmt.Errorf("checking out %d items: %w", len(c.Items), err)
	}

	c.Clear()
	return trx, nil
}
