package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/irsalhamdi/pos-kasir/core/auth"
	"github.com/irsalhamdi/pos-kasir/core/product"
	"github.com/irsalhamdi/pos-kasir/core/transaction"
	"github.com/irsalhamdi/pos-kasir/store"
)

var ErrInvalidFormat = errors.New("invalid backup format")

// Backup is the whole content of the store.
type Backup struct {
	Products        []product.Product         `json:"products"`
	Transactions    []transaction.Transaction `json:"transactions"`
	UserCredentials auth.Credentials          `json:"userCredentials"`
}

// Filename names the backup file produced on day.
func Filename(day time.Time) string {
	return "backup-pos-kasir-" + day.Format("2006-01-02") + ".json"
}

func Export(ctx context.Context, st *store.Store) (Backup, error) {
	var b Backup
	err := st.Transaction(ctx, func(tx *store.Tx) error {
		var err error
		if b.Products, err = product.Load(tx); err != nil {
			return err
		}
		if b.Transactions, err = transaction.Load(tx); err != nil {
			return err
		}
		b.UserCredentials, err = auth.Load(tx)
		return err
	})
	if err != nil {
		return Backup{}, fmt.Errorf("exporting backup: %w", err)
	}
	return b, nil
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

// Parse decodes a backup document. Products and transactions must be
// arrays and the credentials must be present.
func Parse(data []byte) (Backup, error) {
	var doc struct {
		Products        json.RawMessage `json:"products"`
		Transactions    json.RawMessage `json:"transactions"`
		UserCredentials json.RawMessage `json:"userCredentials"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Backup{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	switch {
	case !isArray(doc.Products):
		return Backup{}, fmt.Errorf("%w: products is not an array", ErrInvalidFormat)
	case !isArray(doc.Transactions):
		return Backup{}, fmt.Errorf("%w: transactions is not an array", ErrInvalidFormat)
	case !isObject(doc.UserCredentials):
		return Backup{}, fmt.Errorf("%w: userCredentials missing", ErrInvalidFormat)
	}

	var b Backup
	if err := json.Unmarshal(doc.Products, &b.Products); err != nil {
		return Backup{}, fmt.Errorf("%w: products: %v", ErrInvalidFormat, err)
	}
	if err := json.Unmarshal(doc.Transactions, &b.Transactions); err != nil {
		return Backup{}, fmt.Errorf("%w: transactions: %v", ErrInvalidFormat, err)
	}
	if err := json.Unmarshal(doc.UserCredentials, &b.UserCredentials); err != nil {
		return Backup{}, fmt.Errorf("%w: userCredentials: %v", ErrInvalidFormat, err)
	}
	return b, nil
}

// Import overwrites the three collections in one store write.
func Import(ctx context.Context, st *store.Store, b Backup) error {
	err := st.Transaction(ctx, func(tx *store.Tx) error {
		if err := product.Save(tx, b.Products); err != nil {
			return err
		}
		if err := transaction.Save(tx, b.Transactions); err != nil {
			return err
		}
		return auth.Save(tx, b.UserCredentials)
	})
	if err != nil {
		return fmt.Errorf("importing backup: %w", err)
	}
	return nil
}
