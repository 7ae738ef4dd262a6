package receipt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/irsalhamdi/pos-kasir/api/web"
	"github.com/irsalhamdi/pos-kasir/api/weberr"
	"github.com/irsalhamdi/pos-kasir/core/transaction"
	"github.com/irsalhamdi/pos-kasir/store"
	"github.com/irsalhamdi/pos-kasir/validate"
)

func HandleShow(st *store.Store, opts Options) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := validate.ParseID(web.Param(r, "id"))
		if err != nil {
			return weberr.BadRequest(err)
		}

		trx, err := transaction.Fetch(ctx, st, id)
		if err != nil {
			if errors.Is(err, transaction.ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)

		if _, err := io.WriteString(w, Format(trx, opts)); err != nil {
			return fmt.Errorf("writing receipt: %w", err)
		}
		return nil
	}
}
