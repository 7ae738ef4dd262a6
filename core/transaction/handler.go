package transaction

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/pos-kasir/api/web"
	"github.com/irsalhamdi/pos-kasir/api/weberr"
	"github.com/irsalhamdi/pos-kasir/core/cart"
	"github.com/irsalhamdi/pos-kasir/core/product"
	"github.com/irsalhamdi/pos-kasir/store"
	"github.com/irsalhamdi/pos-kasir/validate"
)

func HandleCheckout(st *store.Store, sm *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c := cart.Load(ctx, sm)

		trx, err := Checkout(ctx, st, &c, time.Now())
		if err != nil {
			var se *product.StockError
			switch {
			case errors.Is(err, ErrEmptyCart):
				return weberr.Unprocessable(err)
			case errors.As(err, &se):
				return weberr.Unprocessable(err,
					weberr.WithFields(map[string]interface{}{"remaining": se.Remaining}))
			case errors.Is(err, product.ErrNotFound), errors.Is(err, product.ErrSizeNotFound):
				return weberr.Unprocessable(err)
			}
			return err
		}
		cart.Store(ctx, sm, c)

		return web.Respond(ctx, w, trx, http.StatusCreated)
	}
}

func HandleList(st *store.Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		trxs, err := List(ctx, st)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, trxs, http.StatusOK)
	}
}

func HandleShow(st *store.Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := validate.ParseID(web.Param(r, "id"))
		if err != nil {
			return weberr.BadRequest(err)
		}

		trx, err := Fetch(ctx, st, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		return web.Respond(ctx, w, trx, http.StatusOK)
	}
}
