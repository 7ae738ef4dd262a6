package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/pos-kasir/api/web"
	"github.com/irsalhamdi/pos-kasir/api/weberr"
	"github.com/irsalhamdi/pos-kasir/core/product"
	"github.com/irsalhamdi/pos-kasir/store"
	"github.com/irsalhamdi/pos-kasir/validate"
)

type View struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
}

func view(c Cart) View {
	items := c.Items
	if items == nil {
		items = []Item{}
	}
	return View{Items: items, Total: c.Total()}
}

func HandleShow(sm *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, view(Load(ctx, sm)), http.StatusOK)
	}
}

func HandleDelete(sm *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		Store(ctx, sm, Cart{})
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleCreateItem(st *store.Store, sm *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in ItemNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.Invalid(err)
		}

		p, err := product.Fetch(ctx, st, in.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		c := Load(ctx, sm)
		if err := c.Add(p, in.Size, in.Qty); err != nil {
			return addError(err)
		}
		Store(ctx, sm, c)

		return web.Respond(ctx, w, view(c), http.StatusOK)
	}
}

func HandleDeleteItem(sm *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := validate.ParseID(web.Param(r, "product_id"))
		if err != nil {
			return weberr.BadRequest(err)
		}

		c := Load(ctx, sm)
		c.Remove(id, web.Param(r, "size"))
		Store(ctx, sm, c)

		return web.Respond(ctx, w, view(c), http.StatusOK)
	}
}

func addError(err error) error {
	var se *product.StockError
	switch {
	case errors.As(err, &se):
		return weberr.Unprocessable(err,
			weberr.WithFields(map[string]interface{}{"remaining": se.Remaining}))
	case errors.Is(err, product.ErrSizeNotFound):
		return weberr.Invalid(err)
	case errors.Is(err, ErrInvalidQuantity):
		return weberr.Invalid(err)
	}
	return err
}
