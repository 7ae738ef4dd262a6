package api

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/irsalhamdi/pos-kasir/api/middleware"
	"github.com/irsalhamdi/pos-kasir/api/web"
	"github.com/irsalhamdi/pos-kasir/core/auth"
	"github.com/irsalhamdi/pos-kasir/core/backup"
	"github.com/irsalhamdi/pos-kasir/core/cart"
	"github.com/irsalhamdi/pos-kasir/core/product"
	"github.com/irsalhamdi/pos-kasir/core/receipt"
	"github.com/irsalhamdi/pos-kasir/core/report"
	"github.com/irsalhamdi/pos-kasir/core/transaction"
	"github.com/irsalhamdi/pos-kasir/rate"
	"github.com/irsalhamdi/pos-kasir/store"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin   string
	Log          logrus.FieldLogger
	Store        *store.Store
	Session      *scs.SessionManager
	LoginLimiter *rate.Limiter
	Location     *time.Location
	Receipt      receipt.Options
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	rcpt := cfg.Receipt
	if rcpt.Location == nil {
		rcpt.Location = loc
	}

	st, sm := cfg.Store, cfg.Session
	authen := auth.Authenticate(sm)

	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(st, sm, cfg.LoginLimiter))
	a.Handle(http.MethodPost, "/auth/logout", auth.HandleLogout(sm), authen)

	a.Handle(http.MethodGet, "/users/current", auth.HandleShowCurrent(st), authen)
	a.Handle(http.MethodPut, "/users/current", auth.HandleUpdateProfile(st), authen)

	a.Handle(http.MethodGet, "/products", product.HandleList(st), authen)
	a.Handle(http.MethodPost, "/products", product.HandleCreate(st), authen)
	a.Handle(http.MethodGet, "/products/{id}", product.HandleShow(st), authen)
	a.Handle(http.MethodPut, "/products/{id}", product.HandleUpdate(st), authen)
	a.Handle(http.MethodDelete, "/products/{id}", product.HandleDelete(st), authen)

	a.Handle(http.MethodGet, "/cart", cart.HandleShow(sm), authen)
	a.Handle(http.MethodDelete, "/cart", cart.HandleDelete(sm), authen)
	a.Handle(http.MethodPut, "/cart/items", cart.HandleCreateItem(st, sm), authen)
	a.Handle(http.MethodDelete, "/cart/items/{product_id}/{size}", cart.HandleDeleteItem(sm), authen)

	a.Handle(http.MethodPost, "/checkout", transaction.HandleCheckout(st, sm), authen)
	a.Handle(http.MethodGet, "/transactions", transaction.HandleList(st), authen)
	a.Handle(http.MethodGet, "/transactions/{id}", transaction.HandleShow(st), authen)
	a.Handle(http.MethodGet, "/transactions/{id}/receipt", receipt.HandleShow(st, rcpt), authen)

	a.Handle(http.MethodGet, "/reports/sales", report.HandleSales(st, loc), authen)
	a.Handle(http.MethodGet, "/reports/sales/export", report.HandleExport(st, loc), authen)
	a.Handle(http.MethodGet, "/dashboard", report.HandleDashboard(st, loc), authen)

	a.Handle(http.MethodGet, "/backup", backup.HandleExport(st), authen)
	a.Handle(http.MethodPost, "/backup", backup.HandleImport(st), authen)

	return sm.LoadAndSave(a.Router)
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
