package report

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/irsalhamdi/pos-kasir/api/web"
	"github.com/irsalhamdi/pos-kasir/api/weberr"
	"github.com/irsalhamdi/pos-kasir/core/product"
	"github.com/irsalhamdi/pos-kasir/core/transaction"
	"github.com/irsalhamdi/pos-kasir/store"
	"github.com/irsalhamdi/pos-kasir/validate"
)

type Sales struct {
	Filter       Filter                    `json:"filter"`
	Summary      Summary                   `json:"summary"`
	Chart        []Bucket                  `json:"chart"`
	Transactions []transaction.Transaction `json:"transactions"`
}

// parseFilter reads the filter from the query string. Missing year and
// month default to the current ones.
func parseFilter(q url.Values, now time.Time) (Filter, error) {
	f := Filter{
		Mode:  Mode(q.Get("mode")),
		Start: q.Get("start"),
		End:   q.Get("end"),
	}
	if f.Mode == "" {
		f.Mode = All
	}

	atoi := func(key string, def int) (int, error) {
		s := q.Get(key)
		if s == "" {
			return def, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("%s must be a number", key)
		}
		return n, nil
	}

	var err error
	if f.Mode == Monthly || f.Mode == Yearly {
		if f.Year, err = atoi("year", now.Year()); err != nil {
			return Filter{}, err
		}
	}
	if f.Mode == Monthly {
		if f.Month, err = atoi("month", int(now.Month())); err != nil {
			return Filter{}, err
		}
	}

	if err := validate.Check(f); err != nil {
		return Filter{}, err
	}
	return f, nil
}

func filtered(ctx context.Context, st *store.Store, r *http.Request, loc *time.Location) (Filter, []transaction.Transaction, error) {
	f, err := parseFilter(r.URL.Query(), time.Now().In(loc))
	if err != nil {
		return Filter{}, nil, weberr.Invalid(err)
	}

	trxs, err := transaction.List(ctx, st)
	if err != nil {
		return Filter{}, nil, err
	}

	trxs, err = Apply(trxs, f, loc)
	if err != nil {
		if errors.Is(err, ErrInvalidRange) || errors.Is(err, ErrInvalidFilter) {
			return Filter{}, nil, weberr.Invalid(err)
		}
		return Filter{}, nil, err
	}
	return f, trxs, nil
}

func HandleSales(st *store.Store, loc *time.Location) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		f, trxs, err := filtered(ctx, st, r, loc)
		if err != nil {
			return err
		}

		chart := ByDay(trxs, loc)
		if chart == nil {
			chart = []Bucket{}
		}

		s := Sales{
			Filter:       f,
			Summary:      Aggregate(trxs),
			Chart:        chart,
			Transactions: trxs,
		}
		return web.Respond(ctx, w, s, http.StatusOK)
	}
}

func HandleExport(st *store.Store, loc *time.Location) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		_, trxs, err := filtered(ctx, st, r, loc)
		if err != nil {
			return err
		}

		if len(trxs) == 0 {
			err := errors.New("no transactions to export")
			return weberr.NewError(err, err.Error(), http.StatusNotFound)
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFilename(time.Now().UTC())))
		w.WriteHeader(http.StatusOK)

		if err := ExportCSV(w, trxs, loc); err != nil {
			return fmt.Errorf("writing csv export: %w", err)
		}
		return nil
	}
}

func HandleDashboard(st *store.Store, loc *time.Location) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		products, err := product.List(ctx, st)
		if err != nil {
			return err
		}

		trxs, err := transaction.List(ctx, st)
		if err != nil {
			return err
		}

		d := BuildDashboard(trxs, len(products), time.Now(), loc)
		return web.Respond(ctx, w, d, http.StatusOK)
	}
}
