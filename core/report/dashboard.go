package report

import (
	"time"

	"github.com/irsalhamdi/pos-kasir/core/transaction"
)

const (
	dashboardDays   = 7
	dashboardTop    = 5
	dashboardRecent = 5
)

type Dashboard struct {
	SalesToday     int                       `json:"salesToday"`
	ProductCount   int                       `json:"productCount"`
	ItemsSoldToday int                       `json:"itemsSoldToday"`
	BestSelling    string                    `json:"bestSelling"`
	Week           []Bucket                  `json:"week"`
	TopProducts    []ProductSales            `json:"topProducts"`
	Recent         []transaction.Transaction `json:"recent"`
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// BuildDashboard summarizes the whole log as seen at now, in loc.
func BuildDashboard(trxs []transaction.Transaction, productCount int, now time.Time, loc *time.Location) Dashboard {
	now = now.In(loc)
	d := Dashboard{
		ProductCount: productCount,
		BestSelling:  bestSeller(productSales(trxs)),
		TopProducts:  TopProducts(trxs, dashboardTop),
		Week:         make([]Bucket, dashboardDays),
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	first := today.AddDate(0, 0, -(dashboardDays - 1))
	for i := range d.Week {
		d.Week[i].Label = WeekdayLabel(first.AddDate(0, 0, i))
	}

	for _, trx := range trxs {
		t := trx.Date.In(loc)

		if sameDay(t, now) {
			d.SalesToday += trx.Total
			for _, it := range trx.Items {
				d.ItemsSoldToday += it.Qty
			}
		}

		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		if day.Before(first) || day.After(today) {
			continue
		}
		for i := range d.Week {
			if sameDay(first.AddDate(0, 0, i), day) {
				d.Week[i].Sum += trx.Total
				break
			}
		}
	}

	n := len(trxs)
	if n > dashboardRecent {
		n = dashboardRecent
	}
	d.Recent = make([]transaction.Transaction, 0, n)
	for i := len(trxs) - 1; i >= len(trxs)-n; i-- {
		d.Recent = append(d.Recent, trxs[i])
	}

	if d.TopProducts == nil {
		d.TopProducts = []ProductSales{}
	}
	return d
}
