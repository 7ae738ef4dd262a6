package report

import (
	"sort"
	"time"

	"github.com/irsalhamdi/pos-kasir/core/transaction"
)

const (
	noBestSeller = "N/A"
	maxBuckets   = 30
)

type Summary struct {
	TotalSales       int    `json:"totalSales"`
	TransactionCount int    `json:"transactionCount"`
	BestSelling      string `json:"bestSelling"`
}

type Bucket struct {
	Label string `json:"label"`
	Sum   int    `json:"sum"`
}

type ProductSales struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// productSales sums item quantities by product name, in first-seen order.
func productSales(trxs []transaction.Transaction) []ProductSales {
	var out []ProductSales
	idx := make(map[string]int)

	for _, trx := range trxs {
		for _, it := range trx.Items {
			i, ok := idx[it.Name]
			if !ok {
				i = len(out)
				idx[it.Name] = i
				out = append(out, ProductSales{Name: it.Name})
			}
			out[i].Qty += it.Qty
		}
	}
	return out
}

// bestSeller keeps the first name reaching the highest quantity.
func bestSeller(sales []ProductSales) string {
	if len(sales) == 0 {
		return noBestSeller
	}

	best := sales[0]
	for _, s := range sales[1:] {
		if s.Qty > best.Qty {
			best = s
		}
	}
	return best.Name
}

func Aggregate(trxs []transaction.Transaction) Summary {
	s := Summary{
		TransactionCount: len(trxs),
		BestSelling:      bestSeller(productSales(trxs)),
	}
	for _, trx := range trxs {
		s.TotalSales += trx.Total
	}
	return s
}

// ByDay sums totals per calendar day label. Buckets keep the order in which
// their day was first seen and only the last 30 are returned.
func ByDay(trxs []transaction.Transaction, loc *time.Location) []Bucket {
	var buckets []Bucket
	idx := make(map[string]int)

	for _, trx := range trxs {
		label := DayLabel(trx.Date.In(loc))
		i, ok := idx[label]
		if !ok {
			i = len(buckets)
			idx[label] = i
			buckets = append(buckets, Bucket{Label: label})
		}
		buckets[i].Sum += trx.Total
	}

	if len(buckets) > maxBuckets {
		buckets = buckets[len(buckets)-maxBuckets:]
	}
	return buckets
}

// TopProducts returns the n best selling products by quantity.
func TopProducts(trxs []transaction.Transaction, n int) []ProductSales {
	sales := productSales(trxs)
	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].Qty > sales[j].Qty
	})

	if len(sales) > n {
		sales = sales[:n]
	}
	return sales
}
