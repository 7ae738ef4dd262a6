package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/irsalhamdi/pos-kasir/core/transaction"
)

const csvHeader = "ID Transaksi,Tanggal,Nama Produk,Ukuran,Jumlah,Harga Satuan,Subtotal"

// ExportFilename names the CSV export produced on day.
func ExportFilename(day time.Time) string {
	return "laporan-penjualan-" + day.Format(dateLayout) + ".csv"
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportCSV writes one row per transaction item. Names and dates are always
// quoted since both may carry commas.
func ExportCSV(w io.Writer, trxs []transaction.Transaction, loc *time.Location) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, csvHeader); err != nil {
		return err
	}

	for _, trx := range trxs {
		date := quote(FormatDateTime(trx.Date.In(loc)))
		for _, it := range trx.Items {
			row := []string{
				strconv.FormatInt(trx.ID, 10),
				date,
				quote(it.Name),
				it.Size,
				strconv.Itoa(it.Qty),
				strconv.Itoa(it.Price),
				strconv.Itoa(it.Subtotal()),
			}
			if _, err := fmt.Fprintln(bw, strings.Join(row, ",")); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}
