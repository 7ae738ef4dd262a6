package receipt

import (
	"strconv"
	"strings"
	"time"

	"github.com/irsalhamdi/pos-kasir/core/report"
	"github.com/irsalhamdi/pos-kasir/core/transaction"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const minWidth = 24

type Options struct {
	StoreName string
	Width     int
	Location  *time.Location
}

var printer = message.NewPrinter(language.Indonesian)

// Amount groups digits the Indonesian way: 225000 becomes "225.000".
func Amount(n int) string {
	return printer.Sprintf("%d", n)
}

func center(s string, width int) string {
	pad := (width - len([]rune(s))) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

// spread puts left and right at both ends of a line.
func spread(left, right string, width int) string {
	gap := width - len([]rune(left)) - len([]rune(right))
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// Format renders the receipt of trx as fixed-width text for thermal printers.
func Format(trx transaction.Transaction, opts Options) string {
	width := opts.Width
	if width < minWidth {
		width = minWidth
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	rule := strings.Repeat("-", width)

	var b strings.Builder
	line := func(s string) {
		b.WriteString(strings.TrimRight(s, " "))
		b.WriteByte('\n')
	}

	line(center("BUKTI PEMBAYARAN", width))
	if opts.StoreName != "" {
		line(center(opts.StoreName, width))
	}
	line("")
	line("No: " + strconv.FormatInt(trx.ID, 10))
	line("Tanggal: " + report.FormatDateTime(trx.Date.In(loc)))
	line(rule)

	for _, it := range trx.Items {
		line(it.Name + " (" + it.Size + ")")
		line(spread(strconv.Itoa(it.Qty)+" x "+Amount(it.Price), Amount(it.Subtotal()), width))
	}

	line(rule)
	line(spread("TOTAL", "Rp "+Amount(trx.Total), width))
	line("")
	line(center("-- Terima Kasih --", width))

	return b.String()
}
