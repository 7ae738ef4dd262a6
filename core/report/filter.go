package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/irsalhamdi/pos-kasir/core/transaction"
)

var (
	ErrInvalidRange  = errors.New("both dates are required for a range")
	ErrInvalidFilter = errors.New("unknown filter mode")
)

type Mode string

const (
	All     Mode = "all"
	Monthly Mode = "monthly"
	Yearly  Mode = "yearly"
	Range   Mode = "range"
)

const dateLayout = "2006-01-02"

// Filter selects the transactions of a report. Start and End are calendar
// dates in the 2006-01-02 layout.
type Filter struct {
	Mode  Mode   `json:"mode" validate:"required,oneof=all monthly yearly range"`
	Year  int    `json:"year" validate:"omitempty,gte=1970,lte=9999"`
	Month int    `json:"month" validate:"omitempty,gte=1,lte=12"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Apply keeps the transactions matching f, evaluating calendar fields in
// loc, and returns them most recent first.
func Apply(trxs []transaction.Transaction, f Filter, loc *time.Location) ([]transaction.Transaction, error) {
	var keep func(t time.Time) bool

	switch f.Mode {
	case All, "":
		keep = func(time.Time) bool { return true }

	case Monthly:
		keep = func(t time.Time) bool {
			t = t.In(loc)
			return t.Year() == f.Year && int(t.Month()) == f.Month
		}

	case Yearly:
		keep = func(t time.Time) bool {
			return t.In(loc).Year() == f.Year
		}

	case Range:
		start, end, err := bounds(f, loc)
		if err != nil {
			return nil, err
		}
		keep = func(t time.Time) bool {
			return !t.Before(start) && !t.After(end)
		}

	default:
		return nil, fmt.Errorf("%q: %w", f.Mode, ErrInvalidFilter)
	}

	out := make([]transaction.Transaction, 0, len(trxs))
	for i := len(trxs) - 1; i >= 0; i-- {
		if keep(trxs[i].Date) {
			out = append(out, trxs[i])
		}
	}
	return out, nil
}

// bounds returns the first and last instant of the inclusive date range.
func bounds(f Filter, loc *time.Location) (time.Time, time.Time, error) {
	if f.Start == "" || f.End == "" {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}

	start, err := time.ParseInLocation(dateLayout, f.Start, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start %q: %w", f.Start, ErrInvalidRange)
	}

	end, err := time.ParseInLocation(dateLayout, f.End, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end %q: %w", f.End, ErrInvalidRange)
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end %s before start %s: %w", f.End, f.Start, ErrInvalidRange)
	}

	end = end.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end, nil
}
