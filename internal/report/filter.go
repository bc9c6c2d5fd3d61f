package report

import (
	"time"

	"github.com/Veraticus/bookkeeper/internal/model"
)

// FilterRange keeps transactions dated within [from, to], compared by calendar day. A zero bound
// is open. Undated transactions are dropped.
func FilterRange(txns []model.Transaction, from, to time.Time) []model.Transaction {
	out := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		date, ok := txn.ParsedDate()
		if !ok {
			continue
		}
		day := truncateDay(date)
		if !from.IsZero() && day.Before(truncateDay(from)) {
			continue
		}
		if !to.IsZero() && day.After(truncateDay(to)) {
			continue
		}
		out = append(out, txn)
	}
	return out
}

// DateRange returns the earliest and latest parseable dates in txns.
func DateRange(txns []model.Transaction) (time.Time, time.Time, bool) {
	var first, last time.Time
	found := false
	for _, txn := range txns {
		date, ok := txn.ParsedDate()
		if !ok {
			continue
		}
		if !found || date.Before(first) {
			first = date
		}
		if !found || date.After(last) {
			last = date
		}
		found = true
	}
	return first, last, found
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
