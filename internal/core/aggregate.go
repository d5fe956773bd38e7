package core

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MonthlySeriesLen caps the chart series at the six most recent months that
// have any spending.
const MonthlySeriesLen = 6

// MonthBucket is one bar of the monthly spending series.
type MonthBucket struct {
	Key      string // fixed-width "YYYY-MM"; lexicographic order is chronological
	Label    string // "Jan 2024"
	TotalAbs Amount
}

// TotalAbs sums |amount| over the whole collection. The result is
// order-independent; an empty collection yields zero.
func TotalAbs(txs []Transaction) Amount {
	sum := decimal.Zero
	for _, t := range txs {
		sum = sum.Add(t.Amount.Decimal.Abs())
	}
	return Amount{Decimal: sum}
}

// SubtotalAbs sums |amount| over an already filtered subset. It exists as its
// own name because callers use it for the search view's running total.
func SubtotalAbs(txs []Transaction) Amount { return TotalAbs(txs) }

// CurrentMonthTotalAbs sums |amount| restricted to transactions dated in the
// same calendar month and year as now.
func CurrentMonthTotalAbs(txs []Transaction, now time.Time) Amount {
	key := now.Format("2006-01")
	sum := decimal.Zero
	for _, t := range txs {
		if t.MonthKey() == key {
			sum = sum.Add(t.Amount.Decimal.Abs())
		}
	}
	return Amount{Decimal: sum}
}

// MonthlySeries groups the collection by year-month, sums |amount| per group,
// orders groups chronologically ascending and keeps only the last
// MonthlySeriesLen of them. Shorter histories yield shorter series; an empty
// collection yields an empty series, never zero-valued bars.
func MonthlySeries(txs []Transaction) []MonthBucket {
	sums := make(map[string]decimal.Decimal)
	for _, t := range txs {
		key := t.MonthKey()
		sums[key] = sums[key].Add(t.Amount.Decimal.Abs())
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > MonthlySeriesLen {
		keys = keys[len(keys)-MonthlySeriesLen:]
	}

	series := make([]MonthBucket, 0, len(keys))
	for _, k := range keys {
		series = append(series, MonthBucket{
			Key:      k,
			Label:    FormatMonthLabel(k),
			TotalAbs: Amount{Decimal: sums[k]},
		})
	}
	return series
}

// Search returns the transactions whose description contains term,
// case-insensitively, preserving collection order. An empty term returns the
// full collection unfiltered.
func Search(txs []Transaction, term string) []Transaction {
	if term == "" {
		return append([]Transaction(nil), txs...)
	}
	needle := strings.ToLower(term)
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if strings.Contains(strings.ToLower(t.Description), needle) {
			out = append(out, t)
		}
	}
	return out
}
