// Package analytics holds the pure financial-metrics engines: aggregation,
// budget compliance, health scoring, period comparison and insight rules.
// Nothing here touches storage or the clock; services feed it records.
package analytics

import "fintrack/internal/core"

// Sum totals the amounts of txs. An empty slice sums to zero.
func Sum(txs []core.Transaction) core.Money {
	var total core.Money
	for _, t := range txs {
		total = total.Add(t.Amount)
	}
	return total
}

// SumByCategory totals amounts per category. Categories without records are
// absent from the result.
func SumByCategory(txs []core.Transaction) map[core.Category]core.Money {
	out := make(map[core.Category]core.Money)
	for _, t := range txs {
		out[t.Category] = out[t.Category].Add(t.Amount)
	}
	return out
}
