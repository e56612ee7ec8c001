package exec

import (
	"math"

	"github.com/documentql/docql/ast"
	"github.com/documentql/docql/planner"
	"github.com/documentql/docql/sql"
)

// Aggregate reduces the projected rows to a single row whose columns are
// named `func(column)`. Aggregation and non-aggregated projection are
// mutually exclusive within a statement; the planner enforces that at
// Plan() time, so Aggregate always sees a rows slice that was projected
// under a purely-aggregated column list.
func Aggregate(st *planner.State, rows []Row) Row {
	cols := make([]string, len(st.AggregationOrder))
	copy(cols, st.AggregationOrder)
	out := NewRow(cols)
	for _, key := range st.AggregationOrder {
		entry := st.AggregationFields[key]
		out.Values[key] = aggregateOne(entry, key, rows)
	}
	return out
}

// aggregateOne reduces rows to a single value for one aggregation entry.
// outputKey is the key Project renamed entry.Column to (e.g. "sum(price)"),
// the name the value actually lives under in each row's Values map.
func aggregateOne(entry planner.AggEntry, outputKey string, rows []Row) interface{} {
	switch entry.Func {
	case ast.AggCount:
		return float64(len(rows))
	case ast.AggSum:
		var sum float64
		for _, r := range rows {
			if n, ok := numberField(r, outputKey); ok {
				sum += n
			}
		}
		return sum
	case ast.AggAvg:
		var sum float64
		var count int
		for _, r := range rows {
			if n, ok := numberField(r, outputKey); ok {
				sum += n
				count++
			}
		}
		if count == 0 {
			return float64(0)
		}
		return sum / float64(count)
	case ast.AggMin:
		min := math.Inf(1)
		for _, r := range rows {
			if n, ok := numberField(r, outputKey); ok && n < min {
				min = n
			}
		}
		return min
	case ast.AggMax:
		max := math.Inf(-1)
		for _, r := range rows {
			if n, ok := numberField(r, outputKey); ok && n > max {
				max = n
			}
		}
		return max
	default:
		return nil
	}
}

// numberField reads the aggregated column's projected value out of a row
// and coerces it to float64, skipping non-numeric values.
func numberField(r Row, column string) (float64, bool) {
	v, ok := r.Values[column]
	if !ok {
		return 0, false
	}
	return sql.NumberOf(sql.FromNative(v))
}
