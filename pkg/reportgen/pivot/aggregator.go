package pivot

import (
	"strings"

	"github.com/ukaji3/reportgen-go/pkg/reportgen/models"
)

// Aggregator reduces the value-field entries of one pivot cell.
type Aggregator string

const (
	Sum     Aggregator = "sum"
	Count   Aggregator = "count"
	Average Aggregator = "avg"
	Min     Aggregator = "min"
	Max     Aggregator = "max"
)

// ParseAggregator maps an instruction value to an aggregator. Unknown or
// empty names mean Sum.
func ParseAggregator(s string) Aggregator {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "count":
		return Count
	case "avg", "average", "mean":
		return Average
	case "min":
		return Min
	case "max":
		return Max
	default:
		return Sum
	}
}

// Reduce aggregates values. Count counts every entry; the other
// aggregators consider only values that parse as numbers and yield zero
// when none do.
func (a Aggregator) Reduce(values []interface{}) float64 {
	if a == Count {
		return float64(len(values))
	}
	var (
		n      int
		sum    float64
		lo, hi float64
	)
	for _, v := range values {
		f, ok := models.ParseFloat(v)
		if !ok {
			continue
		}
		if n == 0 || f < lo {
			lo = f
		}
		if n == 0 || f > hi {
			hi = f
		}
		sum += f
		n++
	}
	if n == 0 {
		return 0
	}
	switch a {
	case Average:
		return sum / float64(n)
	case Min:
		return lo
	case Max:
		return hi
	default:
		return sum
	}
}

func (a Aggregator) String() string {
	return string(a)
}
