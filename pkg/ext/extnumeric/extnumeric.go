// Package extnumeric provides numeric functions beyond the XPath 1.0 core
// library. Aggregates accept a node-set, whose members contribute the number
// value of their string values, or a single value.
package extnumeric

import (
	"math"
	"slices"

	"github.com/sandrolain/goxpath/pkg/ext/extutil"
	"github.com/sandrolain/goxpath/pkg/functions"
	"github.com/sandrolain/goxpath/pkg/types"
)

// All returns all extended numeric function definitions.
func All() []functions.CustomFunctionDef {
	return []functions.CustomFunctionDef{
		Abs(),
		Sign(),
		Trunc(),
		Log(),
		Pi(),
		Min(),
		Max(),
		Avg(),
		Median(),
	}
}

func mathFunc1(name string, fn func(float64) float64) functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    name,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(_ functions.Call, args ...types.Value) (types.Value, error) {
			return types.Number(fn(args[0].AsNumber())), nil
		},
	}
}

// Abs returns the definition for abs(n).
func Abs() functions.CustomFunctionDef {
	return mathFunc1("abs", math.Abs)
}

// Trunc returns the definition for trunc(n).
// Truncates toward zero.
func Trunc() functions.CustomFunctionDef {
	return mathFunc1("trunc", math.Trunc)
}

// Sign returns the definition for sign(n).
// Returns -1, 0, or 1; NaN stays NaN.
func Sign() functions.CustomFunctionDef {
	return mathFunc1("sign", func(n float64) float64 {
		switch {
		case n < 0:
			return -1
		case n > 0:
			return 1
		default:
			return n
		}
	})
}

// Log returns the definition for log(n [, base]).
// Without a base the natural logarithm is returned.
func Log() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    "log",
		MinArgs: 1,
		MaxArgs: 2,
		Fn: func(_ functions.Call, args ...types.Value) (types.Value, error) {
			n := args[0].AsNumber()
			if len(args) == 2 {
				base := args[1].AsNumber()
				if base <= 0 || base == 1 {
					return nil, extutil.Errorf("log", "base must be positive and not 1")
				}
				return types.Number(math.Log(n) / math.Log(base)), nil
			}
			return types.Number(math.Log(n)), nil
		},
	}
}

// Pi returns the definition for pi().
func Pi() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    "pi",
		MinArgs: 0,
		MaxArgs: 0,
		Fn: func(_ functions.Call, _ ...types.Value) (types.Value, error) {
			return types.Number(math.Pi), nil
		},
	}
}

// aggregate builds a function reducing its argument's numbers. An empty
// input yields NaN.
func aggregate(name string, reduce func([]float64) float64) functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    name,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(_ functions.Call, args ...types.Value) (types.Value, error) {
			nums := extutil.Numbers(args[0])
			if len(nums) == 0 {
				return types.Number(math.NaN()), nil
			}
			return types.Number(reduce(nums)), nil
		},
	}
}

// Min returns the definition for min(values).
func Min() functions.CustomFunctionDef {
	return aggregate("min", func(nums []float64) float64 {
		m := nums[0]
		for _, n := range nums[1:] {
			m = math.Min(m, n)
		}
		return m
	})
}

// Max returns the definition for max(values).
func Max() functions.CustomFunctionDef {
	return aggregate("max", func(nums []float64) float64 {
		m := nums[0]
		for _, n := range nums[1:] {
			m = math.Max(m, n)
		}
		return m
	})
}

// Avg returns the definition for avg(values).
func Avg() functions.CustomFunctionDef {
	return aggregate("avg", func(nums []float64) float64 {
		total := 0.0
		for _, n := range nums {
			total += n
		}
		return total / float64(len(nums))
	})
}

// Median returns the definition for median(values).
func Median() functions.CustomFunctionDef {
	return aggregate("median", func(nums []float64) float64 {
		sorted := slices.Clone(nums)
		slices.Sort(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 == 0 {
			return (sorted[mid-1] + sorted[mid]) / 2
		}
		return sorted[mid]
	})
}
