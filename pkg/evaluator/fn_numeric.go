package evaluator

import (
	"math"

	"github.com/sandrolain/goxpath/pkg/types"
)

func fnNumber(ctx *EvalContext, args []types.Value) (types.Value, error) {
	return types.Number(contextOrArg(ctx, args).AsNumber()), nil
}

func fnSum(_ *EvalContext, args []types.Value) (types.Value, error) {
	set, err := nodesetArg("sum", args, 0)
	if err != nil {
		return nil, err
	}
	total := 0.0
	for _, n := range set.All() {
		total += types.ParseNumber(n.StringValue())
	}
	return types.Number(total), nil
}

func fnFloor(_ *EvalContext, args []types.Value) (types.Value, error) {
	return types.Number(math.Floor(args[0].AsNumber())), nil
}

func fnCeiling(_ *EvalContext, args []types.Value) (types.Value, error) {
	return types.Number(math.Ceil(args[0].AsNumber())), nil
}

func fnRound(_ *EvalContext, args []types.Value) (types.Value, error) {
	return types.Number(Round(args[0].AsNumber())), nil
}

// Round rounds to the closest integer, halves towards positive infinity.
// NaN and infinities are returned unchanged; values in [-0.5, 0) round to
// negative zero.
func Round(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	if f < 0 && f >= -0.5 {
		return math.Copysign(0, -1)
	}
	r := math.Floor(f)
	if f-r >= 0.5 {
		r++
	}
	return r
}
