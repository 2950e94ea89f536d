// Package extutil provides shared helpers for the ext sub-packages.
package extutil

import (
	"fmt"

	"github.com/sandrolain/goxpath/pkg/types"
)

// Errorf builds an error prefixed with the calling function's name.
func Errorf(fn, format string, args ...any) error {
	return fmt.Errorf(fn+"(): "+format, args...)
}

// Nodes returns argument i as a node-set value.
func Nodes(fn string, args []types.Value, i int) (types.Nodes, error) {
	nodes, ok := args[i].(types.Nodes)
	if !ok {
		return types.Nodes{}, types.NewError(types.ErrNodesetExpected,
			fmt.Sprintf("argument %d of %s() must be a node-set, got %s", i+1, fn, args[i].Kind()), -1).WithToken(fn)
	}
	return nodes, nil
}

// Strings flattens a value into strings: the string value of every member
// of a node-set, or the single string conversion of any other value.
func Strings(v types.Value) []string {
	nodes, ok := v.(types.Nodes)
	if !ok {
		return []string{v.AsString()}
	}
	out := make([]string, 0, nodes.Len())
	for _, n := range nodes.Set.All() {
		out = append(out, n.StringValue())
	}
	return out
}

// Numbers flattens a value into numbers the way Strings flattens into strings.
func Numbers(v types.Value) []float64 {
	if _, ok := v.(types.Nodes); !ok {
		return []float64{v.AsNumber()}
	}
	strs := Strings(v)
	out := make([]float64, len(strs))
	for i, s := range strs {
		out[i] = types.ParseNumber(s)
	}
	return out
}
