package evaluator

import (
	"fmt"

	"github.com/sandrolain/goxpath/pkg/types"
)

// evalFunction looks the function up in the context library, evaluates every
// argument left to right and calls it.
func (e *Evaluator) evalFunction(n *types.Function, ctx *EvalContext) (types.Value, error) {
	fn, ok := ctx.Function(n.Name)
	if !ok {
		if e.opts.Debug {
			e.logger.Debug("unknown function", "name", n.Name)
		}
		return nil, types.NewError(types.ErrUndefinedFunction,
			fmt.Sprintf("unknown function %s()", n.Name), -1).WithToken(n.Name)
	}

	args := make([]types.Value, 0, len(n.Arguments))
	for _, argNode := range n.Arguments {
		arg, err := e.evalNode(argNode, ctx)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	if e.opts.Debug {
		e.logger.Debug("calling function",
			"name", n.Name,
			"args", len(args),
			"context", ctx.String())
	}

	result, err := fn.Call(ctx, args)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("function %s() returned no value", n.Name)
	}
	return result, nil
}
