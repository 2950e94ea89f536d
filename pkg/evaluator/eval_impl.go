package evaluator

import (
	"fmt"

	"github.com/sandrolain/goxpath/pkg/document"
	"github.com/sandrolain/goxpath/pkg/types"
)

// evalNode evaluates one expression node in the given context.
func (e *Evaluator) evalNode(node types.Expr, ctx *EvalContext) (types.Value, error) {
	if e.opts.MaxDepth > 0 && ctx.Depth() > e.opts.MaxDepth {
		return nil, types.NewError(types.ErrStackOverflow,
			fmt.Sprintf("maximum evaluation depth %d exceeded", e.opts.MaxDepth), -1)
	}

	switch n := node.(type) {
	case *types.Literal:
		if n.Value == nil {
			return nil, fmt.Errorf("literal has no value")
		}
		return n.Value, nil
	case *types.And:
		return e.evalAnd(n, ctx)
	case *types.Or:
		return e.evalOr(n, ctx)
	case *types.Equal:
		return e.evalEquality(n.Left, n.Right, ctx, false)
	case *types.NotEqual:
		return e.evalEquality(n.Left, n.Right, ctx, true)
	case *types.Relational:
		return e.evalRelational(n, ctx)
	case *types.Math:
		return e.evalMath(n, ctx)
	case *types.Negate:
		return e.evalNegate(n, ctx)
	case *types.Union:
		return e.evalUnion(n, ctx)
	case *types.Function:
		return e.evalFunction(n, ctx)
	case *types.Predicate:
		return e.evalPredicate(n, ctx)
	case *types.Variable:
		return e.evalVariable(n, ctx)
	case *types.ContextNode:
		return types.NewNodes(ctx.Node()), nil
	case *types.Root:
		return types.NewNodes(ctx.Node().Root()), nil
	case *types.Step:
		return e.evalStep(n, ctx)
	case *types.Path:
		return e.evalPath(n, ctx)
	case nil:
		return nil, fmt.Errorf("invalid expression")
	default:
		return nil, fmt.Errorf("unsupported expression node %T", node)
	}
}

func (e *Evaluator) evalVariable(n *types.Variable, ctx *EvalContext) (types.Value, error) {
	v, ok := ctx.Variable(n.Name)
	if !ok {
		return nil, types.NewError(types.ErrUndefinedVariable,
			fmt.Sprintf("variable $%s is not defined", n.Name), -1).WithToken("$" + n.Name)
	}
	return v, nil
}

// evalNodeset evaluates node and requires a node-set result. what names the
// operand in the error message.
func (e *Evaluator) evalNodeset(node types.Expr, ctx *EvalContext, what string) (*document.Nodeset, error) {
	v, err := e.evalNode(node, ctx)
	if err != nil {
		return nil, err
	}
	nodes, ok := v.(types.Nodes)
	if !ok {
		return nil, nodesetExpected(what, v)
	}
	return nodes.Set, nil
}

func nodesetExpected(what string, got types.Value) *types.Error {
	return types.NewError(types.ErrNodesetExpected,
		fmt.Sprintf("%s: expected %s, got %s", what, types.KindNodeset, got.Kind()), -1)
}
