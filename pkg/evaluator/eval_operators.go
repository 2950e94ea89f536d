package evaluator

import (
	"math"

	"github.com/sandrolain/goxpath/pkg/document"
	"github.com/sandrolain/goxpath/pkg/types"
)

// evalAnd evaluates the right operand only when the left one is true.
func (e *Evaluator) evalAnd(n *types.And, ctx *EvalContext) (types.Value, error) {
	left, err := e.evalNode(n.Left, ctx)
	if err != nil {
		return nil, err
	}
	if !left.AsBoolean() {
		return types.Boolean(false), nil
	}
	right, err := e.evalNode(n.Right, ctx)
	if err != nil {
		return nil, err
	}
	return types.Boolean(right.AsBoolean()), nil
}

// evalOr evaluates the right operand only when the left one is false.
func (e *Evaluator) evalOr(n *types.Or, ctx *EvalContext) (types.Value, error) {
	left, err := e.evalNode(n.Left, ctx)
	if err != nil {
		return nil, err
	}
	if left.AsBoolean() {
		return types.Boolean(true), nil
	}
	right, err := e.evalNode(n.Right, ctx)
	if err != nil {
		return nil, err
	}
	return types.Boolean(right.AsBoolean()), nil
}

func (e *Evaluator) evalOperands(left, right types.Expr, ctx *EvalContext) (types.Value, types.Value, error) {
	l, err := e.evalNode(left, ctx)
	if err != nil {
		return nil, nil, err
	}
	r, err := e.evalNode(right, ctx)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func (e *Evaluator) evalEquality(left, right types.Expr, ctx *EvalContext, negate bool) (types.Value, error) {
	l, r, err := e.evalOperands(left, right, ctx)
	if err != nil {
		return nil, err
	}
	eq := ValuesEqual(l, r)
	if negate {
		eq = !eq
	}
	return types.Boolean(eq), nil
}

// ValuesEqual implements "=". If either operand is a boolean both are
// compared as booleans; otherwise if either is a number both are compared as
// numbers; otherwise both are compared as strings. Node-set operands compare
// existentially: the result is true when some member satisfies the
// comparison.
func ValuesEqual(l, r types.Value) bool {
	ls, lok := l.(types.Nodes)
	rs, rok := r.(types.Nodes)
	switch {
	case lok && rok:
		return anyPair(ls.Set, rs.Set, func(a, b string) bool { return a == b })
	case lok:
		return nodesetEquals(ls, r)
	case rok:
		return nodesetEquals(rs, l)
	}

	switch {
	case l.Kind() == types.KindBoolean || r.Kind() == types.KindBoolean:
		return l.AsBoolean() == r.AsBoolean()
	case l.Kind() == types.KindNumber || r.Kind() == types.KindNumber:
		return l.AsNumber() == r.AsNumber()
	default:
		return l.AsString() == r.AsString()
	}
}

func nodesetEquals(set types.Nodes, other types.Value) bool {
	switch o := other.(type) {
	case types.Boolean:
		return set.AsBoolean() == bool(o)
	case types.Number:
		for _, n := range set.Set.All() {
			if types.ParseNumber(n.StringValue()) == float64(o) {
				return true
			}
		}
		return false
	default:
		s := other.AsString()
		for _, n := range set.Set.All() {
			if n.StringValue() == s {
				return true
			}
		}
		return false
	}
}

func anyPair(a, b *document.Nodeset, match func(x, y string) bool) bool {
	if a.Len() == 0 || b.Len() == 0 {
		return false
	}
	right := make([]string, 0, b.Len())
	for _, n := range b.All() {
		right = append(right, n.StringValue())
	}
	for _, n := range a.All() {
		x := n.StringValue()
		for _, y := range right {
			if match(x, y) {
				return true
			}
		}
	}
	return false
}

func (e *Evaluator) evalRelational(n *types.Relational, ctx *EvalContext) (types.Value, error) {
	l, r, err := e.evalOperands(n.Left, n.Right, ctx)
	if err != nil {
		return nil, err
	}
	return types.Boolean(Compare(n.Op, l, r)), nil
}

// Compare implements the relational operators. Both operands are compared
// as numbers; node-set operands compare existentially over the numeric
// values of their members.
func Compare(op types.RelOp, l, r types.Value) bool {
	cmp := func(a, b float64) bool {
		switch op {
		case types.OpLess:
			return a < b
		case types.OpLessEqual:
			return a <= b
		case types.OpGreater:
			return a > b
		case types.OpGreaterEqual:
			return a >= b
		default:
			return false
		}
	}

	ls, lok := l.(types.Nodes)
	rs, rok := r.(types.Nodes)
	switch {
	case lok && rok:
		return anyPair(ls.Set, rs.Set, func(a, b string) bool {
			return cmp(types.ParseNumber(a), types.ParseNumber(b))
		})
	case lok:
		if r.Kind() == types.KindBoolean {
			return cmp(types.Boolean(l.AsBoolean()).AsNumber(), r.AsNumber())
		}
		b := r.AsNumber()
		for _, n := range ls.Set.All() {
			if cmp(types.ParseNumber(n.StringValue()), b) {
				return true
			}
		}
		return false
	case rok:
		if l.Kind() == types.KindBoolean {
			return cmp(l.AsNumber(), types.Boolean(r.AsBoolean()).AsNumber())
		}
		a := l.AsNumber()
		for _, n := range rs.Set.All() {
			if cmp(a, types.ParseNumber(n.StringValue())) {
				return true
			}
		}
		return false
	default:
		return cmp(l.AsNumber(), r.AsNumber())
	}
}

func (e *Evaluator) evalMath(n *types.Math, ctx *EvalContext) (types.Value, error) {
	l, r, err := e.evalOperands(n.Left, n.Right, ctx)
	if err != nil {
		return nil, err
	}
	a, b := l.AsNumber(), r.AsNumber()
	switch n.Op {
	case types.OpAdd:
		return types.Number(a + b), nil
	case types.OpSubtract:
		return types.Number(a - b), nil
	case types.OpMultiply:
		return types.Number(a * b), nil
	case types.OpDivide:
		return types.Number(a / b), nil
	case types.OpModulo:
		return types.Number(math.Mod(a, b)), nil
	default:
		return types.Number(math.NaN()), nil
	}
}

func (e *Evaluator) evalNegate(n *types.Negate, ctx *EvalContext) (types.Value, error) {
	v, err := e.evalNode(n.Operand, ctx)
	if err != nil {
		return nil, err
	}
	return types.Number(-v.AsNumber()), nil
}

func (e *Evaluator) evalUnion(n *types.Union, ctx *EvalContext) (types.Value, error) {
	left, err := e.evalNodeset(n.Left, ctx, "left operand of |")
	if err != nil {
		return nil, err
	}
	right, err := e.evalNodeset(n.Right, ctx, "right operand of |")
	if err != nil {
		return nil, err
	}
	return types.Nodes{Set: left.Union(right)}, nil
}
