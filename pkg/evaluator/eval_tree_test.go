package evaluator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/goxpath/pkg/document"
	"github.com/sandrolain/goxpath/pkg/evaluator"
	"github.com/sandrolain/goxpath/pkg/types"
)

// Hand-built trees, evaluated without going through the parser.

func lit(v types.Value) types.Expr { return &types.Literal{Value: v} }

func evalTree(t *testing.T, expr types.Expr, lib evaluator.Library) (types.Value, error) {
	t.Helper()
	doc, err := document.ParseString(`<r><n1/><n2/></r>`)
	require.NoError(t, err)
	return evaluator.Evaluate(expr, evaluator.NewContext(doc.Root(), lib))
}

func TestTreeEquality(t *testing.T) {
	tests := []struct {
		name     string
		expr     types.Expr
		expected types.Value
	}{
		{"boolean wins over string",
			&types.Equal{Left: lit(types.Boolean(false)), Right: lit(types.String("hello"))}, types.Boolean(false)},
		{"number wins over string",
			&types.Equal{Left: lit(types.String("-42.0")), Right: lit(types.Number(-42))}, types.Boolean(true)},
		{"plain strings",
			&types.Equal{Left: lit(types.String("hello")), Right: lit(types.String("World"))}, types.Boolean(false)},
		{"not equal booleans",
			&types.NotEqual{Left: lit(types.Boolean(true)), Right: lit(types.Boolean(false))}, types.Boolean(true)},
		{"boolean against number",
			&types.Equal{Left: lit(types.Number(0.5)), Right: lit(types.Boolean(true))}, types.Boolean(true)},
		{"multiply",
			&types.Math{Op: types.OpMultiply, Left: lit(types.Number(10)), Right: lit(types.Number(5))}, types.Number(50)},
		{"less than",
			&types.Relational{Op: types.OpLess, Left: lit(types.Number(10)), Right: lit(types.Number(5))}, types.Boolean(false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalTree(t, tt.expr, evaluator.CoreLibrary())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTreeNotEqualIsNegation(t *testing.T) {
	values := []types.Value{
		types.Boolean(true), types.Boolean(false),
		types.Number(0), types.Number(1), types.Number(-42),
		types.String(""), types.String("1"), types.String("-42.0"), types.String("x"),
	}
	for _, a := range values {
		for _, b := range values {
			eq, err := evalTree(t, &types.Equal{Left: lit(a), Right: lit(b)}, nil)
			require.NoError(t, err)
			ne, err := evalTree(t, &types.NotEqual{Left: lit(a), Right: lit(b)}, nil)
			require.NoError(t, err)
			assert.NotEqual(t, eq, ne, "%v vs %v", a, b)
		}
	}
}

func TestTreeAndShortCircuit(t *testing.T) {
	failing := &types.Function{Name: "unknown-fn"}
	calls := 0
	lib := evaluator.Library{
		"tick": evaluator.FunctionFunc(func(_ *evaluator.EvalContext, _ []types.Value) (types.Value, error) {
			calls++
			return types.Boolean(true), nil
		}),
	}

	v, err := evalTree(t, &types.And{Left: lit(types.Boolean(false)), Right: failing}, lib)
	require.NoError(t, err)
	assert.Equal(t, types.Boolean(false), v)

	v, err = evalTree(t, &types.And{Left: lit(types.Number(0)), Right: &types.Function{Name: "tick"}}, lib)
	require.NoError(t, err)
	assert.Equal(t, types.Boolean(false), v)
	assert.Zero(t, calls)

	v, err = evalTree(t, &types.And{Left: lit(types.String("x")), Right: &types.Function{Name: "tick"}}, lib)
	require.NoError(t, err)
	assert.Equal(t, types.Boolean(true), v)
	assert.Equal(t, 1, calls)

	_, err = evalTree(t, &types.And{Left: lit(types.Boolean(true)), Right: failing}, lib)
	assert.True(t, types.IsCode(err, types.ErrUndefinedFunction))
}

func TestTreeLiteralWithoutValue(t *testing.T) {
	tests := []struct {
		name string
		expr types.Expr
	}{
		{"bare", &types.Literal{}},
		{"and operand", &types.And{Left: &types.Literal{}, Right: lit(types.Boolean(true))}},
		{"or operand", &types.Or{Left: lit(types.Boolean(false)), Right: &types.Literal{}}},
		{"negated", &types.Negate{Operand: &types.Literal{}}},
		{"function argument", &types.Function{Name: "string", Arguments: []types.Expr{&types.Literal{}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := evalTree(t, tt.expr, evaluator.CoreLibrary())
				assert.ErrorContains(t, err, "literal has no value")
			})
		})
	}
}

func TestTreeUnknownFunction(t *testing.T) {
	_, err := evalTree(t, &types.Function{Name: "unknown-fn"}, evaluator.CoreLibrary())
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrUndefinedFunction))
	assert.Contains(t, err.Error(), "unknown-fn")
}

func TestTreeFunctionArguments(t *testing.T) {
	var got []types.Value
	lib := evaluator.Library{
		"collect": evaluator.FunctionFunc(func(_ *evaluator.EvalContext, args []types.Value) (types.Value, error) {
			got = args
			return types.String("done"), nil
		}),
	}
	v, err := evalTree(t, &types.Function{Name: "collect", Arguments: []types.Expr{
		lit(types.Number(1)),
		&types.And{Left: lit(types.Boolean(false)), Right: lit(types.Boolean(true))},
		lit(types.String("c")),
	}}, lib)
	require.NoError(t, err)
	assert.Equal(t, types.String("done"), v)
	assert.Equal(t, []types.Value{types.Number(1), types.Boolean(false), types.String("c")}, got)
}

func TestTreePredicate(t *testing.T) {
	doc, err := document.ParseString(`<r><n1/><n2/></r>`)
	require.NoError(t, err)
	r, _ := doc.DocumentElement()
	n1, n2 := r.Children()[0], r.Children()[1]
	// The set is built out of order; positions still follow document order.
	set := lit(types.NewNodes(n2, n1))
	ctx := evaluator.NewContext(doc.Root(), evaluator.CoreLibrary())

	tests := []struct {
		name      string
		predicate types.Expr
		expected  []document.Node
	}{
		{"first by position", lit(types.Number(1)), []document.Node{n1}},
		{"second by position", lit(types.Number(2)), []document.Node{n2}},
		{"position out of range", lit(types.Number(3)), []document.Node{}},
		{"false keeps nothing", lit(types.Boolean(false)), []document.Node{}},
		{"non-empty string keeps all", lit(types.String("x")), []document.Node{n1, n2}},
		{"last()", &types.Function{Name: "last"}, []document.Node{n2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := evaluator.Evaluate(&types.Predicate{NodeSelector: set, Predicate: tt.predicate}, ctx)
			require.NoError(t, err)
			nodes, ok := v.(types.Nodes)
			require.True(t, ok)
			assert.Equal(t, tt.expected, nodes.Set.Nodes())
		})
	}

	empty := &types.Predicate{NodeSelector: lit(types.NewNodes()), Predicate: &types.Function{Name: "unknown-fn"}}
	v, err := evaluator.Evaluate(empty, ctx)
	require.NoError(t, err, "the predicate is not evaluated for an empty set")
	assert.Equal(t, 0, v.(types.Nodes).Len())

	_, err = evaluator.Evaluate(&types.Predicate{NodeSelector: lit(types.Number(1)), Predicate: lit(types.Boolean(true))}, ctx)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrNodesetExpected))
	assert.Contains(t, err.Error(), "number")
}
