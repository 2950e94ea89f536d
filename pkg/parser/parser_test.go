package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/goxpath/pkg/parser"
	"github.com/sandrolain/goxpath/pkg/types"
)

func num(f float64) types.Expr { return &types.Literal{Value: types.Number(f)} }
func str(s string) types.Expr  { return &types.Literal{Value: types.String(s)} }

func step(axis types.Axis, test types.NodeTest, preds ...types.Expr) *types.Step {
	return &types.Step{Axis: axis, Test: test, Predicates: preds}
}

func child(name string, preds ...types.Expr) *types.Step {
	return step(types.AxisChild, types.NodeTest{Kind: types.TestName, Name: name}, preds...)
}

func path(left, right types.Expr) types.Expr { return &types.Path{Left: left, Right: right} }

var (
	anyNode = types.NodeTest{Kind: types.TestNode}
	dos     = step(types.AxisDescendantOrSelf, anyNode)
)

func TestParsePaths(t *testing.T) {
	tests := []struct {
		query string
		want  types.Expr
	}{
		{"/", &types.Root{}},
		{"/a", path(&types.Root{}, child("a"))},
		{"a/b", path(child("a"), child("b"))},
		{"a/b/c", path(path(child("a"), child("b")), child("c"))},
		{"//book", path(path(&types.Root{}, dos), child("book"))},
		{"a//b", path(path(child("a"), dos), child("b"))},
		{".", step(types.AxisSelf, anyNode)},
		{"..", step(types.AxisParent, anyNode)},
		{"./a", path(step(types.AxisSelf, anyNode), child("a"))},
		{"@id", step(types.AxisAttribute, types.NodeTest{Kind: types.TestName, Name: "id"})},
		{"@*", step(types.AxisAttribute, types.NodeTest{Kind: types.TestAny})},
		{"*", step(types.AxisChild, types.NodeTest{Kind: types.TestAny})},
		{"xs:*", step(types.AxisChild, types.NodeTest{Kind: types.TestPrefix, Name: "xs"})},
		{"xs:element", child("xs:element")},
		{"child::*", step(types.AxisChild, types.NodeTest{Kind: types.TestAny})},
		{"ancestor-or-self::node()", step(types.AxisAncestorOrSelf, anyNode)},
		{"following-sibling::text()", step(types.AxisFollowingSibling, types.NodeTest{Kind: types.TestText})},
		{"preceding::comment()", step(types.AxisPreceding, types.NodeTest{Kind: types.TestComment})},
		{"processing-instruction()", step(types.AxisChild, types.NodeTest{Kind: types.TestProcessingInstruction})},
		{
			"processing-instruction('php')",
			step(types.AxisChild, types.NodeTest{Kind: types.TestProcessingInstruction, Name: "php"}),
		},
		{"a[1]", child("a", num(1))},
		{"a[@x][2]", child("a", step(types.AxisAttribute, types.NodeTest{Kind: types.TestName, Name: "x"}), num(2))},
		{"(a)[1]", &types.Predicate{NodeSelector: child("a"), Predicate: num(1)}},
		{"$v/a", path(&types.Variable{Name: "v"}, child("a"))},
		{"$v//a", path(path(&types.Variable{Name: "v"}, dos), child("a"))},
		{"id('x')/b", path(&types.Function{Name: "id", Arguments: []types.Expr{str("x")}}, child("b"))},
		{"and", child("and")},
		{"div div div", types.NewMath(types.OpDivide, child("div"), child("div"))},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			expr, err := parser.Parse(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, expr.Root())
			assert.Equal(t, tt.query, expr.Source())
		})
	}
}

func TestParseOperators(t *testing.T) {
	tests := []struct {
		query string
		want  types.Expr
	}{
		{"1 + 2 * 3", types.NewMath(types.OpAdd, num(1), types.NewMath(types.OpMultiply, num(2), num(3)))},
		{"(1 + 2) * 3", types.NewMath(types.OpMultiply, types.NewMath(types.OpAdd, num(1), num(2)), num(3))},
		{"1 - 2 - 3", types.NewMath(types.OpSubtract, types.NewMath(types.OpSubtract, num(1), num(2)), num(3))},
		{"7 mod 2 div 1", types.NewMath(types.OpDivide, types.NewMath(types.OpModulo, num(7), num(2)), num(1))},
		{"-1", &types.Negate{Operand: num(1)}},
		{"--1", &types.Negate{Operand: &types.Negate{Operand: num(1)}}},
		{"- a | b", &types.Negate{Operand: &types.Union{Left: child("a"), Right: child("b")}}},
		{"a | b | c", &types.Union{Left: &types.Union{Left: child("a"), Right: child("b")}, Right: child("c")}},
		{"a or b and c", &types.Or{Left: child("a"), Right: &types.And{Left: child("b"), Right: child("c")}}},
		{"a and b or c", &types.Or{Left: &types.And{Left: child("a"), Right: child("b")}, Right: child("c")}},
		{"$x = 'y'", &types.Equal{Left: &types.Variable{Name: "x"}, Right: str("y")}},
		{"a != 1", types.NewNotEqual(child("a"), num(1))},
		{"a = b < c", &types.Equal{Left: child("a"), Right: types.NewRelational(types.OpLess, child("b"), child("c"))}},
		{"1 <= 2", types.NewRelational(types.OpLessEqual, num(1), num(2))},
		{"1 > 2", types.NewRelational(types.OpGreater, num(1), num(2))},
		{"1 >= 2", types.NewRelational(types.OpGreaterEqual, num(1), num(2))},
		{"1 < 2 + 3", types.NewRelational(types.OpLess, num(1), types.NewMath(types.OpAdd, num(2), num(3)))},
		{"* * *", types.NewMath(types.OpMultiply,
			step(types.AxisChild, types.NodeTest{Kind: types.TestAny}),
			step(types.AxisChild, types.NodeTest{Kind: types.TestAny}))},
		{".5 + 1.", types.NewMath(types.OpAdd, num(0.5), num(1))},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			expr, err := parser.Parse(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, expr.Root())
		})
	}
}

func TestParseFunctionCalls(t *testing.T) {
	tests := []struct {
		query string
		want  types.Expr
	}{
		{"true()", &types.Function{Name: "true"}},
		{"count(//a)", &types.Function{Name: "count", Arguments: []types.Expr{
			path(path(&types.Root{}, dos), child("a")),
		}}},
		{"concat('a', $b, 1)", &types.Function{Name: "concat", Arguments: []types.Expr{
			str("a"), &types.Variable{Name: "b"}, num(1),
		}}},
		{"f(g(1))", &types.Function{Name: "f", Arguments: []types.Expr{
			&types.Function{Name: "g", Arguments: []types.Expr{num(1)}},
		}}},
		{"my-fn()[1]", &types.Predicate{NodeSelector: &types.Function{Name: "my-fn"}, Predicate: num(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			expr, err := parser.Parse(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, expr.Root())
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		query    string
		code     types.ErrorCode
		position int
	}{
		{"", types.ErrSyntaxError, 0},
		{"   ", types.ErrSyntaxError, 3},
		{"1 +", types.ErrSyntaxError, 3},
		{"1 2", types.ErrSyntaxError, 2},
		{"a[", types.ErrSyntaxError, 2},
		{"a[1", types.ErrExpectedToken, 3},
		{"f(1", types.ErrExpectedToken, 3},
		{"f(1,)", types.ErrSyntaxError, 4},
		{"(1", types.ErrExpectedToken, 2},
		{"//", types.ErrSyntaxError, 2},
		{"a/", types.ErrSyntaxError, 2},
		{"foo::bar", types.ErrUnknownAxis, 0},
		{"child::", types.ErrSyntaxError, 7},
		{"@1", types.ErrSyntaxError, 1},
		{"processing-instruction(1)", types.ErrExpectedToken, 23},
		{"text", "", 0},
		{`"open`, types.ErrStringNotClosed, 1},
		{"a # b", types.ErrUnexpectedChar, 2},
		{"$", types.ErrUnexpectedChar, 1},
		{"]", types.ErrSyntaxError, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			_, err := parser.Parse(tt.query)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var xerr *types.Error
			require.ErrorAs(t, err, &xerr)
			assert.Equal(t, tt.code, xerr.Code, "%v", err)
			assert.Equal(t, tt.position, xerr.Position, "%v", err)
		})
	}
}

func TestParseMaxDepth(t *testing.T) {
	_, err := parser.Compile("(((1)))", parser.WithMaxDepth(2))
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrExpressionTooDeep))

	_, err = parser.Compile("(((1)))", parser.WithMaxDepth(0))
	assert.NoError(t, err)

	deep := ""
	for range 300 {
		deep += "-"
	}
	_, err = parser.Parse(deep + "1")
	assert.True(t, types.IsCode(err, types.ErrExpressionTooDeep), "default limit applies")
}

func TestMustCompile(t *testing.T) {
	assert.NotNil(t, parser.MustCompile("a/b"))
	assert.Panics(t, func() { parser.MustCompile("a[") })
}
