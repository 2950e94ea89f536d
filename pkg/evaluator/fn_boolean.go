package evaluator

import (
	"strings"

	"github.com/sandrolain/goxpath/pkg/types"
)

func fnBoolean(_ *EvalContext, args []types.Value) (types.Value, error) {
	return types.Boolean(args[0].AsBoolean()), nil
}

func fnNot(_ *EvalContext, args []types.Value) (types.Value, error) {
	return types.Boolean(!args[0].AsBoolean()), nil
}

func fnTrue(_ *EvalContext, _ []types.Value) (types.Value, error) {
	return types.Boolean(true), nil
}

func fnFalse(_ *EvalContext, _ []types.Value) (types.Value, error) {
	return types.Boolean(false), nil
}

// fnLang tests the xml:lang in scope at the context node. The language
// matches when it equals the argument or starts with the argument followed
// by "-", ignoring case.
func fnLang(ctx *EvalContext, args []types.Value) (types.Value, error) {
	want := args[0].AsString()
	for node := range axisNodes(types.AxisAncestorOrSelf, ctx.Node()) {
		attr, ok := node.Attribute("xml:lang")
		if !ok {
			continue
		}
		lang := attr.Value()
		if strings.EqualFold(lang, want) {
			return types.Boolean(true), nil
		}
		if len(lang) > len(want) && lang[len(want)] == '-' && strings.EqualFold(lang[:len(want)], want) {
			return types.Boolean(true), nil
		}
		return types.Boolean(false), nil
	}
	return types.Boolean(false), nil
}
