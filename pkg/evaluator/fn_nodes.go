package evaluator

import (
	"strings"

	"github.com/sandrolain/goxpath/pkg/document"
	"github.com/sandrolain/goxpath/pkg/types"
)

func fnLast(ctx *EvalContext, _ []types.Value) (types.Value, error) {
	return types.Number(ctx.Size()), nil
}

func fnPosition(ctx *EvalContext, _ []types.Value) (types.Value, error) {
	return types.Number(ctx.Position()), nil
}

func fnCount(_ *EvalContext, args []types.Value) (types.Value, error) {
	set, err := nodesetArg("count", args, 0)
	if err != nil {
		return nil, err
	}
	return types.Number(set.Len()), nil
}

// fnID selects the elements whose id attribute matches one of the
// whitespace-separated tokens of the argument. Without a DTD the attributes
// named "id" and "xml:id" are treated as IDs.
func fnID(ctx *EvalContext, args []types.Value) (types.Value, error) {
	wanted := make(map[string]struct{})
	addTokens := func(s string) {
		for _, tok := range strings.FieldsFunc(s, isXMLSpace) {
			wanted[tok] = struct{}{}
		}
	}
	if nodes, ok := args[0].(types.Nodes); ok {
		for _, n := range nodes.Set.All() {
			addTokens(n.StringValue())
		}
	} else {
		addTokens(args[0].AsString())
	}

	out := &document.Nodeset{}
	if len(wanted) == 0 {
		return types.Nodes{Set: out}, nil
	}
	root := ctx.Node().Root()
	for node := range axisNodes(types.AxisDescendant, root) {
		if node.Kind() != document.ElementNode {
			continue
		}
		for _, attr := range []string{"id", "xml:id"} {
			if a, ok := node.Attribute(attr); ok {
				if _, hit := wanted[a.Value()]; hit {
					out.Add(node)
					break
				}
			}
		}
	}
	return types.Nodes{Set: out}, nil
}

// firstNodeArg returns the first node of the optional node-set argument,
// defaulting to the context node.
func firstNodeArg(fn string, ctx *EvalContext, args []types.Value) (document.Node, bool, error) {
	if len(args) == 0 {
		return ctx.Node(), !ctx.Node().IsZero(), nil
	}
	set, err := nodesetArg(fn, args, 0)
	if err != nil {
		return document.Node{}, false, err
	}
	n, ok := set.First()
	return n, ok, nil
}

func fnLocalName(ctx *EvalContext, args []types.Value) (types.Value, error) {
	n, ok, err := firstNodeArg("local-name", ctx, args)
	if err != nil || !ok {
		return types.String(""), err
	}
	return types.String(n.LocalName()), nil
}

// fnNamespaceURI always yields "": prefixes are kept verbatim in names and
// never resolved to URIs.
func fnNamespaceURI(ctx *EvalContext, args []types.Value) (types.Value, error) {
	if _, _, err := firstNodeArg("namespace-uri", ctx, args); err != nil {
		return nil, err
	}
	return types.String(""), nil
}

func fnName(ctx *EvalContext, args []types.Value) (types.Value, error) {
	n, ok, err := firstNodeArg("name", ctx, args)
	if err != nil || !ok {
		return types.String(""), err
	}
	return types.String(n.Name()), nil
}
