package evaluator

import (
	"github.com/sandrolain/goxpath/pkg/document"
	"github.com/sandrolain/goxpath/pkg/types"
)

// evalPredicate filters the node-set selected by n.NodeSelector. Positions
// count in document order.
func (e *Evaluator) evalPredicate(n *types.Predicate, ctx *EvalContext) (types.Value, error) {
	set, err := e.evalNodeset(n.NodeSelector, ctx, "predicate selector")
	if err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return types.Nodes{Set: set}, nil
	}
	kept, err := e.filter(set.Nodes(), n.Predicate, ctx)
	if err != nil {
		return nil, err
	}
	return types.NewNodes(kept...), nil
}

// filter keeps the nodes for which pred holds. Each node is visited in the
// order given, with its 1-based rank as context position and len(nodes) as
// context size. A number result keeps the node iff it equals the position;
// any other result is converted with AsBoolean.
func (e *Evaluator) filter(nodes []document.Node, pred types.Expr, ctx *EvalContext) ([]document.Node, error) {
	size := len(nodes)
	kept := nodes[:0:0]
	for i, node := range nodes {
		v, err := e.evalNode(pred, ctx.forNode(node, i+1, size))
		if err != nil {
			return nil, err
		}
		if predicateHolds(v, i+1) {
			kept = append(kept, node)
		}
	}
	return kept, nil
}

func predicateHolds(v types.Value, position int) bool {
	if num, ok := v.(types.Number); ok {
		return float64(num) == float64(position)
	}
	return v.AsBoolean()
}
