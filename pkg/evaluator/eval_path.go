package evaluator

import (
	"slices"

	"github.com/sandrolain/goxpath/pkg/document"
	"github.com/sandrolain/goxpath/pkg/types"
)

// evalPath evaluates n.Right once for every node selected by n.Left and
// returns the union of the results.
func (e *Evaluator) evalPath(n *types.Path, ctx *EvalContext) (types.Value, error) {
	left, err := e.evalNodeset(n.Left, ctx, "path")
	if err != nil {
		return nil, err
	}

	out := &document.Nodeset{}
	size := left.Len()
	for i, node := range left.All() {
		right, err := e.evalNodeset(n.Right, ctx.forNode(node, i+1, size), "path step")
		if err != nil {
			return nil, err
		}
		for _, r := range right.All() {
			out.Add(r)
		}
	}
	return types.Nodes{Set: out}, nil
}

// evalStep selects the nodes along the step's axis that pass its node test
// and predicates. Predicate positions follow the axis direction.
func (e *Evaluator) evalStep(n *types.Step, ctx *EvalContext) (types.Value, error) {
	principal := document.ElementNode
	if n.Axis == types.AxisAttribute {
		principal = document.AttributeNode
	}

	var selected []document.Node
	for node := range axisNodes(n.Axis, ctx.Node()) {
		if matchTest(n.Test, principal, node) {
			selected = append(selected, node)
		}
	}

	for _, pred := range n.Predicates {
		if len(selected) == 0 {
			break
		}
		var err error
		selected, err = e.filter(selected, pred, ctx)
		if err != nil {
			return nil, err
		}
	}
	return types.NewNodes(selected...), nil
}

// matchTest applies a node test. Name tests and * only match nodes of the
// axis' principal node type.
func matchTest(test types.NodeTest, principal document.NodeKind, node document.Node) bool {
	switch test.Kind {
	case types.TestName:
		return node.Kind() == principal && node.Name() == test.Name
	case types.TestAny:
		return node.Kind() == principal
	case types.TestPrefix:
		return node.Kind() == principal && node.Prefix() == test.Name
	case types.TestNode:
		return true
	case types.TestText:
		return node.Kind() == document.TextNode
	case types.TestComment:
		return node.Kind() == document.CommentNode
	case types.TestProcessingInstruction:
		return node.Kind() == document.ProcessingInstructionNode &&
			(test.Name == "" || node.Name() == test.Name)
	default:
		return false
	}
}

// nodeSeq yields nodes in axis order.
type nodeSeq func(yield func(document.Node) bool)

// axisNodes walks axis from node. Forward axes yield in document order,
// reverse axes nearest first.
func axisNodes(axis types.Axis, node document.Node) nodeSeq {
	return func(yield func(document.Node) bool) {
		if node.IsZero() {
			return
		}
		switch axis {
		case types.AxisChild:
			for _, c := range node.Children() {
				if !yield(c) {
					return
				}
			}
		case types.AxisDescendant:
			descendants(node, yield)
		case types.AxisDescendantOrSelf:
			if yield(node) {
				descendants(node, yield)
			}
		case types.AxisParent:
			if p, ok := node.Parent(); ok {
				yield(p)
			}
		case types.AxisAncestor:
			ancestors(node, yield)
		case types.AxisAncestorOrSelf:
			if yield(node) {
				ancestors(node, yield)
			}
		case types.AxisFollowingSibling:
			siblings, i := siblingsOf(node)
			for _, s := range siblings[i+1:] {
				if !yield(s) {
					return
				}
			}
		case types.AxisPrecedingSibling:
			siblings, i := siblingsOf(node)
			for j := i - 1; j >= 0; j-- {
				if !yield(siblings[j]) {
					return
				}
			}
		case types.AxisFollowing:
			following(node, yield)
		case types.AxisPreceding:
			preceding(node, yield)
		case types.AxisAttribute:
			if node.Kind() != document.ElementNode {
				return
			}
			for _, a := range node.Attributes() {
				if !yield(a) {
					return
				}
			}
		case types.AxisSelf:
			yield(node)
		case types.AxisNamespace:
			// namespace nodes are not modelled
		}
	}
}

// descendants yields the descendants of node in document order and reports
// whether iteration should continue.
func descendants(node document.Node, yield func(document.Node) bool) bool {
	for _, c := range node.Children() {
		if !yield(c) || !descendants(c, yield) {
			return false
		}
	}
	return true
}

// descendantsReverse yields node's subtree in reverse document order,
// node itself last.
func descendantsReverse(node document.Node, yield func(document.Node) bool) bool {
	children := node.Children()
	for i := len(children) - 1; i >= 0; i-- {
		if !descendantsReverse(children[i], yield) {
			return false
		}
	}
	return yield(node)
}

func ancestors(node document.Node, yield func(document.Node) bool) {
	for p, ok := node.Parent(); ok; p, ok = p.Parent() {
		if !yield(p) {
			return
		}
	}
}

// siblingsOf returns the children of node's parent and node's index among
// them. Attributes and parentless nodes have no siblings.
func siblingsOf(node document.Node) ([]document.Node, int) {
	if node.Kind() == document.AttributeNode {
		return nil, -1
	}
	parent, ok := node.Parent()
	if !ok {
		return nil, -1
	}
	children := parent.Children()
	return children, slices.Index(children, node)
}

func following(node document.Node, yield func(document.Node) bool) {
	start := node
	if node.Kind() == document.AttributeNode {
		parent, ok := node.Parent()
		if !ok {
			return
		}
		// the owner element's content follows its attributes
		if !descendants(parent, yield) {
			return
		}
		start = parent
	}
	for cur, ok := start, true; ok; cur, ok = cur.Parent() {
		siblings, i := siblingsOf(cur)
		for _, s := range siblings[i+1:] {
			if !yield(s) || !descendants(s, yield) {
				return
			}
		}
	}
}

func preceding(node document.Node, yield func(document.Node) bool) {
	start := node
	if node.Kind() == document.AttributeNode {
		parent, ok := node.Parent()
		if !ok {
			return
		}
		start = parent
	}
	for cur, ok := start, true; ok; cur, ok = cur.Parent() {
		siblings, i := siblingsOf(cur)
		for j := i - 1; j >= 0; j-- {
			if !descendantsReverse(siblings[j], yield) {
				return
			}
		}
	}
}
