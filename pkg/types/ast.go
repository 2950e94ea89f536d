package types

// Expr is a node of an expression tree. It is a closed sum type: the set of
// variants is fixed to the types declared in this file and evaluators switch
// over them exhaustively.
//
// Each variant exclusively owns its children; trees are acyclic and never
// modified after construction.
type Expr interface {
	expr()
}

// Literal evaluates to a constant value.
type Literal struct {
	Value Value
}

// And is the short-circuit logical conjunction.
type And struct {
	Left, Right Expr
}

// Or is the short-circuit logical disjunction.
type Or struct {
	Left, Right Expr
}

// Equal compares two operands with the "=" coercion rules.
type Equal struct {
	Left, Right Expr
}

// NotEqual is the negation of Equal.
type NotEqual struct {
	Left, Right Expr
}

// NewNotEqual builds a NotEqual node.
func NewNotEqual(left, right Expr) *NotEqual {
	return &NotEqual{Left: left, Right: right}
}

// RelOp is a relational operator.
type RelOp uint8

const (
	OpLess RelOp = iota
	OpLessEqual
	OpGreater
	OpGreaterEqual
)

// String returns the operator symbol.
func (op RelOp) String() string {
	switch op {
	case OpLess:
		return "<"
	case OpLessEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEqual:
		return ">="
	default:
		return "(unknown)"
	}
}

// Relational compares both operands numerically.
type Relational struct {
	Op          RelOp
	Left, Right Expr
}

// NewRelational builds a Relational node.
func NewRelational(op RelOp, left, right Expr) *Relational {
	return &Relational{Op: op, Left: left, Right: right}
}

// MathOp is an arithmetic operator.
type MathOp uint8

const (
	OpAdd MathOp = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
)

// String returns the operator as written in an expression.
func (op MathOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "div"
	case OpModulo:
		return "mod"
	default:
		return "(unknown)"
	}
}

// Math applies an arithmetic operator to both operands coerced to numbers.
type Math struct {
	Op          MathOp
	Left, Right Expr
}

// NewMath builds a Math node.
func NewMath(op MathOp, left, right Expr) *Math {
	return &Math{Op: op, Left: left, Right: right}
}

// Negate is unary minus.
type Negate struct {
	Operand Expr
}

// Union merges two node-sets.
type Union struct {
	Left, Right Expr
}

// Function calls a named function from the context's library.
type Function struct {
	Name      string
	Arguments []Expr
}

// Predicate filters the node-set produced by NodeSelector, keeping the nodes
// for which Predicate holds. Positions count in document order.
type Predicate struct {
	NodeSelector Expr
	Predicate    Expr
}

// Variable references a binding of the evaluation context.
type Variable struct {
	Name string
}

// ContextNode evaluates to the context node.
type ContextNode struct{}

// Root evaluates to the root of the context node's tree.
type Root struct{}

// Step selects the nodes reached from the context node along Axis that
// satisfy Test, then filters them through Predicates in axis order.
type Step struct {
	Axis       Axis
	Test       NodeTest
	Predicates []Expr
}

// Path evaluates Right once for every node produced by Left and returns the
// union of the results.
type Path struct {
	Left, Right Expr
}

func (*Literal) expr()     {}
func (*And) expr()         {}
func (*Or) expr()          {}
func (*Equal) expr()       {}
func (*NotEqual) expr()    {}
func (*Relational) expr()  {}
func (*Math) expr()        {}
func (*Negate) expr()      {}
func (*Union) expr()       {}
func (*Function) expr()    {}
func (*Predicate) expr()   {}
func (*Variable) expr()    {}
func (*ContextNode) expr() {}
func (*Root) expr()        {}
func (*Step) expr()        {}
func (*Path) expr()        {}

// Axis is a direction of tree traversal.
type Axis uint8

const (
	AxisChild Axis = iota
	AxisAncestor
	AxisAncestorOrSelf
	AxisAttribute
	AxisDescendant
	AxisDescendantOrSelf
	AxisFollowing
	AxisFollowingSibling
	AxisNamespace
	AxisParent
	AxisPreceding
	AxisPrecedingSibling
	AxisSelf
)

var axisNames = [...]string{
	AxisChild:            "child",
	AxisAncestor:         "ancestor",
	AxisAncestorOrSelf:   "ancestor-or-self",
	AxisAttribute:        "attribute",
	AxisDescendant:       "descendant",
	AxisDescendantOrSelf: "descendant-or-self",
	AxisFollowing:        "following",
	AxisFollowingSibling: "following-sibling",
	AxisNamespace:        "namespace",
	AxisParent:           "parent",
	AxisPreceding:        "preceding",
	AxisPrecedingSibling: "preceding-sibling",
	AxisSelf:             "self",
}

// String returns the axis name.
func (a Axis) String() string {
	if int(a) < len(axisNames) {
		return axisNames[a]
	}
	return "(unknown)"
}

// ParseAxis resolves an axis name.
func ParseAxis(name string) (Axis, bool) {
	for i, n := range axisNames {
		if n == name {
			return Axis(i), true
		}
	}
	return 0, false
}

// IsReverse reports whether proximity positions on the axis count backwards
// from the context node.
func (a Axis) IsReverse() bool {
	switch a {
	case AxisAncestor, AxisAncestorOrSelf, AxisPreceding, AxisPrecedingSibling:
		return true
	default:
		return false
	}
}

// TestKind identifies the form of a node test.
type TestKind uint8

const (
	TestName                  TestKind = iota // QName
	TestAny                                   // *
	TestPrefix                                // prefix:*
	TestNode                                  // node()
	TestText                                  // text()
	TestComment                               // comment()
	TestProcessingInstruction                 // processing-instruction('target'?)
)

// NodeTest is the node test of a location step. Name holds the QName for
// TestName, the prefix for TestPrefix and the optional target for
// TestProcessingInstruction.
type NodeTest struct {
	Kind TestKind
	Name string
}

// String renders the node test as written in an expression.
func (t NodeTest) String() string {
	switch t.Kind {
	case TestName:
		return t.Name
	case TestAny:
		return "*"
	case TestPrefix:
		return t.Name + ":*"
	case TestNode:
		return "node()"
	case TestText:
		return "text()"
	case TestComment:
		return "comment()"
	case TestProcessingInstruction:
		if t.Name != "" {
			return "processing-instruction('" + t.Name + "')"
		}
		return "processing-instruction()"
	default:
		return "(unknown)"
	}
}
