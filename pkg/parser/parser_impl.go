package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandrolain/goxpath/pkg/types"
)

// Parser implements a recursive descent parser for XPath expressions.
// Binary operators are handled with Pratt's "Top Down Operator Precedence"
// algorithm; paths, steps and primaries with plain recursive descent.
type Parser struct {
	tokens  TokenSource
	input   string
	current Token
	err     error
	depth   int
	opts    CompileOptions
}

// NewParser creates a new parser for the given input string.
func NewParser(input string, opts ...CompileOption) *Parser {
	options := CompileOptions{
		MaxDepth: 256,
	}
	for _, opt := range opts {
		opt(&options)
	}

	p := &Parser{
		tokens: NewDisambiguator(NewLexer(input)),
		input:  input,
		opts:   options,
	}

	// Read the first token
	p.advance()

	return p
}

// Parse parses the entire expression and returns the compiled Expression.
func (p *Parser) Parse() (*types.Expression, error) {
	if p.err != nil {
		return nil, p.err
	}

	if p.current.Type == TokenEOF {
		return nil, p.error(types.ErrSyntaxError, "Empty expression")
	}

	root, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if p.current.Type != TokenEOF {
		return nil, p.error(types.ErrSyntaxError, fmt.Sprintf("Unexpected token: %s", p.describe(p.current)))
	}

	return types.NewExpression(root, p.input), nil
}

// Operator precedence table (binding power)
// Higher values bind more tightly
var precedence = map[TokenType]int{
	TokenOr:           10, // or
	TokenAnd:          20, // and
	TokenEqual:        30, // =
	TokenNotEqual:     30, // !=
	TokenLess:         40, // <
	TokenLessEqual:    40, // <=
	TokenGreater:      40, // >
	TokenGreaterEqual: 40, // >=
	TokenPlus:         50, // +
	TokenMinus:        50, // -
	TokenMultiply:     60, // *
	TokenDiv:          60, // div
	TokenMod:          60, // mod
}

// getPrecedence returns the precedence of a token type.
func (p *Parser) getPrecedence(tt TokenType) int {
	if prec, ok := precedence[tt]; ok {
		return prec
	}
	return 0
}

// advance moves to the next token. A lexical error is kept and reported by
// the next check; the current token becomes EOF so parsing unwinds.
func (p *Parser) advance() {
	if p.err != nil {
		return
	}
	t, err := p.tokens.Next()
	if err != nil {
		p.err = err
		p.current = Token{Type: TokenEOF, Position: len(p.input)}
		return
	}
	p.current = t
}

// expect checks if the current token matches the expected type and advances.
func (p *Parser) expect(tt TokenType) error {
	if p.err != nil {
		return p.err
	}
	if p.current.Type != tt {
		return p.error(types.ErrExpectedToken, fmt.Sprintf("Expected %s but got %s", tt.String(), p.describe(p.current)))
	}
	p.advance()
	return nil
}

// error builds a positioned error for the current token. A pending lexical
// error takes precedence, since it caused whatever the parser tripped on.
func (p *Parser) error(code types.ErrorCode, message string) error {
	if p.err != nil {
		return p.err
	}
	return types.NewError(code, message, p.current.Position).WithToken(p.current.Value)
}

func (p *Parser) describe(t Token) string {
	if t.Value != "" && t.Type != TokenEOF {
		return strconv.Quote(t.Value)
	}
	return t.Type.String()
}

func (p *Parser) enter() error {
	p.depth++
	if p.opts.MaxDepth > 0 && p.depth > p.opts.MaxDepth {
		return p.error(types.ErrExpressionTooDeep, fmt.Sprintf("Expression nested deeper than %d levels", p.opts.MaxDepth))
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// parseExpression parses binary operators whose precedence is higher than rbp.
func (p *Parser) parseExpression(rbp int) (types.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		op := p.current.Type
		prec := p.getPrecedence(op)
		if prec <= rbp {
			return left, p.err
		}
		p.advance()

		right, err := p.parseExpression(prec)
		if err != nil {
			return nil, err
		}
		left = binary(op, left, right)
	}
}

func binary(op TokenType, left, right types.Expr) types.Expr {
	switch op {
	case TokenOr:
		return &types.Or{Left: left, Right: right}
	case TokenAnd:
		return &types.And{Left: left, Right: right}
	case TokenEqual:
		return &types.Equal{Left: left, Right: right}
	case TokenNotEqual:
		return types.NewNotEqual(left, right)
	case TokenLess:
		return types.NewRelational(types.OpLess, left, right)
	case TokenLessEqual:
		return types.NewRelational(types.OpLessEqual, left, right)
	case TokenGreater:
		return types.NewRelational(types.OpGreater, left, right)
	case TokenGreaterEqual:
		return types.NewRelational(types.OpGreaterEqual, left, right)
	case TokenPlus:
		return types.NewMath(types.OpAdd, left, right)
	case TokenMinus:
		return types.NewMath(types.OpSubtract, left, right)
	case TokenMultiply:
		return types.NewMath(types.OpMultiply, left, right)
	case TokenDiv:
		return types.NewMath(types.OpDivide, left, right)
	default:
		return types.NewMath(types.OpModulo, left, right)
	}
}

// parseUnary parses UnaryExpr ::= '-'* UnionExpr.
func (p *Parser) parseUnary() (types.Expr, error) {
	if p.current.Type != TokenMinus {
		return p.parseUnion()
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	p.advance()
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &types.Negate{Operand: operand}, nil
}

// parseUnion parses UnionExpr ::= PathExpr ('|' PathExpr)*.
func (p *Parser) parseUnion() (types.Expr, error) {
	left, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	for p.current.Type == TokenPipe {
		p.advance()
		right, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		left = &types.Union{Left: left, Right: right}
	}
	return left, p.err
}

// parsePath parses PathExpr: a location path, or a filter expression
// optionally followed by a relative location path.
func (p *Parser) parsePath() (types.Expr, error) {
	switch p.current.Type {
	case TokenSlash:
		p.advance()
		if !p.startsStep() {
			return &types.Root{}, p.err
		}
		return p.parseRelative(&types.Root{})

	case TokenDoubleSlash:
		p.advance()
		return p.parseRelative(join(&types.Root{}, descendantOrSelf()))
	}

	if p.startsStep() {
		return p.parseRelative(nil)
	}

	filter, err := p.parseFilter()
	if err != nil {
		return nil, err
	}
	switch p.current.Type {
	case TokenSlash:
		p.advance()
		return p.parseRelative(filter)
	case TokenDoubleSlash:
		p.advance()
		return p.parseRelative(join(filter, descendantOrSelf()))
	}
	return filter, nil
}

// parseRelative parses RelativeLocationPath and appends it to left, which
// is nil for a path starting at the context node.
func (p *Parser) parseRelative(left types.Expr) (types.Expr, error) {
	for {
		step, err := p.parseStep()
		if err != nil {
			return nil, err
		}
		left = join(left, step)

		switch p.current.Type {
		case TokenSlash:
			p.advance()
		case TokenDoubleSlash:
			p.advance()
			left = join(left, descendantOrSelf())
		default:
			return left, p.err
		}
	}
}

func join(left, right types.Expr) types.Expr {
	if left == nil {
		return right
	}
	return &types.Path{Left: left, Right: right}
}

func descendantOrSelf() *types.Step {
	return &types.Step{Axis: types.AxisDescendantOrSelf, Test: types.NodeTest{Kind: types.TestNode}}
}

func (p *Parser) startsStep() bool {
	switch p.current.Type {
	case TokenName, TokenStar, TokenAxis, TokenAt, TokenDot, TokenDoubleDot, TokenNodeTest:
		return true
	default:
		return false
	}
}

// parseStep parses Step ::= AxisSpecifier NodeTest Predicate* | '.' | '..'.
func (p *Parser) parseStep() (types.Expr, error) {
	switch p.current.Type {
	case TokenDot:
		p.advance()
		return &types.Step{Axis: types.AxisSelf, Test: types.NodeTest{Kind: types.TestNode}}, p.err
	case TokenDoubleDot:
		p.advance()
		return &types.Step{Axis: types.AxisParent, Test: types.NodeTest{Kind: types.TestNode}}, p.err
	}

	step := &types.Step{Axis: types.AxisChild}
	switch p.current.Type {
	case TokenAxis:
		axis, ok := types.ParseAxis(p.current.Value)
		if !ok {
			return nil, p.error(types.ErrUnknownAxis, fmt.Sprintf("Unknown axis: %s", p.current.Value))
		}
		step.Axis = axis
		p.advance()
		if err := p.expect(TokenDoubleColon); err != nil {
			return nil, err
		}
	case TokenAt:
		step.Axis = types.AxisAttribute
		p.advance()
	}

	test, err := p.parseNodeTest()
	if err != nil {
		return nil, err
	}
	step.Test = test

	for p.current.Type == TokenBracketOpen {
		pred, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		step.Predicates = append(step.Predicates, pred)
	}
	return step, p.err
}

func (p *Parser) parseNodeTest() (types.NodeTest, error) {
	t := p.current
	switch t.Type {
	case TokenStar:
		p.advance()
		return types.NodeTest{Kind: types.TestAny}, p.err

	case TokenName:
		p.advance()
		if prefix, ok := strings.CutSuffix(t.Value, ":*"); ok {
			return types.NodeTest{Kind: types.TestPrefix, Name: prefix}, p.err
		}
		return types.NodeTest{Kind: types.TestName, Name: t.Value}, p.err

	case TokenNodeTest:
		p.advance()
		if err := p.expect(TokenParenOpen); err != nil {
			return types.NodeTest{}, err
		}
		var test types.NodeTest
		switch t.Value {
		case "node":
			test.Kind = types.TestNode
		case "text":
			test.Kind = types.TestText
		case "comment":
			test.Kind = types.TestComment
		default:
			test.Kind = types.TestProcessingInstruction
			if p.current.Type == TokenLiteral {
				test.Name = p.current.Value
				p.advance()
			}
		}
		if err := p.expect(TokenParenClose); err != nil {
			return types.NodeTest{}, err
		}
		return test, nil
	}

	return types.NodeTest{}, p.error(types.ErrSyntaxError, fmt.Sprintf("Expected node test but got %s", p.describe(t)))
}

func (p *Parser) parsePredicate() (types.Expr, error) {
	p.advance() // [
	pred, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenBracketClose); err != nil {
		return nil, err
	}
	return pred, nil
}

// parseFilter parses FilterExpr ::= PrimaryExpr Predicate*.
func (p *Parser) parseFilter() (types.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.current.Type == TokenBracketOpen {
		pred, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		expr = &types.Predicate{NodeSelector: expr, Predicate: pred}
	}
	return expr, nil
}

// parsePrimary parses variables, parenthesized expressions, literals,
// numbers and function calls.
func (p *Parser) parsePrimary() (types.Expr, error) {
	t := p.current
	switch t.Type {
	case TokenVariable:
		p.advance()
		return &types.Variable{Name: t.Value}, p.err

	case TokenParenOpen:
		p.advance()
		inner, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenParenClose); err != nil {
			return nil, err
		}
		return inner, nil

	case TokenLiteral:
		p.advance()
		return &types.Literal{Value: types.String(t.Value)}, p.err

	case TokenNumber:
		f, err := strconv.ParseFloat(t.Value, 64)
		if err != nil {
			return nil, p.error(types.ErrSyntaxError, fmt.Sprintf("Invalid number: %s", t.Value))
		}
		p.advance()
		return &types.Literal{Value: types.Number(f)}, p.err

	case TokenFunction:
		return p.parseFunctionCall()

	case TokenEOF:
		return nil, p.error(types.ErrSyntaxError, "Unexpected end of expression")
	}

	return nil, p.error(types.ErrSyntaxError, fmt.Sprintf("Unexpected token: %s", p.describe(t)))
}

func (p *Parser) parseFunctionCall() (types.Expr, error) {
	fn := &types.Function{Name: p.current.Value}
	p.advance()
	if err := p.expect(TokenParenOpen); err != nil {
		return nil, err
	}

	if p.current.Type != TokenParenClose {
		for {
			arg, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			fn.Arguments = append(fn.Arguments, arg)
			if p.current.Type != TokenComma {
				break
			}
			p.advance()
		}
	}

	if err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}
	return fn, nil
}
