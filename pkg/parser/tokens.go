package parser

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	// Special tokens
	TokenEOF TokenType = iota

	// Names. The lexer only produces TokenName; the disambiguator turns it
	// into one of the three resolved kinds when the next token demands it.
	TokenName     // chapter, xs:element, xs:*
	TokenNodeTest // comment, text, processing-instruction, node (before '(')
	TokenFunction // count (before '(')
	TokenAxis     // child (before '::')

	// Literals
	TokenLiteral  // "hello" or 'hello'
	TokenNumber   // 12, 1.5, .5
	TokenVariable // $name

	// Grouping symbols
	TokenParenOpen    // (
	TokenParenClose   // )
	TokenBracketOpen  // [
	TokenBracketClose // ]

	// Path symbols
	TokenDoubleColon // ::
	TokenAt          // @
	TokenDot         // .
	TokenDoubleDot   // ..
	TokenSlash       // /
	TokenDoubleSlash // //
	TokenStar        // * as a name test
	TokenComma       // ,

	// Operators
	TokenPipe         // |
	TokenPlus         // +
	TokenMinus        // -
	TokenMultiply     // * as an operator
	TokenEqual        // =
	TokenNotEqual     // !=
	TokenLess         // <
	TokenLessEqual    // <=
	TokenGreater      // >
	TokenGreaterEqual // >=

	// Operator names
	TokenAnd // and
	TokenOr  // or
	TokenDiv // div
	TokenMod // mod
)

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "(eof)"
	case TokenName:
		return "(name)"
	case TokenNodeTest:
		return "(node-test)"
	case TokenFunction:
		return "(function)"
	case TokenAxis:
		return "(axis)"
	case TokenLiteral:
		return "(literal)"
	case TokenNumber:
		return "(number)"
	case TokenVariable:
		return "(variable)"
	case TokenParenOpen:
		return "("
	case TokenParenClose:
		return ")"
	case TokenBracketOpen:
		return "["
	case TokenBracketClose:
		return "]"
	case TokenDoubleColon:
		return "::"
	case TokenAt:
		return "@"
	case TokenDot:
		return "."
	case TokenDoubleDot:
		return ".."
	case TokenSlash:
		return "/"
	case TokenDoubleSlash:
		return "//"
	case TokenStar:
		return "*"
	case TokenComma:
		return ","
	case TokenPipe:
		return "|"
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenMultiply:
		return "(multiply)"
	case TokenEqual:
		return "="
	case TokenNotEqual:
		return "!="
	case TokenLess:
		return "<"
	case TokenLessEqual:
		return "<="
	case TokenGreater:
		return ">"
	case TokenGreaterEqual:
		return ">="
	case TokenAnd:
		return "and"
	case TokenOr:
		return "or"
	case TokenDiv:
		return "div"
	case TokenMod:
		return "mod"
	default:
		return "(unknown)"
	}
}

// isOperator reports whether tt is an operator in the sense of the XPath
// lexical disambiguation rule.
func (tt TokenType) isOperator() bool {
	switch tt {
	case TokenAnd, TokenOr, TokenDiv, TokenMod, TokenMultiply,
		TokenSlash, TokenDoubleSlash, TokenPipe, TokenPlus, TokenMinus,
		TokenEqual, TokenNotEqual, TokenLess, TokenLessEqual,
		TokenGreater, TokenGreaterEqual:
		return true
	default:
		return false
	}
}

// Token represents a lexical token in an XPath expression.
type Token struct {
	Type     TokenType // Type of the token
	Value    string    // Literal value of the token
	Position int       // Starting position in the input string
}

// TokenSource produces tokens one at a time. Once the input is exhausted it
// returns a TokenEOF token on every call. A non-nil error ends the stream.
type TokenSource interface {
	Next() (Token, error)
}

// symbols1 maps single-character symbols to token types.
var symbols1 = [...]TokenType{
	'(': TokenParenOpen,
	')': TokenParenClose,
	'[': TokenBracketOpen,
	']': TokenBracketClose,
	'@': TokenAt,
	'.': TokenDot,
	'/': TokenSlash,
	',': TokenComma,
	'|': TokenPipe,
	'+': TokenPlus,
	'-': TokenMinus,
	'=': TokenEqual,
	'<': TokenLess,
	'>': TokenGreater,
	'*': TokenStar,
}

// runeTokenType pairs a rune with its corresponding token type.
type runeTokenType struct {
	r  rune
	tt TokenType
}

// symbols2 maps two-character symbol sequences to token types.
// The key is the first character of the sequence.
var symbols2 = [...][]runeTokenType{
	'!': {{'=', TokenNotEqual}},
	'<': {{'=', TokenLessEqual}},
	'>': {{'=', TokenGreaterEqual}},
	'.': {{'.', TokenDoubleDot}},
	'/': {{'/', TokenDoubleSlash}},
	':': {{':', TokenDoubleColon}},
}

const (
	symbol1Count = rune(len(symbols1))
	symbol2Count = rune(len(symbols2))
)

// lookupSymbol1 returns the token type for a single-character symbol.
// Returns TokenEOF if the rune is not a valid symbol.
func lookupSymbol1(r rune) TokenType {
	if r < 0 || r >= symbol1Count {
		return TokenEOF
	}
	return symbols1[r]
}

// lookupSymbol2 returns possible two-character symbol completions.
// Returns nil if the rune cannot start a two-character symbol.
func lookupSymbol2(r rune) []runeTokenType {
	if r < 0 || r >= symbol2Count {
		return nil
	}
	return symbols2[r]
}

// lookupOperatorName returns the token type for an operator name.
// Returns TokenEOF if the string is not an operator name.
func lookupOperatorName(s string) TokenType {
	switch s {
	case "and":
		return TokenAnd
	case "or":
		return TokenOr
	case "div":
		return TokenDiv
	case "mod":
		return TokenMod
	default:
		return TokenEOF
	}
}
