package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/sandrolain/goxpath/pkg/types"
)

const eof = -1

// Lexer converts an XPath expression into a sequence of raw tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go" technique.
//
// Names are always emitted as TokenName; resolving them into function names,
// axis names and node-type tests is left to the Disambiguator. The lexer
// does apply the lookbehind half of the XPath lexical rules: "*" and the
// names and, or, div and mod become operators when the preceding token
// allows it.
type Lexer struct {
	input   string // Input string being scanned
	length  int    // Length of input string
	start   int    // Start position of current token
	current int    // Current position in input
	width   int    // Width of last rune read
	prev    TokenType
	hasPrev bool
	err     error // First error encountered
}

// NewLexer creates a new lexer from the provided input string.
// The input is tokenized by successive calls to the Next method.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		length: len(input),
	}
}

// Next returns the next token from the input.
// When the end of the input is reached, Next returns TokenEOF for all
// subsequent calls. After an error, Next keeps returning that error.
func (l *Lexer) Next() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}
	t, err := l.scan()
	if err != nil {
		l.err = err
		return Token{}, err
	}
	if t.Type != TokenEOF {
		l.prev = t.Type
		l.hasPrev = true
	}
	return t, nil
}

// Error returns the first error encountered during lexing, if any.
func (l *Lexer) Error() error {
	return l.err
}

func (l *Lexer) scan() (Token, error) {
	l.acceptAll(isWhitespace)
	l.ignore()

	ch := l.nextRune()
	if ch == eof {
		return l.eof(), nil
	}

	// ".5" is a number, "." and ".." are steps
	if ch == '.' && l.peekIs(isDigit) {
		l.backup()
		return l.scanNumber(), nil
	}

	// Check for two-character symbols first (e.g., !=, <=, //)
	if rts := lookupSymbol2(ch); rts != nil {
		for _, rt := range rts {
			if l.acceptRune(rt.r) {
				return l.newToken(rt.tt), nil
			}
		}
	}

	// Check for single-character symbols
	if tt := lookupSymbol1(ch); tt > 0 {
		if tt == TokenStar && l.operatorExpected() {
			tt = TokenMultiply
		}
		return l.newToken(tt), nil
	}

	switch {
	case ch == '"' || ch == '\'':
		l.ignore()
		return l.scanLiteral(ch)
	case isDigit(ch):
		l.backup()
		return l.scanNumber(), nil
	case ch == '$':
		l.ignore()
		if !l.peekIs(isNameStart) {
			return Token{}, l.error(types.ErrUnexpectedChar, "Expected variable name after '$'")
		}
		return l.scanName(TokenVariable), nil
	case isNameStart(ch):
		l.backup()
		return l.scanName(TokenName), nil
	}

	return Token{}, l.error(types.ErrUnexpectedChar, fmt.Sprintf("Unexpected character %q", ch))
}

// operatorExpected implements the XPath rule: if there is a preceding token
// and it is not one of @, ::, (, [, ',' or an operator, then a * is the
// multiply operator and a name is an operator name.
func (l *Lexer) operatorExpected() bool {
	if !l.hasPrev {
		return false
	}
	switch l.prev {
	case TokenAt, TokenDoubleColon, TokenParenOpen, TokenBracketOpen, TokenComma:
		return false
	}
	return !l.prev.isOperator()
}

// scanLiteral reads a string literal from the current position.
// The opening quote has already been consumed. XPath 1.0 literals have no
// escape sequences.
func (l *Lexer) scanLiteral(quote rune) (Token, error) {
	for {
		switch l.nextRune() {
		case quote:
			l.backup()
			t := l.newToken(TokenLiteral)
			l.acceptRune(quote)
			l.ignore()
			return t, nil
		case eof:
			return Token{}, l.error(types.ErrStringNotClosed, "Unterminated string literal")
		}
	}
}

// scanNumber reads a number literal from the current position.
// Format: [0-9]+(\.[0-9]*)? | \.[0-9]+
func (l *Lexer) scanNumber() Token {
	l.acceptAll(isDigit)
	if l.acceptRune('.') {
		l.acceptAll(isDigit)
	}
	return l.newToken(TokenNumber)
}

// scanName reads an NCName or QName, including the "prefix:*" form.
// A colon followed by another colon is left alone so that "child::x"
// lexes as a name followed by "::".
func (l *Lexer) scanName(tt TokenType) Token {
	l.acceptAll(isNameChar)
	if l.peekIs(isColon) {
		mark := l.current
		l.nextRune()
		switch {
		case l.acceptRune('*'):
		case l.peekIs(isNameStart):
			l.acceptAll(isNameChar)
		default:
			l.current = mark
		}
	}

	t := l.newToken(tt)
	if tt == TokenName && l.operatorExpected() {
		if op := lookupOperatorName(t.Value); op != TokenEOF {
			t.Type = op
		}
	}
	return t
}

// Helper methods

func (l *Lexer) eof() Token {
	return Token{
		Type:     TokenEOF,
		Position: l.current,
	}
}

func (l *Lexer) error(code types.ErrorCode, message string) error {
	return &types.Error{
		Code:     code,
		Message:  message,
		Position: l.start,
		Token:    l.input[l.start:l.current],
	}
}

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:     tt,
		Value:    l.input[l.start:l.current],
		Position: l.start,
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.current >= l.length {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) peekIs(isValid func(rune) bool) bool {
	if l.current >= l.length {
		return false
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.current:])
	return isValid(r)
}

func (l *Lexer) backup() {
	l.current -= l.width
}

func (l *Lexer) ignore() {
	l.start = l.current
}

func (l *Lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool {
		return c == r
	})
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

// Character classification functions

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isColon(r rune) bool {
	return r == ':'
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameChar(r rune) bool {
	switch {
	case isNameStart(r), isDigit(r):
		return true
	case r == '-', r == '.', r == '·':
		return true
	default:
		return unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc)
	}
}
