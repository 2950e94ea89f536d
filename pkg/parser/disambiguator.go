package parser

import (
	"iter"
)

// nodeTestNames are the names that, followed by '(', denote a node-type
// test rather than a function call.
var nodeTestNames = map[string]struct{}{
	"comment":                {},
	"text":                   {},
	"processing-instruction": {},
	"node":                   {},
}

// Disambiguator resolves ambiguous TokenName tokens using one token of
// lookahead:
//
//   - a name followed by '(' becomes TokenNodeTest for comment, text,
//     processing-instruction and node, and TokenFunction otherwise;
//   - a name followed by '::' becomes TokenAxis;
//   - every other token passes through unchanged.
//
// It produces exactly one token per input token, in order, and never holds
// more than one token back. The first error from the source is returned
// on every later call; a name whose lookahead failed is emitted unchanged
// before it.
type Disambiguator struct {
	source  TokenSource
	pending Token
	hasNext bool
	err     error
}

// NewDisambiguator wraps a token source.
func NewDisambiguator(source TokenSource) *Disambiguator {
	return &Disambiguator{source: source}
}

// Next returns the next disambiguated token.
func (d *Disambiguator) Next() (Token, error) {
	if d.err != nil {
		return Token{}, d.err
	}

	current, err := d.pull()
	if err != nil {
		return Token{}, err
	}
	if current.Type != TokenName {
		return current, nil
	}

	next, err := d.pull()
	if err != nil {
		// d.err is set, so the error follows on the next call.
		return current, nil
	}
	d.pending = next
	d.hasNext = true

	switch next.Type {
	case TokenParenOpen:
		if _, ok := nodeTestNames[current.Value]; ok {
			current.Type = TokenNodeTest
		} else {
			current.Type = TokenFunction
		}
	case TokenDoubleColon:
		current.Type = TokenAxis
	}
	return current, nil
}

// pull returns the buffered lookahead token if there is one, otherwise the
// next token from the source.
func (d *Disambiguator) pull() (Token, error) {
	if d.hasNext {
		d.hasNext = false
		return d.pending, nil
	}
	t, err := d.source.Next()
	if err != nil {
		d.err = err
		return Token{}, err
	}
	return t, nil
}

// All returns the remaining tokens as an iterator. Iteration stops after
// the end of input (which is not yielded) or after yielding an error.
func (d *Disambiguator) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			t, err := d.Next()
			if err != nil {
				yield(Token{}, err)
				return
			}
			if t.Type == TokenEOF {
				return
			}
			if !yield(t, nil) {
				return
			}
		}
	}
}

// Collect drains src up to the end of input. The TokenEOF token is not
// included. It stops at the first error.
func Collect(src TokenSource) ([]Token, error) {
	var out []Token
	for {
		t, err := src.Next()
		if err != nil {
			return out, err
		}
		if t.Type == TokenEOF {
			return out, nil
		}
		out = append(out, t)
	}
}

// TokenResult is a token or the error that replaced it.
type TokenResult struct {
	Token Token
	Err   error
}

// sliceSource replays pre-built results.
type sliceSource struct {
	results []TokenResult
	pos     int
}

// SliceSource returns a TokenSource replaying the given results, followed by
// TokenEOF once they are exhausted.
func SliceSource(results ...TokenResult) TokenSource {
	return &sliceSource{results: results}
}

func (s *sliceSource) Next() (Token, error) {
	if s.pos >= len(s.results) {
		return Token{Type: TokenEOF}, nil
	}
	r := s.results[s.pos]
	s.pos++
	return r.Token, r.Err
}

// Tokenize lexes and disambiguates input, returning all tokens up to the
// end of input.
func Tokenize(input string) ([]Token, error) {
	return Collect(NewDisambiguator(NewLexer(input)))
}
