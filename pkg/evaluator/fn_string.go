package evaluator

import (
	"strings"
	"unicode/utf8"

	"github.com/sandrolain/goxpath/pkg/types"
)

// isXMLSpace reports whether r is XML whitespace (space, tab, CR, LF).
func isXMLSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func fnString(ctx *EvalContext, args []types.Value) (types.Value, error) {
	return types.String(contextOrArg(ctx, args).AsString()), nil
}

func fnConcat(_ *EvalContext, args []types.Value) (types.Value, error) {
	var sb strings.Builder
	for _, arg := range args {
		sb.WriteString(arg.AsString())
	}
	return types.String(sb.String()), nil
}

func fnStartsWith(_ *EvalContext, args []types.Value) (types.Value, error) {
	return types.Boolean(strings.HasPrefix(args[0].AsString(), args[1].AsString())), nil
}

func fnContains(_ *EvalContext, args []types.Value) (types.Value, error) {
	return types.Boolean(strings.Contains(args[0].AsString(), args[1].AsString())), nil
}

func fnSubstringBefore(_ *EvalContext, args []types.Value) (types.Value, error) {
	before, _, found := strings.Cut(args[0].AsString(), args[1].AsString())
	if !found {
		return types.String(""), nil
	}
	return types.String(before), nil
}

func fnSubstringAfter(_ *EvalContext, args []types.Value) (types.Value, error) {
	_, after, found := strings.Cut(args[0].AsString(), args[1].AsString())
	if !found {
		return types.String(""), nil
	}
	return types.String(after), nil
}

// fnSubstring keeps the characters at positions p (1-based) with
// round(start) <= p < round(start) + round(length). Comparisons involving
// NaN are false, so a NaN bound selects nothing.
func fnSubstring(_ *EvalContext, args []types.Value) (types.Value, error) {
	s := args[0].AsString()
	start := Round(args[1].AsNumber())
	end := 0.0
	bounded := len(args) == 3
	if bounded {
		end = start + Round(args[2].AsNumber())
	}

	var sb strings.Builder
	pos := 0
	for _, r := range s {
		pos++
		p := float64(pos)
		if p >= start && (!bounded || p < end) {
			sb.WriteRune(r)
		}
	}
	return types.String(sb.String()), nil
}

func fnStringLength(ctx *EvalContext, args []types.Value) (types.Value, error) {
	s := contextOrArg(ctx, args).AsString()
	return types.Number(utf8.RuneCountInString(s)), nil
}

func fnNormalizeSpace(ctx *EvalContext, args []types.Value) (types.Value, error) {
	s := contextOrArg(ctx, args).AsString()
	return types.String(strings.Join(strings.FieldsFunc(s, isXMLSpace), " ")), nil
}

// fnTranslate replaces each character of the first argument found in from
// with the character at the same position in to, or drops it when to is
// shorter. The first occurrence of a character in from wins.
func fnTranslate(_ *EvalContext, args []types.Value) (types.Value, error) {
	s := args[0].AsString()
	from := []rune(args[1].AsString())
	to := []rune(args[2].AsString())

	mapping := make(map[rune]rune, len(from))
	for i, r := range from {
		if _, seen := mapping[r]; seen {
			continue
		}
		if i < len(to) {
			mapping[r] = to[i]
		} else {
			mapping[r] = -1
		}
	}

	return types.String(strings.Map(func(r rune) rune {
		if m, ok := mapping[r]; ok {
			return m
		}
		return r
	}, s)), nil
}
