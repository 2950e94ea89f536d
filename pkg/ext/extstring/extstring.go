// Package extstring provides string functions beyond the XPath 1.0 core
// library: case mapping, suffix tests, regular expressions and joining.
// Register them via evaluator.WithCustomFunctions or the top-level
// ext.WithString() helper.
package extstring

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sandrolain/goxpath/pkg/ext/extutil"
	"github.com/sandrolain/goxpath/pkg/functions"
	"github.com/sandrolain/goxpath/pkg/types"
)

// All returns all extended string function definitions.
func All() []functions.CustomFunctionDef {
	return []functions.CustomFunctionDef{
		UpperCase(),
		LowerCase(),
		TitleCase(),
		Capitalize(),
		EndsWith(),
		IndexOf(),
		Matches(),
		Replace(),
		StringJoin(),
		Repeat(),
	}
}

// langTag resolves the optional language argument at index i.
func langTag(args []types.Value, i int) language.Tag {
	if len(args) <= i {
		return language.Und
	}
	tag, err := language.Parse(args[i].AsString())
	if err != nil {
		return language.Und
	}
	return tag
}

// UpperCase returns the definition for upper-case(str [, lang]).
func UpperCase() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    "upper-case",
		MinArgs: 1,
		MaxArgs: 2,
		Fn: func(_ functions.Call, args ...types.Value) (types.Value, error) {
			return types.String(cases.Upper(langTag(args, 1)).String(args[0].AsString())), nil
		},
	}
}

// LowerCase returns the definition for lower-case(str [, lang]).
func LowerCase() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    "lower-case",
		MinArgs: 1,
		MaxArgs: 2,
		Fn: func(_ functions.Call, args ...types.Value) (types.Value, error) {
			return types.String(cases.Lower(langTag(args, 1)).String(args[0].AsString())), nil
		},
	}
}

// TitleCase returns the definition for title-case(str [, lang]).
// Uppercases the first letter of each word and lowercases the rest.
func TitleCase() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    "title-case",
		MinArgs: 1,
		MaxArgs: 2,
		Fn: func(_ functions.Call, args ...types.Value) (types.Value, error) {
			return types.String(cases.Title(langTag(args, 1)).String(args[0].AsString())), nil
		},
	}
}

// Capitalize returns the definition for capitalize(str).
// Uppercases the first character, lowercases the rest.
func Capitalize() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    "capitalize",
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(_ functions.Call, args ...types.Value) (types.Value, error) {
			runes := []rune(args[0].AsString())
			for i, r := range runes {
				if i == 0 {
					runes[i] = unicode.ToUpper(r)
				} else {
					runes[i] = unicode.ToLower(r)
				}
			}
			return types.String(string(runes)), nil
		},
	}
}

// EndsWith returns the definition for ends-with(str, suffix).
func EndsWith() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    "ends-with",
		MinArgs: 2,
		MaxArgs: 2,
		Fn: func(_ functions.Call, args ...types.Value) (types.Value, error) {
			return types.Boolean(strings.HasSuffix(args[0].AsString(), args[1].AsString())), nil
		},
	}
}

// IndexOf returns the definition for index-of(str, search).
// The result is the 1-based character position of the first match, 0 when
// there is none.
func IndexOf() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    "index-of",
		MinArgs: 2,
		MaxArgs: 2,
		Fn: func(_ functions.Call, args ...types.Value) (types.Value, error) {
			str := args[0].AsString()
			idx := strings.Index(str, args[1].AsString())
			if idx < 0 {
				return types.Number(0), nil
			}
			return types.Number(len([]rune(str[:idx])) + 1), nil
		},
	}
}

// patterns caches compiled regular expressions by source text.
var patterns sync.Map

func compile(fn, pattern string) (*regexp.Regexp, error) {
	if re, ok := patterns.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, extutil.Errorf(fn, "invalid pattern %q: %v", pattern, err)
	}
	patterns.Store(pattern, re)
	return re, nil
}

// Matches returns the definition for matches(str, pattern).
// Patterns use RE2 syntax.
func Matches() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    "matches",
		MinArgs: 2,
		MaxArgs: 2,
		Fn: func(_ functions.Call, args ...types.Value) (types.Value, error) {
			re, err := compile("matches", args[1].AsString())
			if err != nil {
				return nil, err
			}
			return types.Boolean(re.MatchString(args[0].AsString())), nil
		},
	}
}

// Replace returns the definition for replace(str, pattern, replacement).
// The replacement may reference groups as $1 or ${name}.
func Replace() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    "replace",
		MinArgs: 3,
		MaxArgs: 3,
		Fn: func(_ functions.Call, args ...types.Value) (types.Value, error) {
			re, err := compile("replace", args[1].AsString())
			if err != nil {
				return nil, err
			}
			return types.String(re.ReplaceAllString(args[0].AsString(), args[2].AsString())), nil
		},
	}
}

// StringJoin returns the definition for string-join(values [, separator]).
// A node-set contributes the string value of each member in document order.
func StringJoin() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    "string-join",
		MinArgs: 1,
		MaxArgs: 2,
		Fn: func(_ functions.Call, args ...types.Value) (types.Value, error) {
			sep := ""
			if len(args) == 2 {
				sep = args[1].AsString()
			}
			return types.String(strings.Join(extutil.Strings(args[0]), sep)), nil
		},
	}
}

// Repeat returns the definition for repeat(str, count).
func Repeat() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    "repeat",
		MinArgs: 2,
		MaxArgs: 2,
		Fn: func(_ functions.Call, args ...types.Value) (types.Value, error) {
			n := args[1].AsNumber()
			if n != n || n < 0 {
				return nil, extutil.Errorf("repeat", "count must be a non-negative number, got %s", args[1].AsString())
			}
			return types.String(strings.Repeat(args[0].AsString(), int(n))), nil
		},
	}
}
