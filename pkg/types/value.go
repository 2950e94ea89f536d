package types

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/sandrolain/goxpath/pkg/document"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindBoolean Kind = iota
	KindNumber
	KindString
	KindNodeset
)

// String returns the XPath type name of the kind.
func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindNodeset:
		return "node-set"
	default:
		return "(unknown)"
	}
}

// Value is the result of evaluating an expression. It is a closed sum type:
// the only implementations are Boolean, Number, String and Nodes.
//
// Values are immutable. Cross-kind equality is not defined by Go equality;
// the evaluator applies the XPath coercion rules instead.
type Value interface {
	Kind() Kind
	// AsBoolean converts the value following the boolean() function rules.
	AsBoolean() bool
	// AsNumber converts the value following the number() function rules.
	AsNumber() float64
	// AsString converts the value following the string() function rules.
	AsString() string

	value()
}

// Boolean is a boolean value.
type Boolean bool

// Number is an IEEE 754 double value.
type Number float64

// String is a string value.
type String string

// Nodes is a node-set value.
type Nodes struct {
	Set *document.Nodeset
}

// NewNodes wraps the given nodes into a node-set value.
func NewNodes(nodes ...document.Node) Nodes {
	return Nodes{Set: document.NewNodeset(nodes...)}
}

func (Boolean) value() {}
func (Number) value()  {}
func (String) value()  {}
func (Nodes) value()   {}

func (Boolean) Kind() Kind { return KindBoolean }
func (Number) Kind() Kind  { return KindNumber }
func (String) Kind() Kind  { return KindString }
func (Nodes) Kind() Kind   { return KindNodeset }

func (b Boolean) AsBoolean() bool { return bool(b) }

func (b Boolean) AsNumber() float64 {
	if b {
		return 1
	}
	return 0
}

func (b Boolean) AsString() string {
	if b {
		return "true"
	}
	return "false"
}

func (n Number) AsBoolean() bool {
	f := float64(n)
	return f != 0 && !math.IsNaN(f)
}

func (n Number) AsNumber() float64 { return float64(n) }

func (n Number) AsString() string { return FormatNumber(float64(n)) }

func (s String) AsBoolean() bool { return s != "" }

func (s String) AsNumber() float64 { return ParseNumber(string(s)) }

func (s String) AsString() string { return string(s) }

func (n Nodes) AsBoolean() bool { return n.Set.Len() > 0 }

func (n Nodes) AsNumber() float64 { return ParseNumber(n.AsString()) }

// AsString returns the string-value of the first node in document order.
func (n Nodes) AsString() string {
	first, ok := n.Set.First()
	if !ok {
		return ""
	}
	return first.StringValue()
}

// Len returns the cardinality of the node-set.
func (n Nodes) Len() int { return n.Set.Len() }

// FormatNumber renders f the way string() does: NaN, Infinity and
// -Infinity for the special values, integers without a fractional part and
// everything else in plain decimal notation without an exponent.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', 0, 64)
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}

// ParseNumber converts a string following number(): optional surrounding
// whitespace, an optional minus sign and a decimal number. Anything else,
// including the empty string and exponent notation, yields NaN.
func ParseNumber(s string) float64 {
	s = strings.Trim(s, " \t\r\n")
	if !isXPathNumber(s) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func isXPathNumber(s string) bool {
	s = strings.TrimPrefix(s, "-")
	digits, dot := 0, false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return digits > 0
}

// nodeJSON is the serialized form of a node inside a node-set result.
type nodeJSON struct {
	Kind  string `json:"kind"`
	Name  string `json:"name,omitempty"`
	Path  string `json:"path"`
	Value string `json:"value"`
}

// MarshalJSON renders the node-set as an array of node descriptions.
func (n Nodes) MarshalJSON() ([]byte, error) {
	out := make([]nodeJSON, 0, n.Set.Len())
	for _, node := range n.Set.All() {
		out = append(out, nodeJSON{
			Kind:  node.Kind().String(),
			Name:  node.Name(),
			Path:  node.Path(),
			Value: node.StringValue(),
		})
	}
	return json.Marshal(out)
}

// MarshalJSON renders non-finite numbers as their string form, since JSON
// has no literal for them.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return json.Marshal(FormatNumber(f))
	}
	return json.Marshal(f)
}
