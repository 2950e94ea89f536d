package evaluator_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/goxpath/pkg/document"
	"github.com/sandrolain/goxpath/pkg/evaluator"
	"github.com/sandrolain/goxpath/pkg/types"
)

const catalogXML = `<?xml version="1.0"?>
<catalog xml:lang="en">
  <book id="b1" year="1965"><title>Dune</title><price>9.5</price><tag>sf</tag><tag>classic</tag></book>
  <book id="b2" year="1815"><title>Emma</title><price>4</price></book>
  <book id="b3" year="2005"><title>Dune Messiah</title><price>12</price><tag>sf</tag></book>
  <!-- note -->
  <?render fast?>
  <magazine xml:lang="de-CH"><title>Der Spiegel</title></magazine>
</catalog>`

func catalog(t *testing.T) *document.Document {
	t.Helper()
	doc, err := document.ParseString(catalogXML, document.WithTrimWhitespace(true))
	require.NoError(t, err)
	return doc
}

func eval(t *testing.T, doc *document.Document, query string, opts ...evaluator.EvalOption) types.Value {
	t.Helper()
	v, err := evaluator.New(opts...).EvalQuery(query, doc.Root())
	require.NoError(t, err, query)
	return v
}

func evalErr(t *testing.T, doc *document.Document, query string, opts ...evaluator.EvalOption) error {
	t.Helper()
	_, err := evaluator.New(opts...).EvalQuery(query, doc.Root())
	require.Error(t, err, query)
	return err
}

// strs returns the string values of a node-set result in document order.
func strs(t *testing.T, v types.Value) []string {
	t.Helper()
	nodes, ok := v.(types.Nodes)
	require.True(t, ok, "expected a node-set, got %s", v.Kind())
	out := []string{}
	for _, n := range nodes.Set.All() {
		out = append(out, n.StringValue())
	}
	return out
}

// names returns the names of a node-set result in document order.
func names(t *testing.T, v types.Value) []string {
	t.Helper()
	nodes, ok := v.(types.Nodes)
	require.True(t, ok, "expected a node-set, got %s", v.Kind())
	out := []string{}
	for _, n := range nodes.Set.All() {
		out = append(out, n.Name())
	}
	return out
}

// assertValue compares scalar results, treating NaN as equal to NaN.
func assertValue(t *testing.T, want, got types.Value, msgAndArgs ...any) {
	t.Helper()
	if w, ok := want.(types.Number); ok && math.IsNaN(float64(w)) {
		g, ok := got.(types.Number)
		assert.True(t, ok && math.IsNaN(float64(g)), msgAndArgs...)
		return
	}
	assert.Equal(t, want, got, msgAndArgs...)
}

type scalarCase struct {
	query string
	want  types.Value
}

func runScalarCases(t *testing.T, doc *document.Document, tests []scalarCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assertValue(t, tt.want, eval(t, doc, tt.query), tt.query)
		})
	}
}

type nodesCase struct {
	query string
	want  []string
}

func runNodesCases(t *testing.T, doc *document.Document, tests []nodesCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, strs(t, eval(t, doc, tt.query)), tt.query)
		})
	}
}
