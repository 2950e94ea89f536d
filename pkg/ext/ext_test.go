package ext_test

import (
	"math"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/goxpath"
	"github.com/sandrolain/goxpath/pkg/document"
	"github.com/sandrolain/goxpath/pkg/evaluator"
	"github.com/sandrolain/goxpath/pkg/ext"
	"github.com/sandrolain/goxpath/pkg/ext/extid"
	"github.com/sandrolain/goxpath/pkg/ext/extstring"
	"github.com/sandrolain/goxpath/pkg/types"
)

const inventoryXML = `<inv>
	<item sku="a1"><qty>3</qty><name>apple</name></item>
	<item sku="b2"><qty>1</qty><name>banana</name></item>
	<item sku="c3"><qty>8</qty><name>cherry</name></item>
	<item sku="d4"><qty>4</qty><name>date</name></item>
</inv>`

func inventory(t *testing.T) *document.Document {
	t.Helper()
	doc, err := document.ParseString(inventoryXML, document.WithTrimWhitespace(true))
	require.NoError(t, err)
	return doc
}

func eval(t *testing.T, doc *document.Document, query string, opts ...goxpath.EvalOption) types.Value {
	t.Helper()
	result, err := goxpath.Eval(query, doc, opts...)
	require.NoError(t, err, "Eval(%q)", query)
	return result
}

type extCase struct {
	query    string
	expected types.Value
}

func runExtTests(t *testing.T, opt goxpath.EvalOption, tests []extCase) {
	t.Helper()
	doc := inventory(t)
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := eval(t, doc, tt.query, opt)
			if n, ok := tt.expected.(types.Number); ok && math.IsNaN(float64(n)) {
				assert.True(t, math.IsNaN(got.AsNumber()), "got %v", got)
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

// ── Registration ───────────────────────────────────────────────────────────

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"id", "numeric", "string"}, ext.Names())
}

func TestWithAll(t *testing.T) {
	doc := inventory(t)
	assert.Equal(t, types.String("APPLE"), eval(t, doc, "upper-case(//name)", ext.WithAll()))
	assert.Equal(t, types.Number(8), eval(t, doc, "max(//qty)", ext.WithAll()))
	assert.Len(t, ext.All(), 22)
}

func TestWithoutExtensions(t *testing.T) {
	_, err := goxpath.Eval("upper-case('x')", inventory(t))
	assert.True(t, types.IsCode(err, types.ErrUndefinedFunction))
}

func TestByName(t *testing.T) {
	doc := inventory(t)

	opt, err := ext.ByName("numeric", "id")
	require.NoError(t, err)
	assert.Equal(t, types.Number(16), eval(t, doc, "abs(-16)", opt))

	_, err = goxpath.Eval("upper-case('x')", doc, opt)
	assert.True(t, types.IsCode(err, types.ErrUndefinedFunction), "string pack not requested")

	_, err = ext.ByName("string", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown extension pack "nope"`)
}

func TestSingleFunction(t *testing.T) {
	doc := inventory(t)
	opt := evaluator.WithCustomFunctions(extstring.EndsWith())
	assert.Equal(t, types.Boolean(true), eval(t, doc, "ends-with('file.xml', '.xml')", opt))

	_, err := goxpath.Eval("matches('a', 'a')", doc, opt)
	assert.Error(t, err)
}

// ── String ─────────────────────────────────────────────────────────────────

func TestStringFunctions(t *testing.T) {
	runExtTests(t, ext.WithString(), []extCase{
		{"upper-case('straße')", types.String("STRASSE")},
		{"upper-case('i', 'tr')", types.String("İ")},
		{"lower-case('HeLLo')", types.String("hello")},
		{"title-case('hello wORLD')", types.String("Hello World")},
		{"capitalize('hELLO wORLD')", types.String("Hello world")},
		{"capitalize('')", types.String("")},
		{"ends-with('file.xml', '.xml')", types.Boolean(true)},
		{"ends-with('file.xml', '.json')", types.Boolean(false)},
		{"index-of('città bella', 'bella')", types.Number(7)},
		{"index-of('abc', 'x')", types.Number(0)},
		{"matches('abc123', '^[a-z]+\\d+$')", types.Boolean(true)},
		{"matches('abc', '^\\d')", types.Boolean(false)},
		{"replace('2024-01-15', '(\\d+)-(\\d+)-(\\d+)', '$3/$2/$1')", types.String("15/01/2024")},
		{"string-join(//name, ', ')", types.String("apple, banana, cherry, date")},
		{"string-join(//item/@sku)", types.String("a1b2c3d4")},
		{"string-join('solo', '-')", types.String("solo")},
		{"string-join(//nothing, ',')", types.String("")},
		{"repeat('ab', 3)", types.String("ababab")},
		{"repeat('x', 2.7)", types.String("xx")},
		{"repeat('x', 0)", types.String("")},
		{"count(//item[matches(name, 'an')])", types.Number(1)},
	})
}

func TestStringFunctionErrors(t *testing.T) {
	doc := inventory(t)
	for query, msg := range map[string]string{
		"matches('x', '(')":      "matches(): invalid pattern",
		"replace('x', '[', 'y')": "replace(): invalid pattern",
		"repeat('x', -1)":        "repeat(): count must be a non-negative number",
		"repeat('x', 'y')":       "repeat(): count must be a non-negative number, got y",
	} {
		t.Run(query, func(t *testing.T) {
			_, err := goxpath.Eval(query, doc, ext.WithString())
			require.Error(t, err)
			assert.Contains(t, err.Error(), msg)
		})
	}

	_, err := goxpath.Eval("upper-case()", doc, ext.WithString())
	assert.True(t, types.IsCode(err, types.ErrArgumentCountMismatch))
}

// ── Numeric ────────────────────────────────────────────────────────────────

func TestNumericFunctions(t *testing.T) {
	runExtTests(t, ext.WithNumeric(), []extCase{
		{"abs(-3)", types.Number(3)},
		{"abs(-//qty[1])", types.Number(3)},
		{"sign(-3)", types.Number(-1)},
		{"sign(0)", types.Number(0)},
		{"sign(12)", types.Number(1)},
		{"sign(0 div 0)", types.Number(math.NaN())},
		{"trunc(-2.7)", types.Number(-2)},
		{"trunc(2.7)", types.Number(2)},
		{"pi()", types.Number(math.Pi)},
		{"min(//qty)", types.Number(1)},
		{"max(//qty)", types.Number(8)},
		{"avg(//qty)", types.Number(4)},
		{"median(//qty)", types.Number(3.5)},
		{"median(//item[position() < 4]/qty)", types.Number(3)},
		{"min('7')", types.Number(7)},
		{"min(//nothing)", types.Number(math.NaN())},
		{"max(//name)", types.Number(math.NaN())},
		{"//item[qty = max(//qty)]/name = 'cherry'", types.Boolean(true)},
	})
}

func TestLog(t *testing.T) {
	doc := inventory(t)
	assert.InDelta(t, 1.0, eval(t, doc, "log(2.718281828459045)", ext.WithNumeric()).AsNumber(), 1e-12)
	assert.InDelta(t, 3.0, eval(t, doc, "log(8, 2)", ext.WithNumeric()).AsNumber(), 1e-12)
	assert.InDelta(t, 3.0, eval(t, doc, "log(1000, 10)", ext.WithNumeric()).AsNumber(), 1e-12)

	for _, query := range []string{"log(8, 1)", "log(8, 0)", "log(8, -2)"} {
		_, err := goxpath.Eval(query, doc, ext.WithNumeric())
		require.Error(t, err, query)
		assert.Contains(t, err.Error(), "base must be positive")
	}
}

// ── Identifiers ────────────────────────────────────────────────────────────

var (
	nodeIDPattern = regexp.MustCompile(`^id-[0-9a-f]{8}-[0-9a-f]{4}-5[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	uuidPattern   = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
)

func TestGenerateID(t *testing.T) {
	doc := inventory(t)
	opt := ext.WithID()

	id := eval(t, doc, "generate-id(//item[2])", opt).AsString()
	assert.Regexp(t, nodeIDPattern, id)
	assert.Equal(t, id, eval(t, doc, "generate-id(//item[2])", opt).AsString(), "stable per node")
	assert.Equal(t, id, eval(t, doc, "generate-id(//item[@sku = 'b2'] | //item[3])", opt).AsString(),
		"first node in document order")

	assert.Equal(t, types.Boolean(false), eval(t, doc, "generate-id(//item[1]) = generate-id(//item[2])", opt))
	assert.Equal(t, types.Boolean(false), eval(t, doc, "generate-id(//item[1]) = generate-id(//item[1]/@sku)", opt))
	assert.Equal(t, types.Boolean(true), eval(t, doc, "generate-id() = generate-id(/)", opt))
	assert.Equal(t, types.Number(1), eval(t, doc, "count(//item[generate-id() = generate-id(//item[@sku='c3'])]/qty[. = 8])", opt))
	assert.Equal(t, types.String(""), eval(t, doc, "generate-id(//nothing)", opt))

	other := inventory(t)
	otherID := eval(t, other, "generate-id(//item[2])", opt).AsString()
	assert.NotEqual(t, id, otherID, "distinct across documents")

	_, err := goxpath.Eval("generate-id('x')", doc, opt)
	assert.True(t, types.IsCode(err, types.ErrNodesetExpected))
}

func TestNodeID(t *testing.T) {
	doc := inventory(t)
	assert.Equal(t, "", extid.NodeID(document.Node{}))
	assert.Equal(t, extid.NodeID(doc.Root()), extid.NodeID(doc.Root()))
	inv, ok := doc.DocumentElement()
	require.True(t, ok)
	assert.NotEqual(t, extid.NodeID(doc.Root()), extid.NodeID(inv))
}

func TestUUID(t *testing.T) {
	doc := inventory(t)
	first := eval(t, doc, "uuid()", ext.WithID()).AsString()
	second := eval(t, doc, "uuid()", ext.WithID()).AsString()
	assert.Regexp(t, uuidPattern, first)
	assert.Regexp(t, uuidPattern, second)
	assert.NotEqual(t, first, second)
}

func TestHash(t *testing.T) {
	runExtTests(t, ext.WithID(), []extCase{
		{"hash('abc')", types.String("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad")},
		{"hash('abc', 'SHA256')", types.String("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad")},
		{"hash('abc', 'md5')", types.String("900150983cd24fb0d6963f7d28e17f72")},
		{"hash('abc', 'sha1')", types.String("a9993e364706816aba3e25717850c26c9cd0d89d")},
		{"string-length(hash('abc', 'sha384'))", types.Number(96)},
		{"string-length(hash('abc', 'sha512'))", types.Number(128)},
		{"hash(//item[1]/name) = hash('apple')", types.Boolean(true)},
	})

	_, err := goxpath.Eval("hash('abc', 'crc32')", inventory(t), ext.WithID())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported algorithm "crc32"`)
}
