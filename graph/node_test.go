package graph_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/rdf-graph/graph"
	"github.com/geoknoesis/rdf-graph/rdf"
)

func TestNewNamedNode(t *testing.T) {
	n, err := graph.NewNamedNode(ex + "alice")
	require.NoError(t, err)
	assert.True(t, n.IsNamed())
	assert.True(t, n.IsURI())
	assert.False(t, n.IsBlank())
	assert.False(t, n.IsLiteral())
	assert.Equal(t, ex+"alice", n.URI())

	b, err := graph.NewNamedNode("_:b1")
	require.NoError(t, err)
	assert.True(t, b.IsBlank())
	assert.False(t, b.IsURI())
	assert.Equal(t, "_:b1", b.URI())
	assert.Equal(t, rdf.BlankNode{ID: "b1"}, b.Term())
}

func TestNewNamedNode_Invalid(t *testing.T) {
	for _, identity := range []string{"", "   ", "not an iri"} {
		_, err := graph.NewNamedNode(identity)
		assert.ErrorIs(t, err, rdf.ErrConstruction, "%q", identity)
	}
}

func TestNamedNodeEquals(t *testing.T) {
	a := graph.IRI(ex + "a")
	assert.True(t, a.Equals(graph.IRI(ex+"a")))
	assert.True(t, a.Equals(iri("a")))
	assert.False(t, a.Equals(graph.IRI(ex+"b")))
	assert.False(t, a.Equals(ex+"a"), "primitives never equal a named node")
	assert.False(t, a.Equals(nil))
	assert.False(t, graph.NamedNode{}.Equals(a))
}

func TestNamedNodeDisplayLabel_WithoutLabeler(t *testing.T) {
	label, err := graph.IRI(ex + "a").DisplayLabel()
	require.NoError(t, err)
	assert.Equal(t, ex+"a", label)
}

func TestNewLiteral(t *testing.T) {
	plain, err := graph.NewLiteral("hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", plain.Lex())
	assert.Equal(t, rdf.XSDString, plain.Datatype())
	assert.Empty(t, plain.Lang())
	assert.True(t, plain.IsLiteral())
	assert.False(t, plain.IsNamed())

	tagged, err := graph.NewLiteral("bonjour", graph.WithLang("fr"))
	require.NoError(t, err)
	assert.Equal(t, rdf.RDFLangString, tagged.Datatype())
	assert.Equal(t, "fr", tagged.Lang())

	explicit, err := graph.NewLiteral("hi", graph.WithLang("en"), graph.WithDatatype(rdf.XSDString))
	require.NoError(t, err)
	assert.Equal(t, rdf.RDFLangString, explicit.Datatype())
}

func TestNewLiteral_Invalid(t *testing.T) {
	tests := []struct {
		name string
		opts []graph.LiteralOption
	}{
		{"lang with integer datatype", []graph.LiteralOption{graph.WithLang("en"), graph.WithDatatype(rdf.XSDInteger)}},
		{"langString without lang", []graph.LiteralOption{graph.WithDatatype(rdf.RDFLangString)}},
		{"malformed lang", []graph.LiteralOption{graph.WithLang("en_US!")}},
		{"relative datatype", []graph.LiteralOption{graph.WithDatatype("integer")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := graph.NewLiteral("x", tt.opts...)
			assert.ErrorIs(t, err, rdf.ErrConstruction)
		})
	}
}

func TestLiteralFromPrimitive(t *testing.T) {
	tests := []struct {
		value    any
		lex      string
		datatype string
	}{
		{"text", "text", rdf.XSDString},
		{true, "true", rdf.XSDBoolean},
		{false, "false", rdf.XSDBoolean},
		{42, "42", rdf.XSDInteger},
		{int64(-7), "-7", rdf.XSDInteger},
		{uint8(3), "3", rdf.XSDInteger},
		{2.5, "2.5", rdf.XSDDecimal},
		{3.0, "3", rdf.XSDInteger},
		{math.Inf(1), "INF", rdf.XSDDouble},
	}
	for _, tt := range tests {
		lit, err := graph.Literal(tt.value)
		require.NoError(t, err, "%v", tt.value)
		assert.Equal(t, tt.lex, lit.Lex(), "%v", tt.value)
		assert.Equal(t, tt.datatype, lit.Datatype(), "%v", tt.value)
	}

	_, err := graph.Literal(struct{}{})
	assert.ErrorIs(t, err, rdf.ErrConstruction)
}

func TestLangString(t *testing.T) {
	lit, err := graph.LangString("colour", "en-GB")
	require.NoError(t, err)
	assert.Equal(t, "en-GB", lit.Lang())

	_, err = graph.LangString("colour", "")
	assert.ErrorIs(t, err, rdf.ErrConstruction)

	upper, err := graph.LangString("colour", "EN-gb")
	require.NoError(t, err)
	assert.True(t, upper.Equals(lit), "language tags compare case-insensitively")
	assert.True(t, upper.Equals(rdf.Literal{Lexical: "colour", Lang: "en-gb"}))
}

func TestHTMLAndXML(t *testing.T) {
	assert.Equal(t, rdf.RDFHTML, graph.HTML("<b>x</b>").Datatype())
	assert.Equal(t, rdf.RDFXMLLiteral, graph.XML("<x/>").Datatype())
}

func TestLiteralEquals(t *testing.T) {
	five, err := graph.Literal(5)
	require.NoError(t, err)
	assert.True(t, five.Equals(5))
	assert.True(t, five.Equals(int64(5)))
	assert.False(t, five.Equals("5"), "a string encodes as xsd:string")
	assert.False(t, five.Equals(5.5))

	text, err := graph.NewLiteral("5")
	require.NoError(t, err)
	assert.True(t, text.Equals("5"))
	assert.False(t, text.Equals(5))
	assert.False(t, text.Equals(five))

	assert.True(t, five.Equals(typed("5", rdf.XSDInteger)))
	assert.False(t, five.Equals(graph.IRI(ex+"5")))
	assert.False(t, five.Equals(nil))

	en, _ := graph.LangString("chat", "en")
	fr, _ := graph.LangString("chat", "fr")
	assert.False(t, en.Equals(fr))
	assert.False(t, en.Equals("chat"))
}

func TestAsBoolean(t *testing.T) {
	tests := []struct {
		lex  string
		want bool
		ok   bool
	}{
		{"true", true, true},
		{"1", true, true},
		{"false", false, true},
		{"0", false, true},
		{"TRUE", false, false},
		{"yes", false, false},
		{" true", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		lit, err := graph.NewLiteral(tt.lex, graph.WithDatatype(rdf.XSDBoolean))
		require.NoError(t, err)
		got, err := lit.AsBoolean()
		if !tt.ok {
			assert.ErrorIs(t, err, rdf.ErrCast, "%q", tt.lex)
			continue
		}
		require.NoError(t, err, "%q", tt.lex)
		assert.Equal(t, tt.want, got, "%q", tt.lex)
	}
}

func TestAsNumber(t *testing.T) {
	lit, err := graph.NewLiteral("12.5", graph.WithDatatype(rdf.XSDDecimal))
	require.NoError(t, err)
	n, err := lit.AsNumber()
	require.NoError(t, err)
	assert.Equal(t, 12.5, n)

	inf, _ := graph.NewLiteral("-INF", graph.WithDatatype(rdf.XSDDouble))
	n, err = inf.AsNumber()
	require.NoError(t, err)
	assert.True(t, math.IsInf(n, -1))

	bad, _ := graph.NewLiteral("twelve", graph.WithDatatype(rdf.XSDInteger))
	_, err = bad.AsNumber()
	assert.ErrorIs(t, err, rdf.ErrCast)
}

func TestSimplify(t *testing.T) {
	num, _ := graph.NewLiteral("42", graph.WithDatatype(rdf.XSDInteger))
	assert.Equal(t, float64(42), num.Simplify())

	flag, _ := graph.NewLiteral("1", graph.WithDatatype(rdf.XSDBoolean))
	assert.Equal(t, true, flag.Simplify())

	text, _ := graph.NewLiteral("plain")
	assert.Equal(t, "plain", text.Simplify())

	invalid, _ := graph.NewLiteral("abc", graph.WithDatatype(rdf.XSDInteger))
	assert.Equal(t, invalid, invalid.Simplify())

	tagged, _ := graph.LangString("hallo", "de")
	assert.Equal(t, tagged, tagged.Simplify())

	date, _ := graph.NewLiteral("2024-01-01", graph.WithDatatype(rdf.XSDNamespace+"date"))
	assert.Equal(t, date, date.Simplify())
}

func TestLiteralIsNumeric(t *testing.T) {
	dbl, _ := graph.NewLiteral("1e3", graph.WithDatatype(rdf.XSDDouble))
	assert.True(t, dbl.IsNumeric())
	text, _ := graph.NewLiteral("1e3")
	assert.False(t, text.IsNumeric())
}
