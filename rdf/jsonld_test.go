package rdf

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLD_DefaultGraph(t *testing.T) {
	doc := `{
  "@context": {"name": "http://xmlns.com/foaf/0.1/name", "ex": "http://example.org/"},
  "@id": "ex:carol",
  "@type": "ex:Person",
  "name": "Carol"
}`
	quads, err := decodeAll(t, doc, FormatJSONLD, DefaultDecodeOptions())
	require.NoError(t, err)
	require.Len(t, quads, 2)

	var sawName, sawType bool
	for _, q := range quads {
		assert.Equal(t, IRI{Value: ex + "carol"}, q.S)
		assert.True(t, q.InDefaultGraph())
		switch q.P.Value {
		case "http://xmlns.com/foaf/0.1/name":
			sawName = Equal(Literal{Lexical: "Carol"}, q.O)
		case RDFType:
			sawType = Equal(IRI{Value: ex + "Person"}, q.O)
		}
	}
	assert.True(t, sawName)
	assert.True(t, sawType)
}

func TestJSONLD_NamedGraph(t *testing.T) {
	doc := `{
  "@id": "http://example.org/g",
  "@graph": [
    {"@id": "http://example.org/a", "http://example.org/knows": {"@id": "http://example.org/b"}}
  ]
}`
	quads, err := decodeAll(t, doc, FormatJSONLD, DefaultDecodeOptions())
	require.NoError(t, err)
	require.Len(t, quads, 1)
	assert.Equal(t, IRI{Value: ex + "g"}, quads[0].G)
	assert.Equal(t, IRI{Value: ex + "b"}, quads[0].O)
}

func TestJSONLD_TypedValueAndBlankNode(t *testing.T) {
	doc := `{
  "@id": "http://example.org/a",
  "http://example.org/age": {"@value": "42", "@type": "http://www.w3.org/2001/XMLSchema#integer"},
  "http://example.org/address": {"http://example.org/city": "Oslo"}
}`
	quads, err := decodeAll(t, doc, FormatJSONLD, DefaultDecodeOptions())
	require.NoError(t, err)
	require.Len(t, quads, 3)

	var age Term
	var address BlankNode
	for _, q := range quads {
		switch q.P.Value {
		case ex + "age":
			age = q.O
		case ex + "address":
			b, ok := q.O.(BlankNode)
			require.True(t, ok)
			address = b
		}
	}
	assert.True(t, Equal(Literal{Lexical: "42", Datatype: IRI{Value: XSDInteger}}, age))
	assert.NotEmpty(t, address.ID)
}

func TestJSONLD_InvalidDocument(t *testing.T) {
	_, err := decodeAll(t, `{"@id": `, FormatJSONLD, DefaultDecodeOptions())
	require.Error(t, err)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "jsonld", perr.Format)
	assert.Equal(t, ErrCodeParseError, Code(err))
}

func TestJSONLD_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := jsonldToQuads(strings.NewReader(`{}`), DecodeOptions{Context: ctx})
	assert.ErrorIs(t, err, context.Canceled)
}
