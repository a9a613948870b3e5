package rdf

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeTriples = `<http://example.org/a> <http://example.org/p> "1" .
<http://example.org/b> <http://example.org/p> "2" .
<http://example.org/c> <http://example.org/p> "3" .
`

func collect(quads *[]Quad) QuadHandler {
	return QuadHandlerFunc(func(q Quad) error {
		*quads = append(*quads, q)
		return nil
	})
}

func TestParseQuads(t *testing.T) {
	var quads []Quad
	err := ParseQuads(context.Background(), strings.NewReader(threeTriples), FormatNTriples, DefaultDecodeOptions(), collect(&quads))
	require.NoError(t, err)
	require.Len(t, quads, 3)
	assert.Equal(t, IRI{Value: ex + "c"}, quads[2].S)
}

func TestParseQuads_NilContext(t *testing.T) {
	var quads []Quad
	//nolint:staticcheck // nil context falls back to Background
	err := ParseQuads(nil, strings.NewReader(threeTriples), FormatNTriples, DecodeOptions{}, collect(&quads))
	require.NoError(t, err)
	assert.Len(t, quads, 3)
}

func TestParseQuads_MaxQuads(t *testing.T) {
	var quads []Quad
	opts := DefaultDecodeOptions()
	opts.MaxQuads = 2
	err := ParseQuads(context.Background(), strings.NewReader(threeTriples), FormatNTriples, opts, collect(&quads))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than 2 statements")
	assert.Len(t, quads, 2)
}

func TestParseQuads_HandlerErrorStops(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := ParseQuads(context.Background(), strings.NewReader(threeTriples), FormatNTriples, DefaultDecodeOptions(),
		QuadHandlerFunc(func(Quad) error {
			calls++
			return stop
		}))
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestParseQuads_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var quads []Quad
	err := ParseQuads(ctx, strings.NewReader(threeTriples), FormatNTriples, DefaultDecodeOptions(), collect(&quads))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, quads)
}

func TestParseQuads_UnsupportedFormat(t *testing.T) {
	err := ParseQuads(context.Background(), strings.NewReader(""), Format("turtle"), DefaultDecodeOptions(), collect(new([]Quad)))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestNewQuadEncoder_Unsupported(t *testing.T) {
	_, err := NewQuadEncoder(io.Discard, FormatJSONLD)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestNormalizeDecodeOptions(t *testing.T) {
	opts := normalizeDecodeOptions(DecodeOptions{})
	assert.Equal(t, DefaultMaxLineBytes, opts.MaxLineBytes)
	assert.NotNil(t, opts.Context)

	opts = normalizeDecodeOptions(DecodeOptions{MaxLineBytes: -1})
	assert.Zero(t, opts.MaxLineBytes)
}
