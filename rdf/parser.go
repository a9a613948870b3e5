package rdf

import (
	"context"
	"fmt"
	"io"
)

// QuadDecoder streams RDF quads from an input.
type QuadDecoder interface {
	Next() (Quad, error)
	Close() error
}

// QuadEncoder streams RDF quads to an output.
type QuadEncoder interface {
	Write(Quad) error
	Flush() error
	Close() error
}

// QuadHandler processes quads in push mode.
type QuadHandler interface {
	Handle(Quad) error
}

// QuadHandlerFunc adapts a function to a QuadHandler.
type QuadHandlerFunc func(Quad) error

// Handle calls the underlying function.
func (h QuadHandlerFunc) Handle(q Quad) error { return h(q) }

// NewQuadDecoder creates a pull-style decoder for the given format.
func NewQuadDecoder(r io.Reader, format Format, opts DecodeOptions) (QuadDecoder, error) {
	switch format {
	case FormatNTriples, FormatNQuads:
		return newNTDecoder(r, format, opts), nil
	case FormatJSONLD:
		return newJSONLDDecoder(r, opts), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// NewQuadEncoder creates a push-style encoder. Only the line-based formats can be written.
func NewQuadEncoder(w io.Writer, format Format) (QuadEncoder, error) {
	switch format {
	case FormatNTriples, FormatNQuads:
		return newNTEncoder(w, format), nil
	default:
		return nil, fmt.Errorf("%w: cannot encode %s", ErrUnsupportedFormat, format)
	}
}

// ParseQuads decodes r and streams every statement to handler.
// If ctx is nil, context.Background() is used.
func ParseQuads(ctx context.Context, r io.Reader, format Format, opts DecodeOptions, handler QuadHandler) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts.Context = ctx
	dec, err := NewQuadDecoder(r, format, opts)
	if err != nil {
		return err
	}
	defer dec.Close()

	count := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		q, err := dec.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		count++
		if opts.MaxQuads > 0 && count > opts.MaxQuads {
			return fmt.Errorf("%s: more than %d statements", format, opts.MaxQuads)
		}
		if err := handler.Handle(q); err != nil {
			return err
		}
	}
}

// WriteTriples serializes triples as N-Triples.
func WriteTriples(w io.Writer, triples []Triple) error {
	enc := newNTEncoder(w, FormatNTriples)
	for _, t := range triples {
		if err := enc.Write(Quad{S: t.S, P: t.P, O: t.O}); err != nil {
			return err
		}
	}
	return enc.Close()
}
