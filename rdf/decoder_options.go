package rdf

import "context"

const (
	DefaultMaxLineBytes = 1 << 20
	DefaultMaxQuads     = 0
)

// DecodeOptions configures parser behavior and limits.
// Zero values use defaults. Use negative values to disable specific limits.
type DecodeOptions struct {
	// MaxLineBytes bounds a single N-Triples/N-Quads line.
	MaxLineBytes int
	// MaxQuads stops decoding once this many statements were produced. Zero means unlimited.
	MaxQuads int
	// BaseIRI resolves relative IRIs in JSON-LD documents.
	BaseIRI string
	// Context provides cancellation for decoding work.
	Context context.Context
}

// DefaultDecodeOptions returns safe defaults for parser limits.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{
		MaxLineBytes: DefaultMaxLineBytes,
		MaxQuads:     DefaultMaxQuads,
	}
}

func normalizeDecodeOptions(opts DecodeOptions) DecodeOptions {
	if opts.MaxLineBytes == 0 {
		opts.MaxLineBytes = DefaultMaxLineBytes
	}
	if opts.MaxLineBytes < 0 {
		opts.MaxLineBytes = 0
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	return opts
}
