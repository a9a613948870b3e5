package rdf

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies RDF serialization formats the loader understands.
type Format string

const (
	FormatNTriples Format = "ntriples"
	FormatNQuads   Format = "nquads"
	FormatJSONLD   Format = "jsonld"
)

// ParseFormat normalizes a format string.
func ParseFormat(value string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "ntriples", "nt", "n-triples":
		return FormatNTriples, true
	case "nquads", "nq", "n-quads":
		return FormatNQuads, true
	case "jsonld", "json-ld", "json":
		return FormatJSONLD, true
	default:
		return "", false
	}
}

// SupportsGraphs reports whether statements of the format may carry a graph name.
func (f Format) SupportsGraphs() bool {
	return f == FormatNQuads || f == FormatJSONLD
}

// FormatFromPath infers the format from a filename extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nt":
		return FormatNTriples, nil
	case ".nq":
		return FormatNQuads, nil
	case ".jsonld", ".json":
		return FormatJSONLD, nil
	default:
		return "", fmt.Errorf("%w: cannot infer format for path %s", ErrUnsupportedFormat, path)
	}
}

// FormatFromContentType infers the format from a media type.
func FormatFromContentType(contentType string) (Format, error) {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch mediaType {
	case "application/n-triples":
		return FormatNTriples, nil
	case "application/n-quads":
		return FormatNQuads, nil
	case "application/ld+json":
		return FormatJSONLD, nil
	default:
		return "", fmt.Errorf("%w: unknown content type %s", ErrUnsupportedFormat, contentType)
	}
}
