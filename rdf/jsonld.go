package rdf

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	ld "github.com/piprate/json-gold/ld"
)

// jsonldDecoder converts a whole JSON-LD document to quads up front and then
// streams them. JSON-LD expansion needs the complete document anyway.
type jsonldDecoder struct {
	quads []Quad
	index int
	err   error
}

func newJSONLDDecoder(r io.Reader, opts DecodeOptions) *jsonldDecoder {
	dec := &jsonldDecoder{}
	quads, err := jsonldToQuads(r, opts)
	if err != nil {
		dec.err = err
	}
	dec.quads = quads
	return dec
}

func (d *jsonldDecoder) Next() (Quad, error) {
	if d.err != nil {
		return Quad{}, d.err
	}
	if d.index >= len(d.quads) {
		return Quad{}, io.EOF
	}
	q := d.quads[d.index]
	d.index++
	return q, nil
}

func (d *jsonldDecoder) Close() error { return nil }

func jsonldToQuads(r io.Reader, opts DecodeOptions) ([]Quad, error) {
	opts = normalizeDecodeOptions(opts)
	if err := opts.Context.Err(); err != nil {
		return nil, err
	}
	var document interface{}
	if err := json.NewDecoder(r).Decode(&document); err != nil {
		return nil, wrapParseError(string(FormatJSONLD), "", 0, 0, err)
	}

	proc := ld.NewJsonLdProcessor()
	goldOpts := ld.NewJsonLdOptions(opts.BaseIRI)
	result, err := proc.ToRDF(document, goldOpts)
	if err != nil {
		return nil, wrapParseError(string(FormatJSONLD), "", 0, 0, err)
	}
	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return nil, fmt.Errorf("jsonld: unexpected ToRDF result %T", result)
	}
	serializer := &ld.NQuadRDFSerializer{}
	serialized, err := serializer.Serialize(dataset)
	if err != nil {
		return nil, err
	}
	nquads, ok := serialized.(string)
	if !ok {
		return nil, fmt.Errorf("jsonld: unexpected N-Quads result %T", serialized)
	}

	var quads []Quad
	dec := newNTDecoder(strings.NewReader(nquads), FormatNQuads, DecodeOptions{MaxLineBytes: -1})
	for {
		q, err := dec.Next()
		if err == io.EOF {
			return quads, nil
		}
		if err != nil {
			return nil, err
		}
		quads = append(quads, q)
	}
}
