// Package rdf provides the engine-native RDF term model shared by the store
// and the typed graph layer, plus line-based and JSON-LD readers.
//
// Terms are IRI, BlankNode and Literal values; Triple and Quad group them into
// statements. Identities of blank nodes carry the reserved "_:" prefix so they
// cannot collide with IRIs.
//
// Decoding is pull-style:
//
//	dec, err := rdf.NewQuadDecoder(strings.NewReader(input), rdf.FormatNQuads, rdf.DefaultDecodeOptions())
//	if err != nil {
//	    // handle error
//	}
//	defer dec.Close()
//
//	for {
//	    quad, err := dec.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        // handle error
//	    }
//	    // process quad.S, quad.P, quad.O, quad.G
//	}
//
// JSON-LD documents are converted with github.com/piprate/json-gold and then
// streamed as quads.
//
// Errors follow one taxonomy for the whole module: ErrConstruction, ErrCast,
// ErrArgument, ErrImmutableState and ErrEngine (via *EngineError). Use
// errors.Is to classify and Code to obtain a stable ErrorCode.
package rdf
