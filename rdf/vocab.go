package rdf

// Namespaces of the vocabularies the graph layer depends on.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	SKOSNamespace = "http://www.w3.org/2004/02/skos/core#"
	SHNamespace   = "http://www.w3.org/ns/shacl#"
	DASHNamespace = "http://datashapes.org/dash#"
)

// RDF terms.
const (
	RDFType       = RDFNamespace + "type"
	RDFSubject    = RDFNamespace + "subject"
	RDFPredicate  = RDFNamespace + "predicate"
	RDFObject     = RDFNamespace + "object"
	RDFLangString = RDFNamespace + "langString"
	RDFHTML       = RDFNamespace + "HTML"
	RDFXMLLiteral = RDFNamespace + "XMLLiteral"
)

// RDFS terms.
const (
	RDFSClass      = RDFSNamespace + "Class"
	RDFSSubClassOf = RDFSNamespace + "subClassOf"
	RDFSLabel      = RDFSNamespace + "label"
)

// SKOSPrefLabel is the preferred lexical label of a resource.
const SKOSPrefLabel = SKOSNamespace + "prefLabel"

// XSD datatypes.
const (
	XSDString             = XSDNamespace + "string"
	XSDBoolean            = XSDNamespace + "boolean"
	XSDDecimal            = XSDNamespace + "decimal"
	XSDInteger            = XSDNamespace + "integer"
	XSDFloat              = XSDNamespace + "float"
	XSDDouble             = XSDNamespace + "double"
	XSDLong               = XSDNamespace + "long"
	XSDInt                = XSDNamespace + "int"
	XSDShort              = XSDNamespace + "short"
	XSDByte               = XSDNamespace + "byte"
	XSDNonNegativeInteger = XSDNamespace + "nonNegativeInteger"
	XSDNonPositiveInteger = XSDNamespace + "nonPositiveInteger"
	XSDNegativeInteger    = XSDNamespace + "negativeInteger"
	XSDPositiveInteger    = XSDNamespace + "positiveInteger"
	XSDUnsignedLong       = XSDNamespace + "unsignedLong"
	XSDUnsignedInt        = XSDNamespace + "unsignedInt"
	XSDUnsignedShort      = XSDNamespace + "unsignedShort"
	XSDUnsignedByte       = XSDNamespace + "unsignedByte"
)

// SHACL terms.
const (
	SHShape         = SHNamespace + "Shape"
	SHNodeShape     = SHNamespace + "NodeShape"
	SHPropertyShape = SHNamespace + "PropertyShape"
	SHTargetClass   = SHNamespace + "targetClass"
	SHDeactivated   = SHNamespace + "deactivated"
)

// DASH terms.
const (
	DASHApplicableToClass = DASHNamespace + "applicableToClass"
	DASHIndex             = DASHNamespace + "index"
)

var numericDatatypes = map[string]struct{}{
	XSDDecimal:            {},
	XSDInteger:            {},
	XSDFloat:              {},
	XSDDouble:             {},
	XSDLong:               {},
	XSDInt:                {},
	XSDShort:              {},
	XSDByte:               {},
	XSDNonNegativeInteger: {},
	XSDNonPositiveInteger: {},
	XSDNegativeInteger:    {},
	XSDPositiveInteger:    {},
	XSDUnsignedLong:       {},
	XSDUnsignedInt:        {},
	XSDUnsignedShort:      {},
	XSDUnsignedByte:       {},
}

// IsNumericDatatype reports whether datatype is one of the XSD numeric
// datatypes (decimal, float, double and the integer hierarchy).
func IsNumericDatatype(datatype string) bool {
	_, ok := numericDatatypes[datatype]
	return ok
}

// DefaultPrefixes returns the prefix mapping every store starts with.
func DefaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":  RDFNamespace,
		"rdfs": RDFSNamespace,
		"xsd":  XSDNamespace,
		"owl":  OWLNamespace,
		"skos": SKOSNamespace,
		"sh":   SHNamespace,
		"dash": DASHNamespace,
	}
}
