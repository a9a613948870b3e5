package rdf

// ResultTable is the raw result of a SELECT query as produced by an engine.
// Row values are Term, a Go primitive (string, bool, int64, float64) or nil.
// Rows may omit variables that are unbound.
type ResultTable struct {
	Vars []string
	Rows []map[string]interface{}
}
