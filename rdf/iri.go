package rdf

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateIRI performs a structural check of an absolute IRI or a
// "_:"-prefixed blank node identity.
func ValidateIRI(iri string) error {
	if iri == "" {
		return fmt.Errorf("empty IRI")
	}
	if strings.HasPrefix(iri, BlankNodePrefix) {
		if len(iri) == len(BlankNodePrefix) {
			return fmt.Errorf("blank node id missing")
		}
		return nil
	}

	parsed, err := url.Parse(iri)
	if err != nil {
		return fmt.Errorf("invalid IRI syntax: %w", err)
	}
	if parsed.Scheme == "" {
		return fmt.Errorf("IRI is missing a scheme: %s", iri)
	}
	first := parsed.Scheme[0]
	if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
		return fmt.Errorf("scheme must start with a letter: %s", iri)
	}

	for i, r := range iri {
		if r < 0x20 || r == ' ' {
			return fmt.Errorf("invalid character at position %d in IRI: %q", i, iri)
		}
		if r == '<' || r == '>' || r == '"' {
			return fmt.Errorf("invalid character '%c' at position %d in IRI (should be percent-encoded): %s", r, i, iri)
		}
	}
	return nil
}

// SplitIRI splits an IRI into namespace and local name at the last '#', '/'
// or ':'. The local name may be empty.
func SplitIRI(iri string) (namespace, local string) {
	idx := strings.LastIndexAny(iri, "#/:")
	if idx < 0 {
		return "", iri
	}
	return iri[:idx+1], iri[idx+1:]
}

// TermFromIdentity maps an identity string back to an engine term:
// "_:"-prefixed values become blank nodes, everything else an IRI.
func TermFromIdentity(identity string) Term {
	if strings.HasPrefix(identity, BlankNodePrefix) {
		return BlankNode{ID: identity[len(BlankNodePrefix):]}
	}
	return IRI{Value: identity}
}
