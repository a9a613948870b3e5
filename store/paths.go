package store

import (
	"fmt"
	"strings"

	"github.com/geoknoesis/rdf-graph/rdf"
)

// PropertyPath is a parsed SPARQL 1.1 property path.
type PropertyPath interface {
	String() string
}

type predicatePath struct{ iri rdf.IRI }

type inversePath struct{ inner PropertyPath }

type sequencePath struct{ steps []PropertyPath }

type alternativePath struct{ options []PropertyPath }

// repeatPath is p? (max 1), p* or p+ (unbounded).
type repeatPath struct {
	inner     PropertyPath
	min       int
	unbounded bool
}

func (p predicatePath) String() string { return "<" + p.iri.Value + ">" }

func (p inversePath) String() string { return "^" + p.inner.String() }

func (p sequencePath) String() string { return joinPaths(p.steps, "/") }

func (p alternativePath) String() string { return joinPaths(p.options, "|") }

func (p repeatPath) String() string {
	mod := "?"
	switch {
	case p.unbounded && p.min == 0:
		mod = "*"
	case p.unbounded:
		mod = "+"
	}
	return "(" + p.inner.String() + ")" + mod
}

func joinPaths(paths []PropertyPath, sep string) string {
	parts := make([]string, len(paths))
	for i, p := range paths {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// ParsePath parses a property path. Supported: IRIs in angle brackets,
// qnames, "a", grouping, inverse (^), sequence (/), alternative (|) and
// the ?, * and + modifiers.
func ParsePath(expr string, prefixes *PrefixMap) (PropertyPath, error) {
	p := &pathParser{input: expr, prefixes: prefixes}
	path, err := p.parseAlternative()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return nil, p.errorf("unexpected %q", p.input[p.pos:])
	}
	return path, nil
}

type pathParser struct {
	input    string
	pos      int
	prefixes *PrefixMap
}

func (p *pathParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: property path %q at offset %d: %s", rdf.ErrArgument, p.input, p.pos, fmt.Sprintf(format, args...))
}

func (p *pathParser) skipSpace() {
	for p.pos < len(p.input) && strings.ContainsRune(" \t\r\n", rune(p.input[p.pos])) {
		p.pos++
	}
}

func (p *pathParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *pathParser) parseAlternative() (PropertyPath, error) {
	first, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	options := []PropertyPath{first}
	for p.peek() == '|' {
		p.pos++
		next, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		options = append(options, next)
	}
	if len(options) == 1 {
		return first, nil
	}
	return alternativePath{options: options}, nil
}

func (p *pathParser) parseSequence() (PropertyPath, error) {
	first, err := p.parseElement()
	if err != nil {
		return nil, err
	}
	steps := []PropertyPath{first}
	for p.peek() == '/' {
		p.pos++
		next, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		steps = append(steps, next)
	}
	if len(steps) == 1 {
		return first, nil
	}
	return sequencePath{steps: steps}, nil
}

func (p *pathParser) parseElement() (PropertyPath, error) {
	if p.peek() == '^' {
		p.pos++
		inner, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		return inversePath{inner: inner}, nil
	}
	primary, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	switch p.peek() {
	case '?':
		p.pos++
		return repeatPath{inner: primary}, nil
	case '*':
		p.pos++
		return repeatPath{inner: primary, unbounded: true}, nil
	case '+':
		p.pos++
		return repeatPath{inner: primary, min: 1, unbounded: true}, nil
	}
	return primary, nil
}

func (p *pathParser) parsePrimary() (PropertyPath, error) {
	switch c := p.peek(); c {
	case 0:
		return nil, p.errorf("unexpected end of path")
	case '(':
		p.pos++
		inner, err := p.parseAlternative()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, p.errorf("missing ')'")
		}
		p.pos++
		return inner, nil
	case '<':
		end := strings.IndexByte(p.input[p.pos:], '>')
		if end < 0 {
			return nil, p.errorf("unterminated IRI")
		}
		iri := p.input[p.pos+1 : p.pos+end]
		p.pos += end + 1
		if err := rdf.ValidateIRI(iri); err != nil {
			return nil, p.errorf("%v", err)
		}
		return predicatePath{iri: rdf.IRI{Value: iri}}, nil
	case '!':
		return nil, p.errorf("negated property sets are not supported")
	default:
		start := p.pos
		for p.pos < len(p.input) && !strings.ContainsRune(" \t\r\n/|^*+?()<>!", rune(p.input[p.pos])) {
			p.pos++
		}
		name := p.input[start:p.pos]
		if name == "" {
			return nil, p.errorf("unexpected %q", string(c))
		}
		if name == "a" {
			return predicatePath{iri: rdf.IRI{Value: rdf.RDFType}}, nil
		}
		iri, ok := p.prefixes.Expand(name)
		if !ok {
			p.pos = start
			return nil, p.errorf("unknown prefix in %q", name)
		}
		return predicatePath{iri: rdf.IRI{Value: iri}}, nil
	}
}

// evalPath returns the distinct nodes reachable from start, in the order
// they are first reached.
func (s *Store) evalPath(graph string, path PropertyPath, start rdf.Term) ([]rdf.Term, error) {
	out, err := s.step(graph, path, []rdf.Term{start}, true)
	if err != nil {
		return nil, err
	}
	return distinct(out), nil
}

// step applies path to every node of from. Forward follows edges from
// subject to object; backward from object to subject.
func (s *Store) step(graph string, path PropertyPath, from []rdf.Term, forward bool) ([]rdf.Term, error) {
	switch p := path.(type) {
	case predicatePath:
		var out []rdf.Term
		for _, node := range from {
			var triples []rdf.Triple
			var err error
			if forward {
				triples, err = s.backend.Match(graph, node, p.iri, nil)
			} else {
				triples, err = s.backend.Match(graph, nil, p.iri, node)
			}
			if err != nil {
				return nil, rdf.WrapEngineError("path", err)
			}
			for _, t := range triples {
				if forward {
					out = append(out, t.O)
				} else {
					out = append(out, t.S)
				}
			}
		}
		return out, nil

	case inversePath:
		return s.step(graph, p.inner, from, !forward)

	case sequencePath:
		current := from
		for i := range p.steps {
			idx := i
			if !forward {
				idx = len(p.steps) - 1 - i
			}
			next, err := s.step(graph, p.steps[idx], current, forward)
			if err != nil {
				return nil, err
			}
			current = next
			if len(current) == 0 {
				break
			}
		}
		return current, nil

	case alternativePath:
		var out []rdf.Term
		for _, option := range p.options {
			next, err := s.step(graph, option, from, forward)
			if err != nil {
				return nil, err
			}
			out = append(out, next...)
		}
		return out, nil

	case repeatPath:
		var out []rdf.Term
		for _, node := range from {
			reached, err := s.closure(graph, p, node, forward)
			if err != nil {
				return nil, err
			}
			out = append(out, reached...)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: unsupported path %T", rdf.ErrArgument, path)
	}
}

// closure evaluates p?, p* and p+ from one node with a visited set, so
// cycles terminate.
func (s *Store) closure(graph string, p repeatPath, start rdf.Term, forward bool) ([]rdf.Term, error) {
	seen := make(map[string]struct{})
	var out []rdf.Term
	emit := func(t rdf.Term) {
		if _, ok := seen[rdf.Key(t)]; !ok {
			seen[rdf.Key(t)] = struct{}{}
			out = append(out, t)
		}
	}
	if p.min == 0 {
		emit(start)
	}
	frontier := []rdf.Term{start}
	expanded := make(map[string]struct{})
	for len(frontier) > 0 {
		next, err := s.step(graph, p.inner, frontier, forward)
		if err != nil {
			return nil, err
		}
		for _, f := range frontier {
			expanded[rdf.Key(f)] = struct{}{}
		}
		frontier = frontier[:0]
		for _, n := range next {
			emit(n)
			if !p.unbounded {
				continue
			}
			if _, done := expanded[rdf.Key(n)]; !done {
				expanded[rdf.Key(n)] = struct{}{}
				frontier = append(frontier, n)
			}
		}
		if !p.unbounded {
			break
		}
	}
	return out, nil
}

func distinct(terms []rdf.Term) []rdf.Term {
	seen := make(map[string]struct{}, len(terms))
	out := terms[:0:0]
	for _, t := range terms {
		k := rdf.Key(t)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}
