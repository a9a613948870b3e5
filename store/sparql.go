package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/geoknoesis/rdf-graph/rdf"
)

// Select evaluates a SELECT query made of PREFIX declarations, an optional
// DISTINCT, a projection (variables or *), one basic graph pattern and
// optional LIMIT and OFFSET. Predicates may be property paths. Variables in
// bindings are bound before the pattern is matched.
func (s *Store) Select(graph, query string, bindings map[string]rdf.Term) (_ *rdf.ResultTable, err error) {
	defer observe("select", time.Now(), &err)
	q, err := parseSelect(query, NewPrefixMap(s.prefixes.All()))
	if err != nil {
		return nil, rdf.WrapEngineError("select", err)
	}

	initial := make(map[string]rdf.Term, len(bindings))
	for name, value := range bindings {
		if value != nil {
			initial[strings.TrimLeft(name, "?$")] = value
		}
	}
	rows := []map[string]rdf.Term{initial}
	for _, pattern := range q.patterns {
		var next []map[string]rdf.Term
		for _, row := range rows {
			matched, err := s.matchPattern(graph, pattern, row)
			if err != nil {
				return nil, rdf.WrapEngineError("select", err)
			}
			next = append(next, matched...)
		}
		rows = next
		if len(rows) == 0 {
			break
		}
	}

	vars := q.vars
	if vars == nil {
		vars = q.mentioned
	}
	table := &rdf.ResultTable{Vars: append([]string(nil), vars...)}
	seen := make(map[string]struct{})
	skipped := 0
	for _, row := range rows {
		out := make(map[string]interface{}, len(vars))
		var key strings.Builder
		for _, v := range vars {
			if t, ok := row[v]; ok {
				out[v] = t
				key.WriteString(rdf.Key(t))
			}
			key.WriteByte(0)
		}
		if q.distinct {
			if _, dup := seen[key.String()]; dup {
				continue
			}
			seen[key.String()] = struct{}{}
		}
		if skipped < q.offset {
			skipped++
			continue
		}
		if q.limit >= 0 && len(table.Rows) >= q.limit {
			break
		}
		table.Rows = append(table.Rows, out)
	}
	queryRows.Observe(float64(len(table.Rows)))
	return table, nil
}

func (s *Store) matchPattern(graph string, p triplePattern, row map[string]rdf.Term) ([]map[string]rdf.Term, error) {
	subj, obj := p.s.resolve(row), p.o.resolve(row)
	if p.p.path != nil {
		return s.matchPathPattern(graph, p, subj, obj, row)
	}
	pred := p.p.resolve(row)
	if pred != nil {
		if _, ok := pred.(rdf.IRI); !ok {
			return nil, nil
		}
	}
	if subj != nil && subj.Kind() == rdf.TermLiteral {
		return nil, nil
	}
	triples, err := s.backend.Match(graph, subj, pred, obj)
	if err != nil {
		return nil, err
	}
	var out []map[string]rdf.Term
	for _, t := range triples {
		next := cloneRow(row)
		if p.s.bind(next, t.S) && p.p.bind(next, t.P) && p.o.bind(next, t.O) {
			out = append(out, next)
		}
	}
	return out, nil
}

func (s *Store) matchPathPattern(graph string, p triplePattern, subj, obj rdf.Term, row map[string]rdf.Term) ([]map[string]rdf.Term, error) {
	var out []map[string]rdf.Term
	switch {
	case subj != nil:
		reached, err := s.evalPath(graph, p.p.path, subj)
		if err != nil {
			return nil, err
		}
		for _, t := range reached {
			next := cloneRow(row)
			if p.o.bind(next, t) {
				out = append(out, next)
			}
		}
	case obj != nil:
		reached, err := s.step(graph, p.p.path, []rdf.Term{obj}, false)
		if err != nil {
			return nil, err
		}
		for _, t := range distinct(reached) {
			next := cloneRow(row)
			if p.s.bind(next, t) {
				out = append(out, next)
			}
		}
	default:
		return nil, fmt.Errorf("property path %s needs a bound subject or object", p.p.path)
	}
	return out, nil
}

func cloneRow(row map[string]rdf.Term) map[string]rdf.Term {
	out := make(map[string]rdf.Term, len(row)+3)
	for k, v := range row {
		out[k] = v
	}
	return out
}

type selectQuery struct {
	vars      []string
	mentioned []string
	distinct  bool
	patterns  []triplePattern
	limit     int
	offset    int
}

type triplePattern struct {
	s, p, o patternTerm
}

// patternTerm is a variable, a constant term or, in predicate position, a
// property path.
type patternTerm struct {
	variable string
	term     rdf.Term
	path     PropertyPath
}

func (t patternTerm) resolve(row map[string]rdf.Term) rdf.Term {
	if t.variable == "" {
		return t.term
	}
	return row[t.variable]
}

// bind assigns value to the variable, or checks it against an existing
// binding or constant.
func (t patternTerm) bind(row map[string]rdf.Term, value rdf.Term) bool {
	if t.variable == "" {
		return t.term == nil || rdf.Equal(t.term, value)
	}
	if existing, ok := row[t.variable]; ok {
		return rdf.Equal(existing, value)
	}
	row[t.variable] = value
	return true
}

type tokenKind int

const (
	tokWord tokenKind = iota
	tokVar
	tokIRI
	tokLiteral
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	lit  rdf.Literal
	// raw datatype or language suffix of a literal, resolved by the parser
	suffix string
}

func lexQuery(query string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(query) {
		c := query[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '#':
			for i < len(query) && query[i] != '\n' {
				i++
			}
		case strings.IndexByte("{}.;,", c) >= 0:
			tokens = append(tokens, token{kind: tokPunct, text: string(c)})
			i++
		case c == '"' || c == '\'':
			tok, n, err := lexLiteral(query[i:])
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i += n
		case c == '?' || c == '$':
			j := i + 1
			for j < len(query) && isVarChar(query[j]) {
				j++
			}
			if j == i+1 {
				return nil, fmt.Errorf("empty variable name at offset %d", i)
			}
			tokens = append(tokens, token{kind: tokVar, text: query[i+1 : j]})
			i = j
		default:
			j := i
			inIRI := false
			for j < len(query) {
				ch := query[j]
				if inIRI {
					inIRI = ch != '>'
					j++
					continue
				}
				if ch == '<' {
					inIRI = true
					j++
					continue
				}
				if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || strings.IndexByte("{};,", ch) >= 0 {
					break
				}
				j++
			}
			if inIRI {
				return nil, fmt.Errorf("unterminated IRI at offset %d", i)
			}
			word := query[i:j]
			trailingDot := false
			// a qname local part cannot end in '.', so a final dot ends the triple
			if len(word) > 1 && strings.HasSuffix(word, ".") {
				word, trailingDot = word[:len(word)-1], true
			}
			if strings.HasPrefix(word, "<") && strings.IndexByte(word, '>') == len(word)-1 {
				tokens = append(tokens, token{kind: tokIRI, text: word[1 : len(word)-1]})
			} else if word != "" {
				tokens = append(tokens, token{kind: tokWord, text: word})
			}
			if trailingDot {
				tokens = append(tokens, token{kind: tokPunct, text: "."})
			}
			i = j
		}
	}
	return tokens, nil
}

func isVarChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// lexLiteral reads a quoted string with an optional @lang or ^^datatype.
func lexLiteral(input string) (token, int, error) {
	quote := input[0]
	var b strings.Builder
	i := 1
	for {
		if i >= len(input) {
			return token{}, 0, fmt.Errorf("unterminated string literal")
		}
		c := input[i]
		if c == quote {
			i++
			break
		}
		if c == '\\' && i+1 < len(input) {
			i++
			switch input[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(input[i])
			}
			i++
			continue
		}
		b.WriteByte(c)
		i++
	}
	tok := token{kind: tokLiteral, lit: rdf.Literal{Lexical: b.String()}}
	switch {
	case strings.HasPrefix(input[i:], "@"):
		j := i + 1
		for j < len(input) && (isVarChar(input[j]) || input[j] == '-') {
			j++
		}
		tok.lit.Lang = input[i+1 : j]
		i = j
	case strings.HasPrefix(input[i:], "^^"):
		j := i + 2
		for j < len(input) && !strings.ContainsRune(" \t\r\n{};,", rune(input[j])) {
			j++
		}
		if j > i+3 && input[j-1] == '.' {
			j--
		}
		tok.suffix = input[i+2 : j]
		i = j
	}
	return tok, i, nil
}

type queryParser struct {
	tokens   []token
	pos      int
	prefixes *PrefixMap
	q        *selectQuery
	seenVars map[string]struct{}
}

func parseSelect(query string, prefixes *PrefixMap) (*selectQuery, error) {
	tokens, err := lexQuery(query)
	if err != nil {
		return nil, err
	}
	p := &queryParser{
		tokens:   tokens,
		prefixes: prefixes,
		q:        &selectQuery{limit: -1},
		seenVars: make(map[string]struct{}),
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.q, nil
}

func (p *queryParser) next() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	t := p.tokens[p.pos]
	p.pos++
	return t, true
}

func (p *queryParser) peekKeyword(kw string) bool {
	if p.pos >= len(p.tokens) {
		return false
	}
	t := p.tokens[p.pos]
	return t.kind == tokWord && strings.EqualFold(t.text, kw)
}

func (p *queryParser) peekPunct(punct string) bool {
	return p.pos < len(p.tokens) && p.tokens[p.pos].kind == tokPunct && p.tokens[p.pos].text == punct
}

func (p *queryParser) parse() error {
	for p.peekKeyword("PREFIX") {
		p.pos++
		name, ok := p.next()
		if !ok || name.kind != tokWord || !strings.HasSuffix(name.text, ":") {
			return fmt.Errorf("PREFIX expects a name ending in ':'")
		}
		ns, ok := p.next()
		if !ok || ns.kind != tokIRI {
			return fmt.Errorf("PREFIX %s expects an IRI", name.text)
		}
		p.prefixes.Set(strings.TrimSuffix(name.text, ":"), ns.text)
	}
	if !p.peekKeyword("SELECT") {
		return fmt.Errorf("only SELECT queries are supported")
	}
	p.pos++
	if p.peekKeyword("DISTINCT") {
		p.pos++
		p.q.distinct = true
	}
	if p.peekKeyword("*") {
		p.pos++
	} else {
		p.q.vars = []string{}
		for p.pos < len(p.tokens) && p.tokens[p.pos].kind == tokVar {
			p.q.vars = append(p.q.vars, p.tokens[p.pos].text)
			p.pos++
		}
		if len(p.q.vars) == 0 {
			return fmt.Errorf("SELECT expects variables or *")
		}
	}
	if p.peekKeyword("WHERE") {
		p.pos++
	}
	if !p.peekPunct("{") {
		return fmt.Errorf("expected '{'")
	}
	p.pos++
	if err := p.parsePatterns(); err != nil {
		return err
	}
	for p.pos < len(p.tokens) {
		switch {
		case p.peekKeyword("LIMIT"):
			p.pos++
			n, err := p.integer("LIMIT")
			if err != nil {
				return err
			}
			p.q.limit = n
		case p.peekKeyword("OFFSET"):
			p.pos++
			n, err := p.integer("OFFSET")
			if err != nil {
				return err
			}
			p.q.offset = n
		default:
			return fmt.Errorf("unexpected %q after pattern", p.tokens[p.pos].text)
		}
	}
	return nil
}

func (p *queryParser) integer(clause string) (int, error) {
	t, ok := p.next()
	if !ok || t.kind != tokWord {
		return 0, fmt.Errorf("%s expects a number", clause)
	}
	n, err := strconv.Atoi(t.text)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s expects a non-negative integer, got %q", clause, t.text)
	}
	return n, nil
}

func (p *queryParser) parsePatterns() error {
	for {
		if p.peekPunct("}") {
			p.pos++
			return nil
		}
		if p.pos >= len(p.tokens) {
			return fmt.Errorf("missing '}'")
		}
		subj, err := p.term(false)
		if err != nil {
			return err
		}
		for {
			pred, err := p.term(true)
			if err != nil {
				return err
			}
			for {
				obj, err := p.term(false)
				if err != nil {
					return err
				}
				p.q.patterns = append(p.q.patterns, triplePattern{s: subj, p: pred, o: obj})
				if !p.peekPunct(",") {
					break
				}
				p.pos++
			}
			if !p.peekPunct(";") {
				break
			}
			p.pos++
			if p.peekPunct(".") || p.peekPunct("}") {
				break
			}
		}
		if p.peekPunct(".") {
			p.pos++
		}
	}
}

func (p *queryParser) variable(name string) patternTerm {
	if _, ok := p.seenVars[name]; !ok && !strings.HasPrefix(name, rdf.BlankNodePrefix) {
		p.seenVars[name] = struct{}{}
		p.q.mentioned = append(p.q.mentioned, name)
	}
	return patternTerm{variable: name}
}

func (p *queryParser) term(predicate bool) (patternTerm, error) {
	t, ok := p.next()
	if !ok {
		return patternTerm{}, fmt.Errorf("unexpected end of query")
	}
	switch t.kind {
	case tokVar:
		return p.variable(t.text), nil
	case tokIRI:
		if err := rdf.ValidateIRI(t.text); err != nil {
			return patternTerm{}, err
		}
		return patternTerm{term: rdf.IRI{Value: t.text}}, nil
	case tokLiteral:
		if predicate {
			return patternTerm{}, fmt.Errorf("literal %s in predicate position", t.lit)
		}
		lit := t.lit
		if t.suffix != "" {
			dt, err := p.iri(t.suffix)
			if err != nil {
				return patternTerm{}, err
			}
			lit.Datatype = rdf.IRI{Value: dt}
		}
		return patternTerm{term: lit}, nil
	case tokWord:
		return p.word(t.text, predicate)
	default:
		return patternTerm{}, fmt.Errorf("unexpected %q", t.text)
	}
}

func (p *queryParser) word(text string, predicate bool) (patternTerm, error) {
	if strings.HasPrefix(text, rdf.BlankNodePrefix) {
		if predicate {
			return patternTerm{}, fmt.Errorf("blank node %s in predicate position", text)
		}
		return p.variable(text), nil
	}
	if predicate {
		if text == "a" {
			return patternTerm{term: rdf.IRI{Value: rdf.RDFType}}, nil
		}
		path, err := ParsePath(text, p.prefixes)
		if err != nil {
			return patternTerm{}, err
		}
		if simple, ok := path.(predicatePath); ok {
			return patternTerm{term: simple.iri}, nil
		}
		return patternTerm{path: path}, nil
	}
	switch lower := strings.ToLower(text); {
	case lower == "true" || lower == "false":
		return patternTerm{term: rdf.Literal{Lexical: lower, Datatype: rdf.IRI{Value: rdf.XSDBoolean}}}, nil
	case isNumber(text):
		return patternTerm{term: numberLiteral(text)}, nil
	}
	iri, err := p.iri(text)
	if err != nil {
		return patternTerm{}, err
	}
	return patternTerm{term: rdf.IRI{Value: iri}}, nil
}

func (p *queryParser) iri(text string) (string, error) {
	if strings.HasPrefix(text, "<") && strings.HasSuffix(text, ">") {
		return text[1 : len(text)-1], nil
	}
	iri, ok := p.prefixes.Expand(text)
	if !ok {
		return "", fmt.Errorf("unknown prefix in %q", text)
	}
	return iri, nil
}

func isNumber(text string) bool {
	_, err := strconv.ParseFloat(text, 64)
	return err == nil && strings.IndexFunc(text, func(r rune) bool {
		return !(r >= '0' && r <= '9' || strings.ContainsRune("+-.eE", r))
	}) < 0
}

func numberLiteral(text string) rdf.Literal {
	dt := rdf.XSDInteger
	switch {
	case strings.ContainsAny(text, "eE"):
		dt = rdf.XSDDouble
	case strings.Contains(text, "."):
		dt = rdf.XSDDecimal
	}
	return rdf.Literal{Lexical: text, Datatype: rdf.IRI{Value: dt}}
}
