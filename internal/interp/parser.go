package interp

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/vk/rdfworkflow/internal/nodeid"
	"github.com/vk/rdfworkflow/internal/operation"
)

var (
	resultVectorType = mustTokenize("std::vector<ROOT::RDF::RResultHandle>")
	nodeParamType    = mustTokenize("ROOT::RDF::RNode &")
)

// requiredHeaders must be included by every unit.
var requiredHeaders = []string{"ROOT/RDataFrame.hxx", "ROOT/RResultHandle.hxx"}

// parser turns the token stream of a unit into a program.
type parser struct {
	toks    []token
	pos     int
	catalog *operation.Catalog

	prog *program
	// declared maps every declared variable to its identifier family.
	declared map[string]nodeid.Kind
	lambdas  map[string]any
	booked   map[string]bool
	emplaced map[string]bool
}

func newParser(toks []token, catalog *operation.Catalog) *parser {
	return &parser{
		toks:     toks,
		catalog:  catalog,
		prog:     &program{},
		declared: make(map[string]nodeid.Kind),
		lambdas:  make(map[string]any),
		booked:   make(map[string]bool),
		emplaced: make(map[string]bool),
	}
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.tok != scanner.EOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return fmt.Errorf("%s: %s", t.pos, fmt.Sprintf(format, args...))
}

func (p *parser) expect(texts ...string) error {
	for _, want := range texts {
		t := p.next()
		if t.text != want || t.tok == scanner.String {
			return p.errorf(t, "expected %q, found %s", want, t)
		}
	}
	return nil
}

func (p *parser) ident() (token, error) {
	t := p.next()
	if t.tok != scanner.Ident {
		return t, p.errorf(t, "expected identifier, found %s", t)
	}
	return t, nil
}

// parseUnit parses the whole translation unit.
func (p *parser) parseUnit() (*program, error) {
	headers, err := p.parseIncludes()
	if err != nil {
		return nil, err
	}
	for _, h := range requiredHeaders {
		if !headers[h] {
			return nil, p.errorf(p.peek(), "missing #include %q", h)
		}
	}

	if err := p.expect("namespace"); err != nil {
		return nil, err
	}
	ns, err := p.ident()
	if err != nil {
		return nil, err
	}
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	if err := p.parseFunction(ns.text); err != nil {
		return nil, err
	}
	if err := p.expect("}"); err != nil {
		return nil, err
	}
	if t := p.next(); t.tok != scanner.EOF {
		return nil, p.errorf(t, "unexpected %s after namespace", t)
	}
	return p.prog, nil
}

func (p *parser) parseIncludes() (map[string]bool, error) {
	headers := make(map[string]bool)
	for p.peek().text == "#" {
		p.next()
		if err := p.expect("include"); err != nil {
			return nil, err
		}
		t := p.next()
		switch {
		case t.tok == scanner.String:
			h, err := strconv.Unquote(t.text)
			if err != nil {
				return nil, p.errorf(t, "invalid header name %s", t)
			}
			headers[h] = true
		case t.text == "<":
			var b strings.Builder
			for p.peek().text != ">" {
				inner := p.next()
				if inner.tok == scanner.EOF {
					return nil, p.errorf(inner, "unterminated #include")
				}
				b.WriteString(inner.text)
			}
			p.next()
			headers[b.String()] = true
		default:
			return nil, p.errorf(t, "expected header name, found %s", t)
		}
	}
	return headers, nil
}

func (p *parser) parseFunction(ns string) error {
	if err := p.expect(resultVectorType...); err != nil {
		return err
	}
	fn, err := p.ident()
	if err != nil {
		return err
	}
	p.prog.symbol = ns + "::" + fn.text

	if err := p.expect("("); err != nil {
		return err
	}
	if err := p.expect(nodeParamType...); err != nil {
		return err
	}
	head, err := p.declare(nodeid.Dataset)
	if err != nil {
		return err
	}
	p.prog.head = head
	if err := p.expect(")", "{"); err != nil {
		return err
	}

	if err := p.expect(resultVectorType...); err != nil {
		return err
	}
	vec, err := p.ident()
	if err != nil {
		return err
	}
	p.prog.vector = vec.text
	if err := p.expect(";"); err != nil {
		return err
	}

	for p.peek().text != "return" {
		if p.peek().tok == scanner.EOF {
			return p.errorf(p.peek(), "unexpected end of file in function body")
		}
		if err := p.parseStatement(); err != nil {
			return err
		}
	}
	p.next()
	ret, err := p.ident()
	if err != nil {
		return err
	}
	if ret.text != p.prog.vector {
		return p.errorf(ret, "function must return %s, returns %s", p.prog.vector, ret.text)
	}
	for name := range p.booked {
		if !p.emplaced[name] {
			return p.errorf(ret, "result %s is never added to %s", name, p.prog.vector)
		}
	}
	return p.expect(";", "}")
}

// declare reads a new variable name of the given family.
func (p *parser) declare(want nodeid.Kind) (string, error) {
	t, err := p.ident()
	if err != nil {
		return "", err
	}
	id, err := nodeid.Parse(t.text)
	if err != nil {
		return "", p.errorf(t, "%v", err)
	}
	if id.Kind != want {
		return "", p.errorf(t, "unexpected variable %s", t.text)
	}
	if _, dup := p.declared[t.text]; dup {
		return "", p.errorf(t, "redefinition of %s", t.text)
	}
	p.declared[t.text] = id.Kind
	return t.text, nil
}

// use reads a reference to a declared variable of the given family.
func (p *parser) use(want nodeid.Kind) (token, error) {
	t, err := p.ident()
	if err != nil {
		return t, err
	}
	kind, ok := p.declared[t.text]
	if !ok {
		return t, p.errorf(t, "use of undeclared identifier %s", t.text)
	}
	if kind != want {
		return t, p.errorf(t, "%s cannot be used here", t.text)
	}
	return t, nil
}

func (p *parser) parseStatement() error {
	if p.peek().text == "auto" {
		return p.parseDeclaration()
	}

	target, err := p.ident()
	if err != nil {
		return err
	}
	if err := p.expect("."); err != nil {
		return err
	}
	method, err := p.ident()
	if err != nil {
		return err
	}

	switch {
	case target.text == p.prog.vector && method.text == "emplace_back":
		if err := p.expect("("); err != nil {
			return err
		}
		res, err := p.use(nodeid.Result)
		if err != nil {
			return err
		}
		if p.emplaced[res.text] {
			return p.errorf(res, "result %s added twice", res.text)
		}
		p.emplaced[res.text] = true
		p.prog.stmts = append(p.prog.stmts, emplaceStmt(res.text))
		return p.expect(")", ";")

	case p.declared[target.text] == nodeid.Result && p.booked[target.text] && method.text == "GetValue":
		p.prog.stmts = append(p.prog.stmts, getValueStmt(target.text))
		return p.expect("(", ")", ";")

	default:
		return p.errorf(method, "unsupported call %s.%s", target.text, method.text)
	}
}

func (p *parser) parseDeclaration() error {
	p.next()
	nameTok := p.peek()
	id, err := nodeid.Parse(nameTok.text)
	if err != nil {
		return p.errorf(nameTok, "%v", err)
	}
	name, err := p.declare(id.Kind)
	if err != nil {
		return err
	}
	if err := p.expect("="); err != nil {
		return err
	}

	if id.Kind == nodeid.Lambda {
		t := p.peek()
		v, err := p.parseLiteral()
		if err != nil {
			return p.errorf(t, "unsupported closure body: only literal expressions are accepted")
		}
		p.lambdas[name] = v
		return p.expect(";")
	}

	parent, err := p.use(nodeid.Dataset)
	if err != nil {
		return err
	}
	if err := p.expect("."); err != nil {
		return err
	}
	opTok, err := p.ident()
	if err != nil {
		return err
	}
	if err := p.expect("("); err != nil {
		return err
	}
	args, err := p.parseArgs(")")
	if err != nil {
		return err
	}

	st, err := p.link(name, id.Kind, parent.text, opTok.text, args)
	if err != nil {
		return p.errorf(opTok, "%v", err)
	}
	p.prog.stmts = append(p.prog.stmts, st)
	if id.Kind == nodeid.Result {
		p.booked[name] = true
	}
	return p.expect(";")
}

// link resolves an operation call against the catalog and the runtime
// bindings.
func (p *parser) link(target string, kind nodeid.Kind, parent, opName string, args []any) (stmt, error) {
	spec, ok := p.catalog.Lookup(opName)
	if !ok {
		return nil, fmt.Errorf("no member named %q in the dataframe interface", opName)
	}
	if _, err := p.catalog.New(opName, args...); err != nil {
		return nil, err
	}
	switch {
	case kind == nodeid.Dataset && spec.Kind != operation.Transformation:
		return nil, fmt.Errorf("%s returns a result, cannot initialize dataset %s", opName, target)
	case kind == nodeid.Result && !spec.Kind.IsResult():
		return nil, fmt.Errorf("%s returns a dataset, cannot initialize result %s", opName, target)
	}

	bind, ok := bindings[opName]
	if !ok {
		return nil, fmt.Errorf("operation %q has no runtime binding", opName)
	}
	inv, err := bind(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opName, err)
	}
	return callStmt(target, kind, parent, opName, inv), nil
}

// parseArgs parses a comma separated argument list up to and including end.
func (p *parser) parseArgs(end string) ([]any, error) {
	args := []any{}
	if p.peek().text == end {
		p.next()
		return args, nil
	}
	for {
		v, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		args = append(args, v)

		t := p.next()
		switch t.text {
		case ",":
			continue
		case end:
			return args, nil
		default:
			return nil, p.errorf(t, "expected \",\" or %q, found %s", end, t)
		}
	}
}

func (p *parser) parseArg() (any, error) {
	t := p.peek()
	if t.tok == scanner.Ident && t.text != "true" && t.text != "false" {
		ref, err := p.use(nodeid.Lambda)
		if err != nil {
			return nil, err
		}
		return p.lambdas[ref.text], nil
	}
	return p.parseLiteral()
}

func (p *parser) parseLiteral() (any, error) {
	t := p.next()
	switch {
	case t.tok == scanner.String:
		s, err := strconv.Unquote(t.text)
		if err != nil {
			return nil, p.errorf(t, "invalid string literal %s", t.text)
		}
		return s, nil
	case t.tok == scanner.Int:
		return parseInt(p, t, "")
	case t.tok == scanner.Float:
		return parseFloat(p, t, "")
	case t.text == "-":
		n := p.next()
		switch n.tok {
		case scanner.Int:
			return parseInt(p, n, "-")
		case scanner.Float:
			return parseFloat(p, n, "-")
		}
		return nil, p.errorf(n, "expected number after \"-\", found %s", n)
	case t.text == "true" || t.text == "false":
		return t.text == "true", nil
	case t.text == "{":
		elems, err := p.parseArgs("}")
		if err != nil {
			return nil, err
		}
		return operation.Tuple(elems), nil
	default:
		return nil, p.errorf(t, "expected literal, found %s", t)
	}
}

func parseInt(p *parser, t token, sign string) (any, error) {
	v, err := strconv.ParseInt(sign+t.text, 0, 64)
	if err != nil {
		return nil, p.errorf(t, "invalid integer literal %s", t.text)
	}
	return v, nil
}

func parseFloat(p *parser, t token, sign string) (any, error) {
	v, err := strconv.ParseFloat(sign+t.text, 64)
	if err != nil {
		return nil, p.errorf(t, "invalid floating point literal %s", t.text)
	}
	return v, nil
}
