package ingest

import (
	"strconv"
	"strings"

	"github.com/kvsearch/ftidx/core/ftindex"
	"github.com/kvsearch/ftidx/core/ftindex/errs"
)

// ExprEvaluator evaluates the IF predicate an indexing call can attach to
// a submit, e.g. "price > 10 && status == \"active\"". It never mutates
// anything and never calls into indexing; a failure at any stage (parse,
// lookup-build, load) is returned without partial effect.
// No dependency in this codebase's corpus covers boolean-expression
// evaluation over typed key/value pairs, so this is a small hand-rolled
// recursive-descent parser rather than an adopted third-party evaluator.
type ExprEvaluator struct {
	spec *ftindex.IndexSpec
}

// NewExprEvaluator binds an evaluator to spec, whose sort vectors are the
// lookup source for field values referenced by an expression.
func NewExprEvaluator(spec *ftindex.IndexSpec) *ExprEvaluator {
	return &ExprEvaluator{spec: spec}
}

// Eval parses expr, resolves every field it references against doc's
// stored metadata, and returns the boolean result.
func (e *ExprEvaluator) Eval(docKey, expr string) (bool, error) {
	toks, err := tokenizeExpr(expr)
	if err != nil {
		return false, errs.Wrap(errs.CodeGeneric, err)
	}

	id, ok := e.spec.Meta.ResolveKey(docKey)
	if !ok {
		return false, errs.New(errs.CodeGeneric, "IF predicate: no such document: "+docKey)
	}
	md := e.spec.Meta.GetByID(id)
	if md == nil {
		return false, errs.New(errs.CodeGeneric, "IF predicate: metadata missing for: "+docKey)
	}

	p := &exprParser{toks: toks}
	result, err := p.parseOr(func(name string) (string, bool) {
		fs, ok := e.spec.FieldByName(name)
		if !ok || md.SortVector == nil {
			return "", false
		}
		v, set := md.SortVector.Get(fs.SortIdx)
		if !set {
			return "", false
		}
		if v.Type == ftindex.SortValueNumeric {
			return strconv.FormatFloat(v.Num, 'f', -1, 64), true
		}
		return string(v.Str), true
	})
	if err != nil {
		return false, errs.Wrap(errs.CodeGeneric, err)
	}
	if !p.atEnd() {
		return false, errs.New(errs.CodeGeneric, "IF predicate: unexpected trailing tokens")
	}
	return result, nil
}

type lookupFunc func(name string) (string, bool)

type exprToken struct {
	kind string // "ident", "num", "str", "op", "lparen", "rparen"
	text string
}

func tokenizeExpr(expr string) ([]exprToken, error) {
	var toks []exprToken
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(':
			toks = append(toks, exprToken{"lparen", "("})
			i++
		case c == ')':
			toks = append(toks, exprToken{"rparen", ")"})
			i++
		case c == '"':
			j := i + 1
			for j < len(expr) && expr[j] != '"' {
				j++
			}
			if j >= len(expr) {
				return nil, errs.New(errs.CodeGeneric, "unterminated string literal in expression")
			}
			toks = append(toks, exprToken{"str", expr[i+1 : j]})
			i = j + 1
		case strings.ContainsRune("&|=!<>", rune(c)):
			j := i + 1
			for j < len(expr) && strings.ContainsRune("&|=!<>", rune(expr[j])) {
				j++
			}
			toks = append(toks, exprToken{"op", expr[i:j]})
			i = j
		case isIdentStart(c) || isDigit(c):
			j := i + 1
			for j < len(expr) && (isIdentStart(expr[j]) || isDigit(expr[j]) || expr[j] == '.') {
				j++
			}
			kind := "ident"
			if isDigit(c) {
				kind = "num"
			}
			toks = append(toks, exprToken{kind, expr[i:j]})
			i = j
		default:
			return nil, errs.New(errs.CodeGeneric, "unexpected character in expression: "+string(c))
		}
	}
	return toks, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

type exprParser struct {
	toks []exprToken
	pos  int
}

func (p *exprParser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *exprParser) peek() (exprToken, bool) {
	if p.atEnd() {
		return exprToken{}, false
	}
	return p.toks[p.pos], true
}

func (p *exprParser) next() (exprToken, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

func (p *exprParser) parseOr(lookup lookupFunc) (bool, error) {
	left, err := p.parseAnd(lookup)
	if err != nil {
		return false, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != "op" || t.text != "||" {
			return left, nil
		}
		p.next()
		right, err := p.parseAnd(lookup)
		if err != nil {
			return false, err
		}
		left = left || right
	}
}

func (p *exprParser) parseAnd(lookup lookupFunc) (bool, error) {
	left, err := p.parseCmp(lookup)
	if err != nil {
		return false, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != "op" || t.text != "&&" {
			return left, nil
		}
		p.next()
		right, err := p.parseCmp(lookup)
		if err != nil {
			return false, err
		}
		left = left && right
	}
}

func (p *exprParser) parseCmp(lookup lookupFunc) (bool, error) {
	if t, ok := p.peek(); ok && t.kind == "lparen" {
		p.next()
		result, err := p.parseOr(lookup)
		if err != nil {
			return false, err
		}
		closeTok, ok := p.next()
		if !ok || closeTok.kind != "rparen" {
			return false, errs.New(errs.CodeGeneric, "IF predicate: expected closing paren")
		}
		return result, nil
	}

	lhsTok, ok := p.next()
	if !ok || lhsTok.kind != "ident" {
		return false, errs.New(errs.CodeGeneric, "IF predicate: expected field name")
	}
	lhsVal, set := lookup(lhsTok.text)

	opTok, ok := p.next()
	if !ok || opTok.kind != "op" {
		return false, errs.New(errs.CodeGeneric, "IF predicate: expected comparison operator")
	}

	rhsTok, ok := p.next()
	if !ok {
		return false, errs.New(errs.CodeGeneric, "IF predicate: expected comparison value")
	}

	var rhsVal string
	switch rhsTok.kind {
	case "ident":
		rhsVal, _ = lookup(rhsTok.text)
	case "num", "str":
		rhsVal = rhsTok.text
	default:
		return false, errs.New(errs.CodeGeneric, "IF predicate: unexpected value token")
	}

	return compare(lhsVal, set, rhsVal, opTok.text)
}

func compare(lhs string, lhsSet bool, rhs, op string) (bool, error) {
	if !lhsSet {
		return op == "!=", nil
	}

	if lf, lerr := strconv.ParseFloat(lhs, 64); lerr == nil {
		if rf, rerr := strconv.ParseFloat(rhs, 64); rerr == nil {
			switch op {
			case "==":
				return lf == rf, nil
			case "!=":
				return lf != rf, nil
			case ">":
				return lf > rf, nil
			case ">=":
				return lf >= rf, nil
			case "<":
				return lf < rf, nil
			case "<=":
				return lf <= rf, nil
			}
		}
	}

	switch op {
	case "==":
		return lhs == rhs, nil
	case "!=":
		return lhs != rhs, nil
	default:
		return false, errs.New(errs.CodeGeneric, "IF predicate: operator "+op+" requires numeric operands")
	}
}
