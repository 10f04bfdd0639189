// Package parser is the minimal annotation front end: it turns one line of
// builder-call syntax into expression nodes and binds constant paths
// against the symbol table. It is deliberately not a general language
// parser; the expression shapes it can produce form the closed set the
// resolver consumes.
package parser

import (
	"strconv"
	"strings"

	"sigil/internal/ast"
	"sigil/internal/diag"
	"sigil/internal/source"
	"sigil/internal/symbols"
)

type Parser struct {
	table    *symbols.Table
	builder  *ast.Builder
	reporter diag.Reporter

	sc  *scanner
	tok token
	bad bool
}

// New binds a parser to its collaborators. The builder accumulates nodes
// across ParseExpression calls.
func New(table *symbols.Table, builder *ast.Builder, reporter diag.Reporter) *Parser {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Parser{table: table, builder: builder, reporter: reporter}
}

// ParseExpression parses one annotation line. On failure it reports a
// syntax diagnostic and returns NoExprID; the caller skips the line.
func (p *Parser) ParseExpression(ref FileRef, line []byte) ast.ExprID {
	p.sc = newScanner(ref, line)
	p.bad = false
	p.advance()
	if p.tok.Kind == tokEOF {
		return ast.NoExprID
	}
	expr := p.parseExpr()
	if p.bad {
		return ast.NoExprID
	}
	if p.tok.Kind != tokEOF {
		p.errorf(p.tok.Span, "unexpected %s after expression", p.tok.Kind)
		return ast.NoExprID
	}
	return expr
}

func (p *Parser) advance() {
	p.tok = p.sc.next()
	if p.tok.Kind == tokInvalid {
		p.errorf(p.tok.Span, "unexpected input: %s", p.tok.Text)
	}
}

func (p *Parser) errorf(span source.Span, format string, args ...any) {
	if !p.bad {
		diag.Errorf(p.reporter, diag.SynUnexpectedToken, span, format, args...)
	}
	p.bad = true
}

func (p *Parser) expect(kind tokenKind) token {
	tok := p.tok
	if tok.Kind != kind {
		p.errorf(tok.Span, "expected %s, got %s", kind, tok.Kind)
		return tok
	}
	p.advance()
	return tok
}

func (p *Parser) parseExpr() ast.ExprID {
	expr := p.parsePrimary()
	return p.parsePostfix(expr)
}

func (p *Parser) parsePrimary() ast.ExprID {
	tok := p.tok
	switch tok.Kind {
	case tokLBracket:
		return p.parseArray()
	case tokInt:
		p.advance()
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			p.errorf(tok.Span, "malformed integer literal %s", tok.Text)
			return ast.NoExprID
		}
		return p.builder.Exprs.NewInt(tok.Span, v)
	case tokFloat:
		p.advance()
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			p.errorf(tok.Span, "malformed float literal %s", tok.Text)
			return ast.NoExprID
		}
		return p.builder.Exprs.NewFloat(tok.Span, v)
	case tokString:
		p.advance()
		return p.builder.Exprs.NewString(tok.Span, p.table.Strings.Intern(tok.Text))
	case tokSymbol:
		p.advance()
		return p.builder.Exprs.NewSymbolLit(tok.Span, p.table.Strings.Intern(tok.Text))
	case tokIdent:
		switch tok.Text {
		case "self":
			p.advance()
			return p.builder.Exprs.NewSelf(tok.Span)
		case "true", "false":
			p.advance()
			return p.builder.Exprs.NewBool(tok.Span, tok.Text == "true")
		}
		if isConstantName(tok.Text) {
			return p.parsePath()
		}
		// A lowercase head is a builder call on the implicit self
		// receiver (`sig(...)` and friends).
		p.advance()
		recv := p.builder.Exprs.NewImplicitSelf(tok.Span)
		args, span := p.parseCallArgs(tok.Span)
		return p.builder.Exprs.NewCall(span, p.table.Strings.Intern(tok.Text), recv, args)
	default:
		p.errorf(tok.Span, "expected a type expression, got %s", tok.Kind)
		return ast.NoExprID
	}
}

func (p *Parser) parseArray() ast.ExprID {
	open := p.expect(tokLBracket)
	var elems []ast.ExprID
	if p.tok.Kind != tokRBracket {
		for {
			elems = append(elems, p.parseExpr())
			if p.bad {
				return ast.NoExprID
			}
			if p.tok.Kind == tokComma {
				p.advance()
				continue
			}
			break
		}
	}
	span := open.Span.Cover(p.tok.Span)
	p.expect(tokRBracket)
	return p.builder.Exprs.NewArray(span, elems)
}

// parsePath consumes A::B::C and binds it stepwise from the root
// namespace. Unresolved segments produce an unbound identifier the
// resolver diagnoses in type position.
func (p *Parser) parsePath() ast.ExprID {
	first := p.expect(tokIdent)
	span := first.Span
	text := first.Text
	sym, bound := p.table.Child(p.table.Root(), first.Text)
	for p.tok.Kind == tokColonColon {
		p.advance()
		seg := p.expect(tokIdent)
		if p.bad {
			return ast.NoExprID
		}
		span = span.Cover(seg.Span)
		text += "::" + seg.Text
		if bound {
			sym, bound = p.table.Child(sym, seg.Text)
		}
	}
	if !bound {
		sym = symbols.NoSymbolID
	}
	return p.builder.Exprs.NewIdent(span, p.table.Strings.Intern(text), sym)
}

func (p *Parser) parsePostfix(expr ast.ExprID) ast.ExprID {
	for !p.bad {
		switch p.tok.Kind {
		case tokDot:
			p.advance()
			name := p.expect(tokIdent)
			if p.bad {
				return ast.NoExprID
			}
			args, span := p.parseCallArgs(name.Span)
			expr = p.builder.Exprs.NewCall(span, p.table.Strings.Intern(name.Text), expr, args)
		case tokLBracket:
			open := p.tok
			p.advance()
			args, span := p.parseArgList(tokRBracket, open.Span)
			expr = p.builder.Exprs.NewCall(span, p.table.Strings.Intern("[]"), expr, args)
		default:
			return expr
		}
	}
	return ast.NoExprID
}

// parseCallArgs consumes an optional parenthesized argument list.
func (p *Parser) parseCallArgs(nameSpan source.Span) ([]ast.ExprID, source.Span) {
	if p.tok.Kind != tokLParen {
		return nil, nameSpan
	}
	p.advance()
	return p.parseArgList(tokRParen, nameSpan)
}

// parseArgList consumes expressions up to the closing delimiter. A
// `name: Type` head switches to mapping mode, producing one mapping
// literal argument.
func (p *Parser) parseArgList(closing tokenKind, openSpan source.Span) ([]ast.ExprID, source.Span) {
	if p.tok.Kind == closing {
		span := openSpan.Cover(p.tok.Span)
		p.advance()
		return nil, span
	}
	if p.tok.Kind == tokIdent && !isConstantName(p.tok.Text) && p.peekIsColon() {
		return p.parseMappingArg(closing, openSpan)
	}
	var args []ast.ExprID
	for {
		args = append(args, p.parseExpr())
		if p.bad {
			return nil, openSpan
		}
		if p.tok.Kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	span := openSpan.Cover(p.tok.Span)
	p.expect(closing)
	return args, span
}

func (p *Parser) parseMappingArg(closing tokenKind, openSpan source.Span) ([]ast.ExprID, source.Span) {
	var entries []ast.MappingEntry
	mappingSpan := p.tok.Span
	for {
		name := p.expect(tokIdent)
		p.expect(tokColon)
		if p.bad {
			return nil, openSpan
		}
		key := p.builder.Exprs.NewSymbolLit(name.Span, p.table.Strings.Intern(name.Text))
		value := p.parseExpr()
		if p.bad {
			return nil, openSpan
		}
		entries = append(entries, ast.MappingEntry{Key: key, Value: value})
		mappingSpan = mappingSpan.Cover(p.builder.Exprs.Get(value).Span)
		if p.tok.Kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	mapping := p.builder.Exprs.NewMapping(mappingSpan, entries)
	span := openSpan.Cover(p.tok.Span)
	p.expect(closing)
	return []ast.ExprID{mapping}, span
}

// peekIsColon checks for the `name:` mapping-key shape without consuming.
func (p *Parser) peekIsColon() bool {
	save := *p.sc
	next := p.sc.next()
	*p.sc = save
	return next.Kind == tokColon
}

func isConstantName(name string) bool {
	r := name[0]
	return r >= 'A' && r <= 'Z' || strings.HasPrefix(name, "_")
}
