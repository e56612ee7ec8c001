// Package parser implements the docql grammar: a recursive-descent parser
// that walks tokens into the ast.Statement model.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/documentql/docql/ast"
	docsql "github.com/documentql/docql/sql"
	"github.com/documentql/docql/token"

	"github.com/documentql/docql/lexer"
)

// Parser builds one ast.Statement from a token stream.
type Parser struct {
	lex *lexer.Lexer
	cur token.Item
}

// Parse parses a single statement out of text. A parse failure reports its
// source offset and the caller treats it as an ErrParse.
func Parse(text string) (ast.Statement, error) {
	p := &Parser{lex: lexer.New(text)}
	p.advance()
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != token.EOF {
		return nil, docsql.NewParseError(p.cur.Offset, fmt.Sprintf("unexpected token %q", p.cur.Value))
	}
	return stmt, nil
}

func (p *Parser) advance() { p.cur = p.lex.Next() }

func (p *Parser) expect(t token.Token) (token.Item, error) {
	if p.cur.Type != t {
		return token.Item{}, docsql.NewParseError(p.cur.Offset, fmt.Sprintf("expected %s, got %s %q", t, p.cur.Type, p.cur.Value))
	}
	item := p.cur
	p.advance()
	return item, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur.Type {
	case token.SELECT:
		return p.parseSelect()
	case token.INSERT:
		return p.parseInsert()
	case token.UPDATE:
		return p.parseUpdate()
	case token.DELETE:
		return p.parseDelete()
	default:
		return nil, docsql.NewParseError(p.cur.Offset, fmt.Sprintf("expected SELECT, INSERT, UPDATE or DELETE, got %q", p.cur.Value))
	}
}

// --- SELECT ---

func (p *Parser) parseSelect() (*ast.Select, error) {
	if _, err := p.expect(token.SELECT); err != nil {
		return nil, err
	}
	cols, err := p.parseColumnList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.FROM); err != nil {
		return nil, err
	}
	first, err := p.parseFromSpec()
	if err != nil {
		return nil, err
	}
	sel := &ast.Select{Columns: cols}
	if p.cur.Type == token.JOIN {
		p.advance()
		right, err := p.parseFromSpec()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.ON); err != nil {
			return nil, err
		}
		onExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		on, ok := onExpr.(*ast.BinaryExpr)
		if !ok || on.Op != ast.OpEq {
			return nil, docsql.NewParseError(p.cur.Offset, "JOIN ... ON requires a single column equality")
		}
		sel.Join = &ast.JoinExpr{Left: first, Right: right, On: on}
	} else {
		froms := []ast.FromSpec{first}
		for p.cur.Type == token.COMMA {
			p.advance()
			f, err := p.parseFromSpec()
			if err != nil {
				return nil, err
			}
			froms = append(froms, f)
		}
		sel.Froms = froms
	}
	// A select-list qualifier that names no FROM collection or alias is the
	// first segment of a dotted field path, not a table.
	fromSpecs := sel.Froms
	if sel.Join != nil {
		fromSpecs = []ast.FromSpec{sel.Join.Left, sel.Join.Right}
	}
	known := map[string]bool{}
	for _, f := range fromSpecs {
		known[f.Collection], known[f.ResolvedAlias()] = true, true
	}
	for i, c := range sel.Columns {
		if c.Table != "" && c.Column != "*" && !known[c.Table] {
			sel.Columns[i] = ast.ColRef{Column: c.Table + "." + c.Column, Agg: c.Agg}
		}
	}
	if p.cur.Type == token.WHERE {
		p.advance()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		sel.Where = where
	}
	return sel, nil
}

func (p *Parser) parseColumnList() ([]ast.ColRef, error) {
	var cols []ast.ColRef
	for {
		c, err := p.parseColRef()
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
		if p.cur.Type != token.COMMA {
			break
		}
		p.advance()
	}
	return cols, nil
}

// parseColRef parses `*`, `[ident "."] ident`, dotted paths, or an
// aggregation prefix `AGG ( col )`.
func (p *Parser) parseColRef() (ast.ColRef, error) {
	if agg, ok := aggFor(p.cur.Type); ok {
		p.advance()
		if _, err := p.expect(token.LPAREN); err != nil {
			return ast.ColRef{}, err
		}
		inner, err := p.parseColRef()
		if err != nil {
			return ast.ColRef{}, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return ast.ColRef{}, err
		}
		inner.Agg = agg
		return inner, nil
	}
	if p.cur.Type == token.STAR {
		p.advance()
		return ast.ColRef{Column: "*"}, nil
	}
	return p.parseQualifiedIdent()
}

func aggFor(t token.Token) (ast.AggFunc, bool) {
	switch t {
	case token.COUNT:
		return ast.AggCount, true
	case token.SUM:
		return ast.AggSum, true
	case token.AVG:
		return ast.AggAvg, true
	case token.MIN:
		return ast.AggMin, true
	case token.MAX:
		return ast.AggMax, true
	default:
		return ast.AggNone, false
	}
}

// parseQualifiedIdent parses `ident` or `ident.ident(.ident)*`, or `ident.*`.
// With more than one segment the first is read as the table qualifier and
// the rest, joined with dots, as the column. parseSelect re-reads a
// select-list column whose qualifier names no FROM collection or alias as
// a dotted path; column references in WHERE, SET and INSERT are not
// re-read.
func (p *Parser) parseQualifiedIdent() (ast.ColRef, error) {
	first, err := p.identLike()
	if err != nil {
		return ast.ColRef{}, err
	}
	if p.cur.Type != token.DOT {
		return ast.ColRef{Column: first}, nil
	}
	p.advance()
	if p.cur.Type == token.STAR {
		p.advance()
		return ast.ColRef{Table: first, Column: "*"}, nil
	}
	rest, err := p.identLike()
	if err != nil {
		return ast.ColRef{}, err
	}
	path := []string{rest}
	for p.cur.Type == token.DOT {
		p.advance()
		seg, err := p.identLike()
		if err != nil {
			return ast.ColRef{}, err
		}
		path = append(path, seg)
	}
	return ast.ColRef{Table: first, Column: strings.Join(path, ".")}, nil
}

// identLike accepts an IDENT token only; keyword spellings are not accepted
// as identifiers. docid needs no special case, since the lexer scans it as
// an ordinary identifier.
func (p *Parser) identLike() (string, error) {
	if p.cur.Type != token.IDENT {
		return "", docsql.NewParseError(p.cur.Offset, fmt.Sprintf("expected identifier, got %q", p.cur.Value))
	}
	v := p.cur.Value
	p.advance()
	return v, nil
}

func (p *Parser) parseFromSpec() (ast.FromSpec, error) {
	coll, err := p.identLike()
	if err != nil {
		return ast.FromSpec{}, err
	}
	f := ast.FromSpec{Collection: coll}
	if p.cur.Type == token.IDENT {
		f.Alias = p.cur.Value
		p.advance()
	}
	return f, nil
}

// --- WHERE expr ---
//
// expr := orExpr
// orExpr := andExpr (OR andExpr)*
// andExpr := leaf (AND leaf)*
// leaf := comparison | in | notIn | like | notLike | arrayContains |
//         arrayContainsAny | isNull | isNotNull
//
// AND/OR fold left-leaning.

func (p *Parser) parseExpr() (ast.Expr, error) { return p.parseOr() }

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == token.OR {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: ast.OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseLeaf()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == token.AND {
		p.advance()
		right, err := p.parseLeaf()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: ast.OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseLeaf() (ast.Expr, error) {
	if p.cur.Type == token.LPAREN {
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	}
	col, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	switch p.cur.Type {
	case token.IS:
		p.advance()
		negate := false
		if p.cur.Type == token.NOT {
			negate = true
			p.advance()
		}
		if _, err := p.expect(token.NULL); err != nil {
			return nil, err
		}
		// IS NULL lowers to == null, IS NOT NULL to != "".
		if negate {
			return &ast.BinaryExpr{Op: ast.OpNeq, Left: &col, Right: &ast.Literal{Value: docsql.StringValue("")}}, nil
		}
		return &ast.BinaryExpr{Op: ast.OpEq, Left: &col, Right: &ast.Literal{Value: docsql.Null()}}, nil
	case token.LIKE:
		p.advance()
		lit, err := p.parseStringLiteral()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: ast.OpLike, Left: &col, Right: lit}, nil
	case token.NOT:
		p.advance()
		switch p.cur.Type {
		case token.LIKE:
			p.advance()
			lit, err := p.parseStringLiteral()
			if err != nil {
				return nil, err
			}
			return &ast.BinaryExpr{Op: ast.OpNotLike, Left: &col, Right: lit}, nil
		case token.IN:
			p.advance()
			lit, err := p.parseLiteralList()
			if err != nil {
				return nil, err
			}
			return &ast.BinaryExpr{Op: ast.OpNotIn, Left: &col, Right: lit}, nil
		default:
			return nil, docsql.NewParseError(p.cur.Offset, "expected LIKE or IN after NOT")
		}
	case token.IN:
		p.advance()
		lit, err := p.parseLiteralList()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: ast.OpIn, Left: &col, Right: lit}, nil
	case token.ARRAY_CONTAINS:
		p.advance()
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: ast.OpArrayContains, Left: &col, Right: lit}, nil
	case token.ARRAY_CONTAINS_ANY:
		p.advance()
		lit, err := p.parseLiteralList()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: ast.OpArrayContainsAny, Left: &col, Right: lit}, nil
	default:
		op, err := p.parseCompareOp()
		if err != nil {
			return nil, err
		}
		rhs, err := p.parseRHS()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: op, Left: &col, Right: rhs}, nil
	}
}

func (p *Parser) parseCompareOp() (ast.BinaryOp, error) {
	switch p.cur.Type {
	case token.EQ:
		p.advance()
		return ast.OpEq, nil
	case token.NEQ:
		p.advance()
		return ast.OpNeq, nil
	case token.GT:
		p.advance()
		return ast.OpGt, nil
	case token.LT:
		p.advance()
		return ast.OpLt, nil
	case token.GTE:
		p.advance()
		return ast.OpGte, nil
	case token.LTE:
		p.advance()
		return ast.OpLte, nil
	default:
		return "", docsql.NewParseError(p.cur.Offset, fmt.Sprintf("expected comparison operator, got %q", p.cur.Value))
	}
}

// parseRHS parses a literal, or (for JOIN ... ON) a qualified column
// reference. The two forms never share a leading token: literals start
// with STRING/NUMBER/TRUE/FALSE/NULL, columns with IDENT.
func (p *Parser) parseRHS() (ast.Expr, error) {
	if p.cur.Type == token.IDENT {
		col, err := p.parseQualifiedIdent()
		if err != nil {
			return nil, err
		}
		return &col, nil
	}
	return p.parseLiteral()
}

func (p *Parser) parseLiteral() (*ast.Literal, error) {
	switch p.cur.Type {
	case token.STRING:
		v := docsql.StringLiteral(p.cur.Value)
		p.advance()
		return &ast.Literal{Value: v}, nil
	case token.NUMBER:
		n, err := strconv.ParseFloat(p.cur.Value, 64)
		if err != nil {
			return nil, docsql.NewParseError(p.cur.Offset, fmt.Sprintf("invalid number %q", p.cur.Value))
		}
		p.advance()
		return &ast.Literal{Value: docsql.NumberValue(n)}, nil
	case token.TRUE:
		p.advance()
		return &ast.Literal{Value: docsql.BoolValue(true)}, nil
	case token.FALSE:
		p.advance()
		return &ast.Literal{Value: docsql.BoolValue(false)}, nil
	case token.NULL:
		p.advance()
		return &ast.Literal{Value: docsql.Null()}, nil
	default:
		return nil, docsql.NewParseError(p.cur.Offset, fmt.Sprintf("expected literal, got %q", p.cur.Value))
	}
}

func (p *Parser) parseStringLiteral() (*ast.Literal, error) {
	if p.cur.Type != token.STRING {
		return nil, docsql.NewParseError(p.cur.Offset, "expected string literal")
	}
	return p.parseLiteral()
}

func (p *Parser) parseLiteralList() (*ast.Literal, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var vals []docsql.Value
	for {
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		vals = append(vals, lit.Value)
		if p.cur.Type != token.COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.Literal{Value: docsql.ListValue(vals)}, nil
}

// --- INSERT ---

func (p *Parser) parseInsert() (*ast.Insert, error) {
	if _, err := p.expect(token.INSERT); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.INTO); err != nil {
		return nil, err
	}
	table, err := p.parseFromSpec()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cols, err := p.parseColumnList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.VALUES); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var values []ast.Literal
	for {
		lit, err := p.parseInsertValue()
		if err != nil {
			return nil, err
		}
		values = append(values, *lit)
		if p.cur.Type != token.COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.Insert{Table: table, Columns: cols, Values: values}, nil
}

// parseInsertValue accepts a plain literal, or a parenthesized literal list
// for a list-valued column. The `(*) VALUES (<mapping>)` insert form has
// no literal syntax here (sql.KindMap values are built directly on the
// ast by a library caller, not by this parser).
func (p *Parser) parseInsertValue() (*ast.Literal, error) {
	if p.cur.Type == token.LPAREN {
		return p.parseLiteralList()
	}
	return p.parseLiteral()
}

// --- UPDATE ---

func (p *Parser) parseUpdate() (*ast.Update, error) {
	if _, err := p.expect(token.UPDATE); err != nil {
		return nil, err
	}
	table, err := p.parseFromSpec()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SET); err != nil {
		return nil, err
	}
	var sets []ast.Assignment
	for {
		col, err := p.parseQualifiedIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.EQ); err != nil {
			return nil, err
		}
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		sets = append(sets, ast.Assignment{Column: col, Value: *lit})
		if p.cur.Type != token.COMMA {
			break
		}
		p.advance()
	}
	upd := &ast.Update{Table: table, Sets: sets}
	if p.cur.Type == token.WHERE {
		p.advance()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		upd.Where = where
	}
	return upd, nil
}

// --- DELETE ---

func (p *Parser) parseDelete() (*ast.Delete, error) {
	if _, err := p.expect(token.DELETE); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.FROM); err != nil {
		return nil, err
	}
	table, err := p.parseFromSpec()
	if err != nil {
		return nil, err
	}
	del := &ast.Delete{Table: table}
	if p.cur.Type == token.WHERE {
		p.advance()
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		del.Where = where
	}
	return del, nil
}
