// Package parser implements a minimal recursive-descent front end: just
// enough syntax to turn source text into ast.Node statements so cmd/fang
// is a runnable end-to-end CLI. It covers let/fn/struct/trait/impl/return,
// calls (including dotted), arithmetic, literals, and object literals.
package parser

import (
	"fmt"

	"github.com/tascord/fang/internal/ast"
	"github.com/tascord/fang/internal/diagnostics"
	"github.com/tascord/fang/internal/lexer"
)

// Parser consumes a token stream produced by lexer.Lexer and builds
// ast.Node trees.
type Parser struct {
	l         *lexer.Lexer
	cur, peek lexer.Token
	scopeName string
}

// New creates a Parser reading from l. scopeName names the enclosing
// scope for diagnostics raised while parsing (normally "global").
func New(l *lexer.Lexer, scopeName string) *Parser {
	p := &Parser{l: l, scopeName: scopeName}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) span() ast.Span {
	return ast.Span{
		LineText:  p.cur.LineText,
		LineStart: p.cur.Line,
		LineEnd:   p.cur.Line,
		ColStart:  p.cur.ColStart + 1,
		ColEnd:    p.cur.ColEnd + 1,
	}
}

func tokenName(t lexer.Token) string {
	if t.Type == lexer.EOF {
		return "end of input"
	}
	if t.Literal != "" {
		return t.Literal
	}
	return fmt.Sprintf("token %d", t.Type)
}

func (p *Parser) expect(t lexer.TokenType, expected string) (lexer.Token, error) {
	if p.cur.Type != t {
		return lexer.Token{}, diagnostics.NewUnexpectedToken(expected, tokenName(p.cur), p.scopeName, p.span())
	}
	tok := p.cur
	p.next()
	return tok, nil
}

// Program parses a whole source file into a flat statement list.
func (p *Parser) Program() ([]*ast.Node, error) {
	var stmts []*ast.Node
	for p.cur.Type != lexer.EOF {
		n, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, n)
	}
	return stmts, nil
}

func (p *Parser) statement() (*ast.Node, error) {
	switch p.cur.Type {
	case lexer.LET:
		return p.letDecl()
	case lexer.FN:
		return p.fnDecl()
	case lexer.STRUCT:
		return p.structDecl()
	case lexer.TRAIT:
		return p.traitDecl()
	case lexer.IMPL:
		return p.implDecl()
	case lexer.RETURN:
		return p.returnStmt()
	case lexer.IDENT:
		if p.peek.Type == lexer.ASSIGN {
			return p.assignment()
		}
		return p.exprStatement()
	default:
		return p.exprStatement()
	}
}

func (p *Parser) exprStatement() (*ast.Node, error) {
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.cur.Type == lexer.SEMI {
		p.next()
	}
	return n, nil
}

func (p *Parser) letDecl() (*ast.Node, error) {
	span := p.span()
	p.next() // 'let'
	name, err := p.expect(lexer.IDENT, "identifier")
	if err != nil {
		return nil, err
	}
	var varType *string
	if p.cur.Type == lexer.COLON {
		p.next()
		t, err := p.expect(lexer.IDENT, "type")
		if err != nil {
			return nil, err
		}
		lit := t.Literal
		varType = &lit
	}
	if _, err := p.expect(lexer.ASSIGN, "="); err != nil {
		return nil, err
	}
	rhs, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.cur.Type == lexer.SEMI {
		p.next()
	}
	return ast.Declaration(name.Literal, varType, rhs, span), nil
}

func (p *Parser) assignment() (*ast.Node, error) {
	span := p.span()
	name := p.cur.Literal
	p.next()
	if _, err := p.expect(lexer.ASSIGN, "="); err != nil {
		return nil, err
	}
	rhs, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.cur.Type == lexer.SEMI {
		p.next()
	}
	return ast.Assignment(name, rhs, span), nil
}

func (p *Parser) returnStmt() (*ast.Node, error) {
	span := p.span()
	p.next() // 'return'
	val, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.cur.Type == lexer.SEMI {
		p.next()
	}
	return ast.Return(val, span), nil
}

func (p *Parser) params() ([]*ast.Node, error) {
	if _, err := p.expect(lexer.LPAREN, "("); err != nil {
		return nil, err
	}
	var params []*ast.Node
	for p.cur.Type != lexer.RPAREN {
		if p.cur.Type == lexer.SELF {
			params = append(params, ast.SelfRef(p.span()))
			p.next()
		} else {
			pspan := p.span()
			name, err := p.expect(lexer.IDENT, "parameter name")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.COLON, ":"); err != nil {
				return nil, err
			}
			t, err := p.expect(lexer.IDENT, "type")
			if err != nil {
				return nil, err
			}
			params = append(params, ast.TypedVariable(t.Literal, name.Literal, pspan))
		}
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	if _, err := p.expect(lexer.RPAREN, ")"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) optReturnType() (*string, error) {
	if p.cur.Type != lexer.ARROW {
		return nil, nil
	}
	p.next()
	t, err := p.expect(lexer.IDENT, "type")
	if err != nil {
		return nil, err
	}
	lit := t.Literal
	return &lit, nil
}

func (p *Parser) block() ([]*ast.Node, error) {
	if _, err := p.expect(lexer.LBRACE, "{"); err != nil {
		return nil, err
	}
	var stmts []*ast.Node
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		n, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, n)
	}
	if _, err := p.expect(lexer.RBRACE, "}"); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) fnDecl() (*ast.Node, error) {
	span := p.span()
	p.next() // 'fn'
	name, err := p.expect(lexer.IDENT, "function name")
	if err != nil {
		return nil, err
	}
	args, err := p.params()
	if err != nil {
		return nil, err
	}
	returnType, err := p.optReturnType()
	if err != nil {
		return nil, err
	}
	if p.cur.Type == lexer.SEMI {
		// FunctionOutline: a trait member with no default body.
		p.next()
		return ast.FunctionOutline(name.Literal, args, returnType, span), nil
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.Function(name.Literal, args, body, returnType, span), nil
}

func (p *Parser) structDecl() (*ast.Node, error) {
	span := p.span()
	p.next() // 'struct'
	name, err := p.expect(lexer.IDENT, "struct name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACE, "{"); err != nil {
		return nil, err
	}
	var fields []*ast.Node
	for p.cur.Type != lexer.RBRACE {
		fspan := p.span()
		fname, err := p.expect(lexer.IDENT, "field name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON, ":"); err != nil {
			return nil, err
		}
		ftype, err := p.expect(lexer.IDENT, "type")
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.TypedVariable(ftype.Literal, fname.Literal, fspan))
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	if _, err := p.expect(lexer.RBRACE, "}"); err != nil {
		return nil, err
	}
	return ast.Struct(name.Literal, fields, span), nil
}

func (p *Parser) traitDecl() (*ast.Node, error) {
	span := p.span()
	p.next() // 'trait'
	name, err := p.expect(lexer.IDENT, "trait name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACE, "{"); err != nil {
		return nil, err
	}
	var members []*ast.Node
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		m, err := p.fnDecl()
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if _, err := p.expect(lexer.RBRACE, "}"); err != nil {
		return nil, err
	}
	return ast.Trait(name.Literal, members, span), nil
}

func (p *Parser) implDecl() (*ast.Node, error) {
	span := p.span()
	p.next() // 'impl'
	trait, err := p.expect(lexer.IDENT, "trait name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.FOR, "for"); err != nil {
		return nil, err
	}
	typeName, err := p.expect(lexer.IDENT, "type name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACE, "{"); err != nil {
		return nil, err
	}
	var methods []*ast.Node
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		m, err := p.fnDecl()
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	if _, err := p.expect(lexer.RBRACE, "}"); err != nil {
		return nil, err
	}
	return ast.TraitImpl(trait.Literal, typeName.Literal, methods, span), nil
}

// --- expressions --------------------------------------------------------
//
// Expr := Term (('+'|'-') Term)*
// Term := Factor (('*'|'/') Factor)*
// Factor := INT | FLOAT | STRING | TRUE | FALSE
//         | IDENT ('.' IDENT)* (Call)?
//         | '(' Expr ')'
//         | ObjectLiteral

func (p *Parser) expr() (*ast.Node, error) {
	lhs, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == lexer.PLUS || p.cur.Type == lexer.MINUS {
		span := p.span()
		kind := ast.KindAdd
		if p.cur.Type == lexer.MINUS {
			kind = ast.KindSub
		}
		p.next()
		rhs, err := p.term()
		if err != nil {
			return nil, err
		}
		lhs = ast.BinOp(kind, lhs, rhs, span)
	}
	return lhs, nil
}

func (p *Parser) term() (*ast.Node, error) {
	lhs, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == lexer.STAR || p.cur.Type == lexer.SLASH {
		span := p.span()
		kind := ast.KindMul
		if p.cur.Type == lexer.SLASH {
			kind = ast.KindDiv
		}
		p.next()
		rhs, err := p.factor()
		if err != nil {
			return nil, err
		}
		lhs = ast.BinOp(kind, lhs, rhs, span)
	}
	return lhs, nil
}

func (p *Parser) factor() (*ast.Node, error) {
	span := p.span()
	switch p.cur.Type {
	case lexer.INT:
		lit := p.cur.Literal
		p.next()
		var v uint64
		fmt.Sscanf(lit, "%d", &v)
		return ast.Integer(v, span), nil

	case lexer.FLOAT:
		lit := p.cur.Literal
		p.next()
		var v float64
		fmt.Sscanf(lit, "%g", &v)
		return ast.Float(v, span), nil

	case lexer.STRING:
		lit := p.cur.Literal
		p.next()
		return ast.String(lit, span), nil

	case lexer.TRUE:
		p.next()
		return ast.Boolean(true, span), nil

	case lexer.FALSE:
		p.next()
		return ast.Boolean(false, span), nil

	case lexer.LPAREN:
		p.next()
		n, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN, ")"); err != nil {
			return nil, err
		}
		return n, nil

	case lexer.IDENT:
		return p.identifierLed(span)

	default:
		return nil, diagnostics.NewUnexpectedToken("expression", tokenName(p.cur), p.scopeName, span)
	}
}

// identifierLed parses everything that can follow a leading identifier:
// a dotted path, an optional call, or an object literal.
func (p *Parser) identifierLed(span ast.Span) (*ast.Node, error) {
	name := p.cur.Literal
	p.next()
	for p.cur.Type == lexer.DOT {
		p.next()
		part, err := p.expect(lexer.IDENT, "identifier")
		if err != nil {
			return nil, err
		}
		name += "." + part.Literal
	}

	switch p.cur.Type {
	case lexer.LPAREN:
		args, err := p.callArgs()
		if err != nil {
			return nil, err
		}
		return ast.Call(name, args, span), nil

	case lexer.LBRACE:
		return p.objectLiteral(name, span)

	default:
		return ast.Identifier(name, span), nil
	}
}

func (p *Parser) callArgs() ([]*ast.Node, error) {
	if _, err := p.expect(lexer.LPAREN, "("); err != nil {
		return nil, err
	}
	var args []*ast.Node
	for p.cur.Type != lexer.RPAREN {
		a, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	if _, err := p.expect(lexer.RPAREN, ")"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) objectLiteral(typeName string, span ast.Span) (*ast.Node, error) {
	p.next() // '{'
	var fields []*ast.Node
	for p.cur.Type != lexer.RBRACE {
		fspan := p.span()
		fname, err := p.expect(lexer.IDENT, "field name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON, ":"); err != nil {
			return nil, err
		}
		val, err := p.expr()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.Field(fname.Literal, val, fspan))
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	if _, err := p.expect(lexer.RBRACE, "}"); err != nil {
		return nil, err
	}
	return ast.Object(typeName, fields, span), nil
}
