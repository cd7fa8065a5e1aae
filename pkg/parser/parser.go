// Package parser implements a recursive descent parser for the C subset.
// Grammar precedence levels are resolved here and never reach the AST.
package parser

import (
	"fmt"

	"github.com/raymyers/crustcc/pkg/ast"
	"github.com/raymyers/crustcc/pkg/lexer"
)

// Parser parses source code into an ast.Program
type Parser struct {
	l         *lexer.Lexer
	curToken  lexer.Token
	peekToken lexer.Token
	consumed  int // tokens consumed so far, used to guarantee progress on errors
	errors    []string
}

// New creates a new Parser for the given lexer
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	// Read two tokens to initialize curToken and peekToken
	p.nextToken()
	p.nextToken()
	p.consumed = 0
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
	p.consumed++
}

// Errors returns the list of parsing errors
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, fmt.Sprintf("line %d, col %d: %s",
		p.curToken.Line, p.curToken.Column, msg))
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf("expected %s, got %s", t, describe(p.curToken)))
	return false
}

func describe(tok lexer.Token) string {
	if tok.Type == lexer.TokenIllegal {
		return fmt.Sprintf("illegal character %q", tok.Literal)
	}
	if tok.Type == lexer.TokenIdent || tok.Type == lexer.TokenInt {
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	}
	return tok.Type.String()
}

// ParseProgram parses function definitions until EOF
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for !p.curTokenIs(lexer.TokenEOF) {
		before := p.consumed
		def := p.ParseDefinition()
		if def != nil {
			program.Definitions = append(program.Definitions, def)
		}
		if len(p.errors) > 0 {
			// Definitions after a syntax error would only add noise.
			break
		}
		if p.consumed == before {
			p.nextToken()
		}
	}
	return program
}

// ParseDefinition parses a top-level function definition: int name() { body }
func (p *Parser) ParseDefinition() ast.Definition {
	if !p.expect(lexer.TokenInt_) {
		return nil
	}

	if !p.curTokenIs(lexer.TokenIdent) {
		p.addError(fmt.Sprintf("expected function name, got %s", describe(p.curToken)))
		return nil
	}
	name := p.curToken.Literal
	p.nextToken()

	if !p.expect(lexer.TokenLParen) {
		return nil
	}
	if !p.expect(lexer.TokenRParen) {
		return nil
	}

	if !p.curTokenIs(lexer.TokenLBrace) {
		p.addError(fmt.Sprintf("expected '{', got %s", describe(p.curToken)))
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}

	return ast.FunDef{Name: name, Body: body}
}

func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Items: []ast.Stmt{}}

	p.nextToken() // consume '{'

	for !p.curTokenIs(lexer.TokenRBrace) {
		if p.curTokenIs(lexer.TokenEOF) {
			p.addError("unexpected EOF, expected '}'")
			return nil
		}
		before := p.consumed
		item := p.parseBlockItem()
		if item == nil {
			if p.consumed == before {
				p.nextToken()
			}
			return nil
		}
		block.Items = append(block.Items, item)
	}

	p.nextToken() // consume '}'

	return block
}

func (p *Parser) parseBlockItem() ast.Stmt {
	if p.curTokenIs(lexer.TokenInt_) {
		return p.parseDeclaration()
	}
	return p.parseStatement()
}

func (p *Parser) parseDeclaration() ast.Stmt {
	p.nextToken() // consume 'int'

	if !p.curTokenIs(lexer.TokenIdent) {
		p.addError(fmt.Sprintf("expected variable name, got %s", describe(p.curToken)))
		return nil
	}
	decl := ast.Decl{Name: p.curToken.Literal}
	p.nextToken()

	if p.curTokenIs(lexer.TokenAssign) {
		p.nextToken()
		decl.Init = p.parseExpression()
		if decl.Init == nil {
			return nil
		}
	}

	if !p.expect(lexer.TokenSemicolon) {
		return nil
	}
	return decl
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case lexer.TokenReturn:
		return p.parseReturnStatement()
	case lexer.TokenIf:
		return p.parseIfStatement()
	case lexer.TokenLBrace:
		block := p.parseBlock()
		if block == nil {
			return nil
		}
		return *block
	case lexer.TokenSemicolon:
		p.nextToken()
		return ast.ExprStmt{}
	case lexer.TokenInt_:
		p.addError("declaration is not allowed here; wrap it in a block")
		return nil
	default:
		expr := p.parseExpression()
		if expr == nil {
			return nil
		}
		if !p.expect(lexer.TokenSemicolon) {
			return nil
		}
		return ast.ExprStmt{Expr: expr}
	}
}

func (p *Parser) parseReturnStatement() ast.Stmt {
	p.nextToken() // consume 'return'

	if p.curTokenIs(lexer.TokenSemicolon) {
		p.addError("return without a value in function returning int")
		return nil
	}
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}

	if !p.expect(lexer.TokenSemicolon) {
		return nil
	}

	return ast.Return{Expr: expr}
}

func (p *Parser) parseIfStatement() ast.Stmt {
	p.nextToken() // consume 'if'

	if !p.expect(lexer.TokenLParen) {
		return nil
	}
	cond := p.parseExpression()
	if cond == nil {
		return nil
	}
	if !p.expect(lexer.TokenRParen) {
		return nil
	}

	then := p.parseStatement()
	if then == nil {
		return nil
	}
	stmt := ast.If{Cond: cond, Then: then}

	if p.curTokenIs(lexer.TokenElse) {
		p.nextToken()
		stmt.Else = p.parseStatement()
		if stmt.Else == nil {
			return nil
		}
	}
	return stmt
}
