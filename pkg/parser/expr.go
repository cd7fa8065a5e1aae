package parser

import (
	"fmt"
	"math"
	"strconv"

	"github.com/raymyers/crustcc/pkg/ast"
	"github.com/raymyers/crustcc/pkg/lexer"
)

// Binary operator precedence, loosest first. All levels are left associative.
const (
	precLowest = iota
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
)

var binaryOps = map[lexer.TokenType]struct {
	op   ast.BinaryOp
	prec int
}{
	lexer.TokenOr:    {ast.OpOr, precOr},
	lexer.TokenAnd:   {ast.OpAnd, precAnd},
	lexer.TokenEq:    {ast.OpEq, precEquality},
	lexer.TokenNe:    {ast.OpNe, precEquality},
	lexer.TokenLt:    {ast.OpLt, precRelational},
	lexer.TokenLe:    {ast.OpLe, precRelational},
	lexer.TokenGt:    {ast.OpGt, precRelational},
	lexer.TokenGe:    {ast.OpGe, precRelational},
	lexer.TokenPlus:  {ast.OpAdd, precAdditive},
	lexer.TokenMinus: {ast.OpSub, precAdditive},
	lexer.TokenStar:  {ast.OpMul, precMultiplicative},
	lexer.TokenSlash: {ast.OpDiv, precMultiplicative},
}

var unaryOps = map[lexer.TokenType]ast.UnaryOp{
	lexer.TokenMinus: ast.OpNeg,
	lexer.TokenNot:   ast.OpNot,
	lexer.TokenTilde: ast.OpBitNot,
}

// ParseExpression parses a single expression; exported for tests and tools
// that work on expression snippets.
func (p *Parser) ParseExpression() ast.Expr {
	return p.parseExpression()
}

// exp ::= id "=" exp | conditional
func (p *Parser) parseExpression() ast.Expr {
	if p.curTokenIs(lexer.TokenIdent) && p.peekTokenIs(lexer.TokenAssign) {
		name := p.curToken.Literal
		p.nextToken() // consume identifier
		p.nextToken() // consume '='
		value := p.parseExpression()
		if value == nil {
			return nil
		}
		return ast.Assign{Name: name, Value: value}
	}
	return p.parseConditional()
}

// conditional ::= logical-or [ "?" exp ":" conditional ]
func (p *Parser) parseConditional() ast.Expr {
	cond := p.parseBinary(precOr)
	if cond == nil || !p.curTokenIs(lexer.TokenQuestion) {
		return cond
	}
	p.nextToken() // consume '?'

	then := p.parseExpression()
	if then == nil {
		return nil
	}
	if !p.expect(lexer.TokenColon) {
		return nil
	}
	els := p.parseConditional()
	if els == nil {
		return nil
	}
	return ast.Conditional{Cond: cond, Then: then, Else: els}
}

// parseBinary parses operators binding at least as tightly as minPrec.
func (p *Parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseUnary()
	if left == nil {
		return nil
	}

	for {
		info, ok := binaryOps[p.curToken.Type]
		if !ok || info.prec < minPrec {
			return left
		}
		p.nextToken() // consume operator
		right := p.parseBinary(info.prec + 1)
		if right == nil {
			return nil
		}
		left = ast.Binary{Op: info.op, Left: left, Right: right}
	}
}

// unary ::= ("-" | "!" | "~") unary | primary
func (p *Parser) parseUnary() ast.Expr {
	if op, ok := unaryOps[p.curToken.Type]; ok {
		p.nextToken()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		return ast.Unary{Op: op, Expr: operand}
	}
	return p.parsePrimary()
}

// primary ::= int | id | "(" exp ")"
func (p *Parser) parsePrimary() ast.Expr {
	switch p.curToken.Type {
	case lexer.TokenInt:
		lit := p.curToken.Literal
		value, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			// "-" is a unary operator, so the literal itself must fit.
			p.addError(fmt.Sprintf("integer constant %s is too large; constants are at most %d, and a leading '-' negates a positive constant",
				lit, int64(math.MaxInt64)))
			return nil
		}
		p.nextToken()
		return ast.Constant{Value: value}
	case lexer.TokenIdent:
		name := p.curToken.Literal
		p.nextToken()
		return ast.Variable{Name: name}
	case lexer.TokenLParen:
		p.nextToken()
		expr := p.parseExpression()
		if expr == nil {
			return nil
		}
		if !p.expect(lexer.TokenRParen) {
			return nil
		}
		return expr
	default:
		p.addError(fmt.Sprintf("expected expression, got %s", describe(p.curToken)))
		return nil
	}
}
