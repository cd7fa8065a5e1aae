// Package lexer turns C-subset source text into a token stream.
package lexer

// Lexer tokenizes source code
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // next reading position
	ch      byte // current character
	line    int
	column  int
}

// New creates a new Lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.column++

	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipTrivia()

	tok := Token{Line: l.line, Column: l.column}

	switch l.ch {
	case 0:
		tok.Type = TokenEOF
		tok.Literal = ""
		return tok
	case '+':
		tok = l.newToken(TokenPlus, "+")
	case '-':
		tok = l.newToken(TokenMinus, "-")
	case '*':
		tok = l.newToken(TokenStar, "*")
	case '/':
		tok = l.newToken(TokenSlash, "/")
	case '~':
		tok = l.newToken(TokenTilde, "~")
	case '?':
		tok = l.newToken(TokenQuestion, "?")
	case ':':
		tok = l.newToken(TokenColon, ":")
	case '(':
		tok = l.newToken(TokenLParen, "(")
	case ')':
		tok = l.newToken(TokenRParen, ")")
	case '{':
		tok = l.newToken(TokenLBrace, "{")
	case '}':
		tok = l.newToken(TokenRBrace, "}")
	case ';':
		tok = l.newToken(TokenSemicolon, ";")
	case '=':
		tok = l.twoCharToken('=', TokenEq, TokenAssign)
	case '!':
		tok = l.twoCharToken('=', TokenNe, TokenNot)
	case '<':
		tok = l.twoCharToken('=', TokenLe, TokenLt)
	case '>':
		tok = l.twoCharToken('=', TokenGe, TokenGt)
	case '&':
		tok = l.twoCharToken('&', TokenAnd, TokenIllegal)
	case '|':
		tok = l.twoCharToken('|', TokenOr, TokenIllegal)
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = LookupIdent(tok.Literal)
			return tok
		} else if isDigit(l.ch) {
			tok.Type = TokenInt
			tok.Literal = l.readNumber()
			return tok
		}
		tok = l.newToken(TokenIllegal, string(l.ch))
	}

	l.readChar()
	return tok
}

func (l *Lexer) newToken(tokenType TokenType, literal string) Token {
	return Token{Type: tokenType, Literal: literal, Line: l.line, Column: l.column}
}

// twoCharToken consumes a second character when it equals next and
// returns double; otherwise it returns single for the current character.
func (l *Lexer) twoCharToken(next byte, double, single TokenType) Token {
	if l.peekChar() == next {
		tok := l.newToken(double, string(l.ch)+string(next))
		l.readChar()
		return tok
	}
	return l.newToken(single, string(l.ch))
}

func (l *Lexer) skipTrivia() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar() // consume /
			l.readChar() // consume *
			for l.ch != 0 && !(l.ch == '*' && l.peekChar() == '/') {
				l.readChar()
			}
			if l.ch != 0 {
				l.readChar() // consume *
				l.readChar() // consume /
			}
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() string {
	pos := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

func (l *Lexer) readNumber() string {
	pos := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
