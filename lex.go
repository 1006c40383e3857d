package main

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Scanner limits. Exceeding any of them is a hard error, not a recoverable
// condition.
const (
	maxLineCount = 65536
	maxNumLen    = 128
	maxIdentLen  = 64
	maxStringLen = 4096
)

// Lexer turns Crest source bytes into a validated token stream. Tokens are
// pulled one at a time with Next; the stream ends with (and then stays at)
// a TokEOF token. Any malformed input stops the stream with an error
// carrying the offending line.
type Lexer struct {
	src  *SourceBuffer
	inp  []byte
	pos  int
	line int // 1-based
}

func NewLexer(src *SourceBuffer) *Lexer {
	return &Lexer{src: src, inp: src.Bytes(), line: 1}
}

// Line reports the line the scanner is currently positioned on.
func (l *Lexer) Line() int { return l.line }

func (l *Lexer) bumpLine() error {
	if l.line == maxLineCount {
		return errAtf(l.line, "Source file longer than %d lines", maxLineCount)
	}
	l.line++
	return nil
}

func (l *Lexer) skipLineComment() error {
	l.pos += 2
	for {
		switch l.inp[l.pos] {
		case '\n':
			l.pos++
			return l.bumpLine()
		case 0:
			return errAtf(l.line, "End of file in line comment")
		}
		l.pos++
	}
}

func (l *Lexer) skipBlockComment() error {
	l.pos += 2
	for {
		if l.inp[l.pos] == '*' && l.inp[l.pos+1] == '/' {
			l.pos += 2
			return nil
		}
		switch l.inp[l.pos] {
		case '\n':
			if err := l.bumpLine(); err != nil {
				return err
			}
		case 0:
			return errAtf(l.line, "End of file in block comment")
		}
		l.pos++
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func (l *Lexer) skipSpaces() error {
	for {
		c := l.inp[l.pos]
		switch {
		case isSpace(c):
			if c == '\n' {
				if err := l.bumpLine(); err != nil {
					return err
				}
			}
			l.pos++
		case c == '/' && l.inp[l.pos+1] == '/':
			if err := l.skipLineComment(); err != nil {
				return err
			}
		case c == '/' && l.inp[l.pos+1] == '*':
			if err := l.skipBlockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// Next scans and returns the next token. At end of input it returns TokEOF
// without advancing, so repeated calls keep yielding TokEOF.
func (l *Lexer) Next() (Token, error) {
	if err := l.skipSpaces(); err != nil {
		return Token{}, err
	}
	c := l.inp[l.pos]
	switch {
	case c == '\'':
		return l.lexCharLit()
	case c == '"':
		return l.lexStringLit()
	case c == 0:
		return Token{Kind: TokEOF, Line: l.line}, nil
	case c == '.' && isDecDigit(l.inp[l.pos+1]):
		// A numeral cannot start with a radix point; scan it as one so the
		// error names the real problem instead of producing `.` then `5`.
		return l.lexNumWithBase(10)
	case isOpChar(c):
		return l.lexOp(), nil
	case isIdentHead(c):
		return l.lexIdent()
	case isDecDigit(c):
		return l.lexNumLit()
	default:
		return Token{}, errAtf(l.line, "Invalid token `%c`", c)
	}
}

// Character literals

func isValidScalar(n uint64) bool {
	return n <= math.MaxUint32 && utf8.ValidRune(rune(n))
}

func (l *Lexer) lexCharLit() (Token, error) {
	line := l.line
	l.pos++ // opening quote
	var c rune
	if l.inp[l.pos] == 'U' && l.inp[l.pos+1] == '+' {
		l.pos += 2
		num, err := l.lexNumWithBase(16)
		if err != nil {
			return Token{}, err
		}
		if num.Kind != TokIntLit || !isValidScalar(num.Int) {
			return Token{}, errAtf(line, "Invalid char literal")
		}
		c = rune(num.Int)
	} else {
		r, size := utf8.DecodeRune(l.inp[l.pos:])
		if r == utf8.RuneError && size <= 1 {
			return Token{}, errAtf(line, "Invalid char literal")
		}
		l.pos += size
		c = r
		if c == '\n' {
			if err := l.bumpLine(); err != nil {
				return Token{}, err
			}
		}
	}
	if l.inp[l.pos] != '\'' {
		return Token{}, errAtf(line, "Invalid char literal")
	}
	l.pos++
	return Token{Kind: TokCharLit, Line: line, Char: c}, nil
}

// String literals

func (l *Lexer) lexStringLit() (Token, error) {
	line := l.line
	l.pos++ // opening quote
	start := l.pos
	for l.inp[l.pos] != '"' {
		switch l.inp[l.pos] {
		case 0:
			return Token{}, errAtf(l.line, "End of file in string literal")
		case '\n':
			if err := l.bumpLine(); err != nil {
				return Token{}, err
			}
		}
		if l.pos-start == maxStringLen {
			return Token{}, errAtf(l.line,
				"String literal is longer than the maximum allowed length of %d bytes",
				maxStringLen)
		}
		l.pos++
	}
	raw := l.inp[start:l.pos]
	l.pos++ // closing quote
	if !utf8.Valid(raw) {
		return Token{}, errAtf(line, "Invalid string literal")
	}
	// Copy out of the source buffer: the token outlives a released mapping.
	return Token{Kind: TokStringLit, Line: line, Str: append([]byte(nil), raw...)}, nil
}

// Identifiers and keywords

func isIdentHead(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentTail(c byte) bool {
	return isIdentHead(c) || isDecDigit(c)
}

func (l *Lexer) lexIdent() (Token, error) {
	line := l.line
	start := l.pos
	for isIdentTail(l.inp[l.pos]) {
		if l.pos-start == maxIdentLen {
			return Token{}, errAtf(line,
				"Identifier longer than the maximum allowed size of %d", maxIdentLen)
		}
		l.pos++
	}
	text := string(l.inp[start:l.pos])
	if kind, ok := keywords[text]; ok {
		return Token{Kind: kind, Line: line}, nil
	}
	return Token{Kind: TokIdent, Line: line, Text: text}, nil
}

// Numeric literals

func isBinDigit(c byte) bool { return c == '0' || c == '1' }
func isOctDigit(c byte) bool { return '0' <= c && c <= '7' }
func isDecDigit(c byte) bool { return '0' <= c && c <= '9' }
func isHexDigit(c byte) bool { return isDecDigit(c) || ('A' <= c && c <= 'F') }

func digitFunc(base int) func(byte) bool {
	switch base {
	case 2:
		return isBinDigit
	case 8:
		return isOctDigit
	case 10:
		return isDecDigit
	case 16:
		return isHexDigit
	default:
		panic("lexer: bad numeric base")
	}
}

func (l *Lexer) lexNumWithBase(base int) (Token, error) {
	line := l.line
	isDigit := digitFunc(base)
	start := l.pos
	radixPoints := 0
	for isDigit(l.inp[l.pos]) || l.inp[l.pos] == '.' {
		if l.inp[l.pos] == '.' {
			radixPoints++
		}
		l.pos++
		if l.pos-start > maxNumLen {
			return Token{}, errAtf(line,
				"Numerical literal has more than %d characters", maxNumLen)
		}
	}
	text := string(l.inp[start:l.pos])
	if len(text) == 0 {
		return Token{}, errAtf(line, "Numerical literal has no digits")
	}
	if radixPoints == 0 {
		val, err := strconv.ParseUint(text, base, 64)
		if err != nil {
			return Token{}, errAtf(line, "Integer literal greater than %d", uint64(math.MaxUint64))
		}
		return Token{Kind: TokIntLit, Line: line, Int: val}, nil
	}
	if radixPoints > 1 {
		return Token{}, errAtf(line, "Floating point literal has multiple radix points")
	}
	if text[0] == '.' {
		return Token{}, errAtf(line, "Radix point at beginning of floating point literal")
	}
	if text[len(text)-1] == '.' {
		return Token{}, errAtf(line, "Radix point at end of floating point literal")
	}
	if base != 10 {
		return Token{}, errAtf(line, "Floating point literal is not base 10")
	}
	val, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, errAtf(line, "Floating point literal too large")
	}
	return Token{Kind: TokFloatLit, Line: line, Float: val}, nil
}

func (l *Lexer) lexNumLit() (Token, error) {
	if l.inp[l.pos] != '0' {
		return l.lexNumWithBase(10)
	}
	l.pos++
	switch l.inp[l.pos] {
	case 'b':
		l.pos++
		return l.lexNumWithBase(2)
	case 'o':
		l.pos++
		return l.lexNumWithBase(8)
	case 'x':
		l.pos++
		return l.lexNumWithBase(16)
	case '.':
		l.pos-- // rescan "0...." as a base-10 float
		return l.lexNumWithBase(10)
	}
	if isDecDigit(l.inp[l.pos]) {
		return Token{}, errAtf(l.line, "Numerical literal has a leading zero")
	}
	return Token{Kind: TokIntLit, Line: l.line, Int: 0}, nil
}

// Operators

func isOpChar(c byte) bool {
	return strings.IndexByte("+-*/%<>=!&|^~.:;,[](){}\\", c) >= 0
}

func (l *Lexer) tok(kind TokenKind, width int) Token {
	l.pos += width
	return Token{Kind: kind, Line: l.line}
}

// lexOp performs greedy longest-match over the 1-3 character operators.
// Callers have already ruled out comments, so a leading slash here is the
// division operator.
func (l *Lexer) lexOp() Token {
	c1, c2 := l.inp[l.pos+1], byte(0)
	if c1 != 0 {
		c2 = l.inp[l.pos+2]
	}
	switch l.inp[l.pos] {
	case '+':
		switch c1 {
		case '+':
			return l.tok(TokPlusPlus, 2)
		case '=':
			return l.tok(TokPlusEq, 2)
		}
		return l.tok(TokPlus, 1)
	case '-':
		switch c1 {
		case '-':
			return l.tok(TokMinusMinus, 2)
		case '=':
			return l.tok(TokMinusEq, 2)
		case '>':
			return l.tok(TokArrow, 2)
		}
		return l.tok(TokMinus, 1)
	case '*':
		if c1 == '=' {
			return l.tok(TokStarEq, 2)
		}
		return l.tok(TokStar, 1)
	case '/':
		if c1 == '=' {
			return l.tok(TokSlashEq, 2)
		}
		return l.tok(TokSlash, 1)
	case '%':
		if c1 == '=' {
			return l.tok(TokPercentEq, 2)
		}
		return l.tok(TokPercent, 1)
	case '<':
		switch c1 {
		case '<':
			if c2 == '=' {
				return l.tok(TokShlEq, 3)
			}
			return l.tok(TokShl, 2)
		case '=':
			return l.tok(TokLtEq, 2)
		case '-':
			return l.tok(TokBackArrow, 2)
		}
		return l.tok(TokLt, 1)
	case '>':
		switch c1 {
		case '>':
			if c2 == '=' {
				return l.tok(TokShrEq, 3)
			}
			return l.tok(TokShr, 2)
		case '=':
			return l.tok(TokGtEq, 2)
		}
		return l.tok(TokGt, 1)
	case '=':
		switch c1 {
		case '=':
			return l.tok(TokEqEq, 2)
		case '>':
			return l.tok(TokFatArrow, 2)
		}
		return l.tok(TokEq, 1)
	case '!':
		if c1 == '=' {
			return l.tok(TokBangEq, 2)
		}
		return l.tok(TokBang, 1)
	case '&':
		switch c1 {
		case '&':
			return l.tok(TokAmpAmp, 2)
		case '=':
			return l.tok(TokAmpEq, 2)
		}
		return l.tok(TokAmp, 1)
	case '|':
		switch c1 {
		case '|':
			return l.tok(TokPipePipe, 2)
		case '=':
			return l.tok(TokPipeEq, 2)
		}
		return l.tok(TokPipe, 1)
	case '^':
		if c1 == '=' {
			return l.tok(TokCaretEq, 2)
		}
		return l.tok(TokCaret, 1)
	case '~':
		return l.tok(TokTilde, 1)
	case '.':
		return l.tok(TokDot, 1)
	case ':':
		return l.tok(TokColon, 1)
	case ';':
		return l.tok(TokSemicolon, 1)
	case ',':
		return l.tok(TokComma, 1)
	case '\\':
		return l.tok(TokBackslash, 1)
	case '[':
		return l.tok(TokLBracket, 1)
	case ']':
		return l.tok(TokRBracket, 1)
	case '(':
		return l.tok(TokLParen, 1)
	case ')':
		return l.tok(TokRParen, 1)
	case '{':
		return l.tok(TokLBrace, 1)
	case '}':
		return l.tok(TokRBrace, 1)
	default:
		panic("lexer: lexOp called on a non-operator character")
	}
}
