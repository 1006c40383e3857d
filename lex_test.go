package main

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	lex := NewLexer(NewSourceBuffer("<test>", []byte(src)))
	var toks []Token
	for {
		tok, err := lex.Next()
		be.Err(t, err, nil)
		if tok.Kind == TokEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func lexError(t *testing.T, src string) error {
	t.Helper()
	lex := NewLexer(NewSourceBuffer("<test>", []byte(src)))
	for {
		tok, err := lex.Next()
		if err != nil {
			return err
		}
		if tok.Kind == TokEOF {
			t.Fatalf("expected a lex error for %q", src)
		}
	}
}

func TestLexIntBases(t *testing.T) {
	toks := lexAll(t, "31 0x1F 0o37 0b11111")
	be.Equal(t, len(toks), 4)
	for _, tok := range toks {
		be.Equal(t, tok.Kind, TokIntLit)
		be.Equal(t, tok.Int, 31)
	}
}

func TestLexIntEdges(t *testing.T) {
	toks := lexAll(t, "0 18446744073709551615")
	be.Equal(t, toks[0].Int, 0)
	be.Equal(t, toks[1].Int, uint64(18446744073709551615))

	err := lexError(t, "18446744073709551616")
	be.Equal(t, err.Error(), "1: Integer literal greater than 18446744073709551615")
}

func TestLexIntErrors(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{"007", "1: Numerical literal has a leading zero"},
		{"0x", "1: Numerical literal has no digits"},
		{"0b", "1: Numerical literal has no digits"},
		{"0xff", "1: Numerical literal has no digits"}, // hex digits are uppercase
		{strings.Repeat("1", 129), "1: Numerical literal has more than 128 characters"},
	}
	for _, test := range tests {
		err := lexError(t, test.src)
		be.Equal(t, err.Error(), test.msg)
	}
}

func TestLexFloats(t *testing.T) {
	toks := lexAll(t, "1.5 0.25 100.0")
	be.Equal(t, toks[0].Kind, TokFloatLit)
	be.Equal(t, toks[0].Float, 1.5)
	be.Equal(t, toks[1].Float, 0.25)
	be.Equal(t, toks[2].Float, 100.0)
}

func TestLexFloatErrors(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{"1.2.3", "1: Floating point literal has multiple radix points"},
		{".5", "1: Radix point at beginning of floating point literal"},
		{"5.", "1: Radix point at end of floating point literal"},
		{"0x1.8", "1: Floating point literal is not base 10"},
		{"0b1.1", "1: Floating point literal is not base 10"},
	}
	for _, test := range tests {
		err := lexError(t, test.src)
		be.Equal(t, err.Error(), test.msg)
	}
}

// Every fixed-spelling token must lex back to its own kind.
func TestLexTokenRoundTrip(t *testing.T) {
	for kind, text := range tokenText {
		toks := lexAll(t, text)
		be.Equal(t, len(toks), 1)
		be.Equal(t, toks[0].Kind, kind)
	}
}

func TestLexOperatorGreediness(t *testing.T) {
	tests := []struct {
		src  string
		want []TokenKind
	}{
		{"a+++b", []TokenKind{TokIdent, TokPlusPlus, TokPlus, TokIdent}},
		{"a<<=b", []TokenKind{TokIdent, TokShlEq, TokIdent}},
		{"a<<b", []TokenKind{TokIdent, TokShl, TokIdent}},
		{"a<-b", []TokenKind{TokIdent, TokBackArrow, TokIdent}},
		{"a->b", []TokenKind{TokIdent, TokArrow, TokIdent}},
		{"a=>b", []TokenKind{TokIdent, TokFatArrow, TokIdent}},
		{"a>>=b", []TokenKind{TokIdent, TokShrEq, TokIdent}},
		{"a==b", []TokenKind{TokIdent, TokEqEq, TokIdent}},
	}
	for _, test := range tests {
		toks := lexAll(t, test.src)
		be.Equal(t, len(toks), len(test.want))
		for i, kind := range test.want {
			be.Equal(t, toks[i].Kind, kind)
		}
	}
}

func TestLexIdentifiers(t *testing.T) {
	toks := lexAll(t, "foo _bar x1 letter")
	for _, tok := range toks {
		be.Equal(t, tok.Kind, TokIdent)
	}
	be.Equal(t, toks[0].Text, "foo")
	be.Equal(t, toks[1].Text, "_bar")
	be.Equal(t, toks[2].Text, "x1")
	// A keyword prefix does not make an identifier a keyword.
	be.Equal(t, toks[3].Text, "letter")

	err := lexError(t, strings.Repeat("a", 65))
	be.Equal(t, err.Error(), "1: Identifier longer than the maximum allowed size of 64")
}

func TestLexKeywords(t *testing.T) {
	toks := lexAll(t, "let var const if then else do while _")
	want := []TokenKind{
		TokLet, TokVar, TokConst, TokIf, TokThen, TokElse, TokDo, TokWhile,
		TokUnderscore,
	}
	be.Equal(t, len(toks), len(want))
	for i, kind := range want {
		be.Equal(t, toks[i].Kind, kind)
	}
}

func TestLexCharLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want rune
	}{
		{"'a'", 'a'},
		{"'0'", '0'},
		{"'U+0041'", 'A'},
		{"'U+03BB'", 0x03BB},
		{"'U+10FFFF'", 0x10FFFF},
		{"'é'", 0xE9}, // UTF-8 encoded char decodes as one scalar
	}
	for _, test := range tests {
		toks := lexAll(t, test.src)
		be.Equal(t, toks[0].Kind, TokCharLit)
		be.Equal(t, toks[0].Char, test.want)
	}
}

func TestLexCharLiteralErrors(t *testing.T) {
	tests := []string{
		"'ab'",       // more than one scalar
		"'U+110000'", // above the Unicode range
		"'U+D800'",   // surrogate
		"'a",         // unterminated
		"'\xff'",     // invalid UTF-8
	}
	for _, src := range tests {
		err := lexError(t, src)
		be.Equal(t, err.Error(), "1: Invalid char literal")
	}
}

func TestLexStringLiterals(t *testing.T) {
	toks := lexAll(t, `"hello" "" "tab	inside"`)
	be.Equal(t, toks[0].Kind, TokStringLit)
	be.Equal(t, string(toks[0].Str), "hello")
	be.Equal(t, string(toks[1].Str), "")
	be.Equal(t, string(toks[2].Str), "tab\tinside")
}

func TestLexStringSpansLines(t *testing.T) {
	toks := lexAll(t, "\"a\nb\" x")
	be.Equal(t, string(toks[0].Str), "a\nb")
	be.Equal(t, toks[0].Line, 1)
	// The token after the literal sits past the embedded newline.
	be.Equal(t, toks[1].Line, 2)
}

func TestLexStringErrors(t *testing.T) {
	err := lexError(t, `"ab`)
	be.Equal(t, err.Error(), "1: End of file in string literal")

	err = lexError(t, "\"ab\ncd")
	be.Equal(t, err.Error(), "2: End of file in string literal")

	err = lexError(t, "\"\xff\"")
	be.Equal(t, err.Error(), "1: Invalid string literal")

	err = lexError(t, `"`+strings.Repeat("a", 4097)+`"`)
	be.Equal(t, err.Error(),
		"1: String literal is longer than the maximum allowed length of 4096 bytes")
}

func TestLexComments(t *testing.T) {
	toks := lexAll(t, "1 // comment\n/* block\ncomment */ 2")
	be.Equal(t, len(toks), 2)
	be.Equal(t, toks[0].Line, 1)
	be.Equal(t, toks[1].Line, 3)
}

func TestLexCommentErrors(t *testing.T) {
	err := lexError(t, "// never ends")
	be.Equal(t, err.Error(), "1: End of file in line comment")

	err = lexError(t, "/* spans\ntwo lines")
	be.Equal(t, err.Error(), "2: End of file in block comment")
}

func TestLexLineTracking(t *testing.T) {
	toks := lexAll(t, "a\nb\r\nc")
	be.Equal(t, toks[0].Line, 1)
	be.Equal(t, toks[1].Line, 2)
	be.Equal(t, toks[2].Line, 3)
}

func TestLexCommentOnlySource(t *testing.T) {
	// Nothing but trivia still advances the line counter: EOF lands on
	// the line after the last newline consumed.
	lex := NewLexer(NewSourceBuffer("<test>", []byte("// a\n/* b\nc */\n")))
	tok, err := lex.Next()
	be.Err(t, err, nil)
	be.Equal(t, tok.Kind, TokEOF)
	be.Equal(t, tok.Line, 4)
	be.Equal(t, lex.Line(), 4)
}

func TestLexLineLimit(t *testing.T) {
	src := strings.Repeat("\n", 65536)
	err := lexError(t, src)
	be.Equal(t, err.Error(), "65536: Source file longer than 65536 lines")
}

func TestLexEOFIsIdempotent(t *testing.T) {
	lex := NewLexer(NewSourceBuffer("<test>", []byte("x")))
	tok, err := lex.Next()
	be.Err(t, err, nil)
	be.Equal(t, tok.Kind, TokIdent)
	for i := 0; i < 3; i++ {
		tok, err = lex.Next()
		be.Err(t, err, nil)
		be.Equal(t, tok.Kind, TokEOF)
	}
}

func TestLexInvalidToken(t *testing.T) {
	err := lexError(t, "$")
	be.Equal(t, err.Error(), "1: Invalid token `$`")

	err = lexError(t, "a @ b")
	be.Equal(t, err.Error(), "1: Invalid token `@`")
}

func TestLexEmptyInput(t *testing.T) {
	toks := lexAll(t, "")
	be.Equal(t, len(toks), 0)
}
