package main

// TokenKind identifies one kind of lexical token.
type TokenKind int

const (
	TokInvalid TokenKind = iota
	TokEOF

	// Keywords
	TokLet
	TokVar
	TokImpure
	TokConst
	TokVolatile
	TokTypedef
	TokTrue
	TokFalse
	TokIf
	TokThen
	TokElse
	TokDo
	TokWhile
	TokFor
	TokSwitch
	TokBreak
	TokContinue
	TokDefer
	TokReturn
	TokU8
	TokU16
	TokU32
	TokU64
	TokI8
	TokI16
	TokI32
	TokI64
	TokF32
	TokF64
	TokBool
	TokVoid
	TokChar
	TokUnderscore

	// Literals and identifiers
	TokIdent
	TokIntLit
	TokFloatLit
	TokCharLit
	TokStringLit

	// Operators
	TokPlus
	TokMinus
	TokStar
	TokSlash
	TokPercent
	TokPlusPlus
	TokMinusMinus
	TokLt
	TokGt
	TokLtEq
	TokGtEq
	TokEqEq
	TokBangEq
	TokAmp
	TokPipe
	TokCaret
	TokTilde
	TokShl
	TokShr
	TokAmpAmp
	TokPipePipe
	TokBang
	TokEq
	TokPlusEq
	TokMinusEq
	TokStarEq
	TokSlashEq
	TokPercentEq
	TokAmpEq
	TokPipeEq
	TokCaretEq
	TokShlEq
	TokShrEq

	// Delimiters
	TokDot
	TokColon
	TokSemicolon
	TokComma
	TokArrow
	TokBackArrow
	TokFatArrow
	TokBackslash
	TokLBracket
	TokRBracket
	TokLParen
	TokRParen
	TokLBrace
	TokRBrace
)

// Token is one fully validated lexical token. Literal kinds carry their
// decoded payload; every token remembers the 1-based line it starts on.
type Token struct {
	Kind  TokenKind
	Line  int
	Int   uint64 // TokIntLit
	Float float64
	Char  rune   // TokCharLit, a validated Unicode scalar value
	Str   []byte // TokStringLit, validated UTF-8
	Text  string // TokIdent
}

// tokenText maps every basic (fixed-spelling) token kind to its source
// spelling. Literal kinds, TokEOF and TokInvalid have no fixed spelling and
// are absent.
var tokenText = map[TokenKind]string{
	TokLet:        "let",
	TokVar:        "var",
	TokImpure:     "impure",
	TokConst:      "const",
	TokVolatile:   "volatile",
	TokTypedef:    "typedef",
	TokTrue:       "true",
	TokFalse:      "false",
	TokIf:         "if",
	TokThen:       "then",
	TokElse:       "else",
	TokDo:         "do",
	TokWhile:      "while",
	TokFor:        "for",
	TokSwitch:     "switch",
	TokBreak:      "break",
	TokContinue:   "continue",
	TokDefer:      "defer",
	TokReturn:     "return",
	TokU8:         "U8",
	TokU16:        "U16",
	TokU32:        "U32",
	TokU64:        "U64",
	TokI8:         "I8",
	TokI16:        "I16",
	TokI32:        "I32",
	TokI64:        "I64",
	TokF32:        "F32",
	TokF64:        "F64",
	TokBool:       "bool",
	TokVoid:       "void",
	TokChar:       "char",
	TokUnderscore: "_",
	TokPlus:       "+",
	TokMinus:      "-",
	TokStar:       "*",
	TokSlash:      "/",
	TokPercent:    "%",
	TokPlusPlus:   "++",
	TokMinusMinus: "--",
	TokLt:         "<",
	TokGt:         ">",
	TokLtEq:       "<=",
	TokGtEq:       ">=",
	TokEqEq:       "==",
	TokBangEq:     "!=",
	TokAmp:        "&",
	TokPipe:       "|",
	TokCaret:      "^",
	TokTilde:      "~",
	TokShl:        "<<",
	TokShr:        ">>",
	TokAmpAmp:     "&&",
	TokPipePipe:   "||",
	TokBang:       "!",
	TokEq:         "=",
	TokPlusEq:     "+=",
	TokMinusEq:    "-=",
	TokStarEq:     "*=",
	TokSlashEq:    "/=",
	TokPercentEq:  "%=",
	TokAmpEq:      "&=",
	TokPipeEq:     "|=",
	TokCaretEq:    "^=",
	TokShlEq:      "<<=",
	TokShrEq:      ">>=",
	TokDot:        ".",
	TokColon:      ":",
	TokSemicolon:  ";",
	TokComma:      ",",
	TokArrow:      "->",
	TokBackArrow:  "<-",
	TokFatArrow:   "=>",
	TokBackslash:  "\\",
	TokLBracket:   "[",
	TokRBracket:   "]",
	TokLParen:     "(",
	TokRParen:     ")",
	TokLBrace:     "{",
	TokRBrace:     "}",
}

// keywords is the fixed keyword lookup table, built once at package
// initialization and never mutated afterwards.
var keywords = buildKeywordTable()

func buildKeywordTable() map[string]TokenKind {
	kw := make(map[string]TokenKind)
	for kind := TokLet; kind <= TokUnderscore; kind++ {
		kw[tokenText[kind]] = kind
	}
	return kw
}

// String returns the human-readable description of the token kind used in
// diagnostics.
func (k TokenKind) String() string {
	if text, ok := tokenText[k]; ok {
		return "`" + text + "`"
	}
	switch k {
	case TokEOF:
		return "end of file"
	case TokIdent:
		return "an identifier"
	case TokIntLit:
		return "an integer literal"
	case TokFloatLit:
		return "a float literal"
	case TokCharLit:
		return "a character literal"
	case TokStringLit:
		return "a string literal"
	default:
		return "an invalid token"
	}
}
