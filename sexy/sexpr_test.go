package sexy

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestParseSymbol(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello", "hello"},
		{"test_var", "test_var"},
		{"int-literal", "int-literal"},
		{"x", "x"},
	}

	for _, test := range tests {
		result, err := Parse(test.input)
		be.Err(t, err, nil)

		be.Equal(t, result.Type, NodeSymbol)
		be.Equal(t, result.Text, test.expected)
		be.Equal(t, result.String(), test.expected)
	}
}

func TestParseString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		output   string
	}{
		{`"hello"`, "hello", `"hello"`},
		{`"hello world"`, "hello world", `"hello world"`},
		{`""`, "", `""`},
		{`"test\"quote"`, `test"quote`, `"test\"quote"`},
		{`"test\\backslash"`, `test\backslash`, `"test\\backslash"`},
	}

	for _, test := range tests {
		result, err := Parse(test.input)
		be.Err(t, err, nil)

		be.Equal(t, result.Type, NodeString)
		be.Equal(t, result.Text, test.expected)
		be.Equal(t, result.String(), test.output)
	}
}

func TestParseInteger(t *testing.T) {
	tests := []string{"42", "0", "-123", "+456"}

	for _, input := range tests {
		result, err := Parse(input)
		be.Err(t, err, nil)

		be.Equal(t, result.Type, NodeInteger)
		be.Equal(t, result.Text, input)
		be.Equal(t, result.String(), input)
	}
}

func TestParseEllipsis(t *testing.T) {
	result, err := Parse("...")
	be.Err(t, err, nil)

	be.Equal(t, result.Type, NodeEllipsis)
	be.Equal(t, result.String(), "...")
}

func TestParseList(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"()", "()"},
		{"(hello)", "(hello)"},
		{"(1 2 3)", "(1 2 3)"},
		{"(int-literal \"0x1F\" 31)", "(int-literal \"0x1F\" 31)"},
		{"(nested (list here))", "(nested (list here))"},
	}

	for _, test := range tests {
		result, err := Parse(test.input)
		be.Err(t, err, nil)

		be.Equal(t, result.Type, NodeList)
		be.Equal(t, result.String(), test.expected)
	}
}

func TestParseComments(t *testing.T) {
	result, err := Parse("; leading comment\n(a b) ; trailing comment")
	be.Err(t, err, nil)

	be.Equal(t, result.String(), "(a b)")
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",          // no datum
		"(",         // unterminated list
		"(a b",      // unterminated list
		")",         // stray close
		"a b",       // trailing datum
		`"unclosed`, // unterminated string
		".",         // lone dot
		"..",        // two dots
	}

	for _, input := range tests {
		_, err := Parse(input)
		be.Err(t, err)
	}
}

func TestIsAtom(t *testing.T) {
	be.True(t, NewSymbol("a").IsAtom())
	be.True(t, NewString("a").IsAtom())
	be.True(t, NewInteger("1").IsAtom())
	be.True(t, NewEllipsis().IsAtom())
	be.True(t, !NewList().IsAtom())
	be.True(t, !NewList(NewSymbol("a")).IsAtom())
}

func TestMatchAtoms(t *testing.T) {
	tests := []struct {
		pattern string
		actual  string
		want    bool
	}{
		{"a", "a", true},
		{"a", "b", false},
		{"42", "42", true},
		{"42", "43", false},
		{`"x"`, `"x"`, true},
		{`"x"`, "x", false}, // string vs symbol
		{"...", "(a b c)", true},
		{"...", "anything", true},
	}

	for _, test := range tests {
		pattern, err := Parse(test.pattern)
		be.Err(t, err, nil)
		actual, err := Parse(test.actual)
		be.Err(t, err, nil)

		be.Equal(t, Match(pattern, actual), test.want)
	}
}

func TestMatchLists(t *testing.T) {
	tests := []struct {
		pattern string
		actual  string
		want    bool
	}{
		{"(a b c)", "(a b c)", true},
		{"(a b c)", "(a b)", false},
		{"(a b)", "(a b c)", false},
		{"(a ...)", "(a b c)", true},
		{"(a ...)", "(a)", true},
		{"(...)", "()", true},
		{"(a ... c)", "(a b b c)", true},
		{"(a ... c)", "(a b b d)", false},
		{"(a (b ...))", "(a (b 1 2 3))", true},
		{"(a (b ...))", "(a (c 1))", false},
	}

	for _, test := range tests {
		pattern, err := Parse(test.pattern)
		be.Err(t, err, nil)
		actual, err := Parse(test.actual)
		be.Err(t, err, nil)

		be.Equal(t, Match(pattern, actual), test.want)
	}
}
