package sexy

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestExtractSingleTestCase(t *testing.T) {
	markdown := `# Lexer suite

## Test: decimal literal

` + "```crest-source" + `
42
` + "```" + `

` + "```tokens" + `
((int-literal 42))
` + "```" + `
`

	cases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 1)

	tc := cases[0]
	be.Equal(t, tc.Name, "decimal literal")
	be.Equal(t, tc.Input, "42")
	be.Equal(t, tc.InputType, InputTypeCrestSource)
	be.Equal(t, len(tc.Assertions), 1)
	be.Equal(t, tc.Assertions[0].Type, AssertionTypeTokens)
	be.True(t, tc.Assertions[0].ParsedSexy != nil)
	be.Equal(t, tc.Assertions[0].ParsedSexy.String(), "((int-literal 42))")
}

func TestExtractMultipleTestCases(t *testing.T) {
	markdown := `## Test: first

` + "```crest-source" + `
1
` + "```" + `

` + "```tokens" + `
((int-literal 1))
` + "```" + `

## Test: second

` + "```crest-source" + `
2
` + "```" + `

` + "```tokens" + `
((int-literal 2))
` + "```" + `
`

	cases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)
	be.Equal(t, cases[0].Name, "first")
	be.Equal(t, cases[1].Name, "second")
}

func TestExtractLexErrorAssertion(t *testing.T) {
	markdown := `## Test: unterminated comment

` + "```crest-source" + `
/* never closed
` + "```" + `

` + "```lex-error" + `
1: End of file in comment
` + "```" + `
`

	cases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 1)
	be.Equal(t, cases[0].Assertions[0].Type, AssertionTypeLexError)
	be.Equal(t, cases[0].Assertions[0].Content, "1: End of file in comment")
	be.True(t, cases[0].Assertions[0].ParsedSexy == nil)
}

func TestExtractRejectsUnknownFence(t *testing.T) {
	markdown := `## Test: bad fence

` + "```crest-source" + `
1
` + "```" + `

` + "```wat" + `
whatever
` + "```" + `
`

	_, err := ExtractTestCases(markdown)
	be.Err(t, err)
	be.True(t, strings.Contains(err.Error(), "unknown fence language"))
}

func TestExtractRejectsFenceOutsideTest(t *testing.T) {
	markdown := "```tokens" + `
((int-literal 1))
` + "```" + `
`

	_, err := ExtractTestCases(markdown)
	be.Err(t, err)
	be.True(t, strings.Contains(err.Error(), "outside of test case"))
}

func TestExtractRejectsMultipleInputFences(t *testing.T) {
	markdown := `## Test: doubled input

` + "```crest-source" + `
1
` + "```" + `

` + "```crest-source" + `
2
` + "```" + `

` + "```tokens" + `
((int-literal 1))
` + "```" + `
`

	_, err := ExtractTestCases(markdown)
	be.Err(t, err)
	be.True(t, strings.Contains(err.Error(), "multiple input fences"))
}

func TestExtractRejectsMissingAssertions(t *testing.T) {
	markdown := `## Test: no assertions

` + "```crest-source" + `
1
` + "```" + `
`

	_, err := ExtractTestCases(markdown)
	be.Err(t, err)
	be.True(t, strings.Contains(err.Error(), "no assertion fences"))
}

func TestExtractRejectsBadAssertionSexpr(t *testing.T) {
	markdown := `## Test: bad assertion

` + "```crest-source" + `
1
` + "```" + `

` + "```tokens" + `
((unclosed
` + "```" + `
`

	_, err := ExtractTestCases(markdown)
	be.Err(t, err)
	be.True(t, strings.Contains(err.Error(), "failed to parse assertion"))
}

func TestExtractIgnoresProseAndPlainFences(t *testing.T) {
	markdown := `# Suite

Some prose describing the suite.

` + "```" + `
plain fence before any test is fine
` + "```" + `

## Test: with prose

Explanation of the case.

` + "```crest-source" + `
7
` + "```" + `

More prose between fences.

` + "```tokens" + `
((int-literal 7))
` + "```" + `
`

	cases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 1)
	be.Equal(t, cases[0].Input, "7")
}
