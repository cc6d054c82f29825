// Package checks reads files of acceptance expectations and runs them
// against the automata built by package nfa.
//
//	# comment
//	"ab|*" accepts "", "a", "aabbab"
//	"ab|*" rejects "c", "ac"
//	concat "ab" accepts "ab"
//	last "ab" rejects "ab"
//
// A case without a mode keyword follows the options passed to Run; concat and
// last override them.
package checks

import (
	"fmt"
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/mfroeh/nfacheck/nfa"
)

type File struct {
	Cases []*Case `parser:"@@*"`
}

type Case struct {
	Pos lexer.Position

	Mode    string   `parser:"@('concat':Ident | 'last':Ident)?"`
	Pattern string   `parser:"@String"`
	Verb    string   `parser:"@('accepts':Ident | 'rejects':Ident)"`
	Inputs  []string `parser:"@String (',':Punct @String)*"`
}

const (
	modeConcat = "concat"
	modeLast   = "last"
)

func (c *Case) WantAccept() bool {
	return c.Verb == "accepts"
}

var checksLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "Punct", Pattern: `,`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var parser = participle.MustBuild[File](
	participle.Lexer(checksLexer),
	participle.Unquote("String"),
	participle.Elide("Comment", "Whitespace"),
)

func Parse(filename string, r io.Reader) (*File, error) {
	f, err := parser.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse checks: %w", err)
	}
	return f, nil
}

func ParseString(filename, s string) (*File, error) {
	f, err := parser.ParseString(filename, s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse checks: %w", err)
	}
	return f, nil
}

// Failure is a case input whose outcome differs from the expectation. Err is
// set instead when the pattern itself could not be built.
type Failure struct {
	Case  *Case
	Input string
	Err   error
}

func (f Failure) String() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Case.Pos, f.Err)
	}
	got := "rejected"
	if !f.Case.WantAccept() {
		got = "accepted"
	}
	return fmt.Sprintf("%s: %q %s %q: got %s", f.Case.Pos, f.Case.Pattern, f.Case.Verb, f.Input, got)
}

type Report struct {
	Passed   int
	Failures []Failure
}

func (r Report) OK() bool {
	return len(r.Failures) == 0
}

// Run checks every case of f. opts apply to all cases; a case marked concat
// or last then sets the builder mode itself.
func Run(f *File, opts ...nfa.Option) Report {
	var report Report
	for _, c := range f.Cases {
		caseOpts := append([]nfa.Option{}, opts...)
		switch c.Mode {
		case modeConcat:
			caseOpts = append(caseOpts, nfa.WithMode(nfa.ModeConcat))
		case modeLast:
			caseOpts = append(caseOpts, nfa.WithMode(nfa.ModeLastFragment))
		}

		frag, err := nfa.Build(c.Pattern, caseOpts...)
		if err != nil {
			report.Failures = append(report.Failures, Failure{Case: c, Err: err})
			continue
		}

		for _, in := range c.Inputs {
			if frag.Accepts(in) == c.WantAccept() {
				report.Passed++
				continue
			}
			report.Failures = append(report.Failures, Failure{Case: c, Input: in})
		}
	}
	return report
}
