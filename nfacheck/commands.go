package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/mfroeh/nfacheck/checks"
	"github.com/mfroeh/nfacheck/nfa"
)

var (
	validColor   = color.New(color.FgGreen, color.Bold)
	invalidColor = color.New(color.FgRed, color.Bold)
	stateColor   = color.New(color.FgCyan)
	symbolColor  = color.New(color.FgYellow)
	matchColor   = color.New(color.FgRed)
)

var errChecksFailed = errors.New("checks failed")

type runEnv struct {
	in     io.Reader
	out    io.Writer
	concat bool
}

func (e *runEnv) build(pattern string) (*nfa.Fragment, error) {
	frag, err := nfa.Build(pattern, e.options()...)
	if err != nil {
		return nil, fmt.Errorf("failed to build nfa: %w", err)
	}
	return frag, nil
}

func (e *runEnv) options() []nfa.Option {
	if e.concat {
		return []nfa.Option{nfa.WithConcat()}
	}
	return nil
}

type matchCmd struct {
	Pattern string   `arg:"" name:"pattern" help:"Postfix pattern." type:"string"`
	Inputs  []string `arg:"" optional:"" name:"input" help:"Strings to check. Read from stdin when omitted."`
	Table   bool     `help:"Print the transition table before checking."`
}

func (c *matchCmd) Run(env *runEnv) error {
	frag, err := env.build(c.Pattern)
	if err != nil {
		return err
	}

	if c.Table {
		fmt.Fprintln(env.out, "\nNFA Transition Table:")
		writeTable(env.out, frag)
	}

	inputs := c.Inputs
	if len(inputs) == 0 {
		fmt.Fprint(env.out, "\nEnter String to Validate: ")
		line, err := bufio.NewReader(env.in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read input: %w", err)
		}
		inputs = []string{strings.TrimRight(line, "\r\n")}
	}

	for _, in := range inputs {
		verdict := invalidColor.Sprint("INVALID")
		if frag.Accepts(in) {
			verdict = validColor.Sprint("VALID")
		}
		fmt.Fprintf(env.out, "String %s is %s for the given RE.\n", in, verdict)
	}
	return nil
}

type tableCmd struct {
	Pattern string `arg:"" name:"pattern" help:"Postfix pattern." type:"string"`
}

func (c *tableCmd) Run(env *runEnv) error {
	frag, err := env.build(c.Pattern)
	if err != nil {
		return err
	}
	writeTable(env.out, frag)
	return nil
}

func writeTable(w io.Writer, frag *nfa.Fragment) {
	for _, t := range frag.Transitions() {
		to := stateColor.Sprintf("State %d", t.To)
		if frag.State(t.To).Final() {
			to = validColor.Sprintf("State %d", t.To)
		}
		fmt.Fprintf(w, "%s -- %s --> %s\n", stateColor.Sprintf("State %d", t.From), symbolColor.Sprint(t.Symbol), to)
	}
}

type dotCmd struct {
	Pattern string `arg:"" name:"pattern" help:"Postfix pattern." type:"string"`
	Output  string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *dotCmd) Run(env *runEnv) error {
	frag, err := env.build(c.Pattern)
	if err != nil {
		return err
	}

	if c.Output == "" {
		return frag.WriteDOT(env.out)
	}

	f, err := os.Create(c.Output)
	if err != nil {
		return err
	}
	if err := frag.WriteDOT(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type grepCmd struct {
	Pattern string   `arg:"" name:"pattern" help:"Postfix pattern." type:"string"`
	Paths   []string `arg:"" optional:"" name:"path" help:"Paths to search." type:"path"`
}

func (c *grepCmd) Run(env *runEnv) error {
	frag, err := env.build(c.Pattern)
	if err != nil {
		return err
	}

	paths := c.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	for _, path := range paths {
		info, err := os.Lstat(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		if info.IsDir() {
			err = recursivelySearchDir(env.out, path, frag)
		} else {
			err = searchFile(env.out, path, frag)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func recursivelySearchDir(w io.Writer, root string, frag *nfa.Fragment) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		info, err := os.Stat(path)
		// broken symlinks are skipped
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		// so are symlinks to directories
		if info.IsDir() {
			return nil
		}

		return searchFile(w, path, frag)
	})
}

func searchFile(w io.Writer, path string, frag *nfa.Fragment) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// an empty file has no lines, not one empty line
	if len(content) == 0 {
		return nil
	}

	printFileHeader := false
	lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if !frag.Accepts(line) {
			continue
		}

		if !printFileHeader {
			printFileHeader = true
			fmt.Fprintln(w, path, ":")
		}
		fmt.Fprintf(w, "%d:%s\n", i+1, matchColor.Sprint(line))
	}

	if printFileHeader {
		fmt.Fprintln(w)
	}
	return nil
}

type checkCmd struct {
	Files []string `arg:"" name:"file" help:"Checks files to run." type:"existingfile"`
}

func (c *checkCmd) Run(env *runEnv) error {
	failed := false
	for _, name := range c.Files {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		file, err := checks.Parse(name, f)
		f.Close()
		if err != nil {
			return err
		}

		report := checks.Run(file, env.options()...)
		for _, failure := range report.Failures {
			fmt.Fprintf(env.out, "%s %s\n", invalidColor.Sprint("FAIL"), failure)
		}
		fmt.Fprintf(env.out, "%s: %d passed, %d failed\n", name, report.Passed, len(report.Failures))
		if !report.OK() {
			failed = true
		}
	}

	if failed {
		return errChecksFailed
	}
	return nil
}
