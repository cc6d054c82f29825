package nfa

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

type Transition struct {
	From   StateID
	Symbol Symbol
	To     StateID
}

func (t Transition) String() string {
	return fmt.Sprintf("State %d -- %s --> State %d", t.From, t.Symbol, t.To)
}

// Transitions lists every transition leaving a state of the fragment. States
// come in fragment order, labels in first-use order and targets in insertion
// order, so repeated calls return the same slice contents.
func (f *Fragment) Transitions() []Transition {
	var out []Transition
	for _, id := range f.states {
		s := f.arena.State(id)
		for _, sym := range s.symbols {
			for _, to := range s.next[sym] {
				out = append(out, Transition{From: id, Symbol: sym, To: to})
			}
		}
	}
	return out
}

// WriteTable prints one line per transition.
func (f *Fragment) WriteTable(w io.Writer) error {
	out := strings.Builder{}
	for _, t := range f.Transitions() {
		out.WriteString(t.String())
		out.WriteByte('\n')
	}
	_, err := io.WriteString(w, out.String())
	return err
}

// WriteDOT prints the fragment in Graphviz format, final states drawn as
// double circles.
func (f *Fragment) WriteDOT(w io.Writer) error {
	out := strings.Builder{}
	out.WriteString("digraph nfa {\n")
	out.WriteString("    rankdir=LR;\n")
	for _, id := range f.states {
		shape := "circle"
		if f.arena.State(id).final {
			shape = "doublecircle"
		}
		fmt.Fprintf(&out, "    q%d [shape=%s];\n", id, shape)
	}
	for _, t := range f.Transitions() {
		fmt.Fprintf(&out, "    q%d -> q%d [label=%s];\n", t.From, t.To, strconv.Quote(t.Symbol.String()))
	}
	fmt.Fprintf(&out, "    _start [shape=point]; _start -> q%d;\n", f.Start)
	out.WriteString("}\n")

	_, err := io.WriteString(w, out.String())
	return err
}
