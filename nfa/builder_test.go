package nfa

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func transitionStrings(f *Fragment) []string {
	var out []string
	for _, t := range f.Transitions() {
		out = append(out, t.String())
	}
	return out
}

func finalStates(a *Automaton) []StateID {
	var out []StateID
	for i := 0; i < a.Len(); i++ {
		if a.State(StateID(i)).Final() {
			out = append(out, StateID(i))
		}
	}
	return out
}

func TestBuild(t *testing.T) {
	tests := map[string]struct {
		givenSymbols    string
		givenOpts       []Option
		wantStart       StateID
		wantAccept      StateID
		wantStates      []StateID
		wantTransitions []string
		wantFinal       []StateID
		wantArenaSize   int
	}{
		"atom": {
			givenSymbols:    "a",
			wantStart:       0,
			wantAccept:      1,
			wantStates:      []StateID{0, 1},
			wantTransitions: []string{"State 0 -- a --> State 1"},
			wantFinal:       []StateID{1},
			wantArenaSize:   2,
		},
		"alternation": {
			givenSymbols: "ab|",
			wantStart:    4,
			wantAccept:   5,
			wantStates:   []StateID{4, 5, 0, 1, 2, 3},
			wantTransitions: []string{
				"State 4 -- ε --> State 0",
				"State 4 -- ε --> State 2",
				"State 0 -- a --> State 1",
				"State 1 -- ε --> State 5",
				"State 2 -- b --> State 3",
				"State 3 -- ε --> State 5",
			},
			wantFinal:     []StateID{5},
			wantArenaSize: 6,
		},
		"closure": {
			givenSymbols: "a*",
			wantStart:    2,
			wantAccept:   3,
			wantStates:   []StateID{2, 3, 0, 1},
			wantTransitions: []string{
				"State 2 -- ε --> State 0",
				"State 2 -- ε --> State 3",
				"State 0 -- a --> State 1",
				"State 1 -- ε --> State 3",
				"State 1 -- ε --> State 0",
			},
			wantFinal:     []StateID{3},
			wantArenaSize: 4,
		},
		// orphans keep their accepting flag, nothing consumed them
		"uncombined literals keep only the last one": {
			givenSymbols:    "abc",
			wantStart:       4,
			wantAccept:      5,
			wantStates:      []StateID{4, 5},
			wantTransitions: []string{"State 4 -- c --> State 5"},
			wantFinal:       []StateID{1, 3, 5},
			wantArenaSize:   6,
		},
		"concat chains literals": {
			givenSymbols: "abc",
			givenOpts:    []Option{WithConcat()},
			wantStart:    0,
			wantAccept:   5,
			wantStates:   []StateID{0, 1, 2, 3, 4, 5},
			wantTransitions: []string{
				"State 0 -- a --> State 1",
				"State 1 -- ε --> State 2",
				"State 2 -- b --> State 3",
				"State 3 -- ε --> State 4",
				"State 4 -- c --> State 5",
			},
			wantFinal:     []StateID{5},
			wantArenaSize: 6,
		},
		"epsilon rune is a literal": {
			givenSymbols:    "ε",
			wantStart:       0,
			wantAccept:      1,
			wantStates:      []StateID{0, 1},
			wantTransitions: []string{"State 0 -- 'ε' --> State 1"},
			wantFinal:       []StateID{1},
			wantArenaSize:   2,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			// when
			b := NewBuilder(tt.givenOpts...)
			frag, err := b.Build(tt.givenSymbols)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}

			// then
			if d := cmp.Diff(tt.wantStart, frag.Start); d != "" {
				t.Errorf("start: got diff (-want +got):\n%s", d)
			}
			if d := cmp.Diff(tt.wantAccept, frag.Accept); d != "" {
				t.Errorf("accept: got diff (-want +got):\n%s", d)
			}
			if d := cmp.Diff(tt.wantStates, frag.States()); d != "" {
				t.Errorf("states: got diff (-want +got):\n%s", d)
			}
			if d := cmp.Diff(tt.wantTransitions, transitionStrings(frag)); d != "" {
				t.Errorf("transitions: got diff (-want +got):\n%s", d)
			}
			if d := cmp.Diff(tt.wantFinal, finalStates(b.Automaton())); d != "" {
				t.Errorf("final states: got diff (-want +got):\n%s", d)
			}
			if d := cmp.Diff(tt.wantArenaSize, b.Automaton().Len()); d != "" {
				t.Errorf("arena size: got diff (-want +got):\n%s", d)
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := map[string]struct {
		givenSymbols string
		wantOperand  *OperandError
		wantErr      error
	}{
		"alternation first": {
			givenSymbols: "|",
			wantOperand:  &OperandError{Op: '|', Pos: 0, Need: 2, Have: 0},
			wantErr:      ErrMissingOperand,
		},
		"alternation with one operand": {
			givenSymbols: "a|",
			wantOperand:  &OperandError{Op: '|', Pos: 1, Need: 2, Have: 1},
			wantErr:      ErrMissingOperand,
		},
		"closure first": {
			givenSymbols: "*a",
			wantOperand:  &OperandError{Op: '*', Pos: 0, Need: 1, Have: 0},
			wantErr:      ErrMissingOperand,
		},
		"alternation after closure": {
			givenSymbols: "a*|",
			wantOperand:  &OperandError{Op: '|', Pos: 2, Need: 2, Have: 1},
			wantErr:      ErrMissingOperand,
		},
		"position is a byte offset": {
			givenSymbols: "é|",
			wantOperand:  &OperandError{Op: '|', Pos: 2, Need: 2, Have: 1},
			wantErr:      ErrMissingOperand,
		},
		"empty": {
			givenSymbols: "",
			wantErr:      ErrEmptySequence,
		},
		"invalid utf-8": {
			givenSymbols: "\xff",
			wantErr:      ErrInvalidUTF8,
		},
		"invalid utf-8 after valid symbols": {
			givenSymbols: "ab|\xfe",
			wantErr:      ErrInvalidUTF8,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			// when
			frag, err := Build(tt.givenSymbols)

			// then
			if frag != nil {
				t.Errorf("got fragment %v, want nil", frag)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got error %v, want %v", err, tt.wantErr)
			}
			if tt.wantOperand == nil {
				return
			}
			var gotOperand *OperandError
			if !errors.As(err, &gotOperand) {
				t.Fatalf("got error %T, want *OperandError", err)
			}
			if d := cmp.Diff(tt.wantOperand, gotOperand); d != "" {
				t.Errorf("got diff (-want +got):\n%s", d)
			}
		})
	}
}

func TestStateIDsAreUnique(t *testing.T) {
	// given
	b := NewBuilder()
	sequences := []string{"abc", "ab|*", "a*", "xy|z*|", "q"}

	// when
	var frags []*Fragment
	for _, s := range sequences {
		frag, err := b.Build(s)
		if err != nil {
			t.Fatalf("Build(%q): %v", s, err)
		}
		frags = append(frags, frag)
	}

	// then
	arena := b.Automaton()
	for i := 0; i < arena.Len(); i++ {
		if got := arena.State(StateID(i)).ID(); got != StateID(i) {
			t.Errorf("state at %d has id %d", i, got)
		}
	}

	owner := map[StateID]int{}
	for i, frag := range frags {
		for _, id := range frag.States() {
			if prev, ok := owner[id]; ok {
				t.Errorf("state %d belongs to fragment %d and %d", id, prev, i)
			}
			owner[id] = i
		}
	}

	// "abc" leaves the states of a and b orphaned
	if d := cmp.Diff(arena.Len()-4, len(owner)); d != "" {
		t.Errorf("got diff (-want +got):\n%s", d)
	}
}

func TestModeString(t *testing.T) {
	got := []string{ModeLastFragment.String(), ModeConcat.String(), Mode(7).String()}
	want := []string{"last-fragment", "concat", "Mode(7)"}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("got diff (-want +got):\n%s", d)
	}

	if m := NewBuilder().Mode(); m != ModeLastFragment {
		t.Errorf("default mode = %v, want %v", m, ModeLastFragment)
	}
	if m := NewBuilder(WithConcat()).Mode(); m != ModeConcat {
		t.Errorf("WithConcat mode = %v, want %v", m, ModeConcat)
	}
}

func TestFragmentSharesBuilderArena(t *testing.T) {
	b := NewBuilder()
	first, err := b.Build("a")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	second, err := b.Build("b*")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if first.Automaton() != b.Automaton() || second.Automaton() != b.Automaton() {
		t.Fatalf("fragments do not share the builder's automaton")
	}
	// building more must not disturb earlier fragments
	if !first.Accepts("a") || first.Accepts("b") {
		t.Errorf("first fragment changed after a later build")
	}
	if d := cmp.Diff([]Symbol{Lit('b')}, second.State(2).Symbols(), cmp.Comparer(func(x, y Symbol) bool { return x == y })); d != "" {
		t.Errorf("got diff (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]StateID{3}, second.State(2).Next(Lit('b'))); d != "" {
		t.Errorf("got diff (-want +got):\n%s", d)
	}
}
