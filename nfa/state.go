// Package nfa compiles postfix symbol sequences into nondeterministic finite
// automata with Thompson's construction and checks strings against them.
package nfa

import (
	"fmt"
	"slices"
	"strconv"
)

// StateID addresses a State inside its Automaton. IDs are handed out in
// creation order and never reused.
type StateID int

// Symbol labels a transition. The zero value is the literal NUL rune; use
// Epsilon for the empty transition.
type Symbol struct {
	r   rune
	eps bool
}

// Epsilon consumes no input.
var Epsilon = Symbol{eps: true}

func Lit(r rune) Symbol {
	return Symbol{r: r}
}

func (s Symbol) IsEpsilon() bool {
	return s.eps
}

func (s Symbol) Rune() rune {
	return s.r
}

func (s Symbol) String() string {
	if s.eps {
		return "ε"
	}
	// quoted so it cannot be mistaken for an epsilon edge
	if s.r == 'ε' {
		return strconv.QuoteRune(s.r)
	}
	return string(s.r)
}

type State struct {
	id    StateID
	final bool
	// symbols keeps the order in which labels were first used
	symbols []Symbol
	next    map[Symbol][]StateID
}

func (s *State) ID() StateID {
	return s.id
}

func (s *State) Final() bool {
	return s.final
}

func (s *State) Symbols() []Symbol {
	return slices.Clone(s.symbols)
}

func (s *State) Next(sym Symbol) []StateID {
	return slices.Clone(s.next[sym])
}

func (s *State) addTransition(sym Symbol, to StateID) {
	if s.next == nil {
		s.next = make(map[Symbol][]StateID)
	}
	if _, ok := s.next[sym]; !ok {
		s.symbols = append(s.symbols, sym)
	}
	s.next[sym] = append(s.next[sym], to)
}

// Automaton is the arena every State of a Builder lives in. Fragments only
// hold IDs into it, so cycles and shared sub-graphs need no special care.
type Automaton struct {
	states []State
}

func (a *Automaton) Len() int {
	return len(a.states)
}

func (a *Automaton) State(id StateID) *State {
	if id < 0 || int(id) >= len(a.states) {
		panic(fmt.Sprintf("nfa: state %d out of range [0, %d)", id, len(a.states)))
	}
	return &a.states[id]
}

func (a *Automaton) newState() StateID {
	id := StateID(len(a.states))
	a.states = append(a.states, State{id: id})
	return id
}

func (a *Automaton) addTransition(from StateID, sym Symbol, to StateID) {
	a.State(from).addTransition(sym, to)
}

// Fragment is an automaton with a single start and a single accepting state.
type Fragment struct {
	Start  StateID
	Accept StateID

	states []StateID
	arena  *Automaton
}

func newFragment(arena *Automaton, start, accept StateID, states ...[]StateID) *Fragment {
	f := &Fragment{
		Start:  start,
		Accept: accept,
		arena:  arena,
	}
	f.states = append(f.states, start, accept)
	for _, s := range states {
		f.states = append(f.states, s...)
	}
	arena.State(accept).final = true
	return f
}

// States returns the IDs of every state that belongs to the fragment.
func (f *Fragment) States() []StateID {
	return slices.Clone(f.states)
}

func (f *Fragment) Automaton() *Automaton {
	return f.arena
}

func (f *Fragment) State(id StateID) *State {
	return f.arena.State(id)
}
