package nfa

import (
	"fmt"
	"unicode/utf8"
)

const (
	OpAlternate = '|'
	OpClosure   = '*'
)

// Mode decides what Build does with fragments that no operator combined.
type Mode int

const (
	// ModeLastFragment returns the fragment on top of the stack and drops the
	// rest, so "ab" only accepts "b".
	ModeLastFragment Mode = iota
	// ModeConcat chains every fragment left on the stack, so "ab" accepts "ab".
	ModeConcat
)

func (m Mode) String() string {
	switch m {
	case ModeLastFragment:
		return "last-fragment"
	case ModeConcat:
		return "concat"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

type Option func(*Builder)

func WithMode(m Mode) Option {
	return func(b *Builder) {
		b.mode = m
	}
}

func WithConcat() Option {
	return WithMode(ModeConcat)
}

// Builder turns postfix symbol sequences into fragments. All fragments built
// by the same Builder share one Automaton, so their state IDs never collide.
// A Builder is not safe for concurrent use.
type Builder struct {
	arena *Automaton
	mode  Mode
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{arena: &Automaton{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) Mode() Mode {
	return b.mode
}

func (b *Builder) Automaton() *Automaton {
	return b.arena
}

// Build is a shorthand for NewBuilder(opts...).Build(symbols).
func Build(symbols string, opts ...Option) (*Fragment, error) {
	return NewBuilder(opts...).Build(symbols)
}

// Build consumes symbols left to right. '|' alternates the two topmost
// fragments, '*' closes the topmost one and every other rune becomes a
// single transition. The sequence must be valid UTF-8.
func (b *Builder) Build(symbols string) (*Fragment, error) {
	if !utf8.ValidString(symbols) {
		return nil, b.buildError(symbols, ErrInvalidUTF8)
	}

	var stack []*Fragment
	for i, c := range symbols {
		switch c {
		case OpAlternate:
			if len(stack) < 2 {
				return nil, b.buildError(symbols, &OperandError{Op: c, Pos: i, Need: 2, Have: len(stack)})
			}
			second := stack[len(stack)-1]
			first := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			stack = append(stack, b.alternate(first, second))
		case OpClosure:
			if len(stack) < 1 {
				return nil, b.buildError(symbols, &OperandError{Op: c, Pos: i, Need: 1, Have: 0})
			}
			last := stack[len(stack)-1]
			stack[len(stack)-1] = b.closure(last)
		default:
			stack = append(stack, b.atom(c))
		}
	}

	if len(stack) == 0 {
		return nil, b.buildError(symbols, ErrEmptySequence)
	}

	if b.mode == ModeConcat {
		frag := stack[0]
		for _, next := range stack[1:] {
			frag = b.concat(frag, next)
		}
		return frag, nil
	}
	return stack[len(stack)-1], nil
}

func (b *Builder) buildError(symbols string, err error) error {
	return fmt.Errorf("failed to build automaton from %q: %w", symbols, err)
}

func (b *Builder) atom(c rune) *Fragment {
	start := b.arena.newState()
	end := b.arena.newState()
	b.arena.addTransition(start, Lit(c), end)
	return newFragment(b.arena, start, end)
}

func (b *Builder) alternate(first, second *Fragment) *Fragment {
	start := b.arena.newState()
	end := b.arena.newState()

	b.arena.addTransition(start, Epsilon, first.Start)
	b.arena.addTransition(start, Epsilon, second.Start)
	b.arena.addTransition(first.Accept, Epsilon, end)
	b.arena.addTransition(second.Accept, Epsilon, end)
	b.demote(first, second)

	return newFragment(b.arena, start, end, first.states, second.states)
}

func (b *Builder) closure(last *Fragment) *Fragment {
	start := b.arena.newState()
	end := b.arena.newState()

	b.arena.addTransition(start, Epsilon, last.Start)
	// zero repetitions
	b.arena.addTransition(start, Epsilon, end)
	b.arena.addTransition(last.Accept, Epsilon, end)
	// repeat
	b.arena.addTransition(last.Accept, Epsilon, last.Start)
	b.demote(last)

	return newFragment(b.arena, start, end, last.states)
}

func (b *Builder) concat(first, second *Fragment) *Fragment {
	b.arena.addTransition(first.Accept, Epsilon, second.Start)
	b.demote(first)

	f := &Fragment{
		Start:  first.Start,
		Accept: second.Accept,
		arena:  b.arena,
	}
	f.states = append(f.states, first.states...)
	f.states = append(f.states, second.states...)
	return f
}

// demote clears the accepting flag of consumed fragments so the combined
// fragment has exactly one final state.
func (b *Builder) demote(frags ...*Fragment) {
	for _, f := range frags {
		b.arena.State(f.Accept).final = false
	}
}
