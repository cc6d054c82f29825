package nfa

import "unicode/utf8"

// invalidRune stands for a byte of the input that is not valid UTF-8. Build
// rejects such patterns, so no transition is ever labelled with it.
const invalidRune rune = -1

func decodeInput(input string) []rune {
	out := make([]rune, 0, len(input))
	for len(input) > 0 {
		r, size := utf8.DecodeRuneInString(input)
		if r == utf8.RuneError && size == 1 {
			r = invalidRune
		}
		out = append(out, r)
		input = input[size:]
	}
	return out
}

// visited is an immutable chain of the states a branch passed through via
// epsilon transitions. Branches extend it by prepending, so siblings never
// observe each other's entries.
type visited struct {
	id     StateID
	parent *visited
}

func (v *visited) contains(id StateID) bool {
	for n := v; n != nil; n = n.parent {
		if n.id == id {
			return true
		}
	}
	return false
}

type frame struct {
	state StateID
	index int
	seen  *visited
}

// Stats describes the work done by a single acceptance search.
type Stats struct {
	// Steps counts every (state, index) pair the search expanded.
	Steps int
	// ClosureSteps counts the states visited while looking for an epsilon
	// path to a final state at the end of the input.
	ClosureSteps int
}

// Accepts reports whether the fragment accepts the whole input. Bytes that are
// not valid UTF-8 never match a transition.
//
// The search backtracks over every nondeterministic choice without
// memoization, so its worst case is exponential in the number of alternation
// and closure operators on the accepted path.
func (f *Fragment) Accepts(input string) bool {
	ok, _ := f.AcceptStats(input)
	return ok
}

func (f *Fragment) AcceptStats(input string) (bool, Stats) {
	in := decodeInput(input)
	var stats Stats

	stack := []frame{{state: f.Start}}
	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stats.Steps++

		s := f.arena.State(fr.state)
		if fr.index == len(in) {
			if s.final || f.epsilonReachesFinal(fr.state, fr.seen, &stats) {
				return true, stats
			}
			continue
		}

		// pushed in reverse so that targets are tried in insertion order,
		// symbol moves before epsilon moves
		seen := &visited{id: fr.state, parent: fr.seen}
		eps := s.next[Epsilon]
		for i := len(eps) - 1; i >= 0; i-- {
			if !seen.contains(eps[i]) {
				stack = append(stack, frame{state: eps[i], index: fr.index, seen: seen})
			}
		}

		// consuming input starts a fresh branch: no epsilon cycle can span it
		next := s.next[Lit(in[fr.index])]
		for i := len(next) - 1; i >= 0; i-- {
			stack = append(stack, frame{state: next[i], index: fr.index + 1})
		}
	}
	return false, stats
}

// epsilonReachesFinal reports whether a final state can be reached from id
// using only epsilon transitions and without entering a state in seen.
func (f *Fragment) epsilonReachesFinal(id StateID, seen *visited, stats *Stats) bool {
	marked := map[StateID]bool{id: true}
	stack := []StateID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stats.ClosureSteps++

		s := f.arena.State(cur)
		if s.final {
			return true
		}
		for _, next := range s.next[Epsilon] {
			if marked[next] || seen.contains(next) {
				continue
			}
			marked[next] = true
			stack = append(stack, next)
		}
	}
	return false
}
