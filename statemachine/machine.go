package statemachine

import "errors"

// ActorSystem marks transitions the engine performs automatically, as
// opposed to transitions driven by a permission holder.
const ActorSystem = "system"

// Transition defines a valid state change and the permission that may
// perform it.
type Transition[S ~string] struct {
	From  S
	To    S
	Actor string // permission name, or ActorSystem
}

type transitionKey[S ~string] struct {
	From  S
	To    S
	Actor string
}

// Machine is a closed transition table. Transitions not listed are
// structurally impossible; there is no way to register new ones at runtime.
type Machine[S ~string] struct {
	name        string
	transitions []Transition[S]
	index       map[transitionKey[S]]bool
}

// New builds a machine with an O(1) lookup over its transition table.
func New[S ~string](name string, transitions []Transition[S]) *Machine[S] {
	m := &Machine[S]{
		name:        name,
		transitions: transitions,
		index:       make(map[transitionKey[S]]bool, len(transitions)),
	}
	for _, t := range transitions {
		m.index[transitionKey[S]{t.From, t.To, t.Actor}] = true
	}
	return m
}

func (m *Machine[S]) Name() string { return m.name }

// CanTransition checks whether a given actor can move from one state to
// another. The returned error describes the valid next states so callers
// can surface it directly.
func (m *Machine[S]) CanTransition(from, to S, actor string) error {
	if m.index[transitionKey[S]{from, to, actor}] {
		return nil
	}
	return errors.New(
		"invalid " + m.name + " transition: " + string(from) + " → " + string(to) +
			" is not allowed for actor '" + actor + "'. " +
			"Valid transitions from " + string(from) + " are: " + m.describeValidFrom(from),
	)
}

// ValidTransitionsFrom returns all valid next states from a given state,
// regardless of actor.
func (m *Machine[S]) ValidTransitionsFrom(from S) []S {
	var nexts []S
	seen := map[S]bool{}
	for _, t := range m.transitions {
		if t.From == from && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// ActorsFor returns the actors allowed to drive a specific edge.
func (m *Machine[S]) ActorsFor(from, to S) []string {
	var actors []string
	for _, t := range m.transitions {
		if t.From == from && t.To == to {
			actors = append(actors, t.Actor)
		}
	}
	return actors
}

// Transitions returns the full table for documentation endpoints.
func (m *Machine[S]) Transitions() []Transition[S] {
	return m.transitions
}

func (m *Machine[S]) describeValidFrom(from S) string {
	nexts := m.ValidTransitionsFrom(from)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}
