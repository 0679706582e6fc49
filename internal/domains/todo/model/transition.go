package model

import "slices"

// StatusTransitions maps a status to the set of statuses it may move to.
type StatusTransitions map[Status]map[Status]struct{}

// DefaultStatusTransitions allows every status to move to every other status. Moving to the
// current status is not a transition.
func DefaultStatusTransitions() StatusTransitions {
	transitions := StatusTransitions{}

	for _, from := range Statuses() {
		transitions[from] = map[Status]struct{}{}

		for _, to := range Statuses() {
			if from != to {
				transitions[from][to] = struct{}{}
			}
		}
	}

	return transitions
}

// Allows reports whether from may move to to.
func (t StatusTransitions) Allows(from, to Status) bool {
	_, ok := t[from][to]

	return ok
}

// Next returns the statuses reachable from from, in declaration order.
func (t StatusTransitions) Next(from Status) []Status {
	next := []Status{}

	for _, to := range Statuses() {
		if t.Allows(from, to) {
			next = append(next, to)
		}
	}

	return slices.Clip(next)
}
