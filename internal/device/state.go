package device

import (
	"fmt"
	"strings"
)

// State is the lifecycle state of a device.
// The underlying value is the canonical lowercase wire spelling, so a State
// can be written to the database or a JSON response without conversion.
type State string

// The closed set of lifecycle states.
const (
	StateAvailable State = "available"
	StateInUse     State = "in-use"
	StateInactive  State = "inactive"
)

// DefaultState is assigned when a create or replace request omits the state.
const DefaultState = StateInactive

// AllStates returns every valid lifecycle state.
func AllStates() []State {
	return []State{StateAvailable, StateInUse, StateInactive}
}

// ParseState converts a wire token to a State.
//
// Matching is case-insensitive over the three canonical spellings
// ("available", "in-use", "inactive"). Any other token fails with
// ErrInvalidState, and the error message names the offending value.
func ParseState(value string) (State, error) {
	for _, s := range AllStates() {
		if strings.EqualFold(value, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: unknown state value: %q", ErrInvalidState, value)
}

// String returns the canonical wire spelling.
func (s State) String() string {
	return string(s)
}
