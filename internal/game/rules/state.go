package rules

import (
	"fmt"

	"github.com/cardcap/fantasy-engine/internal/game/errs"
)

// State represents a phase of the deal/hold/draw/resolve session lifecycle.
type State int

const (
	StateIdle State = iota
	StateInitialDeal
	StateHoldPhase
	StateFinalDraw
	StateResolution
	StateResult
)

var stateNames = map[State]string{
	StateIdle:        "IDLE",
	StateInitialDeal: "INITIAL_DEAL",
	StateHoldPhase:   "HOLD_PHASE",
	StateFinalDraw:   "FINAL_DRAW",
	StateResolution:  "RESOLUTION",
	StateResult:      "RESULT",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STATE_%d", int(s))
}

// MarshalText encodes the state by name so snapshots stay readable.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// allowedTransitions is the complete edge list of the phase graph.
// HOLD_PHASE loops onto itself while holds are toggled; RESULT is terminal.
var allowedTransitions = map[State][]State{
	StateIdle:        {StateInitialDeal},
	StateInitialDeal: {StateHoldPhase},
	StateHoldPhase:   {StateHoldPhase, StateFinalDraw},
	StateFinalDraw:   {StateResolution},
	StateResolution:  {StateResult},
}

// InvalidTransitionError reports a transition outside the allow-list.
type InvalidTransitionError struct {
	From State
	To   State
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s", e.From, e.To)
}

// Is makes invalid transitions match errs.ErrState.
func (e *InvalidTransitionError) Is(target error) bool {
	return target == errs.ErrState
}

// AllowedTargets returns the states reachable from current in one step.
func AllowedTargets(current State) []State {
	return append([]State(nil), allowedTransitions[current]...)
}

// ValidateTransition returns an *InvalidTransitionError unless target is in
// the allow-list for current.
func ValidateTransition(current, target State) error {
	for _, allowed := range allowedTransitions[current] {
		if allowed == target {
			return nil
		}
	}
	return &InvalidTransitionError{From: current, To: target}
}

// Stateful is a value that carries a phase and can produce a copy of itself
// in another phase.
type Stateful[T any] interface {
	Phase() State
	WithPhase(State) T
}

// Transition validates the move from v's phase to target and returns the
// updated value. v itself is not modified.
func Transition[T Stateful[T]](v T, target State) (T, error) {
	if err := ValidateTransition(v.Phase(), target); err != nil {
		var zero T
		return zero, err
	}
	return v.WithPhase(target), nil
}

// CanToggleHold reports whether holds may be toggled in state.
func CanToggleHold(state State) bool {
	return state == StateHoldPhase
}

// IsTerminal reports whether state has no outgoing transitions.
func IsTerminal(state State) bool {
	return state == StateResult
}
