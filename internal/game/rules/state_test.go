package rules

import (
	"errors"
	"testing"

	"github.com/cardcap/fantasy-engine/internal/game/errs"
)

var allStates = []State{
	StateIdle,
	StateInitialDeal,
	StateHoldPhase,
	StateFinalDraw,
	StateResolution,
	StateResult,
}

type edge struct{ from, to State }

func TestValidateTransitionClosure(t *testing.T) {
	allowed := map[edge]bool{
		{StateIdle, StateInitialDeal}:      true,
		{StateInitialDeal, StateHoldPhase}: true,
		{StateHoldPhase, StateHoldPhase}:   true,
		{StateHoldPhase, StateFinalDraw}:   true,
		{StateFinalDraw, StateResolution}:  true,
		{StateResolution, StateResult}:     true,
	}

	for _, from := range allStates {
		for _, to := range allStates {
			err := ValidateTransition(from, to)
			if allowed[edge{from, to}] {
				if err != nil {
					t.Fatalf("expected %s -> %s to be allowed, got %v", from, to, err)
				}
				continue
			}
			if err == nil {
				t.Fatalf("expected %s -> %s to be rejected", from, to)
			}
			var transitionErr *InvalidTransitionError
			if !errors.As(err, &transitionErr) {
				t.Fatalf("expected InvalidTransitionError, got %T", err)
			}
			if transitionErr.From != from || transitionErr.To != to {
				t.Fatalf("error carries wrong edge: %v", transitionErr)
			}
			if !errors.Is(err, errs.ErrState) {
				t.Fatalf("expected %s -> %s error to match ErrState", from, to)
			}
		}
	}
}

func TestResultIsTerminal(t *testing.T) {
	if len(AllowedTargets(StateResult)) != 0 {
		t.Fatalf("RESULT must have no outgoing transitions")
	}
	if !IsTerminal(StateResult) {
		t.Fatalf("RESULT must be terminal")
	}
	for _, s := range allStates[:len(allStates)-1] {
		if IsTerminal(s) {
			t.Fatalf("%s must not be terminal", s)
		}
	}
}

func TestCanToggleHoldOnlyInHoldPhase(t *testing.T) {
	for _, s := range allStates {
		if got := CanToggleHold(s); got != (s == StateHoldPhase) {
			t.Fatalf("CanToggleHold(%s) = %v", s, got)
		}
	}
}

type phased struct {
	name  string
	state State
}

func (p phased) Phase() State { return p.state }

func (p phased) WithPhase(s State) phased {
	p.state = s
	return p
}

func TestTransitionReturnsUpdatedCopy(t *testing.T) {
	start := phased{name: "session", state: StateIdle}

	next, err := Transition(start, StateInitialDeal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.state != StateInitialDeal || next.name != "session" {
		t.Fatalf("unexpected transition result: %+v", next)
	}
	if start.state != StateIdle {
		t.Fatalf("original value must not change")
	}

	if _, err := Transition(next, StateResult); err == nil {
		t.Fatalf("expected INITIAL_DEAL -> RESULT to fail")
	}
}

func TestStateString(t *testing.T) {
	if StateHoldPhase.String() != "HOLD_PHASE" {
		t.Fatalf("unexpected name %s", StateHoldPhase)
	}
	if State(42).String() != "STATE_42" {
		t.Fatalf("unexpected name for unknown state %s", State(42))
	}
}
