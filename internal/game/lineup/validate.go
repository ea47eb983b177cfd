package lineup

import (
	"fmt"

	"github.com/cardcap/fantasy-engine/internal/game/errs"
	"github.com/cardcap/fantasy-engine/internal/sport"
)

var (
	ErrRosterSize    = fmt.Errorf("%w: roster size", errs.ErrValidation)
	ErrUnderfilled   = fmt.Errorf("%w: roster not fully filled", errs.ErrValidation)
	ErrDuplicateBase = fmt.Errorf("%w: duplicate base player", errs.ErrValidation)
	ErrOverCap       = fmt.Errorf("%w: salary cap exceeded", errs.ErrValidation)
	ErrUnderFloor    = fmt.Errorf("%w: salary floor not reached", errs.ErrValidation)
	ErrPositionLimit = fmt.Errorf("%w: position limit", errs.ErrValidation)
	ErrSlotIndex     = fmt.Errorf("%w: slot index mismatch", errs.ErrValidation)
)

// Validate checks every invariant of a complete roster: exact size, all
// slots filled, unique base players, total salary inside the cap range and
// each position count inside its limits.
func Validate(cfg *sport.Config, r Roster) error {
	if err := validateHard(cfg, r); err != nil {
		return err
	}
	if filled := r.FilledCount(); filled != cfg.MaxPlayers {
		return fmt.Errorf("%w: filled=%d want=%d", ErrUnderfilled, filled, cfg.MaxPlayers)
	}
	// validateHard already rejected totals above the max.
	if total := r.TotalSalary(); !cfg.SalaryCap.Contains(total) {
		return fmt.Errorf("%w: min=%d used=%d", ErrUnderFloor, cfg.SalaryCap.Min, total)
	}
	counts := r.PositionCounts()
	for _, pos := range limitPositions(cfg) {
		lim := cfg.PositionLimits[pos]
		if counts[pos] < lim.Min {
			return fmt.Errorf("%w: pos=%s min=%d current=%d", ErrPositionLimit, pos, lim.Min, counts[pos])
		}
	}
	return nil
}

// ValidateRelaxed checks only the invariants a RELAXED best-effort roster
// must never break: size, slot indices, uniqueness, the cap's upper bound,
// allowed positions and position maximums. Empty slots, the salary floor and
// position minimums are not enforced.
func ValidateRelaxed(cfg *sport.Config, r Roster) error {
	return validateHard(cfg, r)
}

func validateHard(cfg *sport.Config, r Roster) error {
	if len(r) != cfg.MaxPlayers {
		return fmt.Errorf("%w: expected %d, got %d", ErrRosterSize, cfg.MaxPlayers, len(r))
	}

	seen := make(map[string]int)
	counts := make(map[string]int)
	for i, s := range r {
		if s.Index != i {
			return fmt.Errorf("%w: slot %d carries index %d", ErrSlotIndex, i, s.Index)
		}
		if s.Player == nil {
			continue
		}
		base := s.Player.BaseID()
		if prev, dup := seen[base]; dup {
			return fmt.Errorf("%w: %s in slots %d and %d", ErrDuplicateBase, base, prev, i)
		}
		seen[base] = i

		if !cfg.AllowsPosition(s.Player.Position) {
			return fmt.Errorf("%w: unknown position %s for %s", ErrPositionLimit, s.Player.Position, s.Player.ID)
		}
		counts[s.Player.Position]++
		if lim, ok := cfg.LimitFor(s.Player.Position); ok && lim.Max > 0 && counts[s.Player.Position] > lim.Max {
			return fmt.Errorf("%w: pos=%s max=%d", ErrPositionLimit, s.Player.Position, lim.Max)
		}
	}

	if total := r.TotalSalary(); total > cfg.SalaryCap.Max {
		return fmt.Errorf("%w: cap=%d used=%d", ErrOverCap, cfg.SalaryCap.Max, total)
	}
	return nil
}
