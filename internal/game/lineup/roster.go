// Package lineup builds and validates salary-capped rosters.
package lineup

import "github.com/cardcap/fantasy-engine/internal/sport"

// Slot is one position in a roster. Player is nil until the slot is filled;
// Held only has meaning during the hold phase.
type Slot struct {
	Index  int           `json:"index"`
	Player *sport.Player `json:"player"`
	Held   bool          `json:"held"`
}

// Roster is an ordered, fixed-length sequence of slots.
type Roster []Slot

// NewRoster returns size empty slots.
func NewRoster(size int) Roster {
	r := make(Roster, size)
	for i := range r {
		r[i].Index = i
	}
	return r
}

// Clone deep-copies the roster, including the players it points to.
func (r Roster) Clone() Roster {
	if r == nil {
		return nil
	}
	out := make(Roster, len(r))
	for i, s := range r {
		out[i] = s
		if s.Player != nil {
			p := *s.Player
			out[i].Player = &p
		}
	}
	return out
}

// Players returns the filled slots' players in slot order.
func (r Roster) Players() []sport.Player {
	out := make([]sport.Player, 0, len(r))
	for _, s := range r {
		if s.Player != nil {
			out = append(out, *s.Player)
		}
	}
	return out
}

// FilledCount returns how many slots hold a player.
func (r Roster) FilledCount() int {
	n := 0
	for _, s := range r {
		if s.Player != nil {
			n++
		}
	}
	return n
}

// HeldCount returns how many filled slots are held.
func (r Roster) HeldCount() int {
	n := 0
	for _, s := range r {
		if s.Held && s.Player != nil {
			n++
		}
	}
	return n
}

// TotalSalary sums the salaries of filled slots.
func (r Roster) TotalSalary() int {
	total := 0
	for _, s := range r {
		if s.Player != nil {
			total += s.Player.Salary
		}
	}
	return total
}

// PositionCounts counts filled slots per position.
func (r Roster) PositionCounts() map[string]int {
	counts := make(map[string]int)
	for _, s := range r {
		if s.Player != nil {
			counts[s.Player.Position]++
		}
	}
	return counts
}

// RemainingCap is the unspent part of the cap's upper bound.
func RemainingCap(r Roster, cap sport.SalaryCap) int {
	return cap.Max - r.TotalSalary()
}
