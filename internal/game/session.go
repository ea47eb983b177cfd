package game

import (
	"github.com/cardcap/fantasy-engine/internal/game/lineup"
	"github.com/cardcap/fantasy-engine/internal/game/rules"
)

// Session is one play-through: deal, hold, redraw, resolve.
type Session struct {
	ID             string        `json:"sessionId"`
	SportID        string        `json:"sportId"`
	Seed           uint32        `json:"seed"`
	State          rules.State   `json:"state"`
	Roster         lineup.Roster `json:"roster"`
	RemainingCap   int           `json:"remainingCap"`
	ResolvedTeamFP *float64      `json:"resolvedTeamFP,omitempty"`
	WinResult      *bool         `json:"winResult,omitempty"`
	WinTier        string        `json:"winTier,omitempty"`
	Relaxed        bool          `json:"relaxed"`
}

// Phase implements rules.Stateful.
func (s *Session) Phase() rules.State { return s.State }

// WithPhase implements rules.Stateful. The receiver is left untouched.
func (s *Session) WithPhase(state rules.State) *Session {
	out := s.Clone()
	out.State = state
	return out
}

// Clone deep-copies the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Roster = s.Roster.Clone()
	if s.ResolvedTeamFP != nil {
		v := *s.ResolvedTeamFP
		out.ResolvedTeamFP = &v
	}
	if s.WinResult != nil {
		v := *s.WinResult
		out.WinResult = &v
	}
	return &out
}
