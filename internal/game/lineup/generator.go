package lineup

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cardcap/fantasy-engine/internal/game/errs"
	"github.com/cardcap/fantasy-engine/internal/game/rng"
	"github.com/cardcap/fantasy-engine/internal/sport"
	"go.uber.org/zap"
)

const (
	baseBand        = 8
	minBand         = 3
	rankDecay       = 0.65
	minRankWeight   = 0.05
	maxDrawAttempts = 12

	defaultAnchorPool = 5
)

// FeasibilityError reports that STRICT generation could not complete a
// roster under the configured constraints.
type FeasibilityError struct {
	Slot         int
	Filled       int
	RemainingCap int
	Reason       string
}

func (e *FeasibilityError) Error() string {
	return fmt.Sprintf("lineup infeasible at slot %d (filled=%d remaining_cap=%d): %s",
		e.Slot, e.Filled, e.RemainingCap, e.Reason)
}

func (e *FeasibilityError) Unwrap() error { return errs.ErrFeasibility }

// Result is a generated roster. Relaxed is set when STRICT generation failed
// and the anchor-first fallback produced the roster.
type Result struct {
	Roster  Roster
	Relaxed bool
}

// Generator draws rosters from a fixed player pool for one sport.
type Generator struct {
	cfg       *sport.Config
	asc       []sport.Player // cheapest first
	desc      []sport.Player // most expensive first
	positions []string       // positions with limits, in config order
	logger    *zap.Logger
}

// NewGenerator prepares pool for cfg. Players with a non-positive salary,
// a salary above the cap, an empty id or a position the sport does not use
// are never drawn. A nil logger disables logging.
func NewGenerator(cfg *sport.Config, pool []sport.Player, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	seen := make(map[string]bool, len(pool))
	usable := make([]sport.Player, 0, len(pool))
	for _, p := range pool {
		if p.ID == "" || seen[p.ID] {
			continue
		}
		if p.Salary <= 0 || p.Salary > cfg.SalaryCap.Max || !cfg.AllowsPosition(p.Position) {
			continue
		}
		seen[p.ID] = true
		usable = append(usable, p)
	}

	asc := append([]sport.Player(nil), usable...)
	sort.SliceStable(asc, func(i, j int) bool {
		if asc[i].Salary != asc[j].Salary {
			return asc[i].Salary < asc[j].Salary
		}
		return asc[i].ID < asc[j].ID
	})
	desc := append([]sport.Player(nil), usable...)
	sort.SliceStable(desc, func(i, j int) bool {
		if desc[i].Salary != desc[j].Salary {
			return desc[i].Salary > desc[j].Salary
		}
		return desc[i].ID < desc[j].ID
	})

	return &Generator{
		cfg:       cfg,
		asc:       asc,
		desc:      desc,
		positions: limitPositions(cfg),
		logger:    logger,
	}
}

// Generate builds a full roster from scratch.
func Generate(cfg *sport.Config, pool []sport.Player, src *rng.Source) (Result, error) {
	return NewGenerator(cfg, pool, nil).Generate(src, nil)
}

// FillRemainingSlots keeps the held slots of roster and redraws every other
// slot. Held players keep their slot index.
func FillRemainingSlots(roster Roster, cfg *sport.Config, pool []sport.Player, src *rng.Source) (Result, error) {
	return NewGenerator(cfg, pool, nil).Generate(src, roster)
}

// Generate runs STRICT generation, keeping held slots of start when start is
// non-nil. In RELAXED mode a feasibility failure falls back to the
// anchor-first builder, which always returns a roster.
func (g *Generator) Generate(src *rng.Source, start Roster) (Result, error) {
	roster, err := g.GenerateStrict(src, start)
	if err == nil {
		return Result{Roster: roster}, nil
	}

	var fe *FeasibilityError
	if g.cfg.Mode() != sport.ModeRelaxed || !errors.As(err, &fe) {
		return Result{}, err
	}
	g.logger.Warn("strict generation infeasible, using relaxed fallback",
		zap.Int("slot", fe.Slot),
		zap.Int("filled", fe.Filled),
		zap.String("reason", fe.Reason),
	)
	return Result{Roster: g.GenerateRelaxed(src, start), Relaxed: true}, nil
}

// GenerateStrict fills empty slots one at a time. Each slot draws from the
// top band of affordable candidates, weighted toward higher salaries, and
// accepts a draw only if the rest of the roster can still be completed
// within the cap range and position limits.
func (g *Generator) GenerateStrict(src *rng.Source, start Roster) (Roster, error) {
	st := g.newState(start)

	for i := range st.roster {
		if st.roster[i].Player != nil {
			continue
		}
		cands := g.candidates(st)
		if len(cands) == 0 {
			return nil, st.infeasible(i, "no affordable candidates")
		}

		band := baseBand - st.filled
		if band < minBand {
			band = minBand
		}
		if band > len(cands) {
			band = len(cands)
		}

		var pick *sport.Player
		for attempt := 0; attempt < maxDrawAttempts; attempt++ {
			c := weightedPick(cands[:band], src)
			if g.feasible(st, c, true) {
				pick = c
				break
			}
		}
		if pick == nil {
			for j := len(cands) - 1; j >= 0; j-- {
				if g.feasible(st, cands[j], true) {
					pick = cands[j]
					break
				}
			}
		}
		if pick == nil {
			return nil, st.infeasible(i, "no candidate keeps the roster completable")
		}

		st.place(i, pick)
		g.logger.Debug("slot filled",
			zap.Int("slot", i),
			zap.String("player_id", pick.ID),
			zap.Int("salary", pick.Salary),
			zap.Int("remaining_cap", st.remaining),
		)
	}

	if st.spent < g.cfg.SalaryCap.Min {
		return nil, st.infeasible(-1, "salary floor not reached")
	}
	return st.roster, nil
}

// GenerateRelaxed is the best-effort builder: it seeds one or two
// high-salary anchors, covers position minimums with the cheapest workable
// players, then fills the rest maximizing cap usage. It never fails and
// never exceeds the cap or a position maximum, but may leave slots empty
// when the pool runs dry.
func (g *Generator) GenerateRelaxed(src *rng.Source, start Roster) Roster {
	st := g.newState(start)

	count, poolSize := 1, defaultAnchorPool
	if a := g.cfg.AnchorStrategy; a != nil {
		if a.Count > 0 {
			count = a.Count
		}
		if a.PoolSize > 0 {
			poolSize = a.PoolSize
		}
	}
	if count > 2 {
		count = 2
	}

	for n := 0; n < count && st.empty() > 0; n++ {
		var band []*sport.Player
		for _, c := range g.candidates(st) {
			if g.feasible(st, c, false) {
				band = append(band, c)
				if len(band) == poolSize {
					break
				}
			}
		}
		anchor, err := rng.Choice(src, band)
		if err != nil {
			break
		}
		st.place(st.firstEmpty(), anchor)
		g.logger.Debug("anchor placed", zap.String("player_id", anchor.ID), zap.Int("salary", anchor.Salary))
	}

	for _, pos := range g.positions {
		need := g.cfg.PositionLimits[pos].Min
		for st.counts[pos] < need && st.empty() > 0 {
			p := g.cheapestAt(st, pos, true)
			if p == nil {
				p = g.cheapestAt(st, pos, false)
			}
			if p == nil {
				break
			}
			st.place(st.firstEmpty(), p)
		}
	}

	for st.empty() > 0 {
		cands := g.candidates(st)
		var pick *sport.Player
		for _, c := range cands {
			if g.feasible(st, c, false) {
				pick = c
				break
			}
		}
		if pick == nil && len(cands) > 0 {
			pick = cands[0]
		}
		if pick == nil {
			g.logger.Warn("relaxed roster left incomplete",
				zap.Int("empty_slots", st.empty()),
				zap.Int("remaining_cap", st.remaining),
			)
			break
		}
		st.place(st.firstEmpty(), pick)
	}
	return st.roster
}

func (g *Generator) cheapestAt(st *buildState, pos string, checked bool) *sport.Player {
	for i := range g.asc {
		p := &g.asc[i]
		if p.Position != pos || !g.eligible(st, p) {
			continue
		}
		if checked && !g.feasible(st, p, false) {
			continue
		}
		return p
	}
	return nil
}

// candidates returns every eligible player, most expensive first.
func (g *Generator) candidates(st *buildState) []*sport.Player {
	var out []*sport.Player
	for i := range g.desc {
		if g.eligible(st, &g.desc[i]) {
			out = append(out, &g.desc[i])
		}
	}
	return out
}

func (g *Generator) eligible(st *buildState, p *sport.Player) bool {
	return !st.used[p.BaseID()] && p.Salary <= st.remaining && g.underMax(p.Position, st.counts[p.Position])
}

func (g *Generator) underMax(pos string, current int) bool {
	lim, ok := g.cfg.LimitFor(pos)
	return !ok || lim.Max <= 0 || current < lim.Max
}

// feasible reports whether placing pick still leaves a completable roster:
// the cheapest completion must fit the remaining cap and, when floor is set,
// an optimistic completion must be able to reach the cap minimum.
func (g *Generator) feasible(st *buildState, pick *sport.Player, floor bool) bool {
	spent := st.spent + pick.Salary
	budget := g.cfg.SalaryCap.Max - spent
	if budget < 0 {
		return false
	}
	slotsLeft := st.empty() - 1

	cost, ok := g.lookahead(st, pick).minCostToFinish(slotsLeft)
	if !ok || cost > budget {
		return false
	}
	if floor && g.cfg.SalaryCap.HasFloor() {
		if spent+g.lookahead(st, pick).maxReachable(slotsLeft, budget) < g.cfg.SalaryCap.Min {
			return false
		}
	}
	return true
}

func (g *Generator) lookahead(st *buildState, pick *sport.Player) *lookahead {
	return &lookahead{g: g, st: st, pick: pick, taken: make(map[string]bool), extra: make(map[string]int)}
}

// lookahead evaluates a hypothetical placement without mutating the state.
type lookahead struct {
	g     *Generator
	st    *buildState
	pick  *sport.Player
	taken map[string]bool
	extra map[string]int
}

func (l *lookahead) used(base string) bool {
	return l.st.used[base] || l.taken[base] || base == l.pick.BaseID()
}

func (l *lookahead) count(pos string) int {
	n := l.st.counts[pos] + l.extra[pos]
	if l.pick.Position == pos {
		n++
	}
	return n
}

func (l *lookahead) take(p *sport.Player) {
	l.taken[p.BaseID()] = true
	l.extra[p.Position]++
}

// minCostToFinish prices the cheapest players that cover every unmet
// position minimum plus the cheapest flex fill for the remaining slots.
func (l *lookahead) minCostToFinish(slotsLeft int) (int, bool) {
	cost, required := 0, 0
	for _, pos := range l.g.positions {
		need := l.g.cfg.PositionLimits[pos].Min - l.count(pos)
		for ; need > 0; need-- {
			var found *sport.Player
			for i := range l.g.asc {
				p := &l.g.asc[i]
				if p.Position == pos && !l.used(p.BaseID()) {
					found = p
					break
				}
			}
			if found == nil {
				return 0, false
			}
			l.take(found)
			cost += found.Salary
			required++
		}
	}
	if required > slotsLeft {
		return 0, false
	}

	flex := slotsLeft - required
	for i := range l.g.asc {
		if flex == 0 {
			break
		}
		p := &l.g.asc[i]
		if l.used(p.BaseID()) || !l.g.underMax(p.Position, l.count(p.Position)) {
			continue
		}
		l.take(p)
		cost += p.Salary
		flex--
	}
	if flex > 0 {
		return 0, false
	}
	return cost, true
}

// maxReachable is an optimistic bound on what slotsLeft more players could
// add to the spend: the most expensive affordable player for each unmet
// minimum, then the most expensive flex players, capped at budget.
func (l *lookahead) maxReachable(slotsLeft int, budget int) int {
	sum, required := 0, 0
	for _, pos := range l.g.positions {
		need := l.g.cfg.PositionLimits[pos].Min - l.count(pos)
		for ; need > 0 && required < slotsLeft; need-- {
			var found *sport.Player
			for i := range l.g.desc {
				p := &l.g.desc[i]
				if p.Position == pos && p.Salary <= budget && !l.used(p.BaseID()) {
					found = p
					break
				}
			}
			if found == nil {
				break
			}
			l.take(found)
			sum += found.Salary
			required++
		}
	}

	flex := slotsLeft - required
	for i := range l.g.desc {
		if flex <= 0 {
			break
		}
		p := &l.g.desc[i]
		if p.Salary > budget || l.used(p.BaseID()) || !l.g.underMax(p.Position, l.count(p.Position)) {
			continue
		}
		l.take(p)
		sum += p.Salary
		flex--
	}
	if sum > budget {
		return budget
	}
	return sum
}

// weightedPick draws from band with weight max(decay^rank, floor).
func weightedPick(band []*sport.Player, src *rng.Source) *sport.Player {
	weights := make([]float64, len(band))
	total := 0.0
	for i := range band {
		weights[i] = math.Max(math.Pow(rankDecay, float64(i)), minRankWeight)
		total += weights[i]
	}
	r := src.Float64() * total
	for i, w := range weights {
		if r < w {
			return band[i]
		}
		r -= w
	}
	return band[len(band)-1]
}

type buildState struct {
	roster    Roster
	spent     int
	remaining int
	filled    int
	used      map[string]bool
	counts    map[string]int
}

func (g *Generator) newState(start Roster) *buildState {
	st := &buildState{
		roster:    NewRoster(g.cfg.MaxPlayers),
		remaining: g.cfg.SalaryCap.Max,
		used:      make(map[string]bool),
		counts:    make(map[string]int),
	}
	for _, s := range start {
		if !s.Held || s.Player == nil || s.Index < 0 || s.Index >= len(st.roster) {
			continue
		}
		st.place(s.Index, s.Player)
		st.roster[s.Index].Held = true
	}
	return st
}

func (st *buildState) place(i int, p *sport.Player) {
	cp := *p
	st.roster[i].Player = &cp
	st.spent += p.Salary
	st.remaining -= p.Salary
	st.filled++
	st.used[p.BaseID()] = true
	st.counts[p.Position]++
}

func (st *buildState) empty() int {
	return len(st.roster) - st.filled
}

func (st *buildState) firstEmpty() int {
	for i, s := range st.roster {
		if s.Player == nil {
			return i
		}
	}
	return -1
}

func (st *buildState) infeasible(slot int, reason string) *FeasibilityError {
	return &FeasibilityError{Slot: slot, Filled: st.filled, RemainingCap: st.remaining, Reason: reason}
}

// limitPositions lists positions with a configured limit: those named in
// Positions first, in order, then any others sorted.
func limitPositions(cfg *sport.Config) []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range cfg.Positions {
		if _, ok := cfg.PositionLimits[p]; ok && !seen[p] {
			out = append(out, p)
			seen[p] = true
		}
	}
	var rest []string
	for p := range cfg.PositionLimits {
		if !seen[p] {
			rest = append(rest, p)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
