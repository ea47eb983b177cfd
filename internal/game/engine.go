// Package game drives a fantasy card session through its lifecycle: deal,
// hold, final draw and resolution against historical game logs.
package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/cardcap/fantasy-engine/internal/game/errs"
	"github.com/cardcap/fantasy-engine/internal/game/lineup"
	"github.com/cardcap/fantasy-engine/internal/game/resolution"
	"github.com/cardcap/fantasy-engine/internal/game/rng"
	"github.com/cardcap/fantasy-engine/internal/game/rules"
	"github.com/cardcap/fantasy-engine/internal/game/scoring"
	"github.com/cardcap/fantasy-engine/internal/sport"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// projectionSalt separates the projection stream from the session stream.
const projectionSalt uint32 = 0x9e3779b9

var (
	// ErrNoSession is returned when an operation needs an active session.
	ErrNoSession = fmt.Errorf("%w: no active session", errs.ErrState)

	// ErrSlotIndex is returned for a hold toggle on a missing or empty slot.
	ErrSlotIndex = fmt.Errorf("%w: invalid slot", errs.ErrValidation)
)

// EngineContext is everything an engine needs, resolved up front by the
// caller. The engine never fetches data itself.
type EngineContext struct {
	SportConfig *sport.Config
	Players     []sport.Player
	GameLogs    []sport.GameLog

	// Seed, when set, seeds sessions created without an explicit seed.
	Seed *uint32
	// Now drives log recency filters and event timestamps. Defaults to time.Now.
	Now func() time.Time
	// MaxMulligans bounds log redraws per player during resolution.
	MaxMulligans int
	// ProjectionNoise perturbs projections by a seeded factor in [0.9, 1.1).
	ProjectionNoise bool
}

// Engine owns at most one session. It holds no lock: callers serialise
// access or create one engine per player.
type Engine struct {
	cfg          *sport.Config
	players      []sport.Player
	logsByPlayer map[string][]sport.GameLog
	seed         *uint32
	now          func() time.Time
	maxMulligans int
	noise        bool

	generator *lineup.Generator
	events    *rules.EventBus
	logger    *zap.Logger

	session     *Session
	src         *rng.Source
	resolutions []resolution.Resolution
	history     *History
}

// NewEngine validates the sport config and builds an engine over a private
// copy of it.
func NewEngine(ctx EngineContext, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ctx.SportConfig == nil {
		return nil, fmt.Errorf("%w: sport config is required", errs.ErrValidation)
	}
	if err := sport.Validate(ctx.SportConfig); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrValidation, err)
	}

	cfg := ctx.SportConfig.Clone()
	now := ctx.Now
	if now == nil {
		now = time.Now
	}
	players := append([]sport.Player(nil), ctx.Players...)

	e := &Engine{
		cfg:          cfg,
		players:      players,
		logsByPlayer: scoring.GroupLogs(ctx.GameLogs),
		seed:         ctx.Seed,
		now:          now,
		maxMulligans: ctx.MaxMulligans,
		noise:        ctx.ProjectionNoise,
		generator:    lineup.NewGenerator(cfg, players, logger.Named("lineup")),
		events:       rules.NewEventBus(),
		logger:       logger,
	}
	return e, nil
}

// Config returns a copy of the engine's sport config.
func (e *Engine) Config() *sport.Config { return e.cfg.Clone() }

// Events returns the bus session events are published on.
func (e *Engine) Events() *rules.EventBus { return e.events }

// Session returns a snapshot of the active session, or nil.
func (e *Engine) Session() *Session { return e.session.Clone() }

// CreateSession starts a new session in IDLE. An empty id gets a random
// UUID. The seed is taken from the argument, else the engine seed, else the
// clock. Fails while a non-terminal session is active.
func (e *Engine) CreateSession(id, sportID string, seed *uint32) (*Session, error) {
	if e.session != nil && !rules.IsTerminal(e.session.State) {
		return nil, fmt.Errorf("%w: session %s is active in %s", errs.ErrState, e.session.ID, e.session.State)
	}
	if sportID == "" {
		sportID = e.cfg.ID
	}
	if sportID != e.cfg.ID {
		return nil, fmt.Errorf("%w: engine serves sport %q, not %q", errs.ErrValidation, e.cfg.ID, sportID)
	}
	if id == "" {
		id = uuid.NewString()
	}

	var src *rng.Source
	switch {
	case seed != nil:
		src = rng.New(*seed)
	case e.seed != nil:
		src = rng.New(*e.seed)
	default:
		src = rng.NewFromClock()
	}
	s := src.Seed()

	session := &Session{
		ID:           id,
		SportID:      sportID,
		Seed:         s,
		State:        rules.StateIdle,
		Roster:       lineup.NewRoster(e.cfg.MaxPlayers),
		RemainingCap: e.cfg.SalaryCap.Max,
	}

	e.src = src
	e.resolutions = nil
	e.history = NewHistory(id)
	if err := e.commit(session); err != nil {
		return nil, err
	}
	e.events.Publish(rules.NewEvent(rules.EventSessionCreated, id, e.now()))

	e.logger.Info("session created",
		zap.String("session_id", id),
		zap.String("sport_id", sportID),
		zap.Uint32("seed", s),
	)
	return session.Clone(), nil
}

// InitialDeal moves IDLE -> INITIAL_DEAL -> HOLD_PHASE, dealing a full roster.
// On failure the session is unchanged.
func (e *Engine) InitialDeal() (*Session, error) {
	cur, err := e.active()
	if err != nil {
		return nil, err
	}
	next, err := rules.Transition(cur, rules.StateInitialDeal)
	if err != nil {
		return nil, err
	}

	res, err := e.generator.Generate(e.src, nil)
	if err != nil {
		return nil, fmt.Errorf("initial deal: %w", err)
	}
	if err := e.validate(res); err != nil {
		return nil, fmt.Errorf("initial deal: %w", err)
	}
	next.Roster = res.Roster
	next.RemainingCap = lineup.RemainingCap(res.Roster, e.cfg.SalaryCap)
	next.Relaxed = res.Relaxed

	hold, err := rules.Transition(next, rules.StateHoldPhase)
	if err != nil {
		return nil, err
	}
	if err := e.commitAll(cur, next, hold); err != nil {
		return nil, err
	}
	e.publishRoster(hold, res.Relaxed)
	return hold.Clone(), nil
}

// ToggleHold flips the held flag on a filled slot during HOLD_PHASE.
func (e *Engine) ToggleHold(index int) (*Session, error) {
	cur, err := e.active()
	if err != nil {
		return nil, err
	}
	next, err := rules.Transition(cur, rules.StateHoldPhase)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(next.Roster) {
		return nil, fmt.Errorf("%w: index %d out of range [0,%d)", ErrSlotIndex, index, len(next.Roster))
	}
	slot := &next.Roster[index]
	if slot.Player == nil {
		return nil, fmt.Errorf("%w: slot %d is empty", ErrSlotIndex, index)
	}
	slot.Held = !slot.Held

	if err := e.commit(next); err != nil {
		return nil, err
	}

	evt := rules.NewEvent(rules.EventHoldToggled, next.ID, e.now())
	evt.SlotIndex = index
	evt.PlayerID = slot.Player.ID
	evt.Flag = slot.Held
	e.events.Publish(evt)

	e.logger.Debug("hold toggled",
		zap.String("session_id", next.ID),
		zap.Int("slot", index),
		zap.Bool("held", slot.Held),
	)
	return next.Clone(), nil
}

// FinalDraw moves HOLD_PHASE -> FINAL_DRAW -> RESOLUTION, redrawing every
// slot that is not held. On failure the session is unchanged.
func (e *Engine) FinalDraw() (*Session, error) {
	cur, err := e.active()
	if err != nil {
		return nil, err
	}
	next, err := rules.Transition(cur, rules.StateFinalDraw)
	if err != nil {
		return nil, err
	}

	res, err := e.generator.Generate(e.src, next.Roster)
	if err != nil {
		return nil, fmt.Errorf("final draw: %w", err)
	}
	if err := e.validate(res); err != nil {
		return nil, fmt.Errorf("final draw: %w", err)
	}
	next.Roster = res.Roster
	next.RemainingCap = lineup.RemainingCap(res.Roster, e.cfg.SalaryCap)
	next.Relaxed = res.Relaxed

	resolving, err := rules.Transition(next, rules.StateResolution)
	if err != nil {
		return nil, err
	}
	if err := e.commitAll(cur, next, resolving); err != nil {
		return nil, err
	}
	e.publishRoster(resolving, res.Relaxed)

	held := cur.Roster.HeldCount()
	e.logger.Info("final draw",
		zap.String("session_id", resolving.ID),
		zap.Int("held", held),
		zap.Int("redrawn", resolving.Roster.FilledCount()-held),
	)
	return resolving.Clone(), nil
}

// Resolve moves RESOLUTION -> RESULT, sampling one historical log per
// rostered player. The resolutions are cached: calling Resolve again in
// RESULT returns the same session without resampling.
func (e *Engine) Resolve(opponentFP *float64) (*Session, error) {
	cur, err := e.active()
	if err != nil {
		return nil, err
	}
	if cur.State == rules.StateResult {
		return cur.Clone(), nil
	}
	next, err := rules.Transition(cur, rules.StateResult)
	if err != nil {
		return nil, err
	}
	if e.cfg.WinCondition.Type == sport.WinHeadToHead && opponentFP == nil {
		return nil, resolution.ErrMissingOpponentFP
	}

	res, total := resolution.ResolveRoster(next.Roster, e.logsByPlayer, e.cfg, e.src, resolution.Options{
		MaxMulligans: e.maxMulligans,
		Now:          e.now(),
	})
	win, err := resolution.EvaluateWinCondition(total, e.cfg.WinCondition, opponentFP)
	if err != nil {
		return nil, err
	}

	next.ResolvedTeamFP = &total
	next.WinResult = &win
	next.WinTier = resolution.WinTier(total, e.cfg.WinCondition)

	if err := e.commit(next); err != nil {
		return nil, err
	}
	e.resolutions = res

	at := e.now()
	for _, r := range res {
		evt := rules.NewEvent(rules.EventPlayerResolved, next.ID, at)
		evt.PlayerID = r.PlayerID
		evt.Amount = r.FantasyPoints
		e.events.Publish(evt)
	}
	e.events.Publish(rules.NewPhaseEvent(next.ID, cur.State, next.State, at))
	result := rules.NewEvent(rules.EventSessionResult, next.ID, at)
	result.Amount = total
	result.Flag = win
	e.events.Publish(result)

	e.logger.Info("session resolved",
		zap.String("session_id", next.ID),
		zap.Float64("team_fp", total),
		zap.Bool("win", win),
		zap.String("tier", next.WinTier),
	)
	return next.Clone(), nil
}

// Resolutions returns the cached per-player results. Only valid in RESULT.
func (e *Engine) Resolutions() ([]resolution.Resolution, error) {
	cur, err := e.active()
	if err != nil {
		return nil, err
	}
	if cur.State != rules.StateResult {
		return nil, fmt.Errorf("%w: resolutions are only available in %s, session is in %s",
			errs.ErrState, rules.StateResult, cur.State)
	}
	out := make([]resolution.Resolution, len(e.resolutions))
	for i, r := range e.resolutions {
		out[i] = r.Clone()
	}
	return out, nil
}

// PlayCompleteGame runs a whole session: create, deal, toggle each index in
// holds, final draw and resolve.
func (e *Engine) PlayCompleteGame(id, sportID string, seed *uint32, holds []int, opponentFP *float64) (*Session, []resolution.Resolution, error) {
	if _, err := e.CreateSession(id, sportID, seed); err != nil {
		return nil, nil, err
	}
	if _, err := e.InitialDeal(); err != nil {
		return nil, nil, err
	}
	for _, idx := range holds {
		if _, err := e.ToggleHold(idx); err != nil {
			return nil, nil, err
		}
	}
	if _, err := e.FinalDraw(); err != nil {
		return nil, nil, err
	}
	session, err := e.Resolve(opponentFP)
	if err != nil {
		return nil, nil, err
	}
	res, err := e.Resolutions()
	if err != nil {
		return nil, nil, err
	}
	return session, res, nil
}

// ResetSession drops the active session so a new one can be created.
func (e *Engine) ResetSession() {
	if e.session != nil {
		e.events.Publish(rules.NewEvent(rules.EventSessionReset, e.session.ID, e.now()))
		e.logger.Info("session reset", zap.String("session_id", e.session.ID))
	}
	e.session = nil
	e.src = nil
	e.resolutions = nil
	e.history = nil
}

// Projections returns expected fantasy points for every rostered player.
// Noise, when enabled, comes from a stream derived from the session seed, so
// asking for projections never changes what the session draws next.
func (e *Engine) Projections() ([]scoring.Projection, error) {
	cur, err := e.active()
	if err != nil {
		return nil, err
	}
	players := cur.Roster.Players()
	if len(players) == 0 {
		return nil, fmt.Errorf("%w: no roster dealt yet", errs.ErrState)
	}

	var logs []sport.GameLog
	for _, p := range players {
		logs = append(logs, e.logsByPlayer[p.ID]...)
	}
	var src *rng.Source
	if e.noise {
		src = rng.New(cur.Seed ^ projectionSalt)
	}
	return scoring.GenerateProjections(players, logs, e.cfg, src, e.now()), nil
}

// History returns every snapshot of the active session, oldest first.
func (e *Engine) History() []Snapshot {
	if e.history == nil {
		return nil
	}
	return e.history.Snapshots()
}

// Replay returns the live history of the active session so hosts can step
// through it with Start, Next, Previous and Skip. Nil without a session.
func (e *Engine) Replay() *History { return e.history }

func (e *Engine) active() (*Session, error) {
	if e.session == nil {
		return nil, ErrNoSession
	}
	return e.session, nil
}

func (e *Engine) validate(res lineup.Result) error {
	if res.Relaxed {
		return lineup.ValidateRelaxed(e.cfg, res.Roster)
	}
	return lineup.Validate(e.cfg, res.Roster)
}

// commit records s and makes it the active session.
func (e *Engine) commit(s *Session) error {
	if _, err := e.history.Record(s); err != nil {
		return err
	}
	e.session = s
	return nil
}

// commitAll commits a chain of states reached in one call, publishing a
// phase event for each edge.
func (e *Engine) commitAll(from *Session, chain ...*Session) error {
	var errList []error
	at := e.now()
	prev := from.State
	for _, s := range chain {
		if err := e.commit(s); err != nil {
			errList = append(errList, err)
			continue
		}
		e.events.Publish(rules.NewPhaseEvent(s.ID, prev, s.State, at))
		e.logger.Info("phase changed",
			zap.String("session_id", s.ID),
			zap.Stringer("from", prev),
			zap.Stringer("to", s.State),
		)
		prev = s.State
	}
	return errors.Join(errList...)
}

func (e *Engine) publishRoster(s *Session, relaxed bool) {
	at := e.now()
	for _, slot := range s.Roster {
		if slot.Player == nil {
			continue
		}
		evt := rules.NewEvent(rules.EventRosterDealt, s.ID, at)
		evt.SlotIndex = slot.Index
		evt.PlayerID = slot.Player.ID
		evt.Amount = float64(slot.Player.Salary)
		evt.Flag = slot.Held
		e.events.Publish(evt)
	}
	if relaxed {
		e.logger.Warn("roster built by relaxed fallback",
			zap.String("session_id", s.ID),
			zap.Int("filled", s.Roster.FilledCount()),
			zap.Int("remaining_cap", s.RemainingCap),
		)
		e.events.Publish(rules.NewEvent(rules.EventRelaxedRoster, s.ID, at))
	}
}
