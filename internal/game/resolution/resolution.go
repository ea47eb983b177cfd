// Package resolution turns a final roster into scored results by sampling
// each player's historical game logs.
package resolution

import (
	"fmt"
	"sort"
	"time"

	"github.com/cardcap/fantasy-engine/internal/game/achievements"
	"github.com/cardcap/fantasy-engine/internal/game/errs"
	"github.com/cardcap/fantasy-engine/internal/game/lineup"
	"github.com/cardcap/fantasy-engine/internal/game/logfilter"
	"github.com/cardcap/fantasy-engine/internal/game/rng"
	"github.com/cardcap/fantasy-engine/internal/game/scoring"
	"github.com/cardcap/fantasy-engine/internal/sport"
)

// DefaultMaxMulligans bounds log redraws per player.
const DefaultMaxMulligans = 100

// ErrMissingOpponentFP is returned for HEAD_TO_HEAD without an opponent score.
var ErrMissingOpponentFP = fmt.Errorf("%w: opponent fantasy points required for head-to-head", errs.ErrEmptyInput)

// Resolution is the scored outcome for one rostered player.
type Resolution struct {
	PlayerID              string             `json:"playerId"`
	ActualStats           map[string]float64 `json:"actualStats"`
	ActualEvents          map[string]float64 `json:"actualEvents"`
	BaseFantasyPoints     float64            `json:"baseFantasyPoints"`
	AchievementBonus      float64            `json:"achievementBonus"`
	FantasyPoints         float64            `json:"fantasyPoints"`
	TriggeredAchievements []string           `json:"triggeredAchievements"`
	GameDate              string             `json:"gameDate,omitempty"`
	Mulligans             int                `json:"mulligans"`
	DidNotPlay            bool               `json:"didNotPlay"`
}

// Clone deep-copies the stat maps and achievement ids.
func (r Resolution) Clone() Resolution {
	out := r
	out.ActualStats = copyMap(r.ActualStats)
	out.ActualEvents = copyMap(r.ActualEvents)
	out.TriggeredAchievements = append([]string{}, r.TriggeredAchievements...)
	return out
}

// Options tunes sampling.
type Options struct {
	MaxMulligans int
	Now          time.Time
}

func (o Options) maxMulligans() int {
	if o.MaxMulligans <= 0 {
		return DefaultMaxMulligans
	}
	return o.MaxMulligans
}

// ResolvePlayer samples one eligible log for player and scores it. A drawn
// log with neither stats nor events is an empty box-score row and is
// redrawn. With no usable log, or once redraws run out, the player scores a
// zero line, which still runs through achievements.
func ResolvePlayer(player sport.Player, logs []sport.GameLog, cfg *sport.Config, src *rng.Source, opts Options) Resolution {
	eligible := logfilter.EligibleLogs(player, logs, cfg.HistoricalLogFilters, opts.Now)

	var (
		picked    *sport.GameLog
		mulligans int
	)
	if hasUsable(eligible) {
		for draw := 0; draw < opts.maxMulligans(); draw++ {
			l, err := rng.Choice(src, eligible)
			if err != nil {
				break
			}
			if isEmpty(l) {
				mulligans++
				continue
			}
			picked = &l
			break
		}
	}

	line := sport.GameLog{PlayerID: player.ID, Stats: map[string]float64{}, Events: map[string]float64{}}
	if picked != nil {
		line = *picked
	}

	base := scoring.FantasyPoints(line.Stats, cfg)
	eval := achievements.Evaluate(cfg.Achievements, line)
	total := achievements.Apply(base, eval.Triggered)

	return Resolution{
		PlayerID:              player.ID,
		ActualStats:           copyMap(line.Stats),
		ActualEvents:          copyMap(line.Events),
		BaseFantasyPoints:     base,
		AchievementBonus:      scoring.Sum(total, -base),
		FantasyPoints:         total,
		TriggeredAchievements: eval.IDs(),
		GameDate:              line.GameDate,
		Mulligans:             mulligans,
		DidNotPlay:            picked == nil,
	}
}

// ResolveRoster resolves every filled slot in slot order and returns the
// resolutions with their team total.
func ResolveRoster(roster lineup.Roster, logsByPlayer map[string][]sport.GameLog, cfg *sport.Config, src *rng.Source, opts Options) ([]Resolution, float64) {
	out := make([]Resolution, 0, len(roster))
	for _, slot := range roster {
		if slot.Player == nil {
			continue
		}
		out = append(out, ResolvePlayer(*slot.Player, logsByPlayer[slot.Player.ID], cfg, src, opts))
	}
	return out, TeamTotal(out)
}

// TeamTotal sums fantasy points with two-decimal rounding.
func TeamTotal(res []Resolution) float64 {
	values := make([]float64, len(res))
	for i, r := range res {
		values[i] = r.FantasyPoints
	}
	return scoring.Sum(values...)
}

// EvaluateWinCondition reports whether teamFP wins. FIXED_THRESHOLD wins
// when any threshold is met. HEAD_TO_HEAD needs opponentFP and wins only on
// a strictly higher score.
func EvaluateWinCondition(teamFP float64, wc sport.WinCondition, opponentFP *float64) (bool, error) {
	switch wc.Type {
	case sport.WinFixedThreshold:
		return metAny(teamFP, wc.Thresholds), nil
	case sport.WinHeadToHead:
		if opponentFP == nil {
			return false, ErrMissingOpponentFP
		}
		return teamFP > *opponentFP, nil
	default:
		return false, fmt.Errorf("%w: unknown win condition %q", errs.ErrValidation, wc.Type)
	}
}

// WinTier returns the label of the highest threshold teamFP meets, or ""
// when none is met.
func WinTier(teamFP float64, wc sport.WinCondition) string {
	sorted := append([]sport.Threshold(nil), wc.Thresholds...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Points > sorted[j].Points })
	for _, t := range sorted {
		if teamFP >= t.Points {
			return t.Label
		}
	}
	return ""
}

func metAny(teamFP float64, thresholds []sport.Threshold) bool {
	for _, t := range thresholds {
		if teamFP >= t.Points {
			return true
		}
	}
	return false
}

func isEmpty(l sport.GameLog) bool {
	return len(l.Stats) == 0 && len(l.Events) == 0
}

func hasUsable(logs []sport.GameLog) bool {
	for _, l := range logs {
		if !isEmpty(l) {
			return true
		}
	}
	return false
}

func copyMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
