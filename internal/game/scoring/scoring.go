// Package scoring turns stat lines into fantasy points and builds pre-game
// projections. Projections and resolved scores share one weight table so a
// displayed projection is always comparable to the realised outcome.
package scoring

import (
	"time"

	"github.com/cardcap/fantasy-engine/internal/game/logfilter"
	"github.com/cardcap/fantasy-engine/internal/game/rng"
	"github.com/cardcap/fantasy-engine/internal/sport"
	"github.com/shopspring/decimal"
)

// perturbation is the +/- share applied to projections when noise is on.
const perturbation = 0.10

// Sum adds values exactly and rounds the total to two decimal places.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Round(2).InexactFloat64()
}

// FantasyPoints applies the config's projection weights to stats.
// Missing stats and missing weights both count as zero.
func FantasyPoints(stats map[string]float64, cfg *sport.Config) float64 {
	total := decimal.Zero
	for _, category := range cfg.StatCategories {
		v, ok := stats[category]
		if !ok {
			continue
		}
		w, ok := cfg.ProjectionWeights[category]
		if !ok {
			continue
		}
		total = total.Add(decimal.NewFromFloat(v).Mul(decimal.NewFromFloat(w)))
	}
	return total.Round(2).InexactFloat64()
}

// AverageStats averages each category across logs. Categories missing from a
// log count as zero for that log. No logs yields all-zero averages.
func AverageStats(logs []sport.GameLog, categories []string) map[string]float64 {
	out := make(map[string]float64, len(categories))
	for _, c := range categories {
		out[c] = 0
	}
	if len(logs) == 0 {
		return out
	}
	for _, c := range categories {
		sum := 0.0
		for _, l := range logs {
			sum += l.Stats[c]
		}
		out[c] = sum / float64(len(logs))
	}
	return out
}

// Projection is the expected output of one card before resolution.
type Projection struct {
	PlayerID      string             `json:"playerId"`
	Stats         map[string]float64 `json:"stats"`
	FantasyPoints float64            `json:"fantasyPoints"`
	SampleSize    int                `json:"sampleSize"`
	Factor        float64            `json:"factor"`
}

// GenerateProjections projects every player from its eligible logs.
//
// When src is non-nil each player's averages are scaled by one factor drawn
// from [0.9, 1.1), consuming exactly one value per player in slice order.
// Results are returned in the order of players.
func GenerateProjections(players []sport.Player, logs []sport.GameLog, cfg *sport.Config, src *rng.Source, now time.Time) []Projection {
	byPlayer := GroupLogs(logs)
	out := make([]Projection, 0, len(players))
	for _, p := range players {
		eligible := logfilter.EligibleLogs(p, byPlayer[p.ID], cfg.HistoricalLogFilters, now)
		avg := AverageStats(eligible, cfg.StatCategories)

		factor := 1.0
		if src != nil {
			factor = 1 - perturbation + src.Float64()*2*perturbation
			for k, v := range avg {
				avg[k] = v * factor
			}
		}

		out = append(out, Projection{
			PlayerID:      p.ID,
			Stats:         avg,
			FantasyPoints: FantasyPoints(avg, cfg),
			SampleSize:    len(eligible),
			Factor:        factor,
		})
	}
	return out
}

// GroupLogs indexes logs by player id, preserving their relative order.
func GroupLogs(logs []sport.GameLog) map[string][]sport.GameLog {
	out := make(map[string][]sport.GameLog)
	for _, l := range logs {
		out[l.PlayerID] = append(out[l.PlayerID], l)
	}
	return out
}
