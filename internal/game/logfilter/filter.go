// Package logfilter selects the historical logs a player may be resolved
// against.
package logfilter

import (
	"time"

	"github.com/cardcap/fantasy-engine/internal/sport"
)

// dateLayouts are the accepted gameDate formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
}

// ParseGameDate parses a gameDate string in any accepted layout.
func ParseGameDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Cutoff returns the earliest eligible game date for seasonsBack, counting
// one season as one calendar year back from now. ok is false when no date
// restriction applies.
func Cutoff(seasonsBack *int, now time.Time) (cutoff time.Time, ok bool) {
	if seasonsBack == nil || *seasonsBack <= 0 {
		return time.Time{}, false
	}
	return now.AddDate(-*seasonsBack, 0, 0), true
}

// EligibleLogs returns the logs of player that pass filters.
//
// Minimum filters apply in the order minutes, snaps, attempts. Each reads the
// field on the log, or the same-named stat when the field is nil; a log that
// carries neither is kept rather than rejected. Logs with an unparsable date
// are kept by the seasonsBack cutoff. The result may be empty.
func EligibleLogs(player sport.Player, logs []sport.GameLog, filters sport.LogFilters, now time.Time) []sport.GameLog {
	out := make([]sport.GameLog, 0, len(logs))
	for _, l := range logs {
		if l.PlayerID == player.ID {
			out = append(out, l)
		}
	}

	out = applyMinimum(out, filters.MinMinutes, func(l sport.GameLog) *float64 { return l.Minutes }, "minutes")
	out = applyMinimum(out, filters.MinSnaps, func(l sport.GameLog) *float64 { return l.Snaps }, "snaps")
	out = applyMinimum(out, filters.MinAttempts, func(l sport.GameLog) *float64 { return l.Attempts }, "attempts")

	cutoff, ok := Cutoff(filters.SeasonsBack, now)
	if !ok {
		return out
	}
	kept := out[:0]
	for _, l := range out {
		date, parsed := ParseGameDate(l.GameDate)
		if !parsed || !date.Before(cutoff) {
			kept = append(kept, l)
		}
	}
	return kept
}

func applyMinimum(logs []sport.GameLog, min *float64, field func(sport.GameLog) *float64, statKey string) []sport.GameLog {
	if min == nil {
		return logs
	}
	kept := logs[:0]
	for _, l := range logs {
		v, present := readValue(l, field(l), statKey)
		if !present || v >= *min {
			kept = append(kept, l)
		}
	}
	return kept
}

func readValue(l sport.GameLog, direct *float64, statKey string) (float64, bool) {
	if direct != nil {
		return *direct, true
	}
	v, ok := l.Stats[statKey]
	return v, ok
}
