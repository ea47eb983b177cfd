// Package provider supplies players, game logs and headshots to the engine.
// The engine never calls a provider itself: hosts prefetch everything a
// session needs and hand it over through game.EngineContext.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cardcap/fantasy-engine/internal/game/logfilter"
	"github.com/cardcap/fantasy-engine/internal/sport"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// LogQuery narrows the logs returned for one player.
type LogQuery struct {
	Sport   string
	Filters sport.LogFilters
	// Now anchors seasonsBack. Zero means time.Now.
	Now time.Time
}

// DataProvider is the read side of a player and game-log store.
type DataProvider interface {
	Players(ctx context.Context, sportID string) ([]sport.Player, error)
	GameLogs(ctx context.Context, playerID string, q LogQuery) ([]sport.GameLog, error)
	Headshot(ctx context.Context, playerID string) (string, error)
}

// Bundle is the data one engine needs.
type Bundle struct {
	Players  []sport.Player
	GameLogs []sport.GameLog
}

// Prefetch loads every player of sportID and all of their logs. Players
// without a tier get one from their salary percentile.
func Prefetch(ctx context.Context, p DataProvider, sportID string) (Bundle, error) {
	players, err := p.Players(ctx, sportID)
	if err != nil {
		return Bundle{}, fmt.Errorf("load players for %s: %w", sportID, err)
	}

	b := Bundle{Players: sport.AssignTiers(players)}
	for _, pl := range players {
		if err := ctx.Err(); err != nil {
			return Bundle{}, err
		}
		logs, err := p.GameLogs(ctx, pl.ID, LogQuery{Sport: sportID})
		if err != nil {
			return Bundle{}, fmt.Errorf("load game logs for %s: %w", pl.ID, err)
		}
		b.GameLogs = append(b.GameLogs, logs...)
	}
	return b, nil
}

func applyQuery(playerID string, logs []sport.GameLog, q LogQuery) []sport.GameLog {
	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}
	return logfilter.EligibleLogs(sport.Player{ID: playerID}, logs, q.Filters, now)
}
