package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/cardcap/fantasy-engine/internal/sport"
)

const (
	playersFile   = "players.json"
	gameLogsFile  = "gamelogs.json"
	headshotsFile = "headshots.json"
)

// JSONDir reads <root>/<sport>/players.json, gamelogs.json and
// headshots.json. Files are parsed once and cached.
type JSONDir struct {
	root string

	mu        sync.Mutex
	players   map[string][]sport.Player
	logs      map[string]map[string][]sport.GameLog // sport -> player -> logs
	headshots map[string]string
}

// NewJSONDir creates a provider rooted at root.
func NewJSONDir(root string) *JSONDir {
	return &JSONDir{
		root:    root,
		players: make(map[string][]sport.Player),
		logs:    make(map[string]map[string][]sport.GameLog),
	}
}

// Players returns every player of sportID in file order.
func (d *JSONDir) Players(ctx context.Context, sportID string) ([]sport.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if cached, ok := d.players[sportID]; ok {
		return append([]sport.Player(nil), cached...), nil
	}
	var players []sport.Player
	if err := readJSON(filepath.Join(d.root, sportID, playersFile), &players); err != nil {
		return nil, err
	}
	d.players[sportID] = players
	return append([]sport.Player(nil), players...), nil
}

// GameLogs returns the logs of playerID in q.Sport that pass q.Filters.
// A sport without a game log file has no logs.
func (d *JSONDir) GameLogs(ctx context.Context, playerID string, q LogQuery) ([]sport.GameLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q.Sport == "" {
		return nil, fmt.Errorf("log query needs a sport")
	}
	d.mu.Lock()
	byPlayer, ok := d.logs[q.Sport]
	if !ok {
		var all []sport.GameLog
		err := readJSON(filepath.Join(d.root, q.Sport, gameLogsFile), &all)
		if err != nil && !errors.Is(err, ErrNotFound) {
			d.mu.Unlock()
			return nil, err
		}
		byPlayer = make(map[string][]sport.GameLog)
		for _, l := range all {
			byPlayer[l.PlayerID] = append(byPlayer[l.PlayerID], l)
		}
		d.logs[q.Sport] = byPlayer
	}
	logs := byPlayer[playerID]
	d.mu.Unlock()

	return applyQuery(playerID, logs, q), nil
}

// Headshot looks playerID up in every sport's headshots.json.
func (d *JSONDir) Headshot(ctx context.Context, playerID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.headshots == nil {
		all, err := d.loadHeadshots()
		if err != nil {
			return "", err
		}
		d.headshots = all
	}
	url, ok := d.headshots[playerID]
	if !ok {
		return "", fmt.Errorf("headshot for %s: %w", playerID, ErrNotFound)
	}
	return url, nil
}

func (d *JSONDir) loadHeadshots() (map[string]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	all := make(map[string]string)
	for _, name := range names {
		var m map[string]string
		err := readJSON(filepath.Join(d.root, name, headshotsFile), &m)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for id, url := range m {
			if _, seen := all[id]; !seen {
				all[id] = url
			}
		}
	}
	return all, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

var _ DataProvider = (*JSONDir)(nil)
