package provider

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/cardcap/fantasy-engine/internal/provider/schema"
	"github.com/cardcap/fantasy-engine/internal/sport"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// ErrDuplicatePlayer is returned by Import when a player id already exists.
var ErrDuplicatePlayer = errors.New("player already exists")

// SQLite serves players and logs from a SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens dsn with the pure-Go driver and applies the schema.
func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("sqlite dsn is required")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps :memory: databases coherent and serialises writes.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	s := &SQLite{db: db}
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database handle.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// EnsureSchema creates missing tables and indexes. It is idempotent.
func (s *SQLite) EnsureSchema(ctx context.Context) error {
	names, err := fs.Glob(schema.FS, "*.sql")
	if err != nil {
		return fmt.Errorf("list schema files: %w", err)
	}
	sort.Strings(names)
	for _, name := range names {
		data, err := fs.ReadFile(schema.FS, name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		for _, stmt := range strings.Split(string(data), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("apply %s: %w", name, err)
			}
		}
	}
	return nil
}

// Import inserts players for sportID and their logs in one transaction.
// Logs for players outside the batch must reference already stored players.
func (s *SQLite) Import(ctx context.Context, sportID string, players []sport.Player, logs []sport.GameLog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range players {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO players (id, sport_id, base_player_id, name, position, salary, team, tier, season)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, sportID, p.BasePlayerID, p.Name, p.Position, p.Salary, p.Team, string(p.Tier), p.Season,
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("import %s: %w", p.ID, ErrDuplicatePlayer)
		}
		if err != nil {
			return fmt.Errorf("insert player %s: %w", p.ID, err)
		}
	}

	for i, l := range logs {
		stats, err := json.Marshal(nonNil(l.Stats))
		if err != nil {
			return fmt.Errorf("encode stats for log %d: %w", i, err)
		}
		events, err := json.Marshal(nonNil(l.Events))
		if err != nil {
			return fmt.Errorf("encode events for log %d: %w", i, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO game_logs (player_id, game_date, stats, events, minutes, snaps, attempts)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			l.PlayerID, l.GameDate, string(stats), string(events),
			nullFloat(l.Minutes), nullFloat(l.Snaps), nullFloat(l.Attempts),
		)
		if err != nil {
			return fmt.Errorf("insert log %d for %s: %w", i, l.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

// ImportFrom copies every player of sportID from src, with their logs and
// any known headshots, and returns the number of players copied.
func (s *SQLite) ImportFrom(ctx context.Context, src DataProvider, sportID string) (int, error) {
	b, err := Prefetch(ctx, src, sportID)
	if err != nil {
		return 0, err
	}
	if err := s.Import(ctx, sportID, b.Players, b.GameLogs); err != nil {
		return 0, err
	}
	for _, p := range b.Players {
		url, err := src.Headshot(ctx, p.ID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("headshot for %s: %w", p.ID, err)
		}
		if err := s.SetHeadshot(ctx, p.ID, url); err != nil {
			return 0, err
		}
	}
	return len(b.Players), nil
}

// SetHeadshot stores the headshot URL for playerID.
func (s *SQLite) SetHeadshot(ctx context.Context, playerID, url string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE players SET headshot = ? WHERE id = ?`, url, playerID)
	if err != nil {
		return fmt.Errorf("update headshot: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("player %s: %w", playerID, ErrNotFound)
	}
	return nil
}

// Players returns every player of sportID ordered by id.
func (s *SQLite) Players(ctx context.Context, sportID string) ([]sport.Player, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, base_player_id, name, position, salary, team, tier, season
		 FROM players WHERE sport_id = ? ORDER BY id`, sportID)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	var out []sport.Player
	for rows.Next() {
		var (
			p    sport.Player
			tier string
		)
		if err := rows.Scan(&p.ID, &p.BasePlayerID, &p.Name, &p.Position, &p.Salary, &p.Team, &tier, &p.Season); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p.Tier = sport.Tier(tier)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	return out, nil
}

// GameLogs returns playerID's logs in date order, filtered by q.
func (s *SQLite) GameLogs(ctx context.Context, playerID string, q LogQuery) ([]sport.GameLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_date, stats, events, minutes, snaps, attempts
		 FROM game_logs WHERE player_id = ? ORDER BY game_date, id`, playerID)
	if err != nil {
		return nil, fmt.Errorf("query game logs: %w", err)
	}
	defer rows.Close()

	var logs []sport.GameLog
	for rows.Next() {
		var (
			l                        sport.GameLog
			stats, events            string
			minutes, snaps, attempts sql.NullFloat64
		)
		if err := rows.Scan(&l.GameDate, &stats, &events, &minutes, &snaps, &attempts); err != nil {
			return nil, fmt.Errorf("scan game log: %w", err)
		}
		if err := json.Unmarshal([]byte(stats), &l.Stats); err != nil {
			return nil, fmt.Errorf("decode stats: %w", err)
		}
		if err := json.Unmarshal([]byte(events), &l.Events); err != nil {
			return nil, fmt.Errorf("decode events: %w", err)
		}
		l.PlayerID = playerID
		l.Minutes = floatPtr(minutes)
		l.Snaps = floatPtr(snaps)
		l.Attempts = floatPtr(attempts)
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game logs: %w", err)
	}
	return applyQuery(playerID, logs, q), nil
}

// Headshot returns the stored headshot URL for playerID.
func (s *SQLite) Headshot(ctx context.Context, playerID string) (string, error) {
	var url string
	err := s.db.QueryRowContext(ctx, `SELECT headshot FROM players WHERE id = ?`, playerID).Scan(&url)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && url == "") {
		return "", fmt.Errorf("headshot for %s: %w", playerID, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("query headshot: %w", err)
	}
	return url, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func nonNil(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

var _ DataProvider = (*SQLite)(nil)
