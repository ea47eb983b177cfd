package logfilter

import (
	"testing"
	"time"

	"github.com/cardcap/fantasy-engine/internal/sport"
	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }
func n(v int) *int         { return &v }

var now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func dates(logs []sport.GameLog) []string {
	out := make([]string, len(logs))
	for i, l := range logs {
		out[i] = l.GameDate
	}
	return out
}

func TestEligibleLogsFiltersByPlayer(t *testing.T) {
	p := sport.Player{ID: "p1"}
	logs := []sport.GameLog{
		{PlayerID: "p1", GameDate: "2025-01-01"},
		{PlayerID: "p2", GameDate: "2025-01-02"},
		{PlayerID: "p1", GameDate: "2025-01-03"},
	}

	got := EligibleLogs(p, logs, sport.LogFilters{}, now)
	assert.Equal(t, []string{"2025-01-01", "2025-01-03"}, dates(got))
}

func TestEligibleLogsMinimums(t *testing.T) {
	p := sport.Player{ID: "p1"}
	logs := []sport.GameLog{
		{PlayerID: "p1", GameDate: "a", Minutes: f(90)},
		{PlayerID: "p1", GameDate: "b", Minutes: f(5)},
		{PlayerID: "p1", GameDate: "c", Stats: map[string]float64{"minutes": 30}},
		{PlayerID: "p1", GameDate: "d", Stats: map[string]float64{"minutes": 2}},
		{PlayerID: "p1", GameDate: "e"}, // no minutes anywhere: kept
	}

	got := EligibleLogs(p, logs, sport.LogFilters{MinMinutes: f(10)}, now)
	assert.Equal(t, []string{"a", "c", "e"}, dates(got))
}

func TestEligibleLogsDirectFieldWinsOverStat(t *testing.T) {
	p := sport.Player{ID: "p1"}
	logs := []sport.GameLog{
		{PlayerID: "p1", GameDate: "a", Snaps: f(1), Stats: map[string]float64{"snaps": 60}},
	}
	assert.Empty(t, EligibleLogs(p, logs, sport.LogFilters{MinSnaps: f(20)}, now))
}

func TestEligibleLogsAttempts(t *testing.T) {
	p := sport.Player{ID: "qb"}
	logs := []sport.GameLog{
		{PlayerID: "qb", GameDate: "a", Attempts: f(30)},
		{PlayerID: "qb", GameDate: "b", Attempts: f(3)},
	}
	got := EligibleLogs(p, logs, sport.LogFilters{MinAttempts: f(10)}, now)
	assert.Equal(t, []string{"a"}, dates(got))
}

func TestEligibleLogsSeasonsBack(t *testing.T) {
	p := sport.Player{ID: "p1"}
	logs := []sport.GameLog{
		{PlayerID: "p1", GameDate: "2025-03-01"},
		{PlayerID: "p1", GameDate: "2023-06-01"}, // exactly on cutoff: kept
		{PlayerID: "p1", GameDate: "2023-05-31"},
		{PlayerID: "p1", GameDate: "2024-11-02T19:30:00Z"},
		{PlayerID: "p1", GameDate: "last tuesday"}, // unparsable: kept
		{PlayerID: "p1", GameDate: "12/25/2019"},
	}

	got := EligibleLogs(p, logs, sport.LogFilters{SeasonsBack: n(2)}, now)
	assert.Equal(t, []string{"2025-03-01", "2023-06-01", "2024-11-02T19:30:00Z", "last tuesday"}, dates(got))
}

func TestEligibleLogsDoesNotMutateInput(t *testing.T) {
	p := sport.Player{ID: "p1"}
	logs := []sport.GameLog{
		{PlayerID: "p1", GameDate: "a", Minutes: f(1)},
		{PlayerID: "p1", GameDate: "b", Minutes: f(50)},
	}
	EligibleLogs(p, logs, sport.LogFilters{MinMinutes: f(10)}, now)
	assert.Equal(t, "a", logs[0].GameDate)
	assert.Equal(t, "b", logs[1].GameDate)
}

func TestCutoff(t *testing.T) {
	_, ok := Cutoff(nil, now)
	assert.False(t, ok)
	_, ok = Cutoff(n(0), now)
	assert.False(t, ok)

	c, ok := Cutoff(n(3), now)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), c)
}
