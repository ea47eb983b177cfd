package sport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const soccerYAML = `
id: soccer
name: Five-a-side
positions: [GK, DEF, MID, FWD]
salaryCap:
  min: 100
  max: 150
minPlayers: 5
maxPlayers: 6
positionLimits:
  GK: {min: 1, max: 1}
  DEF: {min: 1, max: 3}
  MID: {min: 1, max: 3}
  FWD: {min: 1, max: 2}
statCategories: [goals, assists, shots]
projectionWeights:
  goals: 6
  assists: 3
  shots: 0.5
historicalLogFilters:
  seasonsBack: 2
  minMinutes: 10
winCondition:
  type: FIXED_THRESHOLD
  thresholds:
    - {points: 20, label: bronze}
    - {points: 35, label: silver}
achievements:
  - id: brace
    name: Brace
    trigger: {type: STAT_THRESHOLD, stat: goals, operator: ">=", threshold: 2}
    reward: {type: BONUS_FP, value: 5}
    visual: {icon: ball}
lineupGenerationMode: RELAXED
anchorStrategy: {count: 2, poolSize: 4}
`

func TestParseConfigYAML(t *testing.T) {
	cfg, err := ParseConfig([]byte(soccerYAML))
	require.NoError(t, err)

	assert.Equal(t, "soccer", cfg.ID)
	assert.Equal(t, SalaryCap{Min: 100, Max: 150}, cfg.SalaryCap)
	assert.Equal(t, Limit{Min: 1, Max: 1}, cfg.PositionLimits["GK"])
	assert.Equal(t, 6.0, cfg.ProjectionWeights["goals"])
	require.NotNil(t, cfg.HistoricalLogFilters.SeasonsBack)
	assert.Equal(t, 2, *cfg.HistoricalLogFilters.SeasonsBack)
	assert.Nil(t, cfg.HistoricalLogFilters.MinSnaps)
	assert.Equal(t, ModeRelaxed, cfg.Mode())
	require.Len(t, cfg.Achievements, 1)
	assert.Equal(t, OpGTE, cfg.Achievements[0].Trigger.Operator)
	assert.Equal(t, "ball", cfg.Achievements[0].Visual["icon"])
	assert.Equal(t, 2, cfg.AnchorStrategy.Count)
}

func TestParseConfigJSON(t *testing.T) {
	doc := `{
		"id": "hoops",
		"positions": ["G", "F", "C"],
		"salaryCap": 50000,
		"maxPlayers": 5,
		"statCategories": ["points"],
		"projectionWeights": {"points": 1},
		"winCondition": {"type": "HEAD_TO_HEAD"}
	}`
	cfg, err := ParseConfig([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, SalaryCap{Max: 50000}, cfg.SalaryCap)
	assert.False(t, cfg.SalaryCap.HasFloor())
	assert.Equal(t, ModeStrict, cfg.Mode())
}

func TestSalaryCapDecoding(t *testing.T) {
	var c SalaryCap
	require.NoError(t, json.Unmarshal([]byte(`150`), &c))
	assert.Equal(t, SalaryCap{Max: 150}, c)

	require.NoError(t, json.Unmarshal([]byte(`{"min": 90, "max": 150}`), &c))
	assert.Equal(t, SalaryCap{Min: 90, Max: 150}, c)

	require.NoError(t, yaml.Unmarshal([]byte(`200`), &c))
	assert.Equal(t, SalaryCap{Max: 200}, c)

	assert.Error(t, json.Unmarshal([]byte(`"lots"`), &c))
	assert.Error(t, yaml.Unmarshal([]byte(`[1, 2]`), &c))

	out, err := json.Marshal(SalaryCap{Max: 150})
	require.NoError(t, err)
	assert.JSONEq(t, `150`, string(out))

	out, err = json.Marshal(SalaryCap{Min: 10, Max: 150})
	require.NoError(t, err)
	assert.JSONEq(t, `{"min":10,"max":150}`, string(out))

	assert.True(t, SalaryCap{Min: 10, Max: 20}.Contains(10))
	assert.False(t, SalaryCap{Min: 10, Max: 20}.Contains(21))
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := &Config{
		MaxPlayers: 2,
		MinPlayers: 3,
		SalaryCap:  SalaryCap{Min: 10, Max: 5},
		PositionLimits: map[string]Limit{
			"GK": {Min: 2, Max: 1},
			"FW": {Min: 2},
		},
		WinCondition: WinCondition{Type: WinFixedThreshold},
		Achievements: []AchievementRule{
			{ID: "a", Trigger: Trigger{Type: TriggerComposite}, Reward: Reward{Type: RewardBonusFP}},
			{ID: "a", Trigger: Trigger{Type: TriggerStatThreshold, Operator: "~"}, Reward: Reward{Type: "DOUBLE"}},
		},
		LineupGenerationMode: "LOOSE",
	}

	err := Validate(cfg)
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		"minPlayers must satisfy",
		"salaryCap.min must satisfy",
		"positionLimits.GK.max must be >= min",
		"position minimums (4) exceed maxPlayers (2)",
		"statCategories must not be empty",
		"winCondition.thresholds is required",
		"lineupGenerationMode must be one of",
		"conditions must not be empty for COMPOSITE",
		`achievements[1].id "a" is duplicated`,
		"stat is required for STAT_THRESHOLD",
		`operator "~" is not supported`,
		"reward.type must be one of",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestValidateOrderIsStable(t *testing.T) {
	neg := -1.0
	cfg := &Config{
		MaxPlayers:     5,
		SalaryCap:      SalaryCap{Max: 100},
		StatCategories: []string{"goals"},
		PositionLimits: map[string]Limit{
			"MID": {Min: -1},
			"DEF": {Min: -1},
			"GK":  {Min: -1},
			"FWD": {Min: -1},
		},
		HistoricalLogFilters: LogFilters{MinMinutes: &neg, MinSnaps: &neg, MinAttempts: &neg},
		WinCondition:         WinCondition{Type: WinHeadToHead},
	}

	first := Validate(cfg)
	require.Error(t, first)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first.Error(), Validate(cfg).Error())
	}
	msg := first.Error()
	assert.Less(t, strings.Index(msg, "positionLimits.DEF"), strings.Index(msg, "positionLimits.FWD"))
	assert.Less(t, strings.Index(msg, "positionLimits.GK"), strings.Index(msg, "positionLimits.MID"))
	assert.Less(t, strings.Index(msg, "minMinutes"), strings.Index(msg, "minSnaps"))
	assert.Less(t, strings.Index(msg, "minSnaps"), strings.Index(msg, "minAttempts"))
}

func TestLoaderCaches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "soccer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(soccerYAML), 0o644))

	loader := NewLoader(dir)
	cfg, err := loader.Load("soccer")
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.MaxPlayers)

	// callers get copies
	cfg.PositionLimits["GK"] = Limit{Min: 0, Max: 9}
	again, err := loader.Load("soccer")
	require.NoError(t, err)
	assert.Equal(t, Limit{Min: 1, Max: 1}, again.PositionLimits["GK"])

	// served from the cache once loaded
	require.NoError(t, os.Remove(path))
	_, err = loader.Load("soccer")
	require.NoError(t, err)

	_, err = NewLoader(dir).Load("soccer")
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoaderRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"maxPlayers": 0}`), 0o644))

	_, err := NewLoader(dir).Load("bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maxPlayers must be >= 1")
}

func TestPlayerBaseID(t *testing.T) {
	assert.Equal(t, "p1", Player{ID: "p1"}.BaseID())
	assert.Equal(t, "athlete", Player{ID: "p1-2019", BasePlayerID: "athlete"}.BaseID())
}

func TestAssignTiers(t *testing.T) {
	players := make([]Player, 20)
	for i := range players {
		players[i] = Player{ID: string(rune('a' + i)), Salary: (i + 1) * 10}
	}
	players[0].Tier = TierOrange

	tiered := AssignTiers(players)

	assert.Equal(t, Tier(""), players[5].Tier, "input must not be modified")
	assert.Equal(t, TierOrange, tiered[19].Tier) // highest salary, top 5%
	assert.Equal(t, TierPurple, tiered[18].Tier)
	assert.Equal(t, TierWhite, tiered[1].Tier)
	assert.Equal(t, TierOrange, tiered[0].Tier, "existing tiers are kept")
}

func TestAllowsPosition(t *testing.T) {
	cfg := &Config{Positions: []string{"GK"}}
	assert.True(t, cfg.AllowsPosition("GK"))
	assert.False(t, cfg.AllowsPosition("FWD"))
	assert.True(t, (&Config{}).AllowsPosition("anything"))
}
