// Package sport defines the declarative ruleset and data records the game
// engines operate on. Field names are the JSON wire format shared with the
// data providers; YAML config files use the same names.
package sport

// GenerationMode selects how lineup generation reacts to an unfillable slot.
type GenerationMode string

const (
	ModeStrict  GenerationMode = "STRICT"
	ModeRelaxed GenerationMode = "RELAXED"
)

// WinConditionType selects how a resolved team total is judged.
type WinConditionType string

const (
	WinFixedThreshold WinConditionType = "FIXED_THRESHOLD"
	WinHeadToHead     WinConditionType = "HEAD_TO_HEAD"
)

// Config is the full ruleset for one sport or game variant.
type Config struct {
	ID                   string             `json:"id" yaml:"id"`
	Name                 string             `json:"name,omitempty" yaml:"name,omitempty"`
	Positions            []string           `json:"positions" yaml:"positions"`
	SalaryCap            SalaryCap          `json:"salaryCap" yaml:"salaryCap"`
	MinPlayers           int                `json:"minPlayers" yaml:"minPlayers"`
	MaxPlayers           int                `json:"maxPlayers" yaml:"maxPlayers"`
	PositionLimits       map[string]Limit   `json:"positionLimits" yaml:"positionLimits"`
	StatCategories       []string           `json:"statCategories" yaml:"statCategories"`
	ProjectionWeights    map[string]float64 `json:"projectionWeights" yaml:"projectionWeights"`
	HistoricalLogFilters LogFilters         `json:"historicalLogFilters" yaml:"historicalLogFilters"`
	WinCondition         WinCondition       `json:"winCondition" yaml:"winCondition"`
	Achievements         []AchievementRule  `json:"achievements,omitempty" yaml:"achievements,omitempty"`
	LineupGenerationMode GenerationMode     `json:"lineupGenerationMode,omitempty" yaml:"lineupGenerationMode,omitempty"`
	AnchorStrategy       *AnchorStrategy    `json:"anchorStrategy,omitempty" yaml:"anchorStrategy,omitempty"`
}

// Limit bounds how many rostered players may share a position.
// Max <= 0 means the position has no upper bound.
type Limit struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// LogFilters restricts which historical logs are eligible for sampling.
type LogFilters struct {
	SeasonsBack *int     `json:"seasonsBack,omitempty" yaml:"seasonsBack,omitempty"`
	MinMinutes  *float64 `json:"minMinutes,omitempty" yaml:"minMinutes,omitempty"`
	MinSnaps    *float64 `json:"minSnaps,omitempty" yaml:"minSnaps,omitempty"`
	MinAttempts *float64 `json:"minAttempts,omitempty" yaml:"minAttempts,omitempty"`
}

// WinCondition describes how a session is won.
type WinCondition struct {
	Type       WinConditionType `json:"type" yaml:"type"`
	Thresholds []Threshold      `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
}

// Threshold is one fixed fantasy-point target; Label names the tier.
type Threshold struct {
	Points float64 `json:"points" yaml:"points"`
	Label  string  `json:"label,omitempty" yaml:"label,omitempty"`
}

// AnchorStrategy tunes the anchor-first RELAXED fallback.
type AnchorStrategy struct {
	Count    int `json:"count" yaml:"count"`       // anchors to seed, clamped to 1..2
	PoolSize int `json:"poolSize" yaml:"poolSize"` // top-salary band anchors are drawn from
}

// Mode returns the configured generation mode, defaulting to STRICT.
func (c *Config) Mode() GenerationMode {
	if c.LineupGenerationMode == "" {
		return ModeStrict
	}
	return c.LineupGenerationMode
}

// LimitFor returns the limit for a position and whether one is configured.
func (c *Config) LimitFor(position string) (Limit, bool) {
	l, ok := c.PositionLimits[position]
	return l, ok
}

// AllowsPosition reports whether players at position may be rostered.
// An empty Positions list allows every position.
func (c *Config) AllowsPosition(position string) bool {
	if len(c.Positions) == 0 {
		return true
	}
	for _, p := range c.Positions {
		if p == position {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so engines can own an immutable ruleset.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Positions = append([]string(nil), c.Positions...)
	out.StatCategories = append([]string(nil), c.StatCategories...)
	if c.PositionLimits != nil {
		out.PositionLimits = make(map[string]Limit, len(c.PositionLimits))
		for k, v := range c.PositionLimits {
			out.PositionLimits[k] = v
		}
	}
	if c.ProjectionWeights != nil {
		out.ProjectionWeights = make(map[string]float64, len(c.ProjectionWeights))
		for k, v := range c.ProjectionWeights {
			out.ProjectionWeights[k] = v
		}
	}
	out.WinCondition.Thresholds = append([]Threshold(nil), c.WinCondition.Thresholds...)
	out.Achievements = append([]AchievementRule(nil), c.Achievements...)
	if c.AnchorStrategy != nil {
		a := *c.AnchorStrategy
		out.AnchorStrategy = &a
	}
	return &out
}

// Player is one dealable card. Several cards may share a BasePlayerID when
// they represent different seasons of the same athlete.
type Player struct {
	ID           string `json:"id" yaml:"id"`
	BasePlayerID string `json:"basePlayerId,omitempty" yaml:"basePlayerId,omitempty"`
	Name         string `json:"name" yaml:"name"`
	Position     string `json:"position" yaml:"position"`
	Salary       int    `json:"salary" yaml:"salary"`
	Team         string `json:"team" yaml:"team"`
	Tier         Tier   `json:"tier,omitempty" yaml:"tier,omitempty"`
	Season       string `json:"season,omitempty" yaml:"season,omitempty"`
}

// BaseID returns the athlete identity used for roster uniqueness.
func (p Player) BaseID() string {
	if p.BasePlayerID != "" {
		return p.BasePlayerID
	}
	return p.ID
}

// GameLog is one historical performance record.
type GameLog struct {
	PlayerID string             `json:"playerId" yaml:"playerId"`
	Stats    map[string]float64 `json:"stats" yaml:"stats"`
	Events   map[string]float64 `json:"events,omitempty" yaml:"events,omitempty"`
	GameDate string             `json:"gameDate" yaml:"gameDate"`
	Minutes  *float64           `json:"minutes,omitempty" yaml:"minutes,omitempty"`
	Snaps    *float64           `json:"snaps,omitempty" yaml:"snaps,omitempty"`
	Attempts *float64           `json:"attempts,omitempty" yaml:"attempts,omitempty"`
}
