package sport

// TriggerType names the kind of condition an achievement checks.
type TriggerType string

const (
	TriggerStatThreshold TriggerType = "STAT_THRESHOLD"
	TriggerEventCount    TriggerType = "EVENT_COUNT"
	TriggerComposite     TriggerType = "COMPOSITE"
)

// Operator compares an observed value against a threshold.
type Operator string

const (
	OpGTE Operator = ">="
	OpLTE Operator = "<="
	OpGT  Operator = ">"
	OpLT  Operator = "<"
	OpEQ  Operator = "=="
)

// Valid reports whether the operator is supported.
func (o Operator) Valid() bool {
	switch o {
	case OpGTE, OpLTE, OpGT, OpLT, OpEQ:
		return true
	}
	return false
}

// RewardType names how a triggered achievement changes fantasy points.
type RewardType string

const (
	RewardBonusFP    RewardType = "BONUS_FP"
	RewardPenaltyFP  RewardType = "PENALTY_FP"
	RewardMultiplier RewardType = "MULTIPLIER"
)

// AchievementRule is a declarative bonus, penalty or multiplier.
type AchievementRule struct {
	ID      string         `json:"id" yaml:"id"`
	Name    string         `json:"name" yaml:"name"`
	Trigger Trigger        `json:"trigger" yaml:"trigger"`
	Reward  Reward         `json:"reward" yaml:"reward"`
	Visual  map[string]any `json:"visual,omitempty" yaml:"visual,omitempty"`
}

// Trigger is a recursive condition over a single game log.
//
// STAT_THRESHOLD reads Stat from the log's stats, EVENT_COUNT reads Event
// from its events, and COMPOSITE requires every entry of Conditions.
type Trigger struct {
	Type       TriggerType `json:"type" yaml:"type"`
	Stat       string      `json:"stat,omitempty" yaml:"stat,omitempty"`
	Event      string      `json:"event,omitempty" yaml:"event,omitempty"`
	Operator   Operator    `json:"operator,omitempty" yaml:"operator,omitempty"`
	Threshold  float64     `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Conditions []Trigger   `json:"conditions,omitempty" yaml:"conditions,omitempty"`
}

// Reward is what a triggered rule contributes.
type Reward struct {
	Type  RewardType `json:"type" yaml:"type"`
	Value float64    `json:"value" yaml:"value"`
}
