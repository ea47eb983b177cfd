package achievements

import (
	"testing"

	"github.com/cardcap/fantasy-engine/internal/sport"
	"github.com/stretchr/testify/assert"
)

func stat(key string, op sport.Operator, v float64) sport.Trigger {
	return sport.Trigger{Type: sport.TriggerStatThreshold, Stat: key, Operator: op, Threshold: v}
}

func event(key string, op sport.Operator, v float64) sport.Trigger {
	return sport.Trigger{Type: sport.TriggerEventCount, Event: key, Operator: op, Threshold: v}
}

func rule(id string, trig sport.Trigger, rt sport.RewardType, v float64) sport.AchievementRule {
	return sport.AchievementRule{ID: id, Name: id, Trigger: trig, Reward: sport.Reward{Type: rt, Value: v}}
}

func TestEvaluateTrigger(t *testing.T) {
	log := sport.GameLog{
		Stats:  map[string]float64{"goals": 2, "minutes": 90},
		Events: map[string]float64{"clean_sheet": 1},
	}

	tests := []struct {
		name string
		trig sport.Trigger
		want bool
	}{
		{"gte met", stat("goals", sport.OpGTE, 2), true},
		{"gt not met", stat("goals", sport.OpGT, 2), false},
		{"lte met", stat("goals", sport.OpLTE, 2), true},
		{"lt", stat("goals", sport.OpLT, 3), true},
		{"eq", stat("minutes", sport.OpEQ, 90), true},
		{"missing stat defaults to zero", stat("assists", sport.OpLTE, 0), true},
		{"event count", event("clean_sheet", sport.OpGTE, 1), true},
		{"missing event", event("red_card", sport.OpGTE, 1), false},
		{"unknown operator", stat("goals", "!=", 1), false},
		{"unknown type", sport.Trigger{Type: "MOON_PHASE"}, false},
		{"composite all true", sport.Trigger{Type: sport.TriggerComposite, Conditions: []sport.Trigger{
			stat("goals", sport.OpGTE, 2),
			event("clean_sheet", sport.OpGTE, 1),
		}}, true},
		{"composite one false", sport.Trigger{Type: sport.TriggerComposite, Conditions: []sport.Trigger{
			stat("goals", sport.OpGTE, 2),
			event("red_card", sport.OpGTE, 1),
		}}, false},
		{"nested composite", sport.Trigger{Type: sport.TriggerComposite, Conditions: []sport.Trigger{
			{Type: sport.TriggerComposite, Conditions: []sport.Trigger{stat("minutes", sport.OpGTE, 60)}},
			stat("goals", sport.OpGT, 1),
		}}, true},
		{"empty composite", sport.Trigger{Type: sport.TriggerComposite}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateTrigger(tt.trig, log))
		})
	}
}

func TestEvaluateTotals(t *testing.T) {
	rules := []sport.AchievementRule{
		rule("brace", stat("goals", sport.OpGTE, 2), sport.RewardBonusFP, 5),
		rule("booked", event("yellow", sport.OpGTE, 1), sport.RewardPenaltyFP, 2),
		rule("motm", stat("goals", sport.OpGTE, 2), sport.RewardMultiplier, 1.5),
		rule("hattrick", stat("goals", sport.OpGTE, 3), sport.RewardBonusFP, 10),
	}
	log := sport.GameLog{Stats: map[string]float64{"goals": 2}, Events: map[string]float64{"yellow": 1}}

	eval := Evaluate(rules, log)
	assert.Equal(t, []string{"brace", "booked", "motm"}, eval.IDs())
	assert.Equal(t, 3.0, eval.TotalBonus)
}

func TestEvaluateZeroLineCanTriggerPenalty(t *testing.T) {
	dnp := rule("dnp", stat("minutes", sport.OpLTE, 0), sport.RewardPenaltyFP, 3)
	eval := Evaluate([]sport.AchievementRule{dnp}, sport.GameLog{})
	assert.Equal(t, []string{"dnp"}, eval.IDs())
	assert.Equal(t, -3.0, eval.TotalBonus)
	assert.Equal(t, -3.0, Apply(0, eval.Triggered))
}

func TestApplyIsOrderDependent(t *testing.T) {
	bonus := rule("b", sport.Trigger{}, sport.RewardBonusFP, 4)
	penalty := rule("p", sport.Trigger{}, sport.RewardPenaltyFP, 2)
	double := rule("x2", sport.Trigger{}, sport.RewardMultiplier, 2)
	triple := rule("x3", sport.Trigger{}, sport.RewardMultiplier, 3)

	assert.Equal(t, 28.0, Apply(10, []sport.AchievementRule{bonus, double}))   // (10+4)*2
	assert.Equal(t, 24.0, Apply(10, []sport.AchievementRule{double, bonus}))   // 10*2+4
	assert.Equal(t, 16.0, Apply(10, []sport.AchievementRule{penalty, double})) // (10-2)*2
	assert.Equal(t, 60.0, Apply(10, []sport.AchievementRule{double, triple}))  // multipliers compound
	assert.Equal(t, 10.0, Apply(10, nil))
	assert.Equal(t, 3.33, Apply(1.11, []sport.AchievementRule{triple}))
}
