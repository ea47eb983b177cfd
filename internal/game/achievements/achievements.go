// Package achievements evaluates declarative achievement rules against a
// single game log and applies their rewards to a fantasy-point total.
package achievements

import (
	"github.com/cardcap/fantasy-engine/internal/sport"
	"github.com/shopspring/decimal"
)

// Evaluation is the outcome of checking every rule against one log.
type Evaluation struct {
	Triggered []sport.AchievementRule
	// TotalBonus is bonuses minus penalties. Multipliers contribute nothing
	// here since they need a base to act on.
	TotalBonus float64
}

// IDs returns the ids of the triggered rules in rule order.
func (e Evaluation) IDs() []string {
	ids := make([]string, len(e.Triggered))
	for i, r := range e.Triggered {
		ids[i] = r.ID
	}
	return ids
}

// EvaluateTrigger reports whether t holds for log. Unknown trigger types and
// operators never match.
func EvaluateTrigger(t sport.Trigger, log sport.GameLog) bool {
	switch t.Type {
	case sport.TriggerStatThreshold:
		return compare(log.Stats[t.Stat], t.Operator, t.Threshold)
	case sport.TriggerEventCount:
		return compare(log.Events[t.Event], t.Operator, t.Threshold)
	case sport.TriggerComposite:
		// An empty COMPOSITE never fires; config validation rejects it anyway.
		if len(t.Conditions) == 0 {
			return false
		}
		for _, c := range t.Conditions {
			if !EvaluateTrigger(c, log) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func compare(value float64, op sport.Operator, threshold float64) bool {
	switch op {
	case sport.OpGTE:
		return value >= threshold
	case sport.OpLTE:
		return value <= threshold
	case sport.OpGT:
		return value > threshold
	case sport.OpLT:
		return value < threshold
	case sport.OpEQ:
		return value == threshold
	default:
		return false
	}
}

// Evaluate checks rules against log in order.
func Evaluate(rules []sport.AchievementRule, log sport.GameLog) Evaluation {
	var eval Evaluation
	bonus := decimal.Zero
	for _, rule := range rules {
		if !EvaluateTrigger(rule.Trigger, log) {
			continue
		}
		eval.Triggered = append(eval.Triggered, rule)
		switch rule.Reward.Type {
		case sport.RewardBonusFP:
			bonus = bonus.Add(decimal.NewFromFloat(rule.Reward.Value))
		case sport.RewardPenaltyFP:
			bonus = bonus.Sub(decimal.NewFromFloat(rule.Reward.Value))
		}
	}
	eval.TotalBonus = bonus.Round(2).InexactFloat64()
	return eval
}

// Apply folds triggered rewards into baseFP in rule order: bonuses add,
// penalties subtract and multipliers scale the running total, so a
// multiplier after a penalty scales the penalty too.
func Apply(baseFP float64, triggered []sport.AchievementRule) float64 {
	total := decimal.NewFromFloat(baseFP)
	for _, rule := range triggered {
		v := decimal.NewFromFloat(rule.Reward.Value)
		switch rule.Reward.Type {
		case sport.RewardBonusFP:
			total = total.Add(v)
		case sport.RewardPenaltyFP:
			total = total.Sub(v)
		case sport.RewardMultiplier:
			total = total.Mul(v)
		}
	}
	return total.Round(2).InexactFloat64()
}
