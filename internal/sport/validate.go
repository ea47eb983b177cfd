package sport

import (
	"fmt"
	"sort"
	"strings"
)

// Validate checks the semantic constraints of a Config. Every problem found
// is reported in a single error.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config validation failed: config is nil")
	}
	var errs []string

	// roster size
	if cfg.MaxPlayers <= 0 {
		errs = append(errs, "maxPlayers must be >= 1")
	}
	if cfg.MinPlayers < 0 || (cfg.MaxPlayers > 0 && cfg.MinPlayers > cfg.MaxPlayers) {
		errs = append(errs, "minPlayers must satisfy 0 <= minPlayers <= maxPlayers")
	}

	// salary cap
	if cfg.SalaryCap.Max <= 0 {
		errs = append(errs, "salaryCap.max must be > 0")
	}
	if cfg.SalaryCap.Min < 0 || cfg.SalaryCap.Min > cfg.SalaryCap.Max {
		errs = append(errs, "salaryCap.min must satisfy 0 <= min <= max")
	}

	// positions
	positions := make([]string, 0, len(cfg.PositionLimits))
	for pos := range cfg.PositionLimits {
		positions = append(positions, pos)
	}
	sort.Strings(positions)
	minSum := 0
	for _, pos := range positions {
		lim := cfg.PositionLimits[pos]
		if len(cfg.Positions) > 0 && !cfg.AllowsPosition(pos) {
			errs = append(errs, fmt.Sprintf("positionLimits.%s refers to an unknown position", pos))
		}
		if lim.Min < 0 {
			errs = append(errs, fmt.Sprintf("positionLimits.%s.min must be >= 0", pos))
		}
		if lim.Max > 0 && lim.Max < lim.Min {
			errs = append(errs, fmt.Sprintf("positionLimits.%s.max must be >= min", pos))
		}
		minSum += lim.Min
	}
	if cfg.MaxPlayers > 0 && minSum > cfg.MaxPlayers {
		errs = append(errs, fmt.Sprintf("position minimums (%d) exceed maxPlayers (%d)", minSum, cfg.MaxPlayers))
	}

	// scoring
	if len(cfg.StatCategories) == 0 {
		errs = append(errs, "statCategories must not be empty")
	}

	// log filters
	f := cfg.HistoricalLogFilters
	if f.SeasonsBack != nil && *f.SeasonsBack < 0 {
		errs = append(errs, "historicalLogFilters.seasonsBack must be >= 0")
	}
	for _, m := range []struct {
		name  string
		value *float64
	}{
		{"minMinutes", f.MinMinutes},
		{"minSnaps", f.MinSnaps},
		{"minAttempts", f.MinAttempts},
	} {
		if m.value != nil && *m.value < 0 {
			errs = append(errs, fmt.Sprintf("historicalLogFilters.%s must be >= 0", m.name))
		}
	}

	// win condition
	switch cfg.WinCondition.Type {
	case WinFixedThreshold:
		if len(cfg.WinCondition.Thresholds) == 0 {
			errs = append(errs, "winCondition.thresholds is required for type=FIXED_THRESHOLD")
		}
	case WinHeadToHead:
	default:
		errs = append(errs, "winCondition.type must be one of: FIXED_THRESHOLD, HEAD_TO_HEAD")
	}

	// generation
	switch cfg.LineupGenerationMode {
	case "", ModeStrict, ModeRelaxed:
	default:
		errs = append(errs, "lineupGenerationMode must be one of: STRICT, RELAXED")
	}
	if a := cfg.AnchorStrategy; a != nil && (a.Count < 0 || a.PoolSize < 0) {
		errs = append(errs, "anchorStrategy.count and poolSize must be >= 0")
	}

	// achievements
	seen := make(map[string]bool, len(cfg.Achievements))
	for i, rule := range cfg.Achievements {
		prefix := fmt.Sprintf("achievements[%d]", i)
		if rule.ID == "" {
			errs = append(errs, prefix+".id is required")
		} else if seen[rule.ID] {
			errs = append(errs, fmt.Sprintf("%s.id %q is duplicated", prefix, rule.ID))
		}
		seen[rule.ID] = true
		errs = append(errs, validateTrigger(prefix+".trigger", rule.Trigger)...)
		switch rule.Reward.Type {
		case RewardBonusFP, RewardPenaltyFP:
		case RewardMultiplier:
			if rule.Reward.Value < 0 {
				errs = append(errs, prefix+".reward.value must be >= 0 for MULTIPLIER")
			}
		default:
			errs = append(errs, prefix+".reward.type must be one of: BONUS_FP, PENALTY_FP, MULTIPLIER")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateTrigger(path string, t Trigger) []string {
	var errs []string
	switch t.Type {
	case TriggerStatThreshold:
		if t.Stat == "" {
			errs = append(errs, path+".stat is required for STAT_THRESHOLD")
		}
		if !t.Operator.Valid() {
			errs = append(errs, fmt.Sprintf("%s.operator %q is not supported", path, t.Operator))
		}
	case TriggerEventCount:
		if t.Event == "" {
			errs = append(errs, path+".event is required for EVENT_COUNT")
		}
		if !t.Operator.Valid() {
			errs = append(errs, fmt.Sprintf("%s.operator %q is not supported", path, t.Operator))
		}
	case TriggerComposite:
		if len(t.Conditions) == 0 {
			errs = append(errs, path+".conditions must not be empty for COMPOSITE")
		}
		for i, c := range t.Conditions {
			errs = append(errs, validateTrigger(fmt.Sprintf("%s.conditions[%d]", path, i), c)...)
		}
	default:
		errs = append(errs, path+".type must be one of: STAT_THRESHOLD, EVENT_COUNT, COMPOSITE")
	}
	return errs
}
