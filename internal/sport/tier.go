package sport

import "sort"

// Tier is a cosmetic salary band. Scoring never reads it.
type Tier string

const (
	TierOrange Tier = "ORANGE"
	TierPurple Tier = "PURPLE"
	TierBlue   Tier = "BLUE"
	TierGreen  Tier = "GREEN"
	TierWhite  Tier = "WHITE"
)

// tierCutoffs maps the upper salary percentile (from the top) of each band.
var tierCutoffs = []struct {
	topShare float64
	tier     Tier
}{
	{0.05, TierOrange},
	{0.20, TierPurple},
	{0.40, TierBlue},
	{0.70, TierGreen},
	{1.00, TierWhite},
}

// TierForRank returns the tier of the player ranked rank (0 = highest
// salary) out of n players.
func TierForRank(rank, n int) Tier {
	if n <= 0 {
		return TierWhite
	}
	share := float64(rank+1) / float64(n)
	for _, c := range tierCutoffs {
		if share <= c.topShare {
			return c.tier
		}
	}
	return TierWhite
}

// AssignTiers returns a copy of players with Tier derived from salary
// percentile. Players that already carry a tier keep it.
func AssignTiers(players []Player) []Player {
	out := append([]Player(nil), players...)
	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return out[order[a]].Salary > out[order[b]].Salary
	})
	for rank, idx := range order {
		if out[idx].Tier == "" {
			out[idx].Tier = TierForRank(rank, len(out))
		}
	}
	return out
}
