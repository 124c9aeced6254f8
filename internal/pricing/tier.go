package pricing

import "math"

// Tier represents one freelancer experience level. Levels are unlocked by
// lifetime completed-order count and never revoked.
type Tier struct {
	Level     int     `json:"level"`
	Name      string  `json:"name"`
	MinOrders int     `json:"min_orders"`
	BaseRate  float64 `json:"base_rate"`
}

// technicalTierPremium is added on top of the tier base rate for technical
// work. Note this is NOT the same premium the flat-rate strategy uses.
const technicalTierPremium = 20

// tiers is ordered from lowest to highest threshold. The top tier is
// terminal: once reached, the rate never changes.
var tiers = []Tier{
	{Level: 1, Name: "Starter", MinOrders: 0, BaseRate: 150},
	{Level: 2, Name: "Rising", MinOrders: 3, BaseRate: 160},
	{Level: 3, Name: "Established", MinOrders: 8, BaseRate: 170},
	{Level: 4, Name: "Expert", MinOrders: 23, BaseRate: 180},
	{Level: 5, Name: "Master", MinOrders: 50, BaseRate: 200},
}

// TierFor returns the highest tier whose threshold is <= completedOrders.
// Negative counts are clamped to zero; this is a total function with no
// authority to reject upstream data.
func TierFor(completedOrders int) Tier {
	if completedOrders < 0 {
		completedOrders = 0
	}
	for i := len(tiers) - 1; i >= 0; i-- {
		if completedOrders >= tiers[i].MinOrders {
			return tiers[i]
		}
	}
	return tiers[0]
}

// Rate returns the per-page rate for the tier given the technical flag.
func (t Tier) Rate(technical bool) float64 {
	if technical {
		return t.BaseRate + technicalTierPremium
	}
	return t.BaseRate
}

// IsTerminal reports whether the tier has no further level to progress to.
func (t Tier) IsTerminal() bool {
	return t.Level == len(tiers)
}

// next returns the tier one level above t, or t itself at the terminal tier.
func (t Tier) next() Tier {
	if t.IsTerminal() {
		return t
	}
	return tiers[t.Level] // Level is 1-based, so tiers[Level] is the next one
}

// Progress describes how far a freelancer is into their current tier.
type Progress struct {
	Tier          Tier    `json:"tier"`
	OrdersInLevel int     `json:"orders_in_level"`
	OrdersForNext int     `json:"orders_for_next"`
	Percentage    float64 `json:"percentage"`
}

// ProgressFor computes level progress for a completed-order count. At the
// terminal tier progress is reported as 100% with zero orders remaining.
func ProgressFor(completedOrders int) Progress {
	if completedOrders < 0 {
		completedOrders = 0
	}

	current := TierFor(completedOrders)
	inLevel := completedOrders - current.MinOrders

	if current.IsTerminal() {
		return Progress{
			Tier:          current,
			OrdersInLevel: inLevel,
			OrdersForNext: 0,
			Percentage:    100,
		}
	}

	needed := current.next().MinOrders - current.MinOrders
	pct := math.Min(100, float64(inLevel)/float64(needed)*100)

	return Progress{
		Tier:          current,
		OrdersInLevel: inLevel,
		OrdersForNext: needed,
		Percentage:    pct,
	}
}
