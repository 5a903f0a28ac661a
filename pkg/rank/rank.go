// Package rank maps cumulative spend to a loyalty tier.
package rank

import "strings"

type Info struct {
	Name     string
	Icon     string
	Color    string
	NextRank string
	Required int64
}

type tier struct {
	threshold int64
	name      string
	icon      string
	color     string
}

// Ordered by ascending spend threshold.
var tiers = []tier{
	{0, "Newbie", "🪨", "#AAAAAA"},
	{1000, "Bronze", "🥉", "#CD7F32"},
	{5000, "Silver", "🥈", "#C0C0C0"},
	{15000, "Gold", "🥇", "#FFD700"},
	{50000, "Diamond", "💎", "#00FFFF"},
}

// For returns the highest tier whose threshold does not exceed totalSpent and
// the amount still needed to reach the next tier. Required is zero and
// NextRank empty at the top tier.
func For(totalSpent int64) Info {
	idx := 0
	for i, t := range tiers {
		if totalSpent >= t.threshold {
			idx = i
		}
	}

	info := Info{
		Name:  tiers[idx].name,
		Icon:  tiers[idx].icon,
		Color: tiers[idx].color,
	}
	if idx < len(tiers)-1 {
		info.NextRank = tiers[idx+1].name
		info.Required = tiers[idx+1].threshold - totalSpent
	}
	return info
}

const barSegments = 10

// ProgressBar renders a fixed-width filled/empty indicator. The filled
// fraction clamps at 100% when current >= target.
func ProgressBar(current, target int64) string {
	filled := barSegments
	if target > 0 && current < target {
		filled = int(current * barSegments / target)
	}
	return strings.Repeat("🟢", filled) + strings.Repeat("⚪", barSegments-filled)
}
