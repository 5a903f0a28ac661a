package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	tests := []struct {
		name         string
		totalSpent   int64
		expectedName string
		expectedNext string
		expectedToGo int64
	}{
		{"Zero spend is the entry tier", 0, "Newbie", "Bronze", 1000},
		{"Just below bronze", 999, "Newbie", "Bronze", 1},
		{"Bronze boundary", 1000, "Bronze", "Silver", 4000},
		{"Silver boundary", 5000, "Silver", "Gold", 10000},
		{"Gold boundary", 15000, "Gold", "Diamond", 35000},
		{"Diamond boundary", 50000, "Diamond", "", 0},
		{"Far above the top tier", 1000000, "Diamond", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := For(tt.totalSpent)
			assert.Equal(t, tt.expectedName, info.Name)
			assert.Equal(t, tt.expectedNext, info.NextRank)
			assert.Equal(t, tt.expectedToGo, info.Required)
			assert.NotEmpty(t, info.Icon)
		})
	}
}

func TestForIsMonotonic(t *testing.T) {
	order := map[string]int{"Newbie": 0, "Bronze": 1, "Silver": 2, "Gold": 3, "Diamond": 4}

	prev := 0
	for spend := int64(0); spend <= 60000; spend += 250 {
		cur := order[For(spend).Name]
		assert.GreaterOrEqual(t, cur, prev, "rank dropped at spend %d", spend)
		prev = cur
	}
}

func TestTopUpMovesUserToBronze(t *testing.T) {
	before := For(800)
	assert.Equal(t, "Newbie", before.Name)

	after := For(800 + 300)
	assert.Equal(t, "Bronze", after.Name)
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name     string
		current  int64
		target   int64
		expected string
	}{
		{"Empty at zero", 0, 100, "⚪⚪⚪⚪⚪⚪⚪⚪⚪⚪"},
		{"Full at target", 100, 100, "🟢🟢🟢🟢🟢🟢🟢🟢🟢🟢"},
		{"Clamped above target", 250, 100, "🟢🟢🟢🟢🟢🟢🟢🟢🟢🟢"},
		{"Half way", 50, 100, "🟢🟢🟢🟢🟢⚪⚪⚪⚪⚪"},
		{"Rounds down to whole segments", 19, 100, "🟢⚪⚪⚪⚪⚪⚪⚪⚪⚪"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ProgressBar(tt.current, tt.target))
		})
	}
}
