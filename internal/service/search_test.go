package service_test

import (
	"testing"

	"planner/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestMatchScore_ExactTitle(t *testing.T) {
	score, highlights := service.MatchScore("buy milk", "Buy Milk", "")

	assert.Equal(t, 1.0, score)
	assert.Contains(t, highlights[0], "Exact title match")
}

func TestMatchScore_TitlePrefix(t *testing.T) {
	score, highlights := service.MatchScore("buy", "Buy milk and eggs", "")

	// 0.8 for the prefix plus a full subsequence bonus of 0.2
	assert.Equal(t, 1.0, score)
	assert.Contains(t, highlights[0], "Title starts with")
}

func TestMatchScore_TitleSubstring(t *testing.T) {
	score, highlights := service.MatchScore("milk", "Buy milk", "")

	assert.InDelta(t, 0.8, score, 0.001)
	assert.Contains(t, highlights[0], "Title contains")
}

func TestMatchScore_DescriptionBonus(t *testing.T) {
	withDesc, _ := service.MatchScore("milk", "Buy milk", "two liters of milk")
	withoutDesc, _ := service.MatchScore("milk", "Buy milk", "")

	assert.Greater(t, withDesc, withoutDesc)
}

func TestMatchScore_CappedAtOne(t *testing.T) {
	score, _ := service.MatchScore("groceries", "groceries", "buy groceries today")

	assert.Equal(t, 1.0, score)
}

func TestMatchScore_FuzzyOnly(t *testing.T) {
	// No direct hit, but every query rune appears in order
	score, highlights := service.MatchScore("bml", "Buy milk", "")

	assert.InDelta(t, 0.2, score, 0.001)
	assert.Empty(t, highlights)
}

func TestMatchScore_NoMatch(t *testing.T) {
	score, highlights := service.MatchScore("zzz", "Buy milk", "")

	assert.Equal(t, 0.0, score)
	assert.Empty(t, highlights)
}
