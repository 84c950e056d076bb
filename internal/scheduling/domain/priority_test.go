package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriorityFromTag(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantRank int
		wantTag  PriorityTag
	}{
		{"urgent", "urgent", RankUrgent, PriorityUrgent},
		{"high", "high", RankHigh, PriorityHigh},
		{"medium", "medium", RankMedium, PriorityMedium},
		{"med shorthand", "med", RankMedium, PriorityMedium},
		{"low", "low", RankLow, PriorityLow},
		{"optional", "optional", RankOptional, PriorityOptional},
		{"uppercase", "URGENT", RankUrgent, PriorityUrgent},
		{"surrounding whitespace", "  high  ", RankHigh, PriorityHigh},
		{"empty defaults to medium", "", RankMedium, PriorityMedium},
		{"garbage defaults to medium", "banana", RankMedium, PriorityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank, tag := PriorityFromTag(tt.input)
			assert.Equal(t, tt.wantRank, rank)
			assert.Equal(t, tt.wantTag, tag)
		})
	}
}

func TestIsProtectedRank(t *testing.T) {
	for rank := 1; rank <= 8; rank++ {
		assert.False(t, IsProtectedRank(rank), "rank %d", rank)
	}
	assert.True(t, IsProtectedRank(9))
	assert.True(t, IsProtectedRank(10))
}

func TestTagForRank(t *testing.T) {
	tests := []struct {
		rank int
		want PriorityTag
	}{
		{1, PriorityOptional},
		{2, PriorityLow},
		{3, PriorityLow},
		{4, PriorityMedium},
		{5, PriorityMedium},
		{6, PriorityMedium},
		{7, PriorityHigh},
		{8, PriorityHigh},
		{9, PriorityHigh},
		{10, PriorityUrgent},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TagForRank(tt.rank), "rank %d", tt.rank)
	}
}
