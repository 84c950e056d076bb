package domain

import "strings"

// PriorityTag is the human-facing priority label carried on a booking.
type PriorityTag string

const (
	PriorityOptional PriorityTag = "optional"
	PriorityLow      PriorityTag = "low"
	PriorityMedium   PriorityTag = "medium"
	PriorityHigh     PriorityTag = "high"
	PriorityUrgent   PriorityTag = "urgent"
)

// Rank bands mirrored by the tags.
const (
	RankOptional = 1
	RankLow      = 3
	RankMedium   = 5
	RankHigh     = 8
	RankUrgent   = 10
)

// HighPriorityThreshold is the rank at or above which a task may force
// displacement of lower-priority bookings.
const HighPriorityThreshold = 7

// IsProtectedRank reports whether a rank is in the protected band.
// Protected bookings are never displaced, regardless of what is competing
// for their slot.
func IsProtectedRank(rank int) bool {
	return rank == 9 || rank == 10
}

// PriorityFromTag maps a free-form priority label to its rank and canonical
// tag. The mapping is total: unrecognized input resolves to medium so the
// natural-language front end never has to handle a parse failure.
func PriorityFromTag(text string) (int, PriorityTag) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "urgent":
		return RankUrgent, PriorityUrgent
	case "high":
		return RankHigh, PriorityHigh
	case "medium", "med":
		return RankMedium, PriorityMedium
	case "low":
		return RankLow, PriorityLow
	case "optional":
		return RankOptional, PriorityOptional
	default:
		return RankMedium, PriorityMedium
	}
}

// TagForRank returns the tag whose band contains the given rank. Used when
// rehydrating bookings whose stored tag has drifted from the rank.
func TagForRank(rank int) PriorityTag {
	switch {
	case rank >= 10:
		return PriorityUrgent
	case rank >= 7:
		return PriorityHigh
	case rank >= 4:
		return PriorityMedium
	case rank >= 2:
		return PriorityLow
	default:
		return PriorityOptional
	}
}
