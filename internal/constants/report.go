package constants

// Consistency tiers by share of window days with at least one session.
const (
	ConsistencyHighRatio   = 0.8
	ConsistencyMediumRatio = 0.4
)

// Balance index thresholds over the mean relative deviation.
const (
	BalanceStableBelow         = 0.15
	BalanceSlightlySkewedBelow = 0.40
)

const (
	// RollingWindowDays is the size of the rolling report window, today inclusive.
	RollingWindowDays = 7

	// SuggestionThreshold is the relative deviation at which a target change is proposed.
	SuggestionThreshold = 0.15

	// SuggestionRoundingMin rounds suggested targets to this many minutes.
	SuggestionRoundingMin = 5
)
