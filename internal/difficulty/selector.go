package difficulty

// EscalationStreak is the run of consecutive correct answers at which the
// selector starts stepping up.
const EscalationStreak = 3

// Next picks the tier for the question after an answer has been recorded.
//
// streak is the running count of consecutive correct answers including the
// answer just recorded, so a streak of zero means that answer was a miss.
// A streak at or above EscalationStreak steps up one tier, a miss steps down
// one tier, anything else holds. Changes are always a single step and stay
// within Easy..Hard.
//
// recentAccuracy is accepted so callers can pass their running window, but
// the step policy is decided by the streak alone.
func Next(current Tier, streak int, recentAccuracy float64) Tier {
	current = clamp(current)

	switch {
	case streak >= EscalationStreak:
		return step(current, +1)
	case streak <= 0:
		return step(current, -1)
	default:
		return current
	}
}

func step(t Tier, delta int) Tier {
	return clamp(t + Tier(delta))
}

func clamp(t Tier) Tier {
	if t < TierEasy {
		return TierEasy
	}
	if t > TierHard {
		return TierHard
	}
	return t
}
