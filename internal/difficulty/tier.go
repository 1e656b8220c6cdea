package difficulty

import "fmt"

// Tier is a discrete question difficulty level.
type Tier int

const (
	TierEasy Tier = iota
	TierMedium
	TierHard
)

// StartTier is the tier every session opens with, regardless of history.
const StartTier = TierMedium

// AllTiers returns the tiers from easiest to hardest.
func AllTiers() []Tier {
	return []Tier{TierEasy, TierMedium, TierHard}
}

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool {
	return t >= TierEasy && t <= TierHard
}

func (t Tier) String() string {
	switch t {
	case TierEasy:
		return "easy"
	case TierMedium:
		return "medium"
	case TierHard:
		return "hard"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Label returns the capitalized display name.
func (t Tier) Label() string {
	switch t {
	case TierEasy:
		return "Easy"
	case TierMedium:
		return "Medium"
	case TierHard:
		return "Hard"
	default:
		return t.String()
	}
}

// Parse converts "easy", "medium" or "hard" (any case) to a Tier.
func Parse(s string) (Tier, error) {
	switch s {
	case "easy", "Easy", "EASY":
		return TierEasy, nil
	case "medium", "Medium", "MEDIUM":
		return TierMedium, nil
	case "hard", "Hard", "HARD":
		return TierHard, nil
	}
	return 0, fmt.Errorf("unknown tier %q", s)
}

func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid tier %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
