package difficulty

import "testing"

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		current Tier
		streak  int
		want    Tier
	}{
		{"miss from medium", TierMedium, 0, TierEasy},
		{"miss floors at easy", TierEasy, 0, TierEasy},
		{"miss from hard", TierHard, 0, TierMedium},
		{"short streak holds", TierMedium, 1, TierMedium},
		{"streak of two holds", TierEasy, 2, TierEasy},
		{"streak of three escalates", TierEasy, 3, TierMedium},
		{"long streak escalates one step", TierEasy, 9, TierMedium},
		{"escalation caps at hard", TierHard, 5, TierHard},
		{"medium to hard", TierMedium, 3, TierHard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Next(tt.current, tt.streak, 0.5)
			if got != tt.want {
				t.Errorf("Next(%s, %d) = %s, want %s", tt.current, tt.streak, got, tt.want)
			}
		})
	}
}

func TestNext_SingleStepWithinRange(t *testing.T) {
	for _, tier := range AllTiers() {
		for streak := 0; streak <= 12; streak++ {
			for _, acc := range []float64{0, 0.33, 0.5, 1} {
				got := Next(tier, streak, acc)
				if !got.Valid() {
					t.Fatalf("Next(%s, %d, %v) = %d, out of range", tier, streak, acc, got)
				}
				diff := int(got) - int(tier)
				if diff < -1 || diff > 1 {
					t.Fatalf("Next(%s, %d, %v) = %s, moved more than one tier", tier, streak, acc, got)
				}
			}
		}
	}
}

func TestNext_Deterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		if Next(TierMedium, 3, 0.8) != TierHard {
			t.Fatal("expected identical output for identical input")
		}
	}
}

func TestNext_ClampsInvalidInput(t *testing.T) {
	if got := Next(Tier(7), 1, 0); got != TierHard {
		t.Errorf("Next(7, 1) = %s, want hard", got)
	}
	if got := Next(Tier(-3), 1, 0); got != TierEasy {
		t.Errorf("Next(-3, 1) = %s, want easy", got)
	}
}

func TestParse(t *testing.T) {
	for _, tier := range AllTiers() {
		got, err := Parse(tier.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", tier.String(), err)
		}
		if got != tier {
			t.Errorf("Parse(%q) = %s, want %s", tier.String(), got, tier)
		}
	}
	if _, err := Parse("extreme"); err == nil {
		t.Error("expected error for unknown tier")
	}
}

func TestTier_UnmarshalText(t *testing.T) {
	var tier Tier
	if err := tier.UnmarshalText([]byte("Hard")); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tier != TierHard {
		t.Errorf("tier = %s, want hard", tier)
	}
	if _, err := Tier(9).MarshalText(); err == nil {
		t.Error("expected error marshaling invalid tier")
	}
}
