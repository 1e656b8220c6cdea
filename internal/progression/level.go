package progression

import "math"

// XPPerLevelUnit scales the level curve: level n starts at 100*(n-1)² XP.
const XPPerLevelUnit = 100

// Rank labels, lowest first.
const (
	RankNovice          = "Novice"
	RankKnowledgeSeeker = "Knowledge Seeker"
	RankQuizAdept       = "Quiz Adept"
	RankWisdomKeeper    = "Wisdom Keeper"
	RankMasterMind      = "Master Mind"
	RankQuizLegend      = "Quiz Legend"
)

// rankBands maps an exclusive upper level bound to its rank.
var rankBands = []struct {
	below int
	rank  string
}{
	{3, RankNovice},
	{5, RankKnowledgeSeeker},
	{8, RankQuizAdept},
	{12, RankWisdomKeeper},
	{16, RankMasterMind},
}

// LevelFor returns floor(sqrt(xp/100)) + 1. Negative xp counts as zero.
func LevelFor(xp int) int {
	if xp <= 0 {
		return 1
	}
	k := int(math.Sqrt(float64(xp) / XPPerLevelUnit))
	// Correct for float rounding at perfect squares.
	for levelFloor(k+2) <= xp {
		k++
	}
	for k > 0 && levelFloor(k+1) > xp {
		k--
	}
	return k + 1
}

// RankFor maps a level to its rank label.
func RankFor(level int) string {
	for _, b := range rankBands {
		if level < b.below {
			return b.rank
		}
	}
	return RankQuizLegend
}

// levelFloor is the minimum XP for level.
func levelFloor(level int) int {
	n := level - 1
	return XPPerLevelUnit * n * n
}

// LevelInfo describes progress within the current level.
type LevelInfo struct {
	Level int
	XP    int
	// Floor is the XP at which Level started; Next is where Level+1 starts.
	Floor int
	Next  int
}

// Fraction returns progress towards the next level in [0, 1].
func (li LevelInfo) Fraction() float64 {
	span := li.Next - li.Floor
	if span <= 0 {
		return 0
	}
	f := float64(li.XP-li.Floor) / float64(span)
	return math.Max(0, math.Min(1, f))
}

// Remaining returns the XP still needed to reach the next level.
func (li LevelInfo) Remaining() int {
	return max(0, li.Next-li.XP)
}

// LevelProgress reports where xp sits on the level curve.
func LevelProgress(xp int) LevelInfo {
	xp = max(0, xp)
	level := LevelFor(xp)
	return LevelInfo{
		Level: level,
		XP:    xp,
		Floor: levelFloor(level),
		Next:  levelFloor(level + 1),
	}
}
