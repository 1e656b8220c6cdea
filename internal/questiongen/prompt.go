package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizzy/internal/category"
	"github.com/abhisek/quizzy/internal/difficulty"
)

const systemPrompt = `You write multiple-choice trivia questions for a quiz game.

Rules:
- Every question belongs to the given category and matches the given difficulty.
- Give exactly four options. Exactly one is correct; the others are plausible but clearly wrong to an expert.
- Options are short and distinct. Do not use "all of the above" or "none of the above".
- Vary the position of the correct option across the batch.
- Questions must be self-contained and factually accurate. Avoid facts that change from year to year.
- Do not repeat or paraphrase any question from the "already asked" list.`

var tierGuidance = map[difficulty.Tier]string{
	difficulty.TierEasy:   "common knowledge a curious teenager would know",
	difficulty.TierMedium: "requires some study of the subject",
	difficulty.TierHard:   "specialist detail an enthusiast or student of the field would know",
}

func buildUserMessage(cat category.Category, tier difficulty.Tier, n int, prior []string, maxPrior int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Category: %s\n", cat.Name)
	if cat.Description != "" {
		fmt.Fprintf(&b, "About: %s\n", cat.Description)
	}
	fmt.Fprintf(&b, "Difficulty: %s (%s)\n", tier.Label(), tierGuidance[tier])
	fmt.Fprintf(&b, "Number of questions: %d\n", n)

	b.WriteString("\nAlready asked:\n")
	if maxPrior > 0 && len(prior) > maxPrior {
		prior = prior[len(prior)-maxPrior:]
	}
	if len(prior) == 0 {
		b.WriteString("None")
	}
	for i, p := range prior {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, p)
	}
	return b.String()
}
