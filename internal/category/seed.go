package category

import (
	"time"

	"github.com/abhisek/quizzy/internal/difficulty"
)

var defaultCatalog = NewCatalog(seedCategories(), seedTopics())

// Default returns the built-in catalog.
func Default() *Catalog {
	return defaultCatalog
}

func seedCategories() []Category {
	return []Category{
		{ID: AllID, Name: "All Categories", Icon: "📚", Description: "Questions from all available topics", Theme: ThemeMixed},
		{ID: "science", Name: "Science", Icon: "🔬", Description: "Physics, Chemistry, Biology and more", Theme: ThemeScience},
		{ID: "physics", Name: "Physics", Icon: "⚛️", Description: "Forces, energy and the laws of nature", Theme: ThemeScience},
		{ID: "biology", Name: "Biology", Icon: "🌱", Description: "Living things and how they work", Theme: ThemeScience},
		{ID: "history", Name: "History", Icon: "🏛️", Description: "World events and important dates", Theme: ThemeHumanities},
		{ID: "geography", Name: "Geography", Icon: "🌍", Description: "Countries, capitals, and landmarks", Theme: ThemeHumanities},
		{ID: "art", Name: "Art", Icon: "🎨", Description: "Paintings, artists, and movements", Theme: ThemeHumanities},
		{ID: "programming", Name: "Programming", Icon: "💻", Description: "Coding concepts and languages", Theme: ThemeTechnology},
	}
}

func seedTopics() []Topic {
	return []Topic{
		{
			ID:            "prog-101",
			CategoryID:    "programming",
			Title:         "Programming Basics",
			Description:   "Strengthen your knowledge of fundamental programming concepts",
			Icon:          "💻",
			Difficulty:    difficulty.TierMedium,
			EstimatedTime: 15 * time.Minute,
		},
		{
			ID:            "phys-adv",
			CategoryID:    "physics",
			Title:         "Advanced Physics",
			Description:   "Deepen your understanding of quantum physics principles",
			Icon:          "⚛️",
			Difficulty:    difficulty.TierHard,
			EstimatedTime: 20 * time.Minute,
		},
		{
			ID:            "bio-eco",
			CategoryID:    "biology",
			Title:         "Ecosystem Studies",
			Description:   "Explore how organisms interact with their environment",
			Icon:          "🌱",
			Difficulty:    difficulty.TierMedium,
			EstimatedTime: 12 * time.Minute,
		},
		{
			ID:            "geo-world",
			CategoryID:    "geography",
			Title:         "World Geography",
			Description:   "Test your knowledge of countries, capitals and landmarks",
			Icon:          "🌍",
			Difficulty:    difficulty.TierEasy,
			EstimatedTime: 10 * time.Minute,
		},
		{
			ID:            "hist-world",
			CategoryID:    "history",
			Title:         "World History",
			Description:   "Important events that shaped our world",
			Icon:          "🏛️",
			Difficulty:    difficulty.TierMedium,
			EstimatedTime: 15 * time.Minute,
		},
	}
}
