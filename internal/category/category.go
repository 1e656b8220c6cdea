package category

import (
	"fmt"
	"time"

	"github.com/abhisek/quizzy/internal/difficulty"
)

// AllID is the meta-category that mixes questions from every category.
const AllID = "all"

// Theme groups categories that are close in subject matter.
type Theme string

const (
	ThemeMixed      Theme = "mixed"
	ThemeScience    Theme = "science"
	ThemeHumanities Theme = "humanities"
	ThemeTechnology Theme = "technology"
)

// Category is immutable reference data identifying a quiz subject.
type Category struct {
	ID          string
	Name        string
	Icon        string
	Description string
	Theme       Theme
}

// Topic is the curated descriptor shown when a category is recommended.
type Topic struct {
	ID            string
	CategoryID    string
	Title         string
	Description   string
	Icon          string
	Difficulty    difficulty.Tier
	EstimatedTime time.Duration
}

// EstimatedLabel renders the estimated time as "15 min".
func (t Topic) EstimatedLabel() string {
	return fmt.Sprintf("%d min", int(t.EstimatedTime.Minutes()))
}

// Catalog indexes categories and their curated topics by stable id.
type Catalog struct {
	categories []Category
	byID       map[string]int
	topics     map[string]Topic
}

// NewCatalog builds a catalog. Topics whose category is not in the catalog
// are ignored. Later duplicates of a category id are dropped.
func NewCatalog(categories []Category, topics []Topic) *Catalog {
	c := &Catalog{
		byID:   make(map[string]int, len(categories)),
		topics: make(map[string]Topic, len(topics)),
	}
	for _, cat := range categories {
		if _, dup := c.byID[cat.ID]; dup {
			continue
		}
		c.byID[cat.ID] = len(c.categories)
		c.categories = append(c.categories, cat)
	}
	for _, t := range topics {
		if _, ok := c.byID[t.CategoryID]; ok {
			c.topics[t.CategoryID] = t
		}
	}
	return c
}

// All returns the categories in display order.
func (c *Catalog) All() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Get looks up a category by id.
func (c *Catalog) Get(id string) (Category, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// Name returns the display name for id, or id itself when unknown.
func (c *Catalog) Name(id string) string {
	if cat, ok := c.Get(id); ok {
		return cat.Name
	}
	return id
}

// Topic returns the curated topic for a category id.
func (c *Catalog) Topic(categoryID string) (Topic, bool) {
	t, ok := c.topics[categoryID]
	return t, ok
}

// Adjacent returns the other categories sharing id's theme, in display
// order. The mixed theme has no neighbours.
func (c *Catalog) Adjacent(id string) []Category {
	cat, ok := c.Get(id)
	if !ok || cat.Theme == ThemeMixed {
		return nil
	}
	var out []Category
	for _, other := range c.categories {
		if other.ID != id && other.Theme == cat.Theme {
			out = append(out, other)
		}
	}
	return out
}
