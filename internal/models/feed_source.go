package models

import "time"

// Category groups feed sources and selects the content templates used to expand their entries
type Category string

const (
	CategoryAITools               Category = "ai_tools"
	CategoryAIPrompts             Category = "ai_prompts"
	CategoryProductivity          Category = "productivity"
	CategoryGettingThingsDone     Category = "getting_things_done"
	CategoryBusinessContributions Category = "business_contributions"
	CategoryPeopleContactNetworks Category = "people_contact_networks"
)

// Categories lists every known category in display order
var Categories = []Category{
	CategoryAITools,
	CategoryAIPrompts,
	CategoryProductivity,
	CategoryGettingThingsDone,
	CategoryBusinessContributions,
	CategoryPeopleContactNetworks,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// FeedSource is a configured external RSS/Atom feed
type FeedSource struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	Category    Category   `json:"category"`
	Active      bool       `json:"active"`
	LastFetchAt *time.Time `json:"last_fetch_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
}
