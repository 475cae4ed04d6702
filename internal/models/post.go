package models

import "time"

// Post is a published blog post
type Post struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Slug               string    `json:"slug"`
	Content            string    `json:"content"`
	Excerpt            string    `json:"excerpt"`
	ImageURL           string    `json:"image_url,omitempty"`
	AuthorID           string    `json:"author_id"`
	MetaDescription    string    `json:"meta_description"`
	MetaKeywords       []string  `json:"meta_keywords"`
	ReadingTimeMinutes int       `json:"reading_time_minutes"`
	CreatedAt          time.Time `json:"created_at"`
}

// Profile is an author record. Machine-ingested posts are attributed to the bot profile.
type Profile struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	IsBot     bool      `json:"is_bot"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// BotFullName is the display name of the profile that authors ingested posts
const BotFullName = "RSS Bot"
