package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("Expected %q to be valid", c)
		}
	}

	if Category("cooking").Valid() {
		t.Error("Expected unknown category to be invalid")
	}
	if Category("").Valid() {
		t.Error("Expected empty category to be invalid")
	}
}

func TestPostJSONFieldNames(t *testing.T) {
	post := Post{
		ID:                 "post-id",
		Title:              "Test Title",
		Slug:               "test-title",
		Content:            "<p>Body</p>",
		Excerpt:            "Body...",
		ImageURL:           "https://example.com/image.jpg",
		AuthorID:           "bot-id",
		MetaDescription:    "Body",
		MetaKeywords:       []string{"https://example.com/feed.xml"},
		ReadingTimeMinutes: 5,
		CreatedAt:          time.Now(),
	}

	data, err := json.Marshal(post)
	if err != nil {
		t.Fatalf("Failed to marshal Post: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	for _, field := range []string{"image_url", "author_id", "meta_description", "meta_keywords", "reading_time_minutes", "created_at"} {
		if _, ok := result[field]; !ok {
			t.Errorf("Expected field %s in JSON, got %v", field, result)
		}
	}

	if result["reading_time_minutes"] != float64(5) {
		t.Errorf("Expected reading_time_minutes 5, got %v", result["reading_time_minutes"])
	}
}
