package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/bilgisen/feedpress/internal/logger"
	"github.com/bilgisen/feedpress/internal/models"
)

// ProfileStore looks up and creates author profiles
type ProfileStore interface {
	FindBotProfile(ctx context.Context) (*models.Profile, error)
	CreateProfile(ctx context.Context, profile *models.Profile) error
}

// RunContext is the state of one ingestion cycle. It is built once per Run and passed
// to every step; nothing about a cycle outlives it.
type RunContext struct {
	BotID     string
	Mode      string
	StartedAt time.Time

	globalCapReached bool
	posts            []models.Post
	errors           []string
	sources          []SourceResult
}

// resolveBot returns the id of the bot profile, creating the profile when absent
func resolveBot(ctx context.Context, profiles ProfileStore) (string, error) {
	bot, err := profiles.FindBotProfile(ctx)
	if err != nil {
		return "", fmt.Errorf("find bot profile: %w", err)
	}
	if bot != nil {
		return bot.ID, nil
	}

	bot = &models.Profile{FullName: models.BotFullName, IsBot: true}
	if err := profiles.CreateProfile(ctx, bot); err != nil {
		return "", fmt.Errorf("create bot profile: %w", err)
	}

	logger.Get().Info().Str("profile_id", bot.ID).Msg("Created bot profile")
	return bot.ID, nil
}

func (rc *RunContext) recordError(source string, err error) {
	rc.errors = append(rc.errors, fmt.Sprintf("%s: %v", source, err))
}
