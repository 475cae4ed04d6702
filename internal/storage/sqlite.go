package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bilgisen/feedpress/internal/models"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Timestamps are stored as fixed-width UTC text so string comparison orders them correctly
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore keeps sources, profiles and posts in a local SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies pending migrations
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, _, err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// runMigrations applies all pending migrations and returns the resulting version
func runMigrations(db *sql.DB) (uint, bool, error) {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return 0, false, fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return 0, false, fmt.Errorf("failed to create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return 0, false, fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}

	return version, dirty, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// AddSource registers a feed source. Sources are normally managed by an administrator.
func (s *SQLiteStore) AddSource(ctx context.Context, src *models.FeedSource) error {
	if src.ID == "" {
		src.ID = uuid.NewString()
	}
	if src.CreatedAt.IsZero() {
		src.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feed_sources (id, name, url, category, active, last_fetch_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		src.ID, src.Name, src.URL, string(src.Category), src.Active, formatNullableTime(src.LastFetchAt), formatTime(src.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to add source: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListActiveSources(ctx context.Context) ([]models.FeedSource, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, url, category, active, last_fetch_at, created_at
		FROM feed_sources
		WHERE active = 1
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []models.FeedSource
	for rows.Next() {
		var (
			src       models.FeedSource
			category  string
			lastFetch sql.NullString
			createdAt string
		)
		if err := rows.Scan(&src.ID, &src.Name, &src.URL, &category, &src.Active, &lastFetch, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		src.Category = models.Category(category)
		src.CreatedAt = parseTime(createdAt)
		if lastFetch.Valid {
			t := parseTime(lastFetch.String)
			src.LastFetchAt = &t
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

func (s *SQLiteStore) UpdateSourceLastFetch(ctx context.Context, sourceID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE feed_sources SET last_fetch_at = ? WHERE id = ?`, formatTime(at), sourceID)
	if err != nil {
		return fmt.Errorf("failed to update last fetch: %w", err)
	}
	return nil
}

const postColumns = `id, title, slug, content, excerpt, image_url, author_id, meta_description, meta_keywords, reading_time_minutes, created_at`

func (s *SQLiteStore) PostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = ? LIMIT 1`, slug)

	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up post: %w", err)
	}
	return post, nil
}

func (s *SQLiteStore) CountPostsSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE created_at >= ?`, formatTime(since)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) CountPostsSinceByKeyword(ctx context.Context, since time.Time, keyword string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM posts
		WHERE created_at >= ?
		AND EXISTS (SELECT 1 FROM json_each(posts.meta_keywords) WHERE json_each.value = ?)`,
		formatTime(since), keyword).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts by keyword: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) InsertPost(ctx context.Context, post *models.Post) error {
	keywords := post.MetaKeywords
	if keywords == nil {
		keywords = []string{}
	}
	kw, err := json.Marshal(keywords)
	if err != nil {
		return &PersistError{Slug: post.Slug, Err: err}
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.Title, post.Slug, post.Content, post.Excerpt, post.ImageURL, post.AuthorID,
		post.MetaDescription, string(kw), post.ReadingTimeMinutes, formatTime(post.CreatedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: posts.slug") {
			return &PersistError{Slug: post.Slug, Err: fmt.Errorf("%w: %v", ErrDuplicateSlug, err)}
		}
		return &PersistError{Slug: post.Slug, Err: err}
	}
	return nil
}

func (s *SQLiteStore) ListRecentPosts(ctx context.Context, limit int) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func (s *SQLiteStore) FindBotProfile(ctx context.Context) (*models.Profile, error) {
	var (
		p         models.Profile
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, full_name, is_bot, created_at FROM profiles
		WHERE is_bot = 1 AND full_name = ?
		ORDER BY created_at LIMIT 1`, models.BotFullName).
		Scan(&p.ID, &p.FullName, &p.IsBot, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find bot profile: %w", err)
	}
	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}

func (s *SQLiteStore) CreateProfile(ctx context.Context, profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO profiles (id, full_name, is_bot, created_at) VALUES (?, ?, ?, ?)`,
		profile.ID, profile.FullName, profile.IsBot, formatTime(profile.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		post      models.Post
		keywords  string
		createdAt string
	)
	err := row.Scan(&post.ID, &post.Title, &post.Slug, &post.Content, &post.Excerpt, &post.ImageURL,
		&post.AuthorID, &post.MetaDescription, &keywords, &post.ReadingTimeMinutes, &createdAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(keywords), &post.MetaKeywords); err != nil {
		return nil, fmt.Errorf("invalid meta_keywords for %s: %w", post.Slug, err)
	}
	post.CreatedAt = parseTime(createdAt)
	return &post, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t
}
