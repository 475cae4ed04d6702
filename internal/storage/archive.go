package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bilgisen/feedpress/internal/models"
)

// Archive keeps a JSON copy of every post the pipeline creates
type Archive interface {
	Save(ctx context.Context, post *models.Post) error
}

// DiskArchive writes posts under basePath/YYYY/MM/DD/<unix>_<slug>.json
type DiskArchive struct {
	basePath string
	mu       sync.RWMutex
}

func NewDiskArchive(basePath string) (*DiskArchive, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	return &DiskArchive{
		basePath: basePath,
	}, nil
}

// Save writes post to a dated directory
func (a *DiskArchive) Save(ctx context.Context, post *models.Post) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	created := post.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	datePath := filepath.Join(a.basePath, created.Format("2006/01/02"))
	if err := os.MkdirAll(datePath, 0755); err != nil {
		return fmt.Errorf("failed to create date directory: %w", err)
	}

	filename := fmt.Sprintf("%d_%s.json", created.Unix(), post.Slug)

	data, err := json.MarshalIndent(post, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}

	if err := os.WriteFile(filepath.Join(datePath, filename), data, 0644); err != nil {
		return fmt.Errorf("failed to write post file: %w", err)
	}

	return nil
}

// List returns up to limit archived posts, newest first
func (a *DiskArchive) List(ctx context.Context, limit int) ([]models.Post, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	var files []string
	err := filepath.WalkDir(a.basePath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking the archive: %w", err)
	}

	// Dated directories and the unix prefix make the path order chronological
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}

	posts := make([]models.Post, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error reading file %s: %w", file, err)
		}

		var post models.Post
		if err := json.Unmarshal(data, &post); err != nil {
			return nil, fmt.Errorf("error unmarshaling post %s: %w", file, err)
		}
		posts = append(posts, post)
	}

	return posts, nil
}
