package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/bilgisen/feedpress/internal/config"
	"github.com/bilgisen/feedpress/internal/models"
)

// R2Archive uploads posts to a Cloudflare R2 bucket through the S3 API
type R2Archive struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewR2Archive builds an S3 client for R2. The endpoint defaults to the account endpoint
// when R2_ENDPOINT is empty.
func NewR2Archive(ctx context.Context, cfg *config.Config) (*R2Archive, error) {
	endpoint := cfg.R2Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKey, cfg.R2SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &R2Archive{client: client, bucket: cfg.R2Bucket, prefix: "posts"}, nil
}

// Save uploads post as posts/YYYY/MM/DD/<slug>.json
func (a *R2Archive) Save(ctx context.Context, post *models.Post) error {
	data, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(a.key(post)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload post %s: %w", post.Slug, err)
	}
	return nil
}

func (a *R2Archive) key(post *models.Post) string {
	created := post.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return path.Join(a.prefix, created.UTC().Format("2006/01/02"), post.Slug+".json")
}

// MultiArchive saves to every archive and returns the first error
type MultiArchive []Archive

func (m MultiArchive) Save(ctx context.Context, post *models.Post) error {
	var first error
	for _, a := range m {
		if err := a.Save(ctx, post); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NewArchive returns the archives enabled in cfg, or nil when none is
func NewArchive(ctx context.Context, cfg *config.Config) (Archive, error) {
	var archives MultiArchive

	if cfg.ArchivePath != "" {
		disk, err := NewDiskArchive(cfg.ArchivePath)
		if err != nil {
			return nil, err
		}
		archives = append(archives, disk)
	}

	if cfg.R2Enabled() {
		r2, err := NewR2Archive(ctx, cfg)
		if err != nil {
			return nil, err
		}
		archives = append(archives, r2)
	}

	switch len(archives) {
	case 0:
		return nil, nil
	case 1:
		return archives[0], nil
	}
	return archives, nil
}
