package feed

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const acceptHeader = "application/rss+xml, application/atom+xml, application/xml, text/xml;q=0.9, */*;q=0.8"

// Fetcher downloads raw feed documents
type Fetcher struct {
	client    *resty.Client
	userAgent string
}

func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	return &Fetcher{
		client:    resty.New().SetTimeout(timeout),
		userAgent: userAgent,
	}
}

// Fetch retrieves the feed at url and returns its body. There is no retry: a failed
// source is picked up again on the next cycle.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", acceptHeader).
		SetHeader("User-Agent", f.userAgent).
		Get(url)

	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	if !resp.IsSuccess() {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode()}
	}

	body := resp.String()
	if strings.TrimSpace(body) == "" {
		return "", &FetchError{URL: url, Err: ErrEmptyBody}
	}

	return body, nil
}
