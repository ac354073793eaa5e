package collector

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// FetchTimeout bounds a single feed request.
const FetchTimeout = 30 * time.Second

// RSSFetcher fetches and parses remote RSS/Atom feeds.
type RSSFetcher struct {
	parser *gofeed.Parser
}

func NewRSSFetcher() *RSSFetcher {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: FetchTimeout}
	return &RSSFetcher{parser: parser}
}

func (f *RSSFetcher) Fetch(ctx context.Context, url string) ([]Entry, error) {
	feed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		entries = append(entries, Entry{
			Title:     item.Title,
			Link:      item.Link,
			Published: item.Published,
			Summary:   summary,
		})
	}
	return entries, nil
}
