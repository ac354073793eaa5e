// Package collector pulls entries from every registered feed endpoint and
// normalizes them into quota-bounded category article lists.
package collector

import (
	"context"
	"errors"
	"html"
	"strings"

	"github.com/Emathyran/daily-news/config"
	"github.com/Emathyran/daily-news/models"

	"github.com/microcosm-cc/bluemonday"
	log "github.com/sirupsen/logrus"
)

// SummaryMaxRunes caps the plain-text summary kept on each article.
const SummaryMaxRunes = 300

// MinPerSource is the lower bound of entries taken from a single feed.
const MinPerSource = 2

// Placeholders substituted for absent entry fields.
const (
	NoTitle     = "No title"
	NoLink      = "#"
	NoPublished = "N/A"
)

// ErrNoEntries marks a feed that responded but yielded nothing usable.
var ErrNoEntries = errors.New("feed returned no entries")

// Entry is one raw item returned by a feed endpoint before normalization.
type Entry struct {
	Title     string
	Link      string
	Published string
	Summary   string
}

// Fetcher retrieves the entries of a single feed endpoint.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]Entry, error)
}

// SourceReport records how a single feed endpoint fared during collection.
type SourceReport struct {
	Category string
	Feed     string
	URL      string
	Fetched  int
	Kept     int
	Err      error
}

// Collector assembles one run's articles from the configured categories.
type Collector struct {
	categories []config.Category
	fetcher    Fetcher
	policy     *bluemonday.Policy
}

func New(categories []config.Category, fetcher Fetcher) *Collector {
	return &Collector{
		categories: categories,
		fetcher:    fetcher,
		policy:     bluemonday.StrictPolicy(),
	}
}

// Collect visits every feed endpoint in registry order and returns the
// quota-trimmed run result together with one report per endpoint.
func (c *Collector) Collect(ctx context.Context) (*models.RunResult, []SourceReport) {
	result := &models.RunResult{}
	reports := make([]SourceReport, 0, len(c.categories))

	for _, category := range c.categories {
		perSource := perSourceLimit(category.Quota, len(category.Feeds))

		var articles []*models.Article
		for _, feed := range category.Feeds {
			report := SourceReport{Category: category.Name, Feed: feed.Name, URL: feed.URL}

			entries, err := c.fetcher.Fetch(ctx, feed.URL)
			if err == nil && len(entries) == 0 {
				err = ErrNoEntries
			}
			if err != nil {
				report.Err = err
				reports = append(reports, report)
				log.WithFields(log.Fields{
					"category": category.Name,
					"feed":     feed.Name,
					"error":    err,
				}).Warn("Skipping feed")
				continue
			}

			report.Fetched = len(entries)
			if len(entries) > perSource {
				entries = entries[:perSource]
			}
			report.Kept = len(entries)
			reports = append(reports, report)

			for _, entry := range entries {
				articles = append(articles, c.newArticle(feed.Name, entry))
			}
		}

		// Earlier sources win when the category overshoots its quota
		if len(articles) > category.Quota {
			articles = articles[:category.Quota]
		}

		result.Sections = append(result.Sections, models.Section{
			Category: category.Name,
			Articles: articles,
		})

		log.WithFields(log.Fields{
			"category": category.Name,
			"articles": len(articles),
			"quota":    category.Quota,
		}).Info("Collected category")
	}

	return result, reports
}

// perSourceLimit spreads a category quota across its feeds, with a floor of
// two entries per feed.
func perSourceLimit(quota, feedCount int) int {
	if feedCount == 0 {
		return MinPerSource
	}
	limit := quota/feedCount + 1
	if limit < MinPerSource {
		return MinPerSource
	}
	return limit
}

func (c *Collector) newArticle(source string, entry Entry) *models.Article {
	article := &models.Article{
		Source:    source,
		Title:     entry.Title,
		Link:      entry.Link,
		Published: entry.Published,
		Summary:   truncateRunes(c.cleanSummary(entry.Summary), SummaryMaxRunes),
	}
	if article.Title == "" {
		article.Title = NoTitle
	}
	if article.Link == "" {
		article.Link = NoLink
	}
	if article.Published == "" {
		article.Published = NoPublished
	}
	return article
}

// cleanSummary strips any markup from a feed summary and collapses runs of
// whitespace into single spaces.
func (c *Collector) cleanSummary(raw string) string {
	stripped := c.policy.Sanitize(raw)
	unescaped := html.UnescapeString(stripped)
	return strings.Join(strings.Fields(unescaped), " ")
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
