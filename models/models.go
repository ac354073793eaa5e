// Package models holds the data passed between the collector, enricher,
// archive index and renderer.
package models

import "time"

// Article is one normalized news item collected from a feed endpoint.
type Article struct {
	Source    string
	Title     string
	Link      string
	Published string // provider-supplied string, kept verbatim
	Summary   string
	Analysis  string // set exactly once by the enricher
}

// Section holds the retained articles for one category in collection order.
type Section struct {
	Category string
	Articles []*Article
}

// RunResult is the complete in-memory state of one run. It is built fresh
// every run and only its rendered projection is ever persisted.
type RunResult struct {
	Sections []Section
}

// Articles returns every article across all sections in section order.
func (r *RunResult) Articles() []*Article {
	var articles []*Article
	for _, section := range r.Sections {
		articles = append(articles, section.Articles...)
	}
	return articles
}

// TotalArticles returns the number of retained articles across all sections.
func (r *RunResult) TotalArticles() int {
	total := 0
	for _, section := range r.Sections {
		total += len(section.Articles)
	}
	return total
}

// ArchiveEntry is one dated snapshot surfaced in the navigation list.
type ArchiveEntry struct {
	Date      time.Time
	FileName  string
	Label     string
	IsCurrent bool
	Href      string // resolved per rendering mode, empty until then
}

// CategoryView is the per-category slice of the renderer contract.
type CategoryView struct {
	Name      string
	QuotaUsed int
	Articles  []*Article
}

// PageData is the full data contract handed to the renderer. IsArchiveCopy
// distinguishes the root document from a dated copy; navigation hrefs must
// already be resolved for that mode.
type PageData struct {
	GeneratedAt   string
	Categories    []CategoryView
	Navigation    []ArchiveEntry
	IsArchiveCopy bool
}
