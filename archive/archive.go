// Package archive manages the directory of dated snapshot files and derives
// the navigation list rendered into every snapshot.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Emathyran/daily-news/config"
	"github.com/Emathyran/daily-news/models"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Store is the persistence boundary for dated snapshots.
type Store interface {
	List() ([]models.ArchiveEntry, error)
	Write(date time.Time, content []byte) error
}

// DirStore keeps one snapshot file per day in a flat directory, each named
// <YYYY-MM-DD>.html.
type DirStore struct {
	dir string
}

func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

// List scans the directory for dated snapshot files. Files whose name does
// not parse as a date are excluded from the result but left on disk. A
// missing directory yields an empty list.
func (s *DirStore) List() ([]models.ArchiveEntry, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read archive directory %s: %w", s.dir, err)
	}

	var entries []models.ArchiveEntry
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		name := file.Name()
		date, err := time.Parse(time.DateOnly, strings.TrimSuffix(name, filepath.Ext(name)))
		if err != nil {
			log.WithField("file", name).Warn("Skipping archive file without a date name")
			continue
		}
		entries = append(entries, models.ArchiveEntry{
			Date:     date,
			FileName: name,
			Label:    date.Format(time.DateOnly),
		})
	}
	return entries, nil
}

// Write stores the snapshot for the given date, overwriting any earlier
// snapshot written the same day.
func (s *DirStore) Write(date time.Time, content []byte) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create archive directory %s: %w", s.dir, err)
	}
	path := filepath.Join(s.dir, date.Format(time.DateOnly)+".html")
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write archive file %s: %w", path, err)
	}
	return nil
}

// BuildNavigation produces the date-descending navigation list for a run on
// today's date. At most one entry per calendar date survives. Today's entry
// is marked current, synthesized and prepended if no file for it exists yet.
func BuildNavigation(entries []models.ArchiveEntry, today time.Time) []models.ArchiveEntry {
	nav := make([]models.ArchiveEntry, len(entries))
	copy(nav, entries)

	sort.SliceStable(nav, func(i, j int) bool {
		return nav[i].Date.After(nav[j].Date)
	})
	nav = lo.UniqBy(nav, func(entry models.ArchiveEntry) string {
		return entry.Date.Format(time.DateOnly)
	})

	todayKey := today.Format(time.DateOnly)
	for i := range nav {
		if nav[i].Date.Format(time.DateOnly) == todayKey {
			nav[i].IsCurrent = true
			return nav
		}
	}

	current := models.ArchiveEntry{
		Date:      today,
		FileName:  todayKey + ".html",
		Label:     todayKey,
		IsCurrent: true,
	}
	return append([]models.ArchiveEntry{current}, nav...)
}

// ResolveLinks returns a copy of the navigation with every Href rewritten
// relative to the directory the rendered document will live in. The root
// document sits beside the archive directory; a dated copy sits inside it.
func ResolveLinks(entries []models.ArchiveEntry, isArchiveCopy bool) []models.ArchiveEntry {
	return lo.Map(entries, func(entry models.ArchiveEntry, _ int) models.ArchiveEntry {
		switch {
		case entry.IsCurrent && isArchiveCopy:
			entry.Href = "../" + config.OutputFile
		case entry.IsCurrent:
			entry.Href = config.OutputFile
		case isArchiveCopy:
			entry.Href = "../" + config.ArchiveDir + "/" + entry.FileName
		default:
			entry.Href = config.ArchiveDir + "/" + entry.FileName
		}
		return entry
	})
}
