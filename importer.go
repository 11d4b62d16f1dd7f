package heatmap

import (
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"

	"github.com/jessealloy/activity-heatmap/gpx"
	"github.com/jessealloy/activity-heatmap/store"
)

// ImportStats summarizes one bulk-import run.
type ImportStats struct {
	TotalFiles  int
	Imported    int
	Failed      int
	TotalPoints int
}

// ImportDirectory recursively finds every GPX file under dir, parses
// each into an activity record and appends all of them to the store at
// storePath, writing the merged collection back atomically. A file
// that fails to parse is logged and skipped; it does not abort the
// batch. No dedup is performed against pre-existing store content on
// this path: the documented workflow runs it once against an empty
// store.
func ImportDirectory(dir, storePath string) (*ImportStats, error) {
	files, err := findGPXFiles(dir)
	if err != nil {
		return nil, err
	}

	col, err := store.LoadOrEmpty(storePath)
	if err != nil {
		return nil, err
	}

	stats := &ImportStats{TotalFiles: len(files)}
	if len(files) == 0 {
		log.Printf("no GPX files found in %s", dir)
		return stats, nil
	}
	log.Printf("found %d GPX files", len(files))

	for i, path := range files {
		if (i+1)%10 == 0 {
			log.Printf("processed %d/%d files", i+1, len(files))
		}
		act, err := gpx.ParseFile(path)
		if err != nil {
			log.Printf("skipping %s: %v", path, err)
			stats.Failed++
			continue
		}
		col.Append(act.Feature())
		stats.Imported++
		stats.TotalPoints += len(act.Coordinates)
	}

	if err := col.Save(storePath); err != nil {
		return nil, err
	}
	log.Printf("import done: %d imported, %d failed, %d points -> %s",
		stats.Imported, stats.Failed, stats.TotalPoints, storePath)
	return stats, nil
}

func findGPXFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".gpx") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return files, nil
}
