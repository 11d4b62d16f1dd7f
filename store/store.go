package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	geojson "github.com/paulmach/go.geojson"
)

// Metadata is the non-feature header of the persisted document.
type Metadata struct {
	Generated       string `json:"generated,omitempty"`
	TotalActivities int    `json:"total_activities"`
	TotalPoints     int    `json:"total_points"`
}

// Collection is the loaded feature collection. Features are ordered
// and append-only from the perspective of normal operation.
type Collection struct {
	Metadata Metadata
	Features []*geojson.Feature
}

type document struct {
	Type     string             `json:"type"`
	Metadata Metadata           `json:"metadata"`
	Features []*geojson.Feature `json:"features"`
}

// Load reads and parses the collection at path. A missing or corrupt
// file is an error; use LoadOrEmpty for producers that may run first.
func Load(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse store %s: %w", path, err)
	}
	if doc.Type != "" && doc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("parse store %s: unexpected document type %q", path, doc.Type)
	}
	return &Collection{Metadata: doc.Metadata, Features: doc.Features}, nil
}

// LoadOrEmpty behaves like Load but treats a missing file as an empty
// collection. Corrupt content is still an error.
func LoadOrEmpty(path string) (*Collection, error) {
	col, err := Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Collection{}, nil
		}
		return nil, err
	}
	return col, nil
}

// Append adds a feature to the end of the collection.
func (c *Collection) Append(f *geojson.Feature) {
	c.Features = append(c.Features, f)
}

// Save writes the collection to path atomically and refreshes the
// metadata totals and generation timestamp.
func (c *Collection) Save(path string) error {
	c.Metadata.TotalActivities = len(c.Features)
	c.Metadata.TotalPoints = c.TotalPoints()
	c.Metadata.Generated = time.Now().UTC().Format(time.RFC3339)

	doc := document{Type: "FeatureCollection", Metadata: c.Metadata, Features: c.Features}
	if doc.Features == nil {
		doc.Features = []*geojson.Feature{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".store-*.geojson")
	if err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

// RemoteIDs builds the set of known remote ids, used for duplicate
// suppression by the incremental updater.
func (c *Collection) RemoteIDs() map[int64]struct{} {
	ids := make(map[int64]struct{})
	for _, f := range c.Features {
		if id := RemoteID(f); id != 0 {
			ids[id] = struct{}{}
		}
	}
	return ids
}

// LatestStart returns the most recent start timestamp across all
// features. The second return is false for an empty or untimed store.
func (c *Collection) LatestStart() (time.Time, bool) {
	var latest time.Time
	found := false
	for _, f := range c.Features {
		if t, ok := StartTime(f); ok && t.After(latest) {
			latest = t
			found = true
		}
	}
	return latest, found
}

// Points flattens every LineString into a single (lat, lon) point set.
func (c *Collection) Points() [][2]float64 {
	var pts [][2]float64
	for _, f := range c.Features {
		if f.Geometry == nil || !f.Geometry.IsLineString() {
			continue
		}
		for _, coord := range f.Geometry.LineString {
			if len(coord) < 2 {
				continue
			}
			pts = append(pts, [2]float64{coord[1], coord[0]})
		}
	}
	return pts
}

// TotalPoints counts the coordinates across all LineString features.
func (c *Collection) TotalPoints() int {
	n := 0
	for _, f := range c.Features {
		if f.Geometry != nil && f.Geometry.IsLineString() {
			n += len(f.Geometry.LineString)
		}
	}
	return n
}
