package gpx

import (
	"fmt"
	"path/filepath"
	"time"

	gpxgo "github.com/tkrajina/gpxgo/gpx"

	"github.com/jessealloy/activity-heatmap/store"
)

// ParseFile parses a single GPX file into an activity record. Track
// points are flattened across tracks and segments in file order, as
// GeoJSON [lon, lat, ele] triples. The activity name comes from the
// first track's name, falling back to the file name; the start time
// from the first timestamped point, falling back to the file's
// metadata time. A file with no track points is an error: it produces
// no usable geometry.
func ParseFile(path string) (*store.Activity, error) {
	g, err := gpxgo.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return fromGPX(g, filepath.Base(path))
}

// ParseBytes parses GPX content that is already in memory.
func ParseBytes(data []byte, sourceName string) (*store.Activity, error) {
	g, err := gpxgo.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", sourceName, err)
	}
	return fromGPX(g, sourceName)
}

func fromGPX(g *gpxgo.GPX, sourceFile string) (*store.Activity, error) {
	var coords [][]float64
	var start time.Time
	for _, trk := range g.Tracks {
		for _, seg := range trk.Segments {
			for _, p := range seg.Points {
				ele := 0.0
				if p.Elevation.NotNull() {
					ele = p.Elevation.Value()
				}
				coords = append(coords, []float64{p.Longitude, p.Latitude, ele})
				if start.IsZero() && !p.Timestamp.IsZero() {
					start = p.Timestamp
				}
			}
		}
	}
	if len(coords) == 0 {
		return nil, fmt.Errorf("parse %s: no track points", sourceFile)
	}
	// some exporters only timestamp the file header, not the points
	if start.IsZero() && g.Time != nil {
		start = *g.Time
	}

	act := &store.Activity{
		Name:        sourceFile,
		StartTime:   start,
		SourceFile:  sourceFile,
		Coordinates: coords,
	}
	if len(g.Tracks) > 0 {
		if g.Tracks[0].Name != "" {
			act.Name = g.Tracks[0].Name
		}
		act.Type = g.Tracks[0].Type
	}
	return act, nil
}
