package store

import (
	"encoding/json"
	"time"

	geojson "github.com/paulmach/go.geojson"
)

// Activity is one recorded exercise session with a GPS path.
// RemoteID is zero for bulk-imported records; the tracking service's
// id otherwise. Coordinates are GeoJSON order: [lon, lat, ele].
type Activity struct {
	RemoteID      int64
	Name          string
	Type          string
	StartTime     time.Time
	Distance      float64 // meters
	MovingTime    int     // seconds
	ElevationGain float64 // meters
	SourceFile    string
	Coordinates   [][]float64
}

// Feature converts the activity into a GeoJSON LineString feature.
// Optional properties are omitted rather than written as zero values.
func (a *Activity) Feature() *geojson.Feature {
	f := geojson.NewLineStringFeature(a.Coordinates)
	f.SetProperty("name", a.Name)
	f.SetProperty("point_count", len(a.Coordinates))
	if !a.StartTime.IsZero() {
		f.SetProperty("time", a.StartTime.UTC().Format(time.RFC3339))
	}
	if a.RemoteID != 0 {
		f.SetProperty("activity_id", a.RemoteID)
	}
	if a.Type != "" {
		f.SetProperty("type", a.Type)
	}
	if a.Distance > 0 {
		f.SetProperty("distance", a.Distance)
	}
	if a.MovingTime > 0 {
		f.SetProperty("moving_time", a.MovingTime)
	}
	if a.ElevationGain > 0 {
		f.SetProperty("total_elevation_gain", a.ElevationGain)
	}
	if a.SourceFile != "" {
		f.SetProperty("source_file", a.SourceFile)
	}
	return f
}

// RemoteID extracts the remote activity id from a feature, or zero
// when the record was not API-sourced. JSON round-trips turn the id
// into a float64, so every plausible representation is accepted.
func RemoteID(f *geojson.Feature) int64 {
	raw, ok := f.Properties["activity_id"]
	if !ok {
		return 0
	}
	switch v := raw.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// StartTime extracts the start timestamp from a feature. The second
// return is false when the property is absent or unparsable.
func StartTime(f *geojson.Feature) (time.Time, bool) {
	s, err := f.PropertyString("time")
	if err != nil || s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
