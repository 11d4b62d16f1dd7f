package heatmap

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/jessealloy/activity-heatmap/store"
)

// Stats aggregates the collection for downstream display.
type Stats struct {
	Generated       string         `json:"generated"`
	TotalActivities int            `json:"total_activities"`
	TotalGPSPoints  int            `json:"total_gps_points"`
	TotalDistanceKM *float64       `json:"total_distance_km"`
	ActivityTypes   map[string]int `json:"activity_types"`
	DateRange       DateRange      `json:"date_range"`
	Center          Center         `json:"center"`
}

type DateRange struct {
	First string `json:"first,omitempty"`
	Last  string `json:"last,omitempty"`
}

type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BuildStats computes aggregate statistics for a non-empty collection.
func BuildStats(col *store.Collection) (*Stats, error) {
	if len(col.Features) == 0 {
		return nil, fmt.Errorf("stats: no activities in collection")
	}

	stats := &Stats{
		Generated:       time.Now().UTC().Format(time.RFC3339),
		TotalActivities: len(col.Features),
		TotalGPSPoints:  col.TotalPoints(),
		ActivityTypes:   map[string]int{},
	}

	totalDistance := 0.0
	var first, last time.Time
	for _, f := range col.Features {
		typ, err := f.PropertyString("type")
		if err != nil || typ == "" {
			typ = "Unknown"
		}
		stats.ActivityTypes[typ]++

		if d, err := f.PropertyFloat64("distance"); err == nil && d > 0 {
			totalDistance += d
		}
		if t, ok := store.StartTime(f); ok {
			if first.IsZero() || t.Before(first) {
				first = t
			}
			if t.After(last) {
				last = t
			}
		}
	}
	if totalDistance > 0 {
		km := math.Round(totalDistance/100) / 10
		stats.TotalDistanceKM = &km
	}
	if !first.IsZero() {
		stats.DateRange.First = first.Format("2006-01-02")
		stats.DateRange.Last = last.Format("2006-01-02")
	}

	pts := col.Points()
	if len(pts) > 0 {
		var lat, lon float64
		for _, p := range pts {
			lat += p[0]
			lon += p[1]
		}
		n := float64(len(pts))
		stats.Center = Center{
			Lat: math.Round(lat/n*10000) / 10000,
			Lon: math.Round(lon/n*10000) / 10000,
		}
	}
	return stats, nil
}

// WriteStats builds the statistics and writes them as indented JSON.
func WriteStats(col *store.Collection, outPath string) (*Stats, error) {
	stats, err := BuildStats(col)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	log.Printf("stats saved to %s", outPath)
	return stats, nil
}
