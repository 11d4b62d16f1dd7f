package strava

import "time"

// SummaryActivity is one entry of the paginated activity listing.
type SummaryActivity struct {
	ID                 int64       `json:"id"`
	Name               string      `json:"name"`
	Type               string      `json:"type"`
	SportType          string      `json:"sport_type"`
	StartDate          time.Time   `json:"start_date"`
	Distance           float64     `json:"distance"`
	MovingTime         int         `json:"moving_time"`
	TotalElevationGain float64     `json:"total_elevation_gain"`
	Map                ActivityMap `json:"map"`
}

// ActivityMap carries the activity's encoded polyline summary. An
// empty SummaryPolyline means the activity has no GPS data.
type ActivityMap struct {
	SummaryPolyline string `json:"summary_polyline"`
}

// StreamSet is the full coordinate stream of one activity. LatLng
// entries are [lat, lng] pairs; Altitude runs parallel to LatLng and
// may be shorter or absent.
type StreamSet struct {
	LatLng   [][]float64
	Altitude []float64
}
