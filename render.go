package heatmap

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"os"

	"github.com/jessealloy/activity-heatmap/config"
	"github.com/jessealloy/activity-heatmap/store"
)

// heatmapPage is a self-contained Leaflet page with a heat layer over
// the flattened point set. The drawing itself belongs to Leaflet.heat;
// this side only supplies points, gradient and layer parameters.
const heatmapPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Activity Heatmap</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script src="https://unpkg.com/leaflet.heat@0.2.0/dist/leaflet-heat.js"></script>
<style>
html, body, #map { height: 100%; margin: 0; }
</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});
var osm = L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
    attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);
var light = L.tileLayer('https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}.png', {
    attribution: '&copy; OpenStreetMap contributors &copy; CARTO'
});
var dark = L.tileLayer('https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}.png', {
    attribution: '&copy; OpenStreetMap contributors &copy; CARTO'
});
L.control.layers({'OpenStreetMap': osm, 'Light Map': light, 'Dark Map': dark}).addTo(map);

var points = {{.Points}};
L.heatLayer(points, {
    minOpacity: {{.MinOpacity}},
    maxZoom: 18,
    radius: {{.Radius}},
    blur: {{.Blur}},
    gradient: {{.Gradient}}
}).addTo(map);

// mobile resize fix: re-measure the container after viewport changes
function invalidate() { setTimeout(function() { map.invalidateSize(); }, 100); }
window.addEventListener('resize', invalidate);
window.addEventListener('orientationchange', function() { setTimeout(invalidate, 200); });
window.addEventListener('load', function() { setTimeout(invalidate, 500); });
window.addEventListener('message', function(e) { if (e.data === 'resize') invalidate(); });
</script>
</body>
</html>
`

var pageTemplate = template.Must(template.New("heatmap").Parse(heatmapPage))

type pageData struct {
	CenterLat  float64
	CenterLon  float64
	Zoom       int
	Radius     int
	Blur       int
	MinOpacity float64
	Points     template.JS
	Gradient   template.JS
}

// RenderHTML flattens the collection into a point set and writes the
// interactive heatmap page to outPath.
func RenderHTML(col *store.Collection, scheme string, cfg config.HeatmapConfig, outPath string) error {
	pts := col.Points()
	if len(pts) == 0 {
		return fmt.Errorf("render: no GPS points in collection")
	}
	log.Printf("rendering %d points", len(pts))

	lat, lon := mapCenter(pts, cfg)
	pointsJSON, err := json.Marshal(pts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	data := pageData{
		CenterLat:  lat,
		CenterLon:  lon,
		Zoom:       cfg.Zoom,
		Radius:     cfg.Radius,
		Blur:       cfg.Blur,
		MinOpacity: cfg.MinOpacity,
		Points:     template.JS(pointsJSON),
		Gradient:   template.JS(ResolveScheme(scheme).stopsJSON()),
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := pageTemplate.Execute(f, data); err != nil {
		f.Close()
		return fmt.Errorf("render: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	log.Printf("heatmap saved to %s", outPath)
	return nil
}

// mapCenter picks the configured center when set, otherwise the mean
// of all points.
func mapCenter(pts [][2]float64, cfg config.HeatmapConfig) (lat, lon float64) {
	if cfg.CenterLat != 0 || cfg.CenterLon != 0 {
		return cfg.CenterLat, cfg.CenterLon
	}
	for _, p := range pts {
		lat += p[0]
		lon += p[1]
	}
	n := float64(len(pts))
	return lat / n, lon / n
}
