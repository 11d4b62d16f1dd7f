// Package heatmap turns GPS activity data into a geographic feature
// collection and renders it as a heatmap.
//
// Three producers/consumers compose through one on-disk GeoJSON store:
// the bulk importer seeds it from a directory of GPX files, the
// incremental updater appends new activities fetched from the Strava
// API, and the renderers read it to produce heatmap artifacts.
package heatmap
