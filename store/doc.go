// Package store persists the activity feature collection.
//
// The on-disk format is a GeoJSON FeatureCollection with a metadata
// block. Each activity is a LineString feature whose properties carry
// the activity name, start time, remote id (API-sourced records only)
// and summary metrics. Writes are atomic: the document is written to a
// temporary file in the same directory and renamed into place.
package store
