// Package gpx parses GPX track-log files into activity records.
package gpx
