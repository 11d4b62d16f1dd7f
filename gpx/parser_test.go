package gpx

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const gpxHeader = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">`

func writeGPX(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func trackGPX(name, typ string, points int) string {
	out := gpxHeader + "\n<trk><name>" + name + "</name>"
	if typ != "" {
		out += "<type>" + typ + "</type>"
	}
	out += "<trkseg>\n"
	for i := 0; i < points; i++ {
		out += fmt.Sprintf(
			`<trkpt lat="%f" lon="%f"><ele>%d</ele><time>2024-01-01T08:%02d:00Z</time></trkpt>`+"\n",
			61.20+float64(i)*0.01, -149.90-float64(i)*0.01, 30+i, i)
	}
	return out + "</trkseg></trk></gpx>\n"
}

func TestParseFile_PointCountAndOrder(t *testing.T) {
	dir := t.TempDir()
	path := writeGPX(t, dir, "morning_run.gpx", trackGPX("Morning Run", "running", 4))

	act, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(act.Coordinates) != 4 {
		t.Fatalf("expected 4 coordinates, got %d", len(act.Coordinates))
	}
	for i, c := range act.Coordinates {
		wantLat := 61.20 + float64(i)*0.01
		wantLon := -149.90 - float64(i)*0.01
		if c[1] != wantLat || c[0] != wantLon {
			t.Errorf("coordinate %d: got [%f %f], want [%f %f]", i, c[0], c[1], wantLon, wantLat)
		}
		if c[2] != float64(30+i) {
			t.Errorf("coordinate %d: elevation %f, want %d", i, c[2], 30+i)
		}
	}
	t.Log("✓ coordinates preserved in file order")
}

func TestParseFile_Metadata(t *testing.T) {
	dir := t.TempDir()
	path := writeGPX(t, dir, "ride.gpx", trackGPX("Evening Ride", "cycling", 2))

	act, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if act.Name != "Evening Ride" {
		t.Errorf("expected name from track metadata, got %q", act.Name)
	}
	if act.Type != "cycling" {
		t.Errorf("expected type from track metadata, got %q", act.Type)
	}
	if act.SourceFile != "ride.gpx" {
		t.Errorf("expected source file ride.gpx, got %q", act.SourceFile)
	}
	want, _ := time.Parse(time.RFC3339, "2024-01-01T08:00:00Z")
	if !act.StartTime.Equal(want) {
		t.Errorf("expected start time %v, got %v", want, act.StartTime)
	}
	if act.RemoteID != 0 {
		t.Errorf("bulk-imported record should have no remote id, got %d", act.RemoteID)
	}
}

func TestParseFile_NameFallsBackToFileName(t *testing.T) {
	dir := t.TempDir()
	body := gpxHeader + `
<trk><trkseg>
<trkpt lat="61.2" lon="-149.9"><time>2024-01-01T08:00:00Z</time></trkpt>
</trkseg></trk></gpx>`
	path := writeGPX(t, dir, "unnamed.gpx", body)

	act, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if act.Name != "unnamed.gpx" {
		t.Errorf("expected file-name fallback, got %q", act.Name)
	}
	// missing elevation defaults to 0
	if act.Coordinates[0][2] != 0 {
		t.Errorf("expected elevation 0, got %f", act.Coordinates[0][2])
	}
}

func TestParseBytes_MetadataTimeFallback(t *testing.T) {
	// some exporters timestamp only the file header
	body := gpxHeader + `
<metadata><time>2024-03-01T08:00:00Z</time></metadata>
<trk><name>Untimed Run</name><trkseg>
<trkpt lat="61.20" lon="-149.90"></trkpt>
<trkpt lat="61.21" lon="-149.91"></trkpt>
</trkseg></trk></gpx>`

	act, err := ParseBytes([]byte(body), "untimed.gpx")
	if err != nil {
		t.Fatalf("ParseBytes failed: %v", err)
	}
	want, _ := time.Parse(time.RFC3339, "2024-03-01T08:00:00Z")
	if !act.StartTime.Equal(want) {
		t.Errorf("expected metadata time %v, got %v", want, act.StartTime)
	}
	t.Log("✓ header time used when no point is timestamped")
}

func TestParseBytes_PointTimeWinsOverMetadata(t *testing.T) {
	body := gpxHeader + `
<metadata><time>2024-03-01T06:00:00Z</time></metadata>
<trk><trkseg>
<trkpt lat="61.20" lon="-149.90"><time>2024-03-01T08:30:00Z</time></trkpt>
</trkseg></trk></gpx>`

	act, err := ParseBytes([]byte(body), "timed.gpx")
	if err != nil {
		t.Fatalf("ParseBytes failed: %v", err)
	}
	want, _ := time.Parse(time.RFC3339, "2024-03-01T08:30:00Z")
	if !act.StartTime.Equal(want) {
		t.Errorf("expected first point time %v, got %v", want, act.StartTime)
	}
}

func TestParseFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		body string
	}{
		{"not xml", "this is not a gpx file"},
		{"truncated", gpxHeader + "<trk><trkseg><trkpt lat=\"61.2\""},
		{"no track points", gpxHeader + "<trk><trkseg></trkseg></trk></gpx>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeGPX(t, dir, "bad.gpx", tt.body)
			if _, err := ParseFile(path); err == nil {
				t.Error("expected an error for malformed input")
			}
		})
	}
}

func TestParseFile_MultipleSegments(t *testing.T) {
	dir := t.TempDir()
	body := gpxHeader + `
<trk><name>Split Run</name>
<trkseg>
<trkpt lat="61.20" lon="-149.90"><time>2024-01-01T08:00:00Z</time></trkpt>
<trkpt lat="61.21" lon="-149.91"><time>2024-01-01T08:01:00Z</time></trkpt>
</trkseg>
<trkseg>
<trkpt lat="61.22" lon="-149.92"><time>2024-01-01T08:05:00Z</time></trkpt>
</trkseg>
</trk></gpx>`
	path := writeGPX(t, dir, "split.gpx", body)

	act, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(act.Coordinates) != 3 {
		t.Errorf("expected 3 coordinates across segments, got %d", len(act.Coordinates))
	}
}
