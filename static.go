package heatmap

import (
	"fmt"
	"log"
	"math"

	"github.com/fogleman/gg"

	"github.com/jessealloy/activity-heatmap/config"
	"github.com/jessealloy/activity-heatmap/store"
)

const (
	staticBins   = 200
	staticWidth  = 1200
	staticHeight = 1000
)

// RenderStatic writes a static PNG heatmap: a 2D histogram of the
// point set over a padded bounding box, blurred and mapped through the
// chosen color gradient.
func RenderStatic(col *store.Collection, scheme string, cfg config.HeatmapConfig, outPath string) error {
	pts := col.Points()
	if len(pts) == 0 {
		return fmt.Errorf("render static: no GPS points in collection")
	}
	log.Printf("rendering %d points", len(pts))

	latMin, latMax := pts[0][0], pts[0][0]
	lonMin, lonMax := pts[0][1], pts[0][1]
	for _, p := range pts {
		latMin = math.Min(latMin, p[0])
		latMax = math.Max(latMax, p[0])
		lonMin = math.Min(lonMin, p[1])
		lonMax = math.Max(lonMax, p[1])
	}
	// 10% padding on each side; degenerate extents get a small nudge
	latPad := (latMax - latMin) * 0.1
	lonPad := (lonMax - lonMin) * 0.1
	if latPad == 0 {
		latPad = 0.001
	}
	if lonPad == 0 {
		lonPad = 0.001
	}
	latMin, latMax = latMin-latPad, latMax+latPad
	lonMin, lonMax = lonMin-lonPad, lonMax+lonPad

	hist := make([][]float64, staticBins)
	for i := range hist {
		hist[i] = make([]float64, staticBins)
	}
	latSpan := latMax - latMin
	lonSpan := lonMax - lonMin
	for _, p := range pts {
		y := int(float64(staticBins) * (p[0] - latMin) / latSpan)
		x := int(float64(staticBins) * (p[1] - lonMin) / lonSpan)
		if y < 0 || y >= staticBins || x < 0 || x >= staticBins {
			continue
		}
		hist[y][x]++
	}

	// two box-blur passes approximate a gaussian
	hist = boxBlur(boxBlur(hist))

	peak := 0.0
	for _, row := range hist {
		for _, v := range row {
			peak = math.Max(peak, v)
		}
	}
	if peak == 0 {
		return fmt.Errorf("render static: empty histogram")
	}

	grad := ResolveScheme(scheme)
	dc := gg.NewContext(staticWidth, staticHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	cellW := float64(staticWidth) / staticBins
	cellH := float64(staticHeight) / staticBins
	minAlpha := cfg.MinOpacity
	for y := 0; y < staticBins; y++ {
		for x := 0; x < staticBins; x++ {
			v := hist[y][x]
			if v == 0 {
				continue
			}
			t := v / peak
			r, g, b := grad.At(t)
			alpha := minAlpha + (1-minAlpha)*t
			// histogram row 0 is the southern edge; image row 0 is the top
			py := float64(staticHeight) - float64(y+1)*cellH
			dc.SetRGBA(r, g, b, alpha)
			dc.DrawRectangle(float64(x)*cellW, py, cellW, cellH)
			dc.Fill()
		}
	}

	if err := dc.SavePNG(outPath); err != nil {
		return fmt.Errorf("render static: %w", err)
	}
	log.Printf("static heatmap saved to %s", outPath)
	return nil
}

func boxBlur(grid [][]float64) [][]float64 {
	n := len(grid)
	out := make([][]float64, n)
	for y := range out {
		out[y] = make([]float64, n)
		for x := range out[y] {
			sum, count := 0.0, 0.0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					yy, xx := y+dy, x+dx
					if yy < 0 || yy >= n || xx < 0 || xx >= n {
						continue
					}
					sum += grid[yy][xx]
					count++
				}
			}
			out[y][x] = sum / count
		}
	}
	return out
}
