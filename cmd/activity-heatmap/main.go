package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	lib "github.com/jessealloy/activity-heatmap"
	"github.com/jessealloy/activity-heatmap/config"
	"github.com/jessealloy/activity-heatmap/store"
	"github.com/jessealloy/activity-heatmap/strava"
)

func main() {
	mode := flag.String("mode", "", "import|update|render|static|stats")
	configPath := flag.String("config", "", "config file path (default: config.yml in the working directory)")
	dir := flag.String("dir", "", "directory of GPX files (import mode)")
	scheme := flag.String("scheme", "", "color scheme: default|heat|purple|green")
	storePath := flag.String("store", "", "store path (overrides config)")
	out := flag.String("out", "", "output artifact path (overrides config)")
	flag.Parse()

	lib.InitLogging()
	if err := config.LoadAppConfig(*configPath); err != nil {
		log.Fatalf("config: %v", err)
	}

	cfg := config.Config
	if *storePath == "" {
		*storePath = cfg.Store.Path
	}
	if *scheme == "" {
		*scheme = cfg.Heatmap.Scheme
	}

	switch *mode {
	case "import":
		d := *dir
		if d == "" {
			d = flag.Arg(0)
		}
		if d == "" {
			log.Fatal("import: directory required (-dir or positional argument)")
		}
		stats, err := lib.ImportDirectory(d, *storePath)
		if err != nil {
			log.Fatalf("import: %v", err)
		}
		fmt.Printf("imported %d of %d files (%d failed, %d points)\n",
			stats.Imported, stats.TotalFiles, stats.Failed, stats.TotalPoints)

	case "update":
		ctx := context.Background()
		client, err := strava.NewClient(ctx, cfg.Strava)
		if err != nil {
			log.Fatalf("update: %v", err)
		}
		res, err := lib.Update(ctx, client, *storePath)
		if err != nil {
			log.Fatalf("update: %v", err)
		}
		if res.Added == 0 && !res.RateLimited {
			fmt.Println("no new activities found")
		} else {
			fmt.Printf("added %d new activities (%d total)\n", res.Added, res.Total)
		}

	case "render":
		col := mustLoad(*storePath)
		output := *out
		if output == "" {
			output = cfg.Heatmap.Output
		}
		if err := lib.RenderHTML(col, *scheme, cfg.Heatmap, output); err != nil {
			log.Fatalf("render: %v", err)
		}

	case "static":
		col := mustLoad(*storePath)
		output := *out
		if output == "" {
			output = cfg.Heatmap.StaticOutput
		}
		if err := lib.RenderStatic(col, *scheme, cfg.Heatmap, output); err != nil {
			log.Fatalf("static: %v", err)
		}

	case "stats":
		col := mustLoad(*storePath)
		output := *out
		if output == "" {
			output = cfg.Stats.Output
		}
		stats, err := lib.WriteStats(col, output)
		if err != nil {
			log.Fatalf("stats: %v", err)
		}
		fmt.Printf("%d activities, %d GPS points\n", stats.TotalActivities, stats.TotalGPSPoints)

	default:
		fmt.Fprintf(os.Stderr, "usage: %s -mode import|update|render|static|stats [flags]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
}

func mustLoad(path string) *store.Collection {
	col, err := store.Load(path)
	if err != nil {
		log.Fatalf("load store: %v", err)
	}
	return col
}
