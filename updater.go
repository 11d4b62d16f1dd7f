package heatmap

import (
	"context"
	"errors"
	"log"

	"github.com/jessealloy/activity-heatmap/store"
	"github.com/jessealloy/activity-heatmap/strava"
)

// UpdateResult summarizes one incremental-update run.
type UpdateResult struct {
	Added       int
	Total       int
	RateLimited bool
}

// Update fetches activities newer than the latest one already in the
// store and appends them. Listing stops at the first summary at or
// older than the cursor, on an empty page, or on a rate-limit signal;
// in the rate-limited case whatever was accumulated so far is still
// persisted and the run counts as a partial success. An already-known
// remote id is dropped silently. The store is only rewritten when at
// least one record was added, so a run that finds nothing leaves the
// file untouched.
func Update(ctx context.Context, client *strava.Client, storePath string) (*UpdateResult, error) {
	col, err := store.LoadOrEmpty(storePath)
	if err != nil {
		return nil, err
	}

	cutoff, hasCutoff := col.LatestStart()
	if hasCutoff {
		log.Printf("looking for activities after %s", cutoff.Format("2006-01-02 15:04:05"))
	}
	known := col.RemoteIDs()

	res := &UpdateResult{}
pages:
	for page := 1; ; page++ {
		summaries, err := client.ListActivities(ctx, cutoff, page)
		if errors.Is(err, strava.ErrRateLimited) {
			res.RateLimited = true
			break
		}
		if err != nil {
			return nil, err
		}
		if len(summaries) == 0 {
			break
		}

		for _, s := range summaries {
			if hasCutoff && !s.StartDate.After(cutoff) {
				// reached the newest already-known activity
				break pages
			}
			if s.Map.SummaryPolyline == "" {
				log.Printf("skipping %q (%d): no GPS data", s.Name, s.ID)
				continue
			}
			if _, dup := known[s.ID]; dup {
				continue
			}

			streams, err := client.ActivityStreams(ctx, s.ID)
			if errors.Is(err, strava.ErrRateLimited) {
				res.RateLimited = true
				break pages
			}
			var authErr *strava.AuthError
			if errors.As(err, &authErr) {
				return nil, err
			}
			if err != nil {
				log.Printf("skipping %q (%d): %v", s.Name, s.ID, err)
				continue
			}
			if len(streams.LatLng) == 0 {
				log.Printf("skipping %q (%d): empty coordinate stream", s.Name, s.ID)
				continue
			}

			col.Append(activityFromStreams(s, streams).Feature())
			known[s.ID] = struct{}{}
			res.Added++
			log.Printf("added %q (%d): %d points", s.Name, s.ID, len(streams.LatLng))
		}
	}

	if res.Added > 0 {
		if err := col.Save(storePath); err != nil {
			return nil, err
		}
	}
	res.Total = len(col.Features)
	if res.RateLimited {
		log.Printf("rate limited: stopping early with %d new activities persisted", res.Added)
	}
	return res, nil
}

// activityFromStreams converts an activity summary plus its coordinate
// stream into a store record. Stream entries are [lat, lng]; the
// altitude stream runs parallel and defaults to 0 where absent.
func activityFromStreams(s strava.SummaryActivity, streams *strava.StreamSet) *store.Activity {
	coords := make([][]float64, 0, len(streams.LatLng))
	for i, ll := range streams.LatLng {
		if len(ll) < 2 {
			continue
		}
		ele := 0.0
		if i < len(streams.Altitude) {
			ele = streams.Altitude[i]
		}
		coords = append(coords, []float64{ll[1], ll[0], ele})
	}
	typ := s.Type
	if typ == "" {
		typ = s.SportType
	}
	return &store.Activity{
		RemoteID:      s.ID,
		Name:          s.Name,
		Type:          typ,
		StartTime:     s.StartDate,
		Distance:      s.Distance,
		MovingTime:    s.MovingTime,
		ElevationGain: s.TotalElevationGain,
		Coordinates:   coords,
	}
}
