package strava

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jessealloy/activity-heatmap/config"
)

func testConfig(srv *httptest.Server) config.StravaConfig {
	return config.StravaConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RefreshToken: "refresh",
		BaseURL:      srv.URL + "/api/v3",
		TokenURL:     srv.URL + "/oauth/token",
		PerPage:      30,
	}
}

func writeToken(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"access_token":"test-token","token_type":"Bearer","expires_in":3600,"refresh_token":"refresh"}`)
}

func TestClient_BearerTokenFromRefreshGrant(t *testing.T) {
	tokenCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm failed: %v", err)
		}
		if got := r.Form.Get("grant_type"); got != "refresh_token" {
			t.Errorf("expected refresh_token grant, got %q", got)
		}
		if got := r.Form.Get("refresh_token"); got != "refresh" {
			t.Errorf("expected refresh token in request, got %q", got)
		}
		writeToken(w)
	})
	mux.HandleFunc("/api/v3/athlete/activities", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[]`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := NewClient(context.Background(), testConfig(srv))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if _, err := client.ListActivities(context.Background(), time.Time{}, 1); err != nil {
		t.Fatalf("ListActivities failed: %v", err)
	}
	if tokenCalls != 1 {
		t.Errorf("expected 1 token exchange, got %d", tokenCalls)
	}
	t.Log("✓ access token obtained via refresh grant and sent as bearer")
}

func TestClient_MissingCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), config.StravaConfig{BaseURL: "http://localhost", TokenURL: "http://localhost"})
	if err == nil {
		t.Fatal("expected an error for missing credentials")
	}
	t.Logf("✓ missing credentials rejected: %v", err)
}

func TestClient_ListActivitiesParams(t *testing.T) {
	var gotPage, gotPerPage, gotAfter string
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) { writeToken(w) })
	mux.HandleFunc("/api/v3/athlete/activities", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotPage, gotPerPage, gotAfter = q.Get("page"), q.Get("per_page"), q.Get("after")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id":999,"name":"Lunch Ride","type":"Ride","start_date":"2024-02-01T09:00:00Z","distance":15000,"moving_time":3600,"total_elevation_gain":120,"map":{"summary_polyline":"abc"}}]`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := NewClient(context.Background(), testConfig(srv))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	after, _ := time.Parse(time.RFC3339, "2024-01-01T08:00:00Z")
	acts, err := client.ListActivities(context.Background(), after, 3)
	if err != nil {
		t.Fatalf("ListActivities failed: %v", err)
	}

	if gotPage != "3" || gotPerPage != "30" {
		t.Errorf("expected page=3 per_page=30, got page=%s per_page=%s", gotPage, gotPerPage)
	}
	if want := fmt.Sprintf("%d", after.Unix()); gotAfter != want {
		t.Errorf("expected after=%s, got %s", want, gotAfter)
	}
	if len(acts) != 1 || acts[0].ID != 999 || acts[0].Type != "Ride" {
		t.Errorf("unexpected activities decoded: %+v", acts)
	}
	if acts[0].Map.SummaryPolyline != "abc" {
		t.Errorf("expected summary polyline, got %q", acts[0].Map.SummaryPolyline)
	}
}

func TestClient_ActivityStreams(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) { writeToken(w) })
	mux.HandleFunc("/api/v3/activities/999/streams", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("keys"); got != "latlng,altitude" {
			t.Errorf("expected keys=latlng,altitude, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"latlng":{"data":[[61.2,-149.9],[61.21,-149.91]]},"altitude":{"data":[30,31]}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := NewClient(context.Background(), testConfig(srv))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	set, err := client.ActivityStreams(context.Background(), 999)
	if err != nil {
		t.Fatalf("ActivityStreams failed: %v", err)
	}
	if len(set.LatLng) != 2 || set.LatLng[0][0] != 61.2 || set.LatLng[0][1] != -149.9 {
		t.Errorf("unexpected latlng stream: %v", set.LatLng)
	}
	if len(set.Altitude) != 2 || set.Altitude[1] != 31 {
		t.Errorf("unexpected altitude stream: %v", set.Altitude)
	}
}

func TestClient_RateLimitSignal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) { writeToken(w) })
	mux.HandleFunc("/api/v3/athlete/activities", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := NewClient(context.Background(), testConfig(srv))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	_, err = client.ListActivities(context.Background(), time.Time{}, 1)
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
}

func TestClient_AuthFailures(t *testing.T) {
	t.Run("rejected bearer token", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) { writeToken(w) })
		mux.HandleFunc("/api/v3/athlete/activities", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		client, err := NewClient(context.Background(), testConfig(srv))
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		_, err = client.ListActivities(context.Background(), time.Time{}, 1)
		var authErr *AuthError
		if !errors.As(err, &authErr) {
			t.Errorf("expected AuthError, got %v", err)
		}
	})

	t.Run("failed token refresh", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"invalid_grant"}`)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		client, err := NewClient(context.Background(), testConfig(srv))
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		_, err = client.ListActivities(context.Background(), time.Time{}, 1)
		var authErr *AuthError
		if !errors.As(err, &authErr) {
			t.Errorf("expected AuthError for failed refresh, got %v", err)
		}
	})
}
