package aladhan

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"namaz-cli/internal/domain"
)

const samplePayload = `{
  "code": 200,
  "status": "OK",
  "data": {
    "timings": {
      "Fajr": "05:30", "Sunrise": "06:50", "Dhuhr": "13:05", "Asr": "16:40",
      "Sunset": "19:52", "Maghrib": "19:55", "Isha": "21:20", "Imsak": "05:20",
      "Midnight": "00:43"
    },
    "date": {
      "readable": "01 Mar 2026",
      "gregorian": {"date": "01-03-2026"},
      "hijri": {"date": "11-09-1447", "month": {"number": 9, "en": "Ramaḍān"}}
    }
  }
}`

func TestFetchDecodesTimings(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/timingsByCity" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		gotQuery = map[string]string{"city": q.Get("city"), "country": q.Get("country"), "method": q.Get("method")}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/v1/")
	got, err := c.Fetch(context.Background(), domain.Location{City: "Izmir", Country: "Turkey", Method: 13})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if gotQuery["city"] != "Izmir" || gotQuery["country"] != "Turkey" || gotQuery["method"] != "13" {
		t.Fatalf("unexpected query %v", gotQuery)
	}
	if len(got.Raw) != 6 {
		t.Fatalf("expected only the six prayers, got %v", got.Raw)
	}
	if got.Raw[domain.Maghrib] != "19:55" || got.Raw[domain.Fajr] != "05:30" {
		t.Fatalf("unexpected raw timings %v", got.Raw)
	}
	if got.LunarMonth != 9 || !got.IsFastingMonth() {
		t.Fatalf("lunar month mismatch: %d", got.LunarMonth)
	}
	if got.Gregorian != "01-03-2026" || got.Hijri != "11-09-1447" {
		t.Fatalf("dates mismatch: %q %q", got.Gregorian, got.Hijri)
	}
	if got.Location.City != "Izmir" || got.FetchedAt.IsZero() {
		t.Fatalf("metadata missing: %+v", got)
	}
}

func TestFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Fetch(context.Background(), domain.Location{City: "a", Country: "b"})
	if err == nil {
		t.Fatal("expected error for 502")
	}
}

func TestFetchAPIErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code": 400, "status": "Unable to locate city", "data": {}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Fetch(context.Background(), domain.Location{City: "a", Country: "b"})
	if err == nil {
		t.Fatal("expected error for code 400")
	}
}

func TestFetchRequiresLocation(t *testing.T) {
	_, err := NewClient("").Fetch(context.Background(), domain.Location{City: "Istanbul"})
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestFetchHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewClient(srv.URL).Fetch(ctx, domain.Location{City: "a", Country: "b", Method: 13}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
