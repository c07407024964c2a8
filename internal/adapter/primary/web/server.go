package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"namaz-cli/internal/domain"
	"namaz-cli/internal/logging"
	"namaz-cli/internal/usecase"
)

// Server is a primary adapter that exposes the countdown as JSON + a small page.
// It depends on the use cases (primary ports).
type Server struct {
	countdown usecase.CountdownUseCase
	refresher usecase.RefresherUseCase
	now       func() time.Time
	server    *http.Server
}

// NewServer creates the HTTP server bound to addr.
func NewServer(countdown usecase.CountdownUseCase, refresher usecase.RefresherUseCase, addr string) *Server {
	mux := http.NewServeMux()
	srv := &Server{countdown: countdown, refresher: refresher, now: time.Now}
	mux.HandleFunc("/api/countdown", srv.handleCountdown)
	mux.HandleFunc("/api/timings", srv.handleTimings)
	mux.HandleFunc("/", srv.handleRoot)

	srv.server = &http.Server{
		Addr:              addr,
		Handler:           loggingMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv
}

// Handler returns the routed handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start blocks and serves HTTP traffic.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Namaz</title>
    <style>
        body { font-family: sans-serif; max-width: 600px; margin: 50px auto; padding: 20px; background: #111; color: #ddd; }
        #next { font-size: 64px; font-weight: bold; color: #F38B94; }
        #secondary { color: #A0A0A0; }
        table { border-collapse: collapse; margin-top: 20px; }
        td { border: 1px solid #444; padding: 6px 14px; }
    </style>
</head>
<body>
    <div id="title">Loading...</div>
    <div id="next"></div>
    <div id="secondary"></div>
    <table id="timings"></table>
    <script>
        async function load() {
            const res = await fetch('/api/countdown');
            const data = await res.json();
            if (!data.ready) {
                document.getElementById('title').textContent = data.error || 'Loading...';
                return;
            }
            document.getElementById('title').textContent = data.city + ' - ' + data.primary.label;
            document.getElementById('next').textContent = data.primary.remaining;
            document.getElementById('secondary').textContent =
                data.secondary ? data.secondary.label + ' ' + data.secondary.remaining : '';
            document.getElementById('timings').innerHTML = data.timings
                .map(t => '<tr><td>' + t.label + '</td><td>' + t.time + '</td></tr>').join('');
        }
        load();
        setInterval(load, 1000);
    </script>
</body>
</html>`))
}

func (s *Server) handleCountdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	view := s.countdown.View(s.now())
	status := http.StatusOK
	if !view.Ready {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, view)
}

func (s *Server) handleTimings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	timings, ok := s.refresher.Snapshot().Load()
	if !ok {
		respondJSON(w, http.StatusServiceUnavailable, map[string]any{"ready": false})
		return
	}
	respondJSON(w, http.StatusOK, timingsToView(timings, s.refresher.Status()))
}

func timingsToView(t domain.DailyTimings, status usecase.RefreshStatus) map[string]any {
	times := make(map[string]string, len(domain.PrayerOrder))
	for _, p := range domain.PrayerOrder {
		times[p.String()] = t.Raw[p]
	}

	view := map[string]any{
		"ready":      true,
		"city":       t.Location.City,
		"country":    t.Location.Country,
		"method":     t.Location.Method,
		"timings":    times,
		"lunarMonth": t.LunarMonth,
		"gregorian":  t.Gregorian,
		"hijri":      t.Hijri,
		"fetchedAt":  t.FetchedAt,
		"fromCache":  status.FromCache,
	}
	if status.LastError != nil {
		view["lastError"] = status.LastError.Error()
	}
	return view
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Errorf("encode JSON: %v", err)
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Infof("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
