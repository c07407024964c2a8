package aladhan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"namaz-cli/internal/domain"
)

// Client implements domain.TimingsProvider against the Aladhan REST API.
// This is a secondary adapter.
type Client struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// NewClient creates a client for baseURL (e.g. https://api.aladhan.com/v1).
func NewClient(baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = domain.DefaultAPIBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
}

type timingsResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   struct {
		Timings map[string]string `json:"timings"`
		Date    struct {
			Gregorian struct {
				Date string `json:"date"`
			} `json:"gregorian"`
			Hijri struct {
				Date  string `json:"date"`
				Month struct {
					Number json.Number `json:"number"`
					En     string      `json:"en"`
				} `json:"month"`
			} `json:"hijri"`
		} `json:"date"`
	} `json:"data"`
}

// Fetch returns today's timings for loc.
func (c *Client) Fetch(ctx context.Context, loc domain.Location) (domain.DailyTimings, error) {
	if loc.City == "" || loc.Country == "" {
		return domain.DailyTimings{}, domain.ErrNotConfigured
	}

	query := url.Values{}
	query.Set("city", loc.City)
	query.Set("country", loc.Country)
	query.Set("method", strconv.Itoa(loc.Method))

	endpoint := c.baseURL + "/timingsByCity?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.DailyTimings{}, fmt.Errorf("aladhan request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.DailyTimings{}, fmt.Errorf("aladhan request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.DailyTimings{}, fmt.Errorf("aladhan bad status: %s", resp.Status)
	}

	var payload timingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.DailyTimings{}, fmt.Errorf("aladhan decode: %w", err)
	}
	if payload.Code != http.StatusOK {
		return domain.DailyTimings{}, fmt.Errorf("aladhan error %d: %s", payload.Code, payload.Status)
	}
	if len(payload.Data.Timings) == 0 {
		return domain.DailyTimings{}, fmt.Errorf("aladhan timings missing")
	}

	raw := domain.RawTimings{}
	for key, value := range payload.Data.Timings {
		if p, ok := domain.ParsePrayerID(key); ok {
			raw[p] = strings.TrimSpace(value)
		}
	}

	month, err := strconv.Atoi(payload.Data.Date.Hijri.Month.Number.String())
	if err != nil {
		return domain.DailyTimings{}, fmt.Errorf("aladhan hijri month %q: %w", payload.Data.Date.Hijri.Month.Number, err)
	}

	return domain.DailyTimings{
		Location:   loc,
		Raw:        raw,
		LunarMonth: month,
		Gregorian:  payload.Data.Date.Gregorian.Date,
		Hijri:      payload.Data.Date.Hijri.Date,
		HijriName:  payload.Data.Date.Hijri.Month.En,
		FetchedAt:  c.now(),
	}, nil
}
