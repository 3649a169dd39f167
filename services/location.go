package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Location struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// DefaultLocation is returned when reverse geocoding is unavailable.
var DefaultLocation = Location{City: "São Paulo", State: "SP"}

type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (Location, error)
}

// HTTPGeocoder queries a Nominatim-compatible /reverse endpoint.
type HTTPGeocoder struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGeocoder returns a reverse geocoder for the API at baseURL.
func NewHTTPGeocoder(baseURL string, timeout time.Duration) *HTTPGeocoder {
	return &HTTPGeocoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Reverse resolves coordinates to a city and state.
func (g *HTTPGeocoder) Reverse(ctx context.Context, lat, lng float64) (Location, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', 6, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return Location{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return Location{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("geocoder returned %s", resp.Status)
	}

	var body struct {
		Address struct {
			City        string `json:"city"`
			Town        string `json:"town"`
			State       string `json:"state"`
			StateCode   string `json:"state_code"`
			ISO31662Lvl string `json:"ISO3166-2-lvl4"`
		} `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Location{}, err
	}

	loc := Location{City: body.Address.City, State: body.Address.StateCode}
	if loc.City == "" {
		loc.City = body.Address.Town
	}
	if loc.State == "" {
		// "BR-SP" -> "SP"
		if i := strings.LastIndex(body.Address.ISO31662Lvl, "-"); i >= 0 {
			loc.State = body.Address.ISO31662Lvl[i+1:]
		} else {
			loc.State = body.Address.State
		}
	}
	return loc, nil
}

type LocationService struct {
	geocoder ReverseGeocoder
}

// NewLocationService wraps geocoder.
func NewLocationService(geocoder ReverseGeocoder) *LocationService {
	return &LocationService{geocoder: geocoder}
}

// Locate resolves coordinates to a city and state, falling back to
// DefaultLocation on any failure.
func (s *LocationService) Locate(ctx context.Context, lat, lng float64) Location {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return DefaultLocation
	}
	if s.geocoder == nil {
		return DefaultLocation
	}
	loc, err := s.geocoder.Reverse(ctx, lat, lng)
	if err != nil || loc.City == "" || loc.State == "" {
		if err != nil {
			log.Warn().Err(err).Msg("reverse geocoding failed, using default location")
		}
		return DefaultLocation
	}
	return loc
}
