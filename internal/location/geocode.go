package location

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/mirasocial/mira-client/internal/errs"
	"github.com/mirasocial/mira-client/internal/model"
)

// Geocoder resolves coordinates to human-readable addresses through a
// Nominatim-style reverse geocoding endpoint.
type Geocoder struct {
	baseURL string
	http    *http.Client
}

// NewGeocoder creates a geocoder against baseURL.
func NewGeocoder(baseURL string) *Geocoder {
	return &Geocoder{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Country string `json:"country"`
	} `json:"address"`
}

// Reverse translates a coordinate pair into an address record.
func (g *Geocoder) Reverse(ctx context.Context, lat, lon float64) (*model.LocationFix, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	res, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrNetworkUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, &errs.HTTPError{Status: res.StatusCode, Body: string(msg)}
	}

	var body reverseResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}

	city := body.Address.City
	if city == "" {
		city = body.Address.Town
	}
	if city == "" {
		city = body.Address.Village
	}
	return &model.LocationFix{
		Latitude:  lat,
		Longitude: lon,
		Address:   body.DisplayName,
		City:      city,
		Country:   body.Address.Country,
	}, nil
}
