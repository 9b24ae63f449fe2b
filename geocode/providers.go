package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const userAgent = "transit-query-resolver/0.1"

// getJSON performs a GET with the request bounded by ctx and decodes the
// JSON body into out.
func getJSON(ctx context.Context, client *http.Client, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch from %s: %w", req.URL.Host, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, req.URL.Host)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", req.URL.Host, err)
	}
	return nil
}

// biased appends the region to the query so providers rank placements
// inside the served area first.
func biased(query, region string) string {
	if region == "" {
		return query
	}
	return query + ", " + region
}

// Nominatim queries the OpenStreetMap Nominatim service. It needs no API
// key and is the default provider.
type Nominatim struct {
	httpClient *http.Client
	baseURL    string
	region     string
}

func NewNominatim(region string) *Nominatim {
	return &Nominatim{
		httpClient: &http.Client{},
		baseURL:    "https://nominatim.openstreetmap.org/search",
		region:     region,
	}
}

func (n *Nominatim) Name() string { return "nominatim" }

func (n *Nominatim) Geocode(ctx context.Context, query string) ([]Place, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("limit", "5")
	params.Set("addressdetails", "0")
	params.Set("q", biased(query, n.region))

	var results []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := getJSON(ctx, n.httpClient, n.baseURL+"?"+params.Encode(), &results); err != nil {
		return nil, err
	}

	places := make([]Place, 0, len(results))
	for _, r := range results {
		lat, err := strconv.ParseFloat(r.Lat, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse latitude %q: %w", r.Lat, err)
		}
		lon, err := strconv.ParseFloat(r.Lon, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse longitude %q: %w", r.Lon, err)
		}
		places = append(places, Place{Lat: lat, Lon: lon, DisplayName: r.DisplayName})
	}
	return places, nil
}

// Bing queries the Bing Maps Locations REST API. Placements outside the
// configured country are discarded.
type Bing struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	region     string
	country    string
}

func NewBing(apiKey, region, country string) *Bing {
	return &Bing{
		httpClient: &http.Client{},
		baseURL:    "https://dev.virtualearth.net/REST/v1/Locations",
		apiKey:     apiKey,
		region:     region,
		country:    country,
	}
}

func (b *Bing) Name() string { return "bing" }

func (b *Bing) Geocode(ctx context.Context, query string) ([]Place, error) {
	params := url.Values{}
	params.Set("key", b.apiKey)
	params.Set("query", biased(query, b.region))

	var payload struct {
		ResourceSets []struct {
			EstimatedTotal int `json:"estimatedTotal"`
			Resources      []struct {
				Name  string `json:"name"`
				Point struct {
					Coordinates []float64 `json:"coordinates"`
				} `json:"point"`
				Address struct {
					CountryRegion string `json:"countryRegion"`
				} `json:"address"`
			} `json:"resources"`
		} `json:"resourceSets"`
	}
	if err := getJSON(ctx, b.httpClient, b.baseURL+"?"+params.Encode(), &payload); err != nil {
		return nil, err
	}

	places := []Place{}
	if len(payload.ResourceSets) == 0 || payload.ResourceSets[0].EstimatedTotal == 0 {
		return places, nil
	}
	for _, r := range payload.ResourceSets[0].Resources {
		if b.country != "" && r.Address.CountryRegion != b.country {
			continue
		}
		if len(r.Point.Coordinates) < 2 {
			continue
		}
		places = append(places, Place{
			Lat:         r.Point.Coordinates[0],
			Lon:         r.Point.Coordinates[1],
			DisplayName: r.Name,
		})
	}
	return places, nil
}

// Google queries the Google Geocoding API with a ccTLD region bias.
type Google struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	region     string
	regionCode string
}

func NewGoogle(apiKey, region, regionCode string) *Google {
	return &Google{
		httpClient: &http.Client{},
		baseURL:    "https://maps.googleapis.com/maps/api/geocode/json",
		apiKey:     apiKey,
		region:     region,
		regionCode: regionCode,
	}
}

func (g *Google) Name() string { return "google" }

func (g *Google) Geocode(ctx context.Context, query string) ([]Place, error) {
	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("region", g.regionCode)
	params.Set("address", biased(query, g.region))

	var payload struct {
		Status  string `json:"status"`
		Results []struct {
			FormattedAddress string `json:"formatted_address"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := getJSON(ctx, g.httpClient, g.baseURL+"?"+params.Encode(), &payload); err != nil {
		return nil, err
	}

	switch payload.Status {
	case "ZERO_RESULTS":
		return []Place{}, nil
	case "OK":
	default:
		return nil, fmt.Errorf("google geocoder returned status %s", payload.Status)
	}

	places := make([]Place, 0, len(payload.Results))
	for _, r := range payload.Results {
		places = append(places, Place{
			Lat:         r.Geometry.Location.Lat,
			Lon:         r.Geometry.Location.Lng,
			DisplayName: r.FormattedAddress,
		})
	}
	return places, nil
}
