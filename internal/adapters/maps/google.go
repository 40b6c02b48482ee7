package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/JosiahBull/tom-bot/internal/core/port"
	"github.com/rs/zerolog/log"
)

const distanceMatrixEndpoint = "https://maps.googleapis.com/maps/api/distancematrix/json"

// Google proxies the Distance Matrix API for a fixed set of named
// destinations.
type Google struct {
	apiKey       string
	endpoint     string
	names        []string
	destinations []string
	httpClient   *http.Client
}

// NewGoogle builds a provider for the given name -> address destination set.
// Destination order is stable (sorted by name) so rendered results are
// deterministic.
func NewGoogle(apiKey string, destinations map[string]string) (*Google, error) {
	if len(destinations) == 0 {
		return nil, errors.New("at least one destination is required")
	}

	names := make([]string, 0, len(destinations))
	for name := range destinations {
		names = append(names, name)
	}
	sort.Strings(names)

	addresses := make([]string, len(names))
	for i, name := range names {
		addresses[i] = destinations[name]
	}

	return &Google{
		apiKey:       apiKey,
		endpoint:     distanceMatrixEndpoint,
		names:        names,
		destinations: addresses,
		httpClient:   http.DefaultClient,
	}, nil
}

type matrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Duration struct {
				Value int64 `json:"value"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

func (g *Google) TravelTimes(ctx context.Context, origin string) ([]port.TravelTime, error) {
	query := url.Values{}
	query.Set("origins", origin)
	query.Set("destinations", strings.Join(g.destinations, "|"))
	query.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating maps request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("maps request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("maps API returned status %d", resp.StatusCode)
	}

	var result matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding maps response: %w", err)
	}

	if result.Status != "OK" {
		return nil, fmt.Errorf("maps API returned status %q", result.Status)
	}
	if len(result.Rows) == 0 || len(result.Rows[0].Elements) != len(g.names) {
		return nil, errors.New("maps API returned unexpected row shape")
	}

	times := make([]port.TravelTime, 0, len(g.names))
	for i, element := range result.Rows[0].Elements {
		if element.Status != "OK" {
			log.Warn().
				Str("destination", g.names[i]).
				Str("status", element.Status).
				Msg("no route to destination")
			continue
		}

		times = append(times, port.TravelTime{
			Destination: g.names[i],
			Minutes:     element.Duration.Value / 60,
		})
	}

	return times, nil
}
