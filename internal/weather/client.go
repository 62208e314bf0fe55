package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	custom_error "hangar/pkg/errors"
	"hangar/pkg/models"

	"go.uber.org/zap"
)

// Client implements Gateway against a current-conditions HTTP API that takes
// a free-text location query and returns a `current` block with temperature
// in °C and wind speed in km/h.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *Client) FetchSnapshot(ctx context.Context, location string) (models.WeatherSnapshot, error) {
	if location == "" {
		return models.WeatherSnapshot{}, &custom_error.WeatherUnavailableError{
			Location: location,
			Err:      fmt.Errorf("location is empty"),
		}
	}

	params := url.Values{
		"key": {c.apiKey},
		"q":   {location},
	}

	fullURL := fmt.Sprintf("%s/v1/current.json?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return models.WeatherSnapshot{}, &custom_error.WeatherUnavailableError{Location: location, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.WeatherSnapshot{}, &custom_error.WeatherUnavailableError{Location: location, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("weather provider returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.String("location", location),
		)
		return models.WeatherSnapshot{}, &custom_error.WeatherUnavailableError{
			Location: location,
			Err:      fmt.Errorf("provider status %d: %s", resp.StatusCode, body),
		}
	}

	var providerResp response
	if err := json.NewDecoder(resp.Body).Decode(&providerResp); err != nil {
		return models.WeatherSnapshot{}, &custom_error.WeatherUnavailableError{
			Location: location,
			Err:      fmt.Errorf("decode response: %w", err),
		}
	}

	// Temperature and wind speed are contractually required; a body without
	// either is treated the same as an unreachable provider.
	if providerResp.Current == nil || providerResp.Current.TempC == nil || providerResp.Current.WindKPH == nil {
		return models.WeatherSnapshot{}, &custom_error.WeatherUnavailableError{
			Location: location,
			Err:      fmt.Errorf("response missing current temperature or wind speed"),
		}
	}

	snapshot := models.WeatherSnapshot{
		Location:     location,
		TemperatureC: *providerResp.Current.TempC,
		WindSpeedKPH: *providerResp.Current.WindKPH,
		Condition:    providerResp.Current.Condition.Text,
		HumidityPct:  providerResp.Current.Humidity,
		ObservedAt:   time.Now().UTC(),
	}
	if providerResp.Location.Name != "" {
		snapshot.Location = providerResp.Location.Name
	}
	if providerResp.Current.LastUpdatedEpoch > 0 {
		snapshot.ObservedAt = time.Unix(providerResp.Current.LastUpdatedEpoch, 0).UTC()
	}

	return snapshot, nil
}

// Provider API response types. Required numeric fields are pointers so an
// absent field is distinguishable from zero.

type response struct {
	Location struct {
		Name string `json:"name"`
	} `json:"location"`
	Current *current `json:"current"`
}

type current struct {
	TempC            *float64 `json:"temp_c"`
	WindKPH          *float64 `json:"wind_kph"`
	Humidity         *float64 `json:"humidity"`
	LastUpdatedEpoch int64    `json:"last_updated_epoch"`
	Condition        struct {
		Text string `json:"text"`
	} `json:"condition"`
}
