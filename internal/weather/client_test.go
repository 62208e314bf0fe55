package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	custom_error "hangar/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(baseURL string) *Client {
	return NewClient(baseURL, "test-key", 5*time.Second, zap.NewNop())
}

func TestFetchSnapshot_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/current.json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "St. John's", r.URL.Query().Get("q"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"location": {"name": "St. John's"},
			"current": {
				"temp_c": 18.5,
				"wind_kph": 32.0,
				"humidity": 87,
				"last_updated_epoch": 1756500000,
				"condition": {"text": "Light rain"}
			}
		}`))
	}))
	defer srv.Close()

	snapshot, err := testClient(srv.URL).FetchSnapshot(context.Background(), "St. John's")

	require.NoError(t, err)
	assert.Equal(t, 18.5, snapshot.TemperatureC)
	assert.Equal(t, 32.0, snapshot.WindSpeedKPH)
	assert.Equal(t, "Light rain", snapshot.Condition)
	assert.Equal(t, "St. John's", snapshot.Location)
	require.NotNil(t, snapshot.HumidityPct)
	assert.Equal(t, 87.0, *snapshot.HumidityPct)
	assert.Equal(t, time.Unix(1756500000, 0).UTC(), snapshot.ObservedAt)
}

func TestFetchSnapshot_EmptyLocation(t *testing.T) {
	_, err := testClient("http://unused").FetchSnapshot(context.Background(), "")

	var weatherErr *custom_error.WeatherUnavailableError
	assert.ErrorAs(t, err, &weatherErr)
}

func TestFetchSnapshot_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"No matching location found."}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchSnapshot(context.Background(), "nowhere")

	var weatherErr *custom_error.WeatherUnavailableError
	assert.ErrorAs(t, err, &weatherErr)
}

func TestFetchSnapshot_MissingTemperatureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"current": {"wind_kph": 10.0}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchSnapshot(context.Background(), "St. John's")

	var weatherErr *custom_error.WeatherUnavailableError
	assert.ErrorAs(t, err, &weatherErr)
}

func TestFetchSnapshot_MissingCurrentBlockIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"location": {"name": "St. John's"}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchSnapshot(context.Background(), "St. John's")

	var weatherErr *custom_error.WeatherUnavailableError
	assert.ErrorAs(t, err, &weatherErr)
}

func TestFetchSnapshot_MalformedBodyIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchSnapshot(context.Background(), "St. John's")

	var weatherErr *custom_error.WeatherUnavailableError
	assert.ErrorAs(t, err, &weatherErr)
}
