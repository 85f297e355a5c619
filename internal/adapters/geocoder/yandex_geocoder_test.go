package geocoder

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const moscowResponse = `{
  "response": {
    "GeoObjectCollection": {
      "featureMember": [
        {"GeoObject": {"Point": {"pos": "37.617698 55.755864"}}},
        {"GeoObject": {"Point": {"pos": "30.315868 59.939095"}}}
      ]
    }
  }
}`

const emptyResponse = `{"response": {"GeoObjectCollection": {"featureMember": []}}}`

func newTestGeocoder(t *testing.T, h http.HandlerFunc) *YandexGeocoder {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	g, err := NewYandexGeocoder(Options{APIKey: "test-key", BaseURL: srv.URL, Client: srv.Client()})
	require.NoError(t, err)
	return g
}

func TestYandexGeocodeFirstPlace(t *testing.T) {
	var gotQuery map[string]string
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"geocode": r.URL.Query().Get("geocode"),
			"apikey":  r.URL.Query().Get("apikey"),
			"format":  r.URL.Query().Get("format"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(moscowResponse))
	})

	coords, found, err := g.Geocode(context.Background(), "Москва, Красная площадь")
	require.NoError(t, err)
	require.True(t, found)

	assert.InDelta(t, 55.755864, coords.Lat, 1e-9)
	assert.InDelta(t, 37.617698, coords.Lon, 1e-9)
	assert.Equal(t, map[string]string{
		"geocode": "Москва, Красная площадь",
		"apikey":  "test-key",
		"format":  "json",
	}, gotQuery)
}

func TestYandexGeocodeEmptyResultIsNotFound(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(emptyResponse))
	})

	_, found, err := g.Geocode(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestYandexGeocodeHTTPErrorPropagates(t *testing.T) {
	calls := 0
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "forbidden", http.StatusForbidden)
	})

	_, _, err := g.Geocode(context.Background(), "Moscow")
	require.Error(t, err)

	var he *HTTPStatusError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusForbidden, he.Code)
	assert.Equal(t, 1, calls, "failed requests are not retried")
}

func TestYandexGeocodeMalformedPosition(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"GeoObjectCollection":{"featureMember":[{"GeoObject":{"Point":{"pos":"37.6"}}}]}}}`))
	})

	_, _, err := g.Geocode(context.Background(), "Moscow")
	assert.Error(t, err)
}

func TestNewYandexGeocoderRequiresKey(t *testing.T) {
	_, err := NewYandexGeocoder(Options{APIKey: "  "})
	assert.Error(t, err)
}

func TestParsePos(t *testing.T) {
	tests := []struct {
		name    string
		pos     string
		wantLat float64
		wantLon float64
		wantErr bool
	}{
		{name: "lon first", pos: "37.61 55.75", wantLat: 55.75, wantLon: 37.61},
		{name: "extra spaces", pos: "  30.3351   59.9343 ", wantLat: 59.9343, wantLon: 30.3351},
		{name: "single value", pos: "37.61", wantErr: true},
		{name: "not a number", pos: "east north", wantErr: true},
		{name: "empty", pos: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := parsePos(tt.pos)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLat, c.Lat)
			assert.Equal(t, tt.wantLon, c.Lon)
		})
	}
}
