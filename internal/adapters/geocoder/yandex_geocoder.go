package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"foodcart-service/internal/domain"
	"foodcart-service/internal/platform/obs"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://geocode-maps.yandex.ru/1.x"

// YandexGeocoder implements ports.Geocoder against the Yandex geocoding API.
// It is safe for concurrent use.
type YandexGeocoder struct {
	session *http.Client
	apiKey  string
	baseURL string
}

type Options struct {
	APIKey  string
	BaseURL string
	// Zero leaves the transport defaults in place.
	Timeout time.Duration
	Client  *http.Client
}

func NewYandexGeocoder(opts Options) (*YandexGeocoder, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("yandex geocoder: api key is empty")
	}

	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	session := opts.Client
	if session == nil {
		session = &http.Client{Timeout: opts.Timeout}
	}

	return &YandexGeocoder{
		session: session,
		apiKey:  opts.APIKey,
		baseURL: baseURL,
	}, nil
}

type geocodeResponse struct {
	Response struct {
		GeoObjectCollection struct {
			FeatureMember []struct {
				GeoObject struct {
					Point struct {
						Pos string `json:"pos"`
					} `json:"Point"`
				} `json:"GeoObject"`
			} `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

// Geocode returns the most relevant (first) place for address.
func (y *YandexGeocoder) Geocode(
	ctx context.Context,
	address string,
) (_ domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "yandex.Geocode")(&err)

	req, err := y.newRequest(ctx, address)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("geocode %q: %w", address, err)
	}

	resp, err := y.do(req)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("geocode %q: execute request: %w", address, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("geocode %q: decode response: %w", address, err)
	}

	places := decoded.Response.GeoObjectCollection.FeatureMember
	if len(places) == 0 {
		return domain.Coordinates{}, false, nil
	}

	coords, err := parsePos(places[0].GeoObject.Point.Pos)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("geocode %q: %w", address, err)
	}

	return coords, true, nil
}

// parsePos splits a "<lon> <lat>" position string.
func parsePos(pos string) (domain.Coordinates, error) {
	parts := strings.Fields(pos)
	if len(parts) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid position format %q", pos)
	}

	lon, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("parse longitude %q: %w", parts[0], err)
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("parse latitude %q: %w", parts[1], err)
	}

	return domain.Coordinates{Lat: lat, Lon: lon}, nil
}
