package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/skycast/skycast/internal/provider/resilience"
	"github.com/skycast/skycast/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "openweathermap"

	// DefaultBaseURL is the OpenWeatherMap API base URL.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
)

// ClientConfig holds configuration for the OpenWeatherMap client.
type ClientConfig struct {
	// APIKey is the OpenWeatherMap API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to OpenWeatherMap API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a single-attempt resilient client.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenWeatherMap API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new OpenWeatherMap client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// CurrentByCity fetches current conditions for a city name.
func (c *Client) CurrentByCity(ctx context.Context, city, lang string) (*weather.Current, error) {
	params := url.Values{}
	params.Set("q", city)
	return c.current(ctx, params, lang)
}

// CurrentByCoordinates fetches current conditions for a coordinate pair.
func (c *Client) CurrentByCoordinates(ctx context.Context, coords weather.Coordinates, lang string) (*weather.Current, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coords.Lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(coords.Lon, 'f', 6, 64))
	return c.current(ctx, params, lang)
}

// ForecastByCity fetches the 5-day / 3-hour forecast for a city name.
func (c *Client) ForecastByCity(ctx context.Context, city, lang string) (*weather.Forecast, error) {
	params := url.Values{}
	params.Set("q", city)

	var resp forecastResponse
	if err := c.get(ctx, "/forecast", params, lang, &resp); err != nil {
		return nil, err
	}

	return toForecast(&resp)
}

func (c *Client) current(ctx context.Context, params url.Values, lang string) (*weather.Current, error) {
	var resp currentWeatherResponse
	if err := c.get(ctx, "/weather", params, lang, &resp); err != nil {
		return nil, err
	}

	return toCurrent(&resp)
}

// get performs one GET against the provider and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, lang string, out any) error {
	params.Set("units", "metric")
	params.Set("lang", lang)
	params.Set("appid", c.apiKey)

	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: executing request: %w", weather.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return weather.ErrCityNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.logger.Debug().
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("openweathermap returned error status")
		return fmt.Errorf("%w: unexpected status code: %d", weather.ErrProviderUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %w", weather.ErrMalformedResponse, err)
	}

	return nil
}

// toCurrent converts the current-weather payload to the domain model.
func toCurrent(resp *currentWeatherResponse) (*weather.Current, error) {
	if len(resp.Weather) == 0 {
		return nil, fmt.Errorf("%w: current weather has no condition", weather.ErrMalformedResponse)
	}

	return &weather.Current{
		Sample: weather.Sample{
			Time:          time.Unix(resp.Dt, 0),
			Temperature:   resp.Main.Temp,
			Humidity:      resp.Main.Humidity,
			WindSpeed:     resp.Wind.Speed,
			ConditionCode: resp.Weather[0].ID,
			Description:   resp.Weather[0].Description,
		},
		Place:   resp.Name,
		Country: resp.Sys.Country,
		Coordinates: weather.Coordinates{
			Lat: resp.Coord.Lat,
			Lon: resp.Coord.Lon,
		},
		Sunrise:   time.Unix(resp.Sys.Sunrise, 0),
		Sunset:    time.Unix(resp.Sys.Sunset, 0),
		Location:  zoneFor(resp.Name, resp.Timezone),
		FetchedAt: time.Now(),
	}, nil
}

// toForecast converts the forecast payload to the domain model.
func toForecast(resp *forecastResponse) (*weather.Forecast, error) {
	forecast := &weather.Forecast{
		City:      resp.City.Name,
		Country:   resp.City.Country,
		Location:  zoneFor(resp.City.Name, resp.City.Timezone),
		Samples:   make([]weather.Sample, 0, len(resp.List)),
		FetchedAt: time.Now(),
	}

	for i, item := range resp.List {
		if len(item.Weather) == 0 {
			return nil, fmt.Errorf("%w: forecast entry %d has no condition", weather.ErrMalformedResponse, i)
		}

		forecast.Samples = append(forecast.Samples, weather.Sample{
			Time:          time.Unix(item.Dt, 0),
			Temperature:   item.Main.Temp,
			Humidity:      item.Main.Humidity,
			WindSpeed:     item.Wind.Speed,
			ConditionCode: item.Weather[0].ID,
			Description:   item.Weather[0].Description,
		})
	}

	return forecast, nil
}

// zoneFor builds a fixed zone from the provider's UTC offset in seconds.
func zoneFor(name string, offsetSeconds int) *time.Location {
	if name == "" {
		name = "UTC"
	}
	return time.FixedZone(name, offsetSeconds)
}

// OpenWeatherMap API response structures.

type condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
}

type currentWeatherResponse struct {
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []condition `json:"weather"`
	Main    struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int    `json:"timezone"`
	Dt       int64  `json:"dt"`
	Name     string `json:"name"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []condition `json:"weather"`
	} `json:"list"`
	City struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}

// Ensure Client implements weather.Provider.
var _ weather.Provider = (*Client)(nil)
