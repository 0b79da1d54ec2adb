// Copyright (c) Microsoft. All rights reserved.

// Package weather wraps the external geocoding, forecast, and air
// quality APIs used by the demo agents, and exposes them as callable
// tools. Tool results are JSON payloads in both the success and error
// case, so the model always receives something it can reason about.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const (
	defaultGeocodeURL  = "http://api.openweathermap.org/geo/1.0/direct"
	defaultOneCallURL  = "https://api.openweathermap.org/data/3.0/onecall"
	defaultForecastURL = "https://api.open-meteo.com/v1/forecast"
)

// cityCoords holds the well-known cities the sequencing demo supports
// without a geocoding round-trip.
var cityCoords = map[string]Coordinates{
	"London":   {Lat: 51.5074, Lon: -0.1278},
	"New York": {Lat: 40.7128, Lon: -74.0060},
	"Tokyo":    {Lat: 35.6895, Lon: 139.6917},
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Current summarizes present conditions for a city.
type Current struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Description string  `json:"description"`
	WindSpeed   float64 `json:"wind_speed"`
	Humidity    int     `json:"humidity"`
	UVIndex     float64 `json:"uvi"`
}

// Client calls the external weather APIs.
type Client struct {
	http        *http.Client
	apiKey      string
	geocodeURL  string
	oneCallURL  string
	forecastURL string
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithHTTPClient provides a custom http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithBaseURLs overrides the upstream endpoints (used in tests).
func WithBaseURLs(geocode, oneCall, forecast string) ClientOption {
	return func(c *Client) {
		if geocode != "" {
			c.geocodeURL = geocode
		}
		if oneCall != "" {
			c.oneCallURL = oneCall
		}
		if forecast != "" {
			c.forecastURL = forecast
		}
	}
}

// New creates a weather client. The API key authenticates the
// OpenWeather geocoding and One Call endpoints; the Open-Meteo forecast
// endpoint needs none.
func New(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		http:        http.DefaultClient,
		apiKey:      apiKey,
		geocodeURL:  defaultGeocodeURL,
		oneCallURL:  defaultOneCallURL,
		forecastURL: defaultForecastURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CityCoords resolves a city name to coordinates, preferring the static
// table and falling back to the geocoding API.
func (c *Client) CityCoords(ctx context.Context, city string) (Coordinates, error) {
	if coords, ok := cityCoords[city]; ok {
		return coords, nil
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("limit", "1")
	q.Set("appid", c.apiKey)

	var results []Coordinates
	if err := c.getJSON(ctx, c.geocodeURL+"?"+q.Encode(), &results); err != nil {
		return Coordinates{}, err
	}
	if len(results) == 0 {
		return Coordinates{}, fmt.Errorf("city %q not found", city)
	}
	return results[0], nil
}

// Forecast returns the first hourly temperature and its unit for the
// given coordinates.
func (c *Client) Forecast(ctx context.Context, coords Coordinates) (temp float64, units string, err error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%g", coords.Lat))
	q.Set("longitude", fmt.Sprintf("%g", coords.Lon))
	q.Set("hourly", "temperature_2m")
	q.Set("forecast_days", "1")

	var payload struct {
		Hourly struct {
			Temperature []float64 `json:"temperature_2m"`
		} `json:"hourly"`
		HourlyUnits struct {
			Temperature string `json:"temperature_2m"`
		} `json:"hourly_units"`
	}
	if err := c.getJSON(ctx, c.forecastURL+"?"+q.Encode(), &payload); err != nil {
		return 0, "", err
	}
	if len(payload.Hourly.Temperature) == 0 {
		return 0, "", fmt.Errorf("no hourly temperatures returned")
	}
	units = payload.HourlyUnits.Temperature
	if units == "" {
		units = "unknown"
	}
	return payload.Hourly.Temperature[0], units, nil
}

// CurrentConditions returns present conditions for a city via the One
// Call API, in metric units.
func (c *Client) CurrentConditions(ctx context.Context, city string) (Current, error) {
	coords, err := c.CityCoords(ctx, city)
	if err != nil {
		return Current{}, err
	}

	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%g", coords.Lat))
	q.Set("lon", fmt.Sprintf("%g", coords.Lon))
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	var payload struct {
		Current struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			WindSpeed float64 `json:"wind_speed"`
			Humidity  int     `json:"humidity"`
			UVI       float64 `json:"uvi"`
			Weather   []struct {
				Description string `json:"description"`
			} `json:"weather"`
		} `json:"current"`
	}
	if err := c.getJSON(ctx, c.oneCallURL+"?"+q.Encode(), &payload); err != nil {
		return Current{}, err
	}

	cur := Current{
		City:        city,
		Temperature: payload.Current.Temp,
		FeelsLike:   payload.Current.FeelsLike,
		WindSpeed:   payload.Current.WindSpeed,
		Humidity:    payload.Current.Humidity,
		UVIndex:     payload.Current.UVI,
	}
	if len(payload.Current.Weather) > 0 {
		cur.Description = payload.Current.Weather[0].Description
	}
	return cur, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
