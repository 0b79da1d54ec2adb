// Copyright (c) Microsoft. All rights reserved.

package weather

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jochenvw/agent-service-go/agents"
)

// LocationArgs is the argument shape shared by the weather tools: either
// a city name or an explicit coordinate pair. The model may pass either
// form depending on how it sequences the tools.
type LocationArgs struct {
	City string   `json:"city" jsonschema:"description=City name"`
	Lat  *float64 `json:"lat" jsonschema:"description=Latitude"`
	Lon  *float64 `json:"lon" jsonschema:"description=Longitude"`
}

// resolve normalizes the argument forms into coordinates: explicit
// lat/lon wins, otherwise the city is looked up. An error here is a
// user-visible condition (unknown city, missing both forms), reported
// to the model as a JSON error payload by the tools.
func (c *Client) resolve(ctx context.Context, args LocationArgs) (Coordinates, error) {
	if args.Lat != nil && args.Lon != nil {
		return Coordinates{Lat: *args.Lat, Lon: *args.Lon}, nil
	}
	if args.City != "" {
		return c.CityCoords(ctx, args.City)
	}
	return Coordinates{}, fmt.Errorf("missing coordinates: pass city or lat and lon")
}

// errorPayload encodes an error the way the tools report failures to
// the model: as a JSON string result, never as a Go error.
func errorPayload(err error) string {
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(b)
}

// CityCoordsTool returns a tool resolving a city name to coordinates.
func (c *Client) CityCoordsTool() agents.Tool {
	return agents.NewTypedTool("get_city_coords",
		"Get the latitude and longitude for a city.",
		func(ctx context.Context, args struct {
			City string `json:"city" jsonschema:"description=City name,required"`
		}) (any, error) {
			coords, err := c.CityCoords(ctx, args.City)
			if err != nil {
				return errorPayload(err), nil
			}
			b, _ := json.Marshal(coords)
			return string(b), nil
		},
	)
}

// ForecastTool returns a tool fetching the near-term temperature for a
// city or coordinate pair.
func (c *Client) ForecastTool() agents.Tool {
	return agents.NewTypedTool("fetch_weather",
		"Fetch the weather for a location, given a city name or coordinates.",
		func(ctx context.Context, args LocationArgs) (any, error) {
			coords, err := c.resolve(ctx, args)
			if err != nil {
				return errorPayload(err), nil
			}
			temp, units, err := c.Forecast(ctx, coords)
			if err != nil {
				return errorPayload(err), nil
			}
			b, _ := json.Marshal(map[string]any{
				"temperature": temp,
				"units":       units,
			})
			return string(b), nil
		},
	)
}

// AirQualityTool returns a tool reporting the air quality index for a
// city or coordinate pair. The index is a fixed placeholder; only the
// coordinate resolution is live.
func (c *Client) AirQualityTool() agents.Tool {
	return agents.NewTypedTool("fetch_air_quality",
		"Fetch the air quality index for a location, given a city name or coordinates.",
		func(ctx context.Context, args LocationArgs) (any, error) {
			coords, err := c.resolve(ctx, args)
			if err != nil {
				return errorPayload(err), nil
			}
			b, _ := json.Marshal(map[string]any{
				"air_quality_index": 42,
				"lat":               coords.Lat,
				"lon":               coords.Lon,
			})
			return string(b), nil
		},
	)
}

// CurrentTool returns a tool fetching full current conditions for a
// city via the One Call API.
func (c *Client) CurrentTool() agents.Tool {
	return agents.NewTypedTool("fetch_weather",
		"Fetches the weather information for the specified location.",
		func(ctx context.Context, args struct {
			Location string `json:"location" jsonschema:"description=City name,required"`
		}) (any, error) {
			cur, err := c.CurrentConditions(ctx, args.Location)
			if err != nil {
				return errorPayload(err), nil
			}
			b, _ := json.Marshal(cur)
			return string(b), nil
		},
	)
}
