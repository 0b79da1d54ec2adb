// Copyright (c) Microsoft. All rights reserved.

// Package agents provides the shared types for working with a hosted AI
// agent service: message and content representations, callable tools with
// JSON Schema generation, tool sets, and streaming primitives.
//
// The service owns agents, threads, and runs; this package models the
// local side of that contract. Create tools with [NewTypedTool], group
// them in a [ToolSet], and hand the set to a project client so the
// service can call back into your functions during a run:
//
//	weather := agents.NewTypedTool("fetch_weather", "Fetch the weather for a city.",
//	    func(ctx context.Context, args struct {
//	        City string `json:"city" jsonschema:"description=City name,required"`
//	    }) (any, error) {
//	        return lookupWeather(args.City)
//	    },
//	)
//
//	toolset := agents.NewToolSet()
//	toolset.Add(weather)
//
// Hosted tools such as web-search grounding are declared with
// [NewGroundingTool]; they are executed by the service and never
// invoked locally.
package agents
