// Copyright (c) Microsoft. All rights reserved.

// Command sequencing registers three dependent tools and lets the agent
// plan the call order itself: resolve the city to coordinates first,
// then fetch the forecast and the air quality for those coordinates.
//
//	export PROJECT_CONNECTION_STRING="<host>;<subscription>;<rg>;<project>"
//	go run ./samples/sequencing
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/jochenvw/agent-service-go/agents"
	"github.com/jochenvw/agent-service-go/projects"
	"github.com/jochenvw/agent-service-go/telemetry"
	"github.com/jochenvw/agent-service-go/weather"
)

const instructions = `You are a helpful assistant that reports the weather and air quality.
First resolve the city to coordinates with get_city_coords, then use those
coordinates with fetch_weather and fetch_air_quality. Report both results.`

func main() {
	_ = godotenv.Load()

	connStr := os.Getenv("PROJECT_CONNECTION_STRING")
	if connStr == "" {
		log.Fatal("PROJECT_CONNECTION_STRING not found in environment")
	}

	ctx := context.Background()
	if err := telemetry.Init(ctx, telemetry.Config{
		ServiceName: "agent-sequencing-sample",
		SessionID:   "123456",
	}); err != nil {
		log.Fatalf("init telemetry: %v", err)
	}
	defer telemetry.Shutdown(ctx)

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		log.Fatalf("create credential: %v", err)
	}
	client, err := projects.NewClientFromConnectionString(connStr, cred)
	if err != nil {
		log.Fatalf("create client: %v", err)
	}

	wc := weather.New(os.Getenv("OPENWEATHER_API_KEY"))
	toolset := agents.NewToolSet(telemetry.TraceTools(
		wc.CityCoordsTool(),
		wc.ForecastTool(),
		wc.AirQualityTool(),
	)...)

	agent, err := client.CreateAgent(ctx, projects.AgentOptions{
		Model:        "gpt-4o-mini",
		Name:         "sequencing-agent",
		Instructions: instructions,
		Tools:        toolset.Definitions(),
	})
	if err != nil {
		log.Fatalf("create agent: %v", err)
	}
	color.Green("Created agent, agent ID: %s", agent.ID)
	defer func() {
		if err := client.DeleteAgent(ctx, agent.ID); err != nil {
			log.Printf("delete agent: %v", err)
		}
	}()

	thread, err := client.CreateThread(ctx)
	if err != nil {
		log.Fatalf("create thread: %v", err)
	}

	// Root span so the per-tool spans share one trace.
	runCtx, span := telemetry.Tracer("samples").Start(ctx, "sequencing_run")

	if _, err := client.CreateMessage(runCtx, thread.ID, agents.RoleUser,
		"What are the weather and air quality like in London right now?"); err != nil {
		span.End()
		log.Fatalf("create message: %v", err)
	}

	run, err := client.CreateAndProcessRun(runCtx, thread.ID, agent.ID, toolset)
	span.End()
	if err != nil {
		log.Fatalf("process run: %v", err)
	}
	fmt.Printf("Run finished with status: %s\n", run.Status)

	msgs, err := client.ListMessages(ctx, thread.ID)
	if err != nil {
		log.Fatalf("list messages: %v", err)
	}
	if reply := agents.LatestAssistantText(msgs); reply != "" {
		color.Cyan("Assistant: %s", reply)
	}
}
