// Copyright (c) Microsoft. All rights reserved.

// Command functions registers a callable weather tool with an agent and
// lets the service invoke it through the run loop. Tool execution is
// traced to stdout through OpenTelemetry spans.
//
//	export PROJECT_CONNECTION_STRING="<host>;<subscription>;<rg>;<project>"
//	export OPENWEATHER_API_KEY="<key>"
//	go run ./samples/functions
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

func main() {
	_ = godotenv.Load()

	connStr := os.Getenv("PROJECT_CONNECTION_STRING")
	if connStr == "" {
		log.Fatal("PROJECT_CONNECTION_STRING not found in environment")
	}

	ctx := context.Background()
	if err := telemetry.Init(ctx, telemetry.Config{
		ServiceName: "agent-functions-sample",
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
	toolset := agents.NewToolSet(telemetry.TraceTool(wc.CurrentTool()))

	agent, err := client.CreateAgent(ctx, projects.AgentOptions{
		Model:        "gpt-4o-mini",
		Name:         "weather-agent",
		Instructions: "You are a weather bot. Use the provided function to answer questions about the weather.",
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
	color.Green("Created thread, thread ID: %s", thread.ID)

	msg, err := client.CreateMessage(ctx, thread.ID, agents.RoleUser,
		"Hello, what is the weather in Seattle?")
	if err != nil {
		log.Fatalf("create message: %v", err)
	}
	fmt.Printf("Created message, message ID: %s\n", msg.MessageID)

	run, err := client.CreateAndProcessRun(ctx, thread.ID, agent.ID, toolset)
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
