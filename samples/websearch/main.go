// Copyright (c) Microsoft. All rights reserved.

// Command websearch grounds an agent in Bing web search and streams the
// answer token by token, printing URL citations as they arrive.
//
//	export PROJECT_CONNECTION_STRING="<host>;<subscription>;<rg>;<project>"
//	export BING_CONNECTION_NAME="<connection name>"
//	go run ./samples/websearch
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
)

func main() {
	_ = godotenv.Load()

	connStr := os.Getenv("PROJECT_CONNECTION_STRING")
	if connStr == "" {
		log.Fatal("PROJECT_CONNECTION_STRING not found in environment")
	}
	bingName := os.Getenv("BING_CONNECTION_NAME")
	if bingName == "" {
		log.Fatal("BING_CONNECTION_NAME not found in environment")
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		log.Fatalf("create credential: %v", err)
	}
	client, err := projects.NewClientFromConnectionString(connStr, cred)
	if err != nil {
		log.Fatalf("create client: %v", err)
	}

	ctx := context.Background()

	conn, err := client.GetConnection(ctx, bingName)
	if err != nil {
		log.Fatalf("get bing connection: %v", err)
	}

	toolset := agents.NewToolSet()
	toolset.AddHosted(agents.NewGroundingTool(conn.ID))

	agent, err := client.CreateAgent(ctx, projects.AgentOptions{
		Model:        "gpt-4o-mini",
		Name:         "websearch-agent",
		Instructions: "You are a helpful assistant. Search the web for current information and cite your sources.",
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

	if _, err := client.CreateMessage(ctx, thread.ID, agents.RoleUser,
		"What are the latest developments in quantum computing?"); err != nil {
		log.Fatalf("create message: %v", err)
	}

	stream, err := client.CreateStream(ctx, thread.ID, agent.ID)
	if err != nil {
		log.Fatalf("create stream: %v", err)
	}
	defer stream.Close()

	var citations []agents.URLCitation
	for {
		event, ok, err := stream.Next(ctx)
		if err != nil {
			log.Fatalf("stream: %v", err)
		}
		if !ok {
			break
		}

		switch event.Kind {
		case projects.RunEventMessageDelta:
			fmt.Print(event.Delta.Text)
			citations = append(citations, event.Delta.Citations...)
		case projects.RunEventError:
			log.Fatalf("run error: %s: %s", event.Err.Code, event.Err.Message)
		case projects.RunEventRun:
			if event.Run.Status == projects.RunStatusFailed && event.Run.LastError != nil {
				log.Fatalf("run failed: %s", event.Run.LastError.Message)
			}
		}
	}
	fmt.Println()

	if len(citations) > 0 {
		color.Yellow("\nSources:")
		for _, c := range citations {
			fmt.Printf("  %s (%s)\n", c.Title, c.URL)
		}
	}

	// The completed message carries the final annotated text.
	msgs, err := client.ListMessages(ctx, thread.ID)
	if err != nil {
		log.Fatalf("list messages: %v", err)
	}
	if final := agents.LatestAssistantText(msgs); final != "" {
		color.Cyan("\nFinal answer: %s", final)
	}
}
