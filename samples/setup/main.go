// Copyright (c) Microsoft. All rights reserved.

// Command setup walks the basic agent lifecycle: create an agent,
// open a thread, post a question, process a run, and print the
// conversation.
//
//	export PROJECT_CONNECTION_STRING="<host>;<subscription>;<rg>;<project>"
//	go run ./samples/setup
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

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		log.Fatalf("create credential: %v", err)
	}
	client, err := projects.NewClientFromConnectionString(connStr, cred)
	if err != nil {
		log.Fatalf("create client: %v", err)
	}

	ctx := context.Background()

	fmt.Println("Creating AI Agent with gpt-4o-mini...")
	agent, err := client.CreateAgent(ctx, projects.AgentOptions{
		Model:        "gpt-4o-mini",
		Name:         "simple-agent",
		Instructions: "You are a helpful assistant.",
	})
	if err != nil {
		log.Fatalf("create agent: %v", err)
	}
	color.Green("Agent created with ID: %s", agent.ID)

	thread, err := client.CreateThread(ctx)
	if err != nil {
		log.Fatalf("create thread: %v", err)
	}
	color.Green("Thread created with ID: %s", thread.ID)

	fmt.Println("Sending message...")
	if _, err := client.CreateMessage(ctx, thread.ID, agents.RoleUser, "What is a black hole?"); err != nil {
		log.Fatalf("create message: %v", err)
	}

	fmt.Println("Processing run...")
	run, err := client.CreateAndProcessRun(ctx, thread.ID, agent.ID, nil)
	if err != nil {
		log.Fatalf("process run: %v", err)
	}
	fmt.Printf("Run ID: %s\n", run.ID)

	// Check the run status once more, the way you would when polling yourself.
	status, err := client.GetRun(ctx, thread.ID, run.ID)
	if err != nil {
		log.Fatalf("get run: %v", err)
	}
	fmt.Printf("Run status: %s\n", status.Status)

	fmt.Println("\nRetrieving conversation:")
	msgs, err := client.ListMessages(ctx, thread.ID)
	if err != nil {
		log.Fatalf("list messages: %v", err)
	}
	for i := range msgs {
		role := "Assistant"
		if msgs[i].Role == agents.RoleUser {
			role = "User"
		}
		if text := msgs[i].Text(); text != "" {
			fmt.Printf("\n%s: %s\n", role, text)
		}
	}
}
