// Copyright (c) Microsoft. All rights reserved.

// Command shortmem runs an interactive chat that keeps a bounded
// short-term memory: once the turn buffer fills its window, the older
// turns are folded into a summary produced by the agent itself.
//
//	export PROJECT_CONNECTION_STRING="<host>;<subscription>;<rg>;<project>"
//	go run ./samples/shortmem
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/jochenvw/agent-service-go/agents"
	"github.com/jochenvw/agent-service-go/memory"
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

	agent, err := client.CreateAgent(ctx, projects.AgentOptions{
		Model:        "gpt-4o-mini",
		Name:         "shortmem-agent",
		Instructions: "You are a helpful assistant with a short memory. Answer concisely.",
	})
	if err != nil {
		log.Fatalf("create agent: %v", err)
	}
	defer func() {
		if err := client.DeleteAgent(ctx, agent.ID); err != nil {
			log.Printf("delete agent: %v", err)
		}
	}()

	thread, err := client.CreateThread(ctx)
	if err != nil {
		log.Fatalf("create thread: %v", err)
	}
	defer func() {
		if err := client.DeleteThread(ctx, thread.ID); err != nil {
			log.Printf("delete thread: %v", err)
		}
	}()
	color.Green("Chat started, thread ID: %s (type 'exit' to quit)", thread.ID)

	// ask sends one message through the thread and returns the reply.
	ask := func(ctx context.Context, text string) (string, error) {
		if _, err := client.CreateMessage(ctx, thread.ID, agents.RoleUser, text); err != nil {
			return "", err
		}
		if _, err := client.CreateAndProcessRun(ctx, thread.ID, agent.ID, nil); err != nil {
			return "", err
		}
		msgs, err := client.ListMessages(ctx, thread.ID)
		if err != nil {
			return "", err
		}
		return agents.LatestAssistantText(msgs), nil
	}

	buf, err := memory.NewBuffer(memory.WithSummarizer(
		func(ctx context.Context, turns []string) (string, error) {
			prompt, _ := memory.PromptSummarizer(ctx, turns)
			return ask(ctx, prompt)
		},
	))
	if err != nil {
		log.Fatalf("create memory buffer: %v", err)
	}

	// Local transcript, kept alongside the service thread so the full
	// exchange survives the thread deletion at exit.
	transcript := agents.NewInMemoryStore()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nYou: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") {
			break
		}

		reply, err := ask(ctx, input)
		if err != nil {
			log.Fatalf("chat turn: %v", err)
		}
		color.Cyan("Assistant: %s", reply)

		if err := transcript.AddMessages(ctx, []agents.Message{
			agents.NewUserMessage(input),
			agents.NewAssistantMessage(reply),
		}); err != nil {
			log.Fatalf("record transcript: %v", err)
		}

		summary, err := buf.Add(ctx, input)
		if err != nil {
			log.Fatalf("update memory: %v", err)
		}
		if summary != "" {
			color.Yellow("[memory folded: %s]", summary)
		}
	}

	msgs, err := transcript.ListMessages(ctx)
	if err != nil {
		log.Fatalf("list transcript: %v", err)
	}
	fmt.Printf("\nSession ended after %d messages.\n", len(msgs))
}
