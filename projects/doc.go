// Copyright (c) Microsoft. All rights reserved.

// Package projects provides a client for a hosted AI agent service:
// agents, conversation threads, messages, and runs, including tool-call
// processing and run event streaming.
//
// Create a client from a project connection string and an Entra ID
// credential, then drive the agent lifecycle:
//
//	cred, _ := azidentity.NewDefaultAzureCredential(nil)
//	client, _ := projects.NewClientFromConnectionString(connStr, cred)
//
//	agent, _ := client.CreateAgent(ctx, projects.AgentOptions{
//	    Model:        "gpt-4o-mini",
//	    Name:         "simple-agent",
//	    Instructions: "You are a helpful assistant.",
//	})
//	thread, _ := client.CreateThread(ctx)
//	client.CreateMessage(ctx, thread.ID, agents.RoleUser, "What is a black hole?")
//	run, _ := client.CreateAndProcessRun(ctx, thread.ID, agent.ID, nil)
//
// Runs are scheduled and executed by the service. When an agent carries
// local function tools, [Client.CreateAndProcessRun] polls the run and
// answers requires_action callbacks by invoking the matching tools from
// the supplied [agents.ToolSet].
package projects
