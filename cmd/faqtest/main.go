// faqtest is a smoke-test harness. It spawns the MCP server over stdio,
// lists the tools it advertises and runs one search against the live index.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	serverCmd string
	query     string
)

func main() {
	flag.StringVar(&serverCmd, "server", "go run ./cmd/mcp", "command that starts the MCP server on stdio")
	flag.StringVar(&query, "query", "What is the refund policy?", "question to send to search_faq")
	flag.Parse()

	ctx := context.Background()

	parts := strings.Fields(serverCmd)
	if len(parts) == 0 {
		fmt.Fprintln(os.Stderr, "empty -server command")
		os.Exit(1)
	}
	command := exec.Command(parts[0], parts[1:]...)
	command.Stderr = os.Stderr

	client := mcp.NewClient(&mcp.Implementation{Name: "faqtest", Version: "0.1.0"}, nil)
	session, err := client.Connect(ctx, &mcp.CommandTransport{Command: command}, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not connect to the MCP server: %v\n", err)
		os.Exit(1)
	}
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list tools failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Available tools:")
	for _, tool := range tools.Tools {
		fmt.Printf("- %s: %s\n", tool.Name, tool.Description)
	}

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "search_faq",
		Arguments: map[string]any{"query": query},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "call tool failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nSearch results:")
	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			fmt.Println(text.Text)
		}
	}
	if result.IsError {
		os.Exit(1)
	}
}
