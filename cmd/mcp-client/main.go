package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	flag.Parse()
	args := flag.Args()

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: mcp-client <server-command> [<args>]")
		fmt.Fprintln(os.Stderr, "Example: mcp-client ./bookloop-mcp --offline")
		os.Exit(2)
	}

	ctx := context.Background()

	// Start the server as a subprocess
	cmd := exec.Command(args[0], args[1:]...)
	transport := &mcp.CommandTransport{Command: cmd}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "bookloop-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer session.Close()

	fmt.Println("Connected to BookLoop MCP Server!")
	fmt.Println("Available commands:")
	fmt.Println("  /tools             - List available tools")
	fmt.Println("  /books [shelf]     - List catalog, listed or rented books")
	fmt.Println("  /book <id>         - Show a book with its reviews")
	fmt.Println("  /category <name>   - Browse a category")
	fmt.Println("  /return <id>       - Return a rented book")
	fmt.Println("  /summary           - Show the activity journal")
	fmt.Println("  /graph <cypher>    - Execute a read-only Cypher query")
	fmt.Println("  /exit              - Exit the client")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		command, rest, _ := strings.Cut(input, " ")
		rest = strings.TrimSpace(rest)

		switch command {
		case "/exit":
			fmt.Println("Goodbye!")
			return

		case "/tools":
			listTools(ctx, session)

		case "/books":
			callArgs := map[string]any{"limit": 20}
			if rest != "" {
				callArgs["shelf"] = rest
			}
			callTool(ctx, session, "list_books", callArgs)

		case "/book":
			if requireArg(rest, "/book <id>") {
				callTool(ctx, session, "get_book", map[string]any{"id": rest})
			}

		case "/category":
			if requireArg(rest, "/category <name>") {
				callTool(ctx, session, "browse_category", map[string]any{"category": rest})
			}

		case "/return":
			if requireArg(rest, "/return <id>") {
				callTool(ctx, session, "return_rental", map[string]any{"id": rest})
			}

		case "/summary":
			callTool(ctx, session, "activity_summary", map[string]any{"limit": 10})

		case "/graph":
			if requireArg(rest, "/graph <cypher>") {
				callTool(ctx, session, "query_graph", map[string]any{"cypher": rest})
			}

		default:
			fmt.Printf("Unknown command %q. Type /tools to see what the server offers.\n\n", command)
		}
	}

	if err := scanner.Err(); err != nil {
		log.Printf("Scanner error: %v", err)
	}
}

func requireArg(arg, usage string) bool {
	if arg == "" {
		fmt.Printf("Usage: %s\n\n", usage)
		return false
	}
	return true
}

func listTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("Available Tools:")
	for tool, err := range session.Tools(ctx, nil) {
		if err != nil {
			log.Printf("Error listing tools: %v", err)
			return
		}
		fmt.Printf("  - %s: %s\n", tool.Name, tool.Description)
	}
	fmt.Println()
}

func callTool(ctx context.Context, session *mcp.ClientSession, toolName string, args map[string]any) {
	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		log.Printf("Error calling tool: %v", err)
		return
	}

	printResult(result)
}

func printResult(result *mcp.CallToolResult) {
	if result.IsError {
		fmt.Printf("❌ Error: ")
	} else {
		fmt.Printf("✅ Result: ")
	}

	if !result.IsError && result.StructuredContent != nil {
		if data, err := json.MarshalIndent(result.StructuredContent, "", "  "); err == nil {
			fmt.Println(string(data))
			fmt.Println()
			return
		}
	}

	for _, content := range result.Content {
		switch v := content.(type) {
		case *mcp.TextContent:
			fmt.Println(v.Text)
		default:
			jsonData, err := json.MarshalIndent(content, "", "  ")
			if err != nil {
				fmt.Printf("%+v\n", content)
			} else {
				fmt.Println(string(jsonData))
			}
		}
	}
	fmt.Println()
}
