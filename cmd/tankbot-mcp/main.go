package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	tankmcp "tankbot/internal/mcp"
)

func main() {
	s := server.NewMCPServer("tankbot", "1.0.0")
	tankmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
