package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/repcounter/internal/client"
	"github.com/claude/repcounter/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Compile-time check: the REST client can back the MCP tools.
var _ mcp.Controller = (*client.Client)(nil)

func main() {
	serverURL := flag.String("server", os.Getenv("REPCOUNTER_SERVER"), "RepCounter server URL (e.g. https://repcounter.tail1234.ts.net)")
	apiKey := flag.String("key", os.Getenv("REPCOUNTER_API_KEY"), "API key (default $REPCOUNTER_API_KEY)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("repcounter-mcp", Version)
		return
	}

	// stdout carries the MCP protocol, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: repcounter-mcp -server <URL> [-key <API key>]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	s := mcp.New(client.New(*serverURL, *apiKey), Version, log)
	log.Info("repcounter-mcp serving on stdio", "server", *serverURL)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}
