// Package main provides the jetlag-mcp binary, a stdio MCP server for
// AI agents driving a jetlag project checkout.
package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	jmcp "github.com/akrzos/jetlag-mcp/pkg/ecosystem/mcp"
	"github.com/akrzos/jetlag-mcp/pkg/project"
)

var version = "dev"

func main() {
	_ = godotenv.Load() // .env is optional and gitignored

	// Stdout carries the MCP transport; all logging goes to stderr.
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	dir := os.Getenv("JETLAG_DIR")
	if dir == "" {
		// Default layout: the jetlag checkout sits next to this repo.
		dir = filepath.Join("..", "jetlag")
	}
	root, err := project.Open(dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("open project root")
	}
	log.Info().Str("root", root.Dir()).Str("version", version).Msg("serving jetlag tools on stdio")

	s := jmcp.NewServer(root, version, log)
	if err := server.ServeStdio(s); err != nil {
		log.Fatal().Err(err).Msg("mcp server exited")
	}
}
