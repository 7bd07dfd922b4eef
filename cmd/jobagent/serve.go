package main

import (
	"fmt"

	"github.com/chandan/job-agent/internal/config"
	"github.com/chandan/job-agent/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP chat server",
	Long:  `Start an HTTP server that exposes the chat, resume upload, and document download endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()

	ag, cleanup, err := buildAgent(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to build agent: %w", err)
	}
	defer cleanup()

	srv := server.New(server.Config{Port: servePort}, ag)
	return srv.Start()
}
