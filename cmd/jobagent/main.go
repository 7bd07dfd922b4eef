// Package main provides the entry point for the job application agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobagent",
	Short: "Conversational job application agent",
	Long: "jobagent searches job boards, tailors your resume and cover letter " +
		"per posting, composes them into a PDF, and exports findings to Google Sheets.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
