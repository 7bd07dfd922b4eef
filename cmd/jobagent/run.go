package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chandan/job-agent/internal/config"
	"github.com/chandan/job-agent/internal/observability"
	"github.com/spf13/cobra"
)

var (
	runUser   string
	runResume string
)

var runCmd = &cobra.Command{
	Use:   "run [message]",
	Short: "Send a single message to a local session",
	Long: `Run one chat command against a local session without starting the server.
Useful for development, e.g.:

  jobagent run "/search golang developer remote"
  jobagent run --resume resume.pdf "/customize 1"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runUser, "user", "local", "Session user ID")
	runCmd.Flags().StringVar(&runResume, "resume", "", "Resume file to upload before the message")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := cmd.Context()

	ag, cleanup, err := buildAgent(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build agent: %w", err)
	}
	defer cleanup()

	if runResume != "" {
		data, err := os.ReadFile(runResume)
		if err != nil {
			return fmt.Errorf("failed to read resume: %w", err)
		}
		reply, err := ag.UploadResume(ctx, runUser, filepath.Base(runResume), data)
		if err != nil {
			return err
		}
		fmt.Println(reply.Text)
	}

	reply, err := ag.HandleMessage(ctx, runUser, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Println(reply.Text)
	if reply.DocumentPath != "" {
		fmt.Printf("Document written to %s\n", reply.DocumentPath)
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		st := ag.Sessions.Peek(runUser)
		if len(st.Listings) > 0 {
			printer.PrintListings(st.LastQuery, st.Listings)
		}
		if st.Tailored != nil {
			printer.PrintDocuments(*st.Tailored)
		}
	}
	return nil
}
