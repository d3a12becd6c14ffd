package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/wayfarer/internal/cli"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Plan a trip interactively in the terminal",
	Long: `Starts the wizard in the terminal. Progress is saved after every change, so
running again with the same --session resumes where you left off.

Use --json to exchange one JSON event per line on stdin and one response per line on stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := services(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		sessionID, _ := cmd.Flags().GetString("session")
		jsonMode, _ := cmd.Flags().GetBool("json")
		fresh, _ := cmd.Flags().GetBool("fresh")

		return cli.RunSession(cmd.Context(), svc, cli.RunOptions{
			SessionID: sessionID,
			JSON:      jsonMode,
			Fresh:     fresh,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("session", "s", "default", "Session ID to resume or create")
	runCmd.Flags().Bool("json", false, "Use JSON lines on stdin/stdout instead of text")
	runCmd.Flags().Bool("fresh", false, "Discard stored progress before starting")
}
