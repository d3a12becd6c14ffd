package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/wayfarer/internal/presentation/graph"
	"github.com/aretw0/wayfarer/internal/runtime"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the wizard flow as a Mermaid diagram",
	Long: `Outputs a Mermaid diagram (graph TD) of the wizard's transition table.
With --session, the node the stored session is on is highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := services(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		var overlay *graph.GraphOverlay
		if sessionID, _ := cmd.Flags().GetString("session"); sessionID != "" {
			state, err := svc.Store.Load(cmd.Context(), sessionID)
			if err != nil {
				return fmt.Errorf("error loading session '%s': %w", sessionID, err)
			}
			overlay = &graph.GraphOverlay{CurrentNode: runtime.StateNodeID(state)}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(svc.Engine.Transitions(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Highlight the current node of this session")
}
