package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/wayfarer/internal/runtime"
	"github.com/aretw0/wayfarer/internal/validator"
	"github.com/aretw0/wayfarer/pkg/domain"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the wizard flow and the catalog for consistency",
	Long: `Crawls the transition table from the landing screen and reports dead links,
unreachable nodes or dead ends, then checks the resolved catalog for missing or duplicate entries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := services(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		start := runtime.NodeID(domain.ScreenLanding, 0)
		if err := validator.ValidateTable(runtime.Nodes(), svc.Engine.Transitions(), start); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		if err := svc.Engine.Catalog().Validate(); err != nil {
			return fmt.Errorf("catalog validation failed: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Wizard flow and catalog are valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
