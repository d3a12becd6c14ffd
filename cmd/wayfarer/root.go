package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/wayfarer/internal/cli"
	"github.com/aretw0/wayfarer/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "wayfarer",
	Short: "Wayfarer is a trip planning wizard engine",
	Long: `Wayfarer walks a traveler through destination, dates, budget, group size and interests,
then turns the submitted request into a day-by-day itinerary.
The same wizard runs in the terminal, over HTTP and as an MCP server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./"+config.DefaultFile+" when present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("store", "", "Session store: memory, file or redis")
	rootCmd.PersistentFlags().String("store-path", "", "Directory of the file store")
	rootCmd.PersistentFlags().String("redis-addr", "", "Redis address for the redis store")
}

// loadConfig reads the config file and environment, then applies explicit flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	overrides := map[string]*string{
		"log-level":  &cfg.LogLevel,
		"store":      &cfg.Store.Backend,
		"store-path": &cfg.Store.Path,
		"redis-addr": &cfg.Redis.Addr,
	}
	for name, dst := range overrides {
		if cmd.Flags().Changed(name) {
			*dst, _ = cmd.Flags().GetString(name)
		}
	}
	return cfg, cfg.Validate()
}

// services builds the shared engine and store for a command. Callers must Close it.
func services(cmd *cobra.Command) (*cli.Services, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cli.Build(cmd.Context(), cfg)
}
