package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dev-mohitbeniwal/keystone/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "keystone",
	Short: "Keystone - role based access gate with a shared typed cache",
	Long: `keystone serves the user and session API behind a role gate.
Every route declares the minimum role it needs; sessions and user records
live in a shared Redis cache.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Configuration, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.Load()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "directory containing config.yaml (defaults to ./config and .)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(cacheCmd)
}
