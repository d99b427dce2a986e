package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "retain",
	Short: "retain - sBG customer retention modeling",
	Long: `retain CLI

Fits the shifted-beta-geometric (sBG) retention model to aggregate cohort
data, projects retention and survival curves, and values customers by
discounted expected residual lifetime.

Usage:
  go run ./cmd/retain [command]

Examples:
  go run ./cmd/retain fit --file highend.csv
  go run ./cmd/retain fit --file cohorts.csv --multi
  go run ./cmd/retain predict --alpha 0.668 --beta 3.806 --horizon 12
  go run ./cmd/retain derl --alpha 0.668 --beta 3.806 --discount 0.1
  go run ./cmd/retain api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
