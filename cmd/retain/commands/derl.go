package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cohortlab/retain/internal/sbg"
)

// derlCmd represents the derl command
var derlCmd = &cobra.Command{
	Use:   "derl",
	Short: "Value a surviving customer by discounted residual lifetime",
	Long: `Computes the discounted expected residual lifetime (DERL) of a
customer who has already survived a given number of renewal periods.
Multiplying DERL by the per-period net margin gives the customer's
residual lifetime value.

Example:
  go run ./cmd/retain derl --alpha 0.668 --beta 3.806 --discount 0.1
  go run ./cmd/retain derl --alpha 0.668 --beta 3.806 --discount 0.1 --elapsed 5`,
	RunE: runDERL,
}

var (
	derlAlpha    float64
	derlBeta     float64
	derlDiscount float64
	derlElapsed  int
)

func init() {
	rootCmd.AddCommand(derlCmd)

	derlCmd.Flags().Float64Var(&derlAlpha, "alpha", 0, "fitted alpha parameter (required)")
	derlCmd.Flags().Float64Var(&derlBeta, "beta", 0, "fitted beta parameter (required)")
	derlCmd.Flags().Float64Var(&derlDiscount, "discount", 0, "per-period discount rate (required, > 0)")
	derlCmd.Flags().IntVar(&derlElapsed, "elapsed", 0, "renewal periods already survived")

	derlCmd.MarkFlagRequired("alpha")
	derlCmd.MarkFlagRequired("beta")
	derlCmd.MarkFlagRequired("discount")
}

func runDERL(cmd *cobra.Command, args []string) error {
	fmt.Println("=== retain: DERL Valuation ===")

	derl, err := sbg.DiscountedResidualLifetime(derlAlpha, derlBeta, derlDiscount, derlElapsed)
	if err != nil {
		return fmt.Errorf("derl: %w", err)
	}

	fmt.Printf("\nalpha=%.4f beta=%.4f discount=%.4f elapsed=%d\n", derlAlpha, derlBeta, derlDiscount, derlElapsed)
	fmt.Printf("\nDERL: %.4f discounted periods\n", derl)
	return nil
}
