package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cohortlab/retain/internal/sbg"
)

// predictCmd represents the predict command
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Project retention and survival from fitted parameters",
	Long: `Projects the retention and survival curves implied by fitted
(alpha, beta) parameters over a horizon of future periods.

Example:
  go run ./cmd/retain predict --alpha 0.668 --beta 3.806 --horizon 12`,
	RunE: runPredict,
}

var (
	predictAlpha   float64
	predictBeta    float64
	predictHorizon int
)

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().Float64Var(&predictAlpha, "alpha", 0, "fitted alpha parameter (required)")
	predictCmd.Flags().Float64Var(&predictBeta, "beta", 0, "fitted beta parameter (required)")
	predictCmd.Flags().IntVar(&predictHorizon, "horizon", 12, "projection horizon in periods")

	predictCmd.MarkFlagRequired("alpha")
	predictCmd.MarkFlagRequired("beta")
}

func runPredict(cmd *cobra.Command, args []string) error {
	fmt.Println("=== retain: sBG Projection ===")
	fmt.Printf("\nalpha=%.4f beta=%.4f\n", predictAlpha, predictBeta)

	curve, err := sbg.PredictedSurvival(predictAlpha, predictBeta, predictHorizon)
	if err != nil {
		return fmt.Errorf("survival projection: %w", err)
	}

	fmt.Printf("\n%-8s %-12s %s\n", "period", "retention", "survival")
	for t, surv := range curve {
		ret, err := sbg.PredictedRetention(predictAlpha, predictBeta, t)
		if err != nil {
			return fmt.Errorf("retention at t=%d: %w", t, err)
		}
		fmt.Printf("%-8d %-12.4f %.4f\n", t+1, ret, surv)
	}

	return nil
}
