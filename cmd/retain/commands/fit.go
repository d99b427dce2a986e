package commands

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cohortlab/retain/internal/cohort"
	"github.com/cohortlab/retain/internal/sbg"
)

// fitCmd represents the fit command
var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit the sBG model to cohort data",
	Long: `Fits (alpha, beta) to cohort retention data by maximum likelihood.

Single-cohort input (default): a CSV of fractional retention values, one
value per period, either as one row or one column. Values must lie in (0, 1]
and never increase.

Multi-cohort input (--multi): a CSV with one row per cohort of absolute
still-active counts, oldest cohort first, each younger cohort one
observation shorter.

Example:
  go run ./cmd/retain fit --file highend.csv
  go run ./cmd/retain fit --file cohorts.csv --multi
  go run ./cmd/retain fit --file highend.csv --horizon 24 --discount 0.1`,
	RunE: runFit,
}

var (
	fitFile     string
	fitMulti    bool
	fitHorizon  int
	fitDiscount float64
)

func init() {
	rootCmd.AddCommand(fitCmd)

	fitCmd.Flags().StringVar(&fitFile, "file", "", "CSV file with cohort observations (required)")
	fitCmd.Flags().BoolVar(&fitMulti, "multi", false, "treat input as multi-cohort absolute counts")
	fitCmd.Flags().IntVar(&fitHorizon, "horizon", 12, "projection horizon in periods")
	fitCmd.Flags().Float64Var(&fitDiscount, "discount", 0, "per-period discount rate for the DERL table (0 = skip)")

	fitCmd.MarkFlagRequired("file")
}

func runFit(cmd *cobra.Command, args []string) error {
	fmt.Println("=== retain: sBG Model Fit ===")

	records, err := readCSV(fitFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", fitFile, err)
	}

	var fit sbg.FitResult
	if fitMulti {
		dataset := cohort.Dataset(records)
		fmt.Printf("\nInput: %d cohorts, oldest with %d observations\n", len(dataset), len(dataset[0]))
		fit, err = sbg.FitMultiCohort(dataset)
	} else {
		series, serr := flattenSeries(records)
		if serr != nil {
			return serr
		}
		fmt.Printf("\nInput: single cohort, %d observed periods\n", len(series))
		fit, err = sbg.FitSingleCohort(series)
	}
	if err != nil {
		return fmt.Errorf("fit failed: %w", err)
	}

	fmt.Println("\nFitted parameters")
	fmt.Printf("alpha:          %.4f\n", fit.Alpha)
	fmt.Printf("beta:           %.4f\n", fit.Beta)
	fmt.Printf("log-likelihood: %.6f\n", fit.LogLikelihood)
	fmt.Printf("evaluations:    %d\n", fit.Evaluations)

	printSurvivalProjection(fit.Alpha, fit.Beta, fitHorizon)

	if fitDiscount > 0 {
		return printDERLTable(fit.Alpha, fit.Beta, fitDiscount, fitHorizon)
	}
	return nil
}

func printSurvivalProjection(alpha, beta float64, horizon int) {
	curve, err := sbg.PredictedSurvival(alpha, beta, horizon)
	if err != nil {
		return
	}

	fmt.Printf("\nProjected survival (%d periods)\n", horizon)
	parts := make([]string, len(curve))
	for i, v := range curve {
		parts[i] = fmt.Sprintf("%.1f%%", v*100)
	}
	fmt.Println(strings.Join(parts, " "))
}

func printDERLTable(alpha, beta, discount float64, horizon int) error {
	fmt.Printf("\nDiscounted expected residual lifetime (d=%.3f)\n", discount)
	for n := 0; n < horizon; n++ {
		derl, err := sbg.DiscountedResidualLifetime(alpha, beta, discount, n)
		if err != nil {
			return fmt.Errorf("derl at n=%d: %w", n, err)
		}
		fmt.Printf("n=%-3d %.4f periods\n", n, derl)
	}
	return nil
}

// readCSV reads a CSV of floats with variable-length records.
func readCSV(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	records := make([][]float64, 0, len(rows))
	for i, row := range rows {
		record := make([]float64, 0, len(row))
		for j, field := range row {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d field %d: %w", i+1, j+1, err)
			}
			record = append(record, v)
		}
		if len(record) > 0 {
			records = append(records, record)
		}
	}
	return records, nil
}

// flattenSeries accepts a single-cohort series written either as one row of
// values or as one value per row.
func flattenSeries(records [][]float64) (cohort.Series, error) {
	if len(records) == 1 {
		return cohort.Series(records[0]), nil
	}

	series := make(cohort.Series, 0, len(records))
	for i, record := range records {
		if len(record) != 1 {
			return nil, fmt.Errorf("single-cohort input must be one row or one column of values (row %d has %d)", i+1, len(record))
		}
		series = append(series, record[0])
	}
	return series, nil
}
