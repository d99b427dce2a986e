package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/cohortlab/retain/internal/cohort"
	"github.com/cohortlab/retain/internal/sbg"
	"github.com/cohortlab/retain/pkg/logger"
)

// Refit re-estimates (alpha, beta) for every tracked dataset from its full
// stored history and appends the results. Each refit is an independent
// batch fit; a dataset that fails to load or converge is logged and skipped
// so one bad dataset does not starve the rest.
type Refit struct {
	repo     *cohort.Repository
	schedule string
	log      *logger.Logger
}

// NewRefit creates the refit job with a cron schedule expression.
func NewRefit(repo *cohort.Repository, schedule string, log *logger.Logger) *Refit {
	return &Refit{
		repo:     repo,
		schedule: schedule,
		log:      log.WithField("job", "refit"),
	}
}

// Name returns the job name
func (j *Refit) Name() string {
	return "refit"
}

// Schedule returns the cron schedule expression
func (j *Refit) Schedule() string {
	return j.schedule
}

// Run refits all tracked datasets
func (j *Refit) Run(ctx context.Context) error {
	ids, err := j.repo.ListDatasetIDs(ctx)
	if err != nil {
		return fmt.Errorf("list datasets: %w", err)
	}
	if len(ids) == 0 {
		j.log.Info("No tracked datasets to refit")
		return nil
	}

	var failures int
	for _, id := range ids {
		if err := j.refitOne(ctx, id); err != nil {
			failures++
			j.log.WithError(err).WithField("dataset", id).Error("Refit failed")
		}
	}

	j.log.WithFields(map[string]interface{}{
		"datasets": len(ids),
		"failures": failures,
	}).Info("Refit pass finished")

	if failures == len(ids) {
		return fmt.Errorf("all %d dataset refits failed", failures)
	}
	return nil
}

func (j *Refit) refitOne(ctx context.Context, datasetID string) error {
	dataset, err := j.repo.GetDataset(ctx, datasetID)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	fit, err := sbg.FitMultiCohort(dataset)
	if err != nil {
		return fmt.Errorf("fit: %w", err)
	}

	// Log parameter drift against the previous fit. A missing previous fit
	// just means this is the dataset's first.
	if prev, err := j.repo.LatestFitResult(ctx, datasetID); err == nil {
		j.log.WithFields(map[string]interface{}{
			"dataset":     datasetID,
			"alpha_drift": fit.Alpha - prev.Alpha,
			"beta_drift":  fit.Beta - prev.Beta,
		}).Debug("Parameter drift since previous fit")
	}

	stored := cohort.StoredFit{
		DatasetID:     datasetID,
		Alpha:         fit.Alpha,
		Beta:          fit.Beta,
		LogLikelihood: fit.LogLikelihood,
		FittedAt:      time.Now().UTC(),
	}
	if err := j.repo.SaveFitResult(ctx, stored); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	j.log.WithFields(map[string]interface{}{
		"dataset": datasetID,
		"alpha":   fit.Alpha,
		"beta":    fit.Beta,
		"cohorts": len(dataset),
	}).Info("Dataset refitted")
	return nil
}
