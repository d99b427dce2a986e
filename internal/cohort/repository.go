package cohort

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists tracked datasets and their fit results.
//
// Schema:
//
//	retention.cohort_observations(dataset_id text, cohort_offset int,
//	    period int, active_count double precision,
//	    primary key (dataset_id, cohort_offset, period))
//	retention.fit_results(id bigserial primary key, dataset_id text,
//	    alpha double precision, beta double precision,
//	    log_likelihood double precision, fitted_at timestamptz)
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new cohort repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// StoredFit is a persisted fit result for a tracked dataset.
type StoredFit struct {
	DatasetID     string    `json:"dataset_id"`
	Alpha         float64   `json:"alpha"`
	Beta          float64   `json:"beta"`
	LogLikelihood float64   `json:"log_likelihood"`
	FittedAt      time.Time `json:"fitted_at"`
}

// ListDatasetIDs returns the IDs of all tracked datasets.
func (r *Repository) ListDatasetIDs(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT dataset_id
		FROM retention.cohort_observations
		ORDER BY dataset_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetDataset loads a dataset's observation matrix, cohorts ordered oldest
// first and periods ascending within each cohort. The loaded dataset is
// validated before it is returned so a corrupt or misordered store surfaces
// here rather than as a silently wrong fit.
func (r *Repository) GetDataset(ctx context.Context, datasetID string) (Dataset, error) {
	query := `
		SELECT cohort_offset, active_count
		FROM retention.cohort_observations
		WHERE dataset_id = $1
		ORDER BY cohort_offset ASC, period ASC
	`

	rows, err := r.pool.Query(ctx, query, datasetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dataset Dataset
	for rows.Next() {
		var offset int
		var count float64
		if err := rows.Scan(&offset, &count); err != nil {
			return nil, err
		}
		for len(dataset) <= offset {
			dataset = append(dataset, nil)
		}
		dataset[offset] = append(dataset[offset], count)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(dataset) == 0 {
		return nil, fmt.Errorf("dataset %s not found", datasetID)
	}
	if err := dataset.Validate(); err != nil {
		return nil, fmt.Errorf("stored dataset %s: %w", datasetID, err)
	}
	return dataset, nil
}

// SaveFitResult appends a fit result for a dataset.
func (r *Repository) SaveFitResult(ctx context.Context, fit StoredFit) error {
	query := `
		INSERT INTO retention.fit_results (dataset_id, alpha, beta, log_likelihood, fitted_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		fit.DatasetID, fit.Alpha, fit.Beta, fit.LogLikelihood, fit.FittedAt)
	return err
}

// LatestFitResult returns the most recent fit for a dataset.
func (r *Repository) LatestFitResult(ctx context.Context, datasetID string) (*StoredFit, error) {
	query := `
		SELECT dataset_id, alpha, beta, log_likelihood, fitted_at
		FROM retention.fit_results
		WHERE dataset_id = $1
		ORDER BY fitted_at DESC
		LIMIT 1
	`

	var fit StoredFit
	err := r.pool.QueryRow(ctx, query, datasetID).Scan(
		&fit.DatasetID, &fit.Alpha, &fit.Beta, &fit.LogLikelihood, &fit.FittedAt,
	)
	if err != nil {
		return nil, err
	}
	return &fit, nil
}
