package report

import (
	"context"

	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/model"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/pkg/logger"
	"github.com/google/uuid"
)

// ResultsRepo is the optional database archive behind the CSV output.
type ResultsRepo interface {
	InsertRound(ctx context.Context, runID string, s model.RoundSummary) error
	InsertSnapshots(ctx context.Context, runID string, snaps []model.ReputationSnapshot) error
	InsertDefaults(ctx context.Context, runID string, events []model.DefaultEvent) error
}

// Collector tags one simulation run with a UUID and fans results out to
// the CSV files and, when configured, the database archive. Archive
// failures are logged and do not fail the run (CSV is the primary sink).
type Collector struct {
	runID string
	repo  ResultsRepo
}

func NewCollector(repo ResultsRepo) *Collector {
	return &Collector{
		runID: uuid.NewString(),
		repo:  repo,
	}
}

func (c *Collector) RunID() string {
	return c.runID
}

func (c *Collector) Persist(ctx context.Context, dir string,
	snaps []model.ReputationSnapshot, defaults []model.DefaultEvent, rounds []model.RoundSummary) error {

	if err := WriteCSV(dir, snaps, defaults, rounds); err != nil {
		return err
	}

	if c.repo == nil {
		return nil
	}
	if err := c.repo.InsertSnapshots(ctx, c.runID, snaps); err != nil {
		logger.LogError(ctx, err, "failed to archive reputation snapshots", "run_id", c.runID)
	}
	if err := c.repo.InsertDefaults(ctx, c.runID, defaults); err != nil {
		logger.LogError(ctx, err, "failed to archive default events", "run_id", c.runID)
	}
	for _, r := range rounds {
		if err := c.repo.InsertRound(ctx, c.runID, r); err != nil {
			logger.LogError(ctx, err, "failed to archive round summary", "run_id", c.runID, "round", r.Round)
		}
	}
	return nil
}
