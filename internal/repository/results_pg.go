package repository

import (
	"context"
	"time"

	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/model"
	"github.com/jmoiron/sqlx"
)

// PostgresResultsRepo archives simulation output alongside the CSV
// files. Rows are tagged with the run UUID so repeated runs coexist.
type PostgresResultsRepo struct {
	db *sqlx.DB
}

func NewPostgresResultsRepo(db *sqlx.DB) *PostgresResultsRepo {
	repo := &PostgresResultsRepo{db: db}
	_ = repo.ensureSchema(context.Background())
	return repo
}

func (r *PostgresResultsRepo) ensureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sim_rounds (
			run_id       TEXT NOT NULL,
			round        INT  NOT NULL,
			orders       INT  NOT NULL,
			matched      INT  NOT NULL,
			success      INT  NOT NULL,
			defaults     INT  NOT NULL,
			excluded     INT  NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (run_id, round)
		);
		CREATE TABLE IF NOT EXISTS sim_reputation (
			run_id       TEXT NOT NULL,
			round        INT  NOT NULL,
			participant  TEXT NOT NULL,
			reputation   INT  NOT NULL,
			source       TEXT NOT NULL,
			PRIMARY KEY (run_id, round, participant)
		);
		CREATE TABLE IF NOT EXISTS sim_defaults (
			run_id       TEXT NOT NULL,
			round        INT  NOT NULL,
			participant  TEXT NOT NULL
		);
	`)
	return err
}

func (r *PostgresResultsRepo) InsertRound(ctx context.Context, runID string, s model.RoundSummary) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sim_rounds (run_id, round, orders, matched, success, defaults, excluded, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (run_id, round) DO NOTHING
	`, runID, s.Round, s.Orders, s.Matched, s.Success, s.Defaults, s.Excluded, time.Now().UTC())
	return err
}

func (r *PostgresResultsRepo) InsertSnapshots(ctx context.Context, runID string, snaps []model.ReputationSnapshot) error {
	for _, snap := range snaps {
		if _, err := r.db.ExecContext(ctx, `
			INSERT INTO sim_reputation (run_id, round, participant, reputation, source)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (run_id, round, participant) DO NOTHING
		`, runID, snap.Round, snap.Participant, snap.Reputation, snap.Source); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresResultsRepo) InsertDefaults(ctx context.Context, runID string, events []model.DefaultEvent) error {
	for _, ev := range events {
		if _, err := r.db.ExecContext(ctx, `
			INSERT INTO sim_defaults (run_id, round, participant) VALUES ($1,$2,$3)
		`, runID, ev.Round, ev.Participant); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresResultsRepo) ListRounds(ctx context.Context, runID string) ([]model.RoundSummary, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT round, orders, matched, success, defaults, excluded
		FROM sim_rounds WHERE run_id = $1 ORDER BY round
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RoundSummary
	for rows.Next() {
		var s model.RoundSummary
		if err := rows.Scan(&s.Round, &s.Orders, &s.Matched, &s.Success, &s.Defaults, &s.Excluded); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
