// Package export persists ranking snapshots to a sqlite database so runs can
// be compared after the process exits. The core itself keeps no state; this
// is strictly an opt-in sink.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/specialistvlad/tunegridgo/internal/ctxlog"
	"github.com/specialistvlad/tunegridgo/internal/rank"
)

const schema = `
CREATE TABLE IF NOT EXISTS rankings (
	run_id       TEXT,
	rank         INTEGER,
	workflow_id  TEXT,
	preprocessor TEXT,
	model        TEXT,
	config       TEXT,
	metric       TEXT,
	mean         REAL,
	std_err      REAL,
	n            INTEGER,
	created_at   DATETIME
);
`

// Ranking writes one snapshot of the ranking table, keyed by a fresh run id,
// and returns that id.
func Ranking(ctx context.Context, dbPath string, rows []rank.Row) (string, error) {
	logger := ctxlog.FromContext(ctx)

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to open export database %s: %w", dbPath, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return "", fmt.Errorf("failed to prepare export schema: %w", err)
	}

	runID := uuid.NewString()
	now := time.Now().UTC()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO rankings
		(run_id, rank, workflow_id, preprocessor, model, config, metric, mean, std_err, n, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, runID, row.Rank, row.ID, row.Preprocessor,
			row.Model, row.Config.Label, row.Metric, row.Mean, row.StdErr, row.N, now); err != nil {
			return "", fmt.Errorf("failed to export ranking row for %q: %w", row.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	logger.Info("Ranking exported.", "db", dbPath, "run_id", runID, "rows", len(rows))
	return runID, nil
}
