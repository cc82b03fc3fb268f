// Package history persists summaries of past screening runs so the frontend
// can show recent activity. Persistence is best-effort: a write failure is
// logged and never fails the screening request it describes.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/optionscout/internal/modules/screener"
)

// Repository handles scan run persistence
type Repository struct {
	cacheDB *sql.DB
	log     zerolog.Logger
}

// NewRepository creates a new scan history repository
func NewRepository(cacheDB *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		cacheDB: cacheDB,
		log:     log.With().Str("repo", "history").Logger(),
	}
}

// Record stores a summary of a completed screening run. Implements the
// handlers.HistoryRecorder interface.
func (r *Repository) Record(screenerType, putTickers, callTickers string, reports []screener.TickerReport, contracts int, duration time.Duration) {
	skipped := 0
	for _, report := range reports {
		if report.Skipped {
			skipped++
		}
	}

	run := &ScanRun{
		ID:             uuid.New().String(),
		ScreenerType:   screenerType,
		PutTickers:     putTickers,
		CallTickers:    callTickers,
		Contracts:      contracts,
		SkippedTickers: skipped,
		DurationMS:     float64(duration.Milliseconds()),
	}

	if err := r.Create(run); err != nil {
		r.log.Error().Err(err).Msg("Failed to record scan run")
	}
}

// Create inserts a new scan run
func (r *Repository) Create(run *ScanRun) error {
	query := `
		INSERT INTO scan_runs (
			id, screener_type, put_tickers, call_tickers, contracts,
			skipped_tickers, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := run.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}

	_, err := r.cacheDB.Exec(
		query,
		run.ID,
		run.ScreenerType,
		run.PutTickers,
		run.CallTickers,
		run.Contracts,
		run.SkippedTickers,
		run.DurationMS,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert scan run: %w", err)
	}

	run.CreatedAt = createdAt
	return nil
}

// List returns the most recent scan runs, newest first
func (r *Repository) List(limit int) ([]ScanRun, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, screener_type, put_tickers, call_tickers, contracts,
		       skipped_tickers, duration_ms, created_at
		FROM scan_runs
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.cacheDB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan runs: %w", err)
	}
	defer rows.Close()

	runs := []ScanRun{}
	for rows.Next() {
		var run ScanRun
		if err := rows.Scan(
			&run.ID,
			&run.ScreenerType,
			&run.PutTickers,
			&run.CallTickers,
			&run.Contracts,
			&run.SkippedTickers,
			&run.DurationMS,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
