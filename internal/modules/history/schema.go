package history

import "database/sql"

// ScanRunsSchema ensures the scan_runs table exists in cache.db
const ScanRunsSchema = `
CREATE TABLE IF NOT EXISTS scan_runs (
    id TEXT PRIMARY KEY,
    screener_type TEXT NOT NULL,
    put_tickers TEXT NOT NULL,
    call_tickers TEXT NOT NULL,
    contracts INTEGER NOT NULL,
    skipped_tickers INTEGER NOT NULL,
    duration_ms REAL NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scan_runs_created_at ON scan_runs(created_at);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(ScanRunsSchema)
	return err
}
