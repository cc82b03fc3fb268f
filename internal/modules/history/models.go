package history

// ScanRun is a persisted summary of one screening request
type ScanRun struct {
	ID             string  `json:"id"`
	ScreenerType   string  `json:"screener_type"`
	PutTickers     string  `json:"put_tickers"`
	CallTickers    string  `json:"call_tickers"`
	Contracts      int     `json:"contracts"`
	SkippedTickers int     `json:"skipped_tickers"`
	DurationMS     float64 `json:"duration_ms"`
	CreatedAt      string  `json:"created_at"`
}
