package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/salonops/repeat-insight/internal/analytics"
)

// Archive persists completed analysis runs to Postgres so parameter
// experiments stay reviewable after the session expires. Optional: the
// core owns no state, and a nil archive is a no-op at the call sites.
type Archive struct {
	db *sql.DB
}

func New(db *sql.DB) *Archive {
	return &Archive{db: db}
}

// Init creates the run-history table if it does not exist.
func (a *Archive) Init(ctx context.Context) error {
	_, err := a.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS analysis_runs (
			id UUID PRIMARY KEY,
			session_id TEXT NOT NULL,
			window_start DATE NOT NULL,
			window_end DATE NOT NULL,
			repeat_cutoff DATE NOT NULL,
			empty_result BOOLEAN NOT NULL,
			new_customers INT NOT NULL,
			parameters JSONB NOT NULL,
			result JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("create analysis_runs: %w", err)
	}
	return nil
}

// SaveRun stores one completed run and returns its id.
func (a *Archive) SaveRun(ctx context.Context, sessionID string, result *analytics.AnalysisResult) (string, error) {
	paramsJSON, err := json.Marshal(result.Parameters)
	if err != nil {
		return "", fmt.Errorf("marshal parameters: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}

	id := uuid.New().String()
	_, err = a.db.ExecContext(ctx, `
		INSERT INTO analysis_runs
			(id, session_id, window_start, window_end, repeat_cutoff,
			 empty_result, new_customers, parameters, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())`,
		id, sessionID,
		result.Parameters.NewCustomerStart,
		result.Parameters.NewCustomerEnd,
		result.Parameters.RepeatAnalysisEnd,
		result.Empty,
		result.BasicStats.TotalNewCustomers,
		paramsJSON, resultJSON,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// RunSummary is one line of the run history.
type RunSummary struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	WindowStart  string    `json:"window_start"`
	WindowEnd    string    `json:"window_end"`
	RepeatCutoff string    `json:"repeat_cutoff"`
	Empty        bool      `json:"empty"`
	NewCustomers int       `json:"new_customers"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListRuns returns the most recent runs, newest first.
func (a *Archive) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, session_id,
		       to_char(window_start, 'YYYY-MM-DD'),
		       to_char(window_end, 'YYYY-MM-DD'),
		       to_char(repeat_cutoff, 'YYYY-MM-DD'),
		       empty_result, new_customers, created_at
		FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.SessionID, &r.WindowStart, &r.WindowEnd,
			&r.RepeatCutoff, &r.Empty, &r.NewCustomers, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRun loads one archived result by run id.
func (a *Archive) GetRun(ctx context.Context, id string) (*analytics.AnalysisResult, error) {
	var resultJSON []byte
	err := a.db.QueryRowContext(ctx,
		`SELECT result FROM analysis_runs WHERE id = $1`, id).Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	var result analytics.AnalysisResult
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return nil, fmt.Errorf("unmarshal archived result: %w", err)
	}
	return &result, nil
}
