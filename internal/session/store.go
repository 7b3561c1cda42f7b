package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/salonops/repeat-insight/internal/analytics"
	"github.com/salonops/repeat-insight/internal/normalize"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Store keeps per-session state between the upload and analyze requests:
// the resolved dataset and the latest analysis result. The engine itself
// holds no state; everything request-scoped lives here.
type Store interface {
	SaveDataset(ctx context.Context, id string, ds *normalize.Dataset) error
	GetDataset(ctx context.Context, id string) (*normalize.Dataset, error)
	SaveResult(ctx context.Context, id string, result *analytics.AnalysisResult) error
	GetResult(ctx context.Context, id string) (*analytics.AnalysisResult, error)
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.New().String()
}

// entry is one session's state in the in-memory store.
type entry struct {
	dataset   *normalize.Dataset
	result    *analytics.AnalysisResult
	expiresAt time.Time
}
