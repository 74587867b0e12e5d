package memory

import (
	"context"
	"sync"

	"github.com/wolfeidau/bbprovision/internal/models"
)

// BackfillLog implements store.BackfillLog in memory.
type BackfillLog struct {
	mu       sync.Mutex
	requests []models.BackfillRequest
}

func NewBackfillLog() *BackfillLog {
	return &BackfillLog{}
}

func (l *BackfillLog) RecordBackfill(ctx context.Context, req models.BackfillRequest) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.requests = append(l.requests, req)
	return nil
}

func (l *BackfillLog) Backfills(ctx context.Context) ([]models.BackfillRequest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]models.BackfillRequest(nil), l.requests...), nil
}
