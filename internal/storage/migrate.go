// ABOUTME: Data copy between workout log stores.
// ABOUTME: Copies categories, session graphs, and body metrics from source to destination.
package storage

import (
	"context"
	"fmt"
)

// CopySummary holds counts of copied entities.
type CopySummary struct {
	Categories  int
	Sessions    int
	Exercises   int
	Sets        int
	BodyMetrics int
}

// CopyData copies all data from src into dst in a single transaction.
// The destination should hold no sessions before calling this function;
// categories are merged the way ImportData merges them.
func CopyData(ctx context.Context, src Reader, dst Repository) (*CopySummary, error) {
	data, err := GetAllData(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return ImportData(ctx, dst, data)
}
