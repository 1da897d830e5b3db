package main

import (
	"context"
	"fmt"

	"github.com/mcdev12/draftpilot/go/internal/config"
	"github.com/mcdev12/draftpilot/go/internal/draft/archive"
)

// setupArchive opens the pick archive and makes sure its tables exist.
func setupArchive(ctx context.Context, db config.Database) (*archive.Archive, error) {
	a, err := archive.Open(ctx, db.DSN())
	if err != nil {
		return nil, err
	}
	if err := a.EnsureSchema(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to prepare archive: %w", err)
	}
	return a, nil
}
