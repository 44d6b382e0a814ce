package store

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// NewStore creates a postgres-backed store when configured, otherwise the
// file-per-recommendation store under dir.
func NewStore(ctx context.Context, databaseURL, dir string, logger *zap.Logger) (Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return NewFileStore(dir, logger), nil
	}
	return NewPostgresStore(ctx, databaseURL)
}
