package docstore

import (
	"context"
	"fmt"

	"dinamap/pkg/types"
)

// Open selects a Store implementation from the session configuration.
func Open(ctx context.Context, cfg types.Config) (Store, error) {
	switch cfg.Docstore {
	case types.DocstoreMemory:
		return NewMemory(), nil
	case types.DocstoreFS:
		return NewFS(cfg.FSRoot)
	case types.DocstoreSQLite:
		return NewSQLite(cfg.SQLitePath)
	case types.DocstoreS3:
		return NewS3(ctx, cfg.S3, S3Credentials{})
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrDocstoreUnknown, cfg.Docstore)
	}
}
