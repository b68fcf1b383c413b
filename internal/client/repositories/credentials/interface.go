package credentials

import "context"

// Keys mirrored from the session.
const (
	KeyUser    = "user"
	KeyAccess  = "access"
	KeyRefresh = "refresh"
)

// Repository is the key/value contract of the store.
//
// Load returns (nil, nil) for a missing key. Clear is idempotent.
type Repository interface {
	Save(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Clear(ctx context.Context, key string) error
}
