package metadata

import (
	"context"
	"time"
)

// Record is one stored value. Nonce is set when Value is sealed.
type Record struct {
	Key       string
	Value     []byte
	Nonce     []byte
	UpdatedAt time.Time
}

type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) (*Record, error)
	Set(ctx context.Context, r *Record) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}
