// Package kv stores small opaque records on the client under string keys.
// The session store keeps its single {user, token} record here.
package kv

import "context"

// Repository is a durable key/value store. Get on a missing key returns
// (nil, nil); Delete on a missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
