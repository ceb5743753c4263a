package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// SetJSON stores the JSON encoding of value.
func SetJSON[T any](ctx context.Context, s Store, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Join(ErrFailedToEncode, err)
	}
	return s.Set(ctx, key, data, ttl)
}

// GetJSON loads and decodes a value stored with SetJSON.
// A miss returns the zero value and false.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var value T
	data, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return value, false, err
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, false, errors.Join(ErrFailedToDecode, err)
	}
	return value, true, nil
}
