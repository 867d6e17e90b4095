// errors/cache_errors.go
package errors

import "errors"

var (
	// ErrCacheStore covers every failed cache round trip: connectivity,
	// timeouts and (de)serialization.
	ErrCacheStore = errors.New("cache store error")
	// ErrUnknownCacheType is returned for values whose type is not in the
	// cache type registry, on write or on read.
	ErrUnknownCacheType  = errors.New("unknown cache value type")
	ErrCacheTypeMismatch = errors.New("cached value has unexpected type")
)
