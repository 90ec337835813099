package pkgkv

import (
	"context"
	"fmt"
	"time"
)

// Store persists opaque values under string keys.
type Store interface {
	// Get returns the value or pkgerror.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set writes value. A zero ttl keeps the entry until deleted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverBadger = "badger"
	DriverSQLite = "sqlite"
)

// Options selects and configures a driver.
type Options struct {
	Driver string
	// Path is a directory for badger and a file for sqlite.
	Path string
	// Now is the clock used for expiry by memory and sqlite.
	Now func() time.Time
}

// Open builds the Store named by opts.Driver.
func Open(opts Options) (Store, error) {
	switch opts.Driver {
	case "", DriverMemory:
		return NewMemory(opts.Now), nil
	case DriverBadger:
		return OpenBadger(opts.Path)
	case DriverSQLite:
		return OpenSQLite(opts.Path, opts.Now)
	default:
		return nil, fmt.Errorf("pkgkv: unknown driver %q", opts.Driver)
	}
}
