package pkgblob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Bucket is a flat object store.
type Bucket interface {
	// Put writes data under key, replacing any existing object.
	Put(ctx context.Context, key string, data []byte) error
	// Open returns a reader for key or pkgerror.ErrNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Close() error
}

// Driver names accepted by Open.
const (
	DriverLocal = "local"
	DriverS3    = "s3"
	DriverGCS   = "gcs"
	DriverAzure = "azure"
)

// ErrInvalidKey is returned for keys that are empty or could escape the bucket.
var ErrInvalidKey = errors.New("pkgblob: invalid key")

// Options selects and configures a driver. Only the fields of the chosen
// driver are read.
type Options struct {
	Driver string

	LocalDir string

	S3 S3Options

	GCSBucket          string
	GCSCredentialsFile string

	AzureAccountName string
	AzureAccountKey  string
	AzureContainer   string
}

// Open builds the Bucket named by opts.Driver.
func Open(ctx context.Context, opts Options) (Bucket, error) {
	switch opts.Driver {
	case "", DriverLocal:
		return NewLocal(opts.LocalDir)
	case DriverS3:
		return NewS3(opts.S3)
	case DriverGCS:
		return NewGCS(ctx, opts.GCSBucket, opts.GCSCredentialsFile)
	case DriverAzure:
		return NewAzure(opts.AzureAccountName, opts.AzureAccountKey, opts.AzureContainer)
	default:
		return nil, fmt.Errorf("pkgblob: unknown driver %q", opts.Driver)
	}
}

// ValidateKey accepts a single path segment without separators or dot names.
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
