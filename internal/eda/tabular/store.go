package tabular

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/shandysiswandi/goeda/internal/eda/entity"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgblob"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgerror"
	"github.com/shandysiswandi/goeda/internal/pkg/pkguid"
)

// StampLayout prefixes stored uploads so repeated names do not collide.
const StampLayout = "20060102150405"

type Clock interface {
	Now() time.Time
}

// Store persists tables as delimited text in an upload bucket.
type Store struct {
	bucket pkgblob.Bucket
	clock  Clock
	ids    pkguid.NumberID
}

// NewStore uses the wall clock when clock is nil. ids may be nil, leaving
// refs without an id.
func NewStore(bucket pkgblob.Bucket, clock Clock, ids pkguid.NumberID) *Store {
	if clock == nil {
		clock = wallClock{}
	}
	return &Store{bucket: bucket, clock: clock, ids: ids}
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// Save parses raw and, when it is well formed, writes the normalized table
// as "<stamp>_<name>". Nothing is written on a parse failure.
func (s *Store) Save(ctx context.Context, raw []byte, name string) (entity.StoredRef, error) {
	table, err := Parse(bytes.NewReader(raw), DelimiterFor(name))
	if err != nil {
		return entity.StoredRef{}, err
	}

	key := s.clock.Now().Format(StampLayout) + "_" + name
	if err := s.put(ctx, key, table); err != nil {
		return entity.StoredRef{}, err
	}

	return s.ref(key, name, table), nil
}

// SaveDerived writes table as prefix+baseName, replacing an older derivative.
func (s *Store) SaveDerived(ctx context.Context, table *entity.Table, baseName, prefix string) (entity.StoredRef, error) {
	key := prefix + baseName
	if err := s.put(ctx, key, table); err != nil {
		return entity.StoredRef{}, err
	}

	return s.ref(key, key, table), nil
}

// Load re-reads the table stored under key.
func (s *Store) Load(ctx context.Context, key string) (*entity.Table, error) {
	rc, err := s.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return Parse(rc, DelimiterFor(key))
}

// Open returns the stored bytes under key. The caller closes the reader.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.bucket.Open(ctx, key)
	if errors.Is(err, pkgerror.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", entity.ErrNotFound, key)
	}
	if err != nil {
		return nil, err
	}

	return rc, nil
}

func (s *Store) put(ctx context.Context, key string, table *entity.Table) error {
	var buf bytes.Buffer
	if err := Write(&buf, table, DelimiterFor(key)); err != nil {
		return fmt.Errorf("serialize %s: %w", key, err)
	}

	if err := s.bucket.Put(ctx, key, buf.Bytes()); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}

	return nil
}

func (s *Store) ref(key, name string, table *entity.Table) entity.StoredRef {
	var id int64
	if s.ids != nil {
		id = s.ids.Generate()
	}

	return entity.StoredRef{
		ID:      id,
		Key:     key,
		Name:    filepath.Base(name),
		Rows:    table.NumRows(),
		Columns: table.ColumnNames(),
	}
}
