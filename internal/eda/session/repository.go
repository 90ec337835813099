package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shandysiswandi/goeda/internal/eda/entity"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgerror"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgkv"
)

const keyPrefix = "session:"

// Repository keeps one Session per id in a key-value store. Records expire
// after ttl; every Save restarts the clock.
type Repository struct {
	kv  pkgkv.Store
	ttl time.Duration
}

func NewRepository(kv pkgkv.Store, ttl time.Duration) *Repository {
	return &Repository{kv: kv, ttl: ttl}
}

// Get returns entity.ErrMissingSession when nothing was saved under id.
func (r *Repository) Get(ctx context.Context, id string) (entity.Session, error) {
	raw, err := r.kv.Get(ctx, keyPrefix+id)
	if errors.Is(err, pkgerror.ErrNotFound) {
		return entity.Session{}, entity.ErrMissingSession
	}
	if err != nil {
		return entity.Session{}, fmt.Errorf("load session: %w", err)
	}

	var s entity.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return entity.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

func (r *Repository) Save(ctx context.Context, id string, s entity.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.kv.Set(ctx, keyPrefix+id, raw, r.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.kv.Delete(ctx, keyPrefix+id)
}
