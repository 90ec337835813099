package pkgroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerDefaultMax(t *testing.T) {
	mgr := NewManager(0)
	assert.Equal(t, DefaultMaxGoroutine, cap(mgr.sema))
}

func TestManagerCollectsErrors(t *testing.T) {
	mgr := NewManager(2)
	errOne := errors.New("one")
	errTwo := errors.New("two")

	mgr.Go(context.Background(), func(ctx context.Context) error {
		return errOne
	})
	mgr.Go(context.Background(), func(ctx context.Context) error {
		return errTwo
	})

	joined := mgr.Wait()
	require.Error(t, joined)
	assert.ErrorIs(t, joined, errOne)
	assert.ErrorIs(t, joined, errTwo)
}

func TestManagerRecoversPanics(t *testing.T) {
	mgr := NewManager(1)
	mgr.Go(context.Background(), func(ctx context.Context) error {
		panic("boom")
	})

	assert.NoError(t, mgr.Wait())
}

func TestGroupJoinsOnlyItsOwnTasks(t *testing.T) {
	mgr := NewManager(4)
	release := make(chan struct{})
	mgr.Go(context.Background(), func(ctx context.Context) error {
		<-release
		return nil
	})

	var ran atomic.Int32
	grp := mgr.Group()
	for range 3 {
		grp.Go(context.Background(), func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
	}

	require.NoError(t, grp.Wait())
	assert.Equal(t, int32(3), ran.Load())

	close(release)
	assert.NoError(t, mgr.Wait())
}

func TestGroupReportsPanicAndErrors(t *testing.T) {
	errBad := errors.New("bad")
	grp := NewManager(2).Group()
	grp.Go(context.Background(), func(ctx context.Context) error {
		panic("boom")
	})
	grp.Go(context.Background(), func(ctx context.Context) error {
		return errBad
	})

	err := grp.Wait()
	assert.ErrorIs(t, err, ErrPanic)
	assert.ErrorIs(t, err, errBad)
}

func TestGroupCanceledContext(t *testing.T) {
	mgr := NewManager(1)
	mgr.sema <- struct{}{} // occupy the only slot

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	grp := mgr.Group()
	grp.Go(ctx, func(ctx context.Context) error {
		t.Fatal("must not run")
		return nil
	})

	assert.ErrorIs(t, grp.Wait(), context.Canceled)
	<-mgr.sema
}
