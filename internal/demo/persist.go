package demo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// ErrSimulated is returned by saves while failure simulation is on.
var ErrSimulated = errors.New("simulated save failure")

// Store is the persistence the demo needs. *store.Store satisfies it.
type Store interface {
	Value(ctx context.Context, name, def string) (string, error)
	Put(ctx context.Context, name, value string) error
}

// persister writes saved values to the store. Identical saves running at
// the same time (Enter pressed and the input blurred before the first
// completes) share one write.
type persister struct {
	store Store
	log   *slog.Logger
	group singleflight.Group
	fail  atomic.Bool
}

func newPersister(st Store, log *slog.Logger) *persister {
	return &persister{store: st, log: log}
}

func (p *persister) save(ctx context.Context, name, value string) error {
	_, err, shared := p.group.Do(name+"\x00"+value, func() (any, error) {
		if p.fail.Load() {
			return nil, ErrSimulated
		}
		if err := p.store.Put(ctx, name, value); err != nil {
			return nil, fmt.Errorf("persist %s: %w", name, err)
		}
		return nil, nil
	})
	if shared {
		p.log.Debug("save shared with an in-flight write", "field", name)
	}
	return err
}

func (p *persister) load(ctx context.Context, name, def string) string {
	v, err := p.store.Value(ctx, name, def)
	if err != nil {
		p.log.Warn("load field", "field", name, "err", err)
		return def
	}
	return v
}

// toggleFail flips failure simulation and returns the new state.
func (p *persister) toggleFail() bool {
	for {
		old := p.fail.Load()
		if p.fail.CompareAndSwap(old, !old) {
			return !old
		}
	}
}
