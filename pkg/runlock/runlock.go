// Package runlock serializes runs against the same router through a Consul
// lock, so an overlapping cron invocation exits instead of racing the
// command files.
package runlock

import (
	"fmt"

	consulapi "github.com/hashicorp/consul/api"
)

// ErrHeld is returned when another run already holds the lock.
var ErrHeld = fmt.Errorf("runlock: already held by another run")

// Lock is a held run lock. Release it when the run finishes.
type Lock struct {
	lock *consulapi.Lock
}

// Acquire takes the lock for the given router, trying exactly once: a held
// lock means another run is in flight and this one should bail out before
// touching any output.
func Acquire(addr, router string) (*Lock, error) {
	cfg := consulapi.DefaultConfig()
	if addr != "" {
		cfg.Address = addr
	}
	cli, err := consulapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("consul client: %w", err)
	}
	lock, err := cli.LockOpts(&consulapi.LockOptions{
		Key:         "maxpfx/locks/" + router,
		LockTryOnce: true,
	})
	if err != nil {
		return nil, fmt.Errorf("consul lock opts: %w", err)
	}
	held, err := lock.Lock(nil)
	if err != nil {
		return nil, fmt.Errorf("consul lock: %w", err)
	}
	if held == nil {
		return nil, ErrHeld
	}
	return &Lock{lock: lock}, nil
}

// Release gives the lock back.
func (l *Lock) Release() {
	_ = l.lock.Unlock()
}
