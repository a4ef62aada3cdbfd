package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-proofa"
)

// Exporter runs export intents for one document.
type Exporter interface {
	Update(p proofa.Payload, t proofa.TemplateName) error
	DownloadImage(ctx context.Context) proofa.Result
	DownloadPDF(ctx context.Context) proofa.Result
	ShareGeneric(ctx context.Context) proofa.Result
	ShareToWhatsApp(ctx context.Context) proofa.Result
	Close() error
}

// Compile-time interface implementation check.
var _ Exporter = (*proofa.Session)(nil)

// Sessions opens export sessions on one browser.
type Sessions interface {
	NewSession(platform proofa.Platform) (Exporter, error)
}

// Pool abstracts service pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (Sessions, error)
	Release(Sessions)
	Size() int
	Close() error
}

// PoolFactory creates a pool of n services configured with opts.
type PoolFactory func(n int, opts ...proofa.Option) Pool

// newServicePool is the production PoolFactory.
func newServicePool(n int, opts ...proofa.Option) Pool {
	return &poolAdapter{pool: proofa.NewServicePool(n, opts...)}
}

// poolAdapter wraps proofa.ServicePool to implement Pool.
type poolAdapter struct {
	pool *proofa.ServicePool
}

func (a *poolAdapter) Acquire(ctx context.Context) (Sessions, error) {
	svc, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return serviceSessions{svc: svc}, nil
}

func (a *poolAdapter) Release(s Sessions) {
	ss, ok := s.(serviceSessions)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", s))
	}
	a.pool.Release(ss.svc)
}

func (a *poolAdapter) Size() int    { return a.pool.Size() }
func (a *poolAdapter) Close() error { return a.pool.Close() }

// serviceSessions adapts *proofa.Service to Sessions.
type serviceSessions struct {
	svc *proofa.Service
}

func (s serviceSessions) NewSession(platform proofa.Platform) (Exporter, error) {
	sess, err := s.svc.NewSession(platform)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// selectPlatform returns the share backend the config describes: a share
// command when one is set, download only otherwise.
func selectPlatform(command string, cancelExitCode int) proofa.Platform {
	if command == "" {
		return proofa.NewDesktopPlatform()
	}
	return proofa.NewCommandPlatform(command, cancelExitCode)
}
