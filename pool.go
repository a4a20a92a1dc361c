package md2doc

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing bounds. Each service may own a headless Chrome instance
// (~200MB), so the ceiling is deliberately low.
const (
	MinPoolSize = 1
	MaxPoolSize = 8

	// cpuDivisor leaves CPU headroom for Chrome child processes.
	cpuDivisor = 2
)

// ServicePool bounds the number of live Service instances for batch
// conversion. Services are created lazily on first acquire and reused
// afterwards; each owns its own browser, so distinct services convert
// pdf targets in true parallel.
type ServicePool struct {
	capacity int
	opts     []Option

	idle chan *Service

	mu       sync.Mutex
	all      []*Service
	spawned  int
	draining bool
}

// NewServicePool creates a pool holding at most n services. The options
// are applied to every service the pool creates.
func NewServicePool(n int, opts ...Option) *ServicePool {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	return &ServicePool{
		capacity: n,
		opts:     opts,
		idle:     make(chan *Service, n),
	}
}

// Acquire returns an idle service, creating one while the pool is below
// capacity. Blocks when every service is in use.
func (p *ServicePool) Acquire() *Service {
	select {
	case svc := <-p.idle:
		return svc
	default:
	}

	p.mu.Lock()
	if p.spawned < p.capacity {
		p.spawned++
		p.mu.Unlock()

		// Construction happens outside the lock.
		svc := New(p.opts...)

		p.mu.Lock()
		p.all = append(p.all, svc)
		p.mu.Unlock()
		return svc
	}
	p.mu.Unlock()

	return <-p.idle
}

// Release returns a service to the pool. Releasing into a closed pool
// is a no-op; Close already took ownership of every service. The lock
// is held across the send so Release cannot race Close onto the closed
// channel; the send never blocks because idle has room for every
// service the pool ever spawned.
func (p *ServicePool) Release(svc *Service) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.draining {
		return
	}
	p.idle <- svc
}

// Close shuts down every service the pool ever created, aggregating
// their close errors. Safe to call more than once.
func (p *ServicePool) Close() error {
	p.mu.Lock()
	if p.draining {
		p.mu.Unlock()
		return nil
	}
	p.draining = true
	close(p.idle)
	services := p.all
	p.mu.Unlock()

	var errs []error
	for _, svc := range services {
		if err := svc.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ServicePool) Size() int {
	return p.capacity
}

// ResolvePoolSize picks a pool size: an explicit worker count wins,
// otherwise half of GOMAXPROCS clamped to the pool bounds. automaxprocs
// keeps GOMAXPROCS honest inside containers.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
