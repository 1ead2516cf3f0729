package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"chatctl/internal/engine"
)

// LoadState is the loader's tagged state. Exactly two variants exist:
// Unloaded and Loaded. A nil handle is never used as a sentinel.
type LoadState interface{ isLoadState() }

// Unloaded is the initial state; a failed acquisition returns here.
type Unloaded struct{}

// Loaded carries the memoized handle.
type Loaded struct{ Handle *engine.Handle }

func (Unloaded) isLoadState() {}
func (Loaded) isLoadState()   {}

// Loader memoizes a single slow model acquisition. After the first success
// every call returns the same handle with no repeated work; failures leave
// the state Unloaded so a later call can retry. Concurrent callers share one
// in-flight acquisition.
type Loader struct {
	eng           engine.Engine
	cfg           engine.LoadConfig
	cacheBudgetMB int
	log           zerolog.Logger

	mu        sync.Mutex
	state     LoadState
	limitOnce sync.Once
	group     singleflight.Group
}

// NewLoader returns an unloaded Loader for the configured model. A positive
// cacheBudgetMB is applied to the engine once, before the first acquisition.
func NewLoader(eng engine.Engine, cfg engine.LoadConfig, cacheBudgetMB int, log zerolog.Logger) *Loader {
	return &Loader{
		eng:           eng,
		cfg:           cfg,
		cacheBudgetMB: cacheBudgetMB,
		log:           log,
		state:         Unloaded{},
	}
}

// State returns the current load state.
func (l *Loader) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Load returns the memoized handle, acquiring it on first use. onProgress,
// when non-nil, receives fractional completion during a real acquisition; it
// is not invoked on the cached path.
func (l *Loader) Load(ctx context.Context, onProgress func(float64)) (*engine.Handle, error) {
	if h, ok := l.cached(); ok {
		return h, nil
	}
	v, err, _ := l.group.Do("model", func() (any, error) {
		// A caller that held the singleflight slot may have finished the
		// load while we waited for it.
		if h, ok := l.cached(); ok {
			return h, nil
		}
		l.limitOnce.Do(func() {
			if l.cacheBudgetMB > 0 {
				l.eng.SetCacheLimit(l.cacheBudgetMB)
			}
		})
		start := time.Now()
		h, err := l.eng.Load(ctx, l.cfg, onProgress)
		if err != nil {
			l.log.Error().Err(err).Str("model", l.cfg.ModelPath).Msg("model load failed")
			return nil, ErrLoad(err)
		}
		l.mu.Lock()
		l.state = Loaded{Handle: h}
		l.mu.Unlock()
		modelLoadSeconds.Observe(time.Since(start).Seconds())
		l.log.Info().Str("model", l.cfg.ModelPath).Dur("elapsed", time.Since(start)).Msg("model loaded")
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*engine.Handle), nil
}

func (l *Loader) cached() (*engine.Handle, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch s := l.state.(type) {
	case Loaded:
		return s.Handle, true
	case Unloaded:
		return nil, false
	}
	return nil, false
}
