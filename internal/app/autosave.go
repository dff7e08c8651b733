package app

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Autosaver periodically invokes a flush callback, e.g. to persist window
// preferences. Mutations to annotation data are persisted synchronously by
// the store; this only covers state that is cheap to write but noisy to
// write on every change.
type Autosaver struct {
	interval time.Duration
	onTick   func()
	log      zerolog.Logger

	mu      sync.Mutex
	stop    chan struct{}
	running bool
}

// NewAutosaver creates an autosaver that calls onTick every interval.
func NewAutosaver(interval time.Duration, onTick func(), log zerolog.Logger) *Autosaver {
	return &Autosaver{
		interval: interval,
		onTick:   onTick,
		log:      log,
	}
}

// Start launches the tick loop. Calling Start on a running autosaver is
// a no-op.
func (a *Autosaver) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return
	}
	a.stop = make(chan struct{})
	a.running = true
	go a.loop(a.stop)
	a.log.Debug().Dur("interval", a.interval).Msg("autosave started")
}

// Stop halts the tick loop.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return
	}
	close(a.stop)
	a.running = false
}

func (a *Autosaver) loop(stop chan struct{}) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.onTick()
		case <-stop:
			return
		}
	}
}
