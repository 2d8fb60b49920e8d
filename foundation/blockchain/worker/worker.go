// Package worker implements the background consensus workflow for the
// blockchain.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// Worker manages the background consensus workflow for the blockchain.
type Worker struct {
	state     *state.State
	wg        sync.WaitGroup
	ticker    *time.Ticker
	shut      chan struct{}
	resolve   chan bool
	evHandler state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes. When the interval is zero or
// less, consensus only runs when signaled.
func Run(st *state.State, interval time.Duration, evHandler state.EventHandler) *Worker {
	w := Worker{
		state:     st,
		shut:      make(chan struct{}),
		resolve:   make(chan bool, 1),
		evHandler: evHandler,
	}

	if interval > 0 {
		w.ticker = time.NewTicker(interval)
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Load the set of operations we need to run.
	operations := []func(){
		w.resolveOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	if w.ticker != nil {
		w.evHandler("worker: shutdown: stop ticker")
		w.ticker.Stop()
	}

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalResolve queues a consensus run. If there is already a signal
// pending in the channel, just return since a run will start.
func (w *Worker) SignalResolve() {
	select {
	case w.resolve <- true:
	default:
	}
	w.evHandler("worker: SignalResolve: consensus signaled")
}

// =============================================================================

// resolveOperations handles running consensus against the known peers.
func (w *Worker) resolveOperations() {
	w.evHandler("worker: resolveOperations: G started")
	defer w.evHandler("worker: resolveOperations: G completed")

	// A nil channel blocks forever which disables the timer.
	var tick <-chan time.Time
	if w.ticker != nil {
		tick = w.ticker.C
	}

	for {
		select {
		case <-w.resolve:
			if !w.isShutdown() {
				w.runResolveOperation()
			}
		case <-tick:
			if !w.isShutdown() {
				w.runResolveOperation()
			}
		case <-w.shut:
			w.evHandler("worker: resolveOperations: received shut signal")
			return
		}
	}
}

// runResolveOperation asks the peers for their chains and adopts the longest
// valid one. The run is cancelled if the worker is shut down.
func (w *Worker) runResolveOperation() {
	w.evHandler("worker: runResolveOperation: started")
	defer w.evHandler("worker: runResolveOperation: completed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-w.shut:
			cancel()
		case <-ctx.Done():
		}
	}()

	if replaced, _ := w.state.ResolveConflicts(ctx); replaced {
		w.evHandler("worker: runResolveOperation: chain replaced")
	}
}

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
