// Package metrics constructs the metrics the application will track.
package metrics

import (
	"expvar"
	"runtime"
)

// This holds the single instance of the metrics value needed for
// collecting metrics. The expvar package is already based on a singleton
// for the different metrics that are registered with the package so there
// isn't much choice here.
var m *metrics

// =============================================================================

// metrics represents the set of metrics we gather. These fields are
// safe to be accessed concurrently thanks to expvar. No extra abstraction is required.
type metrics struct {
	goroutines *expvar.Int
	requests   *expvar.Int
	errors     *expvar.Int
	panics     *expvar.Int
	blocks     *expvar.Int
}

// init constructs the metrics value that will be used to capture metrics.
// The metrics value is stored in a package level variable since everything
// inside of expvar is registered as a singleton.
func init() {
	m = &metrics{
		goroutines: expvar.NewInt("goroutines"),
		requests:   expvar.NewInt("requests"),
		errors:     expvar.NewInt("errors"),
		panics:     expvar.NewInt("panics"),
		blocks:     expvar.NewInt("blocks_mined"),
	}
}

// =============================================================================

// AddGoroutines refreshes the goroutine metric every 100 requests.
func AddGoroutines() int64 {
	if v := m.requests.Value(); v%100 == 0 {
		g := int64(runtime.NumGoroutine())
		m.goroutines.Set(g)
		return g
	}

	return 0
}

// AddRequests increments the request metric by 1.
func AddRequests() int64 {
	m.requests.Add(1)
	return m.requests.Value()
}

// AddErrors increments the errors metric by 1.
func AddErrors() int64 {
	m.errors.Add(1)
	return m.errors.Value()
}

// AddPanics increments the panics metric by 1.
func AddPanics() int64 {
	m.panics.Add(1)
	return m.panics.Value()
}

// AddBlocks increments the mined blocks metric by 1.
func AddBlocks() int64 {
	m.blocks.Add(1)
	return m.blocks.Value()
}
