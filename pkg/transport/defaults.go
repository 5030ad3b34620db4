package transport

import (
	"maps"
	"sync"
)

// Defaults holds the process-wide configuration consulted when root routers
// are built: headers added to every request and a host name (scheme and
// host, e.g. "http://localhost:2000") prefixed to base paths. An empty host
// name keeps URLs relative to the client's base.
type Defaults struct {
	Headers  map[string]string
	HostName string
}

func (d Defaults) clone() Defaults {
	return Defaults{Headers: maps.Clone(d.Headers), HostName: d.HostName}
}

var (
	defaultsMu      sync.RWMutex
	processDefaults Defaults
)

// SetDefaults replaces the process-wide defaults. Routers built before the
// call keep the values they were built with.
func SetDefaults(d Defaults) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	processDefaults = d.clone()
}

// CurrentDefaults returns a copy of the process-wide defaults.
func CurrentDefaults() Defaults {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return processDefaults.clone()
}
