// Package vis serves live simulator snapshots over HTTP and WebSocket.
//
// The simulator runs on a single goroutine. Handlers never touch it directly:
// they read the Store, which the simulator fills through the sim.Visualizer
// interface, and they enqueue commands that the simulation loop executes
// between ticks.
package vis

import (
	"sort"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/transit-sim/transit-sim/sim"
)

const (
	retiredTTL     = 10 * time.Minute
	retiredCleanup = 20 * time.Minute
)

// Store is a concurrency-safe copy of the latest route and bus snapshots.
// It implements sim.Visualizer. Retired buses stay queryable for retiredTTL.
type Store struct {
	mu         sync.RWMutex
	routeOrder []string
	routes     map[string]sim.RouteData
	busOrder   []string
	buses      map[string]sim.BusData
	retired    *cache.Cache
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		routes:  make(map[string]sim.RouteData),
		buses:   make(map[string]sim.BusData),
		retired: cache.New(retiredTTL, retiredCleanup),
	}
}

// UpdateRoute records the latest snapshot of a route.
func (s *Store) UpdateRoute(data sim.RouteData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.routes[data.ID]; !ok {
		s.routeOrder = append(s.routeOrder, data.ID)
	}
	data.Stops = append([]sim.StopData(nil), data.Stops...)
	s.routes[data.ID] = data
}

// UpdateBus records the latest snapshot of a bus. A deleted bus is moved to
// the retired cache.
func (s *Store) UpdateBus(data sim.BusData, deleted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if deleted {
		if _, ok := s.buses[data.ID]; ok {
			delete(s.buses, data.ID)
			s.busOrder = removeID(s.busOrder, data.ID)
		}
		s.retired.SetDefault(data.ID, data)
		return
	}
	if _, ok := s.buses[data.ID]; !ok {
		s.busOrder = append(s.busOrder, data.ID)
	}
	s.buses[data.ID] = data
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// Routes returns every route in first-seen order.
func (s *Store) Routes() []sim.RouteData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]sim.RouteData, 0, len(s.routeOrder))
	for _, id := range s.routeOrder {
		out = append(out, s.routes[id])
	}
	return out
}

// Buses returns every active bus in first-seen order.
func (s *Store) Buses() []sim.BusData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]sim.BusData, 0, len(s.busOrder))
	for _, id := range s.busOrder {
		out = append(out, s.buses[id])
	}
	return out
}

// Retired returns recently retired buses sorted by id.
func (s *Store) Retired() []sim.BusData {
	items := s.retired.Items()
	out := make([]sim.BusData, 0, len(items))
	for _, item := range items {
		if data, ok := item.Object.(sim.BusData); ok {
			out = append(out, data)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RetiredBus looks up a retired bus by id.
func (s *Store) RetiredBus(id string) (sim.BusData, bool) {
	v, ok := s.retired.Get(id)
	if !ok {
		return sim.BusData{}, false
	}
	data, ok := v.(sim.BusData)
	return data, ok
}
