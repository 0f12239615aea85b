// Package sim is the engine of the transit simulator.
//
// # Reading Guide
//
// Start with these files to understand a tick:
//   - simulator.go: deploys buses per route pair, moves them, retires finished trips
//   - bus.go: movement, arrival handling, unloading and boarding
//   - route.go: cursor over shared stop geometry; buses get clones
//
// # Architecture
//
// Routes loaded from configuration (config.go) are prototypes. The simulator
// updates prototypes every tick, which generates and ages passengers at their
// stops. Each bus travels its own clone of an outbound and an inbound route,
// sharing the stops with the prototype.
//
// Buses come from a BusDepot whose strategy picks the size of the next bus
// (depot.go, factory.go). Strategy counters live in a DepotState owned by the
// depot, not in package variables.
//
// Buses and stops push BusData and StopData snapshots to registered observers
// (observer.go, snapshot.go). Decorators adjust the display color of a bus
// (decorator.go).
//
// Completed trips and delivered passengers are written through a LogWriter;
// sim/csvlog provides the file-backed implementation. Sub-packages:
//   - sim/csvlog/: rotating CSV record files
//   - sim/trace/: deployment and trip decision trace
//   - sim/vis/: HTTP and websocket visualization server
package sim
