package vis

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/transit-sim/transit-sim/sim"
)

// Run drives simulator on the calling goroutine until ctx is done. Every
// interval it executes queued commands, advances one tick unless the run is
// finished, and broadcasts the new snapshots to every client.
func Run(ctx context.Context, simulator *sim.Simulator, srv *Server, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logrus.Infof("[tick %07d] visualization loop stopped", simulator.Tick())
			return
		case <-ticker.C:
			Step(simulator, srv)
		}
	}
}

// Step runs one iteration of the loop body.
func Step(simulator *sim.Simulator, srv *Server) {
	drainCommands(simulator, srv)
	if !simulator.Done() {
		simulator.Update()
	}
	srv.hub.Broadcast(bussesMessage{Command: CmdUpdateBusses, Busses: srv.store.Buses()})
	srv.hub.Broadcast(routesMessage{Command: CmdUpdateRoutes, Routes: srv.store.Routes()})
}

func drainCommands(simulator *sim.Simulator, srv *Server) {
	for {
		select {
		case cmd := <-srv.commands:
			cmd(simulator)
		default:
			return
		}
	}
}
