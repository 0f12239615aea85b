package vis

import (
	"fmt"
	"strings"

	"github.com/transit-sim/transit-sim/sim"
)

// Command names exchanged with clients.
const (
	CmdInitRoutes   = "initRoutes"
	CmdUpdateRoutes = "updateRoutes"
	CmdUpdateBusses = "updateBusses"
	CmdStart        = "start"
	CmdUpdate       = "update"
	CmdPause        = "pause"
	CmdListenBus    = "listenBus"
	CmdListenStop   = "listenStop"
	CmdObserveBus   = "observeBus"
	CmdObserveStop  = "observeStop"
	CmdError        = "error"
)

// Request is a command sent by a client.
type Request struct {
	Command           string `json:"command"`
	ID                string `json:"id,omitempty"`
	NumTimeSteps      int    `json:"numTimeSteps,omitempty"`
	TimeBetweenBusses []int  `json:"timeBetweenBusses,omitempty"`
}

type routesMessage struct {
	Command string          `json:"command"`
	Routes  []sim.RouteData `json:"routes"`
}

type bussesMessage struct {
	Command string        `json:"command"`
	Busses  []sim.BusData `json:"busses"`
}

type initRoutesMessage struct {
	Command   string `json:"command"`
	NumRoutes int    `json:"numRoutes"`
}

type textMessage struct {
	Command string `json:"command"`
	Text    string `json:"text"`
}

func busText(d sim.BusData) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Bus %s\n", d.ID)
	sb.WriteString("-----------------------------\n")
	fmt.Fprintf(&sb, "  * Position: (%g,%g)\n", d.Position.X, d.Position.Y)
	fmt.Fprintf(&sb, "  * Passengers: %d\n", d.NumPassengers)
	fmt.Fprintf(&sb, "  * Capacity: %d\n", d.Capacity)
	return sb.String()
}

func stopText(d sim.StopData) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Stop %s\n", d.ID)
	sb.WriteString("-----------------------------\n")
	fmt.Fprintf(&sb, "  * Position: (%g,%g)\n", d.Position.X, d.Position.Y)
	fmt.Fprintf(&sb, "  * Passengers: %d\n", d.NumPeople)
	return sb.String()
}
