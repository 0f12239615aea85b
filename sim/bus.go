// Defines the Bus, the moving entity of the simulation.
// A bus travels its outbound route, then its inbound route, serving every stop
// on the way. Each arrival unloads passengers bound for the stop and then
// boards as many waiting passengers as capacity allows.

package sim

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// BusConfig groups the parameters of NewBus.
type BusConfig struct {
	Name     string
	Type     string // size label, e.g. "Small"
	Capacity int
	Speed    float64 // distance per tick; non-positive speed never moves
	Outbound *Route
	Inbound  *Route
	Log      LogWriter // receives the trip report; nil discards it
}

// Bus carries passengers along an outbound route followed by an inbound route.
//
// nextStop is the stop the bus is heading to and remaining the distance left
// before reaching it. A new bus is parked at the first outbound stop with
// nothing left to travel, so its first Move serves that stop.
type Bus struct {
	Observable[BusData]

	name     string
	busType  string
	capacity int
	speed    float64

	outbound  *Route
	inbound   *Route
	onInbound bool

	nextStop  *Stop
	remaining float64

	manifest []*Passenger
	loader   PassengerLoader
	unloader *PassengerUnloader
	log      LogWriter
	finished bool // the last inbound stop has been served
	reported bool

	delivered     int // passengers dropped at their destination
	deliveredWait int // sum of their TotalWait

	data BusData
}

// NewBus creates a bus with its own clones of the given routes. Both routes
// must be non-nil.
func NewBus(cfg BusConfig) *Bus {
	if cfg.Outbound == nil || cfg.Inbound == nil {
		panic(fmt.Sprintf("NewBus(%q): outbound and inbound routes are required", cfg.Name))
	}
	log := cfg.Log
	if log == nil {
		log = DiscardLog
	}
	b := &Bus{
		name:     cfg.Name,
		busType:  cfg.Type,
		capacity: cfg.Capacity,
		speed:    cfg.Speed,
		outbound: cfg.Outbound.Clone(),
		inbound:  cfg.Inbound.Clone(),
		unloader: NewPassengerUnloader(log),
		log:      log,
	}
	b.nextStop = b.outbound.PrevStop()
	b.UpdateBusData()
	NewBusDecorator(b).UpdateBusData()
	return b
}

func (b *Bus) Name() string               { return b.name }
func (b *Bus) Type() string               { return b.busType }
func (b *Bus) Capacity() int              { return b.capacity }
func (b *Bus) Speed() float64             { return b.speed }
func (b *Bus) NumPassengers() int         { return len(b.manifest) }
func (b *Bus) NextStop() *Stop            { return b.nextStop }
func (b *Bus) DistanceRemaining() float64 { return b.remaining }
func (b *Bus) Outbound() *Route           { return b.outbound }
func (b *Bus) Inbound() *Route            { return b.inbound }

// Delivered returns how many passengers left the bus at their destination
// and the sum of their total waits.
func (b *Bus) Delivered() (count, totalWait int) {
	return b.delivered, b.deliveredWait
}

// Passengers returns the manifest. Read-only.
func (b *Bus) Passengers() []*Passenger { return b.manifest }

// IsTripComplete reports whether the bus has served the last stop of its
// inbound route. Both routes are then at their end. A bus that cannot move
// never completes.
func (b *Bus) IsTripComplete() bool {
	return b.finished
}

func (b *Bus) activeRoute() *Route {
	if b.onInbound {
		return b.inbound
	}
	return b.outbound
}

// LoadPassenger boards p if the manifest is below capacity.
func (b *Bus) LoadPassenger(p *Passenger) bool {
	manifest, ok := b.loader.LoadPassenger(p, b.capacity, b.manifest)
	b.manifest = manifest
	return ok
}

// Move advances the bus by one tick's worth of distance and serves the
// stop it reaches, if any. It returns false without changing anything when
// the bus cannot move: non-positive speed or a completed trip.
func (b *Bus) Move() bool {
	if b.speed <= 0 || b.IsTripComplete() {
		return false
	}
	route := b.activeRoute()
	b.remaining -= b.speed
	if b.remaining > 0 {
		route.Travel(b.speed)
	} else {
		b.arrive(route)
	}

	if b.IsTripComplete() && !b.reported {
		b.reported = true
		b.writeTripReport()
	}
	b.UpdateBusData()
	b.NotifyObservers(b.data)
	return true
}

// arrive serves nextStop and picks the next target.
func (b *Bus) arrive(route *Route) {
	if route.NextStop() == b.nextStop {
		route.ToNextStop()
	}
	stop := b.nextStop
	before := len(b.manifest)

	kept, departed := b.unloader.UnloadPassengers(b.manifest, stop)
	b.manifest = kept
	for _, p := range departed {
		b.delivered++
		b.deliveredWait += p.TotalWait()
	}
	boarded := stop.LoadPassengers(b)
	logrus.Debugf("[bus %s] at stop %d: %d off, %d on", b.name, stop.ID(), len(departed), boarded)

	if len(departed) > 0 || boarded > 0 || len(b.manifest) != before {
		b.UpdateBusData()
		NewIntensityDecorator(b).UpdateBusData()
	}

	if d, ok := route.NextStopDistance(); ok {
		b.remaining = d
		b.nextStop = route.NextStop()
		return
	}
	b.remaining = 0
	if route == b.inbound {
		b.finished = true
		return
	}
	b.onInbound = true
	b.nextStop = b.inbound.PrevStop()
	NewGoldDecorator(b).UpdateBusData()
	logrus.Debugf("[bus %s] outbound finished, heading inbound", b.name)
}

func (b *Bus) writeTripReport() {
	var sb strings.Builder
	b.Report(&sb)
	if err := b.log.Write(BusDataFile, ReportFields(sb.String())); err != nil {
		logrus.Warnf("writing trip record for bus %s: %v", b.name, err)
	}
}

// Update ages every passenger aboard and then moves the bus.
func (b *Bus) Update() bool {
	for _, p := range b.manifest {
		p.Update()
	}
	return b.Move()
}

// UpdateBusData refreshes id, position, passenger count and capacity in the
// snapshot. Color is left to the decorators.
func (b *Bus) UpdateBusData() {
	b.data.ID = b.name
	b.data.Position = b.position()
	b.data.NumPassengers = len(b.manifest)
	b.data.Capacity = b.capacity
}

// position interpolates between the active route's current stop and
// nextStop by the fraction of the segment travelled.
func (b *Bus) position() Position {
	route := b.activeRoute()
	from := route.PrevStop()
	if b.nextStop == nil || b.nextStop == from {
		return from.Position()
	}
	seg, ok := route.NextStopDistance()
	if !ok || seg <= 0 {
		return from.Position()
	}
	frac := min(1, max(0, route.DistanceTravelled()/seg))
	p, q := from.Position(), b.nextStop.Position()
	return Position{
		X: p.X + (q.X-p.X)*frac,
		Y: p.Y + (q.Y-p.Y)*frac,
	}
}

// GetBusData returns the most recent snapshot.
func (b *Bus) GetBusData() BusData {
	return b.data
}

func (b *Bus) SetColor(red, green, blue int) {
	b.data.Color.Red = red
	b.data.Color.Green = green
	b.data.Color.Blue = blue
}

func (b *Bus) SetIntensity(alpha int) {
	b.data.Color.Alpha = alpha
}

// Report writes the bus state and every passenger aboard.
func (b *Bus) Report(w io.Writer) {
	fmt.Fprintf(w, "Name: %s\n", b.name)
	fmt.Fprintf(w, "Type: %s\n", b.busType)
	fmt.Fprintf(w, "Speed: %g\n", b.speed)
	fmt.Fprintf(w, "Capacity: %d\n", b.capacity)
	fmt.Fprintf(w, "Distance to next stop: %g\n", b.remaining)
	fmt.Fprintf(w, "\tNum passengers: %d\n", len(b.manifest))
	for _, p := range b.manifest {
		p.Report(w)
	}
}
