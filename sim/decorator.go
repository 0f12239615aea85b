package sim

// Display colors applied by the bus decorators.
var (
	ColorMaroon = Color{Red: 196, Green: 34, Blue: 74, Alpha: MaxIntensity}
	ColorGold   = Color{Red: 206, Green: 163, Blue: 53, Alpha: MaxIntensity}
)

const (
	// MaxIntensity is the fully opaque alpha value.
	MaxIntensity = 255
	// baseIntensity and intensityPerPassenger shape the load-driven alpha.
	baseIntensity         = 100
	intensityPerPassenger = 15
)

// Decoratable is the capability set shared by Bus and its decorators.
// UpdateBusData on a decorator applies that decorator's adjustment; on a
// Bus it refreshes the snapshot from live state.
type Decoratable interface {
	SetColor(red, green, blue int)
	SetIntensity(alpha int)
	UpdateBusData()
	NumPassengers() int
}

// BusDecorator forwards every call to the wrapped component. Its
// UpdateBusData applies the default look: maroon at full intensity.
type BusDecorator struct {
	inner Decoratable
}

// NewBusDecorator wraps a bus or another decorator.
func NewBusDecorator(inner Decoratable) *BusDecorator {
	return &BusDecorator{inner: inner}
}

func (d *BusDecorator) SetColor(red, green, blue int) { d.inner.SetColor(red, green, blue) }
func (d *BusDecorator) SetIntensity(alpha int)        { d.inner.SetIntensity(alpha) }
func (d *BusDecorator) NumPassengers() int            { return d.inner.NumPassengers() }

// UpdateBusData applies the outbound color at full intensity.
func (d *BusDecorator) UpdateBusData() {
	NewMaroonDecorator(d.inner).UpdateBusData()
	d.SetIntensity(MaxIntensity)
}

// MaroonDecorator paints the bus maroon, the outbound color.
type MaroonDecorator struct {
	BusDecorator
}

func NewMaroonDecorator(inner Decoratable) *MaroonDecorator {
	return &MaroonDecorator{BusDecorator{inner: inner}}
}

func (d *MaroonDecorator) UpdateBusData() {
	d.SetColor(ColorMaroon.Red, ColorMaroon.Green, ColorMaroon.Blue)
}

// GoldDecorator paints the bus gold, the inbound color.
type GoldDecorator struct {
	BusDecorator
}

func NewGoldDecorator(inner Decoratable) *GoldDecorator {
	return &GoldDecorator{BusDecorator{inner: inner}}
}

func (d *GoldDecorator) UpdateBusData() {
	d.SetColor(ColorGold.Red, ColorGold.Green, ColorGold.Blue)
}

// IntensityDecorator sets alpha from the live passenger count:
// min(255, 100 + 15*passengers).
type IntensityDecorator struct {
	BusDecorator
}

func NewIntensityDecorator(inner Decoratable) *IntensityDecorator {
	return &IntensityDecorator{BusDecorator{inner: inner}}
}

func (d *IntensityDecorator) UpdateBusData() {
	d.SetIntensity(LoadIntensity(d.NumPassengers()))
}

// LoadIntensity maps a passenger count to a display alpha.
func LoadIntensity(passengers int) int {
	return min(MaxIntensity, baseIntensity+intensityPerPassenger*passengers)
}
