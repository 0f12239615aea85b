// Snapshot records produced by Bus, Stop and Route for observers and the
// visualization layer. They are plain values; holding one never aliases
// simulator state.

package sim

// Position is a point on the map. X is longitude, Y is latitude.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Color is an RGBA display color.
type Color struct {
	Red   int `json:"red"`
	Green int `json:"green"`
	Blue  int `json:"blue"`
	Alpha int `json:"alpha"`
}

// BusData is the externally visible state of a bus.
type BusData struct {
	ID            string   `json:"id"`
	Position      Position `json:"position"`
	NumPassengers int      `json:"numPassengers"`
	Capacity      int      `json:"capacity"`
	Color         Color    `json:"color"`
}

// StopData is the externally visible state of a stop.
type StopData struct {
	ID        string   `json:"id"`
	Position  Position `json:"position"`
	NumPeople int      `json:"numPeople"`
}

// RouteData is the externally visible state of a route.
type RouteData struct {
	ID    string     `json:"id"`
	Stops []StopData `json:"stops"`
}
