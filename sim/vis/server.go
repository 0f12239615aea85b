package vis

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/transit-sim/transit-sim/sim"
)

// Command is work for the simulation goroutine, run between ticks.
type Command func(s *sim.Simulator)

// DefaultCommandQueueSize bounds commands waiting for the next tick.
const DefaultCommandQueueSize = 64

// Options configures a Server.
type Options struct {
	AllowedOrigins   []string // CORS and WebSocket origins; empty or "*" allows all
	CommandQueueSize int      // 0 means DefaultCommandQueueSize
}

// Server exposes a Store over HTTP and WebSocket and forwards client
// commands to the simulation loop.
type Server struct {
	store    *Store
	hub      *Hub
	commands chan Command
	origins  []string
	upgrader websocket.Upgrader
	engine   *gin.Engine
}

// NewServer builds the gin engine and routes.
func NewServer(store *Store, opts Options) *Server {
	size := opts.CommandQueueSize
	if size <= 0 {
		size = DefaultCommandQueueSize
	}
	s := &Server{
		store:    store,
		hub:      NewHub(),
		commands: make(chan Command, size),
		origins:  opts.AllowedOrigins,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	api := r.Group("/api")
	api.GET("/routes", s.getRoutes)
	api.GET("/routes/geojson", s.getRouteGeoJSON)
	api.GET("/buses", s.getBuses)
	api.GET("/buses/retired", s.getRetired)
	api.GET("/buses/retired/:id", s.getRetiredBus)
	api.POST("/start", s.postStart)
	api.POST("/pause", s.postPause)
	r.GET("/ws", s.serveWS)
	s.engine = r
	return s
}

// Handler returns the HTTP handler with CORS applied.
func (s *Server) Handler() http.Handler {
	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(s.engine)
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub { return s.hub }

// Store returns the snapshot store.
func (s *Server) Store() *Store { return s.store }

// Commands returns the queue drained by the simulation loop.
func (s *Server) Commands() <-chan Command { return s.commands }

// Enqueue queues cmd for the next tick. Returns false if the queue is full.
func (s *Server) Enqueue(cmd Command) bool {
	select {
	case s.commands <- cmd:
		return true
	default:
		return false
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.origins) == 0 || slices.Contains(s.origins, "*") {
		return true
	}
	return slices.Contains(s.origins, origin)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("http request")
	}
}

func (s *Server) getRoutes(c *gin.Context) {
	c.JSON(http.StatusOK, routesMessage{Command: CmdUpdateRoutes, Routes: s.store.Routes()})
}

func (s *Server) getRouteGeoJSON(c *gin.Context) {
	b, err := RouteFeatures(s.store.Routes()).MarshalJSON()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/geo+json", b)
}

func (s *Server) getBuses(c *gin.Context) {
	c.JSON(http.StatusOK, bussesMessage{Command: CmdUpdateBusses, Busses: s.store.Buses()})
}

func (s *Server) getRetired(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"busses": s.store.Retired()})
}

func (s *Server) getRetiredBus(c *gin.Context) {
	data, ok := s.store.RetiredBus(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "bus not found"})
		return
	}
	c.JSON(http.StatusOK, data)
}

func (s *Server) postStart(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !s.Enqueue(startCommand(req, nil)) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "command queue full"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"command": CmdStart})
}

func (s *Server) postPause(c *gin.Context) {
	if !s.Enqueue(func(sm *sim.Simulator) { sm.TogglePause() }) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "command queue full"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"command": CmdPause})
}

// startCommand restarts the run. A nil timing list keeps the configured timings.
// reply, if set, receives a failure.
func startCommand(req Request, reply func(error)) Command {
	timings := req.TimeBetweenBusses
	if len(timings) == 0 {
		timings = nil
	}
	return func(sm *sim.Simulator) {
		if err := sm.Start(timings, req.NumTimeSteps); err != nil {
			logrus.Warnf("start command: %v", err)
			if reply != nil {
				reply(err)
			}
		}
	}
}

func (s *Server) serveWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}
	id := s.hub.Register(conn)
	defer s.hub.Unregister(id)

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).WithField("client", id).Warn("websocket read failed")
			}
			return
		}
		s.handle(id, req)
	}
}

// handle answers read-only commands from the store and queues the rest.
func (s *Server) handle(id uuid.UUID, req Request) {
	sendErr := func(err error) {
		s.hub.Send(id, textMessage{Command: CmdError, Text: err.Error()})
	}
	var cmd Command
	switch req.Command {
	case CmdInitRoutes:
		s.hub.Send(id, initRoutesMessage{Command: CmdInitRoutes, NumRoutes: len(s.store.Routes())})
	case CmdUpdateRoutes:
		s.hub.Send(id, routesMessage{Command: CmdUpdateRoutes, Routes: s.store.Routes()})
	case CmdUpdateBusses:
		s.hub.Send(id, bussesMessage{Command: CmdUpdateBusses, Busses: s.store.Buses()})
	case CmdStart:
		cmd = startCommand(req, sendErr)
	case CmdUpdate:
		cmd = func(sm *sim.Simulator) { sm.Update() }
	case CmdPause:
		cmd = func(sm *sim.Simulator) { sm.TogglePause() }
	case CmdListenBus:
		busID := req.ID
		cmd = func(sm *sim.Simulator) {
			sm.ClearBusListeners()
			obs := sim.ObserverFunc[sim.BusData](func(d sim.BusData) {
				s.hub.Send(id, textMessage{Command: CmdObserveBus, Text: busText(d)})
			})
			if !sm.AddBusListener(busID, obs) {
				s.hub.Send(id, textMessage{Command: CmdError, Text: "unknown bus " + busID})
			}
		}
	case CmdListenStop:
		stopID := req.ID
		cmd = func(sm *sim.Simulator) {
			sm.ClearStopListeners()
			obs := sim.ObserverFunc[sim.StopData](func(d sim.StopData) {
				s.hub.Send(id, textMessage{Command: CmdObserveStop, Text: stopText(d)})
			})
			if !sm.AddStopListener(stopID, obs) {
				s.hub.Send(id, textMessage{Command: CmdError, Text: "unknown stop " + stopID})
			}
		}
	default:
		s.hub.Send(id, textMessage{Command: CmdError, Text: "unknown command " + req.Command})
	}
	if cmd != nil && !s.Enqueue(cmd) {
		s.hub.Send(id, textMessage{Command: CmdError, Text: "command queue full"})
	}
}
