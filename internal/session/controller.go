package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uzhroute/uzhroute/internal/history"
	"github.com/uzhroute/uzhroute/internal/routing"
	"github.com/uzhroute/uzhroute/pkg/async"
	"github.com/uzhroute/uzhroute/pkg/config"
	"github.com/uzhroute/uzhroute/pkg/logger"
	"github.com/uzhroute/uzhroute/pkg/websocket"
)

// Inbound message types accepted on the route session socket.
const (
	msgSetStart   = "set_start"
	msgSetEnd     = "set_end"
	msgSetProfile = "set_profile"
	msgDragStart  = "drag_start"
	msgDragEnd    = "drag_end"
	msgClear      = "clear"
)

// Outbound frame types pushed to the session.
const (
	frameRoute  = "route"
	frameNotice = "notice"
	frameError  = "error"
)

const errRouteFailed = "Не вдалося побудувати маршрут. Спробуйте пізніше."

type routePlanner interface {
	Route(ctx context.Context, q routing.Query) (*routing.Route, error)
}

type historyRecorder interface {
	Record(ctx context.Context, clientID uuid.UUID, route *history.RecentRoute) error
}

type sender interface {
	SendToSession(sessionID string, msg *websocket.Message)
}

// endpoint is a picked or dragged map point with an optional display label.
type endpoint struct {
	Lat   float64
	Lon   float64
	Label string
}

// state is the mutable route-planning state of one websocket session.
// seq tags every planner call at issue time; a result is applied only if
// its tag still matches, so a slow response can never overwrite the
// outcome of a request issued after it.
type state struct {
	mu        sync.Mutex
	start     *endpoint
	end       *endpoint
	profile   routing.Profile
	seq       uint64
	hasRoute  bool
	dragTimer *time.Timer
}

// Controller drives per-session route state over the websocket hub.
// Endpoint changes recompute the route; drag updates are coalesced with a
// trailing debounce so only the final position of a drag issues a request.
type Controller struct {
	planner routePlanner
	history historyRecorder
	out     sender
	cfg     config.SessionConfig

	mu       sync.Mutex
	sessions map[string]*state
}

// NewController creates a session controller. history may be nil when
// recent-route recording is not wired.
func NewController(planner routePlanner, recorder historyRecorder, out sender, cfg config.SessionConfig) *Controller {
	return &Controller{
		planner:  planner,
		history:  recorder,
		out:      out,
		cfg:      cfg,
		sessions: make(map[string]*state),
	}
}

// Register attaches the controller's message handlers to the hub and hooks
// session cleanup on disconnect.
func (c *Controller) Register(hub *websocket.Hub) {
	hub.RegisterHandler(msgSetStart, c.handleSetStart)
	hub.RegisterHandler(msgSetEnd, c.handleSetEnd)
	hub.RegisterHandler(msgSetProfile, c.handleSetProfile)
	hub.RegisterHandler(msgDragStart, c.handleDragStart)
	hub.RegisterHandler(msgDragEnd, c.handleDragEnd)
	hub.RegisterHandler(msgClear, c.handleClear)
	hub.SetDisconnectHandler(c.Forget)
}

// Forget drops all state for a session.
func (c *Controller) Forget(sessionID string) {
	c.mu.Lock()
	st, ok := c.sessions[sessionID]
	if ok {
		delete(c.sessions, sessionID)
	}
	c.mu.Unlock()

	if ok {
		st.mu.Lock()
		st.stopDragTimerLocked()
		st.seq++ // discard in-flight results
		st.mu.Unlock()
	}
}

func (c *Controller) session(sessionID string) *state {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.sessions[sessionID]
	if !ok {
		st = &state{profile: routing.ProfileCar}
		c.sessions[sessionID] = st
	}
	return st
}

func (c *Controller) handleSetStart(_ *websocket.Client, msg *websocket.Message) {
	c.setEndpoint(msg, true)
}

func (c *Controller) handleSetEnd(_ *websocket.Client, msg *websocket.Message) {
	c.setEndpoint(msg, false)
}

func (c *Controller) setEndpoint(msg *websocket.Message, isStart bool) {
	ep, ok := parseEndpoint(msg.Data)
	if !ok {
		c.sendError(msg.SessionID, "Невірні координати точки.")
		return
	}

	st := c.session(msg.SessionID)
	st.mu.Lock()
	st.stopDragTimerLocked()
	if isStart {
		st.start = ep
	} else {
		st.end = ep
	}
	c.recalcLocked(msg.SessionID, st)
	st.mu.Unlock()
}

func (c *Controller) handleSetProfile(_ *websocket.Client, msg *websocket.Message) {
	raw, _ := msg.Data["profile"].(string)
	profile, err := routing.ParseProfile(raw)
	if err != nil {
		c.sendError(msg.SessionID, "Невідомий профіль маршруту.")
		return
	}

	st := c.session(msg.SessionID)
	st.mu.Lock()
	if st.profile != profile {
		st.profile = profile
		c.recalcLocked(msg.SessionID, st)
	}
	st.mu.Unlock()
}

func (c *Controller) handleDragStart(_ *websocket.Client, msg *websocket.Message) {
	c.dragEndpoint(msg, true)
}

func (c *Controller) handleDragEnd(_ *websocket.Client, msg *websocket.Message) {
	c.dragEndpoint(msg, false)
}

// dragEndpoint moves a marker without issuing a request. The recalculation
// fires only after a quiet period with no further drag events, so a
// continuous drag collapses into a single planner call at its final
// position.
func (c *Controller) dragEndpoint(msg *websocket.Message, isStart bool) {
	ep, ok := parseEndpoint(msg.Data)
	if !ok {
		return
	}

	sessionID := msg.SessionID
	st := c.session(sessionID)

	st.mu.Lock()
	defer st.mu.Unlock()

	if isStart {
		st.start = ep
	} else {
		st.end = ep
	}

	st.stopDragTimerLocked()
	st.dragTimer = time.AfterFunc(c.cfg.DragDebounce(), func() {
		st.mu.Lock()
		st.dragTimer = nil
		c.recalcLocked(sessionID, st)
		st.mu.Unlock()
	})
}

func (c *Controller) handleClear(_ *websocket.Client, msg *websocket.Message) {
	st := c.session(msg.SessionID)

	st.mu.Lock()
	st.stopDragTimerLocked()
	st.start = nil
	st.end = nil
	st.hasRoute = false
	st.seq++
	st.mu.Unlock()

	c.sendRoute(msg.SessionID, nil)
}

// recalcLocked issues a route request for the session's current endpoints.
// With an endpoint missing the route is cleared locally without touching
// the network. Callers hold st.mu.
func (c *Controller) recalcLocked(sessionID string, st *state) {
	st.seq++
	issued := st.seq

	if st.start == nil || st.end == nil {
		if st.hasRoute {
			st.hasRoute = false
			c.sendRoute(sessionID, nil)
		}
		return
	}

	q := routing.Query{
		Start:   routing.GeoPoint{Lat: st.start.Lat, Lon: st.start.Lon},
		End:     routing.GeoPoint{Lat: st.end.Lat, Lon: st.end.Lon},
		Profile: st.profile,
	}
	startLabel, endLabel := st.start.Label, st.end.Label

	async.Go(context.Background(), "session_route", func(ctx context.Context) {
		route, err := c.planner.Route(ctx, q)

		st.mu.Lock()
		defer st.mu.Unlock()

		if issued != st.seq {
			// A newer request supersedes this result.
			return
		}

		if err != nil {
			c.sendError(sessionID, errRouteFailed)
			if !c.cfg.KeepRouteOnError && st.hasRoute {
				st.hasRoute = false
				c.sendRoute(sessionID, nil)
			}
			return
		}

		st.hasRoute = true
		c.sendRoute(sessionID, route)
		for _, warning := range route.Warnings {
			c.sendNotice(sessionID, warning)
		}
		c.recordHistory(ctx, sessionID, q, route, startLabel, endLabel)
	})
}

func (c *Controller) recordHistory(ctx context.Context, sessionID string, q routing.Query, route *routing.Route, startLabel, endLabel string) {
	if c.history == nil {
		return
	}

	clientID, err := uuid.Parse(sessionID)
	if err != nil {
		return
	}

	entry := &history.RecentRoute{
		Start:           history.Endpoint{Lat: q.Start.Lat, Lon: q.Start.Lon, Label: startLabel},
		End:             history.Endpoint{Lat: q.End.Lat, Lon: q.End.Lon, Label: endLabel},
		Profile:         string(q.Profile),
		DistanceMeters:  route.DistanceMeters,
		DurationSeconds: route.DurationSeconds,
	}
	if err := c.history.Record(ctx, clientID, entry); err != nil {
		logger.WithContext(ctx).Debug("failed to record recent route",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}
}

func (c *Controller) sendRoute(sessionID string, route *routing.Route) {
	data := map[string]interface{}{"route": nil}
	if route != nil {
		data["route"] = route
	}
	c.send(sessionID, frameRoute, data)
}

func (c *Controller) sendNotice(sessionID, message string) {
	c.send(sessionID, frameNotice, map[string]interface{}{"message": message})
}

func (c *Controller) sendError(sessionID, message string) {
	c.send(sessionID, frameError, map[string]interface{}{"message": message})
}

func (c *Controller) send(sessionID, frameType string, data map[string]interface{}) {
	c.out.SendToSession(sessionID, &websocket.Message{
		Type:      frameType,
		SessionID: sessionID,
		Timestamp: time.Now(),
		Data:      data,
	})
}

func (st *state) stopDragTimerLocked() {
	if st.dragTimer != nil {
		st.dragTimer.Stop()
		st.dragTimer = nil
	}
}

func parseEndpoint(data map[string]interface{}) (*endpoint, bool) {
	lat, okLat := asFloat(data["lat"])
	lon, okLon := asFloat(data["lon"])
	if !okLat || !okLon {
		return nil, false
	}

	pt := routing.GeoPoint{Lat: lat, Lon: lon}
	if !pt.Valid() {
		return nil, false
	}

	label, _ := data["label"].(string)
	return &endpoint{Lat: lat, Lon: lon, Label: label}, true
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
