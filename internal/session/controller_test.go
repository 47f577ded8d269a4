package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uzhroute/uzhroute/internal/history"
	"github.com/uzhroute/uzhroute/internal/routing"
	"github.com/uzhroute/uzhroute/pkg/config"
	"github.com/uzhroute/uzhroute/pkg/websocket"
)

type plannerReply struct {
	route *routing.Route
	err   error
}

type plannerCall struct {
	query routing.Query
	reply chan plannerReply
}

// stubPlanner parks every Route call until the test releases it, so tests
// control the order in which concurrent requests resolve.
type stubPlanner struct {
	calls chan *plannerCall
}

func newStubPlanner() *stubPlanner {
	return &stubPlanner{calls: make(chan *plannerCall, 16)}
}

func (p *stubPlanner) Route(_ context.Context, q routing.Query) (*routing.Route, error) {
	call := &plannerCall{query: q, reply: make(chan plannerReply, 1)}
	p.calls <- call
	r := <-call.reply
	return r.route, r.err
}

func (p *stubPlanner) nextCall(t *testing.T) *plannerCall {
	t.Helper()
	select {
	case call := <-p.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for planner call")
		return nil
	}
}

func (p *stubPlanner) expectNoCall(t *testing.T, within time.Duration) {
	t.Helper()
	select {
	case call := <-p.calls:
		t.Fatalf("unexpected planner call: %+v", call.query)
	case <-time.After(within):
	}
}

type frameSink struct {
	frames chan *websocket.Message
}

func newFrameSink() *frameSink {
	return &frameSink{frames: make(chan *websocket.Message, 64)}
}

func (s *frameSink) SendToSession(_ string, msg *websocket.Message) {
	s.frames <- msg
}

func (s *frameSink) next(t *testing.T) *websocket.Message {
	t.Helper()
	select {
	case msg := <-s.frames:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
		return nil
	}
}

func (s *frameSink) expectNone(t *testing.T, within time.Duration) {
	t.Helper()
	select {
	case msg := <-s.frames:
		t.Fatalf("unexpected frame: %s %+v", msg.Type, msg.Data)
	case <-time.After(within):
	}
}

type recordedRoute struct {
	clientID uuid.UUID
	route    *history.RecentRoute
}

type stubRecorder struct {
	records chan recordedRoute
}

func newStubRecorder() *stubRecorder {
	return &stubRecorder{records: make(chan recordedRoute, 16)}
}

func (r *stubRecorder) Record(_ context.Context, clientID uuid.UUID, route *history.RecentRoute) error {
	r.records <- recordedRoute{clientID: clientID, route: route}
	return nil
}

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{DragDebounceMillis: 20, KeepRouteOnError: true}
}

func routeWithDistance(distance float64) *routing.Route {
	return &routing.Route{
		Provider:        routing.ProviderOSRM,
		Profile:         routing.ProfileCar,
		DistanceMeters:  distance,
		DurationSeconds: distance / 10,
		Distance:        distance,
		Duration:        distance / 10,
	}
}

func pointMsg(sessionID string, lat, lon float64) *websocket.Message {
	return &websocket.Message{
		SessionID: sessionID,
		Data:      map[string]interface{}{"lat": lat, "lon": lon},
	}
}

func TestControllerSingleEndpointDoesNotRequest(t *testing.T) {
	planner := newStubPlanner()
	sink := newFrameSink()
	ctrl := NewController(planner, nil, sink, testSessionConfig())

	sid := uuid.New().String()
	ctrl.handleSetStart(nil, pointMsg(sid, 48.62, 22.29))

	planner.expectNoCall(t, 50*time.Millisecond)
	sink.expectNone(t, 50*time.Millisecond)
}

func TestControllerBothEndpointsRequestAndPush(t *testing.T) {
	planner := newStubPlanner()
	sink := newFrameSink()
	ctrl := NewController(planner, nil, sink, testSessionConfig())

	sid := uuid.New().String()
	ctrl.handleSetStart(nil, pointMsg(sid, 48.62, 22.29))
	ctrl.handleSetEnd(nil, pointMsg(sid, 48.63, 22.30))

	call := planner.nextCall(t)
	assert.Equal(t, routing.GeoPoint{Lat: 48.62, Lon: 22.29}, call.query.Start)
	assert.Equal(t, routing.GeoPoint{Lat: 48.63, Lon: 22.30}, call.query.End)
	assert.Equal(t, routing.ProfileCar, call.query.Profile)

	call.reply <- plannerReply{route: routeWithDistance(1500)}

	frame := sink.next(t)
	require.Equal(t, "route", frame.Type)
	route, ok := frame.Data["route"].(*routing.Route)
	require.True(t, ok)
	assert.Equal(t, 1500.0, route.DistanceMeters)
}

func TestControllerStaleResultDiscarded(t *testing.T) {
	planner := newStubPlanner()
	sink := newFrameSink()
	ctrl := NewController(planner, nil, sink, testSessionConfig())

	sid := uuid.New().String()
	ctrl.handleSetStart(nil, pointMsg(sid, 48.62, 22.29))
	ctrl.handleSetEnd(nil, pointMsg(sid, 48.63, 22.30))
	first := planner.nextCall(t)

	ctrl.handleSetEnd(nil, pointMsg(sid, 48.64, 22.31))
	second := planner.nextCall(t)

	// The older request resolves after the newer one was issued: its
	// result must never reach the session.
	first.reply <- plannerReply{route: routeWithDistance(100)}
	second.reply <- plannerReply{route: routeWithDistance(200)}

	frame := sink.next(t)
	require.Equal(t, "route", frame.Type)
	route := frame.Data["route"].(*routing.Route)
	assert.Equal(t, 200.0, route.DistanceMeters)

	sink.expectNone(t, 50*time.Millisecond)
}

func TestControllerDragDebounce(t *testing.T) {
	planner := newStubPlanner()
	sink := newFrameSink()
	ctrl := NewController(planner, nil, sink, testSessionConfig())

	sid := uuid.New().String()
	ctrl.handleSetStart(nil, pointMsg(sid, 48.62, 22.29))

	ctrl.handleDragEnd(nil, pointMsg(sid, 48.630, 22.300))
	ctrl.handleDragEnd(nil, pointMsg(sid, 48.635, 22.305))
	ctrl.handleDragEnd(nil, pointMsg(sid, 48.640, 22.310))

	// Only the final drag position issues a request.
	call := planner.nextCall(t)
	assert.Equal(t, routing.GeoPoint{Lat: 48.640, Lon: 22.310}, call.query.End)
	planner.expectNoCall(t, 100*time.Millisecond)

	call.reply <- plannerReply{route: routeWithDistance(900)}
	frame := sink.next(t)
	assert.Equal(t, "route", frame.Type)
}

func TestControllerSetEndpointCancelsPendingDrag(t *testing.T) {
	planner := newStubPlanner()
	sink := newFrameSink()
	ctrl := NewController(planner, nil, sink, testSessionConfig())

	sid := uuid.New().String()
	ctrl.handleSetStart(nil, pointMsg(sid, 48.62, 22.29))
	ctrl.handleDragEnd(nil, pointMsg(sid, 48.630, 22.300))
	ctrl.handleSetEnd(nil, pointMsg(sid, 48.650, 22.320))

	call := planner.nextCall(t)
	assert.Equal(t, routing.GeoPoint{Lat: 48.650, Lon: 22.320}, call.query.End)
	call.reply <- plannerReply{route: routeWithDistance(700)}
	sink.next(t)

	// The debounced drag request was superseded and must not fire.
	planner.expectNoCall(t, 100*time.Millisecond)
}

func TestControllerClearPushesEmptyRoute(t *testing.T) {
	planner := newStubPlanner()
	sink := newFrameSink()
	ctrl := NewController(planner, nil, sink, testSessionConfig())

	sid := uuid.New().String()
	ctrl.handleSetStart(nil, pointMsg(sid, 48.62, 22.29))
	ctrl.handleSetEnd(nil, pointMsg(sid, 48.63, 22.30))
	call := planner.nextCall(t)

	ctrl.handleClear(nil, &websocket.Message{SessionID: sid, Data: map[string]interface{}{}})

	frame := sink.next(t)
	require.Equal(t, "route", frame.Type)
	assert.Nil(t, frame.Data["route"])

	// The in-flight result resolves after the clear and is discarded.
	call.reply <- plannerReply{route: routeWithDistance(500)}
	sink.expectNone(t, 50*time.Millisecond)
}

func TestControllerErrorKeepsRoute(t *testing.T) {
	planner := newStubPlanner()
	sink := newFrameSink()
	ctrl := NewController(planner, nil, sink, testSessionConfig())

	sid := uuid.New().String()
	ctrl.handleSetStart(nil, pointMsg(sid, 48.62, 22.29))
	ctrl.handleSetEnd(nil, pointMsg(sid, 48.63, 22.30))
	planner.nextCall(t).reply <- plannerReply{route: routeWithDistance(400)}
	require.Equal(t, "route", sink.next(t).Type)

	ctrl.handleSetEnd(nil, pointMsg(sid, 48.64, 22.31))
	planner.nextCall(t).reply <- plannerReply{err: errors.New("all providers down")}

	frame := sink.next(t)
	assert.Equal(t, "error", frame.Type)
	assert.NotEmpty(t, frame.Data["message"])

	// KeepRouteOnError leaves the previous route untouched.
	sink.expectNone(t, 50*time.Millisecond)
}

func TestControllerErrorClearsRouteWhenConfigured(t *testing.T) {
	planner := newStubPlanner()
	sink := newFrameSink()
	cfg := testSessionConfig()
	cfg.KeepRouteOnError = false
	ctrl := NewController(planner, nil, sink, cfg)

	sid := uuid.New().String()
	ctrl.handleSetStart(nil, pointMsg(sid, 48.62, 22.29))
	ctrl.handleSetEnd(nil, pointMsg(sid, 48.63, 22.30))
	planner.nextCall(t).reply <- plannerReply{route: routeWithDistance(400)}
	require.Equal(t, "route", sink.next(t).Type)

	ctrl.handleSetEnd(nil, pointMsg(sid, 48.64, 22.31))
	planner.nextCall(t).reply <- plannerReply{err: errors.New("all providers down")}

	assert.Equal(t, "error", sink.next(t).Type)

	frame := sink.next(t)
	require.Equal(t, "route", frame.Type)
	assert.Nil(t, frame.Data["route"])
}

func TestControllerWarningsPushNotice(t *testing.T) {
	planner := newStubPlanner()
	sink := newFrameSink()
	ctrl := NewController(planner, nil, sink, testSessionConfig())

	sid := uuid.New().String()
	ctrl.handleSetProfile(nil, &websocket.Message{SessionID: sid, Data: map[string]interface{}{"profile": "walk"}})
	ctrl.handleSetStart(nil, pointMsg(sid, 48.62, 22.29))
	ctrl.handleSetEnd(nil, pointMsg(sid, 48.63, 22.30))

	call := planner.nextCall(t)
	assert.Equal(t, routing.ProfileWalk, call.query.Profile)

	route := routeWithDistance(800)
	route.Warnings = []string{"Пішохідний профіль недоступний. Показано альтернативний маршрут."}
	call.reply <- plannerReply{route: route}

	require.Equal(t, "route", sink.next(t).Type)
	notice := sink.next(t)
	require.Equal(t, "notice", notice.Type)
	assert.Equal(t, route.Warnings[0], notice.Data["message"])
}

func TestControllerProfileChangeRecalculates(t *testing.T) {
	planner := newStubPlanner()
	sink := newFrameSink()
	ctrl := NewController(planner, nil, sink, testSessionConfig())

	sid := uuid.New().String()
	ctrl.handleSetStart(nil, pointMsg(sid, 48.62, 22.29))
	ctrl.handleSetEnd(nil, pointMsg(sid, 48.63, 22.30))
	planner.nextCall(t).reply <- plannerReply{route: routeWithDistance(400)}
	sink.next(t)

	ctrl.handleSetProfile(nil, &websocket.Message{SessionID: sid, Data: map[string]interface{}{"profile": "walking"}})
	call := planner.nextCall(t)
	assert.Equal(t, routing.ProfileWalk, call.query.Profile)

	// Re-sending the same profile is a no-op.
	call.reply <- plannerReply{route: routeWithDistance(450)}
	sink.next(t)
	ctrl.handleSetProfile(nil, &websocket.Message{SessionID: sid, Data: map[string]interface{}{"profile": "walk"}})
	planner.expectNoCall(t, 50*time.Millisecond)
}

func TestControllerRecordsHistoryOnSuccess(t *testing.T) {
	planner := newStubPlanner()
	sink := newFrameSink()
	recorder := newStubRecorder()
	ctrl := NewController(planner, recorder, sink, testSessionConfig())

	clientID := uuid.New()
	sid := clientID.String()
	ctrl.handleSetStart(nil, &websocket.Message{
		SessionID: sid,
		Data:      map[string]interface{}{"lat": 48.62, "lon": 22.29, "label": "Корзо"},
	})
	ctrl.handleSetEnd(nil, &websocket.Message{
		SessionID: sid,
		Data:      map[string]interface{}{"lat": 48.63, "lon": 22.30, "label": "Замок"},
	})

	planner.nextCall(t).reply <- plannerReply{route: routeWithDistance(1200)}
	sink.next(t)

	select {
	case rec := <-recorder.records:
		assert.Equal(t, clientID, rec.clientID)
		assert.Equal(t, "Корзо", rec.route.Start.Label)
		assert.Equal(t, "Замок", rec.route.End.Label)
		assert.Equal(t, "car", rec.route.Profile)
		assert.Equal(t, 1200.0, rec.route.DistanceMeters)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for history record")
	}
}

func TestControllerInvalidEndpointRejected(t *testing.T) {
	planner := newStubPlanner()
	sink := newFrameSink()
	ctrl := NewController(planner, nil, sink, testSessionConfig())

	sid := uuid.New().String()
	ctrl.handleSetStart(nil, &websocket.Message{
		SessionID: sid,
		Data:      map[string]interface{}{"lat": 123.0, "lon": 22.29},
	})

	frame := sink.next(t)
	assert.Equal(t, "error", frame.Type)
	planner.expectNoCall(t, 50*time.Millisecond)
}

func TestControllerForgetDropsState(t *testing.T) {
	planner := newStubPlanner()
	sink := newFrameSink()
	ctrl := NewController(planner, nil, sink, testSessionConfig())

	sid := uuid.New().String()
	ctrl.handleSetStart(nil, pointMsg(sid, 48.62, 22.29))
	ctrl.handleSetEnd(nil, pointMsg(sid, 48.63, 22.30))
	call := planner.nextCall(t)

	ctrl.Forget(sid)
	call.reply <- plannerReply{route: routeWithDistance(300)}
	sink.expectNone(t, 50*time.Millisecond)

	// A fresh message after Forget starts from a blank session.
	ctrl.handleSetStart(nil, pointMsg(sid, 48.62, 22.29))
	planner.expectNoCall(t, 50*time.Millisecond)
}
