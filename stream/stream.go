// Package stream broadcasts body states to websocket clients after every
// world step.
package stream

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/akmonengine/helm"
	"github.com/akmonengine/helm/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const (
	writeWait  = time.Second
	sendBuffer = 16
)

// BodyFrame is the wire form of one body. Rotation is (w, x, y, z).
type BodyFrame struct {
	Id              string     `json:"id"`
	Type            string     `json:"type"`
	Sleeping        bool       `json:"sleeping"`
	Position        [3]float64 `json:"position"`
	Rotation        [4]float64 `json:"rotation"`
	LinearVelocity  [3]float64 `json:"linearVelocity"`
	AngularVelocity [3]float64 `json:"angularVelocity"`
}

// Frame is sent once per step.
type Frame struct {
	Step   uint64      `json:"step"`
	Dt     float64     `json:"dt"`
	Bodies []BodyFrame `json:"bodies"`
}

// Snapshot reads the bodies into a frame. NaN and infinities become 0.
func Snapshot(step uint64, dt float64, bodies []*actor.RigidBody) Frame {
	frame := Frame{Step: step, Dt: finite(dt), Bodies: make([]BodyFrame, 0, len(bodies))}
	for _, body := range bodies {
		transform := body.Transform()
		frame.Bodies = append(frame.Bodies, BodyFrame{
			Id:              bodyId(body.Id),
			Type:            body.BodyType.String(),
			Sleeping:        body.IsSleeping,
			Position:        vec(transform.Position),
			Rotation:        quat(transform.Rotation),
			LinearVelocity:  vec(body.LinearVelocity()),
			AngularVelocity: vec(body.AngularVelocity()),
		})
	}
	return frame
}

func bodyId(id any) string {
	if id == nil {
		return ""
	}
	return fmt.Sprint(id)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func vec(v mgl64.Vec3) [3]float64 {
	return [3]float64{finite(v.X()), finite(v.Y()), finite(v.Z())}
}

func quat(q mgl64.Quat) [4]float64 {
	return [4]float64{finite(q.W), finite(q.X()), finite(q.Y()), finite(q.Z())}
}

// client owns one connection. Only its write loop writes to conn.
type client struct {
	conn *websocket.Conn
	send chan Frame
	done chan struct{}
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		send: make(chan Frame, sendBuffer),
		done: make(chan struct{}),
	}
}

func (c *client) writeJSON(v any) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// Hub is an http.Handler that upgrades requests to websockets and fans
// frames out to every connected client.
type Hub struct {
	Logger *slog.Logger

	upgrader  websocket.Upgrader
	clients   map[*client]struct{}
	clientsMu sync.Mutex
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		Logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*client]struct{}),
	}
}

// Attach broadcasts a snapshot of the world's bodies after each of its steps.
// The snapshot is taken on the stepping goroutine; the writes are not, so a
// slow client never holds up the step.
func (h *Hub) Attach(world *helm.World) {
	world.Events.Subscribe(helm.STEP_COMPLETED, func(event helm.Event) {
		step := event.(helm.StepEvent)
		h.Broadcast(Snapshot(step.Step, step.Dt, world.Bodies))
	})
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	return len(h.clients)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn("websocket upgrade failed", slog.String("remote", r.RemoteAddr), slog.Any("err", err))
		return
	}

	c := newClient(conn)
	h.clientsMu.Lock()
	h.clients[c] = struct{}{}
	h.clientsMu.Unlock()
	h.Logger.Info("stream client connected", slog.String("remote", r.RemoteAddr))

	defer h.drop(c)
	go h.writeLoop(c)

	// clients only listen; reading detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.Logger.Debug("stream client read failed", slog.String("remote", r.RemoteAddr), slog.Any("err", err))
			}
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	for {
		select {
		case <-c.done:
			return
		case frame := <-c.send:
			if err := c.writeJSON(frame); err != nil {
				h.Logger.Warn("stream write failed, dropping client",
					slog.String("remote", c.conn.RemoteAddr().String()),
					slog.Uint64("step", frame.Step),
					slog.Any("err", errors.Wrap(err, "write frame")),
				)
				h.drop(c)
				return
			}
		}
	}
}

// Broadcast queues the frame for every client without blocking. A client
// whose queue is full misses the frame.
func (h *Hub) Broadcast(frame Frame) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			h.Logger.Debug("stream client behind, frame skipped",
				slog.String("remote", c.conn.RemoteAddr().String()),
				slog.Uint64("step", frame.Step),
			)
		}
	}
}

func (h *Hub) drop(c *client) {
	h.clientsMu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.clientsMu.Unlock()

	if ok {
		close(c.done)
		c.conn.Close()
		h.Logger.Info("stream client disconnected", slog.String("remote", c.conn.RemoteAddr().String()))
	}
}
