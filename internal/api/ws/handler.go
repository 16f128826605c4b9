package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/microshell/internal/domain/session"
	"github.com/GriffinCanCode/microshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/microshell/internal/shared/types"
	"github.com/GriffinCanCode/microshell/internal/shared/utils"
)

// Message types
const (
	TypeSnapshot   = "snapshot"
	TypeTransition = "transition"
	TypeNavigate   = "navigate"
	TypePing       = "ping"
	TypePong       = "pong"
	TypeError      = "error"
)

// Message is the envelope for both directions
type Message struct {
	Type       string            `json:"type"`
	From       string            `json:"from,omitempty"`
	To         string            `json:"to,omitempty"`
	Snapshot   *types.Snapshot   `json:"snapshot,omitempty"`
	Transition *types.Transition `json:"transition,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Options configures the stream handler
type Options struct {
	// Buffer is the per-connection snapshot queue; older snapshots are dropped
	Buffer       int
	PingInterval time.Duration
	WriteTimeout time.Duration
	// AllowedOrigins restricts upgrades; empty or "*" allows any origin
	AllowedOrigins []string
	Metrics        *monitoring.Metrics
	Logger         *zap.Logger
}

// Handler streams session snapshots over WebSocket
type Handler struct {
	sessions *session.Manager
	upgrader websocket.Upgrader
	opts     Options
}

// NewHandler creates a new WebSocket handler
func NewHandler(sessions *session.Manager, opts Options) *Handler {
	if opts.Buffer <= 0 {
		opts.Buffer = 8
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = 30 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Handler{
		sessions: sessions,
		upgrader: websocket.Upgrader{CheckOrigin: originChecker(opts.AllowedOrigins)},
		opts:     opts,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// Stream upgrades GET /sessions/:id/stream. The current snapshot is sent
// first, then every published snapshot. Clients may send navigate and
// ping messages.
func (h *Handler) Stream(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.opts.Logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	log := h.opts.Logger.With(
		zap.String("session_id", sess.ID),
		zap.String("conn_id", uuid.NewString()),
	)
	log.Debug("Stream opened")
	if h.opts.Metrics != nil {
		h.opts.Metrics.IncWSConnections()
		defer h.opts.Metrics.DecWSConnections()
	}

	snaps, cancel := sess.Shell.Subscribe(h.opts.Buffer)
	defer cancel()

	ctx, stop := context.WithCancel(c.Request.Context())
	defer stop()

	replies := make(chan Message, 4)
	go h.read(ctx, stop, conn, sess, replies, log)

	if err := h.write(conn, Message{Type: TypeSnapshot, Snapshot: sess.Shell.Snapshot()}); err != nil {
		return
	}

	ticker := time.NewTicker(h.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("Stream closed")
			return
		case snap, ok := <-snaps:
			if !ok {
				log.Debug("Session closed, ending stream")
				deadline := time.Now().Add(h.opts.WriteTimeout)
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"), deadline)
				return
			}
			if err := h.write(conn, Message{Type: TypeSnapshot, Snapshot: snap}); err != nil {
				log.Debug("Snapshot write failed", zap.Error(err))
				return
			}
		case msg := <-replies:
			if err := h.write(conn, msg); err != nil {
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(h.opts.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

// read handles client messages until the connection fails
func (h *Handler) read(ctx context.Context, stop context.CancelFunc, conn *websocket.Conn, sess *session.Session, replies chan<- Message, log *zap.Logger) {
	defer stop()
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				log.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}
		h.record("in", msg.Type)

		var reply Message
		switch msg.Type {
		case TypePing:
			reply = Message{Type: TypePong}
		case TypeNavigate:
			reply = h.navigate(sess, msg)
		default:
			reply = Message{Type: TypeError, Error: "unknown message type"}
		}

		select {
		case replies <- reply:
		case <-ctx.Done():
			return
		}
	}
}

func (h *Handler) navigate(sess *session.Session, msg Message) Message {
	if err := utils.ValidatePath(msg.To, "to"); err != nil {
		return Message{Type: TypeError, Error: err.Error()}
	}
	from := msg.From
	if from == "" {
		from = sess.Shell.Snapshot().Path
	}

	start := time.Now()
	tr, err := sess.Shell.Navigate(from, msg.To)
	if err != nil {
		return Message{Type: TypeError, Error: err.Error()}
	}
	if h.opts.Metrics != nil {
		h.opts.Metrics.RecordNavigation(tr.App, tr.Degraded != "", tr.Redirected, time.Since(start))
	}
	return Message{Type: TypeTransition, Transition: &tr}
}

func (h *Handler) write(conn *websocket.Conn, msg Message) error {
	_ = conn.SetWriteDeadline(time.Now().Add(h.opts.WriteTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		return err
	}
	h.record("out", msg.Type)
	return nil
}

func (h *Handler) record(direction, msgType string) {
	if h.opts.Metrics != nil {
		h.opts.Metrics.RecordWSMessage(direction, msgType)
	}
}
