package dashboard

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/clockheat/clockheat/internal/event_bus"
	"github.com/clockheat/clockheat/internal/utils"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	streamBuffer = 16
	writeTimeout = 10 * time.Second
)

// StreamMessage is pushed to websocket clients on every pipeline transition.
type StreamMessage struct {
	Type            string `json:"type"`
	Generation      uint64 `json:"generation"`
	State           string `json:"state"`
	Loading         bool   `json:"loading"`
	WorkspaceId     string `json:"workspaceId,omitempty"`
	ProjectId       string `json:"projectId,omitempty"`
	From            string `json:"from,omitempty"`
	To              string `json:"to,omitempty"`
	Error           string `json:"error,omitempty"`
	NeedsCredential bool   `json:"needsCredential"`
}

type StreamHandler struct {
	pipeline *Pipeline
	bus      *event_bus.EventBus
	upgrader websocket.Upgrader
	open     atomic.Int64
}

func NewStreamHandler(pipeline *Pipeline, bus *event_bus.EventBus) *StreamHandler {
	return &StreamHandler{
		pipeline: pipeline,
		bus:      bus,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Stream godoc
// @Summary Live dashboard state
// @Description Websocket sending the current state first, then every state change
// @Tags Dashboard
// @Router /api/dashboard/ws [get]
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debugf("Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	clientId := uuid.NewString()
	log.Debugf("Dashboard stream %s connected", clientId)

	updates := make(chan StreamMessage, streamBuffer)
	unsubscribe := event_bus.SubscribeTyped[event_bus.DashboardStateChanged](h.bus, event_bus.DashboardStateChangedType,
		func(e event_bus.EventT[event_bus.DashboardStateChanged]) error {
			select {
			case updates <- EventToMessage(e.Data):
			default:
				log.Warnf("Dashboard stream %s is too slow, dropping state %s", clientId, e.Data.State)
			}
			return nil
		})
	log.Debugf("Dashboard streams open: %d", h.open.Add(1))
	defer func() {
		unsubscribe()
		h.open.Add(-1)
	}()

	closed := make(chan struct{})
	go readUntilClosed(conn, closed)

	if err := write(conn, SnapshotToMessage(h.pipeline.Snapshot())); err != nil {
		return
	}
	for {
		select {
		case <-closed:
			log.Debugf("Dashboard stream %s closed", clientId)
			return
		case <-r.Context().Done():
			return
		case msg := <-updates:
			if err := write(conn, msg); err != nil {
				log.Debugf("Dashboard stream %s write failed: %v", clientId, err)
				return
			}
		}
	}
}

// readUntilClosed drains client frames so that close and ping frames are processed.
func readUntilClosed(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debugf("Dashboard stream read failed: %v", err)
			}
			return
		}
	}
}

func write(conn *websocket.Conn, msg StreamMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

// openStreams is the number of connected clients still subscribed to the bus.
func (h *StreamHandler) openStreams() int64 {
	return h.open.Load()
}

func EventToMessage(e event_bus.DashboardStateChanged) StreamMessage {
	var state State
	if err := state.UnmarshalText([]byte(e.State)); err != nil {
		log.Warnf("Dashboard stream got %v", err)
	}
	return StreamMessage{
		Type:            "state",
		Generation:      e.Generation,
		State:           e.State,
		Loading:         state.Loading(),
		WorkspaceId:     e.WorkspaceId,
		ProjectId:       e.ProjectId,
		From:            utils.DayKey(e.From),
		To:              utils.DayKey(e.To),
		Error:           e.Error,
		NeedsCredential: e.NeedsCredential,
	}
}

func SnapshotToMessage(s Snapshot) StreamMessage {
	msg := StreamMessage{
		Type:            "state",
		Generation:      s.Generation,
		State:           s.State.String(),
		Loading:         s.State.Loading(),
		WorkspaceId:     s.Filters.WorkspaceId,
		ProjectId:       s.Filters.ProjectId,
		From:            utils.DayKey(s.Filters.From),
		To:              utils.DayKey(s.Filters.To),
		NeedsCredential: s.NeedsCredential,
	}
	if s.Err != nil {
		msg.Error = s.Err.Error()
	}
	return msg
}
