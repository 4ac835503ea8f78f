// Package ws serves the live preview, the config control channel and the
// diagnostics stream over websockets.
package ws

import (
	"bytes"
	"encoding/json"
	"image"
	"net/http"
	"sync"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-3angles/internal/config"
	diag "github.com/coreman2200/funtimes-3angles/internal/diagnostics"
)

const writeWait = 200 * time.Millisecond

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Hub fans frames out to preview clients and feeds control messages back to
// the face. It doubles as a frame driver.
type Hub struct {
	mu          sync.Mutex
	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool
	frameID     uint64
	startTime   time.Time
	log         zerolog.Logger

	// OnUpdate receives each decoded config update and reports whether it
	// was accepted. It must not block.
	OnUpdate func(config.Update) bool
	// Status adds fields to /health.
	Status func() map[string]any
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
		startTime:   time.Now(),
		log:         log,
	}
}

// Routes mounts the hub's endpoints on a new mux.
func (h *Hub) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.HandleFramesWS)
	mux.HandleFunc("/diag", h.HandleDiagWS)
	mux.HandleFunc("/control", h.HandleControlWS)
	mux.HandleFunc("/health", h.HandleHealth)
	return mux
}

func (h *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.track(h.clients, conn)
}

func (h *Hub) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.track(h.diagClients, conn)
}

// track registers conn and drains it until the peer goes away.
func (h *Hub) track(set map[*websocket.Conn]bool, conn *websocket.Conn) {
	h.mu.Lock()
	set[conn] = true
	h.mu.Unlock()
	go func() {
		defer func() {
			h.mu.Lock()
			delete(set, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

type controlReply struct {
	OK      bool            `json:"ok"`
	Applied []config.Update `json:"applied,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// HandleControlWS accepts companion messages such as
// {"COLOR_KEY":65535,"BG_KEY":0} and answers each with a controlReply.
func (h *Hub) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		reply := h.applyControl(data)
		b, _ := json.Marshal(reply)
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			return
		}
	}
}

func (h *Hub) applyControl(data []byte) controlReply {
	ups, err := config.DecodeUpdates(data)
	if err != nil {
		h.log.Warn().Err(err).Bytes("payload", data).Msg("control message dropped")
		h.PushDiag(diag.Malformed(data, err))
		return controlReply{Error: err.Error()}
	}
	var dropped []config.Update
	for _, u := range ups {
		if h.OnUpdate != nil && !h.OnUpdate(u) {
			dropped = append(dropped, u)
		}
	}
	if len(dropped) > 0 {
		h.log.Warn().Int("dropped", len(dropped)).Msg("control updates dropped")
		h.PushDiag(diag.Dropped(len(ups), len(dropped)))
		return controlReply{Applied: without(ups, dropped), Error: "update queue full; resend"}
	}
	h.PushDiag(diag.Diagnostic{
		Severity: diag.Info,
		Code:     diag.ConfigApplied,
		Summary:  "Config update queued",
		Evidence: map[string]any{"updates": len(ups)},
	})
	return controlReply{OK: true, Applied: ups}
}

func without(ups, drop []config.Update) []config.Update {
	var out []config.Update
next:
	for _, u := range ups {
		for _, d := range drop {
			if u == d {
				continue next
			}
		}
		out = append(out, u)
	}
	return out
}

func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	resp := map[string]any{
		"frame_id": h.frameID,
		"uptime_s": time.Since(h.startTime).Seconds(),
		"clients":  len(h.clients),
	}
	h.mu.Unlock()
	if h.Status != nil {
		for k, v := range h.Status() {
			resp[k] = v
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Write broadcasts img to preview clients as a lossless WebP binary message.
// Frames are not encoded while nobody is watching.
func (h *Hub) Write(img *image.RGBA) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frameID++
	if len(h.clients) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, img, nil); err != nil {
		return err
	}
	for c := range h.clients {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.BinaryMessage, buf.Bytes()); err != nil {
			h.log.Debug().Err(err).Msg("write frame")
		}
	}
	return nil
}

// PushDiag sends d to every diagnostics client.
func (h *Hub) PushDiag(d diag.Diagnostic) {
	b, _ := json.Marshal(d)
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.diagClients {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.WriteMessage(websocket.TextMessage, b)
	}
}

// Close drops every streaming client.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.Close()
	}
	for c := range h.diagClients {
		c.Close()
	}
	return nil
}
