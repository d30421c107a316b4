// Package ws serves the frame preview stream and reading ingestion over HTTP.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/aqmatrix/frames"
	"github.com/coreman2200/aqmatrix/internal/monitor"
)

const writeWait = 200 * time.Millisecond

type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
	cbor bool
}

func (c *client) send(s monitor.Snapshot) error {
	var (
		b   []byte
		err error
		typ = websocket.TextMessage
	)
	if c.cbor {
		b, err = cbor.Marshal(s)
		typ = websocket.BinaryMessage
	} else {
		b, err = json.Marshal(s)
	}
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(typ, b)
}

// Hub fans snapshots out to preview clients and feeds posted readings into
// an optional push source.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*client]bool
	last      monitor.Snapshot
	hasLast   bool
	push      *monitor.Push
	startTime time.Time
	upgrader  websocket.Upgrader
}

// NewHub returns a Hub. push may be nil, in which case POST /reading is
// unavailable.
func NewHub(push *monitor.Push) *Hub {
	return &Hub{
		clients:   map[*client]bool{},
		push:      push,
		startTime: time.Now(),
		upgrader:  websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Routes registers every endpoint on a new mux.
func (h *Hub) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", h.HandleFramesWS)
	mux.HandleFunc("GET /frames", h.HandleFrames)
	mux.HandleFunc("GET /frames/{category}", h.HandleFrame)
	mux.HandleFunc("POST /reading", h.HandleReading)
	mux.HandleFunc("GET /health", h.HandleHealth)
	return mux
}

func (h *Hub) Publish(s monitor.Snapshot) {
	h.mu.Lock()
	h.last = s
	h.hasLast = true
	cs := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		cs = append(cs, c)
	}
	h.mu.Unlock()

	for _, c := range cs {
		if err := c.send(s); err != nil {
			log.Debug().Err(err).Msg("write snapshot")
		}
	}
}

// Clients returns the number of connected preview clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleFramesWS streams snapshots; ?enc=cbor switches to binary CBOR messages.
func (h *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn, cbor: r.URL.Query().Get("enc") == "cbor"}

	h.mu.Lock()
	h.clients[c] = true
	last, ok := h.last, h.hasLast
	h.mu.Unlock()
	if ok {
		_ = c.send(last)
	}

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, c)
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

type frameView struct {
	Category frames.Category `json:"category"`
	Words    frames.Frame    `json:"words"`
	Rows     []string        `json:"rows"`
}

func view(c frames.Category, f frames.Frame) frameView {
	return frameView{Category: c, Words: f, Rows: f.Lines()}
}

func (h *Hub) HandleFrames(w http.ResponseWriter, r *http.Request) {
	cs := frames.Categories()
	out := make([]frameView, 0, len(cs))
	for _, c := range cs {
		out = append(out, view(c, frames.MustLookup(c)))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Hub) HandleFrame(w http.ResponseWriter, r *http.Request) {
	c, err := frames.ParseCategory(r.PathValue("category"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	f, err := frames.Lookup(c)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, view(c, f))
}

type readingReq struct {
	Category *string  `json:"category,omitempty"`
	AQI      *float64 `json:"aqi,omitempty"`
}

// HandleReading accepts {"category": "..."} or {"aqi": n}.
func (h *Hub) HandleReading(w http.ResponseWriter, r *http.Request) {
	if h.push == nil {
		writeError(w, http.StatusServiceUnavailable, errNoPush)
		return
	}
	var req readingReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<12)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var c frames.Category
	switch {
	case req.Category != nil:
		parsed, err := frames.ParseCategory(*req.Category)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := h.push.Set(parsed); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		c = parsed
	case req.AQI != nil:
		c = h.push.SetAQI(*req.AQI)
	default:
		writeError(w, http.StatusBadRequest, errEmptyReading)
		return
	}
	log.Info().Str("category", string(c)).Msg("reading accepted")
	writeJSON(w, http.StatusAccepted, map[string]any{"category": c})
}

func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	resp := map[string]any{
		"frame_id": h.last.FrameID,
		"category": h.last.Category,
		"uptime_s": time.Since(h.startTime).Seconds(),
		"clients":  len(h.clients),
	}
	writeJSON(w, http.StatusOK, resp)
}
