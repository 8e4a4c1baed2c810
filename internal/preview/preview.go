// Package preview serves generated floors over HTTP and WebSocket so map
// authors can inspect zones without restarting the generator.
package preview

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/greyhollow/delve/internal/config"
	"github.com/greyhollow/delve/internal/gen"
	"github.com/greyhollow/delve/internal/logger"
	"github.com/greyhollow/delve/internal/zone"
)

// FloorView is the wire representation of one generated floor.
type FloorView struct {
	Zone    string     `json:"zone"`
	Segment int        `json:"segment"`
	Floor   int        `json:"floor"`
	Seed    int64      `json:"seed"`
	Width   int        `json:"width"`
	Height  int        `json:"height"`
	Tiles   []string   `json:"tiles"`
	Rooms   []RoomView `json:"rooms"`
	Teams   []TeamView `json:"teams"`
	Items   []ItemView `json:"items"`
}

// RoomView describes one room of a floor.
type RoomView struct {
	ID           int    `json:"id"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	W            int    `json:"w"`
	H            int    `json:"h"`
	Kind         string `json:"kind"`
	Sealed       bool   `json:"sealed,omitempty"`
	MonsterHouse bool   `json:"monster_house,omitempty"`
}

// TeamView describes one spawned team.
type TeamView struct {
	RoomID  int      `json:"room_id"`
	Members []string `json:"members"`
}

// ItemView describes one placed item.
type ItemView struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

// floorRequest is what WebSocket clients send to ask for a floor.
type floorRequest struct {
	Zone    string `json:"zone"`
	Segment int    `json:"segment"`
	Floor   int    `json:"floor"`
}

type wsError struct {
	Error string `json:"error"`
}

// Server serves floor previews for a set of zones.
type Server struct {
	cfg           config.PreviewConfig
	orchestrators map[string]*zone.Orchestrator
}

// NewServer creates a preview server over the given orchestrators, keyed by
// zone id.
func NewServer(cfg config.PreviewConfig, orchestrators map[string]*zone.Orchestrator) *Server {
	return &Server{cfg: cfg, orchestrators: orchestrators}
}

// BuildFloorView converts a finished generation context to its wire form.
func BuildFloorView(ctx *gen.Context) FloorView {
	view := FloorView{
		Zone:    ctx.ZoneID,
		Segment: ctx.Segment,
		Floor:   ctx.Floor,
		Seed:    ctx.Seed,
		Width:   ctx.Grid.Width(),
		Height:  ctx.Grid.Height(),
		Tiles:   strings.Split(strings.TrimRight(ctx.Grid.Render(), "\n"), "\n"),
	}
	for _, room := range ctx.Plan.Rooms {
		kind := "normal"
		if room.Kind == gen.RoomBoss {
			kind = "boss"
		}
		view.Rooms = append(view.Rooms, RoomView{
			ID:           room.ID,
			X:            room.Bounds.X,
			Y:            room.Bounds.Y,
			W:            room.Bounds.W,
			H:            room.Bounds.H,
			Kind:         kind,
			Sealed:       room.Sealed,
			MonsterHouse: room.MonsterHouse,
		})
	}
	for _, st := range ctx.Teams {
		tv := TeamView{RoomID: st.RoomID}
		for _, m := range st.Team.Members {
			tv.Members = append(tv.Members, m.EntityID())
		}
		view.Teams = append(view.Teams, tv)
	}
	for _, it := range ctx.Items {
		view.Items = append(view.Items, ItemView{ID: it.Item.ID, X: it.X, Y: it.Y})
	}
	return view
}

// Handler returns the HTTP handler serving the preview endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/zones", s.handleZones)
	mux.HandleFunc("/floor", s.handleFloor)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// ListenAndServe starts the preview server on the configured address.
func (s *Server) ListenAndServe() error {
	logger.Info("preview server listening", "address", s.cfg.Listen)
	return http.ListenAndServe(s.cfg.Listen, s.Handler())
}

func (s *Server) handleZones(w http.ResponseWriter, r *http.Request) {
	type zoneInfo struct {
		ID       string `json:"id"`
		Segments []int  `json:"segment_floors"`
	}
	var zones []zoneInfo
	for id, o := range s.orchestrators {
		info := zoneInfo{ID: id}
		for _, seg := range o.Zone().Segments {
			info.Segments = append(info.Segments, seg.FloorCount)
		}
		zones = append(zones, info)
	}
	writeJSON(w, zones)
}

func (s *Server) handleFloor(w http.ResponseWriter, r *http.Request) {
	zoneID := r.URL.Query().Get("zone")
	segment, _ := strconv.Atoi(r.URL.Query().Get("segment"))
	floor, err := strconv.Atoi(r.URL.Query().Get("floor"))
	if err != nil {
		http.Error(w, "floor parameter required", http.StatusBadRequest)
		return
	}

	o, ok := s.orchestrators[zoneID]
	if !ok {
		http.Error(w, "unknown zone", http.StatusNotFound)
		return
	}
	ctx, err := o.GenerateFloor(segment, floor)
	if err != nil {
		logger.Error("preview generation failed", "zone", zoneID, "segment", segment, "floor", floor, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, BuildFloorView(ctx))
}

// handleWebSocket streams floors on demand: the client sends one floor
// request per message and receives the floor view or an error back.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("preview connection rejected, origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("preview upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	if s.cfg.MaxMessageSize > 0 {
		conn.SetReadLimit(s.cfg.MaxMessageSize)
	}

	for {
		var req floorRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("preview client disconnected", "error", err)
			}
			return
		}

		o, ok := s.orchestrators[req.Zone]
		if !ok {
			if err := conn.WriteJSON(wsError{Error: "unknown zone " + req.Zone}); err != nil {
				return
			}
			continue
		}
		ctx, err := o.GenerateFloor(req.Segment, req.Floor)
		if err != nil {
			if err := conn.WriteJSON(wsError{Error: err.Error()}); err != nil {
				return
			}
			continue
		}
		if err := conn.WriteJSON(BuildFloorView(ctx)); err != nil {
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
