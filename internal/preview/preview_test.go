package preview

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/greyhollow/delve/internal/catalog"
	"github.com/greyhollow/delve/internal/config"
	"github.com/greyhollow/delve/internal/gen"
	"github.com/greyhollow/delve/internal/spawn"
	"github.com/greyhollow/delve/internal/zone"
)

type fakeEntity struct{ id string }

func (e *fakeEntity) EntityID() string { return e.id }

type fakeFactory struct{}

func (f *fakeFactory) Spawn(d spawn.Descriptor, team *spawn.Team) (spawn.Entity, error) {
	return &fakeEntity{id: d.ID}, nil
}

func testServer(t *testing.T) *Server {
	t.Helper()
	z := &zone.Zone{
		ID:   "mossy-depths",
		Seed: 42,
		Segments: []*zone.Segment{{
			Name:       "upper-caves",
			FloorCount: 3,
			Width:      32,
			Height:     24,
			BaseSteps: []gen.Step{
				gen.RoomCarveStep{
					RoomCount:  [2]int{4, 5},
					RoomWidth:  [2]int{4, 7},
					RoomHeight: [2]int{3, 5},
				},
			},
			MobTable: &spawn.Table{Entries: []spawn.Entry{
				{Weight: 1, Spawn: spawn.Descriptor{ID: "cave-rat", Kind: spawn.KindMob, Level: 1}},
			}},
			ItemTable: &spawn.Table{},
		}},
	}
	o := zone.NewOrchestrator(z, catalog.NewMemory(), &fakeFactory{})
	return NewServer(config.PreviewConfig{AllowedOrigins: []string{"*"}}, map[string]*zone.Orchestrator{"mossy-depths": o})
}

func TestHandleFloor(t *testing.T) {
	ts := httptest.NewServer(testServer(t).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/floor?zone=mossy-depths&segment=0&floor=1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var view FloorView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode floor view: %v", err)
	}
	if view.Zone != "mossy-depths" || view.Floor != 1 {
		t.Errorf("view identifies %s floor %d", view.Zone, view.Floor)
	}
	if len(view.Tiles) != view.Height {
		t.Errorf("got %d tile rows for height %d", len(view.Tiles), view.Height)
	}
	if len(view.Rooms) < 4 {
		t.Errorf("got %d rooms", len(view.Rooms))
	}
	open := false
	for _, row := range view.Tiles {
		if strings.ContainsRune(row, '.') {
			open = true
		}
	}
	if !open {
		t.Error("rendered floor has no open tiles")
	}
}

func TestHandleFloorUnknownZone(t *testing.T) {
	ts := httptest.NewServer(testServer(t).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/floor?zone=nowhere&floor=0")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHandleZones(t *testing.T) {
	ts := httptest.NewServer(testServer(t).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/zones")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var zones []struct {
		ID       string `json:"id"`
		Segments []int  `json:"segment_floors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&zones); err != nil {
		t.Fatal(err)
	}
	if len(zones) != 1 || zones[0].ID != "mossy-depths" {
		t.Fatalf("zones = %+v", zones)
	}
	if len(zones[0].Segments) != 1 || zones[0].Segments[0] != 3 {
		t.Errorf("segment floors = %v", zones[0].Segments)
	}
}

func TestWebSocketFloorStream(t *testing.T) {
	ts := httptest.NewServer(testServer(t).Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{"zone": "mossy-depths", "segment": 0, "floor": 2}); err != nil {
		t.Fatal(err)
	}
	var view FloorView
	if err := conn.ReadJSON(&view); err != nil {
		t.Fatalf("failed to read floor view: %v", err)
	}
	if view.Floor != 2 {
		t.Errorf("floor = %d, want 2", view.Floor)
	}

	// Unknown zones produce an error message, not a dropped connection.
	if err := conn.WriteJSON(map[string]any{"zone": "nowhere", "floor": 0}); err != nil {
		t.Fatal(err)
	}
	var werr struct {
		Error string `json:"error"`
	}
	if err := conn.ReadJSON(&werr); err != nil {
		t.Fatal(err)
	}
	if werr.Error == "" {
		t.Error("expected error message for unknown zone")
	}
}

func TestBuildFloorViewDeterministic(t *testing.T) {
	s := testServer(t)
	o := s.orchestrators["mossy-depths"]

	a, err := o.GenerateFloor(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := o.GenerateFloor(0, 0)
	if err != nil {
		t.Fatal(err)
	}

	av, _ := json.Marshal(BuildFloorView(a))
	bv, _ := json.Marshal(BuildFloorView(b))
	if string(av) != string(bv) {
		t.Error("same floor rendered two different views")
	}
}
