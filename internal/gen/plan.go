package gen

import (
	"github.com/greyhollow/delve/internal/grid"
	"github.com/greyhollow/delve/internal/rng"
)

// RoomKind classifies rooms in the floor plan.
type RoomKind int

const (
	RoomNormal RoomKind = iota
	RoomBoss
)

// String returns the string representation of a RoomKind.
func (k RoomKind) String() string {
	switch k {
	case RoomNormal:
		return "normal"
	case RoomBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// Room is one room in the floor plan.
type Room struct {
	ID           int
	Bounds       grid.Rect
	Kind         RoomKind
	Sealed       bool // Part of a locked vault
	MonsterHouse bool
	Connections  []int // IDs of connected rooms
}

// Center returns the room's center tile.
func (r *Room) Center() grid.Point {
	return grid.Point{X: r.Bounds.X + r.Bounds.W/2, Y: r.Bounds.Y + r.Bounds.H/2}
}

// RoomPlan is the abstract graph of rooms and connections, populated by
// layout steps before terrain and spawning steps run.
type RoomPlan struct {
	Rooms []*Room
}

// AddRoom appends a room with the next free ID and returns it.
func (p *RoomPlan) AddRoom(bounds grid.Rect) *Room {
	room := &Room{ID: len(p.Rooms), Bounds: bounds}
	p.Rooms = append(p.Rooms, room)
	return room
}

// Room returns the room with the given ID, or nil.
func (p *RoomPlan) Room(id int) *Room {
	if id < 0 || id >= len(p.Rooms) {
		return nil
	}
	return p.Rooms[id]
}

// Connect records a two-way connection between rooms a and b.
func (p *RoomPlan) Connect(a, b int) {
	ra, rb := p.Room(a), p.Room(b)
	if ra == nil || rb == nil || a == b {
		return
	}
	ra.Connections = append(ra.Connections, b)
	rb.Connections = append(rb.Connections, a)
}

// RandomRoom picks a room uniformly among those matching the filter.
// Returns nil if no room matches. A nil filter matches every room.
func (p *RoomPlan) RandomRoom(r *rng.Source, filter func(*Room) bool) *Room {
	var candidates []*Room
	for _, room := range p.Rooms {
		if filter == nil || filter(room) {
			candidates = append(candidates, room)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[r.Intn(len(candidates))]
}
