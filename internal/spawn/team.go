package spawn

import "fmt"

// Alignment distinguishes hostile monster teams from structured explorer
// teams.
type Alignment int

const (
	AlignmentHostile  Alignment = iota // Monster team, no inventory
	AlignmentExplorer                  // Structured team that can carry items
)

// String returns the string representation of an Alignment.
func (a Alignment) String() string {
	switch a {
	case AlignmentHostile:
		return "hostile"
	case AlignmentExplorer:
		return "explorer"
	default:
		return "unknown"
	}
}

// Entity is a live spawned entity. The generation core only needs its
// identity; everything else belongs to the game runtime.
type Entity interface {
	EntityID() string
}

// EntityFactory turns a spawn descriptor into a live, registered entity on
// a team. Spawning is synchronous from the generation core's point of
// view; any async behavior it triggers is the runtime's concern.
type EntityFactory interface {
	Spawn(d Descriptor, team *Team) (Entity, error)
}

// Team is an ordered group of spawned entities. The member at index 0 is
// the leader.
type Team struct {
	Alignment Alignment
	Members   []Entity
	inventory []Descriptor
}

// Leader returns the team leader, or nil for an empty team.
func (t *Team) Leader() Entity {
	if len(t.Members) == 0 {
		return nil
	}
	return t.Members[0]
}

// Size returns the number of members.
func (t *Team) Size() int { return len(t.Members) }

// CarryItem adds an item to the team's inventory. Only explorer teams
// carry inventory.
func (t *Team) CarryItem(d Descriptor) error {
	if t.Alignment != AlignmentExplorer {
		return fmt.Errorf("%s team cannot carry inventory", t.Alignment)
	}
	t.inventory = append(t.inventory, d.Clone())
	return nil
}

// Inventory returns a copy of the carried items.
func (t *Team) Inventory() []Descriptor {
	out := make([]Descriptor, len(t.inventory))
	for i, d := range t.inventory {
		out[i] = d.Clone()
	}
	return out
}

// SpawnTeam instantiates a team from resolved descriptors, leader first.
// An empty descriptor list produces no team. A factory failure aborts the
// team and propagates.
func SpawnTeam(factory EntityFactory, descriptors []Descriptor, alignment Alignment) (*Team, error) {
	if len(descriptors) == 0 {
		return nil, nil
	}

	team := &Team{Alignment: alignment}
	for i, d := range descriptors {
		entity, err := factory.Spawn(d, team)
		if err != nil {
			return nil, fmt.Errorf("spawning member %d (%s): %w", i, d.ID, err)
		}
		team.Members = append(team.Members, entity)
	}
	return team, nil
}
