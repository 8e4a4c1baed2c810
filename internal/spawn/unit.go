package spawn

// Unit is the plain in-memory entity used by tools that generate floors
// without a game runtime attached: it just records what the resolver
// decided.
type Unit struct {
	ID       string
	Level    int
	Features []string
}

// EntityID returns the descriptor id this unit was spawned from.
func (u *Unit) EntityID() string { return u.ID }

// HasFeature reports whether the unit carries the named feature.
func (u *Unit) HasFeature(name string) bool {
	for _, f := range u.Features {
		if f == name {
			return true
		}
	}
	return false
}

// UnitFactory materializes descriptors as Units.
type UnitFactory struct{}

// Spawn builds a Unit from the descriptor. It never fails.
func (f *UnitFactory) Spawn(d Descriptor, team *Team) (Entity, error) {
	features := make([]string, len(d.Features))
	copy(features, d.Features)
	return &Unit{ID: d.ID, Level: d.Level, Features: features}, nil
}
