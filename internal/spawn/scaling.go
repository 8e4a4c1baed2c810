package spawn

// Difficulty scaling formulas applied to descriptors as floors get deeper.

// ScaleLevel calculates the scaled level for a mob on a given floor.
// Roughly one level per two floors on top of the authored base.
func ScaleLevel(baseLevel, floor int) int {
	if floor <= 0 {
		return baseLevel
	}
	return baseLevel + floor/2
}

// ScaleForFloor returns a copy of the descriptor with floor scaling
// applied. Items are returned unscaled.
func ScaleForFloor(d Descriptor, floor int) Descriptor {
	c := d.Clone()
	if c.Kind == KindMob {
		c.Level = ScaleLevel(c.Level, floor)
	}
	return c
}
