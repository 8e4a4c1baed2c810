package gen

import "github.com/greyhollow/delve/internal/spawn"

// ThemeOverrideStep swaps the floor's spawn tables for themed ones before
// any other step reads them. Zone orchestration injects it on floors that
// receive a themed spread (e.g. "flooded floors spawn water mobs").
type ThemeOverrideStep struct {
	MobTable  *spawn.Table // nil leaves the current table in place
	ItemTable *spawn.Table
}

// Name identifies the step in logs.
func (s ThemeOverrideStep) Name() string { return "theme_override" }

// Band returns the init band so the override lands before layout runs.
func (s ThemeOverrideStep) Band() Band { return BandInit }

// Apply replaces the context's tables with clones of the themed ones.
func (s ThemeOverrideStep) Apply(ctx *Context) error {
	if s.MobTable != nil {
		ctx.MobTable = s.MobTable.Clone()
	}
	if s.ItemTable != nil {
		ctx.ItemTable = s.ItemTable.Clone()
	}
	return nil
}
