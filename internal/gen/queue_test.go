package gen

import (
	"errors"
	"strings"
	"testing"

	"github.com/greyhollow/delve/internal/spawn"
)

// testStep is a configurable step for queue tests.
type testStep struct {
	name string
	band Band
	fn   func(*Context) error
}

func (s testStep) Name() string { return s.name }
func (s testStep) Band() Band   { return s.band }
func (s testStep) Apply(ctx *Context) error {
	if s.fn == nil {
		return nil
	}
	return s.fn(ctx)
}

// stubEntity and stubFactory satisfy the spawn interfaces for tests.
type stubEntity struct {
	id string
}

func (e *stubEntity) EntityID() string { return e.id }

type stubFactory struct{}

func (f *stubFactory) Spawn(d spawn.Descriptor, team *spawn.Team) (spawn.Entity, error) {
	return &stubEntity{id: d.ID}, nil
}

func newTestContext(seed int64) *Context {
	return NewContext(ContextConfig{
		ZoneID:  "test-zone",
		Floor:   1,
		Seed:    seed,
		Width:   40,
		Height:  30,
		MobTable: &spawn.Table{Entries: []spawn.Entry{
			{Weight: 3, Spawn: spawn.Descriptor{ID: "rat", Kind: spawn.KindMob, Level: 1}},
			{Weight: 1, Spawn: spawn.Descriptor{ID: "bat", Kind: spawn.KindMob, Level: 2}},
		}},
		ItemTable: &spawn.Table{Entries: []spawn.Entry{
			{Weight: 1, Spawn: spawn.Descriptor{ID: "apple", Kind: spawn.KindItem}},
		}},
		Factory: &stubFactory{},
	})
}

func TestQueueStateMachine(t *testing.T) {
	q := NewQueue()
	if q.State() != QueueEmpty {
		t.Errorf("new queue state = %v, want empty", q.State())
	}

	if err := q.Push(testStep{name: "a", band: BandInit}); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if q.State() != QueuePopulated {
		t.Errorf("state after push = %v, want populated", q.State())
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}

	ctx := newTestContext(1)
	if err := q.Drain(ctx); err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if q.State() != QueueComplete {
		t.Errorf("state after drain = %v, want complete", q.State())
	}
	if !ctx.Finalized() {
		t.Error("context not finalized after drain")
	}

	// No pushes or re-drains after completion.
	if err := q.Push(testStep{name: "late", band: BandInit}); err == nil {
		t.Error("Push after drain succeeded, want error")
	}
	if err := q.Drain(ctx); err == nil {
		t.Error("second Drain succeeded, want error")
	}
}

func TestQueueBandAndInsertionOrder(t *testing.T) {
	q := NewQueue()
	var order []string
	record := func(name string) func(*Context) error {
		return func(*Context) error {
			order = append(order, name)
			return nil
		}
	}

	// Pushed out of band order on purpose.
	q.Push(testStep{name: "spawn1", band: BandSpawning, fn: record("spawn1")})
	q.Push(testStep{name: "init1", band: BandInit, fn: record("init1")})
	q.Push(testStep{name: "layout1", band: BandLayout, fn: record("layout1")})
	q.Push(testStep{name: "init2", band: BandInit, fn: record("init2")})
	q.Push(testStep{name: "post1", band: BandPost, fn: record("post1")})
	q.Push(testStep{name: "features1", band: BandFeatures, fn: record("features1")})

	if err := q.Drain(newTestContext(1)); err != nil {
		t.Fatalf("Drain failed: %v", err)
	}

	want := "init1,init2,layout1,features1,spawn1,post1"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("execution order = %s, want %s", got, want)
	}
}

func TestQueueSkipsPlacementFailures(t *testing.T) {
	q := NewQueue()
	ran := false

	q.Push(testStep{name: "fails", band: BandFeatures, fn: func(*Context) error {
		return placementFailed("fails", "nowhere to put it")
	}})
	q.Push(testStep{name: "after", band: BandFeatures, fn: func(*Context) error {
		ran = true
		return nil
	}})

	ctx := newTestContext(1)
	if err := q.Drain(ctx); err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if !ran {
		t.Error("step after placement failure did not run")
	}
	if q.State() != QueueComplete {
		t.Errorf("state = %v, want complete", q.State())
	}
}

func TestQueueFatalErrorAbortsFloor(t *testing.T) {
	q := NewQueue()
	boom := errors.New("bad config")
	ran := false

	q.Push(testStep{name: "broken", band: BandInit, fn: func(*Context) error {
		return boom
	}})
	q.Push(testStep{name: "after", band: BandLayout, fn: func(*Context) error {
		ran = true
		return nil
	}})

	ctx := newTestContext(1)
	err := q.Drain(ctx)
	if err == nil {
		t.Fatal("Drain succeeded, want error")
	}
	if !errors.Is(err, boom) {
		t.Errorf("error chain missing cause: %v", err)
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error %q does not name the failing step", err)
	}
	if ran {
		t.Error("step after fatal error still ran")
	}
	if ctx.Finalized() {
		t.Error("failed floor context was finalized")
	}
}

func TestDrainRejectsFinalizedContext(t *testing.T) {
	ctx := newTestContext(1)
	ctx.Finalize()

	q := NewQueue()
	q.Push(testStep{name: "a", band: BandInit})
	if err := q.Drain(ctx); err == nil {
		t.Error("Drain of finalized context succeeded, want error")
	}
}
