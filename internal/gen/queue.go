package gen

import (
	"fmt"

	"github.com/greyhollow/delve/internal/logger"
)

// MaxPlacementAttempts is the retry budget for a single placement: a step
// draws at most this many random positions for one instance before giving
// up on it.
const MaxPlacementAttempts = 30

// Band is the priority band a step runs in. Bands drain coarse-to-fine;
// within a band, steps run in registration order.
type Band int

const (
	BandInit Band = iota
	BandLayout
	BandFeatures
	BandSpawning
	BandPost

	numBands
)

// String returns the string representation of a Band.
func (b Band) String() string {
	switch b {
	case BandInit:
		return "init"
	case BandLayout:
		return "layout"
	case BandFeatures:
		return "features"
	case BandSpawning:
		return "spawning"
	case BandPost:
		return "post"
	default:
		return "unknown"
	}
}

// Step is one unit of floor generation work. Apply mutates the context
// directly. A returned PlacementError is recoverable; any other error
// aborts the floor.
type Step interface {
	Name() string
	Band() Band
	Apply(*Context) error
}

// QueueState tracks the queue's lifecycle.
type QueueState int

const (
	QueueEmpty QueueState = iota
	QueuePopulated
	QueueDraining
	QueueComplete
)

// String returns the string representation of a QueueState.
func (s QueueState) String() string {
	switch s {
	case QueueEmpty:
		return "empty"
	case QueuePopulated:
		return "populated"
	case QueueDraining:
		return "draining"
	case QueueComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Queue is the ordered multi-priority step queue for one floor. Steps may
// be pushed until draining begins; draining runs each band in order and
// each step within a band in insertion order.
type Queue struct {
	state QueueState
	bands [numBands][]Step
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// State returns the queue's lifecycle state.
func (q *Queue) State() QueueState { return q.state }

// Len returns the total number of queued steps.
func (q *Queue) Len() int {
	n := 0
	for _, band := range q.bands {
		n += len(band)
	}
	return n
}

// Push enqueues a step into its declared band. Steps cannot be pushed once
// draining has started.
func (q *Queue) Push(step Step) error {
	if q.state == QueueDraining || q.state == QueueComplete {
		return fmt.Errorf("cannot push step %q: queue is %s", step.Name(), q.state)
	}
	band := step.Band()
	if band < 0 || band >= numBands {
		return fmt.Errorf("step %q has invalid band %d", step.Name(), band)
	}
	q.bands[band] = append(q.bands[band], step)
	q.state = QueuePopulated
	return nil
}

// Drain executes every queued step against the context. Placement failures
// are logged and skipped; any other step error aborts the floor and is
// returned wrapped with the step name. On success the context is finalized
// and the queue reaches QueueComplete.
func (q *Queue) Drain(ctx *Context) error {
	if q.state == QueueDraining || q.state == QueueComplete {
		return fmt.Errorf("queue already %s", q.state)
	}
	if ctx.Finalized() {
		return fmt.Errorf("context for floor %d is already finalized", ctx.Floor)
	}
	q.state = QueueDraining

	for band := Band(0); band < numBands; band++ {
		for _, step := range q.bands[band] {
			err := step.Apply(ctx)
			if err == nil {
				continue
			}
			if IsPlacement(err) {
				logger.Warning("step placement failed, skipping",
					"zone", ctx.ZoneID,
					"floor", ctx.Floor,
					"seed", ctx.Seed,
					"step", step.Name(),
					"error", err)
				continue
			}
			return fmt.Errorf("floor %d (seed %d) step %q: %w", ctx.Floor, ctx.Seed, step.Name(), err)
		}
	}

	q.state = QueueComplete
	ctx.Finalize()
	return nil
}
