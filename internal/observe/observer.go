// Package observe turns simulation snapshots into task-specific observations.
//
// Observers depend only on [sim.SimState], never on the simulator itself,
// so different learning tasks can featurize the same ground truth in
// different ways.
package observe

import (
	"fmt"
	"math"

	"github.com/san-kum/drivesim/internal/dynamo"
	"github.com/san-kum/drivesim/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

type Observer[O any] interface {
	Observe(s sim.SimState) O
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc[O any] func(s sim.SimState) O

func (f ObserverFunc[O]) Observe(s sim.SimState) O { return f(s) }

// Full is the identity observer, used by renderers.
var Full = ObserverFunc[sim.SimState](func(s sim.SimState) sim.SimState { return s.Clone() })

// Selection decides which marker the heading-relative observer tracks.
type Selection int

const (
	SelectNearest Selection = iota
	SelectFarthest
)

func (s Selection) String() string {
	switch s {
	case SelectNearest:
		return "nearest"
	case SelectFarthest:
		return "farthest"
	default:
		return fmt.Sprintf("Selection(%d)", int(s))
	}
}

func ParseSelection(name string) (Selection, error) {
	switch name {
	case "", "nearest":
		return SelectNearest, nil
	case "farthest":
		return SelectFarthest, nil
	default:
		return 0, fmt.Errorf("unknown selection: %s", name)
	}
}

// HeadingRelative describes one marker from the driver's seat.
type HeadingRelative struct {
	Speed    float64 `json:"speed"`
	Distance float64 `json:"distance"`
	// Angle rotates the heading onto the marker, in (-π, π], positive to the left.
	Angle float64 `json:"angle"`
}

func (h HeadingRelative) Vector() []float64 {
	return []float64{h.Speed, h.Distance, h.Angle}
}

type HeadingRelativeObserver struct {
	Selection Selection
}

func NewHeadingRelative(sel Selection) *HeadingRelativeObserver {
	return &HeadingRelativeObserver{Selection: sel}
}

// Observe reports speed plus distance and angle to the selected marker.
// With no markers left the target vector is zero: distance and angle are 0.
func (o *HeadingRelativeObserver) Observe(s sim.SimState) HeadingRelative {
	pos := s.Vehicle.Position()
	rel, _ := o.Select(pos, s)
	return HeadingRelative{
		Speed:    s.Vehicle.Speed,
		Distance: r2.Norm(rel),
		Angle:    dynamo.SignedAngle(dynamo.HeadingVec(s.Vehicle.Heading), rel),
	}
}

// Select returns the vector from pos to the chosen marker and its index,
// or the zero vector and -1 when there is none. Ties keep the first marker.
func (o *HeadingRelativeObserver) Select(pos r2.Vec, s sim.SimState) (r2.Vec, int) {
	best := -1
	var bestRel r2.Vec
	bestNorm := math.Inf(1)
	if o.Selection == SelectFarthest {
		bestNorm = math.Inf(-1)
	}

	for i, m := range s.Rewards {
		rel := r2.Sub(m.Position, pos)
		n := r2.Norm(rel)
		if (o.Selection == SelectFarthest && n > bestNorm) || (o.Selection != SelectFarthest && n < bestNorm) {
			best, bestRel, bestNorm = i, rel, n
		}
	}
	return bestRel, best
}
