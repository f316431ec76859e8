// Package reward holds the reward markers the vehicle collects.
//
// A [Field] is an ordered list of markers. [Field.Sweep] consumes every
// marker strictly within the capture radius of a position: captured
// markers are removed for good and their values summed, the rest keep
// their relative order.
package reward

import (
	"fmt"

	"github.com/san-kum/drivesim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

const DefaultCaptureRadius = 50.0

// Marker is a stationary reward worth Value, consumed once.
type Marker struct {
	Position r2.Vec  `json:"position"`
	Value    float64 `json:"value"`
}

func NewMarker(x, y, value float64) Marker {
	return Marker{Position: r2.Vec{X: x, Y: y}, Value: value}
}

func (m Marker) Validate() error {
	if !dynamo.VecIsFinite(m.Position) || !dynamo.IsFinite(m.Value) {
		return fmt.Errorf("marker %+v: %w", m, dynamo.ErrInvalidState)
	}
	return nil
}

// Field is the ordered collection of remaining markers.
type Field struct {
	markers []Marker
}

func NewField(markers []Marker) *Field {
	f := &Field{markers: make([]Marker, len(markers))}
	copy(f.markers, markers)
	return f
}

func (f *Field) Len() int { return len(f.markers) }

// Markers returns a copy of the remaining markers in order.
func (f *Field) Markers() []Marker {
	out := make([]Marker, len(f.markers))
	copy(out, f.markers)
	return out
}

// Partition splits markers into those strictly within radius of pos and
// the rest. Both keep the input order. markers is not modified.
func Partition(markers []Marker, pos r2.Vec, radius float64) (captured, retained []Marker) {
	for _, m := range markers {
		if dynamo.Distance(pos, m.Position) < radius {
			captured = append(captured, m)
		} else {
			retained = append(retained, m)
		}
	}
	return captured, retained
}

func Total(markers []Marker) float64 {
	sum := 0.0
	for _, m := range markers {
		sum += m.Value
	}
	return sum
}

// Sweep removes every marker within radius of pos and returns the sum of
// their values along with the captured markers.
func (f *Field) Sweep(pos r2.Vec, radius float64) (float64, []Marker) {
	captured, retained := Partition(f.markers, pos, radius)
	if len(captured) == 0 {
		return 0, nil
	}
	f.markers = retained
	return Total(captured), captured
}
