package observe_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/drivesim/internal/observe"
	"github.com/san-kum/drivesim/internal/physics"
	"github.com/san-kum/drivesim/internal/reward"
	"github.com/san-kum/drivesim/internal/sim"
)

func snapshot(v physics.VehicleState, markers ...reward.Marker) sim.SimState {
	return sim.SimState{Vehicle: v, Rewards: markers}
}

var _ = Describe("HeadingRelativeObserver", func() {
	var (
		vehicle physics.VehicleState
		near    reward.Marker
		far     reward.Marker
	)

	BeforeEach(func() {
		vehicle = physics.NewVehicleState(physics.WithSpeed(12))
		near = reward.NewMarker(0, 30, 1)
		far = reward.NewMarker(-400, 0, 1)
	})

	It("tracks the nearest marker by default", func() {
		obs := observe.NewHeadingRelative(observe.SelectNearest).Observe(snapshot(vehicle, far, near))
		Expect(obs.Speed).To(Equal(12.0))
		Expect(obs.Distance).To(BeNumerically("~", 30, 1e-9))
		Expect(obs.Angle).To(BeNumerically("~", math.Pi/2, 1e-9))
	})

	It("tracks the farthest marker when asked to", func() {
		obs := observe.NewHeadingRelative(observe.SelectFarthest).Observe(snapshot(vehicle, near, far))
		Expect(obs.Distance).To(BeNumerically("~", 400, 1e-9))
		Expect(obs.Angle).To(BeNumerically("~", math.Pi, 1e-9))
	})

	It("signs the angle by side", func() {
		right := reward.NewMarker(10, -10, 1)
		obs := observe.NewHeadingRelative(observe.SelectNearest).Observe(snapshot(vehicle, right))
		Expect(obs.Angle).To(BeNumerically("~", -math.Pi/4, 1e-9))
	})

	It("measures the angle against the current heading", func() {
		vehicle.Heading = math.Pi / 2
		obs := observe.NewHeadingRelative(observe.SelectNearest).Observe(snapshot(vehicle, near))
		Expect(obs.Angle).To(BeNumerically("~", 0, 1e-9))
	})

	It("keeps the first marker on ties", func() {
		a := reward.NewMarker(10, 0, 1)
		b := reward.NewMarker(-10, 0, 2)
		_, idx := observe.NewHeadingRelative(observe.SelectNearest).Select(vehicle.Position(), snapshot(vehicle, a, b))
		Expect(idx).To(Equal(0))
		_, idx = observe.NewHeadingRelative(observe.SelectFarthest).Select(vehicle.Position(), snapshot(vehicle, a, b))
		Expect(idx).To(Equal(0))
	})

	DescribeTable("degenerate targets never produce NaN",
		func(s sim.SimState) {
			obs := observe.NewHeadingRelative(observe.SelectNearest).Observe(s)
			Expect(obs.Distance).To(BeZero())
			Expect(obs.Angle).To(BeZero())
		},
		Entry("no markers", snapshot(physics.DefaultVehicleState())),
		Entry("marker under the vehicle", snapshot(physics.DefaultVehicleState(), reward.NewMarker(0, 0, 1))),
	)

	It("flattens to a vector", func() {
		h := observe.HeadingRelative{Speed: 1, Distance: 2, Angle: 3}
		Expect(h.Vector()).To(Equal([]float64{1, 2, 3}))
	})
})

var _ = Describe("Selection", func() {
	DescribeTable("parses names",
		func(name string, want observe.Selection) {
			sel, err := observe.ParseSelection(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(sel).To(Equal(want))
			Expect(sel.String()).To(Equal(map[observe.Selection]string{
				observe.SelectNearest:  "nearest",
				observe.SelectFarthest: "farthest",
			}[want]))
		},
		Entry("default", "", observe.SelectNearest),
		Entry("nearest", "nearest", observe.SelectNearest),
		Entry("farthest", "farthest", observe.SelectFarthest),
	)

	It("rejects unknown names", func() {
		_, err := observe.ParseSelection("closest")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Full", func() {
	It("returns an independent copy", func() {
		s := snapshot(physics.DefaultVehicleState(), reward.NewMarker(1, 1, 1))
		got := observe.Full.Observe(s)
		got.Rewards[0].Value = 5
		Expect(s.Rewards[0].Value).To(Equal(1.0))
	})
})
