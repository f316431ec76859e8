package sim_test

import (
	"context"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/drivesim/internal/dynamo"
	"github.com/san-kum/drivesim/internal/physics"
	"github.com/san-kum/drivesim/internal/reward"
	"github.com/san-kum/drivesim/internal/sim"
)

type constController struct{ a sim.Action }

func (c constController) Compute(s sim.SimState, t float64) sim.Action { return c.a }

type countingMetric struct{ n int }

func (m *countingMetric) Name() string { return "count" }

func (m *countingMetric) Observe(s sim.SimState, a sim.Action, r, t float64) { m.n++ }

func (m *countingMetric) Value() float64 { return float64(m.n) }

func (m *countingMetric) Reset() { m.n = 0 }

type recordingListener struct {
	times   []float64
	remains []int
}

func (l *recordingListener) OnStep(s sim.SimState, a sim.Action, r, t float64) {
	l.times = append(l.times, t)
	l.remains = append(l.remains, len(s.Rewards))
}

var _ = Describe("Simulator", func() {
	var s *sim.Simulator

	Describe("construction", func() {
		It("applies default limits", func() {
			var err error
			s, err = sim.New(physics.DefaultVehicleState(), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Limits()).To(Equal(sim.DefaultLimits()))
		})

		DescribeTable("rejects out of range configuration",
			func(v physics.VehicleState, markers []reward.Marker, opts []sim.Option, want error) {
				_, err := sim.New(v, markers, opts...)
				Expect(err).To(MatchError(want))
			},
			Entry("steer at the tangent singularity", physics.DefaultVehicleState(), nil,
				[]sim.Option{sim.WithMaxSteerAngle(math.Pi / 2)}, dynamo.ErrParameterBounds),
			Entry("negative acceleration limit", physics.DefaultVehicleState(), nil,
				[]sim.Option{sim.WithMaxAcceleration(-1)}, dynamo.ErrParameterBounds),
			Entry("zero capture radius", physics.DefaultVehicleState(), nil,
				[]sim.Option{sim.WithCaptureRadius(0)}, dynamo.ErrParameterBounds),
			Entry("infinite acceleration limit", physics.DefaultVehicleState(), nil,
				[]sim.Option{sim.WithMaxAcceleration(math.Inf(1))}, dynamo.ErrParameterBounds),
			Entry("zero wheelbase", physics.NewVehicleState(physics.WithWheelbase(0)), nil,
				nil, dynamo.ErrParameterBounds),
			Entry("NaN marker", physics.DefaultVehicleState(), []reward.Marker{reward.NewMarker(math.NaN(), 0, 1)},
				nil, dynamo.ErrInvalidState),
		)
	})

	Describe("Advance", func() {
		BeforeEach(func() {
			var err error
			s, err = sim.New(
				physics.NewVehicleState(physics.WithPosition(940, 700)),
				[]reward.Marker{reward.NewMarker(1000, 700, 100)},
			)
			Expect(err).NotTo(HaveOccurred())
		})

		It("pays a marker once when the vehicle enters the capture radius", func() {
			r, err := s.Advance(sim.NewAction(100, 0), time.Second)
			Expect(err).NotTo(HaveOccurred())
			Expect(r).To(BeZero())
			Expect(s.State().Vehicle.Speed).To(Equal(100.0))

			r, err = s.Advance(sim.NewAction(0, 0), 200*time.Millisecond)
			Expect(err).NotTo(HaveOccurred())
			Expect(r).To(Equal(100.0))
			Expect(s.State().Rewards).To(BeEmpty())

			r, err = s.Advance(sim.NewAction(0, 0), 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(r).To(BeZero())
		})

		It("clamps acceleration before integrating", func() {
			_, err := s.Advance(sim.NewAction(500, 0), time.Second)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.State().Vehicle.Speed).To(Equal(100.0))

			c := s.Clamp(sim.NewAction(-500, 3))
			Expect(c.Acceleration).To(Equal(-100.0))
			Expect(c.SteerAngle).To(Equal(sim.DefaultMaxSteerAngle))
		})

		It("clamps the steer angle before integrating", func() {
			s, _ = sim.New(physics.NewVehicleState(physics.WithSpeed(10), physics.WithWheelbase(10)), nil)
			_, err := s.Advance(sim.NewAction(0, 10), time.Second)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.State().Vehicle.Heading).To(BeNumerically("~", 1.0, 1e-9))
		})

		DescribeTable("rejects invalid input without touching state",
			func(a sim.Action, dt float64) {
				before := s.State()
				_, err := s.AdvanceSeconds(a, dt)
				Expect(err).To(MatchError(dynamo.ErrInvalidInput))

				var stepErr *sim.StepError
				Expect(err).To(BeAssignableToTypeOf(stepErr))
				Expect(s.State()).To(Equal(before))
				Expect(s.Steps()).To(BeZero())
			},
			Entry("NaN acceleration", sim.NewAction(math.NaN(), 0), 0.1),
			Entry("infinite steer", sim.NewAction(0, math.Inf(-1)), 0.1),
			Entry("negative dt", sim.NewAction(1, 0), -0.1),
			Entry("NaN dt", sim.NewAction(1, 0), math.NaN()),
		)

		DescribeTable("discards steps that would leave the state non-finite",
			func(speed, dt float64) {
				var err error
				s, err = sim.New(physics.NewVehicleState(physics.WithSpeed(speed)), nil)
				Expect(err).NotTo(HaveOccurred())
				before := s.State()

				_, err = s.AdvanceSeconds(sim.NewAction(0, 0.5), dt)
				Expect(err).To(MatchError(dynamo.ErrInvalidState))
				Expect(s.State()).To(Equal(before))
				Expect(s.Steps()).To(BeZero())

				_, err = s.AdvanceSeconds(sim.NewAction(0, 0), 0.04)
				Expect(err).NotTo(HaveOccurred())
				Expect(s.State().Vehicle.IsValid()).To(BeTrue())
			},
			Entry("position overflow driving forward", 1000.0, 1e306),
			Entry("position overflow in reverse", -1000.0, 1e306),
		)

		It("returns snapshots that do not alias internal state", func() {
			snap := s.State()
			snap.Rewards[0].Value = 1
			snap.Vehicle.X = 0
			Expect(s.State().Rewards[0].Value).To(Equal(100.0))
			Expect(s.State().Vehicle.X).To(Equal(940.0))
		})

		It("tracks steps and elapsed time", func() {
			for i := 0; i < 4; i++ {
				_, err := s.AdvanceSeconds(sim.NewAction(0, 0), 0.25)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(s.Steps()).To(Equal(4))
			Expect(s.Elapsed()).To(BeNumerically("~", 1.0, 1e-12))
		})
	})

	It("replays deterministically", func() {
		actions := []sim.Action{
			sim.NewAction(80, 0.2), sim.NewAction(500, -0.9), sim.NewAction(-30, 0.1), sim.NewAction(0, 0.5),
		}
		markers := []reward.Marker{
			reward.NewMarker(60, 10, 5), reward.NewMarker(200, 80, 7), reward.NewMarker(-400, 0, 1),
		}

		replay := func() (sim.SimState, float64) {
			s, err := sim.New(physics.DefaultVehicleState(), markers)
			Expect(err).NotTo(HaveOccurred())
			total := 0.0
			for i := 0; i < 200; i++ {
				r, err := s.AdvanceSeconds(actions[i%len(actions)], 0.04)
				Expect(err).NotTo(HaveOccurred())
				total += r
			}
			return s.State(), total
		}

		s1, r1 := replay()
		s2, r2 := replay()
		Expect(s1).To(Equal(s2))
		Expect(r1).To(Equal(r2))
	})

	Describe("Run", func() {
		BeforeEach(func() {
			var err error
			s, err = sim.New(
				physics.DefaultVehicleState(),
				[]reward.Marker{reward.NewMarker(100, 0, 10), reward.NewMarker(300, 0, 20)},
			)
			Expect(err).NotTo(HaveOccurred())
		})

		It("records the trajectory and collects rewards", func() {
			m := &countingMetric{}
			s.AddMetric(m)

			res, err := s.Run(context.Background(), constController{sim.NewAction(500, 0)}, sim.RunConfig{Dt: 0.1, Duration: 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.StepsTaken).To(Equal(30))
			Expect(res.Times).To(HaveLen(31))
			Expect(res.States).To(HaveLen(31))
			Expect(res.Actions[0].Acceleration).To(Equal(100.0))
			Expect(res.TotalReward).To(Equal(30.0))
			Expect(res.Metrics).To(HaveKeyWithValue("count", 30.0))
		})

		It("notifies listeners once per tick with the post-step state", func() {
			l := &recordingListener{}
			s.AddListener(l)

			res, err := s.Run(context.Background(), constController{sim.NewAction(500, 0)}, sim.RunConfig{Dt: 0.1, Duration: 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(l.times).To(HaveLen(res.StepsTaken))
			Expect(l.times[0]).To(BeNumerically("~", 0.1, 1e-12))
			Expect(l.times[len(l.times)-1]).To(Equal(res.Times[len(res.Times)-1]))
			Expect(l.remains[len(l.remains)-1]).To(BeZero())
		})

		It("stops once every marker is collected", func() {
			res, err := s.Run(context.Background(), constController{sim.NewAction(100, 0)},
				sim.RunConfig{Dt: 0.1, Duration: 100, StopWhenCleared: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.TotalReward).To(Equal(30.0))
			Expect(res.StepsTaken).To(BeNumerically("<", 1000))
			Expect(s.Remaining()).To(BeZero())
		})

		It("honors cancellation", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := s.Run(ctx, constController{}, sim.RunConfig{Dt: 0.1, Duration: 1})
			Expect(err).To(MatchError(context.Canceled))
		})

		DescribeTable("rejects invalid run configuration",
			func(cfg sim.RunConfig) {
				_, err := s.Run(context.Background(), constController{}, cfg)
				Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			},
			Entry("zero dt", sim.RunConfig{Dt: 0, Duration: 1}),
			Entry("negative dt", sim.RunConfig{Dt: -0.1, Duration: 1}),
			Entry("zero duration", sim.RunConfig{Dt: 0.1, Duration: 0}),
		)
	})
})
