package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/diffsim/internal/dynamo"
	"github.com/san-kum/diffsim/internal/physics"
	"github.com/san-kum/diffsim/internal/sim"
)

func runConstant(left, right float64, totalTime float64) dynamo.Trajectory {
	p := physics.NominalParams()
	p.Left = physics.MotorParams{Gain: 100000, TimeConstant: 0.15}
	p.Right = physics.MotorParams{Gain: 100000, TimeConstant: 0.15}

	robot, err := physics.NewRobot(p, nil)
	Expect(err).NotTo(HaveOccurred())
	s, err := sim.New(robot, dynamo.ControlFunc(func(dynamo.Inputs) (float64, float64) {
		return left, right
	}))
	Expect(err).NotTo(HaveOccurred())

	res, err := s.Run(context.Background(), sim.Immediate{}, sim.StepCount(totalTime, p.Period))
	Expect(err).NotTo(HaveOccurred())
	return res.Trajectory
}

var _ = Describe("closed-loop scenarios", func() {
	Context("equal commands on matched motors", func() {
		var tr dynamo.Trajectory

		BeforeEach(func() {
			tr = runConstant(0.2, 0.2, 1.0)
		})

		It("records one sample per step", func() {
			Expect(tr).To(HaveLen(100))
		})

		It("keeps heading and y at zero", func() {
			for _, s := range tr {
				Expect(s.Heading).To(BeNumerically("~", 0, 1e-12))
				Expect(s.Y).To(BeNumerically("~", 0, 1e-12))
				Expect(s.HeadingRate).To(BeNumerically("~", 0, 1e-9))
			}
		})

		It("moves x forward monotonically", func() {
			for k := 1; k < len(tr); k++ {
				Expect(tr[k].X).To(BeNumerically(">", tr[k-1].X))
			}
		})

		It("follows the doubly integrated step response", func() {
			// v(t) = v0 (1 - e^{-t/tau}), x(t) = v0 (t - tau (1 - e^{-t/tau}))
			v0 := 0.2 * 100000 / float64(physics.DefaultTicksPerMeter)
			last := tr[len(tr)-1]
			t := last.Time
			want := v0 * (t - 0.15*(1-math.Exp(-t/0.15)))
			Expect(last.X).To(BeNumerically("~", want, 0.02*want))
			Expect(last.CurvSpeed).To(BeNumerically("~", v0, 0.01*v0))
		})
	})

	Context("left wheel faster", func() {
		var tr dynamo.Trajectory

		BeforeEach(func() {
			tr = runConstant(0.2, 0.1, 1.0)
		})

		It("turns counter-clockwise after the first sample", func() {
			Expect(tr[0].HeadingRate).To(Equal(0.0))
			for _, s := range tr[1:] {
				Expect(s.HeadingRate).To(BeNumerically(">", 0))
			}
		})

		It("grows curvilinear distance monotonically", func() {
			for k := 1; k < len(tr); k++ {
				Expect(tr[k].CurvDistance).To(BeNumerically(">", tr[k-1].CurvDistance))
				Expect(tr[k].CurvSpeed).To(BeNumerically(">", 0))
			}
		})

		It("drifts to positive y", func() {
			last, ok := tr.Last()
			Expect(ok).To(BeTrue())
			Expect(last.Y).To(BeNumerically(">", 0))
		})
	})

	It("produces bit-identical trajectories for identical plants", func() {
		a := runConstant(0.35, 0.15, 2.0)
		b := runConstant(0.35, 0.15, 2.0)
		Expect(a).To(Equal(b))
	})

	It("treats saturated commands as their limits", func() {
		a := runConstant(2, -5, 0.5)
		b := runConstant(1, -1, 0.5)
		for k := range a {
			Expect(a[k].X).To(Equal(b[k].X))
			Expect(a[k].Heading).To(Equal(b[k].Heading))
			Expect(a[k].LeftSpeed).To(Equal(b[k].LeftSpeed))
		}
	})
})
