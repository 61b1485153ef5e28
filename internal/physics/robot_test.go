package physics_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/diffsim/internal/dynamo"
	"github.com/san-kum/diffsim/internal/physics"
)

func mustRobot(p physics.Params, rng *rand.Rand) *physics.Robot {
	r, err := physics.NewRobot(p, rng)
	Expect(err).NotTo(HaveOccurred())
	return r
}

var _ = Describe("Robot", func() {
	var params physics.Params

	BeforeEach(func() {
		params = physics.NominalParams()
	})

	It("starts at rest at the origin", func() {
		r := mustRobot(params, nil)
		Expect(r.State()).To(Equal(physics.RobotState{}))
		Expect(r.Period()).To(Equal(0.01))
	})

	It("is deterministic with zero tolerance", func() {
		a := mustRobot(params, nil)
		b := mustRobot(params, rand.New(rand.NewSource(99)))
		for k := 0; k < 500; k++ {
			cl := 0.5 * math.Sin(float64(k)*0.03)
			cr := 0.4 * math.Cos(float64(k)*0.02)
			a.Process(cl, cr)
			b.Process(cl, cr)
			Expect(a.State()).To(Equal(b.State()))
		}
	})

	It("clamps out-of-range commands", func() {
		clamped := mustRobot(params, nil)
		limit := mustRobot(params, nil)
		for k := 0; k < 50; k++ {
			clamped.Process(2, -5)
			limit.Process(1, -1)
		}
		Expect(clamped.State()).To(Equal(limit.State()))
		Expect(clamped.State().Heading).To(BeNumerically(">", 0))
	})

	It("drives straight when both wheels match", func() {
		r := mustRobot(params, nil)
		prevX := 0.0
		for k := 0; k < 100; k++ {
			r.Process(0.2, 0.2)
			st := r.State()
			Expect(st.Heading).To(Equal(0.0))
			Expect(st.Y).To(Equal(0.0))
			Expect(st.X).To(Equal(st.CurvDistance))
			Expect(st.X).To(BeNumerically(">", prevX))
			prevX = st.X
		}
	})

	It("drives backwards on negative commands", func() {
		r := mustRobot(params, nil)
		for k := 0; k < 100; k++ {
			r.Process(-0.3, -0.3)
		}
		Expect(r.State().X).To(BeNumerically("<", 0))
		Expect(r.State().CurvDistance).To(BeNumerically("<", 0))
	})

	It("turns counter-clockwise when the left wheel is faster", func() {
		r := mustRobot(params, nil)
		for k := 0; k < 100; k++ {
			r.Process(0.2, 0.1)
		}
		st := r.State()
		Expect(st.Heading).To(BeNumerically(">", 0))
		Expect(st.Y).To(BeNumerically(">", 0))
		Expect(st.LeftSpeed).To(BeNumerically(">", st.RightSpeed))
	})

	It("settles wheel speed at gain times command", func() {
		r := mustRobot(params, nil)
		for k := 0; k < 300; k++ {
			r.Process(0.2, -0.1)
		}
		Expect(r.State().LeftSpeed).To(BeNumerically("~", 20000, 1))
		Expect(r.State().RightSpeed).To(BeNumerically("~", -10000, 1))
	})

	It("integrates position with the heading of the same step", func() {
		r := mustRobot(params, nil)
		r.Process(0.2, 0.1)

		decay := math.Exp(-params.Period / params.Left.TimeConstant)
		sl, sr := params.Left.Gain*0.2, params.Right.Gain*0.1
		vl := sl + (0-sl)*decay
		vr := sr + (0-sr)*decay
		half := params.Period / 2
		mean := (vl + vr) / 2 / params.TicksPerMeter
		heading := (vl - vr) / params.DiffTicksPerRadian * half

		st := r.State()
		Expect(st.Heading).To(BeNumerically("~", heading, 1e-15))
		Expect(st.X).To(BeNumerically("~", mean*math.Cos(heading)*half, 1e-15))
		Expect(st.Y).To(BeNumerically("~", mean*math.Sin(heading)*half, 1e-15))
		Expect(st.Y).To(BeNumerically(">", 0))
	})

	Describe("parameter jitter", func() {
		BeforeEach(func() {
			params.Left.GainTolerance = 0.2
			params.Left.TimeConstantTolerance = 0.1
			params.Right.GainTolerance = 0.2
			params.Right.TimeConstantTolerance = 0.1
		})

		It("stays inside the tolerance band", func() {
			rng := rand.New(rand.NewSource(7))
			for i := 0; i < 50; i++ {
				left, right := mustRobot(params, rng).Motors()
				for _, m := range []physics.Motor{left, right} {
					Expect(m.Gain).To(BeNumerically(">=", 80000))
					Expect(m.Gain).To(BeNumerically("<=", 120000))
					Expect(m.TimeConstant).To(BeNumerically(">=", 0.135))
					Expect(m.TimeConstant).To(BeNumerically("<=", 0.165))
				}
			}
		})

		It("is reproducible from a seed", func() {
			a := mustRobot(params, rand.New(rand.NewSource(42)))
			b := mustRobot(params, rand.New(rand.NewSource(42)))
			c := mustRobot(params, rand.New(rand.NewSource(43)))
			al, ar := a.Motors()
			bl, br := b.Motors()
			cl, _ := c.Motors()
			Expect(al).To(Equal(bl))
			Expect(ar).To(Equal(br))
			Expect(cl).NotTo(Equal(al))
		})

		It("draws left time constant first", func() {
			rng := rand.New(rand.NewSource(5))
			left, _ := mustRobot(params, rng).Motors()

			ref := rand.New(rand.NewSource(5))
			Expect(left.TimeConstant).To(Equal(physics.Jitter(0.150, 0.1, ref)))
			Expect(left.Gain).To(Equal(physics.Jitter(100000, 0.2, ref)))
		})

		It("requires a random source", func() {
			_, err := physics.NewRobot(params, nil)
			Expect(err).To(MatchError(dynamo.ErrInvalidParameter))
		})
	})

	DescribeTable("rejects invalid parameters",
		func(mutate func(p *physics.Params)) {
			p := physics.NominalParams()
			mutate(&p)
			_, err := physics.NewRobot(p, nil)
			Expect(err).To(MatchError(dynamo.ErrInvalidParameter))
		},
		Entry("zero period", func(p *physics.Params) { p.Period = 0 }),
		Entry("negative period", func(p *physics.Params) { p.Period = -0.01 }),
		Entry("zero left time constant", func(p *physics.Params) { p.Left.TimeConstant = 0 }),
		Entry("negative right time constant", func(p *physics.Params) { p.Right.TimeConstant = -1 }),
		Entry("tolerance of one", func(p *physics.Params) { p.Left.GainTolerance = 1 }),
		Entry("negative tolerance", func(p *physics.Params) { p.Right.TimeConstantTolerance = -0.1 }),
		Entry("zero ticks per meter", func(p *physics.Params) { p.TicksPerMeter = 0 }),
		Entry("zero ticks per radian", func(p *physics.Params) { p.DiffTicksPerRadian = 0 }),
		Entry("nan gain", func(p *physics.Params) { p.Left.Gain = math.NaN() }),
	)
})

var _ = Describe("Jitter", func() {
	It("returns the nominal value at zero tolerance", func() {
		rng := rand.New(rand.NewSource(1))
		for i := 0; i < 10; i++ {
			Expect(physics.Jitter(0.155, 0, rng)).To(Equal(0.155))
		}
	})
})
