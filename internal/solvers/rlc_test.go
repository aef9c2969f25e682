package solvers_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/circuitsim/internal/analysis"
	"github.com/san-kum/circuitsim/internal/analytic"
	"github.com/san-kum/circuitsim/internal/dynamo"
	"github.com/san-kum/circuitsim/internal/solvers"
	"github.com/san-kum/circuitsim/internal/sources"
)

var _ = Describe("RLC", func() {
	const (
		r = 10.0
		l = 0.01
		c = 1e-4
	)

	newRLC := func(r, dt float64) *solvers.RLC {
		s, err := solvers.NewRLC(r, l, c, dt)
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	It("updates both state components from the same step", func() {
		s := newRLC(r, 1e-5)
		d := s.Derive(dynamo.State{1, 0.01}, 10, 0)
		Expect(d[0]).To(BeNumerically("~", 100, 1e-9))
		Expect(d[1]).To(BeNumerically("~", 890, 1e-9))

		src := sources.Func(func(float64) float64 { return 10 })
		tr, err := s.Solve(src, 1e-5, 1, 0.01)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.States[1][0]).To(BeNumerically("~", 1+1e-5*100, 1e-12))
		Expect(tr.States[1][1]).To(BeNumerically("~", 0.01+1e-5*890, 1e-12))
	})

	It("classifies R = 2√(L/C) as critically damped", func() {
		p := newRLC(2*math.Sqrt(l/c), 1e-5).CircuitParams()
		Expect(p.Damping).To(Equal(analysis.CriticallyDamped))
		Expect(p.Damping.String()).To(Equal("critically_damped"))
		Expect(p.OmegaD).To(BeZero())
	})

	DescribeTable("damping regime",
		func(r float64, want analysis.Damping) {
			Expect(newRLC(r, 1e-5).CircuitParams().Damping).To(Equal(want))
		},
		Entry("light", 10.0, analysis.Underdamped),
		Entry("just below critical", 19.99, analysis.Underdamped),
		Entry("heavy", 50.0, analysis.Overdamped),
	)

	Context("reference sinusoid scenario", func() {
		It("reports ω0, ζ and the regime", func() {
			s := newRLC(r, 1e-5)
			p := s.CircuitParams()
			Expect(p.Omega0).To(BeNumerically("~", 1000, 1e-9))
			Expect(p.Zeta).To(BeNumerically("~", 0.5, 1e-12))
			Expect(p.Damping).To(Equal(analysis.Underdamped))
			Expect(p.OmegaD).To(BeNumerically("~", 1000*math.Sqrt(1-0.25), 1e-6))

			tr, err := s.SolveSinusoid(10, 100, 0.2)
			Expect(err).NotTo(HaveOccurred())
			Expect(tr.Len()).To(Equal(20001))
			Expect(tr.States[0]).To(Equal(dynamo.State{0, 0}))
			Expect(tr.Err()).NotTo(HaveOccurred())
			Expect(s.Advice().OK()).To(BeTrue())
		})

		It("settles to the steady-state amplitude", func() {
			tr, err := newRLC(r, 1e-5).SolveSinusoid(10, 100, 0.2)
			Expect(err).NotTo(HaveOccurred())
			// |H(jω)| = 1/√((1-(ω/ω0)²)² + (2ζω/ω0)²) at ω = 100
			h := 1 / math.Sqrt(math.Pow(1-0.01, 2)+math.Pow(2*0.5*0.1, 2))
			peak := 0.0
			for k, x := range tr.States {
				if tr.Time[k] >= 0.1 {
					peak = math.Max(peak, math.Abs(x[0]))
				}
			}
			Expect(peak).To(BeNumerically("~", 10*h, 0.05))
		})
	})

	It("dissipates stored energy with a zero source", func() {
		s := newRLC(r, 1e-5)
		tr, err := s.Solve(sources.NewStep(0), 0.02, 5, 0)
		Expect(err).NotTo(HaveOccurred())

		energy := tr.Derived[solvers.StoredEnergy]
		Expect(energy).To(HaveLen(tr.Len()))
		for k := 1; k < len(energy); k++ {
			Expect(energy[k]).To(BeNumerically("<=", energy[k-1]*(1+1e-3)), "step %d", k)
		}
		Expect(energy[len(energy)-1]).To(BeNumerically("<", 1e-6*energy[0]))

		rep := s.AnalyzeEnergy(tr)
		Expect(rep.Initial).To(BeNumerically("~", 0.5*c*25, 1e-15))
		Expect(rep.NonIncreasing(1e-3)).To(BeTrue())
		Expect(rep.Dissipated).To(BeNumerically("~", rep.Initial, 1e-6*rep.Initial))
	})

	DescribeTable("step response tracks the closed form",
		func(r float64) {
			var errs []float64
			for _, dt := range []float64{1e-5, 5e-6} {
				tr, err := newRLC(r, dt).SolveStep(10, 0.02, 0, 0)
				Expect(err).NotTo(HaveOccurred())
				errs = append(errs, analytic.MaxAbsError(tr.Component(0), tr.Analytic))
			}
			Expect(errs[0]).To(BeNumerically("<", 0.1))
			Expect(errs[1]).To(BeNumerically("<", errs[0]))
		},
		Entry("underdamped", 10.0),
		Entry("critically damped", 2*math.Sqrt(l/c)),
		Entry("overdamped", 50.0),
	)

	It("flags a dt beyond the eigenvalue bound", func() {
		s := newRLC(r, 2e-3)
		Expect(s.Advice().Stable).To(BeFalse())
		tr, err := s.SolveStep(10, 1, 0, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Len()).To(Equal(501))
		Expect(math.Abs(tr.Final()[0])).To(BeNumerically(">", 1e3))
	})
})
