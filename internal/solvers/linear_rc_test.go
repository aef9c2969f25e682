package solvers_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/circuitsim/internal/analytic"
	"github.com/san-kum/circuitsim/internal/dynamo"
	"github.com/san-kum/circuitsim/internal/solvers"
	"github.com/san-kum/circuitsim/internal/sources"
)

var _ = Describe("LinearRC", func() {
	const (
		r   = 1000.0
		c   = 1e-4
		tau = 0.1
	)

	newRC := func(dt float64) *solvers.LinearRC {
		s, err := solvers.NewLinearRC(r, c, dt)
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	It("exposes the time constant", func() {
		Expect(newRC(1e-3).TimeConstant()).To(BeNumerically("~", tau, 1e-15))
	})

	It("implements the state equation", func() {
		d := newRC(1e-3).Derive(dynamo.State{1}, 5, 0)
		Expect(d[0]).To(BeNumerically("~", 40, 1e-9))
	})

	Context("reference step scenario", func() {
		var tr *dynamo.Trajectory

		BeforeEach(func() {
			var err error
			tr, err = newRC(2e-4).SolveStep(5, 0.5, 0)
			Expect(err).NotTo(HaveOccurred())
		})

		It("covers the whole grid", func() {
			Expect(tr.Len()).To(Equal(2501))
			Expect(tr.Input).To(HaveLen(2501))
			Expect(tr.Analytic).To(HaveLen(2501))
			Expect(tr.Time[2500]).To(BeNumerically("~", 0.5, 1e-12))
		})

		It("starts exactly at x0 and ends within 1% of A", func() {
			Expect(tr.States[0][0]).To(Equal(0.0))
			Expect(math.Abs(tr.Final()[0]-5) / 5).To(BeNumerically("<", 0.01))
		})

		It("tracks the analytic solution", func() {
			Expect(analytic.MaxAbsError(tr.Component(0), tr.Analytic)).To(BeNumerically("<", 0.01))
			Expect(tr.Err()).NotTo(HaveOccurred())
		})

		It("is recommended by the advisor", func() {
			Expect(newRC(2e-4).Advice().OK()).To(BeTrue())
		})
	})

	It("settles to within 1% of |A - x0| after 10τ", func() {
		tr, err := newRC(2e-4).SolveStep(5, 10*tau, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.States[0][0]).To(Equal(2.0))
		Expect(math.Abs(tr.Final()[0] - 5)).To(BeNumerically("<", 0.01*3))
	})

	It("converges at first order for a step", func() {
		var errs []float64
		for _, dt := range []float64{1e-3, 5e-4, 2.5e-4} {
			tr, err := newRC(dt).SolveStep(5, 0.5, 0)
			Expect(err).NotTo(HaveOccurred())
			errs = append(errs, analytic.MaxAbsError(tr.Component(0), tr.Analytic))
		}
		for _, ratio := range analytic.ConvergenceRatios(errs) {
			Expect(ratio).To(BeNumerically("~", 2, 0.2))
		}
	})

	It("extinguishes the ramp transient", func() {
		tr, err := newRC(2e-4).SolveRamp(2, 10*tau, 0)
		Expect(err).NotTo(HaveOccurred())

		offset := func(k int) float64 { return math.Abs(tr.States[k][0] - 2*(tr.Time[k]-tau)) }
		Expect(offset(0)).To(BeNumerically("~", 2*tau, 1e-12))
		Expect(offset(tr.Len() - 1)).To(BeNumerically("<", 1e-3*offset(0)))
		Expect(offset(tr.Len() / 2)).To(BeNumerically("<", offset(tr.Len()/4)))
	})

	It("approaches the sinusoidal steady state as dt shrinks", func() {
		var errs []float64
		for _, dt := range []float64{1e-3, 5e-4} {
			tr, err := newRC(dt).SolveSinusoid(1, 10, 1.5, 0)
			Expect(err).NotTo(HaveOccurred())
			errs = append(errs, analytic.MaxAbsErrorFrom(tr.Time, tr.Component(0), tr.Analytic, 10*tau))
		}
		Expect(errs[0]).To(BeNumerically("<", 0.02))
		Expect(errs[1]).To(BeNumerically("<", errs[0]))
	})

	It("accepts any source and an optional reference", func() {
		src := sources.Func(func(t float64) float64 { return 1 })
		tr, err := newRC(1e-3).Solve(src, 0.1, 0, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Analytic).To(BeNil())
		Expect(tr.Derived).To(HaveKey(solvers.StoredEnergy))
	})

	It("returns independent trajectories from one instance", func() {
		s := newRC(1e-3)
		a, err := s.SolveStep(5, 0.1, 0)
		Expect(err).NotTo(HaveOccurred())
		b, err := s.SolveStep(5, 0.1, 0)
		Expect(err).NotTo(HaveOccurred())

		Expect(floats.Equal(a.Component(0), b.Component(0))).To(BeTrue())
		a.States[5][0] = 99
		Expect(b.States[5][0]).NotTo(Equal(99.0))
	})

	It("is safe for concurrent Solve calls", func() {
		s := newRC(1e-3)
		want, _ := s.SolveStep(5, 0.2, 0)

		results := make(chan []float64, 8)
		for i := 0; i < 8; i++ {
			go func() {
				defer GinkgoRecover()
				tr, err := s.SolveStep(5, 0.2, 0)
				Expect(err).NotTo(HaveOccurred())
				results <- tr.Component(0)
			}()
		}
		for i := 0; i < 8; i++ {
			Expect(floats.Equal(<-results, want.Component(0))).To(BeTrue())
		}
	})

	It("reports an unstable dt without clamping it", func() {
		s := newRC(0.25)
		Expect(s.Advice().Stable).To(BeFalse())
		tr, err := s.SolveStep(1, 10, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Len()).To(Equal(41))
		Expect(math.Abs(tr.Final()[0] - 1)).To(BeNumerically(">", 1))
	})
})
