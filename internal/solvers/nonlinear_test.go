package solvers_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/circuitsim/internal/components"
	"github.com/san-kum/circuitsim/internal/dynamo"
	"github.com/san-kum/circuitsim/internal/solvers"
	"github.com/san-kum/circuitsim/internal/sources"
)

var _ = Describe("NonlinearRC", func() {
	const c = 1e-4

	It("charges through a quadratic device", func() {
		s, err := solvers.NewNonlinearRC(c, 1e-5, components.NewDefaultQuadratic())
		Expect(err).NotTo(HaveOccurred())

		tr, err := s.SolveStep(5, 0.3, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Err()).NotTo(HaveOccurred())

		current := tr.Derived[solvers.DeviceCurrent]
		Expect(current).To(HaveLen(tr.Len()))
		Expect(tr.Input).To(HaveLen(tr.Len()))
		Expect(current[0]).To(BeNumerically("~", 0.25, 1e-12))

		// With e = A - vC, de/dt = -k·e²/C has e(t) = A/(1 + k·A·t/C).
		for k := 1; k < tr.Len(); k++ {
			Expect(tr.States[k][0]).To(BeNumerically(">=", tr.States[k-1][0]))
			Expect(current[k]).To(BeNumerically(">=", 0))
		}
		exact := 5 - 5/(1+0.01*5*0.3/c)
		Expect(tr.Final()[0]).To(BeNumerically("~", exact, 1e-3))
		Expect(tr.Final()[0]).To(BeNumerically("<", 5))
	})

	It("stores the device current at every sample", func() {
		q := components.NewDefaultQuadratic()
		s, _ := solvers.NewNonlinearRC(c, 1e-5, q)
		tr, err := s.Solve(sources.NewRamp(20), 0.1, 0)
		Expect(err).NotTo(HaveOccurred())
		for _, k := range []int{0, 1234, tr.Len() - 1} {
			Expect(tr.Derived[solvers.DeviceCurrent][k]).To(Equal(q.Current(tr.Input[k] - tr.States[k][0])))
		}
	})

	It("tracks a rising ramp with a constant lag", func() {
		s, _ := solvers.NewNonlinearRC(c, 1e-5, components.NewDefaultQuadratic())
		tr, err := s.Solve(sources.NewRamp(20), 0.5, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Err()).NotTo(HaveOccurred())

		// k·e²/C = slope at equilibrium.
		lag := tr.Input[tr.Len()-1] - tr.Final()[0]
		Expect(lag).To(BeNumerically("~", math.Sqrt(20*c/0.01), 1e-3))
	})

	It("runs away once a falling drive reverses the device", func() {
		// i = k·v² stays positive for v < 0, so the blowup time is a property
		// of the circuit and does not move with dt.
		times := make([]float64, 0, 2)
		for _, dt := range []float64{1e-5, 1e-6} {
			s, _ := solvers.NewNonlinearRC(c, dt, components.NewDefaultQuadratic())
			tr, err := s.SolveSinusoid(5, 20, 0.2, 0)
			Expect(err).NotTo(HaveOccurred())

			var div *dynamo.DivergenceError
			Expect(errors.As(tr.Err(), &div)).To(BeTrue())
			times = append(times, div.Time)
		}
		Expect(times[0]).To(BeNumerically("~", times[1], 1e-3))
	})

	It("reports divergence without truncating the run", func() {
		s, err := solvers.NewNonlinearRC(c, 0.05, components.NewDefaultQuadratic())
		Expect(err).NotTo(HaveOccurred())

		tr, err := s.SolveStep(100, 5, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Len()).To(Equal(101))
		Expect(tr.Diverged()).To(BeTrue())
		Expect(errors.Is(tr.Err(), dynamo.ErrNumericalDivergence)).To(BeTrue())

		var div *dynamo.DivergenceError
		Expect(errors.As(tr.Err(), &div)).To(BeTrue())
		Expect(div.Step).To(BeNumerically(">", 0))
		Expect(div.Component).To(Equal(0))
	})

	It("advises against a dt beyond 2C/g_max", func() {
		s, _ := solvers.NewNonlinearRC(c, 0.05, components.NewDefaultQuadratic())
		adv, err := s.Advice(-100, 100)
		Expect(err).NotTo(HaveOccurred())
		Expect(adv.Stable).To(BeFalse())
		Expect(adv.StabilityLimit).To(BeNumerically("~", 2*c/(2*0.01*100), 1e-12))

		opaque, _ := solvers.NewNonlinearRC(c, 1e-5, components.DeviceFunc(math.Tanh))
		_, err = opaque.Advice(-1, 1)
		Expect(errors.Is(err, dynamo.ErrDomainMismatch)).To(BeTrue())
	})

	It("accepts any device", func() {
		r, err := components.NewResistor(1000)
		Expect(err).NotTo(HaveOccurred())
		s, _ := solvers.NewNonlinearRC(c, 2e-4, r)
		rc, _ := solvers.NewLinearRC(1000, c, 2e-4)

		a, err := s.SolveStep(5, 0.5, 0)
		Expect(err).NotTo(HaveOccurred())
		b, err := rc.SolveStep(5, 0.5, 0)
		Expect(err).NotTo(HaveOccurred())
		for k := range a.States {
			Expect(a.States[k][0]).To(BeNumerically("~", b.States[k][0], 1e-9))
		}
	})
})

var _ = Describe("RCDiode", func() {
	newExam := func() *solvers.RCDiode {
		d, err := components.NewScaledXDiode(1e-3)
		Expect(err).NotTo(HaveOccurred())
		s, err := solvers.NewRCDiode(50e3, 1e-6, 1e-4, d)
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	It("runs the exam scenario with the default drive", func() {
		tr, err := newExam().Simulate(2, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Len()).To(Equal(20001))
		Expect(tr.States[0][0]).To(Equal(3.0))
		Expect(tr.Analytic).To(BeNil())
		Expect(tr.Err()).NotTo(HaveOccurred())

		Expect(tr.Input[1234]).To(BeNumerically("~", 10*math.Sin(10*tr.Time[1234]), 1e-12))
		for _, x := range tr.States {
			Expect(math.Abs(x[0])).To(BeNumerically("<", 11))
		}
		Expect(tr.Derived[solvers.DeviceCurrent]).To(HaveLen(tr.Len()))
	})

	It("implements the state equation", func() {
		s := newExam()
		// Vs - Vo = 5 V sits in the upper region: (5-3)² + 2 = 6 mA.
		d := s.Derive(dynamo.State{1}, 6, 0)
		Expect(d[0]).To(BeNumerically("~", (6e-3-1/50e3)/1e-6, 1e-6))
	})

	It("accepts an external source", func() {
		tr, err := newExam().Solve(sources.NewStep(2), 0.05, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Input[0]).To(Equal(2.0))
		Expect(tr.Final()[0]).To(BeNumerically(">", 0))
		Expect(tr.Final()[0]).To(BeNumerically("<", 2))
	})
})

var _ = Describe("construction", func() {
	DescribeTable("rejects non-positive constants",
		func(build func() error) {
			Expect(errors.Is(build(), dynamo.ErrInvalidParameter)).To(BeTrue())
		},
		Entry("rc R", func() error { _, err := solvers.NewLinearRC(0, 1e-4, 1e-3); return err }),
		Entry("rc C", func() error { _, err := solvers.NewLinearRC(1e3, -1, 1e-3); return err }),
		Entry("rc dt", func() error { _, err := solvers.NewLinearRC(1e3, 1e-4, 0); return err }),
		Entry("rlc L", func() error { _, err := solvers.NewRLC(10, 0, 1e-4, 1e-5); return err }),
		Entry("rlc NaN", func() error { _, err := solvers.NewRLC(math.NaN(), 0.01, 1e-4, 1e-5); return err }),
		Entry("diode R_LOAD", func() error {
			_, err := solvers.NewRCDiode(0, 1e-6, 1e-4, components.NewXDiode())
			return err
		}),
		Entry("nonlinear dt", func() error {
			_, err := solvers.NewNonlinearRC(1e-4, math.Inf(1), components.NewDefaultQuadratic())
			return err
		}),
	)

	It("rejects missing devices and sources up front", func() {
		_, err := solvers.NewNonlinearRC(1e-4, 1e-5, nil)
		Expect(errors.Is(err, dynamo.ErrDomainMismatch)).To(BeTrue())
		_, err = solvers.NewRCDiode(50e3, 1e-6, 1e-4, nil)
		Expect(errors.Is(err, dynamo.ErrDomainMismatch)).To(BeTrue())

		rc, _ := solvers.NewLinearRC(1e3, 1e-4, 1e-3)
		_, err = rc.Solve(nil, 1, 0, nil)
		Expect(errors.Is(err, dynamo.ErrDomainMismatch)).To(BeTrue())
	})

	It("rejects a non-positive end time", func() {
		rc, _ := solvers.NewLinearRC(1e3, 1e-4, 1e-3)
		_, err := rc.SolveStep(5, 0, 0)
		Expect(errors.Is(err, dynamo.ErrInvalidParameter)).To(BeTrue())
	})
})
