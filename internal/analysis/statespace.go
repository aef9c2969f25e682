package analysis

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// StateSpace is the linear model dx/dt = A·x + B·u.
type StateSpace struct {
	A *mat.Dense
	B *mat.VecDense
}

// RCStateSpace is the 1x1 model of a linear RC with time constant tau.
func RCStateSpace(tau float64) StateSpace {
	return StateSpace{
		A: mat.NewDense(1, 1, []float64{-1 / tau}),
		B: mat.NewVecDense(1, []float64{1 / tau}),
	}
}

// RLCStateSpace models x = [vC, iL] of a series RLC.
func RLCStateSpace(r, l, c float64) StateSpace {
	return StateSpace{
		A: mat.NewDense(2, 2, []float64{
			0, 1 / c,
			-1 / l, -r / l,
		}),
		B: mat.NewVecDense(2, []float64{0, 1 / l}),
	}
}

// Derivative evaluates A·x + B·u.
func (s StateSpace) Derivative(x []float64, u float64) []float64 {
	n, _ := s.A.Dims()
	out := mat.NewVecDense(n, nil)
	out.MulVec(s.A, mat.NewVecDense(n, append([]float64(nil), x...)))
	out.AddScaledVec(out, u, s.B)
	return out.RawVector().Data
}

// Eigenvalues of A. A nil result means the factorization failed.
func (s StateSpace) Eigenvalues() []complex128 {
	var eig mat.Eigen
	if ok := eig.Factorize(s.A, mat.EigenNone); !ok {
		return nil
	}
	return eig.Values(nil)
}

// SpectralRadius of the Euler update matrix I + dt·A, max |1 + dt·λ|.
func (s StateSpace) SpectralRadius(dt float64) float64 {
	rho := 0.0
	for _, lambda := range s.Eigenvalues() {
		rho = math.Max(rho, cmplx.Abs(1+complex(dt, 0)*lambda))
	}
	return rho
}

// EulerStable reports whether every |1 + dt·λ| < 1.
func (s StateSpace) EulerStable(dt float64) bool {
	eigs := s.Eigenvalues()
	return len(eigs) > 0 && s.SpectralRadius(dt) < 1
}

// MaxStableDt is the supremum of dt with |1 + dt·λ| < 1 for all λ, which is
// min over λ of -2·Re(λ)/|λ|². It is 0 when some eigenvalue has Re(λ) >= 0.
func (s StateSpace) MaxStableDt() float64 {
	eigs := s.Eigenvalues()
	if len(eigs) == 0 {
		return 0
	}
	limit := math.Inf(1)
	for _, lambda := range eigs {
		re := real(lambda)
		if re >= 0 {
			return 0
		}
		mag2 := re*re + imag(lambda)*imag(lambda)
		limit = math.Min(limit, -2*re/mag2)
	}
	return limit
}
