package analysis

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// PowerSpectrum returns the single-sided amplitude spectrum of a real series and
// the frequency of each bin in Hz for sample spacing dt.
func PowerSpectrum(data []float64, dt float64) (freqs, amps []float64) {
	n := len(data)
	if n < 2 {
		return nil, nil
	}
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, data)

	freqs = make([]float64, len(coeffs))
	amps = make([]float64, len(coeffs))
	for k, c := range coeffs {
		freqs[k] = fft.Freq(k) / dt
		a := cmplx.Abs(c) / float64(n)
		if k != 0 && !(n%2 == 0 && k == n/2) {
			a *= 2
		}
		amps[k] = a
	}
	return freqs, amps
}

// Harmonics returns the amplitudes at f0, 2f0, ... count·f0 (Hz), reading the
// nearest bin. Integer numbers of periods in data keep leakage low.
func Harmonics(data []float64, dt, f0 float64, count int) []float64 {
	freqs, amps := PowerSpectrum(data, dt)
	if len(freqs) < 2 || f0 <= 0 {
		return nil
	}
	df := freqs[1] - freqs[0]
	out := make([]float64, count)
	for h := 1; h <= count; h++ {
		k := int(math.Round(float64(h) * f0 / df))
		if k < len(amps) {
			out[h-1] = amps[k]
		}
	}
	return out
}

// THD is the total harmonic distortion √(Σ_{h≥2} A_h²) / A_1.
func THD(harmonics []float64) float64 {
	if len(harmonics) == 0 || harmonics[0] == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range harmonics[1:] {
		sum += a * a
	}
	return math.Sqrt(sum) / harmonics[0]
}
