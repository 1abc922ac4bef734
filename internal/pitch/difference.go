package pitch

// WindowLength returns the number of lags examined for a buffer of n samples.
// The window is a quarter of the buffer so that buf[i+tau] stays in range
// for every i, tau < WindowLength(n).
func WindowLength(n int) int {
	return n / 4
}

// Difference computes the YIN difference function of buf:
//
//	d[tau] = sum_{i=0}^{N-1} (buf[i] - buf[i+tau])^2,  tau in [0, N)
//
// where N = WindowLength(len(buf)). If out has capacity for N values it is
// reused and fully overwritten, otherwise a new slice is allocated.
func Difference(buf []float32, out []float64) []float64 {
	n := WindowLength(len(buf))
	if cap(out) < n {
		out = make([]float64, n)
	}
	out = out[:n]

	for tau := 0; tau < n; tau++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			delta := float64(buf[i]) - float64(buf[i+tau])
			sum += delta * delta
		}
		out[tau] = sum
	}

	return out
}

// CumulativeMeanNormalize turns a difference function into its cumulative
// mean normalized form, in place:
//
//	d'[0] = 1
//	d'[tau] = d[tau] * tau / sum_{j=1}^{tau} d[j]
//
// Lags where the running sum is still zero are set to 1 so they can never
// be selected as a minimum. It reports false when the running sum never
// becomes positive, i.e. the buffer is silent or constant and has no
// meaningful period.
func CumulativeMeanNormalize(d []float64) bool {
	if len(d) == 0 {
		return false
	}

	d[0] = 1
	runningSum := 0.0
	for tau := 1; tau < len(d); tau++ {
		runningSum += d[tau]
		if runningSum <= 0 {
			d[tau] = 1
			continue
		}
		d[tau] *= float64(tau) / runningSum
	}

	return runningSum > 0
}
