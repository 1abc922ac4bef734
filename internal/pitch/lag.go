package pitch

// minLag is the first lag considered a period candidate. Lags 0 and 1 are
// too short to be meaningful.
const minLag = 2

// AbsoluteThreshold searches a normalized difference function for the first
// lag whose value drops below threshold, then follows the descent to the
// bottom of that dip. The search stops at the first dip: later lags are
// lower frequencies and are not considered once a candidate is found.
//
// It returns the lag, the confidence 1 - d[tau] and whether a lag was found.
func AbsoluteThreshold(d []float64, threshold float64) (int, float64, bool) {
	for tau := minLag; tau < len(d); tau++ {
		if d[tau] >= threshold {
			continue
		}
		for tau+1 < len(d) && d[tau+1] < d[tau] {
			tau++
		}
		return tau, 1 - d[tau], true
	}

	return -1, 0, false
}

// ParabolicInterpolation refines an integer lag to a fractional one by
// fitting a parabola through d[tau-1], d[tau] and d[tau+1] and returning
// its vertex. At either edge of d only one neighbour exists; the lag with
// the smaller value is returned unrefined, preferring tau on ties.
func ParabolicInterpolation(d []float64, tau int) float64 {
	x0 := tau - 1
	if tau < 1 {
		x0 = tau
	}
	x2 := tau + 1
	if x2 >= len(d) {
		x2 = tau
	}

	if x0 == tau {
		if d[tau] <= d[x2] {
			return float64(tau)
		}
		return float64(x2)
	}
	if x2 == tau {
		if d[tau] <= d[x0] {
			return float64(tau)
		}
		return float64(x0)
	}

	s0, s1, s2 := d[x0], d[tau], d[x2]
	a := (s0 + s2 - 2*s1) / 2
	b := (s2 - s0) / 2
	if a == 0 {
		return float64(tau)
	}

	return float64(tau) - b/(2*a)
}
