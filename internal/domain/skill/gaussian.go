package skill

import "math"

// Denominators below this are treated as zero when evaluating the truncated
// Gaussian corrections, falling back to the limit values.
const vanishing = 2.222758749e-162

// normPDF is the standard normal density.
func normPDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// normPPF is the inverse of normCDF.
func normPPF(p float64) float64 {
	return -math.Sqrt2 * math.Erfcinv(2*p)
}

// vExceedsMargin is the additive mean correction for a win decided by more
// than the draw margin. diff and margin are already scaled by c.
func vExceedsMargin(diff, margin float64) float64 {
	denom := normCDF(diff - margin)
	if denom < vanishing {
		return -diff + margin
	}
	return normPDF(diff-margin) / denom
}

// wExceedsMargin is the multiplicative variance correction for a win.
func wExceedsMargin(diff, margin float64) float64 {
	denom := normCDF(diff - margin)
	if denom < vanishing {
		if diff < 0 {
			return 1
		}
		return 0
	}
	v := vExceedsMargin(diff, margin)
	return v * (v + diff - margin)
}

// vWithinMargin is the mean correction when the result landed inside the
// draw margin. Odd in diff.
func vWithinMargin(diff, margin float64) float64 {
	abs := math.Abs(diff)
	denom := normCDF(margin-abs) - normCDF(-margin-abs)
	if denom < vanishing {
		if diff < 0 {
			return -diff - margin
		}
		return -diff + margin
	}
	num := normPDF(-margin-abs) - normPDF(margin-abs)
	if diff < 0 {
		return -num / denom
	}
	return num / denom
}

// wWithinMargin is the variance correction for a draw.
func wWithinMargin(diff, margin float64) float64 {
	abs := math.Abs(diff)
	denom := normCDF(margin-abs) - normCDF(-margin-abs)
	if denom < vanishing {
		return 1
	}
	v := vWithinMargin(abs, margin)
	return v*v + ((margin-abs)*normPDF(margin-abs)-(-margin-abs)*normPDF(-margin-abs))/denom
}
