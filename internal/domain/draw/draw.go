// Package draw estimates, from a match's score margin, the probability that
// the result should be treated as a near-draw for rating purposes.
package draw

import (
	"math"

	"github.com/birostris/PadelRanking/internal/domain/model"
)

// Margin-signal bounds. A signal of 1 means the scores were as close as the
// format allows; larger signals mean more decisive results.
const (
	minSignal          = 1.0
	maxAmericanoSignal = 8.0

	// normalSlack is subtracted from a normal-format margin before it
	// becomes a signal, so 6-4 still counts as a close match.
	normalSlack = 2.0

	// pairingSize is the team size the margin-to-probability mapping
	// assumes. Fixed for padel regardless of singles or doubles.
	pairingSize = 2
)

// Prober is the slice of the skill capability the model needs.
type Prober interface {
	DrawProbabilityFromMargin(margin float64, size int) float64
}

// MarginSignal maps a score pair and format to a margin signal in
// performance space. It is a pure function of its arguments.
func MarginSignal(score1, score2 int, format model.Format) float64 {
	diff := math.Abs(float64(score1 - score2))
	if format == model.FormatAmericano {
		// Americano scores run to a fixed point total, so the margin is
		// judged relative to a quarter of the points played. Degenerate
		// 0-0 results are rejected at match creation and cannot reach
		// this point; the clamp keeps tiny totals safe regardless.
		total := float64(score1 + score2)
		return remapClamped(diff/2, minSignal, total/4, minSignal, maxAmericanoSignal)
	}
	return math.Max(minSignal, diff-normalSlack)
}

// Probability computes the draw probability fed into the rating update.
func Probability(p Prober, score1, score2 int, format model.Format) float64 {
	return p.DrawProbabilityFromMargin(MarginSignal(score1, score2, format), pairingSize)
}

// remapClamped linearly maps f from [oldMin, oldMax] onto [newMin, newMax],
// clamping at both ends. Values at or below oldMin return newMin, values at
// or above oldMax return newMax; a collapsed source range yields newMin.
func remapClamped(f, oldMin, oldMax, newMin, newMax float64) float64 {
	if f <= oldMin || oldMax <= oldMin {
		return newMin
	}
	if f >= oldMax {
		return newMax
	}
	v := (f-oldMin)*(newMax-newMin)/(oldMax-oldMin) + newMin
	return math.Min(newMax, math.Max(newMin, v))
}
