// Package skill provides the Bayesian skill-update capability used by the
// replay engine. It implements the closed-form two-team TrueSkill update
// rather than the general N-team factor-graph solver, since a racket match
// only ever rates exactly two teams.
package skill

import "math"

// Default rating environment constants, matching the reference TrueSkill
// parameterization.
const (
	defaultMu    = 25.0
	defaultSigma = defaultMu / 3.0
	defaultBeta  = defaultSigma / 2.0
	defaultTau   = defaultSigma / 100.0
)

// Rating is a player's skill belief: a Gaussian with mean Mu and
// uncertainty Sigma.
type Rating struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

// Rater is the narrow capability interface the replay engine depends on.
type Rater interface {
	// Rate returns updated ratings for both teams given their ranks
	// (lower is better, equal means draw) and a draw probability.
	Rate(team1, team2 []Rating, ranks [2]int, drawProbability float64) ([]Rating, []Rating, error)

	// Expose collapses a rating into a conservative scalar used for
	// ordering and display.
	Expose(r Rating) float64

	// DrawProbabilityFromMargin converts a score-margin signal into the
	// draw probability fed back into Rate. Size is the number of players
	// the margin model assumes per pairing.
	DrawProbabilityFromMargin(margin float64, size int) float64

	// CDF is the standard normal cumulative distribution function.
	CDF(x float64) float64

	// Beta returns the performance variance constant.
	Beta() float64

	// Prior returns the initial rating assigned to every player at the
	// start of a replay.
	Prior() Rating
}

// Option applies a configuration option to the TwoTeamRater.
type Option func(*TwoTeamRater)

// WithMu sets the prior mean.
func WithMu(mu float64) Option {
	return func(t *TwoTeamRater) {
		if mu > 0 {
			t.mu = mu
		}
	}
}

// WithSigma sets the prior uncertainty.
func WithSigma(sigma float64) Option {
	return func(t *TwoTeamRater) {
		if sigma > 0 {
			t.sigma = sigma
		}
	}
}

// WithBeta sets the performance variance.
func WithBeta(beta float64) Option {
	return func(t *TwoTeamRater) {
		if beta > 0 {
			t.beta = beta
		}
	}
}

// WithTau sets the dynamics factor added to every rating variance before an
// update, keeping ratings from freezing as sigma shrinks.
func WithTau(tau float64) Option {
	return func(t *TwoTeamRater) {
		if tau >= 0 {
			t.tau = tau
		}
	}
}

// TwoTeamRater implements Rater with the closed-form two-team update.
type TwoTeamRater struct {
	mu    float64
	sigma float64
	beta  float64
	tau   float64
}

// NewTwoTeamRater creates a rater with the default environment, adjusted by
// the given options.
func NewTwoTeamRater(opts ...Option) *TwoTeamRater {
	t := &TwoTeamRater{
		mu:    defaultMu,
		sigma: defaultSigma,
		beta:  defaultBeta,
		tau:   defaultTau,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Prior returns the initial rating for an unrated player.
func (t *TwoTeamRater) Prior() Rating {
	return Rating{Mu: t.mu, Sigma: t.sigma}
}

// Beta returns the performance variance constant.
func (t *TwoTeamRater) Beta() float64 { return t.beta }

// CDF is the standard normal cumulative distribution function.
func (t *TwoTeamRater) CDF(x float64) float64 { return normCDF(x) }

// Expose returns mu - k*sigma with k = mu0/sigma0, so an uncertain rating
// ranks conservatively low until enough matches tighten it.
func (t *TwoTeamRater) Expose(r Rating) float64 {
	k := t.mu / t.sigma
	return r.Mu - k*r.Sigma
}

// maxDrawProbability caps the margin-to-probability mapping strictly below
// 1. Extreme margins would otherwise round to exactly 1.0 in float64, which
// Rate must reject; the cap must also keep the inverse margin finite, so it
// sits well inside the representable range rather than one ulp under 1.
const maxDrawProbability = 1 - 1e-9

// DrawProbabilityFromMargin is the closed-form inverse of the draw-margin
// formula: the probability mass within +/- margin of a tied performance.
// The result saturates at maxDrawProbability so every stored score margin
// stays ratable, however lopsided.
func (t *TwoTeamRater) DrawProbabilityFromMargin(margin float64, size int) float64 {
	if size < 1 {
		size = 1
	}
	p := 2*normCDF(margin/(math.Sqrt(float64(size))*t.beta)) - 1
	return math.Min(p, maxDrawProbability)
}

// drawMargin converts a draw probability back into the performance-space
// margin epsilon for a pairing of n players.
func (t *TwoTeamRater) drawMargin(drawProbability float64, n int) float64 {
	return normPPF((drawProbability+1)/2) * math.Sqrt(float64(n)) * t.beta
}

// outcome of a team in a rated match, seen from that team's side.
type outcome int

const (
	outcomeLoss outcome = -1
	outcomeDraw outcome = 0
	outcomeWin  outcome = 1
)

// Rate applies the two-team update and returns new ratings in team order.
// Input slices are not modified.
func (t *TwoTeamRater) Rate(team1, team2 []Rating, ranks [2]int, drawProbability float64) ([]Rating, []Rating, error) {
	if len(team1) == 0 || len(team2) == 0 {
		return nil, nil, ErrEmptyTeam
	}
	if drawProbability < 0 || drawProbability >= 1 || math.IsNaN(drawProbability) {
		return nil, nil, ErrBadDrawProbability
	}

	var o1, o2 outcome
	switch {
	case ranks[0] < ranks[1]:
		o1, o2 = outcomeWin, outcomeLoss
	case ranks[0] > ranks[1]:
		o1, o2 = outcomeLoss, outcomeWin
	default:
		o1, o2 = outcomeDraw, outcomeDraw
	}

	n := len(team1) + len(team2)
	margin := t.drawMargin(drawProbability, n)

	tau2 := t.tau * t.tau
	varSum := 0.0
	for _, r := range team1 {
		varSum += r.Sigma*r.Sigma + tau2
	}
	for _, r := range team2 {
		varSum += r.Sigma*r.Sigma + tau2
	}
	c := math.Sqrt(float64(n)*t.beta*t.beta + varSum)

	mean1 := teamMean(team1)
	mean2 := teamMean(team2)

	out1 := t.rateTeam(team1, mean1, mean2, o1, margin, c)
	out2 := t.rateTeam(team2, mean2, mean1, o2, margin, c)
	return out1, out2, nil
}

// rateTeam applies the truncated-Gaussian correction to every member of one
// team. selfMean and otherMean are the summed means of the two sides.
func (t *TwoTeamRater) rateTeam(self []Rating, selfMean, otherMean float64, o outcome, margin, c float64) []Rating {
	var v, w float64
	mult := 1.0
	switch o {
	case outcomeDraw:
		v = vWithinMargin((selfMean-otherMean)/c, margin/c)
		w = wWithinMargin((selfMean-otherMean)/c, margin/c)
	case outcomeWin:
		v = vExceedsMargin((selfMean-otherMean)/c, margin/c)
		w = wExceedsMargin((selfMean-otherMean)/c, margin/c)
	case outcomeLoss:
		v = vExceedsMargin((otherMean-selfMean)/c, margin/c)
		w = wExceedsMargin((otherMean-selfMean)/c, margin/c)
		mult = -1.0
	}

	tau2 := t.tau * t.tau
	out := make([]Rating, len(self))
	for i, r := range self {
		variance := r.Sigma*r.Sigma + tau2
		out[i] = Rating{
			Mu:    r.Mu + mult*(variance/c)*v,
			Sigma: math.Sqrt(variance * (1 - (variance/(c*c))*w)),
		}
	}
	return out
}

func teamMean(team []Rating) float64 {
	sum := 0.0
	for _, r := range team {
		sum += r.Mu
	}
	return sum
}

// WinProbability estimates P(team1 beats team2) from current ratings alone.
// Teams may have unequal sizes; the estimate is stateless.
func WinProbability(r Rater, team1, team2 []Rating) float64 {
	delta := teamMean(team1) - teamMean(team2)
	varSum := 0.0
	for _, p := range team1 {
		varSum += p.Sigma * p.Sigma
	}
	for _, p := range team2 {
		varSum += p.Sigma * p.Sigma
	}
	size := len(team1) + len(team2)
	denom := math.Sqrt(float64(size)*r.Beta()*r.Beta() + varSum)
	return r.CDF(delta / denom)
}
