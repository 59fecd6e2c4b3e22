package simulate

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// Score shape constants for generated results.
const (
	normalMaxScore     = 7
	americanoPointPool = 32
	randomDivisor      = 1_000_000
)

// randomFloat returns a float64 in [0, 1) using crypto/rand.
func randomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomDivisor))
	return float64(n.Int64()) / float64(randomDivisor)
}

// randomInt returns an int in [0, n).
func randomInt(n int) int {
	if n <= 1 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateNicks builds a roster of unique nicks. A uuid suffix keeps reruns
// against the same database from colliding.
func generateNicks(n int) []string {
	nicks := make([]string, n)
	for i := range nicks {
		nicks[i] = fmt.Sprintf("sim-%03d-%s", i+1, uuid.NewString()[:8])
	}
	return nicks
}

// generateGames builds match results over the roster. Each game picks
// distinct players, so the server never sees a player facing themselves.
func generateGames(config *Config, nicks []string) []game {
	games := make([]game, config.NumGames)
	for i := range games {
		doubles := randomFloat() < config.DoublesRatio && len(nicks) >= 4
		americano := randomFloat() < config.AmericanoRatio

		picked := pickDistinct(nicks, map[bool]int{true: 4, false: 2}[doubles])
		g := game{Americano: americano}
		if doubles {
			g.Player1, g.Player2, g.Player3, g.Player4 = picked[0], picked[1], picked[2], picked[3]
		} else {
			g.Player1, g.Player3 = picked[0], picked[1]
		}
		g.Score1, g.Score2 = generateScores(americano)
		games[i] = g
	}
	return games
}

// generateScores produces a plausible score pair for the format. Americano
// results split a fixed point pool so the total is never zero.
func generateScores(americano bool) (int, int) {
	if americano {
		s1 := 1 + randomInt(americanoPointPool-1)
		return s1, americanoPointPool - s1
	}
	winner := normalMaxScore - randomInt(2)
	loser := randomInt(winner)
	if randomInt(2) == 0 {
		return winner, loser
	}
	return loser, winner
}

// pickDistinct selects k distinct nicks by partial shuffle.
func pickDistinct(nicks []string, k int) []string {
	idx := make([]int, len(nicks))
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + randomInt(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	out := make([]string, k)
	for i := 0; i < k; i++ {
		out[i] = nicks[idx[i]]
	}
	return out
}
