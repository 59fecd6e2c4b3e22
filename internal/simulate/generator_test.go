package simulate

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerateNicks(t *testing.T) {
	Convey("Given a generated roster", t, func() {
		nicks := generateNicks(50)

		Convey("Then every nick is unique and non-empty", func() {
			seen := map[string]bool{}
			for _, n := range nicks {
				So(n, ShouldNotBeEmpty)
				So(seen[n], ShouldBeFalse)
				seen[n] = true
			}
			So(len(seen), ShouldEqual, 50)
		})
	})
}

func TestGenerateScores(t *testing.T) {
	Convey("Given many generated americano scores", t, func() {
		Convey("Then the pool is always fully split with neither side at zero", func() {
			for i := 0; i < 200; i++ {
				s1, s2 := generateScores(true)
				So(s1+s2, ShouldEqual, americanoPointPool)
				So(s1, ShouldBeGreaterThan, 0)
				So(s2, ShouldBeGreaterThan, 0)
			}
		})
	})

	Convey("Given many generated normal scores", t, func() {
		Convey("Then one side always wins within the set cap", func() {
			for i := 0; i < 200; i++ {
				s1, s2 := generateScores(false)
				So(s1, ShouldBeGreaterThanOrEqualTo, 0)
				So(s2, ShouldBeGreaterThanOrEqualTo, 0)
				So(s1, ShouldNotEqual, s2)
				So(max(s1, s2), ShouldBeLessThanOrEqualTo, normalMaxScore)
			}
		})
	})
}

func TestPickDistinct(t *testing.T) {
	Convey("Given a roster of six", t, func() {
		nicks := []string{"a", "b", "c", "d", "e", "f"}

		Convey("Then four picks are all distinct roster members", func() {
			for i := 0; i < 50; i++ {
				picked := pickDistinct(nicks, 4)
				So(len(picked), ShouldEqual, 4)
				seen := map[string]bool{}
				for _, p := range picked {
					So(seen[p], ShouldBeFalse)
					seen[p] = true
					So(nicks, ShouldContain, p)
				}
			}
		})
	})
}

func TestGenerateGames(t *testing.T) {
	Convey("Given a generated batch of games", t, func() {
		config := &Config{NumGames: 100, DoublesRatio: 0.5, AmericanoRatio: 0.5}
		nicks := generateNicks(8)
		games := generateGames(config, nicks)

		Convey("Then every game has distinct, well-formed participants", func() {
			So(len(games), ShouldEqual, 100)
			for _, g := range games {
				So(g.Player1, ShouldNotBeEmpty)
				So(g.Player3, ShouldNotBeEmpty)
				So(g.Player1, ShouldNotEqual, g.Player3)
				// teammate slots are both set or both empty
				So(g.Player2 == "", ShouldEqual, g.Player4 == "")
				if g.Americano {
					So(g.Score1+g.Score2, ShouldEqual, americanoPointPool)
				}
			}
		})

		Convey("Then a small roster forces singles play", func() {
			tiny := generateGames(&Config{NumGames: 10, DoublesRatio: 1.0}, generateNicks(2))
			for _, g := range tiny {
				So(g.Player2, ShouldBeEmpty)
				So(g.Player4, ShouldBeEmpty)
			}
		})
	})
}
