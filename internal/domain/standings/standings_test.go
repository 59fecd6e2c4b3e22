package standings_test

import (
	"testing"

	"github.com/birostris/PadelRanking/internal/domain/model"
	"github.com/birostris/PadelRanking/internal/domain/replay"
	"github.com/birostris/PadelRanking/internal/domain/skill"
	"github.com/birostris/PadelRanking/internal/domain/standings"
	. "github.com/smartystreets/goconvey/convey"
)

func resultWith(ratings map[int64]skill.Rating) replay.Result {
	res := replay.Result{
		Ratings:  ratings,
		Records:  make(map[int64]model.Record, len(ratings)),
		Progress: make(map[int64][]model.ProgressPoint, len(ratings)),
	}
	for id := range ratings {
		res.Records[id] = model.Record{}
	}
	return res
}

func TestCompose(t *testing.T) {
	Convey("Given replay output for three players", t, func() {
		rater := skill.NewTwoTeamRater()
		res := resultWith(map[int64]skill.Rating{
			1: {Mu: 30, Sigma: 1},
			2: {Mu: 30, Sigma: 1},
			3: {Mu: 20, Sigma: 2},
		})

		rows := standings.Compose(res, rater)

		Convey("Then rows are ordered best skill first", func() {
			So(len(rows), ShouldEqual, 3)
			So(rows[0].Skill, ShouldBeGreaterThanOrEqualTo, rows[1].Skill)
			So(rows[1].Skill, ShouldBeGreaterThan, rows[2].Skill)
		})

		Convey("Then identical skills share a position, higher id first", func() {
			So(rows[0].PlayerID, ShouldEqual, int64(2))
			So(rows[1].PlayerID, ShouldEqual, int64(1))
			So(rows[0].Position, ShouldEqual, 1)
			So(rows[1].Position, ShouldEqual, 1)
		})

		Convey("Then the next distinct skill resumes at its ordinal position", func() {
			So(rows[2].PlayerID, ShouldEqual, int64(3))
			So(rows[2].Position, ShouldEqual, 3)
		})
	})

	Convey("Given players separated by more than the tie window", t, func() {
		rater := skill.NewTwoTeamRater()
		res := resultWith(map[int64]skill.Rating{
			1: {Mu: 30, Sigma: 1},
			2: {Mu: 30.001, Sigma: 1},
		})

		rows := standings.Compose(res, rater)

		Convey("Then positions are distinct", func() {
			So(rows[0].PlayerID, ShouldEqual, int64(2))
			So(rows[0].Position, ShouldEqual, 1)
			So(rows[1].Position, ShouldEqual, 2)
		})
	})

	Convey("Given empty replay output", t, func() {
		rater := skill.NewTwoTeamRater()
		rows := standings.Compose(resultWith(map[int64]skill.Rating{}), rater)

		Convey("Then the leaderboard is empty", func() {
			So(rows, ShouldBeEmpty)
		})
	})

	Convey("Given replay output with records and trajectories", t, func() {
		rater := skill.NewTwoTeamRater()
		res := resultWith(map[int64]skill.Rating{7: {Mu: 28, Sigma: 2}})
		res.Records[7] = model.Record{Wins: 3, Losses: 1}
		res.Progress[7] = []model.ProgressPoint{{MatchID: 0, Skill: 0}, {MatchID: 1, Skill: 5.5}}

		rows := standings.Compose(res, rater)

		Convey("Then the row carries them through unchanged", func() {
			So(rows[0].Record, ShouldResemble, model.Record{Wins: 3, Losses: 1})
			So(rows[0].Progress, ShouldResemble, res.Progress[7])
			So(rows[0].Rating, ShouldResemble, skill.Rating{Mu: 28, Sigma: 2})
		})
	})
}
