// Package standings turns replay output into a positioned leaderboard.
package standings

import (
	"math"
	"sort"

	"github.com/birostris/PadelRanking/internal/domain/model"
	"github.com/birostris/PadelRanking/internal/domain/replay"
	"github.com/birostris/PadelRanking/internal/domain/skill"
)

// tieWindow is the exposed-skill difference below which two players are
// treated as truly tied and share a position.
const tieWindow = 1e-6

// Row is one leaderboard entry, ordered best first.
type Row struct {
	PlayerID int64
	Position int
	Skill    float64
	Rating   skill.Rating
	Record   model.Record
	Progress []model.ProgressPoint
}

// Compose sorts replay output into rows with 1-based positions. Ordering is
// exposed skill descending with player id descending as the deterministic
// tie-break; ties within the window share the earlier position.
func Compose(res replay.Result, rater skill.Rater) []Row {
	rows := make([]Row, 0, len(res.Ratings))
	for id, r := range res.Ratings {
		rows = append(rows, Row{
			PlayerID: id,
			Skill:    rater.Expose(r),
			Rating:   r,
			Record:   res.Records[id],
			Progress: res.Progress[id],
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Skill != rows[j].Skill {
			return rows[i].Skill > rows[j].Skill
		}
		return rows[i].PlayerID > rows[j].PlayerID
	})

	pos := 1
	for i := range rows {
		if i == 0 || math.Abs(rows[i].Skill-rows[i-1].Skill) > tieWindow {
			pos = i + 1
		}
		rows[i].Position = pos
	}
	return rows
}
