// Package model contains domain models passed between layers.
package model

import "time"

// NoPlayer is the sentinel player id marking an absent second teammate in a
// singles match. It never resolves to a stored player.
const NoPlayer int64 = 0

// Format selects the scoring format of a match. The format decides how a
// score margin is translated into a draw probability for rating purposes.
type Format int

const (
	// FormatNormal is standard set-style padel scoring.
	FormatNormal Format = iota
	// FormatAmericano is point-based americano scoring, whose larger score
	// magnitudes need a different margin mapping.
	FormatAmericano
)

// String implements fmt.Stringer.
func (f Format) String() string {
	if f == FormatAmericano {
		return "americano"
	}
	return "normal"
}

// Player is a registered player. Nicks are unique and case-sensitive.
type Player struct {
	ID        int64
	FirstName string
	LastName  string
	Nick      string
}

// Team is one side of a match: a solo player or a pair. Second is NoPlayer
// for a solo team.
type Team struct {
	First  int64
	Second int64
}

// Solo reports whether the team has a single member.
func (t Team) Solo() bool { return t.Second == NoPlayer }

// Members returns the real player ids on the team, sentinel excluded.
func (t Team) Members() []int64 {
	if t.Solo() {
		return []int64{t.First}
	}
	return []int64{t.First, t.Second}
}

// Match is an immutable recorded result. IDs are densely allocated in
// insertion order, which the replay engine treats as the authoritative
// chronology.
type Match struct {
	ID     int64
	Team1  Team
	Team2  Team
	Score1 int
	Score2 int
	Format Format
	Played time.Time
}

// Singles reports whether the match was played one against one. Team
// membership is decided by the second slot of team one, matching how
// matches are recorded.
func (m Match) Singles() bool { return m.Team1.Solo() }

// Record accumulates a player's win/draw/loss tally. It is derived purely
// from score comparisons and is independent of the skill model.
type Record struct {
	Wins   int `json:"wins"`
	Draws  int `json:"draws"`
	Losses int `json:"losses"`
}

// Games returns the total number of counted matches.
func (r Record) Games() int { return r.Wins + r.Draws + r.Losses }

// ProgressPoint is one checkpoint of a player's exposed skill after a match.
// A player's trajectory is strictly non-decreasing in MatchID.
type ProgressPoint struct {
	MatchID int64   `json:"match"`
	Skill   float64 `json:"skill"`
}
