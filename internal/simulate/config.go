// Package simulate seeds a running ranking server with generated players
// and match results, then fetches the leaderboard and sanity-checks it.
package simulate

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL        string        // base URL of the service
	NumPlayers     int           // players to register
	NumGames       int           // matches to submit
	Workers        int           // concurrent submit workers
	Timeout        time.Duration // HTTP request timeout
	AmericanoRatio float64       // fraction of matches using americano scoring
	DoublesRatio   float64       // fraction of matches played 2v2
	Verbose        bool          // enable debug logging
}

// Stats holds run statistics.
type Stats struct {
	PlayersCreated int
	GamesGenerated int
	GamesSubmitted int
	GamesAccepted  int
	GamesFailed    int
	RankingRows    int
	StartTime      time.Time
	Duration       time.Duration
}

// game is a match result as submitted to POST /data/add_game.
type game struct {
	Player1   string `json:"player1"`
	Player2   string `json:"player2,omitempty"`
	Player3   string `json:"player3"`
	Player4   string `json:"player4,omitempty"`
	Score1    int    `json:"score1"`
	Score2    int    `json:"score2"`
	Americano bool   `json:"americano"`
}

// rankingRow mirrors one GET /data/rankings entry.
type rankingRow struct {
	Name      string `json:"Name"`
	Position  int    `json:"Position"`
	TrueSkill struct {
		Ranking float64 `json:"ranking"`
		Mu      float64 `json:"mu"`
		Sigma   float64 `json:"sigma"`
	} `json:"TrueSkill"`
	Record struct {
		Wins   int `json:"wins"`
		Draws  int `json:"draws"`
		Losses int `json:"losses"`
	} `json:"Record"`
}
