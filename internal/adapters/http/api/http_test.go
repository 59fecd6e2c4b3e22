package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	api "github.com/birostris/PadelRanking/internal/adapters/http/api"
	"github.com/birostris/PadelRanking/internal/adapters/repository"
	"github.com/birostris/PadelRanking/internal/app"
	"github.com/birostris/PadelRanking/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	if err := logger.Init(); err != nil {
		t.Fatalf("initializing logger: %v", err)
	}
	store, err := repository.NewSQLiteStore(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	svc := app.New(app.WithStore(store), app.WithDeleteSecret("hunter2"))
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decoding response from %s: %v", url, err)
	}
	return resp, decoded
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decoding response from %s: %v", url, err)
	}
	return resp
}

func addPlayer(t *testing.T, ts *httptest.Server, nick string) {
	t.Helper()
	resp, _ := postJSON(t, ts.URL+"/data/add_player",
		fmt.Sprintf(`{"firstname":%q,"nick":%q}`, nick, nick))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("adding player %q: status %d", nick, resp.StatusCode)
	}
}

func TestAddPlayerEndpoint(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ts := newTestServer(t)

		Convey("When posting a valid player", func() {
			resp, body := postJSON(t, ts.URL+"/data/add_player",
				`{"firstname":"Erik","lastname":"Nilsson","nick":"erik"}`)

			Convey("Then the player is created", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusCreated)
				So(body["id"], ShouldEqual, 1)
				So(body["nick"], ShouldEqual, "erik")
			})
		})

		Convey("When posting the same nick twice", func() {
			addPlayer(t, ts, "erik")
			resp, body := postJSON(t, ts.URL+"/data/add_player", `{"nick":"erik"}`)

			Convey("Then the duplicate is refused", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusConflict)
				So(body["code"], ShouldEqual, "duplicate_nick")
			})
		})

		Convey("When posting without a nick", func() {
			resp, body := postJSON(t, ts.URL+"/data/add_player", `{"firstname":"No"}`)

			Convey("Then the request is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(body["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When posting malformed JSON", func() {
			resp, _ := postJSON(t, ts.URL+"/data/add_player", `{"nick":`)

			Convey("Then the request is rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When listing players", func() {
			addPlayer(t, ts, "erik")
			addPlayer(t, ts, "lena")
			var players []map[string]any
			resp := getJSON(t, ts.URL+"/data/players", &players)

			Convey("Then both appear in id order", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(len(players), ShouldEqual, 2)
				So(players[0]["nick"], ShouldEqual, "erik")
				So(players[1]["nick"], ShouldEqual, "lena")
			})
		})
	})
}

func TestAddGameEndpoint(t *testing.T) {
	Convey("Given a server with registered players", t, func() {
		ts := newTestServer(t)
		for _, nick := range []string{"a", "b", "c", "d"} {
			addPlayer(t, ts, nick)
		}

		Convey("When posting a singles game with null teammates", func() {
			resp, body := postJSON(t, ts.URL+"/data/add_game",
				`{"player1":"a","player2":null,"player3":"b","player4":null,"score1":6,"score2":3}`)

			Convey("Then the game is recorded", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusCreated)
				So(body["id"], ShouldEqual, 1)
			})
		})

		Convey("When posting a doubles americano with id references", func() {
			resp, body := postJSON(t, ts.URL+"/data/add_game",
				`{"player1":1,"player2":2,"player3":3,"player4":4,"score1":20,"score2":12,"americano":true}`)

			Convey("Then the game is recorded", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusCreated)
				So(body["id"], ShouldEqual, 1)
			})
		})

		Convey("When a referenced player does not exist", func() {
			resp, body := postJSON(t, ts.URL+"/data/add_game",
				`{"player1":"ghost","player3":"b","score1":6,"score2":3}`)

			Convey("Then the game is refused", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
				So(body["code"], ShouldEqual, "unknown_player")
			})
		})

		Convey("When one team has a lone teammate", func() {
			resp, body := postJSON(t, ts.URL+"/data/add_game",
				`{"player1":"a","player2":"b","player3":"c","player4":null,"score1":6,"score2":3}`)

			Convey("Then the game is refused", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(body["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When posting a scoreless americano", func() {
			resp, _ := postJSON(t, ts.URL+"/data/add_game",
				`{"player1":"a","player2":"b","player3":"c","player4":"d","score1":0,"score2":0,"americano":true}`)

			Convey("Then the game is refused", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When listing games after a submission", func() {
			postJSON(t, ts.URL+"/data/add_game",
				`{"player1":"a","player3":"b","score1":6,"score2":3}`)
			var games []map[string]any
			resp := getJSON(t, ts.URL+"/data/games", &games)

			Convey("Then the game appears with joined nicks", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(len(games), ShouldEqual, 1)
				So(games[0]["player1"], ShouldEqual, "a")
				So(games[0]["player2"], ShouldBeNil)
				So(games[0]["player3"], ShouldEqual, "b")
				So(games[0]["americano"], ShouldEqual, false)
			})
		})
	})
}

func TestRankingsEndpoint(t *testing.T) {
	Convey("Given a server with a short match history", t, func() {
		ts := newTestServer(t)
		for _, nick := range []string{"a", "b", "c", "d"} {
			addPlayer(t, ts, nick)
		}
		postJSON(t, ts.URL+"/data/add_game",
			`{"player1":"a","player3":"b","score1":6,"score2":2}`)
		postJSON(t, ts.URL+"/data/add_game",
			`{"player1":"a","player2":"b","player3":"c","player4":"d","score1":21,"score2":11,"americano":true}`)

		Convey("When fetching the unfiltered rankings", func() {
			var entries []map[string]any
			resp := getJSON(t, ts.URL+"/data/rankings", &entries)

			Convey("Then every player has a positioned row", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(len(entries), ShouldEqual, 4)
				So(entries[0]["Name"], ShouldEqual, "a")
				So(entries[0]["Position"], ShouldEqual, 1)
				skill := entries[0]["TrueSkill"].(map[string]any)
				So(skill["ranking"], ShouldBeGreaterThan, 0.0)
			})
		})

		Convey("When fetching the singles rankings", func() {
			var entries []map[string]any
			resp := getJSON(t, ts.URL+"/data/rankings?filter=singles", &entries)

			Convey("Then only singles participants appear", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(len(entries), ShouldEqual, 2)
			})
		})

		Convey("When fetching stats", func() {
			getJSON(t, ts.URL+"/data/rankings", &[]map[string]any{})
			var stats map[string]any
			resp := getJSON(t, ts.URL+"/stats", &stats)

			Convey("Then counters reflect the stored log", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(stats["players"], ShouldEqual, 4)
				So(stats["matches"], ShouldEqual, 2)
			})
		})
	})
}

func TestDeleteGameEndpoint(t *testing.T) {
	Convey("Given a server with one recorded game", t, func() {
		ts := newTestServer(t)
		addPlayer(t, ts, "a")
		addPlayer(t, ts, "b")
		postJSON(t, ts.URL+"/data/add_game",
			`{"player1":"a","player3":"b","score1":6,"score2":4}`)

		Convey("When deleting with the wrong secret", func() {
			resp, body := postJSON(t, ts.URL+"/data/delete_game",
				`{"game_id":1,"pwd":"wrong"}`)

			Convey("Then the request is refused and the game survives", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusUnauthorized)
				So(body["code"], ShouldEqual, "unauthorized")
				var games []map[string]any
				getJSON(t, ts.URL+"/data/games", &games)
				So(len(games), ShouldEqual, 1)
			})
		})

		Convey("When deleting with the right secret", func() {
			resp, body := postJSON(t, ts.URL+"/data/delete_game",
				`{"game_id":1,"pwd":"hunter2"}`)

			Convey("Then the game is gone", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["deleted"], ShouldEqual, 1)
				var games []map[string]any
				getJSON(t, ts.URL+"/data/games", &games)
				So(games, ShouldBeEmpty)
			})
		})

		Convey("When deleting a game that does not exist", func() {
			resp, body := postJSON(t, ts.URL+"/data/delete_game",
				`{"game_id":99,"pwd":"hunter2"}`)

			Convey("Then the id is reported unknown", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
				So(body["code"], ShouldEqual, "unknown_match")
			})
		})
	})
}

func TestMethodGuards(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ts := newTestServer(t)

		Convey("Then write endpoints refuse GET", func() {
			for _, path := range []string{"/data/add_player", "/data/add_game", "/data/delete_game"} {
				resp, err := http.Get(ts.URL + path)
				So(err, ShouldBeNil)
				resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			}
		})

		Convey("Then read endpoints refuse POST", func() {
			for _, path := range []string{"/data/rankings", "/data/players", "/data/games", "/stats"} {
				resp, err := http.Post(ts.URL+path, "application/json", nil)
				So(err, ShouldBeNil)
				resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			}
		})

		Convey("Then the health endpoint serves scrapeable metrics", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(resp.Header.Get("Content-Type"), ShouldContainSubstring, "text/plain")
		})
	})
}
