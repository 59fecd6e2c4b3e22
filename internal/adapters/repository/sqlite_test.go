package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/birostris/PadelRanking/internal/adapters/repository"
	"github.com/birostris/PadelRanking/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()
	store, err := repository.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPlayerLifecycle(t *testing.T) {
	Convey("Given an empty store", t, func() {
		store := newTestStore(t)
		ctx := context.Background()

		Convey("When creating players", func() {
			anna, err := store.CreatePlayer(ctx, "Anna", "Svensson", "anna")
			So(err, ShouldBeNil)
			bjorn, err := store.CreatePlayer(ctx, "Björn", "Larsson", "bjorn")
			So(err, ShouldBeNil)

			Convey("Then ids are allocated sequentially from one", func() {
				So(anna.ID, ShouldEqual, int64(1))
				So(bjorn.ID, ShouldEqual, int64(2))
			})

			Convey("Then listing returns them in id order", func() {
				players, err := store.ListPlayers(ctx)
				So(err, ShouldBeNil)
				So(players, ShouldResemble, []model.Player{anna, bjorn})
			})

			Convey("Then nicks resolve to ids", func() {
				id, err := store.PlayerIDByNick(ctx, "bjorn")
				So(err, ShouldBeNil)
				So(id, ShouldEqual, bjorn.ID)
			})

			Convey("Then an unknown nick is reported as missing", func() {
				_, err := store.PlayerIDByNick(ctx, "nobody")
				So(err, ShouldWrap, repository.ErrPlayerNotFound)
			})

			Convey("Then a duplicate nick is rejected", func() {
				_, err := store.CreatePlayer(ctx, "Another", "Anna", "anna")
				So(err, ShouldWrap, repository.ErrDuplicateNick)
			})

			Convey("Then deleting by nick removes the player", func() {
				So(store.DeletePlayer(ctx, "anna"), ShouldBeNil)
				players, err := store.ListPlayers(ctx)
				So(err, ShouldBeNil)
				So(len(players), ShouldEqual, 1)
				So(players[0].Nick, ShouldEqual, "bjorn")
			})

			Convey("Then deleting an unknown nick fails", func() {
				So(store.DeletePlayer(ctx, "nobody"), ShouldWrap, repository.ErrPlayerNotFound)
			})
		})

		Convey("Then listing an empty table yields no players", func() {
			players, err := store.ListPlayers(ctx)
			So(err, ShouldBeNil)
			So(players, ShouldBeEmpty)
		})
	})
}

func TestMatchLifecycle(t *testing.T) {
	Convey("Given a store with four players", t, func() {
		store := newTestStore(t)
		ctx := context.Background()
		for _, nick := range []string{"p1", "p2", "p3", "p4"} {
			_, err := store.CreatePlayer(ctx, nick, "", nick)
			So(err, ShouldBeNil)
		}

		Convey("When recording matches", func() {
			singles, err := store.CreateMatch(ctx,
				model.Team{First: 1}, model.Team{First: 3}, 6, 2, model.FormatNormal)
			So(err, ShouldBeNil)
			doubles, err := store.CreateMatch(ctx,
				model.Team{First: 1, Second: 2}, model.Team{First: 3, Second: 4},
				18, 14, model.FormatAmericano)
			So(err, ShouldBeNil)

			Convey("Then ids are allocated sequentially from one", func() {
				So(singles.ID, ShouldEqual, int64(1))
				So(doubles.ID, ShouldEqual, int64(2))
			})

			Convey("Then listing round-trips teams, scores, and format", func() {
				matches, err := store.ListMatches(ctx)
				So(err, ShouldBeNil)
				So(len(matches), ShouldEqual, 2)
				So(matches[0].Team1, ShouldResemble, model.Team{First: 1})
				So(matches[0].Team2, ShouldResemble, model.Team{First: 3})
				So(matches[0].Format, ShouldEqual, model.FormatNormal)
				So(matches[1].Team1, ShouldResemble, model.Team{First: 1, Second: 2})
				So(matches[1].Team2, ShouldResemble, model.Team{First: 3, Second: 4})
				So(matches[1].Score1, ShouldEqual, 18)
				So(matches[1].Score2, ShouldEqual, 14)
				So(matches[1].Format, ShouldEqual, model.FormatAmericano)
				So(matches[0].Played.Equal(singles.Played), ShouldBeTrue)
			})

			Convey("Then the played time is a recent UTC second", func() {
				So(singles.Played.Location(), ShouldEqual, time.UTC)
				So(singles.Played, ShouldHappenWithin, time.Minute, time.Now().UTC())
				So(singles.Played.Nanosecond(), ShouldEqual, 0)
			})

			Convey("Then deleting a match removes only that match", func() {
				So(store.DeleteMatch(ctx, singles.ID), ShouldBeNil)
				matches, err := store.ListMatches(ctx)
				So(err, ShouldBeNil)
				So(len(matches), ShouldEqual, 1)
				So(matches[0].ID, ShouldEqual, doubles.ID)
			})

			Convey("Then deleting an unknown match fails", func() {
				So(store.DeleteMatch(ctx, 999), ShouldWrap, repository.ErrMatchNotFound)
			})

			Convey("Then a deleted id is reused by the next match", func() {
				So(store.DeleteMatch(ctx, doubles.ID), ShouldBeNil)
				again, err := store.CreateMatch(ctx,
					model.Team{First: 2}, model.Team{First: 4}, 7, 5, model.FormatNormal)
				So(err, ShouldBeNil)
				So(again.ID, ShouldEqual, doubles.ID)
			})

			Convey("Then clearing the log leaves players intact", func() {
				So(store.DeleteAllMatches(ctx), ShouldBeNil)
				matches, err := store.ListMatches(ctx)
				So(err, ShouldBeNil)
				So(matches, ShouldBeEmpty)
				players, err := store.ListPlayers(ctx)
				So(err, ShouldBeNil)
				So(len(players), ShouldEqual, 4)
			})
		})
	})
}

func TestMalformedPlayedAt(t *testing.T) {
	Convey("Given a stored match whose timestamp was corrupted", t, func() {
		path := filepath.Join(t.TempDir(), "corrupt.db")
		store, err := repository.NewSQLiteStore(path)
		So(err, ShouldBeNil)
		defer store.Close()

		ctx := context.Background()
		_, err = store.CreatePlayer(ctx, "A", "", "a")
		So(err, ShouldBeNil)
		_, err = store.CreatePlayer(ctx, "B", "", "b")
		So(err, ShouldBeNil)
		m, err := store.CreateMatch(ctx, model.Team{First: 1}, model.Team{First: 2}, 6, 3, model.FormatNormal)
		So(err, ShouldBeNil)

		raw, err := sql.Open("sqlite", path)
		So(err, ShouldBeNil)
		defer raw.Close()
		_, err = raw.ExecContext(ctx, `UPDATE games SET played_at = 'not-a-time' WHERE id = ?`, m.ID)
		So(err, ShouldBeNil)

		Convey("Then listing surfaces the corruption instead of a zero time", func() {
			_, err := store.ListMatches(ctx)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "played_at")
		})

		Convey("Then snapshots refuse the corrupted log too", func() {
			_, _, err := store.Snapshot(ctx)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSnapshot(t *testing.T) {
	Convey("Given a store with players and matches", t, func() {
		store := newTestStore(t)
		ctx := context.Background()
		_, err := store.CreatePlayer(ctx, "Only", "One", "only")
		So(err, ShouldBeNil)
		m, err := store.CreateMatch(ctx, model.Team{First: 1}, model.Team{First: 1}, 6, 3, model.FormatNormal)
		So(err, ShouldBeNil)

		Convey("When taking a snapshot", func() {
			players, matches, err := store.Snapshot(ctx)

			Convey("Then both views agree with the direct listings", func() {
				So(err, ShouldBeNil)
				So(len(players), ShouldEqual, 1)
				So(players[0].Nick, ShouldEqual, "only")
				So(len(matches), ShouldEqual, 1)
				So(matches[0].ID, ShouldEqual, m.ID)
				So(matches[0].Score1, ShouldEqual, 6)
			})
		})
	})
}

func TestInMemoryStore(t *testing.T) {
	Convey("Given an in-memory store", t, func() {
		store, err := repository.NewSQLiteStore(":memory:")
		So(err, ShouldBeNil)
		defer store.Close()

		Convey("Then it bootstraps the schema and accepts writes", func() {
			p, err := store.CreatePlayer(context.Background(), "Mem", "Ory", "mem")
			So(err, ShouldBeNil)
			So(p.ID, ShouldEqual, int64(1))
		})
	})
}
