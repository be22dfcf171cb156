package model_test

import (
	"testing"

	"github.com/okian/mjoy/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func name(s string) *string { return &s }

func TestMinimalPathLookup(t *testing.T) {
	Convey("Given a lookup with two controllers, one named", t, func() {
		mpl := model.NewMinimalPathLookup([]model.NamedPath{
			{FullPath: "a", MinimalPath: "2.1:1.0", RootEventPath: "/dev/input/event5", CommonName: name("Amy")},
			{FullPath: "b", MinimalPath: "2.2:1.0", RootEventPath: "/dev/input/event6"},
		})
		epl := model.EventPathLookup{"/dev/input/event6": "2.2:1.0"}

		Convey("When resolving a live kernel path", func() {
			np, ok := mpl.Resolve(epl, "/dev/input/event6")

			Convey("Then the record is found through the minimal path", func() {
				So(ok, ShouldBeTrue)
				So(np.FullPath, ShouldEqual, "b")
			})

			Convey("And unknown kernel paths do not resolve", func() {
				_, ok := mpl.Resolve(epl, "/dev/input/event9")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When binding an already used name to the other controller", func() {
			stolen, ok := mpl.Bind("2.2:1.0", "Amy")

			Convey("Then the previous holder is unbound", func() {
				So(ok, ShouldBeTrue)
				So(stolen, ShouldEqual, 1)
				So(mpl["2.2:1.0"].Name(), ShouldEqual, "Amy")
				So(mpl["2.1:1.0"].Bound(), ShouldBeFalse)
				So(mpl.BoundCount(), ShouldEqual, 1)
			})
		})

		Convey("When binding to an unknown minimal path", func() {
			_, ok := mpl.Bind("9.9:1.0", "Bob")

			Convey("Then nothing changes", func() {
				So(ok, ShouldBeFalse)
				So(mpl.HasName("Bob"), ShouldBeFalse)
			})
		})

		Convey("When merging a rediscovery", func() {
			added := mpl.Merge([]model.NamedPath{
				{FullPath: "a2", MinimalPath: "2.1:1.0", RootEventPath: "/dev/input/event7"},
				{FullPath: "c", MinimalPath: "3.1:1.0", RootEventPath: "/dev/input/event8"},
			})

			Convey("Then existing entries and names win", func() {
				So(added, ShouldEqual, 1)
				So(mpl["2.1:1.0"].FullPath, ShouldEqual, "a")
				So(mpl["2.1:1.0"].Name(), ShouldEqual, "Amy")
				So(mpl["3.1:1.0"].Bound(), ShouldBeFalse)
			})
		})

		Convey("Then Sorted returns detached copies in minimal path order", func() {
			sorted := mpl.Sorted()
			So(sorted[0].MinimalPath, ShouldEqual, "2.1:1.0")
			So(sorted[1].MinimalPath, ShouldEqual, "2.2:1.0")
			*sorted[0].CommonName = "Changed"
			So(mpl["2.1:1.0"].Name(), ShouldEqual, "Amy")
			So(mpl.Names(), ShouldResemble, map[string]string{"2.1:1.0": "Amy"})
		})
	})
}

func TestNewEventPathLookup(t *testing.T) {
	Convey("Given discovered paths", t, func() {
		epl := model.NewEventPathLookup([]model.NamedPath{
			{MinimalPath: "2.1:1.0", RootEventPath: "/dev/input/event5"},
			{MinimalPath: "2.1:1.1", RootEventPath: "/dev/input/event6"},
		})

		So(epl, ShouldResemble, model.EventPathLookup{
			"/dev/input/event5": "2.1:1.0",
			"/dev/input/event6": "2.1:1.1",
		})
	})
}

func TestTeamLock(t *testing.T) {
	Convey("Given a two-team roster", t, func() {
		lock := model.TeamLock{Teams: []model.Team{
			{Name: "North", Players: []string{"Carol", "Dave"}},
			{Name: "South", Players: []string{"Erin"}},
		}}

		Convey("When locating players", func() {
			idx, ok := lock.TeamOf("Erin")
			So(ok, ShouldBeTrue)
			So(idx, ShouldEqual, 1)
			_, ok = lock.TeamOf("Nobody")
			So(ok, ShouldBeFalse)
		})

		Convey("When adding a player already in another team", func() {
			So(lock.Add(1, "Carol"), ShouldBeTrue)

			Convey("Then they appear only in the destination", func() {
				So(lock.Teams[0].Players, ShouldResemble, []string{"Dave"})
				So(lock.Teams[1].Players, ShouldResemble, []string{"Erin", "Carol"})
			})
		})

		Convey("When adding to a team index that does not exist", func() {
			So(lock.Add(3, "Carol"), ShouldBeFalse)
			So(lock.PlayerCount(), ShouldEqual, 3)
		})

		Convey("When pruning a player with no controller", func() {
			missing := lock.Prune(func(p string) bool { return p != "Dave" })

			Convey("Then only that player is dropped", func() {
				So(missing, ShouldResemble, []string{"Dave"})
				So(lock.Teams[0].Players, ShouldResemble, []string{"Carol"})
				So(lock.Teams[1].Players, ShouldResemble, []string{"Erin"})
			})
		})

		Convey("When resizing", func() {
			lock.Resize(4)
			So(len(lock.Teams), ShouldEqual, 4)
			So(lock.Teams[2].Name, ShouldEqual, "Team 3")
			So(lock.Teams[3].Players, ShouldBeEmpty)

			lock.Resize(1)
			So(len(lock.Teams), ShouldEqual, 1)
			_, ok := lock.TeamOf("Erin")
			So(ok, ShouldBeFalse)
		})

		Convey("When comparing rosters", func() {
			cp := lock.Clone()
			So(cp.Equal(lock), ShouldBeTrue)
			cp.Add(1, "Carol")
			So(cp.Equal(lock), ShouldBeFalse)
			So(lock.Equal(model.TeamLock{}), ShouldBeFalse)
		})

		Convey("When cloning", func() {
			cp := lock.Clone()
			cp.Teams[0].Players[0] = "Mallory"

			Convey("Then the original is untouched", func() {
				So(lock.Teams[0].Players[0], ShouldEqual, "Carol")
			})
		})
	})

	Convey("Given a fresh roster", t, func() {
		lock := model.NewTeamLock("Etherial Narwhals")
		So(lock.Teams, ShouldHaveLength, 1)
		So(lock.Teams[0].Name, ShouldEqual, "Etherial Narwhals")
		So(lock.Teams[0].Players, ShouldNotBeNil)
	})
}

func TestParseCommand(t *testing.T) {
	Convey("Given legacy command text", t, func() {
		cases := []struct {
			text string
			want model.Command
			ok   bool
		}{
			{"POST /setup HTTP/1.1\r\n\r\n", model.Command{Kind: model.CommandSetup}, true},
			{"POST /start HTTP/1.1\r\n\r\n", model.Command{Kind: model.CommandStart}, true},
			{"POST /team HTTP/1.1\r\nContent-Type: application/json\r\n\r\n{\"teams\": 3}", model.Command{Kind: model.CommandTeams, Teams: 3}, true},
			{`{"teams": "two"}`, model.Command{}, false},
			{`{"teams": -1}`, model.Command{}, false},
			{`{"other": 1}`, model.Command{}, false},
			{"hello", model.Command{}, false},
		}
		for _, c := range cases {
			got, ok := model.ParseCommand(c.text)
			So(ok, ShouldEqual, c.ok)
			So(got, ShouldResemble, c.want)
		}

		So(model.CommandTeams.String(), ShouldEqual, "teams")
		So(model.CommandKind(0).String(), ShouldEqual, "unknown")
	})
}
