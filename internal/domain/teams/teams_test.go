package teams

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/okian/mjoy/internal/domain/input"
	"github.com/okian/mjoy/internal/domain/input/inputtest"
	"github.com/okian/mjoy/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// bound builds lookups for controllers event0..eventN-1 named after players.
func bound(players ...string) (model.EventPathLookup, model.MinimalPathLookup, []*inputtest.Pad) {
	var paths []model.NamedPath
	var pads []*inputtest.Pad
	for i, p := range players {
		dev := fmt.Sprintf("/dev/input/event%d", i)
		paths = append(paths, model.NamedPath{
			FullPath:      "by-path-" + p,
			MinimalPath:   fmt.Sprintf("2.1:1.%d", i),
			RootEventPath: dev,
		})
		pads = append(pads, inputtest.NewPad(dev))
	}
	epl, mpl := model.NewEventPathLookup(paths), model.NewMinimalPathLookup(paths)
	for i, p := range players {
		if p != "" {
			mpl.Bind(fmt.Sprintf("2.1:1.%d", i), p)
		}
	}
	return epl, mpl, pads
}

func fourTeams() model.TeamLock {
	lock := model.NewTeamLock("Etherial Narwhals")
	lock.Resize(4)
	return lock
}

func TestEngine_Moves(t *testing.T) {
	Convey("Given Carol in team 0 of four", t, func() {
		ctx := context.Background()
		e := New()
		epl, mpl, pads := bound("Carol")
		lock := fourTeams()
		lock.Add(0, "Carol")

		Convey("When she pushes right", func() {
			pads[0].Push(1, 0)
			next, changed := e.Tick(ctx, lock, inputtest.Pads(pads...), epl, mpl)

			Convey("Then she moves to team 1", func() {
				So(changed, ShouldBeTrue)
				idx, ok := next.TeamOf("Carol")
				So(ok, ShouldBeTrue)
				So(idx, ShouldEqual, 1)
			})

			Convey("Then the input roster is untouched", func() {
				idx, _ := lock.TeamOf("Carol")
				So(idx, ShouldEqual, 0)
			})

			Convey("When she then pushes down", func() {
				pads[0].Push(0, 1)
				next, changed = e.Tick(ctx, next, inputtest.Pads(pads...), epl, mpl)

				Convey("Then she lands in team 3", func() {
					So(changed, ShouldBeTrue)
					idx, _ := next.TeamOf("Carol")
					So(idx, ShouldEqual, 3)
					So(next.PlayerCount(), ShouldEqual, 1)
				})
			})
		})

		Convey("When the stick is centred", func() {
			next, changed := e.Tick(ctx, lock, inputtest.Pads(pads...), epl, mpl)

			Convey("Then nothing changes", func() {
				So(changed, ShouldBeFalse)
				So(next, ShouldResemble, lock)
			})
		})

		Convey("When she pushes left out of the grid", func() {
			pads[0].Push(-1, 0)
			_, changed := e.Tick(ctx, lock, inputtest.Pads(pads...), epl, mpl)
			So(changed, ShouldBeFalse)
		})

		Convey("When she holds accept while already assigned", func() {
			pads[0].Press(input.Accept)
			_, changed := e.Tick(ctx, lock, inputtest.Pads(pads...), epl, mpl)
			So(changed, ShouldBeFalse)
		})
	})
}

func TestEngine_JoinAndLeave(t *testing.T) {
	Convey("Given Erin in team 2 and Frank in team 1", t, func() {
		ctx := context.Background()
		e := New()
		epl, mpl, pads := bound("Erin", "Frank", "Gail")
		lock := fourTeams()
		lock.Add(2, "Erin")
		lock.Add(1, "Frank")

		Convey("When Erin declines", func() {
			pads[0].Press(input.Decline)
			next, changed := e.Tick(ctx, lock, inputtest.Pads(pads...), epl, mpl)

			Convey("Then only team 2 loses her", func() {
				So(changed, ShouldBeTrue)
				So(next.Teams[2].Players, ShouldBeEmpty)
				So(next.Teams[1].Players, ShouldResemble, []string{"Frank"})
				So(next.Teams[0].Players, ShouldBeEmpty)
				So(next.Teams[3].Players, ShouldBeEmpty)
			})
		})

		Convey("When unassigned Gail accepts", func() {
			pads[2].Press(input.Accept)
			next, changed := e.Tick(ctx, lock, inputtest.Pads(pads...), epl, mpl)

			Convey("Then she joins team 0", func() {
				So(changed, ShouldBeTrue)
				So(next.Teams[0].Players, ShouldResemble, []string{"Gail"})
			})
		})

		Convey("When unassigned Gail declines", func() {
			pads[2].Press(input.Decline)
			next, changed := e.Tick(ctx, lock, inputtest.Pads(pads...), epl, mpl)

			Convey("Then the roster is the same but the tick reports a change", func() {
				So(changed, ShouldBeTrue)
				So(next, ShouldResemble, lock)
			})
		})

		Convey("When unassigned Gail only moves the stick", func() {
			pads[2].Push(1, 1)
			_, changed := e.Tick(ctx, lock, inputtest.Pads(pads...), epl, mpl)
			So(changed, ShouldBeFalse)
		})
	})
}

func TestEngine_Unnamed(t *testing.T) {
	Convey("Given one unbound controller and one unknown controller", t, func() {
		ctx := context.Background()
		epl, mpl, pads := bound("")
		stray := inputtest.NewPad("/dev/input/event99").Press(input.Accept)
		pads[0].Press(input.Accept)
		lock := fourTeams()

		next, changed := New().Tick(ctx, lock, inputtest.Pads(pads[0], stray), epl, mpl)

		Convey("Then both are ignored", func() {
			So(changed, ShouldBeFalse)
			So(next.PlayerCount(), ShouldEqual, 0)
		})
	})
}

func TestEngine_SmallRoster(t *testing.T) {
	Convey("Given a roster of two teams", t, func() {
		ctx := context.Background()
		epl, mpl, pads := bound("Hal")
		lock := model.NewTeamLock("Etherial Narwhals")
		lock.Resize(2)
		lock.Add(0, "Hal")

		Convey("When Hal pushes down towards missing team 2", func() {
			pads[0].Push(0, 1)
			next, changed := New().Tick(ctx, lock, inputtest.Pads(pads...), epl, mpl)

			Convey("Then he stays put", func() {
				So(changed, ShouldBeFalse)
				idx, _ := next.TeamOf("Hal")
				So(idx, ShouldEqual, 0)
			})
		})

		Convey("When Hal pushes right to team 1", func() {
			pads[0].Push(1, 0)
			next, changed := New().Tick(ctx, lock, inputtest.Pads(pads...), epl, mpl)
			So(changed, ShouldBeTrue)
			idx, _ := next.TeamOf("Hal")
			So(idx, ShouldEqual, 1)
		})
	})

	Convey("Given a roster with no teams", t, func() {
		epl, mpl, pads := bound("Ivy")
		pads[0].Press(input.Accept)

		next, changed := New().Tick(context.Background(), model.TeamLock{}, inputtest.Pads(pads...), epl, mpl)

		Convey("Then accept cannot place anyone", func() {
			So(changed, ShouldBeFalse)
			So(next.Teams, ShouldBeEmpty)
		})
	})
}

func TestEngine_Invariant(t *testing.T) {
	Convey("Given random input over many ticks", t, func() {
		ctx := context.Background()
		rng := rand.New(rand.NewPCG(7, 11))
		players := []string{"A", "B", "C", "D", "E", "F"}
		epl, mpl, pads := bound(players...)
		lock := fourTeams()
		e := New()

		for tick := 0; tick < 500; tick++ {
			for _, p := range pads {
				p.Release()
				switch rng.IntN(4) {
				case 0:
					p.Press(input.Accept)
				case 1:
					p.Press(input.Decline)
				default:
					p.Push(rng.IntN(3)-1, rng.IntN(3)-1)
				}
			}
			lock, _ = e.Tick(ctx, lock, inputtest.Pads(pads...), epl, mpl)

			seen := map[string]int{}
			for _, team := range lock.Teams {
				for _, pl := range team.Players {
					seen[pl]++
				}
			}
			for _, count := range seen {
				So(count, ShouldEqual, 1)
			}
		}
	})
}

func TestGrid2x2(t *testing.T) {
	Convey("Given the grid table", t, func() {
		cases := []struct {
			from, h, v int
			to         int
			ok         bool
		}{
			{0, 1, 0, 1, true},
			{0, 0, 1, 2, true},
			{0, 1, 1, 1, true},
			{1, -1, 0, 0, true},
			{1, 0, 1, 3, true},
			{2, 1, 0, 3, true},
			{2, 0, -1, 0, true},
			{3, -1, 0, 2, true},
			{3, 0, -1, 1, true},
			{0, -1, -1, 0, false},
			{3, 1, 1, 0, false},
			{4, 1, 0, 0, false},
		}
		for _, c := range cases {
			to, ok := Grid2x2(c.from, c.h, c.v)
			So(ok, ShouldEqual, c.ok)
			if c.ok {
				So(to, ShouldEqual, c.to)
			}
		}
	})
}

func TestWithAdjacency(t *testing.T) {
	Convey("Given a ring adjacency over five teams", t, func() {
		ring := func(current, h, _ int) (int, bool) {
			if h == 0 {
				return 0, false
			}
			return (current + h + 5) % 5, true
		}
		epl, mpl, pads := bound("Jo")
		lock := fourTeams()
		lock.Resize(5)
		lock.Add(4, "Jo")
		pads[0].Push(1, 0)

		next, changed := New(WithAdjacency(ring)).Tick(context.Background(), lock, inputtest.Pads(pads...), epl, mpl)

		Convey("Then movement wraps around", func() {
			So(changed, ShouldBeTrue)
			idx, _ := next.TeamOf("Jo")
			So(idx, ShouldEqual, 0)
		})
	})
}
