package input_test

import (
	"testing"

	"github.com/okian/mjoy/internal/domain/input"
	"github.com/okian/mjoy/internal/domain/input/inputtest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDirection(t *testing.T) {
	Convey("Given a pad with settable axes", t, func() {
		pad := inputtest.NewPad("/dev/input/event3")

		Convey("Then raw values are discretised with 0.1 and 0.9 thresholds", func() {
			for _, c := range []struct {
				raw  float64
				want int
			}{{0, -1}, {0.09, -1}, {0.1, 0}, {0.5, 0}, {0.9, 0}, {0.91, 1}, {1, 1}} {
				pad.Values[input.Horizontal] = c.raw
				So(input.Direction(pad, input.Horizontal), ShouldEqual, c.want)
			}
		})

		Convey("Then an unreported axis has no direction", func() {
			delete(pad.Values, input.Vertical)
			So(input.Direction(pad, input.Vertical), ShouldEqual, 0)
		})
	})
}

func TestPressed(t *testing.T) {
	Convey("Given a pad", t, func() {
		pad := inputtest.NewPad("/dev/input/event3")

		So(input.Pressed(pad, input.Accept), ShouldBeFalse)
		pad.Values[input.Accept] = 0.9
		So(input.Pressed(pad, input.Accept), ShouldBeFalse)
		pad.Press(input.Accept)
		So(input.Pressed(pad, input.Accept), ShouldBeTrue)
		So(input.ValueOr(pad, input.Decline), ShouldEqual, 0)
	})
}

func TestControlNames(t *testing.T) {
	Convey("Given configuration keys", t, func() {
		c, ok := input.ControlByName("decline")
		So(ok, ShouldBeTrue)
		So(c, ShouldEqual, input.Decline)

		_, ok = input.ControlByName("horizontal")
		So(ok, ShouldBeFalse)
		_, ok = input.ControlByName("turbo")
		So(ok, ShouldBeFalse)

		So(input.Start.String(), ShouldEqual, "start")
		So(input.Control(99).String(), ShouldEqual, "unknown")
		So(input.Disconnected.String(), ShouldEqual, "disconnected")
	})
}
