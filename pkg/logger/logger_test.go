package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given an initialised text logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf)), ShouldBeNil)
		defer func() { _ = Sync() }()

		Convey("When logging an info message with fields", func() {
			Get().Info(context.Background(), "test message", String("k", "v"), Int("n", 3))

			Convey("Then the message, fields and source are written", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "test message")
				So(out, ShouldContainSubstring, "k=v")
				So(out, ShouldContainSubstring, "n=3")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging below the configured level", func() {
			Get().Debug(context.Background(), "hidden")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the level is lowered to debug", func() {
			So(SetLevelString("debug"), ShouldBeNil)
			Get().Debug(context.Background(), "visible")

			Convey("Then debug messages are written", func() {
				So(buf.String(), ShouldContainSubstring, "visible")
			})
		})
	})
}

func TestLoggerJSON(t *testing.T) {
	Convey("Given a JSON logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithJSON(true)), ShouldBeNil)

		Convey("When a named logger with attached fields logs an error", func() {
			Named("resolver").With(String("session", "abc")).Error(context.Background(), "failed", Error(errors.New("boom")))

			Convey("Then the record carries component, attached fields and error", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "failed")
				So(rec["component"], ShouldEqual, "resolver")
				So(rec["session"], ShouldEqual, "abc")
				So(rec["error"], ShouldEqual, "boom")
			})
		})
	})
}

func TestLoggerFatal(t *testing.T) {
	Convey("Given a logger with an observed exit", t, func() {
		var buf bytes.Buffer
		code := -1
		So(Init(WithWriter(&buf), WithExit(func(c int) { code = c })), ShouldBeNil)

		Convey("When Fatal is called", func() {
			Get().Fatal(context.Background(), "cannot read device tree")

			Convey("Then it logs and exits with status 1", func() {
				So(code, ShouldEqual, 1)
				So(buf.String(), ShouldContainSubstring, "cannot read device tree")
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		for _, lvl := range []string{"debug", "info", "", "WARN", "warning", "error"} {
			So(SetLevelString(lvl), ShouldBeNil)
		}

		Convey("Then unknown levels are rejected", func() {
			err := SetLevelString("verbose")
			So(err, ShouldNotBeNil)
			So(strings.Contains(err.Error(), "verbose"), ShouldBeTrue)
		})
		_ = SetLevelString("info")
	})
}
