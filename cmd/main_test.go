package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/mjoy/internal/adapters/mq/queue"
	service "github.com/okian/mjoy/internal/app"
	"github.com/okian/mjoy/internal/config"
	"github.com/okian/mjoy/internal/domain/input/inputtest"
	"github.com/okian/mjoy/pkg/logger"
)

func TestMainConfiguration(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When configuration comes from the environment", func() {
			_ = os.Setenv("MJOY_ADDR", ":8080")
			_ = os.Setenv("MJOY_COMMAND_QUEUE_SIZE", "8")
			defer func() {
				_ = os.Unsetenv("MJOY_ADDR")
				_ = os.Unsetenv("MJOY_COMMAND_QUEUE_SIZE")
			}()

			convey.Convey("Then it should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.CommandQueueSize, convey.ShouldEqual, 8)
			})
		})

		convey.Convey("When the listen address is blanked", func() {
			_ = os.Setenv("MJOY_ADDR", "")
			defer func() { _ = os.Unsetenv("MJOY_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When building the HTTP server", func() {
			srv := newHTTPServer(":0", http.NewServeMux())

			convey.Convey("Then timeouts are applied", func() {
				convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, readHeaderTimeout)
				convey.So(srv.WriteTimeout, convey.ShouldEqual, writeTimeout)
			})
		})

		convey.Convey("When runtime collectors are registered twice", func() {
			convey.So(registerRuntimeCollectors, convey.ShouldNotPanic)
			convey.So(registerRuntimeCollectors, convey.ShouldNotPanic)
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given a wired session over temporary files", t, func() {
		dir := t.TempDir()
		devices := filepath.Join(dir, "by-path")
		convey.So(os.Mkdir(devices, 0o755), convey.ShouldBeNil)
		convey.So(os.WriteFile(filepath.Join(dir, "names.txt"), []byte("Alice\nBob\n"), 0o644), convey.ShouldBeNil)

		cfg := config.New()
		cfg.DeviceDir = devices
		cfg.EventDir = dir
		cfg.ControllerBindingsFile = filepath.Join(dir, "bindings.json")
		cfg.BindingNamesFile = filepath.Join(dir, "names.txt")
		cfg.TeamLockFile = filepath.Join(dir, "teamlock.json")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		commands := queue.NewInMemoryQueue(queue.WithCapacity(cfg.CommandQueueSize))
		session := newSession(cfg, &inputtest.Provider{}, commands, logger.Get())
		convey.So(session.Start(ctx), convey.ShouldBeNil)

		mux := newMux(ctx, commands, session)

		convey.Convey("When the operator asks for two teams", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/teams", strings.NewReader(`{"teams":2}`)))
			convey.So(rec.Code, convey.ShouldEqual, http.StatusAccepted)

			_, err := session.Step(ctx)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the session reports team select", func() {
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)

				var stats map[string]any
				convey.So(json.Unmarshal(rec.Body.Bytes(), &stats), convey.ShouldBeNil)
				convey.So(stats["state"], convey.ShouldEqual, service.StateTeamSelect.String())
				convey.So(stats["teams"], convey.ShouldEqual, float64(2))
			})

			convey.Convey("Then the lock file holds two teams", func() {
				data, err := os.ReadFile(cfg.TeamLockFile)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(data), convey.ShouldContainSubstring, `"Team 2"`)
			})
		})

		convey.Convey("When browsing the read-only surfaces", func() {
			for _, path := range []string{"/healthz", "/metrics", "/openapi.yaml", "/roster", "/bindings", "/"} {
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			}

			convey.Convey("Then feedback is unavailable before a game starts", func() {
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feedback", nil))
				convey.So(rec.Code, convey.ShouldEqual, http.StatusNotFound)
			})
		})
	})
}
