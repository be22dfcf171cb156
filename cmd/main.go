package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/mjoy/internal/adapters/devtree"
	"github.com/okian/mjoy/internal/adapters/evdev"
	"github.com/okian/mjoy/internal/adapters/http/api"
	"github.com/okian/mjoy/internal/adapters/http/site"
	"github.com/okian/mjoy/internal/adapters/http/swagger"
	"github.com/okian/mjoy/internal/adapters/mq/queue"
	"github.com/okian/mjoy/internal/adapters/storage"
	service "github.com/okian/mjoy/internal/app"
	"github.com/okian/mjoy/internal/config"
	"github.com/okian/mjoy/internal/domain/feedback"
	"github.com/okian/mjoy/internal/domain/input"
	"github.com/okian/mjoy/pkg/logger"
	"github.com/okian/mjoy/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if cfg.LogJSON {
		_ = logger.Init(logger.WithJSON(true))
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	registerRuntimeCollectors()

	pads, err := evdev.New(ctx,
		evdev.WithDir(cfg.EventDir),
		evdev.WithPathDir(cfg.DeviceDir),
		evdev.WithButtons(cfg.Buttons),
		evdev.WithLogger(log.Named("evdev")),
	)
	if err != nil {
		log.Fatal(ctx, "cannot open gamepads", logger.Error(err))
		return
	}
	defer func() { _ = pads.Close() }()

	commands := queue.NewInMemoryQueue(queue.WithCapacity(cfg.CommandQueueSize))
	defer func() { _ = commands.Close() }()

	session := newSession(cfg, pads, commands, log)
	if err := session.Start(ctx); err != nil {
		log.Fatal(ctx, "session startup failed", logger.Error(err))
		return
	}

	srv := newHTTPServer(cfg.Addr, newMux(ctx, commands, session))
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	runErr := session.Run(ctx)

	log.Info(ctx, "shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	if runErr != nil {
		log.Fatal(ctx, "session loop stopped", logger.Error(runErr))
		return
	}
	log.Info(ctx, "server stopped")
}

// newSession wires the session loop to its stores and engines.
func newSession(cfg *config.Config, pads input.Provider, commands service.CommandSource, log logger.Logger) *service.Session {
	resolver := devtree.New(
		devtree.WithDir(cfg.DeviceDir),
		devtree.WithEventDir(cfg.EventDir),
		devtree.WithMultiPortCap(cfg.NumberOfMultiPortControllersToUse),
		devtree.WithLogger(log.Named("devtree")),
	)
	bindings := storage.NewBindings(cfg.ControllerBindingsFile,
		storage.WithStrict(cfg.StrictBindings),
		storage.WithBindingsLogger(log.Named("bindings")),
	)
	locks := storage.NewTeamLocks(cfg.TeamLockFile, cfg.DefaultTeamName, log.Named("teamlock"))

	return service.New(pads, resolver, bindings, locks,
		service.WithCommands(commands),
		service.WithNamesLoader(func() ([]string, error) {
			return storage.ReadNames(cfg.BindingNamesFile)
		}),
		service.WithFeedbackBuilder(feedback.New(feedback.WithHatOnlyPlayers(cfg.HatOnlyPlayers))),
		service.WithPollInterval(time.Duration(cfg.PollIntervalMS)*time.Millisecond),
		service.WithNameWidth(cfg.PathCommonNameMaxLength),
		service.WithLogger(log.Named("session")),
	)
}

// newMux registers the operator API, the API docs and the console.
func newMux(ctx context.Context, commands api.Commands, snapshots api.Snapshots) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(commands, snapshots).Register(ctx, mux)
	site.Register(ctx, mux)
	return mux
}

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// registerRuntimeCollectors adds Go runtime and process metrics to the
// custom registry served at /metrics. Repeated calls are harmless.
func registerRuntimeCollectors() {
	reg := metrics.GetRegistry()
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				logger.Get().Warn(context.Background(), "runtime collector not registered", logger.Error(err))
			}
		}
	}
}
