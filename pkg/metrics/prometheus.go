// Package metrics provides Prometheus metrics for the mjoy controller session.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the session daemon.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Session loop
	ticks          *prometheus.CounterVec
	hardwareEvents *prometheus.CounterVec
	stateChanges   *prometheus.CounterVec
	buttonThresh   prometheus.Gauge

	// Device identity
	pathRebuilds      prometheus.Counter
	discoveryLatency  prometheus.Histogram
	discoveredDevices prometheus.Gauge
	connectedPads     prometheus.Gauge

	// Binding
	bindingsClaimed  prometheus.Counter
	bindingsSkipped  prometheus.Counter
	bindingsStolen   prometheus.Counter
	namesRemaining   prometheus.Gauge
	boundControllers prometheus.Gauge

	// Teams
	teamMutations  *prometheus.CounterVec
	teamPlayers    *prometheus.GaugeVec
	playersPruned  prometheus.Counter
	fileWrites     *prometheus.CounterVec
	fileWriteFails *prometheus.CounterVec

	// Operator commands
	commands           *prometheus.CounterVec
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueueErrors *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "mjoy",
		subsystem:        "session",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250},
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	m.ticks = m.counterVec("ticks_total", "Loop iterations that ran an engine, by session state", "state")
	m.hardwareEvents = m.counterVec("hardware_events_total", "Input events consumed from the gamepad provider, by kind", "kind")
	m.stateChanges = m.counterVec("state_changes_total", "Session state transitions, by destination state", "state")
	m.buttonThresh = m.gauge("button_threshold", "Current GameActive button activation threshold")

	m.pathRebuilds = m.counter("path_rebuilds_total", "Event path lookup rebuilds triggered by hotplug")
	m.discoveryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "discovery_latency_milliseconds",
		Help:        "Time spent scanning the by-path device directory",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})
	m.discoveredDevices = m.gauge("discovered_devices", "Joysticks found by the last device tree scan")
	m.connectedPads = m.gauge("connected_gamepads", "Gamepads currently reported by the input provider")

	m.bindingsClaimed = m.counter("bindings_claimed_total", "Candidate names bound to a controller")
	m.bindingsSkipped = m.counter("bindings_skipped_total", "Candidate names skipped with the decline button")
	m.bindingsStolen = m.counter("bindings_stolen_total", "Names moved away from a previously bound controller")
	m.namesRemaining = m.gauge("binding_names_remaining", "Candidate names still waiting to be bound")
	m.boundControllers = m.gauge("bound_controllers", "Controllers that currently carry a common name")

	m.teamMutations = m.counterVec("team_mutations_total", "Roster changes, by action", "action")
	m.teamPlayers = promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "team_players",
		Help:        "Players per team",
		ConstLabels: m.constLabels,
	}, []string{"team"})
	m.playersPruned = m.counter("players_pruned_total", "Players dropped from the lock file because no controller carries their name")
	m.fileWrites = m.counterVec("file_writes_total", "Persisted file rewrites, by file", "file")
	m.fileWriteFails = m.counterVec("file_write_failures_total", "Failed persisted file rewrites, by file", "file")

	m.commands = m.counterVec("commands_total", "Operator commands applied, by command", "command")
	m.queueSize = m.gauge("command_queue_size", "Operator commands waiting for the session loop")
	m.queueCapacity = m.gauge("command_queue_capacity", "Operator command queue capacity")
	m.queueEnqueueErrors = m.counterVec("command_queue_enqueue_errors_total", "Rejected operator commands, by reason", "reason")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = m.counterVec("errors_total", "Errors by component and type", "component", "error_type")
}

// RecordTick counts a loop iteration that ran the engine for state.
func RecordTick(state string) {
	globalManager.ticks.WithLabelValues(state).Inc()
}

// RecordHardwareEvent counts a consumed provider event.
func RecordHardwareEvent(kind string) {
	globalManager.hardwareEvents.WithLabelValues(kind).Inc()
}

// RecordStateChange counts a transition into state.
func RecordStateChange(state string) {
	globalManager.stateChanges.WithLabelValues(state).Inc()
}

// UpdateButtonThreshold sets the GameActive activation threshold.
func UpdateButtonThreshold(v float64) {
	globalManager.buttonThresh.Set(v)
}

// RecordPathRebuild counts an event lookup rebuild.
func RecordPathRebuild() {
	globalManager.pathRebuilds.Inc()
}

// RecordDiscovery records a device tree scan.
func RecordDiscovery(latencyMs float64, devices int) {
	globalManager.discoveryLatency.Observe(latencyMs)
	globalManager.discoveredDevices.Set(float64(devices))
}

// UpdateConnectedGamepads sets the number of live gamepads.
func UpdateConnectedGamepads(n int) {
	globalManager.connectedPads.Set(float64(n))
}

// RecordBindingClaimed counts a successful claim.
func RecordBindingClaimed() {
	globalManager.bindingsClaimed.Inc()
}

// RecordBindingSkipped counts a declined candidate.
func RecordBindingSkipped() {
	globalManager.bindingsSkipped.Inc()
}

// RecordBindingStolen counts names cleared from a previous holder.
func RecordBindingStolen(n int) {
	globalManager.bindingsStolen.Add(float64(n))
}

// UpdateNamesRemaining sets the size of the binding worklist.
func UpdateNamesRemaining(n int) {
	globalManager.namesRemaining.Set(float64(n))
}

// UpdateBoundControllers sets the number of named controllers.
func UpdateBoundControllers(n int) {
	globalManager.boundControllers.Set(float64(n))
}

// RecordTeamMutation counts a roster change (join, leave, move, resize).
func RecordTeamMutation(action string) {
	globalManager.teamMutations.WithLabelValues(action).Inc()
}

// UpdateTeamPlayers sets the player count for team.
func UpdateTeamPlayers(team string, n int) {
	globalManager.teamPlayers.WithLabelValues(team).Set(float64(n))
}

// ResetTeamPlayers drops all per-team gauges, used before republishing a resized roster.
func ResetTeamPlayers() {
	globalManager.teamPlayers.Reset()
}

// RecordPlayersPruned counts players removed at startup.
func RecordPlayersPruned(n int) {
	globalManager.playersPruned.Add(float64(n))
}

// RecordFileWrite counts a persisted rewrite of file.
func RecordFileWrite(file string) {
	globalManager.fileWrites.WithLabelValues(file).Inc()
}

// RecordFileWriteFailure counts a failed rewrite of file.
func RecordFileWriteFailure(file string) {
	globalManager.fileWriteFails.WithLabelValues(file).Inc()
}

// RecordCommand counts an applied operator command.
func RecordCommand(command string) {
	globalManager.commands.WithLabelValues(command).Inc()
}

// UpdateQueueSize sets the command queue length.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the command queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueueError counts a rejected enqueue.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// RecordHTTPRequest records an HTTP request with its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent records an error for component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom registry.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
