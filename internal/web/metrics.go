package web

import (
	"sync/atomic"
	"time"
)

// Metrics collects in-memory counters for the web shell.
type Metrics struct {
	startTime    time.Time
	requests     atomic.Int64
	serverErrors atomic.Int64
	clientErrors atomic.Int64
	imports      atomic.Int64
	tasksCreated atomic.Int64
	tasksFailed  atomic.Int64
}

// MetricsSnapshot is a point-in-time view of the counters.
type MetricsSnapshot struct {
	UptimeSeconds float64 `json:"uptime_seconds"`
	Requests      int64   `json:"requests"`
	ServerErrors  int64   `json:"server_errors"`
	ClientErrors  int64   `json:"client_errors"`
	Imports       int64   `json:"imports"`
	TasksCreated  int64   `json:"tasks_created"`
	TasksFailed   int64   `json:"tasks_failed"`
}

// NewMetrics creates a new Metrics instance with the current time as start.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordRequest increments the total request counter.
func (m *Metrics) RecordRequest() {
	m.requests.Add(1)
}

// RecordError increments the server error (5xx) counter.
func (m *Metrics) RecordError() {
	m.serverErrors.Add(1)
}

// RecordClientError increments the client error (4xx) counter.
func (m *Metrics) RecordClientError() {
	m.clientErrors.Add(1)
}

// RecordImport counts a finished import and its task outcomes.
func (m *Metrics) RecordImport(created, failed int) {
	m.imports.Add(1)
	m.tasksCreated.Add(int64(created))
	m.tasksFailed.Add(int64(failed))
}

// Snapshot returns a point-in-time copy of the metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		UptimeSeconds: time.Since(m.startTime).Seconds(),
		Requests:      m.requests.Load(),
		ServerErrors:  m.serverErrors.Load(),
		ClientErrors:  m.clientErrors.Load(),
		Imports:       m.imports.Load(),
		TasksCreated:  m.tasksCreated.Load(),
		TasksFailed:   m.tasksFailed.Load(),
	}
}
