package api

import (
	"time"

	log "github.com/sirupsen/logrus"
)

type boardRequestMetrics struct {
	logger          *log.Logger
	route           string
	start           time.Time
	refreshDuration time.Duration
	listDuration    time.Duration
	encodeDuration  time.Duration
	tasksReturned   int
	errorStage      string
}

func newBoardRequestMetrics(route string, logger *log.Logger) *boardRequestMetrics {
	return &boardRequestMetrics{
		logger: logger,
		route:  route,
		start:  time.Now(),
	}
}

func (m *boardRequestMetrics) ObserveRefresh(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.refreshDuration = duration
}

func (m *boardRequestMetrics) ObserveList(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.listDuration = duration
}

func (m *boardRequestMetrics) ObserveEncode(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.encodeDuration = duration
}

func (m *boardRequestMetrics) SetTasksReturned(count int) {
	if count < 0 {
		count = 0
	}
	m.tasksReturned = count
}

func (m *boardRequestMetrics) SetErrorStage(stage string) {
	if stage == "" {
		return
	}
	m.errorStage = stage
}

func (m *boardRequestMetrics) Log(status int, err error) {
	if m == nil || m.logger == nil {
		return
	}

	fields := log.Fields{
		"route":          m.route,
		"status":         status,
		"total_ms":       durationToMillis(time.Since(m.start)),
		"tasks_returned": m.tasksReturned,
	}

	if m.refreshDuration > 0 {
		fields["refresh_ms"] = durationToMillis(m.refreshDuration)
	}
	if m.listDuration > 0 {
		fields["list_ms"] = durationToMillis(m.listDuration)
	}
	if m.encodeDuration > 0 {
		fields["encode_ms"] = durationToMillis(m.encodeDuration)
	}
	if m.errorStage != "" {
		fields["error_stage"] = m.errorStage
	}
	if err != nil {
		fields["error"] = err.Error()
	}

	m.logger.WithFields(fields).Info("tasks.request.metrics")
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
