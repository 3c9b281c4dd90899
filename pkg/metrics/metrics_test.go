package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := New("clinic", prometheus.NewRegistry())

	m.ObserveScheduleRender("day", 10)
	m.IncBookingConflicts()
	m.IncEventsPublished("appointment.scheduled", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScheduleRenders.WithLabelValues("day")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingConflicts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues("appointment.scheduled", "error")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveScheduleRender("range", 30)
		m.IncAppointmentsCreated()
		m.IncBookingRetries()
		m.IncStatusChange("confirmed")
	})
}
