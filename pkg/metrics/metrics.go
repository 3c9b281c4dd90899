package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the domain metrics of the scheduling service. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	// Schedule metrics
	ScheduleRenders *prometheus.CounterVec
	ScheduleSlots   *prometheus.HistogramVec

	// Booking metrics
	AppointmentsCreated prometheus.Counter
	BookingConflicts    prometheus.Counter
	BookingRetries      prometheus.Counter
	StatusChanges       *prometheus.CounterVec

	// Event metrics
	EventsPublished *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ScheduleRenders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "schedule",
			Name:      "renders_total",
			Help:      "Total number of schedule views computed",
		}, []string{"view"}),
		ScheduleSlots: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "schedule",
			Name:      "slots",
			Help:      "Number of slots or cells per computed view",
			Buckets:   []float64{0, 10, 20, 50, 100, 250, 500, 1000},
		}, []string{"view"}),
		AppointmentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "appointments_created_total",
			Help:      "Total number of appointments booked",
		}),
		BookingConflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "conflicts_total",
			Help:      "Total number of bookings rejected because the slot was taken",
		}),
		BookingRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "retries_total",
			Help:      "Total number of booking attempts retried after a transient store error",
		}),
		StatusChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "status_changes_total",
			Help:      "Total number of appointment status changes",
		}, []string{"status"}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Total number of appointment events published",
		}, []string{"type", "result"}),
	}
}

func (m *Metrics) ObserveScheduleRender(view string, slots int) {
	if m == nil {
		return
	}
	m.ScheduleRenders.WithLabelValues(view).Inc()
	m.ScheduleSlots.WithLabelValues(view).Observe(float64(slots))
}

func (m *Metrics) IncAppointmentsCreated() {
	if m == nil {
		return
	}
	m.AppointmentsCreated.Inc()
}

func (m *Metrics) IncBookingConflicts() {
	if m == nil {
		return
	}
	m.BookingConflicts.Inc()
}

func (m *Metrics) IncBookingRetries() {
	if m == nil {
		return
	}
	m.BookingRetries.Inc()
}

func (m *Metrics) IncStatusChange(status string) {
	if m == nil {
		return
	}
	m.StatusChanges.WithLabelValues(status).Inc()
}

func (m *Metrics) IncEventsPublished(eventType string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.EventsPublished.WithLabelValues(eventType, result).Inc()
}
