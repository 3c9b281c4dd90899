package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/smartodonto/clinic-api/internal/model"
	"github.com/smartodonto/clinic-api/pkg/messaging"
)

// EventLogger writes every appointment event received from the broker to
// the log and counts it by type.
type EventLogger struct {
	processed *prometheus.CounterVec
	failed    prometheus.Counter
}

func NewEventLogger(namespace string, reg prometheus.Registerer) *EventLogger {
	factory := promauto.With(reg)
	return &EventLogger{
		processed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "events_processed_total",
			Help:      "Total number of appointment events consumed",
		}, []string{"type"}),
		failed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "events_failed_total",
			Help:      "Total number of messages that could not be decoded",
		}),
	}
}

// Run consumes msgs until ctx is canceled or the channel is closed.
func (w *EventLogger) Run(ctx context.Context, msgs <-chan []byte) {
	logger := log.Ctx(ctx)
	logger.Info().Msg("event worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("event worker shutting down")
			return
		case data, ok := <-msgs:
			if !ok {
				logger.Info().Msg("event stream closed")
				return
			}
			if err := w.handle(ctx, data); err != nil {
				w.failed.Inc()
				logger.Error().Err(err).Msg("failed to process event")
			}
		}
	}
}

func (w *EventLogger) handle(ctx context.Context, data []byte) error {
	env, err := messaging.DecodeEnvelope(data)
	if err != nil {
		return fmt.Errorf("failed to decode envelope: %w", err)
	}

	var event model.AppointmentEvent
	if err := json.Unmarshal(env.Payload, &event); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", env.Type, err)
	}

	log.Ctx(ctx).Info().
		Str("type", env.Type).
		Int64("appointment_id", event.AppointmentID).
		Int64("provider_id", event.ProviderID).
		Int64("patient_id", event.PatientID).
		Str("date", event.Date.String()).
		Int("hour", event.Hour).
		Str("status", event.Status.String()).
		Time("occurred_at", event.OccurredAt).
		Msg("appointment event")

	w.processed.WithLabelValues(env.Type).Inc()
	return nil
}
