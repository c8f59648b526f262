package monitoring

import (
	"context"
	"log"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticketOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_operations_total",
			Help: "Total ticket operations by outcome",
		},
		[]string{"operation", "status"},
	)

	registrationOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_operations_total",
			Help: "Total scan prototype operations by outcome",
		},
		[]string{"operation", "status"},
	)

	ticketsStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tickets_stored_total",
			Help: "Current number of tickets in the store",
		},
	)

	ticketsValidated = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tickets_validated_stored_total",
			Help: "Current number of validated tickets in the store",
		},
	)
)

// TrackTicketOperation counts a primary-flow ticket operation
func TrackTicketOperation(operation, status string) {
	ticketOperations.WithLabelValues(operation, status).Inc()
}

// TrackRegistrationOperation counts a scan prototype operation
func TrackRegistrationOperation(operation, status string) {
	registrationOperations.WithLabelValues(operation, status).Inc()
}

type Monitor struct {
	app      core.App
	interval time.Duration
}

func NewMonitor(app core.App, interval time.Duration) *Monitor {
	return &Monitor{app: app, interval: interval}
}

// Run samples collection-size gauges until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.collectTicketMetrics()
		}
	}
}

func (m *Monitor) collectTicketMetrics() {
	var total, validated int

	if err := m.app.DB().NewQuery("SELECT COUNT(*) FROM {{tickets}}").Row(&total); err != nil {
		log.Printf("Error counting tickets: %v", err)
		return
	}
	if err := m.app.DB().NewQuery("SELECT COUNT(*) FROM {{tickets}} WHERE validated = 1").Row(&validated); err != nil {
		log.Printf("Error counting validated tickets: %v", err)
		return
	}

	ticketsStored.Set(float64(total))
	ticketsValidated.Set(float64(validated))
}
