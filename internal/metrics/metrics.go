// Package metrics exposes rental activity as Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/honkyrot/BikeRentalSystem/internal/models"
)

const namespace = "bikerental"

// Metrics holds the collectors updated by the ledger.
type Metrics struct {
	ticketsOpened  prometheus.Counter
	ticketsClosed  prometheus.Counter
	overdueReturns prometheus.Counter
	revenue        prometheus.Counter
	activeRentals  prometheus.Gauge
	bikes          *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ticketsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_opened_total",
			Help:      "Rental tickets opened.",
		}),
		ticketsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_closed_total",
			Help:      "Rental tickets closed.",
		}),
		overdueReturns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overdue_returns_total",
			Help:      "Bikes returned after their planned hours.",
		}),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revenue_total",
			Help:      "Fees charged on closed tickets.",
		}),
		activeRentals: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rentals",
			Help:      "Tickets currently active.",
		}),
		bikes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bikes",
			Help:      "Bikes in inventory by status.",
		}, []string{"status"}),
	}

	reg.MustRegister(
		m.ticketsOpened,
		m.ticketsClosed,
		m.overdueReturns,
		m.revenue,
		m.activeRentals,
		m.bikes,
	)
	return m
}

// TicketOpened records a new rental.
func (m *Metrics) TicketOpened() {
	m.ticketsOpened.Inc()
}

// TicketClosed records a return and the fee charged for it.
func (m *Metrics) TicketClosed(fee float64, overdue bool) {
	m.ticketsClosed.Inc()
	if fee > 0 {
		m.revenue.Add(fee)
	}
	if overdue {
		m.overdueReturns.Inc()
	}
}

// Inventory sets the inventory and active rental gauges.
// Every known status is written so that emptied statuses drop to zero.
func (m *Metrics) Inventory(byStatus map[models.BikeStatus]int, activeRentals int) {
	for _, status := range models.BikeStatuses {
		m.bikes.WithLabelValues(string(status)).Set(float64(byStatus[status]))
	}
	m.activeRentals.Set(float64(activeRentals))
}
